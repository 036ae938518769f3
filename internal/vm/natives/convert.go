package natives

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

// RegisterConvertFunctions registers the convert family (10 natives).
func RegisterConvertFunctions(r *Registry) {
	r.Register("to_int", nativeToInt, CategoryConvert, "convert to an integer")
	r.Register("to_float", nativeToFloat, CategoryConvert, "convert to a float")
	r.Register("to_string", nativeToString, CategoryConvert, "convert to a string")
	r.Register("to_bool", nativeToBool, CategoryConvert, "convert to a boolean by truthiness")
	r.Register("to_list", nativeToList, CategoryConvert, "convert a string, set or dict to a list")
	r.Register("to_dict", nativeToDict, CategoryConvert, "convert a list of [key, value] pairs to a dict")
	r.Register("to_hex", nativeToHex, CategoryConvert, "integer to 0x-prefixed hex string")
	r.Register("to_bin", nativeToBin, CategoryConvert, "integer to 0b-prefixed binary string")
	r.Register("parse_json", nativeParseJSON, CategoryConvert, "parse a JSON string into a value")
	r.Register("stringify_json", nativeStringifyJSON, CategoryConvert, "encode a value as a JSON string")
}

func nativeToInt(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("to_int", args, 1); err != nil {
		return runtime.Value{}, err
	}
	switch args[0].Kind {
	case runtime.KindInt:
		return args[0], nil
	case runtime.KindFloat:
		return runtime.IntValue(int64(args[0].Float)), nil
	case runtime.KindBool:
		if args[0].Bool {
			return runtime.IntValue(1), nil
		}
		return runtime.IntValue(0), nil
	case runtime.KindString:
		s := strings.TrimSpace(args[0].Str)
		if v, err := strconv.ParseInt(s, 0, 64); err == nil {
			return runtime.IntValue(v), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return runtime.IntValue(int64(f)), nil
		}
		return runtime.Value{}, runtime.NewError(runtime.ValueError, "to_int: invalid literal %q", args[0].Str)
	}
	return runtime.Value{}, kindError("to_int", "a number, bool or string", args[0])
}

func nativeToFloat(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("to_float", args, 1); err != nil {
		return runtime.Value{}, err
	}
	switch args[0].Kind {
	case runtime.KindFloat:
		return args[0], nil
	case runtime.KindInt:
		return runtime.FloatValue(float64(args[0].Int)), nil
	case runtime.KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(args[0].Str), 64)
		if err != nil {
			return runtime.Value{}, runtime.NewError(runtime.ValueError, "to_float: invalid literal %q", args[0].Str)
		}
		return runtime.FloatValue(f), nil
	}
	return runtime.Value{}, kindError("to_float", "a number or string", args[0])
}

func nativeToString(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("to_string", args, 1); err != nil {
		return runtime.Value{}, err
	}
	return runtime.StringValue(args[0].String()), nil
}

func nativeToBool(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("to_bool", args, 1); err != nil {
		return runtime.Value{}, err
	}
	return runtime.BoolValue(args[0].IsTruthy()), nil
}

func nativeToList(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("to_list", args, 1); err != nil {
		return runtime.Value{}, err
	}
	switch args[0].Kind {
	case runtime.KindList:
		return args[0], nil
	case runtime.KindString:
		elements := make([]runtime.Value, 0, len(args[0].Str))
		for _, r := range args[0].Str {
			elements = append(elements, runtime.StringValue(string(r)))
		}
		return ctx.GC().NewList(elements), nil
	case runtime.KindSet:
		keys := make([]string, 0, len(args[0].Obj.Set))
		for k := range args[0].Obj.Set {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		elements := make([]runtime.Value, len(keys))
		for i, k := range keys {
			elements[i] = args[0].Obj.Set[k]
		}
		return ctx.GC().NewList(elements), nil
	case runtime.KindDict:
		return nativeKeys(ctx, args)
	}
	return runtime.Value{}, kindError("to_list", "a string, set or dict", args[0])
}

func nativeToDict(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("to_dict", args, 1); err != nil {
		return runtime.Value{}, err
	}
	switch args[0].Kind {
	case runtime.KindDict:
		return args[0], nil
	case runtime.KindList:
		out := make(map[string]runtime.Value, len(args[0].Obj.List))
		for _, el := range args[0].Obj.List {
			if el.Kind != runtime.KindList || len(el.Obj.List) != 2 {
				return runtime.Value{}, runtime.NewError(runtime.TypeError, "to_dict expects a list of [key, value] pairs")
			}
			out[el.Obj.List[0].HashKey()] = el.Obj.List[1]
		}
		return ctx.GC().NewDict(out), nil
	}
	return runtime.Value{}, kindError("to_dict", "a list of pairs or dict", args[0])
}

func nativeToHex(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("to_hex", args, 1); err != nil {
		return runtime.Value{}, err
	}
	n, err := wantInt("to_hex", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	if n < 0 {
		return runtime.StringValue("-0x" + strconv.FormatInt(-n, 16)), nil
	}
	return runtime.StringValue("0x" + strconv.FormatInt(n, 16)), nil
}

func nativeToBin(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("to_bin", args, 1); err != nil {
		return runtime.Value{}, err
	}
	n, err := wantInt("to_bin", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	if n < 0 {
		return runtime.StringValue("-0b" + strconv.FormatInt(-n, 2)), nil
	}
	return runtime.StringValue("0b" + strconv.FormatInt(n, 2)), nil
}

func nativeParseJSON(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("parse_json", args, 1); err != nil {
		return runtime.Value{}, err
	}
	text, err := wantString("parse_json", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	var decoded any
	if jerr := json.Unmarshal([]byte(text), &decoded); jerr != nil {
		return runtime.Value{}, runtime.NewError(runtime.ValueError, "parse_json: %v", jerr)
	}
	return jsonToValue(ctx, decoded), nil
}

// jsonToValue converts a decoded JSON tree into runtime values. Integral
// numbers come back as ints so round-tripping integers preserves their kind.
func jsonToValue(ctx Context, v any) runtime.Value {
	switch t := v.(type) {
	case nil:
		return runtime.NullValue()
	case bool:
		return runtime.BoolValue(t)
	case string:
		return runtime.StringValue(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return runtime.IntValue(int64(t))
		}
		return runtime.FloatValue(t)
	case []any:
		elements := make([]runtime.Value, len(t))
		for i, el := range t {
			elements[i] = jsonToValue(ctx, el)
		}
		return ctx.GC().NewList(elements)
	case map[string]any:
		entries := make(map[string]runtime.Value, len(t))
		for k, el := range t {
			entries[k] = jsonToValue(ctx, el)
		}
		return ctx.GC().NewDict(entries)
	}
	return runtime.NullValue()
}

func nativeStringifyJSON(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("stringify_json", args, 1); err != nil {
		return runtime.Value{}, err
	}
	encoded, err := valueToJSON(args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	data, jerr := json.Marshal(encoded)
	if jerr != nil {
		return runtime.Value{}, runtime.NewError(runtime.ValueError, "stringify_json: %v", jerr)
	}
	return runtime.StringValue(string(data)), nil
}

func valueToJSON(v runtime.Value) (any, error) {
	switch v.Kind {
	case runtime.KindNull:
		return nil, nil
	case runtime.KindBool:
		return v.Bool, nil
	case runtime.KindInt:
		return v.Int, nil
	case runtime.KindFloat:
		return v.Float, nil
	case runtime.KindString:
		return v.Str, nil
	case runtime.KindList:
		out := make([]any, len(v.Obj.List))
		for i, el := range v.Obj.List {
			encoded, err := valueToJSON(el)
			if err != nil {
				return nil, err
			}
			out[i] = encoded
		}
		return out, nil
	case runtime.KindDict:
		out := make(map[string]any, len(v.Obj.Dict))
		for k, el := range v.Obj.Dict {
			encoded, err := valueToJSON(el)
			if err != nil {
				return nil, err
			}
			out[k] = encoded
		}
		return out, nil
	}
	return nil, runtime.NewError(runtime.TypeError, "stringify_json: %s is not JSON-serialisable", v.TypeName())
}
