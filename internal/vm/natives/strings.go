package natives

import (
	"strings"

	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

// RegisterStringFunctions registers the string family (15 natives).
func RegisterStringFunctions(r *Registry) {
	r.Register("upper", makeStringUnary("upper", strings.ToUpper), CategoryString, "uppercase a string")
	r.Register("lower", makeStringUnary("lower", strings.ToLower), CategoryString, "lowercase a string")
	r.Register("capitalize", nativeCapitalize, CategoryString, "uppercase the first character")
	r.Register("trim", makeStringUnary("trim", strings.TrimSpace), CategoryString, "strip leading and trailing whitespace")
	r.Register("split", nativeSplit, CategoryString, "split a string by a separator into a list")
	r.Register("join", nativeJoin, CategoryString, "join list elements with a separator")
	r.Register("replace", nativeReplace, CategoryString, "replace all occurrences of a substring")
	r.Register("substring", nativeSubstring, CategoryString, "slice a string by start and end index")
	r.Register("index_of", nativeIndexOf, CategoryString, "index of the first occurrence, -1 if absent")
	r.Register("contains", nativeContains, CategoryString, "whether a string or list contains a value")
	r.Register("starts_with", nativeStartsWith, CategoryString, "whether a string starts with a prefix")
	r.Register("ends_with", nativeEndsWith, CategoryString, "whether a string ends with a suffix")
	r.Register("repeat", nativeRepeat, CategoryString, "repeat a string n times")
	r.Register("format", nativeFormat, CategoryString, "substitute {} placeholders with arguments")
	r.Register("len", nativeLen, CategoryString, "length of a string or collection")
}

func makeStringUnary(name string, fn func(string) string) Func {
	return func(_ Context, args []runtime.Value) (runtime.Value, error) {
		if err := wantArgs(name, args, 1); err != nil {
			return runtime.Value{}, err
		}
		s, err := wantString(name, args[0])
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.StringValue(fn(s)), nil
	}
}

func nativeCapitalize(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("capitalize", args, 1); err != nil {
		return runtime.Value{}, err
	}
	s, err := wantString("capitalize", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	if s == "" {
		return args[0], nil
	}
	return runtime.StringValue(strings.ToUpper(s[:1]) + s[1:]), nil
}

func nativeSplit(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("split", args, 2); err != nil {
		return runtime.Value{}, err
	}
	s, err := wantString("split", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	sep, err := wantString("split", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	parts := strings.Split(s, sep)
	elements := make([]runtime.Value, len(parts))
	for i, p := range parts {
		elements[i] = runtime.StringValue(p)
	}
	return ctx.GC().NewList(elements), nil
}

func nativeJoin(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("join", args, 2); err != nil {
		return runtime.Value{}, err
	}
	list, err := wantList("join", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	sep, err := wantString("join", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	parts := make([]string, len(list.List))
	for i, el := range list.List {
		parts[i] = el.String()
	}
	return runtime.StringValue(strings.Join(parts, sep)), nil
}

func nativeReplace(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("replace", args, 3); err != nil {
		return runtime.Value{}, err
	}
	s, err := wantString("replace", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	old, err := wantString("replace", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	new_, err := wantString("replace", args[2])
	if err != nil {
		return runtime.Value{}, err
	}
	return runtime.StringValue(strings.ReplaceAll(s, old, new_)), nil
}

func nativeSubstring(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgRange("substring", args, 2, 3); err != nil {
		return runtime.Value{}, err
	}
	s, err := wantString("substring", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	start, err := wantInt("substring", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	end := int64(len(s))
	if len(args) == 3 {
		if end, err = wantInt("substring", args[2]); err != nil {
			return runtime.Value{}, err
		}
	}
	if start < 0 || end > int64(len(s)) || start > end {
		return runtime.Value{}, runtime.NewError(runtime.IndexError, "substring bounds [%d:%d] out of range for length %d", start, end, len(s))
	}
	return runtime.StringValue(s[start:end]), nil
}

func nativeIndexOf(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("index_of", args, 2); err != nil {
		return runtime.Value{}, err
	}
	switch args[0].Kind {
	case runtime.KindString:
		needle, err := wantString("index_of", args[1])
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.IntValue(int64(strings.Index(args[0].Str, needle))), nil
	case runtime.KindList:
		for i, el := range args[0].Obj.List {
			if el.Equals(args[1]) {
				return runtime.IntValue(int64(i)), nil
			}
		}
		return runtime.IntValue(-1), nil
	}
	return runtime.Value{}, kindError("index_of", "a string or list", args[0])
}

func nativeContains(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("contains", args, 2); err != nil {
		return runtime.Value{}, err
	}
	switch args[0].Kind {
	case runtime.KindString:
		needle, err := wantString("contains", args[1])
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.BoolValue(strings.Contains(args[0].Str, needle)), nil
	case runtime.KindList:
		for _, el := range args[0].Obj.List {
			if el.Equals(args[1]) {
				return runtime.BoolValue(true), nil
			}
		}
		return runtime.BoolValue(false), nil
	case runtime.KindSet:
		_, ok := args[0].Obj.Set[args[1].HashKey()]
		return runtime.BoolValue(ok), nil
	}
	return runtime.Value{}, kindError("contains", "a string, list or set", args[0])
}

func nativeStartsWith(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("starts_with", args, 2); err != nil {
		return runtime.Value{}, err
	}
	s, err := wantString("starts_with", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	prefix, err := wantString("starts_with", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	return runtime.BoolValue(strings.HasPrefix(s, prefix)), nil
}

func nativeEndsWith(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("ends_with", args, 2); err != nil {
		return runtime.Value{}, err
	}
	s, err := wantString("ends_with", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	suffix, err := wantString("ends_with", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	return runtime.BoolValue(strings.HasSuffix(s, suffix)), nil
}

func nativeRepeat(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("repeat", args, 2); err != nil {
		return runtime.Value{}, err
	}
	s, err := wantString("repeat", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	n, err := wantInt("repeat", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	if n < 0 {
		return runtime.Value{}, runtime.NewError(runtime.ValueError, "repeat count must be non-negative")
	}
	return runtime.StringValue(strings.Repeat(s, int(n))), nil
}

// nativeFormat substitutes each {} placeholder with the next argument's
// string form. Unmatched placeholders stay verbatim.
func nativeFormat(_ Context, args []runtime.Value) (runtime.Value, error) {
	if len(args) < 1 {
		return runtime.Value{}, arityError("format", "1 or more", len(args))
	}
	template, err := wantString("format", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	var sb strings.Builder
	rest := args[1:]
	for {
		idx := strings.Index(template, "{}")
		if idx < 0 || len(rest) == 0 {
			sb.WriteString(template)
			break
		}
		sb.WriteString(template[:idx])
		sb.WriteString(rest[0].String())
		rest = rest[1:]
		template = template[idx+2:]
	}
	return runtime.StringValue(sb.String()), nil
}

func nativeLen(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("len", args, 1); err != nil {
		return runtime.Value{}, err
	}
	switch args[0].Kind {
	case runtime.KindString:
		return runtime.IntValue(int64(len(args[0].Str))), nil
	case runtime.KindList:
		return runtime.IntValue(int64(len(args[0].Obj.List))), nil
	case runtime.KindDict:
		return runtime.IntValue(int64(len(args[0].Obj.Dict))), nil
	case runtime.KindSet:
		return runtime.IntValue(int64(len(args[0].Obj.Set))), nil
	case runtime.KindBytes:
		return runtime.IntValue(int64(len(args[0].Obj.Bytes))), nil
	}
	return runtime.Value{}, kindError("len", "a string or collection", args[0])
}
