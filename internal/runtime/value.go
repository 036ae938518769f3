// Package runtime defines the dynamic value model of the ProXPL virtual
// machine: tagged values, heap objects, environments, and the garbage
// collector that tracks reference-typed values.
package runtime

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind is the dynamic type tag of a runtime value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
	KindNull
	KindList
	KindDict
	KindSet
	KindBytes
	KindFunction
	KindNative
	KindError
)

// kindNames maps kinds to their user-visible type names.
var kindNames = [...]string{
	KindInt:      "Int",
	KindFloat:    "Float",
	KindBool:     "Bool",
	KindString:   "String",
	KindNull:     "Null",
	KindList:     "List",
	KindDict:     "Dict",
	KindSet:      "Set",
	KindBytes:    "Bytes",
	KindFunction: "Function",
	KindNative:   "NativeFunc",
	KindError:    "Error",
}

// String returns the user-visible type name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// DataTypes is the closed set of primitive data-type names. The set has
// exactly 12 entries.
var DataTypes = []string{
	"Int", "Float", "Bool", "String",
	"List", "Dict", "Set",
	"Null",
	"Function", "NativeFunc",
	"Bytes", "Error",
}

// Value is a dynamically typed runtime value. Primitive kinds are stored
// inline; composite kinds reference a heap Object tracked by the GC.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Bool  bool
	Str   string
	Obj   *Object
}

// Constructors for the primitive kinds.

func IntValue(v int64) Value      { return Value{Kind: KindInt, Int: v} }
func FloatValue(v float64) Value  { return Value{Kind: KindFloat, Float: v} }
func BoolValue(v bool) Value      { return Value{Kind: KindBool, Bool: v} }
func StringValue(v string) Value  { return Value{Kind: KindString, Str: v} }
func NullValue() Value            { return Value{Kind: KindNull} }
func ErrorValue(msg string) Value { return Value{Kind: KindError, Str: msg} }

// NativeValue tags a value as referencing a registered native by name.
func NativeValue(name string) Value { return Value{Kind: KindNative, Str: name} }

// ObjectValue wraps a heap object.
func ObjectValue(obj *Object) Value { return Value{Kind: obj.Kind, Obj: obj} }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsNumeric reports whether the value is an int or float.
func (v Value) IsNumeric() bool { return v.Kind == KindInt || v.Kind == KindFloat }

// AsFloat returns the numeric value widened to float64.
func (v Value) AsFloat() float64 {
	if v.Kind == KindInt {
		return float64(v.Int)
	}
	return v.Float
}

// TypeName returns the user-visible type name. Class instances report their
// class name instead of Dict.
func (v Value) TypeName() string {
	if v.Obj != nil && v.Obj.TypeName != "" {
		return v.Obj.TypeName
	}
	return v.Kind.String()
}

// IsTruthy applies the language's truthiness rules: false, null, 0, 0.0, ""
// and empty collections are falsey; everything else is truthy.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNull:
		return false
	case KindInt:
		return v.Int != 0
	case KindFloat:
		return v.Float != 0
	case KindString:
		return v.Str != ""
	case KindList:
		return len(v.Obj.List) > 0
	case KindDict:
		return len(v.Obj.Dict) > 0
	case KindSet:
		return len(v.Obj.Set) > 0
	case KindBytes:
		return len(v.Obj.Bytes) > 0
	}
	return true
}

// Equals implements `==`. Values of mismatched kinds are unequal (numeric
// int/float promotion excepted); composite values compare structurally.
func (v Value) Equals(other Value) bool {
	if v.IsNumeric() && other.IsNumeric() {
		if v.Kind == KindInt && other.Kind == KindInt {
			return v.Int == other.Int
		}
		return v.AsFloat() == other.AsFloat()
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == other.Bool
	case KindString, KindError, KindNative:
		return v.Str == other.Str
	case KindNull:
		return true
	case KindList:
		if len(v.Obj.List) != len(other.Obj.List) {
			return false
		}
		for i := range v.Obj.List {
			if !v.Obj.List[i].Equals(other.Obj.List[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(v.Obj.Dict) != len(other.Obj.Dict) {
			return false
		}
		for k, a := range v.Obj.Dict {
			b, ok := other.Obj.Dict[k]
			if !ok || !a.Equals(b) {
				return false
			}
		}
		return true
	case KindSet:
		if len(v.Obj.Set) != len(other.Obj.Set) {
			return false
		}
		for k := range v.Obj.Set {
			if _, ok := other.Obj.Set[k]; !ok {
				return false
			}
		}
		return true
	case KindBytes:
		return string(v.Obj.Bytes) == string(other.Obj.Bytes)
	}
	return v.Obj == other.Obj
}

// String renders the value the way `print` and `to_string` show it.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindString:
		return v.Str
	case KindNull:
		return "null"
	case KindError:
		return v.Str
	case KindNative:
		return "<native " + v.Str + ">"
	case KindFunction:
		if v.Obj != nil && v.Obj.Closure != nil {
			return "<func " + v.Obj.Closure.FuncName + ">"
		}
		return "<func>"
	case KindList:
		parts := make([]string, len(v.Obj.List))
		for i, el := range v.Obj.List {
			parts[i] = el.repr()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindDict:
		keys := make([]string, 0, len(v.Obj.Dict))
		for k := range v.Obj.Dict {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = strconv.Quote(k) + ": " + v.Obj.Dict[k].repr()
		}
		open := "{"
		if v.Obj.TypeName != "" {
			open = v.Obj.TypeName + "{"
		}
		return open + strings.Join(parts, ", ") + "}"
	case KindSet:
		keys := make([]string, 0, len(v.Obj.Set))
		for k := range v.Obj.Set {
			keys = append(keys, v.Obj.Set[k].repr())
		}
		sort.Strings(keys)
		return "{" + strings.Join(keys, ", ") + "}"
	case KindBytes:
		return fmt.Sprintf("b%q", string(v.Obj.Bytes))
	}
	return "<unknown>"
}

// repr renders the value for embedding inside a collection display: strings
// are quoted, everything else prints as usual.
func (v Value) repr() string {
	if v.Kind == KindString {
		return strconv.Quote(v.Str)
	}
	return v.String()
}

// HashKey returns the string key used to store the value in dicts and sets.
// Mirrors to_string for primitives.
func (v Value) HashKey() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt, KindFloat, KindBool, KindNull:
		return v.String()
	}
	return fmt.Sprintf("%s@%p", v.Kind, v.Obj)
}
