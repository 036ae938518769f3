package runtime

import (
	"testing"
)

func TestNormativeDataTypeCount(t *testing.T) {
	if len(DataTypes) != 12 {
		t.Errorf("primitive data-type set has %d entries, want 12", len(DataTypes))
	}
	seen := map[string]bool{}
	for _, name := range DataTypes {
		if seen[name] {
			t.Errorf("duplicate data type %q", name)
		}
		seen[name] = true
	}
}

func TestKindNamesMatchDataTypes(t *testing.T) {
	kinds := []Kind{
		KindInt, KindFloat, KindBool, KindString, KindNull, KindList,
		KindDict, KindSet, KindBytes, KindFunction, KindNative, KindError,
	}
	for _, k := range kinds {
		found := false
		for _, name := range DataTypes {
			if name == k.String() {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("kind %v not in DataTypes", k)
		}
	}
}

func TestNumericEquality(t *testing.T) {
	if !IntValue(1).Equals(FloatValue(1.0)) {
		t.Error("1 == 1.0 must hold under numeric promotion")
	}
	if IntValue(1).Equals(StringValue("1")) {
		t.Error("mismatched kinds must be unequal")
	}
	if !NullValue().Equals(NullValue()) {
		t.Error("null == null")
	}
}

func TestTruthiness(t *testing.T) {
	tests := []struct {
		value Value
		want  bool
	}{
		{IntValue(0), false},
		{IntValue(3), true},
		{FloatValue(0), false},
		{StringValue(""), false},
		{StringValue("x"), true},
		{BoolValue(false), false},
		{NullValue(), false},
	}
	for _, tt := range tests {
		if got := tt.value.IsTruthy(); got != tt.want {
			t.Errorf("IsTruthy(%s) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestValueStrings(t *testing.T) {
	gc := NewGC()
	list := gc.NewList([]Value{IntValue(0), IntValue(1), IntValue(2)})

	tests := []struct {
		value Value
		want  string
	}{
		{IntValue(42), "42"},
		{FloatValue(3.5), "3.5"},
		{BoolValue(true), "true"},
		{NullValue(), "null"},
		{StringValue("hi"), "hi"},
		{list, "[0, 1, 2]"},
	}
	for _, tt := range tests {
		if got := tt.value.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEnvChain(t *testing.T) {
	global := NewEnv(nil)
	global.Define("g", IntValue(1))
	local := NewEnv(global)
	local.Define("l", IntValue(2))

	if v, ok := local.Get("g"); !ok || v.Int != 1 {
		t.Error("lookup must fall through to the enclosing scope")
	}
	if _, ok := global.Get("l"); ok {
		t.Error("inner bindings must not leak outward")
	}

	local.Assign("g", IntValue(10))
	if v, _ := global.Get("g"); v.Int != 10 {
		t.Error("assignment must update the defining scope")
	}
}

func TestConstBindings(t *testing.T) {
	env := NewEnv(nil)
	env.DefineConst("k", IntValue(1))
	if env.Assign("k", IntValue(2)) {
		t.Error("assigning a const must fail")
	}
	if v, _ := env.Get("k"); v.Int != 1 {
		t.Error("const value must be unchanged")
	}
}
