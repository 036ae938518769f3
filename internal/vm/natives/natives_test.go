package natives

import (
	"bytes"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

// stubContext drives natives without a VM.
type stubContext struct {
	out bytes.Buffer
	in  *strings.Reader
	gc  *runtime.GC
	rng *rand.Rand
}

func newStub() *stubContext {
	return &stubContext{
		gc:  runtime.NewGC(),
		rng: rand.New(rand.NewSource(1)),
		in:  strings.NewReader(""),
	}
}

func (s *stubContext) Output() io.Writer { return &s.out }
func (s *stubContext) ReadLine() (string, error) {
	var sb strings.Builder
	for {
		b, err := s.in.ReadByte()
		if err != nil {
			return sb.String(), err
		}
		if b == '\n' {
			return sb.String(), nil
		}
		sb.WriteByte(b)
	}
}
func (s *stubContext) GC() *runtime.GC  { return s.gc }
func (s *stubContext) Rand() *rand.Rand { return s.rng }

func call(t *testing.T, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	info, ok := DefaultRegistry.Lookup(name)
	if !ok {
		t.Fatalf("native %s not registered", name)
	}
	result, err := info.Function(newStub(), args)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", name, err)
	}
	return result
}

func callErr(t *testing.T, name string, args ...runtime.Value) error {
	t.Helper()
	info, ok := DefaultRegistry.Lookup(name)
	if !ok {
		t.Fatalf("native %s not registered", name)
	}
	_, err := info.Function(newStub(), args)
	return err
}

// The native registry holds exactly 75 entries across the eight families.
func TestRegistryCount(t *testing.T) {
	if got := DefaultRegistry.Count(); got != 75 {
		t.Fatalf("registry has %d natives, want 75", got)
	}

	families := map[Category]int{
		CategoryIO:          5,
		CategoryMath:        15,
		CategoryString:      15,
		CategoryCollections: 15,
		CategoryDateTime:    5,
		CategorySystem:      5,
		CategoryConvert:     10,
		CategoryRuntime:     5,
	}
	for family, want := range families {
		if got := len(DefaultRegistry.ByCategory(family)); got != want {
			t.Errorf("family %s has %d natives, want %d", family, got, want)
		}
	}
}

func TestPrint(t *testing.T) {
	stub := newStub()
	info, _ := DefaultRegistry.Lookup("print")
	if _, err := info.Function(stub, []runtime.Value{runtime.IntValue(1), runtime.StringValue("two")}); err != nil {
		t.Fatal(err)
	}
	if stub.out.String() != "1 two\n" {
		t.Errorf("unexpected output %q", stub.out.String())
	}
}

func TestMathNatives(t *testing.T) {
	if v := call(t, "abs", runtime.IntValue(-4)); v.Int != 4 {
		t.Errorf("abs(-4) = %s", v)
	}
	if v := call(t, "floor", runtime.FloatValue(3.9)); v.Int != 3 {
		t.Errorf("floor(3.9) = %s", v)
	}
	if v := call(t, "ceil", runtime.FloatValue(3.1)); v.Int != 4 {
		t.Errorf("ceil(3.1) = %s", v)
	}
	if v := call(t, "max", runtime.IntValue(2), runtime.IntValue(9), runtime.IntValue(5)); v.Int != 9 {
		t.Errorf("max = %s", v)
	}
	if v := call(t, "sqrt", runtime.IntValue(16)); v.Float != 4 {
		t.Errorf("sqrt(16) = %s", v)
	}
	if err := callErr(t, "sqrt", runtime.IntValue(-1)); err == nil {
		t.Error("sqrt(-1) must error")
	}
}

func TestStringNatives(t *testing.T) {
	if v := call(t, "upper", runtime.StringValue("abc")); v.Str != "ABC" {
		t.Errorf("upper = %q", v.Str)
	}
	if v := call(t, "trim", runtime.StringValue("  x  ")); v.Str != "x" {
		t.Errorf("trim = %q", v.Str)
	}
	if v := call(t, "replace", runtime.StringValue("aaa"), runtime.StringValue("a"), runtime.StringValue("b")); v.Str != "bbb" {
		t.Errorf("replace = %q", v.Str)
	}
	if v := call(t, "format", runtime.StringValue("{} + {} = {}"), runtime.IntValue(1), runtime.IntValue(2), runtime.IntValue(3)); v.Str != "1 + 2 = 3" {
		t.Errorf("format = %q", v.Str)
	}
	split := call(t, "split", runtime.StringValue("a,b,c"), runtime.StringValue(","))
	if len(split.Obj.List) != 3 || split.Obj.List[1].Str != "b" {
		t.Errorf("split = %s", split)
	}
	if v := call(t, "len", runtime.StringValue("hello")); v.Int != 5 {
		t.Errorf("len = %s", v)
	}
}

func TestCollectionNatives(t *testing.T) {
	stub := newStub()
	list := stub.gc.NewList([]runtime.Value{runtime.IntValue(3), runtime.IntValue(1), runtime.IntValue(2)})

	info, _ := DefaultRegistry.Lookup("sort")
	sorted, err := info.Function(stub, []runtime.Value{list})
	if err != nil {
		t.Fatal(err)
	}
	if sorted.String() != "[1, 2, 3]" {
		t.Errorf("sort = %s", sorted)
	}
	// sort returns a copy; the original is untouched.
	if list.String() != "[3, 1, 2]" {
		t.Errorf("sort mutated its input: %s", list)
	}

	rng := call(t, "range", runtime.IntValue(1), runtime.IntValue(7), runtime.IntValue(2))
	if rng.String() != "[1, 3, 5]" {
		t.Errorf("range = %s", rng)
	}

	if err := callErr(t, "pop", newStub().gc.NewList(nil)); err == nil {
		t.Error("pop from empty list must error")
	}
}

func TestDictNatives(t *testing.T) {
	stub := newStub()
	dict := stub.gc.NewDict(map[string]runtime.Value{"b": runtime.IntValue(2), "a": runtime.IntValue(1)})

	info, _ := DefaultRegistry.Lookup("keys")
	keys, err := info.Function(stub, []runtime.Value{dict})
	if err != nil {
		t.Fatal(err)
	}
	if keys.String() != `["a", "b"]` {
		t.Errorf("keys = %s", keys)
	}

	info, _ = DefaultRegistry.Lookup("contains_key")
	has, _ := info.Function(stub, []runtime.Value{dict, runtime.StringValue("a")})
	if !has.Bool {
		t.Error("contains_key(a) = false")
	}
}

func TestConvertNatives(t *testing.T) {
	if v := call(t, "to_int", runtime.StringValue("42")); v.Int != 42 {
		t.Errorf("to_int = %s", v)
	}
	if v := call(t, "to_hex", runtime.IntValue(255)); v.Str != "0xff" {
		t.Errorf("to_hex = %q", v.Str)
	}
	if v := call(t, "to_bin", runtime.IntValue(5)); v.Str != "0b101" {
		t.Errorf("to_bin = %q", v.Str)
	}
	if v := call(t, "to_string", runtime.IntValue(7)); v.Str != "7" {
		t.Errorf("to_string = %q", v.Str)
	}
}

// For integers n, to_int(to_string(n)) == n.
func TestIntStringRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 42, -99999, 1 << 40} {
		s := call(t, "to_string", runtime.IntValue(n))
		back := call(t, "to_int", s)
		if back.Int != n {
			t.Errorf("round trip %d -> %q -> %d", n, s.Str, back.Int)
		}
	}
}

// parse_json(stringify_json(v)) == v for JSON-composed values.
func TestJSONRoundTrip(t *testing.T) {
	stub := newStub()
	inner := stub.gc.NewList([]runtime.Value{
		runtime.IntValue(1), runtime.StringValue("two"), runtime.BoolValue(true), runtime.NullValue(),
	})
	value := stub.gc.NewDict(map[string]runtime.Value{
		"list":  inner,
		"num":   runtime.FloatValue(2.5),
		"label": runtime.StringValue("x"),
	})

	stringify, _ := DefaultRegistry.Lookup("stringify_json")
	encoded, err := stringify.Function(stub, []runtime.Value{value})
	if err != nil {
		t.Fatal(err)
	}
	parse, _ := DefaultRegistry.Lookup("parse_json")
	decoded, err := parse.Function(stub, []runtime.Value{encoded})
	if err != nil {
		t.Fatal(err)
	}
	if !decoded.Equals(value) {
		t.Errorf("round trip mismatch:\nin:  %s\nout: %s", value, decoded)
	}
}

func TestRuntimeNatives(t *testing.T) {
	if v := call(t, "type", runtime.IntValue(1)); v.Str != "Int" {
		t.Errorf("type = %q", v.Str)
	}
	if v := call(t, "type", runtime.StringValue("s")); v.Str != "String" {
		t.Errorf("type = %q", v.Str)
	}
	if err := callErr(t, "assert", runtime.BoolValue(false)); err == nil {
		t.Error("assert(false) must error")
	}
	if rtErr, ok := callErr(t, "assert", runtime.BoolValue(false)).(*runtime.Error); !ok || rtErr.Kind != runtime.AssertionError {
		t.Error("assert must raise AssertionError")
	}
	if v := call(t, "is_instance", runtime.IntValue(1), runtime.StringValue("Int")); !v.Bool {
		t.Error("is_instance(1, Int) = false")
	}
}

func TestArityErrors(t *testing.T) {
	if err := callErr(t, "abs"); err == nil {
		t.Error("abs() must report an arity error")
	}
	if err := callErr(t, "split", runtime.StringValue("a")); err == nil {
		t.Error("split with one arg must report an arity error")
	}
}
