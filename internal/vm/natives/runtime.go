package natives

import (
	"hash/fnv"

	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

// RegisterRuntimeFunctions registers the runtime family (5 natives).
func RegisterRuntimeFunctions(r *Registry) {
	r.Register("type", nativeType, CategoryRuntime, "type name of a value")
	r.Register("assert", nativeAssert, CategoryRuntime, "raise AssertionError when the condition is falsey")
	r.Register("id", nativeID, CategoryRuntime, "heap identity of a value, 0 for primitives")
	r.Register("hash", nativeHash, CategoryRuntime, "hash of a value")
	r.Register("is_instance", nativeIsInstance, CategoryRuntime, "whether a value has the given type name")
}

func nativeType(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("type", args, 1); err != nil {
		return runtime.Value{}, err
	}
	return runtime.StringValue(args[0].TypeName()), nil
}

func nativeAssert(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgRange("assert", args, 1, 2); err != nil {
		return runtime.Value{}, err
	}
	if args[0].IsTruthy() {
		return args[0], nil
	}
	msg := "Assertion failed"
	if len(args) == 2 {
		msg = args[1].String()
	}
	return runtime.Value{}, runtime.NewError(runtime.AssertionError, "%s", msg)
}

func nativeID(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("id", args, 1); err != nil {
		return runtime.Value{}, err
	}
	if args[0].Obj != nil {
		return runtime.IntValue(int64(args[0].Obj.ID())), nil
	}
	return runtime.IntValue(0), nil
}

func nativeHash(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("hash", args, 1); err != nil {
		return runtime.Value{}, err
	}
	h := fnv.New64a()
	h.Write([]byte(args[0].HashKey()))
	return runtime.IntValue(int64(h.Sum64())), nil
}

func nativeIsInstance(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("is_instance", args, 2); err != nil {
		return runtime.Value{}, err
	}
	typeName, err := wantString("is_instance", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	return runtime.BoolValue(args[0].TypeName() == typeName), nil
}
