package vm

import (
	"strings"

	"github.com/ProgrammerKR/ProXPL/internal/ir"
	"github.com/ProgrammerKR/ProXPL/internal/runtime"
	"github.com/ProgrammerKR/ProXPL/internal/vm/natives"
)

// nativeInfo is a local shorthand for registry entries.
type nativeInfo = natives.Info

// userRaised is the error kind of values raised by throw statements.
const userRaised = runtime.ErrorKind("Error")

// execCall dispatches a CALL instruction. Plain-name callees resolve in
// order through the environment chain, module functions, classes, and the
// native registry; pseudo-natives (leading '$') are handled by the VM
// itself.
func (vm *VM) execCall(f *frame, instr ir.Instruction) (runtime.Value, *RuntimeError) {
	args := make([]runtime.Value, len(instr.Args))
	for i, arg := range instr.Args {
		v, rerr := vm.getVal(f, arg, instr.Pos)
		if rerr != nil {
			return runtime.NullValue(), rerr
		}
		args[i] = v
	}

	switch instr.Arg1.Kind {
	case ir.OperandVar:
		name := instr.Arg1.Name
		if strings.HasPrefix(name, "$") {
			return vm.execPseudoNative(name, args, instr.Pos)
		}
		if value, ok := f.env.Get(name); ok {
			return vm.callValue(value, args, instr.Pos)
		}
		if fn, ok := vm.module.Functions[name]; ok {
			return vm.callIRFunction(fn, args, vm.globals)
		}
		if cls, ok := vm.module.Classes[name]; ok {
			return vm.instantiate(cls, args, instr.Pos)
		}
		if info, ok := vm.registry.Lookup(name); ok {
			return vm.callNative(info, args, instr.Pos)
		}
		return runtime.NullValue(), vm.errorAt(instr.Pos, runtime.NameError, "undefined function '%s'", name)

	case ir.OperandFunc:
		if fn, ok := vm.module.Functions[instr.Arg1.Name]; ok {
			return vm.callIRFunction(fn, args, vm.globals)
		}
		return runtime.NullValue(), vm.errorAt(instr.Pos, runtime.NameError, "undefined function '%s'", instr.Arg1.Name)

	default:
		callee, rerr := vm.getVal(f, instr.Arg1, instr.Pos)
		if rerr != nil {
			return runtime.NullValue(), rerr
		}
		return vm.callValue(callee, args, instr.Pos)
	}
}

// callValue invokes a first-class callable: a user function value (possibly
// a bound method or a class) or a native value.
func (vm *VM) callValue(value runtime.Value, args []runtime.Value, pos lexerPos) (runtime.Value, *RuntimeError) {
	switch value.Kind {
	case runtime.KindFunction:
		closure := value.Obj.Closure
		if closure == nil {
			return runtime.NullValue(), vm.errorAt(pos, runtime.TypeError, "function value is not callable")
		}
		if fn, ok := vm.module.Functions[closure.FuncName]; ok {
			if closure.This != nil {
				args = append([]runtime.Value{runtime.ObjectValue(closure.This)}, args...)
			}
			env := closure.Env
			if env == nil {
				env = vm.globals
			}
			return vm.callIRFunction(fn, args, env)
		}
		if cls, ok := vm.module.Classes[closure.FuncName]; ok {
			return vm.instantiate(cls, args, pos)
		}
		return runtime.NullValue(), vm.errorAt(pos, runtime.NameError, "undefined function '%s'", closure.FuncName)

	case runtime.KindNative:
		if info, ok := vm.registry.Lookup(value.Str); ok {
			return vm.callNative(info, args, pos)
		}
		return runtime.NullValue(), vm.errorAt(pos, runtime.NameError, "undefined native '%s'", value.Str)
	}
	return runtime.NullValue(), vm.errorAt(pos, runtime.TypeError, "%s is not callable", value.TypeName())
}

// instantiate allocates a class instance and runs its `init` method (found
// through the inheritance chain) with the constructor arguments.
func (vm *VM) instantiate(cls *ir.ClassInfo, args []runtime.Value, pos lexerPos) (runtime.Value, *RuntimeError) {
	instance := vm.gc.NewInstance(cls.Name)

	if fnName, ok := vm.lookupMethod(cls.Name, "init"); ok {
		fn := vm.module.Functions[fnName]
		if fn != nil {
			ctorArgs := append([]runtime.Value{instance}, args...)
			if _, rerr := vm.callIRFunction(fn, ctorArgs, vm.globals); rerr != nil {
				return runtime.NullValue(), rerr
			}
		}
	} else if len(args) > 0 {
		return runtime.NullValue(), vm.errorAt(pos, runtime.TypeError,
			"'%s' has no init method but got %d constructor argument(s)", cls.Name, len(args))
	}
	return instance, nil
}

// callNative invokes a registered native, converting a returned runtime
// error into a positioned RuntimeError.
func (vm *VM) callNative(info *nativeInfo, args []runtime.Value, pos lexerPos) (runtime.Value, *RuntimeError) {
	result, err := info.Function(vm, args)
	if err == nil {
		return result, nil
	}
	if rtErr, ok := err.(*runtime.Error); ok {
		return runtime.NullValue(), &RuntimeError{Err: rtErr, Pos: pos}
	}
	return runtime.NullValue(), vm.errorAt(pos, runtime.ValueError, "%s: %v", info.Name, err)
}

// execPseudoNative implements the VM-internal operations the lowering
// reaches through CALL: throw, and the bitwise operators the closed opcode
// set does not express.
func (vm *VM) execPseudoNative(name string, args []runtime.Value, pos lexerPos) (runtime.Value, *RuntimeError) {
	if name == "$throw" {
		if len(args) != 1 {
			return runtime.NullValue(), vm.errorAt(pos, runtime.TypeError, "throw expects one value")
		}
		if args[0].Kind == runtime.KindError {
			return runtime.NullValue(), &RuntimeError{Err: &runtime.Error{Kind: userRaised, Message: args[0].Str}, Pos: pos}
		}
		return runtime.NullValue(), vm.errorAt(pos, userRaised, "%s", args[0].String())
	}

	if name == "$bnot" {
		if len(args) != 1 || args[0].Kind != runtime.KindInt {
			return runtime.NullValue(), vm.errorAt(pos, runtime.TypeError, "operator ~ expects an Int")
		}
		return runtime.IntValue(^args[0].Int), nil
	}

	if len(args) != 2 || args[0].Kind != runtime.KindInt || args[1].Kind != runtime.KindInt {
		return runtime.NullValue(), vm.errorAt(pos, runtime.TypeError, "bitwise operator expects two Ints")
	}
	a, b := args[0].Int, args[1].Int
	switch name {
	case "$band":
		return runtime.IntValue(a & b), nil
	case "$bor":
		return runtime.IntValue(a | b), nil
	case "$bxor":
		return runtime.IntValue(a ^ b), nil
	case "$shl":
		if b < 0 || b > 63 {
			return runtime.NullValue(), vm.errorAt(pos, runtime.ValueError, "shift count %d out of range", b)
		}
		return runtime.IntValue(a << uint(b)), nil
	case "$shr":
		if b < 0 || b > 63 {
			return runtime.NullValue(), vm.errorAt(pos, runtime.ValueError, "shift count %d out of range", b)
		}
		return runtime.IntValue(a >> uint(b)), nil
	}
	return runtime.NullValue(), vm.errorAt(pos, runtime.NameError, "unknown internal operation '%s'", name)
}
