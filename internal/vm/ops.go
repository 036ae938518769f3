package vm

import (
	"math"

	"github.com/ProgrammerKR/ProXPL/internal/ir"
	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

// execOperator evaluates an arithmetic, comparison or logical instruction
// into its result slot.
func (vm *VM) execOperator(f *frame, instr ir.Instruction) *RuntimeError {
	a, rerr := vm.getVal(f, instr.Arg1, instr.Pos)
	if rerr != nil {
		return rerr
	}

	if instr.Op == ir.NOT {
		vm.setVal(f, instr.Result, runtime.BoolValue(!a.IsTruthy()))
		return nil
	}

	b, rerr := vm.getVal(f, instr.Arg2, instr.Pos)
	if rerr != nil {
		return rerr
	}

	var result runtime.Value
	switch instr.Op {
	case ir.ADD, ir.SUB, ir.MUL, ir.DIV, ir.MOD, ir.POW:
		result, rerr = vm.applyArithmetic(instr.Op, a, b, instr.Pos)
	case ir.EQ:
		result = runtime.BoolValue(a.Equals(b))
	case ir.NEQ:
		result = runtime.BoolValue(!a.Equals(b))
	case ir.LT, ir.LTE, ir.GT, ir.GTE:
		result, rerr = vm.applyOrdered(instr.Op, a, b, instr.Pos)
	case ir.AND:
		result = runtime.BoolValue(a.IsTruthy() && b.IsTruthy())
	case ir.OR:
		result = runtime.BoolValue(a.IsTruthy() || b.IsTruthy())
	}
	if rerr != nil {
		return rerr
	}
	vm.setVal(f, instr.Result, result)
	return nil
}

// applyArithmetic implements numeric promotion: int op int stays int except
// /, which produces a float; mixing int and float widens to float. String +
// is concatenation and list + is concatenation.
func (vm *VM) applyArithmetic(op ir.Opcode, a, b runtime.Value, pos lexerPos) (runtime.Value, *RuntimeError) {
	if op == ir.ADD {
		if a.Kind == runtime.KindString && b.Kind == runtime.KindString {
			return runtime.StringValue(a.Str + b.Str), nil
		}
		if a.Kind == runtime.KindList && b.Kind == runtime.KindList {
			out := make([]runtime.Value, 0, len(a.Obj.List)+len(b.Obj.List))
			out = append(out, a.Obj.List...)
			out = append(out, b.Obj.List...)
			return vm.gc.NewList(out), nil
		}
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return runtime.NullValue(), vm.errorAt(pos, runtime.TypeError,
			"unsupported operand types for %s: %s and %s", op, a.TypeName(), b.TypeName())
	}

	bothInt := a.Kind == runtime.KindInt && b.Kind == runtime.KindInt
	switch op {
	case ir.ADD:
		if bothInt {
			return runtime.IntValue(a.Int + b.Int), nil
		}
		return runtime.FloatValue(a.AsFloat() + b.AsFloat()), nil
	case ir.SUB:
		if bothInt {
			return runtime.IntValue(a.Int - b.Int), nil
		}
		return runtime.FloatValue(a.AsFloat() - b.AsFloat()), nil
	case ir.MUL:
		if bothInt {
			return runtime.IntValue(a.Int * b.Int), nil
		}
		return runtime.FloatValue(a.AsFloat() * b.AsFloat()), nil
	case ir.DIV:
		if b.AsFloat() == 0 {
			return runtime.NullValue(), vm.errorAt(pos, runtime.DivisionByZero, "division by zero")
		}
		return runtime.FloatValue(a.AsFloat() / b.AsFloat()), nil
	case ir.MOD:
		if b.AsFloat() == 0 {
			return runtime.NullValue(), vm.errorAt(pos, runtime.DivisionByZero, "modulo by zero")
		}
		if bothInt {
			return runtime.IntValue(a.Int % b.Int), nil
		}
		return runtime.FloatValue(math.Mod(a.AsFloat(), b.AsFloat())), nil
	case ir.POW:
		if bothInt && b.Int >= 0 {
			result := int64(1)
			for i := int64(0); i < b.Int; i++ {
				result *= a.Int
			}
			return runtime.IntValue(result), nil
		}
		return runtime.FloatValue(math.Pow(a.AsFloat(), b.AsFloat())), nil
	}
	return runtime.NullValue(), nil
}

// applyOrdered implements the ordered comparisons. Mismatched kinds are a
// runtime error (numeric promotion excepted).
func (vm *VM) applyOrdered(op ir.Opcode, a, b runtime.Value, pos lexerPos) (runtime.Value, *RuntimeError) {
	var less, equal bool
	switch {
	case a.IsNumeric() && b.IsNumeric():
		less = a.AsFloat() < b.AsFloat()
		equal = a.AsFloat() == b.AsFloat()
	case a.Kind == runtime.KindString && b.Kind == runtime.KindString:
		less = a.Str < b.Str
		equal = a.Str == b.Str
	default:
		return runtime.NullValue(), vm.errorAt(pos, runtime.TypeError,
			"cannot order %s and %s", a.TypeName(), b.TypeName())
	}

	switch op {
	case ir.LT:
		return runtime.BoolValue(less), nil
	case ir.LTE:
		return runtime.BoolValue(less || equal), nil
	case ir.GT:
		return runtime.BoolValue(!less && !equal), nil
	case ir.GTE:
		return runtime.BoolValue(!less), nil
	}
	return runtime.NullValue(), nil
}

// execAggregate evaluates the heap-object opcodes: allocation, attribute
// and index access.
func (vm *VM) execAggregate(f *frame, instr ir.Instruction) *RuntimeError {
	switch instr.Op {
	case ir.NEW_LIST:
		elements := make([]runtime.Value, len(instr.Args))
		for i, arg := range instr.Args {
			v, rerr := vm.getVal(f, arg, instr.Pos)
			if rerr != nil {
				return rerr
			}
			elements[i] = v
		}
		vm.setVal(f, instr.Result, vm.gc.NewList(elements))

	case ir.NEW_DICT:
		entries := make(map[string]runtime.Value, len(instr.Args)/2)
		for i := 0; i+1 < len(instr.Args); i += 2 {
			key, rerr := vm.getVal(f, instr.Args[i], instr.Pos)
			if rerr != nil {
				return rerr
			}
			value, rerr := vm.getVal(f, instr.Args[i+1], instr.Pos)
			if rerr != nil {
				return rerr
			}
			entries[key.HashKey()] = value
		}
		vm.setVal(f, instr.Result, vm.gc.NewDict(entries))

	case ir.GET_ATTR:
		obj, rerr := vm.getVal(f, instr.Arg1, instr.Pos)
		if rerr != nil {
			return rerr
		}
		name, _ := instr.Arg2.Const.(string)
		value, rerr := vm.getAttr(obj, name, instr.Pos)
		if rerr != nil {
			return rerr
		}
		vm.setVal(f, instr.Result, value)

	case ir.SET_ATTR:
		obj, rerr := vm.getVal(f, instr.Arg1, instr.Pos)
		if rerr != nil {
			return rerr
		}
		name, _ := instr.Arg2.Const.(string)
		value, rerr := vm.getVal(f, instr.Arg3, instr.Pos)
		if rerr != nil {
			return rerr
		}
		if obj.Kind != runtime.KindDict {
			return vm.errorAt(instr.Pos, runtime.TypeError, "cannot set attribute on %s", obj.TypeName())
		}
		obj.Obj.Dict[name] = value

	case ir.GET_INDEX:
		target, rerr := vm.getVal(f, instr.Arg1, instr.Pos)
		if rerr != nil {
			return rerr
		}
		index, rerr := vm.getVal(f, instr.Arg2, instr.Pos)
		if rerr != nil {
			return rerr
		}
		value, rerr := vm.getIndex(target, index, instr.Pos)
		if rerr != nil {
			return rerr
		}
		vm.setVal(f, instr.Result, value)

	case ir.SET_INDEX:
		target, rerr := vm.getVal(f, instr.Arg1, instr.Pos)
		if rerr != nil {
			return rerr
		}
		index, rerr := vm.getVal(f, instr.Arg2, instr.Pos)
		if rerr != nil {
			return rerr
		}
		value, rerr := vm.getVal(f, instr.Arg3, instr.Pos)
		if rerr != nil {
			return rerr
		}
		return vm.setIndex(target, index, value, instr.Pos)
	}
	return nil
}

// getAttr reads an object attribute. On a class instance a missing field
// falls back to a method lookup through the class chain, producing a bound
// method value.
func (vm *VM) getAttr(obj runtime.Value, name string, pos lexerPos) (runtime.Value, *RuntimeError) {
	switch obj.Kind {
	case runtime.KindDict:
		if value, ok := obj.Obj.Dict[name]; ok {
			return value, nil
		}
		if obj.Obj.TypeName != "" {
			if fnName, ok := vm.lookupMethod(obj.Obj.TypeName, name); ok {
				return vm.gc.NewClosure(fnName, vm.globals, obj.Obj), nil
			}
		}
		return runtime.NullValue(), vm.errorAt(pos, runtime.KeyError, "%s has no attribute '%s'", obj.TypeName(), name)
	case runtime.KindError:
		if name == "message" {
			return runtime.StringValue(obj.Str), nil
		}
	}
	return runtime.NullValue(), vm.errorAt(pos, runtime.TypeError, "%s has no attributes", obj.TypeName())
}

// lookupMethod resolves a method name through the class inheritance chain.
func (vm *VM) lookupMethod(className, method string) (string, bool) {
	for cls := vm.module.Classes[className]; cls != nil; cls = vm.module.Classes[cls.Super] {
		if fnName, ok := cls.Methods[method]; ok {
			return fnName, true
		}
		if cls.Super == "" {
			break
		}
	}
	return "", false
}

func (vm *VM) getIndex(target, index runtime.Value, pos lexerPos) (runtime.Value, *RuntimeError) {
	switch target.Kind {
	case runtime.KindList:
		if index.Kind != runtime.KindInt {
			return runtime.NullValue(), vm.errorAt(pos, runtime.TypeError, "list index must be Int, got %s", index.TypeName())
		}
		if index.Int < 0 || index.Int >= int64(len(target.Obj.List)) {
			return runtime.NullValue(), vm.errorAt(pos, runtime.IndexError, "index %d out of range for length %d", index.Int, len(target.Obj.List))
		}
		return target.Obj.List[index.Int], nil
	case runtime.KindDict:
		key := index.HashKey()
		if value, ok := target.Obj.Dict[key]; ok {
			return value, nil
		}
		return runtime.NullValue(), vm.errorAt(pos, runtime.KeyError, "key %q not found", key)
	case runtime.KindString:
		if index.Kind != runtime.KindInt {
			return runtime.NullValue(), vm.errorAt(pos, runtime.TypeError, "string index must be Int, got %s", index.TypeName())
		}
		if index.Int < 0 || index.Int >= int64(len(target.Str)) {
			return runtime.NullValue(), vm.errorAt(pos, runtime.IndexError, "index %d out of range for length %d", index.Int, len(target.Str))
		}
		return runtime.StringValue(string(target.Str[index.Int])), nil
	case runtime.KindBytes:
		if index.Kind != runtime.KindInt {
			return runtime.NullValue(), vm.errorAt(pos, runtime.TypeError, "bytes index must be Int, got %s", index.TypeName())
		}
		if index.Int < 0 || index.Int >= int64(len(target.Obj.Bytes)) {
			return runtime.NullValue(), vm.errorAt(pos, runtime.IndexError, "index %d out of range for length %d", index.Int, len(target.Obj.Bytes))
		}
		return runtime.IntValue(int64(target.Obj.Bytes[index.Int])), nil
	}
	return runtime.NullValue(), vm.errorAt(pos, runtime.TypeError, "%s is not indexable", target.TypeName())
}

func (vm *VM) setIndex(target, index, value runtime.Value, pos lexerPos) *RuntimeError {
	switch target.Kind {
	case runtime.KindList:
		if index.Kind != runtime.KindInt {
			return vm.errorAt(pos, runtime.TypeError, "list index must be Int, got %s", index.TypeName())
		}
		if index.Int < 0 || index.Int >= int64(len(target.Obj.List)) {
			return vm.errorAt(pos, runtime.IndexError, "index %d out of range for length %d", index.Int, len(target.Obj.List))
		}
		target.Obj.List[index.Int] = value
		return nil
	case runtime.KindDict:
		target.Obj.Dict[index.HashKey()] = value
		return nil
	}
	return vm.errorAt(pos, runtime.TypeError, "%s does not support item assignment", target.TypeName())
}
