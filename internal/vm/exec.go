package vm

import (
	"github.com/ProgrammerKR/ProXPL/internal/ir"
	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

// callIRFunction pushes a frame for fn and executes it to completion. env is
// the environment the frame's locals enclose: the captured environment for
// closures, the globals otherwise.
func (vm *VM) callIRFunction(fn *ir.Function, args []runtime.Value, env *runtime.Env) (runtime.Value, *RuntimeError) {
	if len(vm.frames) >= maxCallDepth {
		return runtime.NullValue(), vm.errorAt(lexerPosZero, runtime.ValueError, "maximum call depth exceeded in '%s'", fn.Name)
	}
	if len(args) != len(fn.Params) {
		return runtime.NullValue(), vm.errorAt(lexerPosZero, runtime.TypeError,
			"'%s' expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}

	f := &frame{
		fn:    fn,
		env:   runtime.NewEnv(env),
		temps: make(map[string]runtime.Value),
		block: fn.Entry(),
	}
	for i, param := range fn.Params {
		f.env.Define(param, args[i])
	}

	vm.frames = append(vm.frames, f)
	defer func() { vm.frames = vm.frames[:len(vm.frames)-1] }()

	return vm.execFrame(f)
}

// execFrame runs the frame's blocks until a RETURN pops it or an unhandled
// error unwinds it.
func (vm *VM) execFrame(f *frame) (runtime.Value, *RuntimeError) {
	for {
		if f.block == nil {
			return runtime.NullValue(), nil
		}
		if f.pending != nil {
			handled, done, result, rerr := vm.resumePending(f)
			if rerr != nil {
				return runtime.NullValue(), rerr
			}
			if done {
				return result, nil
			}
			if handled {
				continue
			}
		}
		if f.ip >= len(f.block.Instructions) {
			// A block without a terminator falls off the function.
			return runtime.NullValue(), nil
		}

		instr := f.block.Instructions[f.ip]

		switch instr.Op {
		case ir.LABEL, ir.NOOP, ir.PHI:
			f.ip++

		case ir.LOAD:
			value, ok := f.env.Get(instr.Arg1.Name)
			if !ok {
				if rerr := vm.raise(f, vm.errorAt(instr.Pos, runtime.NameError, "undefined name '%s'", instr.Arg1.Name)); rerr != nil {
					return runtime.NullValue(), rerr
				}
				continue
			}
			vm.setVal(f, instr.Result, value)
			f.ip++

		case ir.STORE:
			value, rerr := vm.getVal(f, instr.Arg2, instr.Pos)
			if rerr == nil && !f.env.Assign(instr.Arg1.Name, value) {
				rerr = vm.errorAt(instr.Pos, runtime.TypeError, "cannot assign to constant '%s'", instr.Arg1.Name)
			}
			if rerr != nil {
				if rerr = vm.raise(f, rerr); rerr != nil {
					return runtime.NullValue(), rerr
				}
				continue
			}
			f.ip++

		case ir.MOVE:
			value, rerr := vm.getVal(f, instr.Arg1, instr.Pos)
			if rerr != nil {
				if rerr = vm.raise(f, rerr); rerr != nil {
					return runtime.NullValue(), rerr
				}
				continue
			}
			vm.setVal(f, instr.Result, value)
			f.ip++

		case ir.ADD, ir.SUB, ir.MUL, ir.DIV, ir.MOD, ir.POW,
			ir.EQ, ir.NEQ, ir.LT, ir.LTE, ir.GT, ir.GTE,
			ir.AND, ir.OR, ir.NOT:
			if rerr := vm.execOperator(f, instr); rerr != nil {
				if rerr = vm.raise(f, rerr); rerr != nil {
					return runtime.NullValue(), rerr
				}
				continue
			}
			f.ip++

		case ir.JUMP:
			if rerr := vm.transfer(f, instr.Arg1.Name, instr.Pos); rerr != nil {
				return runtime.NullValue(), rerr
			}

		case ir.JUMP_IF:
			cond, rerr := vm.getVal(f, instr.Arg1, instr.Pos)
			if rerr != nil {
				if rerr = vm.raise(f, rerr); rerr != nil {
					return runtime.NullValue(), rerr
				}
				continue
			}
			target := instr.Arg3.Name
			if cond.IsTruthy() {
				target = instr.Arg2.Name
			}
			if rerr := vm.transfer(f, target, instr.Pos); rerr != nil {
				return runtime.NullValue(), rerr
			}

		case ir.CALL:
			result, rerr := vm.execCall(f, instr)
			if rerr != nil {
				if rerr = vm.raise(f, rerr); rerr != nil {
					return runtime.NullValue(), rerr
				}
				continue
			}
			vm.setVal(f, instr.Result, result)
			f.ip++

		case ir.RETURN:
			value := runtime.NullValue()
			if !instr.Arg1.IsNone() {
				var rerr *RuntimeError
				if value, rerr = vm.getVal(f, instr.Arg1, instr.Pos); rerr != nil {
					if rerr = vm.raise(f, rerr); rerr != nil {
						return runtime.NullValue(), rerr
					}
					continue
				}
			}
			done, result, rerr := vm.performReturn(f, value)
			if rerr != nil {
				return runtime.NullValue(), rerr
			}
			if done {
				return result, nil
			}

		case ir.NEW_LIST, ir.NEW_DICT, ir.GET_ATTR, ir.SET_ATTR, ir.GET_INDEX, ir.SET_INDEX:
			if rerr := vm.execAggregate(f, instr); rerr != nil {
				if rerr = vm.raise(f, rerr); rerr != nil {
					return runtime.NullValue(), rerr
				}
				continue
			}
			f.ip++

		default:
			f.ip++
		}
	}
}

// execDataInstr executes one flat top-level init instruction against the
// boot frame (data movement and calls only; the init list carries no
// control flow).
func (vm *VM) execDataInstr(f *frame, instr ir.Instruction) error {
	switch instr.Op {
	case ir.MOVE:
		value, rerr := vm.getVal(f, instr.Arg1, instr.Pos)
		if rerr != nil {
			return rerr
		}
		vm.setVal(f, instr.Result, value)
	case ir.LOAD:
		value, ok := f.env.Get(instr.Arg1.Name)
		if !ok {
			return vm.errorAt(instr.Pos, runtime.NameError, "undefined name '%s'", instr.Arg1.Name)
		}
		vm.setVal(f, instr.Result, value)
	case ir.STORE:
		value, rerr := vm.getVal(f, instr.Arg2, instr.Pos)
		if rerr != nil {
			return rerr
		}
		f.env.Assign(instr.Arg1.Name, value)
	case ir.CALL:
		result, rerr := vm.execCall(f, instr)
		if rerr != nil {
			return rerr
		}
		vm.setVal(f, instr.Result, result)
	}
	return nil
}

// ---- operand access ----

// getVal resolves an operand to a runtime value. Temporaries come from the
// frame's temp store; variable names resolve through the environment chain
// and fall through to globals; function references become closures
// capturing the frame's environment.
func (vm *VM) getVal(f *frame, op ir.Operand, pos lexerPos) (runtime.Value, *RuntimeError) {
	switch op.Kind {
	case ir.OperandConst:
		return constValue(op.Const), nil
	case ir.OperandTemp:
		return f.temps[op.Name], nil
	case ir.OperandVar:
		if value, ok := f.env.Get(op.Name); ok {
			return value, nil
		}
		return runtime.NullValue(), vm.errorAt(pos, runtime.NameError, "undefined name '%s'", op.Name)
	case ir.OperandFunc:
		return vm.gc.NewClosure(op.Name, f.env, nil), nil
	}
	return runtime.NullValue(), nil
}

// setVal writes a value into a result slot. Temporaries live in the frame's
// temp store; a variable result is a declaration into the frame's scope.
func (vm *VM) setVal(f *frame, op ir.Operand, value runtime.Value) {
	switch op.Kind {
	case ir.OperandTemp:
		f.temps[op.Name] = value
	case ir.OperandVar:
		f.env.Define(op.Name, value)
	}
}

func constValue(c any) runtime.Value {
	switch v := c.(type) {
	case nil:
		return runtime.NullValue()
	case int64:
		return runtime.IntValue(v)
	case float64:
		return runtime.FloatValue(v)
	case string:
		return runtime.StringValue(v)
	case bool:
		return runtime.BoolValue(v)
	}
	return runtime.NullValue()
}
