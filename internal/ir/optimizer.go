package ir

// Optimizer applies constant folding and dead-code elimination to each
// function of a module, iterating to a fixed point. It never fails: every
// pass is a no-op or an improvement.
type Optimizer struct{}

// NewOptimizer creates an optimizer.
func NewOptimizer() *Optimizer {
	return &Optimizer{}
}

// Optimize rewrites the module in place and returns it.
func (o *Optimizer) Optimize(module *Module) *Module {
	for _, name := range module.FuncOrder {
		o.optimizeFunction(module.Functions[name])
	}
	module.Globals = o.optimizeInstructions(module.Globals)
	return module
}

func (o *Optimizer) optimizeFunction(fn *Function) {
	for {
		changed := o.constantFolding(fn)
		changed = o.constantPropagation(fn) || changed
		changed = o.deadCodeElimination(fn) || changed
		if !changed {
			return
		}
	}
}

// optimizeInstructions folds a flat instruction list (the module's top-level
// init instructions carry no control flow).
func (o *Optimizer) optimizeInstructions(instrs []Instruction) []Instruction {
	for i, instr := range instrs {
		if folded, ok := foldInstruction(instr); ok {
			instrs[i] = folded
		}
	}
	return instrs
}

// constantFolding replaces arithmetic instructions whose operands are both
// immediate numerics with a MOVE of the folded value. Division by zero is
// never folded; it must fault at runtime.
func (o *Optimizer) constantFolding(fn *Function) bool {
	changed := false
	for _, block := range fn.Blocks {
		for i, instr := range block.Instructions {
			if folded, ok := foldInstruction(instr); ok {
				block.Instructions[i] = folded
				changed = true
			}
		}
	}
	return changed
}

func foldInstruction(instr Instruction) (Instruction, bool) {
	if !instr.Op.IsArithmetic() || !instr.Arg1.IsNumericConst() || !instr.Arg2.IsNumericConst() {
		return instr, false
	}
	folded, ok := foldArithmetic(instr.Op, instr.Arg1.Const, instr.Arg2.Const)
	if !ok {
		return instr, false
	}
	return Instruction{Op: MOVE, Result: instr.Result, Arg1: Const(folded), Pos: instr.Pos}, true
}

// foldArithmetic evaluates op over two immediate numerics, following the
// runtime promotion rules: int op int stays int except /, which always
// yields a float (as the VM does), even when the division is exact.
func foldArithmetic(op Opcode, a, b any) (any, bool) {
	ai, aIsInt := a.(int64)
	bi, bIsInt := b.(int64)

	if aIsInt && bIsInt {
		switch op {
		case ADD:
			return ai + bi, true
		case SUB:
			return ai - bi, true
		case MUL:
			return ai * bi, true
		case DIV:
			if bi == 0 {
				return nil, false
			}
			return float64(ai) / float64(bi), true
		case MOD:
			if bi == 0 {
				return nil, false
			}
			return ai % bi, true
		case POW:
			if bi >= 0 {
				result := int64(1)
				for i := int64(0); i < bi; i++ {
					result *= ai
				}
				return result, true
			}
		}
		return nil, false
	}

	af := toFloat(a)
	bf := toFloat(b)
	switch op {
	case ADD:
		return af + bf, true
	case SUB:
		return af - bf, true
	case MUL:
		return af * bf, true
	case DIV:
		if bf == 0 {
			return nil, false
		}
		return af / bf, true
	case MOD:
		if bf == 0 {
			return nil, false
		}
		return af - bf*float64(int64(af/bf)), true
	case POW:
		if bf == float64(int64(bf)) && bf >= 0 {
			return powFloat(af, bf), true
		}
	}
	return nil, false
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case int64:
		return float64(t)
	case float64:
		return t
	}
	return 0
}

// powFloat folds an integral non-negative exponent; fractional exponents
// stay unfolded and fault or compute at runtime.
func powFloat(base, exp float64) float64 {
	result := 1.0
	for i := int64(0); i < int64(exp); i++ {
		result *= base
	}
	return result
}

// constantPropagation substitutes uses of single-definition temporaries
// defined by `MOVE t, <const>` with the constant itself, unlocking further
// folding rounds.
func (o *Optimizer) constantPropagation(fn *Function) bool {
	defCounts := make(map[string]int)
	constDefs := make(map[string]Operand)

	for _, block := range fn.Blocks {
		for _, instr := range block.Instructions {
			if instr.Result.Kind == OperandTemp {
				defCounts[instr.Result.Name]++
				if instr.Op == MOVE && instr.Arg1.Kind == OperandConst {
					constDefs[instr.Result.Name] = instr.Arg1
				}
			}
		}
	}
	for name, count := range defCounts {
		if count > 1 {
			delete(constDefs, name)
		}
	}
	if len(constDefs) == 0 {
		return false
	}

	substitute := func(op Operand) (Operand, bool) {
		if op.Kind == OperandTemp {
			if konst, ok := constDefs[op.Name]; ok {
				return konst, true
			}
		}
		return op, false
	}

	changed := false
	for _, block := range fn.Blocks {
		for i := range block.Instructions {
			instr := &block.Instructions[i]
			var did bool
			if instr.Arg1, did = substitute(instr.Arg1); did {
				changed = true
			}
			if instr.Arg2, did = substitute(instr.Arg2); did {
				changed = true
			}
			if instr.Arg3, did = substitute(instr.Arg3); did {
				changed = true
			}
			for j := range instr.Args {
				if instr.Args[j], did = substitute(instr.Args[j]); did {
					changed = true
				}
			}
		}
	}
	return changed
}

// deadCodeElimination removes instructions that define a temporary that is
// never read, provided the defining instruction has no observable effect.
// Side-effecting opcodes (CALL, STORE, SET_*, control flow) and variable
// writes are always live.
func (o *Optimizer) deadCodeElimination(fn *Function) bool {
	used := make(map[string]bool)
	markUse := func(op Operand) {
		if op.Kind == OperandTemp {
			used[op.Name] = true
		}
	}

	for _, block := range fn.Blocks {
		for _, instr := range block.Instructions {
			markUse(instr.Arg1)
			markUse(instr.Arg2)
			markUse(instr.Arg3)
			for _, arg := range instr.Args {
				markUse(arg)
			}
		}
	}

	changed := false
	for _, block := range fn.Blocks {
		kept := block.Instructions[:0]
		for _, instr := range block.Instructions {
			dead := !instr.Op.HasSideEffect() &&
				instr.Result.Kind == OperandTemp &&
				!used[instr.Result.Name]
			if dead {
				changed = true
				continue
			}
			kept = append(kept, instr)
		}
		block.Instructions = kept
	}
	return changed
}
