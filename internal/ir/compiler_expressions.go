package ir

import (
	"github.com/ProgrammerKR/ProXPL/internal/ast"
)

// bitwiseNatives maps surface bitwise operators to the VM pseudo-natives
// they lower through (the closed opcode set has no bitwise instructions).
var bitwiseNatives = map[string]string{
	"&":  "$band",
	"|":  "$bor",
	"^":  "$bxor",
	"~":  "$bnot",
	"<<": "$shl",
	">>": "$shr",
}

// arithmeticOpcodes maps surface arithmetic operators to opcodes.
var arithmeticOpcodes = map[string]Opcode{
	"+": ADD, "-": SUB, "*": MUL, "/": DIV, "%": MOD, "**": POW,
}

// comparisonOpcodes maps surface comparison operators to opcodes.
var comparisonOpcodes = map[string]Opcode{
	"==": EQ, "!=": NEQ, "<": LT, "<=": LTE, ">": GT, ">=": GTE,
}

// compileExpr lowers an expression and returns the operand holding its
// value: an immediate for literals, a temporary otherwise.
func (c *Compiler) compileExpr(expr ast.Expression) Operand {
	return c.compileExprInto(None(), expr)
}

// compileExprInto lowers an expression with an optional destination slot.
// When dest is a variable operand the expression's final instruction writes
// straight into the variable, which keeps the folded form of constant
// initializers down to a single MOVE.
func (c *Compiler) compileExprInto(dest Operand, expr ast.Expression) Operand {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return c.materialize(dest, Const(e.Value), expr)
	case *ast.FloatLiteral:
		return c.materialize(dest, Const(e.Value), expr)
	case *ast.StringLiteral:
		return c.materialize(dest, Const(e.Value), expr)
	case *ast.BooleanLiteral:
		return c.materialize(dest, Const(e.Value), expr)
	case *ast.NullLiteral:
		return c.materialize(dest, Const(nil), expr)

	case *ast.Identifier:
		target := c.target(dest)
		c.emit(Instruction{Op: LOAD, Result: target, Arg1: Var(e.Value), Pos: e.Pos()})
		return target

	case *ast.Grouping:
		return c.compileExprInto(dest, e.Expression)

	case *ast.UnaryExpression:
		return c.compileUnary(dest, e)

	case *ast.BinaryExpression:
		return c.compileBinary(dest, e)

	case *ast.LogicalExpression:
		return c.compileLogical(dest, e)

	case *ast.TernaryExpression:
		return c.compileTernary(dest, e)

	case *ast.AssignExpression:
		value := c.compileExpr(e.Value)
		c.emit(Instruction{Op: STORE, Arg1: Var(e.Name.Value), Arg2: value, Pos: e.Pos()})
		return c.materialize(dest, value, expr)

	case *ast.PropertySet:
		object := c.compileExpr(e.Object)
		value := c.compileExpr(e.Value)
		c.emit(Instruction{Op: SET_ATTR, Arg1: object, Arg2: Const(e.Name), Arg3: value, Pos: e.Pos()})
		return c.materialize(dest, value, expr)

	case *ast.IndexSet:
		target := c.compileExpr(e.Target)
		index := c.compileExpr(e.Index)
		value := c.compileExpr(e.Value)
		c.emit(Instruction{Op: SET_INDEX, Arg1: target, Arg2: index, Arg3: value, Pos: e.Pos()})
		return c.materialize(dest, value, expr)

	case *ast.PropertyGet:
		object := c.compileExpr(e.Object)
		target := c.target(dest)
		c.emit(Instruction{Op: GET_ATTR, Result: target, Arg1: object, Arg2: Const(e.Name), Pos: e.Pos()})
		return target

	case *ast.IndexGet:
		source := c.compileExpr(e.Target)
		index := c.compileExpr(e.Index)
		target := c.target(dest)
		c.emit(Instruction{Op: GET_INDEX, Result: target, Arg1: source, Arg2: index, Pos: e.Pos()})
		return target

	case *ast.CallExpression:
		return c.compileCall(dest, e)

	case *ast.ListLiteral:
		args := make([]Operand, len(e.Elements))
		for i, el := range e.Elements {
			args[i] = c.compileExpr(el)
		}
		target := c.target(dest)
		c.emit(Instruction{Op: NEW_LIST, Result: target, Args: args, Pos: e.Pos()})
		return target

	case *ast.DictLiteral:
		args := make([]Operand, 0, 2*len(e.Entries))
		for _, entry := range e.Entries {
			args = append(args, c.compileExpr(entry.Key), c.compileExpr(entry.Value))
		}
		target := c.target(dest)
		c.emit(Instruction{Op: NEW_DICT, Result: target, Args: args, Pos: e.Pos()})
		return target

	case *ast.Lambda:
		name := c.newLambdaName()
		c.compileFunction(name, e.Params, e.Body)
		return c.materialize(dest, FuncRef(name), expr)
	}

	return Const(nil)
}

// target returns dest when provided, else a fresh temporary.
func (c *Compiler) target(dest Operand) Operand {
	if dest.IsNone() {
		return c.fn.NewTemp()
	}
	return dest
}

// materialize routes a produced operand into dest when one was requested.
func (c *Compiler) materialize(dest, value Operand, expr ast.Expression) Operand {
	if dest.IsNone() {
		return value
	}
	c.emit(Instruction{Op: MOVE, Result: dest, Arg1: value, Pos: expr.Pos()})
	return dest
}

func (c *Compiler) compileUnary(dest Operand, e *ast.UnaryExpression) Operand {
	right := c.compileExpr(e.Right)
	target := c.target(dest)
	switch e.Operator {
	case "-":
		c.emit(Instruction{Op: SUB, Result: target, Arg1: Const(int64(0)), Arg2: right, Pos: e.Pos()})
	case "!":
		c.emit(Instruction{Op: NOT, Result: target, Arg1: right, Pos: e.Pos()})
	case "~":
		c.emit(Instruction{Op: CALL, Result: target, Arg1: Var(bitwiseNatives["~"]), Args: []Operand{right}, Pos: e.Pos()})
	}
	return target
}

func (c *Compiler) compileBinary(dest Operand, e *ast.BinaryExpression) Operand {
	left := c.compileExpr(e.Left)
	right := c.compileExpr(e.Right)
	target := c.target(dest)

	if op, ok := arithmeticOpcodes[e.Operator]; ok {
		c.emit(Instruction{Op: op, Result: target, Arg1: left, Arg2: right, Pos: e.Pos()})
		return target
	}
	if op, ok := comparisonOpcodes[e.Operator]; ok {
		c.emit(Instruction{Op: op, Result: target, Arg1: left, Arg2: right, Pos: e.Pos()})
		return target
	}
	if native, ok := bitwiseNatives[e.Operator]; ok {
		c.emit(Instruction{Op: CALL, Result: target, Arg1: Var(native), Args: []Operand{left, right}, Pos: e.Pos()})
		return target
	}
	c.emit(Instruction{Op: NOOP, Pos: e.Pos()})
	return target
}

// compileLogical lowers the short-circuit operators to branches rather than
// to the AND/OR opcodes: the right operand must not evaluate when the left
// decides the result.
func (c *Compiler) compileLogical(dest Operand, e *ast.LogicalExpression) Operand {
	target := c.targetTemp(dest)
	left := c.compileExpr(e.Left)
	c.emit(Instruction{Op: MOVE, Result: target, Arg1: left, Pos: e.Pos()})

	rightBlock := c.fn.NewBlock("logic_rhs")
	endBlock := c.fn.NewBlock("logic_end")

	switch e.Operator {
	case "&&":
		c.branchTo(left, rightBlock, endBlock, e.Pos())
	case "||":
		c.branchTo(left, endBlock, rightBlock, e.Pos())
	case "??":
		isNull := c.fn.NewTemp()
		c.emit(Instruction{Op: EQ, Result: isNull, Arg1: left, Arg2: Const(nil), Pos: e.Pos()})
		c.branchTo(isNull, rightBlock, endBlock, e.Pos())
	}

	c.use(rightBlock)
	right := c.compileExpr(e.Right)
	c.emit(Instruction{Op: MOVE, Result: target, Arg1: right, Pos: e.Pos()})
	c.jumpTo(endBlock, e.Pos())

	c.use(endBlock)
	return c.forward(dest, target, e)
}

func (c *Compiler) compileTernary(dest Operand, e *ast.TernaryExpression) Operand {
	target := c.targetTemp(dest)
	cond := c.compileExpr(e.Condition)

	thenBlock := c.fn.NewBlock("ternary_then")
	elseBlock := c.fn.NewBlock("ternary_else")
	endBlock := c.fn.NewBlock("ternary_end")

	c.branchTo(cond, thenBlock, elseBlock, e.Pos())

	c.use(thenBlock)
	thenValue := c.compileExpr(e.Then)
	c.emit(Instruction{Op: MOVE, Result: target, Arg1: thenValue, Pos: e.Pos()})
	c.jumpTo(endBlock, e.Pos())

	c.use(elseBlock)
	elseValue := c.compileExpr(e.Else)
	c.emit(Instruction{Op: MOVE, Result: target, Arg1: elseValue, Pos: e.Pos()})
	c.jumpTo(endBlock, e.Pos())

	c.use(endBlock)
	return c.forward(dest, target, e)
}

// targetTemp returns a temporary to accumulate a branchy result in. A
// variable dest is written once at the join point instead of in every
// branch, keeping variable writes to a single STORE/MOVE site.
func (c *Compiler) targetTemp(dest Operand) Operand {
	if dest.Kind == OperandTemp {
		return dest
	}
	return c.fn.NewTemp()
}

// forward moves the accumulated temp into a variable dest at the join point.
func (c *Compiler) forward(dest, target Operand, expr ast.Expression) Operand {
	if dest.IsNone() || dest == target {
		return target
	}
	c.emit(Instruction{Op: MOVE, Result: dest, Arg1: target, Pos: expr.Pos()})
	return dest
}

func (c *Compiler) compileCall(dest Operand, e *ast.CallExpression) Operand {
	target := c.target(dest)

	// super.method(args) dispatches statically to the superclass method with
	// the current receiver.
	if pg, ok := e.Callee.(*ast.PropertyGet); ok {
		if id, isIdent := pg.Object.(*ast.Identifier); isIdent && id.Value == "super" && c.superName != "" {
			this := c.fn.NewTemp()
			c.emit(Instruction{Op: LOAD, Result: this, Arg1: Var("this"), Pos: e.Pos()})
			args := []Operand{this}
			for _, arg := range e.Arguments {
				args = append(args, c.compileExpr(arg))
			}
			c.emit(Instruction{Op: CALL, Result: target, Arg1: FuncRef(c.superName + "." + pg.Name), Args: args, Pos: e.Pos()})
			return target
		}
	}

	callee := c.compileCallee(e.Callee)
	args := make([]Operand, len(e.Arguments))
	for i, arg := range e.Arguments {
		args[i] = c.compileExpr(arg)
	}
	c.emit(Instruction{Op: CALL, Result: target, Arg1: callee, Args: args, Pos: e.Pos()})
	return target
}

// compileCallee keeps plain identifier callees as variable operands so the
// VM can resolve them through locals, globals, module functions, classes
// and the native registry in that order; anything else evaluates to a
// function value in a temporary.
func (c *Compiler) compileCallee(callee ast.Expression) Operand {
	if id, ok := callee.(*ast.Identifier); ok {
		return Var(id.Value)
	}
	return c.compileExpr(callee)
}
