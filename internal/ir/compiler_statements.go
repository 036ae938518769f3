package ir

import (
	"github.com/ProgrammerKR/ProXPL/internal/ast"
)

func (c *Compiler) compileStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		c.compileExpr(s.Expression)

	case *ast.VarStatement:
		if s.Value == nil {
			c.emit(Instruction{Op: MOVE, Result: Var(s.Name.Value), Arg1: Const(nil), Pos: s.Pos()})
			return
		}
		c.compileExprInto(Var(s.Name.Value), s.Value)

	case *ast.FunctionDecl:
		// Nested function declaration: lower like a named lambda bound to a
		// local variable.
		inner := c.fn.Name + "." + s.Name.Value + "$" + c.newLambdaName()
		c.compileFunction(inner, s.Params, s.Body)
		c.emit(Instruction{Op: MOVE, Result: Var(s.Name.Value), Arg1: FuncRef(inner), Pos: s.Pos()})

	case *ast.ClassDecl:
		// A class declaration in statement position hoists like a top-level
		// one: methods become module functions, the name binds globally.
		c.compileClass(s)

	case *ast.UseStatement:
		// Uses are expanded by the importer before lowering.

	case *ast.BlockStatement:
		for _, inner := range s.Statements {
			c.compileStmt(inner)
		}

	case *ast.IfStatement:
		c.compileIf(s)

	case *ast.WhileStatement:
		c.compileWhile(s)

	case *ast.ForStatement:
		c.compileFor(s)

	case *ast.SwitchStatement:
		c.compileSwitch(s)

	case *ast.TryStatement:
		c.compileTry(s)

	case *ast.ThrowStatement:
		value := c.compileExpr(s.Value)
		c.emit(Instruction{Op: CALL, Result: c.fn.NewTemp(), Arg1: Var("$throw"), Args: []Operand{value}, Pos: s.Pos()})

	case *ast.ReturnStatement:
		value := Const(nil)
		if s.Value != nil {
			value = c.compileExpr(s.Value)
		}
		c.terminate(Instruction{Op: RETURN, Arg1: value, Pos: s.Pos()})

	case *ast.BreakStatement:
		if len(c.loops) > 0 {
			target := c.fn.Block(c.loops[len(c.loops)-1].breakLabel)
			c.jumpTo(target, s.Pos())
		}

	case *ast.ContinueStatement:
		for i := len(c.loops) - 1; i >= 0; i-- {
			if c.loops[i].continueLabel != "" {
				c.jumpTo(c.fn.Block(c.loops[i].continueLabel), s.Pos())
				return
			}
		}
	}
}

func (c *Compiler) compileIf(s *ast.IfStatement) {
	cond := c.compileExpr(s.Condition)

	thenBlock := c.fn.NewBlock("if_then")
	var elseBlock *BasicBlock
	if s.Else != nil {
		elseBlock = c.fn.NewBlock("if_else")
	}
	endBlock := c.fn.NewBlock("if_end")

	if elseBlock != nil {
		c.branchTo(cond, thenBlock, elseBlock, s.Pos())
	} else {
		c.branchTo(cond, thenBlock, endBlock, s.Pos())
	}

	c.use(thenBlock)
	c.compileStmt(s.Then)
	c.jumpTo(endBlock, s.Pos())

	if elseBlock != nil {
		c.use(elseBlock)
		c.compileStmt(s.Else)
		c.jumpTo(endBlock, s.Pos())
	}

	c.use(endBlock)
}

func (c *Compiler) compileWhile(s *ast.WhileStatement) {
	condBlock := c.fn.NewBlock("while_cond")
	bodyBlock := c.fn.NewBlock("while_body")
	endBlock := c.fn.NewBlock("while_end")

	c.jumpTo(condBlock, s.Pos())

	c.use(condBlock)
	cond := c.compileExpr(s.Condition)
	c.branchTo(cond, bodyBlock, endBlock, s.Pos())

	c.loops = append(c.loops, loopContext{breakLabel: endBlock.ID, continueLabel: condBlock.ID})
	c.use(bodyBlock)
	c.compileStmt(s.Body)
	c.jumpTo(condBlock, s.Pos())
	c.loops = c.loops[:len(c.loops)-1]

	c.use(endBlock)
}

// compileFor lowers `for (init; cond; incr) body` to
//
//	init
//	L0: JUMP_IF cond, L1, L2
//	L1: body; incr; JUMP L0
//	L2:
//
// with `continue` targeting the increment so it always runs.
func (c *Compiler) compileFor(s *ast.ForStatement) {
	if s.Init != nil {
		c.compileStmt(s.Init)
	}

	condBlock := c.fn.NewBlock("for_cond")
	bodyBlock := c.fn.NewBlock("for_body")
	incrBlock := c.fn.NewBlock("for_incr")
	endBlock := c.fn.NewBlock("for_end")

	c.jumpTo(condBlock, s.Pos())

	c.use(condBlock)
	if s.Condition != nil {
		cond := c.compileExpr(s.Condition)
		c.branchTo(cond, bodyBlock, endBlock, s.Pos())
	} else {
		c.jumpTo(bodyBlock, s.Pos())
	}

	c.loops = append(c.loops, loopContext{breakLabel: endBlock.ID, continueLabel: incrBlock.ID})
	c.use(bodyBlock)
	c.compileStmt(s.Body)
	c.jumpTo(incrBlock, s.Pos())
	c.loops = c.loops[:len(c.loops)-1]

	c.use(incrBlock)
	if s.Increment != nil {
		c.compileExpr(s.Increment)
	}
	c.jumpTo(condBlock, s.Pos())

	c.use(endBlock)
}

// compileSwitch lowers switch to a chain of equality tests. Each case body
// ends with a jump to the post-label, suppressing fall-through; `break`
// inside a case targets the post-label too.
func (c *Compiler) compileSwitch(s *ast.SwitchStatement) {
	subject := c.compileExpr(s.Subject)

	endBlock := c.fn.NewBlock("switch_end")

	testBlocks := make([]*BasicBlock, len(s.Cases))
	bodyBlocks := make([]*BasicBlock, len(s.Cases))
	for i := range s.Cases {
		testBlocks[i] = c.fn.NewBlock("case_test")
		bodyBlocks[i] = c.fn.NewBlock("case_body")
	}
	var defaultBlock *BasicBlock
	if s.Default != nil {
		defaultBlock = c.fn.NewBlock("switch_default")
	}

	// Where a failed test goes next: the following test, then default, then end.
	nextTest := func(i int) *BasicBlock {
		if i+1 < len(testBlocks) {
			return testBlocks[i+1]
		}
		if defaultBlock != nil {
			return defaultBlock
		}
		return endBlock
	}

	if len(testBlocks) > 0 {
		c.jumpTo(testBlocks[0], s.Pos())
	} else if defaultBlock != nil {
		c.jumpTo(defaultBlock, s.Pos())
	} else {
		c.jumpTo(endBlock, s.Pos())
	}

	c.loops = append(c.loops, loopContext{breakLabel: endBlock.ID})
	for i, arm := range s.Cases {
		c.use(testBlocks[i])
		caseValue := c.compileExpr(arm.Value)
		matched := c.fn.NewTemp()
		c.emit(Instruction{Op: EQ, Result: matched, Arg1: subject, Arg2: caseValue, Pos: arm.Token.Pos})
		c.branchTo(matched, bodyBlocks[i], nextTest(i), arm.Token.Pos)

		c.use(bodyBlocks[i])
		for _, inner := range arm.Body {
			c.compileStmt(inner)
		}
		c.jumpTo(endBlock, arm.Token.Pos)
	}
	if defaultBlock != nil {
		c.use(defaultBlock)
		for _, inner := range s.Default {
			c.compileStmt(inner)
		}
		c.jumpTo(endBlock, s.Pos())
	}
	c.loops = c.loops[:len(c.loops)-1]

	c.use(endBlock)
}

// compileTry lowers try/catch/finally into a protected region recorded in
// the function's handler table. The VM transfers control to the catch label
// on a runtime error raised in the body span, with the thrown value bound to
// ErrVar; the finally label runs on every exit path.
func (c *Compiler) compileTry(s *ast.TryStatement) {
	handlerIdx := len(c.fn.Handlers)
	c.fn.Handlers = append(c.fn.Handlers, Handler{ErrVar: s.CatchName})

	bodyBlock := c.fn.NewBlock("try_body")
	c.jumpTo(bodyBlock, s.Pos())

	bodyLo := c.fn.BlockOrdinal(bodyBlock.ID)
	c.use(bodyBlock)
	for _, inner := range s.Body.Statements {
		c.compileStmt(inner)
	}
	bodyExit := c.block
	bodyHi := len(c.fn.Blocks)

	var catchBlock *BasicBlock
	catchLo, catchHi := 0, 0
	if s.Catch != nil {
		catchBlock = c.fn.NewBlock("catch")
		catchLo = c.fn.BlockOrdinal(catchBlock.ID)
		c.use(catchBlock)
		for _, inner := range s.Catch.Statements {
			c.compileStmt(inner)
		}
		catchHi = len(c.fn.Blocks)
	}
	catchExit := c.block

	var finallyBlock *BasicBlock
	finallyLo, finallyHi := 0, 0
	if s.Finally != nil {
		finallyBlock = c.fn.NewBlock("finally")
		finallyLo = c.fn.BlockOrdinal(finallyBlock.ID)
		c.use(finallyBlock)
		for _, inner := range s.Finally.Statements {
			c.compileStmt(inner)
		}
		finallyHi = len(c.fn.Blocks)
	}
	finallyExit := c.block

	afterBlock := c.fn.NewBlock("try_end")

	// Wire the normal exit paths: body and catch flow into finally when
	// present, otherwise straight to the join point; finally flows to the
	// join point.
	exitTarget := afterBlock
	if finallyBlock != nil {
		exitTarget = finallyBlock
	}
	c.use(bodyExit)
	c.jumpTo(exitTarget, s.Pos())
	if catchBlock != nil {
		c.use(catchExit)
		c.jumpTo(exitTarget, s.Pos())
	}
	if finallyBlock != nil {
		c.use(finallyExit)
		c.jumpTo(afterBlock, s.Pos())
	}

	h := &c.fn.Handlers[handlerIdx]
	h.BodyLo, h.BodyHi = bodyLo, bodyHi
	h.CatchLo, h.CatchHi = catchLo, catchHi
	h.FinallyLo, h.FinallyHi = finallyLo, finallyHi
	h.AfterIdx = c.fn.BlockOrdinal(afterBlock.ID)
	h.AfterLabel = afterBlock.ID
	if catchBlock != nil {
		h.CatchLabel = catchBlock.ID
	}
	if finallyBlock != nil {
		h.FinallyLabel = finallyBlock.ID
	}

	c.use(afterBlock)
}
