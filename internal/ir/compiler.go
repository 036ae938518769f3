package ir

import (
	"github.com/ProgrammerKR/ProXPL/internal/ast"
	"github.com/ProgrammerKR/ProXPL/internal/lexer"
)

// Compiler lowers a resolved AST into an IR module.
//
// Top-level statements lower into the synthetic entry function `$main`;
// function and class declarations lower into named functions plus a
// top-level init instruction binding the name in the global environment.
//
// The surface language has a few operations the closed opcode set does not
// express directly; they lower to CALLs of VM-internal pseudo-natives
// ($throw for throw statements, $band/$bor/$bxor/$bnot/$shl/$shr for the
// bitwise operators). Pseudo-natives are spelled with a leading '$' so they
// can never collide with user identifiers.
type Compiler struct {
	module      *Module
	fn          *Function
	block       *BasicBlock
	loops       []loopContext
	className   string
	superName   string
	lambdaCount int
}

// loopContext tracks the jump targets of the innermost breakable construct.
type loopContext struct {
	breakLabel    string
	continueLabel string // empty inside switch
}

// EntryFunction is the name of the synthetic function holding top-level code.
const EntryFunction = "$main"

// Compile lowers a program into a fresh IR module.
func Compile(program *ast.Program) *Module {
	c := &Compiler{module: NewModule()}

	main := NewFunction(EntryFunction, nil)
	c.fn = main
	c.block = main.NewBlock("entry")
	c.module.AddFunction(main)

	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionDecl:
			c.compileFunction(s.Name.Value, s.Params, s.Body)
			c.module.Globals = append(c.module.Globals, Instruction{
				Op: MOVE, Result: Var(s.Name.Value), Arg1: FuncRef(s.Name.Value), Pos: s.Pos(),
			})
		case *ast.ClassDecl:
			c.compileClass(s)
		default:
			c.compileStmt(stmt)
		}
	}
	c.terminate(Instruction{Op: RETURN, Arg1: Const(nil)})

	return c.module
}

// compileClass registers class metadata and lowers each method into a
// function named Class.method with an implicit leading `this` parameter.
func (c *Compiler) compileClass(decl *ast.ClassDecl) {
	info := &ClassInfo{Name: decl.Name.Value, Methods: make(map[string]string)}
	if decl.Superclass != nil {
		info.Super = decl.Superclass.Value
	}
	c.module.Classes[decl.Name.Value] = info

	savedClass, savedSuper := c.className, c.superName
	c.className, c.superName = info.Name, info.Super
	for _, method := range decl.Methods {
		fnName := info.Name + "." + method.Name.Value
		info.Methods[method.Name.Value] = fnName
		params := append([]string{"this"}, method.Params...)
		c.compileFunction(fnName, params, method.Body)
	}
	c.className, c.superName = savedClass, savedSuper

	c.module.Globals = append(c.module.Globals, Instruction{
		Op: MOVE, Result: Var(info.Name), Arg1: FuncRef(info.Name), Pos: decl.Pos(),
	})
}

// compileFunction lowers a function body into a named IR function and
// restores the surrounding lowering state afterwards.
func (c *Compiler) compileFunction(name string, params []string, body *ast.BlockStatement) {
	savedFn, savedBlock, savedLoops := c.fn, c.block, c.loops

	fn := NewFunction(name, params)
	c.fn = fn
	c.block = fn.NewBlock("entry")
	c.loops = nil
	c.module.AddFunction(fn)

	for _, stmt := range body.Statements {
		c.compileStmt(stmt)
	}
	c.terminate(Instruction{Op: RETURN, Arg1: Const(nil)})

	c.fn, c.block, c.loops = savedFn, savedBlock, savedLoops
}

// ---- block plumbing ----

// ended reports whether the current block already has a terminator.
func (c *Compiler) ended() bool {
	if len(c.block.Instructions) == 0 {
		return false
	}
	switch c.block.Instructions[len(c.block.Instructions)-1].Op {
	case JUMP, JUMP_IF, RETURN:
		return true
	}
	return false
}

// emit appends an instruction to the current block, dropping it when the
// block is already terminated (unreachable code after return/break).
func (c *Compiler) emit(instr Instruction) {
	if c.ended() {
		return
	}
	c.block.Add(instr)
}

// terminate emits a terminator only if the block lacks one.
func (c *Compiler) terminate(instr Instruction) {
	if !c.ended() {
		c.block.Add(instr)
	}
}

// jumpTo terminates the current block with JUMP target and records the edge.
func (c *Compiler) jumpTo(target *BasicBlock, pos lexer.Position) {
	if c.ended() {
		return
	}
	c.block.Add(Instruction{Op: JUMP, Arg1: Label(target.ID), Pos: pos})
	addEdge(c.block, target)
}

// branchTo terminates the current block with JUMP_IF cond, t, f.
func (c *Compiler) branchTo(cond Operand, t, f *BasicBlock, pos lexer.Position) {
	if c.ended() {
		return
	}
	c.block.Add(Instruction{Op: JUMP_IF, Arg1: cond, Arg2: Label(t.ID), Arg3: Label(f.ID), Pos: pos})
	addEdge(c.block, t)
	addEdge(c.block, f)
}

// use switches lowering to the given block.
func (c *Compiler) use(block *BasicBlock) {
	c.block = block
}

func (c *Compiler) newLambdaName() string {
	name := "lambda$" + itoa(c.lambdaCount)
	c.lambdaCount++
	return name
}
