// Package semantic implements the ProXPL resolver.
//
// The resolver walks the AST with a scope stack and validates name binding
// and control-flow legality: duplicate declarations, unknown identifiers,
// assignment to constants, break/continue outside loops, return outside
// functions. It performs no type inference; the language stays dynamic.
package semantic

import (
	"fmt"

	"github.com/ProgrammerKR/ProXPL/internal/ast"
	"github.com/ProgrammerKR/ProXPL/internal/lexer"
	"github.com/ProgrammerKR/ProXPL/internal/vm/natives"
)

// Analyzer performs semantic resolution on a program.
type Analyzer struct {
	scope       *SymbolTable
	errors      []string
	loopDepth   int
	switchDepth int
	funcDepth   int
}

// NewAnalyzer creates an analyzer whose global scope is pre-populated with
// the native registry names, so references to stdlib functions resolve.
func NewAnalyzer() *Analyzer {
	a := &Analyzer{scope: NewSymbolTable()}
	for _, name := range natives.Names() {
		a.scope.Define(name, SymNative)
	}
	return a
}

// Predeclare binds additional global names (host-defined natives) before
// analysis.
func (a *Analyzer) Predeclare(names []string) {
	for _, name := range names {
		if !a.scope.ExistsInCurrentScope(name) {
			a.scope.Define(name, SymNative)
		}
	}
}

// Analyze resolves the program and returns the collected errors. An empty
// slice means the program is well-formed in name-binding terms.
func (a *Analyzer) Analyze(program *ast.Program) []string {
	// Hoist top-level function and class names so mutual recursion and
	// forward references resolve.
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionDecl:
			if a.scope.ExistsInCurrentScope(s.Name.Value) {
				a.errorAt(s.Pos(), "'%s' already declared in this scope", s.Name.Value)
			}
			a.scope.Define(s.Name.Value, SymFunc)
		case *ast.ClassDecl:
			if a.scope.ExistsInCurrentScope(s.Name.Value) {
				a.errorAt(s.Pos(), "'%s' already declared in this scope", s.Name.Value)
			}
			a.scope.Define(s.Name.Value, SymClass)
		}
	}
	for _, stmt := range program.Statements {
		a.resolveStmt(stmt, true)
	}
	return a.errors
}

// Errors returns the collected error strings.
func (a *Analyzer) Errors() []string {
	return a.errors
}

func (a *Analyzer) errorAt(pos lexer.Position, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.errors = append(a.errors, fmt.Sprintf("SemanticError: %s at %s", msg, pos))
}

func (a *Analyzer) enterScope() {
	a.scope = NewEnclosedSymbolTable(a.scope)
}

func (a *Analyzer) exitScope() {
	a.scope = a.scope.outer
}

// resolveStmt resolves one statement. hoisted is true for top-level
// statements whose function/class names were pre-declared by Analyze.
func (a *Analyzer) resolveStmt(stmt ast.Statement, hoisted bool) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		a.resolveExpr(s.Expression)

	case *ast.VarStatement:
		if a.scope.ExistsInCurrentScope(s.Name.Value) {
			a.errorAt(s.Pos(), "'%s' already declared in this scope", s.Name.Value)
		}
		if s.Value != nil {
			a.resolveExpr(s.Value)
		}
		kind := SymVar
		if s.IsConst {
			kind = SymConst
		}
		a.scope.Define(s.Name.Value, kind)

	case *ast.FunctionDecl:
		if !hoisted {
			if a.scope.ExistsInCurrentScope(s.Name.Value) {
				a.errorAt(s.Pos(), "'%s' already declared in this scope", s.Name.Value)
			}
			a.scope.Define(s.Name.Value, SymFunc)
		}
		a.resolveFunction(s.Params, s.Body)

	case *ast.ClassDecl:
		if s.Superclass != nil {
			if _, ok := a.scope.Resolve(s.Superclass.Value); !ok {
				a.errorAt(s.Superclass.Pos(), "undefined superclass '%s'", s.Superclass.Value)
			}
		}
		if !hoisted {
			a.scope.Define(s.Name.Value, SymClass)
		}
		a.enterScope()
		a.scope.Define("this", SymThis)
		if s.Superclass != nil {
			a.scope.Define("super", SymThis)
		}
		for _, m := range s.Methods {
			a.resolveFunction(m.Params, m.Body)
		}
		a.exitScope()

	case *ast.UseStatement:
		// Uses are expanded by the importer before resolution; a surviving
		// use-declaration resolves to nothing.

	case *ast.BlockStatement:
		a.enterScope()
		for _, inner := range s.Statements {
			a.resolveStmt(inner, false)
		}
		a.exitScope()

	case *ast.IfStatement:
		a.resolveExpr(s.Condition)
		a.resolveStmt(s.Then, false)
		if s.Else != nil {
			a.resolveStmt(s.Else, false)
		}

	case *ast.WhileStatement:
		a.resolveExpr(s.Condition)
		a.loopDepth++
		a.resolveStmt(s.Body, false)
		a.loopDepth--

	case *ast.ForStatement:
		a.enterScope()
		if s.Init != nil {
			a.resolveStmt(s.Init, false)
		}
		if s.Condition != nil {
			a.resolveExpr(s.Condition)
		}
		if s.Increment != nil {
			a.resolveExpr(s.Increment)
		}
		a.loopDepth++
		a.resolveStmt(s.Body, false)
		a.loopDepth--
		a.exitScope()

	case *ast.SwitchStatement:
		a.resolveExpr(s.Subject)
		a.switchDepth++
		for _, c := range s.Cases {
			a.resolveExpr(c.Value)
			a.enterScope()
			for _, inner := range c.Body {
				a.resolveStmt(inner, false)
			}
			a.exitScope()
		}
		if s.Default != nil {
			a.enterScope()
			for _, inner := range s.Default {
				a.resolveStmt(inner, false)
			}
			a.exitScope()
		}
		a.switchDepth--

	case *ast.TryStatement:
		a.resolveStmt(s.Body, false)
		if s.Catch != nil {
			a.enterScope()
			a.scope.Define(s.CatchName, SymVar)
			for _, inner := range s.Catch.Statements {
				a.resolveStmt(inner, false)
			}
			a.exitScope()
		}
		if s.Finally != nil {
			a.resolveStmt(s.Finally, false)
		}

	case *ast.ThrowStatement:
		a.resolveExpr(s.Value)

	case *ast.ReturnStatement:
		if a.funcDepth == 0 {
			a.errorAt(s.Pos(), "'return' outside of function")
		}
		if s.Value != nil {
			a.resolveExpr(s.Value)
		}

	case *ast.BreakStatement:
		if a.loopDepth == 0 && a.switchDepth == 0 {
			a.errorAt(s.Pos(), "'break' outside of loop")
		}

	case *ast.ContinueStatement:
		if a.loopDepth == 0 {
			a.errorAt(s.Pos(), "'continue' outside of loop")
		}
	}
}

// resolveFunction resolves a function or method body in a fresh scope
// containing the parameter bindings. Loop context does not cross the
// function boundary.
func (a *Analyzer) resolveFunction(params []string, body *ast.BlockStatement) {
	a.enterScope()
	for _, param := range params {
		if a.scope.ExistsInCurrentScope(param) {
			a.errorAt(body.Pos(), "duplicate parameter '%s'", param)
		}
		a.scope.Define(param, SymParam)
	}
	savedLoops, savedSwitches := a.loopDepth, a.switchDepth
	a.loopDepth, a.switchDepth = 0, 0
	a.funcDepth++
	for _, stmt := range body.Statements {
		a.resolveStmt(stmt, false)
	}
	a.funcDepth--
	a.loopDepth, a.switchDepth = savedLoops, savedSwitches
	a.exitScope()
}

func (a *Analyzer) resolveExpr(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if _, ok := a.scope.Resolve(e.Value); !ok {
			a.errorAt(e.Pos(), "undefined identifier '%s'", e.Value)
		}

	case *ast.AssignExpression:
		sym, ok := a.scope.Resolve(e.Name.Value)
		if !ok {
			a.errorAt(e.Pos(), "undefined identifier '%s'", e.Name.Value)
		} else if sym.Kind == SymConst {
			a.errorAt(e.Pos(), "cannot assign to constant '%s'", e.Name.Value)
		}
		a.resolveExpr(e.Value)

	case *ast.Grouping:
		a.resolveExpr(e.Expression)

	case *ast.UnaryExpression:
		a.resolveExpr(e.Right)

	case *ast.BinaryExpression:
		a.resolveExpr(e.Left)
		a.resolveExpr(e.Right)

	case *ast.LogicalExpression:
		a.resolveExpr(e.Left)
		a.resolveExpr(e.Right)

	case *ast.TernaryExpression:
		a.resolveExpr(e.Condition)
		a.resolveExpr(e.Then)
		a.resolveExpr(e.Else)

	case *ast.CallExpression:
		a.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			a.resolveExpr(arg)
		}

	case *ast.PropertyGet:
		a.resolveExpr(e.Object)

	case *ast.PropertySet:
		a.resolveExpr(e.Object)
		a.resolveExpr(e.Value)

	case *ast.IndexGet:
		a.resolveExpr(e.Target)
		a.resolveExpr(e.Index)

	case *ast.IndexSet:
		a.resolveExpr(e.Target)
		a.resolveExpr(e.Index)
		a.resolveExpr(e.Value)

	case *ast.ListLiteral:
		for _, el := range e.Elements {
			a.resolveExpr(el)
		}

	case *ast.DictLiteral:
		for _, entry := range e.Entries {
			a.resolveExpr(entry.Key)
			a.resolveExpr(entry.Value)
		}

	case *ast.Lambda:
		a.resolveFunction(e.Params, e.Body)
	}
}
