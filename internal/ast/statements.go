package ast

import (
	"strings"

	"github.com/ProgrammerKR/ProXPL/internal/lexer"
)

// ExpressionStatement wraps an expression evaluated for its side effects.
type ExpressionStatement struct {
	Token      lexer.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string       { return es.Expression.String() + ";" }
func (es *ExpressionStatement) Pos() lexer.Position  { return es.Token.Pos }

// VarStatement represents `let name = value;` or `const name = value;`.
type VarStatement struct {
	Token   lexer.Token // the 'let' or 'const' token
	Name    *Identifier
	Value   Expression // nil when declared without initializer
	IsConst bool
}

func (vs *VarStatement) statementNode()       {}
func (vs *VarStatement) TokenLiteral() string { return vs.Token.Literal }
func (vs *VarStatement) String() string {
	kw := "let"
	if vs.IsConst {
		kw = "const"
	}
	if vs.Value == nil {
		return kw + " " + vs.Name.String() + ";"
	}
	return kw + " " + vs.Name.String() + " = " + vs.Value.String() + ";"
}
func (vs *VarStatement) Pos() lexer.Position { return vs.Token.Pos }

// FunctionDecl represents a named function declaration.
type FunctionDecl struct {
	Token  lexer.Token // the 'func' token
	Name   *Identifier
	Params []string
	Body   *BlockStatement
}

func (fd *FunctionDecl) statementNode()       {}
func (fd *FunctionDecl) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDecl) String() string {
	return "func " + fd.Name.String() + "(" + strings.Join(fd.Params, ", ") + ") " + fd.Body.String()
}
func (fd *FunctionDecl) Pos() lexer.Position { return fd.Token.Pos }

// ClassDecl represents a class declaration with an optional superclass and a
// list of methods.
type ClassDecl struct {
	Token      lexer.Token // the 'class' token
	Name       *Identifier
	Superclass *Identifier // nil when the class has no superclass
	Methods    []*FunctionDecl
}

func (cd *ClassDecl) statementNode()       {}
func (cd *ClassDecl) TokenLiteral() string { return cd.Token.Literal }
func (cd *ClassDecl) String() string {
	var out strings.Builder
	out.WriteString("class " + cd.Name.String())
	if cd.Superclass != nil {
		out.WriteString(" extends " + cd.Superclass.String())
	}
	out.WriteString(" {\n")
	for _, m := range cd.Methods {
		out.WriteString(m.String())
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}
func (cd *ClassDecl) Pos() lexer.Position { return cd.Token.Pos }

// UseStatement names one or more modules to inline into the current
// compilation: `use math, strings;`.
type UseStatement struct {
	Token   lexer.Token // the 'use' token
	Modules []string
}

func (us *UseStatement) statementNode()       {}
func (us *UseStatement) TokenLiteral() string { return us.Token.Literal }
func (us *UseStatement) String() string       { return "use " + strings.Join(us.Modules, ", ") + ";" }
func (us *UseStatement) Pos() lexer.Position  { return us.Token.Pos }

// BlockStatement is a brace-delimited statement list introducing a scope.
type BlockStatement struct {
	Token      lexer.Token // the '{' token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	var out strings.Builder
	out.WriteString("{\n")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}
func (bs *BlockStatement) Pos() lexer.Position { return bs.Token.Pos }

// IfStatement represents if/else.
type IfStatement struct {
	Token     lexer.Token
	Condition Expression
	Then      Statement
	Else      Statement // nil when there is no else branch
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	out := "if (" + is.Condition.String() + ") " + is.Then.String()
	if is.Else != nil {
		out += " else " + is.Else.String()
	}
	return out
}
func (is *IfStatement) Pos() lexer.Position { return is.Token.Pos }

// WhileStatement represents a while loop.
type WhileStatement struct {
	Token     lexer.Token
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}
func (ws *WhileStatement) Pos() lexer.Position { return ws.Token.Pos }

// ForStatement represents a C-style for loop. Init, Condition and Increment
// may each be nil.
type ForStatement struct {
	Token     lexer.Token
	Init      Statement
	Condition Expression
	Increment Expression
	Body      Statement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) String() string {
	var out strings.Builder
	out.WriteString("for (")
	if fs.Init != nil {
		out.WriteString(strings.TrimSuffix(fs.Init.String(), ";"))
	}
	out.WriteString("; ")
	if fs.Condition != nil {
		out.WriteString(fs.Condition.String())
	}
	out.WriteString("; ")
	if fs.Increment != nil {
		out.WriteString(fs.Increment.String())
	}
	out.WriteString(") ")
	out.WriteString(fs.Body.String())
	return out.String()
}
func (fs *ForStatement) Pos() lexer.Position { return fs.Token.Pos }

// SwitchCase is one `case value:` arm of a switch statement.
type SwitchCase struct {
	Token lexer.Token
	Value Expression
	Body  []Statement
}

// SwitchStatement represents switch with case arms and an optional default.
type SwitchStatement struct {
	Token   lexer.Token
	Subject Expression
	Cases   []*SwitchCase
	Default []Statement // nil when there is no default arm
}

func (ss *SwitchStatement) statementNode()       {}
func (ss *SwitchStatement) TokenLiteral() string { return ss.Token.Literal }
func (ss *SwitchStatement) String() string {
	var out strings.Builder
	out.WriteString("switch (" + ss.Subject.String() + ") {\n")
	for _, c := range ss.Cases {
		out.WriteString("case " + c.Value.String() + ":\n")
		for _, s := range c.Body {
			out.WriteString(s.String())
			out.WriteString("\n")
		}
	}
	if ss.Default != nil {
		out.WriteString("default:\n")
		for _, s := range ss.Default {
			out.WriteString(s.String())
			out.WriteString("\n")
		}
	}
	out.WriteString("}")
	return out.String()
}
func (ss *SwitchStatement) Pos() lexer.Position { return ss.Token.Pos }

// TryStatement represents try/catch/finally. At least one of Catch and
// Finally is present.
type TryStatement struct {
	Token     lexer.Token
	Body      *BlockStatement
	CatchName string // bound error variable; empty when there is no catch
	Catch     *BlockStatement
	Finally   *BlockStatement
}

func (ts *TryStatement) statementNode()       {}
func (ts *TryStatement) TokenLiteral() string { return ts.Token.Literal }
func (ts *TryStatement) String() string {
	out := "try " + ts.Body.String()
	if ts.Catch != nil {
		out += " catch (" + ts.CatchName + ") " + ts.Catch.String()
	}
	if ts.Finally != nil {
		out += " finally " + ts.Finally.String()
	}
	return out
}
func (ts *TryStatement) Pos() lexer.Position { return ts.Token.Pos }

// ThrowStatement raises a value as a runtime error.
type ThrowStatement struct {
	Token lexer.Token
	Value Expression
}

func (ts *ThrowStatement) statementNode()       {}
func (ts *ThrowStatement) TokenLiteral() string { return ts.Token.Literal }
func (ts *ThrowStatement) String() string       { return "throw " + ts.Value.String() + ";" }
func (ts *ThrowStatement) Pos() lexer.Position  { return ts.Token.Pos }

// ReturnStatement returns from the enclosing function, optionally with a value.
type ReturnStatement struct {
	Token lexer.Token
	Value Expression // nil for a bare return
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return;"
	}
	return "return " + rs.Value.String() + ";"
}
func (rs *ReturnStatement) Pos() lexer.Position { return rs.Token.Pos }

// BreakStatement exits the innermost enclosing loop.
type BreakStatement struct {
	Token lexer.Token
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStatement) String() string       { return "break;" }
func (bs *BreakStatement) Pos() lexer.Position  { return bs.Token.Pos }

// ContinueStatement continues with the next iteration of the innermost loop.
type ContinueStatement struct {
	Token lexer.Token
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStatement) String() string       { return "continue;" }
func (cs *ContinueStatement) Pos() lexer.Position  { return cs.Token.Pos }
