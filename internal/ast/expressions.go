package ast

import (
	"strconv"
	"strings"

	"github.com/ProgrammerKR/ProXPL/internal/lexer"
)

// IntegerLiteral represents an integer literal (decimal or hex).
type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return strconv.FormatInt(il.Value, 10) }
func (il *IntegerLiteral) Pos() lexer.Position  { return il.Token.Pos }

// FloatLiteral represents a floating-point literal.
type FloatLiteral struct {
	Token lexer.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FloatLiteral) String() string       { return strconv.FormatFloat(fl.Value, 'g', -1, 64) }
func (fl *FloatLiteral) Pos() lexer.Position  { return fl.Token.Pos }

// StringLiteral represents a string literal. Value holds the decoded text.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return strconv.Quote(sl.Value) }
func (sl *StringLiteral) Pos() lexer.Position  { return sl.Token.Pos }

// BooleanLiteral represents true or false.
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }
func (bl *BooleanLiteral) Pos() lexer.Position  { return bl.Token.Pos }

// NullLiteral represents the null value.
type NullLiteral struct {
	Token lexer.Token
}

func (nl *NullLiteral) expressionNode()      {}
func (nl *NullLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NullLiteral) String() string       { return "null" }
func (nl *NullLiteral) Pos() lexer.Position  { return nl.Token.Pos }

// Grouping represents a parenthesised expression.
type Grouping struct {
	Token      lexer.Token // the '(' token
	Expression Expression
}

func (g *Grouping) expressionNode()      {}
func (g *Grouping) TokenLiteral() string { return g.Token.Literal }
func (g *Grouping) String() string {
	switch g.Expression.(type) {
	case *BinaryExpression, *LogicalExpression, *UnaryExpression, *TernaryExpression:
		// These nodes already print wrapped in parentheses.
		return g.Expression.String()
	}
	return "(" + g.Expression.String() + ")"
}
func (g *Grouping) Pos() lexer.Position  { return g.Token.Pos }

// UnaryExpression represents a prefix operator application: !x, -x, ~x.
type UnaryExpression struct {
	Token    lexer.Token // the operator token
	Operator string
	Right    Expression
}

func (ue *UnaryExpression) expressionNode()      {}
func (ue *UnaryExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpression) String() string       { return "(" + ue.Operator + ue.Right.String() + ")" }
func (ue *UnaryExpression) Pos() lexer.Position  { return ue.Token.Pos }

// BinaryExpression represents an arithmetic, comparison or bitwise operator
// application. Short-circuit && and || use LogicalExpression instead.
type BinaryExpression struct {
	Token    lexer.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (be *BinaryExpression) expressionNode()      {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + be.Operator + " " + be.Right.String() + ")"
}
func (be *BinaryExpression) Pos() lexer.Position { return be.Token.Pos }

// LogicalExpression represents the short-circuit operators && and ||.
type LogicalExpression struct {
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (le *LogicalExpression) expressionNode()      {}
func (le *LogicalExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LogicalExpression) String() string {
	return "(" + le.Left.String() + " " + le.Operator + " " + le.Right.String() + ")"
}
func (le *LogicalExpression) Pos() lexer.Position { return le.Token.Pos }

// TernaryExpression represents cond ? then : else. Right-associative.
type TernaryExpression struct {
	Token     lexer.Token // the '?' token
	Condition Expression
	Then      Expression
	Else      Expression
}

func (te *TernaryExpression) expressionNode()      {}
func (te *TernaryExpression) TokenLiteral() string { return te.Token.Literal }
func (te *TernaryExpression) String() string {
	return "(" + te.Condition.String() + " ? " + te.Then.String() + " : " + te.Else.String() + ")"
}
func (te *TernaryExpression) Pos() lexer.Position { return te.Token.Pos }

// AssignExpression represents assignment to a plain name.
type AssignExpression struct {
	Token lexer.Token // the '=' token
	Name  *Identifier
	Value Expression
}

func (ae *AssignExpression) expressionNode()      {}
func (ae *AssignExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AssignExpression) String() string       { return ae.Name.String() + " = " + ae.Value.String() }
func (ae *AssignExpression) Pos() lexer.Position  { return ae.Token.Pos }

// CallExpression represents a function or method invocation.
type CallExpression struct {
	Token     lexer.Token // the '(' token
	Callee    Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	return ce.Callee.String() + "(" + joinExpressions(ce.Arguments) + ")"
}
func (ce *CallExpression) Pos() lexer.Position { return ce.Token.Pos }

// PropertyGet represents reading an object property: obj.name.
type PropertyGet struct {
	Token  lexer.Token // the '.' token
	Object Expression
	Name   string
}

func (pg *PropertyGet) expressionNode()      {}
func (pg *PropertyGet) TokenLiteral() string { return pg.Token.Literal }
func (pg *PropertyGet) String() string       { return pg.Object.String() + "." + pg.Name }
func (pg *PropertyGet) Pos() lexer.Position  { return pg.Token.Pos }

// PropertySet represents writing an object property: obj.name = value.
// The parser lowers assignment to a PropertyGet target into this node.
type PropertySet struct {
	Token  lexer.Token
	Object Expression
	Name   string
	Value  Expression
}

func (ps *PropertySet) expressionNode()      {}
func (ps *PropertySet) TokenLiteral() string { return ps.Token.Literal }
func (ps *PropertySet) String() string {
	return ps.Object.String() + "." + ps.Name + " = " + ps.Value.String()
}
func (ps *PropertySet) Pos() lexer.Position { return ps.Token.Pos }

// IndexGet represents an indexed read: target[index].
type IndexGet struct {
	Token  lexer.Token // the '[' token
	Target Expression
	Index  Expression
}

func (ig *IndexGet) expressionNode()      {}
func (ig *IndexGet) TokenLiteral() string { return ig.Token.Literal }
func (ig *IndexGet) String() string       { return ig.Target.String() + "[" + ig.Index.String() + "]" }
func (ig *IndexGet) Pos() lexer.Position  { return ig.Token.Pos }

// IndexSet represents an indexed write: target[index] = value.
// The parser lowers assignment to an IndexGet target into this node.
type IndexSet struct {
	Token  lexer.Token
	Target Expression
	Index  Expression
	Value  Expression
}

func (is *IndexSet) expressionNode()      {}
func (is *IndexSet) TokenLiteral() string { return is.Token.Literal }
func (is *IndexSet) String() string {
	return is.Target.String() + "[" + is.Index.String() + "] = " + is.Value.String()
}
func (is *IndexSet) Pos() lexer.Position { return is.Token.Pos }

// ListLiteral represents a list literal: [a, b, c].
type ListLiteral struct {
	Token    lexer.Token // the '[' token
	Elements []Expression
}

func (ll *ListLiteral) expressionNode()      {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *ListLiteral) String() string       { return "[" + joinExpressions(ll.Elements) + "]" }
func (ll *ListLiteral) Pos() lexer.Position  { return ll.Token.Pos }

// DictEntry is one key/value pair of a dictionary literal.
type DictEntry struct {
	Key   Expression
	Value Expression
}

// DictLiteral represents a dictionary literal: {"k": v}.
// Entries preserve source order.
type DictLiteral struct {
	Token   lexer.Token // the '{' token
	Entries []DictEntry
}

func (dl *DictLiteral) expressionNode()      {}
func (dl *DictLiteral) TokenLiteral() string { return dl.Token.Literal }
func (dl *DictLiteral) String() string {
	parts := make([]string, len(dl.Entries))
	for i, e := range dl.Entries {
		parts[i] = e.Key.String() + ": " + e.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (dl *DictLiteral) Pos() lexer.Position { return dl.Token.Pos }

// Lambda represents an anonymous function in expression position:
// func(a, b) { ... }. Lambdas capture their enclosing environment.
type Lambda struct {
	Token  lexer.Token // the 'func' token
	Params []string
	Body   *BlockStatement
}

func (l *Lambda) expressionNode()      {}
func (l *Lambda) TokenLiteral() string { return l.Token.Literal }
func (l *Lambda) String() string {
	return "func(" + strings.Join(l.Params, ", ") + ") " + l.Body.String()
}
func (l *Lambda) Pos() lexer.Position { return l.Token.Pos }
