// Package parser implements the ProXPL parser.
//
// Parsing is recursive descent with Pratt-style precedence climbing:
// statement forms are hand-written descent, expressions are driven by the
// precedences table below. On a parse error the parser synchronises to the
// next statement boundary and keeps going; all errors are collected.
package parser

import (
	"fmt"

	"github.com/ProgrammerKR/ProXPL/internal/ast"
	"github.com/ProgrammerKR/ProXPL/internal/lexer"
)

// Precedence levels for operators (lowest to highest).
const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -= ...
	TERNARY     // ?:
	COALESCE    // ??
	OR          // ||
	AND         // &&
	BITOR       // |
	BITXOR      // ^
	BITAND      // &
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / % **
	PREFIX      // -x !x ~x
	CALL        // fn(args)
	INDEX       // xs[i]
	MEMBER      // obj.field
)

// precedences maps token types to their precedence levels.
var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:            ASSIGN,
	lexer.PLUS_ASSIGN:       ASSIGN,
	lexer.MINUS_ASSIGN:      ASSIGN,
	lexer.STAR_ASSIGN:       ASSIGN,
	lexer.SLASH_ASSIGN:      ASSIGN,
	lexer.PERCENT_ASSIGN:    ASSIGN,
	lexer.POWER_ASSIGN:      ASSIGN,
	lexer.AND_ASSIGN:        ASSIGN,
	lexer.OR_ASSIGN:         ASSIGN,
	lexer.XOR_ASSIGN:        ASSIGN,
	lexer.LSHIFT_ASSIGN:     ASSIGN,
	lexer.RSHIFT_ASSIGN:     ASSIGN,
	lexer.QUESTION:          TERNARY,
	lexer.QUESTION_QUESTION: COALESCE,
	lexer.OR:                OR,
	lexer.AND:               AND,
	lexer.BIT_OR:            BITOR,
	lexer.BIT_XOR:           BITXOR,
	lexer.BIT_AND:           BITAND,
	lexer.EQ:                EQUALS,
	lexer.NEQ:               EQUALS,
	lexer.LT:                LESSGREATER,
	lexer.GT:                LESSGREATER,
	lexer.LTE:               LESSGREATER,
	lexer.GTE:               LESSGREATER,
	lexer.LSHIFT:            SHIFT,
	lexer.RSHIFT:            SHIFT,
	lexer.PLUS:              SUM,
	lexer.MINUS:             SUM,
	lexer.STAR:              PRODUCT,
	lexer.SLASH:             PRODUCT,
	lexer.PERCENT:           PRODUCT,
	lexer.POWER:             PRODUCT,
	lexer.LPAREN:            CALL,
	lexer.LBRACKET:          INDEX,
	lexer.DOT:               MEMBER,
}

// maxCallArgs is the soft cap on parameter and argument list lengths.
// Exceeding it produces a recoverable error but parsing continues.
const maxCallArgs = 255

// prefixParseFn parses prefix expressions (literals, unary ops, grouping).
type prefixParseFn func() ast.Expression

// infixParseFn parses infix expressions (binary ops, calls, member access).
type infixParseFn func(ast.Expression) ast.Expression

// Parser turns a token sequence into an AST, collecting errors as it goes.
type Parser struct {
	tokens         []lexer.Token
	pos            int
	errors         []*ParseError
	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser over a token sequence. The sequence is expected to be
// terminated by an EOF token, as produced by lexer.Tokenize.
func New(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.EOF {
		tokens = append(tokens, lexer.Token{Type: lexer.EOF})
	}
	p := &Parser{tokens: tokens}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:    p.parseIdentifier,
		lexer.THIS:     p.parseIdentifier,
		lexer.SUPER:    p.parseIdentifier,
		lexer.NUMBER:   p.parseNumberLiteral,
		lexer.STRING:   p.parseStringLiteral,
		lexer.TRUE:     p.parseBooleanLiteral,
		lexer.FALSE:    p.parseBooleanLiteral,
		lexer.NULL:     p.parseNullLiteral,
		lexer.BANG:     p.parseUnaryExpression,
		lexer.MINUS:    p.parseUnaryExpression,
		lexer.BIT_NOT:  p.parseUnaryExpression,
		lexer.LPAREN:   p.parseGrouping,
		lexer.LBRACKET: p.parseListLiteral,
		lexer.LBRACE:   p.parseDictLiteral,
		lexer.FUNC:     p.parseLambda,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:              p.parseBinaryExpression,
		lexer.MINUS:             p.parseBinaryExpression,
		lexer.STAR:              p.parseBinaryExpression,
		lexer.SLASH:             p.parseBinaryExpression,
		lexer.PERCENT:           p.parseBinaryExpression,
		lexer.POWER:             p.parseBinaryExpression,
		lexer.EQ:                p.parseBinaryExpression,
		lexer.NEQ:               p.parseBinaryExpression,
		lexer.LT:                p.parseBinaryExpression,
		lexer.GT:                p.parseBinaryExpression,
		lexer.LTE:               p.parseBinaryExpression,
		lexer.GTE:               p.parseBinaryExpression,
		lexer.BIT_AND:           p.parseBinaryExpression,
		lexer.BIT_OR:            p.parseBinaryExpression,
		lexer.BIT_XOR:           p.parseBinaryExpression,
		lexer.LSHIFT:            p.parseBinaryExpression,
		lexer.RSHIFT:            p.parseBinaryExpression,
		lexer.AND:               p.parseLogicalExpression,
		lexer.OR:                p.parseLogicalExpression,
		lexer.QUESTION_QUESTION: p.parseLogicalExpression,
		lexer.QUESTION:          p.parseTernaryExpression,
		lexer.LPAREN:            p.parseCallExpression,
		lexer.DOT:               p.parsePropertyGet,
		lexer.LBRACKET:          p.parseIndexGet,
	}
	for _, tt := range []lexer.TokenType{
		lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.STAR_ASSIGN,
		lexer.SLASH_ASSIGN, lexer.PERCENT_ASSIGN, lexer.POWER_ASSIGN,
		lexer.AND_ASSIGN, lexer.OR_ASSIGN, lexer.XOR_ASSIGN,
		lexer.LSHIFT_ASSIGN, lexer.RSHIFT_ASSIGN,
	} {
		p.infixParseFns[tt] = p.parseAssignment
	}

	return p
}

// Parse parses the whole token stream into a Program. Parse errors are
// collected and available via Errors(); statements that failed to parse are
// omitted from the result.
func (p *Parser) Parse() *ast.Program {
	program := &ast.Program{}
	for !p.atEnd() {
		if stmt := p.parseDeclaration(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}
	return program
}

// Errors returns the collected parse errors.
func (p *Parser) Errors() []*ParseError {
	return p.errors
}

// ErrorStrings returns the collected parse errors as formatted strings.
func (p *Parser) ErrorStrings() []string {
	out := make([]string, len(p.errors))
	for i, e := range p.errors {
		out[i] = e.Error()
	}
	return out
}

// ---- cursor helpers ----

func (p *Parser) cur() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() lexer.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if p.pos+1 < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) atEnd() bool {
	return p.cur().Type == lexer.EOF
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return p.cur().Type == tt
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it has the given type, otherwise it
// records an error and panics with parseFailure for synchronisation.
func (p *Parser) expect(tt lexer.TokenType, msg string) lexer.Token {
	if p.check(tt) {
		return p.advance()
	}
	panic(p.errorAt(p.cur(), msg))
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.cur().Type]; ok {
		return prec
	}
	return LOWEST
}

// ---- error handling ----

// errorAt records a parse error and returns a parseFailure sentinel for
// panic-based unwinding to the statement boundary.
func (p *Parser) errorAt(tok lexer.Token, msg string) parseFailure {
	p.errors = append(p.errors, &ParseError{Message: msg, Pos: tok.Pos})
	return parseFailure{}
}

// softError records a recoverable error without unwinding.
func (p *Parser) softError(tok lexer.Token, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{Message: fmt.Sprintf(format, args...), Pos: tok.Pos})
}

// synchronize discards tokens until after a ';' or until the next
// statement-starting keyword, so one error does not cascade.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.tokens[p.pos-1].Type == lexer.SEMICOLON {
			return
		}
		switch p.cur().Type {
		case lexer.CLASS, lexer.FUNC, lexer.LET, lexer.CONST, lexer.FOR,
			lexer.IF, lexer.WHILE, lexer.RETURN, lexer.USE, lexer.SWITCH, lexer.TRY:
			return
		}
		p.advance()
	}
}
