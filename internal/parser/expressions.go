package parser

import (
	"strconv"
	"strings"

	"github.com/ProgrammerKR/ProXPL/internal/ast"
	"github.com/ProgrammerKR/ProXPL/internal/lexer"
)

// parseExpression is the Pratt driver: parse a prefix expression, then fold
// infix operators while their precedence exceeds the caller's.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.cur().Type]
	if prefix == nil {
		panic(p.errorAt(p.cur(), "expect expression"))
	}
	left := prefix()

	for precedence < p.curPrecedence() {
		infix := p.infixParseFns[p.cur().Type]
		if infix == nil {
			return left
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.advance()
	return &ast.Identifier{Token: tok, Value: tok.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.advance()

	if strings.HasPrefix(tok.Literal, "0x") || strings.HasPrefix(tok.Literal, "0X") {
		v, err := strconv.ParseInt(tok.Literal[2:], 16, 64)
		if err != nil {
			panic(p.errorAt(tok, "invalid hex literal "+tok.Literal))
		}
		return &ast.IntegerLiteral{Token: tok, Value: v}
	}
	if strings.Contains(tok.Literal, ".") {
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			panic(p.errorAt(tok, "invalid float literal "+tok.Literal))
		}
		return &ast.FloatLiteral{Token: tok, Value: v}
	}
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		panic(p.errorAt(tok, "invalid integer literal "+tok.Literal))
	}
	return &ast.IntegerLiteral{Token: tok, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.advance()
	return &ast.StringLiteral{Token: tok, Value: tok.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	tok := p.advance()
	return &ast.BooleanLiteral{Token: tok, Value: tok.Type == lexer.TRUE}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	tok := p.advance()
	return &ast.NullLiteral{Token: tok}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.advance()
	right := p.parseExpression(PREFIX)
	return &ast.UnaryExpression{Token: tok, Operator: tok.Literal, Right: right}
}

func (p *Parser) parseGrouping() ast.Expression {
	tok := p.advance() // (
	expr := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN, "expect ')' after expression")
	return &ast.Grouping{Token: tok, Expression: expr}
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.advance() // [

	var elements []ast.Expression
	if !p.check(lexer.RBRACKET) {
		for {
			elements = append(elements, p.parseExpression(LOWEST))
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RBRACKET, "expect ']' after list elements")
	return &ast.ListLiteral{Token: tok, Elements: elements}
}

func (p *Parser) parseDictLiteral() ast.Expression {
	tok := p.advance() // {

	var entries []ast.DictEntry
	if !p.check(lexer.RBRACE) {
		for {
			key := p.parseExpression(LOWEST)
			p.expect(lexer.COLON, "expect ':' after dictionary key")
			value := p.parseExpression(LOWEST)
			entries = append(entries, ast.DictEntry{Key: key, Value: value})
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RBRACE, "expect '}' after dictionary entries")
	return &ast.DictLiteral{Token: tok, Entries: entries}
}

func (p *Parser) parseLambda() ast.Expression {
	tok := p.advance() // func
	params := p.parseParameterList()
	body := p.parseBlockStatement().(*ast.BlockStatement)
	return &ast.Lambda{Token: tok, Params: params, Body: body}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.advance()
	precedence := precedences[tok.Type]
	right := p.parseExpression(precedence)
	return &ast.BinaryExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	tok := p.advance()
	precedence := precedences[tok.Type]
	right := p.parseExpression(precedence)
	return &ast.LogicalExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
}

// parseTernaryExpression parses cond ? then : else. Right-associative: the
// else branch parses at TERNARY-1 so a trailing ?: nests to the right.
func (p *Parser) parseTernaryExpression(cond ast.Expression) ast.Expression {
	tok := p.advance() // ?
	then := p.parseExpression(LOWEST)
	p.expect(lexer.COLON, "expect ':' in ternary expression")
	elseExpr := p.parseExpression(TERNARY - 1)
	return &ast.TernaryExpression{Token: tok, Condition: cond, Then: then, Else: elseExpr}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	tok := p.advance() // (

	var args []ast.Expression
	if !p.check(lexer.RPAREN) {
		for {
			if len(args) >= maxCallArgs {
				p.softError(p.cur(), "can't have more than %d arguments", maxCallArgs)
			}
			args = append(args, p.parseExpression(LOWEST))
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RPAREN, "expect ')' after arguments")
	return &ast.CallExpression{Token: tok, Callee: callee, Arguments: args}
}

func (p *Parser) parsePropertyGet(object ast.Expression) ast.Expression {
	tok := p.advance() // .
	name := p.expect(lexer.IDENT, "expect property name after '.'")
	return &ast.PropertyGet{Token: tok, Object: object, Name: name.Literal}
}

func (p *Parser) parseIndexGet(target ast.Expression) ast.Expression {
	tok := p.advance() // [
	index := p.parseExpression(LOWEST)
	p.expect(lexer.RBRACKET, "expect ']' after index")
	return &ast.IndexGet{Token: tok, Target: target, Index: index}
}

// parseAssignment handles '=' and the compound assignment operators.
// Valid targets are variable references, property-gets and index-gets;
// compound forms desugar to `target = target <op> value`.
func (p *Parser) parseAssignment(left ast.Expression) ast.Expression {
	tok := p.advance()
	// Assignment is right-associative.
	value := p.parseExpression(ASSIGN - 1)

	if tok.Type != lexer.ASSIGN {
		// a += b  =>  a = a + b
		op := strings.TrimSuffix(tok.Literal, "=")
		value = &ast.BinaryExpression{Token: tok, Left: left, Operator: op, Right: value}
	}

	switch target := left.(type) {
	case *ast.Identifier:
		return &ast.AssignExpression{Token: tok, Name: target, Value: value}
	case *ast.PropertyGet:
		return &ast.PropertySet{Token: tok, Object: target.Object, Name: target.Name, Value: value}
	case *ast.IndexGet:
		return &ast.IndexSet{Token: tok, Target: target.Target, Index: target.Index, Value: value}
	}

	p.softError(tok, "invalid assignment target")
	return value
}
