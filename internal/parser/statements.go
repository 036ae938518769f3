package parser

import (
	"github.com/ProgrammerKR/ProXPL/internal/ast"
	"github.com/ProgrammerKR/ProXPL/internal/lexer"
)

// parseDeclaration parses one top-level declaration or statement, recovering
// via synchronize() on a hard parse error.
func (p *Parser) parseDeclaration() (stmt ast.Statement) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseFailure); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	switch {
	case p.check(lexer.FUNC) && p.peek().Type == lexer.IDENT:
		return p.parseFunctionDecl()
	case p.check(lexer.CLASS):
		return p.parseClassDecl()
	case p.check(lexer.LET):
		return p.parseVarStatement(false)
	case p.check(lexer.CONST):
		return p.parseVarStatement(true)
	case p.check(lexer.USE):
		return p.parseUseStatement()
	}
	return p.parseStatement()
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.BREAK:
		tok := p.advance()
		p.expect(lexer.SEMICOLON, "expect ';' after 'break'")
		return &ast.BreakStatement{Token: tok}
	case lexer.CONTINUE:
		tok := p.advance()
		p.expect(lexer.SEMICOLON, "expect ';' after 'continue'")
		return &ast.ContinueStatement{Token: tok}
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.ASYNC, lexer.AWAIT:
		panic(p.errorAt(p.cur(), "'"+p.cur().Literal+"' is reserved for future use"))
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseVarStatement(isConst bool) ast.Statement {
	tok := p.advance() // let or const
	name := p.expect(lexer.IDENT, "expect variable name")

	var value ast.Expression
	if p.match(lexer.ASSIGN) {
		value = p.parseExpression(LOWEST)
	}
	p.expect(lexer.SEMICOLON, "expect ';' after variable declaration")

	return &ast.VarStatement{
		Token:   tok,
		Name:    &ast.Identifier{Token: name, Value: name.Literal},
		Value:   value,
		IsConst: isConst,
	}
}

func (p *Parser) parseFunctionDecl() ast.Statement {
	tok := p.advance() // func
	name := p.expect(lexer.IDENT, "expect function name")
	params := p.parseParameterList()
	body := p.parseBlockStatement().(*ast.BlockStatement)

	return &ast.FunctionDecl{
		Token:  tok,
		Name:   &ast.Identifier{Token: name, Value: name.Literal},
		Params: params,
		Body:   body,
	}
}

// parseParameterList parses '(' ident (',' ident)* ')'. Lists longer than
// maxCallArgs produce a recoverable error but parsing continues.
func (p *Parser) parseParameterList() []string {
	p.expect(lexer.LPAREN, "expect '(' before parameters")

	var params []string
	if !p.check(lexer.RPAREN) {
		for {
			if len(params) >= maxCallArgs {
				p.softError(p.cur(), "can't have more than %d parameters", maxCallArgs)
			}
			name := p.expect(lexer.IDENT, "expect parameter name")
			params = append(params, name.Literal)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RPAREN, "expect ')' after parameters")
	return params
}

func (p *Parser) parseClassDecl() ast.Statement {
	tok := p.advance() // class
	name := p.expect(lexer.IDENT, "expect class name")

	var superclass *ast.Identifier
	if p.match(lexer.EXTENDS) {
		sup := p.expect(lexer.IDENT, "expect superclass name")
		superclass = &ast.Identifier{Token: sup, Value: sup.Literal}
	}

	p.expect(lexer.LBRACE, "expect '{' before class body")

	var methods []*ast.FunctionDecl
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		if !p.check(lexer.FUNC) {
			panic(p.errorAt(p.cur(), "expect method declaration in class body"))
		}
		methods = append(methods, p.parseFunctionDecl().(*ast.FunctionDecl))
	}
	p.expect(lexer.RBRACE, "expect '}' after class body")

	return &ast.ClassDecl{
		Token:      tok,
		Name:       &ast.Identifier{Token: name, Value: name.Literal},
		Superclass: superclass,
		Methods:    methods,
	}
}

func (p *Parser) parseUseStatement() ast.Statement {
	tok := p.advance() // use

	var modules []string
	for {
		name := p.expect(lexer.IDENT, "expect module name after 'use'")
		modules = append(modules, name.Literal)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.SEMICOLON, "expect ';' after use declaration")

	return &ast.UseStatement{Token: tok, Modules: modules}
}

func (p *Parser) parseBlockStatement() ast.Statement {
	tok := p.expect(lexer.LBRACE, "expect '{'")

	block := &ast.BlockStatement{Token: tok}
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		if stmt := p.parseDeclaration(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	p.expect(lexer.RBRACE, "expect '}' after block")
	return block
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.advance() // if
	p.expect(lexer.LPAREN, "expect '(' after 'if'")
	condition := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN, "expect ')' after if condition")

	then := p.parseStatement()
	var elseStmt ast.Statement
	if p.match(lexer.ELSE) {
		elseStmt = p.parseStatement()
	}

	return &ast.IfStatement{Token: tok, Condition: condition, Then: then, Else: elseStmt}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.advance() // while
	p.expect(lexer.LPAREN, "expect '(' after 'while'")
	condition := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN, "expect ')' after while condition")
	body := p.parseStatement()

	return &ast.WhileStatement{Token: tok, Condition: condition, Body: body}
}

func (p *Parser) parseForStatement() ast.Statement {
	tok := p.advance() // for
	p.expect(lexer.LPAREN, "expect '(' after 'for'")

	var init ast.Statement
	switch {
	case p.match(lexer.SEMICOLON):
		// no initializer
	case p.check(lexer.LET):
		init = p.parseVarStatement(false)
	case p.check(lexer.CONST):
		init = p.parseVarStatement(true)
	default:
		init = p.parseExpressionStatement()
	}

	var condition ast.Expression
	if !p.check(lexer.SEMICOLON) {
		condition = p.parseExpression(LOWEST)
	}
	p.expect(lexer.SEMICOLON, "expect ';' after loop condition")

	var increment ast.Expression
	if !p.check(lexer.RPAREN) {
		increment = p.parseExpression(LOWEST)
	}
	p.expect(lexer.RPAREN, "expect ')' after for clauses")

	body := p.parseStatement()

	return &ast.ForStatement{Token: tok, Init: init, Condition: condition, Increment: increment, Body: body}
}

func (p *Parser) parseSwitchStatement() ast.Statement {
	tok := p.advance() // switch
	p.expect(lexer.LPAREN, "expect '(' after 'switch'")
	subject := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN, "expect ')' after switch subject")
	p.expect(lexer.LBRACE, "expect '{' before switch body")

	stmt := &ast.SwitchStatement{Token: tok, Subject: subject}
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		switch {
		case p.check(lexer.CASE):
			caseTok := p.advance()
			value := p.parseExpression(LOWEST)
			p.expect(lexer.COLON, "expect ':' after case value")
			body := p.parseCaseBody()
			stmt.Cases = append(stmt.Cases, &ast.SwitchCase{Token: caseTok, Value: value, Body: body})
		case p.match(lexer.DEFAULT):
			p.expect(lexer.COLON, "expect ':' after 'default'")
			if stmt.Default != nil {
				p.softError(p.cur(), "duplicate default case")
			}
			stmt.Default = p.parseCaseBody()
		default:
			panic(p.errorAt(p.cur(), "expect 'case' or 'default' in switch body"))
		}
	}
	p.expect(lexer.RBRACE, "expect '}' after switch body")
	return stmt
}

// parseCaseBody parses statements until the next case/default arm or the end
// of the switch.
func (p *Parser) parseCaseBody() []ast.Statement {
	var body []ast.Statement
	for !p.check(lexer.CASE) && !p.check(lexer.DEFAULT) && !p.check(lexer.RBRACE) && !p.atEnd() {
		if stmt := p.parseDeclaration(); stmt != nil {
			body = append(body, stmt)
		}
	}
	return body
}

func (p *Parser) parseTryStatement() ast.Statement {
	tok := p.advance() // try
	body := p.parseBlockStatement().(*ast.BlockStatement)

	stmt := &ast.TryStatement{Token: tok, Body: body}
	if p.match(lexer.CATCH) {
		p.expect(lexer.LPAREN, "expect '(' after 'catch'")
		name := p.expect(lexer.IDENT, "expect error variable name")
		p.expect(lexer.RPAREN, "expect ')' after catch variable")
		stmt.CatchName = name.Literal
		stmt.Catch = p.parseBlockStatement().(*ast.BlockStatement)
	}
	if p.match(lexer.FINALLY) {
		stmt.Finally = p.parseBlockStatement().(*ast.BlockStatement)
	}
	if stmt.Catch == nil && stmt.Finally == nil {
		panic(p.errorAt(p.cur(), "expect 'catch' or 'finally' after try block"))
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.advance() // return

	var value ast.Expression
	if !p.check(lexer.SEMICOLON) {
		value = p.parseExpression(LOWEST)
	}
	p.expect(lexer.SEMICOLON, "expect ';' after return value")

	return &ast.ReturnStatement{Token: tok, Value: value}
}

func (p *Parser) parseThrowStatement() ast.Statement {
	tok := p.advance() // throw
	value := p.parseExpression(LOWEST)
	p.expect(lexer.SEMICOLON, "expect ';' after throw value")

	return &ast.ThrowStatement{Token: tok, Value: value}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur()
	expr := p.parseExpression(LOWEST)
	p.expect(lexer.SEMICOLON, "expect ';' after expression")

	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}
