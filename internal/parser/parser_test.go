package parser

import (
	"strings"
	"testing"

	"github.com/ProgrammerKR/ProXPL/internal/ast"
	"github.com/ProgrammerKR/ProXPL/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	tokens, err := lexer.New(input).Tokenize()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	p := New(tokens)
	program := p.Parse()
	if len(p.Errors()) > 0 {
		t.Fatalf("parser errors: %v", p.ErrorStrings())
	}
	return program
}

func TestVarStatements(t *testing.T) {
	tests := []struct {
		input   string
		name    string
		isConst bool
	}{
		{"let x = 5;", "x", false},
		{"const y = 10;", "y", true},
		{"let z;", "z", false},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("input %q: expected 1 statement, got %d", tt.input, len(program.Statements))
		}
		stmt, ok := program.Statements[0].(*ast.VarStatement)
		if !ok {
			t.Fatalf("input %q: expected *ast.VarStatement, got %T", tt.input, program.Statements[0])
		}
		if stmt.Name.Value != tt.name {
			t.Errorf("input %q: expected name %q, got %q", tt.input, tt.name, stmt.Name.Value)
		}
		if stmt.IsConst != tt.isConst {
			t.Errorf("input %q: expected IsConst=%v", tt.input, tt.isConst)
		}
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a * b;", "((-a) * b);"},
		{"!-a;", "(!(-a));"},
		{"a + b + c;", "((a + b) + c);"},
		{"a + b * c;", "(a + (b * c));"},
		{"a * b ** c;", "((a * b) ** c);"},
		{"a > b == c > d;", "((a > b) == (c > d));"},
		{"a + b < c * d;", "((a + b) < (c * d));"},
		{"a && b || c;", "((a && b) || c);"},
		{"a == b && c != d;", "((a == b) && (c != d));"},
		{"a | b ^ c & d;", "(a | (b ^ (c & d)));"},
		{"a << 2 + 1;", "(a << (2 + 1));"},
		{"(a + b) * c;", "((a + b) * c);"},
		{"a ? b : c ? d : e;", "(a ? b : (c ? d : e));"},
		{"x = y = 1;", "x = y = 1;"},
		{"a.b.c;", "a.b.c;"},
		{"xs[1] + 1;", "(xs[1] + 1);"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		got := strings.TrimSpace(program.String())
		if got != tt.expected {
			t.Errorf("input %q:\nexpected %q\ngot      %q", tt.input, tt.expected, got)
		}
	}
}

func TestCompoundAssignmentDesugars(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a += 1;", "a = (a + 1);"},
		{"a -= 2;", "a = (a - 2);"},
		{"a **= 2;", "a = (a ** 2);"},
		{"a <<= 3;", "a = (a << 3);"},
		{"xs[0] += 1;", "xs[0] = (xs[0] + 1);"},
		{"o.f *= 2;", "o.f = (o.f * 2);"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		got := strings.TrimSpace(program.String())
		if got != tt.expected {
			t.Errorf("input %q:\nexpected %q\ngot      %q", tt.input, tt.expected, got)
		}
	}
}

func TestFunctionDecl(t *testing.T) {
	program := parseProgram(t, "func add(a, b) { return a + b; }")
	fd, ok := program.Statements[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected *ast.FunctionDecl, got %T", program.Statements[0])
	}
	if fd.Name.Value != "add" {
		t.Errorf("expected name add, got %q", fd.Name.Value)
	}
	if len(fd.Params) != 2 || fd.Params[0] != "a" || fd.Params[1] != "b" {
		t.Errorf("unexpected params: %v", fd.Params)
	}
}

func TestClassDecl(t *testing.T) {
	program := parseProgram(t, `class Dog extends Animal {
		func bark() { return "woof"; }
	}`)
	cd, ok := program.Statements[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", program.Statements[0])
	}
	if cd.Name.Value != "Dog" || cd.Superclass == nil || cd.Superclass.Value != "Animal" {
		t.Errorf("unexpected class header: %s", cd.String())
	}
	if len(cd.Methods) != 1 || cd.Methods[0].Name.Value != "bark" {
		t.Errorf("unexpected methods: %v", cd.Methods)
	}
}

func TestUseStatement(t *testing.T) {
	program := parseProgram(t, "use math, strings;")
	us, ok := program.Statements[0].(*ast.UseStatement)
	if !ok {
		t.Fatalf("expected *ast.UseStatement, got %T", program.Statements[0])
	}
	if len(us.Modules) != 2 || us.Modules[0] != "math" || us.Modules[1] != "strings" {
		t.Errorf("unexpected modules: %v", us.Modules)
	}
}

func TestControlFlowStatements(t *testing.T) {
	inputs := []string{
		"if (a > 1) { print(a); } else { print(0); }",
		"while (x < 10) { x = x + 1; }",
		"for (let i = 0; i < 10; i = i + 1) { s = s + i; }",
		"for (;;) { break; }",
		`switch (x) { case 1: print("one"); break; default: print("?"); }`,
		`try { risky(); } catch (e) { print(e); } finally { cleanup(); }`,
		"throw \"boom\";",
	}
	for _, input := range inputs {
		parseProgram(t, input)
	}
}

func TestLiteralsAndLambdas(t *testing.T) {
	inputs := []string{
		"let xs = [1, 2, 3];",
		`let d = {"a": 1, "b": 2};`,
		"let f = func(a, b) { return a * b; };",
		"let n = 0xFF;",
		"let pi = 3.14;",
		"let s = 'hi' + \"there\";",
		"let t = cond ? 1 : 2;",
		"let q = a ?? b;",
	}
	for _, input := range inputs {
		parseProgram(t, input)
	}
}

func TestParseErrorsAreCollected(t *testing.T) {
	tokens, err := lexer.New("let = 5; let y = 10;").Tokenize()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	p := New(tokens)
	program := p.Parse()

	if len(p.Errors()) == 0 {
		t.Fatal("expected parse errors")
	}
	// The parser must recover and still parse the second declaration.
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 recovered statement, got %d", len(program.Statements))
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	tokens, _ := lexer.New("1 = 2;").Tokenize()
	p := New(tokens)
	p.Parse()
	if len(p.Errors()) == 0 {
		t.Fatal("expected error for invalid assignment target")
	}
}

func TestAsyncAwaitReserved(t *testing.T) {
	for _, input := range []string{"async;", "await f();"} {
		tokens, _ := lexer.New(input).Tokenize()
		p := New(tokens)
		p.Parse()
		if len(p.Errors()) == 0 {
			t.Errorf("input %q: expected reserved-keyword parse error", input)
		}
	}
}

// Pretty-printing a parsed program and re-parsing it must reproduce an
// equal tree up to source positions.
func TestPrettyPrintRoundTrip(t *testing.T) {
	input := `func fib(n) {
		if (n < 2) { return n; }
		return fib(n - 1) + fib(n - 2);
	}
	let xs = [1, 2, 3];
	for (let i = 0; i < 3; i = i + 1) { push(xs, fib(i)); }
	print(xs);`

	first := parseProgram(t, input)
	second := parseProgram(t, first.String())

	if first.String() != second.String() {
		t.Errorf("round trip mismatch:\nfirst:  %s\nsecond: %s", first.String(), second.String())
	}
}
