package semantic

import (
	"strings"
	"testing"

	"github.com/ProgrammerKR/ProXPL/internal/lexer"
	"github.com/ProgrammerKR/ProXPL/internal/parser"
)

func analyze(t *testing.T, input string) []string {
	t.Helper()
	tokens, err := lexer.New(input).Tokenize()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	p := parser.New(tokens)
	program := p.Parse()
	if len(p.Errors()) > 0 {
		t.Fatalf("parser errors: %v", p.ErrorStrings())
	}
	return NewAnalyzer().Analyze(program)
}

func expectClean(t *testing.T, input string) {
	t.Helper()
	if errs := analyze(t, input); len(errs) > 0 {
		t.Errorf("input %q: unexpected errors: %v", input, errs)
	}
}

func expectError(t *testing.T, input, fragment string) {
	t.Helper()
	errs := analyze(t, input)
	if len(errs) == 0 {
		t.Errorf("input %q: expected error containing %q, got none", input, fragment)
		return
	}
	for _, err := range errs {
		if strings.Contains(err, fragment) {
			return
		}
	}
	t.Errorf("input %q: no error contains %q; got %v", input, fragment, errs)
}

func TestWellFormedPrograms(t *testing.T) {
	inputs := []string{
		"let x = 1; print(x);",
		"func f(a) { return a; } f(1);",
		"func outer() { let g = func(x) { return x; }; return g(1); }",
		"for (let i = 0; i < 3; i = i + 1) { print(i); }",
		"while (true) { break; }",
		"while (true) { continue; }",
		"switch (1) { case 1: break; default: print(0); }",
		"try { print(1); } catch (e) { print(e); } finally { print(2); }",
		"class A { func init(x) { this.x = x; } } let a = A(1);",
		"class B {} class C extends B { func f() { return this; } }",
		"let s = 0; { let s2 = s + 1; print(s2); }",
	}
	for _, input := range inputs {
		expectClean(t, input)
	}
}

func TestRedeclarationInSameScope(t *testing.T) {
	expectError(t, "let x = 1; let x = 2;", "already declared")
}

func TestShadowingInInnerScopeIsLegal(t *testing.T) {
	expectClean(t, "let x = 1; { let x = 2; print(x); }")
}

func TestUnknownIdentifier(t *testing.T) {
	expectError(t, "print(missing);", "undefined identifier 'missing'")
}

func TestConstCannotBeReassigned(t *testing.T) {
	expectError(t, "const k = 1; k = 2;", "cannot assign to constant 'k'")
}

func TestReturnOutsideFunction(t *testing.T) {
	expectError(t, "return 1;", "'return' outside of function")
}

func TestBreakOutsideLoop(t *testing.T) {
	expectError(t, "break;", "'break' outside of loop")
}

func TestContinueOutsideLoop(t *testing.T) {
	expectError(t, "continue;", "'continue' outside of loop")
	expectError(t, "switch (1) { case 1: continue; }", "'continue' outside of loop")
}

func TestLoopContextDoesNotCrossFunctions(t *testing.T) {
	expectError(t, "while (true) { let f = func() { break; }; }", "'break' outside of loop")
}

func TestUndefinedSuperclass(t *testing.T) {
	expectError(t, "class Dog extends Animal {}", "undefined superclass 'Animal'")
}

func TestThisInsideClassBody(t *testing.T) {
	expectClean(t, "class P { func get() { return this.v; } }")
}

func TestDuplicateParameter(t *testing.T) {
	expectError(t, "func f(a, a) { return a; }", "duplicate parameter 'a'")
}

func TestForwardReferenceBetweenFunctions(t *testing.T) {
	expectClean(t, `
		func even(n) { if (n == 0) { return true; } return odd(n - 1); }
		func odd(n) { if (n == 0) { return false; } return even(n - 1); }
		print(even(4));`)
}

func TestErrorsAreCollectedNotFatal(t *testing.T) {
	errs := analyze(t, "print(a); print(b); print(c);")
	if len(errs) != 3 {
		t.Errorf("expected 3 collected errors, got %d: %v", len(errs), errs)
	}
}
