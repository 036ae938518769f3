package ir

import (
	"strings"
	"testing"
)

func optimizedMain(t *testing.T, input string) (*Module, *Function) {
	t.Helper()
	module := compileSource(t, input)
	NewOptimizer().Optimize(module)
	return module, module.Functions[EntryFunction]
}

// findVarWrite returns the last instruction writing the named variable.
func findVarWrite(fn *Function, name string) (Instruction, bool) {
	var found Instruction
	ok := false
	for _, block := range fn.Blocks {
		for _, instr := range block.Instructions {
			if instr.Result.Kind == OperandVar && instr.Result.Name == name {
				found = instr
				ok = true
			}
		}
	}
	return found, ok
}

func TestConstantFoldingCollapsesToSingleMove(t *testing.T) {
	_, main := optimizedMain(t, "let y = 2*3+1;")

	instr, ok := findVarWrite(main, "y")
	if !ok {
		t.Fatal("no write to y")
	}
	if instr.Op != MOVE {
		t.Fatalf("expected MOVE y, 7; got %s", instr)
	}
	if v, _ := instr.Arg1.Const.(int64); v != 7 {
		t.Fatalf("expected folded constant 7, got %s", instr)
	}

	// The intermediate MUL/ADD must be gone.
	if countOp(main, MUL) != 0 || countOp(main, ADD) != 0 {
		t.Errorf("arithmetic survived folding:\n%s", main.Blocks[0])
	}
}

func TestIntDivisionFoldsToFloat(t *testing.T) {
	_, main := optimizedMain(t, "let q = 7/2;")
	instr, ok := findVarWrite(main, "q")
	if !ok {
		t.Fatal("no write to q")
	}
	if v, isFloat := instr.Arg1.Const.(float64); !isFloat || v != 3.5 {
		t.Errorf("expected 3.5, got %s", instr)
	}
}

func TestDivisionByZeroIsNeverFolded(t *testing.T) {
	_, main := optimizedMain(t, "let x = 1/0;")
	if countOp(main, DIV) != 1 {
		t.Error("division by zero must be preserved to fault at runtime")
	}

	_, main = optimizedMain(t, "let m = 1%0;")
	if countOp(main, MOD) != 1 {
		t.Error("modulo by zero must be preserved to fault at runtime")
	}
}

func TestDeadCodeElimination(t *testing.T) {
	// The unused subexpression result is dead, the call is not.
	module := compileSource(t, "func f() { return 1; } let a = 1; f();")
	NewOptimizer().Optimize(module)
	main := module.Functions[EntryFunction]

	if countOp(main, CALL) != 1 {
		t.Error("calls are side-effecting and must survive DCE")
	}
}

func TestStoresSurviveDCE(t *testing.T) {
	_, main := optimizedMain(t, "let a = 1; a = 2 + 3;")
	if countOp(main, STORE) != 1 {
		t.Error("STORE is side-effecting and must survive DCE")
	}
}

// The optimiser is a fixed point: applying it twice yields the same IR as
// applying it once.
func TestOptimizerIsFixedPoint(t *testing.T) {
	inputs := []string{
		"let y = 2*3+1;",
		"let s = 0; for (let i = 0; i < 10; i = i + 1) { s = s + i; } print(s);",
		"func add(a, b) { return a + b; } print(add(2, 3));",
		"let r = 1/0;",
		`try { print(1); } catch (e) { print(e); } finally { print(2); }`,
	}
	for _, input := range inputs {
		module := compileSource(t, input)
		once := NewOptimizer().Optimize(module).String()
		twice := NewOptimizer().Optimize(module).String()
		if once != twice {
			t.Errorf("input %q: optimiser is not a fixed point:\n--- once ---\n%s\n--- twice ---\n%s", input, once, twice)
		}
	}
}

func TestFoldingPreservesControlFlow(t *testing.T) {
	_, main := optimizedMain(t, "if (1 + 1 == 2) { print(\"yes\"); } else { print(\"no\"); }")
	if countOp(main, JUMP_IF) != 1 {
		t.Error("folding must not remove branches")
	}
	text := main.Blocks[0].String()
	if strings.Contains(text, "ADD") {
		t.Errorf("constant ADD not folded:\n%s", text)
	}
}
