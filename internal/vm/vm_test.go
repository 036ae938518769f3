package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ProgrammerKR/ProXPL/internal/ir"
	"github.com/ProgrammerKR/ProXPL/internal/lexer"
	"github.com/ProgrammerKR/ProXPL/internal/parser"
	"github.com/ProgrammerKR/ProXPL/internal/runtime"
	"github.com/ProgrammerKR/ProXPL/internal/semantic"
	"github.com/ProgrammerKR/ProXPL/internal/vm/natives"
)

// runSource compiles and executes source, returning the printed output.
func runSource(t *testing.T, source string, opts ...Option) (string, error) {
	t.Helper()
	tokens, err := lexer.New(source).Tokenize()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	p := parser.New(tokens)
	program := p.Parse()
	if len(p.Errors()) > 0 {
		t.Fatalf("parser errors: %v", p.ErrorStrings())
	}
	if errs := semantic.NewAnalyzer().Analyze(program); len(errs) > 0 {
		t.Fatalf("semantic errors: %v", errs)
	}
	module := ir.NewOptimizer().Optimize(ir.Compile(program))

	var out bytes.Buffer
	machine := New(&out, opts...)
	_, rerr := machine.Run(module)
	return out.String(), rerr
}

func expectOutput(t *testing.T, source, want string) {
	t.Helper()
	got, err := runSource(t, source)
	if err != nil {
		t.Fatalf("source %q: unexpected error: %v", source, err)
	}
	if got != want {
		t.Errorf("source %q:\nexpected %q\ngot      %q", source, want, got)
	}
}

func TestFunctionCall(t *testing.T) {
	expectOutput(t, "func add(a,b){ return a+b; } print(add(2,3));", "5\n")
}

func TestForLoopAccumulates(t *testing.T) {
	expectOutput(t, "let s=0; for(let i=0;i<10;i=i+1){ s=s+i; } print(s);", "45\n")
}

func TestTryCatchFinally(t *testing.T) {
	expectOutput(t,
		`try { let x = 1/0; } catch(e) { print("caught"); } finally { print("done"); }`,
		"caught\ndone\n")
}

func TestListPush(t *testing.T) {
	expectOutput(t, "let xs=[]; for(let i=0;i<3;i=i+1){ push(xs,i); } print(xs);", "[0, 1, 2]\n")
}

func TestWhileWithBreakContinue(t *testing.T) {
	expectOutput(t, `
		let i = 0;
		let total = 0;
		while (true) {
			i = i + 1;
			if (i > 10) { break; }
			if (i % 2 == 0) { continue; }
			total = total + i;
		}
		print(total);`, "25\n")
}

func TestSwitchDispatch(t *testing.T) {
	source := `
		func describe(n) {
			switch (n) {
				case 1: return "one";
				case 2: return "two";
				default: return "many";
			}
		}
		print(describe(1), describe(2), describe(9));`
	expectOutput(t, source, "one two many\n")
}

func TestRecursion(t *testing.T) {
	expectOutput(t, `
		func fib(n) {
			if (n < 2) { return n; }
			return fib(n - 1) + fib(n - 2);
		}
		print(fib(15));`, "610\n")
}

func TestClosuresCaptureEnvironment(t *testing.T) {
	expectOutput(t, `
		func counter() {
			let n = 0;
			return func() { n = n + 1; return n; };
		}
		let next = counter();
		print(next(), next(), next());`, "1 2 3\n")
}

func TestLambdasAsValues(t *testing.T) {
	expectOutput(t, `
		let twice = func(f, x) { return f(f(x)); };
		print(twice(func(n) { return n * 3; }, 2));`, "18\n")
}

func TestClassesAndMethods(t *testing.T) {
	expectOutput(t, `
		class Point {
			func init(x, y) { this.x = x; this.y = y; }
			func sum() { return this.x + this.y; }
		}
		let p = Point(3, 4);
		print(p.sum());
		p.x = 10;
		print(p.sum());`, "7\n14\n")
}

func TestInheritanceAndSuper(t *testing.T) {
	expectOutput(t, `
		class Animal {
			func init(name) { this.name = name; }
			func speak() { return this.name + " makes a sound"; }
		}
		class Dog extends Animal {
			func speak() { return super.speak() + ": woof"; }
		}
		let d = Dog("Rex");
		print(d.speak());`, "Rex makes a sound: woof\n")
}

func TestNumericPromotion(t *testing.T) {
	expectOutput(t, "print(1 + 2);", "3\n")
	expectOutput(t, "print(7 / 2);", "3.5\n")
	expectOutput(t, "print(1 + 2.5);", "3.5\n")
	expectOutput(t, "print(2 ** 10);", "1024\n")
	expectOutput(t, "print(7 % 3);", "1\n")
}

func TestStringConcat(t *testing.T) {
	expectOutput(t, `print("foo" + "bar");`, "foobar\n")
}

func TestTernaryAndLogical(t *testing.T) {
	expectOutput(t, "print(1 < 2 ? \"yes\" : \"no\");", "yes\n")
	// The right operand must not evaluate when the left decides the result.
	expectOutput(t, "func boom() { return 1/0; } print(false && boom());", "false\n")
	expectOutput(t, "func boom() { return 1/0; } print(true || boom());", "true\n")
	expectOutput(t, "print(null ?? \"fallback\");", "fallback\n")
}

func TestBitwiseOperators(t *testing.T) {
	expectOutput(t, "print(6 & 3, 6 | 3, 6 ^ 3, 1 << 4, 16 >> 2, ~0);", "2 7 5 16 4 -1\n")
}

func TestDictLiteralsAndIndexing(t *testing.T) {
	expectOutput(t, `
		let d = {"a": 1, "b": 2};
		d["c"] = 3;
		print(d["a"] + d["b"] + d["c"]);`, "6\n")
}

func TestRuntimeErrorKinds(t *testing.T) {
	tests := []struct {
		source string
		kind   runtime.ErrorKind
	}{
		{"let x = 1/0;", runtime.DivisionByZero},
		{"let xs = [1]; let y = xs[5];", runtime.IndexError},
		{"let xs = [1]; let y = xs[0-1];", runtime.IndexError},
		{`let d = {"a": 1}; let v = d["b"];`, runtime.KeyError},
		{`let x = 1 + "s";`, runtime.TypeError},
		{`let x = [] < [];`, runtime.TypeError},
		{"assert(false);", runtime.AssertionError},
	}
	for _, tt := range tests {
		_, err := runSource(t, tt.source)
		rerr, ok := err.(*RuntimeError)
		if !ok {
			t.Errorf("source %q: expected runtime error, got %v", tt.source, err)
			continue
		}
		if rerr.Kind() != tt.kind {
			t.Errorf("source %q: expected %s, got %s", tt.source, tt.kind, rerr.Kind())
		}
	}
}

func TestUncaughtErrorCarriesPosition(t *testing.T) {
	_, err := runSource(t, "let x = 1;\nlet y = 1/0;")
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "DivisionByZero") || !strings.Contains(msg, "at 2:") {
		t.Errorf("diagnostic must carry kind and position: %q", msg)
	}
}

func TestThrowAndCatch(t *testing.T) {
	expectOutput(t, `
		try { throw "boom"; } catch (e) { print("got:", e); }`, "got: Error: boom\n")
}

func TestFinallyRunsOnReturn(t *testing.T) {
	expectOutput(t, `
		func f() {
			try { return "value"; } finally { print("cleanup"); }
		}
		print(f());`, "cleanup\nvalue\n")
}

func TestFinallyRunsOnBreak(t *testing.T) {
	expectOutput(t, `
		for (let i = 0; i < 3; i = i + 1) {
			try {
				if (i == 1) { break; }
				print(i);
			} finally { print("fin", i); }
		}`, "0\nfin 0\nfin 1\n")
}

func TestNestedTryRethrow(t *testing.T) {
	expectOutput(t, `
		try {
			try { let x = 1/0; } finally { print("inner"); }
		} catch (e) { print("outer"); }`, "inner\nouter\n")
}

func TestErrorInsideFunctionPropagates(t *testing.T) {
	expectOutput(t, `
		func risky() { return 1/0; }
		try { risky(); } catch (e) { print("caught"); }`, "caught\n")
}

func TestConstIsEnforcedAtRuntimeToo(t *testing.T) {
	// The resolver rejects const rebinding statically; the VM enforces the
	// same rule for defensively constructed modules.
	module := ir.NewModule()
	fn := ir.NewFunction(ir.EntryFunction, nil)
	module.AddFunction(fn)
	entry := fn.NewBlock("entry")
	entry.Add(ir.Instruction{Op: ir.RETURN, Arg1: ir.Const(nil)})

	var out bytes.Buffer
	machine := New(&out)
	machine.Globals().DefineConst("k", runtime.IntValue(1))
	if _, err := machine.Run(module); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok := machine.Globals().Assign("k", runtime.IntValue(2)); ok {
		t.Error("const assignment must be rejected")
	}
}

func TestStopRaisesCancelled(t *testing.T) {
	var out bytes.Buffer
	machine := New(&out)
	machine.Stop()

	tokens, _ := lexer.New("let i = 0; while (true) { i = i + 1; }").Tokenize()
	p := parser.New(tokens)
	program := p.Parse()
	module := ir.Compile(program)

	_, err := machine.Run(module)
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected runtime error, got %v", err)
	}
	if rerr.Kind() != runtime.Cancelled {
		t.Errorf("expected Cancelled, got %s", rerr.Kind())
	}
}

func TestCancellationRunsFinally(t *testing.T) {
	var out bytes.Buffer
	machine := New(&out)
	machine.DefineNative("halt", func(_ natives.Context, _ []runtime.Value) (runtime.Value, error) {
		machine.Stop()
		return runtime.NullValue(), nil
	})

	source := `try { while (true) { halt(); } } finally { print("cleanup"); }`
	tokens, _ := lexer.New(source).Tokenize()
	p := parser.New(tokens)
	module := ir.Compile(p.Parse())

	_, err := machine.Run(module)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !strings.Contains(out.String(), "cleanup") {
		t.Errorf("finally must run on cancellation; output %q", out.String())
	}
}

func TestGarbageCollectionDuringExecution(t *testing.T) {
	// A tight threshold forces collections at block boundaries; garbage from
	// each iteration must be reclaimed while live data survives.
	source := `
		let keep = [];
		for (let i = 0; i < 200; i = i + 1) {
			let garbage = [i, i, i, i];
			if (i % 50 == 0) { push(keep, i); }
		}
		print(keep);`
	got, err := runSource(t, source, WithGCThreshold(2048))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "[0, 50, 100, 150]\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestDefineNative(t *testing.T) {
	var out bytes.Buffer
	machine := New(&out)
	machine.DefineNative("answer", func(_ natives.Context, _ []runtime.Value) (runtime.Value, error) {
		return runtime.IntValue(42), nil
	})

	tokens, _ := lexer.New("print(answer());").Tokenize()
	p := parser.New(tokens)
	module := ir.Compile(p.Parse())
	if _, err := machine.Run(module); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "42\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestProgramResultIsLastReturn(t *testing.T) {
	tokens, _ := lexer.New("let x = 41;").Tokenize()
	p := parser.New(tokens)
	module := ir.Compile(p.Parse())

	var out bytes.Buffer
	result, err := New(&out).Run(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsNull() {
		t.Errorf("top-level fallthrough must produce null, got %s", result)
	}
}
