package modules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProgrammerKR/ProXPL/internal/ast"
	"github.com/ProgrammerKR/ProXPL/internal/lexer"
	"github.com/ProgrammerKR/ProXPL/internal/parser"
)

func writeModule(t *testing.T, dir, name, source string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+SourceSuffix), []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
}

func parseSource(t *testing.T, source string) *ast.Program {
	t.Helper()
	tokens, err := lexer.New(source).Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	p := parser.New(tokens)
	program := p.Parse()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse errors: %v", p.ErrorStrings())
	}
	return program
}

func TestResolveSearchOrder(t *testing.T) {
	dir := t.TempDir()
	packages := filepath.Join(dir, "packages")
	if err := os.Mkdir(packages, 0o755); err != nil {
		t.Fatal(err)
	}
	writeModule(t, dir, "util", "let from_cwd = 1;")
	writeModule(t, packages, "util", "let from_packages = 1;")

	imp := NewImporter([]string{dir, packages})
	path, err := imp.Resolve("util")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("expected first search path to win, got %s", path)
	}
}

func TestMissingModule(t *testing.T) {
	imp := NewImporter([]string{t.TempDir()})
	_, err := imp.Load("nope")
	if err == nil {
		t.Fatal("expected import error")
	}
	if !strings.Contains(err.Error(), "'nope' not found in paths") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestExpandSplicesModuleStatements(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "geometry", "func area(w, h) { return w * h; }")

	program := parseSource(t, "use geometry; print(area(2, 3));")
	imp := NewImporter([]string{dir})
	expanded, err := imp.Expand(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expanded.Statements) != 2 {
		t.Fatalf("expected 2 statements after expansion, got %d", len(expanded.Statements))
	}
	if _, ok := expanded.Statements[0].(*ast.FunctionDecl); !ok {
		t.Errorf("expected spliced function declaration, got %T", expanded.Statements[0])
	}
}

func TestModuleLoadedAtMostOnce(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "once", "let marker = 1;")

	program := parseSource(t, "use once; use once; print(marker);")
	imp := NewImporter([]string{dir})
	expanded, err := imp.Expand(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One contribution plus the print; the second use adds nothing.
	if len(expanded.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(expanded.Statements))
	}
}

func TestTransitiveExpansion(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "inner", "let depth = 2;")
	writeModule(t, dir, "outer", "use inner; let shallow = 1;")

	program := parseSource(t, "use outer; print(depth + shallow);")
	imp := NewImporter([]string{dir})
	expanded, err := imp.Expand(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expanded.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(expanded.Statements))
	}
}

func TestCycleDetection(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a", "use b; print(\"a\");")
	writeModule(t, dir, "b", "use a;")

	program := parseSource(t, "use a;")
	imp := NewImporter([]string{dir})
	_, err := imp.Expand(program)
	if err == nil {
		t.Fatal("expected cycle error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "circular dependency") {
		t.Errorf("unexpected message: %s", msg)
	}
	if !strings.Contains(msg, "a") || !strings.Contains(msg, "b") {
		t.Errorf("cycle message must name both modules: %s", msg)
	}
	if !strings.Contains(msg, "->") {
		t.Errorf("cycle message must show the path: %s", msg)
	}
}

func TestDiamondIsNotACycle(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "base", "let b = 1;")
	writeModule(t, dir, "left", "use base; let l = 1;")
	writeModule(t, dir, "right", "use base; let r = 1;")

	program := parseSource(t, "use left, right; print(b + l + r);")
	imp := NewImporter([]string{dir})
	expanded, err := imp.Expand(program)
	if err != nil {
		t.Fatalf("diamond dependency must not be a cycle: %v", err)
	}
	// base once, l, r, print.
	if len(expanded.Statements) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(expanded.Statements))
	}
}
