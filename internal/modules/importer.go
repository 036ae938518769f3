// Package modules implements ProXPL module resolution: `use` declarations
// name modules that are located through a search path, parsed once, and
// spliced into the parent compilation.
package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProgrammerKR/ProXPL/internal/ast"
	"github.com/ProgrammerKR/ProXPL/internal/lexer"
	"github.com/ProgrammerKR/ProXPL/internal/parser"
)

// SourceSuffix is the module file suffix.
const SourceSuffix = ".prox"

// StdlibEnv names the environment variable pointing at the installed
// standard-library root, the last entry of the default search path.
const StdlibEnv = "PROX_STDLIB"

// ImportError reports a module that could not be resolved or parsed.
type ImportError struct {
	Module   string
	Searched []string
	Reason   string
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("ImportError: module '%s': %s", e.Module, e.Reason)
	}
	return fmt.Sprintf("ImportError: module '%s' not found in paths: %s",
		e.Module, strings.Join(e.Searched, ", "))
}

// CycleError reports a circular dependency between modules.
type CycleError struct {
	Chain []string
}

// Error implements the error interface, citing the cycle path.
func (e *CycleError) Error() string {
	return "ImportError: circular dependency detected: " + strings.Join(e.Chain, " -> ")
}

// Importer resolves and loads modules. Each absolute path is loaded at most
// once per compile; re-requests return an empty statement list because the
// module's symbols were already installed by the first load.
type Importer struct {
	searchPaths []string
	loaded      map[string]bool
	processing  []string
}

// DefaultSearchPaths returns the standard resolution order: the importing
// file's directory (or the working directory), the package directory, and
// the installed standard-library root.
func DefaultSearchPaths(scriptDir string) []string {
	if scriptDir == "" {
		scriptDir = "."
	}
	paths := []string{scriptDir, filepath.Join(scriptDir, "packages")}
	if stdlib := os.Getenv(StdlibEnv); stdlib != "" {
		paths = append(paths, stdlib)
	}
	return paths
}

// NewImporter creates an importer over the given search paths, tried in
// order; the first hit wins.
func NewImporter(searchPaths []string) *Importer {
	return &Importer{
		searchPaths: searchPaths,
		loaded:      make(map[string]bool),
	}
}

// Resolve maps a module name to the absolute path of its source file.
func (imp *Importer) Resolve(name string) (string, error) {
	filename := name + SourceSuffix
	for _, dir := range imp.searchPaths {
		candidate := filepath.Join(dir, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", &ImportError{Module: name, Reason: err.Error()}
			}
			return abs, nil
		}
	}
	return "", &ImportError{Module: name, Searched: imp.searchPaths}
}

// Load returns the statements a module contributes, with its own uses
// recursively expanded. A module that was already loaded contributes
// nothing; a module currently being resolved is a cycle.
func (imp *Importer) Load(name string) ([]ast.Statement, error) {
	path, err := imp.Resolve(name)
	if err != nil {
		return nil, err
	}

	if imp.loaded[path] {
		return nil, nil
	}
	for _, active := range imp.processing {
		if active == path {
			chain := make([]string, 0, len(imp.processing)+1)
			for _, p := range imp.processing {
				chain = append(chain, moduleBase(p))
			}
			chain = append(chain, moduleBase(path))
			return nil, &CycleError{Chain: chain}
		}
	}

	imp.processing = append(imp.processing, path)
	defer func() { imp.processing = imp.processing[:len(imp.processing)-1] }()

	source, rerr := os.ReadFile(path)
	if rerr != nil {
		return nil, &ImportError{Module: name, Reason: rerr.Error()}
	}

	tokens, lerr := lexer.New(string(source)).Tokenize()
	if lerr != nil {
		return nil, &ImportError{Module: name, Reason: lerr.Error()}
	}
	p := parser.New(tokens)
	program := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, &ImportError{Module: name, Reason: errs[0].Error()}
	}

	expanded, err := imp.expand(program.Statements)
	if err != nil {
		return nil, err
	}

	imp.loaded[path] = true
	return expanded, nil
}

// Expand rewrites a program, splicing every use-declaration's module
// statements in place of the declaration.
func (imp *Importer) Expand(program *ast.Program) (*ast.Program, error) {
	statements, err := imp.expand(program.Statements)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Statements: statements}, nil
}

func (imp *Importer) expand(statements []ast.Statement) ([]ast.Statement, error) {
	var out []ast.Statement
	for _, stmt := range statements {
		use, ok := stmt.(*ast.UseStatement)
		if !ok {
			out = append(out, stmt)
			continue
		}
		for _, module := range use.Modules {
			contributed, err := imp.Load(module)
			if err != nil {
				return nil, err
			}
			out = append(out, contributed...)
		}
	}
	return out, nil
}

// Loaded reports whether an absolute path has been loaded this compile.
func (imp *Importer) Loaded(path string) bool {
	return imp.loaded[path]
}

func moduleBase(path string) string {
	return strings.TrimSuffix(filepath.Base(path), SourceSuffix)
}
