// Package prox is the embedding API of the ProXPL compilation and execution
// core. It wires the pipeline — lexer, parser, importer, resolver, lowering,
// optimiser, VM — behind a small host-facing surface: Lex, Parse, Compile,
// Run, Build, and native extension via DefineNative.
package prox

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ProgrammerKR/ProXPL/internal/ast"
	"github.com/ProgrammerKR/ProXPL/internal/ir"
	"github.com/ProgrammerKR/ProXPL/internal/lexer"
	"github.com/ProgrammerKR/ProXPL/internal/modules"
	"github.com/ProgrammerKR/ProXPL/internal/parser"
	"github.com/ProgrammerKR/ProXPL/internal/runtime"
	"github.com/ProgrammerKR/ProXPL/internal/semantic"
	"github.com/ProgrammerKR/ProXPL/internal/vm"
	"github.com/ProgrammerKR/ProXPL/internal/vm/natives"
)

// Event is one pipeline trace event. The core emits events; the host
// decides whether and how to surface them.
type Event struct {
	Stage   string
	Detail  string
	Elapsed time.Duration
}

// TraceFunc receives pipeline trace events.
type TraceFunc func(Event)

// BuildFailure aggregates the collected front-end errors of one stage.
type BuildFailure struct {
	Stage    string
	Messages []string
}

// Error implements the error interface.
func (f *BuildFailure) Error() string {
	if len(f.Messages) == 1 {
		return f.Messages[0]
	}
	return fmt.Sprintf("%s failed with %d error(s):\n%s", f.Stage, len(f.Messages), strings.Join(f.Messages, "\n"))
}

// Engine drives the pipeline for one host. The zero configuration writes
// program output to os.Stdout and resolves modules relative to the working
// directory.
type Engine struct {
	out         io.Writer
	in          io.Reader
	searchPaths []string
	trace       TraceFunc
	registry    *natives.Registry
	vmOpts      []vm.Option
}

// Option configures an Engine.
type Option func(*Engine)

// WithOutput sets the writer program output goes to.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

// WithInput sets the reader backing the `input` native.
func WithInput(r io.Reader) Option {
	return func(e *Engine) { e.in = r }
}

// WithSearchPaths overrides the module search path.
func WithSearchPaths(paths []string) Option {
	return func(e *Engine) { e.searchPaths = paths }
}

// WithTrace subscribes a hook to pipeline trace events.
func WithTrace(fn TraceFunc) Option {
	return func(e *Engine) { e.trace = fn }
}

// WithVMOptions appends options passed through to the VM.
func WithVMOptions(opts ...vm.Option) Option {
	return func(e *Engine) { e.vmOpts = append(e.vmOpts, opts...) }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{out: os.Stdout}
	e.registry = natives.NewRegistry()
	natives.RegisterAll(e.registry)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefineNative extends the native registry with a host callable. Natives
// defined here are visible to every program the engine runs.
func (e *Engine) DefineNative(name string, fn natives.Func) {
	e.registry.Register(name, fn, natives.CategoryHost, "host-defined native")
}

func (e *Engine) emit(stage, detail string, started time.Time) {
	if e.trace != nil {
		e.trace(Event{Stage: stage, Detail: detail, Elapsed: time.Since(started)})
	}
}

// Lex tokenizes source text.
func Lex(source string) ([]lexer.Token, error) {
	return lexer.New(source).Tokenize()
}

// Parse builds an AST from a token sequence. The returned error is a
// *BuildFailure carrying all collected parse errors.
func Parse(tokens []lexer.Token) (*ast.Program, error) {
	p := parser.New(tokens)
	program := p.Parse()
	if errs := p.ErrorStrings(); len(errs) > 0 {
		return program, &BuildFailure{Stage: "parsing", Messages: errs}
	}
	return program, nil
}

// Compile runs the front half of the pipeline on source text and returns
// the optimised IR module. sourcePath (may be empty) anchors the module
// search path at the importing file's directory.
func (e *Engine) Compile(source, sourcePath string) (*ir.Module, error) {
	started := time.Now()
	tokens, err := Lex(source)
	if err != nil {
		return nil, &BuildFailure{Stage: "lexing", Messages: []string{err.Error()}}
	}
	e.emit("lex", fmt.Sprintf("%d tokens", len(tokens)), started)

	started = time.Now()
	program, err := Parse(tokens)
	if err != nil {
		return nil, err
	}
	e.emit("parse", fmt.Sprintf("%d top-level statements", len(program.Statements)), started)

	started = time.Now()
	searchPaths := e.searchPaths
	if len(searchPaths) == 0 {
		searchPaths = modules.DefaultSearchPaths(filepath.Dir(sourcePath))
	}
	importer := modules.NewImporter(searchPaths)
	program, err = importer.Expand(program)
	if err != nil {
		return nil, &BuildFailure{Stage: "importing", Messages: []string{err.Error()}}
	}
	e.emit("import", fmt.Sprintf("%d statements after expansion", len(program.Statements)), started)

	started = time.Now()
	analyzer := semantic.NewAnalyzer()
	analyzer.Predeclare(e.registry.Names())
	if errs := analyzer.Analyze(program); len(errs) > 0 {
		return nil, &BuildFailure{Stage: "semantic analysis", Messages: errs}
	}
	e.emit("resolve", "ok", started)

	started = time.Now()
	module := ir.Compile(program)
	e.emit("lower", fmt.Sprintf("%d functions", len(module.Functions)), started)

	started = time.Now()
	module = ir.NewOptimizer().Optimize(module)
	e.emit("optimize", "fixed point reached", started)

	return module, nil
}

// Run compiles and executes source text, returning the program's final
// value.
func (e *Engine) Run(source, sourcePath string) (runtime.Value, error) {
	module, err := e.Compile(source, sourcePath)
	if err != nil {
		return runtime.NullValue(), err
	}
	return e.RunModule(module)
}

// RunModule executes an already compiled module.
func (e *Engine) RunModule(module *ir.Module) (runtime.Value, error) {
	opts := []vm.Option{vm.WithRegistry(e.registry)}
	if e.in != nil {
		opts = append(opts, vm.WithInput(e.in))
	}
	opts = append(opts, e.vmOpts...)

	machine := vm.New(e.out, opts...)
	started := time.Now()
	result, err := machine.Run(module)
	e.emit("run", "program finished", started)
	return result, err
}

// RunFile reads, compiles and executes a source file.
func (e *Engine) RunFile(path string) (runtime.Value, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return runtime.NullValue(), fmt.Errorf("failed to read %s: %w", path, err)
	}
	return e.Run(string(source), path)
}

// Build compiles source text and writes the textual IR module to outPath.
func (e *Engine) Build(source, sourcePath, outPath string) error {
	module, err := e.Compile(source, sourcePath)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte(module.String()), 0o644)
}
