// Package vm implements the ProXPL virtual machine: a frame-based
// interpreter that executes IR modules block by block.
//
// Each call pushes a frame holding the function, the current block, an
// instruction index, the frame's environment and a temporary store. Control
// opcodes switch the current block; protected regions from the function's
// handler table implement try/catch/finally, with `finally` running on
// every exit path. A cooperative stop flag is checked between blocks.
package vm

import (
	"bufio"
	"io"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"github.com/ProgrammerKR/ProXPL/internal/ir"
	"github.com/ProgrammerKR/ProXPL/internal/runtime"
	"github.com/ProgrammerKR/ProXPL/internal/vm/natives"
)

// maxCallDepth bounds recursion before the VM reports exhaustion.
const maxCallDepth = 8192

// VM executes an IR module.
type VM struct {
	module   *ir.Module
	globals  *runtime.Env
	gc       *runtime.GC
	registry *natives.Registry
	out      io.Writer
	in       *bufio.Reader
	rand     *rand.Rand
	frames   []*frame
	stopped  atomic.Bool
}

// frame is the per-invocation state of one function call.
type frame struct {
	fn      *ir.Function
	env     *runtime.Env
	temps   map[string]runtime.Value
	block   *ir.BasicBlock
	ip      int
	pending *pendingAction
}

// pendingAction carries control flow that must pass through a finally block
// before completing: a raised error, an in-flight return, or a jump that
// leaves the protected region.
type pendingAction struct {
	err    *RuntimeError
	value  runtime.Value
	target string
	kind   pendingKind
}

type pendingKind int

const (
	pendError pendingKind = iota
	pendReturn
	pendJump
)

// Option configures a VM.
type Option func(*VM)

// WithInput sets the reader backing the `input` native (default os.Stdin).
func WithInput(r io.Reader) Option {
	return func(vm *VM) { vm.in = bufio.NewReader(r) }
}

// WithRegistry replaces the native registry (default: a fresh registry with
// the full standard library).
func WithRegistry(r *natives.Registry) Option {
	return func(vm *VM) { vm.registry = r }
}

// WithRandSeed seeds the VM's random source deterministically.
func WithRandSeed(seed int64) Option {
	return func(vm *VM) { vm.rand = rand.New(rand.NewSource(seed)) }
}

// WithGCThreshold overrides the collection threshold in bytes.
func WithGCThreshold(n int) Option {
	return func(vm *VM) { vm.gc = runtime.NewGC(); vm.gc.SetThreshold(n) }
}

// New creates a VM writing program output to out.
func New(out io.Writer, opts ...Option) *VM {
	vm := &VM{
		out:     out,
		in:      bufio.NewReader(os.Stdin),
		gc:      runtime.NewGC(),
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		globals: runtime.NewEnv(nil),
	}
	registry := natives.NewRegistry()
	natives.RegisterAll(registry)
	vm.registry = registry

	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// DefineNative extends the native registry with a host-provided callable.
func (vm *VM) DefineNative(name string, fn natives.Func) {
	vm.registry.Register(name, fn, natives.CategoryHost, "host-defined native")
}

// Stop requests cooperative cancellation. The current frame raises a
// Cancelled runtime error at the next block boundary; the error propagates
// through try/finally normally.
func (vm *VM) Stop() {
	vm.stopped.Store(true)
}

// Globals returns the global environment.
func (vm *VM) Globals() *runtime.Env {
	return vm.globals
}

// GCStats returns live object count and tracked bytes.
func (vm *VM) GCStats() (objects, bytes int) {
	return vm.gc.HeapCount(), vm.gc.BytesTracked()
}

// CollectGarbage forces a mark-and-sweep cycle and returns the number of
// objects freed.
func (vm *VM) CollectGarbage() int {
	return vm.gc.Collect(vm.rootEnvs(), vm.rootTemps())
}

// Run loads the module and executes it: the top-level init instructions
// first, then the synthetic entry function. It returns the program's final
// value.
func (vm *VM) Run(module *ir.Module) (runtime.Value, error) {
	vm.module = module

	bootFrame := &frame{env: vm.globals, temps: make(map[string]runtime.Value)}
	for _, instr := range module.Globals {
		if err := vm.execDataInstr(bootFrame, instr); err != nil {
			return runtime.NullValue(), err
		}
	}

	main, ok := module.Functions[ir.EntryFunction]
	if !ok {
		return runtime.NullValue(), vm.errorAt(lexerPosZero, runtime.NameError, "entry point '%s' not found", ir.EntryFunction)
	}
	result, rerr := vm.callIRFunction(main, nil, vm.globals)
	if rerr != nil {
		return runtime.NullValue(), rerr
	}
	return result, nil
}

// ---- natives.Context implementation ----

// Output returns the program output writer.
func (vm *VM) Output() io.Writer { return vm.out }

// ReadLine reads one line from the VM input.
func (vm *VM) ReadLine() (string, error) {
	line, err := vm.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, nil
}

// GC returns the collector natives allocate through.
func (vm *VM) GC() *runtime.GC { return vm.gc }

// Rand returns the VM's random source.
func (vm *VM) Rand() *rand.Rand { return vm.rand }

// ---- GC root enumeration ----

func (vm *VM) rootEnvs() []*runtime.Env {
	envs := []*runtime.Env{vm.globals}
	for _, f := range vm.frames {
		envs = append(envs, f.env)
	}
	return envs
}

func (vm *VM) rootTemps() []runtime.Value {
	var values []runtime.Value
	for _, f := range vm.frames {
		for _, v := range f.temps {
			values = append(values, v)
		}
	}
	return values
}

// maybeCollect runs a GC cycle at a block boundary when the tracked-byte
// threshold is exceeded.
func (vm *VM) maybeCollect() {
	if vm.gc.ShouldCollect() {
		vm.gc.Collect(vm.rootEnvs(), vm.rootTemps())
	}
}
