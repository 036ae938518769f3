package vm

import (
	"github.com/ProgrammerKR/ProXPL/internal/ir"
	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

func inSpan(ordinal, lo, hi int) bool {
	return ordinal >= lo && ordinal < hi
}

func (f *frame) ordinal() int {
	if f.fn == nil || f.block == nil {
		return -1
	}
	return f.fn.BlockOrdinal(f.block.ID)
}

// inProtected reports whether the ordinal lies in the handler's body or
// catch span, the parts of the region the finally guards.
func inProtected(h ir.Handler, ordinal int) bool {
	return inSpan(ordinal, h.BodyLo, h.BodyHi) || inSpan(ordinal, h.CatchLo, h.CatchHi)
}

// jumpBlock switches the frame to the named block. Block boundaries are
// where the GC threshold is checked.
func (vm *VM) jumpBlock(f *frame, label string, pos lexerPos) *RuntimeError {
	block := f.fn.Block(label)
	if block == nil {
		return vm.errorAt(pos, runtime.NameError, "unknown label '%s' in '%s'", label, f.fn.Name)
	}
	vm.maybeCollect()
	f.block = block
	f.ip = 0
	return nil
}

// transfer performs a JUMP with two interceptions: the cooperative stop
// flag raises a Cancelled error, and a jump that would leave a protected
// region with a finally block is routed through the finally first.
func (vm *VM) transfer(f *frame, target string, pos lexerPos) *RuntimeError {
	if vm.stopped.Load() {
		rerr := vm.errorAt(pos, runtime.Cancelled, "execution cancelled")
		return vm.raise(f, rerr)
	}

	cur := f.ordinal()
	targetOrd := f.fn.BlockOrdinal(target)

	// A jump out of a finally block abandons the control flow the finally
	// was completing.
	for i := len(f.fn.Handlers) - 1; i >= 0; i-- {
		h := f.fn.Handlers[i]
		if inSpan(cur, h.FinallyLo, h.FinallyHi) && (targetOrd < h.BodyLo || targetOrd > h.AfterIdx) {
			f.pending = nil
			break
		}
	}

	for i := len(f.fn.Handlers) - 1; i >= 0; i-- {
		h := f.fn.Handlers[i]
		if h.FinallyLabel == "" || !inProtected(h, cur) {
			continue
		}
		if targetOrd >= h.BodyLo && targetOrd <= h.AfterIdx {
			continue // the jump stays inside the statement
		}
		f.pending = &pendingAction{kind: pendJump, target: target}
		return vm.jumpBlock(f, h.FinallyLabel, pos)
	}
	return vm.jumpBlock(f, target, pos)
}

// raise dispatches a runtime error against the frame's handler table.
// A nil return means control transferred to a catch or finally block and
// execution continues; a non-nil return propagates the error to the caller.
// Cancellation errors skip catch blocks but still run finallies.
func (vm *VM) raise(f *frame, rerr *RuntimeError) *RuntimeError {
	if f.fn == nil {
		return rerr
	}
	f.pending = nil // a new error supersedes any in-flight action
	cur := f.ordinal()
	for i := len(f.fn.Handlers) - 1; i >= 0; i-- {
		h := f.fn.Handlers[i]
		if h.CatchLabel != "" && inSpan(cur, h.BodyLo, h.BodyHi) && rerr.Kind() != runtime.Cancelled {
			if h.ErrVar != "" {
				f.env.Define(h.ErrVar, errorValue(rerr))
			}
			return vm.jumpBlock(f, h.CatchLabel, rerr.Pos)
		}
		if h.FinallyLabel != "" && inProtected(h, cur) {
			f.pending = &pendingAction{kind: pendError, err: rerr}
			return vm.jumpBlock(f, h.FinallyLabel, rerr.Pos)
		}
	}
	return rerr
}

// performReturn completes a RETURN, routing it through any enclosing
// finally blocks first. done is true when the frame should actually pop.
func (vm *VM) performReturn(f *frame, value runtime.Value) (bool, runtime.Value, *RuntimeError) {
	f.pending = nil // a return from inside a finally supersedes its pending action
	cur := f.ordinal()
	for i := len(f.fn.Handlers) - 1; i >= 0; i-- {
		h := f.fn.Handlers[i]
		if h.FinallyLabel != "" && inProtected(h, cur) {
			f.pending = &pendingAction{kind: pendReturn, value: value}
			if rerr := vm.jumpBlock(f, h.FinallyLabel, lexerPosZero); rerr != nil {
				return false, runtime.NullValue(), rerr
			}
			return false, runtime.NullValue(), nil
		}
	}
	return true, value, nil
}

// resumePending continues the control flow a finally block interrupted.
// Called when execution enters a handler's join point with a pending action.
func (vm *VM) resumePending(f *frame) (handled, done bool, result runtime.Value, rerr *RuntimeError) {
	if f.pending == nil {
		return false, false, runtime.NullValue(), nil
	}
	atAfter := false
	for _, h := range f.fn.Handlers {
		if h.AfterLabel == f.block.ID {
			atAfter = true
			break
		}
	}
	if !atAfter || f.ip != 0 {
		return false, false, runtime.NullValue(), nil
	}

	p := f.pending
	f.pending = nil
	switch p.kind {
	case pendError:
		if rerr := vm.raise(f, p.err); rerr != nil {
			return true, false, runtime.NullValue(), rerr
		}
		return true, false, runtime.NullValue(), nil
	case pendReturn:
		done, result, rerr := vm.performReturn(f, p.value)
		return true, done, result, rerr
	case pendJump:
		if rerr := vm.transfer(f, p.target, lexerPosZero); rerr != nil {
			return true, false, runtime.NullValue(), rerr
		}
		return true, false, runtime.NullValue(), nil
	}
	return false, false, runtime.NullValue(), nil
}
