package runtime

import (
	"testing"
)

func TestUnreachableObjectsAreFreed(t *testing.T) {
	gc := NewGC()
	env := NewEnv(nil)

	kept := gc.NewList([]Value{IntValue(1)})
	env.Define("kept", kept)
	gc.NewList([]Value{IntValue(2)}) // unreachable

	freed := gc.Collect([]*Env{env}, nil)
	if freed != 1 {
		t.Errorf("expected 1 freed object, got %d", freed)
	}
	if gc.HeapCount() != 1 {
		t.Errorf("expected 1 live object, got %d", gc.HeapCount())
	}
}

func TestMarkTraversesNestedStructures(t *testing.T) {
	gc := NewGC()
	env := NewEnv(nil)

	inner := gc.NewList([]Value{IntValue(1)})
	middle := gc.NewDict(map[string]Value{"inner": inner})
	outer := gc.NewList([]Value{middle})
	env.Define("outer", outer)

	if freed := gc.Collect([]*Env{env}, nil); freed != 0 {
		t.Errorf("reachable nested objects were freed: %d", freed)
	}
	if gc.HeapCount() != 3 {
		t.Errorf("expected 3 live objects, got %d", gc.HeapCount())
	}
}

func TestClosureEnvironmentIsTraced(t *testing.T) {
	gc := NewGC()

	captured := NewEnv(nil)
	payload := gc.NewList([]Value{IntValue(42)})
	captured.Define("payload", payload)

	root := NewEnv(nil)
	closure := gc.NewClosure("f", captured, nil)
	root.Define("f", closure)

	if freed := gc.Collect([]*Env{root}, nil); freed != 0 {
		t.Errorf("closure-captured objects were freed: %d", freed)
	}
}

func TestMarkBitsResetBetweenCycles(t *testing.T) {
	gc := NewGC()
	env := NewEnv(nil)
	env.Define("v", gc.NewList(nil))

	gc.Collect([]*Env{env}, nil)
	// Second cycle: the object must be re-marked from roots, not freed
	// because of a stale bit, and not kept because of one either.
	if freed := gc.Collect([]*Env{env}, nil); freed != 0 {
		t.Errorf("live object freed on second cycle: %d", freed)
	}

	env2 := NewEnv(nil)
	if freed := gc.Collect([]*Env{env2}, nil); freed != 1 {
		t.Errorf("expected object freed once unrooted, got %d", freed)
	}
}

func TestCyclicReferencesAreCollected(t *testing.T) {
	gc := NewGC()

	a := gc.NewList(nil)
	b := gc.NewList([]Value{a})
	a.Obj.List = append(a.Obj.List, b) // a <-> b cycle

	if freed := gc.Collect(nil, nil); freed != 2 {
		t.Errorf("expected cycle of 2 objects freed, got %d", freed)
	}
}

func TestPinnedValuesSurvive(t *testing.T) {
	gc := NewGC()
	pinned := gc.NewList(nil)
	gc.Pin(pinned)

	if freed := gc.Collect(nil, nil); freed != 0 {
		t.Errorf("pinned object freed: %d", freed)
	}
}

func TestBytesTrackedShrinksOnSweep(t *testing.T) {
	gc := NewGC()
	gc.NewBytes(make([]byte, 4096))
	before := gc.BytesTracked()

	gc.Collect(nil, nil)
	if gc.BytesTracked() >= before {
		t.Errorf("tracked bytes did not shrink: %d -> %d", before, gc.BytesTracked())
	}
}

func TestThreshold(t *testing.T) {
	gc := NewGC()
	gc.SetThreshold(100)
	if gc.ShouldCollect() {
		t.Error("empty heap must not trigger collection")
	}
	gc.NewBytes(make([]byte, 200))
	if !gc.ShouldCollect() {
		t.Error("exceeding the threshold must trigger collection")
	}
}
