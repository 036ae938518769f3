package runtime

// DefaultGCThreshold is the tracked-byte threshold that triggers a
// collection cycle (1 MiB).
const DefaultGCThreshold = 1 << 20

// GC is a mark-and-sweep collector over a tracked object heap. All composite
// values are allocated through it; primitives are never tracked. The VM runs
// on a single goroutine, so the collector stops the world between
// instructions with no synchronisation.
type GC struct {
	objects      map[uint64]*Object
	nextID       uint64
	bytesTracked int
	threshold    int
	pinned       []Value
}

// NewGC creates a collector with the default threshold.
func NewGC() *GC {
	return &GC{
		objects:   make(map[uint64]*Object),
		threshold: DefaultGCThreshold,
	}
}

// SetThreshold overrides the collection trigger threshold in bytes.
func (gc *GC) SetThreshold(n int) {
	gc.threshold = n
}

// Pin roots a value for the lifetime of the collector (used for values held
// by natives outside any frame).
func (gc *GC) Pin(v Value) {
	gc.pinned = append(gc.pinned, v)
}

// ShouldCollect reports whether tracked bytes exceed the threshold.
func (gc *GC) ShouldCollect() bool {
	return gc.bytesTracked > gc.threshold
}

// HeapCount returns the number of live tracked objects.
func (gc *GC) HeapCount() int {
	return len(gc.objects)
}

// BytesTracked returns the current tracked-byte estimate.
func (gc *GC) BytesTracked() int {
	return gc.bytesTracked
}

func (gc *GC) track(obj *Object) *Object {
	gc.nextID++
	obj.id = gc.nextID
	obj.size = obj.approxSize()
	gc.objects[obj.id] = obj
	gc.bytesTracked += obj.size
	return obj
}

// NewList allocates a list object.
func (gc *GC) NewList(elements []Value) Value {
	return ObjectValue(gc.track(&Object{Kind: KindList, List: elements}))
}

// NewDict allocates a dict object.
func (gc *GC) NewDict(entries map[string]Value) Value {
	if entries == nil {
		entries = make(map[string]Value)
	}
	return ObjectValue(gc.track(&Object{Kind: KindDict, Dict: entries}))
}

// NewInstance allocates a class instance: a dict object carrying its class
// name as TypeName.
func (gc *GC) NewInstance(className string) Value {
	return ObjectValue(gc.track(&Object{
		Kind:     KindDict,
		TypeName: className,
		Dict:     make(map[string]Value),
	}))
}

// NewSet allocates a set object.
func (gc *GC) NewSet(elements map[string]Value) Value {
	if elements == nil {
		elements = make(map[string]Value)
	}
	return ObjectValue(gc.track(&Object{Kind: KindSet, Set: elements}))
}

// NewBytes allocates a bytes object.
func (gc *GC) NewBytes(data []byte) Value {
	return ObjectValue(gc.track(&Object{Kind: KindBytes, Bytes: data}))
}

// NewClosure allocates a user-function value.
func (gc *GC) NewClosure(funcName string, env *Env, this *Object) Value {
	return ObjectValue(gc.track(&Object{
		Kind:    KindFunction,
		Closure: &Closure{FuncName: funcName, Env: env, This: this},
	}))
}

// Collect runs one mark-and-sweep cycle. Roots are the environments of all
// active frames plus the globals; pinned values are always roots. Returns
// the number of objects freed.
func (gc *GC) Collect(rootEnvs []*Env, extraRoots []Value) int {
	// Mark phase: worklist traversal from the roots.
	var worklist []*Object
	seenEnvs := make(map[*Env]bool)

	addValue := func(v Value) {
		if v.Obj != nil && !v.Obj.marked {
			v.Obj.marked = true
			worklist = append(worklist, v.Obj)
		}
	}

	var addEnvChain func(env *Env)
	addEnvChain = func(env *Env) {
		for ; env != nil; env = env.outer {
			if seenEnvs[env] {
				return
			}
			seenEnvs[env] = true
			for _, v := range env.vars {
				addValue(v)
			}
		}
	}

	for _, env := range rootEnvs {
		addEnvChain(env)
	}
	for _, v := range extraRoots {
		addValue(v)
	}
	for _, v := range gc.pinned {
		addValue(v)
	}

	for len(worklist) > 0 {
		obj := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		switch obj.Kind {
		case KindList:
			for _, el := range obj.List {
				addValue(el)
			}
		case KindDict:
			for _, el := range obj.Dict {
				addValue(el)
			}
		case KindSet:
			for _, el := range obj.Set {
				addValue(el)
			}
		case KindFunction:
			if obj.Closure != nil {
				if obj.Closure.This != nil && !obj.Closure.This.marked {
					obj.Closure.This.marked = true
					worklist = append(worklist, obj.Closure.This)
				}
				addEnvChain(obj.Closure.Env)
			}
		}
	}

	// Sweep phase: free unmarked objects and reset mark bits.
	freed := 0
	for id, obj := range gc.objects {
		if obj.marked {
			obj.marked = false
			continue
		}
		gc.bytesTracked -= obj.size
		obj.List = nil
		obj.Dict = nil
		obj.Set = nil
		obj.Bytes = nil
		obj.Closure = nil
		delete(gc.objects, id)
		freed++
	}
	return freed
}
