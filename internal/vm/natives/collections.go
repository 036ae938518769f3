package natives

import (
	"sort"

	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

// RegisterCollectionFunctions registers the collections family (15 natives).
func RegisterCollectionFunctions(r *Registry) {
	r.Register("range", nativeRange, CategoryCollections, "list of integers from start to stop by step")
	r.Register("push", nativePush, CategoryCollections, "append a value to a list, returning the list")
	r.Register("pop", nativePop, CategoryCollections, "remove and return the last list element")
	r.Register("insert", nativeInsert, CategoryCollections, "insert a value at an index, returning the list")
	r.Register("remove", nativeRemove, CategoryCollections, "remove the first occurrence of a value")
	r.Register("sort", nativeSort, CategoryCollections, "sorted copy of a list")
	r.Register("reverse", nativeReverse, CategoryCollections, "reversed copy of a list")
	r.Register("keys", nativeKeys, CategoryCollections, "dict keys as a sorted list")
	r.Register("values", nativeValues, CategoryCollections, "dict values, ordered by key")
	r.Register("entries", nativeEntries, CategoryCollections, "dict [key, value] pairs, ordered by key")
	r.Register("contains_key", nativeContainsKey, CategoryCollections, "whether a dict contains a key")
	r.Register("merge", nativeMerge, CategoryCollections, "new dict combining two dicts, right wins")
	r.Register("clone", nativeClone, CategoryCollections, "shallow copy of a collection")
	r.Register("deep_clone", nativeDeepClone, CategoryCollections, "recursive copy of a collection")
	r.Register("clear", nativeClear, CategoryCollections, "remove all elements in place")
}

func nativeRange(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgRange("range", args, 1, 3); err != nil {
		return runtime.Value{}, err
	}
	var start, stop, step int64 = 0, 0, 1
	var err error
	switch len(args) {
	case 1:
		if stop, err = wantInt("range", args[0]); err != nil {
			return runtime.Value{}, err
		}
	default:
		if start, err = wantInt("range", args[0]); err != nil {
			return runtime.Value{}, err
		}
		if stop, err = wantInt("range", args[1]); err != nil {
			return runtime.Value{}, err
		}
		if len(args) == 3 {
			if step, err = wantInt("range", args[2]); err != nil {
				return runtime.Value{}, err
			}
		}
	}
	if step == 0 {
		return runtime.Value{}, runtime.NewError(runtime.ValueError, "range step must not be zero")
	}
	var elements []runtime.Value
	if step > 0 {
		for i := start; i < stop; i += step {
			elements = append(elements, runtime.IntValue(i))
		}
	} else {
		for i := start; i > stop; i += step {
			elements = append(elements, runtime.IntValue(i))
		}
	}
	return ctx.GC().NewList(elements), nil
}

func nativePush(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("push", args, 2); err != nil {
		return runtime.Value{}, err
	}
	list, err := wantList("push", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	list.List = append(list.List, args[1])
	return args[0], nil
}

func nativePop(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("pop", args, 1); err != nil {
		return runtime.Value{}, err
	}
	list, err := wantList("pop", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	if len(list.List) == 0 {
		return runtime.Value{}, runtime.NewError(runtime.IndexError, "pop from empty list")
	}
	last := list.List[len(list.List)-1]
	list.List = list.List[:len(list.List)-1]
	return last, nil
}

func nativeInsert(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("insert", args, 3); err != nil {
		return runtime.Value{}, err
	}
	list, err := wantList("insert", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	idx, err := wantInt("insert", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	if idx < 0 || idx > int64(len(list.List)) {
		return runtime.Value{}, runtime.NewError(runtime.IndexError, "insert index %d out of range for length %d", idx, len(list.List))
	}
	list.List = append(list.List, runtime.Value{})
	copy(list.List[idx+1:], list.List[idx:])
	list.List[idx] = args[2]
	return args[0], nil
}

func nativeRemove(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("remove", args, 2); err != nil {
		return runtime.Value{}, err
	}
	list, err := wantList("remove", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	for i, el := range list.List {
		if el.Equals(args[1]) {
			list.List = append(list.List[:i], list.List[i+1:]...)
			return args[0], nil
		}
	}
	return runtime.Value{}, runtime.NewError(runtime.ValueError, "remove: value not in list")
}

func nativeSort(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("sort", args, 1); err != nil {
		return runtime.Value{}, err
	}
	list, err := wantList("sort", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	out := append([]runtime.Value(nil), list.List...)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.IsNumeric() && b.IsNumeric():
			return a.AsFloat() < b.AsFloat()
		case a.Kind == runtime.KindString && b.Kind == runtime.KindString:
			return a.Str < b.Str
		}
		if sortErr == nil {
			sortErr = runtime.NewError(runtime.TypeError, "sort: cannot compare %s with %s", a.TypeName(), b.TypeName())
		}
		return false
	})
	if sortErr != nil {
		return runtime.Value{}, sortErr
	}
	return ctx.GC().NewList(out), nil
}

func nativeReverse(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("reverse", args, 1); err != nil {
		return runtime.Value{}, err
	}
	list, err := wantList("reverse", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	out := make([]runtime.Value, len(list.List))
	for i, el := range list.List {
		out[len(list.List)-1-i] = el
	}
	return ctx.GC().NewList(out), nil
}

func sortedKeys(dict *runtime.Object) []string {
	keys := make([]string, 0, len(dict.Dict))
	for k := range dict.Dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nativeKeys(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("keys", args, 1); err != nil {
		return runtime.Value{}, err
	}
	dict, err := wantDict("keys", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	keys := sortedKeys(dict)
	elements := make([]runtime.Value, len(keys))
	for i, k := range keys {
		elements[i] = runtime.StringValue(k)
	}
	return ctx.GC().NewList(elements), nil
}

func nativeValues(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("values", args, 1); err != nil {
		return runtime.Value{}, err
	}
	dict, err := wantDict("values", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	keys := sortedKeys(dict)
	elements := make([]runtime.Value, len(keys))
	for i, k := range keys {
		elements[i] = dict.Dict[k]
	}
	return ctx.GC().NewList(elements), nil
}

func nativeEntries(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("entries", args, 1); err != nil {
		return runtime.Value{}, err
	}
	dict, err := wantDict("entries", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	keys := sortedKeys(dict)
	elements := make([]runtime.Value, len(keys))
	for i, k := range keys {
		pair := []runtime.Value{runtime.StringValue(k), dict.Dict[k]}
		elements[i] = ctx.GC().NewList(pair)
	}
	return ctx.GC().NewList(elements), nil
}

func nativeContainsKey(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("contains_key", args, 2); err != nil {
		return runtime.Value{}, err
	}
	dict, err := wantDict("contains_key", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	_, ok := dict.Dict[args[1].HashKey()]
	return runtime.BoolValue(ok), nil
}

func nativeMerge(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("merge", args, 2); err != nil {
		return runtime.Value{}, err
	}
	left, err := wantDict("merge", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	right, err := wantDict("merge", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	out := make(map[string]runtime.Value, len(left.Dict)+len(right.Dict))
	for k, v := range left.Dict {
		out[k] = v
	}
	for k, v := range right.Dict {
		out[k] = v
	}
	return ctx.GC().NewDict(out), nil
}

func nativeClone(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("clone", args, 1); err != nil {
		return runtime.Value{}, err
	}
	return cloneValue(ctx, args[0], false), nil
}

func nativeDeepClone(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("deep_clone", args, 1); err != nil {
		return runtime.Value{}, err
	}
	return cloneValue(ctx, args[0], true), nil
}

func cloneValue(ctx Context, v runtime.Value, deep bool) runtime.Value {
	switch v.Kind {
	case runtime.KindList:
		out := make([]runtime.Value, len(v.Obj.List))
		for i, el := range v.Obj.List {
			if deep {
				out[i] = cloneValue(ctx, el, true)
			} else {
				out[i] = el
			}
		}
		return ctx.GC().NewList(out)
	case runtime.KindDict:
		out := make(map[string]runtime.Value, len(v.Obj.Dict))
		for k, el := range v.Obj.Dict {
			if deep {
				out[k] = cloneValue(ctx, el, true)
			} else {
				out[k] = el
			}
		}
		cloned := ctx.GC().NewDict(out)
		cloned.Obj.TypeName = v.Obj.TypeName
		return cloned
	case runtime.KindSet:
		out := make(map[string]runtime.Value, len(v.Obj.Set))
		for k, el := range v.Obj.Set {
			out[k] = el
		}
		return ctx.GC().NewSet(out)
	case runtime.KindBytes:
		return ctx.GC().NewBytes(append([]byte(nil), v.Obj.Bytes...))
	}
	return v
}

func nativeClear(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("clear", args, 1); err != nil {
		return runtime.Value{}, err
	}
	switch args[0].Kind {
	case runtime.KindList:
		args[0].Obj.List = args[0].Obj.List[:0]
	case runtime.KindDict:
		args[0].Obj.Dict = make(map[string]runtime.Value)
	case runtime.KindSet:
		args[0].Obj.Set = make(map[string]runtime.Value)
	default:
		return runtime.Value{}, kindError("clear", "a collection", args[0])
	}
	return runtime.NullValue(), nil
}
