package natives

import (
	"math"

	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

// RegisterMathFunctions registers the math family (15 natives).
func RegisterMathFunctions(r *Registry) {
	r.Register("abs", nativeAbs, CategoryMath, "absolute value")
	r.Register("ceil", nativeCeil, CategoryMath, "round up to the nearest integer")
	r.Register("floor", nativeFloor, CategoryMath, "round down to the nearest integer")
	r.Register("round", nativeRound, CategoryMath, "round to the nearest integer, or to n decimal places")
	r.Register("max", nativeMax, CategoryMath, "largest of the arguments")
	r.Register("min", nativeMin, CategoryMath, "smallest of the arguments")
	r.Register("pow", nativePow, CategoryMath, "base raised to exponent")
	r.Register("sqrt", nativeSqrt, CategoryMath, "square root")
	r.Register("sin", makeUnaryMath("sin", math.Sin), CategoryMath, "sine (radians)")
	r.Register("cos", makeUnaryMath("cos", math.Cos), CategoryMath, "cosine (radians)")
	r.Register("tan", makeUnaryMath("tan", math.Tan), CategoryMath, "tangent (radians)")
	r.Register("log", nativeLog, CategoryMath, "natural logarithm, or logarithm in a given base")
	r.Register("exp", makeUnaryMath("exp", math.Exp), CategoryMath, "e raised to the argument")
	r.Register("random", nativeRandom, CategoryMath, "uniform random float in [0, 1)")
	r.Register("randint", nativeRandint, CategoryMath, "uniform random integer in [lo, hi]")
}

func makeUnaryMath(name string, fn func(float64) float64) Func {
	return func(_ Context, args []runtime.Value) (runtime.Value, error) {
		if err := wantArgs(name, args, 1); err != nil {
			return runtime.Value{}, err
		}
		x, err := wantNumber(name, args[0])
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.FloatValue(fn(x)), nil
	}
}

func nativeAbs(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("abs", args, 1); err != nil {
		return runtime.Value{}, err
	}
	switch args[0].Kind {
	case runtime.KindInt:
		if args[0].Int < 0 {
			return runtime.IntValue(-args[0].Int), nil
		}
		return args[0], nil
	case runtime.KindFloat:
		return runtime.FloatValue(math.Abs(args[0].Float)), nil
	}
	return runtime.Value{}, kindError("abs", "a number", args[0])
}

func nativeCeil(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("ceil", args, 1); err != nil {
		return runtime.Value{}, err
	}
	x, err := wantNumber("ceil", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	return runtime.IntValue(int64(math.Ceil(x))), nil
}

func nativeFloor(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("floor", args, 1); err != nil {
		return runtime.Value{}, err
	}
	x, err := wantNumber("floor", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	return runtime.IntValue(int64(math.Floor(x))), nil
}

func nativeRound(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgRange("round", args, 1, 2); err != nil {
		return runtime.Value{}, err
	}
	x, err := wantNumber("round", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	if len(args) == 1 {
		return runtime.IntValue(int64(math.Round(x))), nil
	}
	places, err := wantInt("round", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	scale := math.Pow(10, float64(places))
	return runtime.FloatValue(math.Round(x*scale) / scale), nil
}

func nativeMax(_ Context, args []runtime.Value) (runtime.Value, error) {
	return extremum("max", args, func(a, b float64) bool { return a > b })
}

func nativeMin(_ Context, args []runtime.Value) (runtime.Value, error) {
	return extremum("min", args, func(a, b float64) bool { return a < b })
}

// extremum picks the best argument by a comparison on the numeric widening,
// preserving the original value (and kind) of the winner. A single list
// argument is treated as the candidate set.
func extremum(name string, args []runtime.Value, better func(a, b float64) bool) (runtime.Value, error) {
	candidates := args
	if len(args) == 1 && args[0].Kind == runtime.KindList {
		candidates = args[0].Obj.List
	}
	if len(candidates) == 0 {
		return runtime.Value{}, arityError(name, "1 or more", 0)
	}
	best := candidates[0]
	bestF, err := wantNumber(name, best)
	if err != nil {
		return runtime.Value{}, err
	}
	for _, c := range candidates[1:] {
		f, err := wantNumber(name, c)
		if err != nil {
			return runtime.Value{}, err
		}
		if better(f, bestF) {
			best, bestF = c, f
		}
	}
	return best, nil
}

func nativePow(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("pow", args, 2); err != nil {
		return runtime.Value{}, err
	}
	base, err := wantNumber("pow", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	exponent, err := wantNumber("pow", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	return runtime.FloatValue(math.Pow(base, exponent)), nil
}

func nativeSqrt(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("sqrt", args, 1); err != nil {
		return runtime.Value{}, err
	}
	x, err := wantNumber("sqrt", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	if x < 0 {
		return runtime.Value{}, runtime.NewError(runtime.ValueError, "sqrt of negative number")
	}
	return runtime.FloatValue(math.Sqrt(x)), nil
}

func nativeLog(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgRange("log", args, 1, 2); err != nil {
		return runtime.Value{}, err
	}
	x, err := wantNumber("log", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	if x <= 0 {
		return runtime.Value{}, runtime.NewError(runtime.ValueError, "log of non-positive number")
	}
	if len(args) == 1 {
		return runtime.FloatValue(math.Log(x)), nil
	}
	base, err := wantNumber("log", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	return runtime.FloatValue(math.Log(x) / math.Log(base)), nil
}

func nativeRandom(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("random", args, 0); err != nil {
		return runtime.Value{}, err
	}
	return runtime.FloatValue(ctx.Rand().Float64()), nil
}

func nativeRandint(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("randint", args, 2); err != nil {
		return runtime.Value{}, err
	}
	lo, err := wantInt("randint", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	hi, err := wantInt("randint", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	if hi < lo {
		return runtime.Value{}, runtime.NewError(runtime.ValueError, "randint: empty range %d..%d", lo, hi)
	}
	return runtime.IntValue(lo + ctx.Rand().Int63n(hi-lo+1)), nil
}
