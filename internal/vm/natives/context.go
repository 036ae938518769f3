package natives

import (
	"io"
	"math/rand"

	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

// Context provides the minimal interface natives need from the VM. Keeping
// the surface small avoids a dependency cycle (natives → vm → natives) and
// lets tests drive natives with a stub.
type Context interface {
	// Output returns the writer `print` and friends write to.
	Output() io.Writer

	// ReadLine reads one line from the VM's input, without the newline.
	ReadLine() (string, error)

	// GC returns the collector used to allocate composite values.
	GC() *runtime.GC

	// Rand returns the VM's random source.
	Rand() *rand.Rand
}

// ---- shared argument helpers ----

func arityError(name string, want string, got int) error {
	return runtime.NewError(runtime.TypeError, "%s expects %s argument(s), got %d", name, want, got)
}

func kindError(name string, want string, got runtime.Value) error {
	return runtime.NewError(runtime.TypeError, "%s expects %s, got %s", name, want, got.TypeName())
}

func wantArgs(name string, args []runtime.Value, n int) error {
	if len(args) != n {
		return arityError(name, itoa(n), len(args))
	}
	return nil
}

func wantArgRange(name string, args []runtime.Value, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		return arityError(name, itoa(lo)+".."+itoa(hi), len(args))
	}
	return nil
}

func wantNumber(name string, v runtime.Value) (float64, error) {
	if !v.IsNumeric() {
		return 0, kindError(name, "a number", v)
	}
	return v.AsFloat(), nil
}

func wantInt(name string, v runtime.Value) (int64, error) {
	switch v.Kind {
	case runtime.KindInt:
		return v.Int, nil
	case runtime.KindFloat:
		return int64(v.Float), nil
	}
	return 0, kindError(name, "an integer", v)
}

func wantString(name string, v runtime.Value) (string, error) {
	if v.Kind != runtime.KindString {
		return "", kindError(name, "a string", v)
	}
	return v.Str, nil
}

func wantList(name string, v runtime.Value) (*runtime.Object, error) {
	if v.Kind != runtime.KindList {
		return nil, kindError(name, "a list", v)
	}
	return v.Obj, nil
}

func wantDict(name string, v runtime.Value) (*runtime.Object, error) {
	if v.Kind != runtime.KindDict {
		return nil, kindError(name, "a dict", v)
	}
	return v.Obj, nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
