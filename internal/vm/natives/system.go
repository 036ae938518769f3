package natives

import (
	"os"
	os_exec "os/exec"
	go_runtime "runtime"

	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

// Version is the language version reported by the `version` native.
const Version = "ProXPL 1.0.0"

// RegisterSystemFunctions registers the system family (5 natives).
func RegisterSystemFunctions(r *Registry) {
	r.Register("exit", nativeExit, CategorySystem, "terminate the process with an exit code")
	r.Register("env", nativeEnv, CategorySystem, "read an environment variable, null if unset")
	r.Register("platform", nativePlatform, CategorySystem, "host operating system name")
	r.Register("version", nativeVersion, CategorySystem, "language version string")
	r.Register("exec", nativeExec, CategorySystem, "run a shell command, returning its stdout")
}

func nativeExit(_ Context, args []runtime.Value) (runtime.Value, error) {
	code := int64(0)
	if len(args) > 0 {
		var err error
		if code, err = wantInt("exit", args[0]); err != nil {
			return runtime.Value{}, err
		}
	}
	os.Exit(int(code))
	return runtime.NullValue(), nil
}

func nativeEnv(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("env", args, 1); err != nil {
		return runtime.Value{}, err
	}
	name, err := wantString("env", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	if value, ok := os.LookupEnv(name); ok {
		return runtime.StringValue(value), nil
	}
	return runtime.NullValue(), nil
}

func nativePlatform(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("platform", args, 0); err != nil {
		return runtime.Value{}, err
	}
	return runtime.StringValue(go_runtime.GOOS), nil
}

func nativeVersion(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("version", args, 0); err != nil {
		return runtime.Value{}, err
	}
	return runtime.StringValue(Version), nil
}

func nativeExec(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("exec", args, 1); err != nil {
		return runtime.Value{}, err
	}
	command, err := wantString("exec", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	out, _ := os_exec.Command("sh", "-c", command).Output()
	return runtime.StringValue(string(out)), nil
}
