package natives

import (
	"fmt"
	"os"
	"strings"

	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

// RegisterIOFunctions registers the I/O family (5 natives).
func RegisterIOFunctions(r *Registry) {
	r.Register("print", nativePrint, CategoryIO, "print values separated by spaces, followed by a newline")
	r.Register("input", nativeInput, CategoryIO, "read a line from standard input, with an optional prompt")
	r.Register("read_file", nativeReadFile, CategoryIO, "read a file into a string")
	r.Register("write_file", nativeWriteFile, CategoryIO, "write a string to a file, replacing its contents")
	r.Register("append_file", nativeAppendFile, CategoryIO, "append a string to a file")
}

func nativePrint(ctx Context, args []runtime.Value) (runtime.Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	fmt.Fprintln(ctx.Output(), strings.Join(parts, " "))
	return runtime.NullValue(), nil
}

func nativeInput(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgRange("input", args, 0, 1); err != nil {
		return runtime.Value{}, err
	}
	if len(args) == 1 {
		fmt.Fprint(ctx.Output(), args[0].String())
	}
	line, err := ctx.ReadLine()
	if err != nil {
		return runtime.NullValue(), nil
	}
	return runtime.StringValue(line), nil
}

func nativeReadFile(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("read_file", args, 1); err != nil {
		return runtime.Value{}, err
	}
	path, err := wantString("read_file", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return runtime.NullValue(), nil
	}
	return runtime.StringValue(string(content)), nil
}

func nativeWriteFile(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("write_file", args, 2); err != nil {
		return runtime.Value{}, err
	}
	path, err := wantString("write_file", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	werr := os.WriteFile(path, []byte(args[1].String()), 0o644)
	return runtime.BoolValue(werr == nil), nil
}

func nativeAppendFile(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("append_file", args, 2); err != nil {
		return runtime.Value{}, err
	}
	path, err := wantString("append_file", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	f, oerr := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if oerr != nil {
		return runtime.BoolValue(false), nil
	}
	defer f.Close()
	_, werr := f.WriteString(args[1].String())
	return runtime.BoolValue(werr == nil), nil
}
