package natives

import (
	"strings"
	"time"

	"github.com/ProgrammerKR/ProXPL/internal/runtime"
)

// RegisterDateTimeFunctions registers the datetime family (5 natives).
func RegisterDateTimeFunctions(r *Registry) {
	r.Register("now", nativeNow, CategoryDateTime, "current time as a float unix timestamp")
	r.Register("timestamp", nativeTimestamp, CategoryDateTime, "current time as an integer unix timestamp")
	r.Register("format_date", nativeFormatDate, CategoryDateTime, "format a unix timestamp with a strftime-style pattern")
	r.Register("parse_date", nativeParseDate, CategoryDateTime, "parse a date string with a strftime-style pattern")
	r.Register("sleep", nativeSleep, CategoryDateTime, "block for the given number of seconds")
}

func nativeNow(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("now", args, 0); err != nil {
		return runtime.Value{}, err
	}
	return runtime.FloatValue(float64(time.Now().UnixNano()) / 1e9), nil
}

func nativeTimestamp(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("timestamp", args, 0); err != nil {
		return runtime.Value{}, err
	}
	return runtime.IntValue(time.Now().Unix()), nil
}

// strftimeReplacer translates the strftime directives the stdlib documents
// into Go reference-time layout fragments.
var strftimeReplacer = strings.NewReplacer(
	"%Y", "2006",
	"%m", "01",
	"%d", "02",
	"%H", "15",
	"%M", "04",
	"%S", "05",
	"%y", "06",
	"%B", "January",
	"%b", "Jan",
	"%A", "Monday",
	"%a", "Mon",
	"%p", "PM",
	"%%", "%",
)

func nativeFormatDate(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("format_date", args, 2); err != nil {
		return runtime.Value{}, err
	}
	ts, err := wantNumber("format_date", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	pattern, err := wantString("format_date", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	t := time.Unix(int64(ts), 0)
	return runtime.StringValue(t.Format(strftimeReplacer.Replace(pattern))), nil
}

func nativeParseDate(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("parse_date", args, 2); err != nil {
		return runtime.Value{}, err
	}
	input, err := wantString("parse_date", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	pattern, err := wantString("parse_date", args[1])
	if err != nil {
		return runtime.Value{}, err
	}
	t, perr := time.Parse(strftimeReplacer.Replace(pattern), input)
	if perr != nil {
		return runtime.Value{}, runtime.NewError(runtime.ValueError, "parse_date: %v", perr)
	}
	return runtime.FloatValue(float64(t.Unix())), nil
}

func nativeSleep(_ Context, args []runtime.Value) (runtime.Value, error) {
	if err := wantArgs("sleep", args, 1); err != nil {
		return runtime.Value{}, err
	}
	seconds, err := wantNumber("sleep", args[0])
	if err != nil {
		return runtime.Value{}, err
	}
	time.Sleep(time.Duration(seconds * float64(time.Second)))
	return runtime.BoolValue(true), nil
}
