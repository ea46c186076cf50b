package expr

import (
	"errors"
	"math"
	"time"
)

type ScalarFunc func(args []Value) (Value, error)

var (
	Functions = make(map[string]ScalarFunc)

	ErrFuncNotFound = errors.New("scalar function not found")

	ErrMissingArgs      = errors.New("missing args")
	ErrInvalidValueType = errors.New("invalid value type")
)

func init() {
	Functions["year"] = func(args []Value) (Value, error) {
		return timePart(args, func(t time.Time) int64 {
			return int64(t.Year())
		})
	}
	Functions["month"] = func(args []Value) (Value, error) {
		return timePart(args, func(t time.Time) int64 {
			return int64(t.Month())
		})
	}
	Functions["day"] = func(args []Value) (Value, error) {
		return timePart(args, func(t time.Time) int64 {
			return int64(t.Day())
		})
	}
	Functions["yearDay"] = func(args []Value) (Value, error) {
		return timePart(args, func(t time.Time) int64 {
			return int64(t.YearDay())
		})
	}
	Functions["weekDay"] = func(args []Value) (Value, error) {
		return timePart(args, func(t time.Time) int64 {
			return int64(t.Weekday())
		})
	}
	Functions["abs"] = func(args []Value) (Value, error) {
		return floatFunc(args, math.Abs)
	}
	Functions["round"] = func(args []Value) (Value, error) {
		return floatFunc(args, math.Round)
	}
	Functions["sqrt"] = func(args []Value) (Value, error) {
		return floatFunc(args, func(f float64) float64 {
			if f < 0 {
				return math.NaN()
			}
			return math.Sqrt(f)
		})
	}
}

func timePart(args []Value, part func(time.Time) int64) (Value, error) {
	t, null, err := parseTimeArg(args)
	if err != nil {
		return Null(), err
	}
	if null {
		return Null(), nil
	}
	return IntValue(part(t)), nil
}

// parseTimeArg accepts a datetime string like YYYY-MM-DDTHH:mm:ss.sssZ or an
// epoch-milliseconds number. A missing arg value propagates as missing.
func parseTimeArg(args []Value) (t time.Time, null bool, err error) {
	if len(args) == 0 {
		err = ErrMissingArgs
		return
	}

	v := args[0]
	switch v.Kind {
	case KindNull:
		null = true
	case KindString:
		t, err = time.Parse("2006-01-02T15:04:05.000Z", v.Str)
		if err == nil {
			return
		}
		t, err = time.Parse("2006-01-02", v.Str)
	case KindFloat:
		t = time.UnixMilli(int64(v.Float)).UTC()
	case KindInt:
		t = time.UnixMilli(v.Int).UTC()
	default:
		err = ErrInvalidValueType
	}
	return
}

func floatFunc(args []Value, f func(float64) float64) (Value, error) {
	if len(args) == 0 {
		return Null(), ErrMissingArgs
	}
	if args[0].IsNull() {
		return Null(), nil
	}
	fv, ok := args[0].AsFloat()
	if !ok {
		return Null(), ErrInvalidValueType
	}
	return FloatValue(f(fv)), nil
}
