package config

import (
	"time"

	"github.com/spf13/cast"
	"go.dw1.io/safemath"
)

// toInt converts integer values with safemath so that out-of-range values
// from YAML (decoded as int or uint64) fail instead of wrapping; strings and
// floats go through spf13/cast.
func toInt(v any) (int, error) {
	if isIntVal(v) {
		return safemath.ConvertAny[int](v)
	}

	return cast.ToIntE(v)
}

// toDuration accepts Go duration strings ("1.5s") and integers, the latter
// read as milliseconds whether they arrive typed or as digits in a string.
func toDuration(v any) (time.Duration, error) {
	if s, ok := v.(string); ok {
		if ms, err := cast.ToInt64E(s); err == nil {
			v = ms
		}
	}

	if isIntVal(v) {
		ms, err := safemath.ConvertAny[int64](v)
		if err != nil {
			return 0, err
		}

		return time.Duration(ms) * time.Millisecond, nil
	}

	return cast.ToDurationE(v)
}

func toString(v any) (string, error) {
	return cast.ToStringE(v)
}

// isIntVal reports whether v's dynamic type is one of the integer types
// eligible for safemath conversions.
func isIntVal(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr:
		return true
	default:
		return false
	}
}
