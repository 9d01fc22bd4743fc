package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type identified interface {
	GetID() int64
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// toStorage converts a field value into the parameter bound for its column.
func toStorage(c Coercion, v any) (any, error) {
	switch c {
	case Enum:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("enum value %v is %T, not a string", v, v)
		}
		return Capitalize(s), nil
	case Timestamp:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("timestamp value %v is %T, not a time.Time", v, v)
		}
		if t.IsZero() {
			return nil, nil
		}
		return t.UTC(), nil
	case Reference:
		if v == nil {
			return nil, nil
		}
		ref, ok := v.(identified)
		if !ok {
			return nil, fmt.Errorf("referenced %T has no id", v)
		}
		return ref.GetID(), nil
	case Collection:
		return nil, fmt.Errorf("collections are not stored")
	default:
		return v, nil
	}
}

func asInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int64(v), nil
	case float32:
		return asInt64(float64(v))
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return asInt64(string(v))
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot read %T as integer", raw)
	}
}

func asFloat32(raw any) (float32, error) {
	switch v := raw.(type) {
	case float32:
		return v, nil
	case float64:
		return float32(v), nil
	case int64:
		return float32(v), nil
	case int:
		return float32(v), nil
	case int32:
		return float32(v), nil
	case []byte:
		return asFloat32(string(v))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v)
		}
		return float32(f), nil
	default:
		return 0, fmt.Errorf("cannot read %T as float32", raw)
	}
}

func asString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func asTime(raw any, layouts []string) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case []byte:
		return asTime(string(v), layouts)
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(v), "Z")
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t, nil
			}
		}
		if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v)); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("%q is not a recognized timestamp", v)
	default:
		return time.Time{}, fmt.Errorf("cannot read %T as timestamp", raw)
	}
}
