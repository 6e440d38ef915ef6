package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ConfigBackend is the persistent store for non-secret settings. Each
// platform keeps values in their native type where it can; the getters
// coerce what a hand-edited store may contain (a JSON number for a duration,
// "1" for a bool). ok is false when the key is absent.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	GetBool(key string) (val bool, ok bool, err error)
	GetDuration(key string) (val time.Duration, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	SetBool(key string, val bool) error
	SetDuration(key string, val time.Duration) error
	Delete(key string) error
}

func stringValue(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected a string, got %T", key, v)
	}
	return s, nil
}

func intValue(key string, v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case float64:
		if val < math.MinInt || val > math.MaxInt || val != math.Trunc(val) {
			return 0, fmt.Errorf("value %v for %s is not a valid integer or is out of range", val, key)
		}
		return int(val), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("invalid type %T for %s", v, key)
	}
}

func boolValue(key string, v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case float64:
		if val != 0 && val != 1 {
			return false, fmt.Errorf("value %v for %s is not a valid bool", val, key)
		}
		return val == 1, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return false, fmt.Errorf("invalid bool for %s: %w", key, err)
		}
		return b, nil
	default:
		return false, fmt.Errorf("invalid type %T for %s", v, key)
	}
}

// durationValue accepts Go duration strings ("25s") and bare numbers, which
// are read as whole seconds.
func durationValue(key string, v any) (time.Duration, error) {
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case float64:
		if val < 0 || val > float64(math.MaxInt64/int64(time.Second)) {
			return 0, fmt.Errorf("value %v for %s is out of range", val, key)
		}
		return time.Duration(val * float64(time.Second)), nil
	case string:
		s := strings.TrimSpace(val)
		if n, err := strconv.Atoi(s); err == nil {
			return time.Duration(n) * time.Second, nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	default:
		return 0, fmt.Errorf("invalid type %T for %s", v, key)
	}
}
