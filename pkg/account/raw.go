package account

import (
	"fmt"
	"strconv"
	"strings"
)

// Raw is unvalidated backend configuration as supplied by the caller
type Raw map[string]any

// lookup finds key exactly, then case-insensitively. viper and other
// config loaders lower-case map keys.
func (r Raw) lookup(key string) (any, bool) {
	if v, ok := r[key]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// first returns the value of the first present key
func (r Raw) first(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r.lookup(k); ok {
			return v, true
		}
	}
	return nil, false
}

// Empty reports whether key is absent or holds an empty value
func (r Raw) Empty(key string) bool {
	v, _ := r.lookup(key)
	return isEmpty(v)
}

// String returns the first present key as a string, or def
func (r Raw) String(def string, keys ...string) string {
	v, ok := r.first(keys...)
	if !ok || v == nil {
		return def
	}
	switch s := v.(type) {
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// Int returns the first present key as an int, or def when absent or
// unparseable
func (r Raw) Int(def int, keys ...string) int {
	v, ok := r.first(keys...)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint16:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return def
		}
		return i
	default:
		return def
	}
}

// Bool returns the first present key as a bool, or def. Besides real
// booleans it accepts strconv.ParseBool strings and the S/N flags some
// callers send.
func (r Raw) Bool(def bool, keys ...string) bool {
	v, ok := r.first(keys...)
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case int:
		return b != 0
	case float64:
		return b != 0
	case string:
		switch strings.ToUpper(strings.TrimSpace(b)) {
		case "S", "Y", "YES":
			return true
		case "N", "NO", "":
			return false
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return def
		}
		return parsed
	default:
		return def
	}
}

// isEmpty treats nil, blank strings, false and numeric zero as absent
func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case bool:
		return !x
	case int:
		return x == 0
	case int32:
		return x == 0
	case int64:
		return x == 0
	case uint16:
		return x == 0
	case float64:
		return x == 0
	case []byte:
		return len(x) == 0
	default:
		return false
	}
}
