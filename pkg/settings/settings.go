package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Option names recognized by the strategies
const (
	Path                 = "path"
	CanEncryptName       = "canEncryptName"
	CanDeleteAfterUpload = "canDeleteAfterUpload"
	MakePublic           = "makePublic"
	NameSecret           = "nameSecret"
)

// Settings is an ordered option map with lookup-with-default semantics.
// The zero value is ready to use.
type Settings struct {
	keys   []string
	values map[string]any
}

// New creates settings from a map. Keys are inserted in sorted order so
// that iteration is stable regardless of map ordering.
func New(values map[string]any) *Settings {
	s := &Settings{}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Set(k, values[k])
	}
	return s
}

// Set stores a value, keeping the original insertion position when the key
// already exists
func (s *Settings) Set(key string, value any) *Settings {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
	return s
}

// Delete removes an option
func (s *Settings) Delete(key string) {
	k, ok := s.lookupKey(key)
	if !ok {
		return
	}
	delete(s.values, k)
	for i, existing := range s.keys {
		if existing == k {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the option names in insertion order
func (s *Settings) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of options
func (s *Settings) Len() int {
	return len(s.keys)
}

// Has reports whether an option is present
func (s *Settings) Has(key string) bool {
	_, ok := s.lookupKey(key)
	return ok
}

// Get returns the value stored for key, or def when it is absent.
// Matching is exact first and case-insensitive second, since config
// loaders like viper lower-case every key.
func (s *Settings) Get(key string, def any) any {
	k, ok := s.lookupKey(key)
	if !ok {
		return def
	}
	return s.values[k]
}

// String returns a string option
func (s *Settings) String(key, def string) string {
	switch v := s.Get(key, nil).(type) {
	case nil:
		return def
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns a boolean option. Strings are parsed with strconv.ParseBool
// and numbers are true when non-zero; anything unparseable yields def.
func (s *Settings) Bool(key string, def bool) bool {
	switch v := s.Get(key, nil).(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return def
		}
		return b
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return def
	}
}

// Int returns an integer option
func (s *Settings) Int(key string, def int) int {
	switch v := s.Get(key, nil).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return def
		}
		return n
	default:
		return def
	}
}

// Clone returns an independent copy
func (s *Settings) Clone() *Settings {
	c := &Settings{}
	for _, k := range s.keys {
		c.Set(k, s.values[k])
	}
	return c
}

func (s *Settings) lookupKey(key string) (string, bool) {
	if _, ok := s.values[key]; ok {
		return key, true
	}
	for _, k := range s.keys {
		if strings.EqualFold(k, key) {
			return k, true
		}
	}
	return "", false
}
