package settings

import (
	"reflect"
	"testing"
)

func TestSettings_GetDefaults(t *testing.T) {
	var s Settings

	if got := s.Get("missing", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %v", got)
	}
	if !s.Bool(CanDeleteAfterUpload, true) {
		t.Error("Expected default true for canDeleteAfterUpload")
	}
	if s.String(Path, "") != "" {
		t.Error("Expected empty path by default")
	}

	s.Set(CanDeleteAfterUpload, false)
	if s.Bool(CanDeleteAfterUpload, true) {
		t.Error("Expected explicit false to override default")
	}
}

func TestSettings_KeepsInsertionOrder(t *testing.T) {
	s := &Settings{}
	s.Set("b", 1).Set("a", 2).Set("c", 3)
	s.Set("b", 4)

	want := []string{"b", "a", "c"}
	if got := s.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected keys %v, got %v", want, got)
	}
	if s.Int("b", 0) != 4 {
		t.Errorf("Expected b to be overwritten with 4, got %d", s.Int("b", 0))
	}

	s.Delete("a")
	want = []string{"b", "c"}
	if got := s.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected keys %v after delete, got %v", want, got)
	}
}

func TestSettings_CaseInsensitiveFallback(t *testing.T) {
	s := New(map[string]any{
		"candeleteafterupload": "false",
		"path":                 "uploads/",
	})

	if s.Bool(CanDeleteAfterUpload, true) {
		t.Error("Expected lower-cased key to be found")
	}
	if !s.Has(CanDeleteAfterUpload) {
		t.Error("Expected Has to match case-insensitively")
	}
	if got := s.String(Path, ""); got != "uploads/" {
		t.Errorf("Expected path uploads/, got %q", got)
	}
}

func TestSettings_TypedConversions(t *testing.T) {
	tests := []struct {
		name  string
		value any
		def   bool
		want  bool
	}{
		{name: "bool true", value: true, want: true},
		{name: "string true", value: "true", want: true},
		{name: "string 0", value: "0", def: true, want: false},
		{name: "garbage keeps default", value: "maybe", def: true, want: true},
		{name: "non-zero int", value: 1, want: true},
		{name: "float zero", value: float64(0), def: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := (&Settings{}).Set("flag", tt.value)
			if got := s.Bool("flag", tt.def); got != tt.want {
				t.Errorf("Bool(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}

	s := (&Settings{}).Set("n", "42").Set("f", float64(7))
	if s.Int("n", 0) != 42 {
		t.Errorf("Expected 42, got %d", s.Int("n", 0))
	}
	if s.Int("f", 0) != 7 {
		t.Errorf("Expected 7, got %d", s.Int("f", 0))
	}
	if s.String("n", "") != "42" {
		t.Errorf("Expected \"42\", got %q", s.String("n", ""))
	}
}

func TestSettings_Clone(t *testing.T) {
	s := (&Settings{}).Set(Path, "a")
	c := s.Clone()
	c.Set(Path, "b")

	if s.String(Path, "") != "a" {
		t.Error("Clone should not share state with the original")
	}
}
