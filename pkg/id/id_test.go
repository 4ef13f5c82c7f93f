package id

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	seen := make(map[string]bool, 100)
	for i := 0; i < 100; i++ {
		v := New()
		if !Valid(v) {
			t.Fatalf("New() = %q is not valid", v)
		}
		if seen[v] {
			t.Fatalf("duplicate id %q", v)
		}
		seen[v] = true
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{strings.Repeat("0", Size), true},
		{"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88", true},
		{"", false},
		{strings.Repeat("a", Size-1), false},
		{strings.Repeat("a", Size+1), false},
		{strings.Repeat("A", Size), false},
		{"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b", false},
		{strings.Repeat("g", Size), false},
	}
	for _, tt := range tests {
		if got := Valid(tt.in); got != tt.want {
			t.Fatalf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
