package idgen

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if len(id) != Length {
			t.Errorf("len(%q) = %d, want %d", id, len(id), Length)
		}
		for _, r := range id {
			if !strings.ContainsRune(Alphabet, r) {
				t.Errorf("%q contains %q outside the alphabet", id, r)
			}
		}
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestWithPrefix(t *testing.T) {
	id, err := WithPrefix("rev-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(id, "rev-") || len(id) != len("rev-")+Length {
		t.Errorf("WithPrefix() = %q", id)
	}
}
