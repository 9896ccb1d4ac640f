package idgen_test

import (
	"strings"
	"testing"

	"github.com/hazyhaar/tutorkb/idgen"
)

func TestNewUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := idgen.New()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		if _, err := idgen.Parse(id); err != nil {
			t.Fatalf("Parse(%q): %v", id, err)
		}
	}
}

func TestPrefixed(t *testing.T) {
	gen := idgen.Prefixed("slog_", idgen.UUIDv7())
	id := gen()
	if !strings.HasPrefix(id, "slog_") {
		t.Fatalf("id %q missing prefix", id)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := idgen.Parse("not-a-uuid"); err == nil {
		t.Fatal("expected error for invalid UUID")
	}
}
