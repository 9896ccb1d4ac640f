package tutorkb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/tutorkb/internal/store"
)

func testKB(t *testing.T) *KB {
	t.Helper()
	cfg := &Config{DBPath: filepath.Join(t.TempDir(), "kb.db")}
	kb, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { kb.Close() })
	return kb
}

func seedConcept(t *testing.T, kb *KB, id, topic, title, explanation string) {
	t.Helper()
	err := kb.Store().UpsertConcept(context.Background(), &store.Concept{
		ID: id, Topic: topic, Title: title, Explanation: explanation,
		CodeExamples: []store.CodeExample{}, Mistakes: []string{},
		Related: []string{}, Tags: []string{topic},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestConfidence(t *testing.T) {
	cases := []struct {
		total int
		want  float64
	}{
		{0, 0.0},
		{1, 0.58},
		{2, 0.66},
		{3, 0.74},
		{4, 0.82},
		{5, 0.9},
		{10, 0.9},
	}
	for _, c := range cases {
		r := &Results{}
		for range c.total {
			r.Concepts = append(r.Concepts, store.Concept{})
		}
		got := r.Confidence()
		if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Confidence(%d results) = %v, want %v", c.total, got, c.want)
		}
	}
}

func TestConfidenceMonotonic(t *testing.T) {
	prev := -1.0
	for total := range 8 {
		r := &Results{}
		for range total {
			r.Patterns = append(r.Patterns, store.Pattern{})
		}
		got := r.Confidence()
		if got < prev {
			t.Fatalf("confidence dropped at %d results: %v < %v", total, got, prev)
		}
		prev = got
	}
}

func TestFormatOmitsEmptySections(t *testing.T) {
	empty := &Results{}
	if out := empty.Format(); out != "" {
		t.Fatalf("empty results formatted as %q, want empty string", out)
	}

	r := &Results{
		Patterns: []store.Pattern{{
			Name:        "Builder Pattern",
			Description: "Construct values step by step.",
			WhenToUse:   "Construction",
			Template:    "Config::builder().build()",
		}},
	}
	out := r.Format()
	if strings.Contains(out, "## Concepts") || strings.Contains(out, "## Commands") {
		t.Fatalf("empty sections rendered:\n%s", out)
	}
	for _, want := range []string{
		"## Patterns",
		"### Builder Pattern",
		"**When to use:** Construction",
		"```rust\nConfig::builder().build()\n```",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("formatted output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatConceptSection(t *testing.T) {
	r := &Results{
		Concepts: []store.Concept{{
			Title:       "Move Semantics",
			Topic:       "ownership",
			Explanation: "Values move by default.",
			CodeExamples: []store.CodeExample{
				{Title: "Basic move", Code: "let a = s;", Explanation: "s is moved"},
			},
		}},
	}
	out := r.Format()
	for _, want := range []string{
		"## Concepts",
		"### Move Semantics",
		"**Topic:** ownership",
		"**Examples:**",
		"**Basic move:**\n```rust\nlet a = s;\n```",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("formatted output missing %q:\n%s", want, out)
		}
	}
}

func TestSearchAll(t *testing.T) {
	kb := testKB(t)
	ctx := context.Background()

	seedConcept(t, kb, "ownership-move-semantics", "ownership", "Move Semantics", "Values move by default.")
	err := kb.Store().UpsertPattern(ctx, &store.Pattern{
		ID: "construction-builder", Name: "Builder Pattern",
		Description: "Ownership-friendly construction.", WhenToUse: "Construction",
		Examples: []store.CodeExample{},
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := kb.SearchAll(ctx, "ownership")
	if err != nil {
		t.Fatal(err)
	}
	if res.IsEmpty() {
		t.Fatal("combined search found nothing")
	}
	if len(res.Concepts) != 1 || len(res.Patterns) != 1 {
		t.Fatalf("results = %d concepts, %d patterns", len(res.Concepts), len(res.Patterns))
	}
	if len(res.Commands) != 0 {
		t.Fatalf("commands in combined search: %d", len(res.Commands))
	}

	// The search was logged with its result count.
	recent, err := kb.RecentSearches(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].Query != "ownership" || recent[0].ResultCount != 2 {
		t.Fatalf("search log = %+v", recent)
	}
}

func TestSearchAllCombinedLimit(t *testing.T) {
	kb := testKB(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		seedConcept(t, kb, "ownership-"+id, "ownership", "Concept "+id, "ownership rules explained")
	}

	res, err := kb.SearchAll(ctx, "ownership")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Concepts) != 5 {
		t.Fatalf("combined search returned %d concepts, want 5", len(res.Concepts))
	}
}

func TestSearchLoggingDisabled(t *testing.T) {
	off := false
	cfg := &Config{
		DBPath: filepath.Join(t.TempDir(), "kb.db"),
		Search: SearchConfig{LogSearches: &off},
	}
	kb, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer kb.Close()
	ctx := context.Background()

	if _, err := kb.SearchAll(ctx, "anything"); err != nil {
		t.Fatal(err)
	}
	recent, err := kb.RecentSearches(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 0 {
		t.Fatalf("search logged while disabled: %+v", recent)
	}
}

func TestLoadFromConfiguredDir(t *testing.T) {
	dir := t.TempDir()
	knowledge := filepath.Join(dir, "knowledge")
	if err := os.MkdirAll(knowledge, 0o755); err != nil {
		t.Fatal(err)
	}
	body := `{"modules":[{"id":"ownership","concepts":[{"name":"Move Semantics","description":"Values move."}]}]}`
	if err := os.WriteFile(filepath.Join(knowledge, "rust_core_concepts.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{DBPath: filepath.Join(dir, "kb.db"), KnowledgeDir: knowledge}
	kb, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer kb.Close()

	stats, err := kb.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Concepts != 1 || stats.Total() != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	st, err := kb.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.Concepts != 1 {
		t.Fatalf("store stats = %+v", st)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.defaults()
	if cfg.DBPath != "tutorkb.db" || cfg.KnowledgeDir != "knowledge" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Search.Limit != 10 || cfg.Search.CombinedLimit != 5 {
		t.Fatalf("search defaults = %+v", cfg.Search)
	}
	if cfg.Search.LogSearches == nil || !*cfg.Search.LogSearches {
		t.Fatal("search logging should default on")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "db_path: /tmp/kb.db\nknowledge_dir: /tmp/knowledge\nsearch:\n  limit: 3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/kb.db" || cfg.Search.Limit != 3 {
		t.Fatalf("cfg = %+v", cfg)
	}
}
