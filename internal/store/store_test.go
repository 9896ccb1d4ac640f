package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/tutorkb/dbopen"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return &Store{DB: dbopen.OpenMemory(t, dbopen.WithSchema(Schema))}
}

func testConcept(id string) *Concept {
	return &Concept{
		ID:          id,
		Topic:       "ownership",
		Title:       "Move Semantics",
		Explanation: "Values move by default.\n\nRules:\n- Each value has one owner",
		CodeExamples: []CodeExample{
			{Title: "Basic move", Code: "let a = s;", Explanation: "s is moved into a"},
		},
		Mistakes: []string{"using a value after it was moved"},
		Related:  []string{"ownership-borrowing"},
		Tags:     []string{"ownership", "ownership-move-semantics"},
	}
}

func TestConceptRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	want := testConcept("ownership-move-semantics")
	if err := s.UpsertConcept(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetConcept(ctx, want.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch\n got %+v\nwant %+v", got, want)
	}
}

func TestConceptUpsertReplaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	c := testConcept("ownership-move-semantics")
	if err := s.UpsertConcept(ctx, c); err != nil {
		t.Fatal(err)
	}
	c.Title = "Move Semantics, Revised"
	c.Explanation = "Updated explanation about partial moves."
	if err := s.UpsertConcept(ctx, c); err != nil {
		t.Fatal(err)
	}

	n, err := s.CountConcepts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("concepts = %d after double upsert, want 1", n)
	}

	got, err := s.GetConcept(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Move Semantics, Revised" {
		t.Fatalf("title = %q, want replaced title", got.Title)
	}
}

func TestConceptSearchTracksUpdates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	c := testConcept("ownership-move-semantics")
	if err := s.UpsertConcept(ctx, c); err != nil {
		t.Fatal(err)
	}

	hits, err := s.SearchConcepts(ctx, "move", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("search move: %d hits, want 1", len(hits))
	}

	// Replace the row with content that drops the old terms; the index
	// must stop matching them.
	c.Title = "Copy Types"
	c.Explanation = "Types implementing Copy duplicate instead."
	if err := s.UpsertConcept(ctx, c); err != nil {
		t.Fatal(err)
	}

	hits, err = s.SearchConcepts(ctx, "move", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatalf("search move after replace: %d hits, want 0", len(hits))
	}
	hits, err = s.SearchConcepts(ctx, "copy", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("search copy after replace: %d hits, want 1", len(hits))
	}
}

func TestConceptDeleteCleansIndex(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.UpsertConcept(ctx, testConcept("ownership-move-semantics")); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteConcept(ctx, "ownership-move-semantics"); err != nil {
		t.Fatal(err)
	}

	hits, err := s.SearchConcepts(ctx, "move", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatalf("search after delete: %d hits, want 0", len(hits))
	}

	var indexed int
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM concepts_fts`).Scan(&indexed); err != nil {
		t.Fatal(err)
	}
	if indexed != 0 {
		t.Fatalf("fts rows = %d after delete, want 0", indexed)
	}
}

func TestConceptsByTopicExactMatch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := testConcept("ownership-move-semantics")
	b := testConcept("ownership-borrowing")
	b.Title = "Borrowing"
	other := testConcept("traits-generics")
	other.Topic = "traits"
	for _, c := range []*Concept{a, b, other} {
		if err := s.UpsertConcept(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ConceptsByTopic(ctx, "ownership")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("topic ownership: %d concepts, want 2", len(got))
	}
	if got[0].Title != "Borrowing" {
		t.Fatalf("topic results not sorted by title: first is %q", got[0].Title)
	}

	// Exact match only, no prefixes.
	got, err = s.ConceptsByTopic(ctx, "owner")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("topic owner: %d concepts, want 0", len(got))
	}
}

func TestConceptDecodeError(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.UpsertConcept(ctx, testConcept("ownership-move-semantics")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.DB.Exec(`UPDATE concepts SET code_examples = 'not json' WHERE id = ?`,
		"ownership-move-semantics"); err != nil {
		t.Fatal(err)
	}

	_, err := s.GetConcept(ctx, "ownership-move-semantics")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
}

func TestGetConceptAbsent(t *testing.T) {
	s := testStore(t)

	c, err := s.GetConcept(context.Background(), "missing")
	if err != nil {
		t.Fatalf("absent lookup errored: %v", err)
	}
	if c != nil {
		t.Fatalf("absent lookup returned %+v", c)
	}
}

func TestPatternRoundTripAndSearch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	want := &Pattern{
		ID:           "builder-pattern",
		Name:         "Builder Pattern",
		Description:  "Construct complex values step by step.",
		Template:     "struct Builder { .. }",
		WhenToUse:    "Many optional fields",
		WhenNotToUse: "Simple structs with few fields",
		Examples: []CodeExample{
			{Title: "Config builder", Code: "Config::builder().build()", Explanation: "chained setters"},
		},
	}
	if err := s.UpsertPattern(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetPattern(ctx, want.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch\n got %+v\nwant %+v", got, want)
	}

	hits, err := s.SearchPatterns(ctx, "builder", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].ID != "builder-pattern" {
		t.Fatalf("search builder: %+v", hits)
	}
}

func TestPatternSearchTracksUpdates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p := &Pattern{
		ID:          "builder-pattern",
		Name:        "Builder Pattern",
		Description: "Construct complex values step by step.",
	}
	if err := s.UpsertPattern(ctx, p); err != nil {
		t.Fatal(err)
	}

	p.Name = "Newtype Pattern"
	p.Description = "Wrap a type to get a distinct one."
	if err := s.UpsertPattern(ctx, p); err != nil {
		t.Fatal(err)
	}

	hits, err := s.SearchPatterns(ctx, "builder", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatalf("search builder after update: %d hits, want 0", len(hits))
	}
	hits, err = s.SearchPatterns(ctx, "newtype", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Name != "Newtype Pattern" {
		t.Fatalf("search newtype after update: %+v", hits)
	}
}

func TestCompilerErrorRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	want := &CompilerError{
		ErrorCode:     "E0382",
		Title:         "borrow of moved value",
		Explanation:   "The value was moved and then used again.",
		ExampleBad:    "let b = a; println!(\"{a}\");",
		ExampleGood:   "let b = a.clone(); println!(\"{a}\");",
		FixStrategies: []string{"clone the value", "borrow instead of moving"},
	}
	if err := s.UpsertCompilerError(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetCompilerError(ctx, "E0382")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch\n got %+v\nwant %+v", got, want)
	}

	absent, err := s.GetCompilerError(ctx, "E9999")
	if err != nil || absent != nil {
		t.Fatalf("absent lookup = %+v, %v", absent, err)
	}
}

func testCommand() *Command {
	return &Command{
		Tool:        "cargo",
		Command:     "cargo build",
		Description: "Compile the current package",
		Flags: []CommandFlag{
			{Flag: "--release", Description: "Build with optimizations"},
		},
		Examples: []string{"cargo build --release"},
	}
}

func TestCommandInsertDuplicates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id1, err := s.InsertCommand(ctx, testCommand())
	if err != nil {
		t.Fatal(err)
	}
	id2, err := s.InsertCommand(ctx, testCommand())
	if err != nil {
		t.Fatal(err)
	}
	if id1 == id2 {
		t.Fatalf("both inserts got id %d", id1)
	}

	n, err := s.CountCommands(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("commands = %d after duplicate insert, want 2", n)
	}
}

func TestSearchCommands(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.InsertCommand(ctx, testCommand()); err != nil {
		t.Fatal(err)
	}
	run := testCommand()
	run.Command = "cargo run"
	run.Description = "Run the current package"
	if _, err := s.InsertCommand(ctx, run); err != nil {
		t.Fatal(err)
	}

	// LIKE is ASCII case-insensitive.
	hits, err := s.SearchCommands(ctx, "cargo", "BUILD")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Command != "cargo build" {
		t.Fatalf("search BUILD: %+v", hits)
	}

	// Tool filter is exact.
	hits, err = s.SearchCommands(ctx, "rustup", "build")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatalf("search wrong tool: %d hits, want 0", len(hits))
	}

	all, err := s.ToolCommands(ctx, "cargo")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("tool commands: %d, want 2", len(all))
	}
}

func TestSearchLogAndStats(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.UpsertConcept(ctx, testConcept("ownership-move-semantics")); err != nil {
		t.Fatal(err)
	}
	if err := s.LogSearch(ctx, "ownership", 5); err != nil {
		t.Fatal(err)
	}
	if err := s.LogSearch(ctx, "lifetimes", 0); err != nil {
		t.Fatal(err)
	}

	recent, err := s.RecentSearches(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].Query != "lifetimes" {
		t.Fatalf("recent = %+v, want newest entry lifetimes", recent)
	}

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Concepts != 1 || st.Searches != 2 {
		t.Fatalf("stats = %+v", st)
	}
}
