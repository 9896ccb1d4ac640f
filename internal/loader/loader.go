// Package loader populates the knowledge store from JSON knowledge files.
//
// The loader knows four well-known file names and skips any that are
// absent, so a partial knowledge directory loads what it has. A file
// that exists but does not parse is a hard error.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/tutorkb/internal/store"
)

// Well-known knowledge file names.
const (
	ConceptsFile = "rust_core_concepts.json"
	PatternsFile = "rust_patterns_idioms.json"
	CommandsFile = "rust_toolchain_cargo.json"
	ErrorsFile   = "rust_common_errors.json"
)

// Loader reads knowledge files and writes their records to the store.
type Loader struct {
	store *store.Store
	log   *slog.Logger
}

// New builds a Loader. A nil logger falls back to slog.Default().
func New(st *store.Store, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{store: st, log: log}
}

// LoadStats counts the records written by one load pass.
type LoadStats struct {
	Concepts int `json:"concepts"`
	Patterns int `json:"patterns"`
	Errors   int `json:"errors"`
	Commands int `json:"commands"`
}

// Total sums all record kinds.
func (s LoadStats) Total() int {
	return s.Concepts + s.Patterns + s.Errors + s.Commands
}

func (s LoadStats) String() string {
	return fmt.Sprintf("Loaded %d concepts, %d patterns, %d errors, %d commands (total: %d)",
		s.Concepts, s.Patterns, s.Errors, s.Commands, s.Total())
}

// LoadAllFromDirectory loads every well-known knowledge file present in
// dir. Missing files are skipped; malformed files abort the load.
// Concepts, patterns and errors upsert by id, so reloading the same
// directory is idempotent for them. Commands have no content key and
// are duplicated by repeated loads.
func (l *Loader) LoadAllFromDirectory(ctx context.Context, dir string) (*LoadStats, error) {
	var stats LoadStats

	steps := []struct {
		file string
		load func(context.Context, string) (int, error)
		dst  *int
	}{
		{ConceptsFile, l.loadConcepts, &stats.Concepts},
		{PatternsFile, l.loadPatterns, &stats.Patterns},
		{ErrorsFile, l.loadErrors, &stats.Errors},
		{CommandsFile, l.loadCommands, &stats.Commands},
	}
	for _, step := range steps {
		path := filepath.Join(dir, step.file)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			l.log.Debug("knowledge file absent, skipping", "file", step.file)
			continue
		}
		n, err := step.load(ctx, path)
		if err != nil {
			return nil, err
		}
		*step.dst += n
		l.log.Info("knowledge file loaded", "file", step.file, "records", n)
	}

	return &stats, nil
}

type conceptsFile struct {
	Modules []struct {
		ID       string `json:"id"`
		Concepts []struct {
			Name        string   `json:"name"`
			Description string   `json:"description"`
			Rules       []string `json:"rules"`
			KeyPoints   []string `json:"key_points"`
			Examples    []struct {
				Title       string `json:"title"`
				Code        string `json:"code"`
				Explanation string `json:"explanation"`
			} `json:"examples"`
			CommonErrors []string `json:"common_errors"`
		} `json:"concepts"`
	} `json:"modules"`
}

func (l *Loader) loadConcepts(ctx context.Context, path string) (int, error) {
	var file conceptsFile
	if err := readJSON(path, &file); err != nil {
		return 0, err
	}

	count := 0
	for _, module := range file.Modules {
		moduleID := module.ID
		if moduleID == "" {
			moduleID = "unknown"
		}
		topic := moduleID

		for _, src := range module.Concepts {
			name := src.Name
			if name == "" {
				name = "Unnamed"
			}

			examples := make([]store.CodeExample, 0, len(src.Examples))
			for _, ex := range src.Examples {
				examples = append(examples, store.CodeExample{
					Title:       ex.Title,
					Code:        ex.Code,
					Explanation: ex.Explanation,
				})
			}

			c := store.Concept{
				ID:           Slugify(moduleID) + "-" + Slugify(name),
				Topic:        topic,
				Title:        name,
				Explanation:  buildExplanation(src.Description, src.Rules, src.KeyPoints),
				CodeExamples: examples,
				Mistakes:     orEmpty(src.CommonErrors),
				Related:      []string{},
				Tags:         []string{topic, moduleID},
			}
			if err := l.store.UpsertConcept(ctx, &c); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

// buildExplanation folds the description, rules and key points of a
// concept into one searchable text.
func buildExplanation(description string, rules, keyPoints []string) string {
	var b strings.Builder
	b.WriteString(description)
	if len(rules) > 0 {
		b.WriteString("\n\nRules:\n")
		for _, r := range rules {
			b.WriteString("- " + r + "\n")
		}
	}
	if len(keyPoints) > 0 {
		b.WriteString("\n\nKey Points:\n")
		for _, p := range keyPoints {
			b.WriteString("- " + p + "\n")
		}
	}
	return b.String()
}

type patternsFile struct {
	Categories []struct {
		Name     string `json:"name"`
		Patterns []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Example     string `json:"example"`
		} `json:"patterns"`
	} `json:"categories"`
}

func (l *Loader) loadPatterns(ctx context.Context, path string) (int, error) {
	var file patternsFile
	if err := readJSON(path, &file); err != nil {
		return 0, err
	}

	count := 0
	for _, category := range file.Categories {
		categoryName := category.Name
		if categoryName == "" {
			categoryName = "Unknown"
		}

		for _, src := range category.Patterns {
			name := src.Name
			if name == "" {
				name = "Unnamed"
			}

			examples := []store.CodeExample{}
			if src.Example != "" {
				examples = append(examples, store.CodeExample{
					Title:       name,
					Code:        src.Example,
					Explanation: src.Description,
				})
			}

			p := store.Pattern{
				ID:           Slugify(categoryName) + "-" + Slugify(name),
				Name:         name,
				Description:  src.Description,
				Template:     src.Example,
				WhenToUse:    categoryName,
				WhenNotToUse: "",
				Examples:     examples,
			}
			if err := l.store.UpsertPattern(ctx, &p); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

type errorsFile struct {
	Errors []struct {
		ErrorCode     string   `json:"error_code"`
		Title         string   `json:"title"`
		Explanation   string   `json:"explanation"`
		ExampleBad    string   `json:"example_bad"`
		ExampleGood   string   `json:"example_good"`
		FixStrategies []string `json:"fix_strategies"`
	} `json:"errors"`
}

func (l *Loader) loadErrors(ctx context.Context, path string) (int, error) {
	var file errorsFile
	if err := readJSON(path, &file); err != nil {
		return 0, err
	}

	count := 0
	for _, src := range file.Errors {
		if src.ErrorCode == "" {
			l.log.Warn("error entry without error_code, skipping", "file", filepath.Base(path))
			continue
		}
		e := store.CompilerError{
			ErrorCode:     src.ErrorCode,
			Title:         src.Title,
			Explanation:   src.Explanation,
			ExampleBad:    src.ExampleBad,
			ExampleGood:   src.ExampleGood,
			FixStrategies: orEmpty(src.FixStrategies),
		}
		if err := l.store.UpsertCompilerError(ctx, &e); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

type commandsFile struct {
	Sections []struct {
		Name     string `json:"name"`
		Commands []struct {
			Command     string   `json:"command"`
			Description string   `json:"description"`
			Options     []string `json:"options"`
			Examples    []string `json:"examples"`
		} `json:"commands"`
	} `json:"sections"`
}

func (l *Loader) loadCommands(ctx context.Context, path string) (int, error) {
	var file commandsFile
	if err := readJSON(path, &file); err != nil {
		return 0, err
	}

	count := 0
	for _, section := range file.Sections {
		tool := toolForSection(section.Name)

		for _, src := range section.Commands {
			flags := make([]store.CommandFlag, 0, len(src.Options))
			for _, opt := range src.Options {
				flags = append(flags, parseFlag(opt))
			}

			c := store.Command{
				Tool:        tool,
				Command:     src.Command,
				Description: src.Description,
				Flags:       flags,
				Examples:    orEmpty(src.Examples),
			}
			if _, err := l.store.InsertCommand(ctx, &c); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

// toolForSection infers the tool name from a section heading.
func toolForSection(name string) string {
	switch {
	case strings.Contains(name, "Cargo"):
		return "cargo"
	case strings.Contains(name, "Rustup"):
		return "rustup"
	default:
		return "rust"
	}
}

// parseFlag splits an option entry on its first " - " separator into the
// flag and its description. Entries without the separator become a flag
// with an empty description.
func parseFlag(opt string) store.CommandFlag {
	flag, desc, found := strings.Cut(opt, " - ")
	if !found {
		return store.CommandFlag{Flag: opt}
	}
	return store.CommandFlag{
		Flag:        strings.TrimSpace(flag),
		Description: strings.TrimSpace(desc),
	}
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
