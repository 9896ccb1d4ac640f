// Package tutorkb is a persistent, queryable knowledge base for a
// Rust-domain tutoring assistant.
//
// It stores four record kinds in SQLite: language concepts, code
// patterns, compiler error cards and toolchain commands. Concepts and
// patterns are full-text indexed with FTS5; records load from JSON
// knowledge files and are queried through typed lookups, ranked
// searches and a combined cross-kind search.
//
// Usage:
//
//	kb, err := tutorkb.New(cfg, logger)
//	defer kb.Close()
//	stats, err := kb.Load(ctx)
//	res, err := kb.SearchAll(ctx, "ownership")
//	kb.RegisterMCP(mcpServer)
package tutorkb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/tutorkb/internal/loader"
	"github.com/hazyhaar/tutorkb/internal/store"
)

// KB is the knowledge base service.
type KB struct {
	store  *store.Store
	loader *loader.Loader
	logger *slog.Logger
	config *Config
}

// New opens the knowledge database and builds the service. A nil logger
// falls back to slog.Default().
func New(cfg *Config, logger *slog.Logger) (*KB, error) {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	return &KB{
		store:  s,
		loader: loader.New(s, logger),
		logger: logger,
		config: cfg,
	}, nil
}

// Close closes the underlying database.
func (kb *KB) Close() error {
	return kb.store.Close()
}

// Store returns the underlying store for direct access (testing, admin).
func (kb *KB) Store() *store.Store {
	return kb.store
}

// Load populates the database from the configured knowledge directory.
func (kb *KB) Load(ctx context.Context) (*loader.LoadStats, error) {
	stats, err := kb.loader.LoadAllFromDirectory(ctx, kb.config.KnowledgeDir)
	if err != nil {
		return nil, err
	}
	kb.logger.Info("knowledge loaded", "dir", kb.config.KnowledgeDir, "stats", stats.String())
	return stats, nil
}

// SearchConcepts runs a ranked full-text search over concepts.
func (kb *KB) SearchConcepts(ctx context.Context, query string, limit int) ([]store.Concept, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = kb.config.Search.Limit
	}
	return kb.store.SearchConcepts(ctx, query, limit)
}

// GetConcept fetches one concept by id.
func (kb *KB) GetConcept(ctx context.Context, id string) (*store.Concept, error) {
	return kb.store.GetConcept(ctx, id)
}

// ConceptsByTopic returns all concepts filed under an exact topic.
func (kb *KB) ConceptsByTopic(ctx context.Context, topic string) ([]store.Concept, error) {
	return kb.store.ConceptsByTopic(ctx, topic)
}

// FindPatterns runs a ranked full-text search over patterns.
func (kb *KB) FindPatterns(ctx context.Context, useCase string, limit int) ([]store.Pattern, error) {
	if strings.TrimSpace(useCase) == "" {
		return nil, fmt.Errorf("%w: empty use case", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = kb.config.Search.Limit
	}
	return kb.store.SearchPatterns(ctx, useCase, limit)
}

// GetPattern fetches one pattern by id.
func (kb *KB) GetPattern(ctx context.Context, id string) (*store.Pattern, error) {
	return kb.store.GetPattern(ctx, id)
}

// ExplainError fetches the card for a compiler error code.
func (kb *KB) ExplainError(ctx context.Context, code string) (*store.CompilerError, error) {
	return kb.store.GetCompilerError(ctx, code)
}

// SearchCommands finds commands of one tool matching a keyword.
func (kb *KB) SearchCommands(ctx context.Context, tool, keyword string) ([]store.Command, error) {
	return kb.store.SearchCommands(ctx, tool, keyword)
}

// ToolCommands returns every stored command of one tool.
func (kb *KB) ToolCommands(ctx context.Context, tool string) ([]store.Command, error) {
	return kb.store.ToolCommands(ctx, tool)
}

// SearchAll runs the combined search: the top concepts and patterns for
// the query, each capped by the combined limit. Commands are keyword
// rather than full-text indexed and stay out of the combined search.
// When search logging is on, the query and its result count are
// recorded; a logging failure does not fail the search.
func (kb *KB) SearchAll(ctx context.Context, query string) (*Results, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidInput)
	}
	limit := kb.config.Search.CombinedLimit

	concepts, err := kb.store.SearchConcepts(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	patterns, err := kb.store.SearchPatterns(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	res := &Results{
		Concepts: concepts,
		Patterns: patterns,
		Commands: []store.Command{},
	}

	if *kb.config.Search.LogSearches {
		if err := kb.store.LogSearch(ctx, query, res.Total()); err != nil {
			kb.logger.Warn("search log write failed", "query", query, "error", err)
		}
	}
	return res, nil
}

// RecentSearches returns the newest search-log entries.
func (kb *KB) RecentSearches(ctx context.Context, limit int) ([]store.SearchLogEntry, error) {
	return kb.store.RecentSearches(ctx, limit)
}

// Stats counts stored records per kind.
func (kb *KB) Stats(ctx context.Context) (*store.Stats, error) {
	return kb.store.Stats(ctx)
}
