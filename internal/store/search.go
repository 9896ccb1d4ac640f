package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	// DefaultSearchLimit caps FTS result sets when the caller passes
	// limit <= 0.
	DefaultSearchLimit = 10

	// commandSearchLimit caps keyword command searches.
	commandSearchLimit = 20
)

// SearchConcepts runs a full-text match over concept topic, title,
// explanation and tags, best match first. The query uses FTS5 syntax;
// multiple words match documents containing all of them, and reserved
// punctuation (quotes, hyphens inside a token) surfaces as a query
// syntax error from the driver.
func (s *Store) SearchConcepts(ctx context.Context, query string, limit int) ([]Concept, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT c.id, c.topic, c.title, c.explanation, c.code_examples,
		       c.common_mistakes, c.related_concepts, c.tags
		FROM concepts_fts
		JOIN concepts c ON c.rowid = concepts_fts.rowid
		WHERE concepts_fts MATCH ?
		ORDER BY concepts_fts.rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search concepts %q: %w", query, err)
	}
	defer rows.Close()

	var out []Concept
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// ConceptsByTopic returns every concept filed under an exact topic string,
// alphabetical by title. Topic matching is case-sensitive.
func (s *Store) ConceptsByTopic(ctx context.Context, topic string) ([]Concept, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, topic, title, explanation, code_examples,
		       common_mistakes, related_concepts, tags
		FROM concepts WHERE topic = ? ORDER BY title`, topic)
	if err != nil {
		return nil, fmt.Errorf("concepts by topic %q: %w", topic, err)
	}
	defer rows.Close()

	var out []Concept
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// SearchPatterns runs a full-text match over pattern name, description
// and usage guidance, best match first. The query uses FTS5 syntax, with
// the same punctuation caveat as SearchConcepts.
func (s *Store) SearchPatterns(ctx context.Context, query string, limit int) ([]Pattern, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, p.template,
		       p.when_to_use, p.when_not_to_use, p.examples
		FROM patterns_fts
		JOIN patterns p ON p.rowid = patterns_fts.rowid
		WHERE patterns_fts MATCH ?
		ORDER BY patterns_fts.rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search patterns %q: %w", query, err)
	}
	defer rows.Close()

	var out []Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// SearchCommands finds commands of one tool whose command line or
// description contains the keyword, case-insensitively for ASCII.
func (s *Store) SearchCommands(ctx context.Context, tool, keyword string) ([]Command, error) {
	needle := "%" + keyword + "%"
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, tool, command, description, flags, examples
		FROM commands
		WHERE tool = ? AND (command LIKE ? OR description LIKE ?)
		LIMIT ?`, tool, needle, needle, commandSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search commands %q/%q: %w", tool, keyword, err)
	}
	defer rows.Close()

	return collectCommands(rows)
}

// ToolCommands returns every command row stored for a tool in insertion
// order.
func (s *Store) ToolCommands(ctx context.Context, tool string) ([]Command, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, tool, command, description, flags, examples
		FROM commands WHERE tool = ? ORDER BY id`, tool)
	if err != nil {
		return nil, fmt.Errorf("tool commands %q: %w", tool, err)
	}
	defer rows.Close()

	return collectCommands(rows)
}

func collectCommands(rows *sql.Rows) ([]Command, error) {
	var out []Command
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
