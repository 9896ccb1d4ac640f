package store

import (
	"context"
	"fmt"

	"github.com/hazyhaar/tutorkb/idgen"
)

// SearchLogEntry records one combined search and how much it found.
type SearchLogEntry struct {
	ID          string `json:"id"`
	Query       string `json:"query"`
	ResultCount int    `json:"result_count"`
	SearchedAt  string `json:"searched_at"`
}

var searchLogID = idgen.Prefixed("slog_", idgen.Default)

// LogSearch appends a search-log row.
func (s *Store) LogSearch(ctx context.Context, query string, resultCount int) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO search_log (id, query, result_count) VALUES (?, ?, ?)`,
		searchLogID(), query, resultCount)
	if err != nil {
		return fmt.Errorf("log search %q: %w", query, err)
	}
	return nil
}

// RecentSearches returns the newest search-log entries, newest first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]SearchLogEntry, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, query, result_count, searched_at
		FROM search_log ORDER BY searched_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent searches: %w", err)
	}
	defer rows.Close()

	var out []SearchLogEntry
	for rows.Next() {
		var e SearchLogEntry
		if err := rows.Scan(&e.ID, &e.Query, &e.ResultCount, &e.SearchedAt); err != nil {
			return nil, fmt.Errorf("scan search log: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Stats summarises row counts per record kind.
type Stats struct {
	Concepts int `json:"concepts"`
	Patterns int `json:"patterns"`
	Errors   int `json:"errors"`
	Commands int `json:"commands"`
	Searches int `json:"searches"`
}

// Stats counts the rows in every table of the knowledge base.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	var err error
	if st.Concepts, err = s.CountConcepts(ctx); err != nil {
		return nil, err
	}
	if st.Patterns, err = s.CountPatterns(ctx); err != nil {
		return nil, err
	}
	if st.Errors, err = s.CountCompilerErrors(ctx); err != nil {
		return nil, err
	}
	if st.Commands, err = s.CountCommands(ctx); err != nil {
		return nil, err
	}
	if err = s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_log`).Scan(&st.Searches); err != nil {
		return nil, fmt.Errorf("count search log: %w", err)
	}
	return &st, nil
}
