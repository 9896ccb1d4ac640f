package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UpsertCompilerError inserts an error card or updates the row with the
// same error code.
func (s *Store) UpsertCompilerError(ctx context.Context, e *CompilerError) error {
	strategies, err := encodeBlob(e.FixStrategies)
	if err != nil {
		return fmt.Errorf("error %q: %w", e.ErrorCode, err)
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO errors
		    (error_code, title, explanation, example_bad, example_good, fix_strategies)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(error_code) DO UPDATE SET
		    title=excluded.title, explanation=excluded.explanation,
		    example_bad=excluded.example_bad, example_good=excluded.example_good,
		    fix_strategies=excluded.fix_strategies`,
		e.ErrorCode, e.Title, e.Explanation, e.ExampleBad, e.ExampleGood, strategies)
	if err != nil {
		return fmt.Errorf("upsert error %q: %w", e.ErrorCode, err)
	}
	return nil
}

// GetCompilerError fetches one error card by its compiler error code.
// Absent is (nil, nil), not an error.
func (s *Store) GetCompilerError(ctx context.Context, code string) (*CompilerError, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT error_code, title, explanation, example_bad, example_good, fix_strategies
		FROM errors WHERE error_code = ?`, code)

	var e CompilerError
	var strategies string
	err := row.Scan(&e.ErrorCode, &e.Title, &e.Explanation, &e.ExampleBad, &e.ExampleGood, &strategies)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan error %q: %w", code, err)
	}
	if err := decodeBlob(strategies, "error "+e.ErrorCode+" fix_strategies", &e.FixStrategies); err != nil {
		return nil, err
	}
	return &e, nil
}

// CountCompilerErrors returns the number of stored error cards.
func (s *Store) CountCompilerErrors(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM errors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count errors: %w", err)
	}
	return n, nil
}
