package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UpsertPattern inserts a pattern or updates the row with the same id.
func (s *Store) UpsertPattern(ctx context.Context, p *Pattern) error {
	examples, err := encodeBlob(p.Examples)
	if err != nil {
		return fmt.Errorf("pattern %q: %w", p.ID, err)
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO patterns
		    (id, name, description, template, when_to_use, when_not_to_use, examples)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		    name=excluded.name, description=excluded.description, template=excluded.template,
		    when_to_use=excluded.when_to_use, when_not_to_use=excluded.when_not_to_use,
		    examples=excluded.examples`,
		p.ID, p.Name, p.Description, p.Template, p.WhenToUse, p.WhenNotToUse, examples)
	if err != nil {
		return fmt.Errorf("upsert pattern %q: %w", p.ID, err)
	}
	return nil
}

// GetPattern fetches one pattern by id. Absent is (nil, nil), not an
// error.
func (s *Store) GetPattern(ctx context.Context, id string) (*Pattern, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, name, description, template, when_to_use, when_not_to_use, examples
		FROM patterns WHERE id = ?`, id)
	p, err := scanPattern(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// DeletePattern removes a pattern; deleting an absent id is a no-op.
func (s *Store) DeletePattern(ctx context.Context, id string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM patterns WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete pattern %q: %w", id, err)
	}
	return nil
}

// CountPatterns returns the number of stored patterns.
func (s *Store) CountPatterns(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM patterns`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count patterns: %w", err)
	}
	return n, nil
}

func scanPattern(row rowScanner) (*Pattern, error) {
	var p Pattern
	var examples string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Template, &p.WhenToUse, &p.WhenNotToUse, &examples); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan pattern: %w", err)
	}
	if err := decodeBlob(examples, "pattern "+p.ID+" examples", &p.Examples); err != nil {
		return nil, err
	}
	return &p, nil
}
