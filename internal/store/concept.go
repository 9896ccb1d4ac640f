package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UpsertConcept inserts a concept or updates the existing row with the
// same id. The conflict clause turns the second write into an UPDATE, so
// the update trigger swaps the old FTS tokens for the new ones.
func (s *Store) UpsertConcept(ctx context.Context, c *Concept) error {
	examples, err := encodeBlob(c.CodeExamples)
	if err != nil {
		return fmt.Errorf("concept %q: %w", c.ID, err)
	}
	mistakes, err := encodeBlob(c.Mistakes)
	if err != nil {
		return fmt.Errorf("concept %q: %w", c.ID, err)
	}
	related, err := encodeBlob(c.Related)
	if err != nil {
		return fmt.Errorf("concept %q: %w", c.ID, err)
	}
	tags, err := encodeBlob(c.Tags)
	if err != nil {
		return fmt.Errorf("concept %q: %w", c.ID, err)
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO concepts
		    (id, topic, title, explanation, code_examples, common_mistakes, related_concepts, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		    topic=excluded.topic, title=excluded.title, explanation=excluded.explanation,
		    code_examples=excluded.code_examples, common_mistakes=excluded.common_mistakes,
		    related_concepts=excluded.related_concepts, tags=excluded.tags`,
		c.ID, c.Topic, c.Title, c.Explanation, examples, mistakes, related, tags)
	if err != nil {
		return fmt.Errorf("upsert concept %q: %w", c.ID, err)
	}
	return nil
}

// GetConcept fetches one concept by id. Absent is (nil, nil), not an
// error.
func (s *Store) GetConcept(ctx context.Context, id string) (*Concept, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, topic, title, explanation, code_examples, common_mistakes, related_concepts, tags
		FROM concepts WHERE id = ?`, id)
	c, err := scanConcept(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// DeleteConcept removes a concept; deleting an absent id is a no-op.
func (s *Store) DeleteConcept(ctx context.Context, id string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM concepts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete concept %q: %w", id, err)
	}
	return nil
}

// CountConcepts returns the number of stored concepts.
func (s *Store) CountConcepts(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM concepts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count concepts: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConcept(row rowScanner) (*Concept, error) {
	var c Concept
	var examples, mistakes, related, tags string
	if err := row.Scan(&c.ID, &c.Topic, &c.Title, &c.Explanation, &examples, &mistakes, &related, &tags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan concept: %w", err)
	}
	if err := decodeBlob(examples, "concept "+c.ID+" code_examples", &c.CodeExamples); err != nil {
		return nil, err
	}
	if err := decodeBlob(mistakes, "concept "+c.ID+" common_mistakes", &c.Mistakes); err != nil {
		return nil, err
	}
	if err := decodeBlob(related, "concept "+c.ID+" related_concepts", &c.Related); err != nil {
		return nil, err
	}
	if err := decodeBlob(tags, "concept "+c.ID+" tags", &c.Tags); err != nil {
		return nil, err
	}
	return &c, nil
}
