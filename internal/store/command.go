package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InsertCommand appends a command row and returns its surrogate id.
// There is no content key: inserting the same command twice stores two
// rows, and a reload of the same source doubles them.
func (s *Store) InsertCommand(ctx context.Context, c *Command) (int64, error) {
	flags, err := encodeBlob(c.Flags)
	if err != nil {
		return 0, fmt.Errorf("command %q: %w", c.Command, err)
	}
	examples, err := encodeBlob(c.Examples)
	if err != nil {
		return 0, fmt.Errorf("command %q: %w", c.Command, err)
	}

	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO commands (tool, command, description, flags, examples)
		VALUES (?, ?, ?, ?, ?)`,
		c.Tool, c.Command, c.Description, flags, examples)
	if err != nil {
		return 0, fmt.Errorf("insert command %q: %w", c.Command, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert command %q: %w", c.Command, err)
	}
	c.ID = id
	return id, nil
}

// GetCommand fetches one command by surrogate id. Absent is (nil, nil),
// not an error.
func (s *Store) GetCommand(ctx context.Context, id int64) (*Command, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, tool, command, description, flags, examples
		FROM commands WHERE id = ?`, id)
	c, err := scanCommand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// CountCommands returns the number of stored command rows, duplicates
// included.
func (s *Store) CountCommands(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM commands`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count commands: %w", err)
	}
	return n, nil
}

func scanCommand(row rowScanner) (*Command, error) {
	var c Command
	var flags, examples string
	if err := row.Scan(&c.ID, &c.Tool, &c.Command, &c.Description, &flags, &examples); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan command: %w", err)
	}
	if err := decodeBlob(flags, fmt.Sprintf("command %d flags", c.ID), &c.Flags); err != nil {
		return nil, err
	}
	if err := decodeBlob(examples, fmt.Sprintf("command %d examples", c.ID), &c.Examples); err != nil {
		return nil, err
	}
	return &c, nil
}
