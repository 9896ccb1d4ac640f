// Package store persists the tutoring knowledge base in SQLite.
//
// Four record kinds live here: concepts, patterns, errors and commands.
// Concepts and patterns are full-text indexed through FTS5 shadow tables;
// errors are keyed by compiler error code; commands are keyword-matched.
// Nested lists are stored as JSON text columns and decoded on read.
package store

import (
	"database/sql"

	"github.com/hazyhaar/tutorkb/dbopen"
)

// Store wraps the single shared SQLite handle.
//
// dbopen caps the pool at one connection, so all reads and writes are
// serialised. A primary-table write and its trigger-driven index update
// happen in the same statement and can never be observed apart.
type Store struct {
	DB *sql.DB
}

// Open opens (creating if needed) the knowledge database at path.
func Open(path string, opts ...dbopen.Option) (*Store, error) {
	opts = append(opts, dbopen.WithSchema(Schema), dbopen.WithMkdirAll())
	db, err := dbopen.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// Close releases the underlying handle.
func (s *Store) Close() error {
	return s.DB.Close()
}
