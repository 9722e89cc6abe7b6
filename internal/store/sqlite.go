package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"
)

// Store archives classification runs in SQLite.
type Store struct {
	db    *sql.DB
	loc   *time.Location
	clock clockwork.Clock
}

func New(db *sql.DB, loc *time.Location) *Store {
	return &Store{db: db, loc: loc, clock: clockwork.NewRealClock()}
}

// Open opens (or creates) the SQLite database at path and applies migrations.
func Open(path string, loc *time.Location) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	s := New(db, loc)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// SetClock replaces the clock used for run timestamps. Nil restores the real
// clock.
func (s *Store) SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	s.clock = c
}

func (s *Store) Close() error {
	return s.db.Close()
}
