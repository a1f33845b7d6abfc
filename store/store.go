// Package store supplies training positions. The orchestrator only depends
// on the Store interface; the built-in in-memory curriculum is the default
// and a SQLite-backed store is available for larger position sets.
package store

import "errors"

// Position is one training position as stored. The FEN is re-validated by
// the rules collaborator before it enters a session.
type Position struct {
	ID       int64
	FEN      string
	Category string
	Title    string
}

var (
	// ErrNoPositions means the store has nothing for the requested
	// category.
	ErrNoPositions = errors.New("store: no positions for category")

	// ErrNotFound means the requested position ID does not exist.
	ErrNotFound = errors.New("store: position not found")
)

// Store hands out training positions. Implementations must be safe for
// concurrent use.
type Store interface {
	// RandomPosition returns a random position, restricted to category
	// when it is non-empty.
	RandomPosition(category string) (Position, error)

	// PositionByID returns the position with the given ID.
	PositionByID(id int64) (Position, error)

	// Categories lists the distinct categories available.
	Categories() ([]string, error)
}
