package store

import (
	"sort"
	"sync"

	"github.com/samber/lo"
	"lukechampine.com/frand"
)

// MemoryStore is a fixed, in-process position set.
type MemoryStore struct {
	mu        sync.RWMutex
	positions []Position
}

// NewMemoryStore creates a store over the given positions, assigning
// sequential IDs starting at 1.
func NewMemoryStore(positions ...Position) *MemoryStore {
	for i := range positions {
		positions[i].ID = int64(i + 1)
	}
	return &MemoryStore{positions: positions}
}

// NewSeededStore returns the built-in endgame curriculum.
func NewSeededStore() *MemoryStore {
	return NewMemoryStore(
		Position{FEN: "4k3/8/4K3/4P3/8/8/8/8 w - - 0 1", Category: "pawn", Title: "King and pawn vs king, opposition"},
		Position{FEN: "8/8/8/4k3/8/4K3/4P3/8 w - - 0 1", Category: "pawn", Title: "King and pawn vs king, pawn behind"},
		Position{FEN: "8/3k4/8/3K4/3P4/8/8/8 w - - 0 1", Category: "pawn", Title: "King and pawn vs king, d-file"},
		Position{FEN: "8/8/8/8/8/4k3/8/r3K3 w - - 0 1", Category: "rook", Title: "Rook vs king, defend the cut-off"},
		Position{FEN: "4k3/8/4K3/8/8/8/8/4R3 w - - 0 1", Category: "rook", Title: "Rook mate, box method"},
		Position{FEN: "4k3/8/4K3/8/8/8/8/3Q4 w - - 0 1", Category: "queen", Title: "Queen mate, drive to the edge"},
		Position{FEN: "8/8/8/3k4/8/3K4/8/3Q4 w - - 0 1", Category: "queen", Title: "Queen mate, centralized king"},
		Position{FEN: "8/8/4k3/8/8/4K3/8/2B1B3 w - - 0 1", Category: "minor", Title: "Two bishops vs king"},
	)
}

func (s *MemoryStore) RandomPosition(category string) (Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool := s.positions
	if category != "" {
		pool = lo.Filter(s.positions, func(p Position, _ int) bool {
			return p.Category == category
		})
	}
	if len(pool) == 0 {
		return Position{}, ErrNoPositions
	}
	return pool[frand.Intn(len(pool))], nil
}

func (s *MemoryStore) PositionByID(id int64) (Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.positions {
		if p.ID == id {
			return p, nil
		}
	}
	return Position{}, ErrNotFound
}

func (s *MemoryStore) Categories() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cats := lo.Uniq(lo.Map(s.positions, func(p Position, _ int) string {
		return p.Category
	}))
	sort.Strings(cats)
	return cats, nil
}
