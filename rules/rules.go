// Package rules is the narrow seam to the chess rules library. The
// evaluation core never mutates board state itself; everything goes through
// the Engine interface so tests can substitute a stub and the core carries
// no opinion about castling, en passant, or mate detection.
package rules

import "errors"

// Color is the side to move.
type Color int8

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// GameStatus is the collaborator's verdict on whether play continues.
type GameStatus int

const (
	Playing GameStatus = iota
	Checkmate
	Stalemate
	DrawnGame
)

func (s GameStatus) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawnGame:
		return "draw"
	}
	return "playing"
}

// Position is a validated board state, passed by value into the core. FEN is
// the canonical key used everywhere downstream.
type Position struct {
	FEN        string
	SideToMove Color
}

var (
	// ErrIllegalMove is returned for a move the rules reject in the given
	// position. Always raised before any network activity.
	ErrIllegalMove = errors.New("rules: illegal move")

	// ErrInvalidFEN is returned for a FEN string the rules library cannot
	// parse.
	ErrInvalidFEN = errors.New("rules: invalid FEN")
)

// Engine is everything the evaluation core needs from a chess rules
// implementation. Moves are passed as strings in UCI or SAN notation.
type Engine interface {
	// IsLegal reports whether move is legal in pos.
	IsLegal(pos Position, move string) bool

	// ApplyMove plays move on pos and returns the resulting position.
	// Returns ErrIllegalMove (wrapped) if the move is not legal.
	ApplyMove(pos Position, move string) (Position, error)

	// LegalMoves enumerates every legal move in pos, in UCI notation.
	LegalMoves(pos Position) ([]string, error)

	// GameOverState reports whether pos ends the game.
	GameOverState(pos Position) (GameStatus, error)
}
