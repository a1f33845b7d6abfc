package rules

import (
	"fmt"

	"github.com/notnil/chess"
)

// NotnilEngine implements Engine on top of github.com/notnil/chess. It is
// stateless; every call re-derives the board from the position's FEN.
type NotnilEngine struct{}

// NewEngine returns the production rules engine.
func NewEngine() *NotnilEngine {
	return &NotnilEngine{}
}

// PositionFromFEN validates fen and derives the side to move.
func PositionFromFEN(fen string) (Position, error) {
	pos, err := decodeFEN(fen)
	if err != nil {
		return Position{}, err
	}
	side := White
	if pos.Turn() == chess.Black {
		side = Black
	}
	return Position{FEN: pos.String(), SideToMove: side}, nil
}

func (e *NotnilEngine) IsLegal(pos Position, move string) bool {
	cp, err := decodeFEN(pos.FEN)
	if err != nil {
		return false
	}
	_, err = decodeMove(cp, move)
	return err == nil
}

func (e *NotnilEngine) ApplyMove(pos Position, move string) (Position, error) {
	cp, err := decodeFEN(pos.FEN)
	if err != nil {
		return Position{}, err
	}
	m, err := decodeMove(cp, move)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %s in %s", ErrIllegalMove, move, pos.FEN)
	}
	next := cp.Update(m)
	return PositionFromFEN(next.String())
}

func (e *NotnilEngine) LegalMoves(pos Position) ([]string, error) {
	cp, err := decodeFEN(pos.FEN)
	if err != nil {
		return nil, err
	}
	valid := cp.ValidMoves()
	moves := make([]string, len(valid))
	enc := chess.UCINotation{}
	for i, m := range valid {
		moves[i] = enc.Encode(cp, m)
	}
	return moves, nil
}

func (e *NotnilEngine) GameOverState(pos Position) (GameStatus, error) {
	cp, err := decodeFEN(pos.FEN)
	if err != nil {
		return Playing, err
	}
	switch cp.Status() {
	case chess.Checkmate:
		return Checkmate, nil
	case chess.Stalemate:
		return Stalemate, nil
	}
	if insufficientMaterial(cp) {
		return DrawnGame, nil
	}
	return Playing, nil
}

func decodeFEN(fen string) (*chess.Position, error) {
	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(fen)); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFEN, fen, err)
	}
	return pos, nil
}

// decodeMove accepts UCI first, SAN as a fallback. Both notations reject
// moves that are not legal in the position.
func decodeMove(pos *chess.Position, move string) (*chess.Move, error) {
	if m, err := (chess.UCINotation{}).Decode(pos, move); err == nil {
		return m, nil
	}
	return chess.AlgebraicNotation{}.Decode(pos, move)
}

// insufficientMaterial covers the endgame-relevant dead positions: bare
// kings, and king plus a single minor piece against a bare king.
func insufficientMaterial(pos *chess.Position) bool {
	minors := 0
	for _, piece := range pos.Board().SquareMap() {
		switch piece.Type() {
		case chess.King:
		case chess.Bishop, chess.Knight:
			minors++
		default:
			return false
		}
	}
	return minors <= 1
}
