package eval

// Evaluation is the normalized tablebase verdict for one position. WDL is
// relative to the side to move at PositionKey. Immutable once constructed.
type Evaluation struct {
	// PositionKey is the canonical FEN of the evaluated position.
	PositionKey string

	WDL WDL

	// DTZ is the distance to the next zeroing move (capture or pawn
	// push), nil when the tablebase did not report one.
	DTZ *int

	// DTM is the distance to mate, nil when not available.
	DTM *int

	// BestMoves lists the candidate moves in descending quality order:
	// wins before draws before losses, faster wins first, slower losses
	// first.
	BestMoves []CandidateMove
}

// CandidateMove is one legal move out of an evaluated position. WDL is
// relative to the side playing the move, which is the opposite of the
// perspective the raw tablebase response uses for per-move values.
type CandidateMove struct {
	// UCI is the move in coordinate notation, e.g. "e6d6".
	UCI string

	// SAN is the move in standard algebraic notation, e.g. "Kd6".
	SAN string

	// ResultingKey is the FEN after the move. The tablebase response
	// does not carry it; callers that apply the move fill it in.
	ResultingKey string

	// WDL from the mover's perspective.
	WDL WDL

	// DTZ and DTM are distance metrics, perspective-independent.
	DTZ *int
	DTM *int
}
