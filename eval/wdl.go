// Package eval defines the canonical representation of tablebase verdicts
// and the move-quality classifier built on top of them.
//
// A WDL value is always relative to some side. Evaluation.WDL is relative to
// the side to move in the evaluated position; CandidateMove.WDL is relative
// to the side that plays the move. Keeping the two straight is the entire
// point of this package's API.
package eval

// WDL is a win/draw/loss verdict for a position, relative to a specific
// side. The zero value is Unknown.
type WDL int8

const (
	Unknown WDL = iota
	Win
	Draw
	Loss
)

func (w WDL) String() string {
	switch w {
	case Win:
		return "win"
	case Draw:
		return "draw"
	case Loss:
		return "loss"
	}
	return "unknown"
}

// Negate flips the verdict to the opposite side's perspective. Draw and
// Unknown are their own negations.
func (w WDL) Negate() WDL {
	switch w {
	case Win:
		return Loss
	case Loss:
		return Win
	}
	return w
}
