package tablebase

import (
	"fmt"
	"sort"

	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/eval"
)

// This file holds the two perspective transforms, and they are deliberately
// two separate functions. The wire reports the top-level category relative
// to the side to move in the queried position, but each move's category
// relative to the side to move in the resulting position. Mixing the two up
// inverts training feedback, so NormalizePosition copies the sign while
// NormalizeMoveForMover flips it, and each is tested on its own.

// NormalizePosition converts a raw response into a canonical Evaluation for
// the position identified by key. The verdict keeps the wire's perspective
// (side to move at key); candidate moves are normalized to the mover's
// perspective and sorted best-first.
func NormalizePosition(raw *RawResponse, key string) (eval.Evaluation, error) {
	if raw == nil {
		return eval.Evaluation{}, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	wdl, err := parseCategory(raw.Category)
	if err != nil {
		return eval.Evaluation{}, err
	}

	moves := make([]eval.CandidateMove, 0, len(raw.Moves))
	for _, rm := range raw.Moves {
		cm, err := NormalizeMoveForMover(rm)
		if err != nil {
			return eval.Evaluation{}, err
		}
		moves = append(moves, cm)
	}
	sortCandidates(moves)

	return eval.Evaluation{
		PositionKey: key,
		WDL:         wdl,
		DTZ:         raw.DTZ,
		DTM:         raw.DTM,
		BestMoves:   moves,
	}, nil
}

// NormalizeMoveForMover converts one raw candidate move into the mover's
// perspective. The wire value is relative to the responder (the side to move
// after the move), so the verdict is negated; DTZ and DTM are distances, not
// perspectives, and pass through unchanged.
func NormalizeMoveForMover(rm RawMove) (eval.CandidateMove, error) {
	if rm.UCI == "" {
		return eval.CandidateMove{}, fmt.Errorf("%w: candidate move without notation", ErrMalformedResponse)
	}
	responderWDL, err := parseCategory(rm.Category)
	if err != nil {
		return eval.CandidateMove{}, err
	}
	return eval.CandidateMove{
		UCI: rm.UCI,
		SAN: rm.SAN,
		WDL: responderWDL.Negate(),
		DTZ: rm.DTZ,
		DTM: rm.DTM,
	}, nil
}

// parseCategory canonicalizes the wire's category strings. Cursed wins and
// blessed losses are nominal results the 50-move rule makes unachievable, so
// they canonicalize to Draw. Anything unrecognized is a malformed response,
// never a silent default.
func parseCategory(category string) (eval.WDL, error) {
	switch category {
	case "win", "maybe-win":
		return eval.Win, nil
	case "loss", "maybe-loss":
		return eval.Loss, nil
	case "draw", "cursed-win", "blessed-loss":
		return eval.Draw, nil
	case "":
		return eval.Unknown, fmt.Errorf("%w: missing category", ErrMalformedResponse)
	}
	return eval.Unknown, fmt.Errorf("%w: unknown category %q", ErrMalformedResponse, category)
}

// sortCandidates orders moves best-first for the mover: wins before draws
// before losses and unknowns. Among wins the shortest DTZ comes first; among
// losses the longest DTZ comes first, preferring to drag out a forced loss.
func sortCandidates(moves []eval.CandidateMove) {
	sort.SliceStable(moves, func(i, j int) bool {
		a, b := moves[i], moves[j]
		if ra, rb := wdlRank(a.WDL), wdlRank(b.WDL); ra != rb {
			return ra < rb
		}
		switch a.WDL {
		case eval.Win:
			return dtzMagnitude(a.DTZ, maxDTZ) < dtzMagnitude(b.DTZ, maxDTZ)
		case eval.Loss:
			return dtzMagnitude(a.DTZ, 0) > dtzMagnitude(b.DTZ, 0)
		}
		return false
	})
}

// maxDTZ pushes wins with no reported distance behind those with one.
const maxDTZ = 1 << 20

func wdlRank(w eval.WDL) int {
	switch w {
	case eval.Win:
		return 0
	case eval.Draw:
		return 1
	case eval.Loss:
		return 2
	}
	return 3
}

func dtzMagnitude(dtz *int, missing int) int {
	if dtz == nil {
		return missing
	}
	if *dtz < 0 {
		return -*dtz
	}
	return *dtz
}
