package rules

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kpkFEN = "4k3/8/4K3/4P3/8/8/8/8 w - - 0 1"

func TestPositionFromFEN(t *testing.T) {
	is := is.New(t)
	pos, err := PositionFromFEN(kpkFEN)
	is.NoErr(err)
	is.Equal(pos.SideToMove, White)
	is.Equal(pos.FEN, kpkFEN)

	black, err := PositionFromFEN("4k3/8/3K4/4P3/8/8/8/8 b - - 1 1")
	is.NoErr(err)
	is.Equal(black.SideToMove, Black)

	_, err = PositionFromFEN("not a fen")
	is.True(errors.Is(err, ErrInvalidFEN))
}

func TestIsLegal(t *testing.T) {
	e := NewEngine()
	pos, err := PositionFromFEN(kpkFEN)
	require.NoError(t, err)

	assert.True(t, e.IsLegal(pos, "e6d6"), "UCI king move")
	assert.True(t, e.IsLegal(pos, "Kd6"), "SAN king move")
	assert.False(t, e.IsLegal(pos, "e5e6"), "pawn is blocked by its own king")
	assert.False(t, e.IsLegal(pos, "e6e7"), "king walks into opposition")
	assert.False(t, e.IsLegal(pos, "e1e2"), "no piece there")
	assert.False(t, e.IsLegal(pos, "nonsense"))
}

func TestApplyMove(t *testing.T) {
	is := is.New(t)
	e := NewEngine()
	pos, err := PositionFromFEN(kpkFEN)
	is.NoErr(err)

	next, err := e.ApplyMove(pos, "e6d6")
	is.NoErr(err)
	is.Equal(next.SideToMove, Black)
	is.Equal(next.FEN, "4k3/8/3K4/4P3/8/8/8/8 b - - 1 1")

	// The original position value is untouched.
	is.Equal(pos.FEN, kpkFEN)

	_, err = e.ApplyMove(pos, "e6e7")
	is.True(errors.Is(err, ErrIllegalMove))
}

func TestLegalMoves(t *testing.T) {
	is := is.New(t)
	e := NewEngine()
	pos, err := PositionFromFEN(kpkFEN)
	is.NoErr(err)

	moves, err := e.LegalMoves(pos)
	is.NoErr(err)
	// Kd5, Kd6, Kf5, Kf6. The 7th rank is covered by the black king and
	// the pawn is blocked by its own king.
	is.Equal(len(moves), 4)
	found := map[string]bool{}
	for _, m := range moves {
		found[m] = true
	}
	is.True(found["e6d6"])
	is.True(!found["e5e6"])
	is.True(!found["e6e7"])
}

func TestGameOverState(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want GameStatus
	}{
		{"still playing", kpkFEN, Playing},
		{"back-rank queen mate", "1k6/1Q6/1K6/8/8/8/8/8 b - - 0 1", Checkmate},
		{"cornered king stalemate", "k7/2Q5/1K6/8/8/8/8/8 b - - 0 1", Stalemate},
		{"bare kings", "4k3/8/4K3/8/8/8/8/8 w - - 0 1", DrawnGame},
		{"lone knight cannot mate", "4k3/8/4K3/4N3/8/8/8/8 w - - 0 1", DrawnGame},
		{"rook is mating material", "4k3/8/4K3/4R3/8/8/8/8 w - - 0 1", Playing},
	}
	e := NewEngine()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := PositionFromFEN(tc.fen)
			require.NoError(t, err)
			got, err := e.GameOverState(pos)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
