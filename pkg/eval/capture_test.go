package eval_test

import (
	"testing"

	"github.com/herohde/eloi/pkg/board"
	"github.com/herohde/eloi/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCaptureFindsAttackersOfSquare(t *testing.T) {
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.A1, Color: board.White, Piece: board.Rook},
		{Square: board.D1, Color: board.White, Piece: board.Bishop},
	}, 0, board.ZeroSquare)
	require.NoError(t, err)

	// The king on e1 is adjacent to d1 and is listed first; the rook on a1 follows.
	attackers := eval.FindCapture(pos, board.White, board.D1)
	require.Len(t, attackers, 2)
	assert.Equal(t, board.A1, attackers[1].Square)
	assert.Equal(t, board.Rook, attackers[1].Piece)
}

func TestSortByNominalValueOrdersLowToHigh(t *testing.T) {
	pieces := []board.Placement{
		{Piece: board.Queen, Color: board.White, Square: board.D1},
		{Piece: board.Pawn, Color: board.White, Square: board.D2},
		{Piece: board.Rook, Color: board.White, Square: board.A1},
	}
	sorted := eval.SortByNominalValue(pieces)
	assert.Equal(t, board.Pawn, sorted[0].Piece)
	assert.Equal(t, board.Rook, sorted[1].Piece)
	assert.Equal(t, board.Queen, sorted[2].Piece)
}

func TestIsLosingCapture(t *testing.T) {
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.D4, Color: board.White, Piece: board.Queen},
		{Square: board.A5, Color: board.White, Piece: board.Rook},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.D5, Color: board.Black, Piece: board.Pawn},
		{Square: board.C6, Color: board.Black, Piece: board.Pawn},
		{Square: board.A7, Color: board.Black, Piece: board.Rook},
	}, 0, board.ZeroSquare)
	require.NoError(t, err)

	qxp := board.Move{Type: board.Capture, From: board.D4, To: board.D5, Piece: board.Queen, Capture: board.Pawn}
	assert.True(t, eval.IsLosingCapture(pos, board.White, qxp), "queen takes a pawn defended by a pawn")

	rxr := board.Move{Type: board.Capture, From: board.A5, To: board.A7, Piece: board.Rook, Capture: board.Rook}
	assert.False(t, eval.IsLosingCapture(pos, board.White, rxr), "an even trade never loses on its face")
}

func TestIsLosingCaptureUndefendedVictim(t *testing.T) {
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.D4, Color: board.White, Piece: board.Queen},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.D5, Color: board.Black, Piece: board.Pawn},
	}, 0, board.ZeroSquare)
	require.NoError(t, err)

	qxp := board.Move{Type: board.Capture, From: board.D4, To: board.D5, Piece: board.Queen, Capture: board.Pawn}
	assert.False(t, eval.IsLosingCapture(pos, board.White, qxp))
}

func TestIsLosingCaptureExpensiveDefender(t *testing.T) {
	// The knight is "defended" only by the king, which is too valuable to count as a
	// profitable recapture against a queen.
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.D4, Color: board.White, Piece: board.Queen},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.D7, Color: board.Black, Piece: board.Knight},
	}, 0, board.ZeroSquare)
	require.NoError(t, err)

	qxn := board.Move{Type: board.Capture, From: board.D4, To: board.D7, Piece: board.Queen, Capture: board.Knight}
	assert.False(t, eval.IsLosingCapture(pos, board.White, qxn))
}
