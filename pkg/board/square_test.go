package board_test

import (
	"testing"

	"github.com/herohde/eloi/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	assert.True(t, board.Rank1.IsValid())
	assert.True(t, board.Rank3.IsValid())
	assert.True(t, board.Rank8.IsValid())
	assert.False(t, board.Rank(8).IsValid())

	assert.Equal(t, "1", board.Rank1.String())
	assert.Equal(t, "7", board.Rank7.String())
	assert.Equal(t, "5", board.Rank(4).String())
}

func TestFile(t *testing.T) {
	assert.True(t, board.FileA.IsValid())
	assert.True(t, board.FileB.IsValid())
	assert.True(t, board.FileH.IsValid())
	assert.False(t, board.File(8).IsValid())

	assert.Equal(t, "a", board.FileA.String())
	assert.Equal(t, "g", board.FileG.String())
	assert.Equal(t, "e", board.File(4).String())
}

func TestSquare(t *testing.T) {
	assert.Equal(t, board.C2, board.NewSquare(board.FileC, board.Rank2))
	assert.Equal(t, board.G5, board.NewSquare(board.FileG, board.Rank5))

	assert.True(t, board.H1.IsValid())
	assert.True(t, board.D4.IsValid())
	assert.True(t, board.A8.IsValid())
	assert.False(t, board.Square(64).IsValid())

	assert.Equal(t, "h1", board.H1.String())
	assert.Equal(t, "a1", board.A1.String())
	assert.Equal(t, "e4", board.E4.String())

	assert.Equal(t, board.FileA, board.A1.File())
	assert.Equal(t, board.Rank1, board.A1.Rank())
	assert.Equal(t, board.FileH, board.H8.File())
	assert.Equal(t, board.Rank8, board.H8.Rank())
}

func TestParseSquareStr(t *testing.T) {
	for _, sq := range []board.Square{board.A1, board.H1, board.A8, board.H8, board.E4, board.D5} {
		parsed, err := board.ParseSquareStr(sq.String())
		require.NoError(t, err)
		assert.Equal(t, sq, parsed)
	}

	_, err := board.ParseSquareStr("i9")
	assert.Error(t, err)
	_, err = board.ParseSquareStr("a")
	assert.Error(t, err)
}

func TestParsePiece(t *testing.T) {
	tests := []struct {
		r rune
		p board.Piece
	}{
		{'p', board.Pawn}, {'P', board.Pawn},
		{'n', board.Knight}, {'N', board.Knight},
		{'b', board.Bishop}, {'B', board.Bishop},
		{'r', board.Rook}, {'R', board.Rook},
		{'q', board.Queen}, {'Q', board.Queen},
		{'k', board.King}, {'K', board.King},
	}
	for _, tt := range tests {
		p, ok := board.ParsePiece(tt.r)
		require.True(t, ok)
		assert.Equal(t, tt.p, p)
	}

	_, ok := board.ParsePiece('x')
	assert.False(t, ok)
}
