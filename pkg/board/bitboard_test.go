package board_test

import (
	"testing"

	"github.com/herohde/eloi/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestBitboard(t *testing.T) {
	t.Run("popcount", func(t *testing.T) {
		tests := []struct {
			bb       board.Bitboard
			expected int
		}{
			{board.EmptyBitboard, 0},
			{board.BitMask(board.G4), 1},
			{board.BitMask(board.G3) | board.BitMask(board.G4), 2},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.bb.PopCount())
		}
	})

	t.Run("pop", func(t *testing.T) {
		bb := board.BitMask(board.A1) | board.BitMask(board.D4)
		sq, rest := bb.Pop()
		assert.Equal(t, board.A1, sq)
		assert.Equal(t, 1, rest.PopCount())
		sq, rest = rest.Pop()
		assert.Equal(t, board.D4, sq)
		assert.Equal(t, board.EmptyBitboard, rest)
	})

	t.Run("string", func(t *testing.T) {
		tests := []struct {
			bb       board.Bitboard
			expected string
		}{
			{board.EmptyBitboard, "--------/--------/--------/--------/--------/--------/--------/--------"},
			{board.BitMask(board.H1), "--------/--------/--------/--------/--------/--------/--------/-------X"},
			{board.BitMask(board.A8), "X-------/--------/--------/--------/--------/--------/--------/--------"},
			{board.BitMask(board.G3) | board.BitMask(board.G4), "--------/--------/--------/--------/------X-/------X-/--------/--------"},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.bb.String())
		}
	})

	t.Run("file and rank masks", func(t *testing.T) {
		assert.Equal(t, 8, board.BitFile(board.FileA).PopCount())
		assert.Equal(t, 8, board.BitRank(board.Rank1).PopCount())
		assert.True(t, board.BitFile(board.FileA).IsSet(board.A1))
		assert.True(t, board.BitFile(board.FileA).IsSet(board.A8))
		assert.False(t, board.BitFile(board.FileA).IsSet(board.B1))
		assert.True(t, board.BitRank(board.Rank1).IsSet(board.A1))
		assert.True(t, board.BitRank(board.Rank1).IsSet(board.H1))
		assert.False(t, board.BitRank(board.Rank1).IsSet(board.A2))
	})

	t.Run("king attacks", func(t *testing.T) {
		tests := []struct {
			sq       board.Square
			expected []board.Square
		}{
			{board.A1, []board.Square{board.A2, board.B1, board.B2}},
			{board.H8, []board.Square{board.G8, board.G7, board.H7}},
			{board.D4, []board.Square{board.C3, board.C4, board.C5, board.D3, board.D5, board.E3, board.E4, board.E5}},
		}

		for _, tt := range tests {
			assert.Equal(t, len(tt.expected), board.KingAttacks(tt.sq).PopCount())
			for _, sq := range tt.expected {
				assert.True(t, board.KingAttacks(tt.sq).IsSet(sq), "%v should attack %v", tt.sq, sq)
			}
		}
	})

	t.Run("knight attacks", func(t *testing.T) {
		assert.Equal(t, 2, board.KnightAttacks(board.A1).PopCount())
		assert.True(t, board.KnightAttacks(board.A1).IsSet(board.B3))
		assert.True(t, board.KnightAttacks(board.A1).IsSet(board.C2))

		assert.Equal(t, 8, board.KnightAttacks(board.D4).PopCount())
	})

	t.Run("rook attacks on empty board", func(t *testing.T) {
		att := board.RookAttacks(board.A1, board.EmptyBitboard)
		assert.Equal(t, 14, att.PopCount())
		assert.True(t, att.IsSet(board.A8))
		assert.True(t, att.IsSet(board.H1))
		assert.False(t, att.IsSet(board.B2))
	})

	t.Run("rook attacks blocked", func(t *testing.T) {
		occ := board.BitMask(board.A1) | board.BitMask(board.A4) | board.BitMask(board.D1)
		att := board.RookAttacks(board.A1, occ)

		// Blocked (but capturable) at A4 along the file; blocked at D1 along the rank.
		assert.True(t, att.IsSet(board.A2))
		assert.True(t, att.IsSet(board.A3))
		assert.True(t, att.IsSet(board.A4))
		assert.False(t, att.IsSet(board.A5))
		assert.True(t, att.IsSet(board.B1))
		assert.True(t, att.IsSet(board.C1))
		assert.True(t, att.IsSet(board.D1))
		assert.False(t, att.IsSet(board.E1))
	})

	t.Run("bishop attacks on empty board", func(t *testing.T) {
		att := board.BishopAttacks(board.D4, board.EmptyBitboard)
		assert.True(t, att.IsSet(board.A1))
		assert.True(t, att.IsSet(board.G7))
		assert.True(t, att.IsSet(board.A7))
		assert.True(t, att.IsSet(board.G1))
		assert.False(t, att.IsSet(board.D5))
	})

	t.Run("queen attacks is union", func(t *testing.T) {
		occ := board.EmptyBitboard
		rook := board.RookAttacks(board.D4, occ)
		bishop := board.BishopAttacks(board.D4, occ)
		queen := board.QueenAttacks(board.D4, occ)
		assert.Equal(t, rook|bishop, queen)
	})
}
