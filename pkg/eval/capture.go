package eval

import (
	"sort"

	"github.com/herohde/eloi/pkg/board"
)

// FindCapture returns the pieces of the given color that directly target the square,
// used for static-exchange-style reasoning (what would recapture here, and with what).
func FindCapture(pos *board.Position, side board.Color, sq board.Square) []board.Placement {
	var ret []board.Placement

	occ := pos.Occupied()
	for _, piece := range []board.Piece{board.King, board.Queen, board.Rook, board.Knight, board.Bishop} {
		bb := board.Attacks(piece, sq, occ) & pos.Pieces(side, piece)
		for bb != 0 {
			var from board.Square
			from, bb = bb.Pop()
			ret = append(ret, board.Placement{Piece: piece, Color: side, Square: from})
		}
	}

	bb := board.PawnCaptureboard(side.Opponent() /* reverse direction */, board.BitMask(sq)) & pos.Pieces(side, board.Pawn)
	for bb != 0 {
		var from board.Square
		from, bb = bb.Pop()
		ret = append(ret, board.Placement{Piece: board.Pawn, Color: side, Square: from})
	}

	return ret
}

// SortByNominalValue orders the placement list by nominal material value, low to high.
func SortByNominalValue(pieces []board.Placement) []board.Placement {
	sort.SliceStable(pieces, func(i, j int) bool {
		return NominalValue(pieces[i].Piece) < NominalValue(pieces[j].Piece)
	})
	return pieces
}

// IsLosingCapture reports whether the capture trades down on its face: the attacker is
// worth more than the victim and the destination is defended by a piece cheap enough
// to recapture profitably. X-rays and pinned defenders are not modeled, so this is a
// pruning heuristic, not an exact exchange evaluation.
func IsLosingCapture(pos *board.Position, turn board.Color, m board.Move) bool {
	if NominalValue(m.Capture) >= NominalValue(m.Piece) {
		return false // trading even or up: a recapture cannot win material back
	}

	defenders := SortByNominalValue(FindCapture(pos, turn.Opponent(), m.To))
	return len(defenders) > 0 && NominalValue(defenders[0].Piece) < NominalValue(m.Piece)
}
