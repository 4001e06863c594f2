package eval

import "github.com/herohde/eloi/pkg/board"

// Pin represents a pinned piece. A pinned piece cannot attack anything but
// the attacker itself, if the relative value of attacker/target is high enough.
type Pin struct {
	Attacker, Pinned, Target board.Square
}

// FindPins returns all pins targeting the given piece kind for side.
func FindPins(pos *board.Position, side board.Color, piece board.Piece) []Pin {
	var ret []Pin

	occ := pos.Occupied()
	own := pos.All(side)

	bb := pos.Pieces(side, piece)
	for bb != 0 {
		var target board.Square
		target, bb = bb.Pop()

		// (1) Rook/Queen pins

		rooks := board.RookAttacks(target, occ)
		pins := rooks & own
		for pins != 0 {
			var pinned board.Square
			pinned, pins = pins.Pop()

			attackers := pos.Pieces(side.Opponent(), board.Queen) | pos.Pieces(side.Opponent(), board.Rook)

			candidate := (board.RookAttacks(target, occ&^board.BitMask(pinned)) &^ rooks) & attackers
			if candidate != 0 {
				ret = append(ret, Pin{Attacker: candidate.LastPopSquare(), Pinned: pinned, Target: target})
			}
		}

		// (2) Bishop/Queen pins

		bishops := board.BishopAttacks(target, occ)
		pins = bishops & own
		for pins != 0 {
			var pinned board.Square
			pinned, pins = pins.Pop()

			attackers := pos.Pieces(side.Opponent(), board.Queen) | pos.Pieces(side.Opponent(), board.Bishop)

			candidate := (board.BishopAttacks(target, occ&^board.BitMask(pinned)) &^ bishops) & attackers
			if candidate != 0 {
				ret = append(ret, Pin{Attacker: candidate.LastPopSquare(), Pinned: pinned, Target: target})
			}
		}
	}

	return ret
}
