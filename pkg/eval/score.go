package eval

import "github.com/herohde/eloi/pkg/board"

// Search and evaluation share board.Score (centipawns, signed, positive favors the side to move) so
// a move's Score field, a transposition-table entry and an evaluation result are all the
// same 16-bit unit with no conversion at the boundary.

// Infinity is the greatest score the search reports for a non-mate position. Mate scores
// occupy the range just below it: a forced mate in n plies is Infinity-n.
const Infinity board.Score = 10000

// Draw is the score of a known draw.
const Draw board.Score = 0

// MatesIn returns the score for delivering checkmate in n plies.
func MatesIn(n int) board.Score {
	return Infinity - board.Score(n)
}

// MatedIn returns the score for being checkmated in n plies.
func MatedIn(n int) board.Score {
	return -Infinity + board.Score(n)
}

// IsMate returns true iff s encodes a forced mate, for or against the side to move.
func IsMate(s board.Score) bool {
	return s >= MatesIn(maxMateDistance) || s <= MatedIn(maxMateDistance)
}

// maxMateDistance bounds how many plies deep a reported mate score can encode; generous
// enough for any search depth the engine will reach.
const maxMateDistance = 1000
