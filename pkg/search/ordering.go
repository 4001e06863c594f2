package search

import (
	"github.com/herohde/eloi/pkg/board"
	"github.com/herohde/eloi/pkg/eval"
)

// pinnedCaptureBonus bumps captures of pieces pinned to the opponent king ahead of
// equally-scored captures: the victim cannot recapture, so the exchange tends to be
// better than its face value.
const pinnedCaptureBonus board.MovePriority = 50

// mvvlva assigns move priority for ordering: a capture or promotion scores its nominal
// material gain minus the nominal value of the moving piece, and every other move scores
// 0. A capture by a piece worth at least as much as its victim (QxQ, QxR, KxP) therefore
// scores 0 or less and is ordered with or after the quiet moves. The move generator already emits promotions-and-captures first and in MVV/LVA
// order (see movegen.go), so this mainly matters once the transposition table's best
// move or quiet moves are interleaved back in.
func mvvlva(m board.Move) board.MovePriority {
	if p := board.MovePriority(eval.NominalValueGain(m)); p > 0 {
		return p - board.MovePriority(eval.NominalValue(m.Piece))
	}
	return 0
}

// orderMoves returns moves as a priority queue: best first, if known, then by mvvlva
// with a bonus for capturing opponent pieces pinned to their king.
func orderMoves(pos *board.Position, turn board.Color, moves []board.Move, best board.Move) *board.MoveList {
	pinned := board.EmptyBitboard
	for _, p := range eval.FindPins(pos, turn.Opponent(), board.King) {
		pinned = pinned.Set(p.Pinned)
	}

	fn := mvvlva
	if pinned != 0 {
		fn = func(m board.Move) board.MovePriority {
			p := mvvlva(m)
			if m.Type.IsCapture() && pinned.IsSet(m.To) {
				p += pinnedCaptureBonus
			}
			return p
		}
	}
	return board.NewMoveList(moves, board.First(best, fn))
}
