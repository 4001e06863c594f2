package search

import (
	"context"

	"github.com/herohde/eloi/pkg/board"
	"github.com/herohde/eloi/pkg/board/game"
	"github.com/herohde/eloi/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// run carries the mutable state of a single negamax search: the node counter, the
// evaluator and transposition table it consults, and, while pondering, the
// anticipated continuation to bias move ordering with as it is consumed ply by ply.
type run struct {
	eval eval.Evaluator
	tt   TranspositionTable

	ponder []board.Move
	nodes  uint64
}

// isCancelled polls ctx for cancellation. Callers only check this periodically (every
// 1000 nodes), since context.Context.Err is not free and negamax visits many nodes.
func isCancelled(ctx context.Context) bool {
	return contextx.IsCancelled(ctx)
}

// search returns the negamax score of g's current position searched to depth plies,
// and the line that achieves it. alpha and beta are always from the perspective of the
// side to move at this node: search negates and swaps them on recursion, per the
// negamax convention, so the return value always favors whoever is on move here.
func (r *run) search(ctx context.Context, g *game.Game, ply, depth int, alpha, beta board.Score) (board.Score, []board.Move) {
	r.nodes++
	if r.nodes%1000 == 0 && isCancelled(ctx) {
		return alpha, nil
	}

	if ply > 0 && g.Result().Outcome == board.Draw {
		return eval.Draw, nil
	}

	if g.Position().IsChecked(g.Turn()) {
		depth++ // check extension: a position in check is never quiet
	}

	var best board.Move
	if bound, d, score, move, ok := r.tt.Read(g.Hash(), ply); ok {
		best = move
		if d >= depth {
			switch {
			case bound == Exact:
				return score, nil
			case bound == Lower && score >= beta:
				return score, nil
			case bound == Upper && score <= alpha:
				return score, nil
			}
		}
	}
	if len(r.ponder) > 0 {
		best = r.ponder[0]
		r.ponder = r.ponder[1:]
	}

	if depth <= 0 {
		return r.qsearch(ctx, g, alpha, beta), nil
	}

	bound := Upper
	hasLegalMove := false
	var pv []board.Move

	moves := orderMoves(g.Position(), g.Turn(), board.PseudoLegalMoves(g.Position(), g.Turn()), best)
	for {
		m, ok := moves.Next()
		if !ok {
			break
		}
		if !g.PushMove(m) {
			continue
		}
		hasLegalMove = true

		score, line := r.search(ctx, g, ply+1, depth-1, -beta, -alpha)
		score = -score
		g.PopMove()

		if score > alpha {
			alpha = score
			bound = Exact
			best = m
			pv = append([]board.Move{m}, line...)
		}
		if alpha >= beta {
			bound = Lower
			break // beta cutoff
		}
	}

	if !hasLegalMove {
		result := g.AdjudicateNoLegalMoves()
		if result.Reason == board.Checkmate {
			return eval.MatedIn(ply), nil
		}
		return eval.Draw, nil
	}

	r.tt.Write(g.Hash(), ply, depth, bound, alpha, best)
	return alpha, pv
}
