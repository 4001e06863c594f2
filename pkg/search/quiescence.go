package search

import (
	"context"

	"github.com/herohde/eloi/pkg/board"
	"github.com/herohde/eloi/pkg/board/game"
	"github.com/herohde/eloi/pkg/eval"
)

// queenValue bounds the delta-pruning margin: a position down by more than two queens'
// worth of material cannot be rescued by a single capture.
const queenValue = 1000

// qsearch is the tail search consulted at depth 0: it only considers captures and
// promotions, avoiding the horizon effect where a full-width search stops right before
// a material-winning or -losing exchange completes.
func (r *run) qsearch(ctx context.Context, g *game.Game, alpha, beta board.Score) board.Score {
	r.nodes++
	if r.nodes%1000 == 0 && isCancelled(ctx) {
		return alpha
	}

	standPat := r.eval.Evaluate(ctx, g.Position(), g.Turn())
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}
	if standPat+2*queenValue <= alpha {
		return alpha // delta prune: no single capture can raise alpha from here
	}

	for _, m := range board.PromotionsAndCaptures(g.Position(), g.Turn()) {
		if !m.Type.IsPromotion() {
			if standPat+eval.NominalValue(m.Capture) < alpha {
				continue // this capture's best case still can't raise alpha
			}
			if eval.IsLosingCapture(g.Position(), g.Turn(), m) {
				continue // trades down against a cheap recapture
			}
		}

		if !g.PushMove(m) {
			continue
		}
		score := -r.qsearch(ctx, g, -beta, -alpha)
		g.PopMove()

		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
