package eval

import (
	"context"
	"math/rand"

	"github.com/herohde/eloi/pkg/board"
)

// Random adds a small amount of noise to break ties between otherwise equally-scored
// moves. limit bounds the noise magnitude in centipawns: the noise is drawn uniformly
// from [-limit/2; limit-limit/2-1], e.g. -5..4 for limit 10. The zero value always
// returns zero.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Evaluate(ctx context.Context, pos *board.Position, turn board.Color) board.Score {
	if n.limit <= 0 {
		return 0
	}
	return board.Score(n.rand.Intn(n.limit) - n.limit/2)
}

// Randomize wraps an evaluator with noise, so two engines with the same evaluation do
// not shadow each other move for move.
func Randomize(base Evaluator, limit int, seed int64) Evaluator {
	if limit <= 0 {
		return base
	}
	return perturbed{base: base, noise: NewRandom(limit, seed)}
}

type perturbed struct {
	base  Evaluator
	noise Random
}

func (p perturbed) Evaluate(ctx context.Context, pos *board.Position, turn board.Color) board.Score {
	return p.base.Evaluate(ctx, pos, turn) + p.noise.Evaluate(ctx, pos, turn)
}
