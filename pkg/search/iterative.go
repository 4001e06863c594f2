package search

import (
	"context"
	"sync"
	"time"

	"github.com/herohde/eloi/pkg/board"
	"github.com/herohde/eloi/pkg/board/game"
	"github.com/herohde/eloi/pkg/eval"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Iterative is the root search driver: it runs full-width negamax at depth 1, 2, 3, ...
// against g, publishing a PV snapshot after each completed iteration, until a stop
// condition (depth cap, forced mate, a single legal reply, cancellation or the time
// budget) fires.
type Iterative struct {
	Eval eval.Evaluator
}

func (it Iterative) Launch(ctx context.Context, g *game.Game, tt TranspositionTable, opt Options) (Handle, <-chan PV) {
	out := make(chan PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	if tc, ok := opt.TimeControl.V(); ok {
		h.Rebudget(tc)
	}
	go h.process(ctx, it.Eval, g, tt, opt, out)
	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	soft      time.Time // zero if no soft deadline
	budgetGen int       // invalidates hard-deadline timers from superseded budgets
	pv        PV
	mu        sync.Mutex
}

func (h *handle) process(ctx context.Context, evaluator eval.Evaluator, g *game.Game, tt TranspositionTable, opt Options, out chan PV) {
	defer h.init.Close()
	defer close(out)

	tt.NewGeneration()

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	legal := 0
	for _, m := range board.PseudoLegalMoves(g.Position(), g.Turn()) {
		if g.PushMove(m) {
			legal++
			g.PopMove()
		}
	}

	depth := 1
	for !h.quit.IsClosed() {
		start := time.Now()

		r := &run{eval: evaluator, tt: tt, ponder: append([]board.Move(nil), opt.Ponder...)}
		score, moves := r.search(wctx, g, 0, depth, -eval.Infinity, eval.Infinity)
		if isCancelled(wctx) {
			return // Halt was called, or the parent context was cancelled.
		}

		took := time.Since(start)
		pv := PV{
			Depth: depth,
			Moves: moves,
			Score: score,
			Nodes: r.nodes,
			Time:  took,
			Hash:  tt.Used(),
		}

		logw.Debugf(ctx, "Searched %v: %v", g.Position(), pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()

		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return // halt: reached the configured depth cap
		}
		if eval.IsMate(score) {
			return // halt: forced mate found by a full-width search, no need to go deeper
		}
		if legal <= 1 && depth >= 2 {
			return // halt: only one legal reply, depth adds nothing
		}
		if soft := h.softDeadline(); !soft.IsZero() && time.Now().Add(took).After(soft) {
			return // halt: the next iteration costs at least as much as the last and cannot finish in time
		}
		depth++
	}
}

func (h *handle) Halt() PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}

// Rebudget arms a timer that halts the search once the hard deadline implied by tc
// elapses, and records the soft deadline the iteration loop respects itself. An
// iteration already past the soft deadline keeps running until the hard deadline, so a
// first-move result is not discarded just for arriving late. Any previously armed
// budget is superseded.
func (h *handle) Rebudget(tc TimeControl) {
	soft, hard := tc.Limits()

	h.mu.Lock()
	h.budgetGen++
	gen := h.budgetGen
	if hard <= 0 {
		h.soft = time.Time{} // Infinite: no deadline to enforce
		h.mu.Unlock()
		return
	}
	h.soft = time.Now().Add(soft)
	h.mu.Unlock()

	time.AfterFunc(hard, func() {
		h.mu.Lock()
		stale := h.budgetGen != gen
		h.mu.Unlock()
		if !stale {
			h.Halt()
		}
	})
}

func (h *handle) softDeadline() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.soft
}
