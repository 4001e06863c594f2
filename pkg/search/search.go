// Package search implements iterative-deepening alpha-beta search with quiescence and a
// bounded transposition table, driven by a forked game and a cooperative cancellation
// signal from the engine loop.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/herohde/eloi/pkg/board"
	"github.com/herohde/eloi/pkg/board/game"
	"github.com/seekerror/stdlib/pkg/lang"
)

// ErrHalted indicates the search was halted (stopped or aborted) before completing.
var ErrHalted = errors.New("search halted")

// PV is the principal variation and statistics for a completed (or in-progress)
// iteration of the root driver.
type PV struct {
	Depth int
	Moves []board.Move
	Score board.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // transposition table utilization, [0;1]
}

func (p PV) String() string {
	pv := board.FormatMoves(p.Moves, func(m board.Move) string { return m.String() })
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%v%% pv=%v", p.Depth, p.Score, p.Nodes, p.Time, int(100*p.Hash), pv)
}

// Options hold the per-search parameters the protocol layer may set on each Go command.
type Options struct {
	// DepthLimit, if set, caps the root driver at the given ply depth.
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, bounds the search by wall-clock time (see timectrl.go).
	TimeControl lang.Optional[TimeControl]
	// Ponder, if set, is the anticipated continuation from the root, consumed ply by
	// ply to bias move ordering. The engine seeds it from the tail of the previous
	// principal variation when it starts thinking on the opponent's time.
	Ponder []board.Move
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher starts a new iterative-deepening search.
type Launcher interface {
	// Launch starts searching g (which the caller must not mutate concurrently) and
	// returns a Handle to control it plus a channel of progress snapshots, one sent after
	// each completed iteration. A snapshot not yet received when the next one is ready is
	// replaced by it, so a slow reader sees only the latest. The channel is closed once
	// the search has stopped for good.
	Launch(ctx context.Context, g *game.Game, tt TranspositionTable, opt Options) (Handle, <-chan PV)
}

// Handle lets the engine stop an in-flight search and retrieve its latest result.
type Handle interface {
	// Halt stops the search, if running, and returns the PV of the most recently
	// completed iteration. Idempotent.
	Halt() PV
	// Rebudget replaces the time budget of the running search. The engine uses it on
	// ponder-hit, when a search started on the opponent's time converts to a live
	// search under the mover's clock without losing its accumulated progress.
	Rebudget(tc TimeControl)
}
