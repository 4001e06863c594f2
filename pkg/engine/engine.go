// Package engine drives the search on behalf of a surrounding protocol layer: it owns
// the current game, the transposition table and at most one in-flight search, and it
// implements the time-budgeting and pondering state machine the protocol's semantic
// messages operate on. The concrete wire syntax is the caller's concern.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/herohde/eloi/pkg/board"
	"github.com/herohde/eloi/pkg/board/fen"
	"github.com/herohde/eloi/pkg/board/game"
	"github.com/herohde/eloi/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are engine creation options.
type Options struct {
	// Depth is the search depth limit. If zero, there is no limit. Overridden by search
	// options if provided.
	Depth uint
	// Hash is the transposition table size in MB. If zero, the engine will not use
	// a transposition table.
	Hash uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v}", o.Depth, o.Hash)
}

// Engine encapsulates game-playing logic, search and evaluation. It is in one of three
// states: idle, searching for the side to move, or pondering a speculative opponent
// move on the opponent's time.
type Engine struct {
	name, author string

	launcher search.Launcher
	factory  search.TranspositionTableFactory
	zt       *board.ZobristTable
	seed     int64
	opts     Options

	g  *game.Game
	tt search.TranspositionTable

	active search.Handle
	ponder lang.Optional[board.Move] // speculative move pushed onto g, if pondering
	last   search.PV                 // result of the most recently halted search
	mu     sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithTable configures the engine to use the given transposition table factory.
func WithTable(factory search.TranspositionTableFactory) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithZobrist configures the engine to use the given random seed instead of the
// default seed of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

func New(ctx context.Context, name, author string, launcher search.Launcher, opts ...Option) *Engine {
	e := &Engine{
		name:     name,
		author:   author,
		launcher: launcher,
		factory:  search.NewTranspositionTable,
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed)

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

// SetHash resizes the transposition table to the given size in MB. Only permitted
// while no search is active, since the search owns the table exclusively.
func (e *Engine) SetHash(ctx context.Context, size uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		return fmt.Errorf("cannot resize hash: search active")
	}

	e.opts.Hash = size
	e.tt = search.NoTranspositionTable{}
	if e.opts.Hash > 0 {
		e.tt = e.factory(ctx, uint64(e.opts.Hash)<<20)
	}
	return nil
}

// ClearHash zeroes the transposition table. Only permitted while no search is active.
func (e *Engine) ClearHash(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		return fmt.Errorf("cannot clear hash: search active")
	}

	e.tt.Clear()
	return nil
}

// Game returns a forked game.
func (e *Engine) Game() *game.Game {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.g.Fork()
}

// Position returns the current position in FEN format. Convenience function.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.g.Position(), e.g.Turn(), e.g.NoProgress(), e.g.FullMoves())
}

func (e *Engine) hasActiveSearch() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.active != nil
}

// IsPondering returns true iff the engine is thinking on the opponent's time.
func (e *Engine) IsPondering() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.ponder.V()
	return ok
}

// Reset resets the engine to a new starting position in FEN format.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, TT=%vMB", position, e.opts.Depth, e.opts.Hash)

	_, _ = e.haltSearchIfActive(ctx)

	pos, turn, noprogress, fullmoves, err := fen.Decode(position)
	if err != nil {
		return err
	}
	e.g = game.New(e.zt, pos, turn, noprogress, fullmoves)
	e.last = search.PV{}

	e.tt = search.NoTranspositionTable{}
	if e.opts.Hash > 0 {
		e.tt = e.factory(ctx, uint64(e.opts.Hash)<<20)
	}

	logw.Infof(ctx, "New game: %v", e.g)
	return nil
}

// Move selects the given move, usually an opponent move. If the engine is pondering on
// exactly this move, the move has already been played speculatively and the pondering
// search keeps running: Move reports hit=true and the caller converts it to a live
// search with Rebudget. On a ponder miss, the speculative result is discarded, the
// pondered move retracted, and the given move played instead.
func (e *Engine) Move(ctx context.Context, move string) (hit bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return false, fmt.Errorf("invalid move: %w", err)
	}

	if m, ok := e.ponder.V(); ok {
		if m.Equals(candidate) {
			logw.Infof(ctx, "Ponder hit: %v", m)

			e.ponder = lang.Optional[board.Move]{}
			return true, nil
		}
		logw.Infof(ctx, "Ponder miss: expected %v, got %v", m, candidate)
	}
	_, _ = e.haltSearchIfActive(ctx)

	if err := e.pushMove(ctx, candidate); err != nil {
		return false, err
	}
	return false, nil
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _ = e.haltSearchIfActive(ctx)

	m, ok := e.g.PopMove()
	if !ok {
		return fmt.Errorf("no move to take back")
	}

	logw.Infof(ctx, "Takeback %v", m)
	return nil
}

// Analyze searches the current position for the side to move.
func (e *Engine) Analyze(ctx context.Context, opt search.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.g, opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	handle, out := e.launcher.Launch(ctx, e.g.Fork(), e.tt, opt)
	e.active = handle
	return out, nil
}

// Ponder speculatively plays the given opponent move and searches the resulting
// position with no deadline. Time budgeting is frozen until Move observes the same
// move played for real and Rebudget converts the search to a live one; until then any
// result is provisional and a ponder miss discards it.
func (e *Engine) Ponder(ctx context.Context, move string) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Ponder %v", move)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	candidate, err := board.ParseMove(move)
	if err != nil {
		return nil, fmt.Errorf("invalid move: %w", err)
	}
	if err := e.pushMove(ctx, candidate); err != nil {
		return nil, err
	}
	m, _ := e.g.LastMove()

	opt := search.Options{
		TimeControl: lang.Some(search.TimeControl{Kind: search.Infinite}),
	}
	if e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}
	if len(e.last.Moves) >= 2 && e.last.Moves[1].Equals(m) {
		opt.Ponder = e.last.Moves[2:] // bias ordering with the anticipated continuation
	}

	handle, out := e.launcher.Launch(ctx, e.g.Fork(), e.tt, opt)
	e.active = handle
	e.ponder = lang.Some(m)
	return out, nil
}

// Rebudget replaces the time budget of the active search, typically converting a
// deadline-free pondering search into one bounded by the mover's clock.
func (e *Engine) Rebudget(ctx context.Context, tc search.TimeControl) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return fmt.Errorf("no active search")
	}

	logw.Infof(ctx, "Rebudget %v", tc)

	e.active.Rebudget(tc)
	return nil
}

// Halt halts the active search and returns the principal variation of its most
// recently completed iteration, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

// Abort halts the active search, if any, and discards its result. If pondering, the
// speculative move is retracted. Idempotent.
func (e *Engine) Abort(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Abort")

	_, _ = e.haltSearchIfActive(ctx)
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active == nil {
		return search.PV{}, false
	}

	pv := e.active.Halt()
	logw.Infof(ctx, "Search %v halted: %v", e.g, pv)

	e.active = nil
	e.last = pv

	if _, ok := e.ponder.V(); ok {
		// The pondered move never happened: retract it along with the result.
		m, _ := e.g.PopMove()
		logw.Infof(ctx, "Ponder retracted: %v", m)

		e.ponder = lang.Optional[board.Move]{}
		e.last = search.PV{}
	}
	return e.last, true
}

// pushMove resolves the coordinate-form candidate against the pseudo-legal moves of
// the current position and plays it. Requires e.mu held.
func (e *Engine) pushMove(ctx context.Context, candidate board.Move) error {
	for _, m := range board.PseudoLegalMoves(e.g.Position(), e.g.Turn()) {
		if !candidate.Equals(m) {
			continue
		}

		// Candidate is at least pseudo-legal.

		if !e.g.PushMove(m) {
			return fmt.Errorf("illegal move: %v", m)
		}

		logw.Infof(ctx, "Move %v: %v", m, e.g)
		return nil
	}
	return fmt.Errorf("invalid move: %v", candidate)
}
