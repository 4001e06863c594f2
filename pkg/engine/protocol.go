package engine

import (
	"context"
	"sync"

	"github.com/herohde/eloi/pkg/board"
	"github.com/herohde/eloi/pkg/board/fen"
	"github.com/herohde/eloi/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"go.uber.org/atomic"
)

// Message is a semantic command from the surrounding protocol layer. The concrete wire
// dialect is translated into these values outside the core; the Loop consumes them in
// arrival order.
type Message interface {
	message()
}

// NewGame resets the engine to the starting position and clears per-game state.
type NewGame struct{}

// SetPosition replaces the current game with the given FEN position.
type SetPosition struct {
	FEN string
}

// MakeMove applies a coordinate-form move to the current game. If the engine is
// pondering on exactly this move, the pondering search converts to a live one.
type MakeMove struct {
	Move string
}

// Go begins searching for the side to move under the active time control.
type Go struct{}

// Stop finishes the current iteration and emits the best move found so far.
type Stop struct{}

// MoveNow is Stop under a different name: hosts use it to force an immediate reply.
type MoveNow struct{}

// Abort cancels the active search without emitting a move.
type Abort struct{}

// Ponder starts thinking on the opponent's time, assuming the given reply.
type Ponder struct {
	Move string
}

// PonderOff cancels pondering and discards the speculative result.
type PonderOff struct{}

// SetTimeControl replaces the active time policy used by subsequent searches.
type SetTimeControl struct {
	TC search.TimeControl
}

// SetHashSize resizes the transposition table to the given size in MB. Only honored
// while idle.
type SetHashSize struct {
	MB uint
}

// ClearHash zeroes the transposition table. Only honored while idle.
type ClearHash struct{}

// Quit terminates the loop.
type Quit struct{}

func (NewGame) message()        {}
func (SetPosition) message()    {}
func (MakeMove) message()       {}
func (Go) message()             {}
func (Stop) message()           {}
func (MoveNow) message()        {}
func (Abort) message()          {}
func (Ponder) message()         {}
func (PonderOff) message()      {}
func (SetTimeControl) message() {}
func (SetHashSize) message()    {}
func (ClearHash) message()      {}
func (Quit) message()           {}

// Event is a semantic response emitted by the Loop for the protocol layer to encode
// onto the wire.
type Event interface {
	event()
}

// BestMove reports the selected move once a search concludes. Move is null if the
// position had no legal moves (the host decides checkmate vs stalemate). Ponder, if
// set, is the engine's suggested opponent reply to ponder on.
type BestMove struct {
	Move   board.Move
	Ponder lang.Optional[board.Move]
}

// Thinking is the progress snapshot of a completed search iteration. An iteration whose
// snapshot the search replaced before the loop read it is not reported.
type Thinking struct {
	PV search.PV
}

// IllegalMove reports a rejected protocol-supplied move or position.
type IllegalMove struct {
	Input  string
	Reason string
}

func (BestMove) event()    {}
func (Thinking) event()    {}
func (IllegalMove) event() {}

// Loop drives an engine from a stream of protocol messages. It owns the active time
// policy and the "host is waiting for a best move" state; the engine owns the game and
// the search. Exactly one BestMove is emitted per Go, unless aborted.
type Loop struct {
	e *Engine

	out chan Event
	tc  search.TimeControl

	active atomic.Bool // host is waiting for the engine to move

	last     lang.Optional[search.PV] // final result of a search that concluded on its own
	done     bool                     // the active search's snapshot stream has closed
	watchGen int                      // invalidates watchers of superseded searches
	mu       sync.Mutex

	wg   sync.WaitGroup // in-flight watchers; joined before the event channel closes
	quit iox.AsyncCloser
}

// NewLoop starts an engine loop consuming messages from in. The returned event channel
// is closed once the loop terminates: on Quit, on close of in (stdin EOF implies
// termination), or on context cancellation.
func NewLoop(ctx context.Context, e *Engine, in <-chan Message) (*Loop, <-chan Event) {
	out := make(chan Event, 100)
	l := &Loop{
		e:    e,
		out:  out,
		tc:   search.TimeControl{Kind: search.Infinite},
		quit: iox.NewAsyncCloser(),
	}
	go l.process(ctx, in)

	return l, out
}

// Closed returns a channel that is closed when the loop has terminated.
func (l *Loop) Closed() <-chan struct{} {
	return l.quit.Closed()
}

func (l *Loop) process(ctx context.Context, in <-chan Message) {
	// Unwind order: signal quit, join the watchers, then close the event channel.
	defer close(l.out)
	defer l.wg.Wait()
	defer l.quit.Close()

	logw.Infof(ctx, "Engine loop initialized: %v", l.e.Name())

	for {
		select {
		case msg, ok := <-in:
			if !ok {
				l.abort(ctx)
				return
			}
			if quit := l.handle(ctx, msg); quit {
				l.abort(ctx)
				return
			}

		case <-ctx.Done():
			l.abort(ctx)
			return
		}
	}
}

// handle processes a single message. Returns true on Quit.
func (l *Loop) handle(ctx context.Context, msg Message) bool {
	switch m := msg.(type) {
	case NewGame:
		l.abort(ctx)
		if err := l.e.Reset(ctx, fen.Initial); err != nil {
			logw.Errorf(ctx, "Reset failed: %v", err)
		}

	case SetPosition:
		l.abort(ctx)
		if err := l.e.Reset(ctx, m.FEN); err != nil {
			l.out <- IllegalMove{Input: m.FEN, Reason: err.Error()}
		}

	case MakeMove:
		hit, err := l.e.Move(ctx, m.Move)
		if err != nil {
			l.out <- IllegalMove{Input: m.Move, Reason: err.Error()}
			break
		}
		if hit {
			// Converted to a live search: the opponent's reported remaining time
			// governs from here, not the ponder wall clock.
			_ = l.e.Rebudget(ctx, l.tc)
		}

	case Go:
		if l.promotedSearchActive() {
			// A ponder-hit search is already running for the side to move. Arm the
			// best-move emission; if the search concluded in the meantime, flush it.
			l.active.Store(true)
			l.flushIfDone(ctx)
			break
		}
		l.abort(ctx) // discard a stale ponder search, if any

		opt := search.Options{TimeControl: lang.Some(l.tc)}
		out, err := l.e.Analyze(ctx, opt)
		if err != nil {
			logw.Errorf(ctx, "Analyze failed: %v", err)
			break
		}
		l.active.Store(true)
		l.watch(ctx, out)

	case Stop, MoveNow:
		if _, err := l.e.Halt(ctx); err == nil {
			l.flushIfDone(ctx)
		}

	case Abort:
		l.abort(ctx)

	case Ponder:
		l.abort(ctx)

		out, err := l.e.Ponder(ctx, m.Move)
		if err != nil {
			l.out <- IllegalMove{Input: m.Move, Reason: err.Error()}
			break
		}
		l.watch(ctx, out)

	case PonderOff:
		l.abort(ctx)

	case SetTimeControl:
		logw.Infof(ctx, "Time control: %v", m.TC)
		l.tc = m.TC

	case SetHashSize:
		if err := l.e.SetHash(ctx, m.MB); err != nil {
			logw.Errorf(ctx, "SetHash rejected: %v", err)
		}

	case ClearHash:
		if err := l.e.ClearHash(ctx); err != nil {
			logw.Errorf(ctx, "ClearHash rejected: %v", err)
		}

	case Quit:
		return true

	default:
		logw.Warningf(ctx, "Unknown message: %v", msg)
	}
	return false
}

// watch forwards progress snapshots from a running search and records its final
// result. Each search gets its own watcher; the snapshot channel closing means the
// search concluded on its own (depth cap, mate, time budget) or was halted.
func (l *Loop) watch(ctx context.Context, out <-chan search.PV) {
	l.mu.Lock()
	l.watchGen++
	gen := l.watchGen
	l.last = lang.Optional[search.PV]{}
	l.done = false
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		var last lang.Optional[search.PV]
		for pv := range out {
			last = lang.Some(pv)
			select {
			case l.out <- Thinking{PV: pv}:
			case <-l.quit.Closed():
				return
			}
		}

		l.mu.Lock()
		stale := l.watchGen != gen
		if !stale {
			l.last = last
			l.done = true
		}
		l.mu.Unlock()

		if !stale {
			l.flushIfDone(ctx)
		}
	}()
}

// flushIfDone emits the BestMove for a concluded search, exactly once: only the caller
// that both observes the search done and wins the active flag emits.
func (l *Loop) flushIfDone(ctx context.Context) {
	l.mu.Lock()
	done, last := l.done, l.last
	l.mu.Unlock()

	if !done || !l.active.CAS(true, false) {
		return
	}

	l.e.Abort(ctx) // release engine search state; the handle already concluded

	pv, ok := last.V()
	best := BestMove{Move: board.NullMove} // no legal moves: the host adjudicates
	if ok && len(pv.Moves) > 0 {
		best = BestMove{Move: pv.Moves[0]}
		if len(pv.Moves) >= 2 {
			best.Ponder = lang.Some(pv.Moves[1])
		}
	}

	select {
	case l.out <- best:
	case <-l.quit.Closed():
	}
}

// promotedSearchActive returns true iff a search launched for pondering has been
// converted to a live search by a ponder hit.
func (l *Loop) promotedSearchActive() bool {
	return !l.e.IsPondering() && l.e.hasActiveSearch() && !l.active.Load()
}

// abort cancels any active search without emitting a best move.
func (l *Loop) abort(ctx context.Context) {
	l.active.Store(false)
	l.e.Abort(ctx)
}
