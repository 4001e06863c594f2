package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/herohde/eloi/pkg/engine"
	"github.com/stretchr/testify/require"
)

func newLoop(t *testing.T, depth uint) (chan<- engine.Message, <-chan engine.Event, *engine.Loop) {
	t.Helper()

	ctx := context.Background()
	e := newEngine(ctx, depth)

	in := make(chan engine.Message, 10)
	l, out := engine.NewLoop(ctx, e, in)

	t.Cleanup(func() {
		close(in)
		<-l.Closed()
	})
	return in, out, l
}

// awaitBestMove consumes events until a BestMove arrives, failing on timeout.
func awaitBestMove(t *testing.T, out <-chan engine.Event) engine.BestMove {
	t.Helper()

	deadline := time.After(30 * time.Second)
	for {
		select {
		case ev, ok := <-out:
			require.True(t, ok, "event channel closed before bestmove")
			if best, isBest := ev.(engine.BestMove); isBest {
				return best
			}
		case <-deadline:
			t.Fatal("no bestmove")
		}
	}
}

func TestLoopEmitsBestMoveOnGo(t *testing.T) {
	in, out, _ := newLoop(t, 3)

	in <- engine.NewGame{}
	in <- engine.Go{}

	best := awaitBestMove(t, out)
	require.False(t, best.Move.IsNull())
}

func TestLoopEmitsThinkingSnapshots(t *testing.T) {
	in, out, _ := newLoop(t, 3)

	in <- engine.Go{}

	last := 0
	for ev := range out {
		switch e := ev.(type) {
		case engine.Thinking:
			require.Greater(t, e.PV.Depth, last)
			require.NotZero(t, e.PV.Nodes)
			last = e.PV.Depth
		case engine.BestMove:
			require.Equal(t, 3, last, "final snapshot depth")
			return
		}
	}
	t.Fatal("event channel closed before bestmove")
}

func TestLoopStalemateYieldsNullMove(t *testing.T) {
	in, out, _ := newLoop(t, 3)

	// Black to move, not in check, no legal moves.
	in <- engine.SetPosition{FEN: "7k/5Q2/8/4K3/8/8/8/8 b - - 0 1"}
	in <- engine.Go{}

	best := awaitBestMove(t, out)
	require.True(t, best.Move.IsNull())
}

func TestLoopRejectsIllegalMove(t *testing.T) {
	in, out, _ := newLoop(t, 3)

	in <- engine.MakeMove{Move: "e2e5"}

	select {
	case ev := <-out:
		illegal, ok := ev.(engine.IllegalMove)
		require.True(t, ok, "expected IllegalMove, got %T", ev)
		require.Equal(t, "e2e5", illegal.Input)
		require.NotEmpty(t, illegal.Reason)
	case <-time.After(10 * time.Second):
		t.Fatal("no event")
	}
}

func TestLoopPonderHit(t *testing.T) {
	in, out, _ := newLoop(t, 4)

	in <- engine.MakeMove{Move: "e2e4"}
	in <- engine.Ponder{Move: "e7e5"}
	in <- engine.MakeMove{Move: "e7e5"} // the anticipated reply was played
	in <- engine.Go{}

	best := awaitBestMove(t, out)
	require.False(t, best.Move.IsNull())
}

func TestLoopPonderMiss(t *testing.T) {
	in, out, _ := newLoop(t, 3)

	in <- engine.MakeMove{Move: "e2e4"}
	in <- engine.Ponder{Move: "e7e5"}
	in <- engine.MakeMove{Move: "g8f6"} // a different reply: the ponder result is discarded
	in <- engine.Go{}

	best := awaitBestMove(t, out)
	require.False(t, best.Move.IsNull())
}

func TestLoopAbortEmitsNothing(t *testing.T) {
	in, out, _ := newLoop(t, 0) // no depth cap: the search only ends when aborted

	in <- engine.Go{}
	in <- engine.Abort{}
	in <- engine.Quit{}

	for ev := range out {
		if _, isBest := ev.(engine.BestMove); isBest {
			t.Fatal("bestmove after abort")
		}
	}
}

func TestLoopQuitClosesEvents(t *testing.T) {
	in, out, l := newLoop(t, 3)

	in <- engine.Quit{}

	select {
	case <-l.Closed():
	case <-time.After(10 * time.Second):
		t.Fatal("loop did not terminate")
	}
	for range out {
	}
}
