package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/herohde/eloi/pkg/board"
	"github.com/herohde/eloi/pkg/board/game"
	"github.com/herohde/eloi/pkg/engine"
	"github.com/herohde/eloi/pkg/eval"
	"github.com/herohde/eloi/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/require"
)

func newEngine(ctx context.Context, depth uint) *engine.Engine {
	return engine.New(ctx, "test", "tester",
		search.Iterative{Eval: eval.PieceSquare{}},
		engine.WithOptions(engine.Options{Depth: depth, Hash: 1}),
	)
}

func drain(t *testing.T, out <-chan search.PV) search.PV {
	t.Helper()

	var last search.PV
	for pv := range out {
		last = pv
	}
	return last
}

// isLegal reports whether m is a legal move in g's current position.
func isLegal(g *game.Game, m board.Move) bool {
	for _, c := range board.PseudoLegalMoves(g.Position(), g.Turn()) {
		if m.Equals(c) {
			if g.PushMove(c) {
				g.PopMove()
				return true
			}
		}
	}
	return false
}

func TestAnalyzeStartPositionReturnsLegalMove(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx, 4)

	start := time.Now()
	out, err := e.Analyze(ctx, search.Options{})
	require.NoError(t, err)

	last := drain(t, out)
	_, _ = e.Halt(ctx)

	require.Equal(t, 4, last.Depth)
	require.NotEmpty(t, last.Moves)
	require.True(t, isLegal(e.Game(), last.Moves[0]), "move %v not legal", last.Moves[0])
	require.Less(t, time.Since(start), time.Second)
}

func TestAnalyzeReportsMateInOne(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx, 3)
	require.NoError(t, e.Reset(ctx, "7k/5Q2/6K1/8/8/8/8/8 w - - 0 1"))

	out, err := e.Analyze(ctx, search.Options{})
	require.NoError(t, err)

	last := drain(t, out)
	_, _ = e.Halt(ctx)

	// Qe8, Qf8, Qg7 and Qh7 all mate; the search reports Qh7, the first of them it tries.
	require.NotEmpty(t, last.Moves)
	require.Equal(t, board.F7, last.Moves[0].From)
	require.Equal(t, board.H7, last.Moves[0].To)
	require.Equal(t, eval.MatesIn(1), last.Score)
}

func TestAnalyzeConvertsKingPawnEndgame(t *testing.T) {
	if testing.Short() {
		t.Skip("deep endgame search: skipped with -short")
	}

	ctx := context.Background()
	e := newEngine(ctx, 12)
	require.NoError(t, e.Reset(ctx, "4k3/8/4K3/4P3/8/8/8/8 w - - 0 1"))

	out, err := e.Analyze(ctx, search.Options{})
	require.NoError(t, err)

	last := drain(t, out)
	_, _ = e.Halt(ctx)

	// Deep enough to see the pawn promote: decisively winning or outright mate.
	require.GreaterOrEqual(t, last.Score, board.Score(500))
}

func TestAnalyzeFiftyMoveDrawScoresRootMoves(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx, 3)
	require.NoError(t, e.Reset(ctx, "rnbq1bnr/ppppkppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w - - 100 51"))

	out, err := e.Analyze(ctx, search.Options{})
	require.NoError(t, err)

	last := drain(t, out)
	_, _ = e.Halt(ctx)

	require.NotEmpty(t, last.Moves)
	require.Equal(t, eval.Draw, last.Score)
}

func TestAnalyzeRepetitionDraw(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx, 3)

	for _, m := range []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"} {
		hit, err := e.Move(ctx, m)
		require.NoError(t, err)
		require.False(t, hit)
	}
	require.Equal(t, board.Repetition3, e.Game().Result().Reason)

	out, err := e.Analyze(ctx, search.Options{})
	require.NoError(t, err)

	last := drain(t, out)
	_, _ = e.Halt(ctx)

	require.NotEmpty(t, last.Moves)
	require.Equal(t, eval.Draw, last.Score)
}

func TestMoveRejectsIllegal(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx, 2)

	_, err := e.Move(ctx, "e2e5")
	require.Error(t, err)

	_, err = e.Move(ctx, "zz99")
	require.Error(t, err)

	// The board is unchanged: the legal move still works.
	_, err = e.Move(ctx, "e2e4")
	require.NoError(t, err)
}

func TestPonderHitPromotesSearch(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx, 4)

	_, err := e.Move(ctx, "e2e4")
	require.NoError(t, err)

	out, err := e.Ponder(ctx, "e7e5")
	require.NoError(t, err)
	require.True(t, e.IsPondering())

	hit, err := e.Move(ctx, "e7e5")
	require.NoError(t, err)
	require.True(t, hit)
	require.False(t, e.IsPondering())

	require.NoError(t, e.Rebudget(ctx, search.TimeControl{Kind: search.FixedTime, Remaining: 5 * time.Second}))

	last := drain(t, out)
	require.NotEmpty(t, last.Moves)
	require.True(t, isLegal(e.Game(), last.Moves[0]))

	_, _ = e.Halt(ctx)
}

func TestPonderMissDiscardsResult(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx, 3)

	_, err := e.Move(ctx, "e2e4")
	require.NoError(t, err)

	_, err = e.Ponder(ctx, "e7e5")
	require.NoError(t, err)

	hit, err := e.Move(ctx, "g8f6")
	require.NoError(t, err)
	require.False(t, hit)
	require.False(t, e.IsPondering())

	// The speculative e7e5 was retracted: it is Black's knight on f6, White to move.
	g := e.Game()
	require.Equal(t, board.White, g.Turn())
	m, ok := g.LastMove()
	require.True(t, ok)
	require.Equal(t, board.G8, m.From)
	require.Equal(t, board.F6, m.To)
}

func TestSetHashRejectedWhileSearching(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx, 0)

	out, err := e.Analyze(ctx, search.Options{
		DepthLimit:  lang.Some(uint(30)),
		TimeControl: lang.Some(search.TimeControl{Kind: search.Infinite}),
	})
	require.NoError(t, err)

	require.Error(t, e.SetHash(ctx, 16))
	require.Error(t, e.ClearHash(ctx))

	_, _ = e.Halt(ctx)
	drain(t, out)

	require.NoError(t, e.SetHash(ctx, 16))
	require.NoError(t, e.ClearHash(ctx))
}

func TestTakeBack(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx, 2)

	require.Error(t, e.TakeBack(ctx), "nothing to take back yet")

	_, err := e.Move(ctx, "e2e4")
	require.NoError(t, err)
	before := e.Position()

	_, err = e.Move(ctx, "e7e5")
	require.NoError(t, err)

	require.NoError(t, e.TakeBack(ctx))
	require.Equal(t, before, e.Position())
}
