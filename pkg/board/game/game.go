// Package game tracks a chess game as a sequence of positions: whose turn it is, the
// fullmove counter, and the draw conditions (repetition, the fifty-move rule,
// insufficient material) that a bare board.Position cannot determine on its own.
package game

import (
	"fmt"

	"github.com/herohde/eloi/pkg/board"
)

const (
	repetition3Limit   = 3
	repetition5Limit   = 5
	noprogressPlyLimit = 100
)

type node struct {
	pos        *board.Position
	hash       board.ZobristHash
	noprogress int

	next board.Move // if not current
	prev *node
}

// Game represents a chess game: metadata and the history of positions needed to
// correctly adjudicate draw conditions. Not thread-safe.
type Game struct {
	zt          *board.ZobristTable
	repetitions map[board.ZobristHash]int

	fullmoves int
	turn      board.Color
	result    board.Result
	current   *node
}

// New starts a game tracker at pos, to move by turn, with the given halfmove (no
// progress) clock and fullmove counter, the same four values a FEN record carries.
func New(zt *board.ZobristTable, pos *board.Position, turn board.Color, noprogress, fullmoves int) *Game {
	current := &node{
		pos:        pos,
		noprogress: noprogress,
		hash:       zt.Hash(pos, turn),
	}

	repetitions := map[board.ZobristHash]int{
		current.hash: 1,
	}

	g := &Game{
		zt:          zt,
		repetitions: repetitions,
		fullmoves:   fullmoves,
		turn:        turn,
		current:     current,
	}

	// A loaded position may already satisfy a draw condition, such as a FEN with an
	// exhausted no-progress clock.

	if noprogress >= noprogressPlyLimit {
		g.result = board.Result{Outcome: board.Draw, Reason: board.NoProgress}
	}
	if pos.HasInsufficientMaterial() {
		g.result = board.Result{Outcome: board.Draw, Reason: board.InsufficientMaterial}
	}
	return g
}

// Fork branches off a new game, sharing the node history for past positions. If
// forked, the shared history should not be mutated (via PopMove) as the forward moves
// in node might then become stale.
func (g *Game) Fork() *Game {
	fork := &Game{
		zt:          g.zt,
		repetitions: map[board.ZobristHash]int{},
		fullmoves:   g.fullmoves,
		turn:        g.turn,
		result:      g.result,
		current: &node{
			pos:        g.current.pos,
			hash:       g.current.hash,
			noprogress: g.current.noprogress,
			prev:       g.current.prev,
		},
	}
	for k, v := range g.repetitions {
		fork.repetitions[k] = v
	}

	return fork
}

func (g *Game) Position() *board.Position {
	return g.current.pos
}

func (g *Game) Hash() board.ZobristHash {
	return g.current.hash
}

func (g *Game) Turn() board.Color {
	return g.turn
}

func (g *Game) NoProgress() int {
	return g.current.noprogress
}

func (g *Game) FullMoves() int {
	return g.fullmoves
}

func (g *Game) Result() board.Result {
	return g.result
}

// PushMove attempts to make a pseudo-legal move. Returns true iff legal.
func (g *Game) PushMove(m board.Move) bool {
	if g.result.Reason == board.Checkmate || g.result.Reason == board.Stalemate {
		return false // there are no legal moves
	} // else: ignore draws that are not always called correctly.

	next, ok := g.current.pos.Move(m)
	if !ok {
		return false
	}

	// (1) Move is legal. Create new node.

	n := &node{
		pos:        next,
		hash:       g.zt.Move(g.current.hash, g.current.pos, m),
		noprogress: updateNoProgress(g.current.noprogress, m),
		prev:       g.current,
	}

	g.current.next = m
	g.current = n

	// (2) Update game-level metadata.

	g.turn = g.turn.Opponent()
	g.repetitions[g.current.hash]++
	if g.turn == board.White {
		g.fullmoves++
	}

	// (3) Determine if draw condition applies.

	if g.repetitions[g.current.hash] >= repetition3Limit {
		actual := g.identicalPositionCount(g.current, g.turn, g.current.noprogress)
		switch {
		case actual >= repetition5Limit:
			g.result.Outcome = board.Draw
			g.result.Reason = board.Repetition5
		case actual >= repetition3Limit:
			g.result.Outcome = board.Draw
			g.result.Reason = board.Repetition3
		default:
			// zobrist collision: not an actual repetition
		}
	}

	if g.current.noprogress >= noprogressPlyLimit {
		g.result.Outcome = board.Draw
		g.result.Reason = board.NoProgress
	}

	if m.Type == board.Capture || ((m.Type == board.CapturePromotion || m.Type == board.Promotion) && (m.Promotion == board.Bishop || m.Promotion == board.Knight)) {
		if g.current.pos.HasInsufficientMaterial() {
			g.result.Outcome = board.Draw
			g.result.Reason = board.InsufficientMaterial
		}
	}

	return true
}

// PopMove undoes the last move, if any.
func (g *Game) PopMove() (board.Move, bool) {
	if g.current.prev == nil {
		return board.Move{}, false
	}

	// (1) Update game-level metadata.

	g.turn = g.turn.Opponent()
	g.repetitions[g.current.hash]--
	g.result = board.Result{Outcome: board.Undecided} // a legal move was made, so not terminal
	if g.turn == board.Black {
		g.fullmoves--
	}

	// (2) Pop current node.

	g.current = g.current.prev
	m := g.current.next
	g.current.next = board.Move{}
	return m, true
}

// AdjudicateNoLegalMoves adjudicates the position assuming no legal moves exist. The
// result is then either Checkmate or Stalemate, depending on whether the side to move
// is in check.
func (g *Game) AdjudicateNoLegalMoves() board.Result {
	result := board.Result{Outcome: board.Draw, Reason: board.Stalemate}
	if g.Position().IsChecked(g.Turn()) {
		result = board.Result{Outcome: board.Loss(g.Turn()), Reason: board.Checkmate}
	}
	g.Adjudicate(result)
	return result
}

// Adjudicate sets the game result as given, for example following an external
// resignation or time forfeit that Game cannot detect on its own.
func (g *Game) Adjudicate(result board.Result) {
	g.result = result
}

func (g *Game) identicalPositionCount(n *node, turn board.Color, limit int) int {
	ret := 1
	tmp := n.prev
	t := g.turn.Opponent()

	for i := 1; i <= limit && tmp != nil; i++ {
		if tmp.hash == n.hash && turn == t && *tmp.pos == *n.pos {
			ret++
		}
		tmp = tmp.prev
		t = t.Opponent()
	}
	return ret
}

// LastMove returns the last move, if any.
func (g *Game) LastMove() (board.Move, bool) {
	if g.current.prev != nil {
		return g.current.prev.next, true
	}
	return board.Move{}, false
}

// HasCastled returns true iff the color has castled at any point in the game.
func (g *Game) HasCastled(c board.Color) bool {
	t := g.turn.Opponent()
	cur := g.current.prev

	for cur != nil {
		if t == c && (cur.next.Type == board.QueenSideCastle || cur.next.Type == board.KingSideCastle) {
			return true
		}
		t = t.Opponent()
		cur = cur.prev
	}
	return false
}

func (g *Game) String() string {
	return fmt.Sprintf("game{pos=%v, turn=%v, hash=%x (%v) noprogress=%v, fullmoves=%v, result=%v}", g.current.pos, g.turn, g.current.hash, g.repetitions[g.current.hash], g.current.noprogress, g.fullmoves, g.result)
}

// updateNoProgress advances the halfmove clock: only a pawn move or a capture resets
// it. Castling, like any other quiet officer move, increments it.
func updateNoProgress(old int, m board.Move) int {
	switch m.Type {
	case board.Push, board.Jump, board.Promotion, board.Capture, board.CapturePromotion, board.EnPassant:
		return 0
	default:
		return old + 1
	}
}
