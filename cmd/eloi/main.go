package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/herohde/eloi/pkg/board"
	"github.com/herohde/eloi/pkg/engine"
	"github.com/herohde/eloi/pkg/eval"
	"github.com/herohde/eloi/pkg/search"
	"github.com/seekerror/logw"
)

var (
	depth = flag.Uint("depth", 0, "Search depth limit (zero if none)")
	hash  = flag.Uint("hash", 64, "Transposition table size in MB (zero if none)")
	noise = flag.Int("noise", 0, "Evaluation noise in centipawns (zero if deterministic)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: eloi [options]

ELOI is a bitboard chess engine. It speaks a line-oriented command dialect
on stdin/stdout:

  newgame | position <fen> | move <m> | go | stop | movenow | abort |
  ponder <m> | ponderoff | level <kind> [args] | hash <mb> | clearhash | quit

Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	s := search.Iterative{
		Eval: eval.Randomize(eval.PieceSquare{}, *noise, time.Now().UnixNano()),
	}
	e := engine.New(ctx, "eloi", "herohde", s,
		engine.WithOptions(engine.Options{Depth: *depth, Hash: *hash}),
	)

	msgs := make(chan engine.Message, 1)
	go func() {
		defer close(msgs)
		for line := range engine.ReadStdinLines(ctx) {
			msg, err := parseMessage(line)
			if err != nil {
				logw.Warningf(ctx, "Bad command %q: %v", line, err)
				continue
			}
			msgs <- msg
		}
	}()

	loop, events := engine.NewLoop(ctx, e, msgs)

	out := make(chan string, 100)
	go func() {
		defer close(out)
		for ev := range events {
			out <- printEvent(ev)
		}
	}()
	go engine.WriteStdoutLines(ctx, out)

	<-loop.Closed()
}

// parseMessage translates one command line into the engine's semantic message
// vocabulary. The dialect is deliberately minimal: one command per line, coordinate
// moves, durations in Go syntax ("5m", "30s").
func parseMessage(line string) (engine.Message, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	switch cmd := args[0]; cmd {
	case "newgame":
		return engine.NewGame{}, nil
	case "position":
		if len(args) < 2 {
			return nil, fmt.Errorf("position requires a FEN")
		}
		return engine.SetPosition{FEN: strings.Join(args[1:], " ")}, nil
	case "move", "ponder":
		if len(args) != 2 {
			return nil, fmt.Errorf("%v requires a move", cmd)
		}
		if cmd == "move" {
			return engine.MakeMove{Move: args[1]}, nil
		}
		return engine.Ponder{Move: args[1]}, nil
	case "go":
		return engine.Go{}, nil
	case "stop":
		return engine.Stop{}, nil
	case "movenow":
		return engine.MoveNow{}, nil
	case "abort":
		return engine.Abort{}, nil
	case "ponderoff":
		return engine.PonderOff{}, nil
	case "level":
		tc, err := parseTimeControl(args[1:])
		if err != nil {
			return nil, err
		}
		return engine.SetTimeControl{TC: tc}, nil
	case "hash":
		if len(args) != 2 {
			return nil, fmt.Errorf("hash requires a size in MB")
		}
		mb, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid hash size: %w", err)
		}
		return engine.SetHashSize{MB: uint(mb)}, nil
	case "clearhash":
		return engine.ClearHash{}, nil
	case "quit":
		return engine.Quit{}, nil
	default:
		return nil, fmt.Errorf("unknown command: %v", cmd)
	}
}

func parseTimeControl(args []string) (search.TimeControl, error) {
	if len(args) == 0 {
		return search.TimeControl{}, fmt.Errorf("level requires a kind")
	}

	durations := make([]time.Duration, 0, 2)
	for _, arg := range args[1:] {
		d, err := time.ParseDuration(arg)
		if err != nil {
			return search.TimeControl{}, fmt.Errorf("invalid duration %q: %w", arg, err)
		}
		durations = append(durations, d)
	}

	switch kind := args[0]; kind {
	case "infinite":
		return search.TimeControl{Kind: search.Infinite}, nil
	case "exact":
		if len(durations) != 1 {
			return search.TimeControl{}, fmt.Errorf("exact requires a move time")
		}
		return search.TimeControl{Kind: search.FixedTime, Remaining: durations[0]}, nil
	case "incremental":
		if len(durations) != 2 {
			return search.TimeControl{}, fmt.Errorf("incremental requires remaining time and increment")
		}
		return search.TimeControl{Kind: search.Incremental, Remaining: durations[0], Increment: durations[1]}, nil
	case "session":
		if len(durations) != 1 {
			return search.TimeControl{}, fmt.Errorf("session requires remaining time")
		}
		return search.TimeControl{Kind: search.Session, Remaining: durations[0]}, nil
	default:
		return search.TimeControl{}, fmt.Errorf("unknown time control: %v", kind)
	}
}

func printEvent(ev engine.Event) string {
	switch e := ev.(type) {
	case engine.BestMove:
		if e.Move.IsNull() {
			return "bestmove 0000"
		}
		if m, ok := e.Ponder.V(); ok {
			return fmt.Sprintf("bestmove %v ponder %v", e.Move, m)
		}
		return fmt.Sprintf("bestmove %v", e.Move)

	case engine.Thinking:
		pv := e.PV
		moves := board.FormatMoves(pv.Moves, func(m board.Move) string { return m.String() })
		return fmt.Sprintf("info depth %v score %v time %v nodes %v pv %v",
			pv.Depth, pv.Score, pv.Time.Milliseconds(), pv.Nodes, moves)

	case engine.IllegalMove:
		return fmt.Sprintf("illegal %v: %v", e.Input, e.Reason)

	default:
		return fmt.Sprintf("# %v", ev)
	}
}
