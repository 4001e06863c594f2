package board

import (
	"fmt"
	"strings"
)

// ErrAmbiguousMove is returned by ParseSAN when more than one legal move matches the
// given algebraic text.
var ErrAmbiguousMove = fmt.Errorf("ambiguous move")

// FormatMoves formats a move sequence space-separated, using fn to format each move.
func FormatMoves(moves []Move, fn func(Move) string) string {
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = fn(m)
	}
	return strings.Join(strs, " ")
}

// FormatSAN formats m, which must be pseudo-legal in pos for turn, in standard
// algebraic notation. check and checkmate indicate whether m gives check/checkmate in
// the resulting position, since SAN notation ("+"/"#") depends on that.
func FormatSAN(pos *Position, turn Color, m Move, check, checkmate bool) string {
	if m.Type == KingSideCastle {
		return appendSuffix("O-O", check, checkmate)
	}
	if m.Type == QueenSideCastle {
		return appendSuffix("O-O-O", check, checkmate)
	}

	var sb strings.Builder

	if m.Piece == Pawn {
		if m.Type.IsCapture() {
			sb.WriteString(m.From.File().String())
			sb.WriteString("x")
		}
		sb.WriteString(m.To.String())
		if m.Type.IsPromotion() {
			sb.WriteString("=")
			sb.WriteString(strings.ToUpper(m.Promotion.String()))
		}
		return appendSuffix(sb.String(), check, checkmate)
	}

	sb.WriteString(strings.ToUpper(m.Piece.String()))
	sb.WriteString(disambiguate(pos, turn, m))
	if m.Type.IsCapture() {
		sb.WriteString("x")
	}
	sb.WriteString(m.To.String())
	return appendSuffix(sb.String(), check, checkmate)
}

func appendSuffix(s string, check, checkmate bool) string {
	switch {
	case checkmate:
		return s + "#"
	case check:
		return s + "+"
	default:
		return s
	}
}

// disambiguate returns the minimal file/rank/square prefix needed to distinguish m's
// From square among same-type, same-destination pseudo-legal moves.
func disambiguate(pos *Position, turn Color, m Move) string {
	var sameFile, sameRank bool
	var count int

	for _, o := range PseudoLegalMoves(pos, turn) {
		if o.Piece != m.Piece || o.To != m.To || o.From == m.From {
			continue
		}
		count++
		if o.From.File() == m.From.File() {
			sameFile = true
		}
		if o.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	if count == 0 {
		return ""
	}
	switch {
	case !sameFile:
		return m.From.File().String()
	case !sameRank:
		return m.From.Rank().String()
	default:
		return m.From.String()
	}
}

// ParseSAN parses algebraic notation str against the legal moves available to turn in
// pos (as determined by Position.Move, not just pseudo-legality). Returns
// ErrAmbiguousMove if more than one legal move matches.
func ParseSAN(pos *Position, turn Color, str string) (Move, error) {
	text := strings.TrimRight(str, "+#")

	candidates := legalMoves(pos, turn)

	if text == "O-O" {
		return pickUnique(candidates, func(m Move) bool { return m.Type == KingSideCastle })
	}
	if text == "O-O-O" {
		return pickUnique(candidates, func(m Move) bool { return m.Type == QueenSideCastle })
	}

	promo := Piece(NoPiece)
	if idx := strings.IndexByte(text, '='); idx >= 0 {
		p, ok := ParsePiece(rune(text[idx+1]))
		if !ok {
			return Move{}, fmt.Errorf("invalid promotion: %q", str)
		}
		promo = p
		text = text[:idx]
	}

	text = strings.ReplaceAll(text, "x", "")

	piece := Pawn
	if r := rune(text[0]); r >= 'A' && r <= 'Z' {
		p, ok := ParsePiece(r)
		if !ok {
			return Move{}, fmt.Errorf("invalid piece: %q", str)
		}
		piece = p
		text = text[1:]
	}

	if len(text) < 2 {
		return Move{}, fmt.Errorf("invalid move: %q", str)
	}
	to, err := ParseSquareStr(text[len(text)-2:])
	if err != nil {
		return Move{}, fmt.Errorf("invalid destination: %q: %w", str, err)
	}
	disambig := text[:len(text)-2]

	return pickUnique(candidates, func(m Move) bool {
		if m.Piece != piece || m.To != to {
			return false
		}
		if promo != NoPiece && m.Promotion != promo {
			return false
		}
		for _, r := range disambig {
			switch {
			case r >= 'a' && r <= 'h':
				if m.From.File() != File(r-'a') {
					return false
				}
			case r >= '1' && r <= '8':
				if m.From.Rank() != Rank(r-'1') {
					return false
				}
			}
		}
		return true
	})
}

func pickUnique(moves []Move, pred func(Move) bool) (Move, error) {
	var found Move
	var n int
	for _, m := range moves {
		if pred(m) {
			found = m
			n++
		}
	}
	switch n {
	case 0:
		return Move{}, fmt.Errorf("no matching legal move")
	case 1:
		return found, nil
	default:
		return Move{}, ErrAmbiguousMove
	}
}

// legalMoves filters pseudo-legal moves down to those Position.Move accepts.
func legalMoves(pos *Position, turn Color) []Move {
	var out []Move
	for _, m := range PseudoLegalMoves(pos, turn) {
		if _, ok := pos.Move(m); ok {
			out = append(out, m)
		}
	}
	return out
}
