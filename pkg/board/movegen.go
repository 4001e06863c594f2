package board

import "sort"

// mvvLvaValue orders captures by most-valuable-victim, least-valuable-attacker. These
// are ordering weights only, not evaluation scores (see pkg/eval for those).
var mvvLvaValue = [NumPieces]int{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   0,
}

// underpromotionOrder lists the promotion pieces after Queen. Any fixed order is a
// legal implementation choice; moving generated Knight promotions before Rook/Bishop
// means a search that cuts off early still sees the occasional knight-fork tactic.
var underpromotionOrder = [3]Piece{Knight, Rook, Bishop}

// PseudoLegalMoves generates all pseudo-legal moves for turn in pos, in four phases:
// captures and promotions (MVV/LVA ordered), castling, pawn pushes/jumps, then the
// remaining quiet officer moves. King safety (including castling through/out of check)
// is not checked here; Position.Move rejects any move that leaves the mover's king
// attacked.
func PseudoLegalMoves(pos *Position, turn Color) []Move {
	var captures, quiets []Move

	genCastling(pos, turn, &quiets)
	genPawnMoves(pos, turn, &captures, &quiets)
	genOfficerMoves(pos, turn, &captures, &quiets)

	sortByMVVLVA(captures)

	moves := make([]Move, 0, len(captures)+len(quiets))
	moves = append(moves, captures...)
	moves = append(moves, quiets...)
	return moves
}

// PromotionsAndCaptures generates only captures and promotions (including
// capture-promotions), MVV/LVA ordered. Used by quiescence search, which never
// considers quiet moves.
func PromotionsAndCaptures(pos *Position, turn Color) []Move {
	var captures, quiets []Move
	genPawnMoves(pos, turn, &captures, &quiets)
	genOfficerMoves(pos, turn, &captures, &quiets)
	sortByMVVLVA(captures)
	return captures
}

func sortByMVVLVA(moves []Move) {
	sort.SliceStable(moves, func(i, j int) bool {
		vi := mvvLvaValue[captureVictim(moves[i])]*8 - mvvLvaValue[moves[i].Piece]
		vj := mvvLvaValue[captureVictim(moves[j])]*8 - mvvLvaValue[moves[j].Piece]
		return vi > vj
	})
}

func captureVictim(m Move) Piece {
	if m.Type.IsCapture() {
		return m.Capture
	}
	return Pawn // a pure promotion: treat as lowest-victim tier, still ahead of quiets
}

func genOfficerMoves(pos *Position, turn Color, captures, quiets *[]Move) {
	own := pos.All(turn)
	opp := pos.All(turn.Opponent())
	occ := pos.Occupied()

	for _, piece := range [...]Piece{Knight, Bishop, Rook, Queen, King} {
		bb := pos.Pieces(turn, piece)
		for bb != 0 {
			from, rest := bb.Pop()
			bb = rest

			targets := Attacks(piece, from, occ) &^ own
			caps := targets & opp
			qs := targets &^ opp

			for caps != 0 {
				to, r := caps.Pop()
				caps = r
				_, victim, _ := pos.Square(to)
				*captures = append(*captures, Move{Type: Capture, From: from, To: to, Piece: piece, Capture: victim})
			}
			for qs != 0 {
				to, r := qs.Pop()
				qs = r
				*quiets = append(*quiets, Move{Type: Normal, From: from, To: to, Piece: piece})
			}
		}
	}
}

func genCastling(pos *Position, turn Color, quiets *[]Move) {
	occ := pos.Occupied()
	rank := Rank1
	kingSide, queenSide := WhiteKingSideCastle, WhiteQueenSideCastle
	if turn == Black {
		rank = Rank8
		kingSide, queenSide = BlackKingSideCastle, BlackQueenSideCastle
	}

	kingFrom := NewSquare(FileE, rank)
	if pos.Pieces(turn, King)&BitMask(kingFrom) == 0 {
		return
	}

	if pos.Castling().IsAllowed(kingSide) {
		f, g, h := NewSquare(FileF, rank), NewSquare(FileG, rank), NewSquare(FileH, rank)
		if occ&(BitMask(f)|BitMask(g)) == 0 && pos.Pieces(turn, Rook)&BitMask(h) != 0 {
			*quiets = append(*quiets, Move{Type: KingSideCastle, From: kingFrom, To: g, Piece: King})
		}
	}
	if pos.Castling().IsAllowed(queenSide) {
		b, c, d, a := NewSquare(FileB, rank), NewSquare(FileC, rank), NewSquare(FileD, rank), NewSquare(FileA, rank)
		if occ&(BitMask(b)|BitMask(c)|BitMask(d)) == 0 && pos.Pieces(turn, Rook)&BitMask(a) != 0 {
			*quiets = append(*quiets, Move{Type: QueenSideCastle, From: kingFrom, To: c, Piece: King})
		}
	}
}

func genPawnMoves(pos *Position, turn Color, captures, quiets *[]Move) {
	pawns := pos.Pieces(turn, Pawn)
	occ := pos.Occupied()
	opp := pos.All(turn.Opponent())
	promoRank := PawnPromotionRank(turn)

	for bb := pawns; bb != 0; {
		from, rest := bb.Pop()
		bb = rest

		// Pushes and jumps.
		if one := pawnPush(turn, from); one.IsValid() && occ&BitMask(one) == 0 {
			appendPawnAdvance(turn, from, one, promoRank, captures, quiets)

			if BitMask(from)&PawnStartRank(turn) != 0 {
				if two := pawnPush(turn, one); occ&BitMask(two) == 0 {
					*quiets = append(*quiets, Move{Type: Jump, From: from, To: two, Piece: Pawn})
				}
			}
		}

		// Captures (including en passant).
		for _, to := range pawnCaptureTargets(turn, from) {
			if BitMask(to)&opp != 0 {
				_, victim, _ := pos.Square(to)
				appendPawnCapture(turn, from, to, victim, promoRank, captures)
				continue
			}
			if ep, ok := pos.EnPassant(); ok && to == ep {
				*captures = append(*captures, Move{Type: EnPassant, From: from, To: to, Piece: Pawn, Capture: Pawn})
			}
		}
	}
}

func appendPawnAdvance(turn Color, from, to Square, promoRank Bitboard, captures, quiets *[]Move) {
	if BitMask(to)&promoRank != 0 {
		*captures = append(*captures, Move{Type: Promotion, From: from, To: to, Piece: Pawn, Promotion: Queen})
		for _, u := range underpromotionOrder {
			*captures = append(*captures, Move{Type: Promotion, From: from, To: to, Piece: Pawn, Promotion: u})
		}
		return
	}
	*quiets = append(*quiets, Move{Type: Push, From: from, To: to, Piece: Pawn})
}

func appendPawnCapture(turn Color, from, to Square, victim Piece, promoRank Bitboard, captures *[]Move) {
	if BitMask(to)&promoRank != 0 {
		*captures = append(*captures, Move{Type: CapturePromotion, From: from, To: to, Piece: Pawn, Capture: victim, Promotion: Queen})
		for _, u := range underpromotionOrder {
			*captures = append(*captures, Move{Type: CapturePromotion, From: from, To: to, Piece: Pawn, Capture: victim, Promotion: u})
		}
		return
	}
	*captures = append(*captures, Move{Type: Capture, From: from, To: to, Piece: Pawn, Capture: victim})
}

// pawnPush returns the single-step forward square for a pawn of the given color, or an
// invalid square if it would fall off the board.
func pawnPush(c Color, sq Square) Square {
	if c == White {
		if sq.Rank() == Rank8 {
			return Square(NumSquares)
		}
		return NewSquare(sq.File(), sq.Rank()+1)
	}
	if sq.Rank() == Rank1 {
		return Square(NumSquares)
	}
	return NewSquare(sq.File(), sq.Rank()-1)
}

// pawnCaptureTargets returns the (up to two) diagonal capture squares for a pawn of the
// given color at sq.
func pawnCaptureTargets(c Color, sq Square) []Square {
	var out []Square
	r := sq.Rank()
	if c == White {
		if r == Rank8 {
			return nil
		}
		r++
	} else {
		if r == Rank1 {
			return nil
		}
		r--
	}
	if sq.File() > ZeroFile {
		out = append(out, NewSquare(sq.File()-1, r))
	}
	if sq.File() < NumFiles-1 {
		out = append(out, NewSquare(sq.File()+1, r))
	}
	return out
}
