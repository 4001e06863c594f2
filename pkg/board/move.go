package board

import "fmt"

// MoveType indicates the kind of move, which in turn determines what metadata on Move
// is meaningful and how make-move must update position state. The no-progress (halfmove
// clock) counter is reset by pawn moves and captures only.
type MoveType uint8

const (
	Normal    MoveType = iota
	Push               // single-square pawn advance
	Jump               // two-square pawn advance, sets an en passant target
	EnPassant          // pawn capture of a pawn that just Jumped
	QueenSideCastle
	KingSideCastle
	Capture
	Promotion
	CapturePromotion
)

func (t MoveType) IsCapture() bool {
	return t == Capture || t == CapturePromotion || t == EnPassant
}

func (t MoveType) IsCastle() bool {
	return t == QueenSideCastle || t == KingSideCastle
}

func (t MoveType) IsPromotion() bool {
	return t == Promotion || t == CapturePromotion
}

// Move represents a not-necessarily-legal move along with the metadata make-move and
// Zobrist updates need: the piece moved, and (where applicable) the captured piece and
// the promoted-to piece. A null move (NullMove) is the zero Move, with From==To.
type Move struct {
	Type      MoveType
	From, To  Square
	Piece     Piece // piece being moved
	Promotion Piece // desired piece for a promotion; meaningful only if Type.IsPromotion()
	Capture   Piece // captured piece; meaningful only if Type.IsCapture()
	Score     Score
}

// NullMove is the zero Move. Move generation never produces it and the search never
// plays it; the engine loop reports it as the best move when the side to move has no
// legal move.
var NullMove = Move{}

func (m Move) IsNull() bool {
	return m.From == m.To
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "a2a4" or
// "a7a8q". The parsed move carries no contextual metadata (piece/capture/type); resolve
// those against a specific position before making the move.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: %q", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from: %q: %w", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to: %q: %w", str, err)
	}

	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion: %q", str)
		}
		return Move{From: from, To: to, Promotion: promo}, nil
	}

	return Move{From: from, To: to}, nil
}

func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// String formats the move in pure algebraic coordinate notation.
func (m Move) String() string {
	if m.Type.IsPromotion() {
		return fmt.Sprintf("%v%v%v", m.From, m.To, m.Promotion)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// EnPassantCapture returns the square of the pawn captured by an EnPassant move. Only
// meaningful if m.Type == EnPassant.
func (m Move) EnPassantCapture() (Square, bool) {
	if m.Type != EnPassant {
		return ZeroSquare, false
	}
	return NewSquare(m.To.File(), m.From.Rank()), true
}

// EnPassantTarget returns the new en passant target square created by a Jump move. Only
// meaningful if m.Type == Jump.
func (m Move) EnPassantTarget() (Square, bool) {
	if m.Type != Jump {
		return ZeroSquare, false
	}
	mid := (m.From.Rank() + m.To.Rank()) / 2
	return NewSquare(m.From.File(), mid), true
}

// CastlingRookMove returns the rook's from/to squares for a castling move. Only
// meaningful if m.Type.IsCastle().
func (m Move) CastlingRookMove() (from, to Square, ok bool) {
	switch m.Type {
	case KingSideCastle:
		return NewSquare(FileH, m.From.Rank()), NewSquare(FileF, m.From.Rank()), true
	case QueenSideCastle:
		return NewSquare(FileA, m.From.Rank()), NewSquare(FileD, m.From.Rank()), true
	default:
		return ZeroSquare, ZeroSquare, false
	}
}

// CastlingRightsLost returns the castling rights, if any, that this move permanently
// revokes: a king move revokes both rights for its side; a rook move or a rook capture
// on a home square revokes that side's right.
func (m Move) CastlingRightsLost() Castling {
	var lost Castling

	switch m.Piece {
	case King:
		switch m.From {
		case E1:
			lost |= WhiteKingSideCastle | WhiteQueenSideCastle
		case E8:
			lost |= BlackKingSideCastle | BlackQueenSideCastle
		}
	case Rook:
		lost |= castlingRightAt(m.From)
	}

	if m.Type.IsCapture() && m.Capture == Rook {
		lost |= castlingRightAt(m.To)
	}

	return lost
}

func castlingRightAt(sq Square) Castling {
	switch sq {
	case A1:
		return WhiteQueenSideCastle
	case H1:
		return WhiteKingSideCastle
	case A8:
		return BlackQueenSideCastle
	case H8:
		return BlackKingSideCastle
	default:
		return 0
	}
}
