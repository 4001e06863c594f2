// Package eval contains position evaluation logic and utilities.
package eval

import (
	"context"

	"github.com/herohde/eloi/pkg/board"
)

// Evaluator is a static position evaluator. It returns the score from the perspective
// of the side to move: positive favors the mover.
type Evaluator interface {
	Evaluate(ctx context.Context, pos *board.Position, turn board.Color) board.Score
}

// Material returns the nominal material advantage for the side to move.
type Material struct{}

func (Material) Evaluate(ctx context.Context, pos *board.Position, turn board.Color) board.Score {
	var score board.Score
	for p := board.ZeroPiece; p < board.NumPieces; p++ {
		score += board.Score(pos.Pieces(turn, p).PopCount()-pos.Pieces(turn.Opponent(), p).PopCount()) * NominalValue(p)
	}
	return score
}

// NominalValue is the absolute nominal value of a piece, in centipawns, used for move
// ordering and static-exchange reasoning rather than the tapered positional score below.
func NominalValue(p board.Piece) board.Score {
	switch p {
	case board.Pawn:
		return 100
	case board.Knight, board.Bishop:
		return 300
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	case board.King:
		return 10000
	default:
		return 0
	}
}

// NominalValueGain is the nominal material gain of a move.
func NominalValueGain(m board.Move) board.Score {
	switch m.Type {
	case board.CapturePromotion:
		return NominalValue(m.Capture) + NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Promotion:
		return NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Capture:
		return NominalValue(m.Capture)
	case board.EnPassant:
		return NominalValue(board.Pawn)
	default:
		return 0
	}
}

// pieceVal holds the material value of each piece kind used by PieceSquare, indexed by
// board.Piece. The King entry is zero and unused: PieceSquare scores kings only through
// the king tables.
var pieceVal = [board.NumPieces]int16{100, 320, 330, 500, 1000, 0}

// pieceSquareVal holds, per piece kind and square (file-major, White's perspective), the
// positional bonus added to pieceVal. Black squares are mirrored with sq^0o07, which flips
// the rank bits under the file*8+rank numbering without touching the file.
var pieceSquareVal = [board.NumPieces][64]int16{
	{ // Pawn
		0, 5, 4, -5, 5, 10, 70, 0, // a
		0, 10, -5, -2, 7, 15, 70, 0, // b
		0, 10, -5, 2, 10, 20, 70, 0, // c
		0, -25, 5, 15, 20, 30, 70, 0, // d
		0, -30, 4, 16, 20, 30, 70, 0, // e
		0, 10, -10, 0, 10, 20, 70, 0, // f
		0, 10, -5, -2, 7, 15, 70, 0, // g
		0, 5, 4, -5, 5, 10, 70, 0, // h
	},
	{ // Knight
		-40, -30, -20, -20, -20, -20, -30, -40, // a
		-30, -10, 7, 5, 5, 7, -10, -30, // b
		-20, 0, 10, 15, 15, 12, 0, -20, // c
		-20, 5, 12, 20, 25, 15, 0, -20, // d
		-20, 5, 12, 20, 25, 15, 0, -20, // e
		-20, 0, 10, 15, 15, 12, 0, -20, // f
		-30, -10, 7, 5, 5, 7, -10, -30, // g
		-40, -30, -20, -20, -20, -20, -30, -40, // h
	},
	{ // Bishop
		-20, -7, -10, -10, -10, -10, -10, -20, // a
		-10, 5, 13, 5, 5, 0, 0, -10, // b
		-50, 0, 10, 13, 7, 5, 0, -10, // c
		-10, 0, 5, 10, 13, 7, 2, -10, // d
		-10, 0, 5, 10, 10, 10, 2, -10, // e
		-50, 0, 10, 10, 7, 5, 2, -10, // f
		-10, 15, 10, 5, 5, 0, 0, -10, // g
		-20, -10, -10, -10, -10, -10, -7, -20, // h
	},
	{ // Rook
		-20, -10, 10, 10, 10, 10, 20, 10, // a
		-10, 5, 5, 5, 5, 5, 30, 10, // b
		20, 10, 0, 0, 0, 0, 40, 20, // c
		30, 10, 0, 0, 0, 0, 50, 40, // d
		30, 10, 0, 0, 0, 0, 50, 40, // e
		20, 10, 0, 0, 0, 0, 40, 20, // f
		-20, 5, 5, 5, 5, 5, 30, 10, // g
		-30, -10, 10, 10, 10, 10, 20, 10, // h
	},
	{}, // Queen
	{}, // King
}

var midKingTable = [64]int16{
	20, 10, -10, -30, -40, -50, -60, -70, // a
	30, 10, -20, -30, -40, -50, -60, -70, // b
	10, 0, -20, -30, -40, -50, -60, -70, // c
	0, -10, -20, -30, -40, -50, -60, -70, // d
	0, -10, -20, -30, -40, -50, -60, -70, // e
	10, 0, -20, -30, -40, -50, -60, -70, // f
	40, 10, -20, -30, -40, -50, -60, -70, // g
	20, 10, -10, -30, -40, -50, -60, -70, // h
}

var endKingTable = [64]int16{
	-50, -40, -30, -20, -20, -30, -40, -50, // a
	-40, -30, -20, -10, -10, -20, -30, -40, // b
	-30, -20, 20, 30, 30, 20, -20, -30, // c
	-20, -10, 30, 50, 50, 30, -10, -20, // d
	-20, -10, 30, 50, 50, 30, -10, -20, // e
	-30, -20, 20, 30, 30, 20, -20, -30, // f
	-40, -30, -20, -10, -10, -20, -30, -40, // g
	-50, -40, -30, -20, -20, -30, -40, -50, // h
}

// mirror flips a square to the other side's perspective under the file*8+rank numbering:
// the file (high 3 bits) is untouched, the rank (low 3 bits) is reversed.
func mirror(sq board.Square) board.Square {
	return sq ^ 0o07
}

// PieceSquare is a tapered piece-square evaluator: material plus positional tables for
// pawns, knights, bishops and rooks, a king safety table that blends from a middlegame to
// an endgame shape as material comes off the board, and a heuristic KPK/KBK/KNK-style
// scaling-down of scores in drawish material-imbalanced endgames.
type PieceSquare struct{}

func (PieceSquare) Evaluate(ctx context.Context, pos *board.Position, turn board.Color) board.Score {
	var val [board.NumColors]int32
	var totalPieceVal int32

	var knights, bishops [board.NumColors]int
	var goodPieces [board.NumColors]bool

	for _, color := range [...]board.Color{board.White, board.Black} {
		for _, piece := range [...]board.Piece{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen} {
			bb := pos.Pieces(color, piece)
			count := bb.PopCount()
			for bb != 0 {
				var sq board.Square
				sq, bb = bb.Pop()
				if color == board.Black {
					sq = mirror(sq)
				}
				val[color] += int32(pieceVal[piece]) + int32(pieceSquareVal[piece][sq])
			}
			totalPieceVal += int32(count) * int32(pieceVal[piece])

			if count > 0 {
				switch piece {
				case board.Knight:
					knights[color] = count
				case board.Bishop:
					bishops[color] = count
				default:
					goodPieces[color] = true
				}
			}
		}
	}

	for _, color := range [...]board.Color{board.White, board.Black} {
		kings := pos.Pieces(color, board.King)
		sq, _ := kings.Pop()
		if color == board.Black {
			sq = mirror(sq)
		}

		switch {
		case totalPieceVal > 3*int32(pieceVal[board.Queen]):
			val[color] += int32(midKingTable[sq])
		case totalPieceVal > 2*int32(pieceVal[board.Queen]):
			val[color] += (int32(midKingTable[sq]) + int32(endKingTable[sq])) / 2
		default:
			val[color] += int32(endKingTable[sq])
		}
	}

	score := val[turn] - val[turn.Opponent()]

	strongSide := turn
	if score <= 0 {
		strongSide = turn.Opponent()
	}
	weakSide := strongSide.Opponent()

	switch {
	case goodPieces[strongSide] || bishops[strongSide]+knights[strongSide] > 2 || (bishops[strongSide] == 2 && bishops[weakSide] == 0):
		return clampScore(score)
	case goodPieces[weakSide] || bishops[weakSide] > 0 || knights[weakSide] > 0:
		return clampScore(score / 25)
	default:
		return Draw
	}
}

// maxStaticScore saturates static evaluations just below the band reserved for mate
// distances, so a freak material imbalance (many promoted queens) can never be mistaken
// for a forced mate.
const maxStaticScore = Infinity - board.Score(maxMateDistance) - 1

func clampScore(v int32) board.Score {
	switch {
	case v > int32(maxStaticScore):
		return maxStaticScore
	case v < -int32(maxStaticScore):
		return -maxStaticScore
	default:
		return board.Score(v)
	}
}
