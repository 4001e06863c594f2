// Package board contains the bitboard-based chess position representation: squares,
// pieces, bitboards, attack tables, Zobrist hashing, move generation and make-move.
package board

import "fmt"

// File represents a board file, A=0..H=7. 3 bits.
type File uint8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	ZeroFile File = 0
	NumFiles File = 8
)

func (f File) IsValid() bool {
	return f < NumFiles
}

func (f File) String() string {
	return string(rune('a' + f))
}

func ParseFile(r rune) (File, bool) {
	switch {
	case r >= 'a' && r <= 'h':
		return File(r - 'a'), true
	case r >= 'A' && r <= 'H':
		return File(r - 'A'), true
	default:
		return 0, false
	}
}

// Rank represents a board rank, 1=0..8=7. 3 bits.
type Rank uint8

const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

const (
	ZeroRank Rank = 0
	NumRanks Rank = 8
)

func (r Rank) IsValid() bool {
	return r < NumRanks
}

func (r Rank) String() string {
	return string(rune('1' + r))
}

func ParseRank(r rune) (Rank, bool) {
	if r < '1' || r > '8' {
		return 0, false
	}
	return Rank(r - '1'), true
}

// Square is a file-major square index: file*8+rank, 0..63. This layout is load-bearing
// for the sliding-attack algorithm in attacks.go: a file is a contiguous run of 8 bits,
// a rank is strided by 8.
type Square uint8

const (
	ZeroSquare Square = 0
	NumSquares Square = 64
)

// NewSquare packs a file/rank pair into a Square.
func NewSquare(f File, r Rank) Square {
	return Square(f)<<3 | Square(r)
}

func (s Square) File() File {
	return File(s >> 3)
}

func (s Square) Rank() Rank {
	return Rank(s & 0x7)
}

func (s Square) IsValid() bool {
	return s < NumSquares
}

func (s Square) String() string {
	return fmt.Sprintf("%v%v", s.File(), s.Rank())
}

// ParseSquare parses a square from its file and rank runes, e.g. ('e','4').
func ParseSquare(f, r rune) (Square, error) {
	file, ok := ParseFile(f)
	if !ok {
		return 0, fmt.Errorf("invalid file: %q", f)
	}
	rank, ok := ParseRank(r)
	if !ok {
		return 0, fmt.Errorf("invalid rank: %q", r)
	}
	return NewSquare(file, rank), nil
}

// ParseSquareStr parses a square from its two-character string form, e.g. "e4".
func ParseSquareStr(str string) (Square, error) {
	runes := []rune(str)
	if len(runes) != 2 {
		return 0, fmt.Errorf("invalid square: %q", str)
	}
	return ParseSquare(runes[0], runes[1])
}

// Named squares, for readability in tests and constant tables.
const (
	A1 = Square(0*8 + 0)
	A2 = Square(0*8 + 1)
	A3 = Square(0*8 + 2)
	A4 = Square(0*8 + 3)
	A5 = Square(0*8 + 4)
	A6 = Square(0*8 + 5)
	A7 = Square(0*8 + 6)
	A8 = Square(0*8 + 7)

	B1 = Square(1*8 + 0)
	B2 = Square(1*8 + 1)
	B3 = Square(1*8 + 2)
	B4 = Square(1*8 + 3)
	B5 = Square(1*8 + 4)
	B6 = Square(1*8 + 5)
	B7 = Square(1*8 + 6)
	B8 = Square(1*8 + 7)

	C1 = Square(2*8 + 0)
	C2 = Square(2*8 + 1)
	C3 = Square(2*8 + 2)
	C4 = Square(2*8 + 3)
	C5 = Square(2*8 + 4)
	C6 = Square(2*8 + 5)
	C7 = Square(2*8 + 6)
	C8 = Square(2*8 + 7)

	D1 = Square(3*8 + 0)
	D2 = Square(3*8 + 1)
	D3 = Square(3*8 + 2)
	D4 = Square(3*8 + 3)
	D5 = Square(3*8 + 4)
	D6 = Square(3*8 + 5)
	D7 = Square(3*8 + 6)
	D8 = Square(3*8 + 7)

	E1 = Square(4*8 + 0)
	E2 = Square(4*8 + 1)
	E3 = Square(4*8 + 2)
	E4 = Square(4*8 + 3)
	E5 = Square(4*8 + 4)
	E6 = Square(4*8 + 5)
	E7 = Square(4*8 + 6)
	E8 = Square(4*8 + 7)

	F1 = Square(5*8 + 0)
	F2 = Square(5*8 + 1)
	F3 = Square(5*8 + 2)
	F4 = Square(5*8 + 3)
	F5 = Square(5*8 + 4)
	F6 = Square(5*8 + 5)
	F7 = Square(5*8 + 6)
	F8 = Square(5*8 + 7)

	G1 = Square(6*8 + 0)
	G2 = Square(6*8 + 1)
	G3 = Square(6*8 + 2)
	G4 = Square(6*8 + 3)
	G5 = Square(6*8 + 4)
	G6 = Square(6*8 + 5)
	G7 = Square(6*8 + 6)
	G8 = Square(6*8 + 7)

	H1 = Square(7*8 + 0)
	H2 = Square(7*8 + 1)
	H3 = Square(7*8 + 2)
	H4 = Square(7*8 + 3)
	H5 = Square(7*8 + 4)
	H6 = Square(7*8 + 5)
	H7 = Square(7*8 + 6)
	H8 = Square(7*8 + 7)
)
