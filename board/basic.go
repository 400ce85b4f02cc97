//go:generate stringer -type Figure
//go:generate stringer -type Color

// Package board implements the chess board, bitboard attack tables and
// fully legal move generation.
package board

import "fmt"

var errInvalidSquare = fmt.Errorf("invalid square")

// Square identifies a location on the board, 0 = a1, 63 = h8.
type Square uint8

const (
	SquareA1 Square = iota
	SquareB1
	SquareC1
	SquareD1
	SquareE1
	SquareF1
	SquareG1
	SquareH1
	SquareA2
	SquareB2
	SquareC2
	SquareD2
	SquareE2
	SquareF2
	SquareG2
	SquareH2
	SquareA3
	SquareB3
	SquareC3
	SquareD3
	SquareE3
	SquareF3
	SquareG3
	SquareH3
	SquareA4
	SquareB4
	SquareC4
	SquareD4
	SquareE4
	SquareF4
	SquareG4
	SquareH4
	SquareA5
	SquareB5
	SquareC5
	SquareD5
	SquareE5
	SquareF5
	SquareG5
	SquareH5
	SquareA6
	SquareB6
	SquareC6
	SquareD6
	SquareE6
	SquareF6
	SquareG6
	SquareH6
	SquareA7
	SquareB7
	SquareC7
	SquareD7
	SquareE7
	SquareF7
	SquareG7
	SquareH7
	SquareA8
	SquareB8
	SquareC8
	SquareD8
	SquareE8
	SquareF8
	SquareG8
	SquareH8

	SquareArraySize = int(iota)
	SquareMinValue  = SquareA1
	SquareMaxValue  = SquareH8
)

// NoSquare is used where an optional square is absent (e.g. no en passant).
// SquareA1 can never be an en passant target so the alias is safe.
const NoSquare = SquareA1

// RankFile returns the square with rank r and file f, both 0 through 7.
func RankFile(r, f int) Square {
	return Square(r*8 + f)
}

// SquareFromString parses a square in standard [a-h][1-8] format.
func SquareFromString(s string) (Square, error) {
	if len(s) != 2 {
		return SquareA1, errInvalidSquare
	}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return SquareA1, errInvalidSquare
	}
	return RankFile(int(s[1]-'1'), int(s[0]-'a')), nil
}

// Bitboard returns a bitboard with only sq set.
func (sq Square) Bitboard() Bitboard {
	return 1 << uint(sq)
}

// Rank returns a number from 0 to 7 representing the rank of the square.
func (sq Square) Rank() int {
	return int(sq / 8)
}

// File returns a number from 0 to 7 representing the file of the square.
func (sq Square) File() int {
	return int(sq % 8)
}

// POV returns the square from the point of view of side.
// White's POV is the identity; Black's flips the board vertically.
func (sq Square) POV(side Color) Square {
	return sq ^ povMask[side]
}

// Mirror flips the square horizontally (a-file becomes h-file).
func (sq Square) Mirror() Square {
	return sq ^ 7
}

func (sq Square) String() string {
	return string([]byte{
		byte(sq.File() + 'a'),
		byte(sq.Rank() + '1'),
	})
}

// Figure represents a piece without a color.
type Figure uint8

const (
	NoFigure Figure = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King

	FigureArraySize = int(iota)
	FigureMinValue  = Pawn
	FigureMaxValue  = King
)

// Color represents a side.
type Color uint8

const (
	NoColor Color = iota
	White
	Black

	ColorArraySize = int(iota)
	ColorMinValue  = White
	ColorMaxValue  = Black
)

var (
	povMask      = [ColorArraySize]Square{0, 0, 56}
	colorWeight  = [ColorArraySize]int32{0, 1, -1}
	kingHomeRank = [ColorArraySize]int{0, 0, 7}
)

// Opposite returns the other side.
// Result is undefined if c is not White or Black.
func (c Color) Opposite() Color {
	return White + Black - c
}

// Multiplier returns +1 for White, -1 for Black.
func (c Color) Multiplier() int32 {
	return colorWeight[c]
}

// KingHomeRank returns the king's rank in the starting position.
func (c Color) KingHomeRank() int {
	return kingHomeRank[c]
}

// Piece is a figure owned by one side.
type Piece uint8

const (
	NoPiece Piece = 0

	PieceArraySize = int(King)<<2 + int(Black) + 1
	PieceMinValue  = Piece(Pawn<<2) + Piece(White)
	PieceMaxValue  = Piece(King<<2) + Piece(Black)
)

// ColorFigure returns the piece with color col and figure fig.
func ColorFigure(col Color, fig Figure) Piece {
	return Piece(fig<<2) + Piece(col)
}

// Color returns the piece's color.
func (pi Piece) Color() Color {
	return Color(pi & 3)
}

// Figure returns the piece's figure.
func (pi Piece) Figure() Figure {
	return Figure(pi >> 2)
}

var pieceToSymbol = map[Piece]byte{
	NoPiece:                    '.',
	ColorFigure(White, Pawn):   'P',
	ColorFigure(White, Knight): 'N',
	ColorFigure(White, Bishop): 'B',
	ColorFigure(White, Rook):   'R',
	ColorFigure(White, Queen):  'Q',
	ColorFigure(White, King):   'K',
	ColorFigure(Black, Pawn):   'p',
	ColorFigure(Black, Knight): 'n',
	ColorFigure(Black, Bishop): 'b',
	ColorFigure(Black, Rook):   'r',
	ColorFigure(Black, Queen):  'q',
	ColorFigure(Black, King):   'k',
}

var symbolToPiece = map[byte]Piece{}

func init() {
	for pi, sym := range pieceToSymbol {
		if pi != NoPiece {
			symbolToPiece[sym] = pi
		}
	}
}

// Castle is a mask of remaining castling rights.
type Castle uint8

const (
	// WhiteOO says White can castle king side.
	WhiteOO Castle = 1 << iota
	// WhiteOOO says White can castle queen side.
	WhiteOOO
	// BlackOO says Black can castle king side.
	BlackOO
	// BlackOOO says Black can castle queen side.
	BlackOOO

	NoCastle  Castle = 0
	AnyCastle Castle = WhiteOO | WhiteOOO | BlackOO | BlackOOO

	CastleArraySize = int(AnyCastle + 1)
)

var castleToSymbol = [...]struct {
	castle Castle
	symbol byte
}{
	{WhiteOO, 'K'},
	{WhiteOOO, 'Q'},
	{BlackOO, 'k'},
	{BlackOOO, 'q'},
}

func (c Castle) String() string {
	if c == NoCastle {
		return "-"
	}
	var r []byte
	for _, cs := range castleToSymbol {
		if c&cs.castle != 0 {
			r = append(r, cs.symbol)
		}
	}
	return string(r)
}
