// fen.go implements parsing and formatting of Forsyth-Edwards Notation.
// http://en.wikipedia.org/wiki/Forsyth%E2%80%93Edwards_Notation

package board

import (
	"fmt"
	"strconv"
	"strings"
)

// PositionFromFEN parses a 6-field FEN string and returns the position.
func PositionFromFEN(fen string) (*Position, error) {
	f := strings.Fields(fen)
	if len(f) != 6 {
		return nil, fmt.Errorf("fen has %d fields, expected 6", len(f))
	}

	pos := NewPosition()
	if err := parsePiecePlacement(f[0], pos); err != nil {
		return nil, err
	}
	if err := parseSideToMove(f[1], pos); err != nil {
		return nil, err
	}
	if err := parseCastlingAbility(f[2], pos); err != nil {
		return nil, err
	}
	if err := parseEnpassantSquare(f[3], pos); err != nil {
		return nil, err
	}
	var err error
	if pos.curr.halfMoveClock, err = strconv.Atoi(f[4]); err != nil {
		return nil, fmt.Errorf("invalid half move clock %q", f[4])
	}
	if pos.FullMoveNumber, err = strconv.Atoi(f[5]); err != nil {
		return nil, fmt.Errorf("invalid full move number %q", f[5])
	}
	return pos, nil
}

func parsePiecePlacement(s string, pos *Position) error {
	r, f := 7, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '/':
			if f != 8 || r == 0 {
				return fmt.Errorf("unexpected rank separator")
			}
			r, f = r-1, 0
		case '1' <= c && c <= '8':
			f += int(c - '0')
			if f > 8 {
				return fmt.Errorf("rank %d too long", r+1)
			}
		default:
			pi, ok := symbolToPiece[c]
			if !ok {
				return fmt.Errorf("unknown piece symbol %q", c)
			}
			if f >= 8 {
				return fmt.Errorf("rank %d too long", r+1)
			}
			pos.Put(RankFile(r, f), pi)
			f++
		}
	}
	if r != 0 || f != 8 {
		return fmt.Errorf("incomplete piece placement")
	}
	return nil
}

func parseSideToMove(s string, pos *Position) error {
	switch s {
	case "w":
		pos.SetSideToMove(White)
	case "b":
		pos.SetSideToMove(Black)
	default:
		return fmt.Errorf("invalid side to move %q", s)
	}
	return nil
}

func parseCastlingAbility(s string, pos *Position) error {
	if s == "-" {
		return nil
	}
	castle := NoCastle
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'K':
			castle |= WhiteOO
		case 'Q':
			castle |= WhiteOOO
		case 'k':
			castle |= BlackOO
		case 'q':
			castle |= BlackOOO
		default:
			return fmt.Errorf("invalid castling ability %q", s)
		}
	}
	pos.SetCastlingAbility(castle)
	return nil
}

func parseEnpassantSquare(s string, pos *Position) error {
	if s == "-" {
		return nil
	}
	sq, err := SquareFromString(s)
	if err != nil {
		return err
	}
	if sq.Rank() != 2 && sq.Rank() != 5 {
		return fmt.Errorf("invalid en passant square %q", s)
	}
	pos.SetEnpassantSquare(sq)
	return nil
}

// String formats the position as a 6-field FEN string.
// PositionFromFEN followed by String is the identity on valid input.
func (pos *Position) String() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			pi := pos.Get(RankFile(r, f))
			if pi == NoPiece {
				empty++
				continue
			}
			if empty != 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pieceToSymbol[pi])
		}
		if empty != 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r != 0 {
			sb.WriteByte('/')
		}
	}

	if pos.SideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(pos.CastlingAbility().String())
	sb.WriteByte(' ')
	if sq := pos.EnpassantSquare(); sq != NoSquare {
		sb.WriteString(sq.String())
	} else {
		sb.WriteByte('-')
	}
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.HalfMoveClock()))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.FullMoveNumber))
	return sb.String()
}

// UCIToMove converts a move in UCI coordinate notation to a Move valid for
// the current position. Returns an error if the move is not legal.
func (pos *Position) UCIToMove(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NullMove, fmt.Errorf("invalid move %q", s)
	}
	from, err := SquareFromString(s[0:2])
	if err != nil {
		return NullMove, err
	}
	to, err := SquareFromString(s[2:4])
	if err != nil {
		return NullMove, err
	}
	var promo Figure
	if len(s) == 5 {
		pi, ok := symbolToPiece[s[4]]
		if !ok {
			return NullMove, fmt.Errorf("invalid promotion in %q", s)
		}
		promo = pi.Figure()
	}

	var ml MoveList
	pos.GenerateMoves(All, &ml)
	for i := 0; i < ml.Size; i++ {
		m := ml.Moves[i]
		if m.From() == from && m.To() == to && m.Promotion().Figure() == promo {
			return m, nil
		}
	}
	return NullMove, fmt.Errorf("move %q is not legal", s)
}
