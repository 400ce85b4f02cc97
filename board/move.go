package board

// MoveType describes the kind of a move.
type MoveType uint8

const (
	NoMove MoveType = iota
	// Normal covers quiet moves and plain captures.
	Normal
	// Promotion covers promotions with and without capture.
	Promotion
	// Castling moves the king two squares towards a rook.
	Castling
	// Enpassant captures a pawn that just double pushed.
	Enpassant
)

// Move is a position dependent move packed in 32 bits.
//
// Bit layout:
//
//	0- 5  from square
//	6-11  to square
//	12-14 move type
//	15-19 captured piece
//	20-24 target piece, i.e. the piece on the to square after the move
type Move uint32

// NullMove is the empty move, used also to mark a null move in the search.
const NullMove Move = 0

// MakeMove packs a move. target is the piece on the to square after the
// move is executed so for promotions target is the promoted piece.
func MakeMove(mt MoveType, from, to Square, capture, target Piece) Move {
	return Move(from) |
		Move(to)<<6 |
		Move(mt)<<12 |
		Move(capture)<<15 |
		Move(target)<<20
}

// From returns the source square.
func (m Move) From() Square {
	return Square(m & 0x3f)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square(m >> 6 & 0x3f)
}

// MoveType returns the kind of the move.
func (m Move) MoveType() MoveType {
	return MoveType(m >> 12 & 0x7)
}

// Capture returns the captured piece, NoPiece for non-captures.
func (m Move) Capture() Piece {
	return Piece(m >> 15 & 0x1f)
}

// Target returns the piece on the to square after the move.
func (m Move) Target() Piece {
	return Piece(m >> 20 & 0x1f)
}

// SideToMove returns the side making the move.
func (m Move) SideToMove() Color {
	return m.Target().Color()
}

// Piece returns the piece moved.
func (m Move) Piece() Piece {
	if m.MoveType() != Promotion {
		return m.Target()
	}
	return ColorFigure(m.SideToMove(), Pawn)
}

// Promotion returns the promoted piece, NoPiece if the move is not a
// promotion.
func (m Move) Promotion() Piece {
	if m.MoveType() != Promotion {
		return NoPiece
	}
	return m.Target()
}

// CaptureSquare returns the square of the captured piece. For en passant
// the captured pawn is not on the to square.
func (m Move) CaptureSquare() Square {
	if m.MoveType() != Enpassant {
		return m.To()
	}
	return m.From()&0x38 | m.To()&0x7
}

// IsQuiet returns true if the move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return m.Capture() == NoPiece && m.MoveType() != Promotion
}

// IsViolent returns true if the move can change the material balance.
func (m Move) IsViolent() bool {
	return m.Capture() != NoPiece || m.MoveType() == Promotion
}

// Mini packs the move in 16 bits for storage in the transposition table.
// from, to and the promoted figure identify a move uniquely in a given
// position.
func (m Move) Mini() uint16 {
	return uint16(m.From()) | uint16(m.To())<<6 | uint16(m.Promotion().Figure())<<12
}

// UCI formats the move in UCI coordinate notation, e.g. e2e4, e7e8q.
func (m Move) UCI() string {
	s := m.From().String() + m.To().String()
	if p := m.Promotion(); p != NoPiece {
		s += string(pieceToSymbol[ColorFigure(Black, p.Figure())])
	}
	return s
}

func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	return m.UCI()
}

// MoveListCapacity is the maximum number of moves in any legal position.
// 256 gives comfortable slack over the known maximum of 218.
const MoveListCapacity = 256

// MoveList is a fixed capacity list of moves with an ordering score per
// move. Lists are embedded in per-ply search state so generation does not
// allocate.
type MoveList struct {
	Moves  [MoveListCapacity]Move
	Scores [MoveListCapacity]int32
	Size   int
}

// Clear empties the list keeping the backing arrays.
func (ml *MoveList) Clear() {
	ml.Size = 0
}

// Add appends a move with a zero score.
func (ml *MoveList) Add(m Move) {
	ml.Moves[ml.Size] = m
	ml.Size++
}

// Swap exchanges the moves (and scores) at i and j.
func (ml *MoveList) Swap(i, j int) {
	ml.Moves[i], ml.Moves[j] = ml.Moves[j], ml.Moves[i]
	ml.Scores[i], ml.Scores[j] = ml.Scores[j], ml.Scores[i]
}
