// movegen.go generates fully legal moves. King safety is analyzed up
// front (checkers, pin rays, evasion masks) so no make/unmake legality
// filtering is needed afterwards.

package board

// Move generation kinds.
const (
	// Violent selects captures, en passants and promotions
	// (underpromotions included). While in check it falls back to all
	// check evasions.
	Violent int = 1 << iota
	// Quiet adds the remaining moves, castling included, so that
	// Violent|Quiet is All. On its own it leaves out only pawn captures,
	// en passants and promotions: king and piece captures are still
	// emitted.
	Quiet
	// All selects all legal moves.
	All = Violent | Quiet
)

// GenerateMoves appends to ml all legal moves of the given kind.
// Every emitted move leaves the own king out of check and no legal move
// of the requested kind is omitted.
//
// Positions that break the Position invariants (e.g. both kings in
// check) yield undefined results.
func (pos *Position) GenerateMoves(kind int, ml *MoveList) {
	ml.Clear()

	us, them := pos.Us(), pos.Them()
	ours, theirs := pos.ByColor[us], pos.ByColor[them]
	occ := ours | theirs
	kingSq := pos.ByPiece(us, King).AsSquare()

	// The enemy attack map is computed with the sliders seeing through
	// our king, otherwise the king could step backwards along a
	// checking ray into an "unattacked" square.
	attacked := pos.attackMap(them, occ&^kingSq.Bitboard())

	checkers := pos.AttackersTo(kingSq, occ) & theirs
	inCheck := checkers != 0

	kingTargets := KingAttacks(kingSq) &^ ours &^ attacked
	if !inCheck && kind&Quiet == 0 {
		kingTargets &= theirs
	}
	kingPiece := ColorFigure(us, King)
	for bb := kingTargets; bb != 0; {
		to := bb.Pop()
		ml.Add(MakeMove(Normal, kingSq, to, pos.Get(to), kingPiece))
	}

	// Under double check only the king may move.
	if checkers.CountMax2() == 2 {
		return
	}

	genKind := kind
	allowed := BbFull
	if inCheck {
		// A single checker can be captured or, if it slides, blocked.
		// Restricting the search to captures still has to consider
		// every evasion.
		genKind = All
		allowed = checkers | Between(kingSq, checkers.AsSquare())
	}

	pinned := pos.pinned(us, kingSq, occ)

	pos.genPawnMoves(genKind, allowed, pinned, kingSq, ml)
	pos.genPieceMoves(genKind, allowed, pinned, kingSq, ml)

	if !inCheck && kind&Quiet != 0 {
		pos.genCastles(attacked, ml)
	}
}

// HasLegalMoves returns true if the side to move has at least one legal
// move.
func (pos *Position) HasLegalMoves() bool {
	var ml MoveList
	pos.GenerateMoves(All, &ml)
	return ml.Size != 0
}

// attackMap returns all squares attacked by side given occupancy occ.
func (pos *Position) attackMap(side Color, occ Bitboard) Bitboard {
	att := pos.PawnThreats(side)
	for bb := pos.ByPiece(side, Knight); bb != 0; {
		att |= KnightAttacks(bb.Pop())
	}
	for bb := pos.ByPiece2(side, Bishop, Queen); bb != 0; {
		att |= BishopAttacks(bb.Pop(), occ)
	}
	for bb := pos.ByPiece2(side, Rook, Queen); bb != 0; {
		att |= RookAttacks(bb.Pop(), occ)
	}
	att |= KingAttacks(pos.ByPiece(side, King).AsSquare())
	return att
}

// pinned returns us's pieces that are absolutely pinned to the king on
// kingSq. For every enemy slider aligned with the king, the single piece
// of ours standing between them is pinned.
func (pos *Position) pinned(us Color, kingSq Square, occ Bitboard) Bitboard {
	them := us.Opposite()
	snipers := pos.ByPiece2(them, Rook, Queen)&RookAttacks(kingSq, BbEmpty) |
		pos.ByPiece2(them, Bishop, Queen)&BishopAttacks(kingSq, BbEmpty)

	var pinned Bitboard
	for bb := snipers; bb != 0; {
		sniper := bb.Pop()
		between := Between(kingSq, sniper) & occ
		if between != 0 && between&(between-1) == 0 && between&pos.ByColor[us] != 0 {
			pinned |= between
		}
	}
	return pinned
}

func (pos *Position) genPawnMoves(kind int, allowed, pinned Bitboard, kingSq Square, ml *MoveList) {
	us, them := pos.Us(), pos.Them()
	occ := pos.Occupancy()
	theirs := pos.ByColor[them]
	pawn := ColorFigure(us, Pawn)

	forward := 8
	promoRank, startRank := BbRank8, BbRank2
	if us == Black {
		forward = -8
		promoRank, startRank = BbRank1, BbRank7
	}

	ep := pos.EnpassantSquare()

	for bb := pos.ByPiece(us, Pawn); bb != 0; {
		from := bb.Pop()
		restrict := BbFull
		if pinned.Has(from) {
			restrict = Line(kingSq, from)
		}
		target := allowed & restrict

		// Pushes. Promotions are generated even in captures-only mode.
		to := Square(int(from) + forward)
		if !occ.Has(to) {
			if to.Bitboard()&promoRank != 0 {
				if kind&Violent != 0 && target.Has(to) {
					for fig := Queen; fig >= Knight; fig-- {
						ml.Add(MakeMove(Promotion, from, to, NoPiece, ColorFigure(us, fig)))
					}
				}
			} else if kind&Quiet != 0 {
				if target.Has(to) {
					ml.Add(MakeMove(Normal, from, to, NoPiece, pawn))
				}
				if from.Bitboard()&startRank != 0 {
					to2 := Square(int(to) + forward)
					if !occ.Has(to2) && target.Has(to2) {
						ml.Add(MakeMove(Normal, from, to2, NoPiece, pawn))
					}
				}
			}
		}

		if kind&Violent == 0 {
			continue
		}

		// Captures.
		for caps := PawnAttacks(us, from) & theirs & target; caps != 0; {
			to := caps.Pop()
			capture := pos.Get(to)
			if to.Bitboard()&promoRank != 0 {
				for fig := Queen; fig >= Knight; fig-- {
					ml.Add(MakeMove(Promotion, from, to, capture, ColorFigure(us, fig)))
				}
			} else {
				ml.Add(MakeMove(Normal, from, to, capture, pawn))
			}
		}

		// En passant. The capture is verified by clearing both pawns
		// from the occupancy and testing the king for a discovered
		// slider attack, which also covers the rank check that pin
		// detection cannot see (two pieces leave the ray at once).
		if ep != NoSquare && PawnAttacks(us, from).Has(ep) {
			capSq := RankFile(from.Rank(), ep.File())
			if allowed.Has(ep) || allowed.Has(capSq) {
				occ2 := occ&^from.Bitboard()&^capSq.Bitboard() | ep.Bitboard()
				if RookAttacks(kingSq, occ2)&pos.ByPiece2(them, Rook, Queen) == 0 &&
					BishopAttacks(kingSq, occ2)&pos.ByPiece2(them, Bishop, Queen) == 0 {
					ml.Add(MakeMove(Enpassant, from, ep, ColorFigure(them, Pawn), pawn))
				}
			}
		}
	}
}

func (pos *Position) genPieceMoves(kind int, allowed, pinned Bitboard, kingSq Square, ml *MoveList) {
	us, them := pos.Us(), pos.Them()
	occ := pos.Occupancy()

	mask := allowed &^ pos.ByColor[us]
	if kind&Quiet == 0 {
		mask &= pos.ByColor[them]
	}

	// A pinned knight can never stay on the pin ray.
	pi := ColorFigure(us, Knight)
	for bb := pos.ByPiece(us, Knight) &^ pinned; bb != 0; {
		from := bb.Pop()
		pos.addBitboardMoves(pi, from, KnightAttacks(from)&mask, ml)
	}

	pi = ColorFigure(us, Bishop)
	for bb := pos.ByPiece(us, Bishop); bb != 0; {
		from := bb.Pop()
		att := BishopAttacks(from, occ) & mask
		if pinned.Has(from) {
			att &= Line(kingSq, from)
		}
		pos.addBitboardMoves(pi, from, att, ml)
	}

	pi = ColorFigure(us, Rook)
	for bb := pos.ByPiece(us, Rook); bb != 0; {
		from := bb.Pop()
		att := RookAttacks(from, occ) & mask
		if pinned.Has(from) {
			att &= Line(kingSq, from)
		}
		pos.addBitboardMoves(pi, from, att, ml)
	}

	pi = ColorFigure(us, Queen)
	for bb := pos.ByPiece(us, Queen); bb != 0; {
		from := bb.Pop()
		att := QueenAttacks(from, occ) & mask
		if pinned.Has(from) {
			att &= Line(kingSq, from)
		}
		pos.addBitboardMoves(pi, from, att, ml)
	}
}

func (pos *Position) addBitboardMoves(pi Piece, from Square, att Bitboard, ml *MoveList) {
	for att != 0 {
		to := att.Pop()
		ml.Add(MakeMove(Normal, from, to, pos.Get(to), pi))
	}
}

// genCastles emits castling moves. The caller guarantees the king is not
// in check; the rook and king squares are implied by the castling rights.
func (pos *Position) genCastles(attacked Bitboard, ml *MoveList) {
	us := pos.Us()
	rank := us.KingHomeRank()
	oo, ooo := WhiteOO, WhiteOOO
	if us == Black {
		oo, ooo = BlackOO, BlackOOO
	}

	occ := pos.Occupancy()
	king := ColorFigure(us, King)
	kingSq := RankFile(rank, 4)

	if pos.CastlingAbility()&oo != 0 {
		f, g := RankFile(rank, 5), RankFile(rank, 6)
		if !occ.Has(f) && !occ.Has(g) && !attacked.Has(f) && !attacked.Has(g) {
			ml.Add(MakeMove(Castling, kingSq, g, NoPiece, king))
		}
	}
	if pos.CastlingAbility()&ooo != 0 {
		b, c, d := RankFile(rank, 1), RankFile(rank, 2), RankFile(rank, 3)
		// The b square must be empty but may be attacked: the king
		// never crosses it.
		if !occ.Has(b) && !occ.Has(c) && !occ.Has(d) && !attacked.Has(c) && !attacked.Has(d) {
			ml.Add(MakeMove(Castling, kingSq, c, NoPiece, king))
		}
	}
}
