// Copyright 2021-2025 The Tern Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// eval.go implements the static evaluation. Scores are accumulated as
// (midgame, endgame) pairs from the parameter vector and blended by the
// game phase, so the evaluation is linear in the parameters and can be
// tuned offline.

package engine

import "github.com/ternengine/tern/board"

// bbCenter are the four central squares.
const bbCenter = board.Bitboard(0x0000001818000000)

// Evaluator evaluates positions. Each search worker owns one so the pawn
// cache is never shared between threads.
type Evaluator struct {
	pawnTable pawnTable
}

// scratchpad collects evaluation state for one side.
type scratchpad struct {
	us            board.Color
	kingSq        board.Square
	theirKingSq   board.Square
	theirKingArea board.Bitboard
	exclude       board.Bitboard // excluded from mobility: own pawns, squares hit by enemy pawns

	accum       Accum
	attackers   int32 // pieces attacking the enemy king area
	attackValue int32 // accumulated strength of that attack
}

// Evaluate returns the score in centipawns from the side to move's
// perspective.
func (ev *Evaluator) Evaluate(pos *board.Position) int32 {
	score, _ := ev.EvaluateWithPhase(pos)
	return score
}

// EvaluateWithPhase returns the side to move score together with the game
// phase, which the search needs for delta pruning.
func (ev *Evaluator) EvaluateWithPhase(pos *board.Position) (int32, int32) {
	accum := ev.evaluateWhite(pos)
	phase := Phase(pos)
	return blend(accum, phase) * pos.Us().Multiplier(), phase
}

// EvaluateWhite returns the blended score from White's point of view.
// Exported for the tuner and the symmetry tests.
func (ev *Evaluator) EvaluateWhite(pos *board.Position) int32 {
	return blend(ev.evaluateWhite(pos), Phase(pos))
}

func (ev *Evaluator) evaluateWhite(pos *board.Position) Accum {
	white, black := ev.pawnTable.load(pos)

	wPad := newScratchpad(pos, board.White)
	bPad := newScratchpad(pos, board.Black)
	wPad.accum.merge(white)
	bPad.accum.merge(black)

	evaluateSide(pos, &wPad)
	evaluateSide(pos, &bPad)

	var accum Accum
	accum.merge(wPad.accum)
	accum.deduct(bPad.accum)
	accum.addN(wTempo, pos.Us().Multiplier())

	applyScaleFactors(pos, &accum)
	return accum
}

func newScratchpad(pos *board.Position, us board.Color) scratchpad {
	them := us.Opposite()
	theirKingSq := pos.ByPiece(them, board.King).AsSquare()
	return scratchpad{
		us:            us,
		kingSq:        pos.ByPiece(us, board.King).AsSquare(),
		theirKingSq:   theirKingSq,
		theirKingArea: board.KingAttacks(theirKingSq) | theirKingSq.Bitboard(),
		exclude:       pos.ByPiece(us, board.Pawn) | pos.PawnThreats(them),
	}
}

// kingAttack records fig attacking the enemy king area with the given
// attack set, including any safe checks it threatens.
func (pad *scratchpad) kingAttack(fig board.Figure, att, safeChecks board.Bitboard) {
	attackValue, checkValue := Score{}, Score{}
	switch fig {
	case board.Knight:
		attackValue, checkValue = wKnightAttackValue, wKnightCheckValue
	case board.Bishop:
		attackValue, checkValue = wBishopAttackValue, wBishopCheckValue
	case board.Rook:
		attackValue, checkValue = wRookAttackValue, wRookCheckValue
	case board.Queen:
		attackValue, checkValue = wQueenAttackValue, wQueenCheckValue
	}
	if zone := att & pad.theirKingArea; zone != 0 {
		pad.attackers++
		pad.attackValue += attackValue.M * zone.CountMax2()
	}
	pad.attackValue += checkValue.M * safeChecks.Count()
}

func evaluateSide(pos *board.Position, pad *scratchpad) {
	us := pad.us
	them := us.Opposite()
	occ := pos.Occupancy()
	ours := pos.ByColor[us]
	ownPawns := pos.ByPiece(us, board.Pawn).Count()

	// Squares from which a piece would give check, and which are not
	// covered by an enemy pawn: used for the safe check terms.
	safe := ^pos.PawnThreats(them) & ^ours
	knightChecks := board.KnightAttacks(pad.theirKingSq) & safe
	bishopChecks := board.BishopAttacks(pad.theirKingSq, occ) & safe
	rookChecks := board.RookAttacks(pad.theirKingSq, occ) & safe

	// Pawn terms that depend on more than the pawn structure.
	pawns := pos.ByPiece(us, board.Pawn)
	pad.accum.addN(wPawnMobility, (board.Forward(us, pawns) &^ occ).Count())
	pad.accum.addN(wPawnAttackCenter, (pos.PawnThreats(us) & bbCenter).Count())
	evaluatePassed(pos, pad)

	// Knights.
	for bb := pos.ByPiece(us, board.Knight); bb != 0; {
		sq := bb.Pop()
		pov := sq.POV(us)
		att := board.KnightAttacks(sq)
		pad.accum.add(wFigure[board.Knight])
		pad.accum.add(wPSQT[board.Knight][pov])
		pad.accum.add(wKnightValueWithPawns[ownPawns])
		pad.accum.add(wKnightMobility[min((att&^pad.exclude).Count(), int32(len(wKnightMobility)-1))])
		if pos.PawnThreats(us).Has(sq) {
			pad.accum.add(wKnightSupported)
			// An outpost cannot be chased away by an enemy pawn.
			front := board.ForwardSpan(us, board.East(sq.Bitboard())|board.West(sq.Bitboard()))
			if front&pos.ByPiece(them, board.Pawn) == 0 {
				pad.accum.add(wKnightOutpost[pov])
			}
		}
		pad.kingAttack(board.Knight, att, att&knightChecks)
	}

	// Bishops.
	numBishops := int32(0)
	for bb := pos.ByPiece(us, board.Bishop); bb != 0; {
		sq := bb.Pop()
		numBishops++
		att := board.BishopAttacks(sq, occ)
		pad.accum.add(wFigure[board.Bishop])
		pad.accum.add(wPSQT[board.Bishop][sq.POV(us)])
		pad.accum.add(wBishopMobility[min((att&^pad.exclude).Count(), int32(len(wBishopMobility)-1))])
		adjacent := board.PawnAttacks(board.White, sq) | board.PawnAttacks(board.Black, sq)
		pad.accum.add(wBishopAdjacentPawns[min((adjacent&pawns).Count(), int32(len(wBishopAdjacentPawns)-1))])
		pad.kingAttack(board.Bishop, att, att&bishopChecks)
	}
	if numBishops >= 2 {
		pad.accum.add(wBishopPair)
	}

	// Rooks.
	for bb := pos.ByPiece(us, board.Rook); bb != 0; {
		sq := bb.Pop()
		att := board.RookAttacks(sq, occ)
		pad.accum.add(wFigure[board.Rook])
		pad.accum.add(wPSQT[board.Rook][sq.POV(us)])
		pad.accum.add(wRookMobility[min((att&^pad.exclude).Count(), int32(len(wRookMobility)-1))])
		file := board.FileBb(sq.File())
		if pawns&file == 0 {
			if pos.ByPiece(them, board.Pawn)&file == 0 {
				pad.accum.add(wRookOnOpenFile)
			} else {
				pad.accum.add(wRookOnSemiOpenFile)
			}
		}
		if sq.POV(us).Rank() == 6 {
			pad.accum.add(wRookOnSeventh)
		}
		pad.kingAttack(board.Rook, att, att&rookChecks)
	}

	// Queens.
	for bb := pos.ByPiece(us, board.Queen); bb != 0; {
		sq := bb.Pop()
		att := board.QueenAttacks(sq, occ)
		pad.accum.add(wFigure[board.Queen])
		pad.accum.add(wPSQT[board.Queen][sq.POV(us)])
		pad.accum.add(wQueenMobility[min((att&^pad.exclude).Count(), int32(len(wQueenMobility)-1))])
		file := board.FileBb(sq.File())
		if pawns&file == 0 {
			if pos.ByPiece(them, board.Pawn)&file == 0 {
				pad.accum.add(wQueenOnOpenFile)
			} else {
				pad.accum.add(wQueenOnSemiOpenFile)
			}
		}
		pad.kingAttack(board.Queen, att, att&(bishopChecks|rookChecks))
	}

	// King.
	pad.accum.add(wPSQT[board.King][pad.kingSq.POV(us)])

	// Feed the accumulated attack through the safety curve.
	weight := wKingAttackWeight[min(pad.attackers, int32(len(wKingAttackWeight)-1))].M
	idx := min(max(pad.attackValue*weight/100, 0), int32(len(wSafetyTable)-1))
	pad.accum.add(wSafetyTable[idx])
}

// evaluatePassed scores the passed pawns of pad.us. These terms depend on
// the kings and rooks so they stay outside the pawn cache.
func evaluatePassed(pos *board.Position, pad *scratchpad) {
	us := pad.us
	them := us.Opposite()
	theirPawns := pos.ByPiece(them, board.Pawn)
	occ := pos.Occupancy()

	for bb := pos.ByPiece(us, board.Pawn); bb != 0; {
		sq := bb.Pop()
		sqBb := sq.Bitboard()
		front := board.ForwardSpan(us, board.West(sqBb)|sqBb|board.East(sqBb))
		if front&theirPawns != 0 {
			continue
		}

		rank := sq.POV(us).Rank()
		pad.accum.add(wPassedPawn[rank])

		stop := board.Forward(us, sqBb)
		if stop&occ == 0 {
			pad.accum.add(wPassedPawnNotBlocked[rank])
		}

		ownDist := board.Distance(pad.kingSq, sq)
		enemyDist := board.Distance(pad.theirKingSq, sq)
		pad.accum.add(wPassedKingDistance[ownDist-1])
		pad.accum.add(wPassedEnemyKingDist[enemyDist-1])
		pad.accum.add(wPassedSubDistance[min(max(enemyDist-ownDist+6, 0), 12)])

		if !pos.PawnThreats(us).Has(sq) {
			pad.accum.add(wPassedWeak)
		}

		behind := board.BackwardSpan(us, sqBb)
		if behind&pos.ByPiece(us, board.Rook) != 0 {
			pad.accum.add(wRookBehindOwnPasser)
		}
		if behind&pos.ByPiece(them, board.Rook) != 0 {
			pad.accum.add(wRookBehindEnemyPasser)
		}
	}
}

// nonPawnMaterial is a rough material count in pawn units.
func nonPawnMaterial(pos *board.Position, col board.Color) int32 {
	return pos.ByPiece(col, board.Knight).Count()*3 +
		pos.ByPiece(col, board.Bishop).Count()*3 +
		pos.ByPiece(col, board.Rook).Count()*5 +
		pos.ByPiece(col, board.Queen).Count()*9
}

// applyScaleFactors dampens slightly winning endgames: without pawns a
// small material edge rarely converts, and the defender may give back
// material to reach a dead draw.
func applyScaleFactors(pos *board.Position, accum *Accum) {
	leader := board.White
	if accum.E < 0 {
		leader = board.Black
	} else if accum.E == 0 {
		return
	}

	if pos.ByPiece(leader, board.Pawn) != 0 {
		return
	}
	lead := nonPawnMaterial(pos, leader) - nonPawnMaterial(pos, leader.Opposite())
	if lead < 0 {
		lead = -lead
	}
	if lead <= 3 {
		accum.E = accum.E * wSlightlyWinningNoPawn.M / 100
	} else if lead <= 6 && pos.MinorsAndMajors(leader.Opposite()) != 0 {
		accum.E = accum.E * wSlightlyWinningCanSac.M / 100
	}
}
