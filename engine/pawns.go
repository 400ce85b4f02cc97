// Copyright 2021-2025 The Tern Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// pawns.go evaluates the pawn structure and the king shelter. The result
// depends only on the pawns and kings so it is cached under a hash of
// those bitboards.

package engine

import "github.com/ternengine/tern/board"

// pawnsEntry is a cache entry holding the structure scores of both sides.
type pawnsEntry struct {
	lock  uint64
	white Accum
	black Accum
}

// pawnTable is a small fixed size cache, one per search worker.
type pawnTable [1 << 12]pawnsEntry

func (c *pawnTable) load(pos *board.Position) (Accum, Accum) {
	h := pawnsHash(pos)
	entry := &c[h&uint64(len(c)-1)]
	if entry.lock != h {
		entry.lock = h
		entry.white = evaluatePawnsAndShelter(pos, board.White)
		entry.black = evaluatePawnsAndShelter(pos, board.Black)
	}
	return entry.white, entry.black
}

func pawnsHash(pos *board.Position) uint64 {
	h := murmurSeed
	h = murmurMix(h, uint64(pos.ByPiece2(board.White, board.Pawn, board.King)))
	h = murmurMix(h, uint64(pos.ByPiece2(board.Black, board.Pawn, board.King)))
	return h
}

const murmurSeed uint64 = 0x9e1e6535aad3c4bd

func murmurMix(h, k uint64) uint64 {
	h ^= k
	h *= 0xc6a4a7935bd1e995
	return h ^ h>>47
}

func evaluatePawnsAndShelter(pos *board.Position, us board.Color) Accum {
	var accum Accum
	accum.merge(evaluatePawns(pos, us))
	accum.merge(evaluateShelter(pos, us))
	return accum
}

// aheadMask returns the squares on ranks strictly in front of rank from
// us's point of view, over the whole board width.
func aheadMask(us board.Color, rank int) board.Bitboard {
	if us == board.White {
		return board.BbFull << uint(8*(rank+1))
	}
	return board.BbFull >> uint(8*(8-rank))
}

func evaluatePawns(pos *board.Position, us board.Color) Accum {
	var accum Accum
	them := us.Opposite()
	ours := pos.ByPiece(us, board.Pawn)
	theirs := pos.ByPiece(them, board.Pawn)
	supported := ours & pos.PawnThreats(us)
	doubled := ours & board.Backward(us, ours)
	enemyThreats := pos.PawnThreats(them)

	for bb := ours; bb != 0; {
		sq := bb.Pop()
		pov := sq.POV(us)

		accum.add(wFigure[board.Pawn])
		accum.add(wPSQT[board.Pawn][pov])

		if supported.Has(sq) {
			accum.add(wPawnSupported[pov])
		}
		if doubled.Has(sq) {
			accum.add(wPawnDoubled)
		}

		adjacent := board.AdjacentFilesBb(sq.File()) & ours
		if adjacent == 0 {
			accum.add(wPawnIsolated)
		} else if adjacent&^aheadMask(us, sq.Rank()) == 0 {
			// Every friend on an adjacent file is ahead, so the pawn
			// can never be defended; backward if its stop square is
			// covered by an enemy pawn.
			stop := board.Forward(us, sq.Bitboard())
			if stop&enemyThreats != 0 && stop&theirs == 0 {
				accum.add(wPawnBackward)
			}
		}
	}
	return accum
}

// evaluateShelter penalizes missing shielding pawns in front of the king,
// counted over the king's file and its neighbours. Files that are fully
// open weigh extra.
func evaluateShelter(pos *board.Position, us board.Color) Accum {
	var accum Accum
	them := us.Opposite()
	ours := pos.ByPiece(us, board.Pawn)
	theirs := pos.ByPiece(them, board.Pawn)
	kingSq := pos.ByPiece(us, board.King).AsSquare()

	missing, missingOnOpen := int32(0), int32(0)
	shelterZone := aheadMask(us, kingSq.Rank()) &^ aheadMask(us, shelterLimitRank(us, kingSq))
	for f := kingSq.File() - 1; f <= kingSq.File()+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		file := board.FileBb(f)
		if ours&file&shelterZone != 0 {
			continue
		}
		missing++
		if theirs&file == 0 {
			missingOnOpen++
		}
	}
	accum.add(wShieldMissing[missing])
	accum.add(wShieldMissingOnOpen[missingOnOpen])
	return accum
}

// shelterLimitRank bounds the shelter to the two ranks in front of the
// king.
func shelterLimitRank(us board.Color, kingSq board.Square) int {
	if us == board.White {
		return min(kingSq.Rank()+2, 7)
	}
	return max(kingSq.Rank()-2, 0)
}
