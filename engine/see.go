// Copyright 2021-2025 The Tern Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// see.go implements static exchange evaluation: resolve all captures on
// one square, each side swapping in its least valuable attacker, and
// return the net material outcome.
//
// https://www.chessprogramming.org/Static_Exchange_Evaluation

package engine

import "github.com/ternengine/tern/board"

// seeValue are the fixed figure values used during the swap off. They are
// deliberately independent of the tuned evaluation parameters.
var seeValue = [board.FigureArraySize]int32{0, 100, 300, 310, 500, 900, 30000}

// seeSign returns true if see(m) is certainly not negative, without
// running the full swap off when the captured piece already pays for the
// attacker.
func seeSign(pos *board.Position, m board.Move) bool {
	if m.Piece().Figure() <= m.Capture().Figure() {
		return true
	}
	return see(pos, m) >= 0
}

// see returns the static exchange evaluation of m in centipawns from the
// moving side's perspective. m must be valid for pos but not yet
// executed.
func see(pos *board.Position, m board.Move) int32 {
	var gain [40]int32
	to := m.To()
	us := m.SideToMove()
	them := us.Opposite()

	occ := pos.Occupancy()
	occ &^= m.From().Bitboard()
	occ &^= m.CaptureSquare().Bitboard()
	occ |= to.Bitboard()

	gain[0] = seeValue[m.Capture().Figure()]
	target := seeValue[m.Piece().Figure()]
	if m.MoveType() == board.Promotion {
		promo := seeValue[m.Target().Figure()]
		gain[0] += promo - seeValue[board.Pawn]
		target = promo
	}

	bishops := pos.ByFigure[board.Bishop] | pos.ByFigure[board.Queen]
	rooks := pos.ByFigure[board.Rook] | pos.ByFigure[board.Queen]
	attackers := pos.AttackersTo(to, occ) & occ

	d := 0
	side := them
	for {
		ours := attackers & pos.ByColor[side]
		if ours == 0 {
			break
		}

		// Pick the least valuable attacker.
		var fig board.Figure
		var from board.Bitboard
		for fig = board.Pawn; fig <= board.King; fig++ {
			if from = ours & pos.ByFigure[fig]; from != 0 {
				break
			}
		}
		if fig == board.King && attackers&pos.ByColor[side.Opposite()] != 0 {
			// The king cannot capture into a defended square.
			break
		}

		d++
		gain[d] = target - gain[d-1]
		if max(-gain[d-1], gain[d]) < 0 {
			// Neither continuing nor stopping helps this side.
			break
		}

		// Remove the attacker and reveal the sliders behind it.
		from = from.LSB()
		occ &^= from
		attackers &^= from
		attackers |= (board.BishopAttacks(to, occ)&bishops | board.RookAttacks(to, occ)&rooks) & occ

		target = seeValue[fig]
		side = side.Opposite()
		if d == len(gain)-1 {
			break
		}
	}

	for ; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}
	return gain[0]
}
