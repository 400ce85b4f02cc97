// Package engine implements position evaluation, the transposition table
// and the parallel iterative-deepening search.
package engine

import (
	"github.com/op/go-logging"

	"github.com/ternengine/tern/board"
)

var log = logging.MustGetLogger("tern")

const (
	// KnownWinScore is strictly greater than all evaluation scores (mates not included).
	KnownWinScore int32 = 25000
	// KnownLossScore is strictly smaller than all evaluation scores (mates not included).
	KnownLossScore = -KnownWinScore
	// MateScore - N is mate in N plies.
	MateScore int32 = 30000
	// MatedScore + N is mated in N plies.
	MatedScore = -MateScore
	// InfinityScore is larger than any possible score.
	InfinityScore int32 = 32000
)

// Score is a pair of mid game and end game values in centipawns.
type Score struct {
	M, E int32
}

// Accum accumulates midgame and endgame feature contributions.
type Accum struct {
	M, E int32
}

func (a *Accum) add(s Score) {
	a.M += s.M
	a.E += s.E
}

func (a *Accum) addN(s Score, n int32) {
	a.M += s.M * n
	a.E += s.E * n
}

func (a *Accum) merge(o Accum) {
	a.M += o.M
	a.E += o.E
}

func (a *Accum) deduct(o Accum) {
	a.M -= o.M
	a.E -= o.E
}

// Phase computes the progress of the game based on the remaining non-pawn
// material. 0 is the opening, 256 is a pawn-only end game. Queens weigh
// most, minors least.
func Phase(pos *board.Position) int32 {
	const total = 4*1 + 4*1 + 4*3 + 2*6
	curr := int32(total)
	curr -= pos.ByFigure[board.Knight].Count() * 1
	curr -= pos.ByFigure[board.Bishop].Count() * 1
	curr -= pos.ByFigure[board.Rook].Count() * 3
	curr -= pos.ByFigure[board.Queen].Count() * 6
	if curr < 0 {
		curr = 0
	}
	return (curr*256 + total/2) / total
}

// blend feeds the accumulated scores through the phase: full midgame
// weight at phase 0, full endgame weight at phase 256.
func blend(a Accum, phase int32) int32 {
	return (a.M*(256-phase) + a.E*phase) / 256
}
