// Package perft walks the move generation tree and counts leaf nodes.
// Its numbers are compared against the published results for a corpus of
// positions, which pins down move generation bugs very reliably.
//
// See https://www.chessprogramming.org/Perft_Results
package perft

import "github.com/ternengine/tern/board"

// Perft returns the number of leaf nodes at depth.
func Perft(pos *board.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var ml board.MoveList
	pos.GenerateMoves(board.All, &ml)
	if depth == 1 {
		return uint64(ml.Size)
	}
	var nodes uint64
	for i := 0; i < ml.Size; i++ {
		pos.DoMove(ml.Moves[i])
		nodes += Perft(pos, depth-1)
		pos.UndoMove()
	}
	return nodes
}

// Divide returns the perft count after each root move, the way engines
// print it when hunting a disagreement.
func Divide(pos *board.Position, depth int) map[string]uint64 {
	res := make(map[string]uint64)
	var ml board.MoveList
	pos.GenerateMoves(board.All, &ml)
	for i := 0; i < ml.Size; i++ {
		m := ml.Moves[i]
		pos.DoMove(m)
		res[m.UCI()] = Perft(pos, depth-1)
		pos.UndoMove()
	}
	return res
}
