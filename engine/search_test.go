package engine

import (
	"testing"

	"github.com/ternengine/tern/board"
)

// playDepth searches pos to a fixed depth with a single worker.
func playDepth(t *testing.T, pos *board.Position, depth int) ScoredPV {
	t.Helper()
	co := NewCoordinator(NewTable(4), nil, Options{Threads: 1})
	tc := NewFixedDepthTimeControl(pos, depth)
	tc.Start(false)
	return co.Play(pos, tc)
}

func TestSearchMateInOne(t *testing.T) {
	pos := mustPosition(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	pv := playDepth(t, pos, 3)
	if len(pv.Moves) == 0 {
		t.Fatal("no move returned")
	}
	if got := pv.Moves[0].UCI(); got != "a1a8" {
		t.Errorf("best move %s, want a1a8", got)
	}
	if pv.Score < MateScore-2 {
		t.Errorf("score %d, want at least %d", pv.Score, MateScore-2)
	}
}

func TestSearchWinsFreeRook(t *testing.T) {
	// The rook on d5 hangs to the queen.
	pos := mustPosition(t, "4k3/8/8/3r4/8/8/Q7/4K3 w - - 0 1")
	pv := playDepth(t, pos, 4)
	if len(pv.Moves) == 0 {
		t.Fatal("no move returned")
	}
	if pv.Score < 500 {
		t.Errorf("score %d, want at least 500 with the rook winnable", pv.Score)
	}
}

func TestSearchPromotes(t *testing.T) {
	// The promotion square is covered but the new queen is defended.
	pos := mustPosition(t, "8/5kPK/8/8/8/8/8/8 w - - 0 1")
	pv := playDepth(t, pos, 5)
	if len(pv.Moves) == 0 {
		t.Fatal("no move returned")
	}
	if got := pv.Moves[0].UCI(); got != "g7g8q" {
		t.Errorf("best move %s, want g7g8q", got)
	}
	if pv.Score < 400 {
		t.Errorf("score %d, want a winning score", pv.Score)
	}
}

func TestSearchStalemate(t *testing.T) {
	pos := mustPosition(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	pv := playDepth(t, pos, 3)
	if pv.Score != 0 {
		t.Errorf("stalemate score %d, want 0", pv.Score)
	}
	if len(pv.Moves) != 0 {
		t.Errorf("stalemate returned moves %v", pv.Moves)
	}
}

func TestSearchThreefoldRepetition(t *testing.T) {
	pos := mustPosition(t, board.FENStartPos)
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for i := 0; i < 2; i++ {
		for _, s := range shuffle {
			m, err := pos.UCIToMove(s)
			if err != nil {
				t.Fatal(err)
			}
			pos.DoMove(m)
		}
	}
	pv := playDepth(t, pos, 3)
	if pv.Score != 0 {
		t.Errorf("threefold repetition score %d, want 0", pv.Score)
	}
}

func TestSearchFiftyMoveDraw(t *testing.T) {
	pos := mustPosition(t, "4k3/8/8/8/8/8/8/4K2R w - - 100 90")
	pv := playDepth(t, pos, 3)
	if pv.Score != 0 {
		t.Errorf("fifty move rule score %d, want 0", pv.Score)
	}
}

func TestSearchInsufficientMaterial(t *testing.T) {
	pos := mustPosition(t, "4k3/8/8/8/8/8/8/4KN2 w - - 0 1")
	pv := playDepth(t, pos, 4)
	if pv.Score != 0 {
		t.Errorf("bare knight score %d, want 0", pv.Score)
	}
}

func TestSearchAvoidsHangingQueen(t *testing.T) {
	// The queen on h5 is attacked by the g6 pawn; any sane depth
	// finds a save.
	pos := mustPosition(t, "rnbqkbnr/pppp1p1p/6p1/4p2Q/4P3/8/PPPP1PPP/RNB1KBNR w KQkq - 0 3")
	pv := playDepth(t, pos, 4)
	if len(pv.Moves) == 0 {
		t.Fatal("no move returned")
	}
	if pv.Score < -300 {
		t.Errorf("score %d suggests the queen is lost", pv.Score)
	}
}

func TestSearchReproducible(t *testing.T) {
	// A single threaded search from a cleared table is deterministic.
	run := func() ScoredPV {
		pos := mustPosition(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
		return playDepth(t, pos, 5)
	}
	first, second := run(), run()
	if first.Score != second.Score {
		t.Errorf("scores differ between runs: %d vs %d", first.Score, second.Score)
	}
	if len(first.Moves) == 0 || len(second.Moves) == 0 ||
		first.Moves[0] != second.Moves[0] {
		t.Errorf("best moves differ between runs: %v vs %v", first.Moves, second.Moves)
	}
}

func TestSearchSingleReply(t *testing.T) {
	// The king has exactly one legal move; it is answered immediately.
	pos := mustPosition(t, "k7/8/8/8/8/8/2R5/1R5K b - - 0 1")
	var ml board.MoveList
	pos.GenerateMoves(board.All, &ml)
	if ml.Size != 1 {
		t.Fatalf("expected a single legal move, got %d", ml.Size)
	}
	pv := playDepth(t, pos, 5)
	if len(pv.Moves) != 1 || pv.Moves[0] != ml.Moves[0] {
		t.Errorf("single reply not returned directly: %v", pv.Moves)
	}
}

func TestSearchMultiThreaded(t *testing.T) {
	pos := mustPosition(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	co := NewCoordinator(NewTable(4), nil, Options{Threads: 4})
	tc := NewFixedDepthTimeControl(pos, 4)
	tc.Start(false)
	pv := co.Play(pos, tc)
	if len(pv.Moves) == 0 || pv.Moves[0].UCI() != "a1a8" {
		t.Errorf("parallel search missed the mate: %v", pv.Moves)
	}
	if pv.Score < MateScore-2 {
		t.Errorf("parallel search score %d, want at least %d", pv.Score, MateScore-2)
	}
}
