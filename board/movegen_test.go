package board

import (
	"sort"
	"strings"
	"testing"
)

// generate returns the UCI strings of all generated moves of kind.
func generate(t *testing.T, fen string, kind int) []string {
	t.Helper()
	pos, err := PositionFromFEN(fen)
	if err != nil {
		t.Fatalf("invalid FEN %q: %v", fen, err)
	}
	var ml MoveList
	pos.GenerateMoves(kind, &ml)
	var moves []string
	for i := 0; i < ml.Size; i++ {
		moves = append(moves, ml.Moves[i].UCI())
	}
	sort.Strings(moves)
	return moves
}

func contains(moves []string, m string) bool {
	for _, s := range moves {
		if s == m {
			return true
		}
	}
	return false
}

func TestStartposMoveCount(t *testing.T) {
	if moves := generate(t, FENStartPos, All); len(moves) != 20 {
		t.Errorf("got %d moves at startpos, want 20: %v", len(moves), moves)
	}
}

func TestEnpassantUncoversRankCheck(t *testing.T) {
	// Capturing en passant would remove both pawns from the fifth rank
	// and expose the king to the rook.
	moves := generate(t, "8/8/8/KPp4r/8/8/8/4k3 w - c6 0 1", All)
	if contains(moves, "b5c6") {
		t.Errorf("b5xc6 e.p. is illegal here, got %v", moves)
	}
}

func TestEnpassantLegal(t *testing.T) {
	moves := generate(t, "4k3/8/8/1Pp5/8/8/4K3/8 w - c6 0 1", All)
	if !contains(moves, "b5c6") {
		t.Errorf("expected b5xc6 e.p., got %v", moves)
	}
}

func TestEnpassantEvadesCheck(t *testing.T) {
	// The double pushed pawn is the checker; taking it en passant is
	// the only pawn move that helps.
	moves := generate(t, "8/8/8/2k5/3Pp3/8/8/3K4 b - d3 0 1", All)
	if !contains(moves, "e4d3") {
		t.Errorf("expected e4xd3 e.p. to capture the checker, got %v", moves)
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// Knight and rook give check at once.
	moves := generate(t, "4k3/8/4r3/8/8/3n4/8/R3K3 w - - 0 1", All)
	for _, m := range moves {
		if !strings.HasPrefix(m, "e1") {
			t.Errorf("only king moves are legal under double check, got %v", moves)
			break
		}
	}
}

func TestPinnedPieceStaysOnRay(t *testing.T) {
	// The d2 rook is pinned by the d8 rook and may only slide on the
	// d file.
	moves := generate(t, "3rk3/8/8/8/8/8/3R4/3K4 w - - 0 1", All)
	for _, m := range moves {
		if strings.HasPrefix(m, "d2") && m[2] != 'd' {
			t.Errorf("pinned rook left the pin ray: %v", m)
		}
	}
	if !contains(moves, "d2d8") || !contains(moves, "d2d4") {
		t.Errorf("pinned rook should still slide on the d file, got %v", moves)
	}
}

func TestCastlingLegality(t *testing.T) {
	for _, test := range []struct {
		name  string
		fen   string
		move  string
		legal bool
	}{
		{"both sides available", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", true},
		{"queenside available", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", true},
		{"out of check", "r3k2r/8/8/8/4r3/8/8/R3K2R w KQkq - 0 1", "e1g1", false},
		{"through attacked square", "r3k2r/8/8/8/5r2/8/8/R3K2R w KQkq - 0 1", "e1g1", false},
		{"into check", "r3k2r/8/8/8/6r1/8/8/R3K2R w KQkq - 0 1", "e1g1", false},
		{"attacked b1 square", "r3k2r/8/8/8/1r6/8/8/R3K2R w KQkq - 0 1", "e1c1", true},
		{"occupied path", "r3k2r/8/8/8/8/8/8/R2QK2R w KQkq - 0 1", "e1c1", false},
		{"no right", "r3k2r/8/8/8/8/8/8/R3K2R w Qkq - 0 1", "e1g1", false},
	} {
		moves := generate(t, test.fen, All)
		if got := contains(moves, test.move); got != test.legal {
			t.Errorf("%s: castle %s legal = %v, want %v", test.name, test.move, got, test.legal)
		}
	}
}

func TestPromotionGeneratesAllFigures(t *testing.T) {
	// The pawn can promote by pushing or by capturing either rook.
	moves := generate(t, "r1r5/1P4k1/8/8/8/8/8/6K1 w - - 0 1", All)
	for _, to := range []string{"a8", "b8", "c8"} {
		for _, p := range []string{"q", "r", "b", "n"} {
			if m := "b7" + to + p; !contains(moves, m) {
				t.Errorf("missing promotion %s in %v", m, moves)
			}
		}
	}
}

func TestViolentKind(t *testing.T) {
	pos, err := PositionFromFEN("r1r5/1P4k1/8/8/8/3p4/4P3/6K1 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var ml MoveList
	pos.GenerateMoves(Violent, &ml)
	for i := 0; i < ml.Size; i++ {
		if m := ml.Moves[i]; m.IsQuiet() && m.MoveType() != Promotion {
			t.Errorf("quiet move %v in captures-only generation", m)
		}
	}
	// All 12 promotions plus exd3 must be present.
	if ml.Size != 13 {
		t.Errorf("got %d violent moves, want 13", ml.Size)
	}
}

func TestViolentFallsBackToEvasions(t *testing.T) {
	// King in check: captures-only mode must return every evasion.
	fen := "4k3/8/8/8/8/8/4r3/4K3 w - - 0 1"
	violent := generate(t, fen, Violent)
	all := generate(t, fen, All)
	if len(violent) != len(all) {
		t.Errorf("in check, Violent gave %v, All gave %v", violent, all)
	}
}

func TestStalemateHasNoMoves(t *testing.T) {
	if moves := generate(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", All); len(moves) != 0 {
		t.Errorf("stalemated side has moves: %v", moves)
	}
}

func TestGeneratedMovesAreLegal(t *testing.T) {
	// Every generated move must leave the own king out of check, and
	// make/unmake must restore the position exactly.
	for _, fen := range []string{
		FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1",
	} {
		pos, err := PositionFromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		us := pos.Us()
		before := pos.Zobrist()

		var ml MoveList
		pos.GenerateMoves(All, &ml)
		for i := 0; i < ml.Size; i++ {
			m := ml.Moves[i]
			pos.DoMove(m)
			if pos.IsChecked(us) {
				t.Errorf("%q: move %v leaves the king in check", fen, m)
			}
			if err := pos.Verify(); err != nil {
				t.Errorf("%q: after %v: %v", fen, m, err)
			}
			pos.UndoMove()
			if pos.Zobrist() != before {
				t.Fatalf("%q: unmake of %v changed the hash", fen, m)
			}
		}
	}
}
