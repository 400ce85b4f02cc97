package engine

import (
	"testing"

	"github.com/ternengine/tern/board"
)

func moveFromUCI(t *testing.T, pos *board.Position, s string) board.Move {
	t.Helper()
	m, err := pos.UCIToMove(s)
	if err != nil {
		t.Fatalf("%v in %v", err, pos)
	}
	return m
}

func TestSEE(t *testing.T) {
	for _, test := range []struct {
		fen  string
		move string
		want int32
	}{
		// The pawn on e5 is undefended.
		{"1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - - 0 1", "e1e5", 100},
		// The pawn is defended by the e8 rook: a pawn for a rook.
		{"1k2r3/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - - 0 1", "e1e5", -400},
		// Knight takes a pawn defended by a pawn.
		{"1k6/8/3p4/4p3/8/5N2/8/1K6 w - - 0 1", "f3e5", -200},
		// Knight takes an undefended knight.
		{"1k6/8/8/4n3/8/5N2/8/1K6 w - - 0 1", "f3e5", 300},
		// The front rook captures, the back rook backs it up through
		// the vacated square.
		{"1k1r4/8/8/3p4/8/8/3R4/1K1R4 w - - 0 1", "d2d5", 100},
		// Queen grabs a pawn defended by a pawn.
		{"1k6/8/3p4/4p3/8/8/4Q3/1K6 w - - 0 1", "e2e5", -800},
	} {
		pos := mustPosition(t, test.fen)
		m := moveFromUCI(t, pos, test.move)
		if got := see(pos, m); got != test.want {
			t.Errorf("see(%q, %s) = %d, want %d", test.fen, test.move, got, test.want)
		}
	}
}

func TestSEEAntiSymmetry(t *testing.T) {
	// Capturing into a sufficiently defended square loses material,
	// and the defender's recapture wins back at least as much.
	pos := mustPosition(t, "1k2r3/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - - 0 1")
	m := moveFromUCI(t, pos, "e1e5")
	first := see(pos, m)
	if first >= 0 {
		t.Fatalf("capture into a defended square scored %d, want < 0", first)
	}

	pos.DoMove(m)
	re := moveFromUCI(t, pos, "e8e5")
	second := see(pos, re)
	if second < -first {
		t.Errorf("recapture scored %d, want at least %d", second, -first)
	}
}

func TestSeeSign(t *testing.T) {
	pos := mustPosition(t, "1k6/8/3p4/4p3/8/5N2/8/1K6 w - - 0 1")
	if m := moveFromUCI(t, pos, "f3e5"); seeSign(pos, m) {
		t.Errorf("losing capture %v reported as safe", m)
	}

	pos = mustPosition(t, "1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - - 0 1")
	if m := moveFromUCI(t, pos, "e1e5"); !seeSign(pos, m) {
		t.Errorf("winning capture %v reported as losing", m)
	}
}
