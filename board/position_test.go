package board

import "testing"

var testFENs = []string{
	FENStartPos,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"4k3/8/8/8/8/8/8/4K2R w K - 12 56",
	"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
}

func TestFENRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		pos, err := PositionFromFEN(fen)
		if err != nil {
			t.Fatalf("PositionFromFEN(%q): %v", fen, err)
		}
		if got := pos.String(); got != fen {
			t.Errorf("round trip: got %q, want %q", got, fen)
		}
		if err := pos.Verify(); err != nil {
			t.Errorf("%q: %v", fen, err)
		}
	}
}

func TestFENErrors(t *testing.T) {
	for _, fen := range []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KXkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1",
	} {
		if _, err := PositionFromFEN(fen); err == nil {
			t.Errorf("expected parse error for %q", fen)
		}
	}
}

func TestIncrementalHashMatchesScratch(t *testing.T) {
	// Walk a few plies everywhere and compare the incremental hash
	// with a from-scratch computation at every node.
	var walk func(t *testing.T, pos *Position, depth int)
	walk = func(t *testing.T, pos *Position, depth int) {
		if err := pos.Verify(); err != nil {
			t.Fatalf("%v at %v", err, pos)
		}
		if depth == 0 {
			return
		}
		var ml MoveList
		pos.GenerateMoves(All, &ml)
		for i := 0; i < ml.Size; i++ {
			pos.DoMove(ml.Moves[i])
			walk(t, pos, depth-1)
			pos.UndoMove()
		}
	}

	for _, fen := range testFENs {
		pos, err := PositionFromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		walk(t, pos, 2)
	}
}

func TestDoMoveUpdatesState(t *testing.T) {
	pos, _ := PositionFromFEN(FENStartPos)

	m, err := pos.UCIToMove("e2e4")
	if err != nil {
		t.Fatal(err)
	}
	pos.DoMove(m)
	if pos.SideToMove != Black {
		t.Errorf("side to move is %v, want Black", pos.SideToMove)
	}
	if sq := pos.EnpassantSquare(); sq != SquareE3 {
		t.Errorf("en passant square is %v, want e3", sq)
	}
	if pos.HalfMoveClock() != 0 {
		t.Errorf("half move clock is %d, want 0 after a pawn move", pos.HalfMoveClock())
	}
	if pos.FullMoveNumber != 1 {
		t.Errorf("full move number is %d, want 1", pos.FullMoveNumber)
	}

	m, _ = pos.UCIToMove("g8f6")
	pos.DoMove(m)
	if pos.FullMoveNumber != 2 {
		t.Errorf("full move number is %d, want 2 after Black moved", pos.FullMoveNumber)
	}
	if sq := pos.EnpassantSquare(); sq != NoSquare {
		t.Errorf("en passant square is %v, want none", sq)
	}
	if pos.HalfMoveClock() != 1 {
		t.Errorf("half move clock is %d, want 1", pos.HalfMoveClock())
	}
}

func TestCastlingRightsLost(t *testing.T) {
	pos, _ := PositionFromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	m, _ := pos.UCIToMove("h1h2") // moving the rook drops white O-O
	pos.DoMove(m)
	if c := pos.CastlingAbility(); c != WhiteOOO|BlackOO|BlackOOO {
		t.Errorf("castling rights %v, want Qkq", c)
	}

	m, _ = pos.UCIToMove("a8a1") // rook trades itself onto a1: both queenside rights go
	pos.DoMove(m)
	m, _ = pos.UCIToMove("e1e2")
	pos.DoMove(m)
	if c := pos.CastlingAbility(); c != BlackOO {
		t.Errorf("castling rights %v, want k", c)
	}
}

func TestCastlingMovesRook(t *testing.T) {
	pos, _ := PositionFromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	m, err := pos.UCIToMove("e1g1")
	if err != nil {
		t.Fatal(err)
	}
	pos.DoMove(m)
	if pos.Get(SquareF1) != ColorFigure(White, Rook) || pos.Get(SquareH1) != NoPiece {
		t.Errorf("rook did not jump to f1: %v", pos)
	}
	pos.UndoMove()
	if pos.Get(SquareH1) != ColorFigure(White, Rook) || pos.Get(SquareF1) != NoPiece {
		t.Errorf("undo did not restore the rook: %v", pos)
	}
}

func TestEnpassantCaptureRemovesPawn(t *testing.T) {
	pos, _ := PositionFromFEN("4k3/8/8/1Pp5/8/8/8/4K3 w - c6 0 1")
	m, err := pos.UCIToMove("b5c6")
	if err != nil {
		t.Fatal(err)
	}
	if m.MoveType() != Enpassant {
		t.Fatalf("b5c6 has type %v, want Enpassant", m.MoveType())
	}
	pos.DoMove(m)
	if pos.Get(SquareC5) != NoPiece {
		t.Error("captured pawn still on c5")
	}
	if pos.Get(SquareC6) != ColorFigure(White, Pawn) {
		t.Error("capturing pawn not on c6")
	}
	pos.UndoMove()
	if pos.Get(SquareC5) != ColorFigure(Black, Pawn) {
		t.Error("undo did not restore the captured pawn")
	}
}

func TestThreeFoldRepetition(t *testing.T) {
	pos, _ := PositionFromFEN(FENStartPos)
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
	if r := pos.ThreeFoldRepetition(); r < 3 {
		t.Errorf("repetition count is %d, want 3", r)
	}
}

func TestFiftyMoveRule(t *testing.T) {
	pos, _ := PositionFromFEN("4k3/8/8/8/8/8/8/4K2R w K - 99 80")
	if pos.FiftyMoveRule() {
		t.Error("fifty move rule at 99 half moves")
	}
	m, _ := pos.UCIToMove("h1h2")
	pos.DoMove(m)
	if !pos.FiftyMoveRule() {
		t.Error("no fifty move rule at 100 half moves")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	for _, test := range []struct {
		fen  string
		want bool
	}{
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/4KB2 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/4KN2 w - - 0 1", true},
		{"4kb2/8/8/8/8/8/8/4KB2 w - - 0 1", false}, // f8 dark, f1 light
		{"2b1k3/8/8/8/8/8/8/4KB2 w - - 0 1", true}, // both on light squares
		{"4k3/8/8/8/8/8/8/4KP2 w - - 0 1", false},
		{"4k3/8/8/8/8/8/8/4KR2 w - - 0 1", false},
		{"4k3/8/8/8/8/8/8/3NKN2 w - - 0 1", false},
	} {
		pos, err := PositionFromFEN(test.fen)
		if err != nil {
			t.Fatal(err)
		}
		if got := pos.InsufficientMaterial(); got != test.want {
			t.Errorf("InsufficientMaterial(%q) = %v, want %v", test.fen, got, test.want)
		}
	}
}

func TestNullMove(t *testing.T) {
	pos, _ := PositionFromFEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	hash := pos.Zobrist()
	pos.DoMove(NullMove)
	if pos.SideToMove != White {
		t.Error("null move did not flip the side to move")
	}
	if pos.EnpassantSquare() != NoSquare {
		t.Error("null move did not clear the en passant square")
	}
	pos.UndoMove()
	if pos.Zobrist() != hash || pos.SideToMove != Black {
		t.Error("undo of the null move did not restore the position")
	}
	if err := pos.Verify(); err != nil {
		t.Error(err)
	}
}

func TestUCIToMoveRejectsIllegal(t *testing.T) {
	pos, _ := PositionFromFEN(FENStartPos)
	for _, s := range []string{"e2e5", "e7e5", "d1h5", "e1g1", "a1a0", "xyzw"} {
		if _, err := pos.UCIToMove(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}
