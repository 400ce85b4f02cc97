package engine

import (
	"testing"

	"github.com/ternengine/tern/board"
)

func TestNextDepthSequentialForOneThread(t *testing.T) {
	co := NewCoordinator(NewTable(1), nil, Options{Threads: 1})
	last := int32(0)
	for want := int32(1); want <= 5; want++ {
		depth, main := co.NextDepth(last)
		if depth != want || !main {
			t.Fatalf("NextDepth(%d) = (%d, %v), want (%d, true)", last, depth, main, want)
		}
		last = depth
	}
}

func TestNextDepthCapsSearchersPerDepth(t *testing.T) {
	// With four threads at most two may share a depth; the third
	// worker asking from scratch must be pushed deeper.
	co := NewCoordinator(NewTable(1), nil, Options{Threads: 4})

	d1, main1 := co.NextDepth(0)
	d2, main2 := co.NextDepth(0)
	d3, main3 := co.NextDepth(0)
	if d1 != 1 || !main1 {
		t.Errorf("first worker got (%d, %v), want (1, true)", d1, main1)
	}
	if d2 != 1 || main2 {
		t.Errorf("second worker got (%d, %v), want (1, false)", d2, main2)
	}
	if d3 != 2 || !main3 {
		t.Errorf("third worker got (%d, %v), want (2, true)", d3, main3)
	}
}

func TestNextDepthSkipsFullySearched(t *testing.T) {
	co := NewCoordinator(NewTable(1), nil, Options{Threads: 4})

	d, _ := co.NextDepth(0) // claims depth 1
	if d != 1 {
		t.Fatalf("got depth %d, want 1", d)
	}
	d, _ = co.NextDepth(1) // finishes 1, claims 2
	if d != 2 {
		t.Fatalf("got depth %d, want 2", d)
	}
	// A fresh worker must not be handed the finished depth 1.
	d, _ = co.NextDepth(0)
	if d != 2 {
		t.Errorf("fresh worker got finished depth %d, want 2", d)
	}
}

func TestRegisterPVPrefersDeeperThenHigher(t *testing.T) {
	co := NewCoordinator(NewTable(1), nil, Options{Threads: 1})
	m1 := board.MakeMove(board.Normal, board.SquareE2, board.SquareE4, board.NoPiece, board.ColorFigure(board.White, board.Pawn))
	m2 := board.MakeMove(board.Normal, board.SquareD2, board.SquareD4, board.NoPiece, board.ColorFigure(board.White, board.Pawn))

	co.RegisterPV(ScoredPV{Depth: 4, Score: 10, Moves: []board.Move{m1}})
	co.RegisterPV(ScoredPV{Depth: 3, Score: 90, Moves: []board.Move{m2}})
	if best := co.BestPV(); best.Depth != 4 {
		t.Errorf("shallower PV won: %+v", best)
	}

	co.RegisterPV(ScoredPV{Depth: 4, Score: 30, Moves: []board.Move{m2}})
	if best := co.BestPV(); best.Score != 30 || best.Moves[0] != m2 {
		t.Errorf("higher score at equal depth lost: %+v", best)
	}

	co.RegisterPV(ScoredPV{Depth: 5, Score: -20, Moves: []board.Move{m1}})
	if best := co.BestPV(); best.Depth != 5 {
		t.Errorf("deeper PV lost: %+v", best)
	}
}

func TestStablePVFlag(t *testing.T) {
	co := NewCoordinator(NewTable(1), nil, Options{Threads: 1})
	m1 := board.MakeMove(board.Normal, board.SquareE2, board.SquareE4, board.NoPiece, board.ColorFigure(board.White, board.Pawn))
	m2 := board.MakeMove(board.Normal, board.SquareD2, board.SquareD4, board.NoPiece, board.ColorFigure(board.White, board.Pawn))

	co.RegisterPV(ScoredPV{Depth: 1, Score: 10, Moves: []board.Move{m1}})
	if co.StablePV() {
		t.Error("stable after a single PV")
	}
	co.RegisterPV(ScoredPV{Depth: 2, Score: 12, Moves: []board.Move{m1}})
	if !co.StablePV() {
		t.Error("not stable after two updates with the same first move")
	}
	co.RegisterPV(ScoredPV{Depth: 3, Score: 15, Moves: []board.Move{m2}})
	if co.StablePV() {
		t.Error("stable after the best move changed")
	}
}

func TestStopCancelsWorkers(t *testing.T) {
	co := NewCoordinator(NewTable(1), nil, Options{Threads: 2})
	if co.Stopped() {
		t.Fatal("coordinator born stopped")
	}
	co.Stop()
	if !co.Stopped() {
		t.Fatal("Stop did not take")
	}
}
