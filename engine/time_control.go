// time_control.go decides how long to think. The budget is split over
// the moves expected to remain, with a branching factor guard so the
// last iteration can still finish in time.

package engine

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/ternengine/tern/board"
)

const (
	defaultMovesToGo    = 30 // moves expected until the time control
	defaultBranchFactor = 2
	earlyExitNumerator  = 55 // percentage of the budget after which a stable PV may stop
)

// TimeControl splits the remaining time over the expected number of
// moves. All deadline checks are cheap enough for the search hot path.
type TimeControl struct {
	WTime, WInc time.Duration // white's remaining time and increment
	BTime, BInc time.Duration // black's remaining time and increment
	Depth       int           // maximum depth to search, inclusive
	Nodes       uint64        // stop after roughly this many nodes, 0 for no limit
	MovesToGo   int

	numPieces  int32
	sideToMove board.Color
	stopped    atomic.Bool
	ponderhit  atomic.Bool

	searchTime     time.Duration
	searchDeadline time.Time
	earlyDeadline  time.Time
	ponderTime     time.Duration
	ponderDeadline time.Time
}

// NewTimeControl returns a time control with no limits for pos.
func NewTimeControl(pos *board.Position) *TimeControl {
	inf := time.Duration(math.MaxInt64)
	return &TimeControl{
		WTime:      inf,
		BTime:      inf,
		Depth:      MaxDepth,
		MovesToGo:  defaultMovesToGo,
		numPieces:  pos.Occupancy().Count(),
		sideToMove: pos.SideToMove,
	}
}

// NewFixedDepthTimeControl stops the search after depth is completed.
func NewFixedDepthTimeControl(pos *board.Position, depth int) *TimeControl {
	tc := NewTimeControl(pos)
	tc.Depth = depth
	tc.MovesToGo = 1
	return tc
}

// NewDeadlineTimeControl stops the search after deadline.
func NewDeadlineTimeControl(pos *board.Position, deadline time.Duration) *TimeControl {
	tc := NewTimeControl(pos)
	tc.WTime = deadline
	tc.BTime = deadline
	tc.MovesToGo = 1
	return tc
}

// thinkingTime is the time to spend this move given remaining time t and
// increment i.
func (tc *TimeControl) thinkingTime(t, i time.Duration) time.Duration {
	togo := time.Duration(tc.MovesToGo)
	if tt := (t + (togo-1)*i) / togo; tt < t {
		return tt
	}
	return t
}

// Start starts the clock. Must be called before the search.
func (tc *TimeControl) Start(ponder bool) {
	// Expect a higher branching factor with more pieces on the board.
	branch := time.Duration(defaultBranchFactor)
	for np := tc.numPieces - 2; np > 0; np /= 6 {
		branch++
	}
	for i := 4; i > 0; i /= 2 {
		if tc.MovesToGo <= i {
			branch++
		}
	}

	var otime, oinc time.Duration
	var ttime, tinc time.Duration
	if tc.sideToMove == board.White {
		otime, oinc = tc.WTime, tc.WInc
		ttime, tinc = tc.BTime, tc.BInc
	} else {
		otime, oinc = tc.BTime, tc.BInc
		ttime, tinc = tc.WTime, tc.WInc
	}

	tc.stopped.Store(false)
	tc.ponderhit.Store(!ponder)

	tc.searchTime = tc.thinkingTime(otime, oinc) / branch
	tc.ponderTime = (tc.thinkingTime(ttime, tinc) + tc.searchTime/2) / branch

	now := time.Now()
	tc.searchDeadline = now.Add(tc.searchTime)
	tc.earlyDeadline = now.Add(tc.searchTime / 100 * earlyExitNumerator)
	tc.ponderDeadline = now.Add(tc.ponderTime)
}

// NextDepth returns true if the search may start another iteration at
// depth. The first iterations always run so a move can be returned.
func (tc *TimeControl) NextDepth(depth int32) bool {
	return depth <= int32(tc.Depth) && (depth <= 2 || !tc.Stopped())
}

// PonderHit switches from pondering to searching on our own clock.
func (tc *TimeControl) PonderHit() {
	now := time.Now()
	tc.searchDeadline = now.Add(tc.searchTime)
	tc.earlyDeadline = now.Add(tc.searchTime / 100 * earlyExitNumerator)
	tc.ponderhit.Store(true)
}

// Stop marks the search as stopped.
func (tc *TimeControl) Stop() {
	tc.stopped.Store(true)
}

// Stopped returns true when the budget is exhausted.
func (tc *TimeControl) Stopped() bool {
	if tc.stopped.Load() {
		return true
	}
	if tc.ponderhit.Load() && time.Now().After(tc.searchDeadline) {
		tc.stopped.Store(true)
		return true
	}
	if !tc.ponderhit.Load() && time.Now().After(tc.ponderDeadline) {
		tc.stopped.Store(true)
		return true
	}
	return false
}

// PastEarlyDeadline returns true once enough of the budget is spent that
// a stable best move does not justify another iteration.
func (tc *TimeControl) PastEarlyDeadline() bool {
	return tc.ponderhit.Load() && time.Now().After(tc.earlyDeadline)
}

// NodeLimitReached returns true when searched exceeds the node budget.
// The limit is checked at stop-flag granularity, so it is approximate.
func (tc *TimeControl) NodeLimitReached(searched uint64) bool {
	return tc.Nodes > 0 && searched >= tc.Nodes
}
