// Copyright 2021-2025 The Tern Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// smp.go implements the Lazy SMP thread coordinator. Workers search
// mostly independently at staggered depths, sharing the transposition
// table; the coordinator hands out depths, aggregates the best principal
// variation and enforces the stop conditions.

package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ternengine/tern/board"
)

// DefaultThreads is the number of workers used when none is configured.
const DefaultThreads = 4

// Options configures a search.
type Options struct {
	Threads int // number of worker threads, DefaultThreads if zero
}

// depthInfo tracks how a depth is being worked on.
type depthInfo struct {
	searchers int
	done      bool
}

// Coordinator owns the shared search state. The mutex protects the best
// PV and the depth bookkeeping; it is held only for constant time
// updates, never across search work.
type Coordinator struct {
	threads int
	tt      *Table
	logger  Logger

	mu        sync.Mutex
	bestPV    ScoredPV
	depthInfo [MaxDepth + 2]depthInfo

	stablePV atomic.Bool
	stop     atomic.Bool
	nodes    atomic.Uint64
	selDepth atomic.Int32
	started  time.Time
}

// NewCoordinator creates a coordinator over a shared transposition table.
// A nil logger disables reporting.
func NewCoordinator(tt *Table, logger Logger, opts Options) *Coordinator {
	threads := opts.Threads
	if threads <= 0 {
		threads = DefaultThreads
	}
	if logger == nil {
		logger = &NulLogger{}
	}
	return &Coordinator{
		threads: threads,
		tt:      tt,
		logger:  logger,
	}
}

// Stop asks every worker to unwind at its next checkpoint.
func (co *Coordinator) Stop() {
	co.stop.Store(true)
}

// Stopped returns true once the search is being cancelled.
func (co *Coordinator) Stopped() bool {
	return co.stop.Load()
}

// StablePV reports whether the last two best PV updates started with the
// same move; the time manager uses it to allow an early exit.
func (co *Coordinator) StablePV() bool {
	return co.stablePV.Load()
}

func (co *Coordinator) addNodes(n uint64) {
	co.nodes.Add(n)
}

func (co *Coordinator) updateSelDepth(d int32) {
	for {
		cur := co.selDepth.Load()
		if d <= cur || co.selDepth.CompareAndSwap(cur, d) {
			return
		}
	}
}

// NextDepth marks fromDepth fully searched and hands the worker its next
// depth. No depth is given to more than half the workers, rounded up,
// and fully searched depths are skipped. The second return value is true
// when the worker is the first to open the depth.
func (co *Coordinator) NextDepth(fromDepth int32) (int32, bool) {
	co.mu.Lock()
	defer co.mu.Unlock()

	if fromDepth > 0 {
		co.depthInfo[fromDepth].done = true
	}
	limit := (co.threads + 1) / 2
	for next := fromDepth + 1; next <= MaxDepth; next++ {
		di := &co.depthInfo[next]
		switch {
		case di.done:
		case di.searchers == 0:
			di.searchers = 1
			return next, true
		case di.searchers < limit:
			di.searchers++
			return next, false
		}
	}
	return MaxDepth + 1, false
}

// RegisterPV offers a worker's finished variation. The deepest, then
// highest scoring PV wins and is reported as it improves.
func (co *Coordinator) RegisterPV(pv ScoredPV) {
	co.mu.Lock()
	if pv.Depth < co.bestPV.Depth ||
		pv.Depth == co.bestPV.Depth && pv.Score <= co.bestPV.Score && co.bestPV.Moves != nil {
		co.mu.Unlock()
		return
	}
	if len(co.bestPV.Moves) > 0 && len(pv.Moves) > 0 {
		co.stablePV.Store(co.bestPV.Moves[0] == pv.Moves[0])
	}
	co.bestPV = pv
	co.mu.Unlock()

	co.logger.ReportPV(co.searchInfo(pv))
}

func (co *Coordinator) searchInfo(pv ScoredPV) SearchInfo {
	elapsed := time.Since(co.started)
	nodes := co.nodes.Load()
	nps := uint64(0)
	if ms := elapsed.Milliseconds(); ms > 0 {
		nps = nodes * 1000 / uint64(ms)
	}
	return SearchInfo{
		Depth:    pv.Depth,
		SelDepth: max(co.selDepth.Load(), pv.Depth),
		Nodes:    nodes,
		NPS:      nps,
		Hashfull: co.tt.Hashfull(),
		Time:     elapsed,
		Score:    pv.Score,
		PV:       pv.Moves,
	}
}

// BestPV returns the best variation found so far.
func (co *Coordinator) BestPV() ScoredPV {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.bestPV
}

// Play searches pos and returns the best principal variation. The time
// control must already be started. Play blocks until every worker has
// joined, then reports the best move.
func (co *Coordinator) Play(pos *board.Position, tc *TimeControl) ScoredPV {
	co.logger.BeginSearch()
	defer co.logger.EndSearch()

	co.stop.Store(false)
	co.stablePV.Store(false)
	co.nodes.Store(0)
	co.selDepth.Store(0)
	co.bestPV = ScoredPV{}
	co.depthInfo = [MaxDepth + 2]depthInfo{}
	co.started = time.Now()
	co.tt.NextGeneration()

	// With a single reply there is nothing to decide.
	var ml board.MoveList
	pos.GenerateMoves(board.All, &ml)
	if ml.Size == 1 {
		pv := ScoredPV{Depth: 1, Moves: []board.Move{ml.Moves[0]}}
		co.bestPV = pv
		co.logger.ReportBestMove(ml.Moves[0], board.NullMove)
		return pv
	}

	maxDepth := int32(min(tc.Depth, MaxDepth))

	var wg sync.WaitGroup
	for id := 1; id < co.threads; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			eng := newEngine(id, pos.Clone(), co, nil)
			eng.run(maxDepth)
		}(id)
	}

	// The calling goroutine doubles as worker zero, the only one that
	// watches the clock.
	main := newEngine(0, pos.Clone(), co, tc)
	main.run(maxDepth)
	co.Stop()
	wg.Wait()

	best := co.BestPV()
	if len(best.Moves) == 0 && ml.Size > 0 {
		// The search was stopped before depth one finished.
		best = ScoredPV{Depth: 1, Moves: []board.Move{ml.Moves[0]}}
	}

	ponder := board.NullMove
	if len(best.Moves) > 1 {
		ponder = best.Moves[1]
	}
	if len(best.Moves) > 0 {
		co.logger.ReportBestMove(best.Moves[0], ponder)
	}
	log.Debugf("search finished: depth %d, %d nodes", best.Depth, co.nodes.Load())
	return best
}
