// Copyright 2021-2025 The Tern Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// search.go implements the per-worker search: iterative deepening with
// aspiration windows around a fail-soft negamax with alpha-beta,
// principal variation search, quiescence and the usual pruning devices.

package engine

import "github.com/ternengine/tern/board"

const (
	// MaxDepth is the deepest nominal search depth.
	MaxDepth = 64
	// maxPly bounds the search stack; quiescence and extensions may
	// take a line past the nominal depth.
	maxPly = 126

	// checkpointStep is how many nodes are searched between stop-flag
	// and clock checks.
	checkpointStep = 2048

	checkDepthExtension int32 = 1
	lmrDepthLimit       int32 = 3
	futilityDepthLimit  int32 = 3
	futilityMargin      int32 = 150
	deltaPruningMargin  int32 = 100

	initialAspirationWindow int32 = 40
)

// Move ordering score bands, highest first.
const (
	orderTTMove      = int32(1) << 30
	orderGoodCapture = int32(1) << 27
	orderKiller      = int32(1) << 26
	orderBadCapture  = -(int32(1) << 27)
)

// Stats stores statistics about one worker's search.
type Stats struct {
	Nodes    uint64
	Depth    int32
	SelDepth int32
	TTHits   uint64
}

// ScoredPV is a principal variation with the score and depth it was
// established at.
type ScoredPV struct {
	Depth int32
	Score int32
	Moves []board.Move
}

// searchPly is the per-ply search state, indexed by distance from the
// root so the recursion carries no closure state.
type searchPly struct {
	moves    board.MoveList
	next     int // selection cursor into moves
	pv       [maxPly + 1]board.Move
	pvLen    int
	killers  [2]board.Move
	quiets   [64]board.Move // quiet moves tried, for the history penalty
	numQuiet int
}

// historyTable keeps butterfly-normalized cutoff statistics for quiet
// moves, indexed by side, from and to square.
type historyTable struct {
	hh [board.ColorArraySize][64][64]int32
	bf [board.ColorArraySize][64][64]int32
}

func (h *historyTable) get(us board.Color, m board.Move) int32 {
	from, to := m.From(), m.To()
	return h.hh[us][from][to] * 512 / (h.bf[us][from][to] + 1)
}

func (h *historyTable) cutoff(us board.Color, m board.Move, depth int32) {
	h.hh[us][m.From()][m.To()] += depth * depth
}

func (h *historyTable) tried(us board.Color, m board.Move, depth int32) {
	h.bf[us][m.From()][m.To()] += depth
}

// Engine searches a position on behalf of one worker thread. All its
// state is private; workers share only the transposition table and the
// coordinator.
type Engine struct {
	Position *board.Position
	Stats    Stats

	id          int
	coord       *Coordinator
	tt          *Table
	timeControl *TimeControl // nil on helper workers
	eval        Evaluator
	history     historyTable
	plies       [maxPly + 2]searchPly

	stopped    bool
	checkpoint uint64
	flushed    uint64 // nodes already reported to the coordinator
	currentPV  ScoredPV
}

func newEngine(id int, pos *board.Position, coord *Coordinator, tc *TimeControl) *Engine {
	return &Engine{
		Position:    pos,
		id:          id,
		coord:       coord,
		tt:          coord.tt,
		timeControl: tc,
		checkpoint:  checkpointStep,
	}
}

// checkpointTick periodically syncs node counts with the coordinator and
// polls the stop conditions.
func (eng *Engine) checkpointTick() {
	if eng.Stats.Nodes < eng.checkpoint {
		return
	}
	eng.checkpoint = eng.Stats.Nodes + checkpointStep
	eng.coord.addNodes(eng.Stats.Nodes - eng.flushed)
	eng.flushed = eng.Stats.Nodes
	if eng.timeControl != nil &&
		(eng.timeControl.Stopped() || eng.timeControl.NodeLimitReached(eng.coord.nodes.Load())) {
		eng.coord.Stop()
	}
	if eng.coord.Stopped() {
		eng.stopped = true
	}
}

// endPosition detects draws by rule. The side to move always has a king;
// mates are handled by the move loop.
func (eng *Engine) endPosition(ply int32) (int32, bool) {
	pos := eng.Position
	if pos.InsufficientMaterial() {
		return 0, true
	}
	if pos.FiftyMoveRule() {
		return 0, true
	}
	// Away from the root two occurrences already guarantee the search
	// can force the third; the root needs a real threefold.
	if r := pos.ThreeFoldRepetition(); ply > 0 && r >= 2 || r >= 3 {
		return 0, true
	}
	return 0, false
}

// scoreMoves assigns ordering scores: transposition table move first,
// winning captures by exchange value, killers, quiets by history,
// losing captures last.
func (eng *Engine) scoreMoves(ply int32, ttMove uint16) {
	ms := &eng.plies[ply]
	ms.next = 0
	us := eng.Position.Us()
	for i := 0; i < ms.moves.Size; i++ {
		m := ms.moves.Moves[i]
		var s int32
		switch {
		case ttMove != 0 && m.Mini() == ttMove:
			s = orderTTMove
		case m.IsViolent():
			if v := see(eng.Position, m); v >= 0 {
				s = orderGoodCapture + v
			} else {
				s = orderBadCapture + v
			}
		case m == ms.killers[0]:
			s = orderKiller
		case m == ms.killers[1]:
			s = orderKiller - 1
		default:
			s = eng.history.get(us, m)
		}
		ms.moves.Scores[i] = s
	}
}

// popMove selects the best remaining move of the ply, NullMove when
// exhausted.
func (eng *Engine) popMove(ply int32) board.Move {
	ms := &eng.plies[ply]
	if ms.next >= ms.moves.Size {
		return board.NullMove
	}
	best := ms.next
	for i := ms.next + 1; i < ms.moves.Size; i++ {
		if ms.moves.Scores[i] > ms.moves.Scores[best] {
			best = i
		}
	}
	ms.moves.Swap(ms.next, best)
	m := ms.moves.Moves[ms.next]
	ms.next++
	return m
}

func (eng *Engine) saveKiller(ply int32, m board.Move) {
	ms := &eng.plies[ply]
	if m.IsQuiet() && m != ms.killers[0] {
		ms.killers[1] = ms.killers[0]
		ms.killers[0] = m
	}
}

func (eng *Engine) updatePV(ply int32, m board.Move) {
	ms, child := &eng.plies[ply], &eng.plies[ply+1]
	ms.pv[0] = m
	copy(ms.pv[1:], child.pv[:child.pvLen])
	ms.pvLen = child.pvLen + 1
}

// searchQuiescence resolves captures until the position is quiet. While
// in check all evasions are searched instead and there is no stand pat.
func (eng *Engine) searchQuiescence(α, β, ply int32) int32 {
	eng.Stats.Nodes++
	eng.checkpointTick()
	eng.plies[ply].pvLen = 0
	if eng.stopped {
		return α
	}
	if score, done := eng.endPosition(ply); done {
		return score
	}

	pos := eng.Position
	us := pos.Us()
	inCheck := pos.IsChecked(us)

	if ply >= maxPly {
		score, _ := eng.eval.EvaluateWithPhase(pos)
		return score
	}

	standPat, phase := int32(0), int32(0)
	bestScore := -InfinityScore
	if !inCheck {
		standPat, phase = eng.eval.EvaluateWithPhase(pos)
		if standPat >= β {
			return standPat
		}
		if standPat > α {
			α = standPat
		}
		bestScore = standPat
	}

	// Delta pruning is unsound in pawn-only endgames where every pawn
	// counts, and for promotions.
	allowDelta := !inCheck && phase < 256

	ms := &eng.plies[ply]
	pos.GenerateMoves(board.Violent, &ms.moves)
	eng.scoreMoves(ply, 0)

	numMoves := 0
	for m := eng.popMove(ply); m != board.NullMove; m = eng.popMove(ply) {
		if !inCheck && m.MoveType() != board.Promotion {
			// Losing captures are not going to raise alpha.
			if ms.moves.Scores[ms.next-1] < 0 {
				continue
			}
			if allowDelta && standPat+seeValue[m.Capture().Figure()]+deltaPruningMargin < α {
				continue
			}
		}
		numMoves++

		pos.DoMove(m)
		score := -eng.searchQuiescence(-β, -α, ply+1)
		pos.UndoMove()

		if score >= β {
			return score
		}
		if score > bestScore {
			bestScore = score
			if score > α {
				α = score
				eng.updatePV(ply, m)
			}
		}
	}

	if inCheck && numMoves == 0 {
		return MatedScore + ply
	}
	return bestScore
}

// searchTree is the fail-soft alpha-beta recursion.
//
// If the returned score is <= α it is an upper bound, if it is >= β it
// is a lower bound, otherwise it is exact.
func (eng *Engine) searchTree(α, β, depth, ply int32, nullMoveOK bool) int32 {
	if depth <= 0 {
		return eng.searchQuiescence(α, β, ply)
	}

	eng.Stats.Nodes++
	eng.checkpointTick()
	eng.plies[ply].pvLen = 0
	if eng.stopped {
		return α
	}

	pos := eng.Position
	if ply >= maxPly {
		score, _ := eng.eval.EvaluateWithPhase(pos)
		return score
	}

	us, them := pos.Us(), pos.Them()
	pvNode := α+1 < β
	if pvNode && ply > eng.Stats.SelDepth {
		eng.Stats.SelDepth = ply
		eng.coord.updateSelDepth(ply)
	}

	if score, done := eng.endPosition(ply); done {
		return score
	}
	if ply > 0 {
		// Mate distance pruning: even the fastest mate from here
		// cannot beat a mate an ancestor already found.
		α = max(α, MatedScore+ply)
		β = min(β, MateScore-ply-1)
		if α >= β {
			return α
		}
	}

	// Transposition table probe.
	ttMove := uint16(0)
	if e, ok := eng.tt.Probe(pos, ply); ok {
		eng.Stats.TTHits++
		ttMove = e.move
		if ply > 0 && e.depth >= depth {
			switch e.bound {
			case ExactBound:
				return e.score
			case LowerBound:
				if e.score >= β {
					return e.score
				}
			case UpperBound:
				if e.score <= α {
					return e.score
				}
			}
		}
	}

	inCheck := pos.IsChecked(us)

	static := int32(0)
	haveStatic := false
	if !inCheck {
		static, _ = eng.eval.EvaluateWithPhase(pos)
		haveStatic = true
	}

	// Null move: if passing still fails high the position is too good.
	if nullMoveOK && !inCheck && !pvNode &&
		depth >= 2 &&
		haveStatic && static >= β &&
		pos.HasNonPawns(us) &&
		β < KnownWinScore && α > KnownLossScore {
		reduction := int32(3) + depth/6
		pos.DoMove(board.NullMove)
		score := -eng.searchTree(-β, -β+1, depth-1-reduction, ply+1, false)
		pos.UndoMove()
		if eng.stopped {
			return α
		}
		if score >= β && score < KnownWinScore {
			return score
		}
	}

	allowFutility := depth <= futilityDepthLimit && !inCheck && !pvNode &&
		haveStatic && α > KnownLossScore && β < KnownWinScore
	allowLMR := depth > lmrDepthLimit && !inCheck

	ms := &eng.plies[ply]
	ms.numQuiet = 0
	pos.GenerateMoves(board.All, &ms.moves)
	eng.scoreMoves(ply, ttMove)

	localα := α
	bestMove, bestScore := board.NullMove, -InfinityScore
	nullWindow := false
	numMoves := int32(0)
	dropped := false

	for m := eng.popMove(ply); m != board.NullMove; m = eng.popMove(ply) {
		moveScore := ms.moves.Scores[ms.next-1]
		critical := (ttMove != 0 && m.Mini() == ttMove) ||
			m == ms.killers[0] || m == ms.killers[1]
		numMoves++

		pos.DoMove(m)
		givesCheck := pos.IsChecked(them)

		newDepth := depth
		if givesCheck {
			newDepth += checkDepthExtension
		}

		// Futility: moves near the horizon that cannot raise alpha even
		// with the captured material and a margin added are dropped
		// before searching them.
		if allowFutility && !givesCheck && !critical && m.MoveType() != board.Promotion {
			if static+seeValue[m.Capture().Figure()]+depth*futilityMargin < localα {
				bestScore = max(bestScore, static)
				dropped = true
				pos.UndoMove()
				continue
			}
		}

		// Reduce late quiet moves and losing captures.
		lmr := int32(0)
		if allowLMR && !givesCheck && !critical && numMoves > 3 &&
			(m.IsQuiet() || moveScore < 0) {
			lmr = 1 + min(depth, numMoves)/5
		}

		if m.IsQuiet() && ms.numQuiet < len(ms.quiets) {
			ms.quiets[ms.numQuiet] = m
			ms.numQuiet++
		}

		score := eng.tryMove(localα, β, newDepth, lmr, nullWindow, ply)
		if eng.stopped {
			return α
		}

		if score >= β {
			eng.saveKiller(ply, m)
			if m.IsQuiet() {
				eng.history.cutoff(us, m, depth)
				for i := 0; i < ms.numQuiet; i++ {
					if ms.quiets[i] != m {
						eng.history.tried(us, ms.quiets[i], depth)
					}
				}
			}
			eng.tt.Store(pos, m, score, static, depth, ply, LowerBound)
			return score
		}
		if score > bestScore {
			bestMove, bestScore = m, score
			nullWindow = true
			if score > localα {
				localα = score
				eng.updatePV(ply, m)
			}
		}
	}

	if numMoves == 0 {
		// No legal moves: checkmate or stalemate.
		if inCheck {
			return MatedScore + ply
		}
		return 0
	}

	if !dropped && !eng.stopped {
		bound := UpperBound
		if bestScore > α {
			bound = ExactBound
		}
		eng.tt.Store(pos, bestMove, bestScore, static, depth, ply, bound)
	}
	return bestScore
}

// tryMove searches the move already executed on the board: reduced first
// if lmr is set, with a null window once a best move exists, re-searched
// at full width on fail high.
func (eng *Engine) tryMove(α, β, depth, lmr int32, nullWindow bool, ply int32) int32 {
	depth--
	score := α + 1
	if lmr > 0 {
		score = -eng.searchTree(-α-1, -α, depth-lmr, ply+1, true)
	}
	if score > α {
		if nullWindow {
			score = -eng.searchTree(-α-1, -α, depth, ply+1, true)
			if α < score && score < β {
				score = -eng.searchTree(-β, -α, depth, ply+1, true)
			}
		} else {
			score = -eng.searchTree(-β, -α, depth, ply+1, true)
		}
	}
	eng.Position.UndoMove()
	return score
}

// searchAspirated runs one iterative-deepening step inside an aspiration
// window around the previous score. Only the failing bound widens, by
// half again per re-search; extreme mate scores collapse the window to
// full width.
func (eng *Engine) searchAspirated(depth, estimated int32) int32 {
	δ := initialAspirationWindow
	α, β := estimated-δ, estimated+δ
	if depth <= 1 {
		α, β = -InfinityScore, InfinityScore
	}

	for !eng.stopped {
		score := eng.searchTree(α, β, depth, 0, false)
		if eng.stopped {
			break
		}
		switch {
		case score <= α:
			if α <= -KnownWinScore || score <= MatedScore+MaxDepth {
				α, β = -InfinityScore, InfinityScore
			} else {
				α = max(α-δ, -InfinityScore)
			}
		case score >= β:
			if β >= KnownWinScore || score >= MateScore-MaxDepth {
				α, β = -InfinityScore, InfinityScore
			} else {
				β = min(β+δ, InfinityScore)
			}
		default:
			return score
		}
		δ = δ * 3 / 2
	}
	return estimated
}

// run is a worker's main loop: request depths from the coordinator,
// search them and register the resulting variations.
func (eng *Engine) run(maxDepth int32) {
	log.Debugf("worker %d starting", eng.id)
	curDepth := int32(0)
	for !eng.coord.Stopped() {
		depth, _ := eng.coord.NextDepth(curDepth)
		curDepth = depth
		if depth > maxDepth {
			break
		}
		if eng.timeControl != nil && !eng.timeControl.NextDepth(depth) {
			eng.coord.Stop()
			break
		}

		eng.Stats.Depth = depth
		score := eng.searchAspirated(depth, eng.currentPV.Score)
		if eng.stopped {
			break
		}

		root := &eng.plies[0]
		if root.pvLen == 0 {
			continue
		}
		pv := make([]board.Move, root.pvLen)
		copy(pv, root.pv[:root.pvLen])
		eng.currentPV = ScoredPV{Depth: depth, Score: score, Moves: pv}
		eng.coord.RegisterPV(eng.currentPV)

		if eng.timeControl != nil && eng.coord.StablePV() && eng.timeControl.PastEarlyDeadline() {
			eng.coord.Stop()
			break
		}
	}
	eng.coord.addNodes(eng.Stats.Nodes - eng.flushed)
	eng.flushed = eng.Stats.Nodes
}
