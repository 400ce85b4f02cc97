// Copyright 2021-2025 The Tern Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// hash_table.go implements the shared transposition table.
//
// Entries are two 64-bit words. The key word is the position hash XORed
// with the data word (the Hyatt-Mann lockless scheme): a read torn by a
// racing writer fails the XOR test and is treated as a miss, so the table
// needs no locks at all.

package engine

import (
	"sync/atomic"

	"github.com/ternengine/tern/board"
)

// Bound describes how a stored score relates to the true score.
type Bound uint8

const (
	NoBound Bound = iota
	// LowerBound means the search failed high: the true score is at least
	// the stored score.
	LowerBound
	// UpperBound means the search failed low: the true score is at most
	// the stored score.
	UpperBound
	// ExactBound means the score was inside the alpha-beta window.
	ExactBound
)

// DefaultHashSizeMB is the default table size in megabytes.
const DefaultHashSizeMB = 64

// hashEntry is the unpacked form of a table entry.
type hashEntry struct {
	move   uint16 // packed best move
	score  int32
	static int32
	depth  int32
	bound  Bound
}

// data packing: move16 | score16<<16 | static16<<32 | depth8<<48 |
// bound2<<56 | generation6<<58.
func packData(e hashEntry, gen uint8) uint64 {
	return uint64(e.move) |
		uint64(uint16(e.score))<<16 |
		uint64(uint16(e.static))<<32 |
		uint64(uint8(e.depth))<<48 |
		uint64(e.bound)<<56 |
		uint64(gen&0x3f)<<58
}

func unpackData(data uint64) (hashEntry, uint8) {
	return hashEntry{
		move:   uint16(data),
		score:  int32(int16(data >> 16)),
		static: int32(int16(data >> 32)),
		depth:  int32(int8(data >> 48)),
		bound:  Bound(data >> 56 & 0x3),
	}, uint8(data >> 58)
}

type tableSlot struct {
	key  uint64 // zobrist ^ data
	data uint64
}

// Table is the transposition table. It is shared by all search workers
// and lives for the lifetime of the engine; Clear empties it.
type Table struct {
	slots []tableSlot
	mask  uint64
	gen   uint32
}

// NewTable allocates a table of at most sizeMB megabytes with a power of
// two number of slots.
func NewTable(sizeMB int) *Table {
	size := uint64(sizeMB) << 20 / 16
	for size&(size-1) != 0 {
		size &= size - 1
	}
	log.Debugf("allocating %d MB transposition table, %d entries", sizeMB, size)
	return &Table{
		slots: make([]tableSlot, size),
		mask:  size - 1,
	}
}

// Size returns the number of slots in the table.
func (t *Table) Size() int {
	return len(t.slots)
}

// NextGeneration ages the table. Called once per search so stale entries
// lose their replacement priority.
func (t *Table) NextGeneration() {
	atomic.AddUint32(&t.gen, 1)
}

// Clear drops all entries.
func (t *Table) Clear() {
	for i := range t.slots {
		t.slots[i] = tableSlot{}
	}
}

// get reads the entry for hash. ok is false on a miss or a torn read.
func (t *Table) get(hash uint64) (hashEntry, bool) {
	slot := &t.slots[hash&t.mask]
	key := atomic.LoadUint64(&slot.key)
	data := atomic.LoadUint64(&slot.data)
	if key^data != hash {
		return hashEntry{}, false
	}
	e, _ := unpackData(data)
	if e.bound == NoBound {
		return hashEntry{}, false
	}
	return e, true
}

// put stores an entry for hash. An existing entry is kept when it is from
// the current generation and was searched deeper.
func (t *Table) put(hash uint64, e hashEntry) {
	slot := &t.slots[hash&t.mask]
	gen := uint8(atomic.LoadUint32(&t.gen))

	old := atomic.LoadUint64(&slot.data)
	oldEntry, oldGen := unpackData(old)
	if oldEntry.bound != NoBound && oldGen == gen&0x3f && oldEntry.depth > e.depth {
		// Keep deeper data from the current generation. Entries from
		// older searches are always overwritten.
		return
	}

	data := packData(e, gen)
	atomic.StoreUint64(&slot.data, data)
	atomic.StoreUint64(&slot.key, hash^data)
}

// scoreToHash adjusts mate scores to be relative to the current node so
// that a mate-in-N entry remains valid at any path depth.
func scoreToHash(score, ply int32) int32 {
	if score > KnownWinScore {
		return score + ply
	}
	if score < KnownLossScore {
		return score - ply
	}
	return score
}

// scoreFromHash undoes scoreToHash at retrieval ply.
func scoreFromHash(score, ply int32) int32 {
	if score > KnownWinScore {
		return score - ply
	}
	if score < KnownLossScore {
		return score + ply
	}
	return score
}

// Probe looks up pos and returns the entry with mate scores adjusted for
// ply.
func (t *Table) Probe(pos *board.Position, ply int32) (hashEntry, bool) {
	e, ok := t.get(pos.Zobrist())
	if !ok {
		return hashEntry{}, false
	}
	e.score = scoreFromHash(e.score, ply)
	return e, true
}

// Store saves a search result for pos, adjusting mate scores by ply.
func (t *Table) Store(pos *board.Position, move board.Move, score, static, depth, ply int32, bound Bound) {
	t.put(pos.Zobrist(), hashEntry{
		move:   move.Mini(),
		score:  scoreToHash(score, ply),
		static: static,
		depth:  depth,
		bound:  bound,
	})
}

// Hashfull estimates the table usage in permill, sampling the first
// slots the way UCI reporting expects.
func (t *Table) Hashfull() int {
	n, probed := 0, min(1000, len(t.slots))
	gen := uint8(atomic.LoadUint32(&t.gen)) & 0x3f
	for i := 0; i < probed; i++ {
		e, g := unpackData(atomic.LoadUint64(&t.slots[i].data))
		if e.bound != NoBound && g == gen {
			n++
		}
	}
	return n * 1000 / probed
}
