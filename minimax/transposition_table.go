package minimax

import (
	"math"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const entrySize = 24

// NoCoord marks an entry stored without a best move, such as a leaf
// evaluation or a shortcut cutoff.
const NoCoord = int8(-1)

// TableEntry is one cached search result. The full 64-bit position hash is
// stored with the entry and doubles as the occupancy check: a probe hits
// only when the stored hash matches exactly, so a bucket shared by two
// positions never leaks a score across them. There is no verification
// against the board itself; two positions hashing identically are
// indistinguishable.
type TableEntry struct {
	fullHash uint64
	score    float64
	row      int8
	col      int8
	depth    uint8
}

func (t TableEntry) valid() bool {
	return t.fullHash != 0
}

// TranspositionTable is a fixed-size direct-mapped cache of search
// results. Writes always replace whatever occupies the bucket. The counter
// fields are atomic only so a logging goroutine may read them mid-search;
// the table itself belongs to a single searching goroutine.
type TranspositionTable struct {
	table        []TableEntry
	created      atomic.Uint64
	lookups      atomic.Uint64
	hits         atomic.Uint64
	t2collisions atomic.Uint64
	sizePowerOf2 int
	sizeMask     uint64
}

func (t *TranspositionTable) lookup(zval uint64) (TableEntry, bool) {
	t.lookups.Add(1)
	idx := zval & t.sizeMask
	entry := t.table[idx]
	if entry.fullHash != zval {
		if entry.valid() {
			t.t2collisions.Add(1)
		}
		return TableEntry{}, false
	}
	t.hits.Add(1)
	return entry, true
}

func (t *TranspositionTable) store(zval uint64, score float64, row, col int8, depth uint8) {
	idx := zval & t.sizeMask
	t.table[idx] = TableEntry{
		fullHash: zval,
		score:    score,
		row:      row,
		col:      col,
		depth:    depth,
	}
	t.created.Add(1)
}

// Reset sizes the table to the largest power of two that fits in the
// given fraction of system memory, with a floor of 2^20 entries, and
// zeroes all entries and counters.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))

	t.sizePowerOf2 = 0
	if desiredNElems >= 1 {
		t.sizePowerOf2 = int(math.Log2(desiredNElems))
	}
	if t.sizePowerOf2 < 20 {
		t.sizePowerOf2 = 20
	}
	numElems := 1 << t.sizePowerOf2
	t.sizeMask = uint64(numElems - 1)

	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
	}

	log.Info().Int("num-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("transposition-table-size")

	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
}

// Created returns how many entries have been written since the last Reset.
func (t *TranspositionTable) Created() uint64 {
	return t.created.Load()
}

// Lookups returns the probe count since the last Reset.
func (t *TranspositionTable) Lookups() uint64 {
	return t.lookups.Load()
}

// Hits returns how many probes found their exact position.
func (t *TranspositionTable) Hits() uint64 {
	return t.hits.Load()
}
