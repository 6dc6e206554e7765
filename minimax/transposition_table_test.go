package minimax

import (
	"testing"

	"github.com/matryer/is"
)

func TestStoreAndLookup(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0) // clamps to the floor size
	is.Equal(tt.sizePowerOf2, 20)

	hash := uint64(0x123456789abcdef0)
	tt.store(hash, 1234.5, 7, 8, 3)
	entry, ok := tt.lookup(hash)
	is.True(ok)
	is.Equal(entry.score, 1234.5)
	is.Equal(entry.row, int8(7))
	is.Equal(entry.col, int8(8))
	is.Equal(entry.depth, uint8(3))

	_, ok = tt.lookup(hash + 1)
	is.True(!ok)

	is.Equal(tt.Created(), uint64(1))
	is.Equal(tt.Lookups(), uint64(2))
	is.Equal(tt.Hits(), uint64(1))
}

func TestLargeScoresSurviveExactly(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)
	tt.store(99, 400000000, NoCoord, NoCoord, 0)
	entry, ok := tt.lookup(99)
	is.True(ok)
	is.Equal(entry.score, 4e8)
	is.Equal(entry.row, NoCoord)
}

func TestBucketCollisionEvicts(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)
	a := uint64(42)
	b := a + (uint64(1) << tt.sizePowerOf2) // same bucket, different hash
	tt.store(a, 1, NoCoord, NoCoord, 1)
	tt.store(b, 2, NoCoord, NoCoord, 1)

	_, ok := tt.lookup(a) // overwritten by the newer entry
	is.True(!ok)
	is.Equal(tt.t2collisions.Load(), uint64(1))

	entry, ok := tt.lookup(b)
	is.True(ok)
	is.Equal(entry.score, 2.0)
}

func TestStoreAlwaysReplaces(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)
	h := uint64(77)
	tt.store(h, 10, 5, 5, 4)
	tt.store(h, 20, 6, 6, 1) // shallower result still wins the bucket
	entry, ok := tt.lookup(h)
	is.True(ok)
	is.Equal(entry.score, 20.0)
	is.Equal(entry.depth, uint8(1))
}

func TestResetClearsEntriesAndCounters(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)
	tt.store(123, 9, NoCoord, NoCoord, 2)
	tt.lookup(123)
	tt.Reset(0)
	_, ok := tt.lookup(123)
	is.True(!ok)
	is.Equal(tt.Created(), uint64(0))
	is.Equal(tt.Hits(), uint64(0))
}
