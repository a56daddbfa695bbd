package cache

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetIfFresh(t *testing.T) {
	s := NewStore()
	s.Put("k1", "v1", time.Minute)

	v, ok := s.GetIfFresh("k1", nil)
	require.True(t, ok)
	assert.Equal(t, "v1", v)
}

func TestStore_ExpiredEntryIsMiss(t *testing.T) {
	s := NewStore()
	s.Put("k1", "v1", -time.Second)

	_, ok := s.GetIfFresh("k1", nil)
	assert.False(t, ok)
}

func TestStore_ValidationGuardEvictsBadEntry(t *testing.T) {
	s := NewStore()
	s.Put("rti", map[string]float64{"rti_score": math.NaN()}, time.Minute)

	predicate := func(value any) bool {
		row, ok := value.(map[string]float64)
		if !ok {
			return false
		}
		return !math.IsNaN(row["rti_score"])
	}

	_, ok := s.GetIfFresh("rti", predicate)
	assert.False(t, ok)

	// Eviction means a subsequent unconditional get also misses.
	_, ok = s.GetIfFresh("rti", nil)
	assert.False(t, ok)
}

func TestStore_InvalidateFunc(t *testing.T) {
	s := NewStore()
	s.Put("standings:2025-01-01", 1, time.Minute)
	s.Put("standings:2025-01-02", 2, time.Minute)
	s.Put("schedule:2025-01-01", 3, time.Minute)

	count := s.InvalidateFunc(func(key string) bool {
		return len(key) >= 10 && key[:10] == "standings:"
	})
	assert.Equal(t, 2, count)

	_, ok := s.GetIfFresh("schedule:2025-01-01", nil)
	assert.True(t, ok)
}

func TestKeyFor_Deterministic(t *testing.T) {
	a := KeyFor("nhl.standings", "2025-01-15")
	b := KeyFor("nhl.standings", "2025-01-15")
	c := KeyFor("nhl.standings", "2025-01-16")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestStats_TracksHitsAndMisses(t *testing.T) {
	s := NewStore()
	s.Put("k", 1, time.Minute)
	s.GetIfFresh("k", nil)
	s.GetIfFresh("missing", nil)

	stats := s.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}
