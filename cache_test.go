package cellr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRistrettoCache(t *testing.T) {
	t.Parallel()

	cache, err := NewRistrettoCache()
	require.NoError(t, err)
	defer cache.Close()

	rec := CellRecord{Token: "89c25c", ID: "9926597683747749888", Level: 9}

	_, ok := cache.Get("89c25c")
	assert.False(t, ok)

	require.True(t, cache.Set("89c25c", rec))

	got, ok := cache.Get("89c25c")
	require.True(t, ok)
	assert.Equal(t, rec, got)

	cache.Clear()
	_, ok = cache.Get("89c25c")
	assert.False(t, ok)
}

func TestRistrettoCacheOptions(t *testing.T) {
	t.Parallel()

	cache, err := NewRistrettoCache(
		WithMaxCost(1024),
		WithNumCounters(10_000),
	)
	require.NoError(t, err)
	defer cache.Close()

	require.True(t, cache.Set("1", CellRecord{Token: "1"}))
	got, ok := cache.Get("1")
	require.True(t, ok)
	assert.Equal(t, "1", got.Token)
}
