package repository

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewLRUCache(2)

	require.NoError(t, cache.Set("a", "1"))
	require.NoError(t, cache.Set("b", "2"))
	_, _ = cache.Get("a")
	require.NoError(t, cache.Set("c", "3"))

	_, ok := cache.Get("b")
	assert.False(t, ok, "b should have been evicted")

	v, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)
	assert.Equal(t, 2, cache.Len())
}

func TestLRUCache_DefaultSize(t *testing.T) {
	cache := NewLRUCache(0)
	for i := 0; i < defaultLRUSize+10; i++ {
		require.NoError(t, cache.Set(strconv.Itoa(i), "v"))
	}
	assert.Equal(t, defaultLRUSize, cache.Len())
}
