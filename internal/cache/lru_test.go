package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := NewLRUCache[int](2, func(key string, _ int) {
		evicted = append(evicted, key)
	})

	c.Set("a", 1)
	c.Set("b", 2)
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)
	require.Equal(t, []string{"b"}, evicted)
	require.Equal(t, []string{"c", "a"}, c.Keys())

	_, ok = c.Get("b")
	require.False(t, ok)
	require.Equal(t, 2, c.Size())
}

func TestLRUCacheSetReplaces(t *testing.T) {
	c := NewLRUCache[string](2, nil)
	c.Set("k", "old")
	c.Set("k", "new")

	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "new", v)
	require.Equal(t, 1, c.Size())
}

func TestLRUCacheDelete(t *testing.T) {
	called := false
	c := NewLRUCache[int](0, func(string, int) { called = true })
	c.Set("a", 1)
	c.Delete("a")
	c.Delete("missing")

	require.Zero(t, c.Size())
	require.False(t, called)
}
