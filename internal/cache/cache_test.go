package cache_test

import (
	"testing"
	"time"

	"github.com/lexo-ch/lexo-forms-sub000/internal/cache"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cache.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { cache.NowTimeFunc = time.Now })

	c := cache.NewTTLCache[[]string](time.Hour)
	c.Set("groups", []string{"a", "b"})

	got, ok := c.Get("groups")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, got)

	now = now.Add(2 * time.Hour)
	_, ok = c.Get("groups")
	require.False(t, ok)
}

func TestTTLCacheInvalidate(t *testing.T) {
	c := cache.NewTTLCache[int](time.Hour)
	c.Set("forms", 7)
	c.Invalidate("forms")
	_, ok := c.Get("forms")
	require.False(t, ok)

	c.Set("a", 1)
	c.Set("b", 2)
	c.InvalidateAll()
	_, ok = c.Get("a")
	require.False(t, ok)
	_, ok = c.Get("b")
	require.False(t, ok)
}
