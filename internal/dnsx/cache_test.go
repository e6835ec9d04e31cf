package dnsx_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/mailprobe/internal/dnsx"
)

func cachedResolver(t *testing.T, ttl time.Duration) (*dnsx.Cache, *dnsx.MockResolver) {
	t.Helper()
	inner := &dnsx.MockResolver{
		A:  map[string][]string{"example.com": {"93.184.216.34"}},
		MX: map[string][]*net.MX{"example.com": {{Host: "mx.example.com.", Pref: 10}}},
		TXT: map[string][]string{
			"example.com": {"v=spf1 -all"},
		},
	}
	cache := dnsx.NewCache(inner, ttl)
	t.Cleanup(cache.Stop)
	return cache, inner
}

func TestCacheServesRepeatsFromMemory(t *testing.T) {
	cache, inner := cachedResolver(t, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ips, err := cache.LookupIP(ctx, "example.com")
		require.NoError(t, err)
		require.Len(t, ips, 1)
	}
	for i := 0; i < 3; i++ {
		mxs, err := cache.LookupMX(ctx, "example.com")
		require.NoError(t, err)
		require.Len(t, mxs, 1)
	}

	// One A and one MX query reached the wire.
	assert.Equal(t, int64(2), inner.Queries())
	assert.Equal(t, 2, cache.Len())
}

func TestCacheCachesErrors(t *testing.T) {
	cache, inner := cachedResolver(t, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := cache.LookupIP(ctx, "missing.example")
		assert.ErrorIs(t, err, dnsx.ErrNotFound)
	}
	assert.Equal(t, int64(1), inner.Queries())
}

func TestCacheExpiresEntries(t *testing.T) {
	cache, inner := cachedResolver(t, 10*time.Millisecond)
	ctx := context.Background()

	_, err := cache.LookupIP(ctx, "example.com")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = cache.LookupIP(ctx, "example.com")
	require.NoError(t, err)

	assert.Equal(t, int64(2), inner.Queries())
}

func TestCacheDeduplicatesConcurrentLookups(t *testing.T) {
	cache, inner := cachedResolver(t, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.LookupMX(ctx, "example.com")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), inner.Queries())
}

func TestCacheCopiesMXRecords(t *testing.T) {
	cache, _ := cachedResolver(t, time.Minute)
	ctx := context.Background()

	first, err := cache.LookupMX(ctx, "example.com")
	require.NoError(t, err)
	first[0].Host = "mutated."

	second, err := cache.LookupMX(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, "mx.example.com.", second[0].Host)
}

func TestCacheTXTPassesThrough(t *testing.T) {
	cache, inner := cachedResolver(t, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		records, err := cache.LookupTXT(ctx, "example.com")
		require.NoError(t, err)
		require.Len(t, records, 1)
	}
	assert.Equal(t, int64(3), inner.Queries())
}
