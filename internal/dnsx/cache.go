package dnsx

import (
	"context"
	"net"
	"sync"
	"time"
)

// Cache wraps a Resolver with an in-memory TTL cache for MX and IP
// lookups. Concurrent lookups for the same name are deduplicated: one
// query runs, every waiter receives its result. TXT lookups pass
// through uncached because policy records are queried once per call.
//
// The cache holds lookup results only for the configured TTL and never
// touches disk.
type Cache struct {
	inner Resolver
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]*cacheEntry

	stopCh   chan struct{}
	stopOnce sync.Once
}

type cacheEntry struct {
	ips     []net.IP
	mxs     []*net.MX
	err     error
	expires time.Time
	done    chan struct{}
}

// NewCache wraps inner with a TTL cache and starts a background sweep
// that drops expired entries. Call Stop to end the sweep.
func NewCache(inner Resolver, ttl time.Duration) *Cache {
	c := &Cache{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
		stopCh:  make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Stop ends the background sweep goroutine.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func (c *Cache) sweep() {
	interval := c.ttl
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, e := range c.entries {
				select {
				case <-e.done:
					if now.After(e.expires) {
						delete(c.entries, key)
					}
				default:
					// Still in flight, leave it.
				}
			}
			c.mu.Unlock()
		case <-c.stopCh:
			return
		}
	}
}

// lookup runs fn under singleflight semantics for key.
func (c *Cache) lookup(ctx context.Context, key string, fn func() *cacheEntry) *cacheEntry {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		select {
		case <-e.done:
			if time.Now().Before(e.expires) {
				c.mu.Unlock()
				return e
			}
			// Expired, refresh below.
		default:
			// In flight, wait for it.
			c.mu.Unlock()
			select {
			case <-e.done:
				return e
			case <-ctx.Done():
				return &cacheEntry{err: ctx.Err(), done: closedChan()}
			}
		}
	}

	e := &cacheEntry{done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	res := fn()
	e.ips, e.mxs, e.err = res.ips, res.mxs, res.err
	e.expires = time.Now().Add(c.ttl)
	close(e.done)
	return e
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// LookupIP resolves A/AAAA records, serving repeats from the cache.
func (c *Cache) LookupIP(ctx context.Context, domain string) ([]net.IP, error) {
	e := c.lookup(ctx, "ip:"+domain, func() *cacheEntry {
		ips, err := c.inner.LookupIP(ctx, domain)
		return &cacheEntry{ips: ips, err: err}
	})
	return slicesCopy(e.ips), e.err
}

// LookupMX resolves MX records, serving repeats from the cache.
func (c *Cache) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	e := c.lookup(ctx, "mx:"+domain, func() *cacheEntry {
		mxs, err := c.inner.LookupMX(ctx, domain)
		return &cacheEntry{mxs: mxs, err: err}
	})
	return copyMX(e.mxs), e.err
}

// LookupTXT resolves TXT records directly from the inner resolver.
func (c *Cache) LookupTXT(ctx context.Context, name string) ([]string, error) {
	return c.inner.LookupTXT(ctx, name)
}

// Len returns the number of cached entries, for diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func slicesCopy(ips []net.IP) []net.IP {
	if ips == nil {
		return nil
	}
	out := make([]net.IP, len(ips))
	copy(out, ips)
	return out
}

// copyMX deep-copies records so callers can sort without mutating the cache.
func copyMX(records []*net.MX) []*net.MX {
	if records == nil {
		return nil
	}
	out := make([]*net.MX, len(records))
	for i, r := range records {
		cp := *r
		out[i] = &cp
	}
	return out
}
