// Package wallet owns the stateful side of the engine: the incremental sync
// controller, the trust-line TTL cache, and the reserve math that turns an
// account snapshot into a spendable balance.
package wallet

import (
	"sync"
	"time"

	"github.com/bstrange24/XRPL-Utility-sub000/internal/xrpl"
)

// DefaultLinesTTL is how long a fetched trust-line snapshot stays valid.
const DefaultLinesTTL = 30 * time.Second

// LinesCache memoizes account_lines results keyed by address and network, so
// repeated resets within the TTL reuse the previous snapshot instead of
// re-fetching. Entries for the same address on different networks are
// independent.
type LinesCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]linesEntry
}

// linesEntry pairs a snapshot with the instant it was fetched. A zero
// fetchedAt marks incomplete bookkeeping and never satisfies a lookup; the
// timestamp, not the value, is what gates validity.
type linesEntry struct {
	lines     []xrpl.TrustLine
	fetchedAt time.Time
}

// NewLinesCache builds a cache with the given TTL. now is injected so tests
// can step time across the expiry boundary; a nil now uses the wall clock.
func NewLinesCache(ttl time.Duration, now func() time.Time) *LinesCache {
	if ttl <= 0 {
		ttl = DefaultLinesTTL
	}
	if now == nil {
		now = time.Now
	}
	return &LinesCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]linesEntry),
	}
}

// GetOrFetch returns the cached snapshot for (address, network) when one is
// still live, and otherwise invokes fetch. A failed fetch is returned as-is
// and stores nothing, so the next call retries immediately. The entry is
// built in full before insertion; no caller can observe a half-written one.
func (c *LinesCache) GetOrFetch(address, network string, fetch func() ([]xrpl.TrustLine, error)) ([]xrpl.TrustLine, error) {
	key := address + "-" + network

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !e.fetchedAt.IsZero() && c.now().Sub(e.fetchedAt) < c.ttl {
		lines := e.lines
		c.mu.Unlock()
		return lines, nil
	}
	c.mu.Unlock()

	lines, err := fetch()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = linesEntry{lines: lines, fetchedAt: c.now()}
	c.mu.Unlock()
	return lines, nil
}

// Invalidate drops the entry for (address, network), if any.
func (c *LinesCache) Invalidate(address, network string) {
	c.mu.Lock()
	delete(c.entries, address+"-"+network)
	c.mu.Unlock()
}
