package wallet

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bstrange24/XRPL-Utility-sub000/internal/xrpl"
)

// manualClock steps time explicitly so TTL expiry is testable at exact
// boundaries.
type manualClock struct {
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func countingFetch(lines []xrpl.TrustLine, err error) (func() ([]xrpl.TrustLine, error), *int) {
	calls := new(int)
	return func() ([]xrpl.TrustLine, error) {
		*calls++
		return lines, err
	}, calls
}

func TestLinesCacheTTLBoundary(t *testing.T) {
	clock := newManualClock()
	cache := NewLinesCache(30*time.Second, clock.Now)
	fetch, calls := countingFetch([]xrpl.TrustLine{{Currency: "USD"}}, nil)

	// First call populates.
	lines, err := cache.GetOrFetch("rAddr", "mainnet", fetch)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, *calls)

	// One tick before expiry: served from cache.
	clock.Advance(30*time.Second - time.Millisecond)
	_, err = cache.GetOrFetch("rAddr", "mainnet", fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)

	// At exactly the TTL: refetched.
	clock.Advance(time.Millisecond)
	_, err = cache.GetOrFetch("rAddr", "mainnet", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
}

func TestLinesCacheNetworkIsolation(t *testing.T) {
	clock := newManualClock()
	cache := NewLinesCache(30*time.Second, clock.Now)
	fetch, calls := countingFetch(nil, nil)

	_, err := cache.GetOrFetch("rAddr", "testnet", fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)

	// Same address, different network: independent entry.
	_, err = cache.GetOrFetch("rAddr", "mainnet", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)

	// Both entries now live.
	_, _ = cache.GetOrFetch("rAddr", "testnet", fetch)
	_, _ = cache.GetOrFetch("rAddr", "mainnet", fetch)
	assert.Equal(t, 2, *calls)
}

func TestLinesCacheFailedFetchNotStored(t *testing.T) {
	clock := newManualClock()
	cache := NewLinesCache(30*time.Second, clock.Now)

	boom := errors.New("network down")
	failing, failCalls := countingFetch(nil, boom)

	_, err := cache.GetOrFetch("rAddr", "mainnet", failing)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, *failCalls)

	// The failure was not cached: the next call fetches again immediately.
	ok, okCalls := countingFetch([]xrpl.TrustLine{{Currency: "EUR"}}, nil)
	lines, err := cache.GetOrFetch("rAddr", "mainnet", ok)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, *okCalls)
}

func TestLinesCacheInvalidate(t *testing.T) {
	clock := newManualClock()
	cache := NewLinesCache(30*time.Second, clock.Now)
	fetch, calls := countingFetch(nil, nil)

	_, _ = cache.GetOrFetch("rAddr", "mainnet", fetch)
	cache.Invalidate("rAddr", "mainnet")
	_, _ = cache.GetOrFetch("rAddr", "mainnet", fetch)
	assert.Equal(t, 2, *calls)
}
