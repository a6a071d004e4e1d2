package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bstrange24/XRPL-Utility-sub000/internal/history"
)

func testRecord(i int) history.BalanceChange {
	return history.BalanceChange{
		Date:          time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
		Hash:          fmt.Sprintf("HASH%04d", i),
		Type:          "Payment Received",
		Currency:      "XRP",
		Change:        decimal.New(int64(i+1), -1),
		Fee:           decimal.New(12, -6),
		BalanceBefore: decimal.NewFromInt(int64(i)),
		BalanceAfter:  decimal.NewFromInt(int64(i + 1)),
		Counterparty:  "rSen...BBBB",
		SearchIndex:   "payment received xrp",
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := []history.BalanceChange{testRecord(0), testRecord(1), testRecord(2)}
	require.NoError(t, s.Append("rAddr", in))

	out, err := s.Load("rAddr")
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i := range in {
		assert.Equal(t, in[i].Hash, out[i].Hash)
		assert.True(t, in[i].Change.Equal(out[i].Change), "record %d change", i)
		assert.True(t, in[i].Date.Equal(out[i].Date), "record %d date", i)
	}
}

func TestStoreAppendPreservesOrderAcrossBatches(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Append("rAddr", []history.BalanceChange{testRecord(0), testRecord(1)}))
	require.NoError(t, s.Append("rAddr", []history.BalanceChange{testRecord(2)}))

	out, err := s.Load("rAddr")
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, rec := range out {
		assert.Equal(t, fmt.Sprintf("HASH%04d", i), rec.Hash)
	}
}

func TestStoreAddressesAreIndependent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Append("rAlice", []history.BalanceChange{testRecord(0)}))
	require.NoError(t, s.Append("rBob", []history.BalanceChange{testRecord(1), testRecord(2)}))

	aliceN, err := s.Count("rAlice")
	require.NoError(t, err)
	bobN, err := s.Count("rBob")
	require.NoError(t, err)
	assert.Equal(t, 1, aliceN)
	assert.Equal(t, 2, bobN)

	empty, err := s.Load("rCarol")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStoreEmptyAppendIsNoop(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Append("rAddr", nil))
	n, err := s.Count("rAddr")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStoreClosedOperationsFail(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())

	require.ErrorIs(t, s.Append("rAddr", []history.BalanceChange{testRecord(0)}), ErrClosed)
	_, err := s.Load("rAddr")
	require.ErrorIs(t, err, ErrClosed)
}
