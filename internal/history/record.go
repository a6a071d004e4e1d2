// Package history is the pure core of the balance-history engine: it walks
// the affected-node metadata of ledger transactions and produces normalized
// per-currency balance-change records for one account, plus the text/date
// filtering those records are queried with.
package history

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceChange is one signed balance movement of the observed account in a
// single currency, attributed to a single transaction. A transaction that
// touches several balance-bearing ledger entries yields several records
// sharing the same hash, date, type and fee. Records are immutable once
// built.
type BalanceChange struct {
	Date          time.Time       `json:"date"`
	Hash          string          `json:"hash"`
	Type          string          `json:"type"`
	Currency      string          `json:"currency"`
	Change        decimal.Decimal `json:"change"`
	Fee           decimal.Decimal `json:"fee"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Counterparty  string          `json:"counterparty"`
	SearchIndex   string          `json:"search_index"`
}

// newBalanceChange assembles a record and precomputes its search index, so
// filtering later is a plain substring scan.
func newBalanceChange(date time.Time, hash, txType, currency string, change, fee, before, after decimal.Decimal, counterparty string) BalanceChange {
	r := BalanceChange{
		Date:          date,
		Hash:          hash,
		Type:          txType,
		Currency:      currency,
		Change:        change,
		Fee:           fee,
		BalanceBefore: before,
		BalanceAfter:  after,
		Counterparty:  counterparty,
	}
	r.SearchIndex = buildSearchIndex(r)
	return r
}

// buildSearchIndex joins every displayable field of the record, lower-cased,
// into one searchable string. The date appears twice: once in ISO form and
// once as a month/day/year phrase so partial natural-language queries like
// "january 2024" match.
func buildSearchIndex(r BalanceChange) string {
	parts := []string{
		r.Type,
		r.Change.String(),
		r.Currency,
		r.Fee.String(),
		r.BalanceBefore.String(),
		r.BalanceAfter.String(),
		r.Counterparty,
		r.Hash,
		r.Date.Format("2006-01-02"),
		dateSearchText(r.Date),
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func dateSearchText(t time.Time) string {
	return t.Format("Jan January 2 2006")
}
