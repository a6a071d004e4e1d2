package wallet

import (
	"github.com/shopspring/decimal"

	"github.com/bstrange24/XRPL-Utility-sub000/internal/history"
)

// Sink is the presentation consumer the controller publishes into. It is
// written to, never read from: the controller republishes the full record
// list after every append and re-installs the filter predicate alongside it.
type Sink interface {
	SetRecords([]history.BalanceChange)
	SetFilter(func(history.BalanceChange) bool)
}

// NopSink discards everything published to it.
type NopSink struct{}

func (NopSink) SetRecords([]history.BalanceChange) {}
func (NopSink) SetFilter(func(history.BalanceChange) bool) {}

// Snapshot is the owning account's live summary, republished on every reset.
type Snapshot struct {
	Address    string
	Network    string
	Balance    decimal.Decimal
	Reserve    decimal.Decimal
	Spendable  decimal.Decimal
	OwnerCount uint32
}
