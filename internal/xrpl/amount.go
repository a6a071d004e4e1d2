package xrpl

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// displayDecimals is the fractional precision every published balance figure
// is rounded to.
const displayDecimals = 8

// DropsToXRP converts a base-unit integer string (drops) to decimal XRP at
// the ledger's fixed 10^6 scale.
func DropsToXRP(drops string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(drops)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid drops amount %q: %w", drops, err)
	}
	return d.Shift(-6), nil
}

// XRPToDrops converts decimal XRP back to a base-unit integer string.
// Fractions below one drop are truncated.
func XRPToDrops(xrp decimal.Decimal) string {
	return xrp.Shift(6).Truncate(0).String()
}

// Round8 rounds to 8 fractional digits, half away from zero. All deltas and
// before/after balances pass through here exactly once, before any record is
// built, so every published figure carries the same precision.
func Round8(d decimal.Decimal) decimal.Decimal {
	return d.Round(displayDecimals)
}
