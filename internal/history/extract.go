package history

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bstrange24/XRPL-Utility-sub000/internal/xrpl"
)

// Extract walks a page of transaction envelopes and emits one BalanceChange
// per balance-bearing ledger entry the owner account touched, preserving
// transaction order and, within a transaction, affected-node order. It is
// pure and total: envelopes with missing or malformed metadata contribute
// zero records rather than an error.
func Extract(txs []xrpl.TxEnvelope, owner string) []BalanceChange {
	var out []BalanceChange
	for _, env := range txs {
		out = append(out, extractOne(env, owner)...)
	}
	return out
}

func extractOne(env xrpl.TxEnvelope, owner string) []BalanceChange {
	nodes, ok := parseAffectedNodes(env.Meta)
	if !ok {
		return nil
	}

	tx := env.Tx
	txType := stringValue(tx, "TransactionType")
	account := stringValue(tx, "Account")
	dest := stringValue(tx, "Destination")
	hash := stringValue(tx, "hash")

	secs, _ := numberValue(tx, "date")
	when := xrpl.RippleTime(int64(secs))

	fee := decimal.Zero
	if feeDrops := stringValue(tx, "Fee"); feeDrops != "" {
		if f, err := xrpl.DropsToXRP(feeDrops); err == nil {
			fee = xrpl.Round8(f)
		}
	}

	displayType := txType
	if txType == "Payment" {
		switch {
		case dest == owner:
			displayType = "Payment Received"
		case account == owner:
			displayType = "Payment Sent"
		}
	}

	var out []BalanceChange
	for _, node := range nodes {
		switch node.entryType {
		case entryAccountRoot:
			if rec, ok := accountRootChange(node, nodes, when, hash, displayType, txType, fee, owner, account, dest); ok {
				out = append(out, rec)
			}
		case entryRippleState:
			if rec, ok := rippleStateChange(node, when, hash, displayType, fee); ok {
				out = append(out, rec)
			}
		}
	}
	return out
}

// accountRootChange emits the owner's native-asset movement for an
// AccountRoot mutation. A zero delta is still emitted: the owner's own fee
// payment can cancel out an incoming amount in the same transaction, and the
// touch itself is part of the history.
func accountRootChange(node affectedNode, siblings []affectedNode, when time.Time, hash, displayType, txType string, fee decimal.Decimal, owner, account, dest string) (BalanceChange, bool) {
	if stringValue(node.fields, "Account") != owner {
		return BalanceChange{}, false
	}
	finalDrops := stringValue(node.fields, "Balance")
	prevDrops := stringValue(node.previous, "Balance")
	if prevDrops == "" {
		prevDrops = finalDrops
	}
	finalBal, err := xrpl.DropsToXRP(finalDrops)
	if err != nil {
		return BalanceChange{}, false
	}
	prevBal, err := xrpl.DropsToXRP(prevDrops)
	if err != nil {
		return BalanceChange{}, false
	}
	before := xrpl.Round8(prevBal)
	after := xrpl.Round8(finalBal)
	change := xrpl.Round8(finalBal.Sub(prevBal))

	counterparty := counterpartyLabel(txType, owner, account, dest, siblings)
	return newBalanceChange(when, hash, displayType, "XRP", change, fee, before, after, counterparty), true
}

// rippleStateChange emits the owner's issued-asset movement for a trust-line
// mutation. Unlike AccountRoot, a zero delta is suppressed: a no-op TrustSet
// touches the line without moving value.
func rippleStateChange(node affectedNode, when time.Time, hash, displayType string, fee decimal.Decimal) (BalanceChange, bool) {
	issuer := stringValue(mapValue(node.fields, "HighLimit"), "issuer")
	if issuer == "" {
		issuer = stringValue(mapValue(node.fields, "LowLimit"), "issuer")
	}
	counterparty := "N/A"
	if issuer != "" {
		counterparty = xrpl.AbbreviateAddress(issuer)
	}

	var (
		change, before, after decimal.Decimal
		rawCurrency           string
	)
	switch node.kind {
	case nodeDeleted:
		bal, ok := issuedAmountValue(node.fields, "Balance")
		if !ok {
			return BalanceChange{}, false
		}
		rawCurrency = bal.currency
		change = bal.value.Neg()
		before = bal.value
		after = decimal.Zero
	case nodeModified:
		bal, ok := issuedAmountValue(node.fields, "Balance")
		if !ok {
			return BalanceChange{}, false
		}
		rawCurrency = bal.currency
		prev := decimal.Zero
		if p, ok := issuedAmountValue(node.previous, "Balance"); ok {
			prev = p.value
		}
		change = bal.value.Sub(prev)
		before = prev
		after = bal.value
	case nodeCreated:
		bal, ok := issuedAmountValue(node.fields, "Balance")
		if !ok {
			return BalanceChange{}, false
		}
		rawCurrency = bal.currency
		change = bal.value
		before = decimal.Zero
		after = bal.value
	}

	currency := xrpl.DecodeCurrency(rawCurrency)
	change = xrpl.Round8(change)
	if currency == "" || change.IsZero() {
		return BalanceChange{}, false
	}
	return newBalanceChange(when, hash, displayType, currency, change, fee, xrpl.Round8(before), xrpl.Round8(after), counterparty), true
}
