package history

import (
	"fmt"

	"github.com/bstrange24/XRPL-Utility-sub000/internal/xrpl"
)

// fixedLabels maps transaction types to semantic counterparty labels for
// operations that have no meaningful other party. Kept as a single table so
// the mapping stays exhaustively testable.
var fixedLabels = map[string]string{
	"OfferCreate":        "XRPL DEX",
	"OfferCancel":        "XRPL DEX",
	"NFTokenMint":        "NFT Marketplace",
	"NFTokenBurn":        "NFT Marketplace",
	"NFTokenCreateOffer": "NFT Marketplace",
	"NFTokenAcceptOffer": "NFT Marketplace",
	"NFTokenCancelOffer": "NFT Marketplace",
	"SignerListSet":      "Signer List",
	"SetRegularKey":      "Regular Key",
	"AccountSet":         "Account Settings",
	"DepositPreauth":     "Deposit Authorization",
	"SetHook":            "Hook",
	"DIDSet":             "DID",
	"DIDDelete":          "DID",
	"TicketCreate":       "Ticket",
}

// ammTypes is the AMM transaction family; their counterparty is the pool
// itself, labeled from the AMM node touched in the same transaction.
var ammTypes = map[string]bool{
	"AMMCreate":   true,
	"AMMDeposit":  true,
	"AMMWithdraw": true,
	"AMMBid":      true,
	"AMMVote":     true,
	"AMMDelete":   true,
	"AMMClawback": true,
}

// counterpartyLabel resolves the counterparty shown on the owner's native
// balance record. Raw addresses are abbreviated; formatted labels pass
// through untouched.
func counterpartyLabel(txType, owner, account, dest string, siblings []affectedNode) string {
	switch {
	case txType == "Payment":
		other := account
		if account == owner {
			other = dest
		}
		if other == "" {
			return "N/A"
		}
		return xrpl.AbbreviateAddress(other)
	case fixedLabels[txType] != "":
		return fixedLabels[txType]
	case ammTypes[txType]:
		return ammPoolLabel(siblings)
	case dest != "":
		return xrpl.AbbreviateAddress(dest)
	case account != "":
		return xrpl.AbbreviateAddress(account)
	default:
		return "XRPL Ledger"
	}
}

// ammPoolLabel scans the transaction's sibling nodes for the AMM entry and
// names the pool by its asset pair. Falls back to a generic label when the
// metadata carries no decodable pair.
func ammPoolLabel(nodes []affectedNode) string {
	for _, node := range nodes {
		if node.entryType != entryAMM {
			continue
		}
		a := assetCurrency(node.fields, "Asset")
		b := assetCurrency(node.fields, "Asset2")
		if a != "" && b != "" {
			return fmt.Sprintf("AMM Pool (%s/%s)", a, b)
		}
	}
	return "AMM Pool"
}

// assetCurrency reads the display currency of an AMM Asset field. An asset
// object with no currency key is the native asset.
func assetCurrency(fields map[string]interface{}, key string) string {
	asset := mapValue(fields, key)
	if asset == nil {
		return ""
	}
	raw := stringValue(asset, "currency")
	if raw == "" {
		return "XRP"
	}
	return xrpl.DecodeCurrency(raw)
}
