package xrpl

import (
	"encoding/hex"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// maxCurrencyDisplay caps the display form of a decoded currency code.
const maxCurrencyDisplay = 8

// Decoding is pure and the universe of codes an account touches is small, so
// results are memoized. The extractor calls this once per trust-line node.
var currencyMemo, _ = lru.New[string, string](512)

// DecodeCurrency turns a raw ledger currency code into its display form.
// Three-character codes are already displayable and pass through unchanged.
// Longer codes are hex-encoded custom currencies: the bytes are decoded,
// stripped of padding, and truncated to at most 8 characters. An
// undecodable or all-padding code yields "", which callers treat as
// "no currency" and suppress.
func DecodeCurrency(raw string) string {
	if len(raw) <= 3 {
		return raw
	}
	if v, ok := currencyMemo.Get(raw); ok {
		return v
	}
	decoded := decodeHexCurrency(raw)
	currencyMemo.Add(raw, decoded)
	return decoded
}

func decodeHexCurrency(raw string) string {
	b, err := hex.DecodeString(raw)
	if err != nil {
		return truncateDisplay(strings.TrimSpace(raw))
	}
	var sb strings.Builder
	for _, c := range b {
		if c >= 0x21 && c <= 0x7e { // printable, non-space
			sb.WriteByte(c)
		}
	}
	return truncateDisplay(sb.String())
}

func truncateDisplay(s string) string {
	if len(s) > maxCurrencyDisplay {
		return s[:maxCurrencyDisplay]
	}
	return s
}

// AbbreviateAddress shortens a raw ledger address to "xxxx...yyyy" for
// display. Strings that are already short, or that are formatted labels
// rather than addresses (anything carrying parentheses), come back
// unchanged.
func AbbreviateAddress(addr string) string {
	if len(addr) <= 12 || strings.Contains(addr, "(") {
		return addr
	}
	return addr[:4] + "..." + addr[len(addr)-4:]
}
