// Package xrpl holds the JSON wire shapes of the rippled account APIs this
// engine consumes, together with the leaf conversions between ledger
// representations (drops, ripple-epoch seconds, hex currency codes) and their
// display forms.
package xrpl

import "encoding/json"

// TxEnvelope is one entry of an account_tx page. The transaction body and its
// metadata are kept loosely typed on purpose: metadata is untrusted input and
// a malformed or missing meta must be skippable, never an error.
type TxEnvelope struct {
	Tx        map[string]interface{} `json:"tx"`
	Meta      interface{}            `json:"meta"`
	Validated bool                   `json:"validated"`
}

// Hash returns the transaction hash, or "" when absent.
func (e TxEnvelope) Hash() string {
	h, _ := e.Tx["hash"].(string)
	return h
}

// TxPage is the result of one account_tx request. Marker is the opaque
// continuation token; rippled documents its contents as implementation
// defined, so it is carried verbatim and echoed back on the next request.
type TxPage struct {
	Account      string          `json:"account"`
	Transactions []TxEnvelope    `json:"transactions"`
	Marker       json.RawMessage `json:"marker,omitempty"`
}

// AccountRoot is the subset of the AccountRoot ledger entry returned by
// account_info that this engine reads.
type AccountRoot struct {
	Account    string `json:"Account"`
	Balance    string `json:"Balance"`
	Flags      uint32 `json:"Flags"`
	OwnerCount uint32 `json:"OwnerCount"`
	Sequence   uint32 `json:"Sequence"`
}

// AccountInfoResult is the result payload of account_info.
type AccountInfoResult struct {
	AccountData        AccountRoot `json:"account_data"`
	LedgerCurrentIndex uint32      `json:"ledger_current_index,omitempty"`
	LedgerIndex        uint32      `json:"ledger_index,omitempty"`
	Validated          bool        `json:"validated,omitempty"`
}

// TrustLine is one entry of an account_lines result. Account is the peer
// (issuer) address; Balance and Limit are decimal strings in the issued
// asset's own units.
type TrustLine struct {
	Account      string `json:"account"`
	Balance      string `json:"balance"`
	Currency     string `json:"currency"`
	Limit        string `json:"limit"`
	LimitPeer    string `json:"limit_peer"`
	QualityIn    uint32 `json:"quality_in"`
	QualityOut   uint32 `json:"quality_out"`
	NoRipple     bool   `json:"no_ripple,omitempty"`
	NoRipplePeer bool   `json:"no_ripple_peer,omitempty"`
	Freeze       bool   `json:"freeze,omitempty"`
}

// AccountLinesResult is the result payload of account_lines.
type AccountLinesResult struct {
	Account string          `json:"account"`
	Lines   []TrustLine     `json:"lines"`
	Marker  json.RawMessage `json:"marker,omitempty"`
}
