package history

import "github.com/shopspring/decimal"

// nodeKind tags the three mutation variants a transaction's metadata can
// carry for a ledger entry.
type nodeKind uint8

const (
	nodeModified nodeKind = iota
	nodeCreated
	nodeDeleted
)

// Ledger entry types the extractor dispatches on.
const (
	entryAccountRoot = "AccountRoot"
	entryRippleState = "RippleState"
	entryAMM         = "AMM"
)

// affectedNode is the normalized form of one metadata mutation. fields holds
// FinalFields for modified/deleted nodes and NewFields for created ones;
// previous holds PreviousFields and is nil except on modified nodes.
type affectedNode struct {
	kind      nodeKind
	entryType string
	fields    map[string]interface{}
	previous  map[string]interface{}
}

// parseAffectedNodes normalizes a raw meta value into the tagged node list.
// The second return is false when meta is absent, not an object, or lacks an
// AffectedNodes array; callers skip such transactions without error.
func parseAffectedNodes(meta interface{}) ([]affectedNode, bool) {
	m, ok := meta.(map[string]interface{})
	if !ok {
		return nil, false
	}
	raw, ok := m["AffectedNodes"].([]interface{})
	if !ok {
		return nil, false
	}
	nodes := make([]affectedNode, 0, len(raw))
	for _, entry := range raw {
		wrapper, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		var (
			kind  nodeKind
			inner map[string]interface{}
		)
		switch {
		case mapValue(wrapper, "ModifiedNode") != nil:
			kind, inner = nodeModified, mapValue(wrapper, "ModifiedNode")
		case mapValue(wrapper, "CreatedNode") != nil:
			kind, inner = nodeCreated, mapValue(wrapper, "CreatedNode")
		case mapValue(wrapper, "DeletedNode") != nil:
			kind, inner = nodeDeleted, mapValue(wrapper, "DeletedNode")
		default:
			continue
		}
		node := affectedNode{
			kind:      kind,
			entryType: stringValue(inner, "LedgerEntryType"),
		}
		if kind == nodeCreated {
			node.fields = mapValue(inner, "NewFields")
		} else {
			node.fields = mapValue(inner, "FinalFields")
			node.previous = mapValue(inner, "PreviousFields")
		}
		nodes = append(nodes, node)
	}
	return nodes, true
}

func mapValue(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]interface{})
	return v
}

func stringValue(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	v, _ := m[key].(string)
	return v
}

func numberValue(m map[string]interface{}, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m[key].(float64)
	return v, ok
}

// issuedAmount is a decoded token amount field ({currency, issuer, value}).
type issuedAmount struct {
	currency string
	issuer   string
	value    decimal.Decimal
}

// issuedAmountValue decodes an issued-asset amount field. Returns false when
// the field is absent, not an amount object, or carries an unparseable value.
func issuedAmountValue(m map[string]interface{}, key string) (issuedAmount, bool) {
	amt := mapValue(m, key)
	if amt == nil {
		return issuedAmount{}, false
	}
	valueStr := stringValue(amt, "value")
	if valueStr == "" {
		return issuedAmount{}, false
	}
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return issuedAmount{}, false
	}
	return issuedAmount{
		currency: stringValue(amt, "currency"),
		issuer:   stringValue(amt, "issuer"),
		value:    value,
	}, true
}
