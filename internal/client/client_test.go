package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRippled upgrades connections and answers each command from a canned
// result table, echoing the request id.
type fakeRippled struct {
	upgrader websocket.Upgrader
	// results maps command -> result payload; a missing command gets a
	// rippled-style error reply.
	results map[string]interface{}
}

func (f *fakeRippled) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		var req map[string]interface{}
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		id := req["id"]
		command, _ := req["command"].(string)
		var rep map[string]interface{}
		if result, ok := f.results[command]; ok {
			rep = map[string]interface{}{
				"id":     id,
				"status": "success",
				"type":   "response",
				"result": result,
			}
		} else {
			rep = map[string]interface{}{
				"id":            id,
				"status":        "error",
				"type":          "response",
				"error":         "unknownCmd",
				"error_message": "Unknown method.",
			}
		}
		if err := conn.WriteJSON(rep); err != nil {
			return
		}
	}
}

func startFake(t *testing.T, results map[string]interface{}) *Client {
	t.Helper()
	srv := httptest.NewServer(&fakeRippled{results: results})
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, err := Dial(context.Background(), Config{URL: url, Timeout: 2 * time.Second}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClientAccountInfo(t *testing.T) {
	c := startFake(t, map[string]interface{}{
		"account_info": map[string]interface{}{
			"account_data": map[string]interface{}{
				"Account":    "rAddr",
				"Balance":    "25000000",
				"OwnerCount": 2,
			},
			"validated": true,
		},
	})

	info, err := c.AccountInfo(context.Background(), "rAddr")
	require.NoError(t, err)
	assert.Equal(t, "rAddr", info.AccountData.Account)
	assert.Equal(t, "25000000", info.AccountData.Balance)
	assert.Equal(t, uint32(2), info.AccountData.OwnerCount)

	balance, err := c.XRPBalance(context.Background(), "rAddr")
	require.NoError(t, err)
	assert.Equal(t, "25", balance.String())
}

func TestClientAccountLines(t *testing.T) {
	c := startFake(t, map[string]interface{}{
		"account_lines": map[string]interface{}{
			"account": "rAddr",
			"lines": []interface{}{
				map[string]interface{}{"account": "rIssuer", "currency": "USD", "balance": "12.5"},
			},
		},
	})

	lines, err := c.AccountLines(context.Background(), "rAddr")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "rIssuer", lines[0].Account)
	assert.Equal(t, "12.5", lines[0].Balance)
}

func TestClientAccountTransactionsMarker(t *testing.T) {
	c := startFake(t, map[string]interface{}{
		"account_tx": map[string]interface{}{
			"account":      "rAddr",
			"transactions": []interface{}{},
			"marker":       map[string]interface{}{"ledger": 123, "seq": 4},
		},
	})

	page, err := c.AccountTransactions(context.Background(), "rAddr", 300, nil)
	require.NoError(t, err)
	assert.Empty(t, page.Transactions)
	assert.JSONEq(t, `{"ledger":123,"seq":4}`, string(page.Marker))

	// The opaque marker is echoed back verbatim on the next request.
	_, err = c.AccountTransactions(context.Background(), "rAddr", 300, page.Marker)
	require.NoError(t, err)
}

func TestClientLedgerErrorSurfaced(t *testing.T) {
	c := startFake(t, nil)

	_, err := c.Request(context.Background(), "account_info", map[string]interface{}{"account": "rAddr"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown method")
}

func TestClientClosed(t *testing.T) {
	c := startFake(t, nil)
	require.NoError(t, c.Close())

	_, err := c.Request(context.Background(), "ping", nil)
	require.ErrorIs(t, err, ErrClosed)
}
