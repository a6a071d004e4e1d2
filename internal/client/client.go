// Package client implements a synchronous JSON client for the rippled
// websocket API. One request is in flight at a time; replies are matched to
// requests by numeric id, and rippled error replies are converted to Go
// errors.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bstrange24/XRPL-Utility-sub000/internal/xrpl"
)

// DefaultTimeout bounds a single request/response exchange when the config
// does not say otherwise.
const DefaultTimeout = 20 * time.Second

// ErrClosed is returned by requests issued after Close.
var ErrClosed = errors.New("client closed")

// Config holds the connection parameters.
type Config struct {
	// URL is the websocket endpoint, e.g. "wss://s.altnet.rippletest.net:51233".
	URL string
	// Timeout bounds each request/response exchange.
	Timeout time.Duration
}

// Client is a rippled websocket API client.
type Client struct {
	url     string
	timeout time.Duration
	log     *zap.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID uint64
	closed bool
}

// Dial connects to the configured endpoint.
func Dial(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	dialer := websocket.Dialer{HandshakeTimeout: cfg.Timeout}
	conn, _, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}
	log.Info("connected to ledger endpoint", zap.String("url", cfg.URL))
	return &Client{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		log:     log,
		conn:    conn,
	}, nil
}

// Close shuts down the connection. Requests in flight fail with a read
// error; later requests fail with ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// reply is the common envelope of every rippled websocket response.
type reply struct {
	ID           uint64          `json:"id"`
	Status       string          `json:"status"`
	Type         string          `json:"type"`
	Result       json.RawMessage `json:"result"`
	Error        string          `json:"error"`
	ErrorMessage string          `json:"error_message"`
}

// Request sends a command with the given params and returns the raw result
// payload. Unsolicited stream messages received while waiting are skipped.
func (c *Client) Request(ctx context.Context, command string, params map[string]interface{}) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	c.nextID++
	id := c.nextID
	req := map[string]interface{}{"id": id, "command": command}
	for k, v := range params {
		req[k] = v
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return nil, fmt.Errorf("%s: %w", command, err)
	}
	if err := c.conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("%s: %w", command, err)
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("%s: %w", command, err)
	}

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", command, err)
		}
		var rep reply
		if err := json.Unmarshal(msg, &rep); err != nil {
			return nil, fmt.Errorf("%s: decode reply: %w", command, err)
		}
		if rep.ID != id {
			c.log.Debug("skipping unsolicited message", zap.String("type", rep.Type))
			continue
		}
		if rep.Status != "success" {
			errMsg := rep.ErrorMessage
			if errMsg == "" {
				errMsg = rep.Error
			}
			return nil, fmt.Errorf("%s: ledger error: %s", command, errMsg)
		}
		return rep.Result, nil
	}
}

// AccountInfo fetches the validated AccountRoot of an address.
func (c *Client) AccountInfo(ctx context.Context, address string) (*xrpl.AccountInfoResult, error) {
	raw, err := c.Request(ctx, "account_info", map[string]interface{}{
		"account":      address,
		"ledger_index": "validated",
	})
	if err != nil {
		return nil, err
	}
	var res xrpl.AccountInfoResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("account_info: decode result: %w", err)
	}
	return &res, nil
}

// AccountLines fetches the address's trust lines.
func (c *Client) AccountLines(ctx context.Context, address string) ([]xrpl.TrustLine, error) {
	raw, err := c.Request(ctx, "account_lines", map[string]interface{}{
		"account": address,
	})
	if err != nil {
		return nil, err
	}
	var res xrpl.AccountLinesResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("account_lines: decode result: %w", err)
	}
	return res.Lines, nil
}

// AccountTransactions fetches one page of the address's transaction history,
// newest first. A non-nil marker continues a previous page.
func (c *Client) AccountTransactions(ctx context.Context, address string, limit int, marker json.RawMessage) (*xrpl.TxPage, error) {
	params := map[string]interface{}{
		"account": address,
		"limit":   limit,
	}
	if len(marker) > 0 {
		params["marker"] = marker
	}
	raw, err := c.Request(ctx, "account_tx", params)
	if err != nil {
		return nil, err
	}
	var page xrpl.TxPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("account_tx: decode result: %w", err)
	}
	return &page, nil
}

// XRPBalance returns the address's native balance in XRP.
func (c *Client) XRPBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	info, err := c.AccountInfo(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}
	return xrpl.DropsToXRP(info.AccountData.Balance)
}
