package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bstrange24/XRPL-Utility-sub000/internal/history"
	"github.com/bstrange24/XRPL-Utility-sub000/internal/xrpl"
)

// DefaultPageSize is the account_tx page size requested per fetch.
const DefaultPageSize = 300

// loadFailureMsg is the single user-facing error surfaced when any fetch
// step of a sync operation fails.
const loadFailureMsg = "Failed to load balance changes"

// Ledger is the client surface the controller consumes. The concrete
// websocket client satisfies it; tests supply scripted fakes.
type Ledger interface {
	AccountInfo(ctx context.Context, address string) (*xrpl.AccountInfoResult, error)
	AccountLines(ctx context.Context, address string) ([]xrpl.TrustLine, error)
	AccountTransactions(ctx context.Context, address string, limit int, marker json.RawMessage) (*xrpl.TxPage, error)
}

// Config carries the controller's injected dependencies.
type Config struct {
	Client   Ledger
	Lines    *LinesCache
	Reserve  ReserveCalculator
	Sink     Sink
	Log      *zap.Logger
	Now      func() time.Time
	PageSize int
	Address  string
	Network  string
}

// Controller orchestrates incremental history synchronization for one
// account: it owns the pagination cursor, the loading-state flags, the
// accumulated record list, and the account snapshot, and publishes records
// plus the active filter predicate to the sink.
//
// Reset and More are mutually exclusive per kind: a call that arrives while
// the matching loading flag is set returns immediately without touching the
// network, the cursor, or the record list. All mutable state lives behind
// one mutex; the fetch steps themselves run outside it.
type Controller struct {
	client   Ledger
	lines    *LinesCache
	reserve  ReserveCalculator
	sink     Sink
	log      *zap.Logger
	now      func() time.Time
	pageSize int
	address  string
	network  string

	mu             sync.Mutex
	records        []history.BalanceChange
	marker         json.RawMessage
	hasMore        bool
	loadingInitial bool
	loadingMore    bool
	filter         history.Filter
	balances       map[string]decimal.Decimal
	snapshot       Snapshot
	statusErr      string
}

// NewController wires a controller from its dependencies. Nil Log, Now and
// Sink fall back to no-ops; a zero PageSize falls back to DefaultPageSize.
func NewController(cfg Config) *Controller {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Sink == nil {
		cfg.Sink = NopSink{}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Lines == nil {
		cfg.Lines = NewLinesCache(DefaultLinesTTL, cfg.Now)
	}
	return &Controller{
		client:   cfg.Client,
		lines:    cfg.Lines,
		reserve:  cfg.Reserve,
		sink:     cfg.Sink,
		log:      cfg.Log.With(zap.String("account", cfg.Address), zap.String("network", cfg.Network)),
		now:      cfg.Now,
		pageSize: cfg.PageSize,
		address:  cfg.Address,
		network:  cfg.Network,
		hasMore:  true,
	}
}

// SetFilter records the filter and installs its predicate on the sink.
func (c *Controller) SetFilter(f history.Filter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
	c.sink.SetFilter(f.Predicate())
}

// Reset clears the accumulated history, reloads the account snapshot, and
// fetches the first transaction page. It returns immediately when an initial
// load is already in flight.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	if c.loadingInitial {
		c.mu.Unlock()
		c.log.Debug("initial load already in flight, ignoring reset")
		return
	}
	c.loadingInitial = true
	c.records = nil
	c.marker = nil
	c.hasMore = true
	c.statusErr = ""
	filter := c.filter
	c.mu.Unlock()

	start := c.now()
	c.sink.SetRecords(nil)
	c.sink.SetFilter(filter.Predicate())

	err := c.loadSnapshot(ctx)
	if err == nil {
		err = c.fetchPage(ctx)
	}
	c.finish("initial sync", &c.loadingInitial, start, err)
}

// More fetches the next transaction page using the stored cursor. It returns
// immediately when a continuation is already in flight or the history is
// exhausted.
func (c *Controller) More(ctx context.Context) {
	c.mu.Lock()
	if c.loadingMore {
		c.mu.Unlock()
		c.log.Debug("continuation already in flight, ignoring")
		return
	}
	if !c.hasMore {
		c.mu.Unlock()
		c.log.Debug("transaction history exhausted")
		return
	}
	c.loadingMore = true
	c.mu.Unlock()

	start := c.now()
	err := c.fetchPage(ctx)
	c.finish("continuation sync", &c.loadingMore, start, err)
}

// finish clears the given loading flag, records the outcome, and logs the
// elapsed wall-clock time. Fetch errors are absorbed here: they become the
// user-facing status string and are never rethrown, and records accumulated
// before the failure stay published.
func (c *Controller) finish(op string, flag *bool, start time.Time, err error) {
	c.mu.Lock()
	*flag = false
	if err != nil {
		c.statusErr = loadFailureMsg
	}
	count := len(c.records)
	c.mu.Unlock()

	elapsed := c.now().Sub(start)
	if err != nil {
		c.log.Error(op+" failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return
	}
	c.log.Info(op+" finished", zap.Int("records", count), zap.Duration("elapsed", elapsed))
}

// loadSnapshot fetches the account info and trust-line snapshot in parallel,
// then derives the currency-balance map and the spendable-balance summary.
func (c *Controller) loadSnapshot(ctx context.Context) error {
	var (
		info  *xrpl.AccountInfoResult
		lines []xrpl.TrustLine
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = c.client.AccountInfo(gctx, c.address)
		return err
	})
	g.Go(func() error {
		var err error
		lines, err = c.lines.GetOrFetch(c.address, c.network, func() ([]xrpl.TrustLine, error) {
			return c.client.AccountLines(gctx, c.address)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("account snapshot: %w", err)
	}

	balance, err := xrpl.DropsToXRP(info.AccountData.Balance)
	if err != nil {
		return fmt.Errorf("account snapshot: %w", err)
	}

	balances := map[string]decimal.Decimal{"XRP": balance}
	for _, ln := range lines {
		v, err := decimal.NewFromString(ln.Balance)
		if err != nil {
			continue
		}
		balances[xrpl.DecodeCurrency(ln.Currency)+"+"+ln.Account] = v
	}

	ownerCount, reserve := c.reserve.Compute(info)
	c.mu.Lock()
	c.balances = balances
	c.snapshot = Snapshot{
		Address:    c.address,
		Network:    c.network,
		Balance:    balance,
		Reserve:    reserve,
		Spendable:  balance.Sub(reserve),
		OwnerCount: ownerCount,
	}
	c.mu.Unlock()
	return nil
}

// fetchPage is the shared page step of Reset and More: it requests the next
// transaction page, extracts balance changes, appends them, and republishes
// the full list plus the filter predicate. An empty page or an absent marker
// terminates pagination; neither is an error.
func (c *Controller) fetchPage(ctx context.Context) error {
	c.mu.Lock()
	marker := c.marker
	c.mu.Unlock()

	page, err := c.client.AccountTransactions(ctx, c.address, c.pageSize, marker)
	if err != nil {
		return fmt.Errorf("transaction page: %w", err)
	}

	if len(page.Transactions) == 0 {
		c.mu.Lock()
		c.hasMore = false
		c.mu.Unlock()
		return nil
	}

	changes := history.Extract(page.Transactions, c.address)

	c.mu.Lock()
	c.records = append(c.records, changes...)
	if markerPresent(page.Marker) {
		c.marker = page.Marker
	} else {
		c.marker = nil
		c.hasMore = false
	}
	published := make([]history.BalanceChange, len(c.records))
	copy(published, c.records)
	filter := c.filter
	c.mu.Unlock()

	c.sink.SetRecords(published)
	c.sink.SetFilter(filter.Predicate())
	return nil
}

func markerPresent(m json.RawMessage) bool {
	return len(m) > 0 && string(m) != "null"
}

// Records returns a copy of the accumulated history.
func (c *Controller) Records() []history.BalanceChange {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]history.BalanceChange, len(c.records))
	copy(out, c.records)
	return out
}

// Balances returns the currency-balance side map built on the last reset,
// keyed "CURRENCY+issuer" ("XRP" for the native asset).
func (c *Controller) Balances() map[string]decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]decimal.Decimal, len(c.balances))
	for k, v := range c.balances {
		out[k] = v
	}
	return out
}

// Snapshot returns the account summary built on the last reset.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// HasMore reports whether another transaction page may exist.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Status returns the user-facing error from the last sync operation, or ""
// when it succeeded.
func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusErr
}
