package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bstrange24/XRPL-Utility-sub000/internal/client"
	"github.com/bstrange24/XRPL-Utility-sub000/internal/config"
	"github.com/bstrange24/XRPL-Utility-sub000/internal/history"
	"github.com/bstrange24/XRPL-Utility-sub000/internal/store"
	"github.com/bstrange24/XRPL-Utility-sub000/internal/wallet"
)

var (
	// sync flags
	maxPages int
	query    string
	fromDate string
	toDate   string
)

var syncCmd = &cobra.Command{
	Use:   "sync <address>",
	Short: "Sync and print an account's balance-change history",
	Long: `Sync pages through the account's transaction log, extracts per-currency
balance changes, and prints them as a table. With a data directory
configured, records whose transaction hash is already in the local store
are recognized and only the newly observed ones are appended.`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().IntVar(&maxPages, "pages", 0, "maximum transaction pages to fetch (0 = until exhausted)")
	syncCmd.Flags().StringVar(&query, "query", "", "free-text filter applied to the printed history")
	syncCmd.Flags().StringVar(&fromDate, "from", "", "inclusive start date (YYYY-MM-DD)")
	syncCmd.Flags().StringVar(&toDate, "to", "", "inclusive end date (YYYY-MM-DD)")
}

func runSync(cmd *cobra.Command, args []string) error {
	address := args[0]

	cfg, log, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	filter, err := buildFilter()
	if err != nil {
		return err
	}

	var recordStore *store.Store
	var prior []history.BalanceChange
	if cfg.DataDir != "" {
		recordStore, err = store.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer recordStore.Close()
		if loaded, err := recordStore.Load(address); err == nil && len(loaded) > 0 {
			prior = loaded
			fmt.Fprintf(cmd.OutOrStdout(), "%d records cached locally\n", len(prior))
		}
	}

	ctx := context.Background()
	cl, err := client.Dial(ctx, client.Config{URL: cfg.Endpoint(), Timeout: cfg.RequestTimeout}, log)
	if err != nil {
		return err
	}
	defer cl.Close()

	base, increment := cfg.Reserves()
	sink := newPrintSink()
	ctrl := wallet.NewController(wallet.Config{
		Client:   cl,
		Lines:    wallet.NewLinesCache(cfg.LinesCacheTTL, nil),
		Reserve:  wallet.ReserveCalculator{Base: base, Increment: increment},
		Sink:     sink,
		Log:      log,
		PageSize: cfg.PageSize,
		Address:  address,
		Network:  cfg.Network,
	})
	ctrl.SetFilter(filter)

	ctrl.Reset(ctx)
	if msg := ctrl.Status(); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	for pages := 1; ctrl.HasMore() && (maxPages == 0 || pages < maxPages); pages++ {
		ctrl.More(ctx)
		if msg := ctrl.Status(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
	}

	records := ctrl.Records()
	if recordStore != nil {
		if fresh := unstoredPrefix(prior, records); len(fresh) > 0 {
			if err := recordStore.Append(address, fresh); err != nil {
				log.Warn("failed to persist records", zap.Error(err))
			}
		}
	}

	snap := ctrl.Snapshot()
	fmt.Fprintf(cmd.OutOrStdout(), "Account %s on %s: balance %s XRP, spendable %s XRP\n\n",
		snap.Address, snap.Network, snap.Balance.String(), snap.Spendable.String())
	shown := sink.render(cmd.OutOrStdout())
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d records shown\n", shown, len(records))
	return nil
}

// unstoredPrefix returns the leading records of fetched whose transaction
// hash is not yet in prior. account_tx pages newest-first, so each run
// refetches the full history with the new transactions at the front; the
// first already-stored hash marks where known history begins.
func unstoredPrefix(prior, fetched []history.BalanceChange) []history.BalanceChange {
	if len(prior) == 0 {
		return fetched
	}
	known := make(map[string]bool, len(prior))
	for _, r := range prior {
		known[r.Hash] = true
	}
	for i, r := range fetched {
		if known[r.Hash] {
			return fetched[:i]
		}
	}
	return fetched
}

// loadEnvironment loads the config (applying the global network override) and
// builds the logger.
func loadEnvironment() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	if network != "" {
		cfg.Network = network
		if err := config.Validate(cfg); err != nil {
			return nil, nil, err
		}
	}
	log, err := newLogger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// buildFilter parses the --query/--from/--to flags into a record filter.
func buildFilter() (history.Filter, error) {
	f := history.Filter{Query: query}
	if fromDate == "" && toDate == "" {
		return f, nil
	}
	if fromDate == "" || toDate == "" {
		return f, fmt.Errorf("--from and --to must be given together")
	}
	start, err := time.Parse("2006-01-02", fromDate)
	if err != nil {
		return f, fmt.Errorf("invalid --from date: %w", err)
	}
	end, err := time.Parse("2006-01-02", toDate)
	if err != nil {
		return f, fmt.Errorf("invalid --to date: %w", err)
	}
	floored, ceiled := history.DayRange(start.UTC(), end.UTC())
	f.Start, f.End = &floored, &ceiled
	return f, nil
}
