package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bstrange24/XRPL-Utility-sub000/internal/client"
	"github.com/bstrange24/XRPL-Utility-sub000/internal/wallet"
)

var balancesCmd = &cobra.Command{
	Use:   "balances <address>",
	Short: "Show an account's balances and spendable amount",
	Long: `Balances fetches the account snapshot and its trust lines and prints the
XRP balance, the reserve-adjusted spendable amount, and every issued-asset
balance keyed by currency and issuer.`,
	Args: cobra.ExactArgs(1),
	RunE: runBalances,
}

func init() {
	rootCmd.AddCommand(balancesCmd)
}

func runBalances(cmd *cobra.Command, args []string) error {
	address := args[0]

	cfg, log, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()
	cl, err := client.Dial(ctx, client.Config{URL: cfg.Endpoint(), Timeout: cfg.RequestTimeout}, log)
	if err != nil {
		return err
	}
	defer cl.Close()

	base, increment := cfg.Reserves()
	ctrl := wallet.NewController(wallet.Config{
		Client:   cl,
		Lines:    wallet.NewLinesCache(cfg.LinesCacheTTL, nil),
		Reserve:  wallet.ReserveCalculator{Base: base, Increment: increment},
		PageSize: 1,
		Address:  address,
		Network:  cfg.Network,
		Log:      log,
	})
	ctrl.Reset(ctx)
	if msg := ctrl.Status(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	snap := ctrl.Snapshot()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Account:    %s (%s)\n", snap.Address, snap.Network)
	fmt.Fprintf(out, "Balance:    %s XRP\n", snap.Balance.String())
	fmt.Fprintf(out, "Reserve:    %s XRP (%d owned objects)\n", snap.Reserve.String(), snap.OwnerCount)
	fmt.Fprintf(out, "Spendable:  %s XRP\n", snap.Spendable.String())

	balances := ctrl.Balances()
	keys := make([]string, 0, len(balances))
	for k := range balances {
		if k == "XRP" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)
	fmt.Fprintln(out, "\nIssued assets:")
	for _, k := range keys {
		fmt.Fprintf(out, "  %-40s %s\n", k, balances[k].String())
	}
	return nil
}
