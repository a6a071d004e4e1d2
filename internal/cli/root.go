// Package cli wires the balance-history engine into the xrplhist command.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configFile string
	network    string
	verbose    bool
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xrplhist",
	Short: "xrplhist - XRPL account balance history",
	Long: `xrplhist extracts a normalized, per-currency balance-change history for an
XRPL account by paging through its transaction log and walking each
transaction's affected-node metadata. It also reports the account's live
balances and spendable amount after reserve.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It is called by main.main() once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().StringVar(&network, "network", "", "override the configured network (mainnet, testnet, devnet)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")
}

// newLogger builds the process logger from the global verbosity flags.
func newLogger() (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
