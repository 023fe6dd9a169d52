package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "poolctl",
		Short:        "Polkaswap liquidity pool tool",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Resolve a pair and print add-liquidity figures",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("node", "", "node RPC URL")
	quoteCmd.Flags().String("account", "", "account address")
	quoteCmd.Flags().Uint32("dex", 0, "DEX id")
	quoteCmd.Flags().String("base", "", "base asset id")
	quoteCmd.Flags().String("target", "", "target asset id")
	quoteCmd.Flags().String("amount", "0", "base asset amount to deposit")
	quoteCmd.Flags().String("slippage", "0.5", "slippage tolerance percent")
	quoteCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	quoteCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(quoteCmd)

	removeQuoteCmd := &cobra.Command{
		Use:   "remove-quote",
		Short: "Print remove-liquidity figures for a percentage of the position",
		RunE:  runRemoveQuote,
	}

	removeQuoteCmd.Flags().String("node", "", "node RPC URL")
	removeQuoteCmd.Flags().String("account", "", "account address")
	removeQuoteCmd.Flags().Uint32("dex", 0, "DEX id")
	removeQuoteCmd.Flags().String("base", "", "base asset id")
	removeQuoteCmd.Flags().String("target", "", "target asset id")
	removeQuoteCmd.Flags().String("percent", "100", "percentage of the position to remove")
	removeQuoteCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	removeQuoteCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	removeQuoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(removeQuoteCmd)

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Record pool snapshots on reserve changes",
		RunE:  runRecord,
	}

	recordCmd.Flags().String("node", "", "node RPC URL")
	recordCmd.Flags().String("account", "", "account address")
	recordCmd.Flags().Uint32("dex", 0, "DEX id")
	recordCmd.Flags().String("base", "", "base asset id")
	recordCmd.Flags().String("target", "", "target asset id")
	recordCmd.Flags().String("out", "./data/snapshots.jsonl", "output JSONL path")
	recordCmd.Flags().String("pg-dsn", "", "Postgres DSN (used instead of JSONL when set)")
	recordCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	recordCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	recordCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(recordCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
