package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sora-xor/polkaswap-liquidity/internal/config"
	"github.com/sora-xor/polkaswap-liquidity/internal/model"
	"github.com/sora-xor/polkaswap-liquidity/internal/network"
	"github.com/sora-xor/polkaswap-liquidity/internal/pool"
)

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pair, err := pairFromFlags(cmd)
	if err != nil {
		return err
	}
	amountText, _ := cmd.Flags().GetString("amount")
	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return fmt.Errorf("parse amount: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactor, err := newInteractor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer interactor.Close()

	resolver := pool.NewResolver(interactor, logger)
	token := resolver.Select(pair)
	state, details, ok := resolver.Apply(resolver.Resolve(ctx, token, pair, nil))
	if !ok || !state.Terminal() {
		return fmt.Errorf("pair %s/%s did not resolve", pair.Base, pair.Target)
	}

	fmt.Printf("pool state: %s\n", state)

	first := amount
	second := decimal.Zero
	if derived, ok := pool.DeriveCounterAmount(first, model.DirectionDirect, state, details); ok {
		second = derived
		fmt.Printf("deposit: %s base / %s target\n", first, second)
	} else if state == model.PoolStateCreateNewPair {
		fmt.Println("new pair: both amounts are independent entries")
	}

	fee, err := interactor.NetworkFee(ctx, model.TransactionLiquidityAdd)
	if err != nil {
		return err
	}

	result := pool.ComputeAddDetails(pool.AddDetailsInput{
		State:        state,
		Details:      details,
		FirstAmount:  &first,
		SecondAmount: &second,
		Fee:          &fee,
	})
	if !result.Ready {
		logger.Info("details pending", zap.String("state", state.String()))
		return nil
	}
	printViewModel(result.ViewModel)
	return nil
}

func runRemoveQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pair, err := pairFromFlags(cmd)
	if err != nil {
		return err
	}
	percentText, _ := cmd.Flags().GetString("percent")
	percent, err := decimal.NewFromString(percentText)
	if err != nil {
		return fmt.Errorf("parse percent: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactor, err := newInteractor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer interactor.Close()

	details, err := interactor.LoadPoolDetails(ctx, pair.Base, pair.Target)
	if err != nil {
		return err
	}
	if details == nil {
		return fmt.Errorf("pair %s/%s has no pool", pair.Base, pair.Target)
	}

	amounts := pool.ReconcileFromPercent(percent, *details)
	fmt.Printf("remove %s%%: %s base / %s target\n", amounts.Percent, amounts.First, amounts.Second)

	fee, err := interactor.NetworkFee(ctx, model.TransactionLiquidityRemove)
	if err != nil {
		return err
	}

	result := pool.ComputeRemoveDetails(pool.RemoveDetailsInput{
		Details:      details,
		FirstAmount:  amounts.First,
		SecondAmount: amounts.Second,
		Fee:          &fee,
	})
	if !result.Ready {
		logger.Info("details pending")
		return nil
	}
	printViewModel(result.ViewModel)
	return nil
}

func pairFromFlags(cmd *cobra.Command) (pool.PairSelection, error) {
	base, _ := cmd.Flags().GetString("base")
	target, _ := cmd.Flags().GetString("target")
	pair := pool.PairSelection{Base: model.AssetID(base), Target: model.AssetID(target)}
	if pair.Zero() {
		return pool.PairSelection{}, fmt.Errorf("base and target asset ids are required")
	}
	return pair, nil
}

func newInteractor(ctx context.Context, cfg config.Config, logger *zap.Logger) (*network.RPCInteractor, error) {
	if cfg.NodeURL == "" {
		return nil, fmt.Errorf("node url is required")
	}
	return network.NewRPCInteractor(ctx, network.Config{
		URL:          cfg.NodeURL,
		Account:      cfg.Account,
		DexID:        cfg.DexID,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, logger)
}

func printViewModel(vm model.DetailsViewModel) {
	fmt.Printf("direct rate:  %s\n", vm.DirectExchangeRate)
	fmt.Printf("inverse rate: %s\n", vm.InverseExchangeRate)
	fmt.Printf("share of pool: %s%%\n", vm.ShareOfPool)
	fmt.Printf("sb apy: %s%%\n", vm.SbAPY)
	fmt.Printf("network fee: %s\n", vm.NetworkFee)
	fmt.Printf("position: %s / %s\n", vm.FirstAssetValue, vm.SecondAssetValue)
}
