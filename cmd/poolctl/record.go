package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sora-xor/polkaswap-liquidity/internal/config"
	"github.com/sora-xor/polkaswap-liquidity/internal/model"
	"github.com/sora-xor/polkaswap-liquidity/internal/storage"
	"github.com/sora-xor/polkaswap-liquidity/internal/storage/postgres"
)

func runRecord(cmd *cobra.Command, _ []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactor, err := newInteractor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer interactor.Close()

	var sink func([]model.PoolSnapshot) error
	if cfg.PgDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PgDSN)
		if err != nil {
			return err
		}
		defer store.Close()
		sink = func(snapshots []model.PoolSnapshot) error {
			return store.PutSnapshotBatch(ctx, snapshots)
		}
	} else {
		jsonl := storage.NewJsonlStorage(cfg.Out)
		sink = jsonl.PutSnapshotBatch
	}

	logger.Info("record start",
		zap.String("base", string(pair.Base)),
		zap.String("target", string(pair.Target)),
		zap.Bool("postgres", cfg.PgDSN != ""),
	)

	capture := func() error {
		details, err := interactor.LoadPoolDetails(ctx, pair.Base, pair.Target)
		if err != nil {
			return err
		}
		if details == nil {
			logger.Warn("pair has no pool, nothing to record")
			return nil
		}
		snapshot := model.PoolSnapshot{Details: *details, CapturedAt: time.Now().UTC()}
		if err := sink([]model.PoolSnapshot{snapshot}); err != nil {
			return err
		}
		logger.Info("snapshot stored",
			zap.String("base_total", details.BaseAssetPooledTotal.String()),
			zap.String("target_total", details.TargetAssetPooledTotal.String()),
		)
		return nil
	}

	if err := capture(); err != nil {
		return err
	}

	updates, err := interactor.SubscribePoolReserves(ctx, pair.Target)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-updates:
			if !ok {
				return nil
			}
			if err := capture(); err != nil {
				logger.Warn("snapshot capture failed", zap.Error(err))
			}
		}
	}
}
