package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sora-xor/polkaswap-liquidity/internal/model"
)

// Store provides Postgres persistence for pool snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutSnapshotBatch inserts a batch of snapshots, keeping history per pair.
func (s *Store) PutSnapshotBatch(ctx context.Context, snapshots []model.PoolSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, snapshot := range snapshots {
		d := snapshot.Details
		batch.Queue(`
			INSERT INTO pool_snapshots (
				base_asset, target_asset, base_pooled_total, target_pooled_total,
				base_pooled_by_account, target_pooled_by_account,
				total_issuances, reserves, pool_share, sb_apy_l, captured_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			ON CONFLICT (base_asset, target_asset, captured_at) DO NOTHING
		`,
			string(d.BaseAsset),
			string(d.TargetAsset),
			d.BaseAssetPooledTotal.String(),
			d.TargetAssetPooledTotal.String(),
			d.BaseAssetPooledByAccount.String(),
			d.TargetAssetPooledByAccount.String(),
			d.TotalIssuances.String(),
			d.Reserves.String(),
			d.YourPoolShare.String(),
			d.SbAPYL.String(),
			snapshot.CapturedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range snapshots {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LatestSnapshot returns the most recent snapshot for a pair.
func (s *Store) LatestSnapshot(ctx context.Context, base, target model.AssetID) (model.PoolSnapshot, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT base_asset, target_asset, base_pooled_total, target_pooled_total,
		       base_pooled_by_account, target_pooled_by_account,
		       total_issuances, reserves, pool_share, sb_apy_l, captured_at
		FROM pool_snapshots
		WHERE base_asset=$1 AND target_asset=$2
		ORDER BY captured_at DESC
		LIMIT 1
	`, string(base), string(target))

	snapshot, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PoolSnapshot{}, false, nil
		}
		return model.PoolSnapshot{}, false, err
	}
	return snapshot, true, nil
}

// History returns snapshots for a pair, newest first.
func (s *Store) History(ctx context.Context, base, target model.AssetID, limit int) ([]model.PoolSnapshot, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT base_asset, target_asset, base_pooled_total, target_pooled_total,
		       base_pooled_by_account, target_pooled_by_account,
		       total_issuances, reserves, pool_share, sb_apy_l, captured_at
		FROM pool_snapshots
		WHERE base_asset=$1 AND target_asset=$2
		ORDER BY captured_at DESC
		LIMIT $3
	`, string(base), string(target), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PoolSnapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snapshot)
	}
	return out, rows.Err()
}

func scanSnapshot(row pgx.Row) (model.PoolSnapshot, error) {
	var (
		base, target string
		numeric      [8]string
		capturedAt   time.Time
	)
	err := row.Scan(&base, &target,
		&numeric[0], &numeric[1], &numeric[2], &numeric[3],
		&numeric[4], &numeric[5], &numeric[6], &numeric[7],
		&capturedAt)
	if err != nil {
		return model.PoolSnapshot{}, err
	}

	parsed := make([]decimal.Decimal, len(numeric))
	for i, value := range numeric {
		parsed[i], err = decimal.NewFromString(value)
		if err != nil {
			return model.PoolSnapshot{}, fmt.Errorf("parse snapshot column %d: %w", i, err)
		}
	}

	return model.PoolSnapshot{
		Details: model.PoolDetails{
			BaseAsset:                  model.AssetID(base),
			TargetAsset:                model.AssetID(target),
			BaseAssetPooledTotal:       parsed[0],
			TargetAssetPooledTotal:     parsed[1],
			BaseAssetPooledByAccount:   parsed[2],
			TargetAssetPooledByAccount: parsed[3],
			TotalIssuances:             parsed[4],
			Reserves:                   parsed[5],
			YourPoolShare:              parsed[6],
			SbAPYL:                     parsed[7],
		},
		CapturedAt: capturedAt,
	}, nil
}
