package storage

import "github.com/sora-xor/polkaswap-liquidity/internal/model"

// Storage defines a sink for pool snapshots.
type Storage interface {
	PutSnapshotBatch(snapshots []model.PoolSnapshot) error
}
