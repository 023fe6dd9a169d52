package network

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sora-xor/polkaswap-liquidity/internal/model"
)

// ReservesUpdate notifies that pool reserves involving Asset changed and the
// pair details should be re-fetched.
type ReservesUpdate struct {
	Asset model.AssetID
}

// Interactor is the network collaborator the liquidity core consumes. All
// calls block until the node answers or ctx is done; orchestration layers
// issue them from their own goroutines and rejoin results through channels.
type Interactor interface {
	// LoadBalance returns the transferable balance of an asset.
	LoadBalance(ctx context.Context, asset model.AssetID) (decimal.Decimal, error)

	// LoadPoolDetails returns the pair snapshot, or nil when the pair does
	// not exist at all. "Exists with zero account share" still returns a
	// snapshot; nil strictly means the pair is not tracked.
	LoadPoolDetails(ctx context.Context, base, target model.AssetID) (*model.PoolDetails, error)

	// CheckIsPairExists reports whether the trading pair is registered.
	CheckIsPairExists(ctx context.Context, base, target model.AssetID) (bool, error)

	// NetworkFee returns the network fee for a transaction type.
	NetworkFee(ctx context.Context, txType model.TransactionType) (decimal.Decimal, error)

	// SubscribePoolReserves streams reserve-change notifications for pools
	// involving the asset until ctx is done.
	SubscribePoolReserves(ctx context.Context, asset model.AssetID) (<-chan ReservesUpdate, error)
}
