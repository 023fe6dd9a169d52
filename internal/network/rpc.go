package network

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sora-xor/polkaswap-liquidity/internal/model"
)

// Config holds connection settings for the node interactor.
type Config struct {
	URL          string
	Account      string
	DexID        uint32
	MaxRetries   int
	RetryBackoff time.Duration
}

// RPCInteractor talks JSON-RPC 2.0 to a node. The underlying client is
// transport only; every payload is decoded from decimal strings here.
type RPCInteractor struct {
	cfg    Config
	client *rpc.Client
	logger *zap.Logger
}

// NewRPCInteractor dials the node and returns an interactor.
func NewRPCInteractor(ctx context.Context, cfg Config, logger *zap.Logger) (*RPCInteractor, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("node url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := rpc.DialContext(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial node: %w", err)
	}
	return &RPCInteractor{cfg: cfg, client: client, logger: logger}, nil
}

// Close closes the underlying RPC client.
func (r *RPCInteractor) Close() {
	if r.client != nil {
		r.client.Close()
	}
}

type balancePayload struct {
	Balance string `json:"balance"`
}

type poolDetailsPayload struct {
	BaseAsset                  string `json:"baseAsset"`
	TargetAsset                string `json:"targetAsset"`
	BaseAssetPooledTotal       string `json:"baseAssetPooledTotal"`
	TargetAssetPooledTotal     string `json:"targetAssetPooledTotal"`
	BaseAssetPooledByAccount   string `json:"baseAssetPooledByAccount"`
	TargetAssetPooledByAccount string `json:"targetAssetPooledByAccount"`
	TotalIssuances             string `json:"totalIssuances"`
	Reserves                   string `json:"reserves"`
	PoolShare                  string `json:"poolShare"`
	SbAPYL                     string `json:"sbApyL"`
}

type feePayload struct {
	Fee string `json:"fee"`
}

// LoadBalance returns the transferable balance of an asset for the
// configured account.
func (r *RPCInteractor) LoadBalance(ctx context.Context, asset model.AssetID) (decimal.Decimal, error) {
	var payload balancePayload
	err := r.call(ctx, &payload, "assets_freeBalance", r.cfg.Account, string(asset))
	if err != nil {
		return decimal.Zero, fmt.Errorf("load balance %s: %w", asset, err)
	}
	balance, err := decimal.NewFromString(payload.Balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse balance %s: %w", asset, err)
	}
	return balance, nil
}

// LoadPoolDetails returns the pair snapshot, or nil when the pair is not
// tracked by the node.
func (r *RPCInteractor) LoadPoolDetails(ctx context.Context, base, target model.AssetID) (*model.PoolDetails, error) {
	var payload *poolDetailsPayload
	err := r.call(ctx, &payload, "poolXYK_accountPoolDetails", r.cfg.DexID, r.cfg.Account, string(base), string(target))
	if err != nil {
		return nil, fmt.Errorf("load pool details %s/%s: %w", base, target, err)
	}
	if payload == nil {
		return nil, nil
	}
	details, err := payload.toModel()
	if err != nil {
		return nil, fmt.Errorf("decode pool details %s/%s: %w", base, target, err)
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}
	return details, nil
}

// CheckIsPairExists reports whether the trading pair is registered on the
// configured DEX.
func (r *RPCInteractor) CheckIsPairExists(ctx context.Context, base, target model.AssetID) (bool, error) {
	var exists bool
	err := r.call(ctx, &exists, "tradingPair_isPairEnabled", r.cfg.DexID, string(base), string(target))
	if err != nil {
		return false, fmt.Errorf("check pair %s/%s: %w", base, target, err)
	}
	return exists, nil
}

// NetworkFee returns the network fee for a transaction type.
func (r *RPCInteractor) NetworkFee(ctx context.Context, txType model.TransactionType) (decimal.Decimal, error) {
	var payload feePayload
	err := r.call(ctx, &payload, "transactionPayment_feeForOperation", string(txType))
	if err != nil {
		return decimal.Zero, fmt.Errorf("network fee %s: %w", txType, err)
	}
	fee, err := decimal.NewFromString(payload.Fee)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse fee %s: %w", txType, err)
	}
	return fee, nil
}

type reservesEvent struct {
	Asset string `json:"asset"`
}

// SubscribePoolReserves streams reserve-change notifications for pools
// involving the asset until ctx is done.
func (r *RPCInteractor) SubscribePoolReserves(ctx context.Context, asset model.AssetID) (<-chan ReservesUpdate, error) {
	raw := make(chan reservesEvent, 16)
	sub, err := r.client.Subscribe(ctx, "poolXYK", raw, "subscribeReserves", string(asset))
	if err != nil {
		return nil, fmt.Errorf("subscribe reserves %s: %w", asset, err)
	}

	out := make(chan ReservesUpdate, 16)
	go func() {
		defer close(out)
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				if err != nil {
					r.logger.Warn("reserves subscription closed", zap.Error(err), zap.String("asset", string(asset)))
				}
				return
			case event := <-raw:
				update := ReservesUpdate{Asset: model.AssetID(event.Asset)}
				select {
				case out <- update:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (r *RPCInteractor) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	attempt := 0
	return withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		attempt++
		err := r.client.CallContext(ctx, result, method, args...)
		if err != nil {
			r.logger.Warn("rpc call failed", zap.Error(err), zap.String("method", method), zap.Int("attempt", attempt))
		}
		return err
	})
}

func (p *poolDetailsPayload) toModel() (*model.PoolDetails, error) {
	details := &model.PoolDetails{
		BaseAsset:   model.AssetID(p.BaseAsset),
		TargetAsset: model.AssetID(p.TargetAsset),
	}

	var err error
	parse := func(name, value string, dst *decimal.Decimal) {
		if err != nil {
			return
		}
		if value == "" {
			value = "0"
		}
		var parsed decimal.Decimal
		if parsed, err = decimal.NewFromString(value); err != nil {
			err = fmt.Errorf("field %s: %w", name, err)
			return
		}
		*dst = parsed
	}

	parse("baseAssetPooledTotal", p.BaseAssetPooledTotal, &details.BaseAssetPooledTotal)
	parse("targetAssetPooledTotal", p.TargetAssetPooledTotal, &details.TargetAssetPooledTotal)
	parse("baseAssetPooledByAccount", p.BaseAssetPooledByAccount, &details.BaseAssetPooledByAccount)
	parse("targetAssetPooledByAccount", p.TargetAssetPooledByAccount, &details.TargetAssetPooledByAccount)
	parse("totalIssuances", p.TotalIssuances, &details.TotalIssuances)
	parse("reserves", p.Reserves, &details.Reserves)
	parse("poolShare", p.PoolShare, &details.YourPoolShare)
	parse("sbApyL", p.SbAPYL, &details.SbAPYL)
	if err != nil {
		return nil, err
	}
	return details, nil
}
