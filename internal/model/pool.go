package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PoolDetails is a value snapshot of a pair's on-chain reserve and ownership
// figures. It is replaced wholesale on every refresh, never mutated in place.
type PoolDetails struct {
	BaseAsset   AssetID `json:"base_asset"`
	TargetAsset AssetID `json:"target_asset"`

	BaseAssetPooledTotal       decimal.Decimal `json:"base_asset_pooled_total"`
	TargetAssetPooledTotal     decimal.Decimal `json:"target_asset_pooled_total"`
	BaseAssetPooledByAccount   decimal.Decimal `json:"base_asset_pooled_by_account"`
	TargetAssetPooledByAccount decimal.Decimal `json:"target_asset_pooled_by_account"`

	TotalIssuances decimal.Decimal `json:"total_issuances"`
	Reserves       decimal.Decimal `json:"reserves"`

	// YourPoolShare is the account's ownership percentage of total issuance.
	YourPoolShare decimal.Decimal `json:"your_pool_share"`
	// SbAPYL is the strategic-bonus annualized yield as a fraction (0.05 = 5%).
	SbAPYL decimal.Decimal `json:"sb_apy_l"`
}

// Matches reports whether the snapshot describes the given pair.
func (d PoolDetails) Matches(base, target AssetID) bool {
	return d.BaseAsset == base && d.TargetAsset == target
}

// Validate checks the reserve invariants.
func (d PoolDetails) Validate() error {
	if d.BaseAssetPooledTotal.IsNegative() || d.TargetAssetPooledTotal.IsNegative() {
		return fmt.Errorf("pool %s/%s: negative pooled total", d.BaseAsset, d.TargetAsset)
	}
	if d.BaseAssetPooledByAccount.GreaterThan(d.BaseAssetPooledTotal) {
		return fmt.Errorf("pool %s/%s: account base holding exceeds pool total", d.BaseAsset, d.TargetAsset)
	}
	if d.TargetAssetPooledByAccount.GreaterThan(d.TargetAssetPooledTotal) {
		return fmt.Errorf("pool %s/%s: account target holding exceeds pool total", d.BaseAsset, d.TargetAsset)
	}
	return nil
}

// PoolSnapshot wraps PoolDetails with capture metadata for storage.
type PoolSnapshot struct {
	Details    PoolDetails `json:"details"`
	CapturedAt time.Time   `json:"captured_at"`
}
