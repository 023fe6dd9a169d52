package pool

import (
	"github.com/shopspring/decimal"

	"github.com/sora-xor/polkaswap-liquidity/internal/model"
)

var hundred = decimal.NewFromInt(100)

// DeriveCounterAmount derives the dependent amount from the one the user
// edited, using the pool-wide reserve ratio.
//
// The derivation is skipped (ok false) when the pair is brand new (both
// amounts are independent user entries), when no snapshot is available yet,
// or when the ratio denominator is zero.
func DeriveCounterAmount(edited decimal.Decimal, direction model.LiquidityDirection, state model.PoolState, details *model.PoolDetails) (decimal.Decimal, bool) {
	if state == model.PoolStateCreateNewPair || details == nil {
		return decimal.Zero, false
	}

	switch direction {
	case model.DirectionDirect:
		if details.BaseAssetPooledTotal.IsZero() {
			return decimal.Zero, false
		}
		return edited.Mul(details.TargetAssetPooledTotal).Div(details.BaseAssetPooledTotal), true
	default:
		if details.TargetAssetPooledTotal.IsZero() {
			return decimal.Zero, false
		}
		return edited.Mul(details.BaseAssetPooledTotal).Div(details.TargetAssetPooledTotal), true
	}
}

// RemovalAmounts is a mutually consistent removal position: two amounts tied
// by the account-pooled ratio and the percentage of the position they cover.
type RemovalAmounts struct {
	First   decimal.Decimal
	Second  decimal.Decimal
	Percent decimal.Decimal
}

// ReconcileFromAmount recomputes a removal position from an edited amount.
// The edit is clamped to [0, pooledByAccount] for the edited asset; the
// opposite amount follows the account-pooled ratio and the percentage is
// re-derived from the first amount, rounded to a whole percent.
func ReconcileFromAmount(edited decimal.Decimal, isFirstAsset bool, details model.PoolDetails) RemovalAmounts {
	if edited.IsNegative() {
		edited = decimal.Zero
	}

	var out RemovalAmounts
	if isFirstAsset {
		out.First = clamp(edited, details.BaseAssetPooledByAccount)
		if !details.BaseAssetPooledByAccount.IsZero() {
			out.Second = out.First.Mul(details.TargetAssetPooledByAccount).Div(details.BaseAssetPooledByAccount)
		}
	} else {
		out.Second = clamp(edited, details.TargetAssetPooledByAccount)
		if !details.TargetAssetPooledByAccount.IsZero() {
			out.First = out.Second.Mul(details.BaseAssetPooledByAccount).Div(details.TargetAssetPooledByAccount)
		}
	}

	if !details.BaseAssetPooledByAccount.IsZero() {
		out.Percent = out.First.Div(details.BaseAssetPooledByAccount).Mul(hundred).Round(0)
	}
	return out
}

// ReconcileFromPercent recomputes a removal position from a slider
// percentage in [0, 100]. Out-of-range values are clamped. The two entry
// points are mutually inverse up to whole-percent rounding.
func ReconcileFromPercent(percent decimal.Decimal, details model.PoolDetails) RemovalAmounts {
	percent = clamp(percent, hundred)
	fraction := percent.Div(hundred)
	return RemovalAmounts{
		First:   details.BaseAssetPooledByAccount.Mul(fraction),
		Second:  details.TargetAssetPooledByAccount.Mul(fraction),
		Percent: percent,
	}
}

func clamp(value, max decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	if value.GreaterThan(max) {
		return max
	}
	return value
}
