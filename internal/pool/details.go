package pool

import (
	"github.com/shopspring/decimal"

	"github.com/sora-xor/polkaswap-liquidity/internal/model"
)

// DetailsResult is the outcome of a details derivation. Pending means a
// required input has not arrived yet (or a ratio denominator is zero) and
// the previous display state stays in place; it is never a user-visible
// error.
type DetailsResult struct {
	Ready     bool
	ViewModel model.DetailsViewModel
}

// Pending returns the not-ready result.
func Pending() DetailsResult { return DetailsResult{} }

// Ready wraps a computed view model.
func Ready(vm model.DetailsViewModel) DetailsResult {
	return DetailsResult{Ready: true, ViewModel: vm}
}

// AddDetailsInput collects the inputs of the add-liquidity derivation. Nil
// fields mean "not yet loaded".
type AddDetailsInput struct {
	State        model.PoolState
	Details      *model.PoolDetails
	FirstAmount  *decimal.Decimal
	SecondAmount *decimal.Decimal
	Fee          *decimal.Decimal
}

// ComputeAddDetails derives the display figures for the add-liquidity flow.
//
// For an existing pool the exchange rates come from the pool-wide reserves,
// the share of pool passes through from the snapshot, and the asset values
// are the projected account position after the deposit. For a brand-new pair
// the entered amounts define the rate and the account owns the whole pool.
func ComputeAddDetails(in AddDetailsInput) DetailsResult {
	if in.State == model.PoolStateCreateNewPair {
		return computeNewPairDetails(in)
	}

	if in.Details == nil || in.FirstAmount == nil || in.SecondAmount == nil || in.Fee == nil {
		return Pending()
	}
	details := in.Details
	if !details.BaseAssetPooledTotal.IsPositive() || !details.TargetAssetPooledTotal.IsPositive() {
		return Pending()
	}

	return Ready(model.DetailsViewModel{
		DirectExchangeRate:  details.BaseAssetPooledTotal.Div(details.TargetAssetPooledTotal),
		InverseExchangeRate: details.TargetAssetPooledTotal.Div(details.BaseAssetPooledTotal),
		ShareOfPool:         details.YourPoolShare,
		SbAPY:               details.SbAPYL.Mul(hundred),
		NetworkFee:          *in.Fee,
		FirstAssetValue:     details.BaseAssetPooledByAccount.Add(*in.FirstAmount),
		SecondAssetValue:    details.TargetAssetPooledByAccount.Add(*in.SecondAmount),
	})
}

func computeNewPairDetails(in AddDetailsInput) DetailsResult {
	if in.FirstAmount == nil || in.SecondAmount == nil {
		return Pending()
	}
	first, second := *in.FirstAmount, *in.SecondAmount
	if !first.IsPositive() || !second.IsPositive() {
		return Pending()
	}

	vm := model.DetailsViewModel{
		DirectExchangeRate:  first.Div(second),
		InverseExchangeRate: second.Div(first),
		ShareOfPool:         hundred,
		SbAPY:               decimal.Zero,
		FirstAssetValue:     first,
		SecondAssetValue:    second,
	}
	if in.Fee != nil {
		vm.NetworkFee = *in.Fee
	}
	return Ready(vm)
}

// RemoveDetailsInput collects the inputs of the remove-liquidity derivation.
type RemoveDetailsInput struct {
	Details      *model.PoolDetails
	FirstAmount  decimal.Decimal
	SecondAmount decimal.Decimal
	Fee          *decimal.Decimal
}

// ComputeRemoveDetails derives the display figures for the remove-liquidity
// flow. The asset values are the projected remaining position and the share
// of pool is re-derived from it against the pool-wide base reserve.
func ComputeRemoveDetails(in RemoveDetailsInput) DetailsResult {
	if in.Fee == nil || in.Details == nil {
		return Pending()
	}
	details := in.Details
	if !details.BaseAssetPooledTotal.IsPositive() || !details.TargetAssetPooledTotal.IsPositive() {
		return Pending()
	}

	firstValue := details.BaseAssetPooledByAccount.Sub(in.FirstAmount)
	secondValue := details.TargetAssetPooledByAccount.Sub(in.SecondAmount)

	return Ready(model.DetailsViewModel{
		DirectExchangeRate:  details.BaseAssetPooledTotal.Div(details.TargetAssetPooledTotal),
		InverseExchangeRate: details.TargetAssetPooledTotal.Div(details.BaseAssetPooledTotal),
		ShareOfPool:         firstValue.Div(details.BaseAssetPooledTotal).Mul(hundred),
		SbAPY:               details.SbAPYL.Mul(hundred),
		NetworkFee:          *in.Fee,
		FirstAssetValue:     firstValue,
		SecondAssetValue:    secondValue,
	})
}
