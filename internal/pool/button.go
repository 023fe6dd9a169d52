package pool

import (
	"github.com/shopspring/decimal"

	"github.com/sora-xor/polkaswap-liquidity/internal/model"
)

// PairAvailability is the externally supplied liquidity-availability check.
// Unresolved means the check has not answered yet.
type PairAvailability int

const (
	PairAvailabilityUnresolved PairAvailability = iota
	PairAvailable
	PairUnavailable
)

// AddButtonInput collects everything the add-liquidity call-to-action
// depends on. Nil fields mean "not yet loaded".
type AddButtonInput struct {
	State               model.PoolState
	Direction           model.LiquidityDirection
	SecondAssetSelected bool
	FirstAmount         *decimal.Decimal
	SecondAmount        *decimal.Decimal
	FirstBalance        *decimal.Decimal
	SecondBalance       *decimal.Decimal
	Fee                 *decimal.Decimal
	Availability        PairAvailability
}

// NextForAdd evaluates the add-liquidity rules in order; the first match
// wins. A negative pair-availability check overrides the enabled state.
func NextForAdd(in AddButtonInput) model.NextButtonState {
	if !in.SecondAssetSelected {
		return model.ChooseTokens()
	}
	// While the pool state is unresolved the submit path is not viable yet,
	// so the button cannot advance past the disabled entry state.
	if !in.State.Terminal() {
		return model.EnterAmount()
	}
	if in.State == model.PoolStateCreateNewPair && (missingOrZero(in.FirstAmount) || missingOrZero(in.SecondAmount)) {
		return model.EnterAmount()
	}
	if in.State != model.PoolStateCreateNewPair {
		if in.Direction == model.DirectionDirect && missingOrZero(in.FirstAmount) {
			return model.EnterAmount()
		}
		if in.Direction == model.DirectionInverse && missingOrZero(in.SecondAmount) {
			return model.EnterAmount()
		}
	}
	if !addBalanceCovers(in) {
		return model.InsufficientBalance("")
	}
	if in.Availability == PairUnavailable {
		return model.InsufficientLiquidity()
	}
	return model.PoolEnabled()
}

// addBalanceCovers requires both amounts, the second asset, both balances
// and the fee; it succeeds iff the first balance covers amount plus fee and
// the second balance covers its amount.
func addBalanceCovers(in AddButtonInput) bool {
	if in.FirstAmount == nil || in.SecondAmount == nil || !in.SecondAssetSelected {
		return false
	}
	if in.FirstBalance == nil || in.SecondBalance == nil || in.Fee == nil {
		return false
	}
	if in.FirstAmount.Add(*in.Fee).GreaterThan(*in.FirstBalance) {
		return false
	}
	return in.SecondAmount.LessThanOrEqual(*in.SecondBalance)
}

// RemoveButtonInput collects everything the remove-liquidity call-to-action
// depends on.
type RemoveButtonInput struct {
	FirstAmount  decimal.Decimal
	SecondAmount decimal.Decimal
	FirstBalance *decimal.Decimal
	Fee          *decimal.Decimal
	Availability PairAvailability
}

// NextForRemove evaluates the remove-liquidity rules in order.
func NextForRemove(in RemoveButtonInput) model.NextButtonState {
	if in.FirstAmount.IsZero() && in.SecondAmount.IsZero() {
		return model.EnterAmount()
	}
	if !removeBalanceCovers(in) {
		return model.InsufficientBalance("")
	}
	if in.Availability == PairUnavailable {
		return model.InsufficientLiquidity()
	}
	return model.RemoveEnabled()
}

// removeBalanceCovers requires the first balance and the fee; it succeeds
// iff amount plus balance covers the fee.
func removeBalanceCovers(in RemoveButtonInput) bool {
	if in.FirstBalance == nil || in.Fee == nil {
		return false
	}
	return in.FirstAmount.Add(*in.FirstBalance).GreaterThanOrEqual(*in.Fee)
}

func missingOrZero(value *decimal.Decimal) bool {
	return value == nil || value.IsZero()
}
