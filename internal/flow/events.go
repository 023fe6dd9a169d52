package flow

import (
	"github.com/shopspring/decimal"

	"github.com/sora-xor/polkaswap-liquidity/internal/model"
	"github.com/sora-xor/polkaswap-liquidity/internal/pool"
)

// Event is a discrete external input to a flow: a user edit, a slider move,
// or a selection change. Events are consumed by a single goroutine, so each
// one runs to completion before the next is processed.
type Event interface {
	isEvent()
}

// SelectPair supersedes the active asset pair. In-flight lookups for the
// previous pair are invalidated by the token issued for the new one.
type SelectPair struct {
	Base   model.AssetID
	Target model.AssetID
}

// EditFirstAmount is a user edit of the first (base) amount field.
type EditFirstAmount struct {
	Value decimal.Decimal
}

// EditSecondAmount is a user edit of the second (target) amount field.
type EditSecondAmount struct {
	Value decimal.Decimal
}

// MoveSlider is a movement of the removal percentage slider.
type MoveSlider struct {
	Percent decimal.Decimal
}

// SetSlippage updates the tolerated slippage; values below the floor are
// clamped by model.NewSlippage.
type SetSlippage struct {
	Value decimal.Decimal
}

// Confirm requests the confirmation context for the submission layer. The
// result is delivered on Reply.
type Confirm struct {
	Reply chan<- ConfirmResult
}

// ConfirmResult carries the flat context map attached to a transfer
// request, or the reason it cannot be built yet.
type ConfirmResult struct {
	Context map[string]string
	Err     error
}

func (SelectPair) isEvent()       {}
func (EditFirstAmount) isEvent()  {}
func (EditSecondAmount) isEvent() {}
func (MoveSlider) isEvent()       {}
func (SetSlippage) isEvent()      {}
func (Confirm) isEvent()          {}

// ViewState is the synchronous view-update snapshot emitted after every
// processed event. Nil fields are not yet loaded.
type ViewState struct {
	Pair         pool.PairSelection
	State        model.PoolState
	FirstAmount  decimal.Decimal
	SecondAmount decimal.Decimal
	// Percent is meaningful for the removal flow only.
	Percent       decimal.Decimal
	FirstBalance  *decimal.Decimal
	SecondBalance *decimal.Decimal
	Fee           *decimal.Decimal
	Button        model.NextButtonState
	Details       pool.DetailsResult
	// Loading is set while a selected pair has not resolved yet.
	Loading bool
}

// netResult rejoins an asynchronous network answer to the flow goroutine.
// Every result carries the request token it was issued under; the flow
// drops results whose token no longer matches the active selection.
type netResult struct {
	token      uint64
	kind       resultKind
	asset      model.AssetID
	balance    decimal.Decimal
	fee        decimal.Decimal
	resolution pool.Resolution
	details    *model.PoolDetails
	available  bool
}

type resultKind int

const (
	resultResolution resultKind = iota
	resultBalance
	resultFee
	resultDetailsRefresh
	resultAvailability
)

// AvailabilityCheck is the externally supplied pair-availability probe. A
// negative answer forces the insufficientLiquidity button state.
type AvailabilityCheck func(base, target model.AssetID) (bool, error)
