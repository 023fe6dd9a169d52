package flow

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sora-xor/polkaswap-liquidity/internal/model"
	"github.com/sora-xor/polkaswap-liquidity/internal/network"
	"github.com/sora-xor/polkaswap-liquidity/internal/pool"
)

// ErrNotReady is returned from Confirm while a required derivation input is
// still missing.
var ErrNotReady = errors.New("liquidity details not ready")

// SupplyConfig holds the dependencies and settings of the add-liquidity flow.
type SupplyConfig struct {
	Interactor network.Interactor
	// KnownPools supplies the locally known pool list consulted before any
	// remote lookup. May be nil.
	KnownPools func() []model.PoolDetails
	// Availability is the externally supplied pair-availability probe. May
	// be nil, in which case the check stays unresolved.
	Availability AvailabilityCheck
	DexID        uint32
	Slippage     model.Slippage
}

// SupplyFlow orchestrates the add-liquidity screen state. All mutation
// happens on the single Run goroutine; network lookups run on their own
// goroutines and rejoin through the results channel with the token they
// were issued under.
type SupplyFlow struct {
	cfg      SupplyConfig
	resolver *pool.Resolver
	logger   *zap.Logger

	events  chan Event
	results chan netResult
	views   chan ViewState

	pair          pool.PairSelection
	token         uint64
	state         model.PoolState
	details       *model.PoolDetails
	direction     model.LiquidityDirection
	firstAmount   *decimal.Decimal
	secondAmount  *decimal.Decimal
	firstBalance  *decimal.Decimal
	secondBalance *decimal.Decimal
	fee           *decimal.Decimal
	slippage      model.Slippage
	availability  pool.PairAvailability
}

// NewSupplyFlow builds the add-liquidity flow.
func NewSupplyFlow(cfg SupplyConfig, logger *zap.Logger) *SupplyFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	slippage := cfg.Slippage
	if slippage.Value().IsZero() {
		slippage = model.DefaultSlippage()
	}
	return &SupplyFlow{
		cfg:      cfg,
		resolver: pool.NewResolver(cfg.Interactor, logger),
		logger:   logger,
		events:   make(chan Event, 16),
		results:  make(chan netResult, 16),
		views:    make(chan ViewState, 16),
		slippage: slippage,
	}
}

// Send queues an event for the flow goroutine.
func (f *SupplyFlow) Send(ev Event) {
	f.events <- ev
}

// Views returns the view-update stream.
func (f *SupplyFlow) Views() <-chan ViewState {
	return f.views
}

// Run consumes events until ctx is done.
func (f *SupplyFlow) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-f.events:
			f.handleEvent(ctx, ev)
			f.publish(ctx)
		case res := <-f.results:
			if f.applyResult(res) {
				f.publish(ctx)
			}
		}
	}
}

func (f *SupplyFlow) handleEvent(ctx context.Context, ev Event) {
	switch ev := ev.(type) {
	case SelectPair:
		f.selectPair(ctx, pool.PairSelection{Base: ev.Base, Target: ev.Target})
	case EditFirstAmount:
		value := ev.Value
		f.firstAmount = &value
		f.direction = model.DirectionDirect
		f.deriveCounter()
	case EditSecondAmount:
		value := ev.Value
		f.secondAmount = &value
		f.direction = model.DirectionInverse
		f.deriveCounter()
	case SetSlippage:
		f.slippage = model.NewSlippage(ev.Value)
	case Confirm:
		ev.Reply <- f.confirm()
	}
}

// selectPair resets the resolution cycle and fans out the initial lookups
// under a fresh token. Results for the previous token will be dropped.
func (f *SupplyFlow) selectPair(ctx context.Context, pair pool.PairSelection) {
	f.pair = pair
	f.token = f.resolver.Select(pair)
	f.state = model.PoolStateUnknown
	f.details = nil
	f.direction = model.DirectionDirect
	f.firstAmount = nil
	f.secondAmount = nil
	f.firstBalance = nil
	f.secondBalance = nil
	f.availability = pool.PairAvailabilityUnresolved
	if pair.Zero() {
		return
	}

	token := f.token
	var known []model.PoolDetails
	if f.cfg.KnownPools != nil {
		known = f.cfg.KnownPools()
	}

	go func() {
		res := f.resolver.Resolve(ctx, token, pair, known)
		f.deliver(ctx, netResult{token: token, kind: resultResolution, resolution: res})
	}()
	f.loadBalance(ctx, token, pair.Base)
	f.loadBalance(ctx, token, pair.Target)
	f.loadFee(ctx, token)
	f.checkAvailability(ctx, token, pair)
	f.watchReserves(ctx, token, pair)
}

func (f *SupplyFlow) loadBalance(ctx context.Context, token uint64, asset model.AssetID) {
	go func() {
		balance, err := f.cfg.Interactor.LoadBalance(ctx, asset)
		if err != nil {
			f.logger.Warn("balance load failed", zap.Error(err), zap.String("asset", string(asset)))
			return
		}
		f.deliver(ctx, netResult{token: token, kind: resultBalance, asset: asset, balance: balance})
	}()
}

func (f *SupplyFlow) loadFee(ctx context.Context, token uint64) {
	go func() {
		fee, err := f.cfg.Interactor.NetworkFee(ctx, model.TransactionLiquidityAdd)
		if err != nil {
			f.logger.Warn("fee load failed", zap.Error(err))
			return
		}
		f.deliver(ctx, netResult{token: token, kind: resultFee, fee: fee})
	}()
}

func (f *SupplyFlow) checkAvailability(ctx context.Context, token uint64, pair pool.PairSelection) {
	if f.cfg.Availability == nil {
		return
	}
	go func() {
		available, err := f.cfg.Availability(pair.Base, pair.Target)
		if err != nil {
			f.logger.Warn("availability check failed", zap.Error(err))
			return
		}
		f.deliver(ctx, netResult{token: token, kind: resultAvailability, available: available})
	}()
}

// watchReserves re-fetches the pair snapshot on every reserve change. The
// refresh carries the token of the selection that opened the subscription,
// so late updates after a pair change are dropped on arrival.
func (f *SupplyFlow) watchReserves(ctx context.Context, token uint64, pair pool.PairSelection) {
	go func() {
		updates, err := f.cfg.Interactor.SubscribePoolReserves(ctx, pair.Target)
		if err != nil {
			f.logger.Warn("reserves subscription failed", zap.Error(err), zap.String("asset", string(pair.Target)))
			return
		}
		for range updates {
			details, err := f.cfg.Interactor.LoadPoolDetails(ctx, pair.Base, pair.Target)
			if err != nil {
				f.logger.Warn("pool details refresh failed", zap.Error(err))
				continue
			}
			f.deliver(ctx, netResult{token: token, kind: resultDetailsRefresh, details: details})
		}
	}()
}

func (f *SupplyFlow) deliver(ctx context.Context, res netResult) {
	select {
	case f.results <- res:
	case <-ctx.Done():
	}
}

// applyResult folds a network answer into flow state. Results issued under
// a superseded token are silently discarded.
func (f *SupplyFlow) applyResult(res netResult) bool {
	if res.token != f.token {
		f.logger.Debug("stale result discarded", zap.Uint64("token", res.token), zap.Uint64("active", f.token))
		return false
	}

	switch res.kind {
	case resultResolution:
		state, details, ok := f.resolver.Apply(res.resolution)
		if !ok {
			return false
		}
		f.state = state
		f.details = details
		f.deriveCounter()
	case resultBalance:
		value := res.balance
		switch res.asset {
		case f.pair.Base:
			f.firstBalance = &value
		case f.pair.Target:
			f.secondBalance = &value
		default:
			return false
		}
	case resultFee:
		fee := res.fee
		f.fee = &fee
	case resultDetailsRefresh:
		if res.details == nil {
			return false
		}
		f.details = res.details
		f.deriveCounter()
	case resultAvailability:
		if res.available {
			f.availability = pool.PairAvailable
		} else {
			f.availability = pool.PairUnavailable
		}
	}
	return true
}

// deriveCounter recomputes the dependent amount from the authoritative one.
func (f *SupplyFlow) deriveCounter() {
	switch f.direction {
	case model.DirectionDirect:
		if f.firstAmount == nil {
			return
		}
		if derived, ok := pool.DeriveCounterAmount(*f.firstAmount, f.direction, f.state, f.details); ok {
			f.secondAmount = &derived
		}
	default:
		if f.secondAmount == nil {
			return
		}
		if derived, ok := pool.DeriveCounterAmount(*f.secondAmount, f.direction, f.state, f.details); ok {
			f.firstAmount = &derived
		}
	}
}

func (f *SupplyFlow) confirm() ConfirmResult {
	details := pool.ComputeAddDetails(pool.AddDetailsInput{
		State:        f.state,
		Details:      f.details,
		FirstAmount:  f.firstAmount,
		SecondAmount: f.secondAmount,
		Fee:          f.fee,
	})
	if !details.Ready || f.firstAmount == nil || f.secondAmount == nil {
		return ConfirmResult{Err: ErrNotReady}
	}
	confirmation := model.ConfirmationContext{
		Type:         model.TransactionLiquidityAdd,
		FirstAmount:  *f.firstAmount,
		SecondAmount: *f.secondAmount,
		Slippage:     f.slippage,
		DexID:        f.cfg.DexID,
		Details:      details.ViewModel,
	}
	return ConfirmResult{Context: confirmation.Map()}
}

func (f *SupplyFlow) publish(ctx context.Context) {
	details := pool.ComputeAddDetails(pool.AddDetailsInput{
		State:        f.state,
		Details:      f.details,
		FirstAmount:  f.firstAmount,
		SecondAmount: f.secondAmount,
		Fee:          f.fee,
	})
	button := pool.NextForAdd(pool.AddButtonInput{
		State:               f.state,
		Direction:           f.direction,
		SecondAssetSelected: f.pair.Target != "",
		FirstAmount:         f.firstAmount,
		SecondAmount:        f.secondAmount,
		FirstBalance:        f.firstBalance,
		SecondBalance:       f.secondBalance,
		Fee:                 f.fee,
		Availability:        f.availability,
	})

	view := ViewState{
		Pair:          f.pair,
		State:         f.state,
		FirstBalance:  f.firstBalance,
		SecondBalance: f.secondBalance,
		Fee:           f.fee,
		Button:        button,
		Details:       details,
		Loading:       !f.pair.Zero() && !f.state.Terminal(),
	}
	if f.firstAmount != nil {
		view.FirstAmount = *f.firstAmount
	}
	if f.secondAmount != nil {
		view.SecondAmount = *f.secondAmount
	}

	select {
	case f.views <- view:
	case <-ctx.Done():
	}
}
