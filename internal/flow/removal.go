package flow

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sora-xor/polkaswap-liquidity/internal/model"
	"github.com/sora-xor/polkaswap-liquidity/internal/network"
	"github.com/sora-xor/polkaswap-liquidity/internal/pool"
)

// RemovalConfig holds the dependencies and settings of the remove-liquidity
// flow.
type RemovalConfig struct {
	Interactor   network.Interactor
	KnownPools   func() []model.PoolDetails
	Availability AvailabilityCheck
	DexID        uint32
	Slippage     model.Slippage
}

// RemovalFlow orchestrates the remove-liquidity screen state. The two amount
// fields and the percentage slider stay mutually consistent: any edit of one
// recomputes the other two from the account-pooled position.
type RemovalFlow struct {
	cfg      RemovalConfig
	resolver *pool.Resolver
	logger   *zap.Logger

	events  chan Event
	results chan netResult
	views   chan ViewState

	pair         pool.PairSelection
	token        uint64
	state        model.PoolState
	details      *model.PoolDetails
	amounts      pool.RemovalAmounts
	firstBalance *decimal.Decimal
	fee          *decimal.Decimal
	slippage     model.Slippage
	availability pool.PairAvailability
}

// NewRemovalFlow builds the remove-liquidity flow.
func NewRemovalFlow(cfg RemovalConfig, logger *zap.Logger) *RemovalFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	slippage := cfg.Slippage
	if slippage.Value().IsZero() {
		slippage = model.DefaultSlippage()
	}
	return &RemovalFlow{
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
func (f *RemovalFlow) Send(ev Event) {
	f.events <- ev
}

// Views returns the view-update stream.
func (f *RemovalFlow) Views() <-chan ViewState {
	return f.views
}

// Run consumes events until ctx is done.
func (f *RemovalFlow) Run(ctx context.Context) error {
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

func (f *RemovalFlow) handleEvent(ctx context.Context, ev Event) {
	switch ev := ev.(type) {
	case SelectPair:
		f.selectPair(ctx, pool.PairSelection{Base: ev.Base, Target: ev.Target})
	case EditFirstAmount:
		if f.details != nil {
			f.amounts = pool.ReconcileFromAmount(ev.Value, true, *f.details)
		}
	case EditSecondAmount:
		if f.details != nil {
			f.amounts = pool.ReconcileFromAmount(ev.Value, false, *f.details)
		}
	case MoveSlider:
		if f.details != nil {
			f.amounts = pool.ReconcileFromPercent(ev.Percent, *f.details)
		}
	case SetSlippage:
		f.slippage = model.NewSlippage(ev.Value)
	case Confirm:
		ev.Reply <- f.confirm()
	}
}

func (f *RemovalFlow) selectPair(ctx context.Context, pair pool.PairSelection) {
	f.pair = pair
	f.token = f.resolver.Select(pair)
	f.state = model.PoolStateUnknown
	f.details = nil
	f.amounts = pool.RemovalAmounts{}
	f.firstBalance = nil
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
	go func() {
		balance, err := f.cfg.Interactor.LoadBalance(ctx, pair.Base)
		if err != nil {
			f.logger.Warn("balance load failed", zap.Error(err), zap.String("asset", string(pair.Base)))
			return
		}
		f.deliver(ctx, netResult{token: token, kind: resultBalance, asset: pair.Base, balance: balance})
	}()
	go func() {
		fee, err := f.cfg.Interactor.NetworkFee(ctx, model.TransactionLiquidityRemove)
		if err != nil {
			f.logger.Warn("fee load failed", zap.Error(err))
			return
		}
		f.deliver(ctx, netResult{token: token, kind: resultFee, fee: fee})
	}()
	if f.cfg.Availability != nil {
		go func() {
			available, err := f.cfg.Availability(pair.Base, pair.Target)
			if err != nil {
				f.logger.Warn("availability check failed", zap.Error(err))
				return
			}
			f.deliver(ctx, netResult{token: token, kind: resultAvailability, available: available})
		}()
	}
}

func (f *RemovalFlow) deliver(ctx context.Context, res netResult) {
	select {
	case f.results <- res:
	case <-ctx.Done():
	}
}

func (f *RemovalFlow) applyResult(res netResult) bool {
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
	case resultBalance:
		if res.asset != f.pair.Base {
			return false
		}
		value := res.balance
		f.firstBalance = &value
	case resultFee:
		fee := res.fee
		f.fee = &fee
	case resultAvailability:
		if res.available {
			f.availability = pool.PairAvailable
		} else {
			f.availability = pool.PairUnavailable
		}
	default:
		return false
	}
	return true
}

func (f *RemovalFlow) confirm() ConfirmResult {
	details := pool.ComputeRemoveDetails(pool.RemoveDetailsInput{
		Details:      f.details,
		FirstAmount:  f.amounts.First,
		SecondAmount: f.amounts.Second,
		Fee:          f.fee,
	})
	if !details.Ready || f.details == nil {
		return ConfirmResult{Err: ErrNotReady}
	}
	confirmation := model.ConfirmationContext{
		Type:           model.TransactionLiquidityRemove,
		FirstAmount:    f.amounts.First,
		SecondAmount:   f.amounts.Second,
		Slippage:       f.slippage,
		DexID:          f.cfg.DexID,
		Details:        details.ViewModel,
		FirstReserves:  f.details.Reserves,
		TotalIssuances: f.details.TotalIssuances,
	}
	return ConfirmResult{Context: confirmation.Map()}
}

func (f *RemovalFlow) publish(ctx context.Context) {
	details := pool.ComputeRemoveDetails(pool.RemoveDetailsInput{
		Details:      f.details,
		FirstAmount:  f.amounts.First,
		SecondAmount: f.amounts.Second,
		Fee:          f.fee,
	})
	button := pool.NextForRemove(pool.RemoveButtonInput{
		FirstAmount:  f.amounts.First,
		SecondAmount: f.amounts.Second,
		FirstBalance: f.firstBalance,
		Fee:          f.fee,
		Availability: f.availability,
	})

	view := ViewState{
		Pair:         f.pair,
		State:        f.state,
		FirstAmount:  f.amounts.First,
		SecondAmount: f.amounts.Second,
		Percent:      f.amounts.Percent,
		FirstBalance: f.firstBalance,
		Fee:          f.fee,
		Button:       button,
		Details:      details,
		Loading:      !f.pair.Zero() && !f.state.Terminal(),
	}

	select {
	case f.views <- view:
	case <-ctx.Done():
	}
}
