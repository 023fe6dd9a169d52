package flow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sora-xor/polkaswap-liquidity/internal/model"
	"github.com/sora-xor/polkaswap-liquidity/internal/network"
)

type fakeInteractor struct {
	mu       sync.Mutex
	balances map[model.AssetID]string
	details  map[string]*model.PoolDetails
	exists   map[string]bool
	fee      string
	// gates block LoadPoolDetails for a pair until the channel is closed,
	// to simulate slow answers arriving after a pair change.
	gates   map[string]chan struct{}
	updates chan network.ReservesUpdate
}

func newFakeInteractor() *fakeInteractor {
	return &fakeInteractor{
		balances: make(map[model.AssetID]string),
		details:  make(map[string]*model.PoolDetails),
		exists:   make(map[string]bool),
		fee:      "0.0007",
		gates:    make(map[string]chan struct{}),
		updates:  make(chan network.ReservesUpdate, 4),
	}
}

func pairKey(base, target model.AssetID) string {
	return string(base) + "/" + string(target)
}

func (f *fakeInteractor) LoadBalance(_ context.Context, asset model.AssetID) (decimal.Decimal, error) {
	f.mu.Lock()
	text, ok := f.balances[asset]
	f.mu.Unlock()
	if !ok {
		text = "0"
	}
	return decimal.RequireFromString(text), nil
}

func (f *fakeInteractor) LoadPoolDetails(_ context.Context, base, target model.AssetID) (*model.PoolDetails, error) {
	key := pairKey(base, target)
	f.mu.Lock()
	gate := f.gates[key]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.details[key]; ok && d != nil {
		copied := *d
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeInteractor) CheckIsPairExists(_ context.Context, base, target model.AssetID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists[pairKey(base, target)], nil
}

func (f *fakeInteractor) NetworkFee(_ context.Context, _ model.TransactionType) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return decimal.RequireFromString(f.fee), nil
}

func (f *fakeInteractor) SubscribePoolReserves(_ context.Context, _ model.AssetID) (<-chan network.ReservesUpdate, error) {
	return f.updates, nil
}

func xorValDetails() *model.PoolDetails {
	return &model.PoolDetails{
		BaseAsset:                  "xor",
		TargetAsset:                "val",
		BaseAssetPooledTotal:       decimal.NewFromInt(200),
		TargetAssetPooledTotal:     decimal.NewFromInt(100),
		BaseAssetPooledByAccount:   decimal.NewFromInt(100),
		TargetAssetPooledByAccount: decimal.NewFromInt(50),
		TotalIssuances:             decimal.NewFromInt(1000),
		Reserves:                   decimal.NewFromInt(200),
		YourPoolShare:              decimal.RequireFromString("12.5"),
		SbAPYL:                     decimal.RequireFromString("0.05"),
	}
}

func awaitView(t *testing.T, views <-chan ViewState, what string, cond func(ViewState) bool) ViewState {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case view := <-views:
			if cond(view) {
				return view
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		}
	}
}

func startSupply(t *testing.T, interactor network.Interactor) *SupplyFlow {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	f := NewSupplyFlow(SupplyConfig{Interactor: interactor}, nil)
	go f.Run(ctx)
	return f
}

func TestSupplyDerivesSecondAmount(t *testing.T) {
	interactor := newFakeInteractor()
	interactor.details[pairKey("xor", "val")] = xorValDetails()
	interactor.balances["xor"] = "20"
	interactor.balances["val"] = "10"

	f := startSupply(t, interactor)
	f.Send(SelectPair{Base: "xor", Target: "val"})

	awaitView(t, f.Views(), "pool resolution", func(v ViewState) bool {
		return v.State == model.PoolStateAddToExisting
	})

	f.Send(EditFirstAmount{Value: decimal.NewFromInt(10)})

	view := awaitView(t, f.Views(), "derived amount", func(v ViewState) bool {
		return v.SecondAmount.Equal(decimal.NewFromInt(5))
	})
	if !view.FirstAmount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("first amount = %s, want 10", view.FirstAmount)
	}

	view = awaitView(t, f.Views(), "enabled button", func(v ViewState) bool {
		return v.Button.Kind == model.ButtonPoolEnabled
	})
	if !view.Details.Ready {
		t.Fatalf("details must be ready once fee and snapshot arrived")
	}
	if !view.Details.ViewModel.DirectExchangeRate.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("direct rate = %s, want 2", view.Details.ViewModel.DirectExchangeRate)
	}
}

func TestSupplyInsufficientBalance(t *testing.T) {
	interactor := newFakeInteractor()
	interactor.details[pairKey("xor", "val")] = xorValDetails()
	interactor.balances["xor"] = "5"
	interactor.balances["val"] = "100"
	interactor.fee = "1"

	f := startSupply(t, interactor)
	f.Send(SelectPair{Base: "xor", Target: "val"})
	awaitView(t, f.Views(), "pool resolution", func(v ViewState) bool {
		return v.State == model.PoolStateAddToExisting && v.FirstBalance != nil && v.Fee != nil
	})

	f.Send(EditFirstAmount{Value: decimal.NewFromInt(10)})
	awaitView(t, f.Views(), "insufficient balance", func(v ViewState) bool {
		return v.Button.Kind == model.ButtonInsufficientBalance
	})
}

func TestSupplyDiscardsStaleResolution(t *testing.T) {
	interactor := newFakeInteractor()
	slowPair := pairKey("xor", "val")
	interactor.details[slowPair] = xorValDetails()
	gate := make(chan struct{})
	interactor.gates[slowPair] = gate
	// The second pair resolves immediately to a brand-new pair.
	interactor.exists[pairKey("xor", "pswap")] = false

	f := startSupply(t, interactor)
	f.Send(SelectPair{Base: "xor", Target: "val"})
	f.Send(SelectPair{Base: "xor", Target: "pswap"})

	awaitView(t, f.Views(), "new pair resolution", func(v ViewState) bool {
		return v.State == model.PoolStateCreateNewPair
	})

	// Release the slow answer for the superseded pair; it must be dropped.
	close(gate)
	time.Sleep(50 * time.Millisecond)

	f.Send(SetSlippage{Value: decimal.NewFromInt(1)})
	view := awaitView(t, f.Views(), "post-release view", func(v ViewState) bool {
		return v.Pair.Target == "pswap"
	})
	if view.State != model.PoolStateCreateNewPair {
		t.Fatalf("state = %s, stale resolution was applied", view.State)
	}
}

func TestSupplyResetsAmountsOnPairChange(t *testing.T) {
	interactor := newFakeInteractor()
	interactor.details[pairKey("xor", "val")] = xorValDetails()
	interactor.balances["xor"] = "100"
	interactor.balances["val"] = "100"
	interactor.exists[pairKey("xor", "pswap")] = false

	f := startSupply(t, interactor)
	f.Send(SelectPair{Base: "xor", Target: "val"})
	awaitView(t, f.Views(), "pool resolution", func(v ViewState) bool {
		return v.State == model.PoolStateAddToExisting
	})
	f.Send(EditFirstAmount{Value: decimal.NewFromInt(10)})
	awaitView(t, f.Views(), "derived amount", func(v ViewState) bool {
		return v.SecondAmount.Equal(decimal.NewFromInt(5))
	})

	// Amounts derived from the old pool's ratio must not survive into the
	// new selection.
	f.Send(SelectPair{Base: "xor", Target: "pswap"})
	view := awaitView(t, f.Views(), "new pair view", func(v ViewState) bool {
		return v.Pair.Target == "pswap"
	})
	if !view.FirstAmount.IsZero() || !view.SecondAmount.IsZero() {
		t.Fatalf("amounts = %s/%s, want 0/0 after pair change", view.FirstAmount, view.SecondAmount)
	}
}

func TestSupplyReservesRefresh(t *testing.T) {
	interactor := newFakeInteractor()
	interactor.details[pairKey("xor", "val")] = xorValDetails()
	interactor.balances["xor"] = "100"
	interactor.balances["val"] = "100"

	f := startSupply(t, interactor)
	f.Send(SelectPair{Base: "xor", Target: "val"})
	awaitView(t, f.Views(), "pool resolution", func(v ViewState) bool {
		return v.State == model.PoolStateAddToExisting
	})

	f.Send(EditFirstAmount{Value: decimal.NewFromInt(10)})
	awaitView(t, f.Views(), "derived amount", func(v ViewState) bool {
		return v.SecondAmount.Equal(decimal.NewFromInt(5))
	})

	// Reserves move: the ratio changes from 1:2 to 1:1 and the derived
	// amount follows on the next refresh.
	updated := xorValDetails()
	updated.TargetAssetPooledTotal = decimal.NewFromInt(200)
	interactor.mu.Lock()
	interactor.details[pairKey("xor", "val")] = updated
	interactor.mu.Unlock()
	interactor.updates <- network.ReservesUpdate{Asset: "val"}

	awaitView(t, f.Views(), "refreshed derivation", func(v ViewState) bool {
		return v.SecondAmount.Equal(decimal.NewFromInt(10))
	})
}

func TestSupplyConfirmContext(t *testing.T) {
	interactor := newFakeInteractor()
	interactor.details[pairKey("xor", "val")] = xorValDetails()
	interactor.balances["xor"] = "100"
	interactor.balances["val"] = "100"

	f := startSupply(t, interactor)
	f.Send(SelectPair{Base: "xor", Target: "val"})
	awaitView(t, f.Views(), "pool resolution", func(v ViewState) bool {
		return v.State == model.PoolStateAddToExisting && v.Fee != nil
	})
	f.Send(EditFirstAmount{Value: decimal.NewFromInt(10)})
	awaitView(t, f.Views(), "derived amount", func(v ViewState) bool {
		return v.SecondAmount.Equal(decimal.NewFromInt(5))
	})

	reply := make(chan ConfirmResult, 1)
	f.Send(Confirm{Reply: reply})
	result := <-reply
	if result.Err != nil {
		t.Fatalf("confirm failed: %v", result.Err)
	}

	ctxMap := result.Context
	if ctxMap[model.ContextKeyTransactionType] != string(model.TransactionLiquidityAdd) {
		t.Fatalf("transactionType = %q", ctxMap[model.ContextKeyTransactionType])
	}
	if ctxMap[model.ContextKeyFirstAssetAmount] != "10" {
		t.Fatalf("firstAssetAmount = %q, want 10", ctxMap[model.ContextKeyFirstAssetAmount])
	}
	if ctxMap[model.ContextKeySecondAssetAmount] != "5" {
		t.Fatalf("secondAssetAmount = %q, want 5", ctxMap[model.ContextKeySecondAssetAmount])
	}
	if ctxMap[model.ContextKeyDirectExchangeRate] != "2" {
		t.Fatalf("directExchangeRateValue = %q, want 2", ctxMap[model.ContextKeyDirectExchangeRate])
	}
	if ctxMap[model.ContextKeySbAPY] != "5" {
		t.Fatalf("sbApy = %q, want 5", ctxMap[model.ContextKeySbAPY])
	}
	if _, ok := ctxMap[model.ContextKeyFirstReserves]; ok {
		t.Fatalf("add context must not carry removal-only keys")
	}
}

func TestSupplyConfirmNotReady(t *testing.T) {
	interactor := newFakeInteractor()
	f := startSupply(t, interactor)

	reply := make(chan ConfirmResult, 1)
	f.Send(Confirm{Reply: reply})
	if result := <-reply; result.Err == nil {
		t.Fatalf("confirm before any input must fail")
	}
}
