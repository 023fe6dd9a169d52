package pool

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sora-xor/polkaswap-liquidity/internal/model"
)

func reservePool() *model.PoolDetails {
	return &model.PoolDetails{
		BaseAsset:                  "xor",
		TargetAsset:                "val",
		BaseAssetPooledTotal:       decimal.NewFromInt(200),
		TargetAssetPooledTotal:     decimal.NewFromInt(100),
		BaseAssetPooledByAccount:   decimal.NewFromInt(100),
		TargetAssetPooledByAccount: decimal.NewFromInt(50),
	}
}

func TestDeriveCounterAmountDirect(t *testing.T) {
	details := reservePool()

	got, ok := DeriveCounterAmount(decimal.NewFromInt(10), model.DirectionDirect, model.PoolStateAddToExisting, details)
	if !ok {
		t.Fatalf("expected derivation")
	}
	// ratio consistency: second/first == targetTotal/baseTotal
	wantRatio := details.TargetAssetPooledTotal.Div(details.BaseAssetPooledTotal)
	if !got.Div(decimal.NewFromInt(10)).Equal(wantRatio) {
		t.Fatalf("ratio mismatch: got %s, want %s", got.Div(decimal.NewFromInt(10)), wantRatio)
	}
	if !got.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("derived = %s, want 5", got)
	}
}

func TestDeriveCounterAmountInverse(t *testing.T) {
	got, ok := DeriveCounterAmount(decimal.NewFromInt(5), model.DirectionInverse, model.PoolStateAddToExisting, reservePool())
	if !ok {
		t.Fatalf("expected derivation")
	}
	if !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("derived = %s, want 10", got)
	}
}

func TestDeriveCounterAmountSkipped(t *testing.T) {
	zeroDenominator := reservePool()
	zeroDenominator.BaseAssetPooledTotal = decimal.Zero

	cases := []struct {
		name    string
		state   model.PoolState
		details *model.PoolDetails
	}{
		{"new pair has no ratio", model.PoolStateCreateNewPair, reservePool()},
		{"missing snapshot", model.PoolStateAddToExisting, nil},
		{"zero denominator", model.PoolStateAddToExisting, zeroDenominator},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := DeriveCounterAmount(decimal.NewFromInt(1), model.DirectionDirect, tc.state, tc.details); ok {
				t.Fatalf("derivation must be skipped")
			}
		})
	}
}

func TestReconcileFromAmountClamps(t *testing.T) {
	details := reservePool()

	got := ReconcileFromAmount(decimal.NewFromInt(500), true, *details)
	if !got.First.Equal(details.BaseAssetPooledByAccount) {
		t.Fatalf("first = %s, want clamped to %s", got.First, details.BaseAssetPooledByAccount)
	}
	if !got.Second.Equal(details.TargetAssetPooledByAccount) {
		t.Fatalf("second = %s, want %s", got.Second, details.TargetAssetPooledByAccount)
	}
	if !got.Percent.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("percent = %s, want 100", got.Percent)
	}

	got = ReconcileFromAmount(decimal.NewFromInt(-3), true, *details)
	if !got.First.IsZero() || !got.Second.IsZero() || !got.Percent.IsZero() {
		t.Fatalf("negative edit must clamp to zero, got %+v", got)
	}
}

func TestReconcileFromAmountSecondAsset(t *testing.T) {
	got := ReconcileFromAmount(decimal.NewFromInt(25), false, *reservePool())
	if !got.First.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("first = %s, want 50", got.First)
	}
	if !got.Percent.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("percent = %s, want 50", got.Percent)
	}
}

func TestReconcilePercentRoundTrip(t *testing.T) {
	details := reservePool()
	one := decimal.NewFromInt(1)

	for p := int64(0); p <= 100; p += 5 {
		percent := decimal.NewFromInt(p)
		amounts := ReconcileFromPercent(percent, *details)
		back := ReconcileFromAmount(amounts.First, true, *details)

		if back.Percent.Sub(percent).Abs().GreaterThan(one) {
			t.Fatalf("round trip for %s%% gave %s%%", percent, back.Percent)
		}
		if !back.First.Equal(amounts.First) {
			t.Fatalf("first amount drifted: %s != %s", back.First, amounts.First)
		}
		if !back.Second.Equal(amounts.Second) {
			t.Fatalf("second amount drifted: %s != %s", back.Second, amounts.Second)
		}
	}
}

func TestReconcileFromPercentClampsRange(t *testing.T) {
	details := reservePool()

	got := ReconcileFromPercent(decimal.NewFromInt(150), *details)
	if !got.Percent.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("percent = %s, want 100", got.Percent)
	}
	if !got.First.Equal(details.BaseAssetPooledByAccount) {
		t.Fatalf("first = %s, want full position", got.First)
	}
}

func TestReconcileFromAmountZeroPosition(t *testing.T) {
	details := reservePool()
	details.BaseAssetPooledByAccount = decimal.Zero
	details.TargetAssetPooledByAccount = decimal.Zero

	got := ReconcileFromAmount(decimal.NewFromInt(10), true, *details)
	if !got.First.IsZero() || !got.Second.IsZero() || !got.Percent.IsZero() {
		t.Fatalf("empty position must reconcile to zero, got %+v", got)
	}
}
