package model

import "github.com/shopspring/decimal"

// TransactionType names the liquidity operation attached to a transfer
// request and to fee queries.
type TransactionType string

const (
	TransactionLiquidityAdd    TransactionType = "liquidityAdd"
	TransactionLiquidityRemove TransactionType = "liquidityRemoval"
)

// Context map keys recognized by the confirmation/submission layer.
const (
	ContextKeyTransactionType     = "transactionType"
	ContextKeyFirstAssetAmount    = "firstAssetAmount"
	ContextKeySecondAssetAmount   = "secondAssetAmount"
	ContextKeySlippage            = "slippage"
	ContextKeyDex                 = "dex"
	ContextKeyDirectExchangeRate  = "directExchangeRateValue"
	ContextKeyInverseExchangeRate = "inversedExchangeRateValue"
	ContextKeyShareOfPool         = "shareOfPool"
	ContextKeySbAPY               = "sbApy"
	ContextKeyFirstReserves       = "firstReserves"
	ContextKeyTotalIssuances      = "totalIssuances"
)

// ConfirmationContext holds everything the submission layer needs to present
// and sign a liquidity operation. Removal-only fields are included only when
// the transaction type is TransactionLiquidityRemove.
type ConfirmationContext struct {
	Type         TransactionType
	FirstAmount  decimal.Decimal
	SecondAmount decimal.Decimal
	Slippage     Slippage
	DexID        uint32
	Details      DetailsViewModel

	// Removal only.
	FirstReserves  decimal.Decimal
	TotalIssuances decimal.Decimal
}

// Map serializes the context as the flat string-keyed map attached to a
// transfer request. All numeric values are decimal strings.
func (c ConfirmationContext) Map() map[string]string {
	out := map[string]string{
		ContextKeyTransactionType:     string(c.Type),
		ContextKeyFirstAssetAmount:    c.FirstAmount.String(),
		ContextKeySecondAssetAmount:   c.SecondAmount.String(),
		ContextKeySlippage:            c.Slippage.Value().String(),
		ContextKeyDex:                 decimal.NewFromInt(int64(c.DexID)).String(),
		ContextKeyDirectExchangeRate:  c.Details.DirectExchangeRate.String(),
		ContextKeyInverseExchangeRate: c.Details.InverseExchangeRate.String(),
		ContextKeyShareOfPool:         c.Details.ShareOfPool.String(),
		ContextKeySbAPY:               c.Details.SbAPY.String(),
	}
	if c.Type == TransactionLiquidityRemove {
		out[ContextKeyFirstReserves] = c.FirstReserves.String()
		out[ContextKeyTotalIssuances] = c.TotalIssuances.String()
	}
	return out
}
