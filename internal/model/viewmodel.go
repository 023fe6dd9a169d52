package model

import "github.com/shopspring/decimal"

// DetailsViewModel carries the display figures derived from the current pool
// state, snapshot, and reconciled amounts.
type DetailsViewModel struct {
	DirectExchangeRate  decimal.Decimal
	InverseExchangeRate decimal.Decimal
	// ShareOfPool is a percentage.
	ShareOfPool decimal.Decimal
	// SbAPY is a percentage (SbAPYL * 100).
	SbAPY      decimal.Decimal
	NetworkFee decimal.Decimal
	// FirstAssetValue and SecondAssetValue are the projected account
	// positions after the operation settles.
	FirstAssetValue  decimal.Decimal
	SecondAssetValue decimal.Decimal
}
