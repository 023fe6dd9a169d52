package model

import "github.com/shopspring/decimal"

// slippageFloor is the minimum tolerated slippage percentage. Lower values
// are clamped up, never rejected.
var slippageFloor = decimal.RequireFromString("0.01")

// Slippage is a bounded tolerance percentage, always >= 0.01.
type Slippage struct {
	value decimal.Decimal
}

// NewSlippage builds a Slippage, clamping the value to the floor.
func NewSlippage(value decimal.Decimal) Slippage {
	if value.LessThan(slippageFloor) {
		value = slippageFloor
	}
	return Slippage{value: value}
}

// DefaultSlippage returns the conventional 0.5% tolerance.
func DefaultSlippage() Slippage {
	return Slippage{value: decimal.RequireFromString("0.5")}
}

// Value returns the clamped percentage.
func (s Slippage) Value() decimal.Decimal {
	if s.value.LessThan(slippageFloor) {
		return slippageFloor
	}
	return s.value
}

func (s Slippage) String() string {
	return s.Value().String()
}
