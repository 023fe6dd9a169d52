package model

import "fmt"

// ButtonKind enumerates the call-to-action states.
type ButtonKind int

const (
	ButtonEnterAmount ButtonKind = iota
	ButtonChooseTokens
	ButtonInsufficientBalance
	ButtonInsufficientLiquidity
	ButtonPoolEnabled
	ButtonRemoveEnabled
)

// NextButtonState is the derived call-to-action state. Exactly one value is
// active at a time; AssetSymbol is set only for ButtonInsufficientBalance.
type NextButtonState struct {
	Kind        ButtonKind
	AssetSymbol string
}

// Enabled reports whether the action control should accept taps.
func (s NextButtonState) Enabled() bool {
	return s.Kind == ButtonPoolEnabled || s.Kind == ButtonRemoveEnabled
}

func (s NextButtonState) String() string {
	switch s.Kind {
	case ButtonEnterAmount:
		return "enterAmount"
	case ButtonChooseTokens:
		return "chooseTokens"
	case ButtonInsufficientBalance:
		return fmt.Sprintf("insufficientBalance(%s)", s.AssetSymbol)
	case ButtonInsufficientLiquidity:
		return "insufficientLiquidity"
	case ButtonPoolEnabled:
		return "poolEnabled"
	case ButtonRemoveEnabled:
		return "removeEnabled"
	default:
		return "unknown"
	}
}

// EnterAmount builds the enterAmount state.
func EnterAmount() NextButtonState { return NextButtonState{Kind: ButtonEnterAmount} }

// ChooseTokens builds the chooseTokens state.
func ChooseTokens() NextButtonState { return NextButtonState{Kind: ButtonChooseTokens} }

// InsufficientBalance builds the insufficientBalance state for a token symbol.
func InsufficientBalance(symbol string) NextButtonState {
	return NextButtonState{Kind: ButtonInsufficientBalance, AssetSymbol: symbol}
}

// InsufficientLiquidity builds the insufficientLiquidity state.
func InsufficientLiquidity() NextButtonState {
	return NextButtonState{Kind: ButtonInsufficientLiquidity}
}

// PoolEnabled builds the enabled state for the add-liquidity action.
func PoolEnabled() NextButtonState { return NextButtonState{Kind: ButtonPoolEnabled} }

// RemoveEnabled builds the enabled state for the remove-liquidity action.
func RemoveEnabled() NextButtonState { return NextButtonState{Kind: ButtonRemoveEnabled} }
