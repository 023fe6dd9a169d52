package model

// PoolState classifies the liquidity operation that applies to a selected
// asset pair. It starts Unknown on every pair change and transitions exactly
// once per resolution cycle to a terminal value.
type PoolState int

const (
	// PoolStateUnknown means resolution has not reached a terminal state.
	PoolStateUnknown PoolState = iota
	// PoolStateAddToExisting means the account already provides liquidity
	// to an existing pair.
	PoolStateAddToExisting
	// PoolStateAddToExistingFirstTime means the pair has liquidity but the
	// account deposits for the first time.
	PoolStateAddToExistingFirstTime
	// PoolStateCreateNewPair means the account will be the first liquidity
	// provider; pool parameters come entirely from the entered amounts.
	PoolStateCreateNewPair
)

func (s PoolState) String() string {
	switch s {
	case PoolStateAddToExisting:
		return "addToExistingPool"
	case PoolStateAddToExistingFirstTime:
		return "addToExistingPoolFirstTime"
	case PoolStateCreateNewPair:
		return "createNewPair"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state concludes a resolution cycle.
func (s PoolState) Terminal() bool {
	return s != PoolStateUnknown
}

// LiquidityDirection records which of the two amount fields the user edited
// last; it decides which amount is authoritative when deriving the other.
type LiquidityDirection int

const (
	// DirectionDirect means the first (base) amount was edited.
	DirectionDirect LiquidityDirection = iota
	// DirectionInverse means the second (target) amount was edited.
	DirectionInverse
)

func (d LiquidityDirection) String() string {
	if d == DirectionInverse {
		return "inverse"
	}
	return "direct"
}
