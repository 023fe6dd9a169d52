package pool

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sora-xor/polkaswap-liquidity/internal/model"
)

// PairSelection identifies a selected asset pair.
type PairSelection struct {
	Base   model.AssetID
	Target model.AssetID
}

// Zero reports whether either side of the pair is unselected.
func (p PairSelection) Zero() bool {
	return p.Base == "" || p.Target == ""
}

// PairReader is the slice of the network collaborator the resolver consumes.
type PairReader interface {
	LoadPoolDetails(ctx context.Context, base, target model.AssetID) (*model.PoolDetails, error)
	CheckIsPairExists(ctx context.Context, base, target model.AssetID) (bool, error)
}

// Resolution is the outcome of one resolution cycle. It carries the request
// token issued at lookup time; Apply discards resolutions whose token no
// longer matches the active selection.
type Resolution struct {
	Token   uint64
	Pair    PairSelection
	State   model.PoolState
	Details *model.PoolDetails
}

// Resolver classifies a selected asset pair into a terminal PoolState. It
// never retries: a failed lookup leaves the cycle at Unknown and the caller
// re-invokes resolution on the next pair change.
type Resolver struct {
	reader PairReader
	logger *zap.Logger

	mu    sync.Mutex
	token uint64
	pair  PairSelection
}

// NewResolver builds a Resolver.
func NewResolver(reader PairReader, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{reader: reader, logger: logger}
}

// Select records a new active pair and returns the request token for its
// resolution cycle. Issuing a new token invalidates every in-flight lookup:
// their eventual resolutions fail the token check in Apply.
func (r *Resolver) Select(pair PairSelection) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token++
	r.pair = pair
	return r.token
}

// Resolve runs one resolution cycle for the pair under the given token.
//
// Order: the locally known pools first, then the remote details lookup, then
// the pair-existence check. Exactly one terminal state is produced unless a
// lookup fails, in which case the cycle ends at Unknown.
func (r *Resolver) Resolve(ctx context.Context, token uint64, pair PairSelection, knownPools []model.PoolDetails) Resolution {
	for i := range knownPools {
		if knownPools[i].Matches(pair.Base, pair.Target) {
			details := knownPools[i]
			return Resolution{Token: token, Pair: pair, State: model.PoolStateAddToExisting, Details: &details}
		}
	}

	details, err := r.reader.LoadPoolDetails(ctx, pair.Base, pair.Target)
	if err != nil {
		r.logger.Warn("pool details lookup failed",
			zap.Error(err), zap.String("base", string(pair.Base)), zap.String("target", string(pair.Target)))
		return Resolution{Token: token, Pair: pair, State: model.PoolStateUnknown}
	}
	if details != nil {
		return Resolution{Token: token, Pair: pair, State: model.PoolStateAddToExisting, Details: details}
	}

	// nil details answers "is this pair tracked at all", not "does the
	// account hold a share"; fall through to the existence check.
	exists, err := r.reader.CheckIsPairExists(ctx, pair.Base, pair.Target)
	if err != nil {
		r.logger.Warn("pair existence lookup failed",
			zap.Error(err), zap.String("base", string(pair.Base)), zap.String("target", string(pair.Target)))
		return Resolution{Token: token, Pair: pair, State: model.PoolStateUnknown}
	}
	if exists {
		return Resolution{Token: token, Pair: pair, State: model.PoolStateAddToExistingFirstTime}
	}
	return Resolution{Token: token, Pair: pair, State: model.PoolStateCreateNewPair}
}

// Apply validates a resolution against the active selection. Stale results
// (superseded token or mismatched pair) are reported as Unknown with ok
// false and must not be applied by the caller.
func (r *Resolver) Apply(res Resolution) (model.PoolState, *model.PoolDetails, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.Token != r.token || res.Pair != r.pair {
		r.logger.Debug("stale resolution discarded",
			zap.Uint64("token", res.Token), zap.Uint64("active", r.token),
			zap.String("state", res.State.String()))
		return model.PoolStateUnknown, nil, false
	}
	return res.State, res.Details, true
}
