package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/sora-xor/polkaswap-liquidity/internal/model"
)

// Registry is an injected in-memory asset registry. It replaces any shared
// global: components that need asset metadata receive a *Registry.
type Registry struct {
	mu     sync.RWMutex
	assets map[model.AssetID]model.AssetInfo
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{assets: make(map[model.AssetID]model.AssetInfo)}
}

// LoadFile seeds the registry from a JSON file holding an AssetInfo array.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset list: %w", err)
	}
	var assets []model.AssetInfo
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("parse asset list: %w", err)
	}
	r := New()
	for _, asset := range assets {
		r.Upsert(asset)
	}
	return r, nil
}

// Lookup returns the asset info for an id.
func (r *Registry) Lookup(id model.AssetID) (model.AssetInfo, bool) {
	r.mu.RLock()
	info, ok := r.assets[id]
	r.mu.RUnlock()
	return info, ok
}

// Symbol returns the display symbol for an id, or the id itself when the
// asset is not registered.
func (r *Registry) Symbol(id model.AssetID) string {
	if info, ok := r.Lookup(id); ok {
		return info.Symbol
	}
	return string(id)
}

// Upsert inserts or replaces an asset record.
func (r *Registry) Upsert(info model.AssetInfo) {
	r.mu.Lock()
	r.assets[info.ID] = info
	r.mu.Unlock()
}

// Visible returns the visible assets sorted by symbol.
func (r *Registry) Visible() []model.AssetInfo {
	r.mu.RLock()
	out := make([]model.AssetInfo, 0, len(r.assets))
	for _, info := range r.assets {
		if info.Visible {
			out = append(out, info)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
