package connectors

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.SourceRegistry = (*Registry)(nil)

// Registry maps source kinds to their adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[domain.SourceKind]driven.SourceAdapter
}

// NewRegistry creates a registry holding the given adapters.
func NewRegistry(adapters ...driven.SourceAdapter) *Registry {
	r := &Registry{adapters: make(map[domain.SourceKind]driven.SourceAdapter)}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds an adapter, replacing any previous one of the same kind.
func (r *Registry) Register(adapter driven.SourceAdapter) {
	if adapter == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[adapter.Kind()] = adapter
}

// Adapter returns the adapter registered for kind.
func (r *Registry) Adapter(kind domain.SourceKind) (driven.SourceAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[kind]
	if !ok {
		return nil, fmt.Errorf("%w: source kind %q", domain.ErrUnsupportedType, kind)
	}
	return adapter, nil
}

// Kinds returns all registered kinds in sorted order.
func (r *Registry) Kinds() []domain.SourceKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]domain.SourceKind, 0, len(r.adapters))
	for k := range r.adapters {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
