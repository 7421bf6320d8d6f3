package lint

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownAnalyzer is returned when an analyzer ID is not registered.
var ErrUnknownAnalyzer = errors.New("unknown analyzer")

// globalRegistry is the single global registry for analyzers.
var globalRegistry = NewRegistry()

// Registry stores analyzers for discovery by ID.
type Registry struct {
	mu        sync.RWMutex
	analyzers map[string]Analyzer // keyed by ID
	defaults  map[string]bool     // IDs enabled when no explicit list is configured
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		analyzers: make(map[string]Analyzer),
		defaults:  make(map[string]bool),
	}
}

// Register adds an analyzer. A later registration with the same ID replaces
// the earlier one. Enabled controls membership in the default set.
func (r *Registry) Register(a Analyzer, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyzers[a.ID()] = a
	r.defaults[a.ID()] = enabled
}

// GetByID returns an analyzer by its ID.
func (r *Registry) GetByID(id string) (Analyzer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.analyzers[id]
	return a, ok
}

// IsDefault reports whether the analyzer runs when no explicit list is given.
func (r *Registry) IsDefault(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults[id]
}

// All returns all registered analyzers sorted by ID.
func (r *Registry) All() []Analyzer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Analyzer, 0, len(r.analyzers))
	for _, a := range r.analyzers {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID() < all[j].ID() })
	return all
}

// Defaults returns the default-enabled analyzers sorted by ID.
func (r *Registry) Defaults() []Analyzer {
	var out []Analyzer
	for _, a := range r.All() {
		if r.IsDefault(a.ID()) {
			out = append(out, a)
		}
	}
	return out
}

// Resolve builds an AnalyzerSet from the given IDs, in the given order.
// An empty list resolves to the default set. Unknown IDs are reported
// together in a single error.
func (r *Registry) Resolve(ids []string) (*AnalyzerSet, error) {
	if len(ids) == 0 {
		return NewAnalyzerSet(r.Defaults()...), nil
	}

	analyzers := make([]Analyzer, 0, len(ids))
	var unknown []string
	for _, id := range ids {
		a, ok := r.GetByID(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		analyzers = append(analyzers, a)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnknownAnalyzer, unknown)
	}
	return NewAnalyzerSet(analyzers...), nil
}

// Count returns the number of registered analyzers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.analyzers)
}

// Clear removes all registered analyzers. Used for testing.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyzers = make(map[string]Analyzer)
	r.defaults = make(map[string]bool)
}

// Register adds an analyzer to the global registry, enabled by default.
// Call this from init() functions in analyzer packages.
func Register(a Analyzer) {
	globalRegistry.Register(a, true)
}

// RegisterDisabled adds an analyzer to the global registry that only runs
// when requested explicitly.
func RegisterDisabled(a Analyzer) {
	globalRegistry.Register(a, false)
}

// GetByID returns a globally registered analyzer by its ID.
func GetByID(id string) (Analyzer, bool) {
	return globalRegistry.GetByID(id)
}

// AllAnalyzers returns all globally registered analyzers.
func AllAnalyzers() []Analyzer {
	return globalRegistry.All()
}

// DefaultAnalyzers returns the globally registered default-enabled analyzers.
func DefaultAnalyzers() []Analyzer {
	return globalRegistry.Defaults()
}

// IsDefault reports whether a globally registered analyzer is enabled by default.
func IsDefault(id string) bool {
	return globalRegistry.IsDefault(id)
}

// Resolve builds an AnalyzerSet from globally registered analyzers.
func Resolve(ids []string) (*AnalyzerSet, error) {
	return globalRegistry.Resolve(ids)
}

// Count returns the number of globally registered analyzers.
func Count() int {
	return globalRegistry.Count()
}

// Clear removes all globally registered analyzers. Used for testing.
func Clear() {
	globalRegistry.Clear()
}
