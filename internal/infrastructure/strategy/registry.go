package strategy

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/raas/backend/internal/domain/bulk"
	"github.com/raas/backend/internal/domain/shared"
	sheetimport "github.com/raas/backend/internal/infrastructure/import"
)

// NormalizeName turns a distributor or strategy name into a registry key:
// lower-case, accents stripped, whitespace replaced by underscores.
// "Cemig Distribuição" becomes "cemig_distribuicao".
func NormalizeName(name string) string {
	return strings.ReplaceAll(sheetimport.FoldHeader(name), " ", "_")
}

// StrategyRegistry manages processing strategy registrations keyed by normalized name
type StrategyRegistry struct {
	mu          sync.RWMutex
	strategies  map[string]bulk.ProcessingStrategy
	aliases     map[string]string
	defaultName string
}

// NewStrategyRegistry creates a new, empty strategy registry
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		strategies: make(map[string]bulk.ProcessingStrategy),
		aliases:    make(map[string]string),
	}
}

// Register registers a processing strategy under its normalized name
func (r *StrategyRegistry) Register(s bulk.ProcessingStrategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := NormalizeName(s.Name())
	if _, exists := r.strategies[name]; exists {
		return fmt.Errorf("%w: processing strategy '%s' already registered", shared.ErrAlreadyExists, name)
	}
	r.strategies[name] = s
	return nil
}

// RegisterAlias maps another distributor name to an already registered strategy
func (r *StrategyRegistry) RegisterAlias(alias, strategyName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := NormalizeName(strategyName)
	if _, exists := r.strategies[target]; !exists {
		return fmt.Errorf("%w: processing strategy '%s' not found", shared.ErrNotFound, target)
	}
	r.aliases[NormalizeName(alias)] = target
	return nil
}

// Get returns the strategy registered for name, or the default if name is empty
func (r *StrategyRegistry) Get(name string) (bulk.ProcessingStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := NormalizeName(name)
	if key == "" {
		key = r.defaultName
		if key == "" {
			return nil, fmt.Errorf("%w: no default processing strategy set", shared.ErrNotFound)
		}
	}
	if target, ok := r.aliases[key]; ok {
		key = target
	}

	s, exists := r.strategies[key]
	if !exists {
		return nil, fmt.Errorf("%w: processing strategy '%s' not found", shared.ErrNotFound, key)
	}
	return s, nil
}

// GetOrDefault returns the strategy for name. The second result is false
// when name was not registered and the default was returned instead.
func (r *StrategyRegistry) GetOrDefault(name string) (bulk.ProcessingStrategy, bool) {
	if s, err := r.Get(name); err == nil {
		return s, true
	}
	s, _ := r.Get("")
	return s, false
}

// List returns all registered strategy names
func (r *StrategyRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister removes a strategy together with its aliases
func (r *StrategyRegistry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := NormalizeName(name)
	if _, exists := r.strategies[key]; !exists {
		return fmt.Errorf("%w: processing strategy '%s' not found", shared.ErrNotFound, key)
	}
	delete(r.strategies, key)
	for alias, target := range r.aliases {
		if target == key {
			delete(r.aliases, alias)
		}
	}

	if r.defaultName == key {
		r.defaultName = ""
	}
	return nil
}

// SetDefault sets the strategy used for unknown distributors
func (r *StrategyRegistry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := NormalizeName(name)
	if _, exists := r.strategies[key]; !exists {
		return fmt.Errorf("%w: processing strategy '%s' not found", shared.ErrNotFound, key)
	}
	r.defaultName = key
	return nil
}

// GetDefault returns the default strategy name
func (r *StrategyRegistry) GetDefault() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultName
}

// HasDefault returns true if a default is set
func (r *StrategyRegistry) HasDefault() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultName != ""
}

// IsRegistered returns true if name resolves to a registered strategy
func (r *StrategyRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := NormalizeName(name)
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	_, exists := r.strategies[key]
	return exists
}
