package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Sentinel errors for the pipeline package.
var (
	// ErrStageAlreadyRegistered is returned when registering a duplicate stage.
	ErrStageAlreadyRegistered = errors.New("stage already registered")

	// ErrStageNotFound is returned when a lookup misses the registry.
	ErrStageNotFound = errors.New("stage not found")
)

// Registry holds the seven fixed pipeline stages, indexed by both name and
// number. Adapted from the teacher's Registry (internal/pipeline/registry.go):
// the name-keyed map/Get/List/Names surface is kept verbatim, but
// GetOrdered's Kahn's-algorithm topological sort is dropped — AMS stages
// have a fixed 1..7 total order per spec §4.11, never a dependency DAG, so
// Ordered just sorts by Number.
type Registry struct {
	mu     sync.RWMutex
	stages map[string]Stage
	order  []string
}

// NewRegistry creates an empty stage registry.
func NewRegistry() *Registry {
	return &Registry{stages: make(map[string]Stage)}
}

// Register adds a stage to the registry. Returns an error if a stage with
// the same name is already registered.
func (r *Registry) Register(s Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.stages[name]; exists {
		return fmt.Errorf("%w: %s", ErrStageAlreadyRegistered, name)
	}
	r.stages[name] = s
	r.order = append(r.order, name)
	return nil
}

// Get returns a stage by name.
func (r *Registry) Get(name string) (Stage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stages[name]
	return s, ok
}

// List returns all stages in registration order.
func (r *Registry) List() []Stage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stages := make([]Stage, 0, len(r.order))
	for _, name := range r.order {
		stages = append(stages, r.stages[name])
	}
	return stages
}

// Names returns all stage names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Ordered returns the registered stages sorted by Number (1..7).
func (r *Registry) Ordered() []Stage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stages := make([]Stage, 0, len(r.stages))
	for _, name := range r.order {
		stages = append(stages, r.stages[name])
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i].Number() < stages[j].Number() })
	return stages
}
