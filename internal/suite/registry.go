package suite

import (
	"errors"
	"fmt"
	"sync"

	"sctest/internal/domain"
)

var (
	// ErrUnknownIdentifier is returned when no suite is registered under a name.
	ErrUnknownIdentifier = errors.New("unknown test identifier")
	// ErrUnknownMethod is returned when a Module.Class.method names a method
	// the suite does not have.
	ErrUnknownMethod = errors.New("unknown test method")
	// ErrDuplicate is returned when a name is registered twice.
	ErrDuplicate = errors.New("suite already registered")
)

// Registry maps "Module.Class" identifiers to suite factories. It replaces
// name-based loading: everything runnable is registered at startup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	order     []string
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under a "Module.Class" name.
func (r *Registry) Register(name string, f Factory) error {
	id, err := domain.ParseIdentifier(name)
	if err != nil {
		return err
	}
	if id.Method != "" {
		return fmt.Errorf("register %q: identifier must not name a method", name)
	}
	if f == nil {
		return fmt.Errorf("register %q: nil factory", name)
	}

	key := id.Suite()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[key]; ok {
		return fmt.Errorf("register %q: %w", key, ErrDuplicate)
	}
	r.factories[key] = f
	r.order = append(r.order, key)
	return nil
}

// Identifiers returns registered names in registration order.
func (r *Registry) Identifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve builds the suite named by id. When id names a method, the
// returned suite contains only that method.
func (r *Registry) Resolve(id domain.Identifier) (*Suite, error) {
	r.mu.RLock()
	f, ok := r.factories[id.Suite()]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIdentifier, id.Suite())
	}

	s, err := f()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", id.Suite(), err)
	}
	if s.Name == "" {
		s.Name = id.Suite()
	}
	if id.Method == "" {
		return s, nil
	}

	tc, ok := s.Lookup(id.Method)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, id)
	}
	only := *s
	only.Tests = []Test{tc}
	return &only, nil
}
