package goals

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sasha-s/go-deadlock"
)

// ErrUnknownGoal is returned for goal keys nobody registered.
var ErrUnknownGoal = errors.New("unknown goal")

// Registry maps goal keys to their sources.
type Registry struct {
	mu      deadlock.RWMutex
	sources map[string]TargetSource
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]TargetSource)}
}

// Register binds key to src. Registering a key again aggregates both
// sources.
func (r *Registry) Register(key string, src TargetSource) {
	if src == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.sources[key]; ok {
		src = Aggregate(prev, src)
	}
	r.sources[key] = src
}

// Source returns the source bound to key.
func (r *Registry) Source(key string) (TargetSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src, ok := r.sources[key]
	if !ok {
		return nil, fmt.Errorf("goal %q: %w", key, ErrUnknownGoal)
	}
	return src, nil
}

// Keys returns the registered keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.sources))
	for k := range r.sources {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
