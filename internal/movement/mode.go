package movement

import (
	"errors"
	"fmt"

	"github.com/sasha-s/go-deadlock"

	"github.com/udisondev/gridnav/internal/geo"
)

// Mode identifies a locomotion style. It is a small dense handle handed
// out by a Registry and can index arrays directly.
type Mode uint8

// Standard modes, present in every registry at fixed handles.
const (
	Walking Mode = iota
	Flying
	Swimming
	Ethereal

	standardModes = 4
)

// NoMode marks "no movement mode" in path steps and lookups.
const NoMode Mode = 255

// MaxModes is the registry capacity (NoMode excluded).
const MaxModes = 32

var (
	ErrDuplicateMode = errors.New("movement mode already registered")
	ErrTooManyModes  = errors.New("movement mode registry is full")
)

// ModeInfo describes a registered mode.
type ModeInfo struct {
	Name   string
	Metric geo.DistanceMetric
}

// Registry hands out Mode handles. It is populated during setup and read
// concurrently afterwards.
type Registry struct {
	mu     deadlock.RWMutex
	modes  []ModeInfo
	byName map[string]Mode
}

// NewRegistry returns a registry with the standard modes registered.
func NewRegistry() *Registry {
	r := &Registry{
		modes:  make([]ModeInfo, 0, standardModes),
		byName: make(map[string]Mode, standardModes),
	}
	for _, info := range []ModeInfo{
		{Name: "walking", Metric: geo.Chebyshev},
		{Name: "flying", Metric: geo.Euclidean},
		{Name: "swimming", Metric: geo.Chebyshev},
		{Name: "ethereal", Metric: geo.Euclidean},
	} {
		r.byName[info.Name] = Mode(len(r.modes))
		r.modes = append(r.modes, info)
	}
	return r
}

// Register adds a new mode and returns its handle.
func (r *Registry) Register(name string, metric geo.DistanceMetric) (Mode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return NoMode, fmt.Errorf("register %q: %w", name, ErrDuplicateMode)
	}
	if len(r.modes) >= MaxModes {
		return NoMode, fmt.Errorf("register %q: %w", name, ErrTooManyModes)
	}
	m := Mode(len(r.modes))
	r.modes = append(r.modes, ModeInfo{Name: name, Metric: metric})
	r.byName[name] = m
	return m, nil
}

// Lookup resolves a mode by name.
func (r *Registry) Lookup(name string) (Mode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byName[name]
	return m, ok
}

// Info returns the description of m. Unknown handles yield ok=false.
func (r *Registry) Info(m Mode) (ModeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(m) >= len(r.modes) {
		return ModeInfo{}, false
	}
	return r.modes[m], true
}

// Name returns the registered name of m. Unregistered handles fall back
// to Mode.String.
func (r *Registry) Name(m Mode) string {
	if info, ok := r.Info(m); ok {
		return info.Name
	}
	return m.String()
}

// Metric returns the distance metric of m, Chebyshev for unknown modes.
func (r *Registry) Metric(m Mode) geo.DistanceMetric {
	info, ok := r.Info(m)
	if !ok {
		return geo.Chebyshev
	}
	return info.Metric
}

// Len returns the number of registered modes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.modes)
}

// Modes returns all handles in registration order.
func (r *Registry) Modes() []Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Mode, len(r.modes))
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

// String names the standard modes. Custom modes only have a name in the
// Registry that handed them out, see Registry.Name.
func (m Mode) String() string {
	switch m {
	case Walking:
		return "walking"
	case Flying:
		return "flying"
	case Swimming:
		return "swimming"
	case Ethereal:
		return "ethereal"
	case NoMode:
		return "none"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}
