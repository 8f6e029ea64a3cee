package grid

import (
	"slices"

	"github.com/sasha-s/go-deadlock"

	"github.com/udisondev/gridnav/internal/geo"
)

// Grid is a sparse 3D store: one Layer per z level.
//
// Levels are created and written during world setup. Afterwards the grid is
// read-only and safe for concurrent readers.
type Grid[T comparable] struct {
	fill T

	mu     deadlock.RWMutex
	levels map[int32]*Layer[T]
}

// New returns an empty grid; unwritten cells of allocated chunks read as fill.
func New[T comparable](fill T) *Grid[T] {
	return &Grid[T]{
		fill:   fill,
		levels: make(map[int32]*Layer[T]),
	}
}

// Level returns the layer for z, creating it when missing.
func (g *Grid[T]) Level(z int32) *Layer[T] {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.levels[z]
	if !ok {
		l = NewLayer(g.fill)
		g.levels[z] = l
	}
	return l
}

// TryGetView implements View3D.
func (g *Grid[T]) TryGetView(z int32) (View2D[T], bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	l, ok := g.levels[z]
	if !ok {
		return nil, false
	}
	return l, true
}

// Get reads one cell.
func (g *Grid[T]) Get(p geo.Position, def T) T {
	v, ok := g.TryGetView(p.Z)
	if !ok {
		return def
	}
	return v.Get(p.X, p.Y, def)
}

// Set writes one cell.
func (g *Grid[T]) Set(p geo.Position, v T) {
	g.Level(p.Z).Set(p.X, p.Y, v)
}

// Levels returns the populated z levels in ascending order.
func (g *Grid[T]) Levels() []int32 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]int32, 0, len(g.levels))
	for z := range g.levels {
		out = append(out, z)
	}
	slices.Sort(out)
	return out
}
