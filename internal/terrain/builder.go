package terrain

import (
	"log/slog"
	"math"

	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/grid"
	"github.com/udisondev/gridnav/internal/movement"
)

// Builder accumulates cost contributions from independent terrain layers
// (ground, items, ambient effects) and derives the final views.
// Not safe for concurrent use.
type Builder struct {
	costs    map[movement.Mode]*grid.Grid[movement.Cost]
	inbound  map[movement.Mode]*grid.Grid[geo.Directionality]
	outbound map[movement.Mode]*grid.Grid[geo.Directionality]
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		costs:    make(map[movement.Mode]*grid.Grid[movement.Cost]),
		inbound:  make(map[movement.Mode]*grid.Grid[geo.Directionality]),
		outbound: make(map[movement.Mode]*grid.Grid[geo.Directionality]),
	}
}

// Contribute merges c into the cost of mode at p. The more restrictive
// contribution wins, so a blocking layer cannot be undone by a later one.
func (b *Builder) Contribute(mode movement.Mode, p geo.Position, c movement.Cost) {
	b.costGrid(mode).Level(p.Z).Update(p.X, p.Y, func(cur movement.Cost) movement.Cost {
		return cur.Combine(c)
	})
}

// Paint contributes c to every cell of r on level z.
func (b *Builder) Paint(mode movement.Mode, z int32, r geo.Rect, c movement.Cost) {
	l := b.costGrid(mode).Level(z)
	for y := r.MinY; y <= r.MaxY; y++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			l.Update(x, y, func(cur movement.Cost) movement.Cost { return cur.Combine(c) })
		}
	}
}

// RestrictOutbound limits the directions mode may leave p in.
func (b *Builder) RestrictOutbound(mode movement.Mode, p geo.Position, allowed geo.Directionality) {
	restrict(b.outbound, mode, p, allowed)
}

// RestrictInbound limits the directions mode may enter p in.
func (b *Builder) RestrictInbound(mode movement.Mode, p geo.Position, allowed geo.Directionality) {
	restrict(b.inbound, mode, p, allowed)
}

func restrict(masks map[movement.Mode]*grid.Grid[geo.Directionality], mode movement.Mode, p geo.Position, allowed geo.Directionality) {
	g, ok := masks[mode]
	if !ok {
		g = grid.New(geo.DirAll)
		masks[mode] = g
	}
	g.Level(p.Z).Update(p.X, p.Y, func(cur geo.Directionality) geo.Directionality {
		return cur.Intersect(allowed)
	})
}

// Build derives the immutable map.
//
// A cell is passable for a mode when it has a non-zero, non-blocked cost.
// Outbound direction d is allowed when the neighbour in d is passable and,
// for diagonals, both orthogonal neighbours are passable too. Outbound masks
// are derived for every cell around the mode's data, passable or not, so an
// agent can switch modes between cells (wade out of water, take off from a
// ledge). Passable cells accept entry from every direction unless
// restricted.
func (b *Builder) Build() *Map {
	m := &Map{}
	cells := 0
	for mode := range movement.Mode(movement.MaxModes) {
		src, ok := b.costs[mode]
		if !ok {
			continue
		}
		costs := grid.New[float32](0)
		in := grid.New(geo.DirNone)
		out := grid.New(geo.DirNone)
		floors := make(map[int32]float32)
		for _, z := range src.Levels() {
			layer := src.Level(z)
			n, floor := b.buildLevel(mode, z, layer, costs.Level(z), in.Level(z), out.Level(z))
			if !math.IsInf(float64(floor), 1) {
				floors[z] = floor
			}
			cells += n
		}
		m.costs[mode], m.inbound[mode], m.outbound[mode] = costs, in, out
		m.floors[mode] = floors
		m.modes = append(m.modes, mode)
	}
	slog.Debug("terrain built", "modes", len(m.modes), "cells", cells)
	return m
}

func (b *Builder) buildLevel(
	mode movement.Mode,
	z int32,
	src *grid.Layer[movement.Cost],
	costs *grid.Layer[float32],
	in, out *grid.Layer[geo.Directionality],
) (cells int, floor float32) {
	var h grid.TileHandle[movement.Cost]
	passable := func(p geo.Point) bool {
		c, ok := src.TryGetMapValue(&h, p.X, p.Y, movement.Free)
		return ok && c != movement.Free && !c.IsBlocked()
	}
	outMask := maskView(b.outbound, mode, z)
	inMask := maskView(b.inbound, mode, z)

	floor = float32(math.Inf(1))
	bounds := src.Bounds()
	if bounds.Empty() {
		return 0, floor
	}
	bounds = bounds.Expand(1)

	for y := bounds.MinY; y <= bounds.MaxY; y++ {
		for x := bounds.MinX; x <= bounds.MaxX; x++ {
			p := geo.Point{X: x, Y: y}
			var dirs geo.Directionality
			for _, d := range geo.Directions {
				if !passable(p.Add(d)) {
					continue
				}
				if d.IsDiagonal() {
					a, s := d.Sides()
					if !passable(p.Add(a)) || !passable(p.Add(s)) {
						continue
					}
				}
				dirs = dirs.With(d)
			}
			if outMask != nil {
				dirs = dirs.Intersect(outMask.Get(x, y, geo.DirAll))
			}
			if dirs != geo.DirNone {
				out.Set(x, y, dirs)
			}

			c, ok := src.TryGetMapValue(&h, x, y, movement.Free)
			if !ok || c == movement.Free {
				continue
			}
			cells++
			if c.IsBlocked() {
				costs.Set(x, y, float32(math.Inf(1)))
				continue
			}
			costs.Set(x, y, c.Factor())
			floor = min(floor, c.Factor())
			entry := geo.DirAll
			if inMask != nil {
				entry = entry.Intersect(inMask.Get(x, y, geo.DirAll))
			}
			in.Set(x, y, entry)
		}
	}
	return cells, floor
}

func maskView(masks map[movement.Mode]*grid.Grid[geo.Directionality], mode movement.Mode, z int32) grid.View2D[geo.Directionality] {
	g, ok := masks[mode]
	if !ok {
		return nil
	}
	v, ok := g.TryGetView(z)
	if !ok {
		return nil
	}
	return v
}

func (b *Builder) costGrid(mode movement.Mode) *grid.Grid[movement.Cost] {
	g, ok := b.costs[mode]
	if !ok {
		g = grid.New(movement.Free)
		b.costs[mode] = g
	}
	return g
}
