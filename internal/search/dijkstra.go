package search

import (
	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/grid"
)

type dijkstraNode[M any] struct {
	value    float32
	strength float32       // strength of the seed this value came from
	next     geo.Direction // step towards the seed
	tag      M             // tag of the step towards the seed
	state    nodeState
	seed     bool
}

// Dijkstra propagates a remaining-value field outward from several seeds.
//
// Each seed starts at its strength. Rules.Edge receives the expanded cell's
// value and returns the value left at the neighbour; values are clamped at
// zero and exhausted cells are never expanded. Higher values are expanded
// first, ties go to the stronger seed.
type Dijkstra[M any] struct {
	nodes     grid.BoundedArray[dijkstraNode[M]]
	open      openList
	visited   int
	truncated bool
}

// Configure positions the node window and clears previous state.
func (k *Dijkstra[M]) Configure(bounds geo.Rect) {
	k.nodes.Resize(bounds)
	k.open = openList{items: k.open.items[:0], maxFirst: true}
	k.visited = 0
	k.truncated = false
}

// Bounds returns the node window.
func (k *Dijkstra[M]) Bounds() geo.Rect {
	return k.nodes.Bounds()
}

// AddSource seeds p with strength. Seeds outside the window or without
// positive strength are rejected. A weaker seed never replaces a stronger
// one on the same cell.
func (k *Dijkstra[M]) AddSource(p geo.Point, strength float32) bool {
	if strength <= 0 {
		return false
	}
	idx, ok := k.nodes.Index(p)
	if !ok {
		return false
	}
	n := k.nodes.At(idx)
	if n.state != unseen && n.value >= strength {
		return false
	}
	*n = dijkstraNode[M]{value: strength, strength: strength, state: open, seed: true}
	k.open.push(entry{idx: int32(idx), primary: strength, secondary: strength})
	return true
}

// Run expands the field until the frontier is exhausted or limit nodes were
// visited (limit <= 0: window bound only). It reports whether the frontier
// was exhausted.
func (k *Dijkstra[M]) Run(rules Rules[M], limit int) bool {
	for k.open.Len() > 0 {
		if limit > 0 && k.visited >= limit {
			k.truncated = true
			return false
		}
		e := k.open.pop()
		n := k.nodes.At(int(e.idx))
		if n.state == closed || e.primary < n.value {
			continue
		}
		n.state = closed
		k.visited++
		if n.value <= 0 {
			continue
		}

		p := k.nodes.PointAt(int(e.idx))
		value, strength := n.value, n.strength
		rules.Candidates(p).Each(func(d geo.Direction) {
			q := p.Add(d)
			qi, ok := k.nodes.Index(q)
			if !ok {
				return
			}
			m := k.nodes.At(qi)
			if m.state == closed {
				return
			}
			v, tag, ok := rules.Edge(p, q, d, value)
			if !ok {
				return
			}
			v = max(v, 0)
			if m.state == open && (v < m.value || (v == m.value && strength <= m.strength)) {
				return
			}
			m.value = v
			m.strength = strength
			m.next = d.Opposite()
			m.tag = tag
			m.state = open
			if v > 0 {
				k.open.push(entry{idx: int32(qi), primary: v, secondary: strength})
			}
		})
	}
	k.truncated = false
	return true
}

// Visited returns the number of nodes expanded so far.
func (k *Dijkstra[M]) Visited() int {
	return k.visited
}

// Truncated reports whether the last Run stopped at its limit.
func (k *Dijkstra[M]) Truncated() bool {
	return k.truncated
}

// Value returns the field value at p; ok is false for unreached cells.
func (k *Dijkstra[M]) Value(p geo.Point) (float32, bool) {
	n, ok := k.nodes.TryGet(p, dijkstraNode[M]{})
	if !ok || n.state == unseen {
		return 0, false
	}
	return n.value, true
}

// IsSource reports whether p was seeded.
func (k *Dijkstra[M]) IsSource(p geo.Point) bool {
	n, ok := k.nodes.TryGet(p, dijkstraNode[M]{})
	return ok && n.seed
}

// Next returns the step from p towards its seed.
func (k *Dijkstra[M]) Next(p geo.Point) (geo.Direction, M, bool) {
	var zero M
	n, ok := k.nodes.TryGet(p, dijkstraNode[M]{})
	if !ok || n.state == unseen || n.seed || n.value <= 0 {
		return 0, zero, false
	}
	return n.next, n.tag, true
}

// Path appends the steps from -> seed onto buf[:0]. It returns false when
// from holds no positive value.
func (k *Dijkstra[M]) Path(from geo.Point, buf []Step[M]) ([]Step[M], bool) {
	buf = buf[:0]
	if v, ok := k.Value(from); !ok || v <= 0 {
		return buf, false
	}
	p := from
	for range k.nodes.Len() {
		if k.IsSource(p) {
			return buf, true
		}
		d, tag, ok := k.Next(p)
		if !ok {
			return buf[:0], false
		}
		p = p.Add(d)
		v, _ := k.Value(p)
		buf = append(buf, Step[M]{Point: p, Dir: d, Tag: tag, Value: v})
	}
	return buf[:0], false
}

// Reset drops all node storage state; the window becomes empty.
func (k *Dijkstra[M]) Reset() {
	k.nodes.Reset()
	k.open.reset()
	k.visited = 0
	k.truncated = false
}
