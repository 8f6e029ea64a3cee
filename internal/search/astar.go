package search

import (
	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/grid"
)

type astarNode[M any] struct {
	g, f  float32
	from  geo.Direction // direction moved to enter this node
	tag   M
	state nodeState
	root  bool
}

// AStar is a single-target A* kernel over a bounded window. Not safe for
// concurrent use; node storage is kept between searches.
type AStar[M any] struct {
	nodes   grid.BoundedArray[astarNode[M]]
	open    openList
	visited int
}

// Configure positions the node window and clears previous state.
func (a *AStar[M]) Configure(bounds geo.Rect) {
	a.nodes.Resize(bounds)
	a.open.reset()
	a.visited = 0
}

// Bounds returns the node window.
func (a *AStar[M]) Bounds() geo.Rect {
	return a.nodes.Bounds()
}

// Search runs A* from start until done reports true for a closed node.
// limit caps the number of visited nodes; limit <= 0 leaves only the window
// as bound. It returns the node that satisfied done.
func (a *AStar[M]) Search(start geo.Point, done func(geo.Point) bool, rules Rules[M], h Heuristic, limit int) (geo.Point, bool) {
	a.nodes.Clear(astarNode[M]{})
	a.open.reset()
	a.visited = 0

	si, ok := a.nodes.Index(start)
	if !ok {
		return geo.Point{}, false
	}
	s := a.nodes.At(si)
	*s = astarNode[M]{f: h(start), state: open, root: true}
	a.open.push(entry{idx: int32(si), primary: s.f})

	for a.open.Len() > 0 {
		e := a.open.pop()
		n := a.nodes.At(int(e.idx))
		if n.state == closed || e.primary > n.f {
			continue
		}
		if limit > 0 && a.visited >= limit {
			return geo.Point{}, false
		}
		n.state = closed
		a.visited++

		p := a.nodes.PointAt(int(e.idx))
		if done(p) {
			return p, true
		}

		g := n.g
		rules.Candidates(p).Each(func(d geo.Direction) {
			q := p.Add(d)
			qi, ok := a.nodes.Index(q)
			if !ok {
				return
			}
			m := a.nodes.At(qi)
			if m.state == closed {
				return
			}
			cost, tag, ok := rules.Edge(p, q, d, g)
			if !ok {
				return
			}
			if m.state == open && cost >= m.g {
				return
			}
			m.g = cost
			m.f = cost + h(q)
			m.from = d
			m.tag = tag
			m.state = open
			a.open.push(entry{idx: int32(qi), primary: m.f, secondary: m.g})
		})
	}
	return geo.Point{}, false
}

// Visited returns the number of nodes closed by the last search.
func (a *AStar[M]) Visited() int {
	return a.visited
}

// Cost returns the accumulated cost at p if p was reached.
func (a *AStar[M]) Cost(p geo.Point) (float32, bool) {
	n, ok := a.nodes.TryGet(p, astarNode[M]{})
	if !ok || n.state == unseen {
		return 0, false
	}
	return n.g, true
}

// Path appends the steps from the search start to end onto buf[:0], in
// traversal order. The start cell itself is not included.
func (a *AStar[M]) Path(end geo.Point, buf []Step[M]) []Step[M] {
	buf = buf[:0]
	p := end
	for range a.nodes.Len() {
		idx, ok := a.nodes.Index(p)
		if !ok {
			return buf[:0]
		}
		n := a.nodes.At(idx)
		if n.state == unseen {
			return buf[:0]
		}
		if n.root {
			reverse(buf)
			return buf
		}
		buf = append(buf, Step[M]{Point: p, Dir: n.from, Tag: n.tag, Value: n.g})
		p = p.Add(n.from.Opposite())
	}
	return buf[:0]
}

// Reset drops all node storage state; the window becomes empty.
func (a *AStar[M]) Reset() {
	a.nodes.Reset()
	a.open.reset()
	a.visited = 0
}
