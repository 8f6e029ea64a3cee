package search

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/gridnav/internal/geo"
)

// costGrid is a w×h grid of per-cell costs; 0 is impassable.
type costGrid struct {
	w, h   int32
	cells  []float32
	metric geo.DistanceMetric
}

func newCostGrid(w, h int32) *costGrid {
	g := &costGrid{w: w, h: h, cells: make([]float32, w*h)}
	for i := range g.cells {
		g.cells[i] = 1
	}
	return g
}

func (g *costGrid) at(p geo.Point) float32 {
	if p.X < 0 || p.Y < 0 || p.X >= g.w || p.Y >= g.h {
		return 0
	}
	return g.cells[p.Y*g.w+p.X]
}

func (g *costGrid) set(x, y int32, c float32) { g.cells[y*g.w+x] = c }

func (g *costGrid) bounds() geo.Rect { return geo.Rect{MaxX: g.w - 1, MaxY: g.h - 1} }

// forward: edge cost is the step length times the cost of the entered cell.
type forward struct{ *costGrid }

func (f forward) Candidates(geo.Point) geo.Directionality { return geo.DirAll }

func (f forward) Edge(_, to geo.Point, d geo.Direction, acc float32) (float32, string, bool) {
	c := f.at(to)
	if c == 0 {
		return 0, "", false
	}
	return acc + f.metric.Step(d)*c, d.String(), true
}

// backward: the value drops by the cost of entering the expanded cell.
type backward struct{ *costGrid }

func (b backward) Candidates(geo.Point) geo.Directionality { return geo.DirAll }

func (b backward) Edge(from, to geo.Point, d geo.Direction, acc float32) (float32, string, bool) {
	c := b.at(from)
	if c == 0 || b.at(to) == 0 {
		return 0, "", false
	}
	return acc - b.metric.Step(d)*c, "back", true
}

// exhaustive relaxes every edge until nothing changes.
func exhaustive(g *costGrid, start geo.Point) []float32 {
	inf := float32(math.Inf(1))
	dist := make([]float32, len(g.cells))
	for i := range dist {
		dist[i] = inf
	}
	dist[start.Y*g.w+start.X] = 0
	for changed := true; changed; {
		changed = false
		for y := range g.h {
			for x := range g.w {
				p := geo.Point{X: x, Y: y}
				dp := dist[y*g.w+x]
				if math.IsInf(float64(dp), 1) {
					continue
				}
				for _, d := range geo.Directions {
					q := p.Add(d)
					c := g.at(q)
					if c == 0 {
						continue
					}
					nd := dp + g.metric.Step(d)*c
					if nd < dist[q.Y*g.w+q.X]-1e-6 {
						dist[q.Y*g.w+q.X] = nd
						changed = true
					}
				}
			}
		}
	}
	return dist
}

func targetIs(t geo.Point) func(geo.Point) bool {
	return func(p geo.Point) bool { return p == t }
}

func metricHeuristic(m geo.DistanceMetric, target geo.Point) Heuristic {
	return func(p geo.Point) float32 { return m.Distance(p, target) }
}

func TestAStarOpenRoom(t *testing.T) {
	g := newCostGrid(10, 10)
	var k AStar[string]
	k.Configure(g.bounds())

	target := geo.Point{X: 8, Y: 8}
	end, ok := k.Search(geo.Point{X: 1, Y: 1}, targetIs(target), forward{g}, metricHeuristic(geo.Chebyshev, target), 0)
	require.True(t, ok)
	assert.Equal(t, target, end)

	path := k.Path(end, nil)
	require.Len(t, path, 7)
	assert.Equal(t, target, path[6].Point)
	assert.InDelta(t, 7.0, path[6].Value, 1e-5)
	for i, s := range path {
		assert.Equal(t, geo.SouthEast, s.Dir, "step %d", i)
		assert.Equal(t, "SE", s.Tag)
	}

	c, ok := k.Cost(target)
	require.True(t, ok)
	assert.InDelta(t, 7.0, c, 1e-5)
}

func TestAStarMatchesExhaustiveSearch(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	metrics := []geo.DistanceMetric{geo.Chebyshev, geo.Manhattan, geo.Euclidean, geo.Octile}

	for round := range 60 {
		g := newCostGrid(12, 12)
		g.metric = metrics[round%len(metrics)]
		for i := range g.cells {
			switch r := rng.IntN(10); {
			case r < 2:
				g.cells[i] = 0
			case r < 5:
				g.cells[i] = float32(1 + rng.IntN(3))
			}
		}
		start := geo.Point{X: int32(rng.IntN(12)), Y: int32(rng.IntN(12))}
		target := geo.Point{X: int32(rng.IntN(12)), Y: int32(rng.IntN(12))}
		g.set(start.X, start.Y, 1)
		g.set(target.X, target.Y, 1)

		want := exhaustive(g, start)[target.Y*g.w+target.X]

		var k AStar[string]
		k.Configure(g.bounds())
		end, ok := k.Search(start, targetIs(target), forward{g}, metricHeuristic(g.metric, target), 0)

		if math.IsInf(float64(want), 1) {
			assert.False(t, ok, "round %d: unreachable target found", round)
			continue
		}
		require.True(t, ok, "round %d: reachable target not found", round)
		got, _ := k.Cost(end)
		assert.InDelta(t, want, got, 1e-3, "round %d metric %s", round, g.metric)

		// The reconstructed path never enters a blocked cell and adds up.
		var sum float32
		prev := start
		for _, s := range k.Path(end, nil) {
			require.NotZero(t, g.at(s.Point))
			sum += g.metric.Step(s.Dir) * g.at(s.Point)
			assert.Equal(t, prev.Add(s.Dir), s.Point)
			prev = s.Point
		}
		assert.InDelta(t, got, sum, 1e-3)
	}
}

func TestAStarWalledOff(t *testing.T) {
	g := newCostGrid(10, 10)
	for y := range int32(10) {
		g.set(5, y, 0)
	}
	var k AStar[string]
	k.Configure(g.bounds())

	target := geo.Point{X: 8, Y: 8}
	_, ok := k.Search(geo.Point{X: 1, Y: 1}, targetIs(target), forward{g}, metricHeuristic(geo.Chebyshev, target), 0)
	assert.False(t, ok)
	assert.Equal(t, 50, k.Visited(), "every cell left of the wall is visited once")
}

func TestAStarLimit(t *testing.T) {
	g := newCostGrid(30, 30)
	for y := range int32(29) {
		g.set(15, y, 0)
	}
	var k AStar[string]
	k.Configure(g.bounds())

	target := geo.Point{X: 20, Y: 0}
	for _, limit := range []int{1, 5, 40, 100} {
		_, ok := k.Search(geo.Point{X: 10, Y: 0}, targetIs(target), forward{g}, metricHeuristic(geo.Chebyshev, target), limit)
		assert.False(t, ok)
		assert.LessOrEqual(t, k.Visited(), limit)
	}

	_, ok := k.Search(geo.Point{X: 10, Y: 0}, targetIs(target), forward{g}, metricHeuristic(geo.Chebyshev, target), 0)
	assert.True(t, ok)
}

func TestAStarStartOutsideWindow(t *testing.T) {
	var k AStar[string]
	k.Configure(geo.Rect{MaxX: 3, MaxY: 3})
	_, ok := k.Search(geo.Point{X: 9, Y: 9}, targetIs(geo.Point{}), forward{newCostGrid(4, 4)}, func(geo.Point) float32 { return 0 }, 0)
	assert.False(t, ok)
}

func TestAStarReuseMatchesFresh(t *testing.T) {
	g := newCostGrid(12, 12)
	g.set(5, 5, 0)
	g.set(6, 5, 3)
	target := geo.Point{X: 11, Y: 7}

	var reused AStar[string]
	reused.Configure(geo.Rect{MaxX: 5, MaxY: 5})
	_, _ = reused.Search(geo.Point{X: 0, Y: 0}, targetIs(geo.Point{X: 5, Y: 4}), forward{g}, metricHeuristic(geo.Chebyshev, target), 0)
	reused.Reset()
	reused.Configure(g.bounds())

	var fresh AStar[string]
	fresh.Configure(g.bounds())

	for _, k := range []*AStar[string]{&reused, &fresh} {
		end, ok := k.Search(geo.Point{X: 0, Y: 11}, targetIs(target), forward{g}, metricHeuristic(geo.Chebyshev, target), 0)
		require.True(t, ok)
		assert.Equal(t, target, end)
	}
	assert.Equal(t, fresh.Path(target, nil), reused.Path(target, nil))
	assert.Equal(t, fresh.Visited(), reused.Visited())
}

func TestDijkstraStrongerSeedWins(t *testing.T) {
	g := newCostGrid(11, 1)
	var k Dijkstra[string]
	k.Configure(g.bounds())

	require.True(t, k.AddSource(geo.Point{X: 0}, 10))
	require.True(t, k.AddSource(geo.Point{X: 10}, 20))
	assert.True(t, k.Run(backward{g}, 0))

	agent := geo.Point{X: 5}
	v, ok := k.Value(agent)
	require.True(t, ok)
	assert.InDelta(t, 15.0, v, 1e-5)

	path, ok := k.Path(agent, nil)
	require.True(t, ok)
	require.Len(t, path, 5)
	assert.Equal(t, geo.Point{X: 10}, path[4].Point)
	assert.InDelta(t, 20.0, path[4].Value, 1e-5)
	for _, s := range path {
		assert.Equal(t, geo.East, s.Dir)
		assert.Equal(t, "back", s.Tag)
	}
}

func TestDijkstraValueDecreasesAndCaps(t *testing.T) {
	g := newCostGrid(20, 1)
	var k Dijkstra[string]
	k.Configure(g.bounds())
	require.True(t, k.AddSource(geo.Point{}, 4))
	k.Run(backward{g}, 0)

	for x := range int32(5) {
		v, ok := k.Value(geo.Point{X: x})
		require.True(t, ok)
		assert.InDelta(t, 4-float32(x), v, 1e-5, "x=%d", x)
	}

	// Exhausted cell is reached with zero value and not expanded.
	v, ok := k.Value(geo.Point{X: 4})
	require.True(t, ok)
	assert.Zero(t, v)
	_, ok = k.Value(geo.Point{X: 5})
	assert.False(t, ok)

	_, ok = k.Path(geo.Point{X: 4}, nil)
	assert.False(t, ok)
}

func TestDijkstraTieBrokenByStrength(t *testing.T) {
	// Goal A (strength 5) is one step closer than goal B (strength 6): both
	// reach the middle cell with value 3 and the stronger seed must own it.
	g := newCostGrid(6, 1)
	var k Dijkstra[string]
	k.Configure(g.bounds())
	require.True(t, k.AddSource(geo.Point{X: 0}, 5))
	require.True(t, k.AddSource(geo.Point{X: 5}, 6))
	k.Run(backward{g}, 0)

	d, _, ok := k.Next(geo.Point{X: 2})
	require.True(t, ok)
	assert.Equal(t, geo.East, d)
}

func TestDijkstraLimit(t *testing.T) {
	g := newCostGrid(30, 30)
	var k Dijkstra[string]
	k.Configure(g.bounds())
	require.True(t, k.AddSource(geo.Point{X: 15, Y: 15}, 100))

	assert.False(t, k.Run(backward{g}, 25))
	assert.True(t, k.Truncated())
	assert.Equal(t, 25, k.Visited())
}

func TestDijkstraRejectsSeeds(t *testing.T) {
	var k Dijkstra[string]
	k.Configure(geo.Rect{MaxX: 4, MaxY: 4})

	assert.False(t, k.AddSource(geo.Point{X: 9}, 5), "outside window")
	assert.False(t, k.AddSource(geo.Point{X: 1}, 0), "no strength")
	assert.True(t, k.AddSource(geo.Point{X: 1}, 5))
	assert.False(t, k.AddSource(geo.Point{X: 1}, 3), "weaker duplicate")
	assert.True(t, k.AddSource(geo.Point{X: 1}, 8), "stronger duplicate")
	assert.True(t, k.IsSource(geo.Point{X: 1}))

	k.Reset()
	assert.False(t, k.IsSource(geo.Point{X: 1}))
	assert.False(t, k.AddSource(geo.Point{X: 1}, 5), "empty window after reset")
}

func TestOpenListOrdering(t *testing.T) {
	q := &openList{}
	q.push(entry{idx: 1, primary: 5})
	q.push(entry{idx: 2, primary: 3, secondary: 1})
	q.push(entry{idx: 3, primary: 3, secondary: 4})
	q.push(entry{idx: 4, primary: 9})

	var order []int32
	for q.Len() > 0 {
		order = append(order, q.pop().idx)
	}
	assert.Equal(t, []int32{3, 2, 1, 4}, order)

	q = &openList{maxFirst: true}
	q.push(entry{idx: 1, primary: 5})
	q.push(entry{idx: 2, primary: 9, secondary: 1})
	q.push(entry{idx: 3, primary: 9, secondary: 2})
	order = order[:0]
	for q.Len() > 0 {
		order = append(order, q.pop().idx)
	}
	assert.Equal(t, []int32{3, 2, 1}, order)
}
