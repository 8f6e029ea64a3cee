package pathfinding

import (
	"fmt"
	"math"

	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/grid"
	"github.com/udisondev/gridnav/internal/movement"
	"github.com/udisondev/gridnav/internal/search"
)

type searchStep = search.Step[movement.Mode]

// PathWorker finds a route from a source to one target on a single level.
//
// Usage: ConfigureActiveLevel, ConfigureMovementProfile per mode,
// ConfigureFinished, then any number of FindPath calls. Reset returns the
// worker to its initial state. Not safe for concurrent use.
type PathWorker struct {
	level
	weight  float32
	kernel  search.AStar[movement.Mode]
	scratch []searchStep
	visited int
}

// NewPathWorker returns an idle worker.
func NewPathWorker() *PathWorker {
	w := &PathWorker{}
	w.Reset()
	return w
}

// ConfigureActiveLevel starts a configuration: the search window covers
// radius cells around origin on origin's level. Previously bound profiles
// are dropped.
func (w *PathWorker) ConfigureActiveLevel(origin geo.Position, radius int32) error {
	return w.configureActiveLevel(origin, radius)
}

// ConfigureMovementProfile binds one mode's views for the active level.
// Modes with a blocked base cost are skipped; binding a mode again replaces
// it.
func (w *PathWorker) ConfigureMovementProfile(
	mode movement.Mode,
	base movement.Cost,
	metric geo.DistanceMetric,
	cost grid.View2D[float32],
	in, out grid.View2D[geo.Directionality],
) error {
	return w.configureProfile(mode, base, metric, cost, in, out)
}

// ConfigureTileFloor declares the cheapest tile factor mode meets in the
// window. The heuristic stays admissible only if no tile is cheaper; the
// default is the cheapest factor a Cost can encode. Call it after binding
// the mode.
func (w *PathWorker) ConfigureTileFloor(mode movement.Mode, floor float32) error {
	return w.configureTileFloor(mode, floor)
}

// ConfigureHeuristicWeight scales the heuristic. Weights above 1 expand
// fewer nodes at the price of optimality.
func (w *PathWorker) ConfigureHeuristicWeight(weight float32) error {
	if w.state != stateConfiguring {
		return fmt.Errorf("configure heuristic weight: %w", ErrNotConfigured)
	}
	w.weight = max(weight, 1)
	return nil
}

// ConfigureFinished ends the configuration.
func (w *PathWorker) ConfigureFinished() error {
	if err := w.configureFinished(); err != nil {
		return err
	}
	w.kernel.Configure(w.window)
	return nil
}

// Modes returns the bound modes in binding order.
func (w *PathWorker) Modes() []movement.Mode {
	return w.modes()
}

// FindPath searches a route from source until a cell within targetDistance
// of target is reached. The steps are written to buf[:0] in traversal
// order, the source cell excluded. limit caps the visited nodes, limit <= 0
// leaves the window as the only bound.
//
// Arrived is returned without expanding any node when source already lies
// within targetDistance. NotFound is an ordinary outcome; errors report
// invalid requests.
func (w *PathWorker) FindPath(source, target geo.Position, targetDistance float32, buf []Step, limit int) ([]Step, Result, error) {
	buf = buf[:0]
	w.visited = 0
	if err := w.check(source); err != nil {
		return buf, NotFound, fmt.Errorf("find path source: %w", err)
	}
	if err := w.check(target); err != nil {
		return buf, NotFound, fmt.Errorf("find path target: %w", err)
	}
	targetDistance = max(targetDistance, 0)

	s, t := w.local(source), w.local(target)
	if w.distance(s, t) <= targetDistance {
		return buf, Arrived, nil
	}
	if len(w.profiles) == 0 {
		return buf, NotFound, nil
	}

	h := func(p geo.Point) float32 {
		return w.weight * w.heuristic(p, t, targetDistance)
	}
	done := func(p geo.Point) bool {
		return w.distance(p, t) <= targetDistance
	}
	end, ok := w.kernel.Search(s, done, pathRules{w}, h, limit)
	w.visited = w.kernel.Visited()
	if !ok {
		return buf, NotFound, nil
	}

	w.scratch = w.kernel.Path(end, w.scratch)
	return w.convert(w.scratch, buf), Found, nil
}

// NodesEvaluated returns the nodes visited by the last FindPath.
func (w *PathWorker) NodesEvaluated() int {
	return w.visited
}

// Reset drops the window, the bound profiles and all node storage.
func (w *PathWorker) Reset() {
	w.level.reset()
	w.weight = 1
	w.kernel.Reset()
	clear(w.scratch)
	w.scratch = w.scratch[:0]
	w.visited = 0
}

// distance is the closest estimate among bound metrics, Chebyshev when
// nothing is bound.
func (w *PathWorker) distance(a, b geo.Point) float32 {
	if len(w.profiles) == 0 {
		return geo.Chebyshev.Distance(a, b)
	}
	d := float32(math.Inf(1))
	for i := range w.profiles {
		d = min(d, w.profiles[i].metric.Distance(a, b))
	}
	return d
}

// heuristic bounds the remaining cost by the cheapest step any profile can
// take. A single profile measures with its own metric, several profiles
// with Chebyshev.
func (w *PathWorker) heuristic(p, t geo.Point, targetDistance float32) float32 {
	if len(w.profiles) == 1 {
		pr := &w.profiles[0]
		return pr.base * pr.floor * max(pr.metric.Distance(p, t)-targetDistance, 0)
	}
	c := float32(math.Inf(1))
	for i := range w.profiles {
		c = min(c, w.profiles[i].base*w.profiles[i].floor)
	}
	return c * max(geo.Chebyshev.Distance(p, t)-targetDistance, 0)
}

// pathRules evaluates forward moves: a mode may move from -> to in d when
// its outbound mask at from and inbound mask at to allow d and to has a
// usable tile cost. The cheapest legal mode wins.
type pathRules struct {
	w *PathWorker
}

func (r pathRules) Candidates(p geo.Point) geo.Directionality {
	x, y := p.X+r.w.origin.X, p.Y+r.w.origin.Y
	var dirs geo.Directionality
	for i := range r.w.profiles {
		dirs = dirs.Union(r.w.profiles[i].outbound(x, y))
	}
	return dirs
}

func (r pathRules) Edge(from, to geo.Point, d geo.Direction, acc float32) (float32, movement.Mode, bool) {
	fx, fy := from.X+r.w.origin.X, from.Y+r.w.origin.Y
	tx, ty := to.X+r.w.origin.X, to.Y+r.w.origin.Y

	best, mode := float32(math.Inf(1)), movement.NoMode
	for i := range r.w.profiles {
		pr := &r.w.profiles[i]
		if !pr.outbound(fx, fy).Has(d) || !pr.inbound(tx, ty).Has(d) {
			continue
		}
		tile := pr.tile(tx, ty)
		if !usable(tile) {
			continue
		}
		if c := acc + pr.metric.Step(d)*pr.base*tile; c < best {
			best, mode = c, pr.mode
		}
	}
	return best, mode, mode != movement.NoMode
}
