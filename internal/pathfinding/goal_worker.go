package pathfinding

import (
	"fmt"
	"math"

	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/goals"
	"github.com/udisondev/gridnav/internal/grid"
	"github.com/udisondev/gridnav/internal/movement"
	"github.com/udisondev/gridnav/internal/search"
)

// GoalWorker computes a goal field around the active origin and follows it
// towards the most valuable reachable goal.
//
// Every goal seeds the field with its strength. Moving away from a goal
// spends the cost of the move, so a cell's value is what remains of the best
// goal reachable from it. The field is computed on the first PerformSearch
// after configuration and reused by later calls. Not safe for concurrent
// use.
type GoalWorker struct {
	level
	kernel   search.Dijkstra[movement.Mode]
	goals    goals.Set
	computed bool
	scratch  []searchStep
}

// NewGoalWorker returns an idle worker.
func NewGoalWorker() *GoalWorker {
	w := &GoalWorker{}
	w.Reset()
	return w
}

// ConfigureActiveLevel starts a configuration: the field covers radius
// cells around origin on origin's level. Bound profiles and goals are
// dropped.
func (w *GoalWorker) ConfigureActiveLevel(origin geo.Position, radius int32) error {
	if err := w.configureActiveLevel(origin, radius); err != nil {
		return err
	}
	w.goals.Clear()
	w.computed = false
	return nil
}

// ConfigureMovementProfile binds one mode's views for the active level.
func (w *GoalWorker) ConfigureMovementProfile(
	mode movement.Mode,
	base movement.Cost,
	metric geo.DistanceMetric,
	cost grid.View2D[float32],
	in, out grid.View2D[geo.Directionality],
) error {
	return w.configureProfile(mode, base, metric, cost, in, out)
}

// ConfigureFinished ends the configuration.
func (w *GoalWorker) ConfigureFinished() error {
	if err := w.configureFinished(); err != nil {
		return err
	}
	w.kernel.Configure(w.window)
	return nil
}

// AddGoal registers a goal before the field is computed. Goals outside the
// window are ignored and reported as false.
func (w *GoalWorker) AddGoal(r goals.Record) (bool, error) {
	if w.state == stateIdle {
		return false, fmt.Errorf("add goal: %w", ErrNotConfigured)
	}
	if !r.Position.Valid() {
		return false, fmt.Errorf("add goal %s: %w", r.Position, ErrInvalidPosition)
	}
	if r.Position.Z != w.origin.Z {
		return false, fmt.Errorf("add goal %s, active level %d: %w", r.Position, w.origin.Z, ErrLevelMismatch)
	}
	if w.computed || !w.window.Contains(w.local(r.Position)) {
		return false, nil
	}
	return w.goals.Add(r), nil
}

// Goals returns the number of registered goals.
func (w *GoalWorker) Goals() int {
	return w.goals.Len()
}

// PerformSearch writes the path from `from` towards the best goal to
// buf[:0]. The first call computes the field, visiting at most limit nodes
// (limit <= 0: window bound only).
func (w *GoalWorker) PerformSearch(from geo.Position, buf []Step, limit int) ([]Step, Result, error) {
	buf = buf[:0]
	if err := w.check(from); err != nil {
		return buf, NotFound, fmt.Errorf("perform search: %w", err)
	}
	if w.goals.Contains(from) {
		return buf, Arrived, nil
	}
	w.compute(limit)

	steps, ok := w.kernel.Path(w.local(from), w.scratch)
	w.scratch = steps
	if !ok || len(steps) == 0 {
		return buf, NotFound, nil
	}
	return w.convert(steps, buf), Found, nil
}

// GoalStrengthAt returns the field value at p. ok is false before the field
// is computed and for cells the field did not reach.
func (w *GoalWorker) GoalStrengthAt(p geo.Position) (float32, bool) {
	if !w.computed || !p.Valid() || p.Z != w.origin.Z {
		return 0, false
	}
	return w.kernel.Value(w.local(p))
}

// NodesEvaluated returns the nodes visited computing the field.
func (w *GoalWorker) NodesEvaluated() int {
	return w.kernel.Visited()
}

// Truncated reports whether the field computation hit its limit.
func (w *GoalWorker) Truncated() bool {
	return w.kernel.Truncated()
}

// Reset drops the window, profiles, goals and all node storage.
func (w *GoalWorker) Reset() {
	w.level.reset()
	w.kernel.Reset()
	w.goals.Clear()
	w.computed = false
	clear(w.scratch)
	w.scratch = w.scratch[:0]
}

func (w *GoalWorker) compute(limit int) {
	if w.computed {
		return
	}
	w.computed = true
	if len(w.profiles) == 0 {
		return
	}
	for _, r := range w.goals.Records() {
		w.kernel.AddSource(w.local(r.Position), r.Strength)
	}
	w.kernel.Run(goalRules{w}, limit)
}

// goalRules expands the field backwards: reaching neighbour n from the
// expanded cell s in direction d stands for the real move n -> s in
// d.Opposite(). Legality uses the mode's outbound mask at n and inbound mask
// at s, the cost is the mode's tile cost at s. The mode leaving the most
// value wins. n itself must be usable by some bound mode.
type goalRules struct {
	w *GoalWorker
}

func (r goalRules) Candidates(p geo.Point) geo.Directionality {
	x, y := p.X+r.w.origin.X, p.Y+r.w.origin.Y
	var dirs geo.Directionality
	for i := range r.w.profiles {
		dirs = dirs.Union(r.w.profiles[i].inbound(x, y))
	}
	return dirs.Opposite()
}

func (r goalRules) Edge(from, to geo.Point, d geo.Direction, value float32) (float32, movement.Mode, bool) {
	sx, sy := from.X+r.w.origin.X, from.Y+r.w.origin.Y
	nx, ny := to.X+r.w.origin.X, to.Y+r.w.origin.Y
	move := d.Opposite()
	if !r.standable(nx, ny) {
		return 0, movement.NoMode, false
	}

	best, mode := float32(math.Inf(-1)), movement.NoMode
	for i := range r.w.profiles {
		pr := &r.w.profiles[i]
		if !pr.inbound(sx, sy).Has(move) || !pr.outbound(nx, ny).Has(move) {
			continue
		}
		tile := pr.tile(sx, sy)
		if !usable(tile) {
			continue
		}
		if v := value - pr.metric.Step(move)*pr.base*tile; v > best {
			best, mode = v, pr.mode
		}
	}
	return best, mode, mode != movement.NoMode
}

func (r goalRules) standable(x, y int32) bool {
	for i := range r.w.profiles {
		if usable(r.w.profiles[i].tile(x, y)) {
			return true
		}
	}
	return false
}
