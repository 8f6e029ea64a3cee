package pathfinding

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/gridnav/internal/config"
	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/goals"
	"github.com/udisondev/gridnav/internal/grid"
	"github.com/udisondev/gridnav/internal/movement"
)

const defaultPathCapacity = 64

// Service hands out pooled path and goal finders over one terrain.
// Safe for concurrent use; the finders it builds are not.
type Service struct {
	provider MovementDataProvider
	modes    *movement.Registry
	goals    *goals.Registry

	pathCfg config.Pathfinding
	goalCfg config.GoalFinder

	paths    *Pool[*PathWorker]
	goalPool *Pool[*GoalWorker]
	stepPool *StepBufferPool
}

// NewService creates a service. goalRegistry may be nil when finders only
// use explicit goal sources.
func NewService(provider MovementDataProvider, modes *movement.Registry, goalRegistry *goals.Registry, cfg config.Navigator) *Service {
	if goalRegistry == nil {
		goalRegistry = goals.NewRegistry()
	}
	return &Service{
		provider: provider,
		modes:    modes,
		goals:    goalRegistry,
		pathCfg:  cfg.Pathfinding,
		goalCfg:  cfg.GoalFinder,
		paths:    NewPool(cfg.Pathfinding.PoolCapacity, NewPathWorker),
		goalPool: NewPool(cfg.GoalFinder.PoolCapacity, NewGoalWorker),
		stepPool: NewStepBufferPool(defaultPathCapacity),
	}
}

// Buffers returns the shared path buffer pool.
func (s *Service) Buffers() *StepBufferPool {
	return s.stepPool
}

// PoolStats returns the path and goal worker pool counters.
func (s *Service) PoolStats() (paths, goalWorkers PoolStats) {
	return s.paths.Stats(), s.goalPool.Stats()
}

// PathFinder starts a path finder for an agent moving with factors.
func (s *Service) PathFinder(factors movement.Factors) *PathFinderBuilder {
	return &PathFinderBuilder{
		svc:     s,
		factors: factors.Clone(),
		target:  geo.Invalid,
		radius:  s.pathCfg.SearchRadius,
	}
}

// GoalFinder starts a goal finder for an agent moving with factors.
func (s *Service) GoalFinder(factors movement.Factors) *GoalFinderBuilder {
	return &GoalFinderBuilder{
		svc:     s,
		factors: factors.Clone(),
		radius:  s.goalCfg.SearchRadius,
	}
}

// profileBinder is implemented by both workers.
type profileBinder interface {
	ConfigureMovementProfile(
		mode movement.Mode,
		base movement.Cost,
		metric geo.DistanceMetric,
		cost grid.View2D[float32],
		in, out grid.View2D[geo.Directionality],
	) error
}

// bindProfiles binds every usable mode of factors on level z. Modes without
// data on the level are left out.
func (s *Service) bindProfiles(w profileBinder, factors movement.Factors, z int32) error {
	for _, mc := range factors.Usable() {
		costs, ok := s.provider.CostView(mc.Mode)
		if !ok {
			continue
		}
		in3, out3, ok := s.provider.DirectionViews(mc.Mode)
		if !ok {
			continue
		}
		cost, ok := costs.TryGetView(z)
		if !ok {
			continue
		}
		in, ok := in3.TryGetView(z)
		if !ok {
			continue
		}
		out, ok := out3.TryGetView(z)
		if !ok {
			continue
		}
		if err := w.ConfigureMovementProfile(mc.Mode, mc.Cost, s.modes.Metric(mc.Mode), cost, in, out); err != nil {
			return err
		}
		if fb, ok := w.(tileFloorBinder); ok {
			if err := s.bindTileFloor(fb, mc.Mode, z); err != nil {
				return err
			}
		}
	}
	return nil
}

// tileFloorBinder is implemented by workers with a cost heuristic.
type tileFloorBinder interface {
	ConfigureTileFloor(mode movement.Mode, floor float32) error
}

func (s *Service) bindTileFloor(w tileFloorBinder, mode movement.Mode, z int32) error {
	fp, ok := s.provider.(TileFloorProvider)
	if !ok {
		return nil
	}
	floor, ok := fp.MinTileCost(mode, z)
	if !ok {
		return nil
	}
	return w.ConfigureTileFloor(mode, floor)
}

// PathFinderBuilder configures a PathFinder.
type PathFinderBuilder struct {
	svc            *Service
	factors        movement.Factors
	target         geo.Position
	targetDistance float32
	radius         int32
}

// WithTarget sets the destination.
func (b *PathFinderBuilder) WithTarget(p geo.Position) *PathFinderBuilder {
	b.target = p
	return b
}

// WithTargetDistance accepts any cell within d of the target as arrival.
func (b *PathFinderBuilder) WithTargetDistance(d float32) *PathFinderBuilder {
	b.targetDistance = max(d, 0)
	return b
}

// WithSearchRadius sets the minimum window radius around the source.
func (b *PathFinderBuilder) WithSearchRadius(r int32) *PathFinderBuilder {
	b.radius = r
	return b
}

// Build checks a worker out of the pool. Close the finder to return it.
func (b *PathFinderBuilder) Build() (*PathFinder, error) {
	if !b.target.Valid() {
		return nil, fmt.Errorf("build path finder: target %w", ErrInvalidPosition)
	}
	return &PathFinder{
		svc:            b.svc,
		worker:         b.svc.paths.Get(),
		factors:        b.factors,
		target:         b.target,
		targetDistance: b.targetDistance,
		radius:         max(b.radius, 1),
	}, nil
}

// PathFinder finds routes from changing sources to a fixed target.
type PathFinder struct {
	svc            *Service
	worker         *PathWorker
	factors        movement.Factors
	target         geo.Position
	targetDistance float32
	radius         int32

	nodes   int
	elapsed time.Duration
}

// TryFindPath writes the route from source to the target into buf[:0].
// limit <= 0 uses the configured search limit.
func (f *PathFinder) TryFindPath(source geo.Position, buf []Step, limit int) ([]Step, Result, error) {
	start := time.Now()
	defer func() { f.elapsed = time.Since(start) }()
	f.nodes = 0

	if f.worker == nil {
		return buf[:0], NotFound, fmt.Errorf("path finder closed: %w", ErrNotConfigured)
	}
	if !source.Valid() {
		return buf[:0], NotFound, fmt.Errorf("try find path source %s: %w", source, ErrInvalidPosition)
	}
	if !source.SameLevel(f.target) {
		return buf[:0], NotFound, fmt.Errorf("try find path %s -> %s: %w", source, f.target, ErrLevelMismatch)
	}
	if limit <= 0 {
		limit = f.svc.pathCfg.SearchLimit
	}

	w := f.worker
	w.Reset()
	span := int32(geo.Chebyshev.Distance(source.Point(), f.target.Point()))
	radius := max(f.radius, span+f.svc.pathCfg.WindowMargin)
	if err := w.ConfigureActiveLevel(source, radius); err != nil {
		return buf[:0], NotFound, err
	}
	if err := w.ConfigureHeuristicWeight(f.svc.pathCfg.HeuristicWeight); err != nil {
		return buf[:0], NotFound, err
	}
	if err := f.svc.bindProfiles(w, f.factors, source.Z); err != nil {
		return buf[:0], NotFound, err
	}
	if err := w.ConfigureFinished(); err != nil {
		return buf[:0], NotFound, err
	}

	path, res, err := w.FindPath(source, f.target, f.targetDistance, buf, limit)
	f.nodes = w.NodesEvaluated()
	if IsDebugEnabled(PathSearches) {
		slog.Debug("path search",
			"source", source,
			"target", f.target,
			"modes", len(w.Modes()),
			"result", res,
			"steps", len(path),
			"nodes", f.nodes)
	}
	return path, res, err
}

// NodesEvaluated returns the nodes visited by the last search.
func (f *PathFinder) NodesEvaluated() int {
	return f.nodes
}

// TimeElapsed returns the duration of the last search.
func (f *PathFinder) TimeElapsed() time.Duration {
	return f.elapsed
}

// Close returns the worker to the pool. Further searches fail.
func (f *PathFinder) Close() {
	if f.worker == nil {
		return
	}
	f.svc.paths.Return(f.worker)
	f.worker = nil
}

// GoalFinderBuilder configures a GoalFinder.
type GoalFinderBuilder struct {
	svc     *Service
	factors movement.Factors
	keys    []string
	sources []goals.TargetSource
	filters []goals.Filter
	radius  int32
}

// WithGoal adds the goals registered under key.
func (b *GoalFinderBuilder) WithGoal(key string) *GoalFinderBuilder {
	b.keys = append(b.keys, key)
	return b
}

// WithGoalSource adds an explicit goal source.
func (b *GoalFinderBuilder) WithGoalSource(src goals.TargetSource) *GoalFinderBuilder {
	b.sources = append(b.sources, src)
	return b
}

// WithFilter appends a goal filter; filters run in the order added.
func (b *GoalFinderBuilder) WithFilter(f goals.Filter) *GoalFinderBuilder {
	b.filters = append(b.filters, f)
	return b
}

// WithSearchRadius sets the goal collection and field radius.
func (b *GoalFinderBuilder) WithSearchRadius(r int32) *GoalFinderBuilder {
	b.radius = r
	return b
}

// Build resolves goal keys and checks a worker out of the pool.
func (b *GoalFinderBuilder) Build() (*GoalFinder, error) {
	sources := make([]goals.TargetSource, 0, len(b.keys)+len(b.sources))
	for _, key := range b.keys {
		src, err := b.svc.goals.Source(key)
		if err != nil {
			return nil, fmt.Errorf("build goal finder: %w", err)
		}
		sources = append(sources, src)
	}
	sources = append(sources, b.sources...)

	filter := goals.PassThrough
	if len(b.filters) > 0 {
		filter = goals.Chain(b.filters...)
	}
	return &GoalFinder{
		svc:     b.svc,
		worker:  b.svc.goalPool.Get(),
		factors: b.factors,
		source:  goals.Aggregate(sources...),
		filter:  filter,
		radius:  max(b.radius, 1),
	}, nil
}

// GoalFinder leads an agent towards the best goal around it.
type GoalFinder struct {
	svc     *Service
	worker  *GoalWorker
	factors movement.Factors
	source  goals.TargetSource
	filter  goals.Filter
	radius  int32
	set     goals.Set

	nodes   int
	elapsed time.Duration
}

// TryFindPath collects goals around source, computes their field and
// writes the path towards the best one into buf[:0]. limit <= 0 uses the
// configured search limit.
func (f *GoalFinder) TryFindPath(source geo.Position, buf []Step, limit int) ([]Step, Result, error) {
	start := time.Now()
	defer func() { f.elapsed = time.Since(start) }()
	f.nodes = 0

	if f.worker == nil {
		return buf[:0], NotFound, fmt.Errorf("goal finder closed: %w", ErrNotConfigured)
	}
	if !source.Valid() {
		return buf[:0], NotFound, fmt.Errorf("try find goal path source %s: %w", source, ErrInvalidPosition)
	}
	if limit <= 0 {
		limit = f.svc.goalCfg.SearchLimit
	}

	w := f.worker
	w.Reset()
	if err := w.ConfigureActiveLevel(source, f.radius); err != nil {
		return buf[:0], NotFound, err
	}
	if err := f.svc.bindProfiles(w, f.factors, source.Z); err != nil {
		return buf[:0], NotFound, err
	}
	if err := w.ConfigureFinished(); err != nil {
		return buf[:0], NotFound, err
	}

	f.set.Clear()
	f.source.CollectGoals(source, f.radius, geo.Chebyshev, &f.set)
	f.filter.FilterGoals(source, &f.set)
	for _, r := range f.set.Records() {
		if _, err := w.AddGoal(r); err != nil {
			return buf[:0], NotFound, err
		}
	}

	path, res, err := w.PerformSearch(source, buf, limit)
	f.nodes = w.NodesEvaluated()
	if IsDebugEnabled(GoalSearches) {
		slog.Debug("goal search",
			"source", source,
			"goals", w.Goals(),
			"result", res,
			"steps", len(path),
			"nodes", f.nodes,
			"truncated", w.Truncated())
	}
	return path, res, err
}

// GoalStrengthAt returns the field value at p from the last search.
func (f *GoalFinder) GoalStrengthAt(p geo.Position) (float32, bool) {
	if f.worker == nil {
		return 0, false
	}
	return f.worker.GoalStrengthAt(p)
}

// NodesEvaluated returns the nodes visited by the last search.
func (f *GoalFinder) NodesEvaluated() int {
	return f.nodes
}

// TimeElapsed returns the duration of the last search.
func (f *GoalFinder) TimeElapsed() time.Duration {
	return f.elapsed
}

// Close returns the worker to the pool. Further searches fail.
func (f *GoalFinder) Close() {
	if f.worker == nil {
		return
	}
	f.svc.goalPool.Return(f.worker)
	f.worker = nil
}
