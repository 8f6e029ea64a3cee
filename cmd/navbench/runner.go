package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/gridnav/internal/config"
	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/goals"
	"github.com/udisondev/gridnav/internal/movement"
	"github.com/udisondev/gridnav/internal/pathfinding"
)

// Report is the outcome of one agent's search.
type Report struct {
	Agent   string
	Kind    string // "path" or "goal"
	Result  pathfinding.Result
	Steps   int
	End     geo.Position
	Modes   []string // registered names of the modes used, in order of first use
	Value   float32 // accumulated cost for paths, remaining strength for goals
	Nodes   int
	Elapsed time.Duration
}

// Runner executes a compiled scenario's agents against one service.
type Runner struct {
	svc     *pathfinding.Service
	world   *World
	workers int
}

// NewRunner wires the world's map and markers into a pathfinding service.
func NewRunner(world *World, cfg config.Navigator) *Runner {
	registry := goals.NewRegistry()
	for _, key := range world.GoalSet {
		registry.Register(key, world.Index.Source(key))
	}
	return &Runner{
		svc:     pathfinding.NewService(world.Map, world.Modes, registry, cfg),
		world:   world,
		workers: cfg.Workers,
	}
}

// Run searches for every agent with at most cfg.Workers searches in flight.
// Reports keep the agents' order.
func (r *Runner) Run(ctx context.Context, agents []Agent) ([]Report, error) {
	reports := make([]Report, len(agents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, a := range agents {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep, err := r.runAgent(a)
			if err != nil {
				return fmt.Errorf("agent %q: %w", a.Name, err)
			}
			reports[i] = rep
			slog.Info("search finished",
				"agent", rep.Agent,
				"kind", rep.Kind,
				"result", rep.Result,
				"steps", rep.Steps,
				"end", rep.End,
				"modes", rep.Modes,
				"value", rep.Value,
				"nodes", rep.Nodes,
				"elapsed", rep.Elapsed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paths, goalWorkers := r.svc.PoolStats()
	slog.Info("worker pools",
		"path_created", paths.Created, "path_reused", paths.Reused,
		"goal_created", goalWorkers.Created, "goal_reused", goalWorkers.Reused)
	return reports, nil
}

func (r *Runner) runAgent(a Agent) (Report, error) {
	factors, err := a.Factors(r.world.Modes)
	if err != nil {
		return Report{}, err
	}

	buf := r.svc.Buffers().Get()
	defer func() { r.svc.Buffers().Put(buf) }()

	rep := Report{Agent: a.Name, End: a.At.Position()}
	var (
		path    []pathfinding.Step
		nodes   int
		elapsed time.Duration
	)
	if a.Target != nil {
		rep.Kind = "path"
		b := r.svc.PathFinder(factors).
			WithTarget(a.Target.Position()).
			WithTargetDistance(a.TargetDistance)
		if a.Radius > 0 {
			b = b.WithSearchRadius(a.Radius)
		}
		f, err := b.Build()
		if err != nil {
			return rep, err
		}
		defer f.Close()
		path, rep.Result, err = f.TryFindPath(a.At.Position(), buf, 0)
		if err != nil {
			return rep, err
		}
		nodes, elapsed = f.NodesEvaluated(), f.TimeElapsed()
	} else {
		rep.Kind = "goal"
		b := r.svc.GoalFinder(factors).WithFilter(a.filter())
		if a.Radius > 0 {
			b = b.WithSearchRadius(a.Radius)
		}
		for _, key := range a.Goals {
			b = b.WithGoal(key)
		}
		f, err := b.Build()
		if err != nil {
			return rep, err
		}
		defer f.Close()
		path, rep.Result, err = f.TryFindPath(a.At.Position(), buf, 0)
		if err != nil {
			return rep, err
		}
		nodes, elapsed = f.NodesEvaluated(), f.TimeElapsed()
		if v, ok := f.GoalStrengthAt(a.At.Position()); ok {
			rep.Value = v
		}
	}
	buf = path

	rep.Steps, rep.Nodes, rep.Elapsed = len(path), nodes, elapsed
	rep.Modes = r.modeNames(path)
	if n := len(path); n > 0 {
		rep.End = path[n-1].Position
		if rep.Kind == "path" {
			rep.Value = path[n-1].Value
		}
	}
	return rep, nil
}

func (r *Runner) modeNames(path []pathfinding.Step) []string {
	var (
		names []string
		seen  [movement.MaxModes]bool
	)
	for _, st := range path {
		if int(st.Mode) >= movement.MaxModes || seen[st.Mode] {
			continue
		}
		seen[st.Mode] = true
		names = append(names, r.world.Modes.Name(st.Mode))
	}
	return names
}

func (a Agent) filter() goals.Filter {
	var filters []goals.Filter
	if a.MinStrength > 0 {
		filters = append(filters, goals.MinStrength(a.MinStrength))
	}
	if len(a.Exclude) > 0 {
		ex := goals.NewExcludeFilter()
		for _, p := range a.Exclude {
			ex.Exclude(p.Position())
		}
		filters = append(filters, ex)
	}
	return goals.Chain(filters...)
}
