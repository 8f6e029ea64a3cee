package config

import "fmt"

// Pathfinding tunes single-target searches.
type Pathfinding struct {
	SearchLimit     int     `yaml:"search_limit"`     // max visited nodes per search, 0 = window only
	SearchRadius    int32   `yaml:"search_radius"`    // minimum window radius around the source
	WindowMargin    int32   `yaml:"window_margin"`    // extra cells beyond the source-target distance
	HeuristicWeight float32 `yaml:"heuristic_weight"` // >1 trades optimality for speed
	PoolCapacity    int     `yaml:"pool_capacity"`    // idle workers kept per pool
}

// DefaultPathfinding returns Pathfinding with an optimal heuristic.
func DefaultPathfinding() Pathfinding {
	return Pathfinding{
		SearchLimit:     7000,
		SearchRadius:    32,
		WindowMargin:    16,
		HeuristicWeight: 1.0,
		PoolCapacity:    64,
	}
}

// Validate rejects unusable values.
func (p Pathfinding) Validate() error {
	switch {
	case p.SearchLimit < 0:
		return fmt.Errorf("search_limit must not be negative, got %d", p.SearchLimit)
	case p.SearchRadius < 1:
		return fmt.Errorf("search_radius must be positive, got %d", p.SearchRadius)
	case p.WindowMargin < 0:
		return fmt.Errorf("window_margin must not be negative, got %d", p.WindowMargin)
	case p.HeuristicWeight < 1:
		return fmt.Errorf("heuristic_weight must be at least 1, got %v", p.HeuristicWeight)
	case p.PoolCapacity < 0:
		return fmt.Errorf("pool_capacity must not be negative, got %d", p.PoolCapacity)
	}
	return nil
}

// GoalFinder tunes goal field searches.
type GoalFinder struct {
	SearchLimit  int   `yaml:"search_limit"`
	SearchRadius int32 `yaml:"search_radius"` // goal collection and window radius
	PoolCapacity int   `yaml:"pool_capacity"`
}

// DefaultGoalFinder returns GoalFinder defaults.
func DefaultGoalFinder() GoalFinder {
	return GoalFinder{
		SearchLimit:  10000,
		SearchRadius: 24,
		PoolCapacity: 64,
	}
}

// Validate rejects unusable values.
func (g GoalFinder) Validate() error {
	switch {
	case g.SearchLimit < 0:
		return fmt.Errorf("search_limit must not be negative, got %d", g.SearchLimit)
	case g.SearchRadius < 1:
		return fmt.Errorf("search_radius must be positive, got %d", g.SearchRadius)
	case g.PoolCapacity < 0:
		return fmt.Errorf("pool_capacity must not be negative, got %d", g.PoolCapacity)
	}
	return nil
}
