package pathfinding

import (
	"fmt"
	"math"

	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/grid"
	"github.com/udisondev/gridnav/internal/movement"
)

// MovementDataProvider exposes read-only per-mode terrain views. Views must
// not change while a search runs.
type MovementDataProvider interface {
	CostView(mode movement.Mode) (grid.View3D[float32], bool)
	DirectionViews(mode movement.Mode) (in, out grid.View3D[geo.Directionality], ok bool)
}

// TileFloorProvider is implemented by providers that know the cheapest
// passable tile factor of a mode on a level. Without it the path heuristic
// falls back to the smallest factor a Cost can encode.
type TileFloorProvider interface {
	MinTileCost(mode movement.Mode, z int32) (float32, bool)
}

// minTileFactor is the cheapest passable factor a Cost can encode.
var minTileFactor = movement.Cost(1).Factor()

// profile is one movement mode bound to the active level.
type profile struct {
	mode   movement.Mode
	base   float32
	floor  float32 // lower bound of tile factors in the window
	metric geo.DistanceMetric

	cost    grid.View2D[float32]
	in, out grid.View2D[geo.Directionality]

	costH     grid.TileHandle[float32]
	inH, outH grid.TileHandle[geo.Directionality]
}

func (p *profile) tile(x, y int32) float32 {
	c, _ := p.cost.TryGetMapValue(&p.costH, x, y, 0)
	return c
}

func (p *profile) inbound(x, y int32) geo.Directionality {
	m, _ := p.in.TryGetMapValue(&p.inH, x, y, geo.DirNone)
	return m
}

func (p *profile) outbound(x, y int32) geo.Directionality {
	m, _ := p.out.TryGetMapValue(&p.outH, x, y, geo.DirNone)
	return m
}

// usable rejects missing data (0) and blocked tiles (+Inf).
func usable(tile float32) bool {
	return tile > 0 && !math.IsInf(float64(tile), 1)
}

type workerState uint8

const (
	stateIdle workerState = iota
	stateConfiguring
	stateReady
)

// level is the configuration shared by both workers: the active level, the
// local search window and the bound movement profiles.
type level struct {
	state    workerState
	origin   geo.Position
	window   geo.Rect // local coordinates, origin at (0,0)
	profiles []profile
}

func (l *level) configureActiveLevel(origin geo.Position, radius int32) error {
	if !origin.Valid() {
		return fmt.Errorf("configure active level %s: %w", origin, ErrInvalidPosition)
	}
	l.state = stateConfiguring
	l.origin = origin
	l.window = geo.RectAround(geo.Point{}, max(radius, 0))
	clear(l.profiles)
	l.profiles = l.profiles[:0]
	return nil
}

func (l *level) configureProfile(
	mode movement.Mode,
	base movement.Cost,
	metric geo.DistanceMetric,
	cost grid.View2D[float32],
	in, out grid.View2D[geo.Directionality],
) error {
	if l.state != stateConfiguring {
		return fmt.Errorf("configure movement profile %s: %w", mode, ErrNotConfigured)
	}
	if int(mode) >= movement.MaxModes {
		return fmt.Errorf("configure movement profile: mode %d out of range", mode)
	}
	if cost == nil || in == nil || out == nil {
		return fmt.Errorf("configure movement profile %s: %w", mode, ErrNilView)
	}
	if base.IsBlocked() || base == movement.Free {
		return nil
	}
	p := profile{
		mode:   mode,
		base:   base.Factor(),
		floor:  minTileFactor,
		metric: metric,
		cost:   cost,
		in:     in,
		out:    out,
	}
	for i := range l.profiles {
		if l.profiles[i].mode == mode {
			l.profiles[i] = p
			return nil
		}
	}
	l.profiles = append(l.profiles, p)
	return nil
}

// configureTileFloor tightens the tile factor lower bound of a bound mode.
// Unbound modes are ignored.
func (l *level) configureTileFloor(mode movement.Mode, floor float32) error {
	if l.state != stateConfiguring {
		return fmt.Errorf("configure tile floor %s: %w", mode, ErrNotConfigured)
	}
	if !(floor > 0) || math.IsInf(float64(floor), 1) {
		return fmt.Errorf("configure tile floor %s: factor %v out of range", mode, floor)
	}
	for i := range l.profiles {
		if l.profiles[i].mode == mode {
			l.profiles[i].floor = floor
		}
	}
	return nil
}

func (l *level) configureFinished() error {
	if l.state != stateConfiguring {
		return fmt.Errorf("configure finished: %w", ErrNotConfigured)
	}
	l.state = stateReady
	return nil
}

// check validates a search position against the configured level.
func (l *level) check(p geo.Position) error {
	if l.state != stateReady {
		return ErrNotConfigured
	}
	if !p.Valid() {
		return fmt.Errorf("position %s: %w", p, ErrInvalidPosition)
	}
	if p.Z != l.origin.Z {
		return fmt.Errorf("position %s, active level %d: %w", p, l.origin.Z, ErrLevelMismatch)
	}
	return nil
}

func (l *level) local(p geo.Position) geo.Point {
	return p.Local(l.origin)
}

func (l *level) world(p geo.Point) geo.Position {
	return l.origin.Translate(p)
}

func (l *level) modes() []movement.Mode {
	out := make([]movement.Mode, len(l.profiles))
	for i := range l.profiles {
		out[i] = l.profiles[i].mode
	}
	return out
}

func (l *level) reset() {
	l.state = stateIdle
	l.origin = geo.Invalid
	l.window = geo.Rect{MaxX: -1, MaxY: -1}
	clear(l.profiles)
	l.profiles = l.profiles[:0]
}

// convert maps kernel steps onto buf in world coordinates.
func (l *level) convert(steps []searchStep, buf []Step) []Step {
	buf = buf[:0]
	for _, s := range steps {
		buf = append(buf, Step{
			Position:  l.world(s.Point),
			Direction: s.Dir,
			Mode:      s.Tag,
			Value:     s.Value,
		})
	}
	return buf
}
