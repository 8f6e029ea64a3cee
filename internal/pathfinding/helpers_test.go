package pathfinding

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/gridnav/internal/config"
	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/goals"
	"github.com/udisondev/gridnav/internal/movement"
	"github.com/udisondev/gridnav/internal/terrain"
)

var (
	walker   = movement.NewFactors(movement.ModeCost{Mode: movement.Walking, Cost: movement.Normal})
	ethereal = movement.NewFactors(movement.ModeCost{Mode: movement.Ethereal, Cost: movement.Normal})
)

func room(w, h int) []string {
	rows := make([]string, h)
	for y := range rows {
		b := make([]byte, w)
		for x := range b {
			b[x] = '.'
		}
		rows[y] = string(b)
	}
	return rows
}

// withColumn returns rows with column x replaced by c.
func withColumn(rows []string, x int, c byte) []string {
	out := make([]string, len(rows))
	for y, r := range rows {
		b := []byte(r)
		b[x] = c
		out[y] = string(b)
	}
	return out
}

func parseMap(t testing.TB, rows []string) *terrain.Map {
	t.Helper()
	m, _, err := terrain.ParseASCII(0, rows, terrain.DefaultLegend())
	require.NoError(t, err)
	return m
}

func newService(t testing.TB, m *terrain.Map, registry *goals.Registry, mutate func(*config.Navigator)) *Service {
	t.Helper()
	cfg := config.DefaultNavigator()
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, cfg.Validate())
	return NewService(m, movement.NewRegistry(), registry, cfg)
}

type configurable interface {
	profileBinder
	ConfigureActiveLevel(geo.Position, int32) error
	ConfigureFinished() error
}

// configure binds factors' modes from m on origin's level.
func configure(w configurable, m *terrain.Map, origin geo.Position, radius int32, factors movement.Factors) error {
	modes := movement.NewRegistry()
	if err := w.ConfigureActiveLevel(origin, radius); err != nil {
		return err
	}
	for _, mc := range factors.Usable() {
		costs, ok := m.CostView(mc.Mode)
		if !ok {
			return fmt.Errorf("no cost view for %s", mc.Mode)
		}
		in3, out3, _ := m.DirectionViews(mc.Mode)
		cost, ok := costs.TryGetView(origin.Z)
		if !ok {
			return fmt.Errorf("no level %d for %s", origin.Z, mc.Mode)
		}
		in, _ := in3.TryGetView(origin.Z)
		out, _ := out3.TryGetView(origin.Z)
		if err := w.ConfigureMovementProfile(mc.Mode, mc.Cost, modes.Metric(mc.Mode), cost, in, out); err != nil {
			return err
		}
		if fb, ok := w.(tileFloorBinder); ok {
			if floor, ok := m.MinTileCost(mc.Mode, origin.Z); ok {
				if err := fb.ConfigureTileFloor(mc.Mode, floor); err != nil {
					return err
				}
			}
		}
	}
	return w.ConfigureFinished()
}

func bind(t *testing.T, w configurable, m *terrain.Map, origin geo.Position, radius int32, factors movement.Factors) {
	t.Helper()
	require.NoError(t, configure(w, m, origin, radius, factors))
}

func modesOf(steps []Step) []movement.Mode {
	out := make([]movement.Mode, len(steps))
	for i, s := range steps {
		out[i] = s.Mode
	}
	return out
}

func directionsOf(steps []Step) []geo.Direction {
	out := make([]geo.Direction, len(steps))
	for i, s := range steps {
		out[i] = s.Direction
	}
	return out
}

func repeat[T any](v T, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = v
	}
	return out
}
