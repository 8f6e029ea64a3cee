package pathfinding

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/movement"
	"github.com/udisondev/gridnav/internal/search"
	"github.com/udisondev/gridnav/internal/terrain"
)

// roadLegend adds '=', a road at half the walking cost.
func roadLegend() terrain.Legend {
	l := terrain.DefaultLegend()
	l['='] = terrain.Tile{Costs: map[movement.Mode]movement.Cost{
		movement.Walking:  movement.CostFromFactor(0.5),
		movement.Flying:   movement.Normal,
		movement.Ethereal: movement.Normal,
	}}
	return l
}

func randomTerrain(rng *rand.Rand, size int, symbols string) []string {
	rows := make([]string, size)
	for y := range rows {
		b := make([]byte, size)
		for x := range b {
			b[x] = symbols[rng.IntN(len(symbols))]
		}
		rows[y] = string(b)
	}
	rows = withCell(rows, 0, 0, '.')
	return withCell(rows, size-1, size-1, '.')
}

// uninformedCost runs the worker's bound rules without a heuristic.
func uninformedCost(w *PathWorker, source, target geo.Position) (float32, bool) {
	var k search.AStar[movement.Mode]
	k.Configure(w.window)
	t := w.local(target)
	end, ok := k.Search(w.local(source), func(p geo.Point) bool { return p == t }, pathRules{w},
		func(geo.Point) float32 { return 0 }, 0)
	if !ok {
		return 0, false
	}
	return k.Cost(end)
}

func TestPathOptimalOnCheapTerrain(t *testing.T) {
	tests := []struct {
		name    string
		symbols string
		factors movement.Factors
	}{
		{
			name:    "walking on roads",
			symbols: "....===,,#",
			factors: walker,
		},
		{
			name:    "walking and cheap swimming",
			symbols: "...==,~~~#",
			factors: movement.NewFactors(
				movement.ModeCost{Mode: movement.Walking, Cost: movement.Normal},
				movement.ModeCost{Mode: movement.Swimming, Cost: movement.CostFromFactor(0.4)},
			),
		},
		{
			name:    "ethereal through walls",
			symbols: "..==,#",
			factors: movement.NewFactors(
				movement.ModeCost{Mode: movement.Walking, Cost: movement.Normal},
				movement.ModeCost{Mode: movement.Ethereal, Cost: movement.CostFromFactor(2)},
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(3, 5))
			source, target := geo.Pos(0, 0, 0), geo.Pos(11, 11, 0)
			for round := range 300 {
				m, _, err := terrain.ParseASCII(0, randomTerrain(rng, 12, tt.symbols), roadLegend())
				require.NoError(t, err)

				w := NewPathWorker()
				bind(t, w, m, source, 12, tt.factors)
				path, res, err := w.FindPath(source, target, 0, nil, 0)
				require.NoError(t, err)

				want, reachable := uninformedCost(w, source, target)
				if !reachable {
					assert.Equal(t, NotFound, res, "round %d", round)
					continue
				}
				require.Equal(t, Found, res, "round %d", round)
				assert.InDelta(t, want, path[len(path)-1].Value, 1e-3, "round %d", round)

				svc := newService(t, m, nil, nil)
				f, err := svc.PathFinder(tt.factors).WithTarget(target).Build()
				require.NoError(t, err)
				path, res, err = f.TryFindPath(source, nil, 0)
				f.Close()
				require.NoError(t, err)
				require.Equal(t, Found, res, "round %d", round)
				assert.InDelta(t, want, path[len(path)-1].Value, 1e-3, "service round %d", round)
			}
		})
	}
}

func TestPathTileFloorDefaultsToCheapestCost(t *testing.T) {
	m, _, err := terrain.ParseASCII(0, []string{"=========="}, roadLegend())
	require.NoError(t, err)

	w := NewPathWorker()
	require.NoError(t, configureWithoutFloor(w, m, geo.Pos(0, 0, 0), 10))
	path, res, err := w.FindPath(geo.Pos(0, 0, 0), geo.Pos(9, 0, 0), 0, nil, 0)
	require.NoError(t, err)
	require.Equal(t, Found, res)
	assert.InDelta(t, 4.5, path[len(path)-1].Value, 1e-4)
}

// configureWithoutFloor binds walking from m without declaring a tile floor.
func configureWithoutFloor(w *PathWorker, m *terrain.Map, origin geo.Position, radius int32) error {
	if err := w.ConfigureActiveLevel(origin, radius); err != nil {
		return err
	}
	costs, _ := m.CostView(movement.Walking)
	in3, out3, _ := m.DirectionViews(movement.Walking)
	cost, _ := costs.TryGetView(origin.Z)
	in, _ := in3.TryGetView(origin.Z)
	out, _ := out3.TryGetView(origin.Z)
	if err := w.ConfigureMovementProfile(movement.Walking, movement.Normal, geo.Chebyshev, cost, in, out); err != nil {
		return err
	}
	return w.ConfigureFinished()
}
