package main

import (
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/udisondev/gridnav/internal/config"
	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/movement"
	"github.com/udisondev/gridnav/internal/pathfinding"
)

type ScenarioSuite struct {
	suite.Suite
	scenario *Scenario
	world    *World
	reports  map[string]Report
}

func (s *ScenarioSuite) SetupSuite() {
	var err error
	s.scenario, err = LoadScenario("testdata/scenario.yaml")
	s.Require().NoError(err)
	s.world, err = s.scenario.Compile()
	s.Require().NoError(err)

	cfg := config.DefaultNavigator()
	cfg.Workers = 2
	reports, err := NewRunner(s.world, cfg).Run(context.Background(), s.scenario.Agents)
	s.Require().NoError(err)
	s.Require().Len(reports, len(s.scenario.Agents))

	s.reports = make(map[string]Report, len(reports))
	for i, r := range reports {
		s.Equal(s.scenario.Agents[i].Name, r.Agent, "reports keep agent order")
		s.reports[r.Agent] = r
	}
}

func (s *ScenarioSuite) TestWorldCompiled() {
	s.Equal([]int32{0}, s.world.Levels)
	s.Equal([]string{"herb", "ore"}, s.world.GoalSet)
	s.Equal(1, s.world.Index.Len("ore"))
	s.Equal(1, s.world.Index.Len("herb"))
	// Marker cells draw like floor.
	s.InDelta(1.0, s.world.Map.TileCost(movement.Walking, geo.Pos(7, 1, 0)), 1e-6)
}

func (s *ScenarioSuite) TestPathAroundWall() {
	r := s.reports["walker"]
	s.Equal("path", r.Kind)
	s.Equal(pathfinding.Found, r.Result)
	s.Equal(geo.Pos(7, 1, 0), r.End)
	s.Equal(6, r.Steps)
	s.InDelta(6.0, r.Value, 1e-4)
	s.Positive(r.Nodes)
}

func (s *ScenarioSuite) TestGoalThroughGap() {
	r := s.reports["miner"]
	s.Equal("goal", r.Kind)
	s.Equal(pathfinding.Found, r.Result)
	s.Equal(geo.Pos(7, 1, 0), r.End)
	s.Equal(6, r.Steps)
	s.InDelta(24.0, r.Value, 1e-4)
}

func (s *ScenarioSuite) TestSwimmerLandsOnGoal() {
	r := s.reports["swimmer"]
	s.Equal(pathfinding.Found, r.Result)
	s.Equal(geo.Pos(7, 5, 0), r.End)
	s.Equal(6, r.Steps)
	s.InDelta(14.0, r.Value, 1e-4)
}

func (s *ScenarioSuite) TestEtherealIgnoresWalls() {
	r := s.reports["ghost"]
	s.Equal(pathfinding.Found, r.Result)
	s.Equal(geo.Pos(7, 5, 0), r.End)
	s.Equal(6, r.Steps)
	s.InDelta(2+4*math.Sqrt2, r.Value, 1e-3)
}

func (s *ScenarioSuite) TestReportedModes() {
	s.Equal([]string{"walking"}, s.reports["walker"].Modes)
	s.Equal([]string{"ethereal"}, s.reports["ghost"].Modes)
	s.Nil(s.reports["stuck"].Modes)
}

func (s *ScenarioSuite) TestUnreachableAndExcluded() {
	for _, name := range []string{"stuck", "claimed"} {
		r := s.reports[name]
		s.Equal(pathfinding.NotFound, r.Result, name)
		s.Zero(r.Steps, name)
		s.Equal(geo.Pos(1, 1, 0), r.End, name)
	}
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioSuite))
}

func TestParseScenarioErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no levels", `agents: []`},
		{"duplicate level", "levels: [{z: 0, rows: ['.']}, {z: 0, rows: ['.']}]"},
		{"long symbol", "levels: [{z: 0, rows: ['.']}]\nlegend: [{symbol: 'ab'}]"},
		{"weak marker", "levels: [{z: 0, rows: ['.']}]\nmarkers: [{symbol: 'o', goal: ore}]"},
		{"agent without search", "levels: [{z: 0, rows: ['.']}]\nagents: [{name: a, at: [0, 0, 0], modes: {walking: 1}}]"},
		{"agent with both", "levels: [{z: 0, rows: ['.']}]\nagents: [{name: a, at: [0, 0, 0], target: [0, 0, 0], goals: [x], modes: {walking: 1}}]"},
		{"agent without modes", "levels: [{z: 0, rows: ['.']}]\nagents: [{name: a, at: [0, 0, 0], target: [0, 0, 0]}]"},
		{"negative symbol cost", "levels: [{z: 0, rows: ['.']}]\nlegend: [{symbol: 'x', costs: {walking: -1}}]"},
		{"negative agent factor", "levels: [{z: 0, rows: ['.']}]\nagents: [{name: a, at: [0, 0, 0], target: [0, 0, 0], modes: {walking: -0.5}}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.doc))
			assert.ErrorIs(t, err, errScenario)
		})
	}

	_, err := ParseScenario([]byte("levels: [{z: 0, rows: ['.']}]\nagents: [{name: a, at: [0, 0], target: [0, 0, 0], modes: {walking: 1}}]"))
	assert.ErrorContains(t, err, "want [x, y, z]")
}

func TestCompileCustomModesAndLegend(t *testing.T) {
	s, err := ParseScenario([]byte(`
modes:
  - name: climbing
    metric: manhattan
legend:
  - symbol: "="
    like: "~"
    costs: {walking: 3}
  - symbol: "H"
    costs: {climbing: 1, walking: 0}
levels:
  - z: 2
    rows: ["=H."]
`))
	require.NoError(t, err)
	w, err := s.Compile()
	require.NoError(t, err)

	climbing, ok := w.Modes.Lookup("climbing")
	require.True(t, ok)
	assert.Equal(t, geo.Manhattan, w.Modes.Metric(climbing))

	m := w.Map
	assert.InDelta(t, 3.0, m.TileCost(movement.Walking, geo.Pos(0, 0, 2)), 1e-6)
	assert.InDelta(t, 1.0, m.TileCost(movement.Swimming, geo.Pos(0, 0, 2)), 1e-6)
	assert.True(t, math.IsInf(float64(m.TileCost(movement.Walking, geo.Pos(1, 0, 2))), 1))
	assert.InDelta(t, 1.0, m.TileCost(climbing, geo.Pos(1, 0, 2)), 1e-6)
	assert.Equal(t, movement.Blocked, symbolCost(-2), "negative factors block")
	assert.Equal(t, movement.Blocked, symbolCost(0))
	assert.Equal(t, movement.CostFromFactor(0.5), symbolCost(0.5))

	agent := Agent{Name: "a", Modes: map[string]float32{"climbing": 1, "flying": 2}}
	f, err := agent.Factors(w.Modes)
	require.NoError(t, err)
	assert.True(t, f.Has(climbing))
	assert.True(t, f.Has(movement.Flying))

	_, err = Agent{Name: "b", Modes: map[string]float32{"digging": 1}}.Factors(w.Modes)
	assert.ErrorIs(t, err, errScenario)

	bad, err := ParseScenario([]byte("legend: [{symbol: 'x', like: 'q'}]\nlevels: [{z: 0, rows: ['x']}]"))
	require.NoError(t, err)
	_, err = bad.Compile()
	assert.ErrorIs(t, err, errScenario)
}

func TestRunnerReportsCustomModeNames(t *testing.T) {
	s, err := ParseScenario([]byte(`
modes:
  - name: climbing
    metric: chebyshev
legend:
  - symbol: "H"
    costs: {climbing: 1}
levels:
  - z: 0
    rows: ["..HHH"]
agents:
  - name: climber
    at: [0, 0, 0]
    target: [4, 0, 0]
    modes: {walking: 1, climbing: 1}
`))
	require.NoError(t, err)
	w, err := s.Compile()
	require.NoError(t, err)

	reports, err := NewRunner(w, config.DefaultNavigator()).Run(context.Background(), s.Agents)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	r := reports[0]
	require.Equal(t, pathfinding.Found, r.Result)
	assert.Equal(t, 4, r.Steps)
	assert.Equal(t, []string{"walking", "climbing"}, r.Modes)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
}
