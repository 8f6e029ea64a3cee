package pathfinding

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/goals"
)

func TestEnableDebugLogging(t *testing.T) {
	t.Cleanup(func() { EnableDebugLogging(NoSearches) })

	tests := []struct {
		name      string
		kinds     SearchKind
		wantPaths bool
		wantGoals bool
	}{
		{"paths only", PathSearches, true, false},
		{"goals only", GoalSearches, false, true},
		{"all", AllSearches, true, true},
		{"none", NoSearches, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			EnableDebugLogging(tt.kinds)
			assert.Equal(t, tt.wantPaths, IsDebugEnabled(PathSearches))
			assert.Equal(t, tt.wantGoals, IsDebugEnabled(GoalSearches))
		})
	}
}

func TestParseSearchKinds(t *testing.T) {
	tests := []struct {
		names   []string
		want    SearchKind
		wantErr bool
	}{
		{nil, AllSearches, false},
		{[]string{"path"}, PathSearches, false},
		{[]string{"goal"}, GoalSearches, false},
		{[]string{"goal", "path"}, AllSearches, false},
		{[]string{"all"}, AllSearches, false},
		{[]string{"path", "route"}, NoSearches, true},
	}
	for _, tt := range tests {
		got, err := ParseSearchKinds(tt.names)
		if tt.wantErr {
			assert.Error(t, err, "%v", tt.names)
			continue
		}
		require.NoError(t, err, "%v", tt.names)
		assert.Equal(t, tt.want, got, "%v", tt.names)
	}
}

func TestDebugSearchLogsPerKind(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	EnableDebugLogging(GoalSearches)
	t.Cleanup(func() {
		EnableDebugLogging(NoSearches)
		slog.SetDefault(prev)
	})

	svc := newService(t, parseMap(t, room(4, 4)), nil, nil)

	pf, err := svc.PathFinder(walker).WithTarget(geo.Pos(3, 3, 0)).Build()
	require.NoError(t, err)
	_, res, err := pf.TryFindPath(geo.Pos(0, 0, 0), nil, 0)
	pf.Close()
	require.NoError(t, err)
	assert.Equal(t, Found, res)

	gf, err := svc.GoalFinder(walker).
		WithGoalSource(goals.Static(goals.Record{Position: geo.Pos(3, 3, 0), Strength: 10})).
		Build()
	require.NoError(t, err)
	_, res, err = gf.TryFindPath(geo.Pos(0, 0, 0), nil, 0)
	gf.Close()
	require.NoError(t, err)
	assert.Equal(t, Found, res)

	assert.Contains(t, logs.String(), `msg="goal search"`)
	assert.NotContains(t, logs.String(), `msg="path search"`)
}
