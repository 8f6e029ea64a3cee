package terrain

import (
	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/grid"
	"github.com/udisondev/gridnav/internal/movement"
)

// Map holds the per-mode views consumed by the path and goal finders.
// It is immutable once built and safe for concurrent readers.
//
// Cost views hold the tile cost factor: 0 means no data, +Inf means
// blocked. Direction views hold, per cell, the directions a mode may leave
// (outbound) or enter (inbound) the cell in.
type Map struct {
	costs    [movement.MaxModes]*grid.Grid[float32]
	inbound  [movement.MaxModes]*grid.Grid[geo.Directionality]
	outbound [movement.MaxModes]*grid.Grid[geo.Directionality]
	floors   [movement.MaxModes]map[int32]float32
	modes    []movement.Mode
}

// CostView returns the tile cost view of mode.
func (m *Map) CostView(mode movement.Mode) (grid.View3D[float32], bool) {
	if int(mode) >= movement.MaxModes || m.costs[mode] == nil {
		return nil, false
	}
	return m.costs[mode], true
}

// DirectionViews returns the inbound and outbound direction views of mode.
func (m *Map) DirectionViews(mode movement.Mode) (in, out grid.View3D[geo.Directionality], ok bool) {
	if int(mode) >= movement.MaxModes || m.inbound[mode] == nil || m.outbound[mode] == nil {
		return nil, nil, false
	}
	return m.inbound[mode], m.outbound[mode], true
}

// MinTileCost returns the cheapest passable tile factor of mode on level z.
// ok is false when the level has no passable cell for mode.
func (m *Map) MinTileCost(mode movement.Mode, z int32) (float32, bool) {
	if int(mode) >= movement.MaxModes {
		return 0, false
	}
	f, ok := m.floors[mode][z]
	return f, ok
}

// Modes returns the modes with data, in handle order.
func (m *Map) Modes() []movement.Mode {
	return m.modes
}

// TileCost returns the cost factor of mode at p (0 when absent).
func (m *Map) TileCost(mode movement.Mode, p geo.Position) float32 {
	if int(mode) >= movement.MaxModes || m.costs[mode] == nil {
		return 0
	}
	return m.costs[mode].Get(p, 0)
}

// Outbound returns the outbound directions of mode at p.
func (m *Map) Outbound(mode movement.Mode, p geo.Position) geo.Directionality {
	if int(mode) >= movement.MaxModes || m.outbound[mode] == nil {
		return geo.DirNone
	}
	return m.outbound[mode].Get(p, geo.DirNone)
}

// Inbound returns the inbound directions of mode at p.
func (m *Map) Inbound(mode movement.Mode, p geo.Position) geo.Directionality {
	if int(mode) >= movement.MaxModes || m.inbound[mode] == nil {
		return geo.DirNone
	}
	return m.inbound[mode].Get(p, geo.DirNone)
}
