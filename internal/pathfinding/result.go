// Package pathfinding runs movement-aware searches over terrain data.
//
// A PathWorker finds a route to one target with A*. A GoalWorker computes a
// goal field with Dijkstra, seeded by weighted goals, and walks it uphill.
// Workers are pooled; Service hands out configured finders built from an
// agent's movement factors.
package pathfinding

import (
	"errors"

	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/movement"
)

var (
	// ErrInvalidPosition is returned for sentinel or otherwise unusable positions.
	ErrInvalidPosition = errors.New("invalid position")
	// ErrLevelMismatch is returned when positions of one request lie on different levels.
	ErrLevelMismatch = errors.New("positions on different levels")
	// ErrNilView is returned when a movement profile is bound without data.
	ErrNilView = errors.New("nil data view")
	// ErrNotConfigured is returned when a worker is used out of order.
	ErrNotConfigured = errors.New("worker not configured")
)

// Result is the outcome of a search that ran.
type Result uint8

const (
	NotFound Result = iota
	Found
	Arrived // already within the target distance, nothing to do
)

func (r Result) String() string {
	switch r {
	case NotFound:
		return "not_found"
	case Found:
		return "found"
	case Arrived:
		return "arrived"
	default:
		return "unknown"
	}
}

// Step is one move of a path: the cell entered, the direction moved and the
// mode used. Value is the accumulated cost for target paths and the
// remaining goal value for goal paths.
type Step struct {
	Position  geo.Position
	Direction geo.Direction
	Mode      movement.Mode
	Value     float32
}
