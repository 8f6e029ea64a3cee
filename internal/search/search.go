// Package search holds the grid search kernels shared by the path and goal
// finders: an A* kernel for a single target and a multi-source Dijkstra
// kernel that builds a value field around a set of seeds.
//
// Both kernels work in local coordinates inside a bounded window and know
// nothing about movement modes. Edge legality and cost come from a Rules
// implementation; M is whatever tag the rules attach to an edge.
package search

import "github.com/udisondev/gridnav/internal/geo"

// Rules supplies neighbourhood and edge costs to a kernel.
type Rules[M any] interface {
	// Candidates returns the directions worth trying from p.
	Candidates(p geo.Point) geo.Directionality
	// Edge evaluates the step from -> to (to = from.Add(d)). acc is the
	// kernel's accumulated value at from. ok=false means the edge does not
	// exist.
	Edge(from, to geo.Point, d geo.Direction, acc float32) (float32, M, bool)
}

// Heuristic estimates the remaining cost from p.
type Heuristic func(p geo.Point) float32

// Step is one move of a reconstructed path.
type Step[M any] struct {
	Point geo.Point     // cell entered
	Dir   geo.Direction // direction moved to enter Point
	Tag   M             // tag of the edge taken
	Value float32       // accumulated cost (A*) or remaining value (Dijkstra) at Point
}

type nodeState uint8

const (
	unseen nodeState = iota
	open
	closed
)

func reverse[M any](steps []Step[M]) {
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
}
