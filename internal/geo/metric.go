package geo

import (
	"fmt"
	"math"
)

// DistanceMetric measures distance on the grid for one movement style.
type DistanceMetric uint8

const (
	// Chebyshev: diagonal steps cost the same as cardinal ones.
	Chebyshev DistanceMetric = iota
	// Manhattan: a diagonal step costs two cardinal steps.
	Manhattan
	// Euclidean: straight-line distance, diagonal step costs sqrt(2).
	Euclidean
	// Octile: like Euclidean per step, exact on an 8-connected grid.
	Octile
)

const sqrt2 = float32(math.Sqrt2)

// Distance returns the distance between a and b.
func (m DistanceMetric) Distance(a, b Point) float32 {
	dx := float32(abs32(a.X - b.X))
	dy := float32(abs32(a.Y - b.Y))
	switch m {
	case Manhattan:
		return dx + dy
	case Euclidean:
		return float32(math.Sqrt(float64(dx*dx + dy*dy)))
	case Octile:
		lo, hi := min(dx, dy), max(dx, dy)
		return hi + (sqrt2-1)*lo
	default:
		return max(dx, dy)
	}
}

// Step returns the length of a single step in direction d.
func (m DistanceMetric) Step(d Direction) float32 {
	if !d.IsDiagonal() {
		return 1
	}
	switch m {
	case Manhattan:
		return 2
	case Euclidean, Octile:
		return sqrt2
	default:
		return 1
	}
}

func (m DistanceMetric) String() string {
	switch m {
	case Chebyshev:
		return "chebyshev"
	case Manhattan:
		return "manhattan"
	case Euclidean:
		return "euclidean"
	case Octile:
		return "octile"
	default:
		return fmt.Sprintf("metric(%d)", uint8(m))
	}
}

// ParseMetric resolves a metric by name.
func ParseMetric(name string) (DistanceMetric, error) {
	switch name {
	case "chebyshev", "":
		return Chebyshev, nil
	case "manhattan":
		return Manhattan, nil
	case "euclidean":
		return Euclidean, nil
	case "octile":
		return Octile, nil
	default:
		return 0, fmt.Errorf("unknown distance metric %q", name)
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
