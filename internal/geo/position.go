package geo

import (
	"fmt"
	"math"
)

// Position is a grid cell on an explicit z level.
type Position struct {
	X, Y, Z int32
}

// Invalid is the sentinel for "no position".
var Invalid = Position{X: math.MinInt32, Y: math.MinInt32, Z: math.MinInt32}

// Pos is shorthand for Position{x, y, z}.
func Pos(x, y, z int32) Position {
	return Position{X: x, Y: y, Z: z}
}

// Valid returns false for the Invalid sentinel.
func (p Position) Valid() bool {
	return p != Invalid
}

// Point projects the position onto its level.
func (p Position) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

// SameLevel reports whether both positions lie on the same z level.
func (p Position) SameLevel(o Position) bool {
	return p.Z == o.Z
}

// Add returns the neighbouring cell in direction d.
func (p Position) Add(d Direction) Position {
	off := d.Offset()
	return Position{X: p.X + off.X, Y: p.Y + off.Y, Z: p.Z}
}

// Translate moves the position by a plane offset.
func (p Position) Translate(off Point) Position {
	return Position{X: p.X + off.X, Y: p.Y + off.Y, Z: p.Z}
}

// Local returns p relative to origin (origin maps to (0,0)).
func (p Position) Local(origin Position) Point {
	return Point{X: p.X - origin.X, Y: p.Y - origin.Y}
}

func (p Position) String() string {
	if !p.Valid() {
		return "(invalid)"
	}
	return fmt.Sprintf("(%d,%d@%d)", p.X, p.Y, p.Z)
}

// Point is a plane coordinate, absolute or origin-relative.
type Point struct {
	X, Y int32
}

// Add returns the neighbouring point in direction d.
func (p Point) Add(d Direction) Point {
	off := d.Offset()
	return Point{X: p.X + off.X, Y: p.Y + off.Y}
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// At lifts the point back to a position on level z.
func (p Point) At(z int32) Position {
	return Position{X: p.X, Y: p.Y, Z: z}
}

// Rect is an inclusive rectangle of cells.
type Rect struct {
	MinX, MinY, MaxX, MaxY int32
}

// RectAround returns the square of cells within Chebyshev radius of center.
func RectAround(center Point, radius int32) Rect {
	if radius < 0 {
		radius = 0
	}
	return Rect{
		MinX: center.X - radius,
		MinY: center.Y - radius,
		MaxX: center.X + radius,
		MaxY: center.Y + radius,
	}
}

// RectOf returns the smallest rectangle containing all points.
func RectOf(first Point, rest ...Point) Rect {
	r := Rect{MinX: first.X, MinY: first.Y, MaxX: first.X, MaxY: first.Y}
	for _, p := range rest {
		r = r.Include(p)
	}
	return r
}

// Empty reports whether the rectangle contains no cells.
func (r Rect) Empty() bool {
	return r.MaxX < r.MinX || r.MaxY < r.MinY
}

// Width returns the number of columns.
func (r Rect) Width() int32 {
	if r.Empty() {
		return 0
	}
	return r.MaxX - r.MinX + 1
}

// Height returns the number of rows.
func (r Rect) Height() int32 {
	if r.Empty() {
		return 0
	}
	return r.MaxY - r.MinY + 1
}

// Area returns the number of cells.
func (r Rect) Area() int {
	return int(r.Width()) * int(r.Height())
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Expand grows r by n cells on every side.
func (r Rect) Expand(n int32) Rect {
	return Rect{MinX: r.MinX - n, MinY: r.MinY - n, MaxX: r.MaxX + n, MaxY: r.MaxY + n}
}

// Include grows r to contain p.
func (r Rect) Include(p Point) Rect {
	return Rect{
		MinX: min(r.MinX, p.X),
		MinY: min(r.MinY, p.Y),
		MaxX: max(r.MaxX, p.X),
		MaxY: max(r.MaxY, p.Y),
	}
}

// Union returns the smallest rectangle containing both.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		MinX: min(r.MinX, o.MinX),
		MinY: min(r.MinY, o.MinY),
		MaxX: max(r.MaxX, o.MaxX),
		MaxY: max(r.MaxY, o.MaxY),
	}
}
