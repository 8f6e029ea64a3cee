package grid

import "github.com/udisondev/gridnav/internal/geo"

// BoundedArray is a dense window over a rectangle of plane coordinates.
// It is repositioned with Resize and keeps its backing storage between
// uses.
type BoundedArray[T any] struct {
	bounds geo.Rect
	width  int32
	data   []T
}

// NewBoundedArray allocates a window over bounds.
func NewBoundedArray[T any](bounds geo.Rect) *BoundedArray[T] {
	a := &BoundedArray[T]{}
	a.Resize(bounds)
	return a
}

// Resize repositions the window and zeroes every cell.
func (a *BoundedArray[T]) Resize(bounds geo.Rect) {
	n := bounds.Area()
	if cap(a.data) < n {
		a.data = make([]T, n)
	} else {
		a.data = a.data[:n]
		clear(a.data)
	}
	a.bounds = bounds
	a.width = bounds.Width()
}

// Reset empties the window but keeps its capacity.
func (a *BoundedArray[T]) Reset() {
	clear(a.data)
	a.data = a.data[:0]
	a.bounds = geo.Rect{MinX: 0, MinY: 0, MaxX: -1, MaxY: -1}
	a.width = 0
}

// Bounds returns the covered rectangle.
func (a *BoundedArray[T]) Bounds() geo.Rect {
	return a.bounds
}

// Len returns the number of cells.
func (a *BoundedArray[T]) Len() int {
	return len(a.data)
}

// Contains reports whether p lies inside the window.
func (a *BoundedArray[T]) Contains(p geo.Point) bool {
	return len(a.data) > 0 && a.bounds.Contains(p)
}

// Index returns the dense index of p.
func (a *BoundedArray[T]) Index(p geo.Point) (int, bool) {
	if !a.Contains(p) {
		return -1, false
	}
	return int(p.Y-a.bounds.MinY)*int(a.width) + int(p.X-a.bounds.MinX), true
}

// PointAt is the inverse of Index.
func (a *BoundedArray[T]) PointAt(idx int) geo.Point {
	w := int(a.width)
	return geo.Point{X: a.bounds.MinX + int32(idx%w), Y: a.bounds.MinY + int32(idx/w)}
}

// At returns a pointer to the cell at a dense index.
func (a *BoundedArray[T]) At(idx int) *T {
	return &a.data[idx]
}

// Get returns the value at p, zero outside the window.
func (a *BoundedArray[T]) Get(p geo.Point) T {
	var zero T
	v, _ := a.TryGet(p, zero)
	return v
}

// TryGet returns the value at p or def when p lies outside the window.
func (a *BoundedArray[T]) TryGet(p geo.Point, def T) (T, bool) {
	idx, ok := a.Index(p)
	if !ok {
		return def, false
	}
	return a.data[idx], true
}

// Set writes p. Writes outside the window are dropped.
func (a *BoundedArray[T]) Set(p geo.Point, v T) bool {
	idx, ok := a.Index(p)
	if !ok {
		return false
	}
	a.data[idx] = v
	return true
}

// Clear writes v into every cell.
func (a *BoundedArray[T]) Clear(v T) {
	for i := range a.data {
		a.data[i] = v
	}
}
