package grid

import "github.com/udisondev/gridnav/internal/geo"

// Chunk dimensions.
const (
	ChunkShift = 4
	ChunkSize  = 1 << ChunkShift // 16
	ChunkMask  = ChunkSize - 1
	ChunkCells = ChunkSize * ChunkSize // 256
)

// Chunk holds ChunkSize×ChunkSize cells.
//
// A new chunk is uniform: every cell shares one value and no per-cell
// storage exists. The first write of a different value densifies it.
type Chunk[T comparable] struct {
	fill  T
	cells []T // nil while uniform
}

// NewUniformChunk returns a chunk where every cell holds v.
func NewUniformChunk[T comparable](v T) *Chunk[T] {
	return &Chunk[T]{fill: v}
}

// IsUniform reports whether the chunk still has no per-cell storage.
func (c *Chunk[T]) IsUniform() bool {
	return c.cells == nil
}

// Get returns the value at local cell (cx, cy), both in [0, ChunkSize).
func (c *Chunk[T]) Get(cx, cy int32) T {
	if c.cells == nil {
		return c.fill
	}
	return c.cells[cy<<ChunkShift|cx]
}

// Set writes the value at local cell (cx, cy).
func (c *Chunk[T]) Set(cx, cy int32, v T) {
	if c.cells == nil {
		if v == c.fill {
			return
		}
		c.cells = make([]T, ChunkCells)
		for i := range c.cells {
			c.cells[i] = c.fill
		}
	}
	c.cells[cy<<ChunkShift|cx] = v
}

type chunkKey struct {
	cx, cy int32
}

// chunkOf splits a cell coordinate into chunk key and local cell.
// Arithmetic shift floors negative coordinates.
func chunkOf(x, y int32) (chunkKey, int32, int32) {
	return chunkKey{cx: x >> ChunkShift, cy: y >> ChunkShift}, x & ChunkMask, y & ChunkMask
}

func (k chunkKey) rect() geo.Rect {
	minX, minY := k.cx<<ChunkShift, k.cy<<ChunkShift
	return geo.Rect{MinX: minX, MinY: minY, MaxX: minX + ChunkMask, MaxY: minY + ChunkMask}
}
