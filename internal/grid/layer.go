package grid

import "github.com/udisondev/gridnav/internal/geo"

// View2D is a read-only plane of values.
type View2D[T comparable] interface {
	// TryGetMapValue returns the value at (x, y), or def and false when the
	// cell has no data. h caches the last touched chunk between calls and may
	// be nil.
	TryGetMapValue(h *TileHandle[T], x, y int32, def T) (T, bool)
	// Get is TryGetMapValue without a handle.
	Get(x, y int32, def T) T
}

// View3D is a read-only stack of planes indexed by z level.
type View3D[T comparable] interface {
	// TryGetView fails when the level has no data.
	TryGetView(level int32) (View2D[T], bool)
}

// TileHandle remembers the chunk touched by the previous lookup so that
// iterating a neighbourhood skips the chunk map.
type TileHandle[T comparable] struct {
	owner *Layer[T]
	key   chunkKey
	chunk *Chunk[T]
}

// Reset forgets the cached chunk.
func (h *TileHandle[T]) Reset() {
	*h = TileHandle[T]{}
}

// Layer is one z level: a sparse map of chunks.
type Layer[T comparable] struct {
	fill   T
	chunks map[chunkKey]*Chunk[T]
	bounds geo.Rect
}

// NewLayer returns an empty layer. Cells of a chunk that were never written
// read as fill.
func NewLayer[T comparable](fill T) *Layer[T] {
	return &Layer[T]{
		fill:   fill,
		chunks: make(map[chunkKey]*Chunk[T]),
		bounds: geo.Rect{MinX: 0, MinY: 0, MaxX: -1, MaxY: -1},
	}
}

// TryGetMapValue implements View2D.
func (l *Layer[T]) TryGetMapValue(h *TileHandle[T], x, y int32, def T) (T, bool) {
	key, cx, cy := chunkOf(x, y)
	if h != nil && h.owner == l && h.chunk != nil && h.key == key {
		return h.chunk.Get(cx, cy), true
	}
	c, ok := l.chunks[key]
	if !ok {
		return def, false
	}
	if h != nil {
		h.owner, h.key, h.chunk = l, key, c
	}
	return c.Get(cx, cy), true
}

// Get implements View2D.
func (l *Layer[T]) Get(x, y int32, def T) T {
	v, _ := l.TryGetMapValue(nil, x, y, def)
	return v
}

// Set writes one cell, creating its chunk when needed.
func (l *Layer[T]) Set(x, y int32, v T) {
	key, cx, cy := chunkOf(x, y)
	l.chunk(key).Set(cx, cy, v)
}

// Update rewrites one cell through fn. fn receives the current value (fill
// for a missing chunk).
func (l *Layer[T]) Update(x, y int32, fn func(T) T) {
	key, cx, cy := chunkOf(x, y)
	c := l.chunk(key)
	c.Set(cx, cy, fn(c.Get(cx, cy)))
}

// Fill writes v into every cell of r. Chunks fully covered and not yet
// present are stored uniform.
func (l *Layer[T]) Fill(r geo.Rect, v T) {
	if r.Empty() {
		return
	}
	minKey, _, _ := chunkOf(r.MinX, r.MinY)
	maxKey, _, _ := chunkOf(r.MaxX, r.MaxY)
	for ky := minKey.cy; ky <= maxKey.cy; ky++ {
		for kx := minKey.cx; kx <= maxKey.cx; kx++ {
			key := chunkKey{cx: kx, cy: ky}
			cr := key.rect()
			if _, ok := l.chunks[key]; !ok && covers(r, cr) {
				l.chunks[key] = NewUniformChunk(v)
				l.bounds = l.bounds.Union(cr)
				continue
			}
			c := l.chunk(key)
			for y := max(r.MinY, cr.MinY); y <= min(r.MaxY, cr.MaxY); y++ {
				for x := max(r.MinX, cr.MinX); x <= min(r.MaxX, cr.MaxX); x++ {
					c.Set(x&ChunkMask, y&ChunkMask, v)
				}
			}
		}
	}
}

// Bounds returns the rectangle covered by allocated chunks.
func (l *Layer[T]) Bounds() geo.Rect {
	return l.bounds
}

// ChunkCount returns the number of allocated chunks.
func (l *Layer[T]) ChunkCount() int {
	return len(l.chunks)
}

// UniformChunks returns how many chunks are still uniform.
func (l *Layer[T]) UniformChunks() int {
	n := 0
	for _, c := range l.chunks {
		if c.IsUniform() {
			n++
		}
	}
	return n
}

func (l *Layer[T]) chunk(key chunkKey) *Chunk[T] {
	c, ok := l.chunks[key]
	if !ok {
		c = NewUniformChunk(l.fill)
		l.chunks[key] = c
		l.bounds = l.bounds.Union(key.rect())
	}
	return c
}

func covers(outer, inner geo.Rect) bool {
	return outer.MinX <= inner.MinX && outer.MinY <= inner.MinY &&
		outer.MaxX >= inner.MaxX && outer.MaxY >= inner.MaxY
}
