package goals

import (
	"slices"

	"github.com/sasha-s/go-deadlock"

	"github.com/udisondev/gridnav/internal/geo"
)

// bucketShift sets the bucket edge to 2^bucketShift cells.
const bucketShift = 4

type bucketKey struct {
	bx, by, z int32
}

func bucketOf(p geo.Position) bucketKey {
	return bucketKey{bx: p.X >> bucketShift, by: p.Y >> bucketShift, z: p.Z}
}

type markerSet struct {
	buckets map[bucketKey]map[geo.Position]float32
	count   int
}

// MarkerIndex stores goal markers grouped by goal key and bucketed by
// area, so collecting around an origin touches only nearby buckets.
// Safe for concurrent use.
type MarkerIndex struct {
	mu   deadlock.RWMutex
	sets map[string]*markerSet
}

// NewMarkerIndex returns an empty index.
func NewMarkerIndex() *MarkerIndex {
	return &MarkerIndex{sets: make(map[string]*markerSet)}
}

// Add places or replaces the marker at r.Position under key.
func (x *MarkerIndex) Add(key string, r Record) bool {
	if r.Strength <= 0 || !r.Position.Valid() {
		return false
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	ms, ok := x.sets[key]
	if !ok {
		ms = &markerSet{buckets: make(map[bucketKey]map[geo.Position]float32)}
		x.sets[key] = ms
	}
	bk := bucketOf(r.Position)
	b, ok := ms.buckets[bk]
	if !ok {
		b = make(map[geo.Position]float32)
		ms.buckets[bk] = b
	}
	if _, exists := b[r.Position]; !exists {
		ms.count++
	}
	b[r.Position] = r.Strength
	return true
}

// Remove deletes the marker at p under key.
func (x *MarkerIndex) Remove(key string, p geo.Position) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	ms, ok := x.sets[key]
	if !ok {
		return false
	}
	bk := bucketOf(p)
	b, ok := ms.buckets[bk]
	if !ok {
		return false
	}
	if _, ok := b[p]; !ok {
		return false
	}
	delete(b, p)
	if len(b) == 0 {
		delete(ms.buckets, bk)
	}
	ms.count--
	return true
}

// Len returns the number of markers under key.
func (x *MarkerIndex) Len(key string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if ms, ok := x.sets[key]; ok {
		return ms.count
	}
	return 0
}

// Keys returns the goal keys with markers, sorted.
func (x *MarkerIndex) Keys() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	keys := make([]string, 0, len(x.sets))
	for k, ms := range x.sets {
		if ms.count > 0 {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// Source returns a live view of the markers under key. Markers added after
// the call are visible to later collections.
func (x *MarkerIndex) Source(key string) TargetSource {
	return SourceFunc(func(origin geo.Position, radius int32, metric geo.DistanceMetric, set *Set) {
		x.collect(key, origin, radius, metric, set)
	})
}

func (x *MarkerIndex) collect(key string, origin geo.Position, radius int32, metric geo.DistanceMetric, set *Set) {
	if radius < 0 || !origin.Valid() {
		return
	}
	x.mu.RLock()
	defer x.mu.RUnlock()

	ms, ok := x.sets[key]
	if !ok {
		return
	}
	r := geo.RectAround(origin.Point(), radius)
	for by := r.MinY >> bucketShift; by <= r.MaxY>>bucketShift; by++ {
		for bx := r.MinX >> bucketShift; bx <= r.MaxX>>bucketShift; bx++ {
			b, ok := ms.buckets[bucketKey{bx: bx, by: by, z: origin.Z}]
			if !ok {
				continue
			}
			for p, strength := range b {
				if InRange(origin, p, radius, metric) {
					set.Add(Record{Position: p, Strength: strength})
				}
			}
		}
	}
}
