package goals

import (
	"github.com/udisondev/gridnav/internal/geo"
)

// TargetSource contributes the goals within radius of origin (measured with
// metric, on origin's level) to set. Contributing nothing is normal.
type TargetSource interface {
	CollectGoals(origin geo.Position, radius int32, metric geo.DistanceMetric, set *Set)
}

// SourceFunc adapts a function to TargetSource.
type SourceFunc func(origin geo.Position, radius int32, metric geo.DistanceMetric, set *Set)

// CollectGoals implements TargetSource.
func (f SourceFunc) CollectGoals(origin geo.Position, radius int32, metric geo.DistanceMetric, set *Set) {
	f(origin, radius, metric, set)
}

// Aggregate returns a source that collects from every source in order.
// Nil sources are skipped.
func Aggregate(sources ...TargetSource) TargetSource {
	flat := make([]TargetSource, 0, len(sources))
	for _, s := range sources {
		switch s := s.(type) {
		case nil:
		case aggregate:
			flat = append(flat, s...)
		default:
			flat = append(flat, s)
		}
	}
	return aggregate(flat)
}

type aggregate []TargetSource

func (a aggregate) CollectGoals(origin geo.Position, radius int32, metric geo.DistanceMetric, set *Set) {
	for _, s := range a {
		s.CollectGoals(origin, radius, metric, set)
	}
}

// Static returns a source over a fixed list of records.
func Static(records ...Record) TargetSource {
	return static(records)
}

type static []Record

func (s static) CollectGoals(origin geo.Position, radius int32, metric geo.DistanceMetric, set *Set) {
	for _, r := range s {
		if InRange(origin, r.Position, radius, metric) {
			set.Add(r)
		}
	}
}

// InRange reports whether p lies on origin's level within radius.
func InRange(origin, p geo.Position, radius int32, metric geo.DistanceMetric) bool {
	if !origin.SameLevel(p) {
		return false
	}
	return metric.Distance(origin.Point(), p.Point()) <= float32(radius)
}
