package goals

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/udisondev/gridnav/internal/geo"
)

// Filter prunes collected goals in place.
type Filter interface {
	FilterGoals(origin geo.Position, set *Set)
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(origin geo.Position, set *Set)

// FilterGoals implements Filter.
func (f FilterFunc) FilterGoals(origin geo.Position, set *Set) {
	f(origin, set)
}

// PassThrough keeps every goal.
var PassThrough Filter = FilterFunc(func(geo.Position, *Set) {})

// Chain runs filters in order. Nil filters are skipped.
func Chain(filters ...Filter) Filter {
	return FilterFunc(func(origin geo.Position, set *Set) {
		for _, f := range filters {
			if f != nil {
				f.FilterGoals(origin, set)
			}
		}
	})
}

// MinStrength drops goals weaker than the given strength.
type MinStrength float32

// FilterGoals implements Filter.
func (m MinStrength) FilterGoals(_ geo.Position, set *Set) {
	set.Retain(func(r Record) bool { return r.Strength >= float32(m) })
}

// ExcludeFilter drops goals at excluded positions, e.g. goals already
// claimed by other agents.
type ExcludeFilter struct {
	excluded mapset.Set[geo.Position]
}

// NewExcludeFilter returns a filter excluding positions.
func NewExcludeFilter(positions ...geo.Position) *ExcludeFilter {
	f := &ExcludeFilter{excluded: mapset.New[geo.Position]()}
	for _, p := range positions {
		f.excluded.Put(p)
	}
	return f
}

// Exclude adds p.
func (f *ExcludeFilter) Exclude(p geo.Position) {
	f.excluded.Put(p)
}

// Include removes p from the exclusion list.
func (f *ExcludeFilter) Include(p geo.Position) {
	f.excluded.Remove(p)
}

// Len returns the number of excluded positions.
func (f *ExcludeFilter) Len() int {
	return f.excluded.Size()
}

// FilterGoals implements Filter.
func (f *ExcludeFilter) FilterGoals(_ geo.Position, set *Set) {
	if f.excluded.Size() == 0 {
		return
	}
	set.Retain(func(r Record) bool { return !f.excluded.Has(r.Position) })
}
