// Package goals collects weighted goal positions for the goal finder.
//
// A TargetSource contributes goals around an origin, a Filter prunes them.
// Both compose: Aggregate merges sources, Chain runs filters in order.
package goals

import (
	"github.com/udisondev/gridnav/internal/geo"
)

// Record is a goal position with its attraction strength.
type Record struct {
	Position geo.Position
	Strength float32
}

// Set holds goal records deduplicated by position; the stronger record wins.
// The zero value is ready to use. Not safe for concurrent use.
type Set struct {
	index   map[geo.Position]int
	records []Record
}

// Add inserts r or raises the strength of an existing record. Records
// without positive strength or with an invalid position are ignored.
func (s *Set) Add(r Record) bool {
	if r.Strength <= 0 || !r.Position.Valid() {
		return false
	}
	if s.index == nil {
		s.index = make(map[geo.Position]int)
	}
	if i, ok := s.index[r.Position]; ok {
		if s.records[i].Strength >= r.Strength {
			return false
		}
		s.records[i].Strength = r.Strength
		return true
	}
	s.index[r.Position] = len(s.records)
	s.records = append(s.records, r)
	return true
}

// Len returns the number of records.
func (s *Set) Len() int {
	return len(s.records)
}

// Records returns the records. The slice is owned by the set and valid
// until the next mutation.
func (s *Set) Records() []Record {
	return s.records
}

// Contains reports whether p holds a goal.
func (s *Set) Contains(p geo.Position) bool {
	_, ok := s.index[p]
	return ok
}

// Strength returns the strength at p, 0 when absent.
func (s *Set) Strength(p geo.Position) float32 {
	if i, ok := s.index[p]; ok {
		return s.records[i].Strength
	}
	return 0
}

// Remove deletes the record at p.
func (s *Set) Remove(p geo.Position) bool {
	i, ok := s.index[p]
	if !ok {
		return false
	}
	last := len(s.records) - 1
	if i != last {
		s.records[i] = s.records[last]
		s.index[s.records[i].Position] = i
	}
	s.records = s.records[:last]
	delete(s.index, p)
	return true
}

// Retain keeps the records keep returns true for.
func (s *Set) Retain(keep func(Record) bool) {
	n := 0
	for _, r := range s.records {
		if keep(r) {
			s.records[n] = r
			s.index[r.Position] = n
			n++
			continue
		}
		delete(s.index, r.Position)
	}
	s.records = s.records[:n]
}

// Clear removes all records, keeping allocations.
func (s *Set) Clear() {
	clear(s.index)
	s.records = s.records[:0]
}
