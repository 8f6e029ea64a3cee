package pathfinding

import (
	"fmt"
	"sync/atomic"
)

// SearchKind selects searches by kind.
type SearchKind uint32

const (
	PathSearches SearchKind = 1 << iota
	GoalSearches

	NoSearches  SearchKind = 0
	AllSearches            = PathSearches | GoalSearches
)

var debugSearches atomic.Uint32

// EnableDebugLogging sets the search kinds that write a debug record per
// search. Call it once during initialization.
func EnableDebugLogging(kinds SearchKind) {
	debugSearches.Store(uint32(kinds))
}

// IsDebugEnabled guards debug logs of one search kind:
//
//	if pathfinding.IsDebugEnabled(pathfinding.PathSearches) {
//	    slog.Debug("path search", "nodes", n)
//	}
func IsDebugEnabled(kind SearchKind) bool {
	return SearchKind(debugSearches.Load())&kind != 0
}

// ParseSearchKinds resolves "path", "goal" and "all". An empty list
// selects every kind.
func ParseSearchKinds(names []string) (SearchKind, error) {
	if len(names) == 0 {
		return AllSearches, nil
	}
	var kinds SearchKind
	for _, name := range names {
		switch name {
		case "path":
			kinds |= PathSearches
		case "goal":
			kinds |= GoalSearches
		case "all":
			kinds |= AllSearches
		default:
			return NoSearches, fmt.Errorf("unknown search kind %q", name)
		}
	}
	return kinds, nil
}
