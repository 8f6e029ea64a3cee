package geo

// Direction is one of the eight compass directions.
// Y grows towards the south.
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest

	DirectionCount = 8
)

// Directions lists all directions in bit order.
var Directions = [DirectionCount]Direction{
	North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest,
}

var directionOffsets = [DirectionCount]Point{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

var directionNames = [DirectionCount]string{
	"N", "NE", "E", "SE", "S", "SW", "W", "NW",
}

// Offset returns the unit step for d.
func (d Direction) Offset() Point {
	return directionOffsets[d&7]
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return (d + 4) & 7
}

// IsDiagonal reports whether d moves along both axes.
func (d Direction) IsDiagonal() bool {
	return d&1 == 1
}

// Bit returns the single-direction mask for d.
func (d Direction) Bit() Directionality {
	return 1 << (d & 7)
}

// Sides returns the two cardinal directions that make up a diagonal.
// For cardinal directions both results equal d.
func (d Direction) Sides() (Direction, Direction) {
	if !d.IsDiagonal() {
		return d, d
	}
	return (d + 7) & 7, (d + 1) & 7
}

func (d Direction) String() string {
	if d >= DirectionCount {
		return "?"
	}
	return directionNames[d]
}

// DirectionBetween returns the direction of a single step from a to b.
// ok is false unless b is one of the eight neighbours of a.
func DirectionBetween(a, b Point) (Direction, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 || (dx == 0 && dy == 0) {
		return 0, false
	}
	for i, off := range directionOffsets {
		if off.X == dx && off.Y == dy {
			return Direction(i), true
		}
	}
	return 0, false
}

// Directionality is a bitmask over the eight directions: bit d set means
// movement in direction d is permitted.
type Directionality uint8

const (
	DirNone     Directionality = 0
	DirAll      Directionality = 0xFF
	DirCardinal Directionality = 1<<North | 1<<East | 1<<South | 1<<West
	DirDiagonal                = DirAll &^ DirCardinal
)

// DirectionalityOf builds a mask from individual directions.
func DirectionalityOf(ds ...Direction) Directionality {
	var m Directionality
	for _, d := range ds {
		m |= d.Bit()
	}
	return m
}

// Has reports whether d is permitted.
func (m Directionality) Has(d Direction) bool {
	return m&d.Bit() != 0
}

// With returns m with d permitted.
func (m Directionality) With(d Direction) Directionality {
	return m | d.Bit()
}

// Without returns m with d removed.
func (m Directionality) Without(d Direction) Directionality {
	return m &^ d.Bit()
}

// Union permits every direction permitted by either mask.
func (m Directionality) Union(o Directionality) Directionality {
	return m | o
}

// Intersect permits only directions permitted by both masks.
func (m Directionality) Intersect(o Directionality) Directionality {
	return m & o
}

// Opposite mirrors every permitted direction.
func (m Directionality) Opposite() Directionality {
	return m<<4 | m>>4
}

// Count returns the number of permitted directions.
func (m Directionality) Count() int {
	n := 0
	for v := m; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// Each calls fn for every permitted direction in bit order.
func (m Directionality) Each(fn func(Direction)) {
	for d := range Direction(DirectionCount) {
		if m.Has(d) {
			fn(d)
		}
	}
}

func (m Directionality) String() string {
	if m == DirNone {
		return "-"
	}
	s := ""
	m.Each(func(d Direction) {
		if s != "" {
			s += "|"
		}
		s += d.String()
	})
	return s
}
