package terrain

import (
	"fmt"
	"maps"

	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/movement"
)

// Tile describes one legend symbol: the cost it contributes per mode.
// Modes absent from Costs get no data for the cell.
type Tile struct {
	Costs  map[movement.Mode]movement.Cost
	Marker bool // positions are reported back by Draw
}

// Legend maps map symbols to tiles.
type Legend map[rune]Tile

// Markers holds marker positions by symbol, in row-major order.
type Markers map[rune][]geo.Position

// DefaultLegend returns the built-in symbols:
//
//	.  floor   walk, fly, ethereal
//	,  mud     walk at 200%, fly, ethereal
//	~  water   swim, fly, ethereal
//	^  chasm   fly, ethereal
//	#  wall    ethereal only
//	   (space) no data
func DefaultLegend() Legend {
	blocked := movement.Blocked
	normal := movement.Normal
	return Legend{
		'.': {Costs: map[movement.Mode]movement.Cost{
			movement.Walking: normal, movement.Flying: normal, movement.Ethereal: normal,
		}},
		',': {Costs: map[movement.Mode]movement.Cost{
			movement.Walking: movement.CostFromFactor(2), movement.Flying: normal, movement.Ethereal: normal,
		}},
		'~': {Costs: map[movement.Mode]movement.Cost{
			movement.Walking: blocked, movement.Swimming: normal, movement.Flying: normal, movement.Ethereal: normal,
		}},
		'^': {Costs: map[movement.Mode]movement.Cost{
			movement.Walking: blocked, movement.Flying: normal, movement.Ethereal: normal,
		}},
		'#': {Costs: map[movement.Mode]movement.Cost{
			movement.Walking: blocked, movement.Swimming: blocked, movement.Flying: blocked, movement.Ethereal: normal,
		}},
		' ': {},
	}
}

// Mark returns a copy of l where each marker symbol draws like base and
// has its positions reported.
func (l Legend) Mark(base rune, markers ...rune) Legend {
	out := maps.Clone(l)
	t := l[base]
	for _, r := range markers {
		out[r] = Tile{Costs: t.Costs, Marker: true}
	}
	return out
}

// Draw contributes rows to level z; row i is y = i, column j is x = j.
func (b *Builder) Draw(z int32, rows []string, legend Legend) (Markers, error) {
	markers := make(Markers)
	for y, row := range rows {
		x := int32(0)
		for _, r := range row {
			t, ok := legend[r]
			if !ok {
				return nil, fmt.Errorf("unknown map symbol %q at (%d,%d)", r, x, y)
			}
			p := geo.Position{X: x, Y: int32(y), Z: z}
			for mode, c := range t.Costs {
				b.Contribute(mode, p, c)
			}
			if t.Marker {
				markers[r] = append(markers[r], p)
			}
			x++
		}
	}
	return markers, nil
}

// ParseASCII builds a single-level map from rows.
func ParseASCII(z int32, rows []string, legend Legend) (*Map, Markers, error) {
	b := NewBuilder()
	markers, err := b.Draw(z, rows, legend)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing map: %w", err)
	}
	return b.Build(), markers, nil
}
