package main

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/gridnav/internal/geo"
	"github.com/udisondev/gridnav/internal/goals"
	"github.com/udisondev/gridnav/internal/movement"
	"github.com/udisondev/gridnav/internal/terrain"
)

// Scenario is a navbench input file: terrain, goal markers and the agents
// to route across it.
type Scenario struct {
	Modes   []ModeDef   `yaml:"modes"`
	Legend  []SymbolDef `yaml:"legend"`
	Levels  []LevelDef  `yaml:"levels"`
	Markers []MarkerDef `yaml:"markers"`
	Agents  []Agent     `yaml:"agents"`
}

// ModeDef registers a custom movement mode.
type ModeDef struct {
	Name   string `yaml:"name"`
	Metric string `yaml:"metric"`
}

// SymbolDef adds or overrides a legend symbol. Costs are factors of the
// mode's base cost; 0 blocks the mode.
type SymbolDef struct {
	Symbol string             `yaml:"symbol"`
	Costs  map[string]float32 `yaml:"costs"`
	Like   string             `yaml:"like"` // copy costs from another symbol
	Marker bool               `yaml:"marker"`
}

// LevelDef is one ASCII-drawn level.
type LevelDef struct {
	Z    int32    `yaml:"z"`
	Rows []string `yaml:"rows"`
}

// MarkerDef turns every occurrence of a marker symbol into a goal.
type MarkerDef struct {
	Symbol   string  `yaml:"symbol"`
	Goal     string  `yaml:"goal"`
	Strength float32 `yaml:"strength"`
}

// Agent is one search: either towards Target or towards Goals.
type Agent struct {
	Name           string             `yaml:"name"`
	At             Pos                `yaml:"at"`
	Modes          map[string]float32 `yaml:"modes"`
	Target         *Pos               `yaml:"target"`
	TargetDistance float32            `yaml:"target_distance"`
	Goals          []string           `yaml:"goals"`
	MinStrength    float32            `yaml:"min_strength"`
	Exclude        []Pos              `yaml:"exclude"`
	Radius         int32              `yaml:"radius"`
}

// Pos decodes a YAML [x, y, z] sequence.
type Pos geo.Position

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Pos) UnmarshalYAML(n *yaml.Node) error {
	var xyz []int32
	if err := n.Decode(&xyz); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if len(xyz) != 3 {
		return fmt.Errorf("position at line %d: want [x, y, z], got %d values", n.Line, len(xyz))
	}
	*p = Pos(geo.Pos(xyz[0], xyz[1], xyz[2]))
	return nil
}

// Position returns p as a grid position.
func (p Pos) Position() geo.Position {
	return geo.Position(p)
}

var errScenario = errors.New("invalid scenario")

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(raw)
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}
	return &s, nil
}

// Validate checks the scenario for structural errors.
func (s *Scenario) Validate() error {
	if len(s.Levels) == 0 {
		return fmt.Errorf("%w: no levels", errScenario)
	}
	seen := make(map[int32]bool, len(s.Levels))
	for _, l := range s.Levels {
		if seen[l.Z] {
			return fmt.Errorf("%w: level %d drawn twice", errScenario, l.Z)
		}
		seen[l.Z] = true
	}
	for _, sym := range s.Legend {
		if utf8.RuneCountInString(sym.Symbol) != 1 {
			return fmt.Errorf("%w: legend symbol %q must be one character", errScenario, sym.Symbol)
		}
		for mode, factor := range sym.Costs {
			if !(factor >= 0) {
				return fmt.Errorf("%w: symbol %q has cost %v for %q", errScenario, sym.Symbol, factor, mode)
			}
		}
	}
	for _, m := range s.Markers {
		if utf8.RuneCountInString(m.Symbol) != 1 || m.Goal == "" || m.Strength <= 0 {
			return fmt.Errorf("%w: marker %q needs a symbol, a goal and a positive strength", errScenario, m.Symbol)
		}
	}
	for _, a := range s.Agents {
		if a.Name == "" {
			return fmt.Errorf("%w: agent without name", errScenario)
		}
		if (a.Target == nil) == (len(a.Goals) == 0) {
			return fmt.Errorf("%w: agent %q needs exactly one of target or goals", errScenario, a.Name)
		}
		if len(a.Modes) == 0 {
			return fmt.Errorf("%w: agent %q has no modes", errScenario, a.Name)
		}
		for mode, factor := range a.Modes {
			if !(factor >= 0) {
				return fmt.Errorf("%w: agent %q has factor %v for %q", errScenario, a.Name, factor, mode)
			}
		}
	}
	return nil
}

// World is a scenario compiled against a mode registry.
type World struct {
	Modes   *movement.Registry
	Map     *terrain.Map
	Index   *goals.MarkerIndex
	Levels  []int32
	GoalSet []string // goal keys named by markers and agents
}

// Compile registers the scenario's modes, draws its levels and places its
// markers into a fresh index.
func (s *Scenario) Compile() (*World, error) {
	modes := movement.NewRegistry()
	for _, ms := range s.Modes {
		metric, err := geo.ParseMetric(ms.Metric)
		if err != nil {
			return nil, fmt.Errorf("mode %q: %w", ms.Name, err)
		}
		if _, err := modes.Register(ms.Name, metric); err != nil {
			return nil, err
		}
	}

	legend, err := s.legend(modes)
	if err != nil {
		return nil, err
	}

	b := terrain.NewBuilder()
	markers := make(terrain.Markers)
	levels := make([]int32, 0, len(s.Levels))
	for _, l := range s.Levels {
		drawn, err := b.Draw(l.Z, l.Rows, legend)
		if err != nil {
			return nil, fmt.Errorf("drawing level %d: %w", l.Z, err)
		}
		for sym, ps := range drawn {
			markers[sym] = append(markers[sym], ps...)
		}
		levels = append(levels, l.Z)
	}

	w := &World{
		Modes:  modes,
		Map:    b.Build(),
		Index:  goals.NewMarkerIndex(),
		Levels: levels,
	}
	keys := make(map[string]bool)
	for _, ms := range s.Markers {
		sym, _ := utf8.DecodeRuneInString(ms.Symbol)
		for _, p := range markers[sym] {
			w.Index.Add(ms.Goal, goals.Record{Position: p, Strength: ms.Strength})
		}
		keys[ms.Goal] = true
	}
	for _, a := range s.Agents {
		for _, g := range a.Goals {
			keys[g] = true
		}
	}
	w.GoalSet = slices.Sorted(maps.Keys(keys))
	return w, nil
}

// AddGoalKeys adds keys to GoalSet, keeping it sorted and unique.
func (w *World) AddGoalKeys(keys ...string) {
	w.GoalSet = slices.Compact(slices.Sorted(slices.Values(append(w.GoalSet, keys...))))
}

func (s *Scenario) legend(modes *movement.Registry) (terrain.Legend, error) {
	legend := terrain.DefaultLegend()
	for _, ms := range s.Markers {
		sym, _ := utf8.DecodeRuneInString(ms.Symbol)
		if _, ok := legend[sym]; !ok {
			legend = legend.Mark('.', sym)
		}
	}
	for _, entry := range s.Legend {
		sym, _ := utf8.DecodeRuneInString(entry.Symbol)
		var tile terrain.Tile
		if entry.Like != "" {
			like, _ := utf8.DecodeRuneInString(entry.Like)
			base, ok := legend[like]
			if !ok {
				return nil, fmt.Errorf("%w: symbol %q is like unknown %q", errScenario, entry.Symbol, entry.Like)
			}
			tile.Costs = make(map[movement.Mode]movement.Cost, len(base.Costs)+len(entry.Costs))
			maps.Copy(tile.Costs, base.Costs)
		} else {
			tile.Costs = make(map[movement.Mode]movement.Cost, len(entry.Costs))
		}
		for name, factor := range entry.Costs {
			mode, ok := modes.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("%w: symbol %q uses unknown mode %q", errScenario, entry.Symbol, name)
			}
			tile.Costs[mode] = symbolCost(factor)
		}
		tile.Marker = entry.Marker || legend[sym].Marker
		legend[sym] = tile
	}
	return legend, nil
}

// symbolCost maps a legend factor to a tile cost, 0 or less blocks.
func symbolCost(factor float32) movement.Cost {
	if factor <= 0 {
		return movement.Blocked
	}
	return movement.CostFromFactor(factor)
}

// Factors resolves the agent's mode names.
func (a Agent) Factors(modes *movement.Registry) (movement.Factors, error) {
	var f movement.Factors
	for name, factor := range a.Modes {
		mode, ok := modes.Lookup(name)
		if !ok {
			return f, fmt.Errorf("%w: agent %q uses unknown mode %q", errScenario, a.Name, name)
		}
		f.Set(mode, movement.CostFromFactor(factor))
	}
	return f, nil
}
