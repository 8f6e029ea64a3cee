package movement

// Factors is an agent's per-mode base cost table. A mode absent from the
// table is not available to the agent; a Blocked entry is equally unusable.
type Factors struct {
	costs [MaxModes]Cost
	set   uint32
}

// ModeCost pairs a mode with its base cost.
type ModeCost struct {
	Mode Mode
	Cost Cost
}

// NewFactors builds a table from mode/cost pairs.
func NewFactors(pairs ...ModeCost) Factors {
	var f Factors
	for _, p := range pairs {
		f.Set(p.Mode, p.Cost)
	}
	return f
}

// Set assigns the base cost of m. Modes beyond MaxModes are ignored.
func (f *Factors) Set(m Mode, c Cost) {
	if int(m) >= MaxModes {
		return
	}
	f.costs[m] = c
	f.set |= 1 << m
}

// Remove drops m from the table.
func (f *Factors) Remove(m Mode) {
	if int(m) >= MaxModes {
		return
	}
	f.costs[m] = 0
	f.set &^= 1 << m
}

// Get returns the base cost of m.
func (f Factors) Get(m Mode) (Cost, bool) {
	if !f.Has(m) {
		return Blocked, false
	}
	return f.costs[m], true
}

// Has reports whether m has an entry.
func (f Factors) Has(m Mode) bool {
	return int(m) < MaxModes && f.set&(1<<m) != 0
}

// Len returns the number of entries.
func (f Factors) Len() int {
	n := 0
	for v := f.set; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// Usable returns the modes the agent can use at all, in handle order.
func (f Factors) Usable() []ModeCost {
	out := make([]ModeCost, 0, f.Len())
	for m := range Mode(MaxModes) {
		if c, ok := f.Get(m); ok && !c.IsBlocked() {
			out = append(out, ModeCost{Mode: m, Cost: c})
		}
	}
	return out
}

// Clone returns an independent copy.
func (f Factors) Clone() Factors {
	return f
}
