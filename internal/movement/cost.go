package movement

import (
	"fmt"
	"math"
)

// Cost is a byte-quantized movement cost multiplier.
//
// Raw values 0..250 encode raw/50 of the base cost (50 = 100%), giving
// 0%..500% in 2% steps. Any raw value above MaxCost is Blocked.
type Cost uint8

const (
	// Free costs nothing to traverse.
	Free Cost = 0
	// Normal is 100% of the base cost.
	Normal Cost = 50
	// MaxCost is the most expensive passable cost (500%).
	MaxCost Cost = 250
	// Blocked marks an impassable cell.
	Blocked Cost = 255

	costScale = 50
	maxFactor = float32(MaxCost) / costScale
)

// CostFromFactor quantizes a cost factor. f <= 0 saturates to Free,
// f > 5 (and NaN) to Blocked.
func CostFromFactor(f float32) Cost {
	switch {
	case math.IsNaN(float64(f)):
		return Blocked
	case f <= 0:
		return Free
	case f > maxFactor:
		return Blocked
	}
	return Cost(math.Round(float64(f) * costScale))
}

// IsBlocked reports whether the cost is impassable.
func (c Cost) IsBlocked() bool {
	return c > MaxCost
}

// Factor returns the multiplier; Blocked returns +Inf.
func (c Cost) Factor() float32 {
	if c.IsBlocked() {
		return float32(math.Inf(1))
	}
	return float32(c) / costScale
}

// Combine returns the more restrictive of both costs.
func (c Cost) Combine(o Cost) Cost {
	return max(c.normalize(), o.normalize())
}

// Reduce returns the less restrictive of both costs.
func (c Cost) Reduce(o Cost) Cost {
	return min(c.normalize(), o.normalize())
}

// Apply scales the cost by factor. Blocked stays Blocked and results above
// MaxCost saturate to Blocked.
func (c Cost) Apply(factor float32) Cost {
	if c.IsBlocked() {
		return Blocked
	}
	return CostFromFactor(c.Factor() * factor)
}

// TryApply scales base by this cost. It fails only for Blocked.
func (c Cost) TryApply(base float32) (float32, bool) {
	if c.IsBlocked() {
		return 0, false
	}
	return base * c.Factor(), true
}

// Compare orders costs; Blocked is always the largest.
func (c Cost) Compare(o Cost) int {
	a, b := c.normalize(), o.normalize()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (c Cost) normalize() Cost {
	if c.IsBlocked() {
		return Blocked
	}
	return c
}

func (c Cost) String() string {
	if c.IsBlocked() {
		return "blocked"
	}
	return fmt.Sprintf("%d%%", int(c)*100/costScale)
}
