package dispatch

import (
	"fmt"
	"strings"
)

// Tier selects a kernel implementation family.
type Tier int

// Supported tiers, from reference loops to SIMD-backed kernels.
const (
	Baseline Tier = iota
	Vectorized
	Native
)

// Tiers lists every tier in ascending order.
func Tiers() []Tier {
	return []Tier{Baseline, Vectorized, Native}
}

// String returns the lowercase tier name.
func (t Tier) String() string {
	switch t {
	case Baseline:
		return "baseline"
	case Vectorized:
		return "vectorized"
	case Native:
		return "native"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	return t >= Baseline && t <= Native
}

// ParseTier converts a tier name (case-insensitive) to a Tier.
func ParseTier(name string) (Tier, error) {
	for _, t := range Tiers() {
		if strings.EqualFold(name, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", name)
}
