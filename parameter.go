package psys

import (
	"math"
	"math/rand/v2"
)

// Range is a base value plus a random offset interval. A sample is drawn
// uniformly from [Value+MinOffset, Value+MaxOffset].
type Range struct {
	Value     float64
	MinOffset float64
	MaxOffset float64
}

// Unset marks an end Range that does not animate.
var Unset = Range{Value: math.Inf(1)}

// IsUnset reports whether r is the Unset sentinel.
func (r Range) IsUnset() bool {
	return math.IsInf(r.Value, 1)
}

// Fixed returns a Range without random spread.
func Fixed(v float64) Range {
	return Range{Value: v}
}

// Spread returns a Range sampling from [v+lo, v+hi].
func Spread(v, lo, hi float64) Range {
	return Range{Value: v, MinOffset: lo, MaxOffset: hi}
}

// Sample draws one value from r. A nil rng uses the global source.
func (r Range) Sample(rng *rand.Rand) float64 {
	lo := r.Value + r.MinOffset
	hi := r.Value + r.MaxOffset
	if lo == hi {
		return lo
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + random(rng)*(hi-lo)
}

func (r Range) scaled(k float64) Range {
	if r.IsUnset() {
		return r
	}
	return Range{Value: r.Value * k, MinOffset: r.MinOffset * k, MaxOffset: r.MaxOffset * k}
}

// ParameterSettings describes one animated channel: a randomized start and a
// randomized end, interpolated linearly over a particle's lifetime.
type ParameterSettings struct {
	Start Range
	End   Range
}

// Constant returns settings that sample r once and never animate.
func Constant(r Range) ParameterSettings {
	return ParameterSettings{Start: r, End: Unset}
}

// Animate returns settings interpolating from start to end.
func Animate(start, end Range) ParameterSettings {
	return ParameterSettings{Start: start, End: end}
}

// CalculateInto samples the channel for one life cycle of durationMillis.
// step is the change per 1000ms of elapsed time.
func (s ParameterSettings) CalculateInto(durationMillis float64, rng *rand.Rand) (from, to, step float64) {
	from = s.Start.Sample(rng)
	if s.End.IsUnset() {
		return from, from, 0
	}
	to = s.End.Sample(rng)
	return from, to, stepFor(from, to, durationMillis)
}

// ColorSettings is a deterministic channel between two exact endpoints stored
// in 0-255 units.
type ColorSettings struct {
	Start float64
	End   float64
}

// CalculateInto returns the endpoints and the step for durationMillis.
func (c ColorSettings) CalculateInto(durationMillis float64) (from, to, step float64) {
	return c.Start, c.End, stepFor(c.Start, c.End, durationMillis)
}

// stepFor never divides by zero: a zero duration drifts toward to by a fixed
// epsilon.
func stepFor(from, to, durationMillis float64) float64 {
	if durationMillis == 0 {
		switch {
		case to > from:
			return ZeroDurationStep
		case to < from:
			return -ZeroDurationStep
		default:
			return 0
		}
	}
	return 1000 * (to - from) / durationMillis
}

func random(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()
	}
	return rng.Float64()
}
