package scale

import "math"

// Linear maps a continuous domain onto a range, rounding the output to whole
// pixels the way Math.round does (halves round up).
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear builds a rounded linear scale from [d0, d1] to [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Map returns the rounded range value for v. A zero-width domain maps every
// value to the start of the range.
func (l Linear) Map(v float64) float64 {
	var t float64
	if span := l.d1 - l.d0; span != 0 {
		t = (v - l.d0) / span
	}
	return Round(l.r0 + (l.r1-l.r0)*t)
}

// Round rounds half-way values towards positive infinity.
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Extent returns the minimum and maximum of values. ok is false when values
// is empty.
func Extent(values []float64) (lo, hi float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, true
}
