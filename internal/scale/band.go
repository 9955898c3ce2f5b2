// Package scale maps data domains onto pixel ranges.
package scale

// Band maps distinct categories onto evenly spaced bands of a pixel range.
// Duplicate categories share the band of their first occurrence.
type Band struct {
	index map[string]int
	n     int
	start float64
	step  float64
	width float64
}

// NewBand builds a band scale over domain for the range [start, stop].
// padding is the fraction of each step left empty between bands and is also
// used as the outer padding at both ends of the range.
func NewBand(domain []string, start, stop, padding float64) *Band {
	b := &Band{index: make(map[string]int, len(domain))}
	for _, category := range domain {
		if _, ok := b.index[category]; ok {
			continue
		}
		b.index[category] = b.n
		b.n++
	}

	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	b.step = (stop - start) / (float64(b.n) + padding)
	b.width = b.step * (1 - padding)
	b.start = start + b.step*padding
	if reverse {
		// Positions run from stop back towards start.
		b.start += float64(b.n-1) * b.step
		b.step = -b.step
	}
	return b
}

// Position returns the start of the band for category and whether the
// category is part of the domain.
func (b *Band) Position(category string) (float64, bool) {
	i, ok := b.index[category]
	if !ok {
		return 0, false
	}
	return b.start + float64(i)*b.step, true
}

// Width returns the width shared by every band.
func (b *Band) Width() float64 {
	return b.width
}

// Len returns the number of distinct categories.
func (b *Band) Len() int {
	return b.n
}
