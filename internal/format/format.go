// Package format turns numeric values into display labels and measures them.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/MitjaBezensek/chart/internal/model"
)

const (
	billion  = 1e9
	million  = 1e6
	thousand = 1e3
	one      = 1
)

const (
	// DefaultPattern is the number pattern used when no percentage format is set.
	DefaultPattern   = "#,0"
	genericPrecision = 4
)

// Labeler formats values with a NumberFormatProvider.
type Labeler struct {
	Provider NumberFormatProvider
}

// NewLabeler returns a Labeler backed by the given provider, or the
// locale-aware default when provider is nil.
func NewLabeler(provider NumberFormatProvider) Labeler {
	if provider == nil {
		provider = LocaleProvider{}
	}
	return Labeler{Provider: provider}
}

// FormatValue formats value with the default locale-aware provider.
func FormatValue(value *float64, opts model.FormatOptions) string {
	return NewLabeler(nil).FormatValue(value, opts)
}

// FormatValue converts value into a label according to opts. A nil value
// yields the empty string.
func (l Labeler) FormatValue(value *float64, opts model.FormatOptions) string {
	if value == nil {
		return ""
	}
	v := *value
	provider := l.Provider
	if provider == nil {
		provider = LocaleProvider{}
	}

	pattern := DefaultPattern
	if opts.PercentageFormat != "" && !opts.HideUnits {
		pattern = opts.PercentageFormat
	}
	if opts.PercentageFormat != "" && !strings.Contains(opts.PercentageFormat, "%") {
		v *= 100
	}
	create := func(divisor float64) ValueFormatter {
		return provider.Create(CreateOptions{
			Locale:    opts.Locale,
			Divisor:   divisor,
			Precision: opts.DecimalPlaces,
			Pattern:   pattern,
		})
	}

	var f ValueFormatter
	switch opts.DisplayUnit {
	case model.UnitAuto:
		divisor := magnitudeDivisor(math.Abs(v))
		f = create(divisor)
		if divisor == one && opts.PercentageFormat != "" {
			// Percentages are formatted unrounded.
			return f.Format(v)
		}
	case model.UnitBillions:
		f = create(billion)
	case model.UnitMillions:
		f = create(million)
	case model.UnitThousands:
		f = create(thousand)
	case model.UnitRelative, model.UnitNone:
		f = create(one)
	case model.UnitPercent:
		f = create(one)
		// A percent pattern already carries the locale percent sign.
		if !strings.Contains(pattern, "%") {
			f.applyLabelTemplate(opts.HideUnits, opts.DisplayUnit, math.Abs(v))
		}
		return f.Format(v)
	default:
		f = provider.Create(CreateOptions{
			Locale:    opts.Locale,
			Precision: genericPrecision,
			Pattern:   DefaultPattern,
		})
	}

	f.applyLabelTemplate(opts.HideUnits, opts.DisplayUnit, math.Abs(v))
	return f.Format(roundTo(v, opts.DecimalPlaces))
}

// magnitudeDivisor picks the display divisor for an absolute value. The
// comparisons are strict: exactly 1e9 is reported in millions.
func magnitudeDivisor(abs float64) float64 {
	switch {
	case abs > billion:
		return billion
	case abs > million:
		return million
	case abs > thousand:
		return thousand
	default:
		return one
	}
}

// roundTo rounds v to the given number of decimal digits. Ties on the exact
// binary value round away from zero, matching Number.prototype.toFixed.
func roundTo(v float64, decimals int) float64 {
	if decimals < 0 {
		decimals = 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	digits := strconv.FormatFloat(math.Abs(v), 'f', decimals+25, 64)
	next := strings.IndexByte(digits, '.') + 1 + decimals
	end := next
	if decimals == 0 {
		end--
	}
	truncated, err := strconv.ParseFloat(digits[:end], 64)
	if err != nil {
		return v
	}
	if digits[next] >= '5' {
		truncated += math.Pow(10, -float64(decimals))
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(truncated, 'f', decimals, 64), 64)
	if err != nil {
		return v
	}
	if rounded == 0 {
		return 0
	}
	return math.Copysign(rounded, v)
}
