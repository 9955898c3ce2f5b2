package format

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/MitjaBezensek/chart/internal/model"
)

// CreateOptions configures a ValueFormatter.
type CreateOptions struct {
	Locale string
	// Divisor scales values before formatting. Zero means the formatter has
	// no display unit.
	Divisor   float64
	Precision int
	Pattern   string
}

// NumberFormatProvider builds formatters for a locale.
type NumberFormatProvider interface {
	Create(opts CreateOptions) ValueFormatter
}

// DisplayUnitLabel is the unit scaling and label template of a formatter.
type DisplayUnitLabel struct {
	Divisor     float64
	LabelFormat string
}

// ValueFormatter formats numbers. It is a plain value: every Create call
// returns a new one and nothing is shared between calls.
type ValueFormatter struct {
	Pattern     string
	Precision   int
	DisplayUnit *DisplayUnitLabel

	printer *message.Printer
}

// LocaleProvider creates formatters using CLDR data from golang.org/x/text.
type LocaleProvider struct{}

// Create implements NumberFormatProvider.
func (LocaleProvider) Create(opts CreateOptions) ValueFormatter {
	f := ValueFormatter{
		Pattern:   opts.Pattern,
		Precision: opts.Precision,
		printer:   message.NewPrinter(ParseLocale(opts.Locale)),
	}
	if f.Precision < 0 {
		f.Precision = 0
	}
	if opts.Divisor != 0 {
		f.DisplayUnit = &DisplayUnitLabel{
			Divisor:     opts.Divisor,
			LabelFormat: defaultTemplate(opts.Divisor),
		}
	}
	return f
}

// ParseLocale parses a BCP 47 locale, falling back to en-US.
func ParseLocale(locale string) language.Tag {
	if strings.TrimSpace(locale) == "" {
		return language.AmericanEnglish
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

// Format renders v scaled by the display unit and wrapped in its label
// template.
func (f ValueFormatter) Format(v float64) string {
	template := TemplatePlain
	if f.DisplayUnit != nil {
		if f.DisplayUnit.Divisor != 0 {
			v /= f.DisplayUnit.Divisor
		}
		if f.DisplayUnit.LabelFormat != "" {
			template = f.DisplayUnit.LabelFormat
		}
	}
	return strings.Replace(template, "{0}", f.formatNumber(v), 1)
}

func (f ValueFormatter) formatNumber(v float64) string {
	p := f.printer
	if p == nil {
		p = message.NewPrinter(language.AmericanEnglish)
	}
	opts := []number.Option{number.Scale(f.Precision)}
	if !strings.Contains(f.Pattern, ",") {
		opts = append(opts, number.NoSeparator())
	}
	// x/text rounds half to even; round half away from zero first so scaled
	// ties agree with roundTo.
	if strings.Contains(f.Pattern, "%") {
		return p.Sprintf("%v", number.Percent(roundTo(v*100, f.Precision)/100, opts...))
	}
	return p.Sprintf("%v", number.Decimal(roundTo(v, f.Precision), opts...))
}

// applyLabelTemplate overwrites the label template on every call so that the
// result never depends on an earlier call.
func (f *ValueFormatter) applyLabelTemplate(hideUnits bool, unit model.DisplayUnit, abs float64) {
	if f.DisplayUnit == nil {
		return
	}
	if template, ok := LabelTemplate(hideUnits, unit, abs); ok {
		f.DisplayUnit.LabelFormat = template
	}
}
