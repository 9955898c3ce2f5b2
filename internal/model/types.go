// Package model defines shared data structures.
package model

import "time"

// DisplayUnit selects the magnitude scaling applied to data labels.
type DisplayUnit string

// Known display units. Any other value is accepted and formats with the
// generic fallback formatter.
const (
	UnitAuto      DisplayUnit = "Auto"
	UnitBillions  DisplayUnit = "G"
	UnitMillions  DisplayUnit = "M"
	UnitThousands DisplayUnit = "K"
	UnitRelative  DisplayUnit = "Relative"
	UnitNone      DisplayUnit = "None"
	UnitPercent   DisplayUnit = "P"
)

// DisplayUnits lists the known display units in settings-panel order.
var DisplayUnits = []DisplayUnit{
	UnitAuto,
	UnitNone,
	UnitThousands,
	UnitMillions,
	UnitBillions,
	UnitPercent,
	UnitRelative,
}

// FormatOptions controls how a single value is turned into a label.
type FormatOptions struct {
	DecimalPlaces    int
	DisplayUnit      DisplayUnit
	Locale           string
	PercentageFormat string
	HideUnits        bool
}

// DataPoint is one bar of a render pass.
type DataPoint struct {
	Value      float64
	Valid      bool
	Category   string
	Label      string
	LabelWidth float64
}

// Viewport is the host-supplied drawing area in pixels.
type Viewport struct {
	Width  float64
	Height float64
}

// ColumnMeta describes a data view column.
type ColumnMeta struct {
	DisplayName string
	QueryName   string
}

// CategoryColumn holds category labels.
type CategoryColumn struct {
	Source ColumnMeta
	Values []string
}

// ValueColumn holds nullable measure values.
type ValueColumn struct {
	Source ColumnMeta
	Values []*float64
}

// Categorical is the categorical mapping of a data view.
type Categorical struct {
	Categories []CategoryColumn
	Values     []ValueColumn
}

// Metadata carries per-view objects such as formatting overrides.
type Metadata struct {
	Objects *SettingsOverrides
}

// DataView is the tabular input delivered by the host.
type DataView struct {
	Categorical *Categorical
	Metadata    Metadata
}

// Reconcile modes for matching data points to drawn elements.
const (
	ReconcilePositional = "positional"
	ReconcileKeyed      = "keyed"
)

// DataLabelSettings controls label formatting and font.
type DataLabelSettings struct {
	DecimalPlaces    int
	DisplayUnit      DisplayUnit
	PercentageFormat string
	HideUnits        bool
	FontFamily       string
	FontSize         float64
	FontWeight       string
}

// ChartSettings controls layout of the bars.
type ChartSettings struct {
	Margin    float64
	Padding   float64
	Fill      string
	Reconcile string
}

// Settings is the full set of visual settings.
type Settings struct {
	DataLabels DataLabelSettings
	Chart      ChartSettings
}

// DataLabelOverrides holds optional overrides for DataLabelSettings.
type DataLabelOverrides struct {
	DecimalPlaces    *int
	DisplayUnit      *DisplayUnit
	PercentageFormat *string
	HideUnits        *bool
	FontFamily       *string
	FontSize         *float64
	FontWeight       *string
}

// ChartOverrides holds optional overrides for ChartSettings.
type ChartOverrides struct {
	Margin    *float64
	Padding   *float64
	Fill      *string
	Reconcile *string
}

// SettingsOverrides is a sparse Settings; nil fields keep the default.
type SettingsOverrides struct {
	DataLabels DataLabelOverrides
	Chart      ChartOverrides
}

// DatasetInfo summarizes a stored data view.
type DatasetInfo struct {
	ID        int64
	Name      string
	Rows      int
	CreatedAt time.Time
}

// DefaultSettings returns the settings used when a data view carries no
// overrides.
func DefaultSettings() Settings {
	return Settings{
		DataLabels: DataLabelSettings{
			DecimalPlaces: 2,
			DisplayUnit:   UnitAuto,
			FontFamily:    "Segoe UI",
			FontSize:      12,
			FontWeight:    "normal",
		},
		Chart: ChartSettings{
			Margin:    25,
			Padding:   0.3,
			Fill:      "black",
			Reconcile: ReconcilePositional,
		},
	}
}

// With returns s with every non-nil override applied. Out of range values
// are clamped.
func (s Settings) With(o *SettingsOverrides) Settings {
	if o == nil {
		return s
	}
	l := o.DataLabels
	if l.DecimalPlaces != nil {
		s.DataLabels.DecimalPlaces = max(*l.DecimalPlaces, 0)
	}
	if l.DisplayUnit != nil {
		s.DataLabels.DisplayUnit = *l.DisplayUnit
	}
	if l.PercentageFormat != nil {
		s.DataLabels.PercentageFormat = *l.PercentageFormat
	}
	if l.HideUnits != nil {
		s.DataLabels.HideUnits = *l.HideUnits
	}
	if l.FontFamily != nil && *l.FontFamily != "" {
		s.DataLabels.FontFamily = *l.FontFamily
	}
	if l.FontSize != nil && *l.FontSize > 0 {
		s.DataLabels.FontSize = *l.FontSize
	}
	if l.FontWeight != nil && *l.FontWeight != "" {
		s.DataLabels.FontWeight = *l.FontWeight
	}

	c := o.Chart
	if c.Margin != nil && *c.Margin >= 0 {
		s.Chart.Margin = *c.Margin
	}
	if c.Padding != nil && *c.Padding >= 0 && *c.Padding < 1 {
		s.Chart.Padding = *c.Padding
	}
	if c.Fill != nil && *c.Fill != "" {
		s.Chart.Fill = *c.Fill
	}
	if c.Reconcile != nil {
		switch *c.Reconcile {
		case ReconcilePositional, ReconcileKeyed:
			s.Chart.Reconcile = *c.Reconcile
		}
	}
	return s
}

// FormatOptions returns the label format options for locale.
func (s Settings) FormatOptions(locale string) FormatOptions {
	return FormatOptions{
		DecimalPlaces:    s.DataLabels.DecimalPlaces,
		DisplayUnit:      s.DataLabels.DisplayUnit,
		Locale:           locale,
		PercentageFormat: s.DataLabels.PercentageFormat,
		HideUnits:        s.DataLabels.HideUnits,
	}
}

// Merge overlays the non-nil fields of other onto o.
func (o *SettingsOverrides) Merge(other *SettingsOverrides) {
	if other == nil {
		return
	}
	mergePtr(&o.DataLabels.DecimalPlaces, other.DataLabels.DecimalPlaces)
	mergePtr(&o.DataLabels.DisplayUnit, other.DataLabels.DisplayUnit)
	mergePtr(&o.DataLabels.PercentageFormat, other.DataLabels.PercentageFormat)
	mergePtr(&o.DataLabels.HideUnits, other.DataLabels.HideUnits)
	mergePtr(&o.DataLabels.FontFamily, other.DataLabels.FontFamily)
	mergePtr(&o.DataLabels.FontSize, other.DataLabels.FontSize)
	mergePtr(&o.DataLabels.FontWeight, other.DataLabels.FontWeight)
	mergePtr(&o.Chart.Margin, other.Chart.Margin)
	mergePtr(&o.Chart.Padding, other.Chart.Padding)
	mergePtr(&o.Chart.Fill, other.Chart.Fill)
	mergePtr(&o.Chart.Reconcile, other.Chart.Reconcile)
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
