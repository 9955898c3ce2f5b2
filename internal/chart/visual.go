package chart

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/MitjaBezensek/chart/internal/format"
	"github.com/MitjaBezensek/chart/internal/model"
	"github.com/MitjaBezensek/chart/internal/surface"
)

// ErrNoDataView is returned by Update when the host supplies no usable data
// view. The surface is left untouched.
var ErrNoDataView = errors.New("no data view")

// UpdateOptions is the input of one host update.
type UpdateOptions struct {
	DataViews []*model.DataView
	Viewport  model.Viewport
}

// Visual is the host-facing bar chart component.
type Visual struct {
	renderer *Renderer
	locale   string
	logger   *zap.Logger
	measurer format.TextMeasurer
	labeler  format.Labeler
	settings *model.Settings
	points   []model.DataPoint
}

// Option configures a Visual.
type Option func(*Visual)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Visual) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithMeasurer sets the text measurer used for label widths.
func WithMeasurer(m format.TextMeasurer) Option {
	return func(v *Visual) {
		v.measurer = m
	}
}

// WithProvider sets the number format provider used for labels.
func WithProvider(p format.NumberFormatProvider) Option {
	return func(v *Visual) {
		v.labeler = format.NewLabeler(p)
	}
}

// New returns a Visual drawing onto s and formatting labels for locale.
func New(s surface.Surface, locale string, opts ...Option) (*Visual, error) {
	v := &Visual{
		renderer: NewRenderer(s),
		locale:   locale,
		logger:   zap.NewNop(),
		labeler:  format.NewLabeler(nil),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.measurer == nil {
		m, err := format.NewFontMeasurer()
		if err != nil {
			return nil, fmt.Errorf("failed to create text measurer: %w", err)
		}
		v.measurer = m
	}
	return v, nil
}

// Update parses settings from the first data view, builds data points and
// renders them at the viewport size.
func (v *Visual) Update(opts UpdateOptions) error {
	v.logger.Debug("visual update",
		zap.Int("data_views", len(opts.DataViews)),
		zap.Float64("width", opts.Viewport.Width),
		zap.Float64("height", opts.Viewport.Height),
	)
	var dv *model.DataView
	if len(opts.DataViews) > 0 {
		dv = opts.DataViews[0]
	}
	if dv == nil || dv.Categorical == nil || len(dv.Categorical.Values) == 0 {
		return fmt.Errorf("failed to update visual: %w", ErrNoDataView)
	}

	settings := ParseSettings(dv)
	v.settings = &settings
	v.renderer.Settings = settings

	v.points = v.dataPoints(dv, settings)
	v.logger.Debug("data points", zap.Int("count", len(v.points)), zap.Any("points", v.points))

	v.renderer.Render(v.points, opts.Viewport.Width, opts.Viewport.Height)
	return nil
}

// Points returns the data points of the last successful update.
func (v *Visual) Points() []model.DataPoint {
	return append([]model.DataPoint(nil), v.points...)
}

// Settings returns the settings of the last update, or the defaults.
func (v *Visual) Settings() model.Settings {
	if v.settings == nil {
		return model.DefaultSettings()
	}
	return *v.settings
}

// ParseSettings returns the default settings with the data view's overrides
// applied.
func ParseSettings(dv *model.DataView) model.Settings {
	s := model.DefaultSettings()
	if dv == nil {
		return s
	}
	return s.With(dv.Metadata.Objects)
}

func (v *Visual) dataPoints(dv *model.DataView, settings model.Settings) []model.DataPoint {
	var categories []string
	if len(dv.Categorical.Categories) > 0 {
		categories = dv.Categorical.Categories[0].Values
	}
	values := dv.Categorical.Values[0].Values

	opts := settings.FormatOptions(v.locale)
	font := format.Font{
		Family: settings.DataLabels.FontFamily,
		Size:   settings.DataLabels.FontSize,
		Weight: settings.DataLabels.FontWeight,
	}
	points := make([]model.DataPoint, 0, len(values))
	for i, value := range values {
		p := model.DataPoint{Label: v.labeler.FormatValue(value, opts)}
		if value != nil {
			p.Value = *value
			p.Valid = true
		}
		if i < len(categories) {
			p.Category = categories[i]
		}
		if p.Label != "" {
			p.LabelWidth = v.measurer.Measure(p.Label, font)
		}
		points = append(points, p)
	}
	return points
}
