// Package chart renders data points as a bar chart onto a drawing surface.
package chart

import (
	"math"

	"github.com/MitjaBezensek/chart/internal/format"
	"github.com/MitjaBezensek/chart/internal/model"
	"github.com/MitjaBezensek/chart/internal/scale"
	"github.com/MitjaBezensek/chart/internal/surface"
)

// Element classes drawn by the renderer.
const (
	ClassBar   = "bar"
	ClassLabel = "labels"
)

// labelOffset is the gap between a label baseline and the top of its bar.
const labelOffset = 10

// Renderer draws bars and labels onto a surface.
type Renderer struct {
	Surface  surface.Surface
	Settings model.Settings
}

// NewRenderer returns a renderer for s using the default settings.
func NewRenderer(s surface.Surface) *Renderer {
	return &Renderer{Surface: s, Settings: model.DefaultSettings()}
}

// Render resizes the surface to the viewport and reconciles one bar and one
// label per data point. Null values are drawn as zero but do not take part
// in the value extent.
func (r *Renderer) Render(points []model.DataPoint, width, height float64) {
	r.Surface.Resize(int(scale.Round(width)), int(scale.Round(height)))

	cfg := r.Settings.Chart
	categories := make([]string, len(points))
	values := make([]float64, len(points))
	var valid []float64
	for i, p := range points {
		categories[i] = p.Category
		if p.Valid {
			values[i] = p.Value
			valid = append(valid, p.Value)
		}
	}
	lo, hi, _ := scale.Extent(valid)

	x := scale.NewBand(categories, cfg.Margin, width-cfg.Margin, cfg.Padding)
	y := scale.NewLinear(lo, hi, height-cfg.Margin, cfg.Margin)
	bandWidth := scale.Round(x.Width())

	bars := r.Surface.Join(ClassBar, surface.TagRect, categories, cfg.Reconcile)
	for i, e := range bars.Elements {
		pos, _ := x.Position(categories[i])
		v := values[i]
		e.Fill = cfg.Fill
		e.X = scale.Round(pos)
		e.Y = y.Map(v)
		e.Height = scale.Round(math.Abs(y.Map(hi-v) - cfg.Margin))
		e.Width = bandWidth
	}

	font := format.Font{
		Family: r.Settings.DataLabels.FontFamily,
		Size:   r.Settings.DataLabels.FontSize,
		Weight: r.Settings.DataLabels.FontWeight,
	}
	labels := r.Surface.Join(ClassLabel, surface.TagText, categories, cfg.Reconcile)
	for i, e := range labels.Elements {
		pos, _ := x.Position(categories[i])
		e.Text = points[i].Label
		e.X = scale.Round(pos)
		e.Y = scale.Round(y.Map(values[i]) - labelOffset)
		e.Font = font
	}
}
