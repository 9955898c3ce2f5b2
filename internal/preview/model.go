// Package preview provides the Bubble Tea chart preview.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MitjaBezensek/chart/internal/chart"
	"github.com/MitjaBezensek/chart/internal/model"
	"github.com/MitjaBezensek/chart/internal/surface"
)

// Pixel size of one terminal cell. Label widths are measured with the same
// cell width.
const (
	CellWidth  = 8
	CellHeight = 16
)

// chromeRows is the number of rows taken by the status and help lines.
const chromeRows = 2

var (
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea chart preview. Each window resize or
// settings change is delivered to the visual as a host update.
type Model struct {
	visual *chart.Visual
	doc    *surface.Document
	view   *model.DataView
	base   *model.SettingsOverrides

	decimals  int
	unit      model.DisplayUnit
	hideUnits bool
	reconcile string

	width  int
	height int
	err    error

	keys keyMap
	help help.Model
}

// NewModel constructs a preview of view. base holds the settings overrides
// resolved from flags and config; the preview's own toggles are applied on
// top of them.
func NewModel(visual *chart.Visual, doc *surface.Document, view *model.DataView, base *model.SettingsOverrides) *Model {
	if base == nil {
		base = &model.SettingsOverrides{}
	}
	s := model.DefaultSettings().With(base)
	if view != nil {
		s = s.With(view.Metadata.Objects)
	}
	return &Model{
		visual:    visual,
		doc:       doc,
		view:      view,
		base:      base,
		decimals:  s.DataLabels.DecimalPlaces,
		unit:      s.DataLabels.DisplayUnit,
		hideUnits: s.DataLabels.HideUnits,
		reconcile: s.Chart.Reconcile,
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.redraw()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Unit):
			m.unit = nextUnit(m.unit)
		case key.Matches(msg, m.keys.HideUnits):
			m.hideUnits = !m.hideUnits
		case key.Matches(msg, m.keys.More):
			m.decimals++
		case key.Matches(msg, m.keys.Fewer):
			m.decimals = max(m.decimals-1, 0)
		case key.Matches(msg, m.keys.Reconcile):
			if m.reconcile == model.ReconcileKeyed {
				m.reconcile = model.ReconcilePositional
			} else {
				m.reconcile = model.ReconcileKeyed
			}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		default:
			return m, nil
		}
		m.redraw()
		return m, nil
	default:
		return m, nil
	}
}

func nextUnit(current model.DisplayUnit) model.DisplayUnit {
	for i, unit := range model.DisplayUnits {
		if unit == current {
			return model.DisplayUnits[(i+1)%len(model.DisplayUnits)]
		}
	}
	return model.DisplayUnits[0]
}

func (m *Model) chartRows() int {
	return max(m.height-chromeRows, 0)
}

// overrides returns the data view objects for the next update: the base
// overrides, then the view's own objects, then the preview toggles.
func (m *Model) overrides() *model.SettingsOverrides {
	o := &model.SettingsOverrides{}
	o.Merge(m.base)
	if m.view != nil {
		o.Merge(m.view.Metadata.Objects)
	}
	decimals, unit, hide, reconcile := m.decimals, m.unit, m.hideUnits, m.reconcile
	o.DataLabels.DecimalPlaces = &decimals
	o.DataLabels.DisplayUnit = &unit
	o.DataLabels.HideUnits = &hide
	o.Chart.Reconcile = &reconcile
	return o
}

func (m *Model) redraw() {
	var views []*model.DataView
	if m.view != nil {
		dv := *m.view
		dv.Metadata.Objects = m.overrides()
		views = []*model.DataView{&dv}
	}
	m.err = m.visual.Update(chart.UpdateOptions{
		DataViews: views,
		Viewport: model.Viewport{
			Width:  float64(m.width * CellWidth),
			Height: float64(m.chartRows() * CellHeight),
		},
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	var b strings.Builder
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteByte('\n')
	} else {
		raster := Rasterize(m.doc.All(), m.width, m.chartRows(), CellWidth, CellHeight)
		for _, line := range raster.render(styleCell) {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	b.WriteString(statusStyle.Render(m.status()))
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) status() string {
	hide := "shown"
	if m.hideUnits {
		hide = "hidden"
	}
	return fmt.Sprintf("unit %s · decimals %d · units %s · %s · %d bars",
		m.unit, m.decimals, hide, m.reconcile, len(m.visual.Points()))
}

func styleCell(kind cellKind, s string) string {
	switch kind {
	case cellBar:
		return barStyle.Render(s)
	case cellLabel:
		return labelStyle.Render(s)
	default:
		return s
	}
}
