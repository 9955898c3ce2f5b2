package preview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MitjaBezensek/chart/internal/chart"
	"github.com/MitjaBezensek/chart/internal/format"
	"github.com/MitjaBezensek/chart/internal/model"
	"github.com/MitjaBezensek/chart/internal/surface"
)

func newTestModel(t *testing.T, view *model.DataView) (*Model, *surface.Document) {
	t.Helper()
	doc := surface.NewDocument()
	visual, err := chart.New(doc, "en-US", chart.WithMeasurer(format.CellMeasurer{CellWidth: CellWidth}))
	if err != nil {
		t.Fatalf("new visual: %v", err)
	}
	return NewModel(visual, doc, view, nil), doc
}

func sampleView() *model.DataView {
	a, b := 1500.0, 2500.0
	return &model.DataView{
		Categorical: &model.Categorical{
			Categories: []model.CategoryColumn{{Values: []string{"a", "b"}}},
			Values:     []model.ValueColumn{{Values: []*float64{&a, &b}}},
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func labels(m *Model) []string {
	var out []string
	for _, p := range m.visual.Points() {
		out = append(out, p.Label)
	}
	return out
}

func TestWindowSizeBecomesViewport(t *testing.T) {
	m, doc := newTestModel(t, sampleView())
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})

	if w, h := doc.Size(); w != 40*CellWidth || h != 10*CellHeight {
		t.Fatalf("expected %dx%d surface, got %dx%d", 40*CellWidth, 10*CellHeight, w, h)
	}
	if got := strings.Join(labels(m), ","); got != "1.50K,2.50K" {
		t.Fatalf("unexpected labels %q", got)
	}
	if len(doc.Elements(chart.ClassBar)) != 2 {
		t.Fatalf("expected 2 bars")
	}
	if !strings.Contains(m.View(), "unit Auto") {
		t.Fatalf("expected status line in view:\n%s", m.View())
	}
}

func TestKeysChangeSettings(t *testing.T) {
	m, _ := newTestModel(t, sampleView())
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})

	m.Update(runes("u"))
	if m.unit != model.UnitNone {
		t.Fatalf("expected unit None after Auto, got %q", m.unit)
	}
	m.Update(runes("-"))
	if got := strings.Join(labels(m), ","); got != "1,500.0,2,500.0" {
		t.Fatalf("unexpected labels %q", got)
	}

	m.Update(runes("-"))
	m.Update(runes("-"))
	m.Update(runes("-"))
	if m.decimals != 0 {
		t.Fatalf("expected decimals clamped at 0, got %d", m.decimals)
	}

	m.Update(runes("r"))
	if got := m.visual.Settings().Chart.Reconcile; got != model.ReconcileKeyed {
		t.Fatalf("expected keyed reconcile, got %q", got)
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func TestNextUnitWraps(t *testing.T) {
	last := model.DisplayUnits[len(model.DisplayUnits)-1]
	if got := nextUnit(last); got != model.DisplayUnits[0] {
		t.Fatalf("expected wrap to %q, got %q", model.DisplayUnits[0], got)
	}
	if got := nextUnit("bogus"); got != model.DisplayUnits[0] {
		t.Fatalf("expected unknown unit to reset, got %q", got)
	}
}

func TestViewShowsErrorWithoutData(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Update(tea.WindowSizeMsg{Width: 20, Height: 6})
	if !strings.Contains(m.View(), "no data view") {
		t.Fatalf("expected error in view:\n%s", m.View())
	}
}
