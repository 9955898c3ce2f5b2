package chart

import (
	"testing"

	"github.com/MitjaBezensek/chart/internal/model"
	"github.com/MitjaBezensek/chart/internal/surface"
)

func points(categories []string, values ...float64) []model.DataPoint {
	out := make([]model.DataPoint, len(values))
	for i, v := range values {
		out[i] = model.DataPoint{Value: v, Valid: true, Category: categories[i], Label: "l" + categories[i]}
	}
	return out
}

type rect struct{ x, y, w, h float64 }

func bars(d *surface.Document) []rect {
	var out []rect
	for _, e := range d.Elements(ClassBar) {
		out = append(out, rect{e.X, e.Y, e.Width, e.Height})
	}
	return out
}

func TestRenderGeometry(t *testing.T) {
	doc := surface.NewDocument()
	r := NewRenderer(doc)
	r.Render(points([]string{"a", "b", "c"}, 10, 50, 30), 300, 200)

	if w, h := doc.Size(); w != 300 || h != 200 {
		t.Fatalf("expected 300x200 surface, got %dx%d", w, h)
	}
	want := []rect{
		{48, 175, 53, 38},
		{123, 25, 53, 188},
		{199, 100, 53, 113},
	}
	got := bars(doc)
	if len(got) != len(want) {
		t.Fatalf("expected %d bars, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bar %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	for _, e := range doc.Elements(ClassBar) {
		if e.Fill != "black" || e.Tag != surface.TagRect {
			t.Fatalf("unexpected bar element %+v", e)
		}
	}

	labels := doc.Elements(ClassLabel)
	wantY := []float64{165, 15, 90}
	for i, e := range labels {
		if e.Tag != surface.TagText || e.X != want[i].x || e.Y != wantY[i] {
			t.Fatalf("label %d: unexpected element %+v", i, e)
		}
		if e.Font.Family != "Segoe UI" || e.Font.Size != 12 || e.Font.Weight != "normal" {
			t.Fatalf("label %d: unexpected font %+v", i, e.Font)
		}
	}
	if labels[1].Text != "lb" {
		t.Fatalf("expected label text lb, got %q", labels[1].Text)
	}
}

func TestRenderTwiceIsStable(t *testing.T) {
	doc := surface.NewDocument()
	r := NewRenderer(doc)
	in := points([]string{"a", "b", "c"}, 10, 50, 30)
	r.Render(in, 300.4, 199.6)
	first := doc.Elements(ClassBar)
	before := bars(doc)

	r.Render(in, 300.4, 199.6)
	after := bars(doc)
	for i, e := range doc.Elements(ClassBar) {
		if e != first[i] {
			t.Fatalf("bar %d was recreated", i)
		}
		if after[i] != before[i] {
			t.Fatalf("bar %d moved: %+v -> %+v", i, before[i], after[i])
		}
	}
	if w, h := doc.Size(); w != 300 || h != 200 {
		t.Fatalf("expected rounded 300x200 surface, got %dx%d", w, h)
	}
}

func TestRenderRemovesStaleElements(t *testing.T) {
	doc := surface.NewDocument()
	r := NewRenderer(doc)
	r.Render(points([]string{"a", "b", "c"}, 1, 2, 3), 300, 200)
	r.Render(points([]string{"a"}, 5), 300, 200)

	if n := len(doc.Elements(ClassBar)); n != 1 {
		t.Fatalf("expected 1 bar, got %d", n)
	}
	if n := len(doc.Elements(ClassLabel)); n != 1 {
		t.Fatalf("expected 1 label, got %d", n)
	}

	r.Render(nil, 120, 80)
	if len(doc.Elements(ClassBar)) != 0 || len(doc.Elements(ClassLabel)) != 0 {
		t.Fatalf("expected no elements after empty render")
	}
	if w, h := doc.Size(); w != 120 || h != 80 {
		t.Fatalf("expected surface resized to 120x80, got %dx%d", w, h)
	}
}

func TestRenderKeyedFollowsCategories(t *testing.T) {
	doc := surface.NewDocument()
	r := NewRenderer(doc)
	r.Settings.Chart.Reconcile = model.ReconcileKeyed
	r.Render(points([]string{"a", "b"}, 10, 20), 300, 200)
	byKey := map[string]*surface.Element{}
	for _, e := range doc.Elements(ClassBar) {
		byKey[e.Key] = e
	}

	r.Render(points([]string{"b", "a"}, 20, 10), 300, 200)
	got := doc.Elements(ClassBar)
	if got[0] != byKey["b"] || got[1] != byKey["a"] {
		t.Fatalf("expected keyed reconciliation to keep elements per category")
	}
}

func TestRenderPositionalReassignsOnReorder(t *testing.T) {
	doc := surface.NewDocument()
	r := NewRenderer(doc)
	r.Render(points([]string{"a", "b"}, 10, 20), 300, 200)
	first := doc.Elements(ClassBar)[0]

	r.Render(points([]string{"b", "a"}, 20, 10), 300, 200)
	if doc.Elements(ClassBar)[0] != first || first.Key != "b" {
		t.Fatalf("expected the first element to be reassigned to category b")
	}
}

func TestRenderNullDrawnAsZero(t *testing.T) {
	doc := surface.NewDocument()
	r := NewRenderer(doc)
	in := points([]string{"a", "b", "c"}, 0, 10, 20)
	in[0] = model.DataPoint{Category: "a"}
	r.Render(in, 300, 200)

	got := bars(doc)
	// Domain is [10, 20]; zero lies one full span below the range start.
	if got[0].y != 325 || got[1].y != 175 || got[2].y != 25 {
		t.Fatalf("unexpected bar tops %+v", got)
	}
	if doc.Elements(ClassLabel)[0].Text != "" {
		t.Fatalf("expected empty label for null value")
	}
}

func TestRenderSingleValue(t *testing.T) {
	doc := surface.NewDocument()
	r := NewRenderer(doc)
	r.Render(points([]string{"a"}, 42), 100, 100)
	got := bars(doc)[0]
	if got.y != 75 || got.h != 50 {
		t.Fatalf("expected degenerate domain at range start, got %+v", got)
	}
}
