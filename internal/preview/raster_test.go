package preview

import (
	"testing"

	"github.com/MitjaBezensek/chart/internal/surface"
)

func TestRasterizePlacesBarsAndLabels(t *testing.T) {
	elements := []*surface.Element{
		{Tag: surface.TagText, X: 24, Y: 40, Text: "ab"},
		{Tag: surface.TagRect, X: 0, Y: 0, Width: 16, Height: 32},
	}
	lines := Rasterize(elements, 5, 3, 8, 16).Lines()
	want := []string{"██", "██", "   ab"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestRasterizeLabelsOverBars(t *testing.T) {
	elements := []*surface.Element{
		{Tag: surface.TagText, X: 0, Y: 0, Text: "9"},
		{Tag: surface.TagRect, X: 0, Y: 0, Width: 24, Height: 16},
	}
	lines := Rasterize(elements, 3, 1, 8, 16).Lines()
	if lines[0] != "9██" {
		t.Fatalf("expected label painted over bar, got %q", lines[0])
	}
}

func TestRasterizeClipsText(t *testing.T) {
	elements := []*surface.Element{
		{Tag: surface.TagText, X: 8, Y: 100, Text: "日本語"},
	}
	lines := Rasterize(elements, 6, 2, 8, 16).Lines()
	// Row is clamped to the last line; the third wide rune does not fit.
	if lines[1] != " 日本" {
		t.Fatalf("unexpected clipped line %q", lines[1])
	}
}

func TestRasterizeSkipsEmptyShapes(t *testing.T) {
	elements := []*surface.Element{
		{Tag: surface.TagRect, X: 0, Y: 0, Width: 0, Height: 16},
		{Tag: surface.TagText, X: 0, Y: 0},
	}
	for _, line := range Rasterize(elements, 4, 2, 8, 16).Lines() {
		if line != "" {
			t.Fatalf("expected blank raster, got %q", line)
		}
	}
	if lines := Rasterize(nil, 0, 0, 8, 16).Lines(); len(lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(lines))
	}
}
