package dataset

import (
	"bytes"
	"testing"

	"github.com/MitjaBezensek/chart/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Category", "Label"}
	rows := [][]string{
		{"a", "1.50K"},
		{"日本", "10.00"},
	}

	lines := FormatTable(headers, rows, map[int]bool{1: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Category Label" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a        1.50K" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "日本     10.00" {
		t.Fatalf("unexpected wide row line: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := FormatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil, got %q", lines)
	}
}

func TestWritePoints(t *testing.T) {
	var buf bytes.Buffer
	points := []model.DataPoint{
		{Value: 1500, Valid: true, Category: "a", Label: "1.50K", LabelWidth: 30},
		{Category: "b"},
	}
	if err := WritePoints(&buf, points); err != nil {
		t.Fatalf("write points: %v", err)
	}
	want := "Category Value Label Width\n" +
		"a         1500 1.50K  30.0\n" +
		"b         null         0.0\n"
	if buf.String() != want {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
}
