package surface

import (
	"bytes"
	"strings"
	"testing"

	"github.com/MitjaBezensek/chart/internal/format"
	"github.com/MitjaBezensek/chart/internal/model"
)

func TestJoinPositional(t *testing.T) {
	d := NewDocument()

	j := d.Join("bar", TagRect, []string{"a", "b", "c"}, model.ReconcilePositional)
	if j.Enter != 3 || j.Update != 0 || j.Exit != 0 {
		t.Fatalf("unexpected first join: %+v", j)
	}
	first := d.Elements("bar")
	for _, e := range first {
		if e.Tag != TagRect || e.Class != "bar" {
			t.Fatalf("unexpected element %+v", e)
		}
	}

	j = d.Join("bar", TagRect, []string{"c", "a"}, model.ReconcilePositional)
	if j.Enter != 0 || j.Update != 2 || j.Exit != 1 {
		t.Fatalf("unexpected second join: %+v", j)
	}
	got := d.Elements("bar")
	if len(got) != 2 || got[0] != first[0] || got[1] != first[1] {
		t.Fatalf("expected the first two elements to be reused by position")
	}
	if got[0].Key != "c" {
		t.Fatalf("expected positional element to take the new key, got %q", got[0].Key)
	}
}

func TestJoinKeyed(t *testing.T) {
	d := NewDocument()
	d.Join("bar", TagRect, []string{"a", "b", "c"}, model.ReconcileKeyed)
	before := map[string]*Element{}
	for _, e := range d.Elements("bar") {
		before[e.Key] = e
	}

	j := d.Join("bar", TagRect, []string{"c", "d", "a"}, model.ReconcileKeyed)
	if j.Enter != 1 || j.Update != 2 || j.Exit != 1 {
		t.Fatalf("unexpected keyed join: %+v", j)
	}
	if j.Elements[0] != before["c"] || j.Elements[2] != before["a"] {
		t.Fatalf("expected elements to follow their keys")
	}
	if j.Elements[1].Tag != TagRect || j.Elements[1].Key != "d" {
		t.Fatalf("unexpected entered element %+v", j.Elements[1])
	}
}

func TestJoinEmptyRemovesAll(t *testing.T) {
	d := NewDocument()
	d.Join("labels", TagText, []string{"a", "b"}, model.ReconcilePositional)
	j := d.Join("labels", TagText, nil, model.ReconcilePositional)
	if j.Exit != 2 || len(d.Elements("labels")) != 0 {
		t.Fatalf("expected all labels removed, got %+v", j)
	}
}

func TestResizeClamps(t *testing.T) {
	d := NewDocument()
	d.Resize(-4, 20)
	if w, h := d.Size(); w != 0 || h != 20 {
		t.Fatalf("expected 0x20, got %dx%d", w, h)
	}
}

func sampleDocument() *Document {
	d := NewDocument()
	d.Resize(100, 80)
	bars := d.Join("bar", TagRect, []string{"a", "b"}, model.ReconcilePositional)
	for i, e := range bars.Elements {
		e.X, e.Y, e.Width, e.Height, e.Fill = float64(10+40*i), 20, 30, 40, "black"
	}
	labels := d.Join("labels", TagText, []string{"a", "b"}, model.ReconcilePositional)
	for i, e := range labels.Elements {
		e.X, e.Y = float64(10+40*i), 10
		e.Font = format.Font{Family: "Segoe UI", Size: 12, Weight: "normal"}
	}
	labels.Elements[0].Text = "<1.5K>"
	labels.Elements[1].Text = "2.5K"
	return d
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleDocument().WriteSVG(&buf, nil); err != nil {
		t.Fatalf("write svg: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>") {
		t.Fatalf("unexpected svg document: %s", out)
	}
	if got := strings.Count(out, "<path"); got != 2 {
		t.Fatalf("expected 2 bar paths, got %d", got)
	}
	if got := strings.Count(out, "<text"); got != 2 {
		t.Fatalf("expected 2 labels, got %d", got)
	}
	if !strings.Contains(out, "&lt;1.5K&gt;") {
		t.Fatalf("expected escaped label text in %s", out)
	}
	if !strings.Contains(out, `viewBox="0 0 100 80"`) {
		t.Fatalf("expected document size in viewBox: %s", out)
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleDocument().WritePNG(&buf, nil); err != nil {
		t.Fatalf("write png: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("expected png signature")
	}

	if err := NewDocument().WritePNG(&buf, nil); err == nil {
		t.Fatalf("expected error for empty surface")
	}
}
