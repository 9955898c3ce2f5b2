package surface

import (
	"fmt"
	"html"
	"io"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// paintDPI makes one font point equal one pixel.
const paintDPI = 72

// paint draws every element onto r. Text is drawn with font, or with the
// go-chart default font when font is nil.
func (d *Document) paint(r chart.Renderer, font *truetype.Font, escape func(string) string) error {
	if font == nil {
		var err error
		font, err = chart.GetDefaultFont()
		if err != nil {
			return fmt.Errorf("failed to load default font: %w", err)
		}
	}
	r.SetDPI(paintDPI)
	for _, e := range d.All() {
		r.ResetStyle()
		switch e.Tag {
		case TagRect:
			paintRect(r, e)
		case TagText:
			if e.Text == "" {
				continue
			}
			r.SetFont(font)
			r.SetFontSize(e.Font.Size)
			r.SetFontColor(drawing.ColorBlack)
			r.Text(escape(e.Text), int(e.X), int(e.Y))
		}
	}
	return nil
}

func noEscape(s string) string {
	return s
}

func paintRect(r chart.Renderer, e *Element) {
	if e.Width == 0 || e.Height == 0 {
		return
	}
	fill := drawing.ParseColor(e.Fill)
	if fill.IsZero() {
		fill = drawing.ColorBlack
	}
	x0, y0 := int(e.X), int(e.Y)
	x1, y1 := int(e.X+e.Width), int(e.Y+e.Height)
	r.SetFillColor(fill)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.Fill()
}

// WriteSVG paints the document as an SVG image.
func (d *Document) WriteSVG(w io.Writer, font *truetype.Font) error {
	r, err := chart.SVG(d.width, d.height)
	if err != nil {
		return fmt.Errorf("failed to create svg renderer: %w", err)
	}
	if err := d.paint(r, font, html.EscapeString); err != nil {
		return err
	}
	if err := r.Save(w); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

// WritePNG paints the document as a PNG image on a white background.
func (d *Document) WritePNG(w io.Writer, font *truetype.Font) error {
	if d.width == 0 || d.height == 0 {
		return fmt.Errorf("failed to create png renderer: empty surface %dx%d", d.width, d.height)
	}
	r, err := chart.PNG(d.width, d.height)
	if err != nil {
		return fmt.Errorf("failed to create png renderer: %w", err)
	}
	paintRect(r, &Element{Width: float64(d.width), Height: float64(d.height), Fill: "white"})
	if err := d.paint(r, font, noEscape); err != nil {
		return err
	}
	if err := r.Save(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}
