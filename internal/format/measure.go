package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Font describes the text properties used for measuring.
type Font struct {
	Family string
	Size   float64
	Weight string
}

// TextMeasurer reports the rendered width of text in pixels.
type TextMeasurer interface {
	Measure(text string, f Font) float64
}

// MeasureTextWidth measures text with the given font size, family and weight.
func MeasureTextWidth(m TextMeasurer, text string, fontSize float64, fontFamily, fontWeight string) float64 {
	return m.Measure(text, Font{Family: fontFamily, Size: fontSize, Weight: fontWeight})
}

const measureDPI = 72

type fontFamily struct {
	regular *truetype.Font
	bold    *truetype.Font
}

type faceKey struct {
	font *truetype.Font
	size float64
}

// FontMeasurer measures text with TrueType metrics. Unknown families fall
// back to Go Regular. It is not safe for concurrent use.
type FontMeasurer struct {
	families map[string]fontFamily
	fallback fontFamily
	faces    map[faceKey]font.Face
}

// NewFontMeasurer returns a measurer with the Go font families registered.
func NewFontMeasurer() (*FontMeasurer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go bold font: %w", err)
	}
	mono, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go mono font: %w", err)
	}
	monoBold, err := truetype.Parse(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go mono bold font: %w", err)
	}
	m := &FontMeasurer{
		families: map[string]fontFamily{},
		fallback: fontFamily{regular: regular, bold: bold},
		faces:    map[faceKey]font.Face{},
	}
	m.Register("Go", regular, bold)
	m.Register("Go Mono", mono, monoBold)
	m.Register("monospace", mono, monoBold)
	return m, nil
}

// Register maps a family name to fonts. bold may be nil.
func (m *FontMeasurer) Register(family string, regular, bold *truetype.Font) {
	if bold == nil {
		bold = regular
	}
	m.families[normalizeFamily(family)] = fontFamily{regular: regular, bold: bold}
}

// Measure implements TextMeasurer.
func (m *FontMeasurer) Measure(text string, f Font) float64 {
	if text == "" || f.Size <= 0 {
		return 0
	}
	family, ok := m.families[normalizeFamily(f.Family)]
	if !ok {
		family = m.fallback
	}
	ttf := family.regular
	if isBold(f.Weight) {
		ttf = family.bold
	}
	key := faceKey{font: ttf, size: f.Size}
	face, ok := m.faces[key]
	if !ok {
		face = truetype.NewFace(ttf, &truetype.Options{Size: f.Size, DPI: measureDPI})
		m.faces[key] = face
	}
	return float64(font.MeasureString(face, text)) / 64
}

func normalizeFamily(family string) string {
	family = strings.TrimSpace(strings.ToLower(family))
	return strings.Trim(family, `"'`)
}

func isBold(weight string) bool {
	weight = strings.TrimSpace(strings.ToLower(weight))
	switch weight {
	case "bold", "bolder":
		return true
	}
	n, err := strconv.Atoi(weight)
	return err == nil && n >= 600
}

// CellMeasurer measures text in terminal cells scaled to pixels.
type CellMeasurer struct {
	CellWidth float64
}

// Measure implements TextMeasurer. The font is ignored.
func (m CellMeasurer) Measure(text string, _ Font) float64 {
	return float64(runewidth.StringWidth(text)) * m.CellWidth
}
