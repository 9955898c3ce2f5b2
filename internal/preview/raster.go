package preview

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/MitjaBezensek/chart/internal/surface"
)

const barRune = '█'

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellBar
	cellLabel
	// cellCont is the trailing half of a wide rune.
	cellCont
)

// Raster is a grid of terminal cells painted from surface elements.
type Raster struct {
	runes [][]rune
	kinds [][]cellKind
}

// Rasterize paints elements onto a cols x rows grid where one cell covers
// cellW x cellH pixels. Bars are painted first so labels stay readable.
func Rasterize(elements []*surface.Element, cols, rows int, cellW, cellH float64) *Raster {
	cols, rows = max(cols, 0), max(rows, 0)
	r := &Raster{runes: make([][]rune, rows), kinds: make([][]cellKind, rows)}
	for i := range r.runes {
		r.runes[i] = []rune(strings.Repeat(" ", cols))
		r.kinds[i] = make([]cellKind, cols)
	}
	if cellW <= 0 || cellH <= 0 {
		return r
	}
	for _, e := range elements {
		if e.Tag == surface.TagRect {
			r.fillRect(e, cellW, cellH)
		}
	}
	for _, e := range elements {
		if e.Tag == surface.TagText {
			r.writeText(e, cellW, cellH)
		}
	}
	return r
}

func (r *Raster) fillRect(e *surface.Element, cellW, cellH float64) {
	if e.Width <= 0 || e.Height <= 0 {
		return
	}
	c0 := int(math.Floor(e.X / cellW))
	c1 := max(int(math.Floor((e.X+e.Width)/cellW)), c0+1)
	r0 := int(math.Floor(e.Y / cellH))
	r1 := max(int(math.Ceil((e.Y+e.Height)/cellH)), r0+1)
	for row := max(r0, 0); row < min(r1, len(r.runes)); row++ {
		for col := max(c0, 0); col < min(c1, len(r.runes[row])); col++ {
			r.runes[row][col] = barRune
			r.kinds[row][col] = cellBar
		}
	}
}

func (r *Raster) writeText(e *surface.Element, cellW, cellH float64) {
	if e.Text == "" || len(r.runes) == 0 {
		return
	}
	row := min(max(int(math.Floor(e.Y/cellH)), 0), len(r.runes)-1)
	col := int(math.Floor(e.X / cellW))
	line := r.runes[row]
	for _, ch := range e.Text {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if col+w > len(line) {
			return
		}
		if col >= 0 {
			line[col] = ch
			r.kinds[row][col] = cellLabel
			for i := 1; i < w; i++ {
				line[col+i] = 0
				r.kinds[row][col+i] = cellCont
			}
		}
		col += w
	}
}

// Lines returns the grid as text with trailing blanks removed.
func (r *Raster) Lines() []string {
	return r.render(func(_ cellKind, s string) string { return s })
}

func (r *Raster) render(style func(cellKind, string) string) []string {
	lines := make([]string, len(r.runes))
	for row, runes := range r.runes {
		var b strings.Builder
		var run []rune
		kind := cellEmpty
		flush := func() {
			if len(run) > 0 {
				b.WriteString(style(kind, string(run)))
				run = run[:0]
			}
		}
		for col, ch := range runes {
			k := r.kinds[row][col]
			if k == cellCont {
				continue
			}
			if k != kind {
				flush()
				kind = k
			}
			run = append(run, ch)
		}
		if kind != cellEmpty {
			flush()
		}
		lines[row] = strings.TrimRight(b.String(), " ")
	}
	return lines
}
