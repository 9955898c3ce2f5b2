// Package surface holds the retained set of drawn elements and reconciles it
// against each new render pass.
package surface

import (
	"github.com/MitjaBezensek/chart/internal/format"
	"github.com/MitjaBezensek/chart/internal/model"
)

// Element tags.
const (
	TagRect = "rect"
	TagText = "text"
)

// Element is one drawn shape. Rect elements use the geometry and Fill; text
// elements use X, Y, Text and Font.
type Element struct {
	Tag   string
	Class string
	Key   string

	X      float64
	Y      float64
	Width  float64
	Height float64
	Fill   string

	Text string
	Font format.Font
}

// Join reports the outcome of reconciling a class of elements against a new
// key sequence.
type Join struct {
	Enter  int
	Update int
	Exit   int
	// Elements holds one element per key, in key order.
	Elements []*Element
}

// Surface is the drawing capability the chart renders into.
type Surface interface {
	Resize(width, height int)
	Size() (width, height int)
	Join(class, tag string, keys []string, mode string) Join
	Elements(class string) []*Element
}

// Document is an in-memory Surface. It is not safe for concurrent use.
type Document struct {
	width   int
	height  int
	classes []string
	byClass map[string][]*Element
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{byClass: map[string][]*Element{}}
}

// Resize sets the document dimensions. Negative sizes are clamped to zero.
func (d *Document) Resize(width, height int) {
	d.width = max(width, 0)
	d.height = max(height, 0)
}

// Size returns the document dimensions.
func (d *Document) Size() (int, int) {
	return d.width, d.height
}

// Elements returns the elements of class in paint order.
func (d *Document) Elements(class string) []*Element {
	return append([]*Element(nil), d.byClass[class]...)
}

// All returns every element in paint order.
func (d *Document) All() []*Element {
	var all []*Element
	for _, class := range d.classes {
		all = append(all, d.byClass[class]...)
	}
	return all
}

// Join reconciles the elements of class with keys. In keyed mode an
// existing element is reused for the key it was last drawn for; otherwise
// elements are matched to keys by position. Unmatched elements are removed
// and missing ones are created with the given tag.
func (d *Document) Join(class, tag string, keys []string, mode string) Join {
	if _, ok := d.byClass[class]; !ok {
		d.classes = append(d.classes, class)
	}
	existing := d.byClass[class]

	var j Join
	if mode == model.ReconcileKeyed {
		j = joinKeyed(existing, keys)
	} else {
		j = joinPositional(existing, keys)
	}
	for _, e := range j.Elements {
		if e.Tag == "" {
			e.Tag = tag
			e.Class = class
		}
	}
	d.byClass[class] = j.Elements
	return Join{Enter: j.Enter, Update: j.Update, Exit: j.Exit, Elements: append([]*Element(nil), j.Elements...)}
}

func joinPositional(existing []*Element, keys []string) Join {
	j := Join{Elements: make([]*Element, len(keys))}
	for i, key := range keys {
		if i < len(existing) {
			j.Elements[i] = existing[i]
			j.Update++
		} else {
			j.Elements[i] = &Element{}
			j.Enter++
		}
		j.Elements[i].Key = key
	}
	if len(existing) > len(keys) {
		j.Exit = len(existing) - len(keys)
	}
	return j
}

func joinKeyed(existing []*Element, keys []string) Join {
	free := map[string][]*Element{}
	for _, e := range existing {
		free[e.Key] = append(free[e.Key], e)
	}
	j := Join{Elements: make([]*Element, len(keys))}
	for i, key := range keys {
		if candidates := free[key]; len(candidates) > 0 {
			j.Elements[i] = candidates[0]
			free[key] = candidates[1:]
			j.Update++
			continue
		}
		j.Elements[i] = &Element{Key: key}
		j.Enter++
	}
	for _, left := range free {
		j.Exit += len(left)
	}
	return j
}
