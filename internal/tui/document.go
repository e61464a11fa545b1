package tui

import (
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/manas300/portfolio/internal/viewctl"
)

// anchor is a section's line range in the rendered body, end exclusive.
type anchor struct {
	start, end int
}

// document adapts the scrolling viewport to viewctl.Viewport. One terminal
// row counts as unit viewport units so the controller's pixel-scale
// thresholds keep their meaning.
type document struct {
	vp      viewport.Model
	anchors map[string]anchor
	unit    float64
}

func newDocument(unit float64) *document {
	return &document{
		vp:      viewport.New(0, 0),
		anchors: map[string]anchor{},
		unit:    unit,
	}
}

func (d *document) ScrollY() float64 {
	return float64(d.vp.YOffset) * d.unit
}

func (d *document) SectionRect(id string) (viewctl.Rect, bool) {
	a, ok := d.anchors[id]
	if !ok {
		return viewctl.Rect{}, false
	}
	off := d.vp.YOffset
	return viewctl.Rect{
		Top:    float64(a.start-off) * d.unit,
		Bottom: float64(a.end-off) * d.unit,
	}, true
}

// ScrollIntoView jumps straight to the anchor; a terminal has no easing.
func (d *document) ScrollIntoView(id string, _ viewctl.Behavior) bool {
	a, ok := d.anchors[id]
	if !ok {
		return false
	}
	d.vp.SetYOffset(a.start)
	return true
}

func (d *document) ScrollTo(y float64, _ viewctl.Behavior) {
	d.vp.SetYOffset(int(y / d.unit))
}
