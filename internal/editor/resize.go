package editor

import (
	"strings"

	"github.com/credify/editor/internal/geometry"
	"github.com/credify/editor/internal/layout"
)

// Anchor names a resize handle on the selected box.
type Anchor string

const (
	AnchorTopLeft      Anchor = "top-left"
	AnchorTopCenter    Anchor = "top-center"
	AnchorTopRight     Anchor = "top-right"
	AnchorMiddleLeft   Anchor = "middle-left"
	AnchorMiddleRight  Anchor = "middle-right"
	AnchorBottomLeft   Anchor = "bottom-left"
	AnchorBottomCenter Anchor = "bottom-center"
	AnchorBottomRight  Anchor = "bottom-right"
)

// Anchors lists the eight enabled resize handles.
var Anchors = []Anchor{
	AnchorTopLeft, AnchorTopCenter, AnchorTopRight,
	AnchorMiddleLeft, AnchorMiddleRight,
	AnchorBottomLeft, AnchorBottomCenter, AnchorBottomRight,
}

func (a Anchor) left() bool   { return strings.HasSuffix(string(a), "-left") }
func (a Anchor) right() bool  { return strings.HasSuffix(string(a), "-right") }
func (a Anchor) top() bool    { return strings.HasPrefix(string(a), "top-") }
func (a Anchor) bottom() bool { return strings.HasPrefix(string(a), "bottom-") }

// Local returns the anchor position in a w×h box's local space.
func (a Anchor) Local(w, h float64) geometry.Point {
	p := geometry.Point{X: w / 2, Y: h / 2}
	switch {
	case a.left():
		p.X = 0
	case a.right():
		p.X = w
	}
	switch {
	case a.top():
		p.Y = 0
	case a.bottom():
		p.Y = h
	}
	return p
}

// resize moves the edges controlled by anchor by a document-space pointer
// delta, measured in the box's rotated frame. The opposite edges stay put.
// It reports false when the result would break the minimum size.
func resize(start layout.Placeholder, anchor Anchor, delta geometry.Point) (layout.Placeholder, bool) {
	d := geometry.RotateDegrees(-start.Rotation).ApplyVector(delta)

	l, t := -start.W/2, -start.H/2
	r, b := start.W/2, start.H/2
	if anchor.left() {
		l += d.X
	}
	if anchor.right() {
		r += d.X
	}
	if anchor.top() {
		t += d.Y
	}
	if anchor.bottom() {
		b += d.Y
	}

	w, h := r-l, b-t
	if !geometry.Finite(w, h) || w < layout.MinWidth || h < layout.MinHeight {
		return start, false
	}

	shift := geometry.RotateDegrees(start.Rotation).ApplyVector(geometry.Point{X: (l + r) / 2, Y: (t + b) / 2})
	out := start
	out.X = start.X + shift.X
	out.Y = start.Y + shift.Y
	out.W = w
	out.H = h
	if !geometry.Finite(out.X, out.Y) {
		return start, false
	}
	return out, true
}
