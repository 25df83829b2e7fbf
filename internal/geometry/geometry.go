// Package geometry holds the coordinate math of the placement editor:
// affine matrices, document/screen conversion through the pan/zoom
// viewport, and box normalization. Everything here is pure.
package geometry

import "math"

// MinScale is the smallest view scale the viewport will divide by.
const MinScale = 1e-6

// Point is a 2D point or vector.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Finite reports whether both coordinates are real numbers.
func (p Point) Finite() bool { return Finite(p.X, p.Y) }

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Rect is an axis-aligned box anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Corners returns the corners clockwise from top-left.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
}

// NormalizeBox turns a box dragged in any direction (negative width or
// height) into one with non-negative size anchored at its top-left.
func NormalizeBox(x, y, w, h float64) Rect {
	if w < 0 {
		x += w
		w = -w
	}
	if h < 0 {
		y += h
		h = -h
	}
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Viewport is the pan/zoom transform between document and screen space:
// screen = doc*Scale + Pan.
type Viewport struct {
	PanX  float64 `json:"panX"`
	PanY  float64 `json:"panY"`
	Scale float64 `json:"scale"`
}

// DefaultViewport is the unpanned 1:1 view.
func DefaultViewport() Viewport {
	return Viewport{Scale: 1}
}

// EffectiveScale returns Scale clamped to MinScale.
func (v Viewport) EffectiveScale() float64 {
	if v.Scale < MinScale || math.IsNaN(v.Scale) {
		return MinScale
	}
	return v.Scale
}

// Pan returns the pan offset as a point.
func (v Viewport) Pan() Point {
	return Point{v.PanX, v.PanY}
}

// Matrix returns the document-to-screen matrix.
func (v Viewport) Matrix() Matrix2D {
	s := v.EffectiveScale()
	return Matrix2D{s, 0, 0, s, v.PanX, v.PanY}
}

// ScreenToDocument inverts the viewport: doc = (screen - pan) / scale.
func ScreenToDocument(screen Point, v Viewport) Point {
	s := v.EffectiveScale()
	return Point{(screen.X - v.PanX) / s, (screen.Y - v.PanY) / s}
}

// DocumentToScreen applies the viewport: screen = doc*scale + pan.
func DocumentToScreen(doc Point, v Viewport) Point {
	s := v.EffectiveScale()
	return Point{doc.X*s + v.PanX, doc.Y*s + v.PanY}
}

// ZoomAt rescales v to newScale while keeping the document point under
// cursor on the same screen pixel.
func ZoomAt(v Viewport, cursor Point, newScale float64) Viewport {
	anchor := ScreenToDocument(cursor, v)
	out := Viewport{Scale: newScale}
	s := out.EffectiveScale()
	out.Scale = s
	out.PanX = cursor.X - anchor.X*s
	out.PanY = cursor.Y - anchor.Y*s
	return out
}

// AngleDegrees returns the angle of p around center in degrees, measured
// from the positive x axis, clockwise on screen.
func AngleDegrees(center, p Point) float64 {
	return Degrees(math.Atan2(p.Y-center.Y, p.X-center.X))
}
