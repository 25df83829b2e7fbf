package editor

import (
	"math"

	"github.com/credify/editor/internal/geometry"
)

// Zoom steps.
const (
	WheelZoomFactor  = 1.05
	ButtonZoomFactor = 1.1
	MinZoom          = 0.05
	MaxZoom          = 20.0
)

// Wheel zooms about the cursor. A negative deltaY (wheel up) zooms in.
// The document point under the cursor stays fixed on screen.
func (s *Session) Wheel(cursor geometry.Point, deltaY float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if deltaY == 0 || math.IsNaN(deltaY) || !cursor.Finite() || s.gesture.active() {
		return
	}
	factor := WheelZoomFactor
	if deltaY > 0 {
		factor = 1 / WheelZoomFactor
	}
	zoom := clampZoom(s.zoom * factor)
	if zoom == s.zoom {
		return
	}
	vp := geometry.ZoomAt(s.viewport, cursor, s.baseScale*zoom)
	if !vp.Pan().Finite() {
		return
	}
	s.zoom = zoom
	s.viewport = vp
	s.sync()
}

// ZoomIn scales up by the button step, keeping the pan offset.
func (s *Session) ZoomIn() { s.zoomBy(ButtonZoomFactor) }

// ZoomOut scales down by the button step, keeping the pan offset.
func (s *Session) ZoomOut() { s.zoomBy(1 / ButtonZoomFactor) }

func (s *Session) zoomBy(factor float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() {
		return
	}
	s.zoom = clampZoom(s.zoom * factor)
	s.viewport.Scale = s.baseScale * s.zoom
	s.sync()
}

// ResetView restores unit zoom and zero pan.
func (s *Session) ResetView() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() {
		return
	}
	s.zoom = 1
	s.viewport = geometry.Viewport{Scale: s.baseScale}
	s.sync()
}

func clampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
