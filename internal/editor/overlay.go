package editor

import (
	"github.com/credify/editor/internal/geometry"
	"github.com/credify/editor/internal/layout"
)

// Overlay geometry. HandleOffset is in the entity's local units, the hit
// radii are screen pixels.
const (
	HandleOffset    = 35.0
	HandleHitRadius = 12.0
	AnchorHitRadius = 8.0
)

// RotateHandle is the rotation control drawn above the selected entity,
// in canvas-relative screen coordinates.
type RotateHandle struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// AnchorPoint is one resize handle in screen coordinates.
type AnchorPoint struct {
	Anchor Anchor  `json:"anchor"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// syncOverlay positions the rotate handle, the resize anchors and the
// selection frame from the selected entity's live absolute transform.
func (s *Session) syncOverlay(doc layout.Document) {
	s.handle = nil
	s.anchors = nil
	s.frame = nil
	if s.selectedID == "" || s.mode != ModeSelect {
		return
	}
	ph, ok := doc.Find(s.selectedID)
	if !ok {
		return
	}
	m, ok := s.scene.AbsoluteTransform(s.selectedID)
	if !ok {
		return
	}

	frame := s.scene.Bounds(s.selectedID)
	s.frame = &frame

	pt := m.Apply(geometry.Point{X: ph.W / 2, Y: -HandleOffset})
	s.handle = &RotateHandle{X: pt.X, Y: pt.Y, Angle: ph.Rotation}

	s.anchors = make([]AnchorPoint, 0, len(Anchors))
	for _, a := range Anchors {
		ap := m.Apply(a.Local(ph.W, ph.H))
		s.anchors = append(s.anchors, AnchorPoint{Anchor: a, X: ap.X, Y: ap.Y})
	}
}
