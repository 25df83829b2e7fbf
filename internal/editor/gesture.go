package editor

import (
	"math"

	"github.com/credify/editor/internal/geometry"
	"github.com/credify/editor/internal/layout"
)

// GestureKind is the sub-state of an active pointer gesture.
type GestureKind string

const (
	GestureIdle     GestureKind = "idle"
	GestureDrawing  GestureKind = "drawing"
	GestureDragging GestureKind = "dragging-entity"
	GestureResizing GestureKind = "resizing-entity"
	GestureRotating GestureKind = "rotating-entity"
	GesturePanning  GestureKind = "panning"
)

// gesture is the context of the one pointer gesture that may be active.
// It is read fresh on every event and folded into at most one commit on
// release.
type gesture struct {
	kind GestureKind

	// Entity gestures: the pre-gesture record and the working copy.
	start layout.Placeholder
	live  layout.Placeholder

	startScreen geometry.Point
	startDoc    geometry.Point

	anchor Anchor

	center     geometry.Point
	startAngle float64

	startPan geometry.Viewport

	// Drawing: anchor point plus signed size.
	draft geometry.Rect
}

func (g gesture) active() bool {
	return g.kind != "" && g.kind != GestureIdle
}

func (g gesture) transformsEntity() bool {
	switch g.kind {
	case GestureDragging, GestureResizing, GestureRotating:
		return true
	}
	return false
}

// PointerDown starts a gesture at a canvas-relative screen point. It is
// ignored while another gesture is active.
func (s *Session) PointerDown(p geometry.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() || !p.Finite() {
		return
	}
	defer s.sync()

	t := s.resolveTarget(p)

	if s.mode == ModeDraw {
		if t.kind == targetEntity {
			return
		}
		s.selectedID = ""
		doc := geometry.ScreenToDocument(p, s.viewport)
		s.gesture = gesture{
			kind:        GestureDrawing,
			startScreen: p,
			startDoc:    doc,
			draft:       geometry.Rect{X: doc.X, Y: doc.Y},
		}
		return
	}

	switch t.kind {
	case targetRotateHandle:
		s.beginRotate(p)
	case targetAnchor:
		s.beginEntityGesture(GestureResizing, p)
		s.gesture.anchor = t.anchor
	case targetEntity:
		s.selectedID = t.id
		s.beginEntityGesture(GestureDragging, p)
	default:
		if s.selectedID != "" {
			s.selectedID = ""
			return
		}
		s.gesture = gesture{
			kind:        GesturePanning,
			startScreen: p,
			startPan:    s.viewport,
		}
	}
}

func (s *Session) beginEntityGesture(kind GestureKind, p geometry.Point) {
	ph, ok := s.history.Current().Find(s.selectedID)
	if !ok {
		return
	}
	s.gesture = gesture{
		kind:        kind,
		start:       ph,
		live:        ph,
		startScreen: p,
		startDoc:    geometry.ScreenToDocument(p, s.viewport),
	}
}

func (s *Session) beginRotate(p geometry.Point) {
	s.beginEntityGesture(GestureRotating, p)
	if s.gesture.kind != GestureRotating {
		return
	}
	center := geometry.DocumentToScreen(s.gesture.start.Center(), s.viewport)
	if m, ok := s.scene.AbsoluteTransform(s.selectedID); ok {
		center = m.Apply(geometry.Point{X: s.gesture.start.W / 2, Y: s.gesture.start.H / 2})
	}
	s.gesture.center = center
	s.gesture.startAngle = geometry.AngleDegrees(center, p)
}

// PointerMove advances the active gesture. Only the transient working
// state changes; nothing reaches history until release.
func (s *Session) PointerMove(p geometry.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gesture.active() || !p.Finite() {
		return
	}
	s.moveLocked(p)
	s.sync()
}

// moveLocked advances the gesture to p. A position that would leave the
// finite range is dropped and the last valid frame is kept.
func (s *Session) moveLocked(p geometry.Point) {
	g := &s.gesture
	switch g.kind {
	case GestureDrawing:
		doc := geometry.ScreenToDocument(p, s.viewport)
		w, h := doc.X-g.draft.X, doc.Y-g.draft.Y
		if geometry.Finite(w, h) {
			g.draft.Width, g.draft.Height = w, h
		}
	case GestureDragging:
		delta := geometry.ScreenToDocument(p, s.viewport).Sub(g.startDoc)
		x, y := g.start.X+delta.X, g.start.Y+delta.Y
		if geometry.Finite(x, y) {
			g.live.X, g.live.Y = x, y
		}
	case GestureResizing:
		delta := geometry.ScreenToDocument(p, s.viewport).Sub(g.startDoc)
		if next, ok := resize(g.start, g.anchor, delta); ok {
			g.live = next
		}
	case GestureRotating:
		angle := geometry.AngleDegrees(g.center, p)
		if rot := g.start.Rotation + (angle - g.startAngle); geometry.Finite(rot) {
			g.live.Rotation = rot
		}
	case GesturePanning:
		pan := g.startPan.Pan().Add(p.Sub(g.startScreen))
		if pan.Finite() {
			s.viewport.PanX, s.viewport.PanY = pan.X, pan.Y
		}
	}
}

// PointerUp finishes the active gesture, committing at most one snapshot.
func (s *Session) PointerUp(p geometry.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gesture.active() {
		return
	}
	if p.Finite() {
		s.moveLocked(p)
	}
	g := s.gesture
	s.gesture = gesture{}

	switch g.kind {
	case GestureDrawing:
		s.finishDraw(g.draft)
	case GestureDragging:
		s.commitLive(g, "drag")
	case GestureResizing:
		g.live = g.live.ClampSize()
		s.commitLive(g, "resize")
	case GestureRotating:
		s.commitLive(g, "rotate")
	}
	s.sync()
}

// CancelGesture drops the active gesture without committing.
func (s *Session) CancelGesture() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Session) cancelLocked() bool {
	if !s.gesture.active() {
		return false
	}
	if s.gesture.kind == GesturePanning {
		s.viewport = s.gesture.startPan
	}
	s.gesture = gesture{}
	s.sync()
	return true
}

func (s *Session) finishDraw(draft geometry.Rect) {
	if !geometry.Finite(draft.Width, draft.Height) ||
		math.Abs(draft.Width) < layout.MinDrawSize || math.Abs(draft.Height) < layout.MinDrawSize {
		return
	}
	box := geometry.NormalizeBox(draft.X, draft.Y, draft.Width, draft.Height)
	doc := s.history.Current()
	ph := layout.NewText(s.newID(), layout.DefaultName(layout.TypeText, len(doc)+1), box)
	if ph.Validate() != nil {
		return
	}
	s.commit(doc.Append(ph), "draw")
	s.selectedID = ph.ID
	s.mode = ModeSelect
}

// commitLive folds an entity gesture into the current document. The
// document is read at release time so commits that landed meanwhile
// (upload completions) are kept.
func (s *Session) commitLive(g gesture, reason string) {
	if g.live == g.start {
		return
	}
	doc, ok := s.history.Current().Update(g.start.ID, func(p layout.Placeholder) layout.Placeholder {
		p.X, p.Y = g.live.X, g.live.Y
		p.W, p.H = g.live.W, g.live.H
		p.Rotation = g.live.Rotation
		return p
	})
	if !ok {
		return
	}
	s.commit(doc, reason)
}

// DoubleClick cycles the alignment of a text placeholder under p.
func (s *Session) DoubleClick(p geometry.Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() || s.mode != ModeSelect || !p.Finite() {
		return false
	}
	t := s.resolveTarget(p)
	if t.kind != targetEntity {
		return false
	}
	changed := s.cycleAlignLocked(t.id)
	s.sync()
	return changed
}

type targetKind int

const (
	targetEmpty targetKind = iota
	targetEntity
	targetRotateHandle
	targetAnchor
)

type target struct {
	kind   targetKind
	id     string
	anchor Anchor
}

// resolveTarget hit-tests overlay controls of the selection first, then
// placeholders from the top of the stack down.
func (s *Session) resolveTarget(p geometry.Point) target {
	if s.mode == ModeSelect && s.selectedID != "" {
		if s.handle != nil && p.Dist(geometry.Point{X: s.handle.X, Y: s.handle.Y}) <= HandleHitRadius {
			return target{kind: targetRotateHandle, id: s.selectedID}
		}
		best := AnchorHitRadius
		var hit *AnchorPoint
		for i := range s.anchors {
			a := &s.anchors[i]
			if d := p.Dist(geometry.Point{X: a.X, Y: a.Y}); d <= best {
				best = d
				hit = a
			}
		}
		if hit != nil {
			return target{kind: targetAnchor, id: s.selectedID, anchor: hit.Anchor}
		}
	}
	if id := s.scene.HitTest(p); id != "" {
		return target{kind: targetEntity, id: id}
	}
	return target{kind: targetEmpty}
}
