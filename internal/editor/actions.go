package editor

import (
	"fmt"

	"github.com/credify/editor/internal/geometry"
	"github.com/credify/editor/internal/layout"
)

// SetMode switches the active tool. Entering draw mode clears the
// selection.
func (s *Session) SetMode(m Mode) error {
	if m != ModeSelect && m != ModeDraw {
		return fmt.Errorf("%w: %q", ErrInvalidMode, m)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() {
		return ErrGestureActive
	}
	s.mode = m
	if m == ModeDraw {
		s.selectedID = ""
	}
	s.sync()
	return nil
}

// Select makes id the selected placeholder, e.g. from a list panel.
func (s *Session) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() {
		return ErrGestureActive
	}
	if s.history.Current().Index(id) < 0 {
		return ErrNotFound
	}
	s.mode = ModeSelect
	s.selectedID = id
	s.sync()
	return nil
}

// ClearSelection deselects without touching history.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() {
		return
	}
	s.selectedID = ""
	s.sync()
}

// Undo steps the history cursor back. Selection is cleared.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() {
		return false
	}
	ok := s.undoLocked()
	s.sync()
	return ok
}

// Redo steps the history cursor forward. Selection is cleared.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() {
		return false
	}
	ok := s.redoLocked()
	s.sync()
	return ok
}

func (s *Session) undoLocked() bool {
	if !s.history.Undo() {
		return false
	}
	s.selectedID = ""
	return true
}

func (s *Session) redoLocked() bool {
	if !s.history.Redo() {
		return false
	}
	s.selectedID = ""
	return true
}

// Delete removes id and commits.
func (s *Session) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() {
		return ErrGestureActive
	}
	if !s.deleteLocked(id) {
		return ErrNotFound
	}
	s.sync()
	return nil
}

func (s *Session) deleteLocked(id string) bool {
	doc, ok := s.history.Current().Delete(id)
	if !ok {
		return false
	}
	s.commit(doc, "delete")
	if s.selectedID == id {
		s.selectedID = ""
	}
	return true
}

// MoveLayer swaps id with its neighbour in stacking order. A move at the
// boundary is a no-op and commits nothing.
func (s *Session) MoveLayer(id string, dir layout.Direction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() {
		return false, ErrGestureActive
	}
	cur := s.history.Current()
	if cur.Index(id) < 0 {
		return false, ErrNotFound
	}
	doc, ok := cur.MoveLayer(id, dir)
	if !ok {
		return false, nil
	}
	s.commit(doc, "layer")
	s.sync()
	return true, nil
}

// UpdateProperties applies a property-panel patch to id. It reports false
// when the patch leaves the record unchanged.
func (s *Session) UpdateProperties(id string, patch layout.Patch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() {
		return false, ErrGestureActive
	}
	cur := s.history.Current()
	before, ok := cur.Find(id)
	if !ok {
		return false, ErrNotFound
	}
	after := patch.Apply(before)
	if after == before {
		return false, nil
	}
	doc, _ := cur.Replace(after)
	s.commit(doc, "properties")
	s.sync()
	return true, nil
}

// CycleAlign advances a text placeholder's alignment left, center, right.
func (s *Session) CycleAlign(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() {
		return false, ErrGestureActive
	}
	if s.history.Current().Index(id) < 0 {
		return false, ErrNotFound
	}
	changed := s.cycleAlignLocked(id)
	s.sync()
	return changed, nil
}

func (s *Session) cycleAlignLocked(id string) bool {
	cur := s.history.Current()
	ph, ok := cur.Find(id)
	if !ok || ph.Kind() != layout.TypeText {
		return false
	}
	ph.Align = ph.Align.Next()
	doc, _ := cur.Replace(ph)
	s.commit(doc, "align")
	return true
}

// Nudge moves id by a document-space offset.
func (s *Session) Nudge(id string, dx, dy float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() {
		return ErrGestureActive
	}
	if !s.nudgeLocked(id, dx, dy) {
		return ErrNotFound
	}
	s.sync()
	return nil
}

func (s *Session) nudgeLocked(id string, dx, dy float64) bool {
	doc, ok := s.history.Current().Update(id, func(p layout.Placeholder) layout.Placeholder {
		p.X += dx
		p.Y += dy
		return p
	})
	if !ok {
		return false
	}
	s.commit(doc, "nudge")
	return true
}

// InsertQRCode adds a QR placeholder at the visible center and selects it.
func (s *Session) InsertQRCode() (layout.Placeholder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() {
		return layout.Placeholder{}, ErrGestureActive
	}
	cur := s.history.Current()
	ph := layout.NewQRCode(s.newID(), layout.DefaultName(layout.TypeQRCode, len(cur)+1), s.insertionPoint())
	s.insertLocked(cur, ph, "insert qrcode")
	return ph, nil
}

// InsertImage adds an image placeholder for an already hosted url, sized
// from its natural dimensions.
func (s *Session) InsertImage(url string, naturalW, naturalH float64) (layout.Placeholder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.active() {
		return layout.Placeholder{}, ErrGestureActive
	}
	cur := s.history.Current()
	ph := layout.NewImage(s.newID(), layout.DefaultName(layout.TypeImage, len(cur)+1), url, s.insertionPoint(), naturalW, naturalH)
	s.insertLocked(cur, ph, "insert image")
	return ph, nil
}

func (s *Session) insertLocked(cur layout.Document, ph layout.Placeholder, reason string) {
	s.commit(cur.Append(ph), reason)
	s.mode = ModeSelect
	s.selectedID = ph.ID
	s.sync()
}

// insertionPoint is the document point at the center of the visible canvas,
// falling back to the template center before the host reports a size.
func (s *Session) insertionPoint() geometry.Point {
	if s.viewW > 0 && s.viewH > 0 {
		return geometry.ScreenToDocument(geometry.Point{X: s.viewW / 2, Y: s.viewH / 2}, s.viewport)
	}
	if s.template.Width > 0 && s.template.Height > 0 {
		return geometry.Point{X: s.template.Width / 2, Y: s.template.Height / 2}
	}
	return geometry.Point{X: DefaultContainerWidth / 2, Y: DefaultContainerWidth / 2}
}
