package editor

import "strings"

// Nudge distances in document units.
const (
	NudgeStep      = 1.0
	NudgeStepLarge = 10.0
)

// KeyEvent is a key press with its modifier state. Key uses DOM key names
// ("Escape", "Delete", "ArrowLeft", "z").
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
	Shift bool   `json:"shift,omitempty"`
	Alt   bool   `json:"alt,omitempty"`
}

func (e KeyEvent) primary() bool { return e.Ctrl || e.Meta }

// Key handles a keyboard shortcut and reports whether it was consumed, so
// the host can suppress the default action. Nothing is consumed while a
// text input has focus. During a gesture only Escape (cancel) applies.
func (s *Session) Key(ev KeyEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inputFocused {
		return false
	}
	if s.gesture.active() {
		if ev.Key == "Escape" {
			return s.cancelLocked()
		}
		return false
	}

	key := strings.ToLower(ev.Key)
	switch {
	case ev.Key == "Escape":
		s.selectedID = ""
	case ev.Key == "Delete" || ev.Key == "Backspace":
		if s.selectedID == "" {
			return false
		}
		s.deleteLocked(s.selectedID)
	case strings.HasPrefix(ev.Key, "Arrow"):
		if s.selectedID == "" {
			return false
		}
		step := NudgeStep
		if ev.Shift {
			step = NudgeStepLarge
		}
		var dx, dy float64
		switch ev.Key {
		case "ArrowLeft":
			dx = -step
		case "ArrowRight":
			dx = step
		case "ArrowUp":
			dy = -step
		case "ArrowDown":
			dy = step
		default:
			return false
		}
		s.nudgeLocked(s.selectedID, dx, dy)
	case ev.primary() && !ev.Shift && key == "z":
		s.undoLocked()
	case ev.primary() && (key == "y" || (ev.Shift && key == "z")):
		s.redoLocked()
	default:
		return false
	}
	s.sync()
	return true
}
