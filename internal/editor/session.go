// Package editor is the interactive placement engine: it owns the undo
// history, the current mode and selection, the single active gesture, the
// pan/zoom viewport, and the overlay positions derived from them.
//
// All methods are safe to call from multiple goroutines; they serialize on
// the session mutex, which gives the host the same single-threaded
// semantics as an event loop. The only background work is image upload,
// whose completion commits under the same mutex.
package editor

import (
	"errors"
	"log/slog"
	"math"
	"sync"

	"github.com/credify/editor/internal/geometry"
	"github.com/credify/editor/internal/history"
	"github.com/credify/editor/internal/layout"
	"github.com/credify/editor/internal/render"
	"github.com/credify/editor/internal/typeid"
)

var (
	ErrNotFound      = errors.New("placeholder not found")
	ErrGestureActive = errors.New("a gesture is in progress")
	ErrInvalidMode   = errors.New("invalid mode")
	ErrNoProject     = errors.New("no project is open")
	ErrNoUploader    = errors.New("no uploader configured")
)

// Mode is the active tool.
type Mode string

const (
	ModeSelect Mode = "select"
	ModeDraw   Mode = "draw"
)

// DefaultContainerWidth is the canvas width the base scale fits the
// template into.
const DefaultContainerWidth = 800.0

// Template is the background image placeholders are laid out on.
type Template struct {
	URL    string  `json:"url"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Scene is the render layer capability the session needs: the current
// absolute (local box to screen) transform of an entity, its screen bounds
// and hit testing.
type Scene interface {
	AbsoluteTransform(id string) (geometry.Matrix2D, bool)
	Bounds(id string) geometry.Rect
	HitTest(screen geometry.Point) string
}

// SceneBuilder resolves a document under a viewport.
type SceneBuilder func(doc layout.Document, vp geometry.Viewport) Scene

func renderScene(doc layout.Document, vp geometry.Viewport) Scene {
	return render.Build(doc, vp)
}

// Session is one editor instance bound to at most one project.
type Session struct {
	mu sync.Mutex

	history    *history.Store
	mode       Mode
	selectedID string
	gesture    gesture

	viewport       geometry.Viewport
	baseScale      float64
	zoom           float64
	containerWidth float64
	viewW, viewH   float64
	template       Template
	inputFocused   bool

	scene   Scene
	handle  *RotateHandle
	anchors []AnchorPoint
	frame   *geometry.Rect

	projectID string
	store     Store
	uploader  Uploader
	uploads   sync.WaitGroup
	pending   int
	savedGen  uint64
	saveSeq   int
	savedSeq  int
	lastErr   string

	newID      func() string
	buildScene SceneBuilder
	logger     *slog.Logger
	onChange   func(State)
}

// Option configures a Session.
type Option func(*Session)

func WithStore(st Store) Option              { return func(s *Session) { s.store = st } }
func WithUploader(u Uploader) Option         { return func(s *Session) { s.uploader = u } }
func WithLogger(l *slog.Logger) Option       { return func(s *Session) { s.logger = l } }
func WithIDGenerator(f func() string) Option { return func(s *Session) { s.newID = f } }
func WithSceneBuilder(b SceneBuilder) Option { return func(s *Session) { s.buildScene = b } }

// WithOnChange registers a hook called after background completions
// change the session. It runs outside the session lock.
func WithOnChange(f func(State)) Option { return func(s *Session) { s.onChange = f } }

// WithContainerWidth sets the width the template is fitted to.
func WithContainerWidth(w float64) Option {
	return func(s *Session) {
		if w > 0 {
			s.containerWidth = w
		}
	}
}

// New creates a session with an empty document in select mode.
func New(opts ...Option) *Session {
	s := &Session{
		history:        history.New(layout.Empty()),
		mode:           ModeSelect,
		viewport:       geometry.DefaultViewport(),
		baseScale:      1,
		zoom:           1,
		containerWidth: DefaultContainerWidth,
		newID:          typeid.NewPlaceholderID,
		buildScene:     renderScene,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sync()
	return s
}

// LoadDocument replaces the history with doc as its floor and resets the
// interaction state.
func (s *Session) LoadDocument(doc layout.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(doc.Normalize())
	return nil
}

func (s *Session) resetLocked(doc layout.Document) {
	s.history.Reset(doc)
	s.mode = ModeSelect
	s.selectedID = ""
	s.gesture = gesture{}
	s.savedGen = s.history.Generation()
	s.lastErr = ""
	s.sync()
}

// SetTemplate sets the background image and refits the base scale.
func (s *Session) SetTemplate(t Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.template = t
	s.baseScale = fitScale(s.containerWidth, t.Width)
	s.viewport.Scale = s.baseScale * s.zoom
	s.sync()
}

// fitScale shrinks a template to the container width and never enlarges it.
func fitScale(containerWidth, templateWidth float64) float64 {
	if templateWidth <= 0 {
		return 1
	}
	return math.Min(1, containerWidth/templateWidth)
}

// SetViewportSize records the visible canvas size in screen pixels.
func (s *Session) SetViewportSize(w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewW, s.viewH = w, h
}

// SetInputFocus tells the session a text input outside the canvas has
// focus; keyboard shortcuts are suppressed while it does.
func (s *Session) SetInputFocus(focused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputFocused = focused
}

// Document returns the committed document at the history cursor.
func (s *Session) Document() layout.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Current()
}

// commit records doc as the new current snapshot.
func (s *Session) commit(doc layout.Document, reason string) {
	s.history.Commit(doc)
	s.logger.Debug("commit", "reason", reason, "step", s.history.Cursor(), "placeholders", len(doc))
}

// liveDocument is the committed document with the active gesture's
// working copy swapped in.
func (s *Session) liveDocument() layout.Document {
	doc := s.history.Current()
	if s.gesture.transformsEntity() {
		if live, ok := doc.Replace(s.gesture.live); ok {
			return live
		}
	}
	return doc
}

// sync recomputes everything derived from selection, geometry and the
// viewport. Every state change calls it before returning.
func (s *Session) sync() {
	doc := s.liveDocument()
	if s.selectedID != "" && doc.Index(s.selectedID) < 0 {
		s.selectedID = ""
	}
	s.scene = s.buildScene(doc, s.viewport)
	s.syncOverlay(doc)
}

func (s *Session) stateLocked() State {
	st := State{
		Mode:           s.mode,
		SelectedID:     s.selectedID,
		Gesture:        s.gesture.kind,
		Placeholders:   s.liveDocument(),
		Viewport:       s.viewport,
		ZoomPercent:    int(math.Round(s.viewport.EffectiveScale() * 100)),
		CanUndo:        s.history.CanUndo(),
		CanRedo:        s.history.CanRedo(),
		HistoryLength:  s.history.Len(),
		HistoryCursor:  s.history.Cursor(),
		RotateHandle:   s.handle,
		Anchors:        s.anchors,
		Selection:      s.frame,
		PendingUploads: s.pending,
		Dirty:          s.history.Generation() != s.savedGen,
		Error:          s.lastErr,
		Template:       s.template,
		ProjectID:      s.projectID,
	}
	if s.gesture.kind == GestureDrawing {
		d := s.gesture.draft
		st.Draft = &d
	}
	if st.Gesture == "" {
		st.Gesture = GestureIdle
	}
	return st
}

// State returns a snapshot of everything the host needs to paint.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// DrawCommands compiles the current frame for the host canvas.
func (s *Session) DrawCommands() []render.DrawCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	opts := render.Options{
		TemplateURL:    s.template.URL,
		TemplateWidth:  s.template.Width,
		TemplateHeight: s.template.Height,
		SelectedID:     s.selectedID,
	}
	if s.gesture.kind == GestureDrawing {
		d := s.gesture.draft
		opts.Draft = &d
	}
	return render.CompileDrawCommands(render.Build(s.liveDocument(), s.viewport), opts)
}

// State is the observable editor state.
type State struct {
	Mode           Mode              `json:"mode"`
	SelectedID     string            `json:"selectedId,omitempty"`
	Gesture        GestureKind       `json:"gesture"`
	Placeholders   layout.Document   `json:"placeholders"`
	Draft          *geometry.Rect    `json:"draft,omitempty"`
	Viewport       geometry.Viewport `json:"viewport"`
	ZoomPercent    int               `json:"zoomPercent"`
	CanUndo        bool              `json:"canUndo"`
	CanRedo        bool              `json:"canRedo"`
	HistoryLength  int               `json:"historyLength"`
	HistoryCursor  int               `json:"historyCursor"`
	RotateHandle   *RotateHandle     `json:"rotateHandle,omitempty"`
	Anchors        []AnchorPoint     `json:"anchors,omitempty"`
	Selection      *geometry.Rect    `json:"selection,omitempty"`
	PendingUploads int               `json:"pendingUploads"`
	Dirty          bool              `json:"dirty"`
	Error          string            `json:"error,omitempty"`
	Template       Template          `json:"template"`
	ProjectID      string            `json:"projectId,omitempty"`
}
