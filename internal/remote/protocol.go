package remote

import (
	"encoding/json"

	"github.com/credify/editor/internal/editor"
	"github.com/credify/editor/internal/geometry"
	"github.com/credify/editor/internal/layout"
	"github.com/credify/editor/internal/render"
)

type Message struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Input
	TypePointerDown  = "pointer.down"
	TypePointerMove  = "pointer.move"
	TypePointerUp    = "pointer.up"
	TypeDoubleClick  = "pointer.dblclick"
	TypeWheel        = "wheel"
	TypeKey          = "key"
	TypeFocus        = "focus"
	TypeViewportSize = "viewport.resize"

	// Commands
	TypeModeSet           = "mode.set"
	TypeSelect            = "select"
	TypeUndo              = "history.undo"
	TypeRedo              = "history.redo"
	TypePlaceholderUpdate = "placeholder.update"
	TypePlaceholderDelete = "placeholder.delete"
	TypeLayerMove         = "layer.move"
	TypeInsertQRCode      = "insert.qrcode"
	TypeInsertImage       = "insert.image"
	TypeUploadImage       = "upload.image"
	TypeZoomIn            = "zoom.in"
	TypeZoomOut           = "zoom.out"
	TypeProjectSave       = "project.save"

	// Server → client
	TypeWelcome = "welcome"
	TypeState   = "state"
	TypeSaved   = "saved"
	TypeError   = "error"
)

// PointerPayload is a canvas-relative screen position.
type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p PointerPayload) point() geometry.Point { return geometry.Point{X: p.X, Y: p.Y} }

type WheelPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
}

type FocusPayload struct {
	Focused bool `json:"focused"`
}

type ViewportSizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ModePayload struct {
	Mode editor.Mode `json:"mode"`
}

type IDPayload struct {
	ID string `json:"id"`
}

type UpdatePayload struct {
	ID    string       `json:"id"`
	Patch layout.Patch `json:"patch"`
}

type LayerPayload struct {
	ID        string           `json:"id"`
	Direction layout.Direction `json:"direction"`
}

type InsertImagePayload struct {
	URL    string  `json:"url"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// UploadPayload carries the file inline; Data is base64 in JSON.
type UploadPayload struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

type WelcomePayload struct {
	ClientID  string `json:"clientId"`
	ProjectID string `json:"projectId"`
}

type StatePayload struct {
	State    editor.State         `json:"state"`
	Commands []render.DrawCommand `json:"commands"`
}

type SavedPayload struct {
	ProjectID string `json:"projectId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func newMessage(typ string, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
