package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/credify/editor/internal/editor"
)

var (
	ErrUnknownType = errors.New("unknown message type")
	ErrBadPayload  = errors.New("invalid payload")
)

func decode(msg *Message, v interface{}) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%w: %s has no payload", ErrBadPayload, msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadPayload, msg.Type, err)
	}
	return nil
}

// Dispatch applies one client message to the session. It returns an extra
// reply for messages that have one beyond the state refresh.
func Dispatch(ctx context.Context, s *editor.Session, msg *Message) (*Message, error) {
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp, TypeDoubleClick:
		var p PointerPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		switch msg.Type {
		case TypePointerDown:
			s.PointerDown(p.point())
		case TypePointerMove:
			s.PointerMove(p.point())
		case TypePointerUp:
			s.PointerUp(p.point())
		default:
			s.DoubleClick(p.point())
		}

	case TypeWheel:
		var p WheelPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		s.Wheel(PointerPayload{X: p.X, Y: p.Y}.point(), p.DeltaY)

	case TypeKey:
		var p editor.KeyEvent
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		s.Key(p)

	case TypeFocus:
		var p FocusPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		s.SetInputFocus(p.Focused)

	case TypeViewportSize:
		var p ViewportSizePayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		s.SetViewportSize(p.Width, p.Height)

	case TypeModeSet:
		var p ModePayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		return nil, s.SetMode(p.Mode)

	case TypeSelect:
		var p IDPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		if p.ID == "" {
			s.ClearSelection()
			return nil, nil
		}
		return nil, s.Select(p.ID)

	case TypeUndo:
		s.Undo()
	case TypeRedo:
		s.Redo()

	case TypePlaceholderUpdate:
		var p UpdatePayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		_, err := s.UpdateProperties(p.ID, p.Patch)
		return nil, err

	case TypePlaceholderDelete:
		var p IDPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		return nil, s.Delete(p.ID)

	case TypeLayerMove:
		var p LayerPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		_, err := s.MoveLayer(p.ID, p.Direction)
		return nil, err

	case TypeInsertQRCode:
		_, err := s.InsertQRCode()
		return nil, err

	case TypeInsertImage:
		var p InsertImagePayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		_, err := s.InsertImage(p.URL, p.Width, p.Height)
		return nil, err

	case TypeUploadImage:
		var p UploadPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		return nil, s.UploadImage(ctx, p.Name, bytes.NewReader(p.Data))

	case TypeZoomIn:
		s.ZoomIn()
	case TypeZoomOut:
		s.ZoomOut()

	case TypeProjectSave:
		if err := s.Save(ctx); err != nil {
			return nil, err
		}
		return newMessage(TypeSaved, SavedPayload{ProjectID: s.State().ProjectID})

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
	return nil, nil
}

// errorCode names an error for clients that branch on it.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownType):
		return "unknown_type"
	case errors.Is(err, ErrBadPayload):
		return "bad_payload"
	case errors.Is(err, editor.ErrGestureActive):
		return "gesture_active"
	case errors.Is(err, editor.ErrNotFound):
		return "not_found"
	case errors.Is(err, editor.ErrInvalidMode):
		return "invalid_mode"
	case errors.Is(err, editor.ErrNoProject), errors.Is(err, editor.ErrNoUploader):
		return "unavailable"
	}
	return "internal"
}
