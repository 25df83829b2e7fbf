package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/credify/editor/internal/geometry"
)

// Size limits in document units.
const (
	MinWidth    = 50.0
	MinHeight   = 20.0
	MinDrawSize = 20.0
)

// Defaults for newly created placeholders.
const (
	DefaultFontFamily = "Arial"
	DefaultFill       = "#1e293b"
	DefaultQRSize     = 150.0
	DefaultImageBox   = 200.0
	autoFontCeiling   = 40.0
	autoFontRatio     = 0.4
)

var (
	ErrDuplicateID  = errors.New("duplicate placeholder id")
	ErrMissingID    = errors.New("placeholder id is required")
	ErrInvalidType  = errors.New("invalid placeholder type")
	ErrInvalidAlign = errors.New("invalid alignment")
	ErrInvalidSize  = errors.New("invalid placeholder size")
	ErrNonFinite    = errors.New("placeholder geometry is not finite")
)

type Type string

const (
	TypeText   Type = "text"
	TypeQRCode Type = "qrcode"
	TypeImage  Type = "image"
)

func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeQRCode, TypeImage:
		return true
	}
	return false
}

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

func (a Align) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	}
	return false
}

// Next cycles left → center → right → left.
func (a Align) Next() Align {
	switch a {
	case AlignLeft:
		return AlignCenter
	case AlignCenter:
		return AlignRight
	default:
		return AlignLeft
	}
}

// Placeholder is a positioned field on the template. X and Y are the
// document-space center of the box.
type Placeholder struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Rotation float64 `json:"rotation"`
	Align    Align   `json:"align"`
	Type     Type    `json:"type"`

	// Text only.
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	Fill       string  `json:"fill,omitempty"`
	IsBold     bool    `json:"isBold,omitempty"`
	IsItalic   bool    `json:"isItalic,omitempty"`

	// Image only.
	ImageURL string `json:"imageUrl,omitempty"`
}

// Kind returns the variant, treating an empty tag as text.
func (p Placeholder) Kind() Type {
	if p.Type == "" {
		return TypeText
	}
	return p.Type
}

// Center returns the document-space center.
func (p Placeholder) Center() geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}

// Box returns the unrotated box in document space.
func (p Placeholder) Box() geometry.Rect {
	return geometry.Rect{X: p.X - p.W/2, Y: p.Y - p.H/2, Width: p.W, Height: p.H}
}

// Transform returns the local-to-document matrix of the box.
func (p Placeholder) Transform() geometry.Matrix2D {
	return geometry.ComposeTransform(p.Center(), p.W, p.H, p.Rotation)
}

// EffectiveFontSize resolves the auto font size (0) against the box height.
func (p Placeholder) EffectiveFontSize() float64 {
	if p.FontSize > 0 {
		return p.FontSize
	}
	return math.Min(p.H*autoFontRatio, autoFontCeiling)
}

// Label is the substitution token rendered for text fields.
func (p Placeholder) Label() string {
	return "{{" + p.Name + "}}"
}

// ClampSize enforces the minimum resize dimensions.
func (p Placeholder) ClampSize() Placeholder {
	p.W = math.Max(MinWidth, p.W)
	p.H = math.Max(MinHeight, p.H)
	return p
}

// Validate checks a single record loaded from outside the editor.
func (p Placeholder) Validate() error {
	if p.ID == "" {
		return ErrMissingID
	}
	if !p.Kind().Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, p.Type)
	}
	if p.Align != "" && !p.Align.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAlign, p.Align)
	}
	if !finite(p.X) || !finite(p.Y) || !finite(p.Rotation) {
		return fmt.Errorf("%w: %s at (%g, %g) rotated %g", ErrNonFinite, p.ID, p.X, p.Y, p.Rotation)
	}
	if p.W <= 0 || p.H <= 0 || !finite(p.W) || !finite(p.H) {
		return fmt.Errorf("%w: %s is %gx%g", ErrInvalidSize, p.ID, p.W, p.H)
	}
	return nil
}

// NewText creates a text field covering box.
func NewText(id, name string, box geometry.Rect) Placeholder {
	c := box.Center()
	return Placeholder{
		ID:         id,
		Name:       name,
		X:          c.X,
		Y:          c.Y,
		W:          box.Width,
		H:          box.Height,
		Align:      AlignCenter,
		Type:       TypeText,
		FontFamily: DefaultFontFamily,
		Fill:       DefaultFill,
	}
}

// NewQRCode creates a square QR field centered on center.
func NewQRCode(id, name string, center geometry.Point) Placeholder {
	return Placeholder{
		ID:    id,
		Name:  name,
		X:     center.X,
		Y:     center.Y,
		W:     DefaultQRSize,
		H:     DefaultQRSize,
		Align: AlignCenter,
		Type:  TypeQRCode,
	}
}

// NewImage creates an image field that fits the asset's natural size into
// the default box, keeping its aspect ratio.
func NewImage(id, name, url string, center geometry.Point, naturalW, naturalH float64) Placeholder {
	w, h := DefaultImageBox, DefaultImageBox
	if naturalW > 0 && naturalH > 0 {
		k := math.Min(DefaultImageBox/naturalW, DefaultImageBox/naturalH)
		w, h = naturalW*k, naturalH*k
	}
	p := Placeholder{
		ID:       id,
		Name:     name,
		X:        center.X,
		Y:        center.Y,
		W:        w,
		H:        h,
		Align:    AlignCenter,
		Type:     TypeImage,
		ImageURL: url,
	}
	return p.ClampSize()
}

// DefaultName returns the label given to the n-th field of a type.
func DefaultName(t Type, n int) string {
	switch t {
	case TypeQRCode:
		return fmt.Sprintf("QR_%d", n)
	case TypeImage:
		return fmt.Sprintf("Image_%d", n)
	default:
		return fmt.Sprintf("Field_%d", n)
	}
}
