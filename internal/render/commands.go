package render

import (
	"encoding/json"
	"fmt"

	"github.com/credify/editor/internal/geometry"
	"github.com/credify/editor/internal/layout"
)

// Draw ops.
const (
	OpTemplate = "template"
	OpBox      = "box"
	OpText     = "text"
	OpQRCode   = "qrcode"
	OpImage    = "image"
	OpDraft    = "draft"
)

// Frame styling, from the editor's look.
const (
	frameStroke      = "#94a3b8"
	frameFill        = "rgba(148, 163, 184, 0.1)"
	selectedStroke   = "#4b5563"
	draftStroke      = "#6366f1"
	draftFill        = "rgba(99, 102, 241, 0.3)"
	defaultTextColor = "#1e293b"
)

// DrawCommand is a single drawing operation for the host canvas. Geometry
// is given in the shape's local space plus the transform to screen space.
type DrawCommand struct {
	Op          string    `json:"op"`
	ObjectID    string    `json:"objectId,omitempty"`
	Transform   []float64 `json:"transform,omitempty"`
	Width       float64   `json:"width,omitempty"`
	Height      float64   `json:"height,omitempty"`
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Dash        []float64 `json:"dash,omitempty"`
	Text        string    `json:"text,omitempty"`
	FontSize    float64   `json:"fontSize,omitempty"`
	FontFamily  string    `json:"fontFamily,omitempty"`
	Bold        bool      `json:"bold,omitempty"`
	Italic      bool      `json:"italic,omitempty"`
	Align       string    `json:"align,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Selected    bool      `json:"selected,omitempty"`
}

// Options carries the non-layout inputs of a frame.
type Options struct {
	TemplateURL    string
	TemplateWidth  float64
	TemplateHeight float64
	SelectedID     string
	// Draft is the box being drawn, in document space, possibly with
	// negative size.
	Draft *geometry.Rect
}

// CompileDrawCommands generates the command buffer for a scene, back to
// front: template, placeholders in stacking order, then the draft box.
func CompileDrawCommands(s *Scene, opts Options) []DrawCommand {
	if s == nil {
		return nil
	}
	view := s.Viewport.Matrix()

	commands := make([]DrawCommand, 0, 2*len(s.Nodes)+2)
	if opts.TemplateURL != "" {
		commands = append(commands, DrawCommand{
			Op:        OpTemplate,
			Transform: view.ToSlice(),
			Width:     opts.TemplateWidth,
			Height:    opts.TemplateHeight,
			ImageURL:  opts.TemplateURL,
		})
	}

	for _, n := range s.Nodes {
		commands = compileNode(n, n.Placeholder.ID == opts.SelectedID, commands)
	}

	if opts.Draft != nil {
		commands = append(commands, DrawCommand{
			Op:          OpDraft,
			Transform:   view.Multiply(geometry.Translate(opts.Draft.X, opts.Draft.Y)).ToSlice(),
			Width:       opts.Draft.Width,
			Height:      opts.Draft.Height,
			Stroke:      draftStroke,
			StrokeWidth: 2,
			Dash:        []float64{5, 5},
			Fill:        draftFill,
		})
	}
	return commands
}

func compileNode(n *Node, selected bool, commands []DrawCommand) []DrawCommand {
	p := n.Placeholder
	transform := n.WorldTransform.ToSlice()

	frame := DrawCommand{
		Op:          OpBox,
		ObjectID:    p.ID,
		Transform:   transform,
		Width:       p.W,
		Height:      p.H,
		Stroke:      frameStroke,
		StrokeWidth: 1,
		Dash:        []float64{5, 5},
		Fill:        frameFill,
		Selected:    selected,
	}
	if selected {
		frame.Stroke = selectedStroke
		frame.Dash = []float64{4, 4}
		frame.Fill = ""
	}
	commands = append(commands, frame)

	switch p.Kind() {
	case layout.TypeQRCode:
		commands = append(commands, DrawCommand{
			Op:        OpQRCode,
			ObjectID:  p.ID,
			Transform: transform,
			Width:     p.W,
			Height:    p.H,
			Text:      p.Label(),
		})
	case layout.TypeImage:
		commands = append(commands, DrawCommand{
			Op:        OpImage,
			ObjectID:  p.ID,
			Transform: transform,
			Width:     p.W,
			Height:    p.H,
			ImageURL:  p.ImageURL,
		})
	default:
		fill := p.Fill
		if fill == "" {
			fill = defaultTextColor
		}
		commands = append(commands, DrawCommand{
			Op:         OpText,
			ObjectID:   p.ID,
			Transform:  transform,
			Width:      p.W,
			Height:     p.H,
			Text:       fmt.Sprintf("%s\n[%s]", p.Label(), p.Align),
			FontSize:   p.EffectiveFontSize(),
			FontFamily: p.FontFamily,
			Fill:       fill,
			Bold:       p.IsBold,
			Italic:     p.IsItalic,
			Align:      string(p.Align),
		})
	}
	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
