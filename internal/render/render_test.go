package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credify/editor/internal/geometry"
	"github.com/credify/editor/internal/layout"
)

func overlapping() layout.Document {
	return layout.Document{
		layout.NewText("bottom", "Field_1", geometry.Rect{X: 100, Y: 100, Width: 200, Height: 100}),
		layout.NewText("top", "Field_2", geometry.Rect{X: 150, Y: 150, Width: 200, Height: 100}),
	}
}

func TestHitTestPicksTopmost(t *testing.T) {
	s := Build(overlapping(), geometry.DefaultViewport())
	assert.Equal(t, "top", s.HitTest(geometry.Point{X: 200, Y: 175}))
	assert.Equal(t, "bottom", s.HitTest(geometry.Point{X: 110, Y: 110}))
	assert.Equal(t, "", s.HitTest(geometry.Point{X: 10, Y: 10}))
}

func TestHitTestHonoursRotation(t *testing.T) {
	p := layout.NewText("r", "Field_1", geometry.Rect{X: 0, Y: 0, Width: 200, Height: 20})
	p.X, p.Y = 500, 500
	p.Rotation = 90
	s := Build(layout.Document{p}, geometry.DefaultViewport())

	// Rotated a quarter turn the bar runs vertically.
	assert.Equal(t, "r", s.HitTest(geometry.Point{X: 500, Y: 590}))
	assert.Equal(t, "", s.HitTest(geometry.Point{X: 590, Y: 500}))
}

func TestHitTestUnderViewport(t *testing.T) {
	vp := geometry.Viewport{PanX: 50, PanY: 20, Scale: 0.5}
	s := Build(overlapping(), vp)
	screen := geometry.DocumentToScreen(geometry.Point{X: 110, Y: 110}, vp)
	assert.Equal(t, "bottom", s.HitTest(screen))
}

func TestAbsoluteTransformComposesViewport(t *testing.T) {
	vp := geometry.Viewport{PanX: 10, PanY: 10, Scale: 2}
	s := Build(overlapping(), vp)
	m, ok := s.AbsoluteTransform("bottom")
	require.True(t, ok)
	got := m.Apply(geometry.Point{X: 0, Y: 0})
	assert.InDelta(t, 210, got.X, 1e-9)
	assert.InDelta(t, 210, got.Y, 1e-9)

	_, ok = s.AbsoluteTransform("nope")
	assert.False(t, ok)
}

func TestBoundsCoverRotatedEntity(t *testing.T) {
	p := layout.NewText("r", "Field_1", geometry.Rect{Width: 200, Height: 20})
	p.X, p.Y = 500, 500
	p.Rotation = 90
	b := Build(layout.Document{p}, geometry.DefaultViewport()).Bounds("r")
	assert.InDelta(t, 490, b.X, 1e-6)
	assert.InDelta(t, 400, b.Y, 1e-6)
	assert.InDelta(t, 20, b.Width, 1e-6)
	assert.InDelta(t, 200, b.Height, 1e-6)

	assert.Equal(t, geometry.Rect{}, Build(nil, geometry.DefaultViewport()).Bounds("missing"))
}

func TestCompileDrawCommandsOrder(t *testing.T) {
	doc := overlapping().Append(layout.NewQRCode("qr", "QR_3", geometry.Point{X: 600, Y: 600}))
	s := Build(doc, geometry.DefaultViewport())
	draft := geometry.Rect{X: 10, Y: 10, Width: -30, Height: 40}
	cmds := CompileDrawCommands(s, Options{
		TemplateURL:    "/assets/tpl.png",
		TemplateWidth:  1600,
		TemplateHeight: 1131,
		SelectedID:     "top",
		Draft:          &draft,
	})

	ops := make([]string, len(cmds))
	for i, c := range cmds {
		ops[i] = c.Op
	}
	assert.Equal(t, []string{OpTemplate, OpBox, OpText, OpBox, OpText, OpBox, OpQRCode, OpDraft}, ops)
	assert.True(t, cmds[3].Selected)
	assert.False(t, cmds[1].Selected)
	assert.Equal(t, "{{Field_2}}\n[center]", cmds[4].Text)
	assert.Equal(t, []float64{1, 0, 0, 1, 10, 10}, cmds[len(cmds)-1].Transform)

	out, err := DrawCommandsToJSON(cmds)
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded, len(cmds))
}

func TestCompileNilScene(t *testing.T) {
	assert.Nil(t, CompileDrawCommands(nil, Options{}))
	out, err := DrawCommandsToJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}
