package layout

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credify/editor/internal/geometry"
)

func threeFields() Document {
	return Document{
		NewText("a", "Field_1", geometry.Rect{X: 0, Y: 0, Width: 100, Height: 40}),
		NewText("b", "Field_2", geometry.Rect{X: 50, Y: 50, Width: 100, Height: 40}),
		NewQRCode("c", "QR_3", geometry.Point{X: 300, Y: 300}),
	}
}

func ids(d Document) []string {
	out := make([]string, len(d))
	for i, p := range d {
		out[i] = p.ID
	}
	return out
}

func TestMoveLayer(t *testing.T) {
	d := threeFields()

	up, ok := d.MoveLayer("a", Up)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a", "c"}, ids(up))
	assert.Equal(t, []string{"a", "b", "c"}, ids(d), "receiver untouched")

	down, ok := d.MoveLayer("c", Down)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "c", "b"}, ids(down))
}

func TestMoveLayerBoundariesAreNoOps(t *testing.T) {
	d := threeFields()

	same, ok := d.MoveLayer("c", Up)
	assert.False(t, ok)
	assert.Equal(t, ids(d), ids(same))

	same, ok = d.MoveLayer("a", Down)
	assert.False(t, ok)
	assert.Equal(t, ids(d), ids(same))

	_, ok = d.MoveLayer("missing", Up)
	assert.False(t, ok)

	_, ok = d.MoveLayer("b", Direction("sideways"))
	assert.False(t, ok)
}

func TestUpdatePreservesPositionAndID(t *testing.T) {
	d := threeFields()
	out, ok := d.Update("b", func(p Placeholder) Placeholder {
		p.ID = "hijack"
		p.Rotation = 30
		return p
	})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, ids(out))
	assert.Equal(t, 30.0, out[1].Rotation)
	assert.Equal(t, 0.0, d[1].Rotation)
}

func TestDeleteShiftsOrder(t *testing.T) {
	d := threeFields()
	out, ok := d.Delete("a")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "c"}, ids(out))
	assert.Len(t, d, 3)

	_, ok = d.Delete("zzz")
	assert.False(t, ok)
}

func TestAppendDoesNotAlias(t *testing.T) {
	base := make(Document, 0, 8)
	base = append(base, NewText("a", "A", geometry.Rect{Width: 60, Height: 30}))
	x := base.Append(NewText("x", "X", geometry.Rect{Width: 60, Height: 30}))
	y := base.Append(NewText("y", "Y", geometry.Rect{Width: 60, Height: 30}))
	assert.Equal(t, "x", x[1].ID)
	assert.Equal(t, "y", y[1].ID)
}

func TestAlignCycle(t *testing.T) {
	assert.Equal(t, AlignCenter, AlignLeft.Next())
	assert.Equal(t, AlignRight, AlignCenter.Next())
	assert.Equal(t, AlignLeft, AlignRight.Next())
}

func TestPatchClampsSize(t *testing.T) {
	p := NewText("a", "A", geometry.Rect{Width: 200, Height: 80})
	w, h := 10.0, 5.0
	name := "recipient"
	bad := Align("justify")
	out := Patch{W: &w, H: &h, Name: &name, Align: &bad}.Apply(p)
	assert.Equal(t, MinWidth, out.W)
	assert.Equal(t, MinHeight, out.H)
	assert.Equal(t, "recipient", out.Name)
	assert.Equal(t, AlignCenter, out.Align)
}

func TestPatchImageURLOnlyForImages(t *testing.T) {
	url := "https://cdn.example.com/logo.png"
	text := Patch{ImageURL: &url}.Apply(NewText("a", "A", geometry.Rect{Width: 60, Height: 30}))
	assert.Empty(t, text.ImageURL)

	img := Patch{ImageURL: &url}.Apply(NewImage("i", "Image_1", "old", geometry.Point{}, 400, 100))
	assert.Equal(t, url, img.ImageURL)
}

func TestNewImageFitsAspect(t *testing.T) {
	img := NewImage("i", "Image_1", "u", geometry.Point{X: 10, Y: 10}, 400, 100)
	assert.InDelta(t, 200, img.W, 1e-9)
	assert.InDelta(t, 50, img.H, 1e-9)

	tall := NewImage("j", "Image_2", "u", geometry.Point{}, 10, 1000)
	assert.Equal(t, MinWidth, tall.W, "clamped to the minimum width")
}

func TestEffectiveFontSize(t *testing.T) {
	p := NewText("a", "A", geometry.Rect{Width: 200, Height: 50})
	assert.InDelta(t, 20, p.EffectiveFontSize(), 1e-9)
	p.H = 400
	assert.InDelta(t, 40, p.EffectiveFontSize(), 1e-9)
	p.FontSize = 12
	assert.InDelta(t, 12, p.EffectiveFontSize(), 1e-9)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Sample().Validate())

	dup := Document{threeFields()[0], threeFields()[0]}
	assert.ErrorIs(t, dup.Validate(), ErrDuplicateID)

	bad := threeFields()
	bad[1].Type = "barcode"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidType)

	zero := threeFields()
	zero[0].W = 0
	assert.ErrorIs(t, zero.Validate(), ErrInvalidSize)

	huge := threeFields()
	huge[0].W = math.Inf(1)
	assert.ErrorIs(t, huge.Validate(), ErrInvalidSize)

	for name, mutate := range map[string]func(*Placeholder){
		"x":        func(p *Placeholder) { p.X = math.Inf(1) },
		"y":        func(p *Placeholder) { p.Y = math.NaN() },
		"rotation": func(p *Placeholder) { p.Rotation = math.Inf(-1) },
	} {
		doc := threeFields()
		mutate(&doc[2])
		assert.ErrorIs(t, doc.Validate(), ErrNonFinite, name)
	}
}

func TestJSONFieldNames(t *testing.T) {
	p := NewText("a", "name", geometry.Rect{X: 100, Y: 100, Width: 200, Height: 150})
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, k := range []string{"id", "name", "x", "y", "w", "h", "rotation", "align", "type", "fontFamily", "fill"} {
		assert.Contains(t, fields, k)
	}
	assert.NotContains(t, fields, "imageUrl")
	assert.Equal(t, 200.0, fields["x"])
	assert.Equal(t, 175.0, fields["y"])
}

func TestNormalizeDefaults(t *testing.T) {
	var d Document
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"legacy","name":"n","x":1,"y":2,"w":60,"h":30,"rotation":0}]`), &d))
	n := d.Normalize()
	assert.Equal(t, TypeText, n[0].Type)
	assert.Equal(t, AlignCenter, n[0].Align)
	assert.Equal(t, Type(""), d[0].Type)
}
