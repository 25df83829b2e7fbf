// Package layout defines the placeholder records of a certificate layout
// and the pure operations over their ordered sequence. Sequence position is
// stacking order: later entries paint on top.
package layout

import (
	"fmt"
	"math"
)

// Document is the ordered placeholder sequence. Operations never modify
// the receiver; they return a fresh slice.
type Document []Placeholder

// Direction is a layer move.
type Direction string

const (
	// Up moves toward the top of the stack (swap with the next element).
	Up Direction = "up"
	// Down moves toward the bottom (swap with the previous element).
	Down Direction = "down"
)

// Empty returns a document with no placeholders.
func Empty() Document {
	return Document{}
}

// Clone returns an independent copy.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	copy(out, d)
	return out
}

// Index returns the position of id, or -1.
func (d Document) Index(id string) int {
	for i, p := range d {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the placeholder with id.
func (d Document) Find(id string) (Placeholder, bool) {
	if i := d.Index(id); i >= 0 {
		return d[i], true
	}
	return Placeholder{}, false
}

// Append adds p on top of the stack.
func (d Document) Append(p Placeholder) Document {
	out := make(Document, len(d), len(d)+1)
	copy(out, d)
	return append(out, p)
}

// Replace swaps in p at the position of the placeholder sharing its id.
func (d Document) Replace(p Placeholder) (Document, bool) {
	i := d.Index(p.ID)
	if i < 0 {
		return d, false
	}
	out := d.Clone()
	out[i] = p
	return out, true
}

// Update applies fn to the placeholder with id, keeping its position.
func (d Document) Update(id string, fn func(Placeholder) Placeholder) (Document, bool) {
	i := d.Index(id)
	if i < 0 {
		return d, false
	}
	next := fn(d[i])
	next.ID = id
	out := d.Clone()
	out[i] = next
	return out, true
}

// Delete removes id; later entries shift down one position.
func (d Document) Delete(id string) (Document, bool) {
	i := d.Index(id)
	if i < 0 {
		return d, false
	}
	out := make(Document, 0, len(d)-1)
	out = append(out, d[:i]...)
	return append(out, d[i+1:]...), true
}

// MoveLayer swaps id with its neighbour. It reports false, returning d
// unchanged, for an unknown id or when id is already at that boundary.
func (d Document) MoveLayer(id string, dir Direction) (Document, bool) {
	i := d.Index(id)
	if i < 0 {
		return d, false
	}
	j := i
	switch dir {
	case Up:
		j = i + 1
	case Down:
		j = i - 1
	}
	if j == i || j < 0 || j >= len(d) {
		return d, false
	}
	out := d.Clone()
	out[i], out[j] = out[j], out[i]
	return out, true
}

// Equal reports element-wise equality.
func (d Document) Equal(other Document) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if d[i] != other[i] {
			return false
		}
	}
	return true
}

// Validate checks ids are present and unique and every record is sane.
func (d Document) Validate() error {
	seen := make(map[string]struct{}, len(d))
	for _, p := range d {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// Normalize fills defaults on records that predate the type/align fields.
func (d Document) Normalize() Document {
	out := d.Clone()
	for i := range out {
		if out[i].Type == "" {
			out[i].Type = TypeText
		}
		if out[i].Align == "" {
			out[i].Align = AlignCenter
		}
	}
	return out
}

// Patch is a property-panel edit. Nil fields are left untouched.
type Patch struct {
	Name       *string  `json:"name,omitempty"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	W          *float64 `json:"w,omitempty"`
	H          *float64 `json:"h,omitempty"`
	Rotation   *float64 `json:"rotation,omitempty"`
	Align      *Align   `json:"align,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`
	Fill       *string  `json:"fill,omitempty"`
	IsBold     *bool    `json:"isBold,omitempty"`
	IsItalic   *bool    `json:"isItalic,omitempty"`
	ImageURL   *string  `json:"imageUrl,omitempty"`
}

// Apply returns p with the patch applied. Size edits are clamped to the
// minimum dimensions, invalid alignments and negative font sizes ignored.
func (pt Patch) Apply(p Placeholder) Placeholder {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.X != nil && finite(*pt.X) {
		p.X = *pt.X
	}
	if pt.Y != nil && finite(*pt.Y) {
		p.Y = *pt.Y
	}
	if pt.W != nil && finite(*pt.W) {
		p.W = math.Max(MinWidth, *pt.W)
	}
	if pt.H != nil && finite(*pt.H) {
		p.H = math.Max(MinHeight, *pt.H)
	}
	if pt.Rotation != nil && finite(*pt.Rotation) {
		p.Rotation = *pt.Rotation
	}
	if pt.Align != nil && pt.Align.Valid() {
		p.Align = *pt.Align
	}
	if pt.FontSize != nil && *pt.FontSize >= 0 {
		p.FontSize = *pt.FontSize
	}
	if pt.FontFamily != nil {
		p.FontFamily = *pt.FontFamily
	}
	if pt.Fill != nil {
		p.Fill = *pt.Fill
	}
	if pt.IsBold != nil {
		p.IsBold = *pt.IsBold
	}
	if pt.IsItalic != nil {
		p.IsItalic = *pt.IsItalic
	}
	if pt.ImageURL != nil && p.Kind() == TypeImage {
		p.ImageURL = *pt.ImageURL
	}
	return p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
