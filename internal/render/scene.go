// Package render is the boundary between the editor core and whatever
// paints the canvas. It resolves each placeholder's absolute transform for
// the current viewport, answers hit tests, and compiles a flat list of
// draw commands in painter's order.
package render

import (
	"github.com/credify/editor/internal/geometry"
	"github.com/credify/editor/internal/layout"
)

// Scene is the resolved, render-ready state of one layout under one
// viewport. It is rebuilt whenever either changes.
type Scene struct {
	Nodes     []*Node
	NodesByID map[string]*Node
	Viewport  geometry.Viewport
}

// Node is a resolved placeholder.
type Node struct {
	Placeholder layout.Placeholder

	// LocalTransform maps the box's local space (origin at its top-left)
	// into document space; WorldTransform continues into screen space.
	LocalTransform geometry.Matrix2D
	WorldTransform geometry.Matrix2D

	// Bounds is the axis-aligned screen-space bounding box.
	Bounds geometry.Rect
}

// Build resolves doc under vp.
func Build(doc layout.Document, vp geometry.Viewport) *Scene {
	s := &Scene{
		Nodes:     make([]*Node, 0, len(doc)),
		NodesByID: make(map[string]*Node, len(doc)),
		Viewport:  vp,
	}
	view := vp.Matrix()
	for _, p := range doc {
		local := p.Transform()
		world := view.Multiply(local)
		n := &Node{
			Placeholder:    p,
			LocalTransform: local,
			WorldTransform: world,
			Bounds:         world.TransformRect(geometry.Rect{Width: p.W, Height: p.H}),
		}
		s.Nodes = append(s.Nodes, n)
		s.NodesByID[p.ID] = n
	}
	return s
}

// AbsoluteTransform returns the local-to-screen matrix of id.
func (s *Scene) AbsoluteTransform(id string) (geometry.Matrix2D, bool) {
	n, ok := s.NodesByID[id]
	if !ok {
		return geometry.Identity(), false
	}
	return n.WorldTransform, true
}

// HitTest returns the topmost placeholder whose rotated box contains the
// screen point, or "".
func (s *Scene) HitTest(screen geometry.Point) string {
	for i := len(s.Nodes) - 1; i >= 0; i-- {
		n := s.Nodes[i]
		local := n.WorldTransform.Invert().Apply(screen)
		box := geometry.Rect{Width: n.Placeholder.W, Height: n.Placeholder.H}
		if box.Contains(local) {
			return n.Placeholder.ID
		}
	}
	return ""
}

// Bounds returns the screen-space bounding box of id.
func (s *Scene) Bounds(id string) geometry.Rect {
	if n, ok := s.NodesByID[id]; ok {
		return n.Bounds
	}
	return geometry.Rect{}
}
