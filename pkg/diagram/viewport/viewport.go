// Package viewport owns the pan/zoom transform applied to a rendered
// diagram.
//
// The controller holds a single affine transform (translation plus uniform
// scale) and maps gesture deltas onto it. It never participates in layout:
// rendering sinks apply the transform to the whole drawn group, so panning
// and zooming cost nothing beyond restyling one group attribute.
package viewport

import "github.com/mindtree-io/mindtree/pkg/diagram"

// Transform is an affine translate-plus-uniform-scale, applied as
// screen = layout*Scale + T.
type Transform struct {
	TX, TY float64
	Scale  float64
}

// Apply maps a layout-space point to screen space.
func (t Transform) Apply(x, y float64) (sx, sy float64) {
	return x*t.Scale + t.TX, y*t.Scale + t.TY
}

// Invert maps a screen-space point back to layout space.
func (t Transform) Invert(sx, sy float64) (x, y float64) {
	return (sx - t.TX) / t.Scale, (sy - t.TY) / t.Scale
}

// Scale bounds. Clamping prevents degenerate zoom where the diagram
// collapses to a point or a single box fills the surface.
const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 3.0

	// DefaultInitialScale starts slightly zoomed out so the root and its
	// first-level children are visible without user input.
	DefaultInitialScale = 0.85
)

// Controller accumulates pan and zoom gestures into a clamped transform.
// It is not safe for concurrent use; gesture sources are expected to feed it
// from a single event loop.
type Controller struct {
	t        Transform
	min, max float64
	initial  float64
}

// NewController creates a controller with identity transform, the given
// scale bounds, and the scale Fit mounts at. Non-positive values fall back
// to the defaults.
func NewController(minScale, maxScale, initialScale float64) *Controller {
	if minScale <= 0 {
		minScale = DefaultMinScale
	}
	if maxScale <= 0 {
		maxScale = DefaultMaxScale
	}
	if initialScale <= 0 {
		initialScale = DefaultInitialScale
	}
	return &Controller{
		t:       Transform{Scale: 1},
		min:     minScale,
		max:     maxScale,
		initial: initialScale,
	}
}

// Transform returns the current transform.
func (c *Controller) Transform() Transform { return c.t }

// Pan translates the view by a screen-space delta.
func (c *Controller) Pan(dx, dy float64) {
	c.t.TX += dx
	c.t.TY += dy
}

// ZoomAt scales the view by factor about the screen-space anchor (cx, cy),
// so the layout point under the cursor stays under the cursor. The resulting
// scale is clamped to the controller's bounds and the effective factor is
// adjusted accordingly.
func (c *Controller) ZoomAt(factor, cx, cy float64) {
	newScale := clamp(c.t.Scale*factor, c.min, c.max)
	if newScale == c.t.Scale {
		return
	}
	ratio := newScale / c.t.Scale
	c.t.TX = cx - (cx-c.t.TX)*ratio
	c.t.TY = cy - (cy-c.t.TY)*ratio
	c.t.Scale = newScale
}

// SetScale sets an absolute scale about the anchor, clamped to bounds.
func (c *Controller) SetScale(scale, cx, cy float64) {
	if c.t.Scale == 0 {
		c.t.Scale = 1
	}
	c.ZoomAt(scale/c.t.Scale, cx, cy)
}

// Fit sets the initial mount transform: the diagram bounds are centered in a
// viewW x viewH surface at the controller's initial scale (clamped to its
// bounds), so the root and first-level children are in view before any
// gesture arrives.
func (c *Controller) Fit(b diagram.Rect, viewW, viewH float64) {
	scale := clamp(c.initial, c.min, c.max)
	cx := (b.MinX + b.MaxX) / 2
	cy := (b.MinY + b.MaxY) / 2
	c.t = Transform{
		Scale: scale,
		TX:    viewW/2 - cx*scale,
		TY:    viewH/2 - cy*scale,
	}
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
