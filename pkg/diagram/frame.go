package diagram

import "time"

// Rect is an axis-aligned bounding box in layout coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal span of the rect.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical span of the rect.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Enter describes a node appearing in this pass. It starts at From (its
// parent's previous position, so it visually grows out of the node that was
// just expanded) with a zero-size box, and animates to its laid-out position
// and true box size.
type Enter struct {
	Node         *VisualNode
	Parent       *VisualNode // nil for the root
	FromX, FromY float64
}

// Move describes a surviving node animating from its previous position to
// its new one.
type Move struct {
	Node         *VisualNode
	Parent       *VisualNode // nil for the root
	FromX, FromY float64
}

// Exit describes a node leaving the visible set. It animates from its
// current position to To (the collapsing node's new position, converging
// back into the parent that hid it) while its box shrinks to zero, then is
// detached from the render surface.
type Exit struct {
	Node         *VisualNode
	Parent       *VisualNode
	ToX, ToY     float64
	FromX, FromY float64
}

// Frame is the keyed diff between two consecutive layout passes: the
// create/update/remove sets a rendering sink needs to drive one animated
// transition. Nodes are keyed by their stable ID; edges reuse the same
// entries keyed by the child's ID, since a child has exactly one parent.
//
// Entries appear in traversal order, parents before children.
type Frame struct {
	Enters []Enter
	Moves  []Move
	Exits  []Exit

	// Bounds covers every visible node box in the new layout, for viewport
	// fitting and SVG viewBox computation.
	Bounds Rect

	// Duration is the fixed transition duration for every animation in the
	// frame.
	Duration time.Duration
}

// VisibleCount returns the number of nodes visible after this pass.
func (f Frame) VisibleCount() int { return len(f.Enters) + len(f.Moves) }
