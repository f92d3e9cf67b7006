package diagram

import "github.com/mindtree-io/mindtree/pkg/tree"

// NodeID is the stable identity of a visual node. IDs are assigned the first
// time a tree node becomes visible and are never reassigned while the node's
// ancestor chain remains in the tree, which is what lets successive layout
// passes be diffed key-by-key.
type NodeID int

// VisualNode is the engine-owned runtime entity for one tree node. The input
// tree.Node stays read-only; everything mutable (position, collapse state,
// box size) lives here, in the engine's arena.
type VisualNode struct {
	ID     NodeID
	Source *tree.Node // non-owning reference to the input node

	Depth int // root = 0

	// X grows with depth (left to right), Y is the vertical slot axis.
	// PrevX/PrevY hold the position before the most recent layout pass and
	// serve as the animation start point.
	X, Y         float64
	PrevX, PrevY float64

	// Width/Height of the node box, derived from the wrapped label. Labels
	// are immutable per node, so this is computed once, on first visibility.
	Width, Height float64
	Lines         []string

	Collapsed bool

	// children is the live traversal slice; collapsedChildren parks the
	// subtree while collapsed so re-expansion needs no recomputation.
	// Exactly one of the two is non-nil for a node with children.
	children          []*tree.Node
	collapsedChildren []*tree.Node

	measured bool
}

// Label returns the node's display label.
func (v *VisualNode) Label() string { return v.Source.Name }

// IsLeaf reports whether the node has no children in the source tree,
// regardless of collapse state.
func (v *VisualNode) IsLeaf() bool { return v.Source.IsLeaf() }

// HasHiddenChildren reports whether the node has children that are currently
// collapsed out of the visible set.
func (v *VisualNode) HasHiddenChildren() bool { return v.Collapsed && len(v.collapsedChildren) > 0 }

// visibleChildren returns the live children respecting collapse state.
func (v *VisualNode) visibleChildren() []*tree.Node {
	if v.Collapsed {
		return nil
	}
	return v.children
}

// toggle swaps the live children with the parked slice. Expanded -> Collapsed
// moves children into collapsedChildren; Collapsed -> Expanded is the
// inverse. Leaves toggle their flag but have nothing to park.
func (v *VisualNode) toggle() {
	if v.Collapsed {
		v.children, v.collapsedChildren = v.collapsedChildren, nil
		v.Collapsed = false
		return
	}
	v.collapsedChildren, v.children = v.children, nil
	v.Collapsed = true
}

// Edge is the derived connection between a visible parent and child. An edge
// has no identity of its own: a child has exactly one parent, so the child's
// ID keys the edge.
type Edge struct {
	Parent *VisualNode
	Child  *VisualNode
}
