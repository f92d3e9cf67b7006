package diagram

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mindtree-io/mindtree/pkg/diagram/text"
	"github.com/mindtree-io/mindtree/pkg/tree"
)

var (
	// ErrUnknownNode is returned by [Engine.Toggle] when the node ID was
	// never assigned by this engine.
	ErrUnknownNode = errors.New("unknown node ID")

	// ErrNodeNotVisible is returned by [Engine.Toggle] when the node exists
	// but is currently hidden under a collapsed ancestor. Hidden nodes
	// cannot be activated.
	ErrNodeNotVisible = errors.New("node is not visible")

	// ErrNilMeasurer is returned by [New] when no text-measurement
	// capability is supplied. The engine never guesses sizes.
	ErrNilMeasurer = errors.New("measurer must not be nil")
)

// Engine owns the visual state of one diagram: the arena of VisualNodes
// keyed by stable identity, the current visible set, and the keyed diff
// between consecutive layout passes.
//
// Engine is single-threaded by design: every operation runs a full
// layout+measure+diff+commit pass to completion before returning, so each
// pass is atomic with respect to the arena. A second toggle arriving
// mid-animation is legal and simply diffs against the committed positions.
// If used from multiple goroutines (for example one engine per HTTP-served
// diagram), confine all calls to one goroutine or guard them with a mutex.
type Engine struct {
	cfg  Config
	meas text.Measurer

	root   *tree.Node
	arena  map[*tree.Node]*VisualNode
	byID   map[NodeID]*VisualNode
	nextID NodeID

	visible    []*VisualNode // current visible set, parents before children
	visibleSet map[NodeID]struct{}
	parents    map[NodeID]*VisualNode
	children   map[NodeID][]*VisualNode

	frame Frame
}

// New creates an engine for the given answer tree and runs the initial
// layout pass. The tree is validated first; a cyclic or oversized tree is
// rejected before any layout work. Every node starts expanded.
//
// m is the text-measurement capability of the rendering surface. The initial
// frame (all nodes entering, growing out of the root) is available via
// [Engine.CurrentFrame].
func New(root *tree.Node, cfg Config, m text.Measurer) (*Engine, error) {
	if m == nil {
		return nil, ErrNilMeasurer
	}
	if err := tree.Validate(root); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:   cfg,
		meas:  m,
		root:  root,
		arena: make(map[*tree.Node]*VisualNode),
		byID:  make(map[NodeID]*VisualNode),
	}
	f, err := e.pass(nil)
	if err != nil {
		return nil, err
	}
	e.frame = f
	return e, nil
}

// Root returns the root visual node.
func (e *Engine) Root() *VisualNode { return e.visible[0] }

// Node returns the visual node with the given ID, or nil if the ID was never
// assigned by this engine.
func (e *Engine) Node(id NodeID) *VisualNode { return e.byID[id] }

// Visible returns the currently visible nodes in traversal order, parents
// before children. The slice is shared with the engine; do not modify it.
func (e *Engine) Visible() []*VisualNode { return e.visible }

// ChildrenOf returns the visible children of v in source order. Collapsed
// nodes have no visible children.
func (e *Engine) ChildrenOf(v *VisualNode) []*VisualNode { return e.children[v.ID] }

// Edges returns the derived parent-child pairs among visible nodes, in child
// traversal order. Each edge is keyed by its child's identity.
func (e *Engine) Edges() []Edge {
	edges := make([]Edge, 0, len(e.visible)-1)
	for _, v := range e.visible {
		if p := e.parents[v.ID]; p != nil {
			edges = append(edges, Edge{Parent: p, Child: v})
		}
	}
	return edges
}

// CurrentFrame returns the diff produced by the most recent pass.
func (e *Engine) CurrentFrame() Frame { return e.frame }

// Bounds returns the bounding box of the current layout.
func (e *Engine) Bounds() Rect { return e.frame.Bounds }

// Toggle flips the node between expanded and collapsed and runs a new layout
// pass with that node as the animation origin: descendants removed by a
// collapse converge into the node's new position, and descendants revealed
// by an expand grow out of its previous one.
//
// Toggling a leaf is legal and yields a pass with no enters or exits.
// Returns ErrUnknownNode or ErrNodeNotVisible for invalid targets.
func (e *Engine) Toggle(id NodeID) (Frame, error) {
	v, ok := e.byID[id]
	if !ok {
		return Frame{}, ErrUnknownNode
	}
	if _, vis := e.visibleSet[id]; !vis {
		return Frame{}, ErrNodeNotVisible
	}

	v.toggle()
	f, err := e.pass(v)
	if err != nil {
		v.toggle() // measurement failed, nothing committed
		return Frame{}, err
	}
	e.frame = f
	return f, nil
}

// SetRoot discards the whole diagram and starts over with a new answer tree.
// All previous identities are destroyed (IDs stay monotonic so stale IDs
// from the old tree never alias new nodes); previously visible nodes exit by
// converging into the new root. Returns an error and leaves the engine
// untouched if the new tree fails validation or measurement.
func (e *Engine) SetRoot(root *tree.Node) (Frame, error) {
	if err := tree.Validate(root); err != nil {
		return Frame{}, err
	}

	oldRoot := e.root
	oldArena, oldByID := e.arena, e.byID
	oldVisible, oldSet := e.visible, e.visibleSet
	oldParents, oldChildren := e.parents, e.children

	e.root = root
	e.arena = make(map[*tree.Node]*VisualNode)
	e.byID = make(map[NodeID]*VisualNode)
	e.visible, e.visibleSet, e.parents, e.children = nil, nil, nil, nil

	f, err := e.pass(nil)
	if err != nil {
		e.root = oldRoot
		e.arena, e.byID = oldArena, oldByID
		e.visible, e.visibleSet = oldVisible, oldSet
		e.parents, e.children = oldParents, oldChildren
		return Frame{}, err
	}

	nr := e.visible[0]
	for _, v := range oldVisible {
		f.Exits = append(f.Exits, Exit{
			Node: v, Parent: oldParents[v.ID],
			FromX: v.X, FromY: v.Y,
			ToX: nr.X, ToY: nr.Y,
		})
	}
	e.frame = f
	return f, nil
}

// CollapseSignature returns a stable string describing which visible nodes
// are collapsed, in traversal order. Together with a hash of the source tree
// it uniquely keys a rendered state, which makes it usable as a cache key
// component.
func (e *Engine) CollapseSignature() string {
	var b strings.Builder
	for _, v := range e.visible {
		if v.Collapsed {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(int(v.ID)))
		}
	}
	return b.String()
}

// pass runs one atomic layout+measure+diff+commit cycle. origin is the node
// whose activation triggered the pass (nil for the initial pass and for
// SetRoot); exiting nodes converge to its new position.
//
// The pass is two-phase per the measurement contract: phase one walks the
// visible set and measures any node not yet sized (the only step that can
// fail), phase two assigns grid positions, diffs against the previous
// visible set, and commits previousPosition := position. A measurement
// failure aborts before phase two, leaving all committed state intact.
func (e *Engine) pass(origin *VisualNode) (Frame, error) {
	// Phase 1: collect the visible set, creating visual nodes lazily, and
	// measure any node without a box size.
	var newVisible []*VisualNode
	newParents := make(map[NodeID]*VisualNode)
	newChildren := make(map[NodeID][]*VisualNode)

	var collect func(n *tree.Node, parent *VisualNode, depth int) error
	collect = func(n *tree.Node, parent *VisualNode, depth int) error {
		v, ok := e.arena[n]
		if !ok {
			v = &VisualNode{ID: e.nextID, Source: n, children: n.Children}
			e.nextID++
			e.arena[n] = v
			e.byID[v.ID] = v
		}
		v.Depth = depth

		if !v.measured {
			v.Lines = text.Wrap(n.Name, e.cfg.WrapBudget)
			w, h, err := text.BoxSize(v.Lines, e.meas, e.cfg.Box)
			if err != nil {
				return err
			}
			v.Width, v.Height = w, h
			v.measured = true
		}

		newVisible = append(newVisible, v)
		if parent != nil {
			newParents[v.ID] = parent
			newChildren[parent.ID] = append(newChildren[parent.ID], v)
		}
		for _, c := range v.visibleChildren() {
			if err := collect(c, v, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := collect(e.root, nil, 0); err != nil {
		return Frame{}, err
	}

	// Phase 2: positions, diff, commit.
	layoutPositions(newVisible, newChildren, e.cfg)

	f := Frame{Duration: e.cfg.AnimationDuration, Bounds: bounds(newVisible)}

	for _, v := range newVisible {
		p := newParents[v.ID]
		if _, wasVisible := e.visibleSet[v.ID]; wasVisible {
			f.Moves = append(f.Moves, Move{Node: v, Parent: p, FromX: v.PrevX, FromY: v.PrevY})
			continue
		}
		// Enters originate at the parent's previous position. Processing in
		// traversal order means an entering parent has already had its
		// previousPosition set to its own origin, so chains of enters all
		// cascade out of the node that was expanded. The root enters in
		// place.
		ox, oy := v.X, v.Y
		if p != nil {
			ox, oy = p.PrevX, p.PrevY
		}
		v.PrevX, v.PrevY = ox, oy
		f.Enters = append(f.Enters, Enter{Node: v, Parent: p, FromX: ox, FromY: oy})
	}

	if origin != nil {
		inNew := make(map[NodeID]struct{}, len(newVisible))
		for _, v := range newVisible {
			inNew[v.ID] = struct{}{}
		}
		for _, v := range e.visible {
			if _, ok := inNew[v.ID]; ok {
				continue
			}
			f.Exits = append(f.Exits, Exit{
				Node: v, Parent: e.parents[v.ID],
				FromX: v.X, FromY: v.Y,
				ToX: origin.X, ToY: origin.Y,
			})
		}
	}

	// Commit: the new positions become the baseline for the next diff.
	for _, v := range newVisible {
		v.PrevX, v.PrevY = v.X, v.Y
	}
	e.visible = newVisible
	e.visibleSet = make(map[NodeID]struct{}, len(newVisible))
	for _, v := range newVisible {
		e.visibleSet[v.ID] = struct{}{}
	}
	e.parents = newParents
	e.children = newChildren

	return f, nil
}
