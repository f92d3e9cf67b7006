package diagram

// layoutPositions assigns (X, Y) to every node in visible, a tidy left-to-right
// layout specialized for trees:
//
//   - X is purely a function of depth: X = depth * HorizontalSpacing.
//   - Y is assigned bottom-up: each visible leaf takes the next slot at
//     VerticalSpacing intervals, and each internal node sits at the midpoint
//     of its visible children's vertical extent. A single child centers its
//     parent exactly on the child's slot.
//
// Traversal order is the order children appear in the source tree, so slot
// assignment is monotonic in reading order and siblings never overlap. The
// whole pass is O(n) in visible nodes.
//
// children maps each visible node to its visible children, parents before
// children in visible order.
func layoutPositions(visible []*VisualNode, children map[NodeID][]*VisualNode, cfg Config) {
	if len(visible) == 0 {
		return
	}

	nextSlot := 0

	var place func(v *VisualNode)
	place = func(v *VisualNode) {
		v.X = float64(v.Depth) * cfg.HorizontalSpacing

		kids := children[v.ID]
		if len(kids) == 0 {
			v.Y = float64(nextSlot) * cfg.VerticalSpacing
			nextSlot++
			return
		}

		for _, k := range kids {
			place(k)
		}
		first, last := kids[0], kids[len(kids)-1]
		v.Y = (first.Y + last.Y) / 2
	}

	place(visible[0])
}

// bounds computes the union of all visible node boxes, centered on their
// layout positions.
func bounds(visible []*VisualNode) Rect {
	if len(visible) == 0 {
		return Rect{}
	}
	r := Rect{
		MinX: visible[0].X, MaxX: visible[0].X,
		MinY: visible[0].Y, MaxY: visible[0].Y,
	}
	for _, v := range visible {
		r.MinX = min(r.MinX, v.X-v.Width/2)
		r.MaxX = max(r.MaxX, v.X+v.Width/2)
		r.MinY = min(r.MinY, v.Y-v.Height/2)
		r.MaxY = max(r.MaxY, v.Y+v.Height/2)
	}
	return r
}
