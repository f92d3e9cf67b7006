// Package diagram implements the hierarchical diagram engine at the heart of
// mindtree: it turns an arbitrary answer tree into a laid-out, animated,
// collapsible visual graph and keeps that graph consistent as collapse state
// or the tree itself changes.
//
// # Overview
//
// The engine layers four concerns on top of the read-only tree model:
//
//  1. Layout: a tidy left-to-right tree layout where the horizontal axis is
//     purely depth times a fixed spacing and vertical slots are assigned
//     bottom-up in source order ([Config]).
//  2. Text: balanced rune-count label wrapping and measurement-driven box
//     sizing ([text]).
//  3. Diffing: every pass produces a [Frame] - keyed create/update/remove
//     sets with animation start and end points - by matching the previous
//     and next visible sets on stable [NodeID] identity.
//  4. Interaction: each node toggles between expanded and collapsed;
//     collapsed subtrees are parked, not destroyed, so re-expansion is
//     instantaneous and restores the exact pre-collapse geometry.
//
// The viewport transform (pan/zoom) is independent of all of this and lives
// in the [viewport] subpackage; it composes with rendering sinks through a
// single affine transform applied to the whole drawn group.
//
// # Usage
//
//	root, _ := tree.LoadFile("answer.json")
//	eng, err := diagram.New(root, diagram.DefaultConfig(), measurer)
//	if err != nil {
//	    return err
//	}
//	frame := eng.CurrentFrame()       // all nodes enter, growing out of the root
//	frame, err = eng.Toggle(nodeID)   // collapse or expand one node
//
// A rendering sink consumes frames: enters appear at their parent's previous
// position with a zero-size box, moves animate between committed positions,
// exits converge into the node that collapsed them. Edge animations reuse
// the same entries keyed by the child's identity.
//
// # Two-phase passes
//
// Text measurement is the only operation that reads back from the rendering
// surface, so every pass is strictly two-phase: measure first (the only
// fallible step), then position+diff+commit. A pass runs to completion
// before the engine returns, making it atomic with respect to the node
// arena; see [Engine] for the concurrency contract.
//
// [text]: github.com/mindtree-io/mindtree/pkg/diagram/text
// [viewport]: github.com/mindtree-io/mindtree/pkg/diagram/viewport
package diagram
