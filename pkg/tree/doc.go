// Package tree defines the read-only answer tree that mindtree visualizes.
//
// # Overview
//
// Mindtree turns AI-generated answers into explorable mind maps. The answer
// arrives as a tree of labeled nodes, typically parsed from JSON produced by
// a prompt-to-tree generator:
//
//	{"name": "腎臟病", "children": [{"name": "飲食"}, {"name": "症狀"}]}
//
// This package owns that input contract and nothing else. It deliberately
// carries no layout, collapse, or rendering state - the diagram engine in
// [github.com/mindtree-io/mindtree/pkg/diagram] keeps all runtime state in
// its own arena, keyed by stable identity, so the input tree can stay an
// immutable value shared across diagram instances.
//
// # Validation
//
// Generators are trusted for shape but not for structure: [Validate] rejects
// reference cycles (detected with a visited set during a single traversal)
// and applies defensive depth and node-count guards. Validation must succeed
// before any layout attempt; on failure the engine renders nothing rather
// than looping on malformed input.
//
// # Usage
//
//	root, err := tree.LoadFile("answer.json")
//	if err != nil {
//	    return err
//	}
//	eng, err := diagram.New(root, diagram.DefaultConfig(), measurer)
package tree
