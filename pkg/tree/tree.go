package tree

import "errors"

var (
	// ErrNilTree is returned by [Validate] when the root node is nil.
	// Callers that want a minimal single-box diagram for empty input should
	// decode an empty JSON object instead, which yields a root with an
	// empty label.
	ErrNilTree = errors.New("tree root must not be nil")

	// ErrTreeCycle is returned by [Validate] when the input contains a
	// reference cycle. Trees are strictly acyclic; a cycle means the caller
	// assembled the node graph incorrectly (for example from malformed
	// AI-generated JSON stitched together by hand).
	ErrTreeCycle = errors.New("tree contains a reference cycle")

	// ErrTreeTooDeep is returned by [Validate] when nesting exceeds
	// [MaxDepth]. This is a defensive guard against runaway recursion on
	// degenerate input.
	ErrTreeTooDeep = errors.New("tree exceeds maximum depth")

	// ErrTreeTooLarge is returned by [Validate] when the node count exceeds
	// [MaxNodes].
	ErrTreeTooLarge = errors.New("tree exceeds maximum node count")
)

// Defensive limits enforced by Validate. Real answer trees are a few dozen
// nodes; these bounds only exist to reject pathological input before any
// layout work starts.
const (
	MaxDepth = 512
	MaxNodes = 100_000
)

// Node is a single labeled node in an answer tree. Nodes are supplied by an
// external generator (typically parsed from AI-produced JSON) and are treated
// as read-only by everything downstream: the diagram engine keeps its own
// per-node runtime state and never mutates a Node.
//
// A nil or empty Children slice marks a leaf.
type Node struct {
	Name     string  `json:"name"`
	Children []*Node `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Count returns the total number of nodes in the subtree rooted at n,
// including n itself. Count assumes the subtree has already been validated
// and does not guard against cycles.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Validate checks that root is a well-formed finite tree: non-nil, acyclic
// (no node reachable twice, which also rejects shared subtrees), and within
// the MaxDepth / MaxNodes guards.
//
// Returns ErrNilTree, ErrTreeCycle, ErrTreeTooDeep, or ErrTreeTooLarge.
// Validation runs in O(n) and must pass before any layout attempt; on
// failure the engine renders nothing rather than looping.
func Validate(root *Node) error {
	if root == nil {
		return ErrNilTree
	}

	seen := make(map[*Node]struct{})
	count := 0

	var walk func(n *Node, depth int) error
	walk = func(n *Node, depth int) error {
		if n == nil {
			return nil
		}
		if depth > MaxDepth {
			return ErrTreeTooDeep
		}
		if _, ok := seen[n]; ok {
			return ErrTreeCycle
		}
		seen[n] = struct{}{}
		if count++; count > MaxNodes {
			return ErrTreeTooLarge
		}
		for _, c := range n.Children {
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	return walk(root, 0)
}
