package tree

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadJSON decodes an answer tree from r and validates it.
//
// The input must be a JSON object with a "name" field and an optional
// "children" array of the same shape:
//
//	{
//	  "name": "腎臟病",
//	  "children": [
//	    {"name": "飲食"},
//	    {"name": "症狀"}
//	  ]
//	}
//
// An empty object decodes to a single root with an empty label, which the
// engine renders as a minimal single-box diagram. JSON null is rejected
// with ErrNilTree.
//
// ReadJSON does not close r. The returned tree is independent of r and safe
// to hand to multiple diagram instances, since consumers never mutate it.
func ReadJSON(r io.Reader) (*Node, error) {
	dec := json.NewDecoder(r)
	var root *Node
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

// LoadFile reads and validates an answer tree from a JSON file.
func LoadFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tree file: %w", err)
	}
	defer f.Close()

	root, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// Marshal encodes the tree back to indented JSON. Round-trips with ReadJSON.
func Marshal(root *Node) ([]byte, error) {
	return json.MarshalIndent(root, "", "  ")
}
