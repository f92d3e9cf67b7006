package tree

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Node
		wantErr error
	}{
		{
			name:    "nil root",
			build:   func() *Node { return nil },
			wantErr: ErrNilTree,
		},
		{
			name:  "single node",
			build: func() *Node { return &Node{Name: "root"} },
		},
		{
			name: "small tree",
			build: func() *Node {
				return &Node{Name: "腎臟病", Children: []*Node{
					{Name: "飲食"},
					{Name: "症狀"},
				}}
			},
		},
		{
			name: "self cycle",
			build: func() *Node {
				n := &Node{Name: "a"}
				n.Children = []*Node{n}
				return n
			},
			wantErr: ErrTreeCycle,
		},
		{
			name: "back edge cycle",
			build: func() *Node {
				root := &Node{Name: "root"}
				child := &Node{Name: "child"}
				root.Children = []*Node{child}
				child.Children = []*Node{root}
				return root
			},
			wantErr: ErrTreeCycle,
		},
		{
			name: "shared subtree",
			build: func() *Node {
				shared := &Node{Name: "shared"}
				return &Node{Name: "root", Children: []*Node{
					{Name: "a", Children: []*Node{shared}},
					{Name: "b", Children: []*Node{shared}},
				}}
			},
			wantErr: ErrTreeCycle,
		},
		{
			name: "too deep",
			build: func() *Node {
				root := &Node{Name: "0"}
				cur := root
				for i := 0; i <= MaxDepth; i++ {
					next := &Node{Name: "n"}
					cur.Children = []*Node{next}
					cur = next
				}
				return root
			},
			wantErr: ErrTreeTooDeep,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.build())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCount(t *testing.T) {
	root := &Node{Name: "root", Children: []*Node{
		{Name: "a", Children: []*Node{{Name: "a1"}, {Name: "a2"}}},
		{Name: "b"},
	}}
	if got := root.Count(); got != 5 {
		t.Errorf("Count() = %d, want 5", got)
	}
	var nilNode *Node
	if got := nilNode.Count(); got != 0 {
		t.Errorf("nil Count() = %d, want 0", got)
	}
}

func TestIsLeaf(t *testing.T) {
	leaf := &Node{Name: "leaf"}
	if !leaf.IsLeaf() {
		t.Error("node without children should be a leaf")
	}
	parent := &Node{Name: "p", Children: []*Node{leaf}}
	if parent.IsLeaf() {
		t.Error("node with children should not be a leaf")
	}
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, root *Node)
	}{
		{
			name:  "nested tree",
			input: `{"name":"腎臟病","children":[{"name":"飲食"},{"name":"症狀"}]}`,
			check: func(t *testing.T, root *Node) {
				if root.Name != "腎臟病" {
					t.Errorf("root name = %q", root.Name)
				}
				if len(root.Children) != 2 {
					t.Fatalf("children = %d, want 2", len(root.Children))
				}
				if !root.Children[0].IsLeaf() || !root.Children[1].IsLeaf() {
					t.Error("children should be leaves")
				}
			},
		},
		{
			name:  "empty object is a minimal single-box tree",
			input: `{}`,
			check: func(t *testing.T, root *Node) {
				if root.Name != "" || !root.IsLeaf() {
					t.Errorf("empty object should decode to empty-label leaf, got %+v", root)
				}
			},
		},
		{
			name:    "json null rejected",
			input:   `null`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			input:   `{"name": "a", "children": [}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := ReadJSON(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadJSON() error = %v", err)
			}
			if tt.check != nil {
				tt.check(t, root)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	root := &Node{Name: "root", Children: []*Node{{Name: "child"}}}
	data, err := Marshal(root)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	back, err := ReadJSON(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if back.Name != "root" || len(back.Children) != 1 || back.Children[0].Name != "child" {
		t.Errorf("round trip mismatch: %+v", back)
	}
}
