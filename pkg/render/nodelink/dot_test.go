package nodelink

import (
	"strings"
	"testing"

	"github.com/mindtree-io/mindtree/pkg/tree"
)

func sampleTree() *tree.Node {
	return &tree.Node{
		Name: "root",
		Children: []*tree.Node{
			{Name: "left branch"},
			{Name: "right", Children: []*tree.Node{{Name: "deep"}}},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleTree(), Options{})

	if !strings.Contains(dot, "rankdir=LR") {
		t.Errorf("layout must run left to right")
	}
	for _, want := range []string{`n0 [label="root"]`, `n1 [label="left branch"]`, "n0 -> n1", "n0 -> n2", "n2 -> n3"} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in:\n%s", want, dot)
		}
	}
}

func TestToDOTWrapsLabels(t *testing.T) {
	dot := ToDOT(&tree.Node{Name: "chronic disease"}, Options{WrapBudget: 8})

	// Balanced wrapping splits 15 runes over two lines; %q escapes the break.
	if !strings.Contains(dot, `label="chronic \ndisease"`) {
		t.Errorf("label not wrapped:\n%s", dot)
	}
}

func TestToDOTMaxDepth(t *testing.T) {
	dot := ToDOT(sampleTree(), Options{MaxDepth: 2})

	if strings.Contains(dot, `"deep"`) {
		t.Errorf("depth-2 node should be cut off:\n%s", dot)
	}
	if !strings.Contains(dot, `"right"`) {
		t.Errorf("depth-1 node should survive:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 128.00 96.00" xmlns="http://www.w3.org/2000/svg">`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 128.00 96.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="128" height="96"`) {
		t.Errorf("pixel dimensions not set: %s", out)
	}
	if strings.Contains(out, "pt") {
		t.Errorf("point units should be gone: %s", out)
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte(`<svg><rect/></svg>`)
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("svg without viewBox must pass through unchanged, got %s", got)
	}
}
