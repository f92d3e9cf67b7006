package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf", []string{"svg", "pdf"}},
		{"whitespace trimmed", "svg, pdf", []string{"svg", "pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	if err := validateFormats([]string{"svg", "pdf", "png"}); err != nil {
		t.Errorf("validateFormats(valid) = %v, want nil", err)
	}
	if err := validateFormats([]string{"svg", "gif"}); err == nil {
		t.Error("validateFormats(gif) = nil, want error")
	}
}

func TestValidateDiagramType(t *testing.T) {
	if err := validateDiagramType("mindmap"); err != nil {
		t.Errorf("validateDiagramType(mindmap) = %v, want nil", err)
	}
	if err := validateDiagramType("nodelink"); err != nil {
		t.Errorf("validateDiagramType(nodelink) = %v, want nil", err)
	}
	if err := validateDiagramType("tower"); err == nil {
		t.Error("validateDiagramType(tower) = nil, want error")
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"empty output strips input extension", "", "tree.json", "tree"},
		{"output with svg extension", "out.svg", "tree.json", "out"},
		{"output with png extension", "out.png", "tree.json", "out"},
		{"output without extension kept", "diagram", "tree.json", "diagram"},
		{"unknown extension kept", "out.data", "tree.json", "out.data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestRunRenderWritesSVG(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tree.json")
	treeJSON := `{"name":"root","children":[{"name":"alpha"},{"name":"beta"}]}`
	if err := os.WriteFile(input, []byte(treeJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(dir, "out.svg")
	opts := renderOpts{
		output:   output,
		formats:  []string{"svg"},
		diagram:  diagramMindmap,
		noCache:  true,
		pngScale: defaultPNGScale,
	}

	if err := runRender(context.Background(), input, &opts); err != nil {
		t.Fatalf("runRender() error = %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	doc := string(data)
	if !strings.Contains(doc, "<svg") {
		t.Error("output missing <svg root element")
	}
	for _, label := range []string{"root", "alpha", "beta"} {
		if !strings.Contains(doc, label) {
			t.Errorf("output missing label %q", label)
		}
	}
}

func TestRunRenderInvalidTree(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(input, []byte(`{"name": "root", "children": [`), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := renderOpts{
		formats: []string{"svg"},
		diagram: diagramMindmap,
		noCache: true,
	}
	if err := runRender(context.Background(), input, &opts); err == nil {
		t.Error("runRender() = nil for malformed JSON, want error")
	}
}
