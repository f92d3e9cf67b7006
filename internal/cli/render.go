package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindtree-io/mindtree/pkg/cache"
	"github.com/mindtree-io/mindtree/pkg/config"
	"github.com/mindtree-io/mindtree/pkg/diagram"
	apperrors "github.com/mindtree-io/mindtree/pkg/errors"
	"github.com/mindtree-io/mindtree/pkg/observability"
	"github.com/mindtree-io/mindtree/pkg/render"
	"github.com/mindtree-io/mindtree/pkg/render/nodelink"
	"github.com/mindtree-io/mindtree/pkg/render/svg"
	"github.com/mindtree-io/mindtree/pkg/tree"
)

const (
	diagramMindmap  = "mindmap"  // tidy left-to-right layout with animated SVG
	diagramNodelink = "nodelink" // Graphviz dot layout
	defaultPNGScale = 2.0        // raster scale factor for PNG export
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple formats)
	formats  []string // output formats: "svg", "pdf", "png"
	diagram  string   // diagram type: "mindmap" or "nodelink"
	config   string   // optional TOML config path
	noCache  bool     // bypass the artifact cache
	pngScale float64  // raster scale for PNG output
}

// newRenderCmd creates the render command for generating diagrams.
// It supports two diagram types (mindmap, nodelink) and three output
// formats (SVG, PDF, PNG). PDF and PNG conversion shell out to
// rsvg-convert and drop any animations.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		diagram:  diagramMindmap,
		pngScale: defaultPNGScale,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a tree to a mind-map diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if err := validateDiagramType(opts.diagram); err != nil {
				return err
			}
			if opts.output != "" {
				if err := apperrors.ValidateOutputPath(opts.output); err != nil {
					return err
				}
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.diagram, "type", "t", opts.diagram, "diagram type: mindmap (default), nodelink")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "path to TOML config file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the rendered artifact cache")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "raster scale factor for PNG output")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// validateFormats checks that all requested formats are supported.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if err := apperrors.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// validateDiagramType checks that the diagram type is known.
func validateDiagramType(t string) error {
	if t != diagramMindmap && t != diagramNodelink {
		return fmt.Errorf("invalid diagram type: %s (must be 'mindmap' or 'nodelink')", t)
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output already
// carries a format extension, that extension is stripped so per-format
// suffixes can be appended.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	switch ext := filepath.Ext(output); ext {
	case ".svg", ".pdf", ".png":
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender loads the tree, builds the layout engine, and renders the
// requested formats. Rendered artifacts are cached keyed by the tree bytes,
// the collapse state, and the effective config.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	raw, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	root, err := tree.ReadJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	logger.Debugf("Loaded tree: %d nodes", root.Count())

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}

	layoutStart := time.Now()
	observability.Diagram().OnLayoutStart(ctx, root.Count())
	eng, err := diagram.New(root, cfg.Engine(), svg.Measurer())
	observability.Diagram().OnLayoutComplete(ctx, root.Count(), time.Since(layoutStart), err)
	if err != nil {
		return err
	}

	c, err := newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer c.Close()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	rr := &artifactRenderer{
		eng:      eng,
		treeRoot: root,
		cfg:      cfg,
		cfgHash:  cache.Hash(cfgJSON),
		treeHash: cache.Hash(raw),
		cache:    c,
		keyer:    cache.NewDefaultKeyer(),
		opts:     opts,
	}

	p := newProgress(logger)
	for _, format := range opts.formats {
		if err := rr.renderAndWrite(ctx, format, input); err != nil {
			return fmt.Errorf("%s/%s: %w", opts.diagram, format, err)
		}
	}
	p.done(fmt.Sprintf("Rendered %d nodes", len(eng.Visible())))
	return nil
}

// artifactRenderer carries the shared state for rendering one input tree to
// one or more output formats.
type artifactRenderer struct {
	eng      *diagram.Engine
	treeRoot *tree.Node
	cfg      config.Config
	cfgHash  string
	treeHash string
	cache    cache.Cache
	keyer    cache.Keyer
	opts     *renderOpts
}

// renderAndWrite produces one artifact, consulting the cache first, and
// writes it to the derived output path.
func (r *artifactRenderer) renderAndWrite(ctx context.Context, format, input string) error {
	logger := loggerFromContext(ctx)

	key := r.keyer.ArtifactKey(r.treeHash, cache.ArtifactKeyOpts{
		CollapseSignature: r.eng.CollapseSignature(),
		Format:            r.opts.diagram + "/" + format,
		ConfigHash:        r.cfgHash,
		Scale:             r.opts.pngScale,
	})

	data, hit, err := r.cache.Get(ctx, key)
	if err != nil {
		logger.Debugf("Cache lookup failed: %v", err)
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		logger.Debugf("Cache hit for %s", format)
	} else {
		observability.Cache().OnCacheMiss(ctx, "artifact")

		start := time.Now()
		observability.Diagram().OnRenderStart(ctx, format)
		data, err = r.render(ctx, format)
		observability.Diagram().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return err
		}

		if setErr := r.cache.Set(ctx, key, data, 0); setErr != nil {
			logger.Debugf("Cache store failed: %v", setErr)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	outputPath := r.opts.output
	if len(r.opts.formats) > 1 || outputPath == "" {
		outputPath = basePath(r.opts.output, input) + "." + format
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return err
	}

	printSuccess("Rendered %s diagram", r.opts.diagram)
	printFile(outputPath)
	printStats(len(r.eng.Visible()), len(data), hit)
	return nil
}

// render dispatches to the mindmap or nodelink pipeline for one format.
func (r *artifactRenderer) render(ctx context.Context, format string) ([]byte, error) {
	if r.opts.diagram == diagramNodelink {
		return r.renderNodelink(ctx, format)
	}
	return r.renderMindmap(ctx, format)
}

// renderMindmap renders the tidy layout as SVG, converting to PDF or PNG
// through rsvg-convert when requested.
func (r *artifactRenderer) renderMindmap(ctx context.Context, format string) ([]byte, error) {
	doc := svg.Render(r.eng,
		svg.WithFont("sans-serif", r.cfg.Text.FontSize),
		svg.WithLineHeight(r.cfg.Text.LineHeight),
	)
	switch format {
	case "svg":
		return doc, nil
	case "pdf":
		return convertWithSpinner(ctx, "Converting to PDF", func() ([]byte, error) {
			return render.ToPDF(doc)
		})
	case "png":
		return convertWithSpinner(ctx, "Converting to PNG", func() ([]byte, error) {
			return render.ToPNG(doc, r.opts.pngScale)
		})
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// renderNodelink renders the tree through Graphviz dot.
func (r *artifactRenderer) renderNodelink(ctx context.Context, format string) ([]byte, error) {
	logger := loggerFromContext(ctx)
	logger.Debug("Generating node-link diagram")

	dot := nodelink.ToDOT(r.treeRoot, nodelink.Options{WrapBudget: r.cfg.Text.WrapBudget})

	switch format {
	case "svg":
		return nodelink.RenderSVG(dot)
	case "pdf":
		return nodelink.RenderPDF(dot)
	case "png":
		return nodelink.RenderPNG(dot, r.opts.pngScale)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// convertWithSpinner runs a blocking conversion behind a terminal spinner.
// A cancellation during the conversion wins over its result.
func convertWithSpinner(ctx context.Context, message string, fn func() ([]byte, error)) ([]byte, error) {
	sp := newSpinnerWithContext(ctx, message)
	sp.Start()
	data, err := fn()
	sp.Stop()
	if err == nil && sp.Cancelled() {
		return nil, ctx.Err()
	}
	return data, err
}
