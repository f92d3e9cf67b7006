// Package render provides output rendering for mind-map diagrams.
//
// # Overview
//
// This package contains the rendering sinks that turn a laid-out diagram
// into visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Animated standalone SVG (in [svg] subpackage)
//   - Graphviz node-link snapshots (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both sinks share them.
//
//	out := svg.Render(engine)
//	pdf, err := render.ToPDF(out)
//	png, err := render.ToPNG(out, 2.0)  // 2x scale
//
// # Animated SVG
//
// The [svg] subpackage is the primary sink. It draws the engine's visible
// set with the tidy layout's coordinates and can replay the latest frame's
// enter/move/exit transitions as SMIL animations.
//
// # Node-Link Snapshots
//
// The [nodelink] subpackage exports the visible tree as Graphviz DOT and
// renders it in-process, for users who want a static snapshot laid out by
// Graphviz instead of the engine.
//
//	dot := nodelink.ToDOT(root, nodelink.Options{})
//	out, err := nodelink.RenderSVG(dot)
//
// [svg]: github.com/mindtree-io/mindtree/pkg/render/svg
// [nodelink]: github.com/mindtree-io/mindtree/pkg/render/nodelink
package render
