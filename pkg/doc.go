// Package pkg provides the core libraries for mindtree diagram rendering.
//
// # Overview
//
// Mindtree turns hierarchical tree data (typically AI-generated answer
// trees) into animated left-to-right mind-map diagrams. The pkg directory
// is organized into four main areas:
//
//  1. [tree] - Input model (JSON decoding and validation)
//  2. [diagram] - Layout engine (tidy layout, text wrapping, frame diffing)
//  3. [render] - Output sinks (animated SVG, Graphviz node-link, PDF/PNG)
//  4. [server] - HTTP hosting with clickable expand/collapse
//
// # Architecture
//
// The typical data flow through mindtree:
//
//	Tree JSON
//	     ↓
//	[tree] package (decode + validate)
//	     ↓
//	[diagram] package (measure, layout, diff into frames)
//	     ↓
//	[render/svg] package (animated SVG document)
//	     ↓
//	SVG/PDF/PNG output
//
// # Quick Start
//
// Lay out a tree and render it to SVG:
//
//	import (
//	    "github.com/mindtree-io/mindtree/pkg/diagram"
//	    "github.com/mindtree-io/mindtree/pkg/render/svg"
//	    "github.com/mindtree-io/mindtree/pkg/tree"
//	)
//
//	// 1. Load and validate the tree
//	root, _ := tree.LoadFile("answer.json")
//
//	// 2. Build the layout engine
//	eng, _ := diagram.New(root, diagram.DefaultConfig(), svg.Measurer())
//
//	// 3. Render to SVG
//	doc := svg.Render(eng)
//
// Collapse a subtree and render the transition:
//
//	frame, _ := eng.Toggle(nodeID)
//	doc := svg.Render(eng, svg.WithAnimation())
//	_ = frame // enters, moves, and exits for custom sinks
//
// # Main Packages
//
// [tree] - The immutable input model: JSON decoding, structural validation
// (acyclicity, depth and size guards).
//
// [diagram] - The layout engine. Owns the visual node arena, balanced
// rune-count label wrapping, box sizing, the tidy left-to-right layout, and
// keyed frame diffing that classifies nodes into enters, moves, and exits
// for animation.
//
// [diagram/viewport] - Pan/zoom transform with clamped scale bounds and
// anchor-preserving zoom.
//
// [render/svg] - Animated SVG sink with SMIL transitions, cubic Bézier
// edges, and optional clickable toggle links.
//
// [render/nodelink] - Alternative Graphviz dot rendering of the full tree.
//
// [render] - Format conversion helpers (SVG to PDF/PNG via rsvg-convert).
//
// [server] - HTTP hosting: a TTL registry of live diagrams, per-diagram
// serialization, and cached artifact rendering behind chi.
//
// [cache] - Rendered artifact cache with file, Redis, and null backends.
//
// [config] - TOML configuration for layout, text, box, animation, and
// viewport tunables.
//
// [errors] - Structured error codes with HTTP status mapping, plus input
// validation helpers.
//
// [observability] - Pluggable layout/render/cache hooks.
//
// [watcher] - Debounced file watching for live re-rendering.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/diagram/...      # Specific package
//	go test -run Example           # Examples only
//
// [tree]: https://pkg.go.dev/github.com/mindtree-io/mindtree/pkg/tree
// [diagram]: https://pkg.go.dev/github.com/mindtree-io/mindtree/pkg/diagram
// [diagram/viewport]: https://pkg.go.dev/github.com/mindtree-io/mindtree/pkg/diagram/viewport
// [render]: https://pkg.go.dev/github.com/mindtree-io/mindtree/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/mindtree-io/mindtree/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/mindtree-io/mindtree/pkg/render/nodelink
// [server]: https://pkg.go.dev/github.com/mindtree-io/mindtree/pkg/server
// [cache]: https://pkg.go.dev/github.com/mindtree-io/mindtree/pkg/cache
// [config]: https://pkg.go.dev/github.com/mindtree-io/mindtree/pkg/config
// [errors]: https://pkg.go.dev/github.com/mindtree-io/mindtree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/mindtree-io/mindtree/pkg/observability
// [watcher]: https://pkg.go.dev/github.com/mindtree-io/mindtree/pkg/watcher
package pkg
