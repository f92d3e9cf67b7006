// Package svg renders diagram frames as standalone SVG documents.
//
// The sink draws rounded node boxes, balanced-wrapped label lines, and cubic
// Bézier edges, and can emit SMIL animations that replay the frame's
// enter/move/exit transitions - new nodes grow out of the node that was just
// expanded, removed nodes converge back into the node that collapsed them.
// When serving interactively, every node box can be wrapped in a toggle link
// so a click flips its collapse state server-side.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/mindtree-io/mindtree/pkg/diagram"
	"github.com/mindtree-io/mindtree/pkg/diagram/viewport"
)

const hoverCSS = `
    .node rect { transition: stroke-width 0.2s ease; }
    .node:hover rect { stroke-width: 3; }
    a { cursor: pointer; }`

// Default drawing constants. Corner radius and stroke are cosmetic; padding
// is the margin added around the layout bounds in the viewBox.
const (
	cornerRadius = 6.0
	framePadding = 40.0
)

// RenderOption configures the SVG sink.
type RenderOption func(*renderer)

type renderer struct {
	fontFamily string
	fontSize   float64
	lineHeight float64
	animate    bool
	toggleURL  func(diagram.NodeID) string
	transform  *viewport.Transform
}

// WithFont overrides the font family and size used for labels. The size
// should match the one the engine's measurer was configured with, or boxes
// and glyphs will disagree.
func WithFont(family string, size float64) RenderOption {
	return func(r *renderer) { r.fontFamily, r.fontSize = family, size }
}

// WithLineHeight overrides the vertical advance between label lines. It must
// match the line height the engine's box sizer was configured with, or the
// tspan stack drifts out of the measured rect.
func WithLineHeight(h float64) RenderOption {
	return func(r *renderer) { r.lineHeight = h }
}

// WithAnimation emits SMIL animations replaying the frame's transitions.
func WithAnimation() RenderOption {
	return func(r *renderer) { r.animate = true }
}

// WithToggleLinks wraps each node in a link produced by urlFor, making every
// box a clickable expand/collapse target when the SVG is served over HTTP.
func WithToggleLinks(urlFor func(diagram.NodeID) string) RenderOption {
	return func(r *renderer) { r.toggleURL = urlFor }
}

// WithTransform applies a viewport transform to the whole rendered group.
func WithTransform(t viewport.Transform) RenderOption {
	return func(r *renderer) { r.transform = &t }
}

// Render draws the engine's current visible set, using the most recent frame
// for animation start points. The result is a complete standalone SVG
// document.
func Render(eng *diagram.Engine, opts ...RenderOption) []byte {
	r := renderer{fontFamily: "sans-serif", fontSize: 14}
	for _, opt := range opts {
		opt(&r)
	}

	frame := eng.CurrentFrame()
	b := frame.Bounds
	minX, minY := b.MinX-framePadding, b.MinY-framePadding
	w, h := b.Width()+2*framePadding, b.Height()+2*framePadding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX, minY, w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", hoverCSS)

	if r.transform != nil {
		fmt.Fprintf(&buf, `  <g transform="translate(%.2f %.2f) scale(%.4f)">`+"\n",
			r.transform.TX, r.transform.TY, r.transform.Scale)
	} else {
		buf.WriteString("  <g>\n")
	}

	var fi frameIndex
	if r.animate {
		fi = indexFrame(frame)
	}
	r.renderEdges(&buf, eng, frame, fi)
	r.renderNodes(&buf, eng, frame, fi)
	if r.animate {
		r.renderExits(&buf, frame)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

// frameIndex keys a frame's enters and moves by node ID so edges and boxes
// can look up their transition start points.
type frameIndex struct {
	origins map[diagram.NodeID][2]float64
	moves   map[diagram.NodeID][2]float64
}

func indexFrame(frame diagram.Frame) frameIndex {
	fi := frameIndex{
		origins: make(map[diagram.NodeID][2]float64, len(frame.Enters)),
		moves:   make(map[diagram.NodeID][2]float64, len(frame.Moves)),
	}
	for _, en := range frame.Enters {
		fi.origins[en.Node.ID] = [2]float64{en.FromX, en.FromY}
	}
	for _, mv := range frame.Moves {
		fi.moves[mv.Node.ID] = [2]float64{mv.FromX, mv.FromY}
	}
	return fi
}

// prev returns the node's position before this pass, falling back to the
// current one for nodes that did not move.
func (fi frameIndex) prev(id diagram.NodeID, curX, curY float64) (float64, float64) {
	if p, ok := fi.moves[id]; ok {
		return p[0], p[1]
	}
	return curX, curY
}

// edgePath builds the cubic Bézier from a parent's right edge to its child's
// left edge. The horizontal control points at the column midpoint keep the
// curve legible even at shallow angles, where a straight line would hug the
// boxes.
func edgePath(x1, y1, x2, y2 float64) string {
	mx := (x1 + x2) / 2
	return fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f", x1, y1, mx, y1, mx, y2, x2, y2)
}

// renderEdges draws one path per visible edge, keyed like the node boxes:
// an edge whose child just entered unfolds out of the expansion point while
// fading in, and an edge whose endpoints moved animates between the old and
// new curves.
func (r *renderer) renderEdges(buf *bytes.Buffer, eng *diagram.Engine, frame diagram.Frame, fi frameIndex) {
	dur := frame.Duration.Seconds()
	for _, e := range eng.Edges() {
		d := edgePath(e.Parent.X+e.Parent.Width/2, e.Parent.Y, e.Child.X-e.Child.Width/2, e.Child.Y)

		if r.animate {
			if from, ok := fi.origins[e.Child.ID]; ok {
				fromD := edgePath(from[0], from[1], from[0], from[1])
				fmt.Fprintf(buf, `    <path class="edge" d="%s" fill="none" stroke="#999" stroke-width="1.5">`+"\n", d)
				fmt.Fprintf(buf, `      <animate attributeName="d" from="%s" to="%s" dur="%.3fs"/>`+"\n", fromD, d, dur)
				fmt.Fprintf(buf, `      <animate attributeName="opacity" from="0" to="1" dur="%.3fs"/>`+"\n", dur)
				buf.WriteString("    </path>\n")
				continue
			}
			px, py := fi.prev(e.Parent.ID, e.Parent.X, e.Parent.Y)
			cx, cy := fi.prev(e.Child.ID, e.Child.X, e.Child.Y)
			if px != e.Parent.X || py != e.Parent.Y || cx != e.Child.X || cy != e.Child.Y {
				fromD := edgePath(px+e.Parent.Width/2, py, cx-e.Child.Width/2, cy)
				fmt.Fprintf(buf, `    <path class="edge" d="%s" fill="none" stroke="#999" stroke-width="1.5">`+"\n", d)
				fmt.Fprintf(buf, `      <animate attributeName="d" from="%s" to="%s" dur="%.3fs"/>`+"\n", fromD, d, dur)
				buf.WriteString("    </path>\n")
				continue
			}
		}

		fmt.Fprintf(buf, `    <path class="edge" d="%s" fill="none" stroke="#999" stroke-width="1.5"/>`+"\n", d)
	}
}

func (r *renderer) renderNodes(buf *bytes.Buffer, eng *diagram.Engine, frame diagram.Frame, fi frameIndex) {
	dur := frame.Duration.Seconds()

	for _, v := range eng.Visible() {
		openTag, closeTag := "", ""
		if r.toggleURL != nil {
			openTag = fmt.Sprintf(`    <a href="%s">`+"\n", escapeXML(r.toggleURL(v.ID)))
			closeTag = "    </a>\n"
		}

		buf.WriteString(openTag)
		fmt.Fprintf(buf, `    <g class="node" id="node-%d" transform="translate(%.1f %.1f)">`+"\n", v.ID, v.X, v.Y)

		entering := false
		if r.animate {
			if from, ok := fi.origins[v.ID]; ok {
				writeMoveAnim(buf, from[0], from[1], v.X, v.Y, dur)
				fmt.Fprintf(buf, `      <animate attributeName="opacity" from="0" to="1" dur="%.3fs"/>`+"\n", dur)
				entering = true
			} else if from, ok := fi.moves[v.ID]; ok && (from[0] != v.X || from[1] != v.Y) {
				writeMoveAnim(buf, from[0], from[1], v.X, v.Y, dur)
			}
		}

		fill := "#fff"
		if v.HasHiddenChildren() {
			fill = "#eef3fb" // hint that there is more to expand
		}
		if entering {
			// Entering boxes grow from zero size, the inverse of the exit
			// shrink.
			fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="#4a6fa5" stroke-width="1.5">`+"\n",
				-v.Width/2, -v.Height/2, v.Width, v.Height, cornerRadius, fill)
			fmt.Fprintf(buf, `        <animate attributeName="width" from="0" to="%.1f" dur="%.3fs"/>`+"\n", v.Width, dur)
			fmt.Fprintf(buf, `        <animate attributeName="height" from="0" to="%.1f" dur="%.3fs"/>`+"\n", v.Height, dur)
			buf.WriteString("      </rect>\n")
		} else {
			fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="#4a6fa5" stroke-width="1.5"/>`+"\n",
				-v.Width/2, -v.Height/2, v.Width, v.Height, cornerRadius, fill)
		}

		r.renderLabel(buf, v)
		buf.WriteString("    </g>\n")
		buf.WriteString(closeTag)
	}
}

func (r *renderer) renderLabel(buf *bytes.Buffer, v *diagram.VisualNode) {
	lineHeight := r.lineHeight
	if lineHeight <= 0 {
		lineHeight = r.fontSize * 1.3
	}
	// Center the line stack vertically on the box.
	startY := -float64(len(v.Lines)-1) / 2 * lineHeight

	fmt.Fprintf(buf, `      <text text-anchor="middle" font-family="%s" font-size="%.1f" fill="#1a1a2e">`+"\n",
		escapeXML(r.fontFamily), r.fontSize)
	for i, line := range v.Lines {
		fmt.Fprintf(buf, `        <tspan x="0" y="%.1f">%s</tspan>`+"\n",
			startY+float64(i)*lineHeight+r.fontSize*0.35, escapeXML(line))
	}
	buf.WriteString("      </text>\n")
}

// renderExits draws the nodes and edges leaving the visible set, converging
// into the node that collapsed them while fading and shrinking out.
func (r *renderer) renderExits(buf *bytes.Buffer, frame diagram.Frame) {
	dur := frame.Duration.Seconds()
	for _, ex := range frame.Exits {
		v := ex.Node
		if p := ex.Parent; p != nil {
			// The edge folds back into the collapse point alongside its node.
			fromD := edgePath(p.X+p.Width/2, p.Y, ex.FromX-v.Width/2, ex.FromY)
			toD := edgePath(p.X+p.Width/2, p.Y, ex.ToX, ex.ToY)
			fmt.Fprintf(buf, `    <path class="edge exit" d="%s" fill="none" stroke="#999" stroke-width="1.5">`+"\n", fromD)
			fmt.Fprintf(buf, `      <animate attributeName="d" from="%s" to="%s" dur="%.3fs" fill="freeze"/>`+"\n", fromD, toD, dur)
			fmt.Fprintf(buf, `      <animate attributeName="opacity" from="1" to="0" dur="%.3fs" fill="freeze"/>`+"\n", dur)
			buf.WriteString("    </path>\n")
		}
		fmt.Fprintf(buf, `    <g class="node exit" transform="translate(%.1f %.1f)" opacity="1">`+"\n", ex.FromX, ex.FromY)
		writeMoveAnim(buf, ex.FromX, ex.FromY, ex.ToX, ex.ToY, dur)
		fmt.Fprintf(buf, `      <animate attributeName="opacity" from="1" to="0" dur="%.3fs" fill="freeze"/>`+"\n", dur)
		fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="#fff" stroke="#9aa7b8" stroke-width="1">`+"\n",
			-v.Width/2, -v.Height/2, v.Width, v.Height, cornerRadius)
		fmt.Fprintf(buf, `        <animate attributeName="width" from="%.1f" to="0" dur="%.3fs" fill="freeze"/>`+"\n", v.Width, dur)
		fmt.Fprintf(buf, `        <animate attributeName="height" from="%.1f" to="0" dur="%.3fs" fill="freeze"/>`+"\n", v.Height, dur)
		buf.WriteString("      </rect>\n    </g>\n")
	}
}

func writeMoveAnim(buf *bytes.Buffer, fromX, fromY, toX, toY, dur float64) {
	fmt.Fprintf(buf,
		`      <animateTransform attributeName="transform" type="translate" from="%.1f %.1f" to="%.1f %.1f" dur="%.3fs"/>`+"\n",
		fromX, fromY, toX, toY, dur)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
