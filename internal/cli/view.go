package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/mindtree-io/mindtree/pkg/diagram"
	"github.com/mindtree-io/mindtree/pkg/diagram/viewport"
	"github.com/mindtree-io/mindtree/pkg/render/svg"
	"github.com/mindtree-io/mindtree/pkg/tree"
)

// Terminal cells are not square, so layout coordinates are projected onto
// the cell grid with separate horizontal and vertical divisors.
const (
	cellWidth  = 8.0
	cellHeight = 18.0
	statusRows = 2 // title line + key hints
)

// newViewCmd creates the view command for exploring a tree interactively.
func newViewCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Explore a mind map interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(args[0], configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	return cmd
}

// runView builds the layout engine and hands control to bubbletea.
func runView(input, configPath string) error {
	root, err := tree.LoadFile(input)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	eng, err := diagram.New(root, cfg.Engine(), svg.Measurer())
	if err != nil {
		return err
	}

	vp := viewport.NewController(cfg.Viewport.MinScale, cfg.Viewport.MaxScale, cfg.Viewport.InitialScale)
	model := newViewModel(eng, vp)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// viewModel is the bubbletea model for the interactive diagram viewer.
type viewModel struct {
	eng    *diagram.Engine
	vp     *viewport.Controller
	cursor int // index into eng.Visible()
	width  int
	height int
	status string
	ready  bool
}

// newViewModel creates a viewer positioned on the root node.
func newViewModel(eng *diagram.Engine, vp *viewport.Controller) viewModel {
	return viewModel{eng: eng, vp: vp}
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Fit(m.eng.Bounds(), m.viewW(), m.viewH())
		m.ready = true

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.vp.Pan(4*cellWidth, 0)
		case "right", "l":
			m.vp.Pan(-4*cellWidth, 0)
		case "up", "k":
			m.vp.Pan(0, 2*cellHeight)
		case "down", "j":
			m.vp.Pan(0, -2*cellHeight)
		case "+", "=":
			m.vp.ZoomAt(1.25, m.viewW()/2, m.viewH()/2)
		case "-", "_":
			m.vp.ZoomAt(0.8, m.viewW()/2, m.viewH()/2)
		case "0":
			m.vp.Fit(m.eng.Bounds(), m.viewW(), m.viewH())
		case "tab":
			m.cursor = (m.cursor + 1) % len(m.eng.Visible())
			m.status = ""
		case "shift+tab":
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.eng.Visible()) - 1
			}
			m.status = ""
		case "enter", " ":
			m = m.toggleSelected()
		}
	}
	return m, nil
}

// toggleSelected collapses or expands the node under the cursor. The cursor
// follows the toggled node, which stays visible across the toggle.
func (m viewModel) toggleSelected() viewModel {
	visible := m.eng.Visible()
	if len(visible) == 0 {
		return m
	}
	node := visible[m.cursor]
	if node.IsLeaf() {
		m.status = "leaf node"
		return m
	}

	if _, err := m.eng.Toggle(node.ID); err != nil {
		m.status = err.Error()
		return m
	}

	for i, v := range m.eng.Visible() {
		if v.ID == node.ID {
			m.cursor = i
			break
		}
	}
	m.status = ""
	return m
}

func (m viewModel) viewW() float64 { return float64(m.width) * cellWidth }
func (m viewModel) viewH() float64 { return float64(m.height-statusRows) * cellHeight }

func (m viewModel) View() string {
	if !m.ready {
		return "loading..."
	}

	canvasH := m.height - statusRows
	if canvasH < 1 || m.width < 1 {
		return ""
	}

	g := newGrid(m.width, canvasH)
	t := m.vp.Transform()

	for _, e := range m.eng.Edges() {
		m.drawEdge(g, t, e)
	}
	for i, v := range m.eng.Visible() {
		m.drawNode(g, t, v, i == m.cursor)
	}

	var b strings.Builder
	b.WriteString(g.String())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(styleStatusBar.Render("←↓↑→ pan  +/- zoom  0 fit  ⇥ select  ⏎ toggle  q quit"))
	return b.String()
}

// statusLine shows the selected node and any transient message.
func (m viewModel) statusLine() string {
	visible := m.eng.Visible()
	if len(visible) == 0 {
		return ""
	}
	idx := min(m.cursor, len(visible)-1)
	node := visible[idx]

	line := styleNodeSelected.Render(node.Label())
	if node.HasHiddenChildren() {
		line += " " + styleNodeCollapsed.Render("[+]")
	}
	line += styleStatusBar.Render(fmt.Sprintf("  (%d/%d visible, zoom %.0f%%)",
		idx+1, len(visible), m.vp.Transform().Scale*100))
	if m.status != "" {
		line += "  " + StyleWarning.Render(m.status)
	}
	return line
}

// project maps a layout coordinate to a cell coordinate.
func project(t viewport.Transform, x, y float64) (int, int) {
	sx, sy := t.Apply(x, y)
	return int(sx / cellWidth), int(sy / cellHeight)
}

// drawEdge draws an L-shaped connector from the parent's right edge to the
// child's left edge.
func (m viewModel) drawEdge(g *grid, t viewport.Transform, e diagram.Edge) {
	px, py := project(t, e.Parent.X+e.Parent.Width/2, e.Parent.Y)
	cx, cy := project(t, e.Child.X-e.Child.Width/2, e.Child.Y)
	if cx <= px {
		return
	}

	midX := (px + cx) / 2
	for x := px; x <= midX; x++ {
		g.set(x, py, '─')
	}
	step := 1
	if cy < py {
		step = -1
	}
	for y := py; y != cy; y += step {
		g.set(midX, y, '│')
	}
	for x := midX; x < cx; x++ {
		g.set(x, cy, '─')
	}
	if py != cy {
		if cy > py {
			g.set(midX, py, '╮')
			g.set(midX, cy, '╰')
		} else {
			g.set(midX, py, '╯')
			g.set(midX, cy, '╭')
		}
	}
}

// drawNode writes the node label as a bracketed single-line tag starting at
// the box's left edge. Collapsed nodes carry a "+" marker and the selected
// node a cursor arrow.
func (m viewModel) drawNode(g *grid, t viewport.Transform, v *diagram.VisualNode, selected bool) {
	x, y := project(t, v.X-v.Width/2, v.Y)

	marker := ""
	if v.HasHiddenChildren() {
		marker = " +"
	}
	prefix := " "
	if selected {
		prefix = "▸"
	}
	g.write(x, y, "["+prefix+v.Label()+marker+"]")
}

// grid is a rune canvas addressed by cell coordinates. Wide runes occupy
// two cells; the shadowed cell holds a zero rune and is skipped on output.
type grid struct {
	w, h  int
	cells [][]rune
}

func newGrid(w, h int) *grid {
	cells := make([][]rune, h)
	for i := range cells {
		row := make([]rune, w)
		for j := range row {
			row[j] = ' '
		}
		cells[i] = row
	}
	return &grid{w: w, h: h, cells: cells}
}

func (g *grid) set(x, y int, r rune) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return
	}
	g.cells[y][x] = r
}

func (g *grid) write(x, y int, s string) {
	for _, r := range s {
		if x >= g.w {
			return
		}
		w := runewidth.RuneWidth(r)
		g.set(x, y, r)
		if w == 2 {
			g.set(x+1, y, 0)
		}
		x += w
	}
}

func (g *grid) String() string {
	var b strings.Builder
	for i, row := range g.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, r := range row {
			if r == 0 {
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
