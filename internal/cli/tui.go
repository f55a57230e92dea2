package cli

import (
	"bytes"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/svgtree/pkg/theme"
	"github.com/matzehuels/svgtree/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// keyCodes maps terminal keys to the key codes a browser would report.
var keyCodes = map[string]string{
	"up":    "ArrowUp",
	"k":     "ArrowUp",
	"down":  "ArrowDown",
	"j":     "ArrowDown",
	"left":  "ArrowLeft",
	"h":     "ArrowLeft",
	"right": "ArrowRight",
	"l":     "ArrowRight",
	"enter": "Enter",
	" ":     " ",
	"v":     "v",
}

// =============================================================================
// BrowseModel - Interactive tree outline
// =============================================================================

// BrowseModel is the bubbletea model for the tree browser. Keys are delivered
// to the forest as keydown events, so the registered controller decides what
// they do; the model only draws the result.
type BrowseModel struct {
	Forest *tree.Forest
	Themes *theme.Service
	Output string // SVG rewritten after every change, if set
	Height int
	Offset int
	Err    error
}

// NewBrowseModel creates a browser for f and selects the first root if
// nothing is active.
func NewBrowseModel(f *tree.Forest, themes *theme.Service, output string) BrowseModel {
	if len(f.ActiveNodes()) == 0 {
		if roots := f.Roots(); len(roots) > 0 {
			f.SetActiveNode(roots[0])
		}
	}
	return BrowseModel{Forest: f, Themes: themes, Output: output, Height: 20}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "c":
			if n := m.active(); n != nil {
				m.Forest.Dispatch(tree.PlatformEvent{Type: tree.PlatformContextMenu, Target: n.Element()})
			}
		case "t":
			if m.Themes != nil {
				next := theme.Dark
				if m.Themes.Scheme() == theme.Dark {
					next = theme.Light
				}
				m.Themes.Set(next)
			}
		default:
			code, ok := keyCodes[key]
			if !ok {
				return m, nil
			}
			m.Forest.Dispatch(tree.PlatformEvent{Type: tree.PlatformKeyDown, Code: code})
		}
		m.scroll()
		m.Err = m.write()
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
		m.scroll()
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←↑↓→ navigate  ⏎ toggle  c collapse  v orientation  t theme  q quit"))
	b.WriteString("\n\n")

	rows := visibleNodes(m.Forest)
	end := min(m.Offset+m.Height, len(rows))
	for _, n := range rows[min(m.Offset, end):end] {
		line := strings.Repeat("  ", n.Depth()) + marker(n) + " " + n.Data().Name
		if !n.Vertical() {
			line += listDimStyle.Render(" ↔")
		}
		if n.Active() {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	width, height := m.Forest.Bounds()
	b.WriteString("\n")
	status := fmt.Sprintf("  %d nodes · %g×%g", len(rows), width, height)
	if m.Themes != nil {
		status += " · " + string(m.Themes.Scheme())
	}
	b.WriteString(listDimStyle.Render(status))
	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(m.Err.Error()))
	}
	return b.String()
}

// active returns the first active node.
func (m BrowseModel) active() *tree.Node {
	if nodes := m.Forest.ActiveNodes(); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// scroll keeps the active row inside the window.
func (m *BrowseModel) scroll() {
	n := m.active()
	if n == nil {
		return
	}
	rows := visibleNodes(m.Forest)
	for i, r := range rows {
		if r != n {
			continue
		}
		if i < m.Offset {
			m.Offset = i
		}
		if i >= m.Offset+m.Height {
			m.Offset = i - m.Height + 1
		}
		break
	}
	m.Offset = max(0, min(m.Offset, len(rows)-1))
}

func (m BrowseModel) write() error {
	if m.Output == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := m.Forest.WriteSVG(&buf); err != nil {
		return err
	}
	return writeFile(m.Output, buf.Bytes())
}

// =============================================================================
// Helpers
// =============================================================================

// visibleNodes lists the nodes in display order. Collapsed nodes hide their
// subtrees.
func visibleNodes(f *tree.Forest) []*tree.Node {
	var rows []*tree.Node
	var visit func(n *tree.Node)
	visit = func(n *tree.Node) {
		rows = append(rows, n)
		for _, c := range n.Children() {
			visit(c)
		}
	}
	for _, r := range f.Roots() {
		visit(r)
	}
	return rows
}

func marker(n *tree.Node) string {
	switch {
	case n.Collapsed():
		return "▸"
	case len(n.Children()) > 0:
		return "▾"
	default:
		return "·"
	}
}
