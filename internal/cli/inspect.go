package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/erdlayout/pkg/diagram"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command for browsing a layout interactively.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [layout.json]",
		Short: "Browse the nodes of a laid-out diagram interactively",
		Long: `Browse the nodes of a laid-out diagram interactively.

Nodes are listed in reading order (top level first, left to right within a
level) with their assigned coordinates. Press m on a node to toggle its
metadata.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := diagram.ReadDiagramFile(args[0])
			if err != nil {
				return fmt.Errorf("load layout %s: %w", args[0], err)
			}
			if len(d.Nodes) == 0 {
				printInfo("Diagram is empty")
				return nil
			}

			model := NewNodeListModel(d.Nodes)
			p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// NodeListModel - Interactive node browsing
// =============================================================================

// inspectRow pairs a node with its derived level.
type inspectRow struct {
	Node  diagram.Node
	Level int
}

// NodeListModel is the bubbletea model for browsing laid-out nodes.
type NodeListModel struct {
	Rows     []inspectRow
	Cursor   int
	Height   int
	Offset   int
	ShowMeta bool
}

// NewNodeListModel creates a node list in reading order: levels are derived
// by grouping nodes with equal y, then sorted top to bottom, left to right.
func NewNodeListModel(nodes []diagram.Node) NodeListModel {
	sorted := make([]diagram.Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Position.Y != sorted[j].Position.Y {
			return sorted[i].Position.Y < sorted[j].Position.Y
		}
		return sorted[i].Position.X < sorted[j].Position.X
	})

	rows := make([]inspectRow, len(sorted))
	level := 0
	for i, n := range sorted {
		if i > 0 && n.Position.Y != sorted[i-1].Position.Y {
			level++
		}
		rows[i] = inspectRow{Node: n, Level: level}
	}

	return NodeListModel{
		Rows:   rows,
		Height: 15,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "m", "enter":
			m.ShowMeta = !m.ShowMeta
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inspect Layout"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  m metadata  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			r.Node.ID,
			r.Node.DisplayLabel(),
			fmt.Sprintf("%d", r.Level),
			fmt.Sprintf("%.0f", r.Node.Position.X),
			fmt.Sprintf("%.0f", r.Node.Position.Y),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Label", "Level", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.ShowMeta {
		b.WriteString(m.metaView())
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// metaView renders the selected node's metadata, keys sorted for stable output.
func (m NodeListModel) metaView() string {
	meta := m.Rows[m.Cursor].Node.Meta
	if len(meta) == 0 {
		return listDimStyle.Render("  no metadata") + "\n"
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			listDimStyle.Render(k+":"),
			StyleValue.Render(fmt.Sprintf("%v", meta[k]))))
	}
	return b.String()
}
