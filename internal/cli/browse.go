package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dashfin/assetgraph/pkg/graph"
	"github.com/dashfin/assetgraph/pkg/model"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command for the interactive asset view.
func (c *CLI) browseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [snapshot.json]",
		Short: "Browse assets and relationships interactively",
		Long: `Browse assets and relationships interactively.

The browse command loads a snapshot, builds relationships, and opens a
terminal browser over the asset list. Selecting an asset shows its
outgoing relationships with their types and strengths.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshotFile(args[0])
			if err != nil {
				return err
			}
			g, err := graph.FromSnapshot(snap)
			if err != nil {
				return err
			}
			g.BuildRelationships()

			m := NewAssetListModel(g)
			p := tea.NewProgram(m, tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
	return cmd
}

// AssetListModel is the bubbletea model for the asset browser.
type AssetListModel struct {
	Assets []*model.Asset
	Rels   map[string][]graph.Relationship
	Cursor int
	Height int
	Offset int
	Detail bool
}

// NewAssetListModel builds the browser model from a built graph.
// Assets are listed in ascending id order.
func NewAssetListModel(g *graph.Graph) AssetListModel {
	assets := g.Assets()
	ids := make([]string, 0, len(assets))
	for id := range assets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	list := make([]*model.Asset, 0, len(ids))
	for _, id := range ids {
		list = append(list, assets[id])
	}
	return AssetListModel{
		Assets: list,
		Rels:   g.Relationships(),
		Height: 15,
	}
}

func (m AssetListModel) Init() tea.Cmd {
	return nil
}

func (m AssetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Assets)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m AssetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Asset Browser"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ relationships  q quit"))
	b.WriteString("\n\n")

	if len(m.Assets) == 0 {
		b.WriteString(listDimStyle.Render("  (no assets)"))
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Assets) {
		end = len(m.Assets)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		a := m.Assets[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			a.ID,
			string(a.Class),
			a.Sector,
			fmt.Sprintf("%.2f", a.Price),
			fmt.Sprintf("%d", len(m.Rels[a.ID])),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Asset", "Class", "Sector", "Price", "Links").
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
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Assets))))

	if m.Detail {
		b.WriteString("\n\n")
		b.WriteString(m.detailView())
	}
	return b.String()
}

// detailView renders the selected asset's outgoing relationships.
func (m AssetListModel) detailView() string {
	a := m.Assets[m.Cursor]
	rels := m.Rels[a.ID]

	var b strings.Builder
	b.WriteString(StyleHighlight.Render(fmt.Sprintf("%s — %s", a.ID, a.Name)))
	b.WriteString("\n")
	if len(rels) == 0 {
		b.WriteString(listDimStyle.Render("  no outgoing relationships"))
		return b.String()
	}
	for _, r := range rels {
		b.WriteString(fmt.Sprintf("  %s %s  %s  %s\n",
			listDimStyle.Render(iconArrow),
			StyleValue.Render(r.Target),
			listDimStyle.Render(r.Type),
			StyleValue.Render(fmt.Sprintf("%.2f", r.Strength)),
		))
	}
	return b.String()
}
