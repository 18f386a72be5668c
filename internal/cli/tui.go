package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/qlabel/pkg/label"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// StockListModel - Interactive label size selection
// =============================================================================

// StockListModel is the bubbletea model for interactive label size selection.
type StockListModel struct {
	Stocks   []label.Stock
	Cursor   int
	Selected *label.Stock
	Height   int
	Offset   int
}

// NewStockListModel creates a new stock list model. The cursor starts on
// current when it is in the list.
func NewStockListModel(stocks []label.Stock, current string) StockListModel {
	m := StockListModel{Stocks: stocks, Height: 15}
	for i, s := range stocks {
		if s.ID == current {
			m.Cursor = i
			break
		}
	}
	m.scroll()
	return m
}

func (m StockListModel) Init() tea.Cmd {
	return nil
}

func (m StockListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Stocks)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = len(m.Stocks) - 1
		case "enter":
			if len(m.Stocks) == 0 {
				return m, tea.Quit
			}
			s := m.Stocks[m.Cursor]
			m.Selected = &s
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *StockListModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m StockListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Label Size"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Stocks))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, stockRow(m.Stocks[i])...))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, stockHeaders...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Stocks))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

var stockHeaders = []string{"ID", "Name", "Kind", "Printable", "Color"}

// stockRow formats a stock for the size tables.
func stockRow(s label.Stock) []string {
	dims := fmt.Sprintf("%d x %d", s.DotsPrintable[0], s.DotsPrintable[1])
	if s.Kind == label.Endless {
		dims = fmt.Sprintf("%d x ∞", s.DotsPrintable[0])
	}
	color := "black"
	if s.TwoColor {
		color = "black/red"
	}
	return []string{s.ID, s.Name, s.Kind.String(), dims, color}
}
