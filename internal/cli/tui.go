package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/connmat/pkg/matrix"
)

var (
	gridHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	gridZeroStyle     = lipgloss.NewStyle().Foreground(colorDim)
	gridValueStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	gridCrossStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	gridSelectedStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true).Reverse(true)
)

// MatrixModel is the bubbletea model for browsing a connectivity matrix.
// Only the window of rows and columns that fits the terminal is drawn.
type MatrixModel struct {
	Matrix *matrix.Matrix
	Labels []uint64
	Title  string

	Row, Col       int
	RowOff, ColOff int
	Rows, Cols     int
}

// NewMatrixModel creates a model with a default 20x10 window.
func NewMatrixModel(title string, m *matrix.Matrix, labels []uint64) MatrixModel {
	return MatrixModel{
		Matrix: m,
		Labels: labels,
		Title:  title,
		Rows:   20,
		Cols:   10,
	}
}

func (m MatrixModel) Init() tea.Cmd {
	return nil
}

func (m MatrixModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := m.Matrix.Size()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.Row = max(m.Row-1, 0)
		case "down", "j":
			m.Row = min(m.Row+1, max(n-1, 0))
		case "left", "h":
			m.Col = max(m.Col-1, 0)
		case "right", "l":
			m.Col = min(m.Col+1, max(n-1, 0))
		case "home", "g":
			m.Row, m.Col = 0, 0
		case "end", "G":
			m.Row, m.Col = max(n-1, 0), max(n-1, 0)
		case "t":
			m.Row, m.Col = m.Col, m.Row
		}
	case tea.WindowSizeMsg:
		// Header, footer and table borders take ~8 lines; cells ~7 columns.
		m.Rows = max(msg.Height-8, 3)
		m.Cols = max((msg.Width-10)/7, 3)
	}
	m.RowOff = scrollTo(m.Row, m.RowOff, m.Rows)
	m.ColOff = scrollTo(m.Col, m.ColOff, m.Cols)
	return m, nil
}

// scrollTo returns the window offset that keeps cursor visible.
func scrollTo(cursor, off, window int) int {
	if cursor < off {
		return cursor
	}
	if cursor >= off+window {
		return cursor - window + 1
	}
	return off
}

func (m MatrixModel) View() string {
	var b strings.Builder
	n := m.Matrix.Size()

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %dx%d", n, n)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/↑/→/↓ move  t transpose  g/G ends  q quit"))
	b.WriteString("\n\n")

	if n == 0 {
		b.WriteString(StyleDim.Render("(empty matrix)"))
		b.WriteString("\n")
		return b.String()
	}

	rowEnd := min(m.RowOff+m.Rows, n)
	colEnd := min(m.ColOff+m.Cols, n)

	headers := []string{""}
	for j := m.ColOff; j < colEnd; j++ {
		headers = append(headers, strconv.FormatUint(m.Labels[j], 10))
	}
	rows := make([][]string, 0, rowEnd-m.RowOff)
	for i := m.RowOff; i < rowEnd; i++ {
		row := []string{strconv.FormatUint(m.Labels[i], 10)}
		for j := m.ColOff; j < colEnd; j++ {
			row = append(row, strconv.Itoa(m.Matrix.At(i, j)))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
			if row == -1 || col == 0 {
				return base.Inherit(gridHeaderStyle)
			}
			i, j := m.RowOff+row, m.ColOff+col-1
			switch {
			case i == m.Row && j == m.Col:
				return base.Inherit(gridSelectedStyle)
			case i == m.Row || j == m.Col:
				return base.Inherit(gridCrossStyle)
			case m.Matrix.At(i, j) == 0:
				return base.Inherit(gridZeroStyle)
			}
			return base.Inherit(gridValueStyle)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d → %d: ", m.Labels[m.Row], m.Labels[m.Col])))
	b.WriteString(StyleNumber.Render(strconv.Itoa(m.Matrix.At(m.Row, m.Col))))
	b.WriteString(StyleDim.Render(fmt.Sprintf("   row Σ %d", sum(m.Matrix.Row(m.Row)))))
	b.WriteString("\n")
	return b.String()
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
