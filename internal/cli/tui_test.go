package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/connmat/pkg/matrix"
)

func scenarioModel(t *testing.T) MatrixModel {
	t.Helper()
	m, err := matrix.FromRows([][]int{{0, 2, 0}, {1, 0, 0}, {0, 0, 0}})
	require.NoError(t, err)
	return NewMatrixModel("m.csv", m, []uint64{1, 2, 3})
}

func press(m MatrixModel, keys ...string) MatrixModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(MatrixModel)
	}
	return m
}

func TestMatrixModelNavigation(t *testing.T) {
	m := scenarioModel(t)

	m = press(m, "right")
	assert.Equal(t, 0, m.Row)
	assert.Equal(t, 1, m.Col)

	m = press(m, "down", "down", "down", "down")
	assert.Equal(t, 2, m.Row, "cursor stops at the last row")

	m = press(m, "up", "left", "left", "left")
	assert.Equal(t, 1, m.Row)
	assert.Equal(t, 0, m.Col)

	m = press(m, "t")
	assert.Equal(t, 0, m.Row)
	assert.Equal(t, 1, m.Col)

	m = press(m, "G")
	assert.Equal(t, 2, m.Row)
	assert.Equal(t, 2, m.Col)

	m = press(m, "g")
	assert.Equal(t, 0, m.Row)
	assert.Equal(t, 0, m.Col)
}

func TestMatrixModelQuit(t *testing.T) {
	_, cmd := scenarioModel(t).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestMatrixModelScrolls(t *testing.T) {
	m := NewMatrixModel("big", matrix.New(50), make([]uint64, 50))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m = next.(MatrixModel)
	require.Equal(t, 12, m.Rows)

	for range 30 {
		m = press(m, "down")
	}
	assert.Equal(t, 30, m.Row)
	assert.Equal(t, 30-m.Rows+1, m.RowOff)

	m = press(m, "g")
	assert.Zero(t, m.RowOff)
}

func TestMatrixModelView(t *testing.T) {
	m := press(scenarioModel(t), "right")
	view := m.View()

	assert.Contains(t, view, "m.csv")
	assert.Contains(t, view, "3x3")
	assert.Contains(t, view, "1 → 2: ")
}

func TestMatrixModelViewEmpty(t *testing.T) {
	m := NewMatrixModel("empty.csv", matrix.New(0), nil)
	m = press(m, "down", "right", "G")
	assert.Contains(t, m.View(), "(empty matrix)")
	assert.Zero(t, m.Row)
}

func TestScrollTo(t *testing.T) {
	tests := []struct {
		cursor, off, window, want int
	}{
		{0, 0, 5, 0},
		{4, 0, 5, 0},
		{5, 0, 5, 1},
		{2, 3, 5, 2},
		{7, 3, 5, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scrollTo(tt.cursor, tt.off, tt.window))
	}
}
