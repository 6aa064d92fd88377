package display

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/topsacred-go/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultTable() *table.Table {
	return &table.Table{
		Columns: []table.Column{
			table.NewColumn("result", ""),
			table.NewColumn("model", "depth"),
		},
		Rows: [][]any{
			{0.9, 2},
			{nil, 4},
			{0.5, 3},
		},
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "relu", "relu"},
		{"int", 42, "42"},
		{"float", 0.1, "0.1"},
		{"float32", float32(0.5), "0.5"},
		{"bool", true, "true"},
		{"time", time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), "2024-03-01 12:30:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestRenderWith(t *testing.T) {
	out := RenderWith(resultTable(), Options{Theme: DefaultTheme})

	for _, want := range []string{"result", "model", "depth", "0.9", "0.5", "4"} {
		assert.Contains(t, out, want)
	}
	// header levels stack: "model" sits on the line above "depth"
	lines := strings.Split(out, "\n")
	model, depth := -1, -1
	for i, l := range lines {
		if strings.Contains(l, "model") {
			model = i
		}
		if strings.Contains(l, "depth") {
			depth = i
		}
	}
	assert.Equal(t, model+1, depth)
}

func TestRenderWithIndex(t *testing.T) {
	tbl := &table.Table{
		Index:   []string{"mnist", "cifar"},
		Columns: []table.Column{table.NewColumn("COMPLETED"), table.NewColumn("TOTAL")},
		Rows:    [][]any{{3, 4}, {1, 1}},
	}
	out := RenderWith(tbl, Options{Theme: DefaultTheme})

	assert.Contains(t, out, "mnist")
	assert.Contains(t, out, "cifar")
	assert.Contains(t, out, "COMPLETED")
	assert.Less(t, strings.Index(out, "mnist"), strings.Index(out, "cifar"))
}

func TestRenderWithEmpty(t *testing.T) {
	assert.Empty(t, RenderWith(&table.Table{}, DefaultOptions))
}

func TestRenderWithIndexOnly(t *testing.T) {
	out := RenderWith(&table.Table{Index: []string{"runs"}, Rows: [][]any{{}}}, Options{Theme: DefaultTheme})
	assert.Contains(t, out, "runs")
}

func TestRenderBounded(t *testing.T) {
	tbl := &table.Table{
		Columns: []table.Column{table.NewColumn("description"), table.NewColumn("notes")},
		Rows: [][]any{
			{strings.Repeat("wide ", 20), strings.Repeat("text ", 20)},
		},
	}

	unbounded := RenderWith(tbl, Options{Theme: DefaultTheme, Width: 60})
	assert.Greater(t, lipgloss.Width(unbounded), 60)

	out := RenderWith(tbl, Options{Theme: DefaultTheme, Bounded: true, Width: 60})
	assert.LessOrEqual(t, lipgloss.Width(out), 60)
}

func TestRenderMargin(t *testing.T) {
	out := RenderWith(resultTable(), Options{Theme: DefaultTheme, Margin: 4})
	for _, l := range strings.Split(out, "\n") {
		assert.True(t, strings.HasPrefix(l, "    "), "line %q lacks margin", l)
	}
}

func TestSetup(t *testing.T) {
	prev := Current()
	t.Cleanup(func() { Setup(prev) })

	Setup(Options{Theme: DefaultTheme, Margin: 2})
	assert.Equal(t, 2, Current().Margin)
	assert.True(t, strings.HasPrefix(Render(resultTable()), "  "))
}

func TestBrowserScroll(t *testing.T) {
	tbl := &table.Table{Columns: []table.Column{table.NewColumn("n")}}
	for i := range 30 {
		tbl.Rows = append(tbl.Rows, []any{i})
	}
	m := newBrowserModel(tbl, Options{Theme: DefaultTheme})
	require.Len(t, m.header, 3)
	// 30 rows plus the bottom border
	require.Len(t, m.body, 31)

	step := func(msg tea.Msg) {
		next, _ := m.Update(msg)
		m = next.(browserModel)
	}

	step(tea.WindowSizeMsg{Width: 80, Height: 10})
	assert.Equal(t, 6, m.pageSize())

	step(tea.KeyPressMsg{Code: 'j', Text: "j"})
	assert.Equal(t, 1, m.offset)

	step(tea.KeyPressMsg{Code: tea.KeyPgDown})
	assert.Equal(t, 7, m.offset)

	step(tea.KeyPressMsg{Code: tea.KeyEnd})
	assert.Equal(t, 25, m.offset)

	step(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 25, m.offset)

	step(tea.KeyPressMsg{Code: 'g', Text: "g"})
	assert.Equal(t, 0, m.offset)

	step(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, m.offset)

	content := m.renderContent()
	assert.Contains(t, content, "lines 1-6 of 31")
}

func TestBrowserQuit(t *testing.T) {
	m := newBrowserModel(resultTable(), Options{Theme: DefaultTheme})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
