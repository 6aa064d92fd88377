package display

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/topsacred-go/internal/table"
)

// browserModel is the bubbletea model for paging through a rendered table.
// Header lines stay pinned while the body scrolls.
type browserModel struct {
	header []string
	body   []string
	offset int
	height int
	theme  Theme
}

func newBrowserModel(t *table.Table, opts Options) browserModel {
	// The browser scrolls vertically only; long rows are squeezed to the
	// terminal like a bounded render.
	lines := strings.Split(RenderWith(t, opts), "\n")

	// top border + header levels + separator
	n := min(max(t.Depth(), 1)+2, len(lines))
	return browserModel{
		header: lines[:n],
		body:   lines[n:],
		height: 24,
		theme:  opts.Theme,
	}
}

// Init returns no initial command.
func (m browserModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses and terminal resizes.
func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.offset = m.clamp(m.offset)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "down", "j":
			m.offset = m.clamp(m.offset + 1)
		case "up", "k":
			m.offset = m.clamp(m.offset - 1)
		case "pgdown", "space", "f":
			m.offset = m.clamp(m.offset + m.pageSize())
		case "pgup", "b":
			m.offset = m.clamp(m.offset - m.pageSize())
		case "home", "g":
			m.offset = 0
		case "end", "G":
			m.offset = m.clamp(len(m.body))
		}
	}
	return m, nil
}

// View renders the visible page.
func (m browserModel) View() tea.View {
	v := tea.NewView(m.renderContent())
	v.AltScreen = true
	return v
}

func (m browserModel) renderContent() string {
	end := min(m.offset+m.pageSize(), len(m.body))

	var b strings.Builder
	for _, l := range m.header {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	for _, l := range m.body[m.offset:end] {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	hint := fmt.Sprintf("lines %d-%d of %d  ↑/↓ scroll  pgup/pgdn page  q quit", m.offset+1, end, len(m.body))
	b.WriteString(m.theme.hintStyle().Render(hint))
	return b.String()
}

// pageSize is the number of body lines that fit below the header and above
// the hint line.
func (m browserModel) pageSize() int {
	return max(m.height-len(m.header)-1, 1)
}

func (m browserModel) clamp(offset int) int {
	return max(min(offset, len(m.body)-m.pageSize()), 0)
}

// Browse opens an interactive pager over t using the current options.
func Browse(t *table.Table) error {
	p := tea.NewProgram(newBrowserModel(t, Current()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser UI error: %w", err)
	}
	return nil
}
