// Package display renders tables for the terminal.
//
// Rendering defaults are process-wide and set by Setup; until it is called
// the package uses DefaultOptions.
package display

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/raphaelgruber/topsacred-go/internal/table"
	"golang.org/x/term"
)

// Theme holds the colors used for tables.
type Theme struct {
	Border lipgloss.Color
	Header lipgloss.Color
	Index  lipgloss.Color
	Stripe lipgloss.Color
	Hint   lipgloss.Color
}

// DefaultTheme mirrors the notebook table style: light gray borders,
// emphasized headers and every other row shaded.
var DefaultTheme = Theme{
	Border: lipgloss.Color("#C0C0C0"), // light gray
	Header: lipgloss.Color("#E8E8E8"), // off white
	Index:  lipgloss.Color("#5FAFD7"), // light blue
	Stripe: lipgloss.Color("#303030"), // dark gray
	Hint:   lipgloss.Color("#6C6C6C"), // dim gray
}

// Options controls rendering.
type Options struct {
	Theme Theme
	// Margin is the number of blank columns left of the table.
	Margin int
	// Bounded limits tables to the terminal width.
	Bounded bool
	// Width overrides the detected terminal width when positive.
	Width int
}

// DefaultOptions are used until Setup is called.
var DefaultOptions = Options{Theme: DefaultTheme, Bounded: true}

var (
	mu      sync.RWMutex
	current = DefaultOptions
)

// Setup replaces the process-wide rendering options. Call it once at startup.
func Setup(opts Options) {
	mu.Lock()
	defer mu.Unlock()
	current = opts
}

// Current returns the active rendering options.
func Current() Options {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func (t Theme) headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Header).Bold(true).Align(lipgloss.Center).Padding(0, 1)
}

func (t Theme) indexStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Index).Bold(true).Padding(0, 1)
}

func (t Theme) cellStyle() lipgloss.Style {
	return lipgloss.NewStyle().Align(lipgloss.Right).Padding(0, 1)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// Render draws t with the current options.
func Render(t *table.Table) string {
	return RenderWith(t, Current())
}

// RenderWith draws t with opts. Each header level is one line of the header
// cell, so hierarchical column names stack vertically. Nil cells are blank.
func RenderWith(t *table.Table, opts Options) string {
	if t.NumColumns() == 0 && t.Index == nil {
		return ""
	}

	lt := build(t, opts.Theme)
	out := lt.String()

	if opts.Bounded {
		if limit := maxWidth(opts); limit > 0 && lipgloss.Width(out) > limit {
			out = lt.Width(limit).String()
		}
	}

	if opts.Margin > 0 {
		out = lipgloss.NewStyle().MarginLeft(opts.Margin).Render(out)
	}
	return out
}

func build(t *table.Table, theme Theme) *lgtable.Table {
	hasIndex := t.Index != nil
	depth := t.Depth()

	headers := make([]string, 0, t.NumColumns()+1)
	if hasIndex {
		headers = append(headers, strings.Repeat("\n", max(depth-1, 0)))
	}
	for _, c := range t.Columns {
		headers = append(headers, strings.Join(c.Path, "\n"))
	}

	rows := make([][]string, t.NumRows())
	for r, row := range t.Rows {
		cells := make([]string, 0, len(row)+1)
		if hasIndex {
			cells = append(cells, t.Index[r])
		}
		for _, v := range row {
			cells = append(cells, FormatValue(v))
		}
		rows[r] = cells
	}

	header := theme.headerStyle()
	index := theme.indexStyle()
	cell := theme.cellStyle()
	stripe := cell.Background(theme.Stripe)
	stripeIndex := index.Background(theme.Stripe)

	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == lgtable.HeaderRow:
				return header
			case hasIndex && col == 0 && row%2 == 1:
				return stripeIndex
			case hasIndex && col == 0:
				return index
			case row%2 == 1:
				return stripe
			default:
				return cell
			}
		})
}

// maxWidth returns the width available to a table, or 0 when unknown.
func maxWidth(opts Options) int {
	width := opts.Width
	if width <= 0 {
		w, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			return 0
		}
		width = w
	}
	return max(width-opts.Margin, 0)
}

// FormatValue renders a cell value as text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case time.Time:
		return x.Format(time.DateTime)
	default:
		return fmt.Sprint(v)
	}
}
