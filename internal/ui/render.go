package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todotree/internal/task"
)

// LineRenderer draws one task row. The tree walk hands it plain data so
// traversal never touches terminal styling.
type LineRenderer interface {
	RenderLine(text string, depth int, selected, completed bool) string
}

type styleRenderer struct {
	indent    string
	open      lipgloss.Style
	done      lipgloss.Style
	name      lipgloss.Style
	doneName  lipgloss.Style
	highlight lipgloss.Style
}

func newStyleRenderer() styleRenderer {
	return styleRenderer{
		indent:    "  ",
		open:      lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		done:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		name:      lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		doneName:  lipgloss.NewStyle().Strikethrough(true).Faint(true),
		highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	}
}

func (r styleRenderer) RenderLine(text string, depth int, selected, completed bool) string {
	mark := r.open.Render("○")
	style := r.name
	if completed {
		mark = r.done.Render("✓")
		style = r.doneName
	}
	cursor := " "
	if selected {
		cursor = ">"
		style = r.highlight.Strikethrough(completed)
	}
	return cursor + strings.Repeat(r.indent, depth) + " " + mark + " " + style.Render(text)
}

func renderTaskList(flat []task.FlatEntry, selected int64, r LineRenderer) string {
	var b strings.Builder
	for _, e := range flat {
		b.WriteString(r.RenderLine(e.Task.Name, e.Depth, e.Task.ID == selected, e.Task.Completed))
		b.WriteString("\n")
	}
	return b.String()
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	menuAdd     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	menuEdit    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	menuDelete  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dividerRune = "─"
)
