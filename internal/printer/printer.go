// Package printer writes a flattened task tree for non-interactive use.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"todotree/internal/task"
)

type TreePrinter struct {
	Out    io.Writer
	ShowID bool
}

func New(out io.Writer) *TreePrinter {
	if out == nil {
		out = color.Output
	}
	return &TreePrinter{Out: out, ShowID: true}
}

func (p *TreePrinter) Print(flat []task.FlatEntry) {
	if len(flat) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = fmt.Fprintln(p.Out, f.Sprint("No tasks"))
		return
	}

	done := color.New(color.FgGreen)
	open := color.New(color.FgWhite)
	struck := color.New(color.CrossedOut, color.Faint)
	id := color.New(color.FgHiYellow, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, e := range flat {
		mark := open.Sprint("○")
		name := e.Task.Name
		if e.Task.Completed {
			mark = done.Sprint("✓")
			name = struck.Sprint(name)
		}
		line := strings.Repeat("  ", e.Depth) + mark + " " + name
		created := e.Task.CreatedAt.Format("2006-01-02 15:04")
		if p.ShowID {
			tbl.AddRow(id.Sprint(e.Task.ID), line, created)
		} else {
			tbl.AddRow(line, created)
		}
	}
	_, _ = fmt.Fprintln(p.Out, tbl)
}

// Detail writes one task with its direct children.
func (p *TreePrinter) Detail(t task.Task, children []task.Task) {
	bold := color.New(color.Bold, color.Underline)
	_, _ = fmt.Fprintln(p.Out, bold.Sprint(t.Name))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("ID:", t.ID)
	status := "In Progress"
	if t.Completed {
		status = "Completed"
	}
	tbl.AddRow("Status:", status)
	tbl.AddRow("Created:", t.CreatedAt.Format(task.TimeLayout))
	if d := t.DescriptionText(); d != "" {
		tbl.AddRow("Description:", d)
	}
	for i, c := range children {
		mark := "○"
		if c.Completed {
			mark = "✓"
		}
		label := ""
		if i == 0 {
			label = "Subtasks:"
		}
		tbl.AddRow(label, fmt.Sprintf("%d. %s %s", i+1, mark, c.Name))
	}
	_, _ = fmt.Fprintln(p.Out, tbl)
}
