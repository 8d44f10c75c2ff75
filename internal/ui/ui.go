package ui

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todotree/internal/config"
	"todotree/internal/service"
	"todotree/internal/task"
	"todotree/internal/tree"
)

type mode int

const (
	modeList mode = iota
	modeDetail
	modePrompt
	modeConfirmDelete
)

type promptKind int

const (
	promptAdd promptKind = iota
	promptEdit
)

// promptState drives the two-step name/description prompt used for both
// adding and editing.
type promptState struct {
	kind     promptKind
	parentID *int64
	target   task.Task
	step     int
	name     string
	returnTo mode
}

type Model struct {
	coord    *service.Coordinator
	keys     keyMap
	renderer LineRenderer

	view     service.View
	selected int64
	children []task.Task

	mode       mode
	input      textinput.Model
	prompt     *promptState
	pendingDel *task.Task
	delReturn  mode
	status     string
	statusErr  bool
	width      int
}

func Run(coord *service.Coordinator, cfg config.Config) error {
	if cfg.LogPath != "" {
		f, err := tea.LogToFile(cfg.LogPath, "todotree")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	m, err := New(coord, cfg)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// New loads the tree once and selects its first task.
func New(coord *service.Coordinator, cfg config.Config) (Model, error) {
	v, err := coord.Load()
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		coord:    coord,
		keys:     newKeyMap(cfg.Keys),
		renderer: newStyleRenderer(),
		view:     v,
		selected: tree.Resolve(task.NoSelection, v.Flat),
		mode:     modeList,
		input:    ti,
		width:    80,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modePrompt:
			return m.updatePrompt(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateList(msg)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

// reload rebuilds the view from the store and re-settles the selection.
// On failure the previous view stays on screen.
func (m *Model) reload() bool {
	v, err := m.coord.Load()
	if err != nil {
		log.Printf("reload failed: %v", err)
		m.setError("reload failed: %v", err)
		return false
	}
	m.view = v
	m.selected = tree.Resolve(m.selected, v.Flat)
	return true
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		if id, ok := tree.Next(m.selected, m.view.Flat); ok {
			m.selected = id
		}
	case key.Matches(msg, m.keys.Up):
		if id, ok := tree.Previous(m.selected, m.view.Flat); ok {
			m.selected = id
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.selected == task.NoSelection {
			return m, nil
		}
		if err := m.coord.ToggleCompletion(m.selected); err != nil {
			m.setError("toggle failed: %v", err)
			m.reload()
			return m, nil
		}
		if m.reload() {
			m.setStatus("Toggled task")
		}
	case key.Matches(msg, m.keys.Add):
		return m.startAdd(nil, modeList)
	case key.Matches(msg, m.keys.Delete):
		t, _, ok := tree.Lookup(m.selected, m.view.Flat)
		if !ok {
			m.setStatus("No task selected for deletion")
			return m, nil
		}
		return m.startDelete(t, modeList)
	case key.Matches(msg, m.keys.Detail):
		if m.selected == task.NoSelection {
			return m, nil
		}
		return m.openDetail()
	}
	return m, nil
}

func (m Model) openDetail() (tea.Model, tea.Cmd) {
	if _, _, ok := tree.Lookup(m.selected, m.view.Flat); !ok {
		m.mode = modeList
		return m, nil
	}
	kids, err := m.coord.Children(m.selected)
	if err != nil {
		m.setError("load subtasks failed: %v", err)
		return m, nil
	}
	m.children = kids
	m.mode = modeDetail
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t, _, ok := tree.Lookup(m.selected, m.view.Flat)
	if !ok {
		m.mode = modeList
		return m, nil
	}
	switch {
	case msg.String() == "1":
		return m.startAdd(&t.ID, modeDetail)
	case msg.String() == "2":
		return m.startEdit(t)
	case msg.String() == "3":
		return m.startDelete(t, modeDetail)
	case msg.String() == "4", key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.children = nil
		return m, nil
	}
	return m, nil
}

func (m Model) startAdd(parentID *int64, returnTo mode) (tea.Model, tea.Cmd) {
	m.prompt = &promptState{kind: promptAdd, parentID: parentID, returnTo: returnTo}
	m.input.SetValue("")
	m.input.Placeholder = "Task name"
	m.input.Focus()
	m.mode = modePrompt
	m.setStatus("Enter task name [%s to cancel]", m.keys.Confirm.Help().Key)
	return m, textinput.Blink
}

func (m Model) startEdit(t task.Task) (tea.Model, tea.Cmd) {
	m.prompt = &promptState{kind: promptEdit, target: t, returnTo: modeDetail}
	m.input.SetValue("")
	m.input.Placeholder = t.Name
	m.input.Focus()
	m.mode = modePrompt
	m.setStatus("Name [%s]: leave empty to keep", t.Name)
	return m, textinput.Blink
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.prompt
	if p == nil {
		m.mode = modeList
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.closePrompt("Cancelled")
	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.input.Value())
		if p.step == 0 {
			if p.kind == promptAdd && value == "" {
				return m.closePrompt("Task name is empty, nothing added")
			}
			p.name = value
			p.step = 1
			m.input.SetValue("")
			m.input.Placeholder = "Description"
			m.setStatus("Enter task description [%s to skip]", m.keys.Confirm.Help().Key)
			return m, nil
		}
		if p.kind == promptAdd {
			return m.finishAdd(p, value)
		}
		return m.finishEdit(p, value)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) closePrompt(status string) (tea.Model, tea.Cmd) {
	returnTo := modeList
	if m.prompt != nil {
		returnTo = m.prompt.returnTo
	}
	m.prompt = nil
	m.input.SetValue("")
	m.input.Blur()
	m.mode = returnTo
	m.setStatus("%s", status)
	return m, nil
}

func (m Model) finishAdd(p *promptState, desc string) (tea.Model, tea.Cmd) {
	var description *string
	if desc != "" {
		description = &desc
	}
	id, err := m.coord.Create(p.name, p.parentID, description)
	if errors.Is(err, task.ErrValidation) {
		return m.closePrompt("Task name is empty, nothing added")
	}
	if err != nil {
		next, cmd := m.closePrompt("")
		nm := next.(Model)
		nm.setError("save failed: %v", err)
		return nm, cmd
	}
	next, cmd := m.closePrompt("Task added!")
	nm := next.(Model)
	if nm.selected == task.NoSelection {
		nm.selected = id
	}
	nm.reload()
	if nm.mode == modeDetail {
		nm.refreshChildren()
	}
	return nm, cmd
}

func (m Model) finishEdit(p *promptState, desc string) (tea.Model, tea.Cmd) {
	var u task.Update
	if p.name != "" {
		u.Name = &p.name
	}
	if desc != "" {
		u.Description = &desc
	}
	changed, err := m.coord.Update(p.target.ID, u)
	if err != nil {
		next, cmd := m.closePrompt("")
		nm := next.(Model)
		nm.setError("update failed: %v", err)
		return nm, cmd
	}
	status := "Nothing changed"
	if changed {
		status = "Data updated!"
	}
	next, cmd := m.closePrompt(status)
	nm := next.(Model)
	if changed {
		nm.reload()
		nm.refreshChildren()
	}
	return nm, cmd
}

func (m *Model) refreshChildren() {
	kids, err := m.coord.Children(m.selected)
	if err != nil {
		m.setError("load subtasks failed: %v", err)
		return
	}
	m.children = kids
}

func (m Model) startDelete(t task.Task, returnTo mode) (tea.Model, tea.Cmd) {
	m.pendingDel = &t
	m.delReturn = returnTo
	m.mode = modeConfirmDelete
	m.setStatus("Delete %q and all of its subtasks? y/n", t.Name)
	return m, nil
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.No), key.Matches(msg, m.keys.Cancel):
		m.mode = m.delReturn
		m.pendingDel = nil
		m.setStatus("Deletion cancelled")
		return m, nil
	case key.Matches(msg, m.keys.Yes):
		if m.pendingDel == nil {
			m.mode = modeList
			m.setStatus("Nothing to delete")
			return m, nil
		}
		target := *m.pendingDel
		m.pendingDel = nil
		if err := m.coord.Delete(target.ID); err != nil {
			m.mode = m.delReturn
			m.setError("delete failed: %v", err)
			return m, nil
		}
		m.mode = modeList
		m.children = nil
		if m.reload() {
			if id, ok := tree.First(m.view.Flat); ok {
				m.selected = id
			} else {
				m.selected = task.NoSelection
			}
			m.setStatus("Task deleted!")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	if m.mode == modeDetail || (m.mode != modeList && m.returnMode() == modeDetail) {
		b.WriteString(m.renderDetail())
	} else {
		b.WriteString(titleStyle.Render("Your tasks:"))
		b.WriteString("\n\n")
		if tree.IsEmpty(m.view.Flat) {
			b.WriteString(errorStyle.Render("No tasks"))
			b.WriteString("\n")
			b.WriteString(fmt.Sprintf("Press [%s] to add a task\n", m.keys.Add.Help().Key))
		} else {
			b.WriteString(renderTaskList(m.view.Flat, m.selected, m.renderer))
		}
	}

	if m.mode == modePrompt {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(okStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	if m.mode == modeList {
		b.WriteString(mutedStyle.Render(m.keys.mainHelp()))
	}
	return b.String()
}

func (m Model) returnMode() mode {
	switch m.mode {
	case modePrompt:
		if m.prompt != nil {
			return m.prompt.returnTo
		}
	case modeConfirmDelete:
		return m.delReturn
	}
	return modeList
}

func (m Model) renderDetail() string {
	t, _, ok := tree.Lookup(m.selected, m.view.Flat)
	if !ok {
		return "Task no longer exists\n"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Task Details"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(dividerRune, 30))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Name: %s\n", t.Name))
	b.WriteString(fmt.Sprintf("Status: %s\n", humanDone(t.Completed)))
	b.WriteString(fmt.Sprintf("Created: %s\n", t.CreatedAt.Format("2006-01-02 15:04")))
	if desc := t.DescriptionText(); desc != "" {
		b.WriteString("Description:\n")
		b.WriteString(renderMarkdown(desc, m.width-4))
		b.WriteString("\n")
	}
	if len(m.children) > 0 {
		b.WriteString("\nSubtasks:\n")
		for i, c := range m.children {
			mark := "○"
			if c.Completed {
				mark = "✓"
			}
			b.WriteString(fmt.Sprintf("  %d. %s %s\n", i+1, mark, c.Name))
		}
	}
	if m.mode == modeDetail {
		b.WriteString("\n")
		b.WriteString(menuAdd.Render("1. Add subtask"))
		b.WriteString("\n")
		b.WriteString(menuEdit.Render("2. Edit task"))
		b.WriteString("\n")
		b.WriteString(menuDelete.Render("3. Delete task"))
		b.WriteString("\n4. Back\n")
	}
	return b.String()
}

func humanDone(done bool) string {
	if done {
		return "Completed"
	}
	return "In Progress"
}
