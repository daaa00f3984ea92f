// Package tui is the terminal front end: a bubbletea model over view.Form.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-bfhl/pkg/filters"
	"github.com/goliatone/go-bfhl/pkg/view"
)

type focus int

const (
	focusJSON focus = iota
	focusPath
	focusSubmit
	focusFilters
)

// submittedMsg reports the settlement of a submission started by the model.
type submittedMsg struct {
	err error
}

// Model renders the form and drives submissions as tea.Cmds.
type Model struct {
	ctx  context.Context
	form *view.Form

	keys   keyMap
	help   help.Model
	styles styles

	json    textarea.Model
	path    textinput.Model
	spinner spinner.Model

	focus   focus
	cursor  int
	pending bool
	cancel  context.CancelFunc
}

// New builds a model bound to a child of ctx. Submissions started by the
// model use that context; quitting cancels it, aborting an outstanding
// request.
func New(ctx context.Context, form *view.Form) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	if form == nil {
		form = view.New(nil)
	}

	ta := textarea.New()
	ta.Placeholder = `Enter JSON (e.g., {"data": ["A", "C", "z"]})`
	ta.ShowLineNumbers = false
	ta.SetHeight(6)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "path/to/file"
	ti.Prompt = "File: "

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return &Model{
		ctx:     ctx,
		cancel:  cancel,
		form:    form,
		keys:    defaultKeyMap(),
		help:    help.New(),
		styles:  defaultStyles(),
		json:    ta,
		path:    ti,
		spinner: sp,
	}
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.json.SetWidth(max(20, msg.Width-4))
		m.path.Width = max(20, msg.Width-10)
		m.help.Width = msg.Width
		return m, nil

	case submittedMsg:
		m.pending = false
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			return m, m.submit()
		case key.Matches(msg, m.keys.Next):
			m.setFocus(m.step(1))
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.setFocus(m.step(-1))
			return m, nil
		}
		switch m.focus {
		case focusSubmit:
			if key.Matches(msg, m.keys.Press) {
				return m, m.submit()
			}
			return m, nil
		case focusFilters:
			m.handleFilterKey(msg)
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusJSON:
		m.json, cmd = m.json.Update(msg)
	case focusPath:
		m.path, cmd = m.path.Update(msg)
	}
	return m, cmd
}

// submit starts a submission unless one is pending, mirroring a disabled
// submit control.
func (m *Model) submit() tea.Cmd {
	if m.pending || m.form.InFlight() {
		return nil
	}
	m.form.SetJSON(m.json.Value())

	m.pending = true
	ctx, form, path := m.ctx, m.form, m.path.Value()
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		err := form.SubmitPath(ctx, path)
		if errors.Is(err, view.ErrInFlight) {
			err = nil
		}
		return submittedMsg{err: err}
	})
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) {
	labels := filters.Labels()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(labels)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle), key.Matches(msg, m.keys.Press):
		m.form.Select(toggle(m.form.State().Selected, labels[m.cursor]))
	}
}

// toggle removes label when present and appends it otherwise, so the
// selection keeps the order labels were picked in.
func toggle(selected []string, label string) []string {
	out := make([]string, 0, len(selected)+1)
	found := false
	for _, s := range selected {
		if s == label {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, label)
	}
	return out
}

func (m *Model) focusable() []focus {
	out := []focus{focusJSON, focusPath, focusSubmit}
	if m.form.State().Response != nil {
		out = append(out, focusFilters)
	}
	return out
}

func (m *Model) step(delta int) focus {
	order := m.focusable()
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	return order[idx]
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	m.json.Blur()
	m.path.Blur()
	switch f {
	case focusJSON:
		m.json.Focus()
	case focusPath:
		m.path.Focus()
	}
}

// SubmitLabel is the caption of the submit control.
func (m *Model) SubmitLabel() string {
	if m.pending {
		return view.LabelSubmitting
	}
	return m.form.SubmitLabel()
}

func (m *Model) View() string {
	s := m.styles
	state := m.form.State()

	var b strings.Builder
	b.WriteString(s.title.Render("Submit Your Roll Number"))
	b.WriteString("\n")
	b.WriteString(m.json.View())
	b.WriteString("\n")
	b.WriteString(m.path.View())
	b.WriteString("\n\n")

	button := s.button
	if m.pending {
		button = s.disabled
	}
	label := button.Render(m.SubmitLabel())
	if m.focus == focusSubmit {
		label = s.focused.Render("> ") + label
	}
	b.WriteString(label)
	if m.pending {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")

	if state.Error != "" {
		b.WriteString("\n" + s.errText.Render(state.Error) + "\n")
	}

	if state.Response != nil {
		b.WriteString("\n")
		b.WriteString(m.filtersView(state.Selected))
		b.WriteString("\n")
		b.WriteString(s.label.Render("Filtered Response:"))
		b.WriteString("\n")
		var blocks strings.Builder
		_ = view.WriteBlocks(&blocks, m.form.Blocks())
		if blocks.Len() > 0 {
			b.WriteString(s.block.Render(strings.TrimRight(blocks.String(), "\n")))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.Submit, m.keys.Next, m.keys.Toggle, m.keys.Quit}))
	return b.String()
}

func (m *Model) filtersView(selected []string) string {
	s := m.styles
	chosen := make(map[string]bool, len(selected))
	for _, label := range selected {
		chosen[label] = true
	}

	var b strings.Builder
	for i, label := range filters.Labels() {
		box := "[ ]"
		if chosen[label] {
			box = "[x]"
		}
		line := box + " " + label
		if m.focus == focusFilters && i == m.cursor {
			b.WriteString(s.focused.Render("> " + line))
		} else {
			b.WriteString(s.blurred.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Run starts the program and blocks until the user quits or ctx ends. A
// submission still pending when the program exits is cancelled.
func Run(ctx context.Context, form *view.Form, opts ...tea.ProgramOption) error {
	m := New(ctx, form)
	defer m.cancel()
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
