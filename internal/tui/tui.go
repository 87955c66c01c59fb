// Package tui is the full-screen setup front-end. It renders one wizard
// field at a time, a list for enum and boolean fields and a text input for
// the rest, and drives the session underneath.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"

	"github.com/forge-cli/forge/internal/config"
	forgeerrors "github.com/forge-cli/forge/internal/errors"
	"github.com/forge-cli/forge/internal/field"
	"github.com/forge-cli/forge/internal/stage"
	"github.com/forge-cli/forge/internal/wizard"
)

type mode int

const (
	modeList mode = iota
	modeText
	modeReview
	modeStagePick
	modeDone
)

// Run walks the wizard in an alt-screen terminal session and returns the
// persisted configuration. Quitting aborts the session and returns
// ErrAborted.
func Run(ctx context.Context, session *wizard.Session) (*config.File, error) {
	prog := tea.NewProgram(newModel(ctx, session), tea.WithAltScreen())
	result, err := prog.Run()
	if err != nil {
		return nil, errors.Wrap(err, "running setup interface")
	}

	final, ok := result.(Model)
	if !ok {
		return nil, errors.New("setup interface returned no result")
	}
	if final.err != nil {
		return nil, final.err
	}
	if final.cancelled {
		session.Abort()
		return nil, forgeerrors.ErrAborted
	}
	return session.Final(), nil
}

// Model is the bubbletea model for the setup wizard.
type Model struct {
	ctx     context.Context
	session *wizard.Session

	mode     mode
	fieldIdx int
	list     list.Model
	input    textinput.Model

	validationErr string
	cancelled     bool
	err           error
	width         int
	height        int
}

func newModel(ctx context.Context, session *wizard.Session) Model {
	m := Model{
		ctx:     ctx,
		session: session,
	}
	m.enterStage()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-6)
		m.input.Width = msg.Width - 4

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "q":
			if m.mode != modeText {
				m.cancelled = true
				return m, tea.Quit
			}
		case "esc":
			return m.goBack()
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.mode == modeText {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

// enterStage loads the control for the first unanswered view of the current
// stage, or the review screen at the terminal stage.
func (m *Model) enterStage() {
	m.fieldIdx = 0
	if m.session.Current() == stage.Review {
		m.mode = modeReview
		m.list = newList("Review and save", reviewItems())
		m.applySize()
		return
	}
	m.loadField()
}

// loadField builds the input control for the current field, pre-filled with
// the pending value when one exists.
func (m *Model) loadField() {
	spec := m.session.CurrentSpec()
	f := &spec.Fields[m.fieldIdx]
	def, hasDef := m.session.Pending().Get(f.Name)

	switch f.Kind {
	case field.KindEnum, field.KindBoolean:
		m.mode = modeList
		items := fieldItems(f)
		m.list = newList(f.Label, items)
		if hasDef {
			for i, it := range items {
				if it.(optionItem).value == def.String() {
					m.list.Select(i)
					break
				}
			}
		}
	default:
		m.mode = modeText
		m.input = textinput.New()
		m.input.Prompt = stylePrompt.Render("> ")
		m.input.Placeholder = f.Label
		if hasDef && def.String() != "" {
			m.input.SetValue(def.String())
		}
		m.input.Focus()
		if m.width > 0 {
			m.input.Width = m.width - 4
		}
	}
	m.applySize()
}

// submit handles Enter for the current control.
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.validationErr = ""

	switch m.mode {
	case modeReview:
		return m.submitReview()
	case modeStagePick:
		return m.submitStagePick()
	case modeList:
		item, ok := m.list.SelectedItem().(optionItem)
		if !ok {
			return m, nil
		}
		return m.submitField(item.value)
	case modeText:
		return m.submitField(m.input.Value())
	}
	return m, nil
}

// submitField validates one answer and moves to the next field or stage.
func (m Model) submitField(raw string) (tea.Model, tea.Cmd) {
	spec := m.session.CurrentSpec()
	name := spec.Fields[m.fieldIdx].Name

	if err := m.session.SubmitField(name, raw); err != nil {
		m.validationErr = err.Error()
		return m, nil
	}

	if m.fieldIdx+1 < len(spec.Fields) {
		m.fieldIdx++
		m.loadField()
		return m, nil
	}

	err := m.session.Advance(m.ctx)
	var vErr *stage.ValidationError
	if errors.As(err, &vErr) {
		m.validationErr = vErr.Error()
		m.fieldIdx = 0
		m.loadField()
		return m, nil
	}
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.enterStage()
	return m, nil
}

func (m Model) submitReview() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(optionItem)
	if !ok {
		return m, nil
	}

	switch item.value {
	case "save":
		err := m.session.Commit(m.ctx)
		if err == nil {
			m.mode = modeDone
			return m, tea.Quit
		}
		var cErr *wizard.CommitError
		if errors.As(err, &cErr) && cErr.Kind == wizard.CommitInconsistent {
			m.validationErr = cErr.Error()
			return m, nil
		}
		m.err = err
		return m, tea.Quit
	case "edit":
		m.mode = modeStagePick
		m.list = newList("Edit which stage?", stageItems(m.session))
		m.applySize()
		return m, nil
	default:
		m.cancelled = true
		return m, tea.Quit
	}
}

func (m Model) submitStagePick() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(optionItem)
	if !ok {
		return m, nil
	}
	if err := m.session.JumpTo(stage.ID(item.value)); err != nil {
		m.validationErr = err.Error()
		return m, nil
	}
	m.enterStage()
	return m, nil
}

// goBack steps to the previous field, or the previous stage at the first
// field. At the very beginning Esc does nothing.
func (m Model) goBack() (tea.Model, tea.Cmd) {
	m.validationErr = ""

	if m.mode == modeStagePick {
		m.enterStage()
		return m, nil
	}
	if m.fieldIdx > 0 {
		m.fieldIdx--
		m.loadField()
		return m, nil
	}
	if err := m.session.Back(); err == nil {
		m.enterStage()
	}
	return m, nil
}

func (m *Model) applySize() {
	if m.width > 0 && m.height > 0 {
		m.list.SetSize(m.width, m.height-6)
	}
}
