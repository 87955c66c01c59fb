package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/forge-cli/forge/internal/field"
	"github.com/forge-cli/forge/internal/redact"
	"github.com/forge-cli/forge/internal/stage"
	"github.com/forge-cli/forge/internal/wizard"
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	styleSubtitle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	stylePrompt   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	styleSummary  = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
)

type optionItem struct {
	title string
	desc  string
	value string
}

func (i optionItem) Title() string       { return i.title }
func (i optionItem) Description() string { return i.desc }
func (i optionItem) FilterValue() string { return i.title }

// View implements tea.Model.
func (m Model) View() string {
	if m.mode == modeDone {
		return ""
	}

	var header string
	if m.validationErr != "" {
		header = styleError.Render("✗ "+m.validationErr) + "\n\n"
	}

	switch m.mode {
	case modeText:
		spec := m.session.CurrentSpec()
		return header +
			styleTitle.Render(spec.Title) + "\n" +
			styleSubtitle.Render(spec.Fields[m.fieldIdx].Label) + "\n\n" +
			m.input.View() + "\n\n" +
			stylePrompt.Render("Enter to continue, Esc to go back.")
	case modeReview:
		return header +
			styleSummary.Render(summary(m.session)) + "\n\n" +
			m.list.View() + "\n\n" +
			stylePrompt.Render("Enter to confirm, q to quit.")
	default:
		return header +
			styleSubtitle.Render(m.stageTitle()) + "\n" +
			m.list.View() + "\n\n" +
			stylePrompt.Render("↑/↓ to move, Enter to select, Esc to go back, q to quit.")
	}
}

func (m Model) stageTitle() string {
	if m.mode == modeStagePick {
		return ""
	}
	return m.session.CurrentSpec().Title
}

func newList(title string, items []list.Item) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("205")).Bold(true)
	delegate.Styles.NormalDesc = delegate.Styles.NormalDesc.Foreground(lipgloss.Color("244")).Italic(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(lipgloss.Color("212")).Italic(true)
	l := list.New(items, delegate, 0, 0)
	l.Title = styleTitle.Render(title)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)
	return l
}

// fieldItems builds list entries for an enum or boolean field.
func fieldItems(f *field.Spec) []list.Item {
	if f.Kind == field.KindBoolean {
		return []list.Item{
			optionItem{title: "yes", value: "yes"},
			optionItem{title: "no", value: "no"},
		}
	}

	items := make([]list.Item, 0, len(f.Options))
	for _, o := range f.Options {
		items = append(items, optionItem{
			title: o.Value,
			desc:  o.Desc,
			value: o.Value,
		})
	}
	return items
}

func reviewItems() []list.Item {
	return []list.Item{
		optionItem{title: "Save", desc: "Write the configuration and finish", value: "save"},
		optionItem{title: "Edit a stage", desc: "Go back and change an answer", value: "edit"},
		optionItem{title: "Quit", desc: "Exit without saving", value: "quit"},
	}
}

// stageItems lists the stages that can be revisited.
func stageItems(session *wizard.Session) []list.Item {
	items := make([]list.Item, 0, len(stage.Order)-1)
	for _, id := range stage.Order {
		if id == stage.Review {
			continue
		}
		if _, ok := session.Committed(id); !ok {
			continue
		}
		spec, err := session.Spec(id)
		if err != nil {
			continue
		}
		items = append(items, optionItem{
			title: spec.Title,
			value: string(id),
		})
	}
	return items
}

// summary renders the committed draft, masking credential input.
func summary(session *wizard.Session) string {
	var lines []string
	for _, id := range stage.Order {
		values, ok := session.Committed(id)
		if !ok {
			continue
		}
		spec, err := session.Spec(id)
		if err != nil {
			continue
		}
		lines = append(lines, spec.Title)
		for i := range spec.Fields {
			f := &spec.Fields[i]
			v, ok := values.Get(f.Name)
			if !ok {
				continue
			}
			display := v.String()
			if f.Kind == field.KindString && display != "" &&
				(redact.ShouldMask(f.Name) || redact.ContainsTokenPrefix(display)) {
				display = redact.MaskValue(display)
			}
			lines = append(lines, fmt.Sprintf("  %-24s %s", f.Label, display))
		}
	}
	return strings.Join(lines, "\n")
}
