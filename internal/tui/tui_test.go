package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/forge-cli/forge/internal/auth"
	"github.com/forge-cli/forge/internal/config"
	"github.com/forge-cli/forge/internal/field"
	"github.com/forge-cli/forge/internal/logging"
	"github.com/forge-cli/forge/internal/stage"
	"github.com/forge-cli/forge/internal/wizard"
)

type fakeStore struct {
	writes []*config.File
}

func (f *fakeStore) Write(cfg *config.File) error {
	f.writes = append(f.writes, cfg)
	return nil
}

func newTestModel(t *testing.T) (Model, *fakeStore) {
	t.Helper()
	store := &fakeStore{}
	session := wizard.NewSession(stage.New(auth.NewShapeVerifier()), store,
		wizard.WithLogger(logging.ForTest(t)))
	m := newModel(context.Background(), session)

	resized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return resized.(Model), store
}

func enter() tea.Msg { return tea.KeyMsg{Type: tea.KeyEnter} }
func down() tea.Msg  { return tea.KeyMsg{Type: tea.KeyDown} }
func runes(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func drive(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	var model tea.Model = m
	for _, msg := range msgs {
		model, _ = model.Update(msg)
	}
	return model.(Model)
}

func TestModel_StartsOnFirstStageList(t *testing.T) {
	m, _ := newTestModel(t)

	if m.mode != modeList {
		t.Fatalf("expected list mode for the use case field, got %d", m.mode)
	}
	if got := m.session.Current(); got != stage.UseCase {
		t.Errorf("expected first stage, got %s", got)
	}
	if !strings.Contains(m.View(), "code-review") {
		t.Errorf("use case options missing from view:\n%s", m.View())
	}
}

func TestModel_FullWalkCommits(t *testing.T) {
	m, store := newTestModel(t)

	m = drive(t, m,
		enter(),                 // use_case: code-review (first item)
		enter(),                 // project_name: empty is fine
		down(), down(), enter(), // provider: local
		enter(),                           // api_token: none needed
		enter(), enter(), enter(),         // model routing defaults
		enter(), enter(), enter(), enter(), // persistence defaults
		enter(), enter(), enter(), // environment defaults
		enter(), // review: Save
	)

	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if m.session.State() != wizard.StateCommitted {
		t.Fatalf("expected committed session, got %s", m.session.State())
	}
	if len(store.writes) != 1 {
		t.Fatalf("expected exactly one write, got %d", len(store.writes))
	}

	cfg := store.writes[0]
	if cfg.UseCase != config.UseCaseCodeReview {
		t.Errorf("expected code-review, got %q", cfg.UseCase)
	}
	if cfg.Auth.Provider != auth.ProviderLocal {
		t.Errorf("expected local provider, got %q", cfg.Auth.Provider)
	}
	// code-review derives the capable tier.
	if cfg.ModelRouting.Default != config.TierCapable {
		t.Errorf("expected capable tier, got %q", cfg.ModelRouting.Default)
	}
}

func TestModel_InvalidStageShowsErrorAndStays(t *testing.T) {
	m, store := newTestModel(t)

	m = drive(t, m,
		enter(), // use_case
		enter(), // project_name
		enter(), // provider: anthropic (first item)
		runes("garbage"), enter(), // api_token: wrong shape
	)

	if m.validationErr == "" {
		t.Fatal("expected a validation message")
	}
	if got := m.session.Current(); got != stage.Auth {
		t.Errorf("failed validation must stay on auth, got %s", got)
	}
	if m.fieldIdx != 0 {
		t.Errorf("stage should restart at its first field, got %d", m.fieldIdx)
	}
	if len(store.writes) != 0 {
		t.Errorf("nothing should persist, got %d writes", len(store.writes))
	}
}

func TestModel_QuitCancels(t *testing.T) {
	m, _ := newTestModel(t)

	m = drive(t, m, runes("q"))
	if !m.cancelled {
		t.Error("expected q to cancel")
	}
}

func TestModel_EscStepsBackThroughFields(t *testing.T) {
	m, _ := newTestModel(t)

	m = drive(t, m, enter()) // use_case answered, now project_name
	if m.fieldIdx != 1 {
		t.Fatalf("expected second field, got %d", m.fieldIdx)
	}

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.fieldIdx != 0 {
		t.Errorf("expected Esc to return to the first field, got %d", m.fieldIdx)
	}
	if got := m.session.Current(); got != stage.UseCase {
		t.Errorf("expected to stay on the first stage, got %s", got)
	}
}

func TestFieldItems_Boolean(t *testing.T) {
	items := fieldItems(&field.Spec{Name: "debug", Kind: field.KindBoolean})
	if len(items) != 2 {
		t.Fatalf("expected yes/no, got %d items", len(items))
	}
	if items[0].(optionItem).value != "yes" || items[1].(optionItem).value != "no" {
		t.Errorf("unexpected boolean items: %+v", items)
	}
}

func TestSummary_MasksToken(t *testing.T) {
	store := &fakeStore{}
	session := wizard.NewSession(stage.New(auth.NewShapeVerifier()), store,
		wizard.WithLogger(logging.ForTest(t)))

	token := "sk-ant-REDACTED"
	submit := func(name, raw string) {
		t.Helper()
		if err := session.SubmitField(name, raw); err != nil {
			t.Fatalf("submit %s: %v", name, err)
		}
	}
	advance := func() {
		t.Helper()
		if err := session.Advance(context.Background()); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	submit(stage.FieldUseCase, "chat")
	advance()
	submit(stage.FieldProvider, "anthropic")
	submit(stage.FieldAPIToken, token)
	advance()

	got := summary(session)
	if strings.Contains(got, token) {
		t.Errorf("raw token leaked into summary:\n%s", got)
	}
	if !strings.Contains(got, "klmn") {
		t.Errorf("masked tail missing from summary:\n%s", got)
	}
}
