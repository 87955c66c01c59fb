package wizard

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forge-cli/forge/internal/auth"
	"github.com/forge-cli/forge/internal/config"
	"github.com/forge-cli/forge/internal/field"
	"github.com/forge-cli/forge/internal/logging"
	"github.com/forge-cli/forge/internal/stage"
)

// fakeStore records writes and can be told to fail.
type fakeStore struct {
	writes   []*config.File
	failWith error
}

func (f *fakeStore) Write(cfg *config.File) error {
	if f.failWith != nil {
		err := f.failWith
		f.failWith = nil
		return err
	}
	f.writes = append(f.writes, cfg)
	return nil
}

func newTestSession(t *testing.T) (*Session, *fakeStore) {
	t.Helper()
	store := &fakeStore{}
	registry := stage.New(auth.NewShapeVerifier())
	return NewSession(registry, store, WithLogger(logging.ForTest(t))), store
}

const validAnthropicToken = "sk-ant-REDACTED"

// answers for a complete, consistent run.
var consistentAnswers = map[stage.ID]map[string]string{
	stage.UseCase: {
		stage.FieldUseCase:     "test-gen",
		stage.FieldProjectName: "demo",
	},
	stage.Auth: {
		stage.FieldProvider: "anthropic",
		stage.FieldAPIToken: validAnthropicToken,
	},
	stage.ModelRouting: {}, // accept derived defaults
	stage.Persistence:  {}, // accept derived defaults
	stage.Environment:  {}, // accept derived defaults
}

func completeStage(t *testing.T, s *Session, answers map[string]string) {
	t.Helper()
	for name, raw := range answers {
		require.NoError(t, s.SubmitField(name, raw))
	}
	require.NoError(t, s.Advance(context.Background()))
}

func runToReview(t *testing.T, s *Session) {
	t.Helper()
	for _, id := range stage.Order {
		if id == stage.Review {
			break
		}
		require.Equal(t, id, s.Current())
		completeStage(t, s, consistentAnswers[id])
	}
	require.Equal(t, stage.Review, s.Current())
}

func TestSession_StartsAtFirstStageWithEmptyDraft(t *testing.T) {
	s, _ := newTestSession(t)

	assert.Equal(t, stage.UseCase, s.Current())
	assert.Empty(t, s.History())
	for _, id := range stage.Order {
		_, ok := s.Committed(id)
		assert.False(t, ok, "draft should start empty for %s", id)
	}
}

func TestSubmitField_InvalidInputLeavesEverythingUnchanged(t *testing.T) {
	s, _ := newTestSession(t)

	err := s.SubmitField(stage.FieldUseCase, "world-domination")
	var invalid *field.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, field.ReasonNotInSet, invalid.Reason)

	assert.Equal(t, stage.UseCase, s.Current(), "stage must not change")
	_, ok := s.Pending().Get(stage.FieldUseCase)
	assert.False(t, ok, "pending buffer must not hold rejected input")
	_, ok = s.Committed(stage.UseCase)
	assert.False(t, ok, "draft must not change")
}

func TestSubmitField_OverwritesOnlyThatField(t *testing.T) {
	s, _ := newTestSession(t)

	require.NoError(t, s.SubmitField(stage.FieldUseCase, "chat"))
	require.NoError(t, s.SubmitField(stage.FieldProjectName, "demo"))
	require.NoError(t, s.SubmitField(stage.FieldUseCase, "refactor"))

	pending := s.Pending()
	useCase, _ := pending.Get(stage.FieldUseCase)
	project, _ := pending.Get(stage.FieldProjectName)
	assert.Equal(t, "refactor", useCase.String())
	assert.Equal(t, "demo", project.String(), "resubmitting one field must not touch others")
}

func TestSubmitField_UnknownFieldIsADefect(t *testing.T) {
	s, _ := newTestSession(t)
	err := s.SubmitField("flux_capacitor", "1.21")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestAdvance_MissingRequiredFieldDoesNotMutateDraft(t *testing.T) {
	s, _ := newTestSession(t)

	// project_name is optional, use_case is required and not submitted.
	err := s.Advance(context.Background())
	var vErr *stage.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, stage.UseCase, vErr.Stage)

	assert.Equal(t, stage.UseCase, s.Current())
	_, ok := s.Committed(stage.UseCase)
	assert.False(t, ok, "failed advance must not write to the draft")
	assert.Empty(t, s.History())
}

func TestAdvance_OptionalFieldMayBeOmitted(t *testing.T) {
	s, _ := newTestSession(t)

	require.NoError(t, s.SubmitField(stage.FieldUseCase, "chat"))
	require.NoError(t, s.Advance(context.Background()))

	assert.Equal(t, stage.Auth, s.Current())
	values, ok := s.Committed(stage.UseCase)
	require.True(t, ok)
	_, hasProject := values.Get(stage.FieldProjectName)
	assert.False(t, hasProject)
}

func TestAdvance_StageValidationFailureKeepsState(t *testing.T) {
	s, _ := newTestSession(t)
	completeStage(t, s, consistentAnswers[stage.UseCase])

	require.NoError(t, s.SubmitField(stage.FieldProvider, "anthropic"))
	require.NoError(t, s.SubmitField(stage.FieldAPIToken, "not-a-real-token"))

	err := s.Advance(context.Background())
	var vErr *stage.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, stage.Auth, vErr.Stage)

	assert.Equal(t, stage.Auth, s.Current(), "stage must not change on validation failure")
	_, ok := s.Committed(stage.Auth)
	assert.False(t, ok, "draft must not gain an auth entry")
	assert.Len(t, s.History(), 1, "history must not grow")
}

func TestSubmitProvider_InvalidTokenRejected(t *testing.T) {
	s, _ := newTestSession(t)
	completeStage(t, s, consistentAnswers[stage.UseCase])

	err := s.SubmitField(stage.FieldProvider, "gemini")
	var invalid *field.InvalidInputError
	require.ErrorAs(t, err, &invalid)

	assert.Equal(t, stage.Auth, s.Current())
	_, ok := s.Pending().Get(stage.FieldProvider)
	assert.False(t, ok)
}

func TestDerivedDefaults_TestGenImpliesCapableTier(t *testing.T) {
	s, _ := newTestSession(t)
	completeStage(t, s, consistentAnswers[stage.UseCase]) // use_case = test-gen
	completeStage(t, s, consistentAnswers[stage.Auth])

	require.Equal(t, stage.ModelRouting, s.Current())
	pending := s.Pending()

	tier, ok := pending.Get(stage.FieldDefaultTier)
	require.True(t, ok, "default tier must be derived on entry")
	assert.Equal(t, config.TierCapable, tier.String(), "test-gen derives capable, not cheap")

	fallback, ok := pending.Get(stage.FieldFallbackTier)
	require.True(t, ok)
	assert.Equal(t, config.TierCheap, fallback.String())

	tokens, ok := pending.Get(stage.FieldMaxContextTokens)
	require.True(t, ok)
	assert.Equal(t, 128_000, tokens.Number())
}

func TestDerivedDefaults_AreOverridable(t *testing.T) {
	s, _ := newTestSession(t)
	completeStage(t, s, consistentAnswers[stage.UseCase])
	completeStage(t, s, consistentAnswers[stage.Auth])

	require.NoError(t, s.SubmitField(stage.FieldDefaultTier, "balanced"))
	require.NoError(t, s.Advance(context.Background()))

	values, ok := s.Committed(stage.ModelRouting)
	require.True(t, ok)
	tier, _ := values.Get(stage.FieldDefaultTier)
	assert.Equal(t, config.TierBalanced, tier.String())
}

func TestBack_ThenAdvanceReproducesIdenticalDraftEntry(t *testing.T) {
	s, _ := newTestSession(t)
	completeStage(t, s, consistentAnswers[stage.UseCase])
	completeStage(t, s, consistentAnswers[stage.Auth])

	before, ok := s.Committed(stage.Auth)
	require.True(t, ok)

	require.NoError(t, s.Back())
	assert.Equal(t, stage.Auth, s.Current())

	// Prior answers are pre-filled; advancing without changes round-trips.
	require.NoError(t, s.Advance(context.Background()))
	assert.Equal(t, stage.ModelRouting, s.Current())

	after, ok := s.Committed(stage.Auth)
	require.True(t, ok)
	assert.Equal(t, before, after, "unchanged back/advance must reproduce the identical entry")
}

func TestBack_DoesNotDiscardDraftOfStageLeft(t *testing.T) {
	s, _ := newTestSession(t)
	completeStage(t, s, consistentAnswers[stage.UseCase])
	completeStage(t, s, consistentAnswers[stage.Auth])

	require.NoError(t, s.Back()) // leaves ModelRouting, enters Auth
	_, ok := s.Committed(stage.Auth)
	assert.True(t, ok, "auth draft entry survives navigation")
	_, ok = s.Committed(stage.UseCase)
	assert.True(t, ok)
}

func TestBack_EmptyHistoryIsNavigationError(t *testing.T) {
	s, _ := newTestSession(t)

	err := s.Back()
	var navErr *NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.Equal(t, "back", navErr.Op)
}

func TestHistory_TracksAdvancesAndBacks(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Len(t, s.History(), 0)

	completeStage(t, s, consistentAnswers[stage.UseCase])
	assert.Len(t, s.History(), 1)

	completeStage(t, s, consistentAnswers[stage.Auth])
	assert.Len(t, s.History(), 2)

	require.NoError(t, s.Back())
	assert.Len(t, s.History(), 1, "back decreases history by exactly one")
}

func TestJumpTo_OnlyVisitedStages(t *testing.T) {
	s, _ := newTestSession(t)
	completeStage(t, s, consistentAnswers[stage.UseCase])

	err := s.JumpTo(stage.Environment)
	var navErr *NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.Equal(t, "jump", navErr.Op)
	assert.Equal(t, stage.Auth, s.Current(), "failed jump must not move")
}

func TestJumpTo_PreloadsCommittedValuesAndBoundsHistory(t *testing.T) {
	s, _ := newTestSession(t)
	completeStage(t, s, consistentAnswers[stage.UseCase])
	completeStage(t, s, consistentAnswers[stage.Auth])
	completeStage(t, s, consistentAnswers[stage.ModelRouting])
	priorMax := len(s.History())

	require.NoError(t, s.JumpTo(stage.Auth))
	assert.Equal(t, stage.Auth, s.Current())
	assert.Less(t, len(s.History()), priorMax, "jump must not grow history")

	provider, ok := s.Pending().Get(stage.FieldProvider)
	require.True(t, ok, "committed values pre-load as pending")
	assert.Equal(t, "anthropic", provider.String())

	// Edit then advance overwrites the committed entry.
	require.NoError(t, s.SubmitField(stage.FieldProvider, "local"))
	require.NoError(t, s.SubmitField(stage.FieldAPIToken, ""))
	require.NoError(t, s.Advance(context.Background()))

	values, _ := s.Committed(stage.Auth)
	provider, _ = values.Get(stage.FieldProvider)
	assert.Equal(t, "local", provider.String())
	assert.LessOrEqual(t, len(s.History()), priorMax, "history stays within its prior maximum")
}

func TestJumpTo_ChangedUseCaseDoesNotRederiveFilledTier(t *testing.T) {
	s, _ := newTestSession(t)
	completeStage(t, s, consistentAnswers[stage.UseCase]) // test-gen
	completeStage(t, s, consistentAnswers[stage.Auth])
	completeStage(t, s, consistentAnswers[stage.ModelRouting]) // capable committed

	require.NoError(t, s.JumpTo(stage.UseCase))
	require.NoError(t, s.SubmitField(stage.FieldUseCase, "chat"))
	require.NoError(t, s.Advance(context.Background()))

	// Defaults freeze once set: the already-answered tier stays capable.
	require.NoError(t, s.JumpTo(stage.ModelRouting))
	tier, ok := s.Pending().Get(stage.FieldDefaultTier)
	require.True(t, ok)
	assert.Equal(t, config.TierCapable, tier.String())
}

func TestAbort_DiscardsDraftWithoutPersisting(t *testing.T) {
	s, store := newTestSession(t)
	completeStage(t, s, consistentAnswers[stage.UseCase])

	s.Abort()
	assert.Equal(t, StateAborted, s.State())
	assert.Empty(t, store.writes, "abort must not persist")

	// Terminal: all operations are navigation errors now.
	var navErr *NavigationError
	require.ErrorAs(t, s.SubmitField(stage.FieldUseCase, "chat"), &navErr)
	require.ErrorAs(t, s.Advance(context.Background()), &navErr)
	require.ErrorAs(t, s.Back(), &navErr)
}

func TestState_ReflectsCurrentStage(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Equal(t, State(stage.UseCase), s.State())

	completeStage(t, s, consistentAnswers[stage.UseCase])
	assert.Equal(t, State(stage.Auth), s.State())
}

func TestCommitScenario_FullRunPersistsExactlyOnce(t *testing.T) {
	s, store := newTestSession(t)
	runToReview(t, s)

	require.NoError(t, s.Advance(context.Background()))
	assert.Equal(t, StateCommitted, s.State())
	require.Len(t, store.writes, 1, "persistence collaborator invoked exactly once")

	cfg := store.writes[0]
	assert.Equal(t, "test-gen", cfg.UseCase)
	assert.Equal(t, "demo", cfg.ProjectName)
	assert.Equal(t, "anthropic", cfg.Auth.Provider)
	assert.Equal(t, validAnthropicToken, cfg.Auth.APIToken)
	assert.Equal(t, config.TierCapable, cfg.ModelRouting.Default)
	assert.Equal(t, config.TierCheap, cfg.ModelRouting.Fallback)
	assert.Equal(t, 128_000, cfg.ModelRouting.MaxContextTokens)
	assert.Equal(t, config.BackendFile, cfg.Persistence.Backend)
	assert.Equal(t, config.FormatYAML, cfg.Persistence.Format)
	assert.Equal(t, config.CredStoreKeychain, cfg.Persistence.CredentialStore)
	assert.Equal(t, 100, cfg.Persistence.HistoryLimit)
	assert.Equal(t, config.EnvLocal, cfg.Environment)
	assert.False(t, cfg.Debug)
	assert.True(t, cfg.Telemetry)

	assert.Same(t, cfg, s.Final())

	// Advancing past a committed review is a no-op.
	require.NoError(t, s.Advance(context.Background()))
	assert.Len(t, store.writes, 1)
}

func TestCommit_IncompleteDraftNeverCallsStore(t *testing.T) {
	s, store := newTestSession(t)
	completeStage(t, s, consistentAnswers[stage.UseCase])

	err := s.Commit(context.Background())
	var cErr *CommitError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, CommitIncomplete, cErr.Kind)
	assert.Contains(t, cErr.Missing, stage.Auth)
	assert.Contains(t, cErr.Missing, stage.Environment)
	assert.Empty(t, store.writes, "incomplete commit must never reach the store")
}

func TestCommit_InconsistentConfigSurfacesAtCommit(t *testing.T) {
	s, store := newTestSession(t)
	completeStage(t, s, consistentAnswers[stage.UseCase])
	completeStage(t, s, consistentAnswers[stage.Auth]) // anthropic, needs a credential store

	require.Equal(t, stage.ModelRouting, s.Current())
	require.NoError(t, s.Advance(context.Background()))

	// Override the derived keychain store with none.
	require.NoError(t, s.SubmitField(stage.FieldCredentialStore, "none"))
	require.NoError(t, s.Advance(context.Background()))
	require.NoError(t, s.Advance(context.Background())) // environment defaults

	err := s.Advance(context.Background()) // review -> commit
	var cErr *CommitError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, CommitInconsistent, cErr.Kind)
	assert.Empty(t, store.writes)

	// Recoverable: jump back, fix, and run forward to a clean commit.
	require.NoError(t, s.JumpTo(stage.Persistence))
	require.NoError(t, s.SubmitField(stage.FieldCredentialStore, "keychain"))
	require.NoError(t, s.Advance(context.Background()))
	require.NoError(t, s.Advance(context.Background()))
	require.NoError(t, s.Advance(context.Background()))
	assert.Equal(t, StateCommitted, s.State())
	assert.Len(t, store.writes, 1)
}

func TestCommit_PersistFailureKeepsDraftAndRetrySucceeds(t *testing.T) {
	s, store := newTestSession(t)
	runToReview(t, s)

	store.failWith = assert.AnError
	err := s.Advance(context.Background())
	var cErr *CommitError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, CommitPersist, cErr.Kind)
	require.ErrorIs(t, err, assert.AnError)

	assert.NotEqual(t, StateCommitted, s.State())
	_, ok := s.Committed(stage.Auth)
	assert.True(t, ok, "draft preserved after persist failure")

	// Retry without any re-entry.
	require.NoError(t, s.Commit(context.Background()))
	assert.Equal(t, StateCommitted, s.State())
	assert.Len(t, store.writes, 1)
}

func TestCommitError_Message(t *testing.T) {
	err := &CommitError{Kind: CommitIncomplete, Missing: []stage.ID{stage.Auth}}
	assert.True(t, strings.Contains(err.Error(), "auth"), "message should name missing stages: %s", err.Error())
}
