package wizard

import (
	"context"

	"github.com/forge-cli/forge/internal/config"
	"github.com/forge-cli/forge/internal/stage"
)

// Commit assembles the final configuration from the draft, runs the
// cross-stage consistency checks, and performs a single atomic write through
// the persistence collaborator.
//
// On CommitPersist the draft is preserved, so calling Commit again retries
// the write without any re-entry. Once committed the session is terminal and
// further calls are no-ops.
func (s *Session) Commit(ctx context.Context) error {
	if s.state == StateCommitted {
		return nil
	}
	if s.state == StateAborted {
		return &NavigationError{Op: "commit", Reason: "session was aborted"}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var missing []stage.ID
	for _, id := range stage.Order {
		if id == stage.Review {
			continue
		}
		if !s.draft.Has(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &CommitError{Kind: CommitIncomplete, Missing: missing}
	}

	cfg := s.assemble()

	if problems := config.Validate(cfg); len(problems) > 0 {
		s.log.Warn("commit rejected", "problems", len(problems))
		return &CommitError{Kind: CommitInconsistent, Problems: problems}
	}

	if err := s.store.Write(cfg); err != nil {
		s.log.Error("persisting configuration failed", "err", err)
		return &CommitError{Kind: CommitPersist, cause: err}
	}

	s.log.Info("configuration committed", "use_case", cfg.UseCase, "environment", cfg.Environment)
	s.final = cfg
	s.state = StateCommitted
	return nil
}

// assemble builds the immutable artifact from a complete draft.
func (s *Session) assemble() *config.File {
	d := s.draft
	return &config.File{
		Version:     config.Version,
		UseCase:     d.str(stage.UseCase, stage.FieldUseCase),
		ProjectName: d.str(stage.UseCase, stage.FieldProjectName),
		Auth: config.AuthConfig{
			Provider: d.str(stage.Auth, stage.FieldProvider),
			APIToken: d.str(stage.Auth, stage.FieldAPIToken),
		},
		ModelRouting: config.ModelRoutingConfig{
			Default:          d.str(stage.ModelRouting, stage.FieldDefaultTier),
			Fallback:         d.str(stage.ModelRouting, stage.FieldFallbackTier),
			MaxContextTokens: d.num(stage.ModelRouting, stage.FieldMaxContextTokens),
		},
		Persistence: config.PersistenceConfig{
			Backend:         d.str(stage.Persistence, stage.FieldBackend),
			Format:          d.str(stage.Persistence, stage.FieldFormat),
			CredentialStore: d.str(stage.Persistence, stage.FieldCredentialStore),
			HistoryLimit:    d.num(stage.Persistence, stage.FieldHistoryLimit),
		},
		Environment: d.str(stage.Environment, stage.FieldEnvironment),
		Debug:       d.boolean(stage.Environment, stage.FieldDebug),
		Telemetry:   d.boolean(stage.Environment, stage.FieldTelemetry),
	}
}
