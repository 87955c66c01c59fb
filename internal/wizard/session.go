package wizard

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/forge-cli/forge/internal/config"
	"github.com/forge-cli/forge/internal/field"
	"github.com/forge-cli/forge/internal/logging"
	"github.com/forge-cli/forge/internal/stage"
)

// State describes where a session is. While the wizard is running the state
// is the current stage's ID; Committed and Aborted are terminal.
type State string

const (
	// StateCommitted means the configuration was assembled and persisted.
	StateCommitted State = "committed"
	// StateAborted means the user cancelled; the draft was discarded.
	StateAborted State = "aborted"
)

// Session is the wizard state machine. It exclusively owns the draft it is
// building; one session exists per wizard run and it is not safe for
// concurrent use.
type Session struct {
	registry *stage.Registry
	store    config.Store
	log      *slog.Logger

	current stage.ID
	history []stage.ID
	pending stage.Values
	draft   Draft

	state State // empty while the wizard is running
	final *config.File
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session's logger. Defaults to a discarding logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// NewSession starts a wizard run at the first stage with an empty draft.
func NewSession(registry *stage.Registry, store config.Store, opts ...Option) *Session {
	s := &Session{
		registry: registry,
		store:    store,
		log:      logging.NewDiscard(),
		draft:    Draft{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current = registry.First()
	s.enter(s.current)
	return s
}

// State returns the session state: the current stage while running, or a
// terminal state.
func (s *Session) State() State {
	if s.state != "" {
		return s.state
	}
	return State(s.current)
}

// Current returns the stage the session is on.
func (s *Session) Current() stage.ID {
	return s.current
}

// CurrentSpec returns the spec of the current stage.
func (s *Session) CurrentSpec() *stage.Spec {
	spec, err := s.registry.Get(s.current)
	if err != nil {
		// The registry is fixed at construction; a miss here is a defect.
		panic(errors.Wrap(err, "corrupted stage registry"))
	}
	return spec
}

// Spec returns the spec of an arbitrary stage, for summaries and review
// screens.
func (s *Session) Spec(id stage.ID) (*stage.Spec, error) {
	return s.registry.Get(id)
}

// Pending returns a copy of the not-yet-committed values for the current
// stage, including derived defaults.
func (s *Session) Pending() stage.Values {
	return s.pending.Clone()
}

// History returns a copy of the visited-stage history.
func (s *Session) History() []stage.ID {
	out := make([]stage.ID, len(s.history))
	copy(out, s.history)
	return out
}

// Committed returns a copy of the committed draft values for a stage and
// whether the stage has an entry.
func (s *Session) Committed(id stage.ID) (stage.Values, bool) {
	values, ok := s.draft[id]
	if !ok {
		return nil, false
	}
	return values.Clone(), true
}

// Final returns the persisted configuration after a successful commit.
func (s *Session) Final() *config.File {
	return s.final
}

// terminal reports whether the session has ended.
func (s *Session) terminal() bool {
	return s.state != ""
}

// enter loads the pending buffer for a stage: previously committed values
// first, derived defaults for whatever has no prior value. Defaults are
// frozen once a field has a value; changing an earlier answer does not
// rewrite a later stage that was already filled in.
func (s *Session) enter(id stage.ID) {
	if committed, ok := s.draft[id]; ok {
		s.pending = committed.Clone()
	} else {
		s.pending = stage.Values{}
	}
	for name, v := range s.registry.Defaults(id, s.pending, s.draft.Lookup()) {
		s.pending[name] = v
	}
	s.log.Debug("stage entered", "stage", string(id), "prefilled", len(s.pending))
}

// SubmitField validates raw input for one field of the current stage and, on
// success, stores the typed value in the pending buffer. Other pending
// fields are untouched; on failure nothing changes.
func (s *Session) SubmitField(name, raw string) error {
	if s.terminal() {
		return &NavigationError{Op: "submit", Reason: "session has ended"}
	}

	spec := s.CurrentSpec().Field(name)
	if spec == nil {
		return errors.Wrapf(ErrUnknownField, "%q in stage %s", name, s.current)
	}

	value, err := field.Validate(spec, raw)
	if err != nil {
		s.log.Debug("field rejected", "stage", string(s.current), "field", name)
		return err
	}

	s.pending[name] = value
	s.log.Debug("field submitted", "stage", string(s.current), "field", name, "value", value.String())
	return nil
}

// Advance completes the current stage: every required field must be present
// in the pending buffer and the stage-level check must pass. On success the
// pending buffer is merged into the draft, the stage is appended to history,
// and the session moves to the next stage. At the review stage, Advance
// triggers the commit pipeline; once committed it is a no-op.
func (s *Session) Advance(ctx context.Context) error {
	if s.state == StateAborted {
		return &NavigationError{Op: "advance", Reason: "session was aborted"}
	}
	if s.state == StateCommitted {
		return nil
	}

	if s.current == s.registry.Last() {
		return s.Commit(ctx)
	}

	spec := s.CurrentSpec()

	var missing []string
	for i := range spec.Fields {
		f := &spec.Fields[i]
		if f.Optional {
			continue
		}
		if _, ok := s.pending.Get(f.Name); !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		problems := make([]string, len(missing))
		for i, name := range missing {
			problems[i] = "missing required field " + name
		}
		return &stage.ValidationError{Stage: s.current, Problems: problems}
	}

	if spec.Validate != nil {
		if err := spec.Validate(ctx, s.pending); err != nil {
			s.log.Debug("stage validation failed", "stage", string(s.current))
			return err
		}
	}

	s.draft[s.current] = s.pending.Clone()
	s.history = append(s.history, s.current)

	next, ok := s.registry.Next(s.current)
	if !ok {
		// Unreachable: Last() is handled above and every other stage has a successor.
		panic(errors.AssertionFailedf("stage %s has no successor", s.current))
	}
	s.log.Info("stage completed", "stage", string(s.current), "next", string(next))
	s.current = next
	s.enter(next)
	return nil
}

// Back returns to the most recently completed stage. The draft entry of the
// stage being left is kept, so coming forward again re-enters it with the
// previous answers pre-filled.
func (s *Session) Back() error {
	if s.terminal() {
		return &NavigationError{Op: "back", Reason: "session has ended"}
	}
	if len(s.history) == 0 {
		return &NavigationError{Op: "back", Reason: "history is empty"}
	}

	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.log.Debug("navigated back", "from", string(s.current), "to", string(last))
	s.current = last
	s.enter(last)
	return nil
}

// JumpTo re-enters an already-visited stage with its committed values
// pre-loaded, so the user can edit and advance again. Jumping to a stage
// that was never visited is a navigation error.
func (s *Session) JumpTo(id stage.ID) error {
	if s.terminal() {
		return &NavigationError{Op: "jump", Reason: "session has ended"}
	}
	if id == s.current {
		s.enter(id)
		return nil
	}

	visited := s.draft.Has(id)
	for _, h := range s.history {
		if h == id {
			visited = true
			break
		}
	}
	if !visited {
		return &NavigationError{Op: "jump", Reason: "stage " + string(id) + " not yet visited"}
	}

	// History becomes the completed stages preceding the target, so a later
	// Advance re-appends the target instead of growing history unboundedly.
	var rebuilt []stage.ID
	for _, h := range s.history {
		if h == id {
			break
		}
		rebuilt = append(rebuilt, h)
	}
	s.history = rebuilt

	s.log.Debug("jumped", "to", string(id))
	s.current = id
	s.enter(id)
	return nil
}

// Abort ends the session without persisting anything. The draft is
// discarded.
func (s *Session) Abort() {
	if s.terminal() {
		return
	}
	s.log.Info("wizard aborted", "stage", string(s.current))
	s.state = StateAborted
	s.draft = Draft{}
	s.pending = nil
}
