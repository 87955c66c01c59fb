// Package cli drives the setup wizard over a line-based terminal, the
// fallback for sessions where the full-screen interface is unavailable or
// unwanted.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/forge-cli/forge/internal/cli/prompt"
	"github.com/forge-cli/forge/internal/config"
	forgeerrors "github.com/forge-cli/forge/internal/errors"
	"github.com/forge-cli/forge/internal/field"
	"github.com/forge-cli/forge/internal/logging"
	"github.com/forge-cli/forge/internal/redact"
	"github.com/forge-cli/forge/internal/stage"
	"github.com/forge-cli/forge/internal/wizard"
)

// maxAttempts bounds re-prompting for a single field before giving up.
const maxAttempts = 3

// Runner walks a wizard session stage by stage: prompt each field, advance,
// and at the review stage summarize and commit.
type Runner struct {
	session *wizard.Session
	prompt  *prompt.Prompter
	out     io.Writer
	log     *slog.Logger

	acceptDefaults bool
	fuzzy          bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithOutput sets the runner's output writer. Defaults to stdout.
func WithOutput(w io.Writer) RunnerOption {
	return func(r *Runner) { r.out = w }
}

// WithPrompter sets the input prompter. Defaults to stdin/stdout.
func WithPrompter(p *prompt.Prompter) RunnerOption {
	return func(r *Runner) { r.prompt = p }
}

// WithAcceptDefaults skips prompts for fields that already carry a value,
// derived or previously entered. Fields with no value still prompt.
func WithAcceptDefaults(accept bool) RunnerOption {
	return func(r *Runner) { r.acceptDefaults = accept }
}

// WithFuzzy selects enum values through a fuzzy finder instead of a
// numbered menu. Requires a real terminal.
func WithFuzzy(fuzzy bool) RunnerOption {
	return func(r *Runner) { r.fuzzy = fuzzy }
}

// WithLogger sets the runner's logger.
func WithLogger(log *slog.Logger) RunnerOption {
	return func(r *Runner) { r.log = log }
}

// NewRunner creates a Runner around a fresh session.
func NewRunner(session *wizard.Session, opts ...RunnerOption) *Runner {
	r := &Runner{
		session: session,
		out:     os.Stdout,
		log:     logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.prompt == nil {
		r.prompt = prompt.New()
	}
	return r
}

// Run walks the wizard to completion and returns the persisted
// configuration. A cancelled prompt or an explicit quit aborts the session
// and returns ErrAborted.
func (r *Runner) Run(ctx context.Context) (*config.File, error) {
	for {
		if err := ctx.Err(); err != nil {
			r.session.Abort()
			return nil, err
		}

		switch r.session.State() {
		case wizard.StateCommitted:
			return r.session.Final(), nil
		case wizard.StateAborted:
			return nil, forgeerrors.ErrAborted
		}

		var err error
		if r.session.Current() == stage.Review {
			err = r.review(ctx)
		} else {
			err = r.runStage(ctx)
		}
		if err != nil {
			if errors.Is(err, prompt.ErrCancelled) || errors.Is(err, forgeerrors.ErrAborted) {
				r.session.Abort()
				return nil, forgeerrors.ErrAborted
			}
			return nil, err
		}
	}
}

// runStage prompts every field of the current stage, then advances. A
// failed stage-level check re-prompts the whole stage.
func (r *Runner) runStage(ctx context.Context) error {
	spec := r.session.CurrentSpec()
	fmt.Fprintf(r.out, "\n%s\n", color.New(color.Bold).Sprint(spec.Title))

	pending := r.session.Pending()
	for i := range spec.Fields {
		f := &spec.Fields[i]
		def, hasDef := pending.Get(f.Name)

		if r.acceptDefaults && hasDef {
			r.log.Debug("accepting default", "stage", string(spec.ID), "field", f.Name)
			continue
		}

		if err := r.promptField(f, def, hasDef); err != nil {
			return err
		}
	}

	err := r.session.Advance(ctx)
	var vErr *stage.ValidationError
	if errors.As(err, &vErr) {
		for _, p := range vErr.Problems {
			fmt.Fprintln(r.out, color.RedString("✗ %s", p))
		}
		return nil // loop re-enters the same stage
	}
	return err
}

// promptField asks for one field until the input validates, up to
// maxAttempts.
func (r *Runner) promptField(f *field.Spec, def field.Value, hasDef bool) error {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		raw, err := r.readField(f, def, hasDef)
		if err != nil {
			return err
		}

		err = r.session.SubmitField(f.Name, raw)
		if err == nil {
			return nil
		}

		var invalid *field.InvalidInputError
		if !errors.As(err, &invalid) {
			return err
		}
		fmt.Fprintln(r.out, color.RedString("✗ %s", invalid.Error()))
	}
	return forgeerrors.NewUserError(
		errors.Newf("no valid input for %s after %d attempts", f.Name, maxAttempts),
		"Re-run: forge setup",
	)
}

func (r *Runner) readField(f *field.Spec, def field.Value, hasDef bool) (string, error) {
	if r.fuzzy && f.Kind == field.KindEnum {
		return prompt.FuzzyPick(f)
	}
	return r.prompt.Ask(f, def, hasDef)
}

// review prints the draft summary and asks whether to save, edit a stage,
// or quit.
func (r *Runner) review(ctx context.Context) error {
	r.printSummary()

	if r.acceptDefaults {
		return r.commit(ctx)
	}

	save, err := r.prompt.Confirm("Save this configuration?", true)
	if err != nil {
		return err
	}
	if save {
		return r.commit(ctx)
	}

	labels := make([]string, 0, len(stage.Order)-1)
	targets := make([]stage.ID, 0, len(stage.Order)-1)
	for _, id := range stage.Order {
		if id == stage.Review {
			continue
		}
		labels = append(labels, string(id))
		targets = append(targets, id)
	}

	idx, err := r.prompt.Choose("Edit which stage? (empty to quit)", labels)
	if err != nil {
		return err
	}
	if idx < 0 {
		return forgeerrors.ErrAborted
	}
	return r.session.JumpTo(targets[idx])
}

// commit runs the commit pipeline, translating failures into guidance.
func (r *Runner) commit(ctx context.Context) error {
	err := r.session.Commit(ctx)
	if err == nil {
		fmt.Fprintln(r.out, color.GreenString("✓ Configuration saved"))
		return nil
	}

	var cErr *wizard.CommitError
	if errors.As(err, &cErr) && cErr.Kind == wizard.CommitInconsistent {
		for _, p := range cErr.Problems {
			fmt.Fprintln(r.out, color.RedString("✗ %s", p.Error()))
		}
		fmt.Fprintln(r.out, "Fix the conflicting answers and save again.")
		return nil // back to the review loop
	}
	return err
}

func (r *Runner) printSummary() {
	fmt.Fprintf(r.out, "\n%s\n", color.New(color.Bold).Sprint("Review your configuration"))
	for _, id := range stage.Order {
		values, ok := r.session.Committed(id)
		if !ok {
			continue
		}
		spec, err := r.session.Spec(id)
		if err != nil {
			continue
		}
		fmt.Fprintf(r.out, "%s\n", color.CyanString(spec.Title))
		for i := range spec.Fields {
			f := &spec.Fields[i]
			v, ok := values.Get(f.Name)
			if !ok {
				continue
			}
			display := v.String()
			// Enum answers like credential_store trip the key patterns but
			// are not secrets; only free-text input gets masked.
			if f.Kind == field.KindString && display != "" &&
				(redact.ShouldMask(f.Name) || redact.ContainsTokenPrefix(display)) {
				display = redact.MaskValue(display)
			}
			fmt.Fprintf(r.out, "  %-24s %s\n", f.Label, display)
		}
	}
}
