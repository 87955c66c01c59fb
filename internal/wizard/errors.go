package wizard

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/forge-cli/forge/internal/stage"
)

// ErrUnknownField indicates a field name outside the current stage's spec.
// This is a programming defect in the caller, not user input.
var ErrUnknownField = errors.New("unknown field")

// NavigationError reports a navigation call that is not valid in the current
// state, such as Back with empty history. Reported, never retried.
type NavigationError struct {
	// Op is the operation that failed: "back", "jump", "submit", "advance".
	Op string
	// Reason explains why the operation is not allowed.
	Reason string
}

// Error implements the error interface.
func (e *NavigationError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Op, e.Reason)
}

// CommitKind classifies commit pipeline failures.
type CommitKind string

const (
	// CommitIncomplete means the draft is missing one or more stages.
	CommitIncomplete CommitKind = "incomplete draft"

	// CommitInconsistent means cross-stage consistency checks failed.
	// Recoverable by jumping back to the offending stage.
	CommitInconsistent CommitKind = "inconsistent configuration"

	// CommitPersist means the persistence collaborator failed.
	// The draft is preserved; retrying Commit needs no re-entry.
	CommitPersist CommitKind = "persist failed"
)

// CommitError reports a failed commit. The draft is never discarded on
// commit failure.
type CommitError struct {
	Kind CommitKind

	// Missing lists absent stages when Kind is CommitIncomplete.
	Missing []stage.ID

	// Problems holds the consistency errors when Kind is CommitInconsistent.
	Problems []error

	cause error
}

// Error implements the error interface.
func (e *CommitError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if len(e.Missing) > 0 {
		ids := make([]string, len(e.Missing))
		for i, id := range e.Missing {
			ids[i] = string(id)
		}
		fmt.Fprintf(&b, ": missing stages %s", strings.Join(ids, ", "))
	}
	for _, p := range e.Problems {
		b.WriteString(": ")
		b.WriteString(p.Error())
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *CommitError) Unwrap() error {
	return e.cause
}
