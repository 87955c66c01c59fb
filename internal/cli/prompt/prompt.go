// Package prompt provides interactive CLI prompts for wizard field input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/forge-cli/forge/internal/field"
)

// Sentinel errors for prompting.
var (
	// ErrCancelled is returned when input is EOF (e.g., Ctrl+D).
	ErrCancelled = errors.New("prompt cancelled")
)

// Prompter reads field input line by line. One Prompter wraps one input
// stream; do not share the underlying reader with other consumers.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter using stdin and stdout.
func New() *Prompter {
	return NewWithIO(os.Stdin, os.Stdout)
}

// NewWithIO creates a Prompter with custom reader and writer for testing.
func NewWithIO(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(r),
		out: w,
	}
}

// Ask prompts for one field and returns the raw input, trimmed. An empty
// line falls back to the given default when one is present; the default is
// returned in its canonical display form, so it validates like typed input.
//
// Returns ErrCancelled if input is EOF.
func (p *Prompter) Ask(spec *field.Spec, def field.Value, hasDef bool) (string, error) {
	if spec.Kind == field.KindEnum {
		p.printOptions(spec, def, hasDef)
	} else {
		p.printLabel(spec, def, hasDef)
	}

	input, err := p.readLine()
	if err != nil {
		return "", err
	}

	if input == "" && hasDef {
		return def.String(), nil
	}
	return input, nil
}

// Confirm asks a yes/no question. An empty line picks the default.
func (p *Prompter) Confirm(question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	fmt.Fprintf(p.out, "%s %s: ", question, hint)

	input, err := p.readLine()
	if err != nil {
		return false, err
	}
	if input == "" {
		return def, nil
	}

	switch strings.ToLower(input) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return def, nil
	}
}

// Choose prompts for one entry out of labels and returns its index.
// Used for menus that are not wizard fields, such as picking a stage to
// revisit. An empty line or out-of-range number returns -1 with no error.
func (p *Prompter) Choose(title string, labels []string) (int, error) {
	fmt.Fprintln(p.out, title)
	for i, l := range labels {
		fmt.Fprintf(p.out, "  [%d] %s\n", i+1, l)
	}
	fmt.Fprint(p.out, "Select: ")

	input, err := p.readLine()
	if err != nil {
		return -1, err
	}

	var n int
	if _, err := fmt.Sscanf(input, "%d", &n); err != nil || n < 1 || n > len(labels) {
		return -1, nil
	}
	return n - 1, nil
}

func (p *Prompter) printOptions(spec *field.Spec, def field.Value, hasDef bool) {
	fmt.Fprintf(p.out, "%s:\n", spec.Label)
	defIdx := 0
	for i, o := range spec.Options {
		marker := " "
		if hasDef && o.Value == def.String() {
			marker = "*"
			defIdx = i + 1
		}
		if o.Desc != "" {
			fmt.Fprintf(p.out, " %s[%d] %s - %s\n", marker, i+1, o.Value, o.Desc)
		} else {
			fmt.Fprintf(p.out, " %s[%d] %s\n", marker, i+1, o.Value)
		}
	}
	if defIdx > 0 {
		fmt.Fprintf(p.out, "Select [%d]: ", defIdx)
	} else {
		fmt.Fprint(p.out, "Select: ")
	}
}

func (p *Prompter) printLabel(spec *field.Spec, def field.Value, hasDef bool) {
	if hasDef && !def.IsZero() && def.String() != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", spec.Label, def.String())
	} else {
		fmt.Fprintf(p.out, "%s: ", spec.Label)
	}
}

func (p *Prompter) readLine() (string, error) {
	input, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input == "" {
			return "", ErrCancelled
		}
		if !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "reading input")
		}
	}
	return strings.TrimSpace(input), nil
}
