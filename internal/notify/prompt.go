package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hammamikhairi/meditime/internal/domain"
)

var _ domain.Prompter = (*LinePrompter)(nil)

// LinePrompter asks yes/no questions on a line-oriented terminal.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter reads answers from in and writes questions to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Confirm prints question and reads one line. Only "y" or "yes" is a yes.
// Cancelling ctx abandons the read.
func (p *LinePrompter) Confirm(ctx context.Context, question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N] ", question)

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- answer{line, err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-ch:
		if a.err != nil && a.line == "" {
			return false, a.err
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// PromptFunc adapts a function to domain.Prompter.
type PromptFunc func(ctx context.Context, question string) (bool, error)

// Confirm calls f.
func (f PromptFunc) Confirm(ctx context.Context, question string) (bool, error) {
	return f(ctx, question)
}
