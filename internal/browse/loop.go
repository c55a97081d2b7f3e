// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browse

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"

	"github.com/pdiddy/company-dns/internal/explorer"
	"github.com/pdiddy/company-dns/internal/session"
)

// Prompter reads one line of input.
type Prompter interface {
	Prompt(label string) (string, error)
}

// PromptUI reads lines from the terminal.
type PromptUI struct{}

// Prompt shows label and returns the entered line. Ctrl-C and Ctrl-D end
// the loop.
func (PromptUI) Prompt(label string) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		AllowEdit: true,
	}
	return p.Run()
}

// Loop drives one session from typed commands and redraws after each
// command that changed the view.
type Loop[R any, D explorer.Discriminant] struct {
	Session  *session.Session[R, D]
	Prompter Prompter
	Render   func(explorer.Snapshot[R, D], io.Writer)
	Out      io.Writer
}

// Run reads commands until quit, end of input or cancellation.
func (l *Loop[R, D]) Run(ctx context.Context) error {
	l.Render(l.Session.Snapshot(), l.Out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := l.Prompter.Prompt("browse (h for help)")
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}

		cmd, err := Parse(line)
		if err != nil {
			fmt.Fprintln(l.Out, err)
			continue
		}

		switch cmd.Kind {
		case KindNone:
			continue
		case KindQuit:
			return nil
		case KindHelp:
			fmt.Fprintln(l.Out, Help)
			continue
		case KindState:
			if cmd.Text == "" {
				fmt.Fprintf(l.Out, "?%s\n", l.Session.Snapshot().URLState)
				continue
			}
		case KindSearch:
			err := l.Session.Search(ctx, cmd.Text)
			switch {
			case errors.Is(err, session.ErrStale):
				continue
			case err != nil:
				fmt.Fprintln(l.Out, err)
				continue
			}
			l.Render(l.Session.Snapshot(), l.Out)
			continue
		}

		var (
			changed  bool
			applyErr error
		)
		l.Session.Do(func(e *explorer.Explorer[R, D]) {
			changed, applyErr = Apply(e, cmd)
		})
		if applyErr != nil {
			fmt.Fprintln(l.Out, applyErr)
			continue
		}
		if changed {
			l.Render(l.Session.Snapshot(), l.Out)
		}
	}
}
