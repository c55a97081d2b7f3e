// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package browse turns typed commands into explorer operations. Each
// command applies exactly one explorer method, so the view after a command
// is always a fresh snapshot of a consistent state.
package browse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/company-dns/internal/explorer"
)

// Kind identifies a browse command.
type Kind int

const (
	KindNone Kind = iota
	KindKey
	KindNext
	KindPrev
	KindFirst
	KindLast
	KindPage
	KindPerPage
	KindFilter
	KindAll
	KindRefine
	KindState
	KindSearch
	KindHelp
	KindQuit
)

// Command is one parsed input line.
type Command struct {
	Kind Kind
	Key  explorer.Key
	N    int
	Name string
	On   bool
	Text string
}

var (
	// ErrUnknownCommand is returned by Parse for input it cannot read.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUnknownFilter is returned by Apply when a filter name matches no
	// discriminant.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrNoRefinement is returned by Apply for a refinement command on an
	// explorer that takes none.
	ErrNoRefinement = errors.New("no refinements for these results")
)

// refineAliases maps shorthand verbs to refinement token names.
var refineAliases = map[string]string{
	"division": "division",
	"fye":      "fye",
	"recent":   "recent10Q",
}

var keyNames = map[string]explorer.Key{
	"left":       explorer.KeyArrowLeft,
	"arrowleft":  explorer.KeyArrowLeft,
	"right":      explorer.KeyArrowRight,
	"arrowright": explorer.KeyArrowRight,
	"home":       explorer.KeyHome,
	"end":        explorer.KeyEnd,
}

// Help lists the accepted commands.
const Help = `n, next          next page
p, prev          previous page
first, last      first or last page
left, right      arrow keys (ignored when nothing is shown)
home, end        Home and End keys
page N           go to page N
per N            page size (10, 25, 50, 100)
filter NAME on   include a filter (off to exclude)
all on|off       select or clear every filter
division D|off   only filings in SIC division D
fye MM/DD|off    only companies with this fiscal year end
recent on|off    only 10-Q filings from the last 90 days
refine off       clear every refinement
state [QUERY]    print the bookmark state, or restore one
search TEXT      run a new search
q, quit          leave`

// Parse reads one input line. A blank line parses to KindNone.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Kind: KindNone}, nil
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	if k, ok := keyNames[verb]; ok && len(args) == 0 {
		return Command{Kind: KindKey, Key: k}, nil
	}

	switch verb {
	case "n", "next":
		return Command{Kind: KindNext}, nil
	case "p", "prev", "previous":
		return Command{Kind: KindPrev}, nil
	case "first":
		return Command{Kind: KindFirst}, nil
	case "last":
		return Command{Kind: KindLast}, nil
	case "page", "per":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: %s takes one number", ErrUnknownCommand, verb)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("%w: %s %q is not a number", ErrUnknownCommand, verb, args[0])
		}
		if verb == "page" {
			return Command{Kind: KindPage, N: n}, nil
		}
		return Command{Kind: KindPerPage, N: n}, nil
	case "filter":
		if len(args) < 2 {
			return Command{}, fmt.Errorf("%w: filter NAME on|off", ErrUnknownCommand)
		}
		on, err := parseSwitch(args[len(args)-1])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindFilter, Name: strings.Join(args[:len(args)-1], " "), On: on}, nil
	case "all":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: all on|off", ErrUnknownCommand)
		}
		on, err := parseSwitch(args[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindAll, On: on}, nil
	case "division", "fye":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: %s VALUE|off", ErrUnknownCommand, verb)
		}
		if strings.EqualFold(args[0], "off") {
			return Command{Kind: KindRefine, Name: refineAliases[verb]}, nil
		}
		return Command{Kind: KindRefine, Name: refineAliases[verb], Text: args[0], On: true}, nil
	case "recent":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: recent on|off", ErrUnknownCommand)
		}
		on, err := parseSwitch(args[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindRefine, Name: refineAliases[verb], On: on}, nil
	case "refine":
		switch {
		case len(args) == 1 && strings.EqualFold(args[0], "off"):
			return Command{Kind: KindRefine}, nil
		case len(args) == 2 && strings.EqualFold(args[1], "off"):
			return Command{Kind: KindRefine, Name: args[0]}, nil
		case len(args) == 2:
			return Command{Kind: KindRefine, Name: args[0], Text: args[1], On: true}, nil
		}
		return Command{}, fmt.Errorf("%w: refine NAME VALUE|off, or refine off", ErrUnknownCommand)
	case "state":
		return Command{Kind: KindState, Text: rest}, nil
	case "search", "s":
		if rest == "" {
			return Command{}, fmt.Errorf("%w: search TEXT", ErrUnknownCommand)
		}
		return Command{Kind: KindSearch, Text: rest}, nil
	case "help", "h", "?":
		return Command{Kind: KindHelp}, nil
	case "q", "quit", "exit":
		return Command{Kind: KindQuit}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected on or off, got %q", ErrUnknownCommand, s)
}

// Apply performs cmd on e. Commands that do not touch the explorer
// (help, search, quit, printing the state) are no-ops here and report
// false; the caller handles them.
func Apply[R any, D explorer.Discriminant](e *explorer.Explorer[R, D], cmd Command) (bool, error) {
	switch cmd.Kind {
	case KindKey:
		return e.HandleKey(cmd.Key, explorer.FocusNone), nil
	case KindNext:
		e.NextPage()
	case KindPrev:
		e.PrevPage()
	case KindFirst:
		e.FirstPage()
	case KindLast:
		e.LastPage()
	case KindPage:
		e.GoToPage(cmd.N)
	case KindPerPage:
		e.SetPageSize(cmd.N)
	case KindFilter:
		d, ok := findDiscriminant(e.Discriminants(), cmd.Name)
		if !ok {
			return false, fmt.Errorf("%w %q", ErrUnknownFilter, cmd.Name)
		}
		e.SetFilter(d, cmd.On)
	case KindAll:
		e.SetAllFilters(cmd.On)
	case KindRefine:
		if !e.CanRefine() {
			return false, ErrNoRefinement
		}
		e.SetRefinementTokens(refineTokens(e.RefinementTokens(), cmd))
	case KindState:
		if cmd.Text == "" {
			return false, nil
		}
		// The loaded results still belong to the current query.
		q := e.Query()
		e.DecodeURLState(cmd.Text)
		e.SetQuery(q)
	default:
		return false, nil
	}
	return true, nil
}

// refineTokens replaces the tokens named by cmd. A command without a name
// clears them all.
func refineTokens(tokens []string, cmd Command) []string {
	if cmd.Name == "" {
		return nil
	}
	var out []string
	for _, t := range tokens {
		name, _, _ := strings.Cut(t, ":")
		if !strings.EqualFold(name, cmd.Name) {
			out = append(out, t)
		}
	}
	switch {
	case !cmd.On:
	case cmd.Text == "":
		out = append(out, cmd.Name)
	default:
		out = append(out, cmd.Name+":"+cmd.Text)
	}
	return out
}

func findDiscriminant[D explorer.Discriminant](all []D, name string) (D, bool) {
	norm := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(name))
	for _, d := range all {
		if strings.EqualFold(string(d), name) || strings.EqualFold(string(d), norm) {
			return d, true
		}
	}
	var zero D
	return zero, false
}
