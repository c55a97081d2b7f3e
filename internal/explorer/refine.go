// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explorer

import (
	"slices"
	"strings"
)

// Refinement narrows the filtered view after the discriminant filter.
// Tokens describe it in URL state; a refinement with no tokens is not
// written there.
type Refinement[R any] interface {
	Match(R) bool
	Tokens() []string
}

// RefinementParser rebuilds a refinement from URL state tokens. It returns
// nil when the tokens describe no refinement. Later tokens override
// earlier ones naming the same field.
type RefinementParser[R any] func(tokens []string) Refinement[R]

type predicate[R any] func(R) bool

func (p predicate[R]) Match(r R) bool { return p(r) }

func (predicate[R]) Tokens() []string { return nil }

// SetRefinement installs r. A nil refinement removes it.
func (e *Explorer[R, D]) SetRefinement(r Refinement[R]) {
	e.refinement = r
	e.resetPage()
	e.recompute()
}

// Refine installs a bare predicate as the refinement. It is not carried in
// URL state. A nil predicate removes the refinement.
func (e *Explorer[R, D]) Refine(pred func(R) bool) {
	if pred == nil {
		e.SetRefinement(nil)
		return
	}
	e.SetRefinement(predicate[R](pred))
}

// SetRefinementParser enables refinement tokens in URL state.
// ApplyURLValues replaces the refinement with what p builds from them.
func (e *Explorer[R, D]) SetRefinementParser(p RefinementParser[R]) {
	e.parseRefinement = p
}

// CanRefine reports whether a refinement parser is set.
func (e *Explorer[R, D]) CanRefine() bool { return e.parseRefinement != nil }

// SetRefinementTokens replaces the refinement with the one parsed from
// tokens. It reports false, changing nothing, when no parser is set.
func (e *Explorer[R, D]) SetRefinementTokens(tokens []string) bool {
	if e.parseRefinement == nil {
		return false
	}
	e.SetRefinement(e.parseRefinement(cleanTokens(tokens)))
	return true
}

// RefinementTokens returns the tokens of the current refinement.
func (e *Explorer[R, D]) RefinementTokens() []string {
	if e.refinement == nil {
		return nil
	}
	return cleanTokens(e.refinement.Tokens())
}

func cleanTokens(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

func splitTokens(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	return cleanTokens(strings.Split(list, ","))
}
