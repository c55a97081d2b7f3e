// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package explorer holds the paginated, filterable view over a search
// result set. An Explorer owns the full result list, a per-discriminant
// filter selection and the pagination state, and derives the filtered and
// paged views from them. Every mutating method is total: out-of-range or
// malformed input is ignored rather than reported, so state decoded from an
// untrusted URL can never leave the view unusable.
//
// An Explorer is not safe for concurrent use; see package session for the
// owner that serializes fetch completions onto it.
package explorer

import (
	"fmt"
	"slices"
	"strings"
)

// PageSizes are the page sizes an Explorer accepts.
var PageSizes = []int{10, 25, 50, 100}

// DefaultPageSize is the page size of a new Explorer.
const DefaultPageSize = 10

// maxPageButtons is the width of the page-number window.
const maxPageButtons = 5

// Discriminant is the closed-set tag a filter selects on.
type Discriminant interface {
	~string
}

// Option configures an Explorer.
type Option func(*options)

type options struct {
	defaultPerPage int
	allLabel       string
}

// WithDefaultPageSize sets the page size used initially and restored when a
// URL state carries no perPage. Sizes outside PageSizes are ignored.
func WithDefaultPageSize(n int) Option {
	return func(o *options) {
		if validPageSize(n) {
			o.defaultPerPage = n
		}
	}
}

// WithAllLabel sets the wording ActiveFiltersLabel uses when every
// discriminant is selected (default "all").
func WithAllLabel(label string) Option {
	return func(o *options) { o.allLabel = label }
}

// Explorer is the result browser over records of type R tagged with
// discriminants of type D.
type Explorer[R any, D Discriminant] struct {
	discriminants  []D
	discriminantOf func(R) D
	opts           options

	query  string
	loaded bool
	all    []R
	counts map[D]int

	filters     map[D]bool
	allSelected bool
	filtered    []R

	refinement      Refinement[R]
	parseRefinement RefinementParser[R]

	currentPage int
	perPage     int
	totalPages  int

	// pendingPage is a page decoded from URL state before the data it
	// refers to was loaded. Load applies it when it is in range.
	pendingPage int
}

// New returns an empty Explorer over the given discriminants, all selected.
// discriminantOf extracts a record's tag; records whose tag is not among
// discriminants never pass the filter.
func New[R any, D Discriminant](discriminants []D, discriminantOf func(R) D, opts ...Option) *Explorer[R, D] {
	o := options{defaultPerPage: DefaultPageSize, allLabel: "all"}
	for _, opt := range opts {
		opt(&o)
	}
	e := &Explorer[R, D]{
		discriminants:  slices.Clone(discriminants),
		discriminantOf: discriminantOf,
		opts:           o,
		filters:        make(map[D]bool, len(discriminants)),
		counts:         make(map[D]int, len(discriminants)),
		perPage:        o.defaultPerPage,
		currentPage:    1,
		totalPages:     1,
	}
	e.selectAll(true)
	return e
}

// Discriminants returns the concrete discriminants in declaration order.
func (e *Explorer[R, D]) Discriminants() []D {
	return slices.Clone(e.discriminants)
}

// SetQuery records the query text the current or next result set belongs to.
func (e *Explorer[R, D]) SetQuery(q string) {
	e.query = strings.TrimSpace(q)
}

// Query returns the query text.
func (e *Explorer[R, D]) Query() string { return e.query }

// Load replaces the result set with records fetched for sourceQuery. The
// filter selection is kept; the page returns to 1 unless a page decoded
// from URL state is pending and fits the new data.
func (e *Explorer[R, D]) Load(records []R, sourceQuery string) {
	e.query = strings.TrimSpace(sourceQuery)
	e.all = slices.Clone(records)
	e.loaded = true

	clear(e.counts)
	for _, r := range e.all {
		d := e.discriminantOf(r)
		if _, ok := e.filters[d]; ok {
			e.counts[d]++
		}
	}

	e.currentPage = 1
	e.recompute()

	if e.pendingPage > 0 && e.pendingPage <= e.totalPages {
		e.currentPage = e.pendingPage
	}
	e.pendingPage = 0
}

// Loaded reports whether Load has been called.
func (e *Explorer[R, D]) Loaded() bool { return e.loaded }

// SetFilter includes or excludes one discriminant. Unknown discriminants
// are ignored.
func (e *Explorer[R, D]) SetFilter(d D, included bool) {
	if _, ok := e.filters[d]; !ok {
		return
	}
	e.filters[d] = included
	e.allSelected = e.everySelected()
	e.resetPage()
	e.recompute()
}

// SetAllFilters includes or excludes every discriminant.
func (e *Explorer[R, D]) SetAllFilters(included bool) {
	e.selectAll(included)
	e.resetPage()
	e.recompute()
}

// SetPageSize changes the page size. Sizes outside PageSizes are ignored.
func (e *Explorer[R, D]) SetPageSize(size int) {
	if !validPageSize(size) {
		return
	}
	e.perPage = size
	e.resetPage()
	e.recompute()
}

// GoToPage moves to page p when 1 <= p <= TotalPages.
func (e *Explorer[R, D]) GoToPage(p int) {
	if p < 1 || p > e.totalPages {
		return
	}
	e.currentPage = p
	e.pendingPage = 0
}

// NextPage moves forward one page; it does nothing on the last page.
func (e *Explorer[R, D]) NextPage() { e.GoToPage(e.currentPage + 1) }

// PrevPage moves back one page; it does nothing on the first page.
func (e *Explorer[R, D]) PrevPage() { e.GoToPage(e.currentPage - 1) }

// FirstPage moves to page 1.
func (e *Explorer[R, D]) FirstPage() { e.GoToPage(1) }

// LastPage moves to the last page.
func (e *Explorer[R, D]) LastPage() { e.GoToPage(e.totalPages) }

// CurrentPage returns the 1-indexed current page.
func (e *Explorer[R, D]) CurrentPage() int { return e.currentPage }

// TotalPages returns the page count of the filtered view, at least 1.
func (e *Explorer[R, D]) TotalPages() int { return e.totalPages }

// PerPage returns the page size.
func (e *Explorer[R, D]) PerPage() int { return e.perPage }

// Total returns the size of the unfiltered result set.
func (e *Explorer[R, D]) Total() int { return len(e.all) }

// FilteredCount returns the size of the filtered view.
func (e *Explorer[R, D]) FilteredCount() int { return len(e.filtered) }

// AllResults returns the unfiltered result set in source order.
func (e *Explorer[R, D]) AllResults() []R { return slices.Clone(e.all) }

// FilteredResults returns the filtered view in source order.
func (e *Explorer[R, D]) FilteredResults() []R { return slices.Clone(e.filtered) }

// CurrentPageResults returns the slice of the filtered view shown on the
// current page, in source order.
func (e *Explorer[R, D]) CurrentPageResults() []R {
	start := (e.currentPage - 1) * e.perPage
	if start >= len(e.filtered) {
		return []R{}
	}
	end := min(start+e.perPage, len(e.filtered))
	return slices.Clone(e.filtered[start:end])
}

// Count returns how many loaded records carry discriminant d.
func (e *Explorer[R, D]) Count(d D) int { return e.counts[d] }

// Counts returns the per-discriminant record counts of the loaded set.
func (e *Explorer[R, D]) Counts() map[D]int {
	out := make(map[D]int, len(e.discriminants))
	for _, d := range e.discriminants {
		out[d] = e.counts[d]
	}
	return out
}

// Selected reports whether discriminant d is included.
func (e *Explorer[R, D]) Selected(d D) bool { return e.filters[d] }

// AllSelected reports the aggregate flag: true iff every discriminant is included.
func (e *Explorer[R, D]) AllSelected() bool { return e.allSelected }

// SelectedDiscriminants returns the included discriminants in declaration order.
func (e *Explorer[R, D]) SelectedDiscriminants() []D {
	var out []D
	for _, d := range e.discriminants {
		if e.filters[d] {
			out = append(out, d)
		}
	}
	return out
}

// Status describes the filtered view for display.
func (e *Explorer[R, D]) Status() string {
	switch {
	case !e.loaded:
		return ""
	case len(e.SelectedDiscriminants()) == 0:
		return "Please select at least one filter."
	case len(e.all) == 0:
		return "No results found."
	case len(e.filtered) == 0:
		return "No results match the selected filters."
	default:
		return fmt.Sprintf("Showing %d of %d results", len(e.CurrentPageResults()), len(e.filtered))
	}
}

// Headline is "<n> results" when the filtered view is non-empty, otherwise
// the status message.
func (e *Explorer[R, D]) Headline() string {
	if len(e.filtered) == 0 {
		if s := e.Status(); s != "" {
			return s
		}
		return "No results"
	}
	return fmt.Sprintf("%d results", len(e.filtered))
}

// RangeLabel is "Showing a-b of n" for the current page.
func (e *Explorer[R, D]) RangeLabel() string {
	if len(e.filtered) == 0 {
		return "Showing 0-0 of 0"
	}
	start := (e.currentPage-1)*e.perPage + 1
	end := min(len(e.filtered), start+e.perPage-1)
	return fmt.Sprintf("Showing %d-%d of %d", start, end, len(e.filtered))
}

// ActiveFiltersLabel summarizes the filter selection.
func (e *Explorer[R, D]) ActiveFiltersLabel() string {
	selected := e.SelectedDiscriminants()
	switch {
	case len(selected) == 0:
		return "Filters: none selected"
	case e.allSelected:
		return "Filters: " + e.opts.allLabel
	}
	names := make([]string, len(selected))
	for i, d := range selected {
		names[i] = string(d)
	}
	return "Filters: " + strings.Join(names, ", ")
}

// Snapshot is the externally observable projection of an Explorer.
type Snapshot[R any, D Discriminant] struct {
	Query              string
	FilteredResults    []R
	CurrentPageResults []R
	CurrentPage        int
	TotalPages         int
	PerPage            int
	Total              int
	Counts             map[D]int
	Selected           []D
	AllSelected        bool
	Refinements        []string
	StatusMessage      string

	// Display helpers derived from the same state.
	Headline     string
	RangeLabel   string
	FiltersLabel string
	Pages        []PageItem
	HasPrev      bool
	HasNext      bool
	URLState     string
}

// Snapshot captures the current view.
func (e *Explorer[R, D]) Snapshot() Snapshot[R, D] {
	return Snapshot[R, D]{
		Query:              e.query,
		FilteredResults:    e.FilteredResults(),
		CurrentPageResults: e.CurrentPageResults(),
		CurrentPage:        e.currentPage,
		TotalPages:         e.totalPages,
		PerPage:            e.perPage,
		Total:              len(e.all),
		Counts:             e.Counts(),
		Selected:           e.SelectedDiscriminants(),
		AllSelected:        e.allSelected,
		Refinements:        e.RefinementTokens(),
		StatusMessage:      e.Status(),
		Headline:           e.Headline(),
		RangeLabel:         e.RangeLabel(),
		FiltersLabel:       e.ActiveFiltersLabel(),
		Pages:              e.PageControls(),
		HasPrev:            e.HasPrev(),
		HasNext:            e.HasNext(),
		URLState:           e.EncodeURLState(),
	}
}

// recompute derives the filtered view and page count in one pass over the
// result set. Filtering never reorders.
func (e *Explorer[R, D]) recompute() {
	filtered := make([]R, 0, len(e.all))
	for _, r := range e.all {
		if !e.filters[e.discriminantOf(r)] {
			continue
		}
		if e.refinement != nil && !e.refinement.Match(r) {
			continue
		}
		filtered = append(filtered, r)
	}
	e.filtered = filtered

	e.totalPages = max(1, (len(filtered)+e.perPage-1)/e.perPage)
	if e.currentPage > e.totalPages {
		e.currentPage = 1
	}
}

func (e *Explorer[R, D]) resetPage() {
	e.currentPage = 1
	e.pendingPage = 0
}

func (e *Explorer[R, D]) selectAll(included bool) {
	for _, d := range e.discriminants {
		e.filters[d] = included
	}
	e.allSelected = e.everySelected()
}

func (e *Explorer[R, D]) everySelected() bool {
	if len(e.discriminants) == 0 {
		return false
	}
	for _, d := range e.discriminants {
		if !e.filters[d] {
			return false
		}
	}
	return true
}

func validPageSize(n int) bool {
	return slices.Contains(PageSizes, n)
}
