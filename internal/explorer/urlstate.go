// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explorer

import (
	"net/url"
	"strconv"
	"strings"
)

// URL query-string keys.
const (
	ParamQuery   = "q"
	ParamPage    = "page"
	ParamPerPage = "perPage"
	ParamFilters = "filters"
	ParamRefine  = "refine"
)

// URLValues returns the explorer state as query values. Defaults are
// omitted: page 1, the default page size, and the full filter selection.
// An empty selection is kept as "filters=" so it survives a round trip.
// Refinement tokens are comma-joined under "refine".
func (e *Explorer[R, D]) URLValues() url.Values {
	v := url.Values{}
	if e.query != "" {
		v.Set(ParamQuery, e.query)
	}
	page := e.currentPage
	if e.pendingPage > 0 {
		page = e.pendingPage
	}
	if page > 1 {
		v.Set(ParamPage, strconv.Itoa(page))
	}
	if e.perPage != e.opts.defaultPerPage {
		v.Set(ParamPerPage, strconv.Itoa(e.perPage))
	}
	if !e.allSelected {
		selected := e.SelectedDiscriminants()
		names := make([]string, len(selected))
		for i, d := range selected {
			names[i] = string(d)
		}
		v.Set(ParamFilters, strings.Join(names, ","))
	}
	if tokens := e.RefinementTokens(); len(tokens) > 0 {
		v.Set(ParamRefine, strings.Join(tokens, ","))
	}
	return v
}

// EncodeURLState serializes the state as a query string without a leading "?".
func (e *Explorer[R, D]) EncodeURLState() string {
	return e.URLValues().Encode()
}

// DecodeURLState restores state from a query string, with or without a
// leading "?". Malformed or unknown parts are ignored; absent keys take
// their defaults.
//
// With a refinement parser set, the refinement is rebuilt from the
// "refine" tokens plus any "filters" entries that name no discriminant,
// such as "division:E"; "refine" wins where both name a field. Without a
// parser the refinement is left as it is.
func (e *Explorer[R, D]) DecodeURLState(s string) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "?")
	// ParseQuery keeps every pair it could parse alongside the first error.
	v, _ := url.ParseQuery(s)
	e.ApplyURLValues(v)
}

// ApplyURLValues restores state from parsed query values. See DecodeURLState.
func (e *Explorer[R, D]) ApplyURLValues(v url.Values) {
	e.query = ""
	e.perPage = e.opts.defaultPerPage
	e.selectAll(true)
	e.resetPage()

	if q := strings.TrimSpace(v.Get(ParamQuery)); q != "" {
		e.query = q
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.Get(ParamPerPage))); err == nil && validPageSize(n) {
		e.perPage = n
	}
	var extra []string
	if raw, ok := v[ParamFilters]; ok && len(raw) > 0 {
		extra = e.applyFilterList(raw[0])
	}
	if e.parseRefinement != nil {
		tokens := append(extra, splitTokens(v.Get(ParamRefine))...)
		e.refinement = e.parseRefinement(cleanTokens(tokens))
	}
	e.recompute()

	p, err := strconv.Atoi(strings.TrimSpace(v.Get(ParamPage)))
	if err != nil || p <= 1 {
		return
	}
	switch {
	case p <= e.totalPages:
		e.currentPage = p
	case !e.loaded:
		e.pendingPage = p
	}
}

// applyFilterList selects exactly the discriminants named in a
// comma-joined list and returns the entries that named none. An empty list
// selects nothing; a list naming no known discriminant leaves the
// selection at "all".
func (e *Explorer[R, D]) applyFilterList(list string) []string {
	list = strings.TrimSpace(list)
	if list == "" {
		e.selectAll(false)
		return nil
	}
	var matched []D
	var unknown []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if d, ok := e.lookup(part); ok {
			matched = append(matched, d)
		} else if part != "" {
			unknown = append(unknown, part)
		}
	}
	if len(matched) == 0 {
		return unknown
	}
	e.selectAll(false)
	for _, d := range matched {
		e.filters[d] = true
	}
	e.allSelected = e.everySelected()
	return unknown
}

func (e *Explorer[R, D]) lookup(name string) (D, bool) {
	for _, d := range e.discriminants {
		if strings.EqualFold(string(d), name) {
			return d, true
		}
	}
	var zero D
	return zero, false
}
