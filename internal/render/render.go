// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render formats explorer snapshots, endpoint documentation and
// exports. Every formatter is a pure function of its input.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/company-dns/internal/explorer"
	"github.com/pdiddy/company-dns/pkg/types"
)

// IndustrySnapshot is the snapshot of the industry-code explorer.
type IndustrySnapshot = explorer.Snapshot[types.IndustryCode, types.SourceType]

// FilingSnapshot is the snapshot of the EDGAR filing explorer.
type FilingSnapshot = explorer.Snapshot[types.Filing, types.FormFamily]

// Pager renders page controls as "‹ 1 … 4 [5] 6 … 10 ›". The arrows are
// shown only when the move is possible.
func Pager(pages []explorer.PageItem, hasPrev, hasNext bool) string {
	parts := make([]string, 0, len(pages)+2)
	if hasPrev {
		parts = append(parts, "‹")
	}
	for _, p := range pages {
		switch {
		case p.Ellipsis:
			parts = append(parts, "…")
		case p.Current:
			parts = append(parts, fmt.Sprintf("[%d]", p.Page))
		default:
			parts = append(parts, fmt.Sprintf("%d", p.Page))
		}
	}
	if hasNext {
		parts = append(parts, "›")
	}
	return strings.Join(parts, " ")
}

// filterLine lists each discriminant with its count and a mark when selected.
func filterLine[D explorer.Discriminant](all []D, counts map[D]int, selected []D) string {
	on := make(map[D]bool, len(selected))
	for _, d := range selected {
		on[d] = true
	}
	parts := make([]string, 0, len(all))
	for _, d := range all {
		mark := " "
		if on[d] {
			mark = "x"
		}
		parts = append(parts, fmt.Sprintf("[%s] %s (%d)", mark, d, counts[d]))
	}
	return strings.Join(parts, "  ")
}

// footer writes the range label, the pager and the state string shared by
// every snapshot view.
func footer(w io.Writer, rangeLabel string, pages []explorer.PageItem, hasPrev, hasNext bool, state string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s    %s\n", rangeLabel, Pager(pages, hasPrev, hasNext))
	if state != "" {
		fmt.Fprintf(w, "state: ?%s\n", state)
	}
}

// FormatIndustryCodes writes the current page of industry codes as a table.
func FormatIndustryCodes(s IndustrySnapshot, w io.Writer) {
	fmt.Fprintf(w, "%s  %s\n", s.Headline, s.FiltersLabel)
	fmt.Fprintln(w, filterLine(types.SourceTypes, s.Counts, s.Selected))
	fmt.Fprintln(w)

	if len(s.CurrentPageResults) == 0 {
		if s.StatusMessage != "" {
			fmt.Fprintln(w, s.StatusMessage)
		} else {
			fmt.Fprintln(w, "No results found.")
		}
		return
	}

	fmt.Fprintf(w, "%-4s  %-9s  %-10s  %s\n", "#", "Source", "Code", "Description")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	offset := (s.CurrentPage - 1) * s.PerPage
	for i, c := range s.CurrentPageResults {
		fmt.Fprintf(w, "%-4d  %-9s  %-10s  %s\n", offset+i+1, c.SourceType, c.Code, truncate(c.Description, 70))
		if c.AdditionalData.HasValues() {
			attrs := make([]string, 0, len(c.AdditionalData))
			for _, k := range c.AdditionalData.Keys() {
				attrs = append(attrs, fmt.Sprintf("%s=%s", k, c.AdditionalData[k]))
			}
			fmt.Fprintf(w, "%-4s  %-9s  %-10s  %s\n", "", "", "", truncate(strings.Join(attrs, " "), 70))
		}
	}

	footer(w, s.RangeLabel, s.Pages, s.HasPrev, s.HasNext, s.URLState)
}

// FormatFilings writes the current page of EDGAR filings as a table.
func FormatFilings(s FilingSnapshot, w io.Writer) {
	fmt.Fprintf(w, "%s  %s\n", s.Headline, s.FiltersLabel)
	fmt.Fprintln(w, filterLine(types.FormFamilies, s.Counts, s.Selected))
	if len(s.Refinements) > 0 {
		fmt.Fprintf(w, "refined by: %s\n", strings.Join(s.Refinements, ", "))
	}
	fmt.Fprintln(w)

	if len(s.CurrentPageResults) == 0 {
		if s.StatusMessage != "" {
			fmt.Fprintln(w, s.StatusMessage)
		} else {
			fmt.Fprintln(w, "No filings match the criteria.")
		}
		return
	}

	fmt.Fprintf(w, "%-10s  %-8s  %-32s  %-10s  %-4s  %-5s  %s\n",
		"Date", "Form", "Company", "CIK", "SIC", "FYE", "Latest 10-K / 10-Q")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, f := range s.CurrentPageResults {
		fmt.Fprintf(w, "%-10s  %-8s  %-32s  %-10s  %-4s  %-5s  %s\n",
			f.FilingDate, truncate(f.FilingType, 8), truncate(f.CompanyName, 32), f.CIK,
			f.SIC.Code, types.FiscalYearEndLabel(f.FiscalYearEnd), latestLabel(f))
	}

	footer(w, s.RangeLabel, s.Pages, s.HasPrev, s.HasNext, s.URLState)
}

func latestLabel(f types.Filing) string {
	k, q := "-", "-"
	if f.Latest10K != nil {
		k = f.Latest10K.Date
	}
	if f.Latest10Q != nil {
		q = f.Latest10Q.Date
		if f.Latest10Q.Recent {
			q += " (recent)"
		}
	}
	return k + " / " + q
}

// JSONView is the machine-readable form of a snapshot.
type JSONView[R any] struct {
	Query      string         `json:"query"`
	Status     string         `json:"status"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	PerPage    int            `json:"per_page"`
	Total      int            `json:"total"`
	Filtered   int            `json:"filtered"`
	Counts     map[string]int `json:"counts"`
	Filters    []string       `json:"filters"`
	Refine     []string       `json:"refine,omitempty"`
	State      string         `json:"state"`
	Results    []R            `json:"results"`
}

// NewJSONView projects a snapshot to its JSON form.
func NewJSONView[R any, D explorer.Discriminant](s explorer.Snapshot[R, D]) JSONView[R] {
	counts := make(map[string]int, len(s.Counts))
	for d, n := range s.Counts {
		counts[string(d)] = n
	}
	filters := make([]string, len(s.Selected))
	for i, d := range s.Selected {
		filters[i] = string(d)
	}
	results := s.CurrentPageResults
	if results == nil {
		results = []R{}
	}
	return JSONView[R]{
		Query:      s.Query,
		Status:     s.StatusMessage,
		Page:       s.CurrentPage,
		TotalPages: s.TotalPages,
		PerPage:    s.PerPage,
		Total:      s.Total,
		Filtered:   len(s.FilteredResults),
		Counts:     counts,
		Filters:    filters,
		Refine:     s.Refinements,
		State:      s.URLState,
		Results:    results,
	}
}

// FormatJSON writes v as indented JSON.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatRawJSON re-indents a raw JSON document.
func FormatRawJSON(raw []byte, w io.Writer) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return FormatJSON(v, w)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
