// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/company-dns/internal/companydns"
	"github.com/pdiddy/company-dns/internal/explorer"
	"github.com/pdiddy/company-dns/internal/render"
	"github.com/pdiddy/company-dns/internal/store"
	"github.com/pdiddy/company-dns/pkg/types"
)

var edgarCmd = &cobra.Command{
	Use:   "edgar [company|CIK]",
	Short: "Browse EDGAR filings for a company",
	Long: `Edgar fetches the EDGAR filings of every company matching a name, or of
the company with the given CIK (1 to 10 digits). Filings are listed newest
first with each company's latest 10-K and 10-Q.

Filter by form family with --forms, and narrow further by SIC division,
fiscal year end or recent 10-Q filings.`,
	RunE: runEdgar,
}

func runEdgar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st := openStore()
	if st != nil {
		defer st.Close()
	}
	client, err := newClient(ctx, cmd, st)
	if err != nil {
		return err
	}

	exp := explorer.New(types.FormFamilies, types.Filing.Family,
		explorer.WithDefaultPageSize(cfg.Explorer.PerPage),
		explorer.WithAllLabel("all forms"),
	)
	exp.SetRefinementParser(companydns.FilingRefinements(time.Now()))

	err = runExplore(ctx, cmd, args, exploreRun[types.Filing, types.FormFamily]{
		exp:        exp,
		fetch:      client.FetchFilings,
		render:     formatFilingsWithOptions,
		sheet:      render.FilingSheet,
		host:       client.Host(),
		filterFlag: "forms",
		adjust:     func(vals url.Values) { mergeFilingFlags(cmd, vals) },
	})
	if err != nil {
		return err
	}

	remember(ctx, st, map[string]string{
		store.PrefHost:  client.Host(),
		store.PrefQuery: exp.Query(),
	})
	return nil
}

// mergeFilingFlags writes --division, --fye and --recent into the
// refinement tokens of vals, overriding what the state string carried.
func mergeFilingFlags(cmd *cobra.Command, vals url.Values) {
	flags := cmd.Flags()
	if !flags.Changed("division") && !flags.Changed("fye") && !flags.Changed("recent") {
		return
	}
	tokens := strings.Split(vals.Get(explorer.ParamRefine), ",")
	if raw, ok := vals[explorer.ParamFilters]; ok && strings.TrimSpace(raw[0]) != "" {
		// Refinement entries in the filter list move to refine.
		var families, moved []string
		for _, part := range strings.Split(raw[0], ",") {
			if companydns.ParseFilingFilter([]string{part}).Active() {
				moved = append(moved, part)
			} else {
				families = append(families, part)
			}
		}
		tokens = append(moved, tokens...)
		if len(families) > 0 {
			vals.Set(explorer.ParamFilters, strings.Join(families, ","))
		} else {
			vals.Del(explorer.ParamFilters)
		}
	}
	filter := companydns.ParseFilingFilter(tokens)
	if flags.Changed("division") {
		filter.Division, _ = flags.GetString("division")
	}
	if flags.Changed("fye") {
		filter.FiscalYearEnd, _ = flags.GetString("fye")
	}
	if flags.Changed("recent") {
		filter.Recent10Q, _ = flags.GetBool("recent")
	}
	if tokens := filter.Tokens(); len(tokens) > 0 {
		vals.Set(explorer.ParamRefine, strings.Join(tokens, ","))
	} else {
		vals.Del(explorer.ParamRefine)
	}
}

// formatFilingsWithOptions prints the filing table and the division and
// fiscal year end values available for narrowing.
func formatFilingsWithOptions(s render.FilingSnapshot, w io.Writer) {
	render.FormatFilings(s, w)
	divisions, fyes := companydns.FilterOptions(s.FilteredResults)
	if len(divisions) > 0 {
		fmt.Fprintf(w, "divisions: %s\n", strings.Join(divisions, ", "))
	}
	if len(fyes) > 0 {
		fmt.Fprintf(w, "fiscal year ends: %s\n", strings.Join(fyes, ", "))
	}
}

func addFilingFlags(cmd *cobra.Command) {
	addBrowseFlags(cmd, "forms", "form families to show, comma-separated (10-K, 10-Q, 8-K, Other)")
	cmd.Flags().String("division", "", "only filings of companies in this SIC division (e.g. D)")
	cmd.Flags().String("fye", "", "only companies with this fiscal year end (MM/DD)")
	cmd.Flags().Bool("recent", false, "only 10-Q filings from the last 90 days")
}

func init() {
	addFilingFlags(edgarCmd)
	rootCmd.AddCommand(edgarCmd)
}
