// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/company-dns/internal/explorer"
	"github.com/pdiddy/company-dns/internal/render"
	"github.com/pdiddy/company-dns/internal/store"
	"github.com/pdiddy/company-dns/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [description]",
	Short: "Search industry codes across classification systems",
	Long: `Search matches a description against US SIC, UK SIC, EU NACE, ISIC and
Japan SIC codes. Results keep the server's relevance order and are filtered
by classification system and paged locally.

Examples:
  company-dns search software
  company-dns search "retail banking" --filters "US SIC,EU NACE" --per-page 25
  company-dns search --state "q=steel&page=2&filters=UK+SIC"`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st := openStore()
	if st != nil {
		defer st.Close()
	}
	client, err := newClient(ctx, cmd, st)
	if err != nil {
		return err
	}

	exp := explorer.New(types.SourceTypes,
		func(c types.IndustryCode) types.SourceType { return c.SourceType },
		explorer.WithDefaultPageSize(cfg.Explorer.PerPage),
		explorer.WithAllLabel("all systems"),
	)
	err = runExplore(ctx, cmd, args, exploreRun[types.IndustryCode, types.SourceType]{
		exp:        exp,
		fetch:      client.FetchIndustryCodes,
		render:     render.FormatIndustryCodes,
		sheet:      render.IndustrySheet,
		host:       client.Host(),
		filterFlag: "filters",
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

func init() {
	addBrowseFlags(searchCmd, "filters", "classification systems to show, comma-separated (US SIC, UK SIC, EU NACE, ISIC, Japan SIC)")
	rootCmd.AddCommand(searchCmd)
}
