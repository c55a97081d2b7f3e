// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/company-dns/internal/companydns"
	"github.com/pdiddy/company-dns/internal/render"
	"github.com/pdiddy/company-dns/internal/store"
)

var queryCmd = &cobra.Command{
	Use:   "query [endpoint] [value]",
	Short: "Run an ad-hoc query against a documented endpoint",
	Long: `Query calls one endpoint from the catalog (see "company-dns endpoints")
and prints the JSON response. The endpoint is given by name ("SIC Code") or
path ("na/sic/code"). With no arguments the last endpoint and value are
reused; the host, endpoint, value and API version are remembered.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st := openStore()
	if st != nil {
		defer st.Close()
	}
	client, err := newClient(ctx, cmd, st)
	if err != nil {
		return err
	}

	saved := map[string]string{}
	if st != nil {
		if prefs, err := st.Prefs(ctx); err == nil {
			saved = prefs
		}
	}

	apiVersion, _ := cmd.Flags().GetString("api-version")
	if !cmd.Flags().Changed("api-version") && saved[store.PrefVersion] != "" {
		apiVersion = saved[store.PrefVersion]
	}
	name := saved[store.PrefEndpoint]
	if len(args) > 0 {
		name = args[0]
	}
	value := saved[store.PrefQuery]
	if len(args) > 1 {
		value = args[1]
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("endpoint required: see company-dns endpoints")
	}

	endpoint, ok := companydns.LookupEndpoint(apiVersion, name)
	if !ok {
		return fmt.Errorf("unknown endpoint %q for %s", name, apiVersion)
	}

	body, err := client.Query(ctx, endpoint, value)
	if err != nil {
		return err
	}

	remember(ctx, st, map[string]string{
		store.PrefHost:     client.Host(),
		store.PrefEndpoint: endpoint.Name,
		store.PrefQuery:    value,
		store.PrefVersion:  endpoint.Version,
	})
	return render.FormatRawJSON(body, os.Stdout)
}

var sicCmd = &cobra.Command{
	Use:   "sic <code>",
	Short: "Show the SIC description for a code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st := openStore()
		if st != nil {
			defer st.Close()
		}
		client, err := newClient(ctx, cmd, st)
		if err != nil {
			return err
		}
		body, err := client.SICDetails(ctx, args[0])
		if err != nil {
			return err
		}
		return render.FormatRawJSON(body, os.Stdout)
	},
}

func init() {
	queryCmd.Flags().String("api-version", companydns.VersionV3, "API version: V3.0 or V2.0")
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(sicCmd)
}
