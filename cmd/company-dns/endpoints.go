// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/company-dns/internal/companydns"
	"github.com/pdiddy/company-dns/internal/render"
)

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List the documented API endpoints",
	Long: `Endpoints prints the endpoint catalog for one or all API versions, as a
plain table, Markdown, or HTML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		apiVersion, _ := cmd.Flags().GetString("api-version")
		format, _ := cmd.Flags().GetString("format")
		host, _ := cmd.Flags().GetString("host")

		endpoints := companydns.Endpoints(apiVersion)
		if len(endpoints) == 0 {
			return fmt.Errorf("unknown API version %q: use %s or %s", apiVersion, companydns.VersionV3, companydns.VersionV2)
		}

		var baseURL string
		if host != "" {
			u, err := cfg.Client.BaseURL(host)
			if err != nil {
				return err
			}
			baseURL = u
		}

		switch format {
		case "text", "":
			render.FormatEndpoints(endpoints, os.Stdout)
		case "markdown", "md":
			render.EndpointsMarkdown(endpoints, baseURL, os.Stdout)
		case "html":
			return render.EndpointsHTML(endpoints, baseURL, os.Stdout)
		case "json":
			return render.FormatJSON(endpoints, os.Stdout)
		default:
			return fmt.Errorf("unsupported format %q: use text, markdown, html or json", format)
		}
		return nil
	},
}

func init() {
	endpointsCmd.Flags().String("api-version", "", "API version to list (default: all)")
	endpointsCmd.Flags().String("format", "text", "output format: text, markdown, html, json")
	rootCmd.AddCommand(endpointsCmd)
}
