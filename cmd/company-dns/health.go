// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/company-dns/internal/render"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the company_dns host is up",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := newClient(ctx, cmd, nil)
		if err != nil {
			return err
		}
		body, err := client.Health(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s is up\n", client.BaseURL())
		return render.FormatRawJSON(body, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
