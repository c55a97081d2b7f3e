// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/company-dns/internal/store"
)

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List configured company_dns hosts",
	RunE: func(cmd *cobra.Command, args []string) error {
		var saved string
		if st := openStore(); st != nil {
			defer st.Close()
			saved, _, _ = st.Pref(cmd.Context(), store.PrefHost)
		}

		for _, name := range cfg.Client.HostNames() {
			var marks string
			if name == cfg.Client.PrimaryHost {
				marks += " (primary)"
			}
			if name == saved {
				marks += " (last used)"
			}
			fmt.Fprintf(os.Stdout, "%-30s  %s%s\n", name, cfg.Client.Hosts[name], marks)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hostsCmd)
}
