// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/company-dns/internal/store"
	"github.com/pdiddy/company-dns/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local response cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired cached responses",
	Long: `Purge deletes cached API responses whose TTL has passed. With --all it
empties the cache. Saved preferences are kept.`,
	Args: cobra.NoArgs,
	RunE: runCachePurge,
}

func runCachePurge(cmd *cobra.Command, _ []string) error {
	if cfg.Store.Path == "" || cfg.Store.Path == types.StoreDisabled {
		return fmt.Errorf("response cache is off (store.path is %q)", cfg.Store.Path)
	}
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	all, _ := cmd.Flags().GetBool("all")
	return purgeCache(cmd.Context(), st, all, cmd.OutOrStdout())
}

func purgeCache(ctx context.Context, st *store.Store, all bool, w io.Writer) error {
	n, err := st.Purge(ctx, all)
	if err != nil {
		return err
	}
	logger.Debug("cache purged", "all", all, "removed", n)
	fmt.Fprintf(w, "Removed %d cached responses\n", n)
	return nil
}

func init() {
	cachePurgeCmd.Flags().Bool("all", false, "remove every cached response, not only expired ones")
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
