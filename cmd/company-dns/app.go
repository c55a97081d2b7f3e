// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/company-dns/internal/browse"
	"github.com/pdiddy/company-dns/internal/companydns"
	"github.com/pdiddy/company-dns/internal/explorer"
	"github.com/pdiddy/company-dns/internal/render"
	"github.com/pdiddy/company-dns/internal/session"
	"github.com/pdiddy/company-dns/internal/store"
	"github.com/pdiddy/company-dns/pkg/types"
)

// openStore opens the preference store. It returns nil when persistence is
// off or the database cannot be opened; the CLI works without it.
func openStore() *store.Store {
	if cfg.Store.Path == "" || cfg.Store.Path == types.StoreDisabled {
		return nil
	}
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.Warn("preference store unavailable", "path", cfg.Store.Path, "error", err)
		return nil
	}
	return st
}

// newClient builds a client for the --host flag, the last used host, or
// the primary host, in that order. A remembered host that is no longer
// configured falls back to the primary host.
func newClient(ctx context.Context, cmd *cobra.Command, st *store.Store) (*companydns.Client, error) {
	opts := []companydns.Option{
		companydns.WithLogger(logger),
		companydns.WithMetrics(mtr),
	}
	if st != nil {
		opts = append(opts, companydns.WithCache(st))
	}

	host, _ := cmd.Flags().GetString("host")
	if host != "" {
		return companydns.NewClient(cfg.Client, host, opts...)
	}
	if st != nil {
		if saved, ok, err := st.Pref(ctx, store.PrefHost); err == nil && ok {
			if c, err := companydns.NewClient(cfg.Client, saved, opts...); err == nil {
				return c, nil
			}
			logger.Debug("ignoring remembered host", "host", saved)
		}
	}
	return companydns.NewClient(cfg.Client, "", opts...)
}

// remember saves preferences, logging rather than failing on error.
func remember(ctx context.Context, st *store.Store, prefs map[string]string) {
	if st == nil {
		return
	}
	if err := st.SetPrefs(ctx, prefs); err != nil {
		logger.Warn("saving preferences", "error", err)
	}
}

// addBrowseFlags registers the paging, output and session flags. The
// discriminant filter flag is named by the command.
func addBrowseFlags(cmd *cobra.Command, filterFlag, filterHelp string) {
	f := cmd.Flags()
	f.String(filterFlag, "", filterHelp)
	f.Int("page", 1, "page to show")
	f.Int("per-page", 0, "results per page: 10, 25, 50 or 100 (default from config)")
	f.String("state", "", "restore a view from a state string (q=...&page=...&perPage=...&filters=...&refine=...)")
	f.Bool("json", false, "output the current page as JSON")
	f.String("export", "", "write the filtered results to an XLSX file")
	f.String("save", "", "save results and view state to a YAML session file")
	f.String("load", "", "browse a saved session file instead of querying")
	f.BoolP("interactive", "i", false, "browse results interactively")
}

// stateValues merges explicit flags over a state string.
func stateValues(cmd *cobra.Command, state string, filterFlag string) url.Values {
	vals, _ := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(state), "?"))
	if vals == nil {
		vals = url.Values{}
	}
	if cmd.Flags().Changed(filterFlag) {
		filters, _ := cmd.Flags().GetString(filterFlag)
		vals.Set(explorer.ParamFilters, filters)
	}
	if cmd.Flags().Changed("page") {
		page, _ := cmd.Flags().GetInt("page")
		vals.Set(explorer.ParamPage, strconv.Itoa(page))
	}
	if cmd.Flags().Changed("per-page") {
		perPage, _ := cmd.Flags().GetInt("per-page")
		vals.Set(explorer.ParamPerPage, strconv.Itoa(perPage))
	}
	return vals
}

// exploreRun describes one explorer-backed command.
type exploreRun[R any, D explorer.Discriminant] struct {
	exp        *explorer.Explorer[R, D]
	fetch      session.FetchFunc[R]
	render     func(explorer.Snapshot[R, D], io.Writer)
	sheet      func([]R) render.Sheet
	host       string
	filterFlag string

	// adjust, when set, merges command-specific flags into the state
	// before it is applied.
	adjust func(url.Values)
}

// runExplore fetches or loads results, applies the requested view, and
// prints, exports, saves or browses them.
func runExplore[R any, D explorer.Discriminant](ctx context.Context, cmd *cobra.Command, args []string, run exploreRun[R, D]) error {
	s := session.New(run.exp, run.fetch,
		session.WithTimeout(cfg.Client.Timeout),
		session.WithLogger(logger),
		session.OnStale(mtr.StaleDiscard),
	)

	state, _ := cmd.Flags().GetString("state")
	loadPath, _ := cmd.Flags().GetString("load")
	query := strings.TrimSpace(strings.Join(args, " "))

	if loadPath != "" {
		f, err := session.ReadFile[R](loadPath)
		if err != nil {
			return err
		}
		if state == "" {
			state = f.State
		}
		vals := stateValues(cmd, state, run.filterFlag)
		if run.adjust != nil {
			run.adjust(vals)
		}
		f.State = vals.Encode()
		s.Do(func(e *explorer.Explorer[R, D]) { session.Restore(f, e) })
	} else {
		vals := stateValues(cmd, state, run.filterFlag)
		if run.adjust != nil {
			run.adjust(vals)
		}
		if query == "" {
			query = vals.Get(explorer.ParamQuery)
		}
		if query == "" {
			return fmt.Errorf("query required: pass search text or --state with q=")
		}
		s.Do(func(e *explorer.Explorer[R, D]) { e.ApplyURLValues(vals) })
		if err := s.Search(ctx, query); err != nil {
			return err
		}
	}

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		snap := s.Snapshot()
		if err := render.ExportXLSX(run.sheet(snap.FilteredResults), path); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %d results to %s\n", len(snap.FilteredResults), path)
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		var f *session.File[R]
		s.Do(func(e *explorer.Explorer[R, D]) { f = session.NewFile(e, run.host) })
		if err := session.WriteFile(path, f); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved session to %s\n", path)
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		loop := &browse.Loop[R, D]{
			Session:  s,
			Prompter: browse.PromptUI{},
			Render:   run.render,
			Out:      os.Stdout,
		}
		return loop.Run(ctx)
	}

	snap := s.Snapshot()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return render.FormatJSON(render.NewJSONView(snap), os.Stdout)
	}
	run.render(snap, os.Stdout)
	return nil
}
