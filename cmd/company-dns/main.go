// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the company-dns CLI.
//
// The CLI searches industry codes across taxonomies, browses EDGAR filings,
// and issues ad-hoc lookups against a company_dns host. Search results are
// paged and filtered locally; the view state round-trips through --state.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/company-dns/internal/logging"
	"github.com/pdiddy/company-dns/internal/metrics"
	"github.com/pdiddy/company-dns/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Host names contain dots, so config keys are split on "::" instead.
var v = viper.NewWithOptions(viper.KeyDelimiter("::"))

var (
	cfg    = types.DefaultConfig()
	logger = slog.Default()
	mtr    *metrics.Metrics
)

// rootCmd is the base command for the company-dns CLI.
var rootCmd = &cobra.Command{
	Use:   "company-dns",
	Short: "Look up industry codes and company filings in company_dns",
	Long: `company-dns is a client for the company_dns lookup API. It searches
industry classification codes across US SIC, UK SIC, EU NACE, ISIC and
Japan SIC, browses EDGAR filings by company name or CIK, and runs ad-hoc
queries against any documented endpoint.

Search results are filtered and paged locally. The current view prints as a
state string that can be passed back with --state to restore it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		logger = logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		slog.SetDefault(logger)
		mtr = metrics.New()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if dump, _ := cmd.Flags().GetBool("metrics"); dump {
			return mtr.WriteText(os.Stderr)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./company-dns.yaml or ~/.config/company-dns/company-dns.yaml)")
	pf.String("host", "", "company_dns host name or base URL (default: last used host, then the primary host)")
	pf.Duration("timeout", 0, "request timeout (default from config, 30s)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.Bool("metrics", false, "print client metrics to stderr on exit")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("company-dns")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "company-dns"))
		}
	}

	v.SetEnvPrefix("COMPANY_DNS")
	v.SetEnvKeyReplacer(strings.NewReplacer("::", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"client::primary_host", "client::timeout", "client::requests_per_second",
		"explorer::per_page", "store::path", "log::level", "log::format",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
}

// loadConfig overlays the config file, environment and flags on the
// defaults.
func loadConfig(cmd *cobra.Command) error {
	cfg = types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	if t, _ := cmd.Flags().GetDuration("timeout"); t > 0 {
		cfg.Client.Timeout = t
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if cfg.Store.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Store.Path = filepath.Join(home, ".config", "company-dns", "company-dns.db")
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
