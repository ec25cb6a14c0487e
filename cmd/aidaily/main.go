// Command aidaily is a terminal dashboard for the daily AI news feed.
//
// Usage:
//
//	aidaily                 Run the dashboard (same as "aidaily dash")
//	aidaily note            Print today's Xiaohongshu note
//	aidaily curate          Build the feed file from RSS sources
//	aidaily init            Write the default config file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abelbrown/aidaily/internal/config"
)

var Version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	feed       string
	logLevel   string
}

func main() {
	var gf globalFlags

	rootCmd := &cobra.Command{
		Use:           "aidaily",
		Short:         "AI DAILY - 每日 AI 世界动态汇总",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDash(cmd.Context(), gf)
		},
	}
	rootCmd.PersistentFlags().StringVar(&gf.configPath, "config", "", "config file (default ~/.aidaily/config.json, or $AIDAILY_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&gf.feed, "feed", "", "feed URL or file (overrides config and $AIDAILY_FEED)")
	rootCmd.PersistentFlags().StringVar(&gf.logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(dashCmd(&gf))
	rootCmd.AddCommand(noteCmd(&gf))
	rootCmd.AddCommand(curateCmd(&gf))
	rootCmd.AddCommand(initCmd(&gf))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "aidaily:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command-line overrides.
// A config file that fails to parse is reported and defaults are used.
func loadConfig(gf globalFlags) *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if gf.configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFrom(gf.configPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		if cfg == nil {
			cfg = config.DefaultConfig()
			cfg.ApplyEnv()
		}
	}
	if gf.feed != "" {
		cfg.Feed = gf.feed
	}
	if gf.logLevel != "" {
		cfg.LogLevel = gf.logLevel
	}
	return cfg
}
