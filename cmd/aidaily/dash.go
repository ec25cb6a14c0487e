package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abelbrown/aidaily/internal/config"
	"github.com/abelbrown/aidaily/internal/coord"
	"github.com/abelbrown/aidaily/internal/feed"
	"github.com/abelbrown/aidaily/internal/logging"
	"github.com/abelbrown/aidaily/internal/ui"
)

func dashCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Run the terminal dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDash(cmd.Context(), *gf)
		},
	}
}

func runDash(parent context.Context, gf globalFlags) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	cfg := loadConfig(gf)

	// The dashboard owns the terminal, so logs go to a file.
	if err := logging.Init(config.DataDir(), cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	loader := feed.NewLoader(cfg.Feed, cfg.FetchTimeout())
	opts := []coord.Option{coord.WithInterval(cfg.RefreshInterval())}
	if cfg.Watch && loader.IsLocal() {
		opts = append(opts, coord.WithWatch(loader.LocalPath()))
	}
	c := coord.NewCoordinator(loader, opts...)

	app := ui.NewApp(ui.Options{
		Reload: func() tea.Cmd {
			return func() tea.Msg {
				c.Refresh()
				return nil
			}
		},
		ClearOnError: cfg.ClearOnError,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())

	logging.Info("starting dashboard", "feed", cfg.Feed, "refresh", cfg.RefreshInterval(), "watch", cfg.Watch)
	c.Start(ctx, p)

	_, err := p.Run()

	cancel()
	c.Wait()

	if err != nil {
		logging.Error("dashboard error", "err", err)
		return err
	}
	logging.Info("dashboard exiting normally")
	return nil
}
