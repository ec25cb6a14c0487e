package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/abelbrown/aidaily/internal/coord"
	"github.com/abelbrown/aidaily/internal/feed"
	"github.com/abelbrown/aidaily/internal/logging"
	"github.com/abelbrown/aidaily/internal/note"
)

func noteCmd(gf *globalFlags) *cobra.Command {
	var (
		copyNote bool
		docxPath string
	)

	cmd := &cobra.Command{
		Use:   "note",
		Short: "Load the feed once and print today's note",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*gf)
			logging.InitWriter(os.Stderr, cfg.LogLevel)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			c := coord.NewCoordinator(feed.NewLoader(cfg.Feed, cfg.FetchTimeout()))
			msg, ok := c.LoadOnce(ctx)
			if !ok {
				return ctx.Err()
			}
			if msg.Err != nil {
				return msg.Err
			}

			now := time.Now()
			text := note.Generate(msg.Items, now)
			fmt.Println(text)

			if copyNote {
				if err := clipboard.WriteAll(text); err != nil {
					return fmt.Errorf("copy note: %w", err)
				}
				fmt.Fprintln(os.Stderr, "✓ 已复制！")
			}
			if docxPath != "" {
				if err := note.WriteDocx(docxPath, msg.Items, now); err != nil {
					return err
				}
				logging.Info("note exported", "path", docxPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyNote, "copy", "c", false, "copy the note to the clipboard")
	cmd.Flags().StringVar(&docxPath, "docx", "", "also write the note as a Word document")

	return cmd
}
