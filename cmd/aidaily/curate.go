package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"github.com/spf13/cobra"

	"github.com/abelbrown/aidaily/internal/curate"
	"github.com/abelbrown/aidaily/internal/feed"
	"github.com/abelbrown/aidaily/internal/logging"
	"github.com/abelbrown/aidaily/internal/store"
)

func curateCmd(gf *globalFlags) *cobra.Command {
	var (
		out     string
		archive string
		rules   string
		list    int
	)

	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Fetch RSS sources and write the feed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*gf)
			logging.InitWriter(os.Stderr, cfg.LogLevel)
			cc := cfg.Curator

			if out == "" {
				out = cc.Out
			}
			if archive == "" {
				archive = cc.Archive
			}
			if rules == "" {
				rules = cc.Rules
			}

			if list > 0 {
				if archive == "" {
					return fmt.Errorf("--list needs an archive (--archive or curator.archive)")
				}
				st, err := store.Open(archive)
				if err != nil {
					return fmt.Errorf("open archive: %w", err)
				}
				defer st.Close()
				return listArchive(cmd.OutOrStdout(), st, list)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			r, err := curate.LoadRules(rules)
			if err != nil {
				return err
			}

			opts := curate.Options{
				Feeds:       cc.Feeds,
				Out:         out,
				MaxArticles: cc.MaxArticles,
				Concurrency: cc.Concurrency,
			}
			if archive != "" {
				st, err := store.Open(archive)
				if err != nil {
					return fmt.Errorf("open archive: %w", err)
				}
				defer st.Close()
				opts.Archive = st
			}

			fetcher := curate.NewFetcher(cfg.FetchTimeout(), cc.RequestInterval(), cc.PerFeed, r)
			report, err := curate.New(fetcher, opts).Run(ctx)
			if err != nil {
				return err
			}

			printReport(out, report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default from config, news_data.json)")
	cmd.Flags().StringVar(&archive, "archive", "", "SQLite archive; skips articles published on earlier days")
	cmd.Flags().StringVar(&rules, "rules", "", "YAML file overriding the keyword rules")
	cmd.Flags().IntVar(&list, "list", 0, "print the N most recent archived articles and exit")

	return cmd
}

// listArchive prints the newest archived articles, one per line.
func listArchive(w io.Writer, st *store.Store, n int) error {
	articles, err := st.Articles(n)
	if err != nil {
		return fmt.Errorf("list archive: %w", err)
	}
	total, err := st.Count()
	if err != nil {
		return fmt.Errorf("count archive: %w", err)
	}
	fmt.Fprintf(w, "已归档 %d 篇, 最近 %d 篇:\n", total, len(articles))
	for _, a := range articles {
		fmt.Fprintf(w, "  %s  [%s] %s\n", a.FirstDay, feed.Category(a.Category).Label(), a.Title)
		if a.URL != "" {
			fmt.Fprintf(w, "              %s\n", a.URL)
		}
	}
	return nil
}

func printReport(out string, r curate.Report) {
	fmt.Printf("✓ 已保存至 %s\n", out)
	fmt.Printf("  抓取 %d 篇, 去重后 %d 篇, 保留 %d 篇, 热点 %d 篇\n", r.Fetched, r.Unique, r.Kept, r.Hot)
	if r.Archived > 0 {
		fmt.Printf("  已发布过 %d 篇 (跳过)\n", r.Archived)
	}

	cats := make([]string, 0, len(r.PerCategory))
	for c := range r.PerCategory {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Printf("  %s: %d\n", c, r.PerCategory[feed.Category(c)])
	}
	for _, f := range r.Failed {
		fmt.Printf("  ✗ %s\n", f)
	}
}
