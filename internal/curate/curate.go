// Package curate builds the dashboard's feed file from RSS/Atom sources.
//
// A run fetches every source, drops duplicate titles, ranks hot items
// first and newest next, keeps the top articles and numbers them 1..n.
package curate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/aidaily/internal/feed"
	"github.com/abelbrown/aidaily/internal/logging"
	"github.com/abelbrown/aidaily/internal/store"
)

// DateLayout is the date format written into items.
const DateLayout = "2006-01-02"

// fetcher interface for dependency injection (testing).
type fetcher interface {
	Fetch(ctx context.Context, url string) ([]feed.Item, error)
}

// Options configures a run.
type Options struct {
	Feeds       []string
	Out         string
	MaxArticles int
	Concurrency int
	// Archive, when set, skips articles published on an earlier day and
	// records the ones kept.
	Archive *store.Store
}

// Report summarises one run.
type Report struct {
	Fetched     int
	Unique      int
	Archived    int // skipped as already published
	Kept        int
	Hot         int
	PerCategory map[feed.Category]int
	Failed      []string // sources that could not be read
}

// Curator runs the fetch-rank-write pipeline.
type Curator struct {
	fetcher fetcher
	opts    Options
	now     func() time.Time
	log     *log.Logger
}

// New creates a Curator.
func New(f fetcher, opts Options) *Curator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Curator{
		fetcher: f,
		opts:    opts,
		now:     time.Now,
		log:     logging.WithPrefix("curate"),
	}
}

// Run executes one curation pass and writes the output file.
// Failing sources are logged and skipped; Run only fails when nothing at
// all could be fetched or the output cannot be written.
func (c *Curator) Run(ctx context.Context) (Report, error) {
	report := Report{PerCategory: make(map[feed.Category]int)}

	items, failed := c.fetchAll(ctx)
	report.Fetched = len(items)
	report.Failed = failed
	if len(items) == 0 && len(failed) > 0 && len(failed) == len(c.opts.Feeds) {
		return report, fmt.Errorf("all %d sources failed", len(failed))
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	items = Dedup(items)
	report.Unique = len(items)

	today := c.now()
	if c.opts.Archive != nil {
		var skipped int
		var err error
		items, skipped, err = c.dropArchived(today, items)
		if err != nil {
			return report, err
		}
		report.Archived = skipped
	}

	items = Prioritize(items)
	if c.opts.MaxArticles > 0 && len(items) > c.opts.MaxArticles {
		items = items[:c.opts.MaxArticles]
	}
	AssignIDs(items)

	if err := WriteFeed(c.opts.Out, items); err != nil {
		return report, err
	}

	if c.opts.Archive != nil {
		if _, err := c.opts.Archive.Record(today, archiveArticles(items)); err != nil {
			c.log.Warn("archive record failed", "err", err)
		}
	}

	report.Kept = len(items)
	for _, it := range items {
		if it.Hot {
			report.Hot++
		}
		report.PerCategory[it.Category]++
	}
	return report, nil
}

// fetchAll reads every source concurrently, preserving source order in the
// combined result.
func (c *Curator) fetchAll(ctx context.Context) ([]feed.Item, []string) {
	results := make([][]feed.Item, len(c.opts.Feeds))
	var (
		mu     sync.Mutex
		failed []string
	)

	var g errgroup.Group
	g.SetLimit(c.opts.Concurrency)

	for i, url := range c.opts.Feeds {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			items, err := c.fetcher.Fetch(ctx, url)
			if err != nil {
				c.log.Warn("source failed", "url", url, "err", err)
				mu.Lock()
				failed = append(failed, url)
				mu.Unlock()
				return nil // never fail the group - errors reported per-source
			}
			c.log.Info("source fetched", "url", url, "items", len(items))
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var all []feed.Item
	for _, r := range results {
		all = append(all, r...)
	}
	sort.Strings(failed)
	return all, failed
}

func (c *Curator) dropArchived(today time.Time, items []feed.Item) ([]feed.Item, int, error) {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = TitleKey(it.Title)
	}
	seen, err := c.opts.Archive.PublishedBefore(today, keys)
	if err != nil {
		return nil, 0, fmt.Errorf("archive lookup: %w", err)
	}

	kept := items[:0:0]
	for i, it := range items {
		if seen[keys[i]] {
			continue
		}
		kept = append(kept, it)
	}
	return kept, len(items) - len(kept), nil
}

func archiveArticles(items []feed.Item) []store.Article {
	out := make([]store.Article, len(items))
	for i, it := range items {
		out[i] = store.Article{
			Key:      TitleKey(it.Title),
			Title:    it.Title,
			URL:      it.URL,
			Category: string(it.Category),
		}
	}
	return out
}

// Dedup keeps the first item for each title key.
func Dedup(items []feed.Item) []feed.Item {
	seen := make(map[string]bool, len(items))
	out := make([]feed.Item, 0, len(items))
	for _, it := range items {
		key := TitleKey(it.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

// Prioritize orders hot items first, then by date, newest first. Items
// that compare equal keep their input order.
func Prioritize(items []feed.Item) []feed.Item {
	out := make([]feed.Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Hot != out[j].Hot {
			return out[i].Hot
		}
		return out[i].Date > out[j].Date
	})
	return out
}

// AssignIDs numbers items 1..n in place.
func AssignIDs(items []feed.Item) {
	for i := range items {
		items[i].ID = feed.ID(strconv.Itoa(i + 1))
	}
}

// WriteFeed writes items as the JSON array the dashboard loads. The file is
// replaced atomically so a polling dashboard never sees a partial write.
func WriteFeed(path string, items []feed.Item) error {
	if items == nil {
		items = []feed.Item{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".aidaily-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close feed: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod feed: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
