package curate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/abelbrown/aidaily/internal/feed"
)

const userAgent = "aidaily-curator/1.0"

// Fetcher retrieves and normalises entries from RSS/Atom sources.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	perFeed int
	rules   Rules
	now     func() time.Time
}

// NewFetcher creates a Fetcher. Requests are spaced by interval across all
// goroutines; zero disables spacing.
func NewFetcher(timeout, interval time.Duration, perFeed int, rules Rules) *Fetcher {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
		perFeed: perFeed,
		rules:   rules,
		now:     time.Now,
	}
}

// Fetch retrieves one feed and converts up to perFeed entries.
// Entries without a title or summary are dropped.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]feed.Item, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	source := parsed.Title
	if source == "" {
		source = "Unknown"
	}

	entries := parsed.Items
	if f.perFeed > 0 && len(entries) > f.perFeed {
		entries = entries[:f.perFeed]
	}

	now := f.now()
	items := make([]feed.Item, 0, len(entries))
	for _, entry := range entries {
		if item, ok := f.convert(entry, source, now); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// convert turns a gofeed entry into a feed item without an id.
func (f *Fetcher) convert(entry *gofeed.Item, source string, now time.Time) (feed.Item, bool) {
	title := CleanText(entry.Title)
	raw := entry.Description
	if raw == "" {
		raw = entry.Content
	}
	summary := CapSummary(CleanText(raw))
	if title == "" || summary == "" {
		return feed.Item{}, false
	}

	published := now
	if entry.PublishedParsed != nil {
		published = entry.PublishedParsed.UTC()
	} else if entry.UpdatedParsed != nil {
		published = entry.UpdatedParsed.UTC()
	}

	url := entry.Link
	if url == "" {
		url = "#"
	}

	return feed.Item{
		Category: f.rules.Categorize(title, summary),
		Title:    title,
		Summary:  summary,
		Source:   source,
		Date:     published.Format(DateLayout),
		URL:      url,
		Tags:     f.rules.Tags(title, summary),
		Hot:      f.rules.IsHot(title, summary),
	}, true
}
