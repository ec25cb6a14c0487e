package curate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/aidaily/internal/feed"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>AI Wire</title>
    <item>
      <title>OpenAI launches a &lt;b&gt;new&lt;/b&gt; model</title>
      <link>http://example.com/1</link>
      <description>&lt;p&gt;The   research  paper is out.&lt;/p&gt;</description>
      <pubDate>Mon, 01 Jan 2024 12:00:00 GMT</pubDate>
    </item>
    <item>
      <title>No summary here</title>
      <link>http://example.com/2</link>
    </item>
    <item>
      <title>Startup funding round</title>
      <description>Enterprise revenue</description>
    </item>
  </channel>
</rss>`

func rssServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != userAgent {
			t.Errorf("unexpected User-Agent %q", ua)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchConvertsEntries(t *testing.T) {
	srv := rssServer(t, testRSS, http.StatusOK)
	f := NewFetcher(5*time.Second, 0, 10, DefaultRules())
	fixed := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return fixed }

	items, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("entries without summary should be dropped, got %d items", len(items))
	}

	first := items[0]
	if first.Title != "OpenAI launches a new model" {
		t.Errorf("title not cleaned: %q", first.Title)
	}
	if first.Summary != "The research paper is out." {
		t.Errorf("summary not cleaned: %q", first.Summary)
	}
	if first.Source != "AI Wire" || first.Date != "2024-01-01" || first.URL != "http://example.com/1" {
		t.Errorf("unexpected metadata %+v", first)
	}
	if !first.Hot || first.Category != feed.Research {
		t.Errorf("expected hot research item, got hot=%v category=%q", first.Hot, first.Category)
	}
	if first.ID != "" {
		t.Errorf("ids are assigned later, got %q", first.ID)
	}

	second := items[1]
	if second.URL != "#" || second.Date != "2025-03-14" {
		t.Errorf("missing link/date should fall back, got url=%q date=%q", second.URL, second.Date)
	}
	if second.Category != feed.Industry {
		t.Errorf("expected industry, got %q", second.Category)
	}
}

func TestFetchPerFeedLimit(t *testing.T) {
	srv := rssServer(t, testRSS, http.StatusOK)
	f := NewFetcher(5*time.Second, 0, 1, DefaultRules())

	items, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("only the first entry should be read, got %d", len(items))
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := rssServer(t, "nope", http.StatusBadGateway)
	f := NewFetcher(5*time.Second, 0, 10, DefaultRules())

	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("expected HTTP 502 error, got %v", err)
	}
}

func TestFetchParseError(t *testing.T) {
	srv := rssServer(t, "this is not a feed", http.StatusOK)
	f := NewFetcher(5*time.Second, 0, 10, DefaultRules())

	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Error("expected parse error")
	}
}

func TestFetchRateLimited(t *testing.T) {
	srv := rssServer(t, testRSS, http.StatusOK)
	f := NewFetcher(5*time.Second, 100*time.Millisecond, 10, DefaultRules())

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 180*time.Millisecond {
		t.Errorf("requests were not spaced: 3 fetches took %v", elapsed)
	}
}

func TestFetchCancelledWhileWaiting(t *testing.T) {
	f := NewFetcher(5*time.Second, time.Hour, 10, DefaultRules())
	f.limiter.Allow() // use up the burst

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := f.Fetch(ctx, "http://127.0.0.1:1/feed"); err == nil {
		t.Error("expected rate limiter error")
	}
}
