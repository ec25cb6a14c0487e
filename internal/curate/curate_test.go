package curate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/abelbrown/aidaily/internal/feed"
	"github.com/abelbrown/aidaily/internal/store"
)

// mockFetcher serves canned items per URL.
type mockFetcher struct {
	items map[string][]feed.Item
	errs  map[string]error
	calls atomic.Int32
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]feed.Item, error) {
	m.calls.Add(1)
	if err := m.errs[url]; err != nil {
		return nil, err
	}
	return m.items[url], nil
}

func item(title, date string, hot bool, cat feed.Category) feed.Item {
	return feed.Item{Title: title, Summary: "s", Date: date, Hot: hot, Category: cat, Tags: []string{"AI"}, URL: "#"}
}

func titles(items []feed.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestDedupKeepsFirst(t *testing.T) {
	in := []feed.Item{
		item("OpenAI Announces Something Big For Developers", "2025-01-01", false, feed.News),
		item("openai announces something big for everyone", "2025-01-02", true, feed.News),
		item("Other", "2025-01-01", false, feed.News),
	}
	got := Dedup(in)
	want := []string{"OpenAI Announces Something Big For Developers", "Other"}
	if diff := cmp.Diff(want, titles(got)); diff != "" {
		t.Errorf("Dedup mismatch (-want +got):\n%s", diff)
	}
}

func TestPrioritizeHotThenNewest(t *testing.T) {
	in := []feed.Item{
		item("cold-old", "2025-01-01", false, feed.News),
		item("hot-old", "2025-01-01", true, feed.News),
		item("cold-new", "2025-01-03", false, feed.News),
		item("hot-new", "2025-01-02", true, feed.News),
		item("cold-new-2", "2025-01-03", false, feed.News),
	}
	got := Prioritize(in)
	want := []string{"hot-new", "hot-old", "cold-new", "cold-new-2", "cold-old"}
	if diff := cmp.Diff(want, titles(got)); diff != "" {
		t.Errorf("Prioritize mismatch (-want +got):\n%s", diff)
	}
	if in[0].Title != "cold-old" {
		t.Error("Prioritize must not reorder its input")
	}
}

func TestRunWritesLoadableFeed(t *testing.T) {
	out := filepath.Join(t.TempDir(), "news_data.json")
	mock := &mockFetcher{
		items: map[string][]feed.Item{
			"a": {item("A1", "2025-01-01", false, feed.Tools), item("A2", "2025-01-02", true, feed.Research)},
			"b": {item("B1", "2025-01-03", false, feed.Safety), item("A1", "2025-01-05", false, feed.News)},
		},
		errs: map[string]error{"c": errors.New("timeout")},
	}
	c := New(mock, Options{Feeds: []string{"a", "b", "c"}, Out: out, MaxArticles: 30})

	report, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Fetched != 4 || report.Unique != 3 || report.Kept != 3 || report.Hot != 1 {
		t.Errorf("unexpected report %+v", report)
	}
	if diff := cmp.Diff([]string{"c"}, report.Failed); diff != "" {
		t.Errorf("failed sources mismatch:\n%s", diff)
	}
	if report.PerCategory[feed.Tools] != 1 || report.PerCategory[feed.Research] != 1 {
		t.Errorf("unexpected per-category counts %v", report.PerCategory)
	}

	// The dashboard's loader must accept the output as-is.
	items, err := feed.NewLoader(out, 0).Load(context.Background())
	if err != nil {
		t.Fatalf("loader rejected curator output: %v", err)
	}
	if diff := cmp.Diff([]string{"A2", "B1", "A1"}, titles(items)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	for i, it := range items {
		if want := feed.ID(string(rune('1' + i))); it.ID != want {
			t.Errorf("item %d has id %q, want %q", i, it.ID, want)
		}
	}

	data, _ := os.ReadFile(out)
	if !strings.Contains(string(data), `"id": 1,`) || !strings.Contains(string(data), `"category": "research"`) {
		t.Errorf("unexpected output format:\n%s", data)
	}
}

func TestRunCapsArticles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "feed.json")
	var many []feed.Item
	for i := 0; i < 40; i++ {
		many = append(many, item(fmt.Sprintf("title %02d", i), "2025-01-01", false, feed.News))
	}
	mock := &mockFetcher{items: map[string][]feed.Item{"a": many}}
	c := New(mock, Options{Feeds: []string{"a"}, Out: out, MaxArticles: 30})

	report, err := c.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Kept != 30 {
		t.Errorf("expected 30 kept, got %d", report.Kept)
	}
}

func TestRunAllSourcesFailed(t *testing.T) {
	out := filepath.Join(t.TempDir(), "feed.json")
	mock := &mockFetcher{errs: map[string]error{"a": errors.New("x"), "b": errors.New("y")}}
	c := New(mock, Options{Feeds: []string{"a", "b"}, Out: out})

	if _, err := c.Run(context.Background()); err == nil {
		t.Error("expected an error when every source fails")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no file should be written when every source fails")
	}
}

func TestRunSkipsArchivedArticles(t *testing.T) {
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	yesterday := time.Date(2025, 3, 13, 9, 0, 0, 0, time.UTC)
	today := yesterday.AddDate(0, 0, 1)
	if _, err := st.Record(yesterday, []store.Article{{Key: TitleKey("Old story"), Title: "Old story"}}); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "feed.json")
	mock := &mockFetcher{items: map[string][]feed.Item{
		"a": {item("Old story", "2025-03-13", true, feed.News), item("New story", "2025-03-14", false, feed.News)},
	}}
	c := New(mock, Options{Feeds: []string{"a"}, Out: out, Archive: st})
	c.now = func() time.Time { return today }

	report, err := c.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Archived != 1 || report.Kept != 1 {
		t.Errorf("expected 1 archived and 1 kept, got %+v", report)
	}

	// Running again the same day keeps today's article.
	report, err = c.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Kept != 1 {
		t.Errorf("same-day rerun should keep today's article, got %+v", report)
	}

	n, _ := st.Count()
	if n != 2 {
		t.Errorf("archive should hold 2 articles, got %d", n)
	}
}

func TestWriteFeedEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sub", "feed.json")
	if err := WriteFeed(out, nil); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(out)
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty feed should be an empty array, got %q", data)
	}
	entries, _ := os.ReadDir(filepath.Dir(out))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}
