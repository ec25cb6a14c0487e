package e2e

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/abelbrown/aidaily/internal/feed"
)

// writeFixtureFeed writes a small feed file into dir and returns its path.
func writeFixtureFeed(dir string) (string, error) {
	today := time.Now().Format("2006-01-02")
	items := []feed.Item{
		{
			ID:       "1",
			Category: feed.News,
			Title:    "Fixture Alpha launches",
			Summary:  "A deterministic item for UI tests.",
			Source:   "fixture",
			Date:     today,
			URL:      "https://example.com/alpha",
			Tags:     []string{"GPT"},
			Hot:      true,
		},
		{
			ID:       "2",
			Category: feed.Tools,
			Title:    "Fixture Beta toolkit",
			Summary:  "Another deterministic item.",
			Source:   "fixture",
			Date:     today,
			URL:      "https://example.com/beta",
			Tags:     []string{"Agent"},
		},
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "ai-news.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
