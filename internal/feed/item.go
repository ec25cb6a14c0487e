// Package feed defines the curated feed item and loads the feed resource.
//
// A feed is a JSON array of items served at a fixed location (an HTTP URL or
// a local file). Loading validates only the top-level shape; individual items
// are passed through verbatim.
package feed

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Category is the curated topic of an item.
type Category string

const (
	All      Category = "all"
	News     Category = "news"
	Tools    Category = "tools"
	Research Category = "research"
	Industry Category = "industry"
	Safety   Category = "safety"
)

// CategoryInfo is the display metadata for a category filter.
type CategoryInfo struct {
	ID    Category
	Label string
	Icon  string
}

// Categories lists every filter in display order. All comes first.
var Categories = []CategoryInfo{
	{ID: All, Label: "全部", Icon: "🌐"},
	{ID: News, Label: "行业动态", Icon: "📰"},
	{ID: Tools, Label: "AI 工具", Icon: "🛠️"},
	{ID: Research, Label: "研究前沿", Icon: "🔬"},
	{ID: Industry, Label: "商业应用", Icon: "💼"},
	{ID: Safety, Label: "安全与伦理", Icon: "🛡️"},
}

// Known reports whether c is one of the fixed item categories.
// All is a filter, not an item category, so it is not known.
func (c Category) Known() bool {
	switch c {
	case News, Tools, Research, Industry, Safety:
		return true
	}
	return false
}

// Label returns the display label, or the raw value for unknown categories.
func (c Category) Label() string {
	for _, info := range Categories {
		if info.ID == c {
			return info.Label
		}
	}
	return string(c)
}

// ID identifies an item. Feeds written by hand use strings, the curator
// writes integers; both decode here.
type ID string

// UnmarshalJSON accepts a JSON string or number. Any other value is kept
// as its raw text so that one odd id never fails a load.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		*id = ID(data)
	}
	return nil
}

// MarshalJSON writes integer-looking ids as numbers so curator output
// round-trips unchanged.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Item is one unit of curated content, as received from the feed.
type Item struct {
	ID       ID       `json:"id"`
	Category Category `json:"category"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Source   string   `json:"source"`
	Date     string   `json:"date"`
	URL      string   `json:"url"`
	Tags     []string `json:"tags"`
	Hot      bool     `json:"hot"`
}
