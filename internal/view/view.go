// Package view derives everything the dashboard displays from the current
// item list and the transient UI state.
// All functions are pure: items in, fresh values out. Inputs are never
// modified, so identical inputs always produce identical outputs.
package view

import (
	"strings"

	"github.com/abelbrown/aidaily/internal/feed"
)

// HotLimit is how many hot items the sidebar shows.
const HotLimit = 5

// State is the transient UI state that derivation depends on.
// The zero Category filters for uncategorised items; use DefaultState for
// the unfiltered view.
type State struct {
	Category   feed.Category // feed.All or one item category
	Query      string        // free-text search, empty matches everything
	FoldCase   bool          // case-insensitive search when set
	ExpandedID feed.ID       // at most one expanded item
}

// DefaultState shows every item with no search.
func DefaultState() State {
	return State{Category: feed.All}
}

// Stats are the header figures.
type Stats struct {
	Total int
	Tools int
	Hot   int
}

// Snapshot bundles every derived view for one render.
type Snapshot struct {
	Filtered []feed.Item
	Counts   map[feed.Category]int
	Stats    Stats
	Hot      []feed.Item
	Tags     []string
}

// Filter keeps items in the active category that match the search query.
// The query matches by literal substring against the title, the summary, or
// any single tag.
func Filter(items []feed.Item, s State) []feed.Item {
	result := make([]feed.Item, 0, len(items))
	for _, item := range items {
		if Matches(item, s) {
			result = append(result, item)
		}
	}
	return result
}

// Matches reports whether one item passes the category and search filters.
func Matches(item feed.Item, s State) bool {
	if s.Category != feed.All && item.Category != s.Category {
		return false
	}
	if s.Query == "" {
		return true
	}

	contains := strings.Contains
	query := s.Query
	if s.FoldCase {
		query = strings.ToLower(query)
		contains = func(text, q string) bool {
			return strings.Contains(strings.ToLower(text), q)
		}
	}

	if contains(item.Title, query) || contains(item.Summary, query) {
		return true
	}
	for _, tag := range item.Tags {
		if contains(tag, query) {
			return true
		}
	}
	return false
}

// Counts returns the number of items per category. feed.All holds the total.
// Every known category is present, with zero when it has no items.
func Counts(items []feed.Item) map[feed.Category]int {
	counts := make(map[feed.Category]int, len(feed.Categories))
	for _, info := range feed.Categories {
		counts[info.ID] = 0
	}
	counts[feed.All] = len(items)
	for _, item := range items {
		if item.Category == feed.All {
			continue
		}
		counts[item.Category]++
	}
	return counts
}

// ComputeStats returns the header figures.
func ComputeStats(items []feed.Item) Stats {
	st := Stats{Total: len(items)}
	for _, item := range items {
		if item.Category == feed.Tools {
			st.Tools++
		}
		if item.Hot {
			st.Hot++
		}
	}
	return st
}

// HotList returns the first n hot items in feed order.
func HotList(items []feed.Item, n int) []feed.Item {
	return firstN(items, n, func(item feed.Item) bool { return item.Hot })
}

// InCategory returns the first n items of category c in feed order.
func InCategory(items []feed.Item, c feed.Category, n int) []feed.Item {
	return firstN(items, n, func(item feed.Item) bool { return item.Category == c })
}

// TagCloud returns every distinct tag in order of first occurrence.
func TagCloud(items []feed.Item) []string {
	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, item := range items {
		for _, tag := range item.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// Derive computes all views for one render.
func Derive(items []feed.Item, s State) Snapshot {
	return Snapshot{
		Filtered: Filter(items, s),
		Counts:   Counts(items),
		Stats:    ComputeStats(items),
		Hot:      HotList(items, HotLimit),
		Tags:     TagCloud(items),
	}
}

func firstN(items []feed.Item, n int, keep func(feed.Item) bool) []feed.Item {
	if n < 0 {
		n = 0
	}
	result := make([]feed.Item, 0, n)
	for _, item := range items {
		if len(result) >= n {
			break
		}
		if keep(item) {
			result = append(result, item)
		}
	}
	return result
}
