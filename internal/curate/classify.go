package curate

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/abelbrown/aidaily/internal/feed"
)

const (
	summaryMax = 200
	maxTags    = 5
	dedupRunes = 30
)

// CleanText strips markup, decodes entities and collapses whitespace.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	text := s
	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			text = doc.Text()
		}
	}
	return strings.Join(strings.Fields(text), " ")
}

// CapSummary limits s to summaryMax runes, ending in "..." when cut.
func CapSummary(s string) string {
	runes := []rune(s)
	if len(runes) <= summaryMax {
		return s
	}
	return string(runes[:summaryMax-3]) + "..."
}

// Categorize scores title and summary against each rule and returns the
// best category. Ties go to the earlier rule; no match at all is news.
func (r Rules) Categorize(title, summary string) feed.Category {
	text := strings.ToLower(title + " " + summary)

	best, bestScore := feed.News, 0
	for _, rule := range r.Categories {
		score := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = rule.Category, score
		}
	}
	return best
}

// IsHot reports whether any hot keyword appears.
func (r Rules) IsHot(title, summary string) bool {
	text := strings.ToLower(title + " " + summary)
	for _, kw := range r.Hot {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Tags picks up to five entity names (any case) and tech keywords (exact),
// falling back to "AI".
func (r Rules) Tags(title, summary string) []string {
	text := title + " " + summary
	lower := strings.ToLower(text)

	var tags []string
	for _, e := range r.Entities {
		if strings.Contains(lower, strings.ToLower(e)) {
			tags = append(tags, e)
		}
	}
	for _, kw := range r.TechKeywords {
		if strings.Contains(text, kw) {
			tags = append(tags, kw)
		}
	}

	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	if len(tags) == 0 {
		return []string{"AI"}
	}
	return tags
}

// TitleKey is the dedup and archive key of a title.
func TitleKey(title string) string {
	runes := []rune(title)
	if len(runes) > dedupRunes {
		runes = runes[:dedupRunes]
	}
	return strings.ToLower(string(runes))
}
