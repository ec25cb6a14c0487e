// Package note renders the daily social post (a Xiaohongshu-style note)
// from the feed.
package note

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/aidaily/internal/feed"
	"github.com/abelbrown/aidaily/internal/view"
)

// Placeholder is the whole note when the feed is empty.
const Placeholder = "暂无数据，请稍后重试..."

// Section sizes. Fixed policy.
const (
	HotCount      = 5
	ToolsCount    = 3
	ResearchCount = 2
)

// DateLayout matches the zh-CN numeric date style (2026/10/19).
const DateLayout = "2006/01/02"

const divider = "━━━━━━━━━━━━━━━━━━━━━━"

// rankMarkers label the hot items by position.
var rankMarkers = [HotCount]string{"🥇", "🥈", "🥉", "④", "⑤"}

// Generate builds the note for items as of now. The output depends only on
// items and the calendar date of now.
func Generate(items []feed.Item, now time.Time) string {
	if len(items) == 0 {
		return Placeholder
	}

	hot := view.HotList(items, HotCount)
	tools := view.InCategory(items, feed.Tools, ToolsCount)
	research := view.InCategory(items, feed.Research, ResearchCount)

	var b strings.Builder
	fmt.Fprintf(&b, "🤖 AI日报 | %s\n", now.Format(DateLayout))
	b.WriteString(divider + "\n\n")
	b.WriteString("✨ 今日必看 TOP热点\n\n")
	for i, item := range hot {
		fmt.Fprintf(&b, "%s %s\n", rankMarkers[i], item.Title)
		fmt.Fprintf(&b, "→ %s\n\n", item.Summary)
	}

	b.WriteString(divider + "\n")
	b.WriteString("🛠️ 今日工具推荐\n\n")
	for _, item := range tools {
		fmt.Fprintf(&b, "💎 %s\n", item.Title)
		fmt.Fprintf(&b, "%s\n\n", item.Summary)
	}

	b.WriteString(divider + "\n")
	b.WriteString("🔬 前沿研究一瞥\n\n")
	for _, item := range research {
		fmt.Fprintf(&b, "📌 %s\n", item.Title)
		fmt.Fprintf(&b, "%s\n\n", item.Summary)
	}

	b.WriteString(divider + "\n")
	b.WriteString("💡 今日 AI 金句\n")
	b.WriteString("\"2026 不是 AI 的终结，而是它从炒作走向务实的起点。\"\n\n")
	b.WriteString("🔗 更多详情请访问：AI Daily 汇总站\n")
	b.WriteString("#AI日报 #人工智能 #AI工具 #科技资讯 #小红书")

	return b.String()
}
