package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/aidaily/internal/feed"
	"github.com/abelbrown/aidaily/internal/reveal"
	"github.com/abelbrown/aidaily/internal/view"
)

const (
	sidebarWidth    = 34
	minSidebarTotal = 90 // narrower terminals drop the sidebar
	updateLayout    = "1/2 15:04"
)

var hotRanks = [view.HotLimit]string{"1", "2", "3", "4", "5"}

// truncate shortens s to w terminal cells. CJK runes count double.
func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(s, w, "…")
}

// RenderHeader renders the logo line and the counters.
func RenderHeader(stats view.Stats, lastUpdate time.Time, width int, busy string) string {
	logo := LogoStyle.Render("◆ AI DAILY") + "  " + SubtitleStyle.Render("每日 AI 世界动态汇总")

	stat := func(label string, n int) string {
		return StatValue.Render(fmt.Sprintf("%d", n)) + " " + StatLabel.Render(label)
	}
	right := strings.Join([]string{
		stat("资讯数", stats.Total),
		stat("工具数", stats.Tools),
		stat("热点数", stats.Hot),
	}, "  ")
	if !lastUpdate.IsZero() {
		right += "  " + MetaItem.Render("已更新 "+lastUpdate.Format(updateLayout))
	}
	if busy != "" {
		right = busy + " " + right
	}

	pad := width - lipgloss.Width(logo) - lipgloss.Width(right)
	if pad < 1 {
		return logo + "\n" + right
	}
	return logo + strings.Repeat(" ", pad) + right
}

// RenderCategoryBar renders one tab per category with its count.
func RenderCategoryBar(active feed.Category, counts map[feed.Category]int, width int) string {
	tabs := make([]string, 0, len(feed.Categories))
	for i, c := range feed.Categories {
		label := fmt.Sprintf("%d %s %s %d", i+1, c.Icon, c.Label, counts[c.ID])
		if c.ID == active {
			tabs = append(tabs, CategoryTabActive.Render(label))
			continue
		}
		tabs = append(tabs, CategoryTab.Render(label))
	}
	bar := strings.Join(tabs, "")
	if lipgloss.Width(bar) > width && width > 0 {
		return lipgloss.NewStyle().MaxWidth(width).Render(bar)
	}
	return bar
}

// RenderSearch renders the search line.
func RenderSearch(input string, foldCase bool, shown int) string {
	mode := "Aa"
	if foldCase {
		mode = "aa"
	}
	return SearchPrompt.Render("⌕ ") + input + "  " +
		MetaItem.Render(fmt.Sprintf("[%s] %d 项", mode, shown))
}

// RenderList renders the filtered items with the cursor kept visible.
// Items the scheduler has not revealed yet keep their space but stay blank.
func RenderList(items []feed.Item, cursor int, expandedID feed.ID, sched *reveal.Scheduler, now time.Time, width, height int) string {
	if len(items) == 0 {
		return HelpStyle.Render("暂无相关资讯")
	}
	if height < 1 {
		height = 1
	}

	blocks := make([][]string, len(items))
	for i, item := range items {
		blocks[i] = renderItem(item, i == cursor, item.ID == expandedID, sched, i, now, width)
	}

	start := listOffset(blocks, cursor, height)
	lines := make([]string, 0, height)
	for i := start; i < len(blocks) && len(lines) < height; i++ {
		for _, l := range blocks[i] {
			if len(lines) >= height {
				break
			}
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

// listOffset finds the first block to draw so the cursor block fits.
func listOffset(blocks [][]string, cursor, height int) int {
	if cursor < 0 || cursor >= len(blocks) {
		return 0
	}
	used := 0
	start := cursor
	for start >= 0 {
		used += len(blocks[start])
		if used > height {
			break
		}
		start--
	}
	start++
	if start > cursor {
		start = cursor
	}
	return start
}

func renderItem(item feed.Item, selected, expanded bool, sched *reveal.Scheduler, idx int, now time.Time, width int) []string {
	if sched != nil && !sched.Revealed(idx) {
		n := 2
		if expanded {
			n = 2 + len(summaryLines(item, width))
		}
		return make([]string, n)
	}

	progress := 1.0
	if sched != nil {
		progress = sched.Progress(idx, now)
	}
	indent := strings.Repeat(" ", slideOffset(progress))

	stripe := lipgloss.NewStyle().Foreground(CategoryColor(item.Category)).Render("▍")
	hot := ""
	if item.Hot {
		hot = HotBadge.Render("🔥") + " "
	}

	avail := width - len(indent) - 3 - lipgloss.Width(hot)
	title := truncate(item.Title, avail)
	switch {
	case selected:
		title = SelectedTitle.Render(title)
	case progress < 0.5:
		title = EnteringTitle.Render(title)
	default:
		title = TitleStyle.Render(title)
	}

	meta := []string{lipgloss.NewStyle().Foreground(CategoryColor(item.Category)).Render(item.Category.Label())}
	if item.Source != "" {
		meta = append(meta, item.Source)
	}
	if item.Date != "" {
		meta = append(meta, item.Date)
	}
	metaLine := MetaItem.Render(strings.Join(meta, " · "))
	for _, tag := range item.Tags {
		metaLine += " " + TagStyle.Render("#"+tag)
	}

	lines := []string{
		indent + stripe + " " + hot + title,
		indent + "  " + truncateStyled(metaLine, width-len(indent)-2),
	}
	if expanded {
		for _, l := range summaryLines(item, width) {
			lines = append(lines, indent+"  "+l)
		}
	}
	return lines
}

// summaryLines wraps the summary and link of an expanded item.
func summaryLines(item feed.Item, width int) []string {
	w := width - 4
	if w < 10 {
		w = 10
	}
	var out []string
	if item.Summary != "" {
		wrapped := SummaryStyle.Width(w).Render(item.Summary)
		out = append(out, strings.Split(wrapped, "\n")...)
	}
	if item.URL != "" {
		out = append(out, MetaItem.Render("↗ "+truncate(item.URL, w-2)))
	}
	return out
}

func truncateStyled(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= w {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(w).Render(s)
}

// RenderSidebar renders the hot list and the tag cloud.
func RenderSidebar(hot []feed.Item, tags []string, width, height int) string {
	var b strings.Builder
	b.WriteString(SectionTitle.Render(HotBadge.Render("🔥") + " 今日 TOP 热点"))
	b.WriteString("\n")
	if len(hot) == 0 {
		b.WriteString(MetaItem.Render("暂无热点"))
		b.WriteString("\n")
	}
	for i, item := range hot {
		rank := HotBadge.Render(hotRanks[i])
		b.WriteString(rank + " " + truncate(item.Title, width-4))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(SectionTitle.Render("🏷️ 热门标签"))
	b.WriteString("\n")

	line := ""
	for _, tag := range tags {
		chip := TagStyle.Render("#" + tag)
		if line != "" && lipgloss.Width(line)+1+lipgloss.Width(chip) > width-2 {
			b.WriteString(line)
			b.WriteString("\n")
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += chip
	}
	if line != "" {
		b.WriteString(line)
	}

	return SidebarStyle.Width(width).MaxHeight(height).Render(b.String())
}

// RenderStatusBar renders the bottom status bar with key hints and status text.
func RenderStatusBar(status string, width int) string {
	keys := []string{
		StatusBarKey.Render("tab") + StatusBarText.Render(":分类"),
		StatusBarKey.Render("/") + StatusBarText.Render(":搜索"),
		StatusBarKey.Render("enter") + StatusBarText.Render(":展开"),
		StatusBarKey.Render("o") + StatusBarText.Render(":打开"),
		StatusBarKey.Render("n") + StatusBarText.Render(":笔记"),
		StatusBarKey.Render("r") + StatusBarText.Render(":刷新"),
		StatusBarKey.Render("q") + StatusBarText.Render(":退出"),
	}
	keyHints := strings.Join(keys, " ")

	left := ""
	if status != "" {
		left = " " + status + " "
	}
	padding := width - lipgloss.Width(left) - lipgloss.Width(keyHints) - 2
	if padding < 0 {
		padding = 0
	}
	return StatusBar.Width(width).Render(left + strings.Repeat(" ", padding) + keyHints)
}

// RenderErrorScreen renders the full-screen failure shown when there is
// nothing to display.
func RenderErrorScreen(err error, width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		ErrorStyle.Render("⚠️ 数据加载失败"),
		ErrorDetail.Render(err.Error()),
		HelpStyle.Render(errorHint(err)),
		"",
		StatusBarKey.Render("r")+StatusBarText.Render(" 重新加载")+"   "+
			StatusBarKey.Render("q")+StatusBarText.Render(" 退出"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// errorHint suggests what to check for each failure kind.
func errorHint(err error) string {
	switch {
	case feed.IsShape(err):
		return "数据格式不正确，应为资讯数组"
	case feed.IsTransport(err):
		return "请检查网络连接或数据源地址"
	default:
		return ""
	}
}

// RenderLoading renders the initial loading screen.
func RenderLoading(spin string, width, height int) string {
	body := LogoStyle.Render(spin) + " " + SubtitleStyle.Render("正在加载最新资讯...")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
