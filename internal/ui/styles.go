package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/aidaily/internal/feed"
)

// Colors used in the application.
var (
	colorAccent    = lipgloss.Color("#7dd3fc")
	colorHot       = lipgloss.Color("#ff6b6b")
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorSurface   = lipgloss.Color("236")
	colorSuccess   = lipgloss.Color("78") // Green
)

// categoryColors tints each category's stripe and badge.
var categoryColors = map[feed.Category]lipgloss.Color{
	feed.News:     lipgloss.Color("#7dd3fc"),
	feed.Tools:    lipgloss.Color("#86efac"),
	feed.Research: lipgloss.Color("#c4b5fd"),
	feed.Industry: lipgloss.Color("#fcd34d"),
	feed.Safety:   lipgloss.Color("#fca5a5"),
}

// fallbackColor is used for categories outside the enumeration.
var fallbackColor = lipgloss.Color("#ffffff")

// CategoryColor returns the display color for c.
func CategoryColor(c feed.Category) lipgloss.Color {
	if !c.Known() {
		return fallbackColor
	}
	return categoryColors[c]
}

// LogoStyle for the header title.
var LogoStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorAccent)

// SubtitleStyle for secondary header text.
var SubtitleStyle = lipgloss.NewStyle().
	Foreground(colorSecondary)

// StatValue renders a header counter.
var StatValue = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// StatLabel renders a header counter's caption.
var StatLabel = lipgloss.NewStyle().
	Foreground(colorMuted)

// CategoryTab style for inactive category tabs.
var CategoryTab = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// CategoryTabActive style for the selected category tab.
var CategoryTabActive = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("232")).
	Background(colorAccent).
	Padding(0, 1)

// SearchPrompt style for the search icon.
var SearchPrompt = lipgloss.NewStyle().
	Foreground(colorAccent)

// SectionTitle style for list and sidebar headings.
var SectionTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// TitleStyle for an item title.
var TitleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// SelectedTitle for the item under the cursor.
var SelectedTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorSurface)

// EnteringTitle for items still sliding in.
var EnteringTitle = lipgloss.NewStyle().
	Foreground(colorMuted)

// SummaryStyle for expanded summaries.
var SummaryStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("250"))

// MetaItem style for source, date and tags.
var MetaItem = lipgloss.NewStyle().
	Foreground(colorSecondary)

// TagStyle for a single tag chip.
var TagStyle = lipgloss.NewStyle().
	Foreground(colorAccent)

// HotBadge marks hot items.
var HotBadge = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHot)

// SidebarStyle frames the sidebar column.
var SidebarStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder(), false, false, false, true).
	BorderForeground(colorMuted).
	PaddingLeft(1)

// NotePanel frames the note viewport.
var NotePanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1)

// CopiedStyle for the copy confirmation.
var CopiedStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorSuccess)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(colorSurface).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorAccent).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// ErrorDetail for the error message under the heading.
var ErrorDetail = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// HelpStyle for help and empty-state text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)
