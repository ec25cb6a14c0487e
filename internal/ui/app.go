package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"

	"github.com/abelbrown/aidaily/internal/feed"
	"github.com/abelbrown/aidaily/internal/logging"
	"github.com/abelbrown/aidaily/internal/note"
	"github.com/abelbrown/aidaily/internal/reveal"
	"github.com/abelbrown/aidaily/internal/view"
)

const (
	copiedFor     = 2 * time.Second
	frameInterval = time.Second / 30
)

// Options wires the App to the outside world. Every field is optional.
type Options struct {
	// Reload asks for a fresh load. The result arrives as FeedLoaded.
	Reload func() tea.Cmd
	// ClearOnError drops the current items when a load fails.
	ClearOnError bool
	// Copy writes text to the clipboard.
	Copy func(string) error
	// Open opens a URL in the browser.
	Open func(string) error
	// Now is the clock used for reveal timing and the note date.
	Now func() time.Time
}

// App is the root Bubble Tea model.
// IMPORTANT: App does not load anything itself. It receives items via FeedLoaded.
type App struct {
	opts Options

	items      []feed.Item
	lastGen    uint64
	lastUpdate time.Time
	err        error
	loaded     bool
	refreshing bool

	state  view.State
	snap   view.Snapshot
	cursor int
	reveal *reveal.Scheduler

	search    textinput.Model
	searching bool

	showNote bool
	note     viewport.Model
	copied   bool
	copyGen  uint64
	pickHot  bool
	status   string

	spinner spinner.Model
	width   int
	height  int
	ready   bool
}

// NewApp creates a new App.
func NewApp(opts Options) App {
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Open == nil {
		opts.Open = browser.OpenURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "搜索资讯、工具、标签…"
	ti.Prompt = ""
	ti.CharLimit = 200

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = LogoStyle

	a := App{
		opts:    opts,
		state:   view.DefaultState(),
		reveal:  reveal.New(),
		search:  ti,
		note:    viewport.New(0, 0),
		spinner: s,
	}
	a.snap = view.Derive(nil, a.state)
	return a
}

// Init starts the spinner. The first load is driven by the coordinator.
func (a App) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resizeNote()
		return a, nil

	case FeedLoaded:
		return a.handleFeedLoaded(msg)

	case revealTickMsg:
		if msg.gen != a.reveal.Gen() {
			return a, nil
		}
		a.reveal.Advance(msg.gen, msg.at)
		return a, tea.Batch(a.nextReveal(msg.at), a.nextFrame(msg.at))

	case frameMsg:
		if msg.gen != a.reveal.Gen() {
			return a, nil
		}
		return a, a.nextFrame(msg.at)

	case copyDone:
		if msg.err != nil {
			logging.Warn("clipboard write failed", "err", msg.err)
			a.status = "复制失败: " + msg.err.Error()
			return a, nil
		}
		a.copied = true
		a.copyGen++
		gen := a.copyGen
		return a, tea.Tick(copiedFor, func(time.Time) tea.Msg {
			return copiedResetMsg{gen: gen}
		})

	case copiedResetMsg:
		if msg.gen == a.copyGen {
			a.copied = false
		}
		return a, nil

	case openDone:
		if msg.err != nil {
			logging.Warn("open url failed", "url", msg.url, "err", msg.err)
			a.status = "无法打开链接: " + msg.err.Error()
		} else {
			a.status = "已打开 " + msg.url
		}
		return a, nil

	case spinner.TickMsg:
		if a.loaded && !a.refreshing {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) handleFeedLoaded(msg FeedLoaded) (tea.Model, tea.Cmd) {
	if msg.Gen != 0 && msg.Gen < a.lastGen {
		return a, nil
	}
	a.lastGen = msg.Gen
	a.loaded = true
	a.refreshing = false

	if msg.Err != nil {
		a.err = msg.Err
		if !a.opts.ClearOnError || len(a.items) == 0 {
			return a, nil
		}
		a.items = nil
		return a, a.rederive()
	}

	a.err = nil
	a.items = msg.Items
	a.lastUpdate = msg.At
	return a, a.rederive()
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.searching {
		return a.handleSearchKey(msg)
	}

	if a.pickHot {
		a.pickHot = false
		if n := rankKey(key); n > 0 {
			return a, a.openHot(n - 1)
		}
		a.status = ""
		return a, nil
	}

	a.status = ""

	switch key {
	case "q":
		return a, tea.Quit

	case "r":
		return a, a.reload()

	case "tab":
		return a, a.setCategory(a.categoryStep(1))

	case "shift+tab":
		return a, a.setCategory(a.categoryStep(-1))

	case "1", "2", "3", "4", "5", "6":
		i := int(key[0] - '1')
		if i < len(feed.Categories) {
			return a, a.setCategory(feed.Categories[i].ID)
		}
		return a, nil

	case "/":
		a.searching = true
		return a, a.search.Focus()

	case "esc":
		if a.showNote {
			a.showNote = false
			return a, nil
		}
		if a.state.Query != "" {
			a.search.SetValue("")
			a.state.Query = ""
			return a, a.rederive()
		}
		return a, nil

	case "ctrl+f":
		a.state.FoldCase = !a.state.FoldCase
		return a, a.rederive()

	case "j", "down":
		if a.showNote {
			a.note.LineDown(1)
			return a, nil
		}
		if a.cursor < len(a.snap.Filtered)-1 {
			a.cursor++
		}
		return a, nil

	case "k", "up":
		if a.showNote {
			a.note.LineUp(1)
			return a, nil
		}
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "g", "home":
		a.cursor = 0
		return a, nil

	case "G", "end":
		if len(a.snap.Filtered) > 0 {
			a.cursor = len(a.snap.Filtered) - 1
		}
		return a, nil

	case "enter":
		if item, ok := a.current(); ok {
			if a.state.ExpandedID == item.ID {
				a.state.ExpandedID = ""
			} else {
				a.state.ExpandedID = item.ID
			}
		}
		return a, nil

	case "o":
		if item, ok := a.current(); ok {
			return a, a.open(item.URL)
		}
		return a, nil

	case "O":
		if len(a.snap.Hot) == 0 {
			return a, nil
		}
		a.pickHot = true
		a.status = fmt.Sprintf("打开热点 1-%d", len(a.snap.Hot))
		return a, nil

	case "n":
		a.showNote = !a.showNote
		if a.showNote {
			a.refreshNote()
		}
		return a, nil

	case "c":
		text := note.Generate(a.items, a.opts.Now())
		copyFn := a.opts.Copy
		return a, func() tea.Msg {
			return copyDone{err: copyFn(text)}
		}
	}

	return a, nil
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		a.searching = false
		a.search.Blur()
		return a, nil
	case "ctrl+f":
		a.state.FoldCase = !a.state.FoldCase
		return a, a.rederive()
	case "tab", "shift+tab":
		a.searching = false
		a.search.Blur()
		return a.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	if q := a.search.Value(); q != a.state.Query {
		a.state.Query = q
		return a, tea.Batch(cmd, a.rederive())
	}
	return a, cmd
}

// rederive recomputes the snapshot and restarts the reveal schedule.
func (a *App) rederive() tea.Cmd {
	a.snap = view.Derive(a.items, a.state)
	if a.cursor >= len(a.snap.Filtered) {
		a.cursor = len(a.snap.Filtered) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.showNote {
		a.refreshNote()
	}
	now := a.opts.Now()
	a.reveal.Trigger(len(a.snap.Filtered), now)
	return a.nextReveal(now)
}

func (a *App) setCategory(c feed.Category) tea.Cmd {
	if c == a.state.Category {
		return nil
	}
	a.state.Category = c
	a.cursor = 0
	return a.rederive()
}

func (a App) categoryStep(delta int) feed.Category {
	n := len(feed.Categories)
	for i, c := range feed.Categories {
		if c.ID == a.state.Category {
			return feed.Categories[((i+delta)%n+n)%n].ID
		}
	}
	return feed.All
}

// nextReveal schedules a tick at the next pending deadline.
func (a App) nextReveal(now time.Time) tea.Cmd {
	wait, ok := a.reveal.Next(now)
	if !ok {
		return nil
	}
	gen := a.reveal.Gen()
	return tea.Tick(wait, func(t time.Time) tea.Msg {
		return revealTickMsg{gen: gen, at: t}
	})
}

// nextFrame keeps redrawing while any revealed item is mid-transition.
func (a App) nextFrame(now time.Time) tea.Cmd {
	if !a.animating(now) {
		return nil
	}
	gen := a.reveal.Gen()
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg{gen: gen, at: t}
	})
}

func (a App) animating(now time.Time) bool {
	for i := 0; i < a.reveal.Len(); i++ {
		if !a.reveal.Revealed(i) {
			break
		}
		if a.reveal.Progress(i, now) < 1 {
			return true
		}
	}
	return false
}

func (a *App) reload() tea.Cmd {
	if a.opts.Reload == nil {
		return nil
	}
	a.refreshing = true
	return tea.Batch(a.opts.Reload(), a.spinner.Tick)
}

func (a App) current() (feed.Item, bool) {
	if a.cursor < 0 || a.cursor >= len(a.snap.Filtered) {
		return feed.Item{}, false
	}
	return a.snap.Filtered[a.cursor], true
}

func (a App) open(url string) tea.Cmd {
	if url == "" {
		return nil
	}
	openFn := a.opts.Open
	return func() tea.Msg {
		return openDone{url: url, err: openFn(url)}
	}
}

func (a App) openHot(i int) tea.Cmd {
	if i < 0 || i >= len(a.snap.Hot) {
		return nil
	}
	return a.open(a.snap.Hot[i].URL)
}

func rankKey(key string) int {
	if len(key) == 1 && key[0] >= '1' && key[0] <= '0'+view.HotLimit {
		return int(key[0] - '0')
	}
	return 0
}

func (a *App) refreshNote() {
	a.note.SetContent(note.Generate(a.items, a.opts.Now()))
	a.note.GotoTop()
}

func (a *App) resizeNote() {
	w, h := a.noteSize()
	a.note.Width = w
	a.note.Height = h
}

func (a App) noteSize() (int, int) {
	w := a.width - 4
	if w > 60 {
		w = 60
	}
	h := a.height - 8
	if h < 3 {
		h = 3
	}
	return w, h
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if !a.loaded {
		return RenderLoading(a.spinner.View(), a.width, a.height)
	}
	if a.err != nil && len(a.items) == 0 {
		return RenderErrorScreen(a.err, a.width, a.height-1) + "\n" + RenderStatusBar(a.status, a.width)
	}

	busy := ""
	if a.refreshing {
		busy = a.spinner.View()
	}
	sections := []string{
		RenderHeader(a.snap.Stats, a.lastUpdate, a.width, busy),
		RenderCategoryBar(a.state.Category, a.snap.Counts, a.width),
		RenderSearch(a.search.View(), a.state.FoldCase, len(a.snap.Filtered)),
	}
	if a.err != nil {
		sections = append(sections, ErrorStyle.Render("⚠️ 刷新失败，显示上次的数据: "+a.err.Error()))
	}

	used := 1 // status bar
	for _, s := range sections {
		used += lipgloss.Height(s)
	}
	bodyHeight := a.height - used
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	if a.showNote {
		body = a.renderNote(bodyHeight)
	} else {
		body = a.renderBody(bodyHeight)
	}

	sections = append(sections, body, RenderStatusBar(a.statusText(), a.width))
	return strings.Join(sections, "\n")
}

func (a App) renderBody(height int) string {
	listWidth := a.width
	showSidebar := a.width >= minSidebarTotal
	if showSidebar {
		listWidth = a.width - sidebarWidth - 1
	}

	list := RenderList(a.snap.Filtered, a.cursor, a.state.ExpandedID, a.reveal, a.opts.Now(), listWidth, height)
	list = lipgloss.NewStyle().Width(listWidth).Height(height).MaxHeight(height).Render(list)
	if !showSidebar {
		return list
	}
	side := RenderSidebar(a.snap.Hot, a.snap.Tags, sidebarWidth, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, " ", side)
}

func (a App) renderNote(height int) string {
	title := SectionTitle.Render("📝 小红书笔记生成")
	if a.copied {
		title += "  " + CopiedStyle.Render("✓ 已复制！")
	} else {
		title += "  " + MetaItem.Render("c 复制笔记 · esc 收起")
	}
	vp := a.note
	if vp.Height > height-3 {
		vp.Height = height - 3
	}
	if vp.Height < 1 {
		vp.Height = 1
	}
	return title + "\n" + NotePanel.Render(vp.View())
}

func (a App) statusText() string {
	if a.status != "" {
		return a.status
	}
	if a.copied {
		return "✓ 已复制！"
	}
	if a.searching {
		return "搜索中 (esc 结束, ctrl+f 忽略大小写)"
	}
	return ""
}

// Snapshot returns the current derived view (for testing).
func (a App) Snapshot() view.Snapshot {
	return a.snap
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Items returns the current items (for testing).
func (a App) Items() []feed.Item {
	return a.items
}

// Err returns the last load error (for testing).
func (a App) Err() error {
	return a.err
}

// Copied reports whether the copy confirmation is showing.
func (a App) Copied() bool {
	return a.copied
}

// Reveal returns the reveal scheduler (for testing).
func (a App) Reveal() *reveal.Scheduler {
	return a.reveal
}

// State returns the current filter state (for testing).
func (a App) State() view.State {
	return a.state
}
