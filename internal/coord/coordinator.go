// Package coord runs the feed refresh schedule for the dashboard.
package coord

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/abelbrown/aidaily/internal/feed"
	"github.com/abelbrown/aidaily/internal/logging"
	"github.com/abelbrown/aidaily/internal/ui"
)

// DefaultInterval is the time between scheduled refreshes.
const DefaultInterval = 5 * time.Minute

// loader interface for dependency injection (testing).
type loader interface {
	Load(ctx context.Context) ([]feed.Item, error)
	Source() string
	LastUpdate() time.Time
}

// Sender receives results. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Coordinator loads the feed once at start, then on every tick, on manual
// request, and (optionally) whenever a local feed file changes.
// Uses context cancellation as the ONLY stop mechanism.
//
// Every load is stamped with a generation. Starting a load cancels the one
// still in flight, and a result is delivered only if nothing newer has been
// delivered already, so a slow superseded load can never overwrite fresh data.
type Coordinator struct {
	loader    loader
	interval  time.Duration
	watchPath string // local feed file to watch, empty to disable
	now       func() time.Time
	log       *log.Logger

	refresh chan struct{}

	mu        sync.Mutex
	gen       uint64             // last started
	delivered uint64             // last delivered
	cancel    context.CancelFunc // cancels the in-flight load

	wg sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithInterval overrides the refresh interval.
func WithInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithWatch reloads whenever the file at path is written or replaced.
func WithWatch(path string) Option {
	return func(c *Coordinator) { c.watchPath = path }
}

// NewCoordinator creates a Coordinator around the given loader.
func NewCoordinator(l loader, opts ...Option) *Coordinator {
	c := &Coordinator{
		loader:   l,
		interval: DefaultInterval,
		now:      time.Now,
		log:      logging.WithPrefix("coord"),
		refresh:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins background refreshing. Call with a cancellable context.
// Performs an initial load immediately, then one per interval. A failed
// load never stops the ticker; the next tick simply tries again.
func (c *Coordinator) Start(ctx context.Context, out Sender) {
	events, closeWatch := c.watch()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer closeWatch()

		c.spawn(ctx, out)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.spawn(ctx, out)
			case <-c.refresh:
				c.spawn(ctx, out)
			case <-events:
				c.log.Debug("feed file changed", "path", c.watchPath)
				c.spawn(ctx, out)
			}
		}
	}()
}

// Refresh requests an immediate load. Requests made while one is already
// pending collapse into one. Never blocks.
func (c *Coordinator) Refresh() {
	select {
	case c.refresh <- struct{}{}:
	default:
	}
}

// Wait blocks until the background goroutines exit.
// Call after canceling the context passed to Start.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// spawn runs one load in its own goroutine so a slow read never delays the
// schedule.
func (c *Coordinator) spawn(ctx context.Context, out Sender) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		msg, ok := c.LoadOnce(ctx)
		if !ok || out == nil {
			return
		}
		out.Send(msg)
	}()
}

// LoadOnce performs one generation-stamped load. ok is false when the
// result was superseded (or cancelled) and must be discarded.
func (c *Coordinator) LoadOnce(ctx context.Context) (ui.FeedLoaded, bool) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	start := c.now()
	items, err := c.loader.Load(loadCtx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen == c.gen {
		c.cancel = nil
	}
	if loadCtx.Err() != nil {
		c.log.Debug("load cancelled", "gen", gen)
		return ui.FeedLoaded{}, false
	}
	if gen <= c.delivered {
		c.log.Debug("load superseded", "gen", gen, "delivered", c.delivered)
		return ui.FeedLoaded{}, false
	}
	c.delivered = gen

	msg := ui.FeedLoaded{Gen: gen, Items: items, Err: err}
	if err != nil {
		c.log.Error("feed load failed", "source", c.loader.Source(), "gen", gen, "err", err)
		return msg, true
	}
	msg.At = c.loader.LastUpdate()
	c.log.Info("feed loaded", "source", c.loader.Source(), "gen", gen, "items", len(items), "took", c.now().Sub(start))
	return msg, true
}

// watch starts an fsnotify watcher on the feed file's directory when
// configured. Editors often replace files instead of writing in place, so
// the directory is watched and events are filtered by name.
func (c *Coordinator) watch() (<-chan struct{}, func()) {
	if c.watchPath == "" {
		return nil, func() {}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		c.log.Warn("file watch unavailable", "err", err)
		return nil, func() {}
	}
	dir := filepath.Dir(c.watchPath)
	if err := w.Add(dir); err != nil {
		c.log.Warn("file watch unavailable", "dir", dir, "err", err)
		w.Close()
		return nil, func() {}
	}

	base := filepath.Base(c.watchPath)
	events := make(chan struct{}, 1)
	done := make(chan struct{})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				select {
				case events <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				c.log.Warn("file watch error", "err", err)
			}
		}
	}()

	return events, func() {
		close(done)
		w.Close()
	}
}
