// Package ui provides the Bubble Tea dashboard for the AI daily feed.
package ui

import (
	"time"

	"github.com/abelbrown/aidaily/internal/feed"
	"github.com/abelbrown/aidaily/internal/reveal"
)

// FeedLoaded is sent when a feed load finishes.
// Gen increases with every load; At is zero on failure.
type FeedLoaded struct {
	Gen   uint64
	Items []feed.Item
	Err   error
	At    time.Time
}

// revealTickMsg fires at the next reveal deadline of schedule gen.
type revealTickMsg struct {
	gen reveal.Gen
	at  time.Time
}

// frameMsg redraws items that are still sliding in.
type frameMsg struct {
	gen reveal.Gen
	at  time.Time
}

// copyDone reports the clipboard write.
type copyDone struct {
	err error
}

// copiedResetMsg clears the "copied" flag set by copy gen.
type copiedResetMsg struct {
	gen uint64
}

// openDone reports a browser open.
type openDone struct {
	url string
	err error
}
