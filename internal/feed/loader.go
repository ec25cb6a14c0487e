package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/abelbrown/aidaily/internal/logging"
)

// maxFeedBytes caps how much of a feed resource is read.
const maxFeedBytes = 16 << 20

// ErrFeedTooLarge is wrapped in the TransportError returned when the
// resource is larger than the loader accepts.
var ErrFeedTooLarge = errors.New("feed too large")

// Loader reads the feed resource. Each Load is one independent read.
// Safe for concurrent use.
type Loader struct {
	source string
	client   *http.Client
	now      func() time.Time
	maxBytes int64

	mu         sync.Mutex
	lastUpdate time.Time
}

// NewLoader creates a Loader for source, which is an http(s) URL or a local
// file path (optionally prefixed with file://). timeout bounds HTTP reads;
// zero means no timeout.
func NewLoader(source string, timeout time.Duration) *Loader {
	return &Loader{
		source: source,
		client:   &http.Client{Timeout: timeout},
		now:      time.Now,
		maxBytes: maxFeedBytes,
	}
}

// Source returns the configured feed location.
func (l *Loader) Source() string {
	return l.source
}

// IsLocal reports whether the source is a file on disk.
func (l *Loader) IsLocal() bool {
	return !isHTTP(l.source)
}

// LocalPath returns the file path for local sources.
func (l *Loader) LocalPath() string {
	return strings.TrimPrefix(l.source, "file://")
}

// LastUpdate returns the time of the last successful load, or zero.
// Loads whose context was cancelled never count as successful.
func (l *Loader) LastUpdate() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastUpdate
}

// Load reads and validates the feed. It fails with *TransportError when the
// read does not complete and *ShapeError when the payload is not an array.
// Items are returned as received, without per-item validation.
func (l *Loader) Load(ctx context.Context) ([]Item, error) {
	if ctx.Err() != nil {
		return nil, &TransportError{Source: l.source, Err: ctx.Err()}
	}

	var data []byte
	var err error
	if isHTTP(l.source) {
		data, err = l.readHTTP(ctx)
	} else {
		data, err = l.readFile()
	}
	if err != nil {
		return nil, err
	}

	items, err := decode(l.source, data)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, &TransportError{Source: l.source, Err: ctx.Err()}
	}

	l.mu.Lock()
	l.lastUpdate = l.now()
	l.mu.Unlock()

	return items, nil
}

func (l *Loader) readHTTP(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, &TransportError{Source: l.source, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", "aidaily/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &TransportError{Source: l.source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Source:     l.source,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	return l.readAll(resp.Body, "read body")
}

func (l *Loader) readFile() ([]byte, error) {
	f, err := os.Open(l.LocalPath())
	if err != nil {
		return nil, &TransportError{Source: l.source, Err: err}
	}
	defer f.Close()

	return l.readAll(f, "read file")
}

// readAll reads r up to the size cap. A resource over the cap is a
// transport failure rather than a truncated payload.
func (l *Loader) readAll(r io.Reader, op string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, &TransportError{Source: l.source, Err: fmt.Errorf("%s: %w", op, err)}
	}
	if int64(len(data)) > l.maxBytes {
		return nil, &TransportError{
			Source: l.source,
			Err:    fmt.Errorf("%w: exceeds %s", ErrFeedTooLarge, formatSize(l.maxBytes)),
		}
	}
	return data, nil
}

func formatSize(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%d MiB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}

// decode checks the top-level shape and decodes each element leniently:
// a field of the wrong type is left zero rather than failing the load.
func decode(source string, data []byte) ([]Item, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		var syntaxErr error = errors.New("invalid JSON")
		var probe any
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			syntaxErr = err
		}
		return nil, &ShapeError{Source: source, Err: syntaxErr}
	}
	if trimmed[0] != '[' {
		return nil, &ShapeError{Source: source, Got: jsonKind(trimmed[0])}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &ShapeError{Source: source, Err: err}
	}

	items := make([]Item, 0, len(raw))
	for i, r := range raw {
		var item Item
		// Type mismatches leave the affected fields zero; elements that are
		// not objects become empty items.
		if err := json.Unmarshal(r, &item); err != nil {
			logging.WithPrefix("feed").Debug("lenient item decode", "source", source, "index", i, "err", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func jsonKind(first byte) string {
	switch first {
	case '{':
		return "object"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func isHTTP(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
