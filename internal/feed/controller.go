// Package feed drives a paginated, filterable and searchable post feed.
//
// A Controller owns the feed state. Reset operations (Initialize, SetFilter,
// Search, ClearSearch, Refresh) start a new epoch; a fetch result is merged
// only if the epoch it was issued under is still current, so slow responses
// of superseded views are dropped instead of corrupting newer state.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/glabrego/postfeed/internal/postapi"
)

var (
	ErrFetchFailed        = errors.New("fetch failed")
	ErrUnknownFilter      = errors.New("unknown filter")
	ErrAlreadyInitialized = errors.New("feed already initialized")
)

// PageSource fetches one page of posts. It must be safe for concurrent use.
type PageSource interface {
	Fetch(ctx context.Context, req Request) ([]postapi.Post, error)
}

// Snapshot is a read-only view of the feed state. Items must not be modified.
type Snapshot struct {
	Items      []postapi.Post
	Filter     Filter
	Query      string
	Page       int
	Exhausted  bool
	Loading    bool
	Refreshing bool
	Err        string
	Epoch      uint64
	// Version increases with every state change.
	Version uint64
}

type Option func(*Controller)

// WithObserver registers fn to receive a snapshot after every state change.
// fn may be called from several goroutines; use Version to order snapshots.
func WithObserver(fn func(Snapshot)) Option {
	return func(c *Controller) { c.observer = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDefaultFilter overrides the filter selected by Initialize.
func WithDefaultFilter(f Filter) Option {
	return func(c *Controller) { c.defaultFilter = f }
}

type Controller struct {
	source        PageSource
	observer      func(Snapshot)
	logger        *log.Logger
	defaultFilter Filter

	mu          sync.Mutex
	state       State
	version     uint64
	initialized bool
}

func New(source PageSource, pageSize int, opts ...Option) (*Controller, error) {
	if source == nil {
		return nil, errors.New("page source is required")
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("page size must be positive: %d", pageSize)
	}
	c := &Controller{
		source:        source,
		logger:        log.New(io.Discard),
		defaultFilter: DefaultFilter,
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.defaultFilter.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, c.defaultFilter)
	}
	c.state = NewState(c.defaultFilter, pageSize)
	return c, nil
}

// Initialize loads page 0 of the default filter. It may be called once.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return ErrAlreadyInitialized
	}
	c.initialized = true
	t := c.resetLocked(KindInitialize, c.defaultFilter, "")
	return c.issue(ctx, t)
}

// SetFilter switches the active filter, clears the query and the loaded
// posts, and loads page 0 of the new filter.
func (c *Controller) SetFilter(ctx context.Context, f Filter) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, f)
	}
	c.mu.Lock()
	t := c.resetLocked(KindSetFilter, f, "")
	return c.issue(ctx, t)
}

// Search replaces the feed with page 0 of the posts matching text under the
// current filter. Blank text behaves like ClearSearch.
func (c *Controller) Search(ctx context.Context, text string) error {
	query := strings.TrimSpace(text)
	if query == "" {
		return c.ClearSearch(ctx)
	}
	c.mu.Lock()
	t := c.resetLocked(KindSearch, c.state.Filter, query)
	return c.issue(ctx, t)
}

func (c *Controller) ClearSearch(ctx context.Context) error {
	c.mu.Lock()
	t := c.resetLocked(KindClearSearch, c.state.Filter, "")
	return c.issue(ctx, t)
}

// Refresh reloads page 0 of the current filter without a query. Refreshing
// stays set until that fetch resolves or a later reset supersedes it.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	t := c.resetLocked(KindRefresh, c.state.Filter, "")
	return c.issue(ctx, t)
}

// LoadMore appends the next page. It does nothing while a fetch is
// outstanding or once the feed is exhausted.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	next, t, ok := c.state.BeginLoadMore()
	if !ok {
		c.mu.Unlock()
		return nil
	}
	c.state = next
	c.version++
	return c.issue(ctx, t)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) resetLocked(kind Kind, f Filter, query string) Ticket {
	next, t := c.state.Reset(kind, f, query)
	c.state = next
	c.version++
	return t
}

// issue must be called with c.mu held; it releases the lock before fetching.
func (c *Controller) issue(ctx context.Context, t Ticket) error {
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	c.logger.Debug("fetch issued", "op", t.Kind, "epoch", t.Epoch, "filter", t.Request.Filter, "page", t.Request.Page, "query", t.Request.Query)
	start := time.Now()
	items, fetchErr := c.source.Fetch(ctx, t.Request)
	elapsed := time.Since(start)

	c.mu.Lock()
	next, outcome := c.state.Resolve(t, items, fetchErr)
	if outcome == OutcomeStale {
		current := c.state.Epoch
		c.mu.Unlock()
		c.logger.Debug("stale fetch dropped", "op", t.Kind, "epoch", t.Epoch, "current", current, "page", t.Request.Page)
		return nil
	}
	c.state = next
	c.version++
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	if outcome == OutcomeFailed {
		c.logger.Warn("fetch failed", "op", t.Kind, "epoch", t.Epoch, "page", t.Request.Page, "duration", elapsed, "err", fetchErr)
		return fmt.Errorf("%w: %s page %d: %w", ErrFetchFailed, t.Kind, t.Request.Page, fetchErr)
	}
	c.logger.Debug("page merged", "op", t.Kind, "epoch", t.Epoch, "page", t.Request.Page, "fetched", len(items), "total", len(snap.Items), "exhausted", snap.Exhausted, "duration", elapsed)
	return nil
}

func (c *Controller) snapshotLocked() Snapshot {
	s := c.state
	return Snapshot{
		Items:      s.Items,
		Filter:     s.Filter,
		Query:      s.Query,
		Page:       s.Page,
		Exhausted:  s.Exhausted,
		Loading:    s.Loading,
		Refreshing: s.Refreshing,
		Err:        s.Err,
		Epoch:      s.Epoch,
		Version:    c.version,
	}
}

func (c *Controller) notify(s Snapshot) {
	if c.observer != nil {
		c.observer(s)
	}
}
