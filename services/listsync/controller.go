package listsync

import (
	"context"
	"errors"
	"sync"

	"wishflix/models"
)

// Mode selects how a completed fetch is merged into the controller state.
type Mode string

const (
	// ModeReplace swaps the item list for the fetched page.
	ModeReplace Mode = "replace"
	// ModeAppend adds the fetched page after the current items, dropping
	// movies already present.
	ModeAppend Mode = "append"
)

var (
	ErrDisposed     = errors.New("controller is disposed")
	ErrLoadInFlight = errors.New("a load is already in progress")
)

// Fetcher loads one page of movies and reports the total number of pages
// the source currently claims.
type Fetcher func(ctx context.Context, page int) ([]models.Movie, int, error)

// State is a point-in-time snapshot of a paginated list.
type State struct {
	Items       []models.Movie
	CurrentPage int
	TotalPages  int
	Loading     bool
	Refreshing  bool
	Error       string
}

// Controller drives a paginated movie list through initial loads, refreshes
// and incremental page appends. At most one fetch runs at a time; a second
// request while one is in flight fails fast with ErrLoadInFlight instead of
// queueing. After Dispose completed fetches are discarded without touching
// state, so stale results can never overwrite a newer list.
type Controller struct {
	fetch Fetcher

	mu       sync.Mutex
	state    State
	disposed bool
}

func NewController(fetch Fetcher) (*Controller, error) {
	if fetch == nil {
		return nil, errors.New("fetcher is required")
	}
	return &Controller{
		fetch: fetch,
		state: State{CurrentPage: 1, TotalPages: 1},
	}, nil
}

// Snapshot returns a copy of the current state. The item slice is copied so
// callers cannot mutate controller internals.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	st := c.state
	st.Items = make([]models.Movie, len(c.state.Items))
	copy(st.Items, c.state.Items)
	return st
}

// CanAdvance reports whether a further page exists and no fetch is running.
func (c *Controller) CanAdvance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canAdvanceLocked()
}

func (c *Controller) canAdvanceLocked() bool {
	return !c.state.Loading && !c.state.Refreshing && c.state.CurrentPage < c.state.TotalPages
}

// Dispose marks the controller dead. In-flight fetches finish but their
// results are thrown away.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposed = true
}

// Load fetches page 1 and replaces the list.
func (c *Controller) Load(ctx context.Context) (State, error) {
	return c.load(ctx, 1, ModeReplace, false)
}

// Refresh refetches page 1 with the refreshing flag raised instead of the
// loading flag, so callers can render a pull-to-refresh indicator while the
// existing items stay visible.
func (c *Controller) Refresh(ctx context.Context) (State, error) {
	return c.load(ctx, 1, ModeReplace, true)
}

// LoadMore appends the next page. When no further page exists, or a fetch is
// already running, it returns the current state unchanged with a nil error.
func (c *Controller) LoadMore(ctx context.Context) (State, error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return State{}, ErrDisposed
	}
	if !c.canAdvanceLocked() {
		st := c.snapshotLocked()
		c.mu.Unlock()
		return st, nil
	}
	page := c.state.CurrentPage + 1
	c.mu.Unlock()

	return c.load(ctx, page, ModeAppend, false)
}

func (c *Controller) load(ctx context.Context, page int, mode Mode, markRefreshing bool) (State, error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return State{}, ErrDisposed
	}
	if c.state.Loading || c.state.Refreshing {
		c.mu.Unlock()
		return State{}, ErrLoadInFlight
	}
	if markRefreshing {
		c.state.Refreshing = true
	} else {
		c.state.Loading = true
	}
	c.state.Error = ""
	c.mu.Unlock()

	items, totalPages, err := c.fetch(ctx, page)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		// The list was torn down while the fetch ran. Leave state alone.
		return State{}, ErrDisposed
	}
	c.state.Loading = false
	c.state.Refreshing = false

	if err != nil {
		c.state.Error = err.Error()
		return c.snapshotLocked(), err
	}

	if totalPages < 1 {
		totalPages = 1
	}
	c.state.TotalPages = totalPages
	c.state.CurrentPage = page

	switch mode {
	case ModeAppend:
		c.state.Items = mergeAppend(c.state.Items, items)
	default:
		c.state.Items = items
	}
	return c.snapshotLocked(), nil
}

// mergeAppend concatenates fetched items after existing ones, skipping movie
// IDs already present so an overlapping page boundary never duplicates a row.
func mergeAppend(existing, fetched []models.Movie) []models.Movie {
	seen := make(map[int64]struct{}, len(existing))
	for _, m := range existing {
		seen[m.ID] = struct{}{}
	}
	merged := make([]models.Movie, 0, len(existing)+len(fetched))
	merged = append(merged, existing...)
	for _, m := range fetched {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		merged = append(merged, m)
	}
	return merged
}
