// Package feed owns the fetch, filter and paginate lifecycle of a company's
// action-item list.
package feed

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/actionfeed/internal/domain"
)

// State is the lifecycle state of the feed.
type State string

const (
	StateInitialLoading State = "INITIAL_LOADING"
	StateLoaded         State = "LOADED"
	StateEmpty          State = "EMPTY"
	StateFiltering      State = "FILTERING"
	StateLoadingMore    State = "LOADING_MORE"
)

// Defaults for Options.
const (
	DefaultPageSize = 50
	DefaultMoreSize = 10
	DefaultDebounce = 500 * time.Millisecond
)

// Backend lists action items.
type Backend interface {
	ListActionItems(ctx context.Context, q domain.ActionItemQuery) (*domain.ActionItemPage, error)
}

// Alerter reports failures to the user.
type Alerter interface {
	Failure(msg string)
}

// Options tune the controller. Zero values take the defaults.
type Options struct {
	PageSize int
	MoreSize int
	Debounce time.Duration
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.MoreSize <= 0 {
		o.MoreSize = DefaultMoreSize
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	return o
}

// Controller holds the current page and filter state of one feed view. It is safe
// for concurrent use. Every fetch is tagged with a sequence number and responses
// that were overtaken by a newer fetch are discarded.
type Controller struct {
	backend Backend
	alert   Alerter
	opts    Options

	mu          sync.Mutex
	companyID   uuid.UUID
	state       State
	filters     Filters
	items       []*domain.ActionItem
	cursor      *domain.Cursor
	collections *Collections
	seq         uint64
	timer       *time.Timer
	searchGen   uint64
}

// NewController creates a controller for companyID in the INITIAL_LOADING state.
// A nil alerter logs failures.
func NewController(backend Backend, alert Alerter, companyID uuid.UUID, opts Options) *Controller {
	if alert == nil {
		alert = LogAlerter{}
	}
	return &Controller{
		backend:   backend,
		alert:     alert,
		opts:      opts.withDefaults(),
		companyID: companyID,
		state:     StateInitialLoading,
		filters:   DefaultFilters(),
	}
}

// Fetch replaces the current page with the first page for the current filters.
func (c *Controller) Fetch(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	prev := c.state
	if prev != StateInitialLoading {
		c.state = StateFiltering
	}
	q := c.filters.Query(c.companyID, c.opts.PageSize, nil)
	c.mu.Unlock()

	page, err := c.backend.ListActionItems(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		log.Debug().Uint64("seq", seq).Uint64("current", c.seq).Msg("feed: discarding stale page")
		return nil
	}
	if err != nil {
		c.state = c.restoreLocked(prev)
		c.alert.Failure(domain.MsgTryAgainLater)
		return fmt.Errorf("feed.Controller.Fetch: %w", err)
	}

	if page == nil {
		page = &domain.ActionItemPage{}
	}
	c.items = slices.Clone(page.Items)
	c.cursor = page.LastEvaluatedKey
	c.state = c.settledLocked()
	return nil
}

// FetchMore appends the next page. It is a no-op when the last page was reached or
// any fetch is already in flight.
func (c *Controller) FetchMore(ctx context.Context) error {
	c.mu.Lock()
	if c.cursor.IsZero() || c.busyLocked() {
		c.mu.Unlock()
		return nil
	}
	seq := c.seq
	prev := c.state
	c.state = StateLoadingMore
	q := c.filters.Query(c.companyID, c.opts.MoreSize, c.cursor)
	c.mu.Unlock()

	page, err := c.backend.ListActionItems(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		log.Debug().Uint64("seq", seq).Uint64("current", c.seq).Msg("feed: discarding stale follow-on page")
		return nil
	}
	if err != nil {
		c.state = c.restoreLocked(prev)
		c.alert.Failure(domain.MsgTryAgainLater)
		return fmt.Errorf("feed.Controller.FetchMore: %w", err)
	}

	if page == nil {
		page = &domain.ActionItemPage{}
	}
	c.items = append(c.items, page.Items...)
	c.cursor = page.LastEvaluatedKey
	c.state = c.settledLocked()
	return nil
}

// ApplyFilter merges patch into the filter state and re-fetches.
func (c *Controller) ApplyFilter(ctx context.Context, patch Patch) error {
	c.mu.Lock()
	c.filters = patch.Apply(c.filters)
	c.mu.Unlock()

	return c.Fetch(ctx)
}

// ClearFilters resets the filter state and re-fetches.
func (c *Controller) ClearFilters(ctx context.Context) error {
	c.mu.Lock()
	c.filters = DefaultFilters()
	c.mu.Unlock()

	return c.Fetch(ctx)
}

// Search sets the search key after the debounce interval. Calls inside the interval
// coalesce into one fetch for the last key.
func (c *Controller) Search(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()
	gen := c.searchGen
	c.timer = time.AfterFunc(c.opts.Debounce, func() { c.runSearch(ctx, key, gen) })
}

// runSearch applies a debounced search key unless the search was superseded,
// cancelled or the company changed after the timer fired.
func (c *Controller) runSearch(ctx context.Context, key string, gen uint64) {
	c.mu.Lock()
	if gen != c.searchGen {
		c.mu.Unlock()
		log.Debug().Str("search_key", key).Msg("feed: dropping superseded search")
		return
	}
	c.timer = nil
	c.filters = Patch{SearchKey: &key}.Apply(c.filters)
	c.mu.Unlock()

	if err := c.Fetch(ctx); err != nil {
		log.Warn().Err(err).Str("search_key", key).Msg("feed: search failed")
	}
}

// SetCompany switches the feed to another company, dropping all state, and fetches
// its first page.
func (c *Controller) SetCompany(ctx context.Context, companyID uuid.UUID) error {
	c.mu.Lock()
	c.stopTimerLocked()
	c.seq++
	c.companyID = companyID
	c.state = StateInitialLoading
	c.filters = DefaultFilters()
	c.items = nil
	c.cursor = nil
	c.collections = nil
	c.mu.Unlock()

	return c.Fetch(ctx)
}

// SetCollections records the onboarding collection sizes used by the empty state.
func (c *Controller) SetCollections(col Collections) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collections = &col
}

// Remove drops an item from the loaded page without a round trip.
func (c *Controller) Remove(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(it *domain.ActionItem) bool { return it.ID == id })
	if len(c.items) == n {
		return false
	}
	if c.state == StateLoaded || c.state == StateEmpty {
		c.state = c.settledLocked()
	}
	return true
}

// Item returns a loaded item by id.
func (c *Controller) Item(id uuid.UUID) (*domain.ActionItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return nil, false
}

// CompanyID returns the company the feed is bound to.
func (c *Controller) CompanyID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.companyID
}

// View returns a snapshot of the visible feed.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := c.filters.Query(c.companyID, 0, nil)
	shown := visible(c.items, q)

	v := View{
		State:   c.state,
		Filters: c.filters,
		Buckets: GroupByDay(shown, c.filters.Sort),
		Count:   len(shown),
		HasMore: !c.cursor.IsZero(),
	}
	v.Filters.ModuleTypes = slices.Clone(c.filters.ModuleTypes)
	if len(shown) == 0 && c.state != StateInitialLoading {
		v.Message, v.Hint = emptyState(c.filters, c.collections)
	}
	return v
}

// Close stops a pending debounced search.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
}

func (c *Controller) stopTimerLocked() {
	c.searchGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) busyLocked() bool {
	switch c.state {
	case StateInitialLoading, StateFiltering, StateLoadingMore:
		return true
	default:
		return false
	}
}

func (c *Controller) settledLocked() State {
	if len(visible(c.items, c.filters.Query(c.companyID, 0, nil))) == 0 {
		return StateEmpty
	}
	return StateLoaded
}

// restoreLocked returns the state to fall back to after a failed fetch. Transient
// states are never restored since their fetch is gone.
func (c *Controller) restoreLocked(prev State) State {
	if prev == StateFiltering || prev == StateLoadingMore {
		return c.settledLocked()
	}
	return prev
}
