// Package controller implements the filter controller that keeps the filter
// form, the product listing, and the page URL's query string in sync. It is
// event-driven: the embedding surface reports field edits, form submissions,
// and pagination clicks, and the controller debounces, fetches, and renders
// through the capability interfaces it was constructed with.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/Rajarajeshwaran-2003/eshop/internal/domain"
	"github.com/Rajarajeshwaran-2003/eshop/internal/filter"
	"github.com/Rajarajeshwaran-2003/eshop/internal/view"
	apperrors "github.com/Rajarajeshwaran-2003/eshop/pkg/errors"
)

// DefaultDebounce is how long a debounced field must be quiet before its
// change is applied.
const DefaultDebounce = 500 * time.Millisecond

// Location reads and rewrites the page URL's query string. Rewrites replace
// the current history entry rather than pushing a new one, so filter tweaks
// do not bloat the back-stack.
type Location interface {
	Query() url.Values
	ReplaceQuery(q url.Values)
}

// Display mutates the listing UI. Implementations must not call back into
// the controller; calls arrive on the controller's internal lock.
type Display interface {
	// SetBusy toggles the loading indicator and marks the result region
	// busy for assistive tech.
	SetBusy(busy bool)
	// ShowEmpty shows the no-results indicator.
	ShowEmpty()
	// ShowError surfaces a non-fatal error message.
	ShowError(msg string)
	// ClearNotices hides the error and no-results indicators.
	ClearNotices()
	// Render replaces the product region with the given fragment.
	Render(fragment view.Node)
	// Clear empties the product region.
	Clear()
}

// Fetcher retrieves a product listing for a filter state. A superseded call
// has its context cancelled and must return the context's error.
type Fetcher interface {
	FetchProducts(ctx context.Context, st filter.State) (*domain.ProductList, error)
}

// Options tune a Controller.
type Options struct {
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Controller owns the filter state and the fetch/render cycle. At most one
// logical fetch is current at a time; issuing a new one cancels the previous
// request and guarantees its outcome never reaches the display.
type Controller struct {
	loc      Location
	display  Display
	fetcher  Fetcher
	logger   *slog.Logger
	debounce time.Duration

	mu       sync.Mutex
	state    filter.State
	timers   map[string]*time.Timer
	cancel   context.CancelFunc
	fetchID  uint64
	closed   bool
	inflight sync.WaitGroup
}

// New creates a controller with its filter state loaded from the location's
// current query string. No fetch is issued until the first event or an
// explicit Refresh.
func New(loc Location, display Display, fetcher Fetcher, opts Options) *Controller {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		loc:      loc,
		display:  display,
		fetcher:  fetcher,
		logger:   logger,
		debounce: debounce,
		state:    filter.FromQuery(loc.Query()),
		timers:   make(map[string]*time.Timer),
	}
}

// State returns a copy of the current filter state.
func (c *Controller) State() filter.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Refresh issues a fetch for the current state. Called once after
// construction to populate the listing from the URL-derived filters.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.startFetchLocked()
}

// FieldChanged reports a single form field edit. Text fields (search query,
// price bounds) are debounced; category, sort, and availability apply on the
// spot. Unrecognized fields and the page field are ignored here.
func (c *Controller) FieldChanged(name, value string) {
	switch name {
	case filter.KeySearchQuery, filter.KeyMinPrice, filter.KeyMaxPrice:
		c.debounceChange(name, value)
	case filter.KeyCategory, filter.KeySortBy, filter.KeyAvailability:
		c.applyChange(name, value)
	}
}

// FormSubmitted applies a full form snapshot at once, resets to the first
// page, and fetches immediately. Pending debounce timers are discarded since
// the snapshot already holds the latest values.
func (c *Controller) FormSubmitted(snapshot url.Values) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stopTimersLocked()
	c.state.Apply(snapshot)
	c.state.ResetPage()
	c.loc.ReplaceQuery(c.state.Query())
	c.startFetchLocked()
}

// PageSelected reports a pagination click. The page is applied as-is, a page
// beyond the current total being the backend's problem, and the fetch is
// immediate with no page reset.
func (c *Controller) PageSelected(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state.SetPage(page)
	c.loc.ReplaceQuery(c.state.Query())
	c.startFetchLocked()
}

// Close cancels pending timers and the in-flight fetch, then waits for the
// fetch goroutine to drain. The controller ignores events afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopTimersLocked()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	c.inflight.Wait()
}

func (c *Controller) debounceChange(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if t, ok := c.timers[name]; ok {
		t.Stop()
	}
	c.timers[name] = time.AfterFunc(c.debounce, func() {
		c.applyChange(name, value)
	})
}

func (c *Controller) applyChange(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state.Set(name, value)
	c.state.ResetPage()
	c.loc.ReplaceQuery(c.state.Query())
	c.startFetchLocked()
}

func (c *Controller) stopTimersLocked() {
	for name, t := range c.timers {
		t.Stop()
		delete(c.timers, name)
	}
}

// startFetchLocked begins the fetch cycle for the current state: cancel the
// prior request, enter the loading state, clear stale notices and results,
// then fetch in the background. The cancel token is replaced before the
// goroutine starts, so a later fetch always observes and cancels this one.
func (c *Controller) startFetchLocked() {
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.fetchID++
	id := c.fetchID
	st := c.state

	c.display.SetBusy(true)
	c.display.ClearNotices()
	c.display.Clear()

	c.inflight.Add(1)
	go c.fetch(ctx, cancel, id, st)
}

func (c *Controller) fetch(ctx context.Context, cancel context.CancelFunc, id uint64, st filter.State) {
	defer c.inflight.Done()
	defer cancel()

	list, err := c.fetcher.FetchProducts(ctx, st)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer fetch owns the display now; whatever happened here is void.
	if id != c.fetchID || c.closed {
		return
	}

	switch {
	case err == nil && len(list.Products) > 0:
		c.display.SetBusy(false)
		c.display.Render(view.ProductGrid(list, st))

	case err == nil:
		c.display.SetBusy(false)
		c.display.Clear()
		c.display.ShowEmpty()

	case errors.Is(err, context.Canceled):
		// Superseded request: no transitions, no message.

	case errors.Is(err, apperrors.ErrUpstream):
		c.display.SetBusy(false)
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			c.display.ShowError(appErr.Message)
		} else {
			c.display.ShowError(err.Error())
		}

	default:
		c.display.SetBusy(false)
		c.display.ShowError(err.Error())
		c.logger.Error("product fetch failed",
			slog.String("error", err.Error()),
			slog.String("query", st.Query().Encode()),
		)
	}
}
