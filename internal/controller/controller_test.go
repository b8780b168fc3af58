package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajarajeshwaran-2003/eshop/internal/domain"
	"github.com/Rajarajeshwaran-2003/eshop/internal/filter"
	"github.com/Rajarajeshwaran-2003/eshop/internal/view"
	apperrors "github.com/Rajarajeshwaran-2003/eshop/pkg/errors"
)

const testDebounce = 25 * time.Millisecond

type fakeLocation struct {
	mu       sync.Mutex
	q        url.Values
	replaced []url.Values
}

func newFakeLocation(rawQuery string) *fakeLocation {
	q, _ := url.ParseQuery(rawQuery)
	return &fakeLocation{q: q}
}

func (l *fakeLocation) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.q
}

func (l *fakeLocation) ReplaceQuery(q url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.q = q
	l.replaced = append(l.replaced, q)
}

func (l *fakeLocation) lastReplaced() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.replaced) == 0 {
		return nil
	}
	return l.replaced[len(l.replaced)-1]
}

type fakeDisplay struct {
	mu       sync.Mutex
	events   []string
	rendered []view.Node
	errors   []string
	empties  int
}

func (d *fakeDisplay) record(ev string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
}

func (d *fakeDisplay) SetBusy(busy bool) {
	if busy {
		d.record("busy")
	} else {
		d.record("idle")
	}
}

func (d *fakeDisplay) ShowEmpty() {
	d.mu.Lock()
	d.empties++
	d.mu.Unlock()
	d.record("empty")
}

func (d *fakeDisplay) ShowError(msg string) {
	d.mu.Lock()
	d.errors = append(d.errors, msg)
	d.mu.Unlock()
	d.record("error")
}

func (d *fakeDisplay) ClearNotices() { d.record("clearNotices") }

func (d *fakeDisplay) Render(fragment view.Node) {
	d.mu.Lock()
	d.rendered = append(d.rendered, fragment)
	d.mu.Unlock()
	d.record("render")
}

func (d *fakeDisplay) Clear() { d.record("clear") }

func (d *fakeDisplay) renderCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.rendered)
}

func (d *fakeDisplay) lastError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.errors) == 0 {
		return ""
	}
	return d.errors[len(d.errors)-1]
}

func (d *fakeDisplay) snapshot() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.events))
	copy(out, d.events)
	return out
}

type fakeFetcher struct {
	mu    sync.Mutex
	calls []filter.State
	fn    func(ctx context.Context, st filter.State) (*domain.ProductList, error)
}

func (f *fakeFetcher) FetchProducts(ctx context.Context, st filter.State) (*domain.ProductList, error) {
	f.mu.Lock()
	f.calls = append(f.calls, st)
	fn := f.fn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, st)
	}
	return &domain.ProductList{Products: []domain.Product{{ID: 1, Name: "Desk Lamp", Slug: "desk-lamp", Category: "home", Price: 24.99}}}, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) lastCall() filter.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestController(loc *fakeLocation, d *fakeDisplay, f *fakeFetcher) *Controller {
	return New(loc, d, f, Options{Debounce: testDebounce, Logger: discardLogger()})
}

func TestNewLoadsStateFromLocation(t *testing.T) {
	loc := newFakeLocation("category=books&min_price=10&page=3")
	c := newTestController(loc, &fakeDisplay{}, &fakeFetcher{})
	defer c.Close()

	st := c.State()
	assert.Equal(t, "books", st.Category)
	assert.Equal(t, "10", st.MinPrice)
	assert.Equal(t, "3", st.Page)
}

func TestRefreshFetchesCurrentState(t *testing.T) {
	loc := newFakeLocation("category=books")
	fetcher := &fakeFetcher{}
	display := &fakeDisplay{}
	c := newTestController(loc, display, fetcher)
	defer c.Close()

	c.Refresh()
	c.inflight.Wait()

	require.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, "books", fetcher.lastCall().Category)
	assert.Equal(t, 1, display.renderCount())
}

func TestDebouncedFieldCoalescesRapidEdits(t *testing.T) {
	loc := newFakeLocation("")
	fetcher := &fakeFetcher{}
	c := newTestController(loc, &fakeDisplay{}, fetcher)
	defer c.Close()

	for _, v := range []string{"s", "sh", "sho", "shoe", "shoes"} {
		c.FieldChanged(filter.KeySearchQuery, v)
		time.Sleep(testDebounce / 5)
	}

	time.Sleep(4 * testDebounce)
	c.inflight.Wait()

	require.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, "shoes", fetcher.lastCall().SearchQuery)
	assert.Equal(t, "shoes", c.State().SearchQuery)
}

func TestEachDebouncedFieldHasOwnTimer(t *testing.T) {
	loc := newFakeLocation("")
	fetcher := &fakeFetcher{}
	c := newTestController(loc, &fakeDisplay{}, fetcher)
	defer c.Close()

	c.FieldChanged(filter.KeySearchQuery, "lamp")
	c.FieldChanged(filter.KeyMinPrice, "10")

	time.Sleep(4 * testDebounce)
	c.inflight.Wait()

	// Two independent timers, two fetches.
	require.Equal(t, 2, fetcher.callCount())
	st := c.State()
	assert.Equal(t, "lamp", st.SearchQuery)
	assert.Equal(t, "10", st.MinPrice)
}

func TestImmediateFieldSkipsDebounce(t *testing.T) {
	loc := newFakeLocation("")
	fetcher := &fakeFetcher{}
	c := newTestController(loc, &fakeDisplay{}, fetcher)
	defer c.Close()

	c.FieldChanged(filter.KeyCategory, "books")
	c.inflight.Wait()

	require.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, "books", fetcher.lastCall().Category)
}

func TestFilterChangeResetsPage(t *testing.T) {
	loc := newFakeLocation("category=books&page=4")
	fetcher := &fakeFetcher{}
	c := newTestController(loc, &fakeDisplay{}, fetcher)
	defer c.Close()

	c.FieldChanged(filter.KeySortBy, "price_low")
	c.inflight.Wait()

	st := c.State()
	assert.Equal(t, "1", st.Page)
	assert.Equal(t, "books", st.Category)
	assert.Empty(t, loc.lastReplaced().Get(filter.KeyPage))
}

func TestPageSelectedKeepsFilters(t *testing.T) {
	loc := newFakeLocation("category=books&sort_by=rating")
	fetcher := &fakeFetcher{}
	c := newTestController(loc, &fakeDisplay{}, fetcher)
	defer c.Close()

	c.PageSelected(3)
	c.inflight.Wait()

	st := fetcher.lastCall()
	assert.Equal(t, "3", st.Page)
	assert.Equal(t, "books", st.Category)
	assert.Equal(t, "rating", st.SortBy)
	assert.Equal(t, "3", loc.lastReplaced().Get(filter.KeyPage))
}

func TestFormSubmittedAppliesSnapshotAndResetsPage(t *testing.T) {
	loc := newFakeLocation("page=5")
	fetcher := &fakeFetcher{}
	c := newTestController(loc, &fakeDisplay{}, fetcher)
	defer c.Close()

	// A pending debounce is discarded by the submit.
	c.FieldChanged(filter.KeySearchQuery, "stale")
	c.FormSubmitted(url.Values{
		filter.KeySearchQuery: {"mug"},
		filter.KeyCategory:    {"kitchen"},
	})
	time.Sleep(4 * testDebounce)
	c.inflight.Wait()

	require.Equal(t, 1, fetcher.callCount())
	st := fetcher.lastCall()
	assert.Equal(t, "mug", st.SearchQuery)
	assert.Equal(t, "kitchen", st.Category)
	assert.Equal(t, "1", st.Page)
}

func TestSupersededFetchNeverReachesDisplay(t *testing.T) {
	loc := newFakeLocation("")
	display := &fakeDisplay{}
	firstStarted := make(chan struct{})

	fetcher := &fakeFetcher{}
	var calls int
	var callsMu sync.Mutex
	fetcher.fn = func(ctx context.Context, st filter.State) (*domain.ProductList, error) {
		callsMu.Lock()
		calls++
		n := calls
		callsMu.Unlock()
		if n == 1 {
			close(firstStarted)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return &domain.ProductList{Products: []domain.Product{{ID: 2, Name: "Mug", Slug: "mug", Category: "kitchen", Price: 9.99}}}, nil
	}

	c := newTestController(loc, display, fetcher)
	defer c.Close()

	c.FieldChanged(filter.KeyCategory, "home")
	<-firstStarted
	c.FieldChanged(filter.KeyCategory, "kitchen")
	c.inflight.Wait()

	assert.Equal(t, 1, display.renderCount())
	assert.Empty(t, display.lastError())
	assert.Equal(t, "kitchen", fetcher.lastCall().Category)
}

func TestEmptyResultShowsEmptyState(t *testing.T) {
	loc := newFakeLocation("")
	display := &fakeDisplay{}
	fetcher := &fakeFetcher{fn: func(ctx context.Context, st filter.State) (*domain.ProductList, error) {
		return &domain.ProductList{Products: []domain.Product{}}, nil
	}}
	c := newTestController(loc, display, fetcher)
	defer c.Close()

	c.Refresh()
	c.inflight.Wait()

	assert.Equal(t, 0, display.renderCount())
	assert.Equal(t, 1, display.empties)
}

func TestUpstreamStatusErrorShowsCodeMessage(t *testing.T) {
	loc := newFakeLocation("")
	display := &fakeDisplay{}
	fetcher := &fakeFetcher{fn: func(ctx context.Context, st filter.State) (*domain.ProductList, error) {
		return nil, apperrors.Upstream(500)
	}}
	c := newTestController(loc, display, fetcher)
	defer c.Close()

	c.Refresh()
	c.inflight.Wait()

	assert.Equal(t, 0, display.renderCount())
	assert.Equal(t, "server returned 500", display.lastError())
}

func TestWrappedUpstreamSentinelShowsMessage(t *testing.T) {
	loc := newFakeLocation("")
	display := &fakeDisplay{}
	fetcher := &fakeFetcher{fn: func(ctx context.Context, st filter.State) (*domain.ProductList, error) {
		// An upstream sentinel can arrive without an AppError in the chain.
		return nil, fmt.Errorf("relay products: %w", apperrors.ErrUpstream)
	}}
	c := newTestController(loc, display, fetcher)
	defer c.Close()

	c.Refresh()
	c.inflight.Wait()

	assert.Equal(t, 0, display.renderCount())
	assert.Equal(t, "relay products: upstream request failed", display.lastError())
}

func TestTransportErrorShowsMessage(t *testing.T) {
	loc := newFakeLocation("")
	display := &fakeDisplay{}
	fetcher := &fakeFetcher{fn: func(ctx context.Context, st filter.State) (*domain.ProductList, error) {
		return nil, errors.New("connection refused")
	}}
	c := newTestController(loc, display, fetcher)
	defer c.Close()

	c.Refresh()
	c.inflight.Wait()

	assert.Equal(t, "connection refused", display.lastError())
}

func TestFetchCycleOrder(t *testing.T) {
	loc := newFakeLocation("")
	display := &fakeDisplay{}
	c := newTestController(loc, display, &fakeFetcher{})
	defer c.Close()

	c.Refresh()
	c.inflight.Wait()

	assert.Equal(t, []string{"busy", "clearNotices", "clear", "idle", "render"}, display.snapshot())
}

func TestURLSyncRoundTrips(t *testing.T) {
	loc := newFakeLocation("")
	fetcher := &fakeFetcher{}
	c := newTestController(loc, &fakeDisplay{}, fetcher)
	c.FieldChanged(filter.KeyCategory, "books")
	c.PageSelected(2)
	c.inflight.Wait()
	want := c.State()
	c.Close()

	restored := newTestController(newFakeLocation(loc.lastReplaced().Encode()), &fakeDisplay{}, fetcher)
	defer restored.Close()
	assert.Equal(t, want, restored.State())
}

func TestCloseStopsEverything(t *testing.T) {
	loc := newFakeLocation("")
	fetcher := &fakeFetcher{}
	c := newTestController(loc, &fakeDisplay{}, fetcher)

	c.FieldChanged(filter.KeySearchQuery, "lamp")
	c.Close()
	time.Sleep(4 * testDebounce)

	assert.Equal(t, 0, fetcher.callCount())
	c.PageSelected(2)
	assert.Equal(t, 0, fetcher.callCount())
}
