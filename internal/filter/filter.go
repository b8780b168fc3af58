// Package filter holds the state of the product listing filters. The state is
// derived from the page URL's query string, mutated by form interactions, and
// written back to the URL; it is never persisted anywhere else.
package filter

import (
	"net/url"
	"strconv"
)

// Recognized filter field names. Anything else in the query string or a form
// snapshot is ignored.
const (
	KeyCategory     = "category"
	KeyMinPrice     = "min_price"
	KeyMaxPrice     = "max_price"
	KeySortBy       = "sort_by"
	KeySearchQuery  = "search_query"
	KeyAvailability = "availability"
	KeyPage         = "page"
)

// defaultPage is the page value treated as "no page selected".
const defaultPage = "1"

// State holds the current value of every recognized filter field. All values
// are strings as they appear in the query string; Page is an integer encoded
// as a string.
type State struct {
	Category     string
	MinPrice     string
	MaxPrice     string
	SortBy       string
	SearchQuery  string
	Availability string
	Page         string
}

// Default returns a State with every field at its default value.
func Default() State {
	return State{Page: defaultPage}
}

// FromQuery builds a State from a URL query string. Recognized keys override
// the defaults when present; unknown keys are ignored.
func FromQuery(q url.Values) State {
	st := Default()
	st.Apply(q)
	return st
}

// Apply overwrites state fields from a snapshot of query or form values.
// Only recognized fields are touched; for multi-valued fields the first
// value (the checked option) wins.
func (s *State) Apply(snapshot url.Values) {
	for key, field := range map[string]*string{
		KeyCategory:     &s.Category,
		KeyMinPrice:     &s.MinPrice,
		KeyMaxPrice:     &s.MaxPrice,
		KeySortBy:       &s.SortBy,
		KeySearchQuery:  &s.SearchQuery,
		KeyAvailability: &s.Availability,
		KeyPage:         &s.Page,
	} {
		if vs, ok := snapshot[key]; ok && len(vs) > 0 {
			*field = vs[0]
		}
	}
}

// Set assigns a single recognized field. Unrecognized names are ignored.
func (s *State) Set(name, value string) {
	s.Apply(url.Values{name: {value}})
}

// SetPage moves the state to the given page number.
func (s *State) SetPage(n int) {
	s.Page = strconv.Itoa(n)
}

// ResetPage returns to the first page. Every explicit filter change does this
// since changing filters invalidates the current page position.
func (s *State) ResetPage() {
	s.Page = defaultPage
}

// PageNumber returns the page as an integer, falling back to 1 when the
// value is not a positive integer. The backend receives the raw string; this
// accessor exists for rendering only.
func (s *State) PageNumber() int {
	n, err := strconv.Atoi(s.Page)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Query serializes the state to URL query values, keeping only fields whose
// value is non-empty and differs from the default. The same serialization
// drives both the address-bar rewrite and the products request, so a value
// that round-trips through the URL always produces the identical request.
func (s *State) Query() url.Values {
	q := url.Values{}
	set := func(key, value, def string) {
		if value != "" && value != def {
			q.Set(key, value)
		}
	}
	set(KeyCategory, s.Category, "")
	set(KeyMinPrice, s.MinPrice, "")
	set(KeyMaxPrice, s.MaxPrice, "")
	set(KeySortBy, s.SortBy, "")
	set(KeySearchQuery, s.SearchQuery, "")
	set(KeyAvailability, s.Availability, "")
	set(KeyPage, s.Page, defaultPage)
	return q
}
