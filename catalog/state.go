package catalog

import (
	"net/url"
	"strconv"
)

// Sort orders accepted by the products endpoint.
const (
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"

	// DefaultLimit is the page size used when the query string carries none.
	DefaultLimit = 10
)

// Filter parameter names.
const (
	FilterCategory   = "category"
	FilterBodyType   = "bodyType"
	FilterResolution = "resolution"
)

var validSorts = map[string]bool{
	SortNameAsc:   true,
	SortNameDesc:  true,
	SortPriceAsc:  true,
	SortPriceDesc: true,
}

// State is the full catalog view state as encoded in a URL query string.
// Filter ids and price bounds are kept as the raw parameter strings: the
// query string is the source of truth and round-trips byte for byte.
//
// A zero Sort or Limit means "absent from the URL"; the effective defaults
// (name-asc, 10) are applied when building requests, not stored here, so a
// URL that never mentioned them never grows them.
type State struct {
	Search     string
	Sort       string
	Category   string
	BodyType   string
	Resolution string
	MinPrice   string
	MaxPrice   string
	Page       int
	Limit      int
}

// ParseQuery builds a State from a raw query string. Unknown parameters are
// ignored; an invalid sort or page falls back to the default.
func ParseQuery(raw string) State {
	values, _ := url.ParseQuery(raw)

	s := State{
		Search:     values.Get("search"),
		Category:   values.Get(FilterCategory),
		BodyType:   values.Get(FilterBodyType),
		Resolution: values.Get(FilterResolution),
		MinPrice:   values.Get("minPrice"),
		MaxPrice:   values.Get("maxPrice"),
		Page:       1,
	}

	if sort := values.Get("sort"); validSorts[sort] {
		s.Sort = sort
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		s.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit >= 1 {
		s.Limit = limit
	}

	return s
}

// EffectiveSort returns the sort order requests should use.
func (s State) EffectiveSort() string {
	if s.Sort == "" {
		return SortNameAsc
	}
	return s.Sort
}

// EffectiveLimit returns the page size requests should use.
func (s State) EffectiveLimit() int {
	if s.Limit < 1 {
		return DefaultLimit
	}
	return s.Limit
}

// Encode renders the state back into a canonical query string. Parameters
// absent from the state stay absent; page is always written so every
// navigation produces an explicit, shareable position.
func (s State) Encode() string {
	values := url.Values{}

	if s.Search != "" {
		values.Set("search", s.Search)
	}
	if s.Category != "" {
		values.Set(FilterCategory, s.Category)
	}
	if s.BodyType != "" {
		values.Set(FilterBodyType, s.BodyType)
	}
	if s.Resolution != "" {
		values.Set(FilterResolution, s.Resolution)
	}
	if s.MinPrice != "" {
		values.Set("minPrice", s.MinPrice)
	}
	if s.MaxPrice != "" {
		values.Set("maxPrice", s.MaxPrice)
	}
	if s.Sort != "" {
		values.Set("sort", s.Sort)
	}
	values.Set("page", strconv.Itoa(s.Page))
	if s.Limit >= 1 && s.Limit != DefaultLimit {
		values.Set("limit", strconv.Itoa(s.Limit))
	}

	return values.Encode()
}

// filtersQuery is the query string of the facet request: the search term plus
// the selected ids the server annotates checked flags from. Counts depend on
// the search term only.
func (s State) filtersQuery() string {
	values := url.Values{}

	if s.Search != "" {
		values.Set("search", s.Search)
	}
	if s.Category != "" {
		values.Set(FilterCategory, s.Category)
	}
	if s.BodyType != "" {
		values.Set(FilterBodyType, s.BodyType)
	}
	if s.Resolution != "" {
		values.Set(FilterResolution, s.Resolution)
	}

	return values.Encode()
}

// productsQuery is the query string of the products request: every active
// parameter plus explicit sort, page, and limit.
func (s State) productsQuery() string {
	values := url.Values{}

	if s.Search != "" {
		values.Set("search", s.Search)
	}
	if s.Category != "" {
		values.Set(FilterCategory, s.Category)
	}
	if s.BodyType != "" {
		values.Set(FilterBodyType, s.BodyType)
	}
	if s.Resolution != "" {
		values.Set(FilterResolution, s.Resolution)
	}
	if s.MinPrice != "" {
		values.Set("minPrice", s.MinPrice)
	}
	if s.MaxPrice != "" {
		values.Set("maxPrice", s.MaxPrice)
	}
	values.Set("sort", s.EffectiveSort())
	values.Set("page", strconv.Itoa(s.Page))
	values.Set("limit", strconv.Itoa(s.EffectiveLimit()))

	return values.Encode()
}

// Every mutation below returns a new State built from the current one with
// exactly the affected parameters changed. All of them reset the page to 1
// except WithPage: changing what is shown always starts over at the first
// page of the new result set.

// WithSearch sets the free-text search term.
func (s State) WithSearch(term string) State {
	s.Search = term
	s.Page = 1
	return s
}

// WithSort sets the sort order. Unknown values fall back to the default.
func (s State) WithSort(sort string) State {
	if !validSorts[sort] {
		sort = ""
	}
	s.Sort = sort
	s.Page = 1
	return s
}

// WithFilter sets one of the category/bodyType/resolution parameters.
func (s State) WithFilter(name, id string) State {
	switch name {
	case FilterCategory:
		s.Category = id
	case FilterBodyType:
		s.BodyType = id
	case FilterResolution:
		s.Resolution = id
	}
	s.Page = 1
	return s
}

// WithoutFilter clears exactly one filter parameter, leaving the rest as
// they are.
func (s State) WithoutFilter(name string) State {
	return s.WithFilter(name, "")
}

// ClearFilters drops every filter and the price bounds but keeps the search
// term and sort order.
func (s State) ClearFilters() State {
	s.Category = ""
	s.BodyType = ""
	s.Resolution = ""
	s.MinPrice = ""
	s.MaxPrice = ""
	s.Page = 1
	return s
}

// WithPriceRange sets both price bounds.
func (s State) WithPriceRange(min, max string) State {
	s.MinPrice = min
	s.MaxPrice = max
	s.Page = 1
	return s
}

// WithPage moves to another page of the same result set.
func (s State) WithPage(page int) State {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// WithLimit changes the page size.
func (s State) WithLimit(limit int) State {
	if limit < 1 {
		limit = DefaultLimit
	}
	s.Limit = limit
	s.Page = 1
	return s
}

// ActiveFilters returns the names of the filters currently set, in display
// order.
func (s State) ActiveFilters() []string {
	var active []string
	if s.Category != "" {
		active = append(active, FilterCategory)
	}
	if s.BodyType != "" {
		active = append(active, FilterBodyType)
	}
	if s.Resolution != "" {
		active = append(active, FilterResolution)
	}
	return active
}
