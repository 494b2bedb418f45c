package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dkrylov/camshop/pkg/http"
)

// ErrNotInitialized is returned when a fetch or mutation runs before Init.
var ErrNotInitialized = errors.New("catalog: controller not initialized")

// ErrAlreadyInitialized is returned when Init runs twice.
var ErrAlreadyInitialized = errors.New("catalog: controller already initialized")

// View is an immutable snapshot of everything a renderer needs.
type View struct {
	State State

	Categories  []FilterOption
	BodyTypes   []FilterOption
	Resolutions []FilterOption
	PriceRange  PriceRange

	Products   []Product
	Total      int64
	TotalPages int

	// StagedMinPrice and StagedMaxPrice are the price inputs being edited.
	// They reach the query string only through ApplyPriceRange.
	StagedMinPrice string
	StagedMaxPrice string

	FilterError   string
	ProductsError string
}

// Controller drives the catalog view. The query string is the single source
// of truth: every mutation rewrites it and then re-derives the fetches, so
// the rendered view and the shareable URL can never diverge.
//
// The two fetches (facets, products) run concurrently and are independent:
// each has its own error slot and neither blocks the other. A generation
// counter per fetch, captured at dispatch and compared at commit, discards
// responses that resolve after a newer navigation.
type Controller struct {
	base    string
	timeout time.Duration

	mu          sync.Mutex
	initialized bool
	state       State

	filterGen   uint64
	productsGen uint64

	view View
}

// Option configures a Controller.
type Option func(*Controller)

// WithTimeout sets the per-request timeout (default 10s).
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// New creates a Controller talking to the API at base, e.g.
// "https://shop.example.com".
func New(base string, opts ...Option) *Controller {
	c := &Controller{base: base, timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init hydrates the controller from a raw query string and runs the first
// fetch cycle. It must run exactly once, before anything else: fetches never
// fire against default state while the URL is still unparsed.
func (c *Controller) Init(ctx context.Context, rawQuery string) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return ErrAlreadyInitialized
	}

	c.state = ParseQuery(rawQuery)
	// Adopt URL price bounds as the staging buffer only when both are
	// present; otherwise the buffer waits for the server-reported range.
	if c.state.MinPrice != "" && c.state.MaxPrice != "" {
		c.view.StagedMinPrice = c.state.MinPrice
		c.view.StagedMaxPrice = c.state.MaxPrice
	}
	c.initialized = true
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Query returns the canonical query string for the current state — the
// shareable URL tail.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Encode()
}

// Snapshot returns a copy of the current view.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.view
	v.State = c.state
	v.Categories = append([]FilterOption(nil), c.view.Categories...)
	v.BodyTypes = append([]FilterOption(nil), c.view.BodyTypes...)
	v.Resolutions = append([]FilterOption(nil), c.view.Resolutions...)
	v.Products = append([]Product(nil), c.view.Products...)
	return v
}

// Refresh re-runs both fetches for the current state. The facet fetch and
// the product fetch run concurrently; Refresh returns once both have either
// committed or been discarded as stale.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return ErrNotInitialized
	}
	state := c.state
	c.filterGen++
	c.productsGen++
	fGen, pGen := c.filterGen, c.productsGen
	c.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.fetchFilters(ctx, state, fGen)
	}()
	go func() {
		defer wg.Done()
		c.fetchProducts(ctx, state, pGen)
	}()
	wg.Wait()
	return nil
}

// navigate swaps in a new state and re-derives the fetches, exactly as a
// URL change would.
func (c *Controller) navigate(ctx context.Context, next State) error {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return ErrNotInitialized
	}
	c.state = next
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// SetSearch submits the search box.
func (c *Controller) SetSearch(ctx context.Context, term string) error {
	return c.navigate(ctx, c.currentState().WithSearch(term))
}

// SetSort changes the sort order.
func (c *Controller) SetSort(ctx context.Context, sort string) error {
	return c.navigate(ctx, c.currentState().WithSort(sort))
}

// SetFilter selects a category, body type, or resolution.
func (c *Controller) SetFilter(ctx context.Context, name, id string) error {
	return c.navigate(ctx, c.currentState().WithFilter(name, id))
}

// ClearFilter removes one active filter, leaving the others untouched.
func (c *Controller) ClearFilter(ctx context.Context, name string) error {
	return c.navigate(ctx, c.currentState().WithoutFilter(name))
}

// ClearAll drops every filter and price bound but keeps search and sort.
// It doubles as the retry affordance after a products error.
func (c *Controller) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	c.view.StagedMinPrice = ""
	c.view.StagedMaxPrice = ""
	c.mu.Unlock()
	return c.navigate(ctx, c.currentState().ClearFilters())
}

// SetPage navigates to another page of the current result set.
func (c *Controller) SetPage(ctx context.Context, page int) error {
	return c.navigate(ctx, c.currentState().WithPage(page))
}

// SetLimit changes the results-per-page selector.
func (c *Controller) SetLimit(ctx context.Context, limit int) error {
	return c.navigate(ctx, c.currentState().WithLimit(limit))
}

// StagePriceRange records the price inputs as they are edited. Nothing is
// fetched and the query string does not change until ApplyPriceRange.
func (c *Controller) StagePriceRange(min, max string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.StagedMinPrice = min
	c.view.StagedMaxPrice = max
}

// ApplyPriceRange commits the staged price bounds to the query string.
func (c *Controller) ApplyPriceRange(ctx context.Context) error {
	c.mu.Lock()
	min, max := c.view.StagedMinPrice, c.view.StagedMaxPrice
	c.mu.Unlock()
	return c.navigate(ctx, c.currentState().WithPriceRange(min, max))
}

// CanPrev reports whether a previous page exists.
func (c *Controller) CanPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Page > 1
}

// CanNext reports whether a next page exists.
func (c *Controller) CanNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Page < c.view.TotalPages
}

// PageNumbers returns the full 1..totalPages list for the pager.
func (c *Controller) PageNumbers() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	pages := make([]int, 0, c.view.TotalPages)
	for i := 1; i <= c.view.TotalPages; i++ {
		pages = append(pages, i)
	}
	return pages
}

func (c *Controller) currentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// fetchFilters loads the facets. On any failure the previous facets stay in
// place: stale filters beat an empty sidebar.
func (c *Controller) fetchFilters(ctx context.Context, state State, gen uint64) {
	var payload FiltersResponse
	errMsg := ""

	resp, err := http.Get(c.base + "/api/filters?" + state.filtersQuery()).
		WithContext(ctx).
		Timeout(c.timeout).
		Send()
	switch {
	case err != nil:
		errMsg = fmt.Sprintf("filters unavailable: %v", err)
	case !resp.OK():
		errMsg = fmt.Sprintf("filters request failed (status %d)", resp.StatusCode)
	default:
		if err := resp.JSON(&payload); err != nil {
			errMsg = fmt.Sprintf("filters unavailable: %v", err)
		} else if payload.Error != "" {
			errMsg = payload.Error
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.filterGen {
		return // superseded by a newer navigation
	}

	if errMsg != "" {
		c.view.FilterError = errMsg
		return
	}

	c.view.FilterError = ""
	c.view.Categories = payload.Categories
	c.view.BodyTypes = payload.BodyTypes
	c.view.Resolutions = payload.Resolutions
	c.view.PriceRange = payload.PriceRange

	// Seed the staging buffer from the server bounds once, when the URL
	// carried no explicit bounds.
	if c.view.StagedMinPrice == "" && c.view.StagedMaxPrice == "" {
		c.view.StagedMinPrice = trimFloat(payload.PriceRange.Min)
		c.view.StagedMaxPrice = trimFloat(payload.PriceRange.Max)
	}
}

// fetchProducts loads one page of results. On any failure the list is
// cleared: rendering a page of products that does not match the URL would
// be worse than rendering none.
func (c *Controller) fetchProducts(ctx context.Context, state State, gen uint64) {
	var payload ProductsResponse
	errMsg := ""

	resp, err := http.Get(c.base + "/api/products?" + state.productsQuery()).
		WithContext(ctx).
		Timeout(c.timeout).
		Send()
	switch {
	case err != nil:
		errMsg = fmt.Sprintf("products unavailable: %v", err)
	case !resp.OK():
		errMsg = fmt.Sprintf("products request failed (status %d)", resp.StatusCode)
	default:
		if err := resp.JSON(&payload); err != nil {
			errMsg = fmt.Sprintf("products unavailable: %v", err)
		} else if payload.Error != "" {
			errMsg = payload.Error
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.productsGen {
		return // superseded by a newer navigation
	}

	if errMsg != "" {
		c.view.ProductsError = errMsg
		c.view.Products = nil
		c.view.Total = 0
		c.view.TotalPages = 0
		return
	}

	c.view.ProductsError = ""
	c.view.Products = payload.Products
	c.view.Total = payload.Pagination.Total
	c.view.TotalPages = payload.Pagination.TotalPages
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	// Render whole prices without decimals so they match hand-typed URLs.
	if s[len(s)-3:] == ".00" {
		return s[:len(s)-3]
	}
	return s
}
