package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAPI is a fake storefront API recording every request it serves.
type testAPI struct {
	mu              sync.Mutex
	filterRequests  []url.Values
	productRequests []url.Values

	filtersStatus  int
	productsStatus int

	filters  FiltersResponse
	products ProductsResponse

	// productsHook, when set, runs before the products response is written.
	productsHook func(q url.Values)
}

func newTestAPI() *testAPI {
	return &testAPI{
		filtersStatus:  http.StatusOK,
		productsStatus: http.StatusOK,
		filters: FiltersResponse{
			Categories: []FilterOption{
				{ID: 2, Name: "Indoor", Count: 8, Checked: true},
				{ID: 3, Name: "Outdoor", Count: 15},
			},
			BodyTypes: []FilterOption{
				{ID: 11, Name: "Dome", Count: 9},
			},
			Resolutions: []FilterOption{
				{ID: 21, Name: "4 MP", Count: 12},
			},
			PriceRange: PriceRange{Min: 99, Max: 899},
		},
		products: ProductsResponse{
			Products: []Product{
				{ID: 1, Name: "ArcVision D210 Dome", Slug: "arcvision-d210-dome", Price: 129.9},
			},
			Pagination: Pagination{Total: 23, TotalPages: 3},
		},
	}
}

func (a *testAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/filters", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.filterRequests = append(a.filterRequests, r.URL.Query())
		status, body := a.filtersStatus, a.filters
		a.mu.Unlock()

		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	})
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		a.mu.Lock()
		a.productRequests = append(a.productRequests, q)
		status, body, hook := a.productsStatus, a.products, a.productsHook
		a.mu.Unlock()

		if hook != nil {
			hook(q)
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (a *testAPI) lastProductRequest(t *testing.T) url.Values {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.NotEmpty(t, a.productRequests)
	return a.productRequests[len(a.productRequests)-1]
}

func (a *testAPI) lastFilterRequest(t *testing.T) url.Values {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.NotEmpty(t, a.filterRequests)
	return a.filterRequests[len(a.filterRequests)-1]
}

func TestInitRunsExactlyOnce(t *testing.T) {
	api := newTestAPI()
	c := New(api.server(t).URL)

	require.ErrorIs(t, c.Refresh(context.Background()), ErrNotInitialized)
	require.NoError(t, c.Init(context.Background(), ""))
	require.ErrorIs(t, c.Init(context.Background(), ""), ErrAlreadyInitialized)
}

func TestHydrationFromQueryString(t *testing.T) {
	api := newTestAPI()
	c := New(api.server(t).URL)

	require.NoError(t, c.Init(context.Background(), "category=2&sort=price-desc&page=2"))

	fq := api.lastFilterRequest(t)
	assert.Equal(t, "2", fq.Get("category"))
	assert.False(t, fq.Has("sort"))
	assert.False(t, fq.Has("page"))

	pq := api.lastProductRequest(t)
	assert.Equal(t, "2", pq.Get("category"))
	assert.Equal(t, "price-desc", pq.Get("sort"))
	assert.Equal(t, "2", pq.Get("page"))
	assert.Equal(t, "10", pq.Get("limit"))

	v := c.Snapshot()
	assert.Equal(t, 2, v.State.Page)
	assert.Equal(t, int64(23), v.Total)
	assert.Equal(t, 3, v.TotalPages)
}

func TestHydrationIsIdempotent(t *testing.T) {
	raw := "bodyType=11&page=3&search=dome&sort=name-desc"

	api := newTestAPI()
	c1 := New(api.server(t).URL)
	require.NoError(t, c1.Init(context.Background(), raw))

	api2 := newTestAPI()
	c2 := New(api2.server(t).URL)
	require.NoError(t, c2.Init(context.Background(), c1.Query()))

	assert.Equal(t, api.lastFilterRequest(t), api2.lastFilterRequest(t))
	assert.Equal(t, api.lastProductRequest(t), api2.lastProductRequest(t))
}

func TestCheckedFlagsComeFromServer(t *testing.T) {
	api := newTestAPI()
	c := New(api.server(t).URL)

	require.NoError(t, c.Init(context.Background(), "category=2"))

	v := c.Snapshot()
	require.Len(t, v.Categories, 2)
	assert.True(t, v.Categories[0].Checked)
	assert.False(t, v.Categories[1].Checked)
}

func TestPagerBounds(t *testing.T) {
	api := newTestAPI() // total 23, limit 10 → 3 pages
	c := New(api.server(t).URL)

	require.NoError(t, c.Init(context.Background(), "page=1"))
	assert.False(t, c.CanPrev())
	assert.True(t, c.CanNext())
	assert.Equal(t, []int{1, 2, 3}, c.PageNumbers())

	require.NoError(t, c.SetPage(context.Background(), 3))
	assert.True(t, c.CanPrev())
	assert.False(t, c.CanNext())
}

func TestFacetFailureKeepsPreviousFacets(t *testing.T) {
	api := newTestAPI()
	c := New(api.server(t).URL)

	require.NoError(t, c.Init(context.Background(), ""))
	require.Len(t, c.Snapshot().Categories, 2)

	api.mu.Lock()
	api.filtersStatus = http.StatusInternalServerError
	api.mu.Unlock()

	require.NoError(t, c.SetFilter(context.Background(), FilterBodyType, "11"))

	v := c.Snapshot()
	assert.NotEmpty(t, v.FilterError)
	assert.Len(t, v.Categories, 2, "stale facets must stay visible")
	assert.NotEmpty(t, v.Products, "product grid is an independent failure domain")
	assert.Empty(t, v.ProductsError)
}

func TestProductFailureClearsListOnly(t *testing.T) {
	api := newTestAPI()
	c := New(api.server(t).URL)

	require.NoError(t, c.Init(context.Background(), ""))

	api.mu.Lock()
	api.productsStatus = http.StatusInternalServerError
	api.mu.Unlock()

	require.NoError(t, c.SetSearch(context.Background(), "dome"))

	v := c.Snapshot()
	assert.NotEmpty(t, v.ProductsError)
	assert.Empty(t, v.Products)
	assert.Len(t, v.Categories, 2)
	assert.Empty(t, v.FilterError)

	// Clear-all is the retry affordance; with the server healthy again the
	// list comes back.
	api.mu.Lock()
	api.productsStatus = http.StatusOK
	api.mu.Unlock()

	require.NoError(t, c.ClearAll(context.Background()))
	v = c.Snapshot()
	assert.Empty(t, v.ProductsError)
	assert.NotEmpty(t, v.Products)
}

func TestApplicationLevelErrorPayload(t *testing.T) {
	api := newTestAPI()
	api.products = ProductsResponse{Error: "catalog temporarily unavailable"}
	c := New(api.server(t).URL)

	require.NoError(t, c.Init(context.Background(), ""))

	v := c.Snapshot()
	assert.Equal(t, "catalog temporarily unavailable", v.ProductsError)
	assert.Empty(t, v.Products)
}

func TestSearchNavigation(t *testing.T) {
	api := newTestAPI()
	c := New(api.server(t).URL)

	require.NoError(t, c.Init(context.Background(), "sort=price-asc&page=2"))
	require.NoError(t, c.SetSearch(context.Background(), "dome"))

	values, err := url.ParseQuery(c.Query())
	require.NoError(t, err)
	assert.Equal(t, "dome", values.Get("search"))
	assert.Equal(t, "price-asc", values.Get("sort"))
	assert.Equal(t, "1", values.Get("page"))

	pq := api.lastProductRequest(t)
	assert.Equal(t, "dome", pq.Get("search"))
	assert.Equal(t, "1", pq.Get("page"))
}

func TestPriceRangeIsStagedUntilApplied(t *testing.T) {
	api := newTestAPI()
	c := New(api.server(t).URL)

	require.NoError(t, c.Init(context.Background(), ""))

	before := c.Query()
	c.StagePriceRange("150", "700")
	assert.Equal(t, before, c.Query(), "staging must not touch the query string")

	require.NoError(t, c.ApplyPriceRange(context.Background()))

	values, err := url.ParseQuery(c.Query())
	require.NoError(t, err)
	assert.Equal(t, "150", values.Get("minPrice"))
	assert.Equal(t, "700", values.Get("maxPrice"))
	assert.Equal(t, "1", values.Get("page"))

	pq := api.lastProductRequest(t)
	assert.Equal(t, "150", pq.Get("minPrice"))
	assert.Equal(t, "700", pq.Get("maxPrice"))
}

func TestStagingSeededFromURLBounds(t *testing.T) {
	api := newTestAPI()
	c := New(api.server(t).URL)

	require.NoError(t, c.Init(context.Background(), "maxPrice=500&minPrice=100"))

	v := c.Snapshot()
	assert.Equal(t, "100", v.StagedMinPrice)
	assert.Equal(t, "500", v.StagedMaxPrice)
}

func TestStagingSeededFromServerRange(t *testing.T) {
	api := newTestAPI()
	c := New(api.server(t).URL)

	require.NoError(t, c.Init(context.Background(), ""))

	v := c.Snapshot()
	assert.Equal(t, "99", v.StagedMinPrice)
	assert.Equal(t, "899", v.StagedMaxPrice)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	api := newTestAPI()

	slowReceived := make(chan struct{})
	release := make(chan struct{})
	api.productsHook = func(q url.Values) {
		if q.Get("search") == "slow" {
			close(slowReceived)
			<-release
		}
	}

	c := New(api.server(t).URL, WithTimeout(5*time.Second))
	require.NoError(t, c.Init(context.Background(), ""))

	api.mu.Lock()
	api.products.Products = []Product{{ID: 99, Name: "Stale"}}
	api.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.SetSearch(context.Background(), "slow") //nolint:errcheck
	}()
	<-slowReceived

	api.mu.Lock()
	api.products.Products = []Product{{ID: 100, Name: "Fresh"}}
	api.mu.Unlock()

	require.NoError(t, c.SetSearch(context.Background(), "fresh"))
	close(release)
	<-done

	v := c.Snapshot()
	require.Len(t, v.Products, 1)
	assert.Equal(t, "Fresh", v.Products[0].Name, "a response from a superseded navigation must never commit")
}
