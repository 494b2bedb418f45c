package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func params(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("bad query %q: %v", raw, err)
	}
	return values
}

func TestParseQueryDefaults(t *testing.T) {
	s := ParseQuery("")

	assert.Equal(t, "", s.Search)
	assert.Equal(t, "", s.Sort)
	assert.Equal(t, SortNameAsc, s.EffectiveSort())
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, DefaultLimit, s.EffectiveLimit())
}

func TestParseQueryRejectsGarbage(t *testing.T) {
	s := ParseQuery("sort=price-sideways&page=0")

	assert.Equal(t, "", s.Sort)
	assert.Equal(t, 1, s.Page)
}

func TestEncodeRoundTrip(t *testing.T) {
	raw := "bodyType=3&category=2&maxPrice=900&minPrice=100&page=2&search=dome&sort=price-desc"

	s := ParseQuery(raw)
	assert.Equal(t, raw, s.Encode())

	// Hydrating from the encoded form must reproduce the identical state.
	assert.Equal(t, s, ParseQuery(s.Encode()))
}

func TestSettingFilterResetsPage(t *testing.T) {
	s := ParseQuery("page=4")

	for _, name := range []string{FilterCategory, FilterBodyType, FilterResolution} {
		next := s.WithFilter(name, "7")
		assert.Equal(t, 1, next.Page, "filter %s must reset the page", name)
	}

	assert.Equal(t, 1, s.WithSearch("dome").Page)
	assert.Equal(t, 1, s.WithSort(SortPriceAsc).Page)
	assert.Equal(t, 1, s.WithPriceRange("10", "90").Page)
	assert.Equal(t, 1, s.WithLimit(25).Page)

	// Pure page navigation is the one mutation that keeps its target page.
	assert.Equal(t, 3, s.WithPage(3).Page)
}

func TestClearingOneFilterLeavesOthers(t *testing.T) {
	s := ParseQuery("category=2&bodyType=3&resolution=5&page=2")

	next := s.WithoutFilter(FilterBodyType)
	values := params(t, next.Encode())

	assert.Equal(t, "2", values.Get("category"))
	assert.Equal(t, "5", values.Get("resolution"))
	assert.False(t, values.Has("bodyType"))
	assert.Equal(t, "1", values.Get("page"))
}

func TestClearFiltersKeepsSearchAndSort(t *testing.T) {
	s := ParseQuery("search=dome&sort=price-desc&category=2&bodyType=3&resolution=5&minPrice=10&maxPrice=90&page=4")

	values := params(t, s.ClearFilters().Encode())

	assert.Equal(t, "dome", values.Get("search"))
	assert.Equal(t, "price-desc", values.Get("sort"))
	assert.Equal(t, "1", values.Get("page"))
	for _, dropped := range []string{"category", "bodyType", "resolution", "minPrice", "maxPrice"} {
		assert.False(t, values.Has(dropped), "%s must be dropped", dropped)
	}
}

func TestSearchPreservesSort(t *testing.T) {
	// With a pre-existing sort, search keeps it.
	s := ParseQuery("sort=price-asc")
	values := params(t, s.WithSearch("dome").Encode())
	assert.Equal(t, "dome", values.Get("search"))
	assert.Equal(t, "price-asc", values.Get("sort"))
	assert.Equal(t, "1", values.Get("page"))

	// Without one, the query string stays free of a sort parameter.
	s = ParseQuery("")
	values = params(t, s.WithSearch("dome").Encode())
	assert.Equal(t, "page=1&search=dome", values.Encode())
}

func TestDefaultLimitStaysOutOfURL(t *testing.T) {
	values := params(t, ParseQuery("").WithLimit(DefaultLimit).Encode())
	assert.False(t, values.Has("limit"))

	values = params(t, ParseQuery("").WithLimit(25).Encode())
	assert.Equal(t, "25", values.Get("limit"))
}

func TestProductsQueryCarriesExplicitDefaults(t *testing.T) {
	s := ParseQuery("category=2&sort=price-desc&page=2")

	values := params(t, s.productsQuery())
	assert.Equal(t, "2", values.Get("category"))
	assert.Equal(t, "price-desc", values.Get("sort"))
	assert.Equal(t, "2", values.Get("page"))
	assert.Equal(t, "10", values.Get("limit"))
}

func TestFiltersQueryOmitsPriceAndPaging(t *testing.T) {
	s := ParseQuery("search=dome&category=2&minPrice=10&maxPrice=90&page=3")

	values := params(t, s.filtersQuery())
	assert.Equal(t, "dome", values.Get("search"))
	assert.Equal(t, "2", values.Get("category"))
	for _, absent := range []string{"minPrice", "maxPrice", "page", "sort", "limit"} {
		assert.False(t, values.Has(absent), "%s does not belong in the facet request", absent)
	}
}

func TestActiveFilters(t *testing.T) {
	s := ParseQuery("bodyType=3&resolution=5")
	assert.Equal(t, []string{FilterBodyType, FilterResolution}, s.ActiveFilters())

	assert.Empty(t, ParseQuery("search=dome").ActiveFilters())
}
