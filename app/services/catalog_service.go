package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/repositories"
	"github.com/dkrylov/camshop/config"
	"github.com/dkrylov/camshop/pkg/cache"
	"github.com/dkrylov/camshop/pkg/collection"
	"github.com/dkrylov/camshop/pkg/orm"
)

// FilterOption is one facet entry as it goes over the wire.
type FilterOption struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Checked bool   `json:"checked"`
}

// Facets is the full response of the filters endpoint.
type Facets struct {
	Categories  []FilterOption          `json:"categories"`
	BodyTypes   []FilterOption          `json:"bodyTypes"`
	Resolutions []FilterOption          `json:"resolutions"`
	PriceRange  repositories.PriceBounds `json:"priceRange"`
}

// CatalogService serves the public read side of the shop: the product
// listing and the filter facets.
type CatalogService struct {
	products *repositories.ProductRepository
	facets   *repositories.FacetRepository
}

func NewCatalogService() *CatalogService {
	return &CatalogService{
		products: repositories.NewProductRepository(),
		facets:   repositories.NewFacetRepository(),
	}
}

// Products returns one page of the catalogue. Limit defaults to 10 and is
// capped by CATALOG_MAX_LIMIT.
func (s *CatalogService) Products(f repositories.ProductFilter) ([]models.Product, orm.Pagination, error) {
	if f.Limit < 1 {
		f.Limit = 10
	}
	if max := config.CatalogMaxLimit(); f.Limit > max {
		f.Limit = max
	}
	return s.products.List(f)
}

// facetData is what gets cached per search term, before checked-annotation.
type facetData struct {
	Categories  []repositories.FacetRow  `json:"categories"`
	BodyTypes   []repositories.FacetRow  `json:"bodyTypes"`
	Resolutions []repositories.FacetRow  `json:"resolutions"`
	PriceRange  repositories.PriceBounds `json:"priceRange"`
}

func facetCacheKey(search string) string {
	return "camshop:facets:" + search
}

// Facets computes the filter aggregations for search, annotating each option
// checked when its id matches the corresponding selected parameter. Counts
// depend on the search term only, never on the other selected filters.
// Aggregations are cached per search term; the checked flags are applied
// after the cache so a shared entry serves every selection state.
func (s *CatalogService) Facets(search string, categoryID, bodyTypeID, resolutionID uint) (Facets, error) {
	var data facetData

	if !cache.Get(facetCacheKey(search), &data) {
		var err error
		if data, err = s.loadFacets(search); err != nil {
			return Facets{}, err
		}
		ttl := time.Duration(config.FacetCacheTTLSeconds()) * time.Second
		_ = cache.Set(facetCacheKey(search), data, ttl)
	}

	return Facets{
		Categories:  annotate(data.Categories, categoryID),
		BodyTypes:   annotate(data.BodyTypes, bodyTypeID),
		Resolutions: annotate(data.Resolutions, resolutionID),
		PriceRange:  data.PriceRange,
	}, nil
}

func (s *CatalogService) loadFacets(search string) (facetData, error) {
	var data facetData
	var err error

	if data.Categories, err = s.facets.CategoryFacets(search); err != nil {
		return data, fmt.Errorf("catalog: category facets: %w", err)
	}
	if data.BodyTypes, err = s.facets.SpecFacets(models.SpecBodyType, search); err != nil {
		return data, fmt.Errorf("catalog: body type facets: %w", err)
	}
	if data.Resolutions, err = s.facets.SpecFacets(models.SpecResolution, search); err != nil {
		return data, fmt.Errorf("catalog: resolution facets: %w", err)
	}
	if data.PriceRange, err = s.facets.PriceRange(search); err != nil {
		return data, fmt.Errorf("catalog: price range: %w", err)
	}
	return data, nil
}

// annotate maps raw facet rows to wire options, setting Checked on the row
// whose id equals selected.
func annotate(rows []repositories.FacetRow, selected uint) []FilterOption {
	return collection.Map(rows, func(row repositories.FacetRow) FilterOption {
		return FilterOption{
			ID:      row.ID,
			Name:    row.Name,
			Count:   row.Count,
			Checked: selected != 0 && row.ID == selected,
		}
	})
}

// InvalidateFacetCache drops every cached facet aggregation. Fired by the
// catalog mutation events.
func InvalidateFacetCache() {
	_ = cache.DelPattern("camshop:facets:*")
}

// WarmFacetCache pre-computes the empty-search facets, which back the
// default storefront view. Runs on a schedule.
func (s *CatalogService) WarmFacetCache() error {
	data, err := s.loadFacets("")
	if err != nil {
		return err
	}
	ttl := time.Duration(config.FacetCacheTTLSeconds()) * time.Second
	return cache.Set(facetCacheKey(""), data, ttl)
}

// ParseID converts a query-parameter id into a uint, treating absence and
// garbage as unset.
func ParseID(raw string) uint {
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}
