// Package controllers holds the HTTP handlers. The public catalog endpoints
// speak the storefront wire format; everything under /api/admin uses the JSON
// envelope from pkg/response.
package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/repositories"
	"github.com/dkrylov/camshop/app/services"
	"github.com/dkrylov/camshop/pkg/logger"
	"github.com/dkrylov/camshop/pkg/response"
	"github.com/dkrylov/camshop/pkg/router"
)

// productsPage is the pagination block of the products endpoint.
type productsPage struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// productsResponse is the wire shape of GET /api/products.
type productsResponse struct {
	Products   []models.Product `json:"products"`
	Pagination productsPage     `json:"pagination"`
	Error      string           `json:"error,omitempty"`
}

// filtersResponse is the wire shape of GET /api/filters.
type filtersResponse struct {
	services.Facets
	Error string `json:"error,omitempty"`
}

// CatalogController serves the public storefront read API.
type CatalogController struct {
	catalog  *services.CatalogService
	products *services.ProductService
}

func NewCatalogController() *CatalogController {
	return &CatalogController{
		catalog:  services.NewCatalogService(),
		products: services.NewProductService(),
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Products handles GET /api/products. Every filter lives in the query
// string, so any catalog view is addressable by its URL.
func (c *CatalogController) Products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := repositories.ProductFilter{
		Search:       q.Get("search"),
		CategoryID:   services.ParseID(q.Get("category")),
		BodyTypeID:   services.ParseID(q.Get("bodyType")),
		ResolutionID: services.ParseID(q.Get("resolution")),
		Sort:         q.Get("sort"),
	}
	if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		f.MaxPrice = &v
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		f.Page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		f.Limit = n
	}

	products, page, err := c.catalog.Products(f)
	if err != nil {
		logger.WithCtx(r.Context()).Error("catalog: products query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, productsResponse{
			Products: []models.Product{},
			Error:    "failed to load products",
		})
		return
	}

	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, productsResponse{
		Products:   products,
		Pagination: productsPage{Total: page.Total, TotalPages: page.TotalPages},
	})
}

// Filters handles GET /api/filters. Counts depend on the search term only;
// the selected ids are echoed back as checked flags.
func (c *CatalogController) Filters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	facets, err := c.catalog.Facets(
		q.Get("search"),
		services.ParseID(q.Get("category")),
		services.ParseID(q.Get("bodyType")),
		services.ParseID(q.Get("resolution")),
	)
	if err != nil {
		logger.WithCtx(r.Context()).Error("catalog: facets query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, filtersResponse{
			Error: "failed to load filters",
		})
		return
	}

	writeJSON(w, http.StatusOK, filtersResponse{Facets: facets})
}

// Show handles GET /api/products/{slug}, the product detail page.
func (c *CatalogController) Show(w http.ResponseWriter, r *http.Request) {
	p, err := c.products.FindBySlug(router.Param(r, "slug"))
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, p)
}
