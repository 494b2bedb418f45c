// Package resource provides typed API transformers: a transform function
// turns one model into the exact JSON shape the API returns, and Item /
// List wrap the result with metadata and write it.
//
//	func productResource(p models.Product) resource.Map {
//	    return resource.Map{"id": p.ID, "name": p.Name, "price": p.Price}
//	}
//
//	resource.Item(w, product, productResource)
//	resource.List(w, products, productResource).WithPagination(pg).Respond()
package resource

import (
	"encoding/json"
	"net/http"

	"github.com/dkrylov/camshop/pkg/orm"
)

// Map is the output shape of a transform function.
type Map = map[string]interface{}

// Transform converts one model into its wire representation.
type Transform[T any] func(T) Map

// Item transforms a single model and writes {"data": ...} with status 200.
func Item[T any](w http.ResponseWriter, v T, fn Transform[T]) {
	writeJSON(w, http.StatusOK, Map{"data": fn(v)})
}

// Collection holds transformed items plus optional metadata, waiting for
// Respond to write them.
type Collection struct {
	w          http.ResponseWriter
	data       []Map
	pagination *orm.Pagination
	meta       Map
}

// List transforms every element of items.
func List[T any](w http.ResponseWriter, items []T, fn Transform[T]) *Collection {
	data := make([]Map, len(items))
	for i, v := range items {
		data[i] = fn(v)
	}
	return &Collection{w: w, data: data}
}

// WithPagination attaches pagination metadata.
func (c *Collection) WithPagination(p orm.Pagination) *Collection {
	c.pagination = &p
	return c
}

// WithMeta attaches extra metadata.
func (c *Collection) WithMeta(meta Map) *Collection {
	c.meta = meta
	return c
}

// Respond writes the collection as JSON with status 200.
func (c *Collection) Respond() {
	out := Map{"data": c.data}
	if c.pagination != nil {
		out["pagination"] = c.pagination
	}
	if c.meta != nil {
		out["meta"] = c.meta
	}
	writeJSON(c.w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
