package repositories

import (
	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/pkg/orm"
)

// FacetRow is one raw facet aggregation row before checked-annotation.
type FacetRow struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PriceBounds are the min/max product prices within the current search.
type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FacetRepository computes filter aggregations. Counts are scoped to the
// search term only, never to the other selected filters, so each count reads
// as "products you would see if you added this filter".
type FacetRepository struct{}

func NewFacetRepository() *FacetRepository {
	return &FacetRepository{}
}

// CategoryFacets returns each category with at least one product matching
// search, with its product count.
func (r *FacetRepository) CategoryFacets(search string) ([]FacetRow, error) {
	q := orm.DB().Model(&models.Category{}).
		Select("categories.id AS id, categories.name AS name, COUNT(products.id) AS count").
		Joins("JOIN products ON products.category_id = categories.id AND products.deleted_at IS NULL").
		Group("categories.id, categories.name").
		Order("categories.name asc")

	if search != "" {
		q = q.Where("LOWER(products.name) LIKE LOWER(?)", "%"+search+"%")
	}

	var rows []FacetRow
	err := q.Scan(&rows)
	return rows, err
}

// SpecFacets returns the distinct values of the specification identified by
// specSlug across products matching search. The row id of one representative
// ProductSpecification serves as the facet id the URL carries.
func (r *FacetRepository) SpecFacets(specSlug, search string) ([]FacetRow, error) {
	q := orm.DB().Model(&models.ProductSpecification{}).
		Select("MIN(product_specifications.id) AS id, product_specifications.value AS name, COUNT(DISTINCT product_specifications.product_id) AS count").
		Joins("JOIN specifications ON specifications.id = product_specifications.specification_id AND specifications.slug = ?", specSlug).
		Joins("JOIN products ON products.id = product_specifications.product_id AND products.deleted_at IS NULL").
		Group("product_specifications.value").
		Order("name asc")

	if search != "" {
		q = q.Where("LOWER(products.name) LIKE LOWER(?)", "%"+search+"%")
	}

	var rows []FacetRow
	err := q.Scan(&rows)
	return rows, err
}

// PriceRange returns the min/max price over products matching search.
// Both bounds are zero when nothing matches.
func (r *FacetRepository) PriceRange(search string) (PriceBounds, error) {
	q := orm.DB().Model(&models.Product{}).
		Select("COALESCE(MIN(products.price), 0) AS min, COALESCE(MAX(products.price), 0) AS max")

	if search != "" {
		q = q.Where("LOWER(products.name) LIKE LOWER(?)", "%"+search+"%")
	}

	var bounds PriceBounds
	err := q.Scan(&bounds)
	return bounds, err
}
