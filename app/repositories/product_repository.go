package repositories

import (
	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/pkg/orm"
)

// ProductFilter carries every parameter the catalog listing accepts.
// Zero values mean "unset".
type ProductFilter struct {
	Search       string
	CategoryID   uint
	BodyTypeID   uint // ProductSpecification row id for the body-type spec
	ResolutionID uint // ProductSpecification row id for the resolution spec
	MinPrice     *float64
	MaxPrice     *float64
	Sort         string // name-asc | name-desc | price-asc | price-desc
	Page         int
	Limit        int
}

// ProductRepository handles database operations for products.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

var sortClauses = map[string]string{
	"name-asc":   "products.name asc",
	"name-desc":  "products.name desc",
	"price-asc":  "products.price asc",
	"price-desc": "products.price desc",
}

// List returns one page of products matching f, with pagination metadata.
func (r *ProductRepository) List(f ProductFilter) ([]models.Product, orm.Pagination, error) {
	q := orm.DB().Model(&models.Product{})

	if f.Search != "" {
		q = q.Where("LOWER(products.name) LIKE LOWER(?)", "%"+f.Search+"%")
	}
	if f.CategoryID != 0 {
		q = q.Where("products.category_id = ?", f.CategoryID)
	}
	if f.MinPrice != nil {
		q = q.Where("products.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("products.price <= ?", *f.MaxPrice)
	}

	var err error
	if q, err = r.withSpecFilter(q, f.BodyTypeID); err != nil {
		return nil, orm.Pagination{}, err
	}
	if q, err = r.withSpecFilter(q, f.ResolutionID); err != nil {
		return nil, orm.Pagination{}, err
	}

	clause, ok := sortClauses[f.Sort]
	if !ok {
		clause = sortClauses["name-asc"]
	}

	var products []models.Product
	pagination, err := q.Order(clause).
		Preload("Images").
		GetWithPagination(&products, f.Page, f.Limit)
	return products, pagination, err
}

// withSpecFilter narrows q to products carrying the same specification value
// as the ProductSpecification row identified by valueID. The URL carries the
// row id of one representative value; every product with that value matches.
func (r *ProductRepository) withSpecFilter(q *orm.Query, valueID uint) (*orm.Query, error) {
	if valueID == 0 {
		return q, nil
	}

	value, specID, err := r.SpecValueByID(valueID)
	if err != nil {
		return nil, err
	}

	return q.Where(
		"EXISTS (SELECT 1 FROM product_specifications ps WHERE ps.product_id = products.id AND ps.specification_id = ? AND ps.value = ? AND ps.deleted_at IS NULL)",
		specID, value,
	), nil
}

// SpecValueByID resolves a ProductSpecification row id into its value and
// owning specification id.
func (r *ProductRepository) SpecValueByID(id uint) (value string, specID uint, err error) {
	var ps models.ProductSpecification
	if err := orm.DB().Model(&models.ProductSpecification{}).Where("id = ?", id).First(&ps); err != nil {
		return "", 0, err
	}
	return ps.Value, ps.SpecificationID, nil
}

// FindByID loads a product with its images and specification values.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var p models.Product
	err := orm.DB().Model(&models.Product{}).
		Preload("Images").
		Preload("Specifications").
		Preload("Specifications.Specification").
		Preload("Category").
		Where("id = ?", id).
		First(&p)
	return p, err
}

// FindBySlug loads a product by its URL slug.
func (r *ProductRepository) FindBySlug(slug string) (models.Product, error) {
	var p models.Product
	err := orm.DB().Model(&models.Product{}).
		Preload("Images").
		Preload("Specifications").
		Preload("Specifications.Specification").
		Preload("Category").
		Where("slug = ?", slug).
		First(&p)
	return p, err
}

// Create persists a new product.
func (r *ProductRepository) Create(p *models.Product) error {
	return orm.DB().Create(p)
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(p *models.Product) error {
	return orm.DB().Save(p)
}

// Delete soft-deletes a product and its images.
func (r *ProductRepository) Delete(id uint) error {
	return orm.Transaction(func(tx *orm.Query) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}); err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductSpecification{}); err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Product{})
	})
}

// UpsertSpecification sets the value for (productID, specID), honouring the
// one-value-per-pair invariant.
func (r *ProductRepository) UpsertSpecification(productID, specID uint, value string) error {
	var existing models.ProductSpecification
	err := orm.DB().Model(&models.ProductSpecification{}).
		Where("product_id = ? AND specification_id = ?", productID, specID).
		First(&existing)

	if err == nil {
		existing.Value = value
		return orm.DB().Save(&existing)
	}

	return orm.DB().Create(&models.ProductSpecification{
		ProductID:       productID,
		SpecificationID: specID,
		Value:           value,
	})
}

// AddImage appends a gallery image.
func (r *ProductRepository) AddImage(img *models.ProductImage) error {
	return orm.DB().Create(img)
}

// DeleteImage removes a single gallery image.
func (r *ProductRepository) DeleteImage(id uint) error {
	return orm.DB().Where("id = ?", id).Delete(&models.ProductImage{})
}
