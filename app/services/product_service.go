package services

import (
	"fmt"
	"io"
	"path"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/repositories"
	"github.com/dkrylov/camshop/pkg/event"
	"github.com/dkrylov/camshop/pkg/orm"
	"github.com/dkrylov/camshop/pkg/storage"
)

// ProductService owns product CRUD for the back office. Every mutation fires
// product.changed so the facet cache and the storefront stay fresh.
type ProductService struct {
	repo       *repositories.ProductRepository
	categories *repositories.CategoryRepository
}

func NewProductService() *ProductService {
	return &ProductService{
		repo:       repositories.NewProductRepository(),
		categories: repositories.NewCategoryRepository(),
	}
}

// Find loads a product with images and specification values.
func (s *ProductService) Find(id uint) (models.Product, error) {
	return s.repo.FindByID(id)
}

// FindBySlug loads a product by its URL slug.
func (s *ProductService) FindBySlug(slug string) (models.Product, error) {
	return s.repo.FindBySlug(slug)
}

// List pages products for the admin table using the same filter surface as
// the storefront.
func (s *ProductService) List(f repositories.ProductFilter) ([]models.Product, orm.Pagination, error) {
	return s.repo.List(f)
}

// Create persists a new product after checking the category exists.
func (s *ProductService) Create(p *models.Product) error {
	if p.CategoryID != 0 {
		if _, err := s.categories.FindByID(p.CategoryID); err != nil {
			return fmt.Errorf("product: category %d: %w", p.CategoryID, err)
		}
	}
	if err := s.repo.Create(p); err != nil {
		return err
	}
	event.Fire("product.changed", p.ID)
	return nil
}

// Update persists changes to an existing product.
func (s *ProductService) Update(p *models.Product) error {
	if p.CategoryID != 0 {
		if _, err := s.categories.FindByID(p.CategoryID); err != nil {
			return fmt.Errorf("product: category %d: %w", p.CategoryID, err)
		}
	}
	if err := s.repo.Update(p); err != nil {
		return err
	}
	event.Fire("product.changed", p.ID)
	return nil
}

// Delete removes a product, its rows, and its image folder on the storage
// disk.
func (s *ProductService) Delete(id uint) error {
	p, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	_ = storage.DeleteDirectory("products/" + p.Slug)
	event.Fire("product.changed", id)
	return nil
}

// SetSpecification upserts one specification value on a product, honouring
// the one-value-per-(product,specification) invariant.
func (s *ProductService) SetSpecification(productID, specID uint, value string) error {
	if err := s.repo.UpsertSpecification(productID, specID, value); err != nil {
		return err
	}
	event.Fire("product.changed", productID)
	return nil
}

// UploadImage stores an image file on the storage disk under the product's
// slug and records a gallery row. The first image of a product becomes its
// main image.
func (s *ProductService) UploadImage(productID uint, filename string, r io.Reader, sortOrder int) (models.ProductImage, error) {
	p, err := s.repo.FindByID(productID)
	if err != nil {
		return models.ProductImage{}, err
	}

	key := "products/" + p.Slug + "/" + path.Base(filename)
	if err := storage.PutStream(key, r); err != nil {
		return models.ProductImage{}, fmt.Errorf("product: store image: %w", err)
	}

	img := models.ProductImage{
		ProductID: productID,
		ImageURL:  storage.URL(key),
		IsMain:    len(p.Images) == 0,
		SortOrder: sortOrder,
	}
	if err := s.repo.AddImage(&img); err != nil {
		return models.ProductImage{}, err
	}

	if img.IsMain {
		p.MainImage = img.ImageURL
		if err := s.repo.Update(&p); err != nil {
			return models.ProductImage{}, err
		}
	}

	event.Fire("product.changed", productID)
	return img, nil
}

// DeleteImage removes a single gallery image row.
func (s *ProductService) DeleteImage(imageID uint) error {
	return s.repo.DeleteImage(imageID)
}
