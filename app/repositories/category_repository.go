package repositories

import (
	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/pkg/orm"
)

// CategoryRepository handles database operations for the category tree.
type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

// All returns every category ordered by name.
func (r *CategoryRepository) All() ([]models.Category, error) {
	var cats []models.Category
	err := orm.DB().Model(&models.Category{}).Order("name asc").Get(&cats)
	return cats, err
}

// FindByID loads a single category.
func (r *CategoryRepository) FindByID(id uint) (models.Category, error) {
	var c models.Category
	err := orm.DB().Model(&models.Category{}).Where("id = ?", id).First(&c)
	return c, err
}

// FindBySlug loads a category by its URL slug.
func (r *CategoryRepository) FindBySlug(slug string) (models.Category, error) {
	var c models.Category
	err := orm.DB().Model(&models.Category{}).Where("slug = ?", slug).First(&c)
	return c, err
}

// Children returns the direct children of a category.
func (r *CategoryRepository) Children(id uint) ([]models.Category, error) {
	var cats []models.Category
	err := orm.DB().Model(&models.Category{}).Where("parent_id = ?", id).Order("name asc").Get(&cats)
	return cats, err
}

// Create persists a new category.
func (r *CategoryRepository) Create(c *models.Category) error {
	return orm.DB().Create(c)
}

// Update persists changes to an existing category.
func (r *CategoryRepository) Update(c *models.Category) error {
	return orm.DB().Save(c)
}

// Delete soft-deletes a category. Children are re-rooted so the tree never
// dangles on a deleted parent.
func (r *CategoryRepository) Delete(id uint) error {
	return orm.Transaction(func(tx *orm.Query) error {
		if err := tx.Model(&models.Category{}).
			Where("parent_id = ?", id).
			Updates(map[string]interface{}{"parent_id": nil}); err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Category{})
	})
}
