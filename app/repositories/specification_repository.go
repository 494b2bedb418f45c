package repositories

import (
	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/pkg/orm"
)

// SpecificationRepository manages the specification dictionary (body type,
// resolution, and any future attribute).
type SpecificationRepository struct{}

func NewSpecificationRepository() *SpecificationRepository {
	return &SpecificationRepository{}
}

func (r *SpecificationRepository) All() ([]models.Specification, error) {
	var specs []models.Specification
	err := orm.DB().Model(&models.Specification{}).Order("name asc").Get(&specs)
	return specs, err
}

func (r *SpecificationRepository) FindByID(id uint) (models.Specification, error) {
	var spec models.Specification
	err := orm.DB().Model(&models.Specification{}).Where("id = ?", id).First(&spec)
	return spec, err
}

func (r *SpecificationRepository) FindBySlug(slug string) (models.Specification, error) {
	var spec models.Specification
	err := orm.DB().Model(&models.Specification{}).Where("slug = ?", slug).First(&spec)
	return spec, err
}

func (r *SpecificationRepository) Create(spec *models.Specification) error {
	return orm.DB().Create(spec)
}

func (r *SpecificationRepository) Update(spec *models.Specification) error {
	return orm.DB().Save(spec)
}

// Delete removes a specification and every product value bound to it.
func (r *SpecificationRepository) Delete(id uint) error {
	return orm.Transaction(func(tx *orm.Query) error {
		if err := tx.Where("specification_id = ?", id).Delete(&models.ProductSpecification{}); err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Specification{})
	})
}
