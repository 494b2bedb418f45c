package models

import "gorm.io/gorm"

// Spec slugs the storefront filters on.
const (
	SpecBodyType   = "body-type"
	SpecResolution = "resolution"
)

// Specification is a named attribute type ("Body Type", "Resolution").
type Specification struct {
	gorm.Model
	Name string `gorm:"size:255;not null"    json:"name"`
	Slug string `gorm:"size:255;uniqueIndex" json:"slug"`
}

// ProductSpecification binds a (product, specification) pair to a value.
// At most one value per pair.
type ProductSpecification struct {
	gorm.Model
	ProductID       uint   `gorm:"not null;uniqueIndex:idx_product_spec" json:"productId"`
	SpecificationID uint   `gorm:"not null;uniqueIndex:idx_product_spec" json:"specificationId"`
	Value           string `gorm:"size:255;not null"                     json:"value"`

	Specification *Specification `gorm:"foreignKey:SpecificationID" json:"specification,omitempty"`
}
