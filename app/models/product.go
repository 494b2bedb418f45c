package models

import "gorm.io/gorm"

// Product is a camera in the catalogue.
type Product struct {
	gorm.Model
	Name          string  `gorm:"size:255;not null;index"  json:"name"`
	Slug          string  `gorm:"size:255;uniqueIndex"     json:"slug"`
	SKU           string  `gorm:"size:100;uniqueIndex"     json:"sku"`
	Description   string  `gorm:"type:text"                json:"description"`
	Price         float64 `gorm:"not null;default:0;index" json:"price"`
	CategoryID    uint    `gorm:"index"                    json:"categoryId"`
	IsHit         bool    `gorm:"not null;default:false"   json:"isHit"`
	InStock       bool    `gorm:"not null;default:true"    json:"inStock"`
	StockQuantity int     `gorm:"not null;default:0"       json:"stockQuantity"`
	MainImage     string  `gorm:"size:512"                 json:"mainImage"`

	Category       *Category              `gorm:"foreignKey:CategoryID"  json:"category,omitempty"`
	Images         []ProductImage         `gorm:"foreignKey:ProductID"   json:"images,omitempty"`
	Specifications []ProductSpecification `gorm:"foreignKey:ProductID"   json:"specifications,omitempty"`
}

// ProductImage is one gallery image of a product. SortOrder defines display
// order; at most one image per product carries IsMain.
type ProductImage struct {
	gorm.Model
	ProductID uint   `gorm:"index;not null"         json:"productId"`
	ImageURL  string `gorm:"size:512;not null"      json:"imageUrl"`
	IsMain    bool   `gorm:"not null;default:false" json:"isMain"`
	SortOrder int    `gorm:"not null;default:0"     json:"sortOrder"`
}
