package models

import "gorm.io/gorm"

// Category is a node in the catalogue tree. A nil ParentID marks a root.
// The service layer guarantees a category is never its own ancestor.
type Category struct {
	gorm.Model
	Name        string `gorm:"size:255;not null"    json:"name"`
	Slug        string `gorm:"size:255;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text"            json:"description"`
	ParentID    *uint  `gorm:"index"                json:"parentId"`

	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Products []Product  `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}
