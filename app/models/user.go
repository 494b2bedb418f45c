package models

import "gorm.io/gorm"

// User is a back-office account. Role gates admin routes.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null"    json:"name"`
	Email    string `gorm:"size:255;uniqueIndex" json:"email"`
	Password string `gorm:"size:255;not null"    json:"-"`
	Role     string `gorm:"size:32;default:admin" json:"role"`
}
