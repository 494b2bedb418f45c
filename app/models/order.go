package models

import "gorm.io/gorm"

// Order statuses, in the order they normally progress.
const (
	OrderStatusNew       = "new"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order is a placed order. Customer fields are the single canonical shape;
// the API rejects payloads that do not carry exactly these keys.
type Order struct {
	gorm.Model
	Number          string  `gorm:"size:32;uniqueIndex"       json:"number"`
	Status          string  `gorm:"size:32;not null;index"    json:"status"`
	CustomerName    string  `gorm:"size:255;not null"         json:"customerName"`
	CustomerEmail   string  `gorm:"size:255;not null;index"   json:"customerEmail"`
	CustomerPhone   string  `gorm:"size:64"                   json:"customerPhone"`
	ShippingAddress string  `gorm:"type:text"                 json:"shippingAddress"`
	Comment         string  `gorm:"type:text"                 json:"comment"`
	Total           float64 `gorm:"not null;default:0"        json:"total"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem snapshots one product line at checkout time. Price is copied
// from the product so later price changes do not rewrite old orders.
type OrderItem struct {
	gorm.Model
	OrderID     uint    `gorm:"index;not null"     json:"orderId"`
	ProductID   uint    `gorm:"index;not null"     json:"productId"`
	ProductName string  `gorm:"size:255;not null"  json:"productName"`
	Price       float64 `gorm:"not null"           json:"price"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
}
