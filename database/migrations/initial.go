package migrations

import (
	"gorm.io/gorm"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20260101000002_create_specifications_table", &CreateSpecificationsTable{})
	migration.Register("20260101000003_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000004_create_product_images_table", &CreateProductImagesTable{})
	migration.Register("20260101000005_create_product_specifications_table", &CreateProductSpecificationsTable{})
	migration.Register("20260101000006_create_orders_table", &CreateOrdersTable{})
	migration.Register("20260101000007_create_order_items_table", &CreateOrderItemsTable{})
}

// -------- 0000: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0001: categories --------

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

func (m *CreateCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("categories")
}

// -------- 0002: specifications --------

type CreateSpecificationsTable struct{}

func (m *CreateSpecificationsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Specification{})
}

func (m *CreateSpecificationsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("specifications")
}

// -------- 0003: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0004: product_images --------

type CreateProductImagesTable struct{}

func (m *CreateProductImagesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ProductImage{})
}

func (m *CreateProductImagesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("product_images")
}

// -------- 0005: product_specifications --------

type CreateProductSpecificationsTable struct{}

func (m *CreateProductSpecificationsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ProductSpecification{})
}

func (m *CreateProductSpecificationsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("product_specifications")
}

// -------- 0006: orders --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("orders")
}

// -------- 0007: order_items --------

type CreateOrderItemsTable struct{}

func (m *CreateOrderItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.OrderItem{})
}

func (m *CreateOrderItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items")
}
