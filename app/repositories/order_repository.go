package repositories

import (
	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/pkg/orm"
)

// OrderRepository handles database operations for orders.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// All returns one page of orders, newest first, optionally filtered by status.
func (r *OrderRepository) All(status string, page, limit int) ([]models.Order, orm.Pagination, error) {
	q := orm.DB().Model(&models.Order{}).Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []models.Order
	pagination, err := q.Preload("Items").GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// FindByID loads an order with its lines.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var o models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("Items").
		Where("id = ?", id).
		First(&o)
	return o, err
}

// Create persists an order and its items atomically, decrementing stock for
// every line.
func (r *OrderRepository) Create(o *models.Order) error {
	return orm.Transaction(func(tx *orm.Query) error {
		if err := tx.Create(o); err != nil {
			return err
		}
		for _, item := range o.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				Updates(map[string]interface{}{
					"stock_quantity": orm.Expr("stock_quantity - ?", item.Quantity),
				}); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateStatus moves an order to a new status.
func (r *OrderRepository) UpdateStatus(id uint, status string) error {
	return orm.DB().Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status})
}
