package services

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/repositories"
	"github.com/dkrylov/camshop/pkg/event"
	"github.com/dkrylov/camshop/pkg/orm"
)

// ErrEmptyCart is returned when checkout runs against an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// ErrBadStatus is returned for an unknown order status transition.
var ErrBadStatus = errors.New("unknown order status")

// CheckoutInput is the canonical customer payload. There is exactly one
// field set; requests carrying unknown keys are rejected at bind time.
type CheckoutInput struct {
	CustomerName    string `json:"customerName"    validate:"required,min=2,max=255"`
	CustomerEmail   string `json:"customerEmail"   validate:"required,email"`
	CustomerPhone   string `json:"customerPhone"   validate:"nullable,max=64"`
	ShippingAddress string `json:"shippingAddress" validate:"required,min=5"`
	Comment         string `json:"comment"         validate:"nullable,max=2000"`
}

var validStatuses = map[string]bool{
	models.OrderStatusNew:       true,
	models.OrderStatusPaid:      true,
	models.OrderStatusShipped:   true,
	models.OrderStatusDelivered: true,
	models.OrderStatusCancelled: true,
}

// OrderService creates orders from carts and manages their lifecycle.
type OrderService struct {
	orders   *repositories.OrderRepository
	products *repositories.ProductRepository
	cart     *CartService
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders:   repositories.NewOrderRepository(),
		products: repositories.NewProductRepository(),
		cart:     NewCartService(),
	}
}

// Checkout validates the cart against live stock, snapshots prices into
// order items, persists the order, clears the cart, and fires
// order.created for the mail job and the admin feed.
func (s *OrderService) Checkout(r *http.Request, w http.ResponseWriter, in CheckoutInput) (models.Order, error) {
	cart, err := s.cart.Get(r)
	if err != nil {
		return models.Order{}, err
	}
	if len(cart.Items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	order := models.Order{
		Number:          newOrderNumber(),
		Status:          models.OrderStatusNew,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		ShippingAddress: in.ShippingAddress,
		Comment:         in.Comment,
		Total:           cart.Total,
	}

	for _, item := range cart.Items {
		if !item.Product.InStock || item.Product.StockQuantity < item.Quantity {
			return models.Order{}, fmt.Errorf("order: %s: %w", item.Product.Name, ErrOutOfStock)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Price:       item.Product.Price,
			Quantity:    item.Quantity,
		})
	}

	if err := s.orders.Create(&order); err != nil {
		return models.Order{}, fmt.Errorf("order: create: %w", err)
	}

	if err := s.cart.Clear(r, w); err != nil {
		return models.Order{}, err
	}

	event.FireAsync("order.created", order)
	return order, nil
}

// All pages orders for the back office.
func (s *OrderService) All(status string, page, limit int) ([]models.Order, orm.Pagination, error) {
	return s.orders.All(status, page, limit)
}

// Find loads one order with its lines.
func (s *OrderService) Find(id uint) (models.Order, error) {
	return s.orders.FindByID(id)
}

// SetStatus transitions an order to a new status.
func (s *OrderService) SetStatus(id uint, status string) (models.Order, error) {
	if !validStatuses[status] {
		return models.Order{}, fmt.Errorf("order: %q: %w", status, ErrBadStatus)
	}
	if err := s.orders.UpdateStatus(id, status); err != nil {
		return models.Order{}, err
	}

	order, err := s.orders.FindByID(id)
	if err != nil {
		return models.Order{}, err
	}

	event.FireAsync("order.updated", order)
	return order, nil
}

// newOrderNumber builds a human-readable unique order number like
// CS-20250301-4821.
func newOrderNumber() string {
	return fmt.Sprintf("CS-%s-%04d", time.Now().Format("20060102"), rand.Intn(10000))
}
