package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/repositories"
	"github.com/dkrylov/camshop/pkg/collection"
	"github.com/dkrylov/camshop/pkg/session"
)

// ErrOutOfStock is returned when a cart operation asks for more units than
// the product has.
var ErrOutOfStock = errors.New("not enough stock")

const cartSessionKey = "cart"

// CartLine is one product entry in the session cart.
type CartLine struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// CartItem is a cart line joined with its product for display.
type CartItem struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Subtotal float64        `json:"subtotal"`
}

// Cart is the view model of the whole cart.
type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

// CartService keeps the cart in the Redis-backed session, so guests carry a
// cart across visits without an account.
type CartService struct {
	products *repositories.ProductRepository
}

func NewCartService() *CartService {
	return &CartService{products: repositories.NewProductRepository()}
}

func (s *CartService) lines(r *http.Request) []CartLine {
	var lines []CartLine
	session.FromCtx(r).GetJSON(cartSessionKey, &lines)
	return lines
}

func (s *CartService) save(r *http.Request, w http.ResponseWriter, lines []CartLine) error {
	sess := session.FromCtx(r)
	sess.Set(cartSessionKey, lines)
	return sess.Save(w)
}

// Add puts qty units of a product into the cart, merging with an existing
// line. Stock is checked against the requested total.
func (s *CartService) Add(r *http.Request, w http.ResponseWriter, productID uint, qty int) error {
	if qty < 1 {
		qty = 1
	}

	p, err := s.products.FindByID(productID)
	if err != nil {
		return err
	}

	lines := s.lines(r)
	found := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += qty
			qty = lines[i].Quantity
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, CartLine{ProductID: productID, Quantity: qty})
	}

	if !p.InStock || p.StockQuantity < qty {
		return fmt.Errorf("cart: %s: %w", p.Name, ErrOutOfStock)
	}

	return s.save(r, w, lines)
}

// Update sets the quantity of one line; qty 0 removes it.
func (s *CartService) Update(r *http.Request, w http.ResponseWriter, productID uint, qty int) error {
	if qty <= 0 {
		return s.Remove(r, w, productID)
	}

	p, err := s.products.FindByID(productID)
	if err != nil {
		return err
	}
	if !p.InStock || p.StockQuantity < qty {
		return fmt.Errorf("cart: %s: %w", p.Name, ErrOutOfStock)
	}

	lines := s.lines(r)
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = qty
			return s.save(r, w, lines)
		}
	}
	return s.save(r, w, append(lines, CartLine{ProductID: productID, Quantity: qty}))
}

// Remove drops one product line from the cart.
func (s *CartService) Remove(r *http.Request, w http.ResponseWriter, productID uint) error {
	lines := collection.Filter(s.lines(r), func(l CartLine) bool {
		return l.ProductID != productID
	})
	return s.save(r, w, lines)
}

// Clear empties the cart.
func (s *CartService) Clear(r *http.Request, w http.ResponseWriter) error {
	return s.save(r, w, nil)
}

// Get returns the cart joined with product data and totals. Lines whose
// product has disappeared are silently dropped.
func (s *CartService) Get(r *http.Request) (Cart, error) {
	var cart Cart

	for _, line := range s.lines(r) {
		p, err := s.products.FindByID(line.ProductID)
		if err != nil {
			continue
		}
		cart.Items = append(cart.Items, CartItem{
			Product:  p,
			Quantity: line.Quantity,
			Subtotal: p.Price * float64(line.Quantity),
		})
	}

	cart.Total = collection.Sum(cart.Items, func(i CartItem) float64 { return i.Subtotal })
	return cart, nil
}
