package controllers

import (
	"errors"
	"net/http"

	"github.com/dkrylov/camshop/app/services"
	"github.com/dkrylov/camshop/pkg/bind"
	"github.com/dkrylov/camshop/pkg/response"
	"github.com/dkrylov/camshop/pkg/router"
)

type cartLineInput struct {
	ProductID uint `json:"productId" validate:"required,min=1"`
	Quantity  int  `json:"quantity"  validate:"nullable,min=0,max=999"`
}

// CartController manages the session cart.
type CartController struct {
	cart *services.CartService
}

func NewCartController() *CartController {
	return &CartController{cart: services.NewCartService()}
}

// Show handles GET /api/cart.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	cart, err := c.cart.Get(r)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	response.Success(w, cart)
}

// Add handles POST /api/cart/items.
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	var in cartLineInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.cart.Add(r, w, in.ProductID, in.Quantity); err != nil {
		c.writeCartError(w, err)
		return
	}
	c.Show(w, r)
}

// Update handles PUT /api/cart/items/{id}.
func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	id := services.ParseID(router.Param(r, "id"))
	if id == 0 {
		response.NotFound(w)
		return
	}

	var in struct {
		Quantity int `json:"quantity" validate:"required,min=0,max=999"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.cart.Update(r, w, id, in.Quantity); err != nil {
		c.writeCartError(w, err)
		return
	}
	c.Show(w, r)
}

// Remove handles DELETE /api/cart/items/{id}.
func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	id := services.ParseID(router.Param(r, "id"))
	if id == 0 {
		response.NotFound(w)
		return
	}
	if err := c.cart.Remove(r, w, id); err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to update cart")
		return
	}
	c.Show(w, r)
}

// Clear handles DELETE /api/cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	if err := c.cart.Clear(r, w); err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	response.NoContent(w)
}

func (c *CartController) writeCartError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrOutOfStock) {
		response.Error(w, http.StatusConflict, err.Error())
		return
	}
	response.NotFound(w)
}
