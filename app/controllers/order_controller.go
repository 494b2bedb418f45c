package controllers

import (
	"errors"
	"net/http"

	"github.com/dkrylov/camshop/app/services"
	"github.com/dkrylov/camshop/pkg/bind"
	"github.com/dkrylov/camshop/pkg/response"
)

// OrderController serves the public checkout endpoint.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{orders: services.NewOrderService()}
}

// Checkout handles POST /api/orders: turns the session cart into an order.
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	var in services.CheckoutInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.Checkout(r, w, in)
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		response.Error(w, http.StatusUnprocessableEntity, "cart is empty")
		return
	case errors.Is(err, services.ErrOutOfStock):
		response.Error(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		response.Error(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	response.Created(w, order)
}
