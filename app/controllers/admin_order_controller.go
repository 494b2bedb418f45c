package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/services"
	"github.com/dkrylov/camshop/pkg/bind"
	"github.com/dkrylov/camshop/pkg/resource"
	"github.com/dkrylov/camshop/pkg/response"
	"github.com/dkrylov/camshop/pkg/router"
)

// orderRow trims an order to the columns the back-office table shows; the
// full record, items included, comes from Show.
func orderRow(o models.Order) resource.Map {
	return resource.Map{
		"id":            o.ID,
		"number":        o.Number,
		"status":        o.Status,
		"customerName":  o.CustomerName,
		"customerEmail": o.CustomerEmail,
		"total":         o.Total,
		"itemCount":     len(o.Items),
		"createdAt":     o.CreatedAt,
	}
}

// AdminOrderController is the back-office order list and status workflow.
type AdminOrderController struct {
	orders *services.OrderService
}

func NewAdminOrderController() *AdminOrderController {
	return &AdminOrderController{orders: services.NewOrderService()}
}

// Index handles GET /api/admin/orders, newest first, optionally filtered by
// status.
func (c *AdminOrderController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}

	orders, pagination, err := c.orders.All(q.Get("status"), page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	resource.List(w, orders, orderRow).WithPagination(pagination).Respond()
}

// Show handles GET /api/admin/orders/{id}.
func (c *AdminOrderController) Show(w http.ResponseWriter, r *http.Request) {
	order, err := c.orders.Find(services.ParseID(router.Param(r, "id")))
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, order)
}

// SetStatus handles PATCH /api/admin/orders/{id}/status.
func (c *AdminOrderController) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := services.ParseID(router.Param(r, "id"))

	var in struct {
		Status string `json:"status" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.SetStatus(id, in.Status)
	if err != nil {
		if errors.Is(err, services.ErrBadStatus) {
			response.ValidationError(w, map[string]string{"status": "unknown order status"})
			return
		}
		response.NotFound(w)
		return
	}
	response.Success(w, order)
}
