// Package jobs holds the background jobs dispatched through the queue.
package jobs

import (
	"fmt"

	"github.com/dkrylov/camshop/app/repositories"
	"github.com/dkrylov/camshop/pkg/mail"
	"github.com/dkrylov/camshop/pkg/queue"
)

// OrderConfirmationJob emails the customer after checkout. It carries only
// the order ID; the order is reloaded at run time so a retried job sees the
// current state.
type OrderConfirmationJob struct {
	OrderID uint `json:"orderId"`
}

func (j *OrderConfirmationJob) Handle() error {
	order, err := repositories.NewOrderRepository().FindByID(j.OrderID)
	if err != nil {
		return fmt.Errorf("order confirmation: load order %d: %w", j.OrderID, err)
	}

	body := fmt.Sprintf("<h1>Thank you, %s!</h1>", order.CustomerName)
	body += fmt.Sprintf("<p>Your order <b>%s</b> has been received.</p><ul>", order.Number)
	for _, item := range order.Items {
		body += fmt.Sprintf("<li>%s &times; %d &mdash; %.2f</li>", item.ProductName, item.Quantity, item.Price*float64(item.Quantity))
	}
	body += fmt.Sprintf("</ul><p>Total: <b>%.2f</b></p>", order.Total)

	return mail.To(order.CustomerEmail).
		Subject("Your order " + order.Number).
		Body(body).
		Send()
}

// WarmFacetCacheJob rebuilds the default facet cache entry after catalog
// writes, so the first storefront visitor never pays for the aggregation.
type WarmFacetCacheJob struct{}

func (j *WarmFacetCacheJob) Handle() error {
	return warmFacets()
}

// warmFacets is assigned at boot to break the services → jobs import cycle.
var warmFacets = func() error { return nil }

// SetFacetWarmer injects the facet warm function.
func SetFacetWarmer(fn func() error) { warmFacets = fn }

// RegisterAll makes every job type known to the queue. Call once at boot.
func RegisterAll() {
	queue.Register("*jobs.OrderConfirmationJob", func() queue.Job { return &OrderConfirmationJob{} })
	queue.Register("*jobs.WarmFacetCacheJob", func() queue.Job { return &WarmFacetCacheJob{} })
}
