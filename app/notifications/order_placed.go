// Package notifications defines the staff alerts the shop sends.
package notifications

import (
	"fmt"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/pkg/notification"
)

// OrderPlaced alerts staff on Slack when a customer places an order.
type OrderPlaced struct {
	Order models.Order
}

func (n *OrderPlaced) Via() []string { return []string{"slack"} }

func (n *OrderPlaced) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf("New order %s — %.2f", n.Order.Number, n.Order.Total),
		Attachments: []notification.SlackAttachment{{
			Color:  "good",
			Title:  n.Order.CustomerName,
			Text:   fmt.Sprintf("%d items, %s", len(n.Order.Items), n.Order.CustomerEmail),
			Footer: "camshop",
		}},
	}
}

// LowStock alerts staff when an order drains a product below its threshold.
type LowStock struct {
	Product   models.Product
	Remaining int
}

func (n *LowStock) Via() []string { return []string{"slack"} }

func (n *LowStock) ToSlack() notification.SlackData {
	return notification.SlackData{
		Attachments: []notification.SlackAttachment{{
			Color:  "warning",
			Title:  "Low stock: " + n.Product.Name,
			Text:   fmt.Sprintf("%d units left (SKU %s)", n.Remaining, n.Product.SKU),
			Footer: "camshop",
		}},
	}
}
