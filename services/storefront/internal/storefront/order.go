package storefront

import (
	"time"

	"github.com/appetiteclub/storefront/pkg/enums/orderstatus"
	"github.com/appetiteclub/storefront/pkg/enums/paymentmethod"
)

type Order struct {
	ID            string               `json:"id"`
	CustomerName  string               `json:"customerName"`
	CustomerPhone string               `json:"customerPhone"`
	CustomerEmail string               `json:"customerEmail,omitempty"`
	Items         []CartItem           `json:"items"`
	Total         float64              `json:"total"`
	Status        orderstatus.Status   `json:"status"`
	CreatedAt     int64                `json:"createdAt"` // unix millis
	PaymentMethod paymentmethod.Method `json:"paymentMethod"`
}

func (o Order) CreatedTime() time.Time {
	return time.UnixMilli(o.CreatedAt)
}

// ItemCount sums quantities across the order lines.
func (o Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// OrderDraft carries the caller supplied part of a new order. Zero values
// are replaced by defaults when the order is created.
type OrderDraft struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Items         []CartItem
	Total         float64
	PaymentMethod paymentmethod.Method
}

const defaultCustomerName = "Guest"

func (d OrderDraft) build(id string, now time.Time) Order {
	order := Order{
		ID:            id,
		CustomerName:  d.CustomerName,
		CustomerPhone: d.CustomerPhone,
		CustomerEmail: d.CustomerEmail,
		Items:         cloneCartItems(d.Items),
		Total:         d.Total,
		Status:        orderstatus.New,
		CreatedAt:     now.UnixMilli(),
		PaymentMethod: d.PaymentMethod,
	}
	if order.CustomerName == "" {
		order.CustomerName = defaultCustomerName
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = paymentmethod.COD
	}
	return order
}
