package event

import "time"

const (
	OrderCreatedTopic       = "storefront.order.created"
	OrderStatusTopic        = "storefront.order.status"
	ReservationCreatedTopic = "storefront.reservation.created"
	ReservationStatusTopic  = "storefront.reservation.status"
	MenuItemSavedTopic      = "storefront.menu.saved"
	MenuItemDeletedTopic    = "storefront.menu.deleted"

	// AllTopics is the wildcard subject that captures every storefront event.
	AllTopics = "storefront.>"
)

// OrderEvent is published when an order is placed or changes status.
type OrderEvent struct {
	EventType      string    `json:"event_type"`
	OccurredAt     time.Time `json:"occurred_at"`
	OrderID        string    `json:"order_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	CustomerName   string    `json:"customer_name,omitempty"`
	Total          float64   `json:"total"`
	ItemCount      int       `json:"item_count"`
}

// ReservationEvent is published when a booking is made or decided.
type ReservationEvent struct {
	EventType      string    `json:"event_type"`
	OccurredAt     time.Time `json:"occurred_at"`
	ReservationID  string    `json:"reservation_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Date           string    `json:"date,omitempty"`
	Time           string    `json:"time,omitempty"`
	Guests         int       `json:"guests"`
}

// MenuItemEvent is published when the catalog changes.
type MenuItemEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	MenuItemID string    `json:"menu_item_id"`
	Name       string    `json:"name,omitempty"`
	InStock    bool      `json:"in_stock"`
}
