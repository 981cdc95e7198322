package storefront

import (
	"context"
	"encoding/json"

	"github.com/appetiteclub/storefront/pkg/enums/orderstatus"
	"github.com/appetiteclub/storefront/pkg/enums/reservationstatus"
	"github.com/appetiteclub/storefront/pkg/event"
)

const (
	orderCreated             = "order.created"
	orderStatusChanged       = "order.status_changed"
	reservationCreated       = "reservation.created"
	reservationStatusChanged = "reservation.status_changed"
	menuItemSaved            = "menu.item_saved"
	menuItemDeleted          = "menu.item_deleted"
)

func (r *Repo) publishOrder(ctx context.Context, eventType string, order Order, previous orderstatus.Status) {
	topic := event.OrderStatusTopic
	if eventType == orderCreated {
		topic = event.OrderCreatedTopic
	}

	r.publish(ctx, topic, event.OrderEvent{
		EventType:      eventType,
		OccurredAt:     r.now(),
		OrderID:        order.ID,
		Status:         order.Status.Code(),
		PreviousStatus: previous.Code(),
		CustomerName:   order.CustomerName,
		Total:          order.Total,
		ItemCount:      order.ItemCount(),
	})
}

func (r *Repo) publishReservation(ctx context.Context, eventType string, res Reservation, previous reservationstatus.Status) {
	topic := event.ReservationStatusTopic
	if eventType == reservationCreated {
		topic = event.ReservationCreatedTopic
	}

	r.publish(ctx, topic, event.ReservationEvent{
		EventType:      eventType,
		OccurredAt:     r.now(),
		ReservationID:  res.ID,
		Status:         res.Status.Code(),
		PreviousStatus: previous.Code(),
		Date:           res.Date,
		Time:           res.Time,
		Guests:         res.Guests,
	})
}

func (r *Repo) publishMenuItem(ctx context.Context, eventType string, item MenuItem) {
	topic := event.MenuItemSavedTopic
	if eventType == menuItemDeleted {
		topic = event.MenuItemDeletedTopic
	}

	r.publish(ctx, topic, event.MenuItemEvent{
		EventType:  eventType,
		OccurredAt: r.now(),
		MenuItemID: item.ID,
		Name:       item.Name,
		InStock:    item.InStock,
	})
}

// publish is best effort. State is already persisted when it runs.
func (r *Repo) publish(ctx context.Context, topic string, payload any) {
	if r.opts.Publisher == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		r.logger.Errorf("Failed to encode %s event: %v", topic, err)
		return
	}

	if err := r.opts.Publisher.Publish(ctx, topic, data); err != nil {
		r.logger.Errorf("Failed to publish %s event: %v", topic, err)
	}
}
