package storefront

import (
	"context"
	"time"
)

type Operation string

const (
	OpGetMenu                 Operation = "getMenu"
	OpUpdateMenuItem          Operation = "updateMenuItem"
	OpDeleteMenuItem          Operation = "deleteMenuItem"
	OpCreateOrder             Operation = "createOrder"
	OpUpdateOrderStatus       Operation = "updateOrderStatus"
	OpListOrders              Operation = "listOrders"
	OpCreateReservation       Operation = "createReservation"
	OpUpdateReservationStatus Operation = "updateReservationStatus"
	OpListReservations        Operation = "listReservations"
	OpGetStats                Operation = "getStats"
)

// Latency is a simulated per-operation delay. A nil Latency never waits.
type Latency map[Operation]time.Duration

// DefaultLatency mirrors the delays a hosted backend used to show.
func DefaultLatency() Latency {
	return Latency{
		OpGetMenu:           500 * time.Millisecond,
		OpUpdateMenuItem:    500 * time.Millisecond,
		OpDeleteMenuItem:    300 * time.Millisecond,
		OpCreateOrder:       800 * time.Millisecond,
		OpCreateReservation: 800 * time.Millisecond,
	}
}

func (l Latency) wait(ctx context.Context, op Operation) error {
	d := l[op]
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
