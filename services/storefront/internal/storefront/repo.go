package storefront

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/appetiteclub/storefront/pkg/enums/orderstatus"
	"github.com/appetiteclub/storefront/pkg/enums/reservationstatus"
	"github.com/appetiteclub/storefront/services/storefront/internal/kvstore"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"
)

const (
	MenuKey         = "menu"
	OrdersKey       = "orders"
	ReservationsKey = "reservations"
)

// Keys lists every persisted collection.
var Keys = []string{MenuKey, OrdersKey, ReservationsKey}

type RepoOptions struct {
	// Catalog replaces the built-in seed catalog when not empty.
	Catalog []MenuItem
	Latency Latency
	// Publisher receives domain events. Nil disables publishing.
	Publisher events.Publisher
	// StrictWrites returns store write errors instead of only logging them.
	StrictWrites bool
	// PermissiveStatus allows any status to be set from any other.
	PermissiveStatus bool
}

// Repo owns the storefront collections. All read-modify-write cycles are
// serialized by mu, so concurrent callers never lose each other's updates.
type Repo struct {
	mu      sync.Mutex
	store   kvstore.Store
	opts    RepoOptions
	logger  aqm.Logger
	now     func() time.Time
	newID   func(prefix string) string
	catalog []MenuItem
}

func NewRepo(store kvstore.Store, opts RepoOptions, logger aqm.Logger) *Repo {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	catalog := opts.Catalog
	if len(catalog) == 0 {
		catalog = SeedCatalog()
	}

	return &Repo{
		store:   store,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
		newID:   newID,
		catalog: cloneMenu(catalog),
	}
}

func newID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + "-" + id.String()
}

// Menu

// GetMenu returns the catalog, seeding the store first when the menu
// collection is missing, undecodable or empty. When the store cannot be
// reached the stored menu is left alone and the error is returned.
func (r *Repo) GetMenu(ctx context.Context) ([]MenuItem, error) {
	if err := r.opts.Latency.wait(ctx, OpGetMenu); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	result := read[[]MenuItem](ctx, r, MenuKey)
	if result.Unavailable() {
		return nil, result.Err
	}
	if result.OK() && len(result.Value) > 0 {
		return result.Value, nil
	}

	seed := cloneMenu(r.catalog)
	r.logger.Info("seeding menu", "items", len(seed), "read_status", result.Status.String())
	if err := r.write(ctx, MenuKey, seed); err != nil {
		return nil, err
	}
	return seed, nil
}

func (r *Repo) GetMenuItem(ctx context.Context, id string) (MenuItem, error) {
	menu, err := r.GetMenu(ctx)
	if err != nil {
		return MenuItem{}, err
	}

	for _, item := range menu {
		if item.ID == id {
			return item, nil
		}
	}
	return MenuItem{}, fmt.Errorf("menu item %s: %w", id, ErrNotFound)
}

// UpdateMenuItem replaces the item with the same id or appends it.
func (r *Repo) UpdateMenuItem(ctx context.Context, item MenuItem) error {
	if err := r.opts.Latency.wait(ctx, OpUpdateMenuItem); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	menu, err := r.menuBase(ctx)
	if err != nil {
		return err
	}
	item = item.Clone()

	replaced := false
	for i := range menu {
		if menu[i].ID == item.ID {
			menu[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		menu = append(menu, item)
	}

	if err := r.write(ctx, MenuKey, menu); err != nil {
		return err
	}

	r.publishMenuItem(ctx, menuItemSaved, item)
	return nil
}

// DeleteMenuItem removes the item with the given id. Unknown ids are not an
// error.
func (r *Repo) DeleteMenuItem(ctx context.Context, id string) error {
	if err := r.opts.Latency.wait(ctx, OpDeleteMenuItem); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	menu, err := r.menuBase(ctx)
	if err != nil {
		return err
	}
	kept := menu[:0]
	var removed *MenuItem
	for i := range menu {
		if menu[i].ID == id {
			item := menu[i]
			removed = &item
			continue
		}
		kept = append(kept, menu[i])
	}

	if err := r.write(ctx, MenuKey, kept); err != nil {
		return err
	}

	if removed != nil {
		r.publishMenuItem(ctx, menuItemDeleted, *removed)
	}
	return nil
}

// ToggleStock flips the availability of a menu item.
func (r *Repo) ToggleStock(ctx context.Context, id string) (MenuItem, error) {
	if err := r.opts.Latency.wait(ctx, OpUpdateMenuItem); err != nil {
		return MenuItem{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	menu, err := r.menuBase(ctx)
	if err != nil {
		return MenuItem{}, err
	}
	for i := range menu {
		if menu[i].ID != id {
			continue
		}

		menu[i].InStock = !menu[i].InStock
		if err := r.write(ctx, MenuKey, menu); err != nil {
			return MenuItem{}, err
		}
		r.publishMenuItem(ctx, menuItemSaved, menu[i])
		return menu[i], nil
	}

	return MenuItem{}, fmt.Errorf("menu item %s: %w", id, ErrNotFound)
}

// menuBase is the collection menu edits apply to. A missing or undecodable
// menu falls back to the seed catalog.
func (r *Repo) menuBase(ctx context.Context) ([]MenuItem, error) {
	return readForUpdate(ctx, r, MenuKey, cloneMenu(r.catalog))
}

// Orders

// ListOrders returns every order, newest first.
func (r *Repo) ListOrders(ctx context.Context) ([]Order, error) {
	if err := r.opts.Latency.wait(ctx, OpListOrders); err != nil {
		return nil, err
	}

	r.mu.Lock()
	orders := read[[]Order](ctx, r, OrdersKey).OrDefault([]Order{})
	r.mu.Unlock()

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt > orders[j].CreatedAt
	})
	return orders, nil
}

func (r *Repo) CreateOrder(ctx context.Context, draft OrderDraft) (Order, error) {
	if err := r.opts.Latency.wait(ctx, OpCreateOrder); err != nil {
		return Order{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := readForUpdate(ctx, r, OrdersKey, []Order{})
	if err != nil {
		return Order{}, err
	}
	order := draft.build(r.newID("ord"), r.now())
	orders = append(orders, order)

	if err := r.write(ctx, OrdersKey, orders); err != nil {
		return Order{}, err
	}

	r.publishOrder(ctx, orderCreated, order, "")
	return order, nil
}

// UpdateOrderStatus moves an order to status. A missing order is ignored.
func (r *Repo) UpdateOrderStatus(ctx context.Context, id string, status orderstatus.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("order status %q: %w", status, ErrInvalidStatus)
	}
	if err := r.opts.Latency.wait(ctx, OpUpdateOrderStatus); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := readForUpdate(ctx, r, OrdersKey, []Order{})
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID != id {
			continue
		}

		previous := orders[i].Status
		if !r.opts.PermissiveStatus && !previous.CanTransitionTo(status) {
			return fmt.Errorf("order %s from %s to %s: %w", id, previous, status, ErrInvalidTransition)
		}

		orders[i].Status = status
		if err := r.write(ctx, OrdersKey, orders); err != nil {
			return err
		}
		r.publishOrder(ctx, orderStatusChanged, orders[i], previous)
		return nil
	}

	r.logger.Debug("order status update ignored, order not found", "order_id", id)
	return nil
}

// Reservations

// ListReservations returns every reservation, newest first.
func (r *Repo) ListReservations(ctx context.Context) ([]Reservation, error) {
	if err := r.opts.Latency.wait(ctx, OpListReservations); err != nil {
		return nil, err
	}

	r.mu.Lock()
	reservations := read[[]Reservation](ctx, r, ReservationsKey).OrDefault([]Reservation{})
	r.mu.Unlock()

	sort.SliceStable(reservations, func(i, j int) bool {
		return reservations[i].CreatedAt > reservations[j].CreatedAt
	})
	return reservations, nil
}

func (r *Repo) CreateReservation(ctx context.Context, draft ReservationDraft) (Reservation, error) {
	if err := r.opts.Latency.wait(ctx, OpCreateReservation); err != nil {
		return Reservation{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reservations, err := readForUpdate(ctx, r, ReservationsKey, []Reservation{})
	if err != nil {
		return Reservation{}, err
	}
	reservation := draft.build(r.newID("res"), r.now())
	reservations = append(reservations, reservation)

	if err := r.write(ctx, ReservationsKey, reservations); err != nil {
		return Reservation{}, err
	}

	r.publishReservation(ctx, reservationCreated, reservation, "")
	return reservation, nil
}

// UpdateReservationStatus confirms or declines a reservation. A missing
// reservation is ignored.
func (r *Repo) UpdateReservationStatus(ctx context.Context, id string, status reservationstatus.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("reservation status %q: %w", status, ErrInvalidStatus)
	}
	if err := r.opts.Latency.wait(ctx, OpUpdateReservationStatus); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reservations, err := readForUpdate(ctx, r, ReservationsKey, []Reservation{})
	if err != nil {
		return err
	}
	for i := range reservations {
		if reservations[i].ID != id {
			continue
		}

		previous := reservations[i].Status
		if !r.opts.PermissiveStatus && !previous.CanTransitionTo(status) {
			return fmt.Errorf("reservation %s from %s to %s: %w", id, previous, status, ErrInvalidTransition)
		}

		reservations[i].Status = status
		if err := r.write(ctx, ReservationsKey, reservations); err != nil {
			return err
		}
		r.publishReservation(ctx, reservationStatusChanged, reservations[i], previous)
		return nil
	}

	r.logger.Debug("reservation status update ignored, reservation not found", "reservation_id", id)
	return nil
}

// Stats

// GetStats aggregates the stored orders. An unreadable orders collection
// counts as empty.
func (r *Repo) GetStats(ctx context.Context) (Stats, error) {
	if err := r.opts.Latency.wait(ctx, OpGetStats); err != nil {
		return Stats{}, err
	}

	r.mu.Lock()
	orders := read[[]Order](ctx, r, OrdersKey).OrDefault(nil)
	r.mu.Unlock()

	return ComputeStats(orders), nil
}

// Reset removes every collection. The next GetMenu seeds again.
func (r *Repo) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range Keys {
		if err := r.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}

func read[T any](ctx context.Context, r *Repo, key string) kvstore.ReadResult[T] {
	result := kvstore.ReadCollection[T](ctx, r.store, key)
	switch result.Status {
	case kvstore.ReadCorrupted:
		r.logger.Error("cannot decode collection, using fallback", "key", key, "error", result.Err)
	case kvstore.ReadUnavailable:
		r.logger.Error("cannot read collection", "key", key, "error", result.Err)
	}
	return result
}

// readForUpdate loads a collection that is about to be written back. An
// unreachable store is an error so the stored collection is never replaced
// by initial.
func readForUpdate[T any](ctx context.Context, r *Repo, key string, initial T) (T, error) {
	result := read[T](ctx, r, key)
	if result.Unavailable() {
		var zero T
		return zero, result.Err
	}
	return result.OrDefault(initial), nil
}

// write persists a collection. Failures are logged and only returned when
// strict writes are enabled.
func (r *Repo) write(ctx context.Context, key string, value any) error {
	err := kvstore.WriteCollection(ctx, r.store, key, value)
	if err == nil {
		return nil
	}

	r.logger.Error("cannot write collection", "key", key, "error", err)
	if r.opts.StrictWrites {
		return err
	}
	return nil
}
