package storefront

import (
	"context"
	"fmt"
	"sync"

	"github.com/appetiteclub/storefront/pkg/enums/paymentmethod"
	"github.com/aquamarinepk/aqm"
	"github.com/shopspring/decimal"
)

var taxRate = decimal.RequireFromString("0.05")

// CartBackend is what carts need from the repository.
type CartBackend interface {
	GetMenuItem(ctx context.Context, id string) (MenuItem, error)
	CreateOrder(ctx context.Context, draft OrderDraft) (Order, error)
}

// Carts holds one ephemeral cart per session. Carts are never persisted.
type Carts struct {
	mu      sync.RWMutex
	carts   map[string][]CartItem
	backend CartBackend
	logger  aqm.Logger
}

func NewCarts(backend CartBackend, logger aqm.Logger) *Carts {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Carts{
		carts:   make(map[string][]CartItem),
		backend: backend,
		logger:  logger,
	}
}

type CartSummary struct {
	Items     []CartItem `json:"items"`
	ItemCount int        `json:"itemCount"`
	Subtotal  float64    `json:"subtotal"`
	Tax       float64    `json:"tax"`
	Total     float64    `json:"total"`
}

func (c *Carts) Cart(session string) []CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneCartItems(c.carts[session])
}

// Add puts one unit of the menu item in the cart.
func (c *Carts) Add(ctx context.Context, session, itemID string) ([]CartItem, error) {
	item, err := c.backend.GetMenuItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.InStock {
		return nil, fmt.Errorf("menu item %s: %w", itemID, ErrOutOfStock)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cart := c.carts[session]
	for i := range cart {
		if cart[i].ID == itemID {
			cart[i].Quantity++
			return cloneCartItems(cart), nil
		}
	}

	c.carts[session] = append(cart, CartItem{MenuItem: item.Clone(), Quantity: 1})
	return cloneCartItems(c.carts[session]), nil
}

// UpdateQuantity adds delta to the line quantity. Lines that drop to zero
// are removed.
func (c *Carts) UpdateQuantity(session, itemID string, delta int) []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	cart := c.carts[session]
	kept := cart[:0]
	for _, line := range cart {
		if line.ID == itemID {
			line.Quantity = max(0, line.Quantity+delta)
		}
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	c.store(session, kept)
	return cloneCartItems(kept)
}

func (c *Carts) Remove(session, itemID string) []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	cart := c.carts[session]
	kept := cart[:0]
	for _, line := range cart {
		if line.ID != itemID {
			kept = append(kept, line)
		}
	}
	c.store(session, kept)
	return cloneCartItems(kept)
}

func (c *Carts) Clear(session string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.carts, session)
}

func (c *Carts) Summary(session string) CartSummary {
	return Summarize(c.Cart(session))
}

// Checkout places an order for the cart contents and takes the ordered
// quantities out of the cart. Lines added while the order was being placed
// stay in the cart. The order total is the pre-tax subtotal. The cart is kept
// when the order cannot be created.
func (c *Carts) Checkout(ctx context.Context, session string, req CheckoutRequest) (Order, error) {
	items := c.Cart(session)
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}

	summary := Summarize(items)
	order, err := c.backend.CreateOrder(ctx, OrderDraft{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Items:         items,
		Total:         summary.Subtotal,
		PaymentMethod: paymentmethod.Method(req.PaymentMethod),
	})
	if err != nil {
		return Order{}, fmt.Errorf("checkout: %w", err)
	}

	c.release(session, items)
	c.logger.Info("cart checked out", "order_id", order.ID, "items", summary.ItemCount, "total", order.Total)
	return order, nil
}

// Summarize totals cart lines.
func Summarize(items []CartItem) CartSummary {
	subtotal := decimal.Zero
	count := 0
	for _, line := range items {
		subtotal = subtotal.Add(line.LineTotal())
		count += line.Quantity
	}
	tax := subtotal.Mul(taxRate).Round(2)

	return CartSummary{
		Items:     items,
		ItemCount: count,
		Subtotal:  subtotal.InexactFloat64(),
		Tax:       tax.InexactFloat64(),
		Total:     subtotal.Add(tax).InexactFloat64(),
	}
}

// release subtracts ordered quantities from the session cart.
func (c *Carts) release(session string, ordered []CartItem) {
	qty := make(map[string]int, len(ordered))
	for _, line := range ordered {
		qty[line.ID] += line.Quantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cart := c.carts[session]
	kept := cart[:0]
	for _, line := range cart {
		line.Quantity -= qty[line.ID]
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	c.store(session, kept)
}

// store must be called with mu held.
func (c *Carts) store(session string, cart []CartItem) {
	if len(cart) == 0 {
		delete(c.carts, session)
		return
	}
	c.carts[session] = cart
}
