package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/appetiteclub/storefront/pkg/enums/category"
	"github.com/appetiteclub/storefront/pkg/enums/orderstatus"
	"github.com/appetiteclub/storefront/pkg/enums/reservationstatus"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20 // 1 MB

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler handles HTTP requests for the storefront service
type Handler struct {
	repo   *Repo
	carts  *Carts
	logger aqm.Logger
	config *aqm.Config
	tlm    *telemetry.HTTP
}

func NewHandler(repo *Repo, carts *Carts, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if carts == nil {
		carts = NewCarts(repo, logger)
	}
	return &Handler{
		repo:   repo,
		carts:  carts,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

// RegisterRoutes registers the public storefront routes and the admin
// console routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/menu", func(r chi.Router) {
		r.Get("/", h.ListMenu)
		r.Get("/{id}", h.GetMenuItem)
	})

	r.Route("/cart/{session}", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddToCart)
		r.Patch("/items/{itemID}", h.UpdateCartQuantity)
		r.Delete("/items/{itemID}", h.RemoveFromCart)
		r.Post("/checkout", h.Checkout)
	})

	r.Post("/orders", h.CreateOrder)
	r.Post("/reservations", h.CreateReservation)

	r.Route("/admin", func(r chi.Router) {
		r.Route("/menu", func(r chi.Router) {
			r.Post("/", h.SaveMenuItem)
			r.Put("/{id}", h.SaveMenuItem)
			r.Delete("/{id}", h.DeleteMenuItem)
			r.Patch("/{id}/stock", h.ToggleStock)
		})
		r.Get("/orders", h.ListOrders)
		r.Patch("/orders/{id}/status", h.UpdateOrderStatus)
		r.Get("/reservations", h.ListReservations)
		r.Patch("/reservations/{id}/status", h.UpdateReservationStatus)
		r.Get("/stats", h.GetStats)
		r.Get("/export/orders.xlsx", h.ExportOrders)
	})
}

// Menu

// ListMenu handles GET /menu?category=&diet=&q=
func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMenu")
	defer finish()
	log := h.log(r)

	query := r.URL.Query()
	filter := MenuFilter{
		Diet:  ParseDiet(query.Get("diet")),
		Query: query.Get("q"),
	}
	if raw := query.Get("category"); raw != "" && raw != "All" {
		cat := category.ByName(raw)
		if cat == nil {
			aqm.RespondError(w, http.StatusBadRequest, "Unknown category")
			return
		}
		filter.Category = *cat
	}

	menu, err := h.repo.GetMenu(r.Context())
	if err != nil {
		h.respondError(w, log, err, "Could not load menu")
		return
	}

	aqm.RespondCollection(w, FilterMenu(menu, filter), "menu")
}

// GetMenuItem handles GET /menu/{id}
func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetMenuItem")
	defer finish()
	log := h.log(r)

	id := chi.URLParam(r, "id")
	item, err := h.repo.GetMenuItem(r.Context(), id)
	if err != nil {
		h.respondError(w, log, err, "Could not load menu item")
		return
	}

	aqm.RespondSuccess(w, item)
}

// Cart

// GetCart handles GET /cart/{session}
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetCart")
	defer finish()

	aqm.RespondSuccess(w, h.carts.Summary(chi.URLParam(r, "session")))
}

// AddToCart handles POST /cart/{session}/items
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddToCart")
	defer finish()
	log := h.log(r)
	session := chi.URLParam(r, "session")

	req, ok := decodePayload[AddToCartRequest](w, r, log)
	if !ok {
		return
	}
	if errs := ValidateStruct(req); len(errs) > 0 {
		log.Debug("validation failed", "errors", errs)
		h.respondValidationErrors(w, errs)
		return
	}

	if _, err := h.carts.Add(r.Context(), session, req.ItemID); err != nil {
		h.respondError(w, log, err, "Could not add item to cart")
		return
	}

	aqm.RespondSuccess(w, h.carts.Summary(session))
}

// UpdateCartQuantity handles PATCH /cart/{session}/items/{itemID}
func (h *Handler) UpdateCartQuantity(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateCartQuantity")
	defer finish()
	log := h.log(r)
	session := chi.URLParam(r, "session")

	req, ok := decodePayload[QuantityRequest](w, r, log)
	if !ok {
		return
	}
	if errs := ValidateStruct(req); len(errs) > 0 {
		h.respondValidationErrors(w, errs)
		return
	}

	h.carts.UpdateQuantity(session, chi.URLParam(r, "itemID"), req.Delta)
	aqm.RespondSuccess(w, h.carts.Summary(session))
}

// RemoveFromCart handles DELETE /cart/{session}/items/{itemID}
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveFromCart")
	defer finish()
	session := chi.URLParam(r, "session")

	h.carts.Remove(session, chi.URLParam(r, "itemID"))
	aqm.RespondSuccess(w, h.carts.Summary(session))
}

// ClearCart handles DELETE /cart/{session}
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearCart")
	defer finish()

	h.carts.Clear(chi.URLParam(r, "session"))
	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /cart/{session}/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Checkout")
	defer finish()
	log := h.log(r)

	req, ok := decodePayload[CheckoutRequest](w, r, log)
	if !ok {
		return
	}
	if errs := ValidateStruct(req); len(errs) > 0 {
		log.Debug("validation failed", "errors", errs)
		h.respondValidationErrors(w, errs)
		return
	}

	order, err := h.carts.Checkout(r.Context(), chi.URLParam(r, "session"), req)
	if err != nil {
		h.respondError(w, log, err, "Could not place order")
		return
	}

	aqm.Respond(w, http.StatusCreated, order, nil)
}

// Orders

// CreateOrder handles POST /orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateOrder")
	defer finish()
	log := h.log(r)

	req, ok := decodePayload[OrderRequest](w, r, log)
	if !ok {
		return
	}
	if errs := ValidateStruct(req); len(errs) > 0 {
		log.Debug("validation failed", "errors", errs)
		h.respondValidationErrors(w, errs)
		return
	}

	order, err := h.repo.CreateOrder(r.Context(), req.Draft())
	if err != nil {
		h.respondError(w, log, err, "Could not create order")
		return
	}

	aqm.Respond(w, http.StatusCreated, order, nil)
}

// ListOrders handles GET /admin/orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()
	log := h.log(r)

	orders, err := h.repo.ListOrders(r.Context())
	if err != nil {
		h.respondError(w, log, err, "Could not list orders")
		return
	}

	aqm.RespondCollection(w, orders, "orders")
}

// UpdateOrderStatus handles PATCH /admin/orders/{id}/status
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateOrderStatus")
	defer finish()
	log := h.log(r)
	id := chi.URLParam(r, "id")

	req, ok := decodePayload[StatusRequest](w, r, log)
	if !ok {
		return
	}

	status := orderstatus.ByName(req.Status)
	if status == nil {
		h.respondValidationErrors(w, []ValidationError{{Field: "status", Message: "status must be one of New, Preparing, Ready, Completed, Cancelled"}})
		return
	}

	if err := h.repo.UpdateOrderStatus(r.Context(), id, *status); err != nil {
		h.respondError(w, log, err, "Could not update order status")
		return
	}

	log.Info("order status updated", "order_id", id, "status", status.Code())
	w.WriteHeader(http.StatusNoContent)
}

// Reservations

// CreateReservation handles POST /reservations
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateReservation")
	defer finish()
	log := h.log(r)

	req, ok := decodePayload[ReservationRequest](w, r, log)
	if !ok {
		return
	}
	if errs := ValidateStruct(req); len(errs) > 0 {
		log.Debug("validation failed", "errors", errs)
		h.respondValidationErrors(w, errs)
		return
	}

	reservation, err := h.repo.CreateReservation(r.Context(), req.Draft())
	if err != nil {
		h.respondError(w, log, err, "Could not create reservation")
		return
	}

	aqm.Respond(w, http.StatusCreated, reservation, nil)
}

// ListReservations handles GET /admin/reservations
func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListReservations")
	defer finish()
	log := h.log(r)

	reservations, err := h.repo.ListReservations(r.Context())
	if err != nil {
		h.respondError(w, log, err, "Could not list reservations")
		return
	}

	aqm.RespondCollection(w, reservations, "reservations")
}

// UpdateReservationStatus handles PATCH /admin/reservations/{id}/status
func (h *Handler) UpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateReservationStatus")
	defer finish()
	log := h.log(r)
	id := chi.URLParam(r, "id")

	req, ok := decodePayload[StatusRequest](w, r, log)
	if !ok {
		return
	}

	status := reservationstatus.ByName(req.Status)
	if status == nil {
		h.respondValidationErrors(w, []ValidationError{{Field: "status", Message: "status must be one of pending, confirmed, declined"}})
		return
	}

	if err := h.repo.UpdateReservationStatus(r.Context(), id, *status); err != nil {
		h.respondError(w, log, err, "Could not update reservation status")
		return
	}

	log.Info("reservation status updated", "reservation_id", id, "status", status.Code())
	w.WriteHeader(http.StatusNoContent)
}

// Admin menu

// SaveMenuItem handles POST /admin/menu and PUT /admin/menu/{id}
func (h *Handler) SaveMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SaveMenuItem")
	defer finish()
	log := h.log(r)

	req, ok := decodePayload[MenuItemRequest](w, r, log)
	if !ok {
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		req.ID = id
	}

	item, errs := PrepareMenuItem(req)
	if len(errs) > 0 {
		log.Debug("validation failed", "errors", errs)
		h.respondValidationErrors(w, errs)
		return
	}

	if err := h.repo.UpdateMenuItem(r.Context(), item); err != nil {
		h.respondError(w, log, err, "Could not save menu item")
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	aqm.Respond(w, status, item, nil)
}

// DeleteMenuItem handles DELETE /admin/menu/{id}
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteMenuItem")
	defer finish()
	log := h.log(r)

	if err := h.repo.DeleteMenuItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, log, err, "Could not delete menu item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleStock handles PATCH /admin/menu/{id}/stock
func (h *Handler) ToggleStock(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ToggleStock")
	defer finish()
	log := h.log(r)

	item, err := h.repo.ToggleStock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, log, err, "Could not update stock")
		return
	}

	aqm.RespondSuccess(w, item)
}

// Stats and export

// GetStats handles GET /admin/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetStats")
	defer finish()
	log := h.log(r)

	stats, err := h.repo.GetStats(r.Context())
	if err != nil {
		h.respondError(w, log, err, "Could not compute stats")
		return
	}

	aqm.RespondSuccess(w, stats)
}

// ExportOrders handles GET /admin/export/orders.xlsx
func (h *Handler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ExportOrders")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	orders, err := h.repo.ListOrders(ctx)
	if err != nil {
		h.respondError(w, log, err, "Could not list orders")
		return
	}
	reservations, err := h.repo.ListReservations(ctx)
	if err != nil {
		h.respondError(w, log, err, "Could not list reservations")
		return
	}
	stats, err := h.repo.GetStats(ctx)
	if err != nil {
		h.respondError(w, log, err, "Could not compute stats")
		return
	}

	book, err := ExportWorkbook(orders, reservations, stats, h.location())
	if err != nil {
		log.Error("cannot build export", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not build export")
		return
	}
	defer book.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="orders-%s.xlsx"`, time.Now().Format("20060102")))
	if err := book.Write(w); err != nil {
		log.Error("cannot write export", "error", err)
	}
}

func (h *Handler) location() *time.Location {
	if h.config == nil {
		return time.UTC
	}
	name := h.config.GetStringOrDef("export.timezone", "UTC")
	loc, err := time.LoadLocation(name)
	if err != nil {
		h.logger.Error("invalid export timezone, using UTC", "timezone", name, "error", err)
		return time.UTC
	}
	return loc
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

// respondError maps repository and cart errors to HTTP statuses.
func (h *Handler) respondError(w http.ResponseWriter, log aqm.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		aqm.RespondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, ErrInvalidStatus):
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrOutOfStock):
		aqm.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrStoreUnavailable):
		log.Error("store unavailable", "error", err)
		aqm.RespondError(w, http.StatusServiceUnavailable, "Store unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Debug("request cancelled", "error", err)
		aqm.RespondError(w, http.StatusServiceUnavailable, "Request cancelled")
	default:
		log.Error(fallback, "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, fallback)
	}
}

func decodePayload[T any](w http.ResponseWriter, r *http.Request, log aqm.Logger) (T, bool) {
	var payload T

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return payload, false
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		log.Debug("error decoding JSON", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return payload, false
	}

	return payload, true
}

func (h *Handler) respondValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "Validation failed",
		"errors": errors,
	})
}
