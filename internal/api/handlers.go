package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/example/pagdiwala/internal/auth"
	"github.com/example/pagdiwala/internal/domain/cart"
	"github.com/example/pagdiwala/internal/domain/order"
	"github.com/example/pagdiwala/internal/domain/product"
	"github.com/example/pagdiwala/internal/infrastructure/store"
	"github.com/example/pagdiwala/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// deliveryDateLayout is the format admins submit delivery dates in
const deliveryDateLayout = "2006-01-02"

var errBadRequestBody = errors.New("invalid request body")

type Handlers struct {
	catalog *product.Service
	cart    *cart.Service
	orders  *order.Workflow
}

func NewHandlers(catalog *product.Service, carts *cart.Service, orders *order.Workflow) *Handlers {
	return &Handlers{catalog: catalog, cart: carts, orders: orders}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.List(r.Context()))
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// UpdateProductRequest is the admin product edit form
type UpdateProductRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	StockQuantity int             `json:"stock_quantity"`
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequestBody)
		return
	}

	p, err := h.catalog.Update(r.Context(), model.Product{
		ID:            chi.URLParam(r, "id"),
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := session(r)
	items := h.cart.Get(r.Context(), sess.UserID)
	respondJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": order.Total(items),
	})
}

// SyncCartRequest replaces the whole cart
type SyncCartRequest struct {
	Items []struct {
		ProductID string `json:"id"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
}

func (h *Handlers) SyncCart(w http.ResponseWriter, r *http.Request) {
	sess := session(r)

	var req SyncCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequestBody)
		return
	}

	lines := make([]model.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, model.CartLine{UserID: sess.UserID, ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if err := h.cart.Sync(r.Context(), sess.UserID, lines); err != nil {
		respondError(w, err)
		return
	}

	items := h.cart.Get(r.Context(), sess.UserID)
	respondJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": order.Total(items),
	})
}

// Order Handlers

// CheckoutRequest carries the shipping details entered at checkout
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
	MobileNumber    string `json:"mobile_number"`
}

// PlaceOrder checks out the caller's server-side cart. Prices come from the
// catalog, never from the request.
func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sess := session(r)

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequestBody)
		return
	}
	if err := order.ValidateCheckout(req.ShippingAddress, req.MobileNumber); err != nil {
		respondError(w, err)
		return
	}

	snapshot := h.cart.Get(r.Context(), sess.UserID)
	o, err := h.orders.Create(r.Context(), sess.UserID, snapshot,
		strings.TrimSpace(req.ShippingAddress), strings.TrimSpace(req.MobileNumber))
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.cart.Clear(r.Context(), sess.UserID); err != nil {
		log.Printf("[API] Order %s placed but cart for user %s was not cleared: %v", o.ID, sess.UserID, err)
	}

	respondJSON(w, http.StatusCreated, o)
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	sess := session(r)
	respondJSON(w, http.StatusOK, h.orders.List(r.Context(), sess.UserID))
}

// GetOrder returns one order. Customers only see their own.
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	sess := session(r)

	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	if !sess.IsAdmin() && o.CustomerID != sess.UserID {
		respondError(w, order.ErrOrderNotFound)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// Admin Handlers

func (h *Handlers) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orders.List(r.Context(), ""))
}

// UpdateStatusRequest is the admin dashboard status form. DeliveryDate uses
// the YYYY-MM-DD layout.
type UpdateStatusRequest struct {
	Status       model.OrderStatus `json:"status"`
	DeliveryDate string            `json:"delivery_date,omitempty"`
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequestBody)
		return
	}

	var deliveryDate *time.Time
	if req.DeliveryDate != "" {
		d, err := time.Parse(deliveryDateLayout, req.DeliveryDate)
		if err != nil {
			respondJSONError(w, "delivery_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		deliveryDate = &d
	}
	if err := order.ValidateStatusUpdate(req.Status, deliveryDate); err != nil {
		respondError(w, err)
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status, deliveryDate)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// Helper functions

// session returns the caller's session. Routes using it sit behind
// middleware.RequireSession.
func session(r *http.Request) auth.Session {
	sess, _ := auth.SessionFrom(r.Context())
	return sess
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, auth.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequestBody),
		errors.Is(err, product.ErrInvalidProduct),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrDuplicateLine),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidAddress),
		errors.Is(err, order.ErrInvalidMobile),
		errors.Is(err, order.ErrDeliveryDateRequired),
		errors.Is(err, order.ErrUnknownStatus),
		errors.Is(err, store.ErrInvalidReference),
		errors.Is(err, auth.ErrInvalidSignUp),
		errors.Is(err, auth.ErrInvalidProfile),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordTooLong):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err with its mapped status. Internal errors are logged
// and replaced with a generic message.
func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[API] Internal error: %v", err)
		respondJSONError(w, "internal server error", status)
		return
	}
	respondJSONError(w, err.Error(), status)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}
