package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/loja/internal/model"
	"github.com/erazemk/loja/internal/store"
)

// OrdersHandler handles order CRUD endpoints.
type OrdersHandler struct {
	DB *sql.DB
}

type orderRequest struct {
	CustomerID int64  `json:"customer_id" validate:"required,gt=0"`
	Status     string `json:"status" validate:"omitempty,oneof=open closed canceled"`
}

func (h *OrdersHandler) checkCustomer(w http.ResponseWriter, r *http.Request, id int64) bool {
	customer, err := store.GetCustomer(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "", "check customer")
		return false
	}
	if customer == nil {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("customer %d does not exist", id))
		return false
	}
	return true
}

// List handles GET /api/orders, optionally filtered by ?customer_id=.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := queryID(w, r, "customer_id")
	if !ok {
		return
	}

	orders, err := store.ListOrders(r.Context(), h.DB, customerID)
	if err != nil {
		storeError(w, err, "", "list orders")
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(orders))
}

// Create handles POST /api/orders.
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !decodeValid(w, r, &req) || !h.checkCustomer(w, r, req.CustomerID) {
		return
	}

	order, err := store.CreateOrder(r.Context(), h.DB, req.CustomerID, req.Status)
	if err != nil {
		storeError(w, err, "", "create order")
		return
	}

	slog.Info("order created", "user", GetClaims(r.Context()).Username, "order_id", order.ID, "customer_id", order.CustomerID)
	jsonResponse(w, http.StatusCreated, order)
}

// Get handles GET /api/orders/{id}.
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "order")
	if !ok {
		return
	}

	order, err := store.GetOrder(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "", "get order")
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "order not found")
		return
	}
	jsonResponse(w, http.StatusOK, order)
}

// Update handles PUT /api/orders/{id}.
func (h *OrdersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "order")
	if !ok {
		return
	}

	var req orderRequest
	if !decodeValid(w, r, &req) || !h.checkCustomer(w, r, req.CustomerID) {
		return
	}
	if req.Status == "" {
		req.Status = model.OrderStatusOpen
	}

	order, err := store.UpdateOrder(r.Context(), h.DB, id, req.CustomerID, req.Status)
	if err != nil {
		storeError(w, err, "order not found", "update order")
		return
	}

	slog.Info("order updated", "user", GetClaims(r.Context()).Username, "order_id", id, "status", order.Status)
	jsonResponse(w, http.StatusOK, order)
}

// Delete handles DELETE /api/orders/{id}. Items are deleted with the order.
func (h *OrdersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "order")
	if !ok {
		return
	}

	if err := store.DeleteOrder(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "order not found", "delete order")
		return
	}

	slog.Info("order deleted", "user", GetClaims(r.Context()).Username, "order_id", id)
	jsonMessage(w, "order deleted")
}

// Items handles GET /api/orders/{id}/items.
func (h *OrdersHandler) Items(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "order")
	if !ok {
		return
	}

	order, err := store.GetOrder(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "", "get order")
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "order not found")
		return
	}

	items, err := store.ListOrderItems(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "", "list order items")
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(items))
}

// queryID parses an optional positive id query parameter; 0 means absent.
func queryID(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, http.StatusBadRequest, "invalid "+key)
		return 0, false
	}
	return id, true
}
