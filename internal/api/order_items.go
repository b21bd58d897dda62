package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/loja/internal/model"
	"github.com/erazemk/loja/internal/store"
)

// OrderItemsHandler handles order item CRUD endpoints.
type OrderItemsHandler struct {
	DB *sql.DB
}

type orderItemRequest struct {
	OrderID   int64 `json:"order_id" validate:"required,gt=0"`
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Amount    int   `json:"amount" validate:"gt=0"`
	// Value is the unit price; 0 takes the product's current price.
	Value float64 `json:"value" validate:"gte=0"`
}

func (req orderItemRequest) item(id int64) model.OrderItem {
	return model.OrderItem{
		ID:        id,
		OrderID:   req.OrderID,
		ProductID: req.ProductID,
		Amount:    req.Amount,
		Value:     req.Value,
	}
}

func (h *OrderItemsHandler) checkRefs(w http.ResponseWriter, r *http.Request, req orderItemRequest) bool {
	order, err := store.GetOrder(r.Context(), h.DB, req.OrderID)
	if err != nil {
		storeError(w, err, "", "check order")
		return false
	}
	if order == nil {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("order %d does not exist", req.OrderID))
		return false
	}
	product, err := store.GetProduct(r.Context(), h.DB, req.ProductID)
	if err != nil {
		storeError(w, err, "", "check product")
		return false
	}
	if product == nil {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("product %d does not exist", req.ProductID))
		return false
	}
	return true
}

// List handles GET /api/order-items, optionally filtered by ?order_id=.
func (h *OrderItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	orderID, ok := queryID(w, r, "order_id")
	if !ok {
		return
	}

	items, err := store.ListOrderItems(r.Context(), h.DB, orderID)
	if err != nil {
		storeError(w, err, "", "list order items")
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(items))
}

// Create handles POST /api/order-items.
func (h *OrderItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderItemRequest
	if !decodeValid(w, r, &req) || !h.checkRefs(w, r, req) {
		return
	}

	item, err := store.CreateOrderItem(r.Context(), h.DB, req.item(0))
	if err != nil {
		storeError(w, err, "order not found", "create order item")
		return
	}

	slog.Info("order item created", "user", GetClaims(r.Context()).Username,
		"order_id", item.OrderID, "product_id", item.ProductID, "amount", item.Amount)
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/order-items/{id}.
func (h *OrderItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "order item")
	if !ok {
		return
	}

	item, err := store.GetOrderItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "", "get order item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "order item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/order-items/{id}.
func (h *OrderItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "order item")
	if !ok {
		return
	}

	var req orderItemRequest
	if !decodeValid(w, r, &req) || !h.checkRefs(w, r, req) {
		return
	}

	item, err := store.UpdateOrderItem(r.Context(), h.DB, req.item(id))
	if err != nil {
		storeError(w, err, "order item not found", "update order item")
		return
	}

	slog.Info("order item updated", "user", GetClaims(r.Context()).Username, "order_item_id", id)
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/order-items/{id}.
func (h *OrderItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "order item")
	if !ok {
		return
	}

	if err := store.DeleteOrderItem(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "order item not found", "delete order item")
		return
	}

	slog.Info("order item deleted", "user", GetClaims(r.Context()).Username, "order_item_id", id)
	jsonMessage(w, "order item deleted")
}
