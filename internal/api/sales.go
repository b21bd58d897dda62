package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/loja/internal/model"
	"github.com/erazemk/loja/internal/store"
)

// SalesHandler handles sale CRUD endpoints. Recording a sale closes its
// order; deleting it reopens the order.
type SalesHandler struct {
	DB *sql.DB
}

type saleRequest struct {
	OrderID int64 `json:"order_id" validate:"required,gt=0"`
	// Value 0 takes the order total.
	Value float64 `json:"value" validate:"gte=0"`
	Notes string  `json:"notes" validate:"max=500"`
}

func (req saleRequest) sale(id int64) model.Sale {
	return model.Sale{ID: id, OrderID: req.OrderID, Value: req.Value, Notes: req.Notes}
}

// List handles GET /api/sales.
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, err := store.ListSales(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "", "list sales")
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(sales))
}

// Create handles POST /api/sales.
func (h *SalesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if !decodeValid(w, r, &req) {
		return
	}

	order, err := store.GetOrder(r.Context(), h.DB, req.OrderID)
	if err != nil {
		storeError(w, err, "", "check order")
		return
	}
	if order == nil {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("order %d does not exist", req.OrderID))
		return
	}

	sale, err := store.CreateSale(r.Context(), h.DB, req.sale(0))
	if err != nil {
		storeError(w, err, "order not found", "create sale")
		return
	}

	slog.Info("sale recorded", "user", GetClaims(r.Context()).Username, "order_id", sale.OrderID, "value", sale.Value)
	jsonResponse(w, http.StatusCreated, sale)
}

// Get handles GET /api/sales/{id}.
func (h *SalesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "sale")
	if !ok {
		return
	}

	sale, err := store.GetSale(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "", "get sale")
		return
	}
	if sale == nil {
		jsonError(w, http.StatusNotFound, "sale not found")
		return
	}
	jsonResponse(w, http.StatusOK, sale)
}

// Update handles PUT /api/sales/{id}. The order cannot change.
func (h *SalesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "sale")
	if !ok {
		return
	}

	var req saleRequest
	if !decodeValid(w, r, &req) {
		return
	}

	sale, err := store.UpdateSale(r.Context(), h.DB, req.sale(id))
	if err != nil {
		storeError(w, err, "sale not found", "update sale")
		return
	}

	slog.Info("sale updated", "user", GetClaims(r.Context()).Username, "sale_id", id)
	jsonResponse(w, http.StatusOK, sale)
}

// Delete handles DELETE /api/sales/{id}.
func (h *SalesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "sale")
	if !ok {
		return
	}

	if err := store.DeleteSale(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "sale not found", "delete sale")
		return
	}

	slog.Info("sale deleted", "user", GetClaims(r.Context()).Username, "sale_id", id)
	jsonMessage(w, "sale deleted")
}
