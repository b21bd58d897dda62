package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/loja/internal/model"
	"github.com/erazemk/loja/internal/store"
)

// CustomersHandler handles customer CRUD endpoints.
type CustomersHandler struct {
	DB *sql.DB
}

type customerRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"omitempty,email,max=100"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}

func (req customerRequest) customer(id int64) model.Customer {
	return model.Customer{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone}
}

// List handles GET /api/customers.
func (h *CustomersHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := store.ListCustomers(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "", "list customers")
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(customers))
}

// Create handles POST /api/customers.
func (h *CustomersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decodeValid(w, r, &req) {
		return
	}

	customer, err := store.CreateCustomer(r.Context(), h.DB, req.customer(0))
	if err != nil {
		storeError(w, err, "", "create customer")
		return
	}

	slog.Info("customer created", "user", GetClaims(r.Context()).Username, "customer_id", customer.ID)
	jsonResponse(w, http.StatusCreated, customer)
}

// Get handles GET /api/customers/{id}.
func (h *CustomersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "customer")
	if !ok {
		return
	}

	customer, err := store.GetCustomer(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "", "get customer")
		return
	}
	if customer == nil {
		jsonError(w, http.StatusNotFound, "customer not found")
		return
	}
	jsonResponse(w, http.StatusOK, customer)
}

// Update handles PUT /api/customers/{id}.
func (h *CustomersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "customer")
	if !ok {
		return
	}

	var req customerRequest
	if !decodeValid(w, r, &req) {
		return
	}

	customer, err := store.UpdateCustomer(r.Context(), h.DB, req.customer(id))
	if err != nil {
		storeError(w, err, "customer not found", "update customer")
		return
	}

	slog.Info("customer updated", "user", GetClaims(r.Context()).Username, "customer_id", id)
	jsonResponse(w, http.StatusOK, customer)
}

// Delete handles DELETE /api/customers/{id}.
func (h *CustomersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "customer")
	if !ok {
		return
	}

	if err := store.DeleteCustomer(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "customer not found", "delete customer")
		return
	}

	slog.Info("customer deleted", "user", GetClaims(r.Context()).Username, "customer_id", id)
	jsonMessage(w, "customer deleted")
}
