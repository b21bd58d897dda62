package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/loja/internal/store"
)

// BrandsHandler handles brand CRUD endpoints.
type BrandsHandler struct {
	DB *sql.DB
}

type brandRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// List handles GET /api/brands.
func (h *BrandsHandler) List(w http.ResponseWriter, r *http.Request) {
	brands, err := store.ListBrands(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "", "list brands")
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(brands))
}

// Create handles POST /api/brands.
func (h *BrandsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	if !decodeValid(w, r, &req) {
		return
	}

	brand, err := store.CreateBrand(r.Context(), h.DB, req.Name)
	if err != nil {
		storeError(w, err, "", "create brand")
		return
	}

	slog.Info("brand created", "user", GetClaims(r.Context()).Username, "brand", brand.Name)
	jsonResponse(w, http.StatusCreated, brand)
}

// Get handles GET /api/brands/{id}.
func (h *BrandsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "brand")
	if !ok {
		return
	}

	brand, err := store.GetBrand(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "", "get brand")
		return
	}
	if brand == nil {
		jsonError(w, http.StatusNotFound, "brand not found")
		return
	}
	jsonResponse(w, http.StatusOK, brand)
}

// Update handles PUT /api/brands/{id}.
func (h *BrandsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "brand")
	if !ok {
		return
	}

	var req brandRequest
	if !decodeValid(w, r, &req) {
		return
	}

	brand, err := store.UpdateBrand(r.Context(), h.DB, id, req.Name)
	if err != nil {
		storeError(w, err, "brand not found", "update brand")
		return
	}

	slog.Info("brand updated", "user", GetClaims(r.Context()).Username, "brand_id", id)
	jsonResponse(w, http.StatusOK, brand)
}

// Delete handles DELETE /api/brands/{id}.
func (h *BrandsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "brand")
	if !ok {
		return
	}

	if err := store.DeleteBrand(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "brand not found", "delete brand")
		return
	}

	slog.Info("brand deleted", "user", GetClaims(r.Context()).Username, "brand_id", id)
	jsonMessage(w, "brand deleted")
}
