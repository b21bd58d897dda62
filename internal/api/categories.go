package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/loja/internal/store"
)

// CategoriesHandler handles category CRUD endpoints.
type CategoriesHandler struct {
	DB *sql.DB
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"max=500"`
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "", "list categories")
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(categories))
}

// Create handles POST /api/categories.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeValid(w, r, &req) {
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, req.Name, req.Description)
	if err != nil {
		storeError(w, err, "", "create category")
		return
	}

	slog.Info("category created", "user", GetClaims(r.Context()).Username, "category", category.Name)
	jsonResponse(w, http.StatusCreated, category)
}

// Get handles GET /api/categories/{id}.
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}

	category, err := store.GetCategory(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "", "get category")
		return
	}
	if category == nil {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}
	jsonResponse(w, http.StatusOK, category)
}

// Update handles PUT /api/categories/{id}.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}

	var req categoryRequest
	if !decodeValid(w, r, &req) {
		return
	}

	category, err := store.UpdateCategory(r.Context(), h.DB, id, req.Name, req.Description)
	if err != nil {
		storeError(w, err, "category not found", "update category")
		return
	}

	slog.Info("category updated", "user", GetClaims(r.Context()).Username, "category_id", id)
	jsonResponse(w, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id}.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}

	if err := store.DeleteCategory(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "category not found", "delete category")
		return
	}

	slog.Info("category deleted", "user", GetClaims(r.Context()).Username, "category_id", id)
	jsonMessage(w, "category deleted")
}
