package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/loja/internal/imaging"
	"github.com/erazemk/loja/internal/model"
	"github.com/erazemk/loja/internal/store"
)

// ProductsHandler handles product CRUD and photo endpoints.
type ProductsHandler struct {
	DB *sql.DB
}

type productRequest struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Description string  `json:"description" validate:"max=1000"`
	Price       float64 `json:"price" validate:"gt=0"`
	Active      string  `json:"active" validate:"omitempty,oneof=S N"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
	BrandID     *int64  `json:"brand_id" validate:"omitempty,gt=0"`
}

func (req productRequest) product(id int64) model.Product {
	return model.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Active:      req.Active,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
	}
}

// checkRefs reports a 400 when the referenced category or brand is missing.
func (h *ProductsHandler) checkRefs(w http.ResponseWriter, r *http.Request, req productRequest) bool {
	category, err := store.GetCategory(r.Context(), h.DB, req.CategoryID)
	if err != nil {
		storeError(w, err, "", "check category")
		return false
	}
	if category == nil {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("category %d does not exist", req.CategoryID))
		return false
	}
	if req.BrandID == nil {
		return true
	}
	brand, err := store.GetBrand(r.Context(), h.DB, *req.BrandID)
	if err != nil {
		storeError(w, err, "", "check brand")
		return false
	}
	if brand == nil {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("brand %d does not exist", *req.BrandID))
		return false
	}
	return true
}

// List handles GET /api/products. The optional active query parameter
// filters by the active flag.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	active := r.URL.Query().Get("active")
	if active != "" && active != model.ProductActive && active != model.ProductInactive {
		jsonError(w, http.StatusBadRequest, "active must be S or N")
		return
	}

	products, err := store.ListProducts(r.Context(), h.DB, active)
	if err != nil {
		storeError(w, err, "", "list products")
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(products))
}

// Create handles POST /api/products.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeValid(w, r, &req) || !h.checkRefs(w, r, req) {
		return
	}

	product, err := store.CreateProduct(r.Context(), h.DB, req.product(0))
	if err != nil {
		storeError(w, err, "", "create product")
		return
	}

	slog.Info("product created", "user", GetClaims(r.Context()).Username, "product", product.Name)
	jsonResponse(w, http.StatusCreated, product)
}

// Get handles GET /api/products/{id}.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	product, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "", "get product")
		return
	}
	if product == nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}
	jsonResponse(w, http.StatusOK, product)
}

// Update handles PUT /api/products/{id}.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	var req productRequest
	if !decodeValid(w, r, &req) || !h.checkRefs(w, r, req) {
		return
	}

	product, err := store.UpdateProduct(r.Context(), h.DB, req.product(id))
	if err != nil {
		storeError(w, err, "product not found", "update product")
		return
	}

	slog.Info("product updated", "user", GetClaims(r.Context()).Username, "product_id", id)
	jsonResponse(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	if err := store.DeleteProduct(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "product not found", "delete product")
		return
	}

	slog.Info("product deleted", "user", GetClaims(r.Context()).Username, "product_id", id)
	jsonMessage(w, "product deleted")
}

// UploadImage handles PUT /api/products/{id}/image. The photo is downscaled
// and stored as JPEG.
func (h *ProductsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := imaging.ProcessPhoto(file)
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		jsonError(w, http.StatusBadRequest, "image must be JPEG or PNG")
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, "could not read image")
		return
	}

	if err := store.SetProductImage(r.Context(), h.DB, id, photo.Data, photo.MIME); err != nil {
		storeError(w, err, "product not found", "save image")
		return
	}

	slog.Info("product image uploaded", "user", GetClaims(r.Context()).Username, "product_id", id,
		"width", photo.Width, "height", photo.Height)
	jsonMessage(w, "image uploaded")
}

// GetImage handles GET /api/products/{id}/image. With ?size=thumb a
// thumbnail is rendered on the fly.
func (h *ProductsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	data, mime, err := store.GetProductImage(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "", "get image")
		return
	}
	if len(data) == 0 {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	if r.URL.Query().Get("size") == "thumb" {
		thumb, err := imaging.Thumbnail(data)
		if err != nil {
			slog.Error("failed to render thumbnail", "product_id", id, "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to render thumbnail")
			return
		}
		data, mime = thumb.Data, thumb.MIME
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(data)
}
