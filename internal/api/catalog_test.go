package api

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/erazemk/loja/internal/model"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func TestBrandsAPIFlow(t *testing.T) {
	server, token, _ := setupTestServer(t)
	base := server.URL + "/api/brands"

	var acme model.Brand
	do(t, "POST", base, token, map[string]string{"name": "Acme"}, http.StatusCreated, &acme)
	if acme.ID == 0 || acme.Name != "Acme" {
		t.Fatalf("unexpected brand %+v", acme)
	}

	var updated model.Brand
	do(t, "PUT", base+"/"+itoa(acme.ID), token, map[string]string{"name": "Acme Corp"}, http.StatusOK, &updated)
	if updated.ID != acme.ID || updated.Name != "Acme Corp" {
		t.Errorf("unexpected updated brand %+v", updated)
	}

	var brands []model.Brand
	do(t, "GET", base, token, nil, http.StatusOK, &brands)
	if len(brands) != 1 || brands[0].Name != "Acme Corp" {
		t.Errorf("expected one renamed brand, got %+v", brands)
	}

	do(t, "DELETE", base+"/"+itoa(acme.ID), token, nil, http.StatusOK, nil)
	do(t, "GET", base+"/"+itoa(acme.ID), token, nil, http.StatusNotFound, nil)
	do(t, "PUT", base+"/"+itoa(acme.ID), token, map[string]string{"name": "x"}, http.StatusNotFound, nil)
	do(t, "DELETE", base+"/"+itoa(acme.ID), token, nil, http.StatusNotFound, nil)
	do(t, "GET", base+"/abc", token, nil, http.StatusBadRequest, nil)
}

func TestEmptyListIsArray(t *testing.T) {
	server, token, _ := setupTestServer(t)

	req, _ := authRequest("GET", server.URL+"/api/customers", token, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected [], got %q", buf.String())
	}
}

func TestValidationMessages(t *testing.T) {
	server, token, _ := setupTestServer(t)

	tests := []struct {
		path string
		body map[string]any
		want string
	}{
		{"/api/brands", map[string]any{"name": strings.Repeat("x", 51)}, "name must be at most 50 characters"},
		{"/api/brands", map[string]any{}, "name is required"},
		{"/api/products", map[string]any{"name": "Tea", "price": 2.5}, "category_id is required"},
		{"/api/products", map[string]any{"name": "Tea", "price": 0, "category_id": 1}, "price must be greater than 0"},
		{"/api/products", map[string]any{"name": "Tea", "price": 1, "category_id": 1, "active": "Y"}, "active must be one of: S, N"},
		{"/api/customers", map[string]any{"name": "Ana", "email": "nope"}, "email must be a valid email address"},
		{"/api/orders", map[string]any{"customer_id": 1, "status": "lost"}, "status must be one of: open, closed, canceled"},
		{"/api/order-items", map[string]any{"order_id": 1, "product_id": 1, "amount": 0}, "amount must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := errorMessage(t, "POST", server.URL+tt.path, token, tt.body, http.StatusBadRequest)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestProductsAPIFlow(t *testing.T) {
	server, token, _ := setupTestServer(t)

	var category model.Category
	do(t, "POST", server.URL+"/api/categories", token, map[string]string{"name": "Drinks"}, http.StatusCreated, &category)
	var brand model.Brand
	do(t, "POST", server.URL+"/api/brands", token, map[string]string{"name": "Acme"}, http.StatusCreated, &brand)

	msg := errorMessage(t, "POST", server.URL+"/api/products", token, map[string]any{
		"name": "Tea", "price": 2.5, "category_id": category.ID + 100,
	}, http.StatusBadRequest)
	if msg != "category "+itoa(category.ID+100)+" does not exist" {
		t.Errorf("unexpected message %q", msg)
	}

	var product model.Product
	do(t, "POST", server.URL+"/api/products", token, map[string]any{
		"name": "Tea", "price": 2.499, "category_id": category.ID, "brand_id": brand.ID,
	}, http.StatusCreated, &product)

	if product.Price != 2.5 {
		t.Errorf("expected price rounded to 2.5, got %v", product.Price)
	}
	if product.Active != model.ProductActive {
		t.Errorf("expected active flag %q, got %q", model.ProductActive, product.Active)
	}
	if product.Category == nil || product.Category.Name != "Drinks" {
		t.Errorf("expected eager category, got %+v", product.Category)
	}
	if product.Brand == nil || product.Brand.Name != "Acme" {
		t.Errorf("expected eager brand, got %+v", product.Brand)
	}

	// Brands and categories in use cannot be deleted.
	msg = errorMessage(t, "DELETE", server.URL+"/api/brands/"+itoa(brand.ID), token, nil, http.StatusConflict)
	if msg != "cannot delete brand: still used by 1 products" {
		t.Errorf("unexpected message %q", msg)
	}
	do(t, "DELETE", server.URL+"/api/categories/"+itoa(category.ID), token, nil, http.StatusConflict, nil)

	var inactive []model.Product
	do(t, "GET", server.URL+"/api/products?active=N", token, nil, http.StatusOK, &inactive)
	if len(inactive) != 0 {
		t.Errorf("expected no inactive products, got %d", len(inactive))
	}
}

func TestOrderSaleFlow(t *testing.T) {
	server, token, _ := setupTestServer(t)

	var category model.Category
	do(t, "POST", server.URL+"/api/categories", token, map[string]string{"name": "Drinks"}, http.StatusCreated, &category)
	var product model.Product
	do(t, "POST", server.URL+"/api/products", token, map[string]any{
		"name": "Tea", "price": 3, "category_id": category.ID,
	}, http.StatusCreated, &product)
	var customer model.Customer
	do(t, "POST", server.URL+"/api/customers", token, map[string]string{"name": "Ana", "email": "ana@example.com"}, http.StatusCreated, &customer)

	var order model.Order
	do(t, "POST", server.URL+"/api/orders", token, map[string]any{"customer_id": customer.ID}, http.StatusCreated, &order)
	if order.Status != model.OrderStatusOpen {
		t.Fatalf("expected open order, got %q", order.Status)
	}

	var item model.OrderItem
	do(t, "POST", server.URL+"/api/order-items", token, map[string]any{
		"order_id": order.ID, "product_id": product.ID, "amount": 2,
	}, http.StatusCreated, &item)
	if item.Value != 3 {
		t.Errorf("expected unit value from product price, got %v", item.Value)
	}

	var items []model.OrderItem
	do(t, "GET", server.URL+"/api/orders/"+itoa(order.ID)+"/items", token, nil, http.StatusOK, &items)
	if len(items) != 1 || items[0].Product == nil || items[0].Product.Name != "Tea" {
		t.Errorf("unexpected order items %+v", items)
	}
	do(t, "GET", server.URL+"/api/order-items?order_id="+itoa(order.ID), token, nil, http.StatusOK, &items)
	if len(items) != 1 {
		t.Errorf("expected 1 filtered item, got %d", len(items))
	}

	var sale model.Sale
	do(t, "POST", server.URL+"/api/sales", token, map[string]any{"order_id": order.ID}, http.StatusCreated, &sale)
	if sale.Value != 6 {
		t.Errorf("expected sale value from order total, got %v", sale.Value)
	}

	do(t, "GET", server.URL+"/api/orders/"+itoa(order.ID), token, nil, http.StatusOK, &order)
	if order.Status != model.OrderStatusClosed || order.Total != 6 {
		t.Errorf("expected closed order with total 6, got %+v", order)
	}

	msg := errorMessage(t, "POST", server.URL+"/api/order-items", token, map[string]any{
		"order_id": order.ID, "product_id": product.ID, "amount": 1,
	}, http.StatusConflict)
	if msg != "order "+itoa(order.ID)+" is closed" {
		t.Errorf("unexpected message %q", msg)
	}
	do(t, "DELETE", server.URL+"/api/orders/"+itoa(order.ID), token, nil, http.StatusConflict, nil)

	// Deleting the sale reopens the order.
	do(t, "DELETE", server.URL+"/api/sales/"+itoa(sale.ID), token, nil, http.StatusOK, nil)
	do(t, "GET", server.URL+"/api/orders/"+itoa(order.ID), token, nil, http.StatusOK, &order)
	if order.Status != model.OrderStatusOpen {
		t.Errorf("expected reopened order, got %q", order.Status)
	}
	do(t, "DELETE", server.URL+"/api/customers/"+itoa(customer.ID), token, nil, http.StatusConflict, nil)
}

func TestProductImage(t *testing.T) {
	server, token, _ := setupTestServer(t)

	var category model.Category
	do(t, "POST", server.URL+"/api/categories", token, map[string]string{"name": "Toys"}, http.StatusCreated, &category)
	var product model.Product
	do(t, "POST", server.URL+"/api/products", token, map[string]any{
		"name": "Ball", "price": 9.9, "category_id": category.ID,
	}, http.StatusCreated, &product)

	imageURL := server.URL + "/api/products/" + itoa(product.ID) + "/image"
	do(t, "GET", imageURL, token, nil, http.StatusNotFound, nil)

	img := image.NewRGBA(image.Rect(0, 0, 1600, 800))
	for x := range 1600 {
		img.Set(x, 400, color.RGBA{R: 255, A: 255})
	}
	var pngData bytes.Buffer
	png.Encode(&pngData, img)

	upload := func(data []byte) int {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, _ := mw.CreateFormFile("image", "ball.png")
		fw.Write(data)
		mw.Close()

		req, _ := http.NewRequest("PUT", imageURL, &body)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("upload: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if status := upload([]byte("not an image")); status != http.StatusBadRequest {
		t.Errorf("expected 400 for text upload, got %d", status)
	}
	if status := upload(pngData.Bytes()); status != http.StatusOK {
		t.Fatalf("expected 200 for png upload, got %d", status)
	}

	for _, size := range []string{"", "?size=thumb"} {
		req, _ := authRequest("GET", imageURL+size, token, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		cfg, format, err := image.DecodeConfig(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("decoding stored image: %v", err)
		}
		if format != "jpeg" || resp.Header.Get("Content-Type") != "image/jpeg" {
			t.Errorf("expected jpeg, got %s (%s)", format, resp.Header.Get("Content-Type"))
		}
		limit := 1024
		if size != "" {
			limit = 256
		}
		if cfg.Width != limit || cfg.Height != limit/2 {
			t.Errorf("size %q: expected %dx%d, got %dx%d", size, limit, limit/2, cfg.Width, cfg.Height)
		}
	}
}
