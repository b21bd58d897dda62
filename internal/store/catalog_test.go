package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/erazemk/loja/internal/db"
	"github.com/erazemk/loja/internal/model"
)

// seedProduct creates a category, a brand and one product using them.
func seedProduct(t *testing.T, database *sql.DB) (*model.Category, *model.Brand, *model.Product) {
	t.Helper()
	ctx := context.Background()

	category, err := CreateCategory(ctx, database, "Beverages", "Drinks")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	brand, err := CreateBrand(ctx, database, "Acme")
	if err != nil {
		t.Fatalf("CreateBrand: %v", err)
	}
	product, err := CreateProduct(ctx, database, model.Product{
		Name:       "Cola",
		Price:      4.999,
		CategoryID: category.ID,
		BrandID:    &brand.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	return category, brand, product
}

func TestCreateAndUpdateBrand(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	brand, err := CreateBrand(ctx, database, "Acme")
	if err != nil {
		t.Fatalf("CreateBrand: %v", err)
	}
	if brand.ID == 0 {
		t.Fatal("expected server-assigned id")
	}

	updated, err := UpdateBrand(ctx, database, brand.ID, "Acme Corp")
	if err != nil {
		t.Fatalf("UpdateBrand: %v", err)
	}
	if updated.Name != "Acme Corp" {
		t.Errorf("expected 'Acme Corp', got %q", updated.Name)
	}

	if _, err := UpdateBrand(ctx, database, 999, "Ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing brand, got %v", err)
	}
}

func TestListBrandsOrderedByName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateBrand(ctx, database, "Zeta")
	CreateBrand(ctx, database, "Alpha")

	brands, err := ListBrands(ctx, database)
	if err != nil {
		t.Fatalf("ListBrands: %v", err)
	}
	if len(brands) != 2 || brands[0].Name != "Alpha" {
		t.Errorf("expected [Alpha Zeta], got %+v", brands)
	}
}

func TestBrandNameTooLong(t *testing.T) {
	database := db.NewTestDB(t)

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := CreateBrand(context.Background(), database, string(long)); err == nil {
		t.Error("expected check constraint failure for 51-character name")
	}
}

func TestProductEagerRelations(t *testing.T) {
	database := db.NewTestDB(t)
	category, brand, product := seedProduct(t, database)

	if product.Price != 5 {
		t.Errorf("expected price rounded to 5, got %v", product.Price)
	}
	if product.Active != model.ProductActive {
		t.Errorf("expected default active flag, got %q", product.Active)
	}
	if product.Category == nil || product.Category.Name != category.Name {
		t.Errorf("expected eager category %q, got %+v", category.Name, product.Category)
	}
	if product.Brand == nil || product.Brand.ID != brand.ID {
		t.Errorf("expected eager brand %d, got %+v", brand.ID, product.Brand)
	}
}

func TestProductWithoutBrand(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category, _ := CreateCategory(ctx, database, "Bakery", "")
	product, err := CreateProduct(ctx, database, model.Product{Name: "Bread", Price: 2, CategoryID: category.ID})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if product.BrandID != nil || product.Brand != nil {
		t.Errorf("expected no brand, got %v / %+v", product.BrandID, product.Brand)
	}
}

func TestDeleteReferencedBrandAndCategory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	category, brand, product := seedProduct(t, database)

	if err := DeleteBrand(ctx, database, brand.ID); !errors.Is(err, ErrInUse) {
		t.Errorf("DeleteBrand: expected ErrInUse, got %v", err)
	}
	if err := DeleteCategory(ctx, database, category.ID); !errors.Is(err, ErrInUse) {
		t.Errorf("DeleteCategory: expected ErrInUse, got %v", err)
	}

	if err := DeleteProduct(ctx, database, product.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if err := DeleteBrand(ctx, database, brand.ID); err != nil {
		t.Errorf("DeleteBrand after product removal: %v", err)
	}
	if err := DeleteBrand(ctx, database, brand.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteBrand: expected ErrNotFound, got %v", err)
	}
}

func TestListProductsByActive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	category, _, product := seedProduct(t, database)

	CreateProduct(ctx, database, model.Product{
		Name: "Old Cola", Price: 1, Active: model.ProductInactive, CategoryID: category.ID,
	})

	active, err := ListProducts(ctx, database, model.ProductActive)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(active) != 1 || active[0].ID != product.ID {
		t.Errorf("expected only the active product, got %+v", active)
	}

	all, _ := ListProducts(ctx, database, "")
	if len(all) != 2 {
		t.Errorf("expected 2 products, got %d", len(all))
	}
}

func TestProductImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	_, _, product := seedProduct(t, database)

	if err := SetProductImage(ctx, database, product.ID, []byte("jpeg bytes"), "image/jpeg"); err != nil {
		t.Fatalf("SetProductImage: %v", err)
	}

	data, mime, err := GetProductImage(ctx, database, product.ID)
	if err != nil {
		t.Fatalf("GetProductImage: %v", err)
	}
	if string(data) != "jpeg bytes" || mime != "image/jpeg" {
		t.Errorf("unexpected image %q (%s)", data, mime)
	}

	got, _ := GetProduct(ctx, database, product.ID)
	if got.ImageMime != "image/jpeg" {
		t.Errorf("expected image mime on product, got %q", got.ImageMime)
	}
}

func TestCustomerCRUD(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, err := CreateCustomer(ctx, database, model.Customer{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	c.Phone = "+386 1 234 567"
	updated, err := UpdateCustomer(ctx, database, *c)
	if err != nil {
		t.Fatalf("UpdateCustomer: %v", err)
	}
	if updated.Phone != c.Phone || updated.Email != "ana@example.com" {
		t.Errorf("unexpected customer after update: %+v", updated)
	}

	if err := DeleteCustomer(ctx, database, c.ID); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}
	got, _ := GetCustomer(ctx, database, c.ID)
	if got != nil {
		t.Error("expected customer to be gone")
	}
}
