package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/loja/internal/model"
)

// productSelect joins the eagerly loaded category and brand.
const productSelect = `
SELECT p.id, p.name, p.description, p.price, p.active, p.category_id, p.brand_id,
       p.image_mime, p.created_at, p.updated_at,
       c.id, c.name, c.description, c.created_at, c.updated_at,
       b.id, b.name, b.created_at, b.updated_at
FROM products p
JOIN categories c ON c.id = p.category_id
LEFT JOIN brands b ON b.id = p.brand_id`

func scanProduct(row interface{ Scan(...any) error }, p *model.Product) error {
	var (
		description, imageMime, categoryDescription sql.NullString
		brandID                                     sql.NullInt64
		category                                    model.Category
		brandRefID                                  sql.NullInt64
		brandName                                   sql.NullString
		brandCreated, brandUpdated                  sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.Name, &description, &p.Price, &p.Active, &p.CategoryID, &brandID,
		&imageMime, &p.CreatedAt, &p.UpdatedAt,
		&category.ID, &category.Name, &categoryDescription, &category.CreatedAt, &category.UpdatedAt,
		&brandRefID, &brandName, &brandCreated, &brandUpdated,
	)
	if err != nil {
		return err
	}

	p.Description = description.String
	p.ImageMime = imageMime.String
	category.Description = categoryDescription.String
	p.Category = &category
	p.BrandID = nil
	p.Brand = nil
	if brandID.Valid {
		id := brandID.Int64
		p.BrandID = &id
	}
	if brandRefID.Valid {
		p.Brand = &model.Brand{
			ID:        brandRefID.Int64,
			Name:      brandName.String,
			CreatedAt: brandCreated.Time,
			UpdatedAt: brandUpdated.Time,
		}
	}
	return nil
}

// CreateProduct creates a new product. Active defaults to ProductActive.
func CreateProduct(ctx context.Context, db *sql.DB, p model.Product) (*model.Product, error) {
	if p.Active == "" {
		p.Active = model.ProductActive
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO products (name, description, price, active, category_id, brand_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, model.RoundMoney(p.Price), p.Active, p.CategoryID, p.BrandID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting product id: %w", err)
	}

	return GetProduct(ctx, db, id)
}

// GetProduct returns a product by ID with its category and brand.
func GetProduct(ctx context.Context, db *sql.DB, id int64) (*model.Product, error) {
	p := &model.Product{}
	err := scanProduct(db.QueryRowContext(ctx, productSelect+` WHERE p.id = ?`, id), p)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return p, nil
}

// ListProducts returns all products ordered by name, optionally only those
// with the given active flag.
func ListProducts(ctx context.Context, db *sql.DB, active string) ([]model.Product, error) {
	var rows *sql.Rows
	var err error

	if active != "" {
		rows, err = db.QueryContext(ctx, productSelect+` WHERE p.active = ? ORDER BY p.name`, active)
	} else {
		rows, err = db.QueryContext(ctx, productSelect+` ORDER BY p.name`)
	}
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct updates a product's catalog fields and returns the stored copy.
func UpdateProduct(ctx context.Context, db *sql.DB, p model.Product) (*model.Product, error) {
	if p.Active == "" {
		p.Active = model.ProductActive
	}

	result, err := db.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, price = ?, active = ?,
		        category_id = ?, brand_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.Name, p.Description, model.RoundMoney(p.Price), p.Active, p.CategoryID, p.BrandID, p.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}
	if err := expectAffected(result); err != nil {
		return nil, fmt.Errorf("updating product %d: %w", p.ID, err)
	}
	return GetProduct(ctx, db, p.ID)
}

// DeleteProduct deletes a product. Fails with ErrInUse while order items reference it.
func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	count, err := countRefs(ctx, db, "order_items", "product_id", id)
	if err != nil {
		return fmt.Errorf("checking product order items: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("cannot delete product: still on %d order items: %w", count, ErrInUse)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	if err := expectAffected(result); err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	return nil
}

// SetProductImage sets a product's image data.
func SetProductImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE products SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting product image: %w", err)
	}
	if err := expectAffected(result); err != nil {
		return fmt.Errorf("setting product image %d: %w", id, err)
	}
	return nil
}

// GetProductImage returns a product's image data and MIME type.
func GetProductImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM products WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting product image: %w", err)
	}
	return image, mime.String, nil
}
