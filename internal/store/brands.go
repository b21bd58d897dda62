package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/loja/internal/model"
)

// CreateBrand creates a new brand.
func CreateBrand(ctx context.Context, db *sql.DB, name string) (*model.Brand, error) {
	result, err := db.ExecContext(ctx, `INSERT INTO brands (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("creating brand: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting brand id: %w", err)
	}

	return GetBrand(ctx, db, id)
}

// GetBrand returns a brand by ID.
func GetBrand(ctx context.Context, db *sql.DB, id int64) (*model.Brand, error) {
	b := &model.Brand{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM brands WHERE id = ?`, id,
	).Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting brand: %w", err)
	}
	return b, nil
}

// ListBrands returns all brands ordered by name.
func ListBrands(ctx context.Context, db *sql.DB) ([]model.Brand, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM brands ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}
	defer rows.Close()

	var brands []model.Brand
	for rows.Next() {
		var b model.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning brand: %w", err)
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

// UpdateBrand renames a brand and returns the stored copy.
func UpdateBrand(ctx context.Context, db *sql.DB, id int64, name string) (*model.Brand, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE brands SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating brand: %w", err)
	}
	if err := expectAffected(result); err != nil {
		return nil, fmt.Errorf("updating brand %d: %w", id, err)
	}
	return GetBrand(ctx, db, id)
}

// DeleteBrand deletes a brand. Fails with ErrInUse while products reference it.
func DeleteBrand(ctx context.Context, db *sql.DB, id int64) error {
	count, err := countRefs(ctx, db, "products", "brand_id", id)
	if err != nil {
		return fmt.Errorf("checking brand products: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("cannot delete brand: still used by %d products: %w", count, ErrInUse)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM brands WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting brand: %w", err)
	}
	if err := expectAffected(result); err != nil {
		return fmt.Errorf("deleting brand %d: %w", id, err)
	}
	return nil
}
