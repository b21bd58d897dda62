package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/loja/internal/model"
)

// CreateCategory creates a new category.
func CreateCategory(ctx context.Context, db *sql.DB, name, description string) (*model.Category, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?)`,
		name, description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// GetCategory returns a category by ID.
func GetCategory(ctx context.Context, db *sql.DB, id int64) (*model.Category, error) {
	c := &model.Category{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &description, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	c.Description = description.String
	return c, nil
}

// ListCategories returns all categories ordered by name.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory updates a category and returns the stored copy.
func UpdateCategory(ctx context.Context, db *sql.DB, id int64, name, description string) (*model.Category, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, description, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}
	if err := expectAffected(result); err != nil {
		return nil, fmt.Errorf("updating category %d: %w", id, err)
	}
	return GetCategory(ctx, db, id)
}

// DeleteCategory deletes a category. Fails with ErrInUse while products reference it.
func DeleteCategory(ctx context.Context, db *sql.DB, id int64) error {
	count, err := countRefs(ctx, db, "products", "category_id", id)
	if err != nil {
		return fmt.Errorf("checking category products: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("cannot delete category: still used by %d products: %w", count, ErrInUse)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	if err := expectAffected(result); err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	return nil
}
