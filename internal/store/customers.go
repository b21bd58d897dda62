package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/loja/internal/model"
)

// CreateCustomer creates a new customer.
func CreateCustomer(ctx context.Context, db *sql.DB, c model.Customer) (*model.Customer, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO customers (name, email, phone) VALUES (?, ?, ?)`,
		c.Name, c.Email, c.Phone,
	)
	if err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting customer id: %w", err)
	}

	return GetCustomer(ctx, db, id)
}

const customerColumns = `id, name, email, phone, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }, c *model.Customer) error {
	var email, phone sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &email, &phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}
	c.Email = email.String
	c.Phone = phone.String
	return nil
}

// GetCustomer returns a customer by ID.
func GetCustomer(ctx context.Context, db *sql.DB, id int64) (*model.Customer, error) {
	return getCustomer(ctx, db, id)
}

func getCustomer(ctx context.Context, q queryer, id int64) (*model.Customer, error) {
	c := &model.Customer{}
	err := scanCustomer(q.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id,
	), c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting customer: %w", err)
	}
	return c, nil
}

// ListCustomers returns all customers ordered by name.
func ListCustomers(ctx context.Context, db *sql.DB) ([]model.Customer, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// UpdateCustomer updates a customer's contact data and returns the stored copy.
func UpdateCustomer(ctx context.Context, db *sql.DB, c model.Customer) (*model.Customer, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE customers SET name = ?, email = ?, phone = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		c.Name, c.Email, c.Phone, c.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating customer: %w", err)
	}
	if err := expectAffected(result); err != nil {
		return nil, fmt.Errorf("updating customer %d: %w", c.ID, err)
	}
	return GetCustomer(ctx, db, c.ID)
}

// DeleteCustomer deletes a customer. Fails with ErrInUse while orders reference it.
func DeleteCustomer(ctx context.Context, db *sql.DB, id int64) error {
	count, err := countRefs(ctx, db, "orders", "customer_id", id)
	if err != nil {
		return fmt.Errorf("checking customer orders: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("cannot delete customer: still has %d orders: %w", count, ErrInUse)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}
	if err := expectAffected(result); err != nil {
		return fmt.Errorf("deleting customer %d: %w", id, err)
	}
	return nil
}
