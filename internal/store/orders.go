package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/loja/internal/model"
)

// orderSelect joins the eagerly loaded customer and computes the total.
const orderSelect = `
SELECT o.id, o.customer_id, o.status, o.created_at, o.updated_at,
       COALESCE((SELECT ROUND(SUM(i.amount * i.value), 2) FROM order_items i WHERE i.order_id = o.id), 0),
       c.id, c.name, c.email, c.phone, c.created_at, c.updated_at
FROM orders o
JOIN customers c ON c.id = o.customer_id`

func scanOrder(row interface{ Scan(...any) error }, o *model.Order) error {
	var c model.Customer
	var email, phone sql.NullString
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.Status, &o.CreatedAt, &o.UpdatedAt, &o.Total,
		&c.ID, &c.Name, &email, &phone, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	c.Email = email.String
	c.Phone = phone.String
	o.Customer = &c
	return nil
}

// CreateOrder opens a new order for a customer.
func CreateOrder(ctx context.Context, db *sql.DB, customerID int64, status string) (*model.Order, error) {
	if status == "" {
		status = model.OrderStatusOpen
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO orders (customer_id, status) VALUES (?, ?)`,
		customerID, status,
	)
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting order id: %w", err)
	}

	return GetOrder(ctx, db, id)
}

// GetOrder returns an order by ID with its customer and computed total.
func GetOrder(ctx context.Context, db *sql.DB, id int64) (*model.Order, error) {
	return getOrder(ctx, db, id)
}

func getOrder(ctx context.Context, q queryer, id int64) (*model.Order, error) {
	o := &model.Order{}
	err := scanOrder(q.QueryRowContext(ctx, orderSelect+` WHERE o.id = ?`, id), o)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}
	return o, nil
}

// ListOrders returns orders, newest first, optionally for one customer.
func ListOrders(ctx context.Context, db *sql.DB, customerID int64) ([]model.Order, error) {
	var rows *sql.Rows
	var err error

	if customerID != 0 {
		rows, err = db.QueryContext(ctx, orderSelect+` WHERE o.customer_id = ? ORDER BY o.id DESC`, customerID)
	} else {
		rows, err = db.QueryContext(ctx, orderSelect+` ORDER BY o.id DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateOrder changes an order's customer and status. An order closed by a
// sale cannot change status until the sale is deleted.
func UpdateOrder(ctx context.Context, db *sql.DB, id, customerID int64, status string) (*model.Order, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getOrder(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("updating order %d: %w", id, ErrNotFound)
	}

	sales, err := countRefs(ctx, tx, "sales", "order_id", id)
	if err != nil {
		return nil, fmt.Errorf("checking order sale: %w", err)
	}
	if sales > 0 && (status != current.Status || customerID != current.CustomerID) {
		return nil, fmt.Errorf("cannot change order %d: it has a sale: %w", id, ErrConflict)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET customer_id = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		customerID, status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating order: %w", err)
	}

	updated, err := getOrder(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return updated, nil
}

// DeleteOrder deletes an order and its items. Fails with ErrInUse while a
// sale references it.
func DeleteOrder(ctx context.Context, db *sql.DB, id int64) error {
	count, err := countRefs(ctx, db, "sales", "order_id", id)
	if err != nil {
		return fmt.Errorf("checking order sale: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("cannot delete order: it has a sale: %w", ErrInUse)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}
	if err := expectAffected(result); err != nil {
		return fmt.Errorf("deleting order %d: %w", id, err)
	}
	return nil
}

// requireOpenOrder fails with ErrNotFound or ErrConflict unless the order
// exists and is open.
func requireOpenOrder(ctx context.Context, q queryer, orderID int64) error {
	var status string
	err := q.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = ?`, orderID).Scan(&status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking order status: %w", err)
	}
	if status != model.OrderStatusOpen {
		return fmt.Errorf("order %d is %s: %w", orderID, status, ErrConflict)
	}
	return nil
}
