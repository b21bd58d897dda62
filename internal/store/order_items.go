package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/loja/internal/model"
)

// orderItemSelect joins the eagerly loaded product with its category and brand.
const orderItemSelect = `
SELECT oi.id, oi.order_id, oi.product_id, oi.amount, oi.value, oi.created_at, oi.updated_at,
       p.id, p.name, p.description, p.price, p.active, p.category_id, p.brand_id,
       p.image_mime, p.created_at, p.updated_at,
       c.id, c.name, c.description, c.created_at, c.updated_at,
       b.id, b.name, b.created_at, b.updated_at
FROM order_items oi
JOIN products p ON p.id = oi.product_id
JOIN categories c ON c.id = p.category_id
LEFT JOIN brands b ON b.id = p.brand_id`

// productScanner feeds the product columns of an order item row to scanProduct.
type productScanner struct {
	item *model.OrderItem
	row  interface{ Scan(...any) error }
}

func (s productScanner) Scan(dest ...any) error {
	head := []any{
		&s.item.ID, &s.item.OrderID, &s.item.ProductID, &s.item.Amount, &s.item.Value,
		&s.item.CreatedAt, &s.item.UpdatedAt,
	}
	return s.row.Scan(append(head, dest...)...)
}

func scanOrderItem(row interface{ Scan(...any) error }, item *model.OrderItem) error {
	p := &model.Product{}
	if err := scanProduct(productScanner{item: item, row: row}, p); err != nil {
		return err
	}
	item.Product = p
	return nil
}

// CreateOrderItem adds a product line to an open order. A zero value is
// replaced by the product's current price.
func CreateOrderItem(ctx context.Context, db *sql.DB, item model.OrderItem) (*model.OrderItem, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireOpenOrder(ctx, tx, item.OrderID); err != nil {
		return nil, err
	}

	value, err := itemValue(ctx, tx, item)
	if err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_id, amount, value) VALUES (?, ?, ?, ?)`,
		item.OrderID, item.ProductID, item.Amount, value,
	)
	if err != nil {
		return nil, fmt.Errorf("creating order item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting order item id: %w", err)
	}

	if err := touchOrder(ctx, tx, item.OrderID); err != nil {
		return nil, err
	}

	created, err := getOrderItem(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return created, nil
}

// itemValue returns the item's unit value, falling back to the product price.
func itemValue(ctx context.Context, q queryer, item model.OrderItem) (float64, error) {
	if item.Value > 0 {
		return model.RoundMoney(item.Value), nil
	}

	var price float64
	err := q.QueryRowContext(ctx, `SELECT price FROM products WHERE id = ?`, item.ProductID).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("product %d: %w", item.ProductID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("getting product price: %w", err)
	}
	return price, nil
}

// touchOrder refreshes an order's updated_at after its items changed.
func touchOrder(ctx context.Context, tx *sql.Tx, orderID int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE orders SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, orderID,
	)
	if err != nil {
		return fmt.Errorf("touching order: %w", err)
	}
	return nil
}

// GetOrderItem returns an order item by ID with its product.
func GetOrderItem(ctx context.Context, db *sql.DB, id int64) (*model.OrderItem, error) {
	return getOrderItem(ctx, db, id)
}

func getOrderItem(ctx context.Context, q queryer, id int64) (*model.OrderItem, error) {
	item := &model.OrderItem{}
	err := scanOrderItem(q.QueryRowContext(ctx, orderItemSelect+` WHERE oi.id = ?`, id), item)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting order item: %w", err)
	}
	return item, nil
}

// ListOrderItems returns order items, optionally only those of one order.
func ListOrderItems(ctx context.Context, db *sql.DB, orderID int64) ([]model.OrderItem, error) {
	var rows *sql.Rows
	var err error

	if orderID != 0 {
		rows, err = db.QueryContext(ctx, orderItemSelect+` WHERE oi.order_id = ? ORDER BY oi.id`, orderID)
	} else {
		rows, err = db.QueryContext(ctx, orderItemSelect+` ORDER BY oi.order_id, oi.id`)
	}
	if err != nil {
		return nil, fmt.Errorf("listing order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := scanOrderItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateOrderItem changes a product line. Both the current and the target
// order must be open.
func UpdateOrderItem(ctx context.Context, db *sql.DB, item model.OrderItem) (*model.OrderItem, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getOrderItem(ctx, tx, item.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("updating order item %d: %w", item.ID, ErrNotFound)
	}
	if err := requireOpenOrder(ctx, tx, current.OrderID); err != nil {
		return nil, err
	}
	if item.OrderID != current.OrderID {
		if err := requireOpenOrder(ctx, tx, item.OrderID); err != nil {
			return nil, err
		}
	}

	value, err := itemValue(ctx, tx, item)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE order_items SET order_id = ?, product_id = ?, amount = ?, value = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		item.OrderID, item.ProductID, item.Amount, value, item.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating order item: %w", err)
	}

	if err := touchOrder(ctx, tx, current.OrderID); err != nil {
		return nil, err
	}
	if item.OrderID != current.OrderID {
		if err := touchOrder(ctx, tx, item.OrderID); err != nil {
			return nil, err
		}
	}

	updated, err := getOrderItem(ctx, tx, item.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return updated, nil
}

// DeleteOrderItem removes a product line from an open order.
func DeleteOrderItem(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var orderID int64
	err = tx.QueryRowContext(ctx, `SELECT order_id FROM order_items WHERE id = ?`, id).Scan(&orderID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("deleting order item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("getting order item: %w", err)
	}
	if err := requireOpenOrder(ctx, tx, orderID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting order item: %w", err)
	}
	if err := touchOrder(ctx, tx, orderID); err != nil {
		return err
	}
	return tx.Commit()
}
