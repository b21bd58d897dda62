package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/loja/internal/model"
)

const saleColumns = `id, order_id, value, notes, sold_at, created_at, updated_at`

func scanSale(row interface{ Scan(...any) error }, s *model.Sale) error {
	var notes sql.NullString
	if err := row.Scan(&s.ID, &s.OrderID, &s.Value, &notes, &s.SoldAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return err
	}
	s.Notes = notes.String
	return nil
}

// CreateSale records the sale of an open order and closes the order in the
// same transaction. A zero value is replaced by the order total.
func CreateSale(ctx context.Context, db *sql.DB, sale model.Sale) (*model.Sale, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireOpenOrder(ctx, tx, sale.OrderID); err != nil {
		return nil, err
	}

	value := model.RoundMoney(sale.Value)
	if value == 0 {
		order, err := getOrder(ctx, tx, sale.OrderID)
		if err != nil {
			return nil, err
		}
		value = order.Total
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO sales (order_id, value, notes) VALUES (?, ?, ?)`,
		sale.OrderID, value, sale.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating sale: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting sale id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.OrderStatusClosed, sale.OrderID,
	)
	if err != nil {
		return nil, fmt.Errorf("closing order: %w", err)
	}

	created, err := getSale(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return created, nil
}

// GetSale returns a sale by ID.
func GetSale(ctx context.Context, db *sql.DB, id int64) (*model.Sale, error) {
	return getSale(ctx, db, id)
}

func getSale(ctx context.Context, q queryer, id int64) (*model.Sale, error) {
	s := &model.Sale{}
	err := scanSale(q.QueryRowContext(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id), s)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting sale: %w", err)
	}
	return s, nil
}

// ListSales returns all sales, newest first.
func ListSales(ctx context.Context, db *sql.DB) ([]model.Sale, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY sold_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		var s model.Sale
		if err := scanSale(rows, &s); err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// UpdateSale changes a sale's value and notes. The order a sale closes is fixed.
func UpdateSale(ctx context.Context, db *sql.DB, sale model.Sale) (*model.Sale, error) {
	current, err := GetSale(ctx, db, sale.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("updating sale %d: %w", sale.ID, ErrNotFound)
	}
	if sale.OrderID != 0 && sale.OrderID != current.OrderID {
		return nil, fmt.Errorf("cannot move sale %d to another order: %w", sale.ID, ErrConflict)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE sales SET value = ?, notes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.RoundMoney(sale.Value), sale.Notes, sale.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating sale: %w", err)
	}
	return GetSale(ctx, db, sale.ID)
}

// DeleteSale removes a sale and reopens its order.
func DeleteSale(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var orderID int64
	err = tx.QueryRowContext(ctx, `SELECT order_id FROM sales WHERE id = ?`, id).Scan(&orderID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("deleting sale %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("getting sale: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting sale: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.OrderStatusOpen, orderID,
	)
	if err != nil {
		return fmt.Errorf("reopening order: %w", err)
	}
	return tx.Commit()
}
