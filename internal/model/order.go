package model

import (
	"fmt"
	"strconv"
	"time"
)

// Order is a customer's purchase. Customer is loaded eagerly and Total is
// computed from the order's items.
type Order struct {
	ID         int64     `json:"id,omitempty"`
	CustomerID int64     `json:"customer_id"`
	Status     string    `json:"status"`
	Total      float64   `json:"total"`
	Customer   *Customer `json:"customer,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Order statuses.
const (
	OrderStatusOpen     = "open"
	OrderStatusClosed   = "closed"
	OrderStatusCanceled = "canceled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	return s == OrderStatusOpen || s == OrderStatusClosed || s == OrderStatusCanceled
}

func (o Order) GetID() int64 { return o.ID }

// DisplayName is the zero-padded order number so that lexicographic order
// matches numeric order.
func (o Order) DisplayName() string { return fmt.Sprintf("#%08d", o.ID) }

// SetField sets an editable field from its text form.
func (o *Order) SetField(name, value string) error {
	var err error
	switch name {
	case "customer_id":
		o.CustomerID, err = parseID(name, value)
		o.Customer = nil
	case "status":
		if !ValidOrderStatus(value) {
			return fmt.Errorf("status must be one of %s, %s, %s", OrderStatusOpen, OrderStatusClosed, OrderStatusCanceled)
		}
		o.Status = value
	default:
		return unknownField("order", name)
	}
	return err
}

// OrderItem is a product line of an order. Product is loaded eagerly; the
// owning order is referenced by id only.
type OrderItem struct {
	ID        int64     `json:"id,omitempty"`
	OrderID   int64     `json:"order_id"`
	ProductID int64     `json:"product_id"`
	Amount    int       `json:"amount"`
	Value     float64   `json:"value"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i OrderItem) GetID() int64 { return i.ID }

// DisplayName orders items by order number, then by product name.
func (i OrderItem) DisplayName() string {
	name := ""
	if i.Product != nil {
		name = i.Product.Name
	}
	return fmt.Sprintf("#%08d %s", i.OrderID, name)
}

// Subtotal returns amount × unit value.
func (i OrderItem) Subtotal() float64 {
	return RoundMoney(float64(i.Amount) * i.Value)
}

// SetField sets an editable field from its text form.
func (i *OrderItem) SetField(name, value string) error {
	var err error
	switch name {
	case "order_id":
		i.OrderID, err = parseID(name, value)
	case "product_id":
		i.ProductID, err = parseID(name, value)
		i.Product = nil
	case "amount":
		i.Amount, err = strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("amount must be a whole number")
		}
	case "value":
		i.Value, err = parseMoney(name, value)
	default:
		return unknownField("order item", name)
	}
	return err
}
