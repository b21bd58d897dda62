package model

import (
	"fmt"
	"time"
)

// Sale records the payment that closes an order.
type Sale struct {
	ID        int64     `json:"id,omitempty"`
	OrderID   int64     `json:"order_id"`
	Value     float64   `json:"value"`
	Notes     string    `json:"notes,omitempty"`
	SoldAt    time.Time `json:"sold_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s Sale) GetID() int64 { return s.ID }

// DisplayName sorts sales by the order they close.
func (s Sale) DisplayName() string { return fmt.Sprintf("#%08d", s.OrderID) }

// SetField sets an editable field from its text form.
func (s *Sale) SetField(name, value string) error {
	var err error
	switch name {
	case "order_id":
		s.OrderID, err = parseID(name, value)
	case "value":
		s.Value, err = parseMoney(name, value)
	case "notes":
		s.Notes = value
	default:
		return unknownField("sale", name)
	}
	return err
}
