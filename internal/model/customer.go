package model

import "time"

// Customer is a buyer that orders are placed for.
type Customer struct {
	ID        int64     `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Customer) GetID() int64        { return c.ID }
func (c Customer) DisplayName() string { return c.Name }

// SetField sets an editable field from its text form.
func (c *Customer) SetField(name, value string) error {
	switch name {
	case "name":
		c.Name = value
	case "email":
		c.Email = value
	case "phone":
		c.Phone = value
	default:
		return unknownField("customer", name)
	}
	return nil
}
