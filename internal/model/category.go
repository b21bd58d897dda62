package model

import "time"

// Category groups products.
type Category struct {
	ID          int64     `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c Category) GetID() int64        { return c.ID }
func (c Category) DisplayName() string { return c.Name }

// SetField sets an editable field from its text form.
func (c *Category) SetField(name, value string) error {
	switch name {
	case "name":
		c.Name = value
	case "description":
		c.Description = value
	default:
		return unknownField("category", name)
	}
	return nil
}
