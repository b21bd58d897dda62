package model

import "time"

// Brand is a product manufacturer or label.
type Brand struct {
	ID        int64     `json:"id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b Brand) GetID() int64        { return b.ID }
func (b Brand) DisplayName() string { return b.Name }

// SetField sets an editable field from its text form.
func (b *Brand) SetField(name, value string) error {
	switch name {
	case "name":
		b.Name = value
	default:
		return unknownField("brand", name)
	}
	return nil
}
