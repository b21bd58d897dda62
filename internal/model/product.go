package model

import (
	"fmt"
	"strings"
	"time"
)

// Product is a catalog entry. Category and Brand are loaded eagerly.
type Product struct {
	ID          int64     `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Active      string    `json:"active"`
	CategoryID  int64     `json:"category_id"`
	BrandID     *int64    `json:"brand_id,omitempty"`
	ImageMime   string    `json:"image_mime,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Brand       *Brand    `json:"brand,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product active flags.
const (
	ProductActive   = "S"
	ProductInactive = "N"
)

func (p Product) GetID() int64        { return p.ID }
func (p Product) DisplayName() string { return p.Name }

// SetField sets an editable field from its text form.
func (p *Product) SetField(name, value string) error {
	var err error
	switch name {
	case "name":
		p.Name = value
	case "description":
		p.Description = value
	case "price":
		p.Price, err = parseMoney(name, value)
	case "active":
		v := strings.ToUpper(strings.TrimSpace(value))
		if v != ProductActive && v != ProductInactive {
			return fmt.Errorf("active must be %q or %q", ProductActive, ProductInactive)
		}
		p.Active = v
	case "category_id":
		p.CategoryID, err = parseID(name, value)
		p.Category = nil
	case "brand_id":
		p.BrandID, err = parseOptionalID(name, value)
		p.Brand = nil
	default:
		return unknownField("product", name)
	}
	return err
}
