package model

import (
	"errors"
	"testing"
)

func TestProductSetField(t *testing.T) {
	var p Product

	if err := p.SetField("price", "12,499"); err != nil {
		t.Fatalf("SetField price: %v", err)
	}
	if p.Price != 12.5 {
		t.Errorf("expected price rounded to 12.5, got %v", p.Price)
	}

	if err := p.SetField("active", "n"); err != nil {
		t.Fatalf("SetField active: %v", err)
	}
	if p.Active != ProductInactive {
		t.Errorf("expected active %q, got %q", ProductInactive, p.Active)
	}
	if err := p.SetField("active", "yes"); err == nil {
		t.Error("expected error for invalid active flag")
	}

	if err := p.SetField("brand_id", "3"); err != nil {
		t.Fatalf("SetField brand_id: %v", err)
	}
	if p.BrandID == nil || *p.BrandID != 3 {
		t.Errorf("expected brand id 3, got %v", p.BrandID)
	}
	if err := p.SetField("brand_id", ""); err != nil {
		t.Fatalf("clearing brand_id: %v", err)
	}
	if p.BrandID != nil {
		t.Error("expected brand id to be cleared")
	}

	err := p.SetField("colour", "red")
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestOrderItemSetFieldAndSubtotal(t *testing.T) {
	var item OrderItem
	if err := item.SetField("amount", "3"); err != nil {
		t.Fatalf("SetField amount: %v", err)
	}
	if err := item.SetField("value", "1.10"); err != nil {
		t.Fatalf("SetField value: %v", err)
	}
	if got := item.Subtotal(); got != 3.3 {
		t.Errorf("expected subtotal 3.3, got %v", got)
	}
	if err := item.SetField("amount", "two"); err == nil {
		t.Error("expected error for non-numeric amount")
	}
}

func TestDisplayNameOrdering(t *testing.T) {
	a := Order{ID: 9}
	b := Order{ID: 10}
	if !(a.DisplayName() < b.DisplayName()) {
		t.Errorf("expected %q < %q", a.DisplayName(), b.DisplayName())
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{OrderStatusOpen, OrderStatusClosed, OrderStatusCanceled} {
		if !ValidOrderStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ValidOrderStatus("shipped") {
		t.Error("expected unknown status to be invalid")
	}
}
