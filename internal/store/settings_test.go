package store

import (
	"context"
	"testing"

	"github.com/erazemk/loja/internal/db"
)

func TestGetJWTSecret_GeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// First call should generate a secret.
	secret1, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	// Second call should return the same secret.
	secret2, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestSetAndGetSetting(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, ok, err := GetSetting(ctx, database, "currency"); err != nil || ok {
		t.Fatalf("expected missing setting, got ok=%v err=%v", ok, err)
	}

	if err := SetSetting(ctx, database, "currency", "BRL"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := SetSetting(ctx, database, "currency", "EUR"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}

	value, ok, err := GetSetting(ctx, database, "currency")
	if err != nil || !ok {
		t.Fatalf("GetSetting: ok=%v err=%v", ok, err)
	}
	if value != "EUR" {
		t.Errorf("expected EUR, got %q", value)
	}
}
