package db

import "testing"

func TestEnsureSchemaIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}

	var applied string
	err := database.QueryRow(`SELECT value FROM settings WHERE key = 'schema_migrations'`).Scan(&applied)
	if err != nil {
		t.Fatalf("reading schema_migrations: %v", err)
	}
	if applied == "" || applied == "0" {
		t.Errorf("expected recorded migrations, got %q", applied)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(`INSERT INTO products (name, price, category_id) VALUES ('Orphan', 1, 999)`)
	if err == nil {
		t.Error("expected foreign key violation for unknown category")
	}
}
