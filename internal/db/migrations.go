package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: name indexes for the ordered list queries.
	`CREATE INDEX IF NOT EXISTS idx_brands_name ON brands(name)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(name)`,
}

// migrate runs the idempotent migrations and records the applied count in settings.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	_, err := db.Exec(
		`INSERT INTO settings (key, value) VALUES ('schema_migrations', ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		fmt.Sprint(len(migrations)),
	)
	if err != nil {
		return fmt.Errorf("recording migrations: %w", err)
	}
	return nil
}
