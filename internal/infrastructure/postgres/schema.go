package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DDL del esquema: tres tablas. items tiene clave primaria compuesta
// (id, date) — un snapshot por fecha — y referencia anulable a invoices con
// borrado en cascada.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS invoices (
		id   TEXT PRIMARY KEY,
		date TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id         TEXT NOT NULL,
		date       TIMESTAMP NOT NULL,
		invoice_id TEXT REFERENCES invoices (id) ON DELETE CASCADE,
		cost       BIGINT NOT NULL,
		tax_rate   NUMERIC NOT NULL,
		PRIMARY KEY (id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id     TEXT PRIMARY KEY,
		amount BIGINT NOT NULL,
		date   TIMESTAMP NOT NULL
	)`,
}

// Migrate aplica el esquema de forma idempotente.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("aplicar esquema: %w", err)
		}
	}
	return nil
}
