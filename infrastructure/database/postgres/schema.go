package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements cria as tabelas do armazenamento de períodos
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sales_periods (
		period_key   TEXT PRIMARY KEY,
		month        TEXT NOT NULL,
		year         INTEGER NOT NULL,
		record_count INTEGER NOT NULL DEFAULT 0,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sales_records (
		period_key     TEXT NOT NULL REFERENCES sales_periods (period_key) ON DELETE CASCADE,
		position       INTEGER NOT NULL,
		amount         NUMERIC NOT NULL CHECK (amount >= 0),
		payment_method TEXT NOT NULL,
		terminal_type  TEXT NOT NULL DEFAULT '',
		pdv            TEXT NOT NULL DEFAULT '',
		serial         TEXT NOT NULL DEFAULT '',
		occurred_at    TIMESTAMP NULL,
		PRIMARY KEY (period_key, position)
	)`,
	`CREATE INDEX IF NOT EXISTS sales_records_payment_method_idx ON sales_records (period_key, payment_method)`,
}

// Migrate aplica o esquema; os comandos são idempotentes
func Migrate(ctx context.Context, conn Conn) error {
	return conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for i, statement := range schemaStatements {
			if _, err := tx.ExecContext(ctx, statement); err != nil {
				return fmt.Errorf("erro ao aplicar migração %d: %w", i+1, err)
			}
		}
		return nil
	})
}
