package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL define el esquema completo. Cascadas: borrar un user arrastra sus
// vendors e invoices; borrar un invoice arrastra sus anomalies. Un vendor con
// facturas no se puede borrar (RESTRICT). El índice único de vendors impone la
// unicidad de (user_id, name_normalized) a nivel de base, no con locks de
// aplicación. El índice de chequeo de duplicados es deliberadamente NO único:
// la detección de duplicados es advisoria, no una restricción.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT,
    business_name TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS vendors (
    id              UUID PRIMARY KEY,
    user_id         UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name_normalized TEXT NOT NULL,
    display_name    TEXT NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS vendors_user_normalized_name_idx
    ON vendors (user_id, name_normalized);

CREATE TABLE IF NOT EXISTS invoices (
    id              UUID PRIMARY KEY,
    user_id         UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    vendor_id       UUID NOT NULL REFERENCES vendors(id) ON DELETE RESTRICT,
    invoice_date    DATE NOT NULL,
    total_amount    NUMERIC(12,2) NOT NULL CHECK (total_amount > 0),
    currency        CHAR(3) NOT NULL,
    source_file_url TEXT,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS invoices_vendor_date_idx
    ON invoices (vendor_id, invoice_date);
CREATE INDEX IF NOT EXISTS invoices_duplicate_check_idx
    ON invoices (vendor_id, invoice_date, total_amount);

CREATE TABLE IF NOT EXISTS anomalies (
    id          UUID PRIMARY KEY,
    invoice_id  UUID NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
    type        TEXT NOT NULL,
    severity    TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'UNREVIEWED',
    reason_text TEXT NOT NULL,
    note        TEXT,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS anomalies_invoice_id_idx ON anomalies (invoice_id);
CREATE INDEX IF NOT EXISTS anomalies_status_idx ON anomalies (status);
`

// Migrate aplica el DDL idempotente al arrancar.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}
