package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Table and column names match the insumos / uso_insumos tables of the
// existing deployments.
const schema = `
CREATE TABLE IF NOT EXISTS insumos (
    nome TEXT PRIMARY KEY,
    quantidade INTEGER NOT NULL CHECK (quantidade >= 0),
    preco_unitario NUMERIC NOT NULL CHECK (preco_unitario >= 0)
);

CREATE TABLE IF NOT EXISTS uso_insumos (
    id TEXT PRIMARY KEY,
    lote TEXT NOT NULL,
    nome_insumo TEXT NOT NULL,
    quantidade INTEGER NOT NULL CHECK (quantidade >= 0),
    data_uso TEXT NOT NULL,
    registrado_em INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_uso_insumos_data_uso ON uso_insumos(data_uso);
CREATE INDEX IF NOT EXISTS idx_uso_insumos_lote ON uso_insumos(lote);
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
