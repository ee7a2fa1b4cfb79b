package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/insumos/internal/models"
)

// supplyRow is the insumos table row.
type supplyRow struct {
	Name      string          `db:"nome"`
	Quantity  int64           `db:"quantidade"`
	UnitPrice decimal.Decimal `db:"preco_unitario"`
}

func newSupplyRow(name string, s models.Supply) supplyRow {
	return supplyRow{Name: name, Quantity: s.Quantity, UnitPrice: s.UnitPrice}
}

const insertSupply = `
	INSERT INTO insumos (nome, quantidade, preco_unitario)
	VALUES (:nome, :quantidade, :preco_unitario)
`

// LoadSupplies reads the whole insumos table into an Inventory.
func (s *SQLiteStore) LoadSupplies(ctx context.Context) (models.Inventory, error) {
	var rows []supplyRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT nome, quantidade, preco_unitario FROM insumos ORDER BY nome",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplies: %w", err)
	}

	inv := make(models.Inventory, len(rows))
	for _, row := range rows {
		inv[row.Name] = models.Supply{Quantity: row.Quantity, UnitPrice: row.UnitPrice}
	}
	return inv, nil
}

// ReplaceSupplies clears the insumos table and inserts every supply of inv.
// Both steps share one transaction, so a failed insert leaves the previous
// rows in place.
func (s *SQLiteStore) ReplaceSupplies(ctx context.Context, inv models.Inventory) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM insumos"); err != nil {
		return fmt.Errorf("failed to clear supplies: %w", err)
	}

	for _, name := range inv.Names() {
		if _, err := tx.NamedExecContext(ctx, insertSupply, newSupplyRow(name, inv[name])); err != nil {
			return fmt.Errorf("failed to insert supply %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpsertSupply inserts a supply or updates the row with the same name.
func (s *SQLiteStore) UpsertSupply(ctx context.Context, name string, supply models.Supply) error {
	query := insertSupply + `
	ON CONFLICT (nome) DO UPDATE SET
		quantidade = excluded.quantidade,
		preco_unitario = excluded.preco_unitario
	`

	if _, err := s.db.NamedExecContext(ctx, query, newSupplyRow(name, supply)); err != nil {
		return fmt.Errorf("failed to upsert supply %q: %w", name, err)
	}

	return nil
}

// DeleteSupply removes a supply by name.
func (s *SQLiteStore) DeleteSupply(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM insumos WHERE nome = ?", name); err != nil {
		return fmt.Errorf("failed to delete supply %q: %w", name, err)
	}

	return nil
}
