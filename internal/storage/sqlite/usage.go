package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/insumos/internal/models"
)

// usageRow is the uso_insumos table row.
type usageRow struct {
	ID         string `db:"id"`
	BatchID    string `db:"lote"`
	Name       string `db:"nome_insumo"`
	Quantity   int64  `db:"quantidade"`
	Date       string `db:"data_uso"`
	RecordedAt int64  `db:"registrado_em"`
}

// AppendUsage persists usage records.
// Records without an ID get a generated one, written back into records.
// The date goes through SQLite's date(), so a malformed date fails the
// NOT NULL constraint and rolls the whole batch back.
func (s *SQLiteStore) AppendUsage(ctx context.Context, records []models.UsageRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for i := range records {
		rec := &records[i]
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}

		_, err := tx.NamedExecContext(ctx,
			`INSERT INTO uso_insumos (id, lote, nome_insumo, quantidade, data_uso, registrado_em)
			 VALUES (:id, :lote, :nome_insumo, :quantidade, date(:data_uso), :registrado_em)`,
			usageRow{
				ID:         rec.ID,
				BatchID:    rec.BatchID,
				Name:       rec.Name,
				Quantity:   rec.Quantity,
				Date:       rec.Date,
				RecordedAt: now,
			},
		)
		if err != nil {
			return fmt.Errorf("failed to insert usage for %q: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListUsage retrieves every usage record ordered by date and supply name.
func (s *SQLiteStore) ListUsage(ctx context.Context) ([]models.UsageRecord, error) {
	var rows []usageRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, lote, nome_insumo, quantidade, data_uso, registrado_em
		 FROM uso_insumos ORDER BY data_uso, nome_insumo, registrado_em`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage: %w", err)
	}

	records := make([]models.UsageRecord, len(rows))
	for i, row := range rows {
		records[i] = models.UsageRecord{
			ID:       row.ID,
			BatchID:  row.BatchID,
			Name:     row.Name,
			Quantity: row.Quantity,
			Date:     row.Date,
		}
	}
	return records, nil
}
