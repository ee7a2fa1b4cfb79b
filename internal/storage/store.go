// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/insumos/internal/models"
)

// Store defines the interface for the relational replica of the inventory and
// for the usage log.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// LoadSupplies reads every supply row. An empty table yields an empty,
	// non-nil inventory.
	LoadSupplies(ctx context.Context) (models.Inventory, error)

	// ReplaceSupplies deletes every supply row and inserts one row per entry
	// of inv. The whole replacement commits or rolls back as a unit.
	ReplaceSupplies(ctx context.Context, inv models.Inventory) error

	// UpsertSupply inserts the supply or overwrites the row with the same name.
	UpsertSupply(ctx context.Context, name string, supply models.Supply) error

	// DeleteSupply removes the row with the given name.
	// Deleting a missing name is not an error.
	DeleteSupply(ctx context.Context, name string) error

	// AppendUsage inserts one row per usage record in a single transaction.
	AppendUsage(ctx context.Context, records []models.UsageRecord) error

	// ListUsage returns every persisted usage record ordered by date.
	ListUsage(ctx context.Context) ([]models.UsageRecord, error)

	// Close releases any resources held by the store.
	Close() error
}
