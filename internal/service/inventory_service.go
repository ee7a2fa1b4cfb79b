package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/insumos/internal/calculator"
	"github.com/mmynk/insumos/internal/metrics"
	"github.com/mmynk/insumos/internal/models"
	"github.com/mmynk/insumos/internal/storage"
)

// Mirror is the file replica of the inventory.
type Mirror interface {
	Load() (models.Inventory, error)
	Save(inv models.Inventory) error
}

// Source tells where the startup inventory came from.
type Source string

const (
	SourceFile     Source = "file"
	SourceDatabase Source = "database"
)

// LoadResult describes the outcome of InventoryService.Load.
type LoadResult struct {
	Source Source

	// FileErr is why the file could not be used when Source is SourceDatabase.
	FileErr error
}

// InventoryService owns the working inventory and keeps the database and the
// file in step with it.
type InventoryService struct {
	store   storage.Store
	file    Mirror
	metrics *metrics.Recorder
	inv     models.Inventory
}

// NewInventoryService creates an InventoryService with an empty inventory.
// A nil recorder gets a private one.
func NewInventoryService(store storage.Store, file Mirror, rec *metrics.Recorder) *InventoryService {
	if rec == nil {
		rec = metrics.New()
	}
	return &InventoryService{
		store:   store,
		file:    file,
		metrics: rec,
		inv:     make(models.Inventory),
	}
}

// Load replaces the working inventory with the file content or, when the file
// is missing or unreadable, with the database content.
func (s *InventoryService) Load(ctx context.Context) (LoadResult, error) {
	var result LoadResult
	err := observe(s.metrics, "load", func() error {
		inv, fileErr := s.file.Load()
		if fileErr == nil {
			s.setInventory(inv)
			result = LoadResult{Source: SourceFile}
			return nil
		}

		slog.Info("Inventory file unusable, loading from database", "error", fileErr)

		inv, err := s.store.LoadSupplies(ctx)
		if err != nil {
			return fmt.Errorf("failed to load supplies from database: %w", err)
		}
		s.setInventory(inv)
		result = LoadResult{Source: SourceDatabase, FileErr: fileErr}
		return nil
	})
	if err != nil {
		return LoadResult{}, err
	}

	slog.Info("Inventory loaded", "source", result.Source, "supplies", len(s.inv))
	return result, nil
}

// Add inserts a supply, silently replacing any supply with the same name.
func (s *InventoryService) Add(ctx context.Context, name string, supply models.Supply) error {
	return observe(s.metrics, "add", func() error {
		if err := supply.Validate(); err != nil {
			return fmt.Errorf("invalid supply %q: %w", name, err)
		}
		return s.writeThrough(ctx, "add", name, &supply)
	}, "name", name)
}

// Update replaces the quantity and unit price of an existing supply.
// It returns ErrNotFound if name is not in the inventory.
func (s *InventoryService) Update(ctx context.Context, name string, supply models.Supply) error {
	return observe(s.metrics, "update", func() error {
		if _, ok := s.inv[name]; !ok {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		if err := supply.Validate(); err != nil {
			return fmt.Errorf("invalid supply %q: %w", name, err)
		}
		return s.writeThrough(ctx, "update", name, &supply)
	}, "name", name)
}

// Remove deletes a supply. It returns ErrNotFound if name is not in the inventory.
func (s *InventoryService) Remove(ctx context.Context, name string) error {
	return observe(s.metrics, "remove", func() error {
		if _, ok := s.inv[name]; !ok {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return s.writeThrough(ctx, "remove", name, nil)
	}, "name", name)
}

// SaveFile writes the whole inventory to the file replica.
func (s *InventoryService) SaveFile() error {
	return observe(s.metrics, "save_file", func() error {
		if err := s.file.Save(s.inv); err != nil {
			s.metrics.WriteFailed(ReplicaFile)
			return err
		}
		return nil
	}, "supplies", len(s.inv))
}

// PushToDatabase replaces every database row with the working inventory.
func (s *InventoryService) PushToDatabase(ctx context.Context) error {
	return observe(s.metrics, "push_database", func() error {
		if err := s.store.ReplaceSupplies(ctx, s.inv); err != nil {
			s.metrics.WriteFailed(ReplicaDatabase)
			return err
		}
		return nil
	}, "supplies", len(s.inv))
}

// TotalCost returns Σ quantity × unit price over the inventory.
func (s *InventoryService) TotalCost() decimal.Decimal {
	return calculator.TotalCost(s.inv)
}

// Items returns the supplies ordered by name.
func (s *InventoryService) Items() []models.NamedSupply {
	return s.inv.Items()
}

// Names returns the supply names in order.
func (s *InventoryService) Names() []string {
	return s.inv.Names()
}

// Len returns the number of supplies.
func (s *InventoryService) Len() int {
	return len(s.inv)
}

// writeThrough applies one keyed change (next == nil deletes) to the database,
// then to the file, and only then to the working inventory. A failed file
// write restores the database row, so all three copies keep their previous
// state.
func (s *InventoryService) writeThrough(ctx context.Context, op, name string, next *models.Supply) error {
	prev, existed := s.inv[name]

	if err := s.writeRow(ctx, name, next); err != nil {
		s.metrics.WriteFailed(ReplicaDatabase)
		return &WriteThroughError{Op: op, Name: name, Replica: ReplicaDatabase, Err: err}
	}

	candidate := s.inv.Clone()
	if next != nil {
		candidate[name] = *next
	} else {
		delete(candidate, name)
	}

	if err := s.file.Save(candidate); err != nil {
		s.metrics.WriteFailed(ReplicaFile)
		wtErr := &WriteThroughError{Op: op, Name: name, Replica: ReplicaFile, Err: err}

		var restore *models.Supply
		if existed {
			restore = &prev
		}
		if rerr := s.writeRow(ctx, name, restore); rerr != nil {
			s.metrics.WriteFailed(ReplicaDatabase)
			slog.Error("Database row could not be restored; replicas diverged", "name", name, "error", rerr)
			wtErr.Err = errors.Join(err, fmt.Errorf("failed to restore database row: %w", rerr))
		}
		return wtErr
	}

	s.setInventory(candidate)
	return nil
}

func (s *InventoryService) writeRow(ctx context.Context, name string, supply *models.Supply) error {
	if supply == nil {
		return s.store.DeleteSupply(ctx, name)
	}
	return s.store.UpsertSupply(ctx, name, *supply)
}

func (s *InventoryService) setInventory(inv models.Inventory) {
	if inv == nil {
		inv = make(models.Inventory)
	}
	s.inv = inv
	s.metrics.SetInventory(len(inv), calculator.TotalCost(inv))
}
