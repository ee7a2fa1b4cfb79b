// Package jsonfile mirrors the inventory into a JSON document.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/mmynk/insumos/internal/models"
)

var (
	// ErrNotFound is returned by Load when the file does not exist.
	ErrNotFound = errors.New("inventory file not found")

	// ErrCorrupt is returned by Load when the file cannot be decoded into an inventory.
	ErrCorrupt = errors.New("inventory file is corrupt")
)

// record is the on-disk form of one supply.
// The Portuguese keys are read for files written by older releases.
type record struct {
	Quantity  *int64       `json:"quantity,omitempty"`
	UnitPrice *json.Number `json:"unit_price,omitempty"`

	LegacyQuantity  *int64       `json:"quantidade,omitempty"`
	LegacyUnitPrice *json.Number `json:"preco_unitario,omitempty"`
}

// Store reads and writes the inventory file at Path.
type Store struct {
	Path string
}

// New creates a Store for the file at path.
func New(path string) *Store {
	return &Store{Path: path}
}

// Load parses the inventory file.
// It returns ErrNotFound when the file is absent and ErrCorrupt (wrapping the
// cause) when its content is not a valid inventory.
func (s *Store) Load() (models.Inventory, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}

	var raw map[string]record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: document is null", ErrCorrupt)
	}

	inv := make(models.Inventory, len(raw))
	for name, rec := range raw {
		supply, err := rec.supply()
		if err != nil {
			return nil, fmt.Errorf("%w: supply %q: %v", ErrCorrupt, name, err)
		}
		inv[name] = supply
	}

	if err := inv.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	return inv, nil
}

// Save writes the full inventory to the file, replacing any previous content.
func (s *Store) Save(inv models.Inventory) error {
	out := make(map[string]record, len(inv))
	for name, supply := range inv {
		qty := supply.Quantity
		price := json.Number(supply.UnitPrice.String())
		out[name] = record{Quantity: &qty, UnitPrice: &price}
	}

	// encoding/json sorts map keys, so the file is stable between saves.
	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create inventory directory: %w", err)
		}
	}

	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write inventory file: %w", err)
	}

	return nil
}

func (r record) supply() (models.Supply, error) {
	qty := r.Quantity
	if qty == nil {
		qty = r.LegacyQuantity
	}
	price := r.UnitPrice
	if price == nil {
		price = r.LegacyUnitPrice
	}

	var s models.Supply
	if qty != nil {
		s.Quantity = *qty
	}
	if price != nil {
		d, err := decimal.NewFromString(price.String())
		if err != nil {
			return models.Supply{}, fmt.Errorf("invalid unit price %q: %w", price.String(), err)
		}
		s.UnitPrice = d
	}
	return s, nil
}
