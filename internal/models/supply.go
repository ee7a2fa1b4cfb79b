package models

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeQuantity = errors.New("quantity must not be negative")
	ErrNegativePrice    = errors.New("unit price must not be negative")
)

// Supply represents the stock of one consumable supply.
type Supply struct {
	// Quantity is the number of units in stock. Never negative.
	Quantity int64

	// UnitPrice is the price of a single unit. Never negative.
	UnitPrice decimal.Decimal
}

// Cost returns Quantity * UnitPrice.
func (s Supply) Cost() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(s.Quantity))
}

// Validate checks the non-negativity invariants.
func (s Supply) Validate() error {
	if s.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if s.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Inventory maps a supply name to its stock.
type Inventory map[string]Supply

// NamedSupply pairs a Supply with its name for ordered listings.
type NamedSupply struct {
	Name string
	Supply
}

// Names returns the supply names in lexical order.
func (inv Inventory) Names() []string {
	return sortedKeys(inv)
}

// Items returns every supply ordered by name.
func (inv Inventory) Items() []NamedSupply {
	items := make([]NamedSupply, 0, len(inv))
	for _, name := range inv.Names() {
		items = append(items, NamedSupply{Name: name, Supply: inv[name]})
	}
	return items
}

// Clone returns an independent copy of the inventory.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for name, s := range inv {
		out[name] = s
	}
	return out
}

// Validate checks every entry of the inventory.
func (inv Inventory) Validate() error {
	for name, s := range inv {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("supply %q: %w", name, err)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
