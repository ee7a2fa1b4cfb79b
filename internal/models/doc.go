// Package models defines the core domain models for the supply inventory.
//
// # Models
//
//   - Supply: stock and unit price of one consumable supply ("insumo")
//   - Inventory: the working set of supplies, keyed by name
//   - UsageRecord: one usage event for a supply on a given date
//   - MonthlyTotal: one row of the monthly usage report
//
// Supplies are identified by name. The name is unique within an Inventory and is
// also the primary key of the insumos table.
//
// # Design Principles
//
// 1. **Values, not pointers**: Inventory maps names to Supply values, so copying
//    an entry never aliases the working state
// 2. **Exact money**: unit prices use decimal.Decimal, never float64
// 3. **Dates as text**: usage dates are kept as YYYY-MM-DD strings, the same form
//    the database and the report grouping use
package models
