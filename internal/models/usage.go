package models

// DateLayout is the layout of usage dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// UsageRecord represents one usage event of a supply.
type UsageRecord struct {
	// ID is the unique identifier for the record (UUID format).
	// Assigned when the record is persisted.
	ID string

	// BatchID groups the records produced by one "register usage" pass.
	BatchID string

	// Name is the supply name the usage refers to. Supply names are free text,
	// so an empty name is accepted here too.
	Name string

	// Quantity is the number of units used.
	Quantity int64 `validate:"gte=0"`

	// Date is the usage date in YYYY-MM-DD form.
	Date string `validate:"required,datetime=2006-01-02"`
}

// Month returns the YYYY-MM prefix of the usage date.
func (r UsageRecord) Month() string {
	if len(r.Date) < 7 {
		return r.Date
	}
	return r.Date[:7]
}

// Usage is the usage registered in a session, keyed by supply name.
type Usage map[string]UsageRecord

// Add records qty units of name used on date. A name that is already present
// accumulates quantity and keeps its first date.
func (u Usage) Add(name string, qty int64, date string) {
	if rec, ok := u[name]; ok {
		rec.Quantity += qty
		u[name] = rec
		return
	}
	u[name] = UsageRecord{Name: name, Quantity: qty, Date: date}
}

// Records returns the usage records ordered by supply name.
func (u Usage) Records() []UsageRecord {
	records := make([]UsageRecord, 0, len(u))
	for _, name := range sortedKeys(u) {
		records = append(records, u[name])
	}
	return records
}

// MonthlyTotal is the summed usage quantity of one calendar month.
type MonthlyTotal struct {
	// Month is the calendar month in YYYY-MM form.
	Month string

	// Quantity is the total number of units used in Month.
	Quantity int64
}
