package service

import (
	"context"
	"errors"

	"github.com/mmynk/insumos/internal/models"
	"github.com/mmynk/insumos/internal/storage"
)

var errInjected = errors.New("injected failure")

// fakeStore is an in-memory storage.Store with switchable failures.
type fakeStore struct {
	rows  models.Inventory
	usage []models.UsageRecord

	failLoad    bool
	failUpsert  bool
	failDelete  bool
	failReplace bool
	failAppend  bool

	upserts int
	deletes int
}

var _ storage.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(models.Inventory)}
}

func (f *fakeStore) LoadSupplies(ctx context.Context) (models.Inventory, error) {
	if f.failLoad {
		return nil, errInjected
	}
	return f.rows.Clone(), nil
}

func (f *fakeStore) ReplaceSupplies(ctx context.Context, inv models.Inventory) error {
	if f.failReplace {
		return errInjected
	}
	f.rows = inv.Clone()
	return nil
}

func (f *fakeStore) UpsertSupply(ctx context.Context, name string, supply models.Supply) error {
	if f.failUpsert {
		return errInjected
	}
	f.upserts++
	f.rows[name] = supply
	return nil
}

func (f *fakeStore) DeleteSupply(ctx context.Context, name string) error {
	if f.failDelete {
		return errInjected
	}
	f.deletes++
	delete(f.rows, name)
	return nil
}

func (f *fakeStore) AppendUsage(ctx context.Context, records []models.UsageRecord) error {
	if f.failAppend {
		return errInjected
	}
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = "id-" + records[i].Name
		}
	}
	f.usage = append(f.usage, records...)
	return nil
}

func (f *fakeStore) ListUsage(ctx context.Context) ([]models.UsageRecord, error) {
	return append([]models.UsageRecord(nil), f.usage...), nil
}

func (f *fakeStore) Close() error { return nil }

// fakeMirror is an in-memory file replica.
type fakeMirror struct {
	saved    models.Inventory
	loadErr  error
	failSave bool
	saves    int
}

func (m *fakeMirror) Load() (models.Inventory, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.saved.Clone(), nil
}

func (m *fakeMirror) Save(inv models.Inventory) error {
	if m.failSave {
		return errInjected
	}
	m.saves++
	m.saved = inv.Clone()
	return nil
}
