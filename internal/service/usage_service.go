package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mmynk/insumos/internal/calculator"
	"github.com/mmynk/insumos/internal/metrics"
	"github.com/mmynk/insumos/internal/models"
	"github.com/mmynk/insumos/internal/storage"
)

// UsageService records supply usage and builds monthly reports.
type UsageService struct {
	store    storage.Store
	metrics  *metrics.Recorder
	validate *validator.Validate
}

// NewUsageService creates a UsageService with the given storage backend.
// A nil recorder gets a private one.
func NewUsageService(store storage.Store, rec *metrics.Recorder) *UsageService {
	if rec == nil {
		rec = metrics.New()
	}
	return &UsageService{
		store:    store,
		metrics:  rec,
		validate: validator.New(),
	}
}

// Register validates and persists the usage collected in one pass over the
// inventory. All records share a new batch ID and get their own record ID.
// The returned Usage carries those IDs; on error nothing is persisted.
func (s *UsageService) Register(ctx context.Context, usage models.Usage) (models.Usage, error) {
	registered := make(models.Usage, len(usage))
	err := observe(s.metrics, "register_usage", func() error {
		records := usage.Records()
		if len(records) == 0 {
			return nil
		}

		batchID := uuid.New().String()
		for i := range records {
			records[i].BatchID = batchID
			if err := s.validate.Struct(records[i]); err != nil {
				return fmt.Errorf("invalid usage for %q: %w", records[i].Name, err)
			}
		}

		if err := s.store.AppendUsage(ctx, records); err != nil {
			s.metrics.WriteFailed(ReplicaDatabase)
			return err
		}
		s.metrics.UsageRecorded(len(records))

		for _, rec := range records {
			registered[rec.Name] = rec
		}
		return nil
	}, "records", len(usage))
	if err != nil {
		return nil, err
	}
	return registered, nil
}

// Report aggregates usage by calendar month.
func (s *UsageService) Report(usage models.Usage) []models.MonthlyTotal {
	return calculator.MonthlyReport(usage.Records())
}

// History aggregates every persisted usage record by calendar month.
func (s *UsageService) History(ctx context.Context) ([]models.MonthlyTotal, error) {
	var report []models.MonthlyTotal
	err := observe(s.metrics, "usage_history", func() error {
		records, err := s.store.ListUsage(ctx)
		if err != nil {
			return err
		}
		report = calculator.MonthlyReport(records)
		return nil
	})
	return report, err
}
