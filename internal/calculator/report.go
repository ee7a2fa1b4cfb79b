package calculator

import (
	"sort"

	"github.com/mmynk/insumos/internal/models"
)

// MonthlyReport sums usage quantities per calendar month.
//
// Records are grouped by the first 7 characters of their date (YYYY-MM), so
// the result has one entry per distinct month, ordered by month ascending.
// An empty input yields an empty (non-nil) report.
func MonthlyReport(records []models.UsageRecord) []models.MonthlyTotal {
	totals := make(map[string]int64)
	for _, rec := range records {
		totals[rec.Month()] += rec.Quantity
	}

	report := make([]models.MonthlyTotal, 0, len(totals))
	for month, qty := range totals {
		report = append(report, models.MonthlyTotal{Month: month, Quantity: qty})
	}
	sort.Slice(report, func(i, j int) bool {
		return report[i].Month < report[j].Month
	})
	return report
}

// ReportTotal returns the quantity summed over every month of a report.
func ReportTotal(report []models.MonthlyTotal) int64 {
	var total int64
	for _, m := range report {
		total += m.Quantity
	}
	return total
}
