// Package engine computes budget projections, streaks, weekly missions,
// and financial alerts from raw spend records.
package engine

import (
	"context"
	"log"
	"math"
	"time"

	"centavo/internal/model"
)

// RecordReader fetches expense records from the two upstream sources.
// Bank records must already be filtered to the expense direction.
type RecordReader interface {
	ManualExpenses(ctx context.Context, userID string, from, to time.Time) ([]model.SpendRecord, error)
	BankExpenses(ctx context.Context, userID string, from, to time.Time) ([]model.SpendRecord, error)
}

// AggregateSpend returns the merged spend records for a user within
// [from, to], either bound optional (zero time means unbounded), plus an
// optional category filter.
//
// The two sources are fetched independently; a failed source degrades to
// an empty list and never aborts the aggregation. The upstream store's
// date filter is treated as inexact, so the window is re-applied strictly
// in memory — downstream formulas assume it is exact. Amounts are
// normalized to non-negative magnitudes.
func AggregateSpend(ctx context.Context, src RecordReader, userID string, from, to time.Time, categoryID string) []model.SpendRecord {
	type fetch struct {
		records []model.SpendRecord
		err     error
	}

	manualCh := make(chan fetch, 1)
	bankCh := make(chan fetch, 1)

	go func() {
		r, err := src.ManualExpenses(ctx, userID, from, to)
		manualCh <- fetch{r, err}
	}()
	go func() {
		r, err := src.BankExpenses(ctx, userID, from, to)
		bankCh <- fetch{r, err}
	}()

	manual := <-manualCh
	bank := <-bankCh

	if manual.err != nil {
		log.Printf("centavo: manual expense fetch failed, continuing without: %v", manual.err)
		manual.records = nil
	}
	if bank.err != nil {
		log.Printf("centavo: bank transaction fetch failed, continuing without: %v", bank.err)
		bank.records = nil
	}

	merged := make([]model.SpendRecord, 0, len(manual.records)+len(bank.records))
	for _, r := range append(manual.records, bank.records...) {
		if !inWindow(r.OccurredOn, from, to) {
			continue
		}
		if categoryID != "" && r.CategoryID != categoryID {
			continue
		}
		r.Amount = math.Abs(r.Amount)
		merged = append(merged, r)
	}
	return merged
}

// TotalSpend sums the amounts of the given records.
func TotalSpend(records []model.SpendRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.Amount
	}
	return total
}

// SpendByCategory sums record amounts keyed by category id. Records
// without a category accumulate under the empty key.
func SpendByCategory(records []model.SpendRecord) map[string]float64 {
	byCat := make(map[string]float64)
	for _, r := range records {
		byCat[r.CategoryID] += r.Amount
	}
	return byCat
}

// inWindow reports whether day falls within [from, to], both inclusive.
// A zero bound is open.
func inWindow(day, from, to time.Time) bool {
	if !from.IsZero() && day.Before(model.DayOf(from)) {
		return false
	}
	if !to.IsZero() && day.After(endOfDay(to)) {
		return false
	}
	return true
}

func endOfDay(t time.Time) time.Time {
	return model.DayOf(t).Add(24*time.Hour - time.Nanosecond)
}
