// Package model defines the domain value objects shared across the engine.
package model

import "time"

// RecordSource identifies where a spend record came from.
type RecordSource string

// Record sources.
const (
	SourceManual RecordSource = "manual"
	SourceBank   RecordSource = "bank"
)

// SpendRecord is a single expense, already signed and dated by the import
// layer. Amount is a non-negative magnitude in the base currency.
type SpendRecord struct {
	ID         string
	UserID     string
	OccurredOn time.Time
	Amount     float64
	CategoryID string // empty when uncategorized
	Source     RecordSource
	Note       string
}

// CategoryType selects how a category's budget allocation is computed.
type CategoryType string

// Category types.
const (
	CategoryFixed      CategoryType = "fixed"
	CategoryPercentage CategoryType = "percentage"
)

// Category is a spending category with its budget rule.
type Category struct {
	ID          string
	UserID      string
	Name        string
	Type        CategoryType
	FixedAmount float64 // used when Type == fixed
	Percentage  float64 // used when Type == percentage, 0-100
}

// Budget is the month's total budget for one user.
type Budget struct {
	ID          string
	UserID      string
	Month       time.Time // first day of the month
	TotalAmount float64
}

// DayOf truncates a timestamp to its local calendar day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// MonthBounds returns the first day of t's month and the day count.
func MonthBounds(t time.Time) (start time.Time, daysInMonth int) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	daysInMonth = start.AddDate(0, 1, -1).Day()
	return start, daysInMonth
}

// WeekStart returns the Monday that begins t's week.
func WeekStart(t time.Time) time.Time {
	d := DayOf(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}
