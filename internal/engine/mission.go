package engine

import (
	"centavo/internal/model"
)

const (
	// baselineNoiseFloor is the minimum amount a historical figure must
	// exceed to be a meaningful challenge baseline.
	baselineNoiseFloor = 10

	// weeksPerMonth converts a trailing-30-day total to a weekly figure.
	weeksPerMonth = 4.3

	defaultBaseline           = 50
	defaultBaselineUnresolved = 100
)

// ResolveBaseline picks a weekly spending baseline for a category using
// three tiers, each requiring the candidate to clear the noise floor:
// last calendar week's actual, then the trailing-30-day weekly average,
// then a fixed default. categoryResolved is false when the category could
// not be looked up at all, which raises the default.
func ResolveBaseline(categoryName string, lastWeekSpend, trailing30Spend float64, categoryResolved bool) model.MissionBaseline {
	b := model.MissionBaseline{CategoryName: categoryName}

	if lastWeekSpend > baselineNoiseFloor {
		b.BaselineAmount = round2(lastWeekSpend)
		b.BaselineSource = model.BaselineLastWeek
		return b
	}

	if avg := trailing30Spend / weeksPerMonth; avg > baselineNoiseFloor {
		b.BaselineAmount = round2(avg)
		b.BaselineSource = model.BaselineMonthlyAverage
		return b
	}

	b.BaselineAmount = defaultBaseline
	if !categoryResolved {
		b.BaselineAmount = defaultBaselineUnresolved
	}
	b.BaselineSource = model.BaselineDefaultMin
	return b
}
