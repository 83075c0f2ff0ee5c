package engine

import (
	"math"

	"centavo/internal/model"
)

// safetyFraction is the share of the total budget kept as a cushion;
// remaining budget at or below it counts as "in danger".
const safetyFraction = 0.10

// Project computes the month-end budget forecast from total spend and
// elapsed time. daysElapsed is normally >= 1 but 0 is tolerated (no
// run-rate yet).
func Project(totalBudget, totalSpent float64, daysElapsed, daysInMonth int) model.ProjectionResult {
	var dailyRate float64
	if daysElapsed > 0 {
		dailyRate = totalSpent / float64(daysElapsed)
	}

	projected := totalBudget - dailyRate*float64(daysInMonth)
	remaining := totalBudget - totalSpent
	threshold := totalBudget * safetyFraction

	// Days until the remaining budget crosses the safety threshold at the
	// current run-rate. With no spend yet there is nothing to extrapolate,
	// unless the cushion is already gone.
	var daysUntilDanger *int
	switch {
	case dailyRate > 0 && remaining > threshold:
		d := int(math.Floor((remaining - threshold) / dailyRate))
		daysUntilDanger = &d
	case remaining <= threshold:
		zero := 0
		daysUntilDanger = &zero
	}

	// Boundary comparisons are strict: a projection exactly equal to the
	// 10% threshold classifies as the lower risk tier.
	risk := model.RiskLow
	switch {
	case projected < 0:
		risk = model.RiskHigh
	case projected < threshold:
		risk = model.RiskMedium
	}

	return model.ProjectionResult{
		DailySpendRate:           dailyRate,
		ProjectedMonthEndBalance: projected,
		BudgetRemaining:          remaining,
		DaysUntilDanger:          daysUntilDanger,
		RiskLevel:                risk,
	}
}
