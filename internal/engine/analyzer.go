package engine

import (
	"math"
	"sort"

	"centavo/internal/model"
)

// AnalyzeCategories joins this month's spend records with the category
// definitions and produces one view per category, including categories
// with zero spend. Callers filter inactive categories where only active
// ones matter.
func AnalyzeCategories(
	categories []model.Category,
	records []model.SpendRecord,
	totalBudget float64,
	daysElapsed, daysInMonth int,
) []model.CategoryBudgetView {
	spent := SpendByCategory(records)
	daysLeft := daysInMonth - daysElapsed

	views := make([]model.CategoryBudgetView, 0, len(categories))
	for _, c := range categories {
		allocated := allocation(c, totalBudget)
		amountSpent := spent[c.ID]

		pctUsed := 0.0
		if allocated > 0 {
			pctUsed = round1(amountSpent / allocated * 100)
		}

		// Linear run-rate for this category, extrapolated to month end.
		var overspend float64
		if daysElapsed > 0 {
			dailyRate := amountSpent / float64(daysElapsed)
			overspend = math.Max(0, dailyRate*float64(daysInMonth)-allocated)
		}

		views = append(views, model.CategoryBudgetView{
			CategoryID:         c.ID,
			Name:               c.Name,
			BudgetAllocated:    allocated,
			AmountSpent:        amountSpent,
			PercentageUsed:     pctUsed,
			IsOverBudget:       amountSpent > allocated,
			DaysLeft:           daysLeft,
			ProjectedOverspend: overspend,
		})
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].AmountSpent > views[j].AmountSpent
	})
	return views
}

// allocation resolves a category's budget: a fixed amount, or a share of
// the month's total budget.
func allocation(c model.Category, totalBudget float64) float64 {
	if c.Type == model.CategoryPercentage {
		return totalBudget * c.Percentage / 100
	}
	return c.FixedAmount
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round2 rounds to two decimal places (currency amounts).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
