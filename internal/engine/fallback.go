package engine

import (
	"fmt"
	"sort"

	"centavo/internal/model"
)

// maxAlertsPerBatch caps one synthesizer invocation, either stage.
const maxAlertsPerBatch = 5

// FallbackAlerts is the deterministic rule-based alert generator, used
// whenever the generative call is unavailable or unusable. It satisfies
// the same shape contract as the primary path so downstream consumers
// cannot tell the two apart.
func FallbackAlerts(snap *MonthSnapshot) []model.Alert {
	var alerts []model.Alert

	for _, v := range snap.Views {
		switch {
		case v.IsOverBudget:
			over := v.AmountSpent - v.BudgetAllocated
			alerts = append(alerts, model.Alert{
				Type:         model.AlertBudgetExceeded,
				Title:        fmt.Sprintf("%s is over budget", v.Name),
				Message:      fmt.Sprintf("You have spent %.2f of the %.2f allocated to %s.", v.AmountSpent, v.BudgetAllocated, v.Name),
				Severity:     model.SeverityCritical,
				CategoryName: v.Name,
				AmountInvolved: round2(over),
				RecommendedAction: fmt.Sprintf("Pause %s spending for the rest of the month.", v.Name),
			})

		case v.PercentageUsed > 80 && v.DaysLeft > 5:
			dailyCap := (v.BudgetAllocated - v.AmountSpent) / float64(v.DaysLeft)
			alerts = append(alerts, model.Alert{
				Type:         model.AlertDeficitForecast,
				Title:        fmt.Sprintf("%s is running hot", v.Name),
				Message:      fmt.Sprintf("%s is at %.1f%% with %d days left.", v.Name, v.PercentageUsed, v.DaysLeft),
				Severity:     model.SeverityWarning,
				CategoryName: v.Name,
				AmountInvolved: round2(dailyCap),
				RecommendedAction: fmt.Sprintf("Keep %s under %.2f per day until month end.", v.Name, dailyCap),
			})
		}
	}

	proj := snap.Projection
	daysRemaining := snap.DaysInMonth - snap.DaysElapsed
	if proj.ProjectedMonthEndBalance < 0 {
		deficit := -proj.ProjectedMonthEndBalance
		var dailyAllowance float64
		if daysRemaining > 0 {
			dailyAllowance = proj.BudgetRemaining / float64(daysRemaining)
		}
		alerts = append(alerts, model.Alert{
			Type:     model.AlertCushionDanger,
			Title:    "Heading for a month-end deficit",
			Message:  fmt.Sprintf("At the current rate you will finish the month %.2f short.", deficit),
			Severity: model.SeverityCritical,
			AmountInvolved: round2(deficit),
			RecommendedAction: fmt.Sprintf("Cut daily spending to %.2f to land at zero.", dailyAllowance),
		})
	} else if proj.ProjectedMonthEndBalance < snap.TotalBudget*safetyFraction {
		alerts = append(alerts, model.Alert{
			Type:     model.AlertDeficitForecast,
			Title:    "Month-end cushion looks thin",
			Message:  fmt.Sprintf("Projected month-end balance %.2f is under the 10%% safety cushion.", proj.ProjectedMonthEndBalance),
			Severity: model.SeverityWarning,
			AmountInvolved: round2(proj.ProjectedMonthEndBalance),
			RecommendedAction: "Trim discretionary spending this week to rebuild the cushion.",
		})
	}

	if len(alerts) == 0 && snap.OverallPctUsed < 70 {
		alerts = append(alerts, model.Alert{
			Type:     model.AlertSavingsOpportunity,
			Title:    "Room to save this month",
			Message:  fmt.Sprintf("Only %.1f%% of the budget is used so far.", snap.OverallPctUsed),
			Severity: model.SeverityInfo,
			AmountInvolved: round2(snap.TotalBudget - snap.TotalSpent),
			RecommendedAction: "Move part of the surplus to savings before it gets spent.",
		})
	}

	return capAlerts(alerts)
}

// capAlerts truncates a batch to the per-invocation cap, keeping the
// most severe alerts and preserving generation order within a severity.
func capAlerts(alerts []model.Alert) []model.Alert {
	sort.SliceStable(alerts, func(i, j int) bool {
		return model.SeverityRank(alerts[i].Severity) > model.SeverityRank(alerts[j].Severity)
	})
	if len(alerts) > maxAlertsPerBatch {
		alerts = alerts[:maxAlertsPerBatch]
	}
	return alerts
}
