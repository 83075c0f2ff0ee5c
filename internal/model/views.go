package model

// CategoryBudgetView is the per-category spend/budget comparison, derived
// fresh on every call and never persisted.
type CategoryBudgetView struct {
	CategoryID         string
	Name               string
	BudgetAllocated    float64
	AmountSpent        float64
	PercentageUsed     float64 // one decimal, 0 when nothing allocated
	IsOverBudget       bool
	DaysLeft           int
	ProjectedOverspend float64
}

// RiskLevel classifies the month-end projection.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ProjectionResult holds the month-end budget forecast. Recomputed per
// request; never persisted.
type ProjectionResult struct {
	DailySpendRate          float64
	ProjectedMonthEndBalance float64
	BudgetRemaining         float64
	DaysUntilDanger         *int // nil when no spend yet and still above the threshold
	RiskLevel               RiskLevel
}
