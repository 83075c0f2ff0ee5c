package engine

import (
	"math"
	"testing"

	"centavo/internal/model"
)

func TestProject_TypicalMonth(t *testing.T) {
	// 2000 budget, 1200 spent, day 20 of 30.
	p := Project(2000, 1200, 20, 30)

	if p.DailySpendRate != 60 {
		t.Errorf("DailySpendRate = %v, want 60", p.DailySpendRate)
	}
	if p.ProjectedMonthEndBalance != 200 {
		t.Errorf("ProjectedMonthEndBalance = %v, want 200", p.ProjectedMonthEndBalance)
	}
	if p.BudgetRemaining != 800 {
		t.Errorf("BudgetRemaining = %v, want 800", p.BudgetRemaining)
	}
	if p.DaysUntilDanger == nil || *p.DaysUntilDanger != 10 {
		t.Errorf("DaysUntilDanger = %v, want 10", p.DaysUntilDanger)
	}
	// Projection lands exactly on the 10% threshold: strict < keeps it low.
	if p.RiskLevel != model.RiskLow {
		t.Errorf("RiskLevel = %q, want low", p.RiskLevel)
	}
}

func TestProject_Overspent(t *testing.T) {
	p := Project(2000, 2100, 20, 30)

	if p.BudgetRemaining != -100 {
		t.Errorf("BudgetRemaining = %v, want -100", p.BudgetRemaining)
	}
	if p.DaysUntilDanger == nil || *p.DaysUntilDanger != 0 {
		t.Errorf("DaysUntilDanger = %v, want 0", p.DaysUntilDanger)
	}
	wantProjected := 2000 - (2100.0/20)*30 // -1150
	if math.Abs(p.ProjectedMonthEndBalance-wantProjected) > 1e-9 {
		t.Errorf("ProjectedMonthEndBalance = %v, want %v", p.ProjectedMonthEndBalance, wantProjected)
	}
	if p.RiskLevel != model.RiskHigh {
		t.Errorf("RiskLevel = %q, want high", p.RiskLevel)
	}
}

func TestProject_NoSpendYet(t *testing.T) {
	p := Project(2000, 0, 5, 30)

	if p.DailySpendRate != 0 {
		t.Errorf("DailySpendRate = %v, want 0", p.DailySpendRate)
	}
	// No run-rate and a healthy cushion: the danger date is unknowable.
	if p.DaysUntilDanger != nil {
		t.Errorf("DaysUntilDanger = %v, want nil", *p.DaysUntilDanger)
	}
	if p.RiskLevel != model.RiskLow {
		t.Errorf("RiskLevel = %q, want low", p.RiskLevel)
	}
}

func TestProject_ZeroDaysElapsed(t *testing.T) {
	p := Project(1000, 500, 0, 31)

	if p.DailySpendRate != 0 {
		t.Errorf("DailySpendRate = %v, want 0 when no days elapsed", p.DailySpendRate)
	}
	if p.BudgetRemaining != 500 {
		t.Errorf("BudgetRemaining = %v, want 500", p.BudgetRemaining)
	}
}

func TestProject_RiskBoundaryIsStrict(t *testing.T) {
	// Construct a projection exactly equal to totalBudget * 0.10:
	// budget 1000, threshold 100, need rate*days = 900.
	// 30 days elapsed of 30, spent 900 -> rate 30, projected 1000-900 = 100.
	p := Project(1000, 900, 30, 30)

	if p.ProjectedMonthEndBalance != 100 {
		t.Fatalf("ProjectedMonthEndBalance = %v, want exactly 100", p.ProjectedMonthEndBalance)
	}
	// Known sharp edge: exactly-at-threshold is "low", not "medium".
	if p.RiskLevel != model.RiskLow {
		t.Errorf("RiskLevel = %q, want low at exact threshold", p.RiskLevel)
	}

	// One cent under the threshold tips into medium.
	p = Project(1000, 900.01, 30, 30)
	if p.RiskLevel != model.RiskMedium {
		t.Errorf("RiskLevel = %q, want medium just under threshold", p.RiskLevel)
	}
}

func TestProject_AlreadyPastThresholdWithNoRate(t *testing.T) {
	// Remaining 50 <= threshold 100, but zero spend rate this month:
	// the cushion is already gone, so the countdown reads 0.
	p := Project(1000, 950, 0, 30)

	if p.DaysUntilDanger == nil || *p.DaysUntilDanger != 0 {
		t.Errorf("DaysUntilDanger = %v, want 0", p.DaysUntilDanger)
	}
}
