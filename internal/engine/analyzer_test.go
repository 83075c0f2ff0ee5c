package engine

import (
	"math"
	"testing"
	"time"

	"centavo/internal/model"
)

func rec(category string, amount float64) model.SpendRecord {
	return model.SpendRecord{
		ID:         "r",
		OccurredOn: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Amount:     amount,
		CategoryID: category,
		Source:     model.SourceManual,
	}
}

func TestAnalyzeCategories_PercentageUsedRounding(t *testing.T) {
	tests := []struct {
		name      string
		allocated float64
		spent     float64
		wantPct   float64
		wantOver  bool
	}{
		{"two thirds", 300, 200, 66.7, false},
		{"exactly full", 300, 300, 100, false},
		{"over", 300, 320, 106.7, true},
		{"zero allocation", 0, 50, 0, true},
		{"one third", 3, 1, 33.3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cats := []model.Category{{ID: "c1", Name: "food", Type: model.CategoryFixed, FixedAmount: tt.allocated}}
			views := AnalyzeCategories(cats, []model.SpendRecord{rec("c1", tt.spent)}, 1000, 10, 30)

			if len(views) != 1 {
				t.Fatalf("got %d views, want 1", len(views))
			}
			v := views[0]
			if math.Abs(v.PercentageUsed-tt.wantPct) > 1e-9 {
				t.Errorf("PercentageUsed = %v, want %v", v.PercentageUsed, tt.wantPct)
			}
			if v.IsOverBudget != tt.wantOver {
				t.Errorf("IsOverBudget = %v, want %v", v.IsOverBudget, tt.wantOver)
			}
		})
	}
}

func TestAnalyzeCategories_PercentageAllocation(t *testing.T) {
	cats := []model.Category{{ID: "c1", Name: "fun", Type: model.CategoryPercentage, Percentage: 15}}
	views := AnalyzeCategories(cats, nil, 2000, 10, 30)

	if views[0].BudgetAllocated != 300 {
		t.Errorf("BudgetAllocated = %v, want 300 (15%% of 2000)", views[0].BudgetAllocated)
	}
}

func TestAnalyzeCategories_IncludesZeroSpend(t *testing.T) {
	cats := []model.Category{
		{ID: "c1", Name: "food", Type: model.CategoryFixed, FixedAmount: 300},
		{ID: "c2", Name: "transport", Type: model.CategoryFixed, FixedAmount: 100},
	}
	views := AnalyzeCategories(cats, []model.SpendRecord{rec("c1", 50)}, 1000, 10, 30)

	if len(views) != 2 {
		t.Fatalf("got %d views, want 2 (zero-spend category must be included)", len(views))
	}
	// Sorted by spend descending, so the idle category is last.
	if views[1].Name != "transport" || views[1].AmountSpent != 0 {
		t.Errorf("zero-spend view = %+v", views[1])
	}
}

func TestAnalyzeCategories_ProjectedOverspend(t *testing.T) {
	// 200 spent in 10 days -> 20/day -> 600 over a 30-day month, 300 allocated.
	cats := []model.Category{{ID: "c1", Name: "food", Type: model.CategoryFixed, FixedAmount: 300}}
	views := AnalyzeCategories(cats, []model.SpendRecord{rec("c1", 200)}, 1000, 10, 30)

	if math.Abs(views[0].ProjectedOverspend-300) > 1e-9 {
		t.Errorf("ProjectedOverspend = %v, want 300", views[0].ProjectedOverspend)
	}

	// Under-pace spending projects no overspend.
	views = AnalyzeCategories(cats, []model.SpendRecord{rec("c1", 50)}, 1000, 10, 30)
	if views[0].ProjectedOverspend != 0 {
		t.Errorf("ProjectedOverspend = %v, want 0", views[0].ProjectedOverspend)
	}
}

func TestAnalyzeCategories_ZeroDaysElapsed(t *testing.T) {
	cats := []model.Category{{ID: "c1", Name: "food", Type: model.CategoryFixed, FixedAmount: 300}}
	views := AnalyzeCategories(cats, []model.SpendRecord{rec("c1", 200)}, 1000, 0, 30)

	if views[0].ProjectedOverspend != 0 {
		t.Errorf("ProjectedOverspend = %v, want 0 when no days elapsed", views[0].ProjectedOverspend)
	}
}
