package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"centavo/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "centavo.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestBudgetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	june := day(2025, 6, 1)

	got, err := s.BudgetFor(ctx, "u1", june)
	if err != nil {
		t.Fatalf("BudgetFor: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no budget, got %+v", got)
	}

	if err := s.SetBudget(ctx, "u1", june, 2000); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}
	got, err = s.BudgetFor(ctx, "u1", june)
	if err != nil {
		t.Fatalf("BudgetFor: %v", err)
	}
	if got == nil || got.TotalAmount != 2000 {
		t.Fatalf("budget = %+v, want 2000", got)
	}

	// Same month again replaces, not duplicates.
	if err := s.SetBudget(ctx, "u1", june, 2500); err != nil {
		t.Fatalf("SetBudget update: %v", err)
	}
	got, _ = s.BudgetFor(ctx, "u1", june)
	if got.TotalAmount != 2500 {
		t.Errorf("TotalAmount = %v, want 2500", got.TotalAmount)
	}

	// Other users and other months stay invisible.
	if got, _ := s.BudgetFor(ctx, "u2", june); got != nil {
		t.Errorf("budget leaked across users: %+v", got)
	}
	if got, _ := s.BudgetFor(ctx, "u1", day(2025, 7, 1)); got != nil {
		t.Errorf("budget leaked across months: %+v", got)
	}
}

func TestCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	food := model.Category{UserID: "u1", Name: "food", Type: model.CategoryFixed, FixedAmount: 300}
	if err := s.CreateCategory(ctx, &food); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if food.ID == "" {
		t.Fatal("CreateCategory did not assign an id")
	}
	savings := model.Category{UserID: "u1", Name: "savings", Type: model.CategoryPercentage, Percentage: 15}
	if err := s.CreateCategory(ctx, &savings); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	// Duplicate name for the same user must be rejected.
	dup := model.Category{UserID: "u1", Name: "food", Type: model.CategoryFixed, FixedAmount: 50}
	if err := s.CreateCategory(ctx, &dup); err == nil {
		t.Error("duplicate category name accepted")
	}

	got, err := s.CategoriesFor(ctx, "u1")
	if err != nil {
		t.Fatalf("CategoriesFor: %v", err)
	}
	if len(got) != 2 || got[0].Name != "food" || got[1].Name != "savings" {
		t.Fatalf("categories = %+v", got)
	}
	if got[1].Type != model.CategoryPercentage || got[1].Percentage != 15 {
		t.Errorf("percentage category = %+v", got[1])
	}
}

func TestExpenseWindows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, d := range []time.Time{day(2025, 5, 31), day(2025, 6, 1), day(2025, 6, 15), day(2025, 6, 30), day(2025, 7, 1)} {
		r := model.SpendRecord{UserID: "u1", OccurredOn: d, Amount: 10}
		if err := s.CreateExpense(ctx, &r); err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
	}

	got, err := s.ManualExpenses(ctx, "u1", day(2025, 6, 1), day(2025, 6, 30))
	if err != nil {
		t.Fatalf("ManualExpenses: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records in June, want 3", len(got))
	}
	for _, r := range got {
		if r.Source != model.SourceManual {
			t.Errorf("Source = %q, want manual", r.Source)
		}
	}

	// Open bounds return everything.
	all, err := s.ManualExpenses(ctx, "u1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("ManualExpenses open: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("got %d records with open bounds, want 5", len(all))
	}
}

func TestBankExpensesFiltersByType(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	expense := model.SpendRecord{UserID: "u1", OccurredOn: day(2025, 6, 10), Amount: 42.5, Note: "CARD PURCHASE"}
	if err := s.CreateBankTransaction(ctx, &expense, "expense"); err != nil {
		t.Fatalf("CreateBankTransaction: %v", err)
	}
	income := model.SpendRecord{UserID: "u1", OccurredOn: day(2025, 6, 11), Amount: 1500, Note: "PAYROLL"}
	if err := s.CreateBankTransaction(ctx, &income, "income"); err != nil {
		t.Fatalf("CreateBankTransaction: %v", err)
	}

	got, err := s.BankExpenses(ctx, "u1", day(2025, 6, 1), day(2025, 6, 30))
	if err != nil {
		t.Fatalf("BankExpenses: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d bank records, want only the expense", len(got))
	}
	r := got[0]
	if r.Amount != 42.5 || r.Source != model.SourceBank || r.Note != "CARD PURCHASE" {
		t.Errorf("record = %+v", r)
	}
}

func TestStreakRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.StreakFor(ctx, "u1")
	if err != nil {
		t.Fatalf("StreakFor: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no streak, got %+v", got)
	}

	st := model.StreakState{
		ID: "s1", UserID: "u1",
		CurrentStreak: 3, BestStreak: 7,
		LastNoSpendDate:   day(2025, 6, 10),
		StreakBrokenCount: 2, TotalNoSpendDays: 19,
		LastCheckIn: day(2025, 6, 10),
	}
	if err := s.SaveStreak(ctx, &st); err != nil {
		t.Fatalf("SaveStreak: %v", err)
	}

	got, err = s.StreakFor(ctx, "u1")
	if err != nil {
		t.Fatalf("StreakFor: %v", err)
	}
	if got.CurrentStreak != 3 || got.BestStreak != 7 || got.TotalNoSpendDays != 19 {
		t.Errorf("state = %+v", got)
	}
	if !got.LastNoSpendDate.Equal(day(2025, 6, 10)) || !got.LastCheckIn.Equal(day(2025, 6, 10)) {
		t.Errorf("dates = %v / %v", got.LastNoSpendDate, got.LastCheckIn)
	}

	// Saving again replaces the single row per user.
	st.CurrentStreak = 4
	st.LastCheckIn = day(2025, 6, 11)
	if err := s.SaveStreak(ctx, &st); err != nil {
		t.Fatalf("SaveStreak update: %v", err)
	}
	got, _ = s.StreakFor(ctx, "u1")
	if got.CurrentStreak != 4 {
		t.Errorf("CurrentStreak = %d, want 4", got.CurrentStreak)
	}
}

func TestMissionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	monday := day(2025, 6, 9)

	got, err := s.MissionFor(ctx, "u1", monday)
	if err != nil {
		t.Fatalf("MissionFor: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no mission, got %+v", got)
	}

	m := model.WeeklyMission{
		ID: "m1", UserID: "u1", CategoryID: "c1",
		Baseline: model.MissionBaseline{
			CategoryName:   "food",
			BaselineAmount: 45,
			BaselineSource: model.BaselineLastWeek,
		},
		WeekStart: monday,
		WeekEnd:   monday.AddDate(0, 0, 6),
		CreatedAt: time.Date(2025, 6, 9, 8, 30, 0, 0, time.UTC),
	}
	if err := s.CreateMission(ctx, &m); err != nil {
		t.Fatalf("CreateMission: %v", err)
	}

	got, err = s.MissionFor(ctx, "u1", monday)
	if err != nil {
		t.Fatalf("MissionFor: %v", err)
	}
	if got.ID != "m1" || got.CategoryID != "c1" {
		t.Errorf("mission = %+v", got)
	}
	if got.Baseline.BaselineSource != model.BaselineLastWeek || got.Baseline.BaselineAmount != 45 {
		t.Errorf("baseline = %+v", got.Baseline)
	}
	if !got.WeekEnd.Equal(day(2025, 6, 15)) {
		t.Errorf("WeekEnd = %v", got.WeekEnd)
	}

	// One mission per user per week.
	m2 := m
	m2.ID = "m2"
	if err := s.CreateMission(ctx, &m2); err == nil {
		t.Error("second mission for the same week accepted")
	}
}

func TestAlertLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)

	batch := []model.Alert{
		{
			ID: "a1", UserID: "u1", Type: model.AlertBudgetExceeded,
			Title: "Food budget exceeded", Message: "Spent 320 of 300.",
			Severity: model.SeverityCritical, CategoryName: "food",
			AmountInvolved: 20, RecommendedAction: "Pause food spending.",
			GeneratedAt: at,
		},
		{
			ID: "a2", UserID: "u1", Type: model.AlertSavingsOpportunity,
			Title: "On track", Message: "Projected surplus this month.",
			Severity: model.SeverityInfo, LowConfidence: true,
			GeneratedAt: at,
		},
	}
	if err := s.CreateAlerts(ctx, batch); err != nil {
		t.Fatalf("CreateAlerts: %v", err)
	}

	got, err := s.ActiveAlerts(ctx, "u1")
	if err != nil {
		t.Fatalf("ActiveAlerts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d alerts, want 2", len(got))
	}
	if got[0].ID != "a1" {
		t.Errorf("first alert = %q, want critical a1 first", got[0].ID)
	}
	if !got[1].LowConfidence {
		t.Errorf("LowConfidence flag lost: %+v", got[1])
	}
	if got[0].CategoryName != "food" || got[1].CategoryName != "" {
		t.Errorf("category names = %q / %q", got[0].CategoryName, got[1].CategoryName)
	}

	if err := s.DismissAlert(ctx, "u1", "a1"); err != nil {
		t.Fatalf("DismissAlert: %v", err)
	}
	got, _ = s.ActiveAlerts(ctx, "u1")
	if len(got) != 1 || got[0].ID != "a2" {
		t.Errorf("after dismiss: %+v", got)
	}

	// Unknown and foreign ids are no-ops.
	if err := s.DismissAlert(ctx, "u1", "nope"); err != nil {
		t.Errorf("dismissing unknown id: %v", err)
	}
	if err := s.DismissAlert(ctx, "u2", "a2"); err != nil {
		t.Errorf("dismissing foreign id: %v", err)
	}
	if got, _ := s.ActiveAlerts(ctx, "u1"); len(got) != 1 {
		t.Errorf("no-op dismiss changed state: %+v", got)
	}

	n, err := s.DismissAllAlerts(ctx, "u1")
	if err != nil {
		t.Fatalf("DismissAllAlerts: %v", err)
	}
	if n != 1 {
		t.Errorf("dismissed %d, want 1", n)
	}
	if got, _ := s.ActiveAlerts(ctx, "u1"); len(got) != 0 {
		t.Errorf("alerts remain after dismiss all: %+v", got)
	}
}

func TestCreateAlerts_EmptyBatch(t *testing.T) {
	s := newTestStore(t)
	if err := s.CreateAlerts(context.Background(), nil); err != nil {
		t.Errorf("empty batch: %v", err)
	}
}
