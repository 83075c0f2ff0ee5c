package daemon

import (
	"context"
	"testing"
	"time"

	"centavo/internal/engine"
	"centavo/internal/model"
)

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		TotalSpent: 600,
		PctUsed:    30,
		RiskLevel:  model.RiskLow,
	}
	curr := Snapshot{
		TotalSpent: 720,
		PctUsed:    36,
		RiskLevel:  model.RiskMedium,
	}

	delta := diffSnapshots(prev, curr)
	if delta.Spent != 120 {
		t.Fatalf("Spent delta = %v, want 120", delta.Spent)
	}
	if delta.PctUsed != 6 {
		t.Fatalf("PctUsed delta = %v, want 6", delta.PctUsed)
	}
	if !delta.RiskChanged {
		t.Fatal("risk change not detected")
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}

	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots must diff to zero")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(nil, Config{
		UserID:       "u1",
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

// memStore is the minimal engine.Store for scheduled-job tests.
type memStore struct {
	streak  *model.StreakState
	mission *model.WeeklyMission

	checkIns int
}

func (m *memStore) ManualExpenses(_ context.Context, _ string, _, _ time.Time) ([]model.SpendRecord, error) {
	return nil, nil
}

func (m *memStore) BankExpenses(_ context.Context, _ string, _, _ time.Time) ([]model.SpendRecord, error) {
	return nil, nil
}

func (m *memStore) CategoriesFor(_ context.Context, _ string) ([]model.Category, error) {
	return []model.Category{{ID: "c1", Name: "food", Type: model.CategoryFixed, FixedAmount: 300}}, nil
}

func (m *memStore) BudgetFor(_ context.Context, _ string, _ time.Time) (*model.Budget, error) {
	return &model.Budget{TotalAmount: 2000}, nil
}

func (m *memStore) StreakFor(_ context.Context, _ string) (*model.StreakState, error) {
	return m.streak, nil
}

func (m *memStore) SaveStreak(_ context.Context, s *model.StreakState) error {
	cp := *s
	m.streak = &cp
	m.checkIns++
	return nil
}

func (m *memStore) MissionFor(_ context.Context, _ string, weekStart time.Time) (*model.WeeklyMission, error) {
	if m.mission != nil && m.mission.WeekStart.Equal(weekStart) {
		return m.mission, nil
	}
	return nil, nil
}

func (m *memStore) CreateMission(_ context.Context, mi *model.WeeklyMission) error {
	cp := *mi
	m.mission = &cp
	return nil
}

func (m *memStore) CreateAlerts(_ context.Context, _ []model.Alert) error {
	return nil
}

func TestScheduledJobsFireOncePerPeriod(t *testing.T) {
	store := &memStore{}
	eng := engine.NewService(store, nil)
	s := New(eng, Config{UserID: "u1", Interval: 10 * time.Second})

	// Wednesday June 11 2025.
	now := time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	s.runScheduledJobs(ctx, now)
	if store.checkIns != 1 {
		t.Fatalf("check-ins after first poll = %d, want 1", store.checkIns)
	}
	if store.mission == nil {
		t.Fatal("mission not generated on first poll of the week")
	}
	firstMission := store.mission.ID

	// Later the same day: neither job fires again.
	s.runScheduledJobs(ctx, now.Add(3*time.Hour))
	if store.checkIns != 1 {
		t.Errorf("same-day poll re-ran check-in: %d", store.checkIns)
	}

	// Next day, same week: check-in fires, mission does not.
	s.runScheduledJobs(ctx, now.AddDate(0, 0, 1))
	if store.checkIns != 2 {
		t.Errorf("next-day check-ins = %d, want 2", store.checkIns)
	}
	if store.mission.ID != firstMission {
		t.Errorf("mission regenerated mid-week")
	}

	// Following Monday: a new mission is generated.
	s.runScheduledJobs(ctx, time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC))
	if store.mission.ID == firstMission {
		t.Errorf("mission not regenerated on new week")
	}
}
