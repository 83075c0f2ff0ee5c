package engine

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"centavo/internal/model"

	"github.com/google/uuid"
)

// Store is the persistence collaborator surface the engine consumes.
// Implementations must scope every operation to the given user id.
type Store interface {
	RecordReader

	CategoriesFor(ctx context.Context, userID string) ([]model.Category, error)
	BudgetFor(ctx context.Context, userID string, month time.Time) (*model.Budget, error)

	StreakFor(ctx context.Context, userID string) (*model.StreakState, error)
	SaveStreak(ctx context.Context, s *model.StreakState) error

	MissionFor(ctx context.Context, userID string, weekStart time.Time) (*model.WeeklyMission, error)
	CreateMission(ctx context.Context, m *model.WeeklyMission) error

	CreateAlerts(ctx context.Context, alerts []model.Alert) error
}

// Completer is the generative text collaborator. Its output is untrusted
// free text that may be malformed or absent.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Service orchestrates the engine against the persistence and generative
// collaborators. It holds no per-request state between calls.
type Service struct {
	store Store
	gen   Completer // nil means fallback-only alert generation

	// Per-user advisory locks so concurrent generate calls cannot write
	// duplicate alert batches.
	mu    sync.Mutex
	locks map[string]*sync.Mutex

	pick func(n int) int // category picker, swappable in tests
}

// NewService returns a Service backed by the given collaborators.
// gen may be nil; alerts then always use the deterministic generator.
func NewService(store Store, gen Completer) *Service {
	return &Service{
		store: store,
		gen:   gen,
		locks: make(map[string]*sync.Mutex),
		pick:  rand.IntN,
	}
}

// MonthSnapshot is the current month's aggregate state: per-category
// views plus the overall projection. Derived fresh on every call.
type MonthSnapshot struct {
	Month             time.Time
	TotalBudget       float64
	TotalSpent        float64
	DaysElapsed       int
	DaysInMonth       int
	OverallPctUsed    float64
	Views             []model.CategoryBudgetView
	Projection        model.ProjectionResult
	MonthOverMonthPct float64 // spend change vs previous month, percent
}

// Snapshot computes the month snapshot for a user as of now. Individual
// input fetches degrade independently; only a budget read failure (store
// down) is a hard error.
func (s *Service) Snapshot(ctx context.Context, userID string, now time.Time) (*MonthSnapshot, error) {
	monthStart, daysInMonth := model.MonthBounds(now)

	budget, err := s.store.BudgetFor(ctx, userID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("loading budget: %w", err)
	}
	var totalBudget float64
	if budget != nil {
		totalBudget = budget.TotalAmount
	}

	categories, err := s.store.CategoriesFor(ctx, userID)
	if err != nil {
		log.Printf("centavo: category fetch failed, continuing without: %v", err)
		categories = nil
	}

	records := AggregateSpend(ctx, s.store, userID, monthStart, now, "")
	totalSpent := TotalSpend(records)
	daysElapsed := now.Day()

	snap := &MonthSnapshot{
		Month:       monthStart,
		TotalBudget: totalBudget,
		TotalSpent:  totalSpent,
		DaysElapsed: daysElapsed,
		DaysInMonth: daysInMonth,
		Views:       AnalyzeCategories(categories, records, totalBudget, daysElapsed, daysInMonth),
		Projection:  Project(totalBudget, totalSpent, daysElapsed, daysInMonth),
	}
	if totalBudget > 0 {
		snap.OverallPctUsed = round1(totalSpent / totalBudget * 100)
	}

	// Month-over-month trend from the full previous month. Degrades to 0.
	prevStart := monthStart.AddDate(0, -1, 0)
	prevEnd := monthStart.AddDate(0, 0, -1)
	prevSpent := TotalSpend(AggregateSpend(ctx, s.store, userID, prevStart, prevEnd, ""))
	if prevSpent > 0 {
		snap.MonthOverMonthPct = round1((totalSpent - prevSpent) / prevSpent * 100)
	}

	return snap, nil
}

// CheckIn runs the daily streak check-in for a user and persists the new
// state. Invoking it twice on the same calendar day is a no-op.
func (s *Service) CheckIn(ctx context.Context, userID string, now time.Time) (model.StreakState, error) {
	prev, err := s.store.StreakFor(ctx, userID)
	if err != nil {
		return model.StreakState{}, fmt.Errorf("loading streak: %w", err)
	}

	today := model.DayOf(now)
	todaySpend := AggregateSpend(ctx, s.store, userID, today, today, "")

	next := AdvanceStreak(prev, len(todaySpend) > 0, today)
	next.UserID = userID
	if prev != nil {
		next.ID = prev.ID
	} else if next.ID == "" {
		next.ID = uuid.NewString()
	}

	if prev != nil && model.SameDay(prev.LastCheckIn, today) {
		return next, nil // already checked in today, nothing to persist
	}

	if err := s.store.SaveStreak(ctx, &next); err != nil {
		return model.StreakState{}, fmt.Errorf("saving streak: %w", err)
	}
	return next, nil
}

// GenerateMission creates this week's spending mission, freezing its
// baseline at creation. If a mission already exists for the current week
// it is returned as-is; baselines are never recomputed mid-week.
func (s *Service) GenerateMission(ctx context.Context, userID string, now time.Time) (*model.WeeklyMission, error) {
	weekStart := model.WeekStart(now)

	if existing, err := s.store.MissionFor(ctx, userID, weekStart); err == nil && existing != nil {
		return existing, nil
	} else if err != nil {
		log.Printf("centavo: mission lookup failed, generating fresh: %v", err)
	}

	var (
		category model.Category
		resolved bool
	)
	categories, err := s.store.CategoriesFor(ctx, userID)
	if err != nil {
		log.Printf("centavo: category fetch failed for mission: %v", err)
	}
	if len(categories) > 0 {
		category = categories[s.pick(len(categories))]
		resolved = true
	}

	var lastWeek, trailing30 float64
	if resolved {
		lwStart := weekStart.AddDate(0, 0, -7)
		lwEnd := weekStart.AddDate(0, 0, -1)
		lastWeek = TotalSpend(AggregateSpend(ctx, s.store, userID, lwStart, lwEnd, category.ID))
		trailing30 = TotalSpend(AggregateSpend(ctx, s.store, userID, now.AddDate(0, 0, -30), now, category.ID))
	}

	name := category.Name
	if !resolved {
		name = "general"
	}

	m := &model.WeeklyMission{
		ID:         uuid.NewString(),
		UserID:     userID,
		CategoryID: category.ID,
		Baseline:   ResolveBaseline(name, lastWeek, trailing30, resolved),
		WeekStart:  weekStart,
		WeekEnd:    weekStart.AddDate(0, 0, 6),
		CreatedAt:  now,
	}
	if err := s.store.CreateMission(ctx, m); err != nil {
		return nil, fmt.Errorf("saving mission: %w", err)
	}
	return m, nil
}

// MissionStatus returns the current week's mission with its live spend
// against the frozen baseline, or nil when no mission exists yet.
func (s *Service) MissionStatus(ctx context.Context, userID string, now time.Time) (*model.WeeklyMission, error) {
	weekStart := model.WeekStart(now)
	m, err := s.store.MissionFor(ctx, userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("loading mission: %w", err)
	}
	if m == nil {
		return nil, nil
	}
	m.CurrentSpend = TotalSpend(AggregateSpend(ctx, s.store, userID, weekStart, now, m.CategoryID))
	return m, nil
}

// userLock returns the advisory lock for one user's alert generation.
func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}
