package engine

import (
	"testing"
	"time"

	"centavo/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvanceStreak_FirstCheckInNoSpend(t *testing.T) {
	today := day(2025, 6, 10)
	got := AdvanceStreak(nil, false, today)

	want := model.StreakState{
		CurrentStreak:    1,
		BestStreak:       1,
		LastNoSpendDate:  today,
		TotalNoSpendDays: 1,
		LastCheckIn:      today,
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestAdvanceStreak_FirstCheckInWithSpend(t *testing.T) {
	today := day(2025, 6, 10)
	got := AdvanceStreak(nil, true, today)

	if got.CurrentStreak != 0 || got.BestStreak != 0 || got.TotalNoSpendDays != 0 {
		t.Errorf("streak started despite spend: %+v", got)
	}
	if got.StreakBrokenCount != 0 {
		t.Errorf("StreakBrokenCount = %d, want 0 (nothing to break)", got.StreakBrokenCount)
	}
}

func TestAdvanceStreak_SpendBreaksStreak(t *testing.T) {
	prev := &model.StreakState{
		CurrentStreak:     5,
		BestStreak:        8,
		LastNoSpendDate:   day(2025, 6, 9),
		StreakBrokenCount: 2,
		TotalNoSpendDays:  20,
		LastCheckIn:       day(2025, 6, 9),
	}

	got := AdvanceStreak(prev, true, day(2025, 6, 10))

	if got.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0", got.CurrentStreak)
	}
	if got.StreakBrokenCount != 3 {
		t.Errorf("StreakBrokenCount = %d, want 3", got.StreakBrokenCount)
	}
	if got.BestStreak != 8 || got.TotalNoSpendDays != 20 {
		t.Errorf("BestStreak/TotalNoSpendDays changed: %+v", got)
	}
}

func TestAdvanceStreak_ConsecutiveDayExtends(t *testing.T) {
	prev := &model.StreakState{
		CurrentStreak:    3,
		BestStreak:       3,
		LastNoSpendDate:  day(2025, 6, 9),
		TotalNoSpendDays: 10,
		LastCheckIn:      day(2025, 6, 9),
	}

	got := AdvanceStreak(prev, false, day(2025, 6, 10))

	if got.CurrentStreak != 4 {
		t.Errorf("CurrentStreak = %d, want 4", got.CurrentStreak)
	}
	if got.BestStreak != 4 {
		t.Errorf("BestStreak = %d, want 4", got.BestStreak)
	}
	if got.TotalNoSpendDays != 11 {
		t.Errorf("TotalNoSpendDays = %d, want 11", got.TotalNoSpendDays)
	}
	if !got.LastNoSpendDate.Equal(day(2025, 6, 10)) {
		t.Errorf("LastNoSpendDate = %v", got.LastNoSpendDate)
	}
}

func TestAdvanceStreak_GapRestartsAtOne(t *testing.T) {
	prev := &model.StreakState{
		CurrentStreak:    6,
		BestStreak:       6,
		LastNoSpendDate:  day(2025, 6, 5),
		TotalNoSpendDays: 15,
		LastCheckIn:      day(2025, 6, 5),
	}

	got := AdvanceStreak(prev, false, day(2025, 6, 10))

	if got.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1 after a gap", got.CurrentStreak)
	}
	if got.BestStreak != 6 {
		t.Errorf("BestStreak = %d, want 6 preserved", got.BestStreak)
	}
}

func TestAdvanceStreak_SameDayCheckInIsNoOp(t *testing.T) {
	prev := &model.StreakState{
		CurrentStreak:    4,
		BestStreak:       4,
		LastNoSpendDate:  day(2025, 6, 10),
		TotalNoSpendDays: 4,
		LastCheckIn:      day(2025, 6, 10),
	}

	got := AdvanceStreak(prev, false, day(2025, 6, 10))
	if got != *prev {
		t.Errorf("second check-in same day mutated state: %+v", got)
	}

	// Even a spend report later the same day must not break the streak.
	got = AdvanceStreak(prev, true, day(2025, 6, 10))
	if got != *prev {
		t.Errorf("same-day spend check-in mutated state: %+v", got)
	}
}
