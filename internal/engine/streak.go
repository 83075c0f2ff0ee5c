package engine

import (
	"time"

	"centavo/internal/model"
)

// AdvanceStreak applies one daily check-in to the persisted streak state.
// prev is nil when the user has no state yet. The returned state is the
// value to persist.
//
// A second check-in on the same calendar day returns prev unchanged, so
// re-invocations cannot double-count a day.
func AdvanceStreak(prev *model.StreakState, hadSpendToday bool, today time.Time) model.StreakState {
	day := model.DayOf(today)

	if prev != nil && model.SameDay(prev.LastCheckIn, day) {
		return *prev
	}

	if prev == nil {
		next := model.StreakState{LastCheckIn: day}
		if !hadSpendToday {
			next.CurrentStreak = 1
			next.BestStreak = 1
			next.LastNoSpendDate = day
			next.TotalNoSpendDays = 1
		}
		return next
	}

	next := *prev
	next.LastCheckIn = day

	if hadSpendToday {
		next.CurrentStreak = 0
		next.StreakBrokenCount++
		return next
	}

	yesterday := day.AddDate(0, 0, -1)
	if !prev.LastNoSpendDate.IsZero() && model.SameDay(prev.LastNoSpendDate, yesterday) {
		next.CurrentStreak = prev.CurrentStreak + 1
	} else {
		next.CurrentStreak = 1
	}
	if next.CurrentStreak > next.BestStreak {
		next.BestStreak = next.CurrentStreak
	}
	next.TotalNoSpendDays++
	next.LastNoSpendDate = day
	return next
}
