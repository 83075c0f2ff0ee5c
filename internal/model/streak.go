package model

import "time"

// StreakState tracks consecutive no-spend days for one user. One logical
// record per user, mutated once per daily check-in.
type StreakState struct {
	ID                string
	UserID            string
	CurrentStreak     int
	BestStreak        int
	LastNoSpendDate   time.Time // zero when the streak never started
	StreakBrokenCount int
	TotalNoSpendDays  int
	LastCheckIn       time.Time // guards against double check-ins on one day
}
