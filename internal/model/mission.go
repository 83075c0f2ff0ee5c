package model

import "time"

// BaselineSource records which fallback tier produced a mission baseline.
type BaselineSource string

// Baseline sources, in tier order.
const (
	BaselineLastWeek       BaselineSource = "last_week"
	BaselineMonthlyAverage BaselineSource = "monthly_average"
	BaselineDefaultMin     BaselineSource = "default_min"
)

// MissionBaseline is the historical spend figure a weekly challenge is
// measured against, frozen when the mission is generated.
type MissionBaseline struct {
	CategoryName   string
	BaselineAmount float64
	BaselineSource BaselineSource
}

// WeeklyMission is a spend-less-than-baseline challenge for one week.
// Baseline fields are frozen at creation; CurrentSpend is recomputed live
// on every read and not persisted.
type WeeklyMission struct {
	ID         string
	UserID     string
	CategoryID string // empty when the category could not be resolved
	Baseline   MissionBaseline
	WeekStart  time.Time // Monday
	WeekEnd    time.Time // Sunday
	CreatedAt  time.Time

	CurrentSpend float64 `json:"-"`
}
