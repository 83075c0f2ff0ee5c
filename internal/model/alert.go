package model

import "time"

// AlertType identifies the kind of financial alert.
type AlertType string

// Alert types.
const (
	AlertBudgetExceeded     AlertType = "presupuesto_excedido"
	AlertDeficitForecast    AlertType = "prevision_deficit"
	AlertCushionDanger      AlertType = "colchon_peligro"
	AlertSavingsOpportunity AlertType = "oportunidad_ahorro"
	AlertUnusualSpend       AlertType = "gasto_inusual"
)

// KnownAlertType reports whether t is one of the five alert types.
func KnownAlertType(t AlertType) bool {
	switch t {
	case AlertBudgetExceeded, AlertDeficitForecast, AlertCushionDanger,
		AlertSavingsOpportunity, AlertUnusualSpend:
		return true
	}
	return false
}

// Severity ranks an alert's urgency.
type Severity string

// Severities, least to most urgent.
const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// SeverityRank returns a sortable rank, higher is more urgent.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Alert is a human-readable financial alert. Created in batches by the
// synthesizer, soft-deleted via Dismissed thereafter.
type Alert struct {
	ID                string
	UserID            string
	Type              AlertType
	Title             string
	Message           string
	Severity          Severity
	CategoryName      string // empty for general alerts
	AmountInvolved    float64
	RecommendedAction string
	LowConfidence     bool // category reference could not be resolved
	Dismissed         bool
	GeneratedAt       time.Time
}
