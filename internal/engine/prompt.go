package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"centavo/internal/model"
)

const alertSystemPrompt = `You are a personal finance assistant. You receive a household budget summary and produce short, actionable alerts.

Respond with ONLY a JSON array (no prose, no code fences). Each element:
{
  "alert_type": "presupuesto_excedido" | "prevision_deficit" | "colchon_peligro" | "oportunidad_ahorro" | "gasto_inusual",
  "title": "short headline",
  "message": "one or two sentences",
  "severity": "info" | "warning" | "critical",
  "category_name": "exact category name, omit for general alerts",
  "amount_involved": 0,
  "recommended_action": "one concrete step"
}
Return at most 5 alerts, most urgent first.`

// buildAlertPrompt renders the month snapshot into the user prompt for
// the generative collaborator.
func buildAlertPrompt(snap *MonthSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Monthly budget: %.2f\n", snap.TotalBudget)
	fmt.Fprintf(&b, "Spent so far: %.2f (%.1f%%)\n", snap.TotalSpent, snap.OverallPctUsed)
	fmt.Fprintf(&b, "Day %d of %d\n", snap.DaysElapsed, snap.DaysInMonth)
	fmt.Fprintf(&b, "Daily run-rate: %.2f\n", snap.Projection.DailySpendRate)
	fmt.Fprintf(&b, "Projected month-end balance: %.2f\n", snap.Projection.ProjectedMonthEndBalance)
	fmt.Fprintf(&b, "Spend vs last month: %+.1f%%\n", snap.MonthOverMonthPct)

	b.WriteString("\nCategories:\n")
	for _, v := range snap.Views {
		fmt.Fprintf(&b, "- %s: spent %.2f of %.2f (%.1f%%)", v.Name, v.AmountSpent, v.BudgetAllocated, v.PercentageUsed)
		if v.IsOverBudget {
			b.WriteString(" OVER BUDGET")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// alertDraft is the shape each element of the model's JSON array must
// decode into. Unknown fields or enum values reject the whole payload.
type alertDraft struct {
	AlertType         string  `json:"alert_type"`
	Title             string  `json:"title"`
	Message           string  `json:"message"`
	Severity          string  `json:"severity"`
	CategoryName      string  `json:"category_name,omitempty"`
	CategoryID        string  `json:"category_id,omitempty"`
	AmountInvolved    float64 `json:"amount_involved,omitempty"`
	RecommendedAction string  `json:"recommended_action,omitempty"`
}

var errEmptyDraftList = errors.New("engine: model returned no alerts")

// parseAlertDrafts strictly decodes the model's response into alert
// drafts. Markdown code fences are stripped first; anything that is not
// a clean JSON array of known-shaped drafts is an error, which routes
// the caller to the deterministic generator.
func parseAlertDrafts(raw string) ([]alertDraft, error) {
	text := stripCodeFences(raw)
	if text == "" {
		return nil, errEmptyDraftList
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()

	var drafts []alertDraft
	if err := dec.Decode(&drafts); err != nil {
		return nil, fmt.Errorf("engine: parsing alert drafts: %w", err)
	}
	if len(drafts) == 0 {
		return nil, errEmptyDraftList
	}

	for i, d := range drafts {
		if !model.KnownAlertType(model.AlertType(d.AlertType)) {
			return nil, fmt.Errorf("engine: draft %d: unknown alert type %q", i, d.AlertType)
		}
		switch model.Severity(d.Severity) {
		case model.SeverityInfo, model.SeverityWarning, model.SeverityCritical:
		default:
			return nil, fmt.Errorf("engine: draft %d: unknown severity %q", i, d.Severity)
		}
		if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Message) == "" {
			return nil, fmt.Errorf("engine: draft %d: missing title or message", i)
		}
	}

	return drafts, nil
}

// stripCodeFences removes a surrounding Markdown code fence, with or
// without a language tag, and trims whitespace.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		// Drop a language tag like "json" on the fence line.
		first := strings.TrimSpace(s[:idx])
		if first == "" || !strings.ContainsAny(first, "[{") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// resolveDrafts turns validated drafts into alerts, resolving category
// references against the known categories. A reference that cannot be
// resolved keeps the draft but flags it low confidence; a draft with no
// reference at all becomes a general alert.
func resolveDrafts(drafts []alertDraft, categories []model.Category) []model.Alert {
	byName := make(map[string]model.Category, len(categories))
	byID := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		byName[c.Name] = c
		byID[c.ID] = c
	}

	alerts := make([]model.Alert, 0, len(drafts))
	for _, d := range drafts {
		a := model.Alert{
			Type:              model.AlertType(d.AlertType),
			Title:             strings.TrimSpace(d.Title),
			Message:           strings.TrimSpace(d.Message),
			Severity:          model.Severity(d.Severity),
			AmountInvolved:    d.AmountInvolved,
			RecommendedAction: strings.TrimSpace(d.RecommendedAction),
		}

		switch {
		case d.CategoryName != "":
			if c, ok := byName[d.CategoryName]; ok {
				a.CategoryName = c.Name
			} else if c, ok := byID[d.CategoryName]; ok {
				a.CategoryName = c.Name
			} else {
				a.CategoryName = d.CategoryName
				a.LowConfidence = true
			}
		case d.CategoryID != "":
			if c, ok := byID[d.CategoryID]; ok {
				a.CategoryName = c.Name
			} else {
				a.CategoryName = d.CategoryID
				a.LowConfidence = true
			}
		}

		alerts = append(alerts, a)
	}
	return alerts
}
