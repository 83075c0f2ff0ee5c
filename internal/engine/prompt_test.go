package engine

import (
	"strings"
	"testing"

	"centavo/internal/model"
)

const validDraftJSON = `[
  {"alert_type":"presupuesto_excedido","title":"Food over budget","message":"Spent 320 of 300.","severity":"critical","category_name":"food","amount_involved":20,"recommended_action":"Pause eating out."}
]`

func TestParseAlertDrafts_Valid(t *testing.T) {
	drafts, err := parseAlertDrafts(validDraftJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1", len(drafts))
	}
	if drafts[0].AlertType != "presupuesto_excedido" || drafts[0].AmountInvolved != 20 {
		t.Errorf("draft = %+v", drafts[0])
	}
}

func TestParseAlertDrafts_StripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validDraftJSON + "\n```"
	drafts, err := parseAlertDrafts(fenced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1", len(drafts))
	}

	// Fence without a language tag.
	fenced = "```\n" + validDraftJSON + "\n```"
	if _, err := parseAlertDrafts(fenced); err != nil {
		t.Fatalf("bare fence: unexpected error: %v", err)
	}
}

func TestParseAlertDrafts_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"prose", "I think you are doing great with your budget!"},
		{"empty array", "[]"},
		{"not an array", `{"alert_type":"prevision_deficit"}`},
		{"unknown alert type", `[{"alert_type":"mystery","title":"t","message":"m","severity":"info"}]`},
		{"unknown severity", `[{"alert_type":"prevision_deficit","title":"t","message":"m","severity":"urgent"}]`},
		{"unknown field", `[{"alert_type":"prevision_deficit","title":"t","message":"m","severity":"info","confidence":0.9}]`},
		{"missing title", `[{"alert_type":"prevision_deficit","title":"","message":"m","severity":"info"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseAlertDrafts(tt.raw); err == nil {
				t.Errorf("parseAlertDrafts(%q) accepted bad input", tt.raw)
			}
		})
	}
}

func TestResolveDrafts_CategoryResolution(t *testing.T) {
	categories := []model.Category{
		{ID: "c1", Name: "food"},
		{ID: "c2", Name: "transport"},
	}

	drafts := []alertDraft{
		{AlertType: "presupuesto_excedido", Title: "a", Message: "m", Severity: "critical", CategoryName: "food"},
		{AlertType: "prevision_deficit", Title: "b", Message: "m", Severity: "warning", CategoryName: "c2"},
		{AlertType: "prevision_deficit", Title: "c", Message: "m", Severity: "warning", CategoryID: "c1"},
		{AlertType: "gasto_inusual", Title: "d", Message: "m", Severity: "warning", CategoryName: "crypto"},
		{AlertType: "oportunidad_ahorro", Title: "e", Message: "m", Severity: "info"},
	}

	alerts := resolveDrafts(drafts, categories)
	if len(alerts) != 5 {
		t.Fatalf("got %d alerts, want 5 (unresolvable drafts are kept)", len(alerts))
	}

	if alerts[0].CategoryName != "food" || alerts[0].LowConfidence {
		t.Errorf("exact name match: %+v", alerts[0])
	}
	// The model supplied an id in the name slot; resolve it anyway.
	if alerts[1].CategoryName != "transport" || alerts[1].LowConfidence {
		t.Errorf("id-in-name resolution: %+v", alerts[1])
	}
	if alerts[2].CategoryName != "food" || alerts[2].LowConfidence {
		t.Errorf("id field resolution: %+v", alerts[2])
	}
	// Unknown category: kept, but flagged.
	if alerts[3].CategoryName != "crypto" || !alerts[3].LowConfidence {
		t.Errorf("unresolvable reference: %+v", alerts[3])
	}
	// No reference at all: a general alert, not low confidence.
	if alerts[4].CategoryName != "" || alerts[4].LowConfidence {
		t.Errorf("general alert: %+v", alerts[4])
	}
}

func TestBuildAlertPrompt_IncludesFigures(t *testing.T) {
	snap := snapWith([]model.CategoryBudgetView{
		{Name: "food", BudgetAllocated: 300, AmountSpent: 320, PercentageUsed: 106.7, IsOverBudget: true},
	}, 2000, 1200, 20, 30)

	prompt := buildAlertPrompt(snap)
	for _, want := range []string{"2000.00", "1200.00", "Day 20 of 30", "food", "OVER BUDGET"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
