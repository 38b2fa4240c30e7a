package core

import (
	"strings"
	"testing"
	"time"

	"github.com/SaiManikanta3434/Digitly-ai/internal/schema"
)

func seededService(t *testing.T) *Service {
	t.Helper()
	state := NewState()
	state.ReplaceDataset(Dataset{
		Clients: []ClientRecord{
			{ClientID: "C1", ClientName: "Acme", PriorityLevel: 3, MaxBudget: 100,
				Extra: map[string]string{"Region": "north"}},
			{ClientID: "C2", ClientName: "Beta", PriorityLevel: 1},
		},
		Workers: []WorkerRecord{
			{WorkerID: "W1", WorkerName: "Ada", HourlyRate: 40},
		},
		Tasks: []TaskRecord{
			{TaskID: "T1", TaskName: "Weld", Duration: 2},
		},
	})
	return NewService(state, 2, time.Second)
}

func TestUpdateCell(t *testing.T) {
	svc := seededService(t)

	rec, notes, err := svc.UpdateCell(schema.KindClients, "C1", "PriorityLevel", 5)
	if err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("clean edit produced notes: %v", notes)
	}
	if rec.ID() != "C1" {
		t.Errorf("returned record id = %q, want C1", rec.ID())
	}
	got := svc.State().Dataset().Clients[0]
	if got.PriorityLevel != 5 {
		t.Errorf("PriorityLevel = %d, want 5", got.PriorityLevel)
	}
	if got.MaxBudget != 100 {
		t.Errorf("untouched MaxBudget changed: %v", got.MaxBudget)
	}
	if got.Extra["Region"] != "north" {
		t.Errorf("extra column lost on edit: %v", got.Extra)
	}
}

func TestUpdateCellRenamesID(t *testing.T) {
	svc := seededService(t)

	// Editing the id field itself must come back as the renamed record, not
	// a lookup miss under the old id.
	rec, _, err := svc.UpdateCell(schema.KindClients, "C1", "ClientID", "C10")
	if err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	if rec.ID() != "C10" {
		t.Errorf("returned record id = %q, want C10", rec.ID())
	}
	ds := svc.State().Dataset()
	if ds.Clients[0].ClientID != "C10" {
		t.Errorf("stored ClientID = %q, want C10", ds.Clients[0].ClientID)
	}
	if _, _, err := svc.UpdateCell(schema.KindClients, "C1", "PriorityLevel", 2); err == nil {
		t.Error("old id should no longer resolve after rename")
	}
}

func TestUpdateCellLooseFieldName(t *testing.T) {
	svc := seededService(t)

	// The field name goes through the same header normalization as an
	// import, so a spreadsheet-style label resolves to the canonical field.
	if _, _, err := svc.UpdateCell(schema.KindClients, "C1", "Client Name", "Acme Ltd"); err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	if got := svc.State().Dataset().Clients[0].ClientName; got != "Acme Ltd" {
		t.Errorf("ClientName = %q, want %q", got, "Acme Ltd")
	}
}

func TestUpdateCellMalformedValueCoerces(t *testing.T) {
	svc := seededService(t)

	_, notes, err := svc.UpdateCell(schema.KindClients, "C1", "MaxBudget", "lots")
	if err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("notes = %v, want one substitution note", notes)
	}
	if notes[0].Field != "MaxBudget" || notes[0].Row != 0 {
		t.Errorf("note = %+v, want MaxBudget at row 0", notes[0])
	}
	if got := svc.State().Dataset().Clients[0].MaxBudget; got != 0 {
		t.Errorf("MaxBudget = %v, want field default 0", got)
	}
}

func TestUpdateCellUnknownFieldLandsInExtra(t *testing.T) {
	svc := seededService(t)

	if _, _, err := svc.UpdateCell(schema.KindClients, "C2", "Shift", "night"); err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	if got := svc.State().Dataset().Clients[1].Extra["Shift"]; got != "night" {
		t.Errorf("Extra[Shift] = %q, want %q", got, "night")
	}
}

func TestUpdateCellErrors(t *testing.T) {
	svc := seededService(t)

	if _, _, err := svc.UpdateCell(schema.KindClients, "C9", "PriorityLevel", 1); err == nil {
		t.Error("expected record not found error")
	} else if !strings.Contains(err.Error(), "record not found") {
		t.Errorf("error = %v, want record not found", err)
	}
	if _, _, err := svc.UpdateCell(schema.Kind("teams"), "C1", "PriorityLevel", 1); err == nil {
		t.Error("expected unknown entity kind error")
	}
}

func TestRuleCRUD(t *testing.T) {
	svc := seededService(t)

	created, err := svc.CreateRule(Rule{
		Type:     RuleCoRun,
		Priority: 1,
		CoRun:    &CoRunParams{TaskIDs: []string{"T1", "T2"}},
	})
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	if created.ID == "" {
		t.Error("CreateRule did not assign an id")
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreateRule did not stamp CreatedAt")
	}

	created.Priority = 7
	updated, err := svc.UpdateRule(created)
	if err != nil {
		t.Fatalf("UpdateRule: %v", err)
	}
	if updated.Priority != 7 {
		t.Errorf("Priority = %d, want 7", updated.Priority)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("UpdateRule must preserve CreatedAt")
	}

	if err := svc.DeleteRule(created.ID); err != nil {
		t.Fatalf("DeleteRule: %v", err)
	}
	if got := len(svc.Rules()); got != 0 {
		t.Errorf("rules after delete = %d, want 0", got)
	}
	if err := svc.DeleteRule(created.ID); err == nil {
		t.Error("second delete should report rule not found")
	}
}

func TestCreateRuleRejectsInvalid(t *testing.T) {
	svc := seededService(t)
	if _, err := svc.CreateRule(Rule{Type: RuleCoRun}); err == nil {
		t.Error("expected validation error for rule without parameters")
	}
	if got := len(svc.Rules()); got != 0 {
		t.Errorf("invalid rule was stored, rules = %d", got)
	}
}

func TestRulesOrdering(t *testing.T) {
	svc := seededService(t)

	low, _ := svc.CreateRule(Rule{Type: RuleCoRun, Priority: 1,
		CoRun: &CoRunParams{TaskIDs: []string{"T1", "T2"}}})
	high, _ := svc.CreateRule(Rule{Type: RuleLoadLimit, Priority: 9,
		LoadLimit: &LoadLimitParams{WorkerGroup: "welders", MaxSlotsPerPhase: 2}})

	rules := svc.Rules()
	if len(rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(rules))
	}
	if rules[0].ID != high.ID || rules[1].ID != low.ID {
		t.Errorf("rules not ordered by priority descending: %s, %s", rules[0].ID, rules[1].ID)
	}
}

func TestWeightsRoundTrip(t *testing.T) {
	svc := seededService(t)

	if got := svc.Weights(); got != DefaultWeights() {
		t.Errorf("initial weights = %+v, want defaults", got)
	}

	// Weights are stored exactly as given; the sum is not normalized.
	w := Weights{PriorityLevel: 2, TaskFulfillment: 1, Fairness: 1, WorkloadBalance: 1, Efficiency: 1}
	svc.SetWeights(w)
	if got := svc.Weights(); got != w {
		t.Errorf("weights = %+v, want %+v", got, w)
	}
}

func TestFindings(t *testing.T) {
	svc := seededService(t)

	f, err := svc.AddFinding(ValidationFinding{
		Kind:     schema.KindClients,
		EntityID: "C1",
		Field:    "PriorityLevel",
		Severity: SeverityWarning,
		Message:  "priority outside the usual range",
	})
	if err != nil {
		t.Fatalf("AddFinding: %v", err)
	}
	if f.ID == "" {
		t.Error("AddFinding did not assign an id")
	}
	if got := len(svc.Findings()); got != 1 {
		t.Fatalf("findings = %d, want 1", got)
	}

	if err := svc.DismissFinding(f.ID); err != nil {
		t.Fatalf("DismissFinding: %v", err)
	}
	if got := len(svc.Findings()); got != 0 {
		t.Errorf("findings after dismiss = %d, want 0", got)
	}
	if err := svc.DismissFinding(f.ID); err == nil {
		t.Error("second dismiss should report finding not found")
	}
}

func TestAddFindingRejectsBadInput(t *testing.T) {
	svc := seededService(t)

	if _, err := svc.AddFinding(ValidationFinding{
		Kind: schema.KindClients, Severity: Severity("fatal"),
	}); err == nil {
		t.Error("expected invalid severity error")
	}
	if _, err := svc.AddFinding(ValidationFinding{
		Kind: schema.Kind("teams"), Severity: SeverityInfo,
	}); err == nil {
		t.Error("expected unknown kind error")
	}
}
