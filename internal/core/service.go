package core

// service.go is the entry point the HTTP layer talks to. It owns the state
// store and the import limiter and exposes the operations of the tool:
// import batches, grid queries and edits, rule and weight management,
// validation findings, exports.

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/SaiManikanta3434/Digitly-ai/internal/schema"
)

// Service wires the pipeline to the application state.
type Service struct {
	state   *State
	limiter *ImportLimiter
}

// NewService creates a service around the given state store.
func NewService(state *State, maxConcurrentImports int, maxWait time.Duration) *Service {
	return &Service{
		state:   state,
		limiter: NewImportLimiter(maxConcurrentImports, maxWait),
	}
}

// State exposes the underlying store for read access by collaborators
// (search fallback, exports).
func (s *Service) State() *State {
	return s.state
}

// LimiterStatus reports the import limiter state for monitoring and
// shutdown draining.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until in-flight imports finish or ctx expires.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

/* ----------------------------------------
	Grid edits
---------------------------------------- */

// UpdateCell re-coerces a single field of one record and publishes the
// updated collection by replacement. The edit is as permissive as import:
// a malformed value coerces to the field default and comes back as a note.
// The returned record is the post-coercion state, which matters when the
// edit changed the record's own id.
func (s *Service) UpdateCell(kind schema.Kind, id, field string, value any) (Record, []CoercionNote, error) {
	ds := s.state.Dataset()

	switch kind {
	case schema.KindClients:
		idx := indexOf(ds.Clients, id)
		if idx < 0 {
			return nil, nil, fmt.Errorf("record not found: %s %q", kind, id)
		}
		raw := rowFromRecord(ds.Clients[idx])
		raw[resolveField(kind, field)] = value
		recs, notes := CoerceClients([]RawRow{raw})
		recs[0].Extra = mergeExtra(ds.Clients[idx].Extra, recs[0].Extra)
		ds.Clients[idx] = recs[0]
		s.state.ReplaceClients(ds.Clients)
		return recs[0], renumber(notes, idx), nil

	case schema.KindWorkers:
		idx := indexOf(ds.Workers, id)
		if idx < 0 {
			return nil, nil, fmt.Errorf("record not found: %s %q", kind, id)
		}
		raw := rowFromRecord(ds.Workers[idx])
		raw[resolveField(kind, field)] = value
		recs, notes := CoerceWorkers([]RawRow{raw})
		recs[0].Extra = mergeExtra(ds.Workers[idx].Extra, recs[0].Extra)
		ds.Workers[idx] = recs[0]
		s.state.ReplaceWorkers(ds.Workers)
		return recs[0], renumber(notes, idx), nil

	case schema.KindTasks:
		idx := indexOf(ds.Tasks, id)
		if idx < 0 {
			return nil, nil, fmt.Errorf("record not found: %s %q", kind, id)
		}
		raw := rowFromRecord(ds.Tasks[idx])
		raw[resolveField(kind, field)] = value
		recs, notes := CoerceTasks([]RawRow{raw})
		recs[0].Extra = mergeExtra(ds.Tasks[idx].Extra, recs[0].Extra)
		ds.Tasks[idx] = recs[0]
		s.state.ReplaceTasks(ds.Tasks)
		return recs[0], renumber(notes, idx), nil

	default:
		return nil, nil, fmt.Errorf("unknown entity kind: %q", kind)
	}
}

func indexOf[T Record](recs []T, id string) int {
	for i, r := range recs {
		if r.ID() == id {
			return i
		}
	}
	return -1
}

// rowFromRecord flattens a record back into a raw row so a single-field edit
// can reuse the normal coercion path.
func rowFromRecord(r Record) RawRow {
	return RawRow(r.Fields())
}

// resolveField maps a loosely-written field name from an edit request onto
// its canonical name, falling back to the name as given (which lands the
// value in Extra).
func resolveField(kind schema.Kind, field string) string {
	mapping := NormalizeHeaders([]string{field}, kind)
	return mapping[field]
}

func mergeExtra(old, edited map[string]string) map[string]string {
	if len(old) == 0 {
		return edited
	}
	merged := make(map[string]string, len(old)+len(edited))
	for k, v := range old {
		merged[k] = v
	}
	for k, v := range edited {
		merged[k] = v
	}
	return merged
}

func renumber(notes []CoercionNote, row int) []CoercionNote {
	for i := range notes {
		notes[i].Row = row
	}
	return notes
}

/* ----------------------------------------
	Rules and weights
---------------------------------------- */

// CreateRule validates and appends a rule, assigning it an id.
func (s *Service) CreateRule(r Rule) (Rule, error) {
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = time.Now().UTC()

	rules := append(s.state.Rules(), r)
	s.state.ReplaceRules(rules)
	return r, nil
}

// UpdateRule replaces an existing rule by id.
func (s *Service) UpdateRule(r Rule) (Rule, error) {
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}

	rules := s.state.Rules()
	for i, existing := range rules {
		if existing.ID == r.ID {
			r.CreatedAt = existing.CreatedAt
			rules[i] = r
			s.state.ReplaceRules(rules)
			return r, nil
		}
	}
	return Rule{}, fmt.Errorf("rule not found: %q", r.ID)
}

// DeleteRule removes a rule by id.
func (s *Service) DeleteRule(id string) error {
	rules := s.state.Rules()
	for i, r := range rules {
		if r.ID == id {
			s.state.ReplaceRules(append(rules[:i], rules[i+1:]...))
			return nil
		}
	}
	return fmt.Errorf("rule not found: %q", id)
}

// Rules returns the rule list ordered by priority (descending), then
// creation time.
func (s *Service) Rules() []Rule {
	rules := s.state.Rules()
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].CreatedAt.Before(rules[j].CreatedAt)
	})
	return rules
}

// Weights returns the stored prioritization weights.
func (s *Service) Weights() Weights {
	return s.state.Weights()
}

// SetWeights stores new prioritization weights. No normalization is
// enforced; weights need not sum to 1.
func (s *Service) SetWeights(w Weights) {
	s.state.SetWeights(w)
}

/* ----------------------------------------
	Validation findings
---------------------------------------- */

// AddFinding records a finding produced by the external validation
// collaborator.
func (s *Service) AddFinding(f ValidationFinding) (ValidationFinding, error) {
	if !f.Severity.Valid() {
		return ValidationFinding{}, fmt.Errorf("invalid severity: %q (use error, warning or info)", f.Severity)
	}
	if _, err := schema.ParseKind(string(f.Kind)); err != nil {
		return ValidationFinding{}, err
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}

	findings := append(s.state.Findings(), f)
	s.state.ReplaceFindings(findings)
	return f, nil
}

// Findings returns the current findings.
func (s *Service) Findings() []ValidationFinding {
	return s.state.Findings()
}

// DismissFinding removes a finding by id.
func (s *Service) DismissFinding(id string) error {
	findings := s.state.Findings()
	for i, f := range findings {
		if f.ID == id {
			s.state.ReplaceFindings(append(findings[:i], findings[i+1:]...))
			return nil
		}
	}
	return fmt.Errorf("finding not found: %q", id)
}
