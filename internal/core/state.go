package core

// state.go holds the process-wide application state: the current dataset,
// the rule list, the prioritization weights and any validation findings.
//
// All updates are whole-collection replacement (a new slice swapped in, the
// old one discarded). Nothing mutates a published collection in place, so
// readers holding a snapshot never observe a torn update.

import (
	"sync"
)

// State is the single in-memory store behind the HTTP layer. The zero value
// is not usable; construct with NewState.
type State struct {
	mu       sync.RWMutex
	dataset  Dataset
	rules    []Rule
	weights  Weights
	findings []ValidationFinding
}

// NewState returns an empty state with default prioritization weights.
func NewState() *State {
	return &State{weights: DefaultWeights()}
}

// ReplaceDataset swaps in a new dataset wholesale.
func (s *State) ReplaceDataset(ds Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = ds
}

// Dataset returns a shallow snapshot of the current dataset. The returned
// slices are copies; callers may not mutate the records they contain.
func (s *State) Dataset() Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Dataset{
		Clients: append([]ClientRecord(nil), s.dataset.Clients...),
		Workers: append([]WorkerRecord(nil), s.dataset.Workers...),
		Tasks:   append([]TaskRecord(nil), s.dataset.Tasks...),
	}
}

// ReplaceClients swaps in a new client collection, leaving the other kinds
// untouched.
func (s *State) ReplaceClients(recs []ClientRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset.Clients = recs
}

// ReplaceWorkers swaps in a new worker collection.
func (s *State) ReplaceWorkers(recs []WorkerRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset.Workers = recs
}

// ReplaceTasks swaps in a new task collection.
func (s *State) ReplaceTasks(recs []TaskRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset.Tasks = recs
}

// Rules returns a copy of the current rule list.
func (s *State) Rules() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Rule(nil), s.rules...)
}

// ReplaceRules swaps in a new rule list wholesale.
func (s *State) ReplaceRules(rules []Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = rules
}

// Weights returns the current prioritization weights.
func (s *State) Weights() Weights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weights
}

// SetWeights replaces the prioritization weights.
func (s *State) SetWeights(w Weights) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights = w
}

// Findings returns a copy of the current validation findings.
func (s *State) Findings() []ValidationFinding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ValidationFinding(nil), s.findings...)
}

// ReplaceFindings swaps in a new findings list wholesale.
func (s *State) ReplaceFindings(findings []ValidationFinding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findings = findings
}
