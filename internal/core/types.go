package core

import (
	"strconv"

	"github.com/SaiManikanta3434/Digitly-ai/internal/schema"
)

// RawRow is a source row keyed by canonical field names, produced by header
// normalization. Values are usually strings (CSV/XLSX cells) but may already
// be typed when a row arrives from a JSON edit.
type RawRow map[string]any

// ClientRecord is a fully coerced client row. Every field is defined after
// coercion; unrecognized source columns are kept in Extra under their
// original header names.
type ClientRecord struct {
	ClientID         string            `json:"ClientID"`
	ClientName       string            `json:"ClientName"`
	PriorityLevel    int               `json:"PriorityLevel"`
	RequestedTaskIDs []string          `json:"RequestedTaskIDs"`
	GroupTag         string            `json:"GroupTag"`
	PreferredPhases  []int             `json:"PreferredPhases"`
	MaxBudget        float64           `json:"MaxBudget"`
	AttributesJSON   string            `json:"AttributesJSON"`
	Extra            map[string]string `json:"Extra,omitempty"`
}

// WorkerRecord is a fully coerced worker row.
type WorkerRecord struct {
	WorkerID        string            `json:"WorkerID"`
	WorkerName      string            `json:"WorkerName"`
	Skills          []string          `json:"Skills"`
	AvailableSlots  []int             `json:"AvailableSlots"`
	MaxLoadPerPhase int               `json:"MaxLoadPerPhase"`
	WorkerGroup     string            `json:"WorkerGroup"`
	HourlyRate      float64           `json:"HourlyRate"`
	AttributesJSON  string            `json:"AttributesJSON"`
	Extra           map[string]string `json:"Extra,omitempty"`
}

// TaskRecord is a fully coerced task row.
type TaskRecord struct {
	TaskID          string            `json:"TaskID"`
	TaskName        string            `json:"TaskName"`
	Duration        int               `json:"Duration"`
	RequiredSkills  []string          `json:"RequiredSkills"`
	PreferredPhases []int             `json:"PreferredPhases"`
	Priority        int               `json:"Priority"`
	Dependencies    []string          `json:"Dependencies"`
	MaxConcurrent   int               `json:"MaxConcurrent"`
	AttributesJSON  string            `json:"AttributesJSON"`
	Extra           map[string]string `json:"Extra,omitempty"`
}

// Record is implemented by all three record types. Fields exposes every
// field by name — canonical fields and preserved unknown columns alike — for
// filtering, sorting, search and export.
type Record interface {
	ID() string
	Fields() map[string]any
}

// withExtras folds the unknown-column side-table into a field map. Extra keys
// never collide with canonical names; header normalization would have mapped
// them otherwise.
func withExtras(fields map[string]any, extra map[string]string) map[string]any {
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

func (c ClientRecord) ID() string { return c.ClientID }

func (c ClientRecord) Fields() map[string]any {
	return withExtras(map[string]any{
		"ClientID":         c.ClientID,
		"ClientName":       c.ClientName,
		"PriorityLevel":    c.PriorityLevel,
		"RequestedTaskIDs": c.RequestedTaskIDs,
		"GroupTag":         c.GroupTag,
		"PreferredPhases":  c.PreferredPhases,
		"MaxBudget":        c.MaxBudget,
		"AttributesJSON":   c.AttributesJSON,
	}, c.Extra)
}

func (w WorkerRecord) ID() string { return w.WorkerID }

func (w WorkerRecord) Fields() map[string]any {
	return withExtras(map[string]any{
		"WorkerID":        w.WorkerID,
		"WorkerName":      w.WorkerName,
		"Skills":          w.Skills,
		"AvailableSlots":  w.AvailableSlots,
		"MaxLoadPerPhase": w.MaxLoadPerPhase,
		"WorkerGroup":     w.WorkerGroup,
		"HourlyRate":      w.HourlyRate,
		"AttributesJSON":  w.AttributesJSON,
	}, w.Extra)
}

func (t TaskRecord) ID() string { return t.TaskID }

func (t TaskRecord) Fields() map[string]any {
	return withExtras(map[string]any{
		"TaskID":          t.TaskID,
		"TaskName":        t.TaskName,
		"Duration":        t.Duration,
		"RequiredSkills":  t.RequiredSkills,
		"PreferredPhases": t.PreferredPhases,
		"Priority":        t.Priority,
		"Dependencies":    t.Dependencies,
		"MaxConcurrent":   t.MaxConcurrent,
		"AttributesJSON":  t.AttributesJSON,
	}, t.Extra)
}

// Dataset holds the three coerced record collections.
type Dataset struct {
	Clients []ClientRecord `json:"clients"`
	Workers []WorkerRecord `json:"workers"`
	Tasks   []TaskRecord   `json:"tasks"`
}

// CoercionNote records one best-effort substitution made during coercion:
// which field of which row was malformed, what the source value was, and
// what default replaced it.
type CoercionNote struct {
	Kind        schema.Kind `json:"kind"`
	Row         int         `json:"row"`
	Field       string      `json:"field"`
	Original    string      `json:"original"`
	Substituted string      `json:"substituted"`
}

func (n CoercionNote) String() string {
	return string(n.Kind) + " row " + strconv.Itoa(n.Row) + ": " + n.Field +
		" " + strconv.Quote(n.Original) + " replaced with " + n.Substituted
}

// Severity classifies a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Valid reports whether the severity is one of the three known levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// ValidationFinding references a field of one entity and carries the message
// an external validation collaborator produced for it. Findings live in
// process state only; dismissing one removes it.
type ValidationFinding struct {
	ID           string      `json:"id"`
	Kind         schema.Kind `json:"kind"`
	EntityID     string      `json:"entityId"`
	Field        string      `json:"field"`
	Severity     Severity    `json:"severity"`
	Message      string      `json:"message"`
	SuggestedFix string      `json:"suggestedFix,omitempty"`
	Row          int         `json:"row,omitempty"`
	Column       string      `json:"column,omitempty"`
}
