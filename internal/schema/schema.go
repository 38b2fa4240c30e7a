// Package schema declares the canonical field sets for the three entity
// kinds handled by the import pipeline: clients, workers and tasks.
//
// Declaration order matters. Header mapping resolves ambiguous source
// columns by first match in declaration order, so more specific labels
// must be listed before general ones.
package schema

import "fmt"

// FieldType represents the target semantic type for a canonical field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldInt
	FieldFloat
	FieldTextList
	FieldIntList
	FieldJSON
)

// FieldSpec defines one canonical field of an entity kind.
type FieldSpec struct {
	Name     string    // Canonical field name: "ClientID"
	Label    string    // Human-readable label matched against source headers: "Client ID"
	Type     FieldType // Target type after coercion
	Identity bool      // True for the kind's unique id field
	Fallback float64   // Default substituted when a numeric value fails to parse
}

// Kind identifies one of the three entity kinds.
type Kind string

const (
	KindClients Kind = "clients"
	KindWorkers Kind = "workers"
	KindTasks   Kind = "tasks"
)

// ParseKind validates a kind string from an HTTP path or form field.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindClients, KindWorkers, KindTasks:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown entity kind: %q", s)
	}
}

// Fields returns the canonical field specs for a kind, in declaration order.
func Fields(kind Kind) []FieldSpec {
	switch kind {
	case KindClients:
		return ClientFieldSpecs
	case KindWorkers:
		return WorkerFieldSpecs
	case KindTasks:
		return TaskFieldSpecs
	default:
		return nil
	}
}

// IDField returns the canonical name of the kind's identity field.
func IDField(kind Kind) string {
	for _, spec := range Fields(kind) {
		if spec.Identity {
			return spec.Name
		}
	}
	return ""
}

// Columns returns the canonical field names for a kind, in declaration order.
func Columns(kind Kind) []string {
	specs := Fields(kind)
	cols := make([]string, len(specs))
	for i, spec := range specs {
		cols[i] = spec.Name
	}
	return cols
}
