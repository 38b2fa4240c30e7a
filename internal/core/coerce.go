package core

// coerce.go turns canonically-keyed raw rows into typed records.
//
// Coercion is total: every declared field of the output record is defined,
// even when the source row omitted or mangled it. Malformed scalars take the
// per-field default declared in the schema and are reported as coercion
// notes; malformed list pieces are dropped silently. A row with no usable id
// gets a synthesized "temp-<index>" identity.

import (
	"fmt"

	"github.com/SaiManikanta3434/Digitly-ai/internal/schema"
)

// coercer accumulates substitution notes while coercing one collection.
type coercer struct {
	kind  schema.Kind
	row   int
	notes []CoercionNote
}

func (c *coercer) intField(raw RawRow, name string, fallback int) int {
	v, substituted := toInt(raw[name], fallback)
	if substituted {
		c.note(name, stringify(raw[name]), fmt.Sprintf("%d", fallback))
	}
	return v
}

func (c *coercer) floatField(raw RawRow, name string, fallback float64) float64 {
	v, substituted := toFloat(raw[name], fallback)
	if substituted {
		c.note(name, stringify(raw[name]), fmt.Sprintf("%g", fallback))
	}
	return v
}

func (c *coercer) note(field, original, substituted string) {
	c.notes = append(c.notes, CoercionNote{
		Kind:        c.kind,
		Row:         c.row,
		Field:       field,
		Original:    original,
		Substituted: substituted,
	})
}

// identity returns the row's id value, synthesizing "temp-<index>" when the
// id field is absent or empty.
func (c *coercer) identity(raw RawRow, idField string) string {
	if id := toText(raw[idField]); id != "" {
		return id
	}
	return fmt.Sprintf("temp-%d", c.row)
}

// extras collects source columns that mapped to no canonical field.
func extras(raw RawRow, kind schema.Kind) map[string]string {
	known := make(map[string]bool)
	for _, spec := range schema.Fields(kind) {
		known[spec.Name] = true
	}

	var out map[string]string
	for key, v := range raw {
		if known[key] {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[key] = toText(v)
	}
	return out
}

// CoerceClients converts raw client rows into typed records plus the notes
// describing every default substitution that was applied.
func CoerceClients(rows []RawRow) ([]ClientRecord, []CoercionNote) {
	c := &coercer{kind: schema.KindClients}
	out := make([]ClientRecord, 0, len(rows))

	for i, raw := range rows {
		c.row = i
		out = append(out, ClientRecord{
			ClientID:         c.identity(raw, "ClientID"),
			ClientName:       toText(raw["ClientName"]),
			PriorityLevel:    c.intField(raw, "PriorityLevel", 1),
			RequestedTaskIDs: toStringList(raw["RequestedTaskIDs"]),
			GroupTag:         toText(raw["GroupTag"]),
			PreferredPhases:  toIntList(raw["PreferredPhases"]),
			MaxBudget:        c.floatField(raw, "MaxBudget", 0),
			AttributesJSON:   toText(raw["AttributesJSON"]),
			Extra:            extras(raw, schema.KindClients),
		})
	}

	return out, c.notes
}

// CoerceWorkers converts raw worker rows into typed records.
func CoerceWorkers(rows []RawRow) ([]WorkerRecord, []CoercionNote) {
	c := &coercer{kind: schema.KindWorkers}
	out := make([]WorkerRecord, 0, len(rows))

	for i, raw := range rows {
		c.row = i
		out = append(out, WorkerRecord{
			WorkerID:        c.identity(raw, "WorkerID"),
			WorkerName:      toText(raw["WorkerName"]),
			Skills:          toStringList(raw["Skills"]),
			AvailableSlots:  toIntList(raw["AvailableSlots"]),
			MaxLoadPerPhase: c.intField(raw, "MaxLoadPerPhase", 1),
			WorkerGroup:     toText(raw["WorkerGroup"]),
			HourlyRate:      c.floatField(raw, "HourlyRate", 0),
			AttributesJSON:  toText(raw["AttributesJSON"]),
			Extra:           extras(raw, schema.KindWorkers),
		})
	}

	return out, c.notes
}

// CoerceTasks converts raw task rows into typed records.
func CoerceTasks(rows []RawRow) ([]TaskRecord, []CoercionNote) {
	c := &coercer{kind: schema.KindTasks}
	out := make([]TaskRecord, 0, len(rows))

	for i, raw := range rows {
		c.row = i
		out = append(out, TaskRecord{
			TaskID:          c.identity(raw, "TaskID"),
			TaskName:        toText(raw["TaskName"]),
			Duration:        c.intField(raw, "Duration", 1),
			RequiredSkills:  toStringList(raw["RequiredSkills"]),
			PreferredPhases: toIntList(raw["PreferredPhases"]),
			Priority:        c.intField(raw, "Priority", 1),
			Dependencies:    toStringList(raw["Dependencies"]),
			MaxConcurrent:   c.intField(raw, "MaxConcurrent", 1),
			AttributesJSON:  toText(raw["AttributesJSON"]),
			Extra:           extras(raw, schema.KindTasks),
		})
	}

	return out, c.notes
}
