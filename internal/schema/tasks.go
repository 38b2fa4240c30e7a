package schema

// TaskFieldSpecs defines the canonical columns for task records.
var TaskFieldSpecs = []FieldSpec{
	{Name: "TaskID", Label: "Task ID", Type: FieldText, Identity: true},
	{Name: "TaskName", Label: "Task Name", Type: FieldText},
	{Name: "Duration", Label: "Duration", Type: FieldInt, Fallback: 1},
	{Name: "RequiredSkills", Label: "Required Skills", Type: FieldTextList},
	{Name: "PreferredPhases", Label: "Preferred Phases", Type: FieldIntList},
	{Name: "Priority", Label: "Priority", Type: FieldInt, Fallback: 1},
	{Name: "Dependencies", Label: "Dependencies", Type: FieldTextList},
	{Name: "MaxConcurrent", Label: "Max Concurrent", Type: FieldInt, Fallback: 1},
	{Name: "AttributesJSON", Label: "Attributes JSON", Type: FieldJSON},
}
