package schema

// WorkerFieldSpecs defines the canonical columns for worker records.
var WorkerFieldSpecs = []FieldSpec{
	{Name: "WorkerID", Label: "Worker ID", Type: FieldText, Identity: true},
	{Name: "WorkerName", Label: "Worker Name", Type: FieldText},
	{Name: "Skills", Label: "Skills", Type: FieldTextList},
	{Name: "AvailableSlots", Label: "Available Slots", Type: FieldIntList},
	{Name: "MaxLoadPerPhase", Label: "Max Load Per Phase", Type: FieldInt, Fallback: 1},
	{Name: "WorkerGroup", Label: "Worker Group", Type: FieldText},
	{Name: "HourlyRate", Label: "Hourly Rate", Type: FieldFloat, Fallback: 0},
	{Name: "AttributesJSON", Label: "Attributes JSON", Type: FieldJSON},
}
