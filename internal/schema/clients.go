package schema

// ClientFieldSpecs defines the canonical columns for client records.
var ClientFieldSpecs = []FieldSpec{
	{Name: "ClientID", Label: "Client ID", Type: FieldText, Identity: true},
	{Name: "ClientName", Label: "Client Name", Type: FieldText},
	{Name: "PriorityLevel", Label: "Priority Level", Type: FieldInt, Fallback: 1},
	{Name: "RequestedTaskIDs", Label: "Requested Task IDs", Type: FieldTextList},
	{Name: "GroupTag", Label: "Group Tag", Type: FieldText},
	{Name: "PreferredPhases", Label: "Preferred Phases", Type: FieldIntList},
	{Name: "MaxBudget", Label: "Max Budget", Type: FieldFloat, Fallback: 0},
	{Name: "AttributesJSON", Label: "Attributes JSON", Type: FieldJSON},
}
