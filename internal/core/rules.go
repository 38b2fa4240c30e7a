package core

// rules.go defines the six allocation rule kinds and their structural
// validation. Rules are authored in the UI (or distilled from a natural
// language request, recorded in Origin), held in state, and exported as a
// rules-config document. They are never executed here; the allocator that
// consumes the export is a downstream system.

import (
	"fmt"
	"regexp"
	"time"
)

// RuleType tags one of the six rule kinds.
type RuleType string

const (
	RuleCoRun              RuleType = "coRun"
	RuleSlotRestriction    RuleType = "slotRestriction"
	RuleLoadLimit          RuleType = "loadLimit"
	RulePhaseWindow        RuleType = "phaseWindow"
	RulePatternMatch       RuleType = "patternMatch"
	RulePrecedenceOverride RuleType = "precedenceOverride"
)

// Rule is a tagged variant: exactly the parameter struct matching Type must
// be set. Origin carries the user's natural-language request when the rule
// was authored that way.
type Rule struct {
	ID        string    `json:"id"`
	Type      RuleType  `json:"type"`
	Enabled   bool      `json:"enabled"`
	Priority  int       `json:"priority"`
	Origin    string    `json:"origin,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	CoRun              *CoRunParams              `json:"coRun,omitempty"`
	SlotRestriction    *SlotRestrictionParams    `json:"slotRestriction,omitempty"`
	LoadLimit          *LoadLimitParams          `json:"loadLimit,omitempty"`
	PhaseWindow        *PhaseWindowParams        `json:"phaseWindow,omitempty"`
	PatternMatch       *PatternMatchParams       `json:"patternMatch,omitempty"`
	PrecedenceOverride *PrecedenceOverrideParams `json:"precedenceOverride,omitempty"`
}

// CoRunParams requires the listed tasks to run together.
type CoRunParams struct {
	TaskIDs []string `json:"taskIds"`
}

// SlotRestrictionParams requires a minimum number of common slots within a
// client or worker group.
type SlotRestrictionParams struct {
	GroupType      string `json:"groupType"` // "client" or "worker"
	GroupTag       string `json:"groupTag"`
	MinCommonSlots int    `json:"minCommonSlots"`
}

// LoadLimitParams caps per-phase load for a worker group.
type LoadLimitParams struct {
	WorkerGroup      string `json:"workerGroup"`
	MaxSlotsPerPhase int    `json:"maxSlotsPerPhase"`
}

// PhaseWindowParams restricts a task to an allowed phase set.
type PhaseWindowParams struct {
	TaskID        string `json:"taskId"`
	AllowedPhases []int  `json:"allowedPhases"`
}

// PatternMatchParams applies a named rule template to entities whose id
// matches a regular expression.
type PatternMatchParams struct {
	Regex    string            `json:"regex"`
	Template string            `json:"template"`
	Params   map[string]string `json:"params,omitempty"`
}

// PrecedenceOverrideParams fixes an explicit rule ordering, globally or for
// the listed rule ids.
type PrecedenceOverrideParams struct {
	Scope string   `json:"scope"` // "global" or "specific"
	Order []string `json:"order"`
}

// Validate checks the rule structurally: a known type, the matching
// parameter struct present and well-formed, and no stray parameter structs
// from other kinds.
func (r Rule) Validate() error {
	set := 0
	for _, p := range []bool{
		r.CoRun != nil, r.SlotRestriction != nil, r.LoadLimit != nil,
		r.PhaseWindow != nil, r.PatternMatch != nil, r.PrecedenceOverride != nil,
	} {
		if p {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("invalid rule: exactly one parameter block must be set, got %d", set)
	}

	switch r.Type {
	case RuleCoRun:
		if r.CoRun == nil {
			return paramMismatch(r.Type)
		}
		if len(r.CoRun.TaskIDs) < 2 {
			return fmt.Errorf("invalid rule: coRun needs at least two task ids")
		}

	case RuleSlotRestriction:
		if r.SlotRestriction == nil {
			return paramMismatch(r.Type)
		}
		if g := r.SlotRestriction.GroupType; g != "client" && g != "worker" {
			return fmt.Errorf("invalid rule: slotRestriction group type must be client or worker, got %q", g)
		}
		if r.SlotRestriction.GroupTag == "" {
			return fmt.Errorf("invalid rule: slotRestriction needs a group tag")
		}
		if r.SlotRestriction.MinCommonSlots < 1 {
			return fmt.Errorf("invalid rule: slotRestriction minCommonSlots must be positive")
		}

	case RuleLoadLimit:
		if r.LoadLimit == nil {
			return paramMismatch(r.Type)
		}
		if r.LoadLimit.WorkerGroup == "" {
			return fmt.Errorf("invalid rule: loadLimit needs a worker group")
		}
		if r.LoadLimit.MaxSlotsPerPhase < 1 {
			return fmt.Errorf("invalid rule: loadLimit maxSlotsPerPhase must be positive")
		}

	case RulePhaseWindow:
		if r.PhaseWindow == nil {
			return paramMismatch(r.Type)
		}
		if r.PhaseWindow.TaskID == "" {
			return fmt.Errorf("invalid rule: phaseWindow needs a task id")
		}
		if len(r.PhaseWindow.AllowedPhases) == 0 {
			return fmt.Errorf("invalid rule: phaseWindow needs at least one allowed phase")
		}

	case RulePatternMatch:
		if r.PatternMatch == nil {
			return paramMismatch(r.Type)
		}
		if _, err := regexp.Compile(r.PatternMatch.Regex); err != nil {
			return fmt.Errorf("invalid rule: bad pattern: %w", err)
		}
		if r.PatternMatch.Template == "" {
			return fmt.Errorf("invalid rule: patternMatch needs a template name")
		}

	case RulePrecedenceOverride:
		if r.PrecedenceOverride == nil {
			return paramMismatch(r.Type)
		}
		if sc := r.PrecedenceOverride.Scope; sc != "global" && sc != "specific" {
			return fmt.Errorf("invalid rule: precedenceOverride scope must be global or specific, got %q", sc)
		}
		if len(r.PrecedenceOverride.Order) == 0 {
			return fmt.Errorf("invalid rule: precedenceOverride needs an ordering")
		}

	default:
		return fmt.Errorf("unknown rule type: %q", r.Type)
	}

	return nil
}

func paramMismatch(t RuleType) error {
	return fmt.Errorf("invalid rule: type %s set but its parameter block is missing", t)
}

// Weights are the five prioritization weights applied by the downstream
// allocator. They are stored as given; no normalization is enforced and the
// sum need not equal 1.
type Weights struct {
	PriorityLevel   float64 `json:"priorityLevel"`
	TaskFulfillment float64 `json:"taskFulfillment"`
	Fairness        float64 `json:"fairness"`
	WorkloadBalance float64 `json:"workloadBalance"`
	Efficiency      float64 `json:"efficiency"`
}

// DefaultWeights returns the starting weight distribution.
func DefaultWeights() Weights {
	return Weights{
		PriorityLevel:   0.30,
		TaskFulfillment: 0.25,
		Fairness:        0.20,
		WorkloadBalance: 0.15,
		Efficiency:      0.10,
	}
}

// RulesConfig is the exported rules document consumed by the downstream
// allocator: the rule list plus the prioritization weights.
type RulesConfig struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Rules       []Rule    `json:"rules"`
	Weights     Weights   `json:"prioritization"`
}
