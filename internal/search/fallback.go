package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/SaiManikanta3434/Digitly-ai/internal/core"
	"github.com/SaiManikanta3434/Digitly-ai/internal/schema"
)

// fallbackConfidence is reported by heuristic results so callers can tell
// them apart from model-backed answers.
const fallbackConfidence = 0.4

// FallbackProvider answers queries with local keyword heuristics. It needs
// no configuration and never fails, which makes it both the default when no
// API key is set and the safety net when the real provider errors.
type FallbackProvider struct{}

// NewFallbackProvider creates the heuristic provider.
func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{}
}

// Name returns the provider name.
func (p *FallbackProvider) Name() string {
	return "fallback"
}

// IsAvailable always reports true.
func (p *FallbackProvider) IsAvailable(context.Context) bool {
	return true
}

// comparisonRegex matches phrases like "duration more than 2" or
// "priority >= 4". Group 1 is the field phrase, group 2 the operator
// phrase, group 3 the number.
var comparisonRegex = regexp.MustCompile(
	`(?i)([a-z ]+?)\s*(more than|greater than|at least|over|above|>=|>|less than|fewer than|at most|under|below|<=|<|equal to|equals|=|of|is)\s*(\d+(?:\.\d+)?)`)

// numericFieldNames maps query phrases to the canonical numeric field they
// refer to.
var numericFieldNames = map[string]string{
	"duration":       "Duration",
	"priority":       "Priority",
	"priority level": "PriorityLevel",
	"budget":         "MaxBudget",
	"max budget":     "MaxBudget",
	"rate":           "HourlyRate",
	"hourly rate":    "HourlyRate",
	"load":           "MaxLoadPerPhase",
	"max load":       "MaxLoadPerPhase",
	"concurrent":     "MaxConcurrent",
	"max concurrent": "MaxConcurrent",
}

// Search applies the heuristics in order: a numeric comparison if the query
// contains one, otherwise a keyword scan across every stringified field.
func (p *FallbackProvider) Search(_ context.Context, req Request) (*Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return &Response{
			Explanation: "Empty query matches nothing.",
			Confidence:  fallbackConfidence,
			Source:      p.Name(),
		}, nil
	}

	if resp, ok := p.compareNumeric(query, req); ok {
		return resp, nil
	}
	return p.keywordScan(query, req), nil
}

func (p *FallbackProvider) compareNumeric(query string, req Request) (*Response, bool) {
	m := comparisonRegex.FindStringSubmatch(query)
	if m == nil {
		return nil, false
	}

	field, ok := resolveNumericField(m[1])
	if !ok {
		return nil, false
	}
	cmp := resolveOperator(m[2])
	threshold := parseThreshold(m[3])

	var entities []EntityRef
	forEachRecord(req, func(kind schema.Kind, rec core.Record) {
		v, ok := numericValue(rec.Fields()[field])
		if ok && cmp(v, threshold) {
			entities = append(entities, EntityRef{Kind: kind, ID: rec.ID()})
		}
	})

	return &Response{
		Entities: entities,
		Explanation: fmt.Sprintf("Matched %d record(s) where %s %s %s (keyword heuristic).",
			len(entities), field, strings.TrimSpace(m[2]), m[3]),
		Confidence: fallbackConfidence,
		Source:     p.Name(),
	}, true
}

func (p *FallbackProvider) keywordScan(query string, req Request) *Response {
	terms := significantTerms(query)

	var entities []EntityRef
	forEachRecord(req, func(kind schema.Kind, rec core.Record) {
		if matchesAll(rec, terms) {
			entities = append(entities, EntityRef{Kind: kind, ID: rec.ID()})
		}
	})

	return &Response{
		Entities: entities,
		Explanation: fmt.Sprintf("Matched %d record(s) containing %s (keyword heuristic).",
			len(entities), strings.Join(terms, ", ")),
		Confidence: fallbackConfidence,
		Source:     p.Name(),
	}
}

// forEachRecord visits every record in the kinds the request scopes to.
func forEachRecord(req Request, visit func(schema.Kind, core.Record)) {
	if req.Kind == "" || req.Kind == schema.KindClients {
		for _, c := range req.Dataset.Clients {
			visit(schema.KindClients, c)
		}
	}
	if req.Kind == "" || req.Kind == schema.KindWorkers {
		for _, w := range req.Dataset.Workers {
			visit(schema.KindWorkers, w)
		}
	}
	if req.Kind == "" || req.Kind == schema.KindTasks {
		for _, t := range req.Dataset.Tasks {
			visit(schema.KindTasks, t)
		}
	}
}

func resolveNumericField(phrase string) (string, bool) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	// "rate is at least 40" captures "rate is" as the field phrase.
	for _, filler := range []string{" is", " are", " was"} {
		phrase = strings.TrimSuffix(phrase, filler)
	}
	// Longest suffix wins so "a max budget" resolves to "max budget",
	// not "budget".
	var best string
	for name := range numericFieldNames {
		if strings.HasSuffix(phrase, name) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return "", false
	}
	return numericFieldNames[best], true
}

func resolveOperator(op string) func(v, threshold float64) bool {
	switch strings.ToLower(strings.TrimSpace(op)) {
	case "more than", "greater than", "over", "above", ">":
		return func(v, t float64) bool { return v > t }
	case "at least", ">=":
		return func(v, t float64) bool { return v >= t }
	case "less than", "fewer than", "under", "below", "<":
		return func(v, t float64) bool { return v < t }
	case "at most", "<=":
		return func(v, t float64) bool { return v <= t }
	default:
		return func(v, t float64) bool { return v == t }
	}
}

func parseThreshold(s string) float64 {
	var v float64
	fmt.Sscanf(s, "%g", &v)
	return v
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

var stopwords = map[string]bool{
	"a": true, "all": true, "an": true, "and": true, "any": true,
	"are": true, "find": true, "for": true, "get": true, "have": true,
	"in": true, "is": true, "list": true, "me": true, "of": true,
	"or": true, "show": true, "that": true, "the": true, "to": true,
	"which": true, "with": true,
	"client": true, "clients": true, "worker": true, "workers": true,
	"task": true, "tasks": true,
}

func significantTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	var terms []string
	for _, f := range fields {
		if !stopwords[f] {
			terms = append(terms, f)
		}
	}
	if len(terms) == 0 {
		// All-stopword queries fall back to the raw words.
		terms = fields
	}
	return terms
}

func matchesAll(rec core.Record, terms []string) bool {
	var b strings.Builder
	for _, v := range rec.Fields() {
		fmt.Fprintf(&b, "%v ", v)
	}
	haystack := strings.ToLower(b.String())
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return len(terms) > 0
}
