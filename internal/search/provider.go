// Package search answers natural-language questions about the in-memory
// dataset. A Provider turns a query plus a dataset summary into a set of
// matching entity references; the OpenAI-backed provider does this with a
// chat completion, and a keyword fallback keeps search working when no
// provider is configured or the provider fails.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/SaiManikanta3434/Digitly-ai/internal/core"
	"github.com/SaiManikanta3434/Digitly-ai/internal/schema"
)

// Provider is implemented by search backends.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Search resolves a natural-language query against the dataset.
	Search(ctx context.Context, req Request) (*Response, error)

	// IsAvailable reports whether the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// Request carries the query and the data it runs against.
type Request struct {
	// Query is the user's natural-language question.
	Query string

	// Kind optionally scopes the search to one entity kind. Empty means
	// all three kinds.
	Kind schema.Kind

	// Dataset is a snapshot of the current data.
	Dataset core.Dataset

	// Model overrides the provider's configured model.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// EntityRef identifies one matched record.
type EntityRef struct {
	Kind schema.Kind `json:"kind"`
	ID   string      `json:"id"`
}

// Response is a resolved search result.
type Response struct {
	// Entities are the records the query matched, best first.
	Entities []EntityRef `json:"entities"`

	// Explanation says why these records matched, in plain language.
	Explanation string `json:"explanation"`

	// Confidence is the provider's self-assessed match quality in [0,1].
	// Fallback results report lowered confidence.
	Confidence float64 `json:"confidence"`

	// Source names the backend that produced the result ("openai",
	// "fallback").
	Source string `json:"source"`

	// Model is the model that generated the response, if any.
	Model string `json:"model,omitempty"`
}

// Config holds search provider configuration.
type Config struct {
	// Provider name: "openai" or "" (fallback only).
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for OpenAI.
	APIKey string

	// BaseURL for custom endpoints.
	BaseURL string

	// Timeout in seconds for API requests.
	Timeout int

	// MaxTokens for response generation.
	MaxTokens int

	// CacheTTL in seconds for response caching.
	CacheTTL int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Timeout:   30,
		MaxTokens: 1000,
		CacheTTL:  120,
	}
}

// BuildPrompt renders the query and a compact dataset summary into the
// prompt sent to the model. Only IDs and a few salient fields go in; the
// model must answer with IDs from the summary, never invented ones.
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString(`You answer questions about a resource-allocation dataset of clients, workers and tasks.

RULES:
1. Respond with ONLY a JSON object: {"entities":[{"kind":"...","id":"..."}],"explanation":"...","confidence":0.0}
2. "kind" must be one of: clients, workers, tasks.
3. "id" must be an ID that appears in the data below. Never invent IDs.
4. If nothing matches, return an empty entities array and explain why.
5. "confidence" is your match quality from 0.0 to 1.0.

`)
	fmt.Fprintf(&b, "Question: %s\n\nData:\n", req.Query)

	if req.Kind == "" || req.Kind == schema.KindClients {
		writeSection(&b, "clients", summarizeClients(req.Dataset.Clients))
	}
	if req.Kind == "" || req.Kind == schema.KindWorkers {
		writeSection(&b, "workers", summarizeWorkers(req.Dataset.Workers))
	}
	if req.Kind == "" || req.Kind == schema.KindTasks {
		writeSection(&b, "tasks", summarizeTasks(req.Dataset.Tasks))
	}

	return b.String()
}

// summaryRowLimit caps how many rows of each kind go into the prompt.
const summaryRowLimit = 200

func writeSection(b *strings.Builder, name string, lines []string) {
	fmt.Fprintf(b, "%s (%d):\n", name, len(lines))
	for i, line := range lines {
		if i >= summaryRowLimit {
			fmt.Fprintf(b, "... and %d more\n", len(lines)-summaryRowLimit)
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
}

func summarizeClients(clients []core.ClientRecord) []string {
	lines := make([]string, 0, len(clients))
	for _, c := range clients {
		lines = append(lines, fmt.Sprintf("- %s | name=%s priority=%d tasks=%s group=%s budget=%g",
			c.ClientID, c.ClientName, c.PriorityLevel,
			strings.Join(c.RequestedTaskIDs, ","), c.GroupTag, c.MaxBudget))
	}
	return lines
}

func summarizeWorkers(workers []core.WorkerRecord) []string {
	lines := make([]string, 0, len(workers))
	for _, w := range workers {
		lines = append(lines, fmt.Sprintf("- %s | name=%s skills=%s slots=%s maxload=%d group=%s rate=%g",
			w.WorkerID, w.WorkerName, strings.Join(w.Skills, ","),
			joinInts(w.AvailableSlots), w.MaxLoadPerPhase, w.WorkerGroup, w.HourlyRate))
	}
	return lines
}

func summarizeTasks(tasks []core.TaskRecord) []string {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("- %s | name=%s duration=%d skills=%s phases=%s priority=%d maxconcurrent=%d",
			t.TaskID, t.TaskName, t.Duration, strings.Join(t.RequiredSkills, ","),
			joinInts(t.PreferredPhases), t.Priority, t.MaxConcurrent))
	}
	return lines
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ",")
}
