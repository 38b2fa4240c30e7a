package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/SaiManikanta3434/Digitly-ai/internal/schema"
)

// OpenAIProvider implements Provider with OpenAI chat completions.
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates an OpenAI-backed provider.
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks the API is reachable with the configured key.
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Search asks the model to match records against the query and parses the
// structured JSON answer. IDs the model invents are dropped so a
// hallucinated answer cannot reference records that do not exist.
func (p *OpenAIProvider) Search(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 1000
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You match records in a dataset against a question and answer with JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(req),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.1,
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	parsed, err := parseModelResponse(content)
	if err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	parsed.Entities = keepKnown(parsed.Entities, req)
	parsed.Source = p.Name()
	parsed.Model = model
	return parsed, nil
}

// parseModelResponse extracts the JSON object from the model's reply. Models
// sometimes wrap JSON in code fences or prose, so the first balanced object
// is taken rather than requiring the whole reply to be JSON.
func parseModelResponse(content string) (*Response, error) {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var parsed Response
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return nil, err
	}
	if parsed.Confidence < 0 {
		parsed.Confidence = 0
	}
	if parsed.Confidence > 1 {
		parsed.Confidence = 1
	}
	return &parsed, nil
}

// keepKnown filters entity refs down to IDs that actually exist in the
// dataset, preserving order.
func keepKnown(refs []EntityRef, req Request) []EntityRef {
	known := map[schema.Kind]map[string]bool{
		schema.KindClients: {},
		schema.KindWorkers: {},
		schema.KindTasks:   {},
	}
	for _, c := range req.Dataset.Clients {
		known[schema.KindClients][c.ClientID] = true
	}
	for _, w := range req.Dataset.Workers {
		known[schema.KindWorkers][w.WorkerID] = true
	}
	for _, t := range req.Dataset.Tasks {
		known[schema.KindTasks][t.TaskID] = true
	}

	kept := make([]EntityRef, 0, len(refs))
	for _, ref := range refs {
		ids, ok := known[ref.Kind]
		if !ok || !ids[ref.ID] {
			continue
		}
		if req.Kind != "" && ref.Kind != req.Kind {
			continue
		}
		kept = append(kept, ref)
	}
	return kept
}
