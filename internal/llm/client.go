// Package llm provides the chat completion client used by the conversational
// job posting engine.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Role identifies the author of a chat message.
type Role string

// Chat roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn handed to the model, in chronological order.
type ChatMessage struct {
	Role Role
	Text string
}

// CompleteOptions controls a single completion call.
type CompleteOptions struct {
	// ResponseFormat is "json" or "text". The model may ignore it and wrap
	// JSON in prose; callers must tolerate that.
	ResponseFormat  string
	Temperature     float32
	MaxOutputTokens int32
}

// Usage reports token consumption for one call.
type Usage struct {
	TotalTokens int32
}

// Completion is the raw model reply.
type Completion struct {
	Text  string
	Usage Usage
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete runs one chat completion over the given ordered messages
	Complete(ctx context.Context, messages []ChatMessage, opts CompleteOptions) (*Completion, error)
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Complete runs one chat completion. System messages become the model's
// system instruction; the last message is sent against the remaining history
// so the provider sees the full transcript in order.
func (c *GeminiClient) Complete(ctx context.Context, messages []ChatMessage, opts CompleteOptions) (*Completion, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}

	modelName := c.config.GetModel(TierStandard)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured")
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(opts.Temperature)
	if opts.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(opts.MaxOutputTokens)
	}
	if opts.ResponseFormat == "json" {
		model.ResponseMIMEType = "application/json"
	}

	system, turns := splitSystem(messages)
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}
	if len(turns) == 0 {
		return nil, fmt.Errorf("at least one non-system message is required")
	}

	session := model.StartChat()
	last := turns[len(turns)-1]
	for _, m := range turns[:len(turns)-1] {
		session.History = append(session.History, &genai.Content{
			Role:  geminiRole(m.Role),
			Parts: []genai.Part{genai.Text(m.Text)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(last.Text))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, err
	}

	completion := &Completion{Text: text}
	if resp.UsageMetadata != nil {
		completion.Usage.TotalTokens = resp.UsageMetadata.TotalTokenCount
	}
	return completion, nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// splitSystem concatenates system messages into one instruction block and
// returns the remaining conversational turns.
func splitSystem(messages []ChatMessage) (string, []ChatMessage) {
	var system []string
	turns := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Text)
			continue
		}
		turns = append(turns, m)
	}
	return strings.Join(system, "\n\n"), turns
}

func geminiRole(r Role) string {
	if r == RoleAssistant {
		return "model"
	}
	return "user"
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
