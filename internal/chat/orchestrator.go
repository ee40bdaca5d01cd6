package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/recrutaai/recruta-backend/internal/jobs"
	"github.com/recrutaai/recruta-backend/internal/llm"
	"github.com/recrutaai/recruta-backend/internal/prompts"
)

// Model call settings. Low temperature keeps the extraction consistent; the
// output cap bounds cost per turn.
const (
	completionTemperature     = 0.2
	completionMaxOutputTokens = 1024
)

// Turn is one message of a conversation transcript, ordered by timestamp.
type Turn struct {
	Role llm.Role  `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Orchestrator drives one request/response cycle of the assistant dialogue.
// It never mutates the posting itself; its output feeds the Reconciler, which
// keeps reconciliation unit-testable without a live model.
type Orchestrator struct {
	model llm.Client
}

// NewOrchestrator creates an Orchestrator over the given model client.
func NewOrchestrator(model llm.Client) *Orchestrator {
	return &Orchestrator{model: model}
}

// ProcessMessage assembles the prompt for one turn (system instructions,
// snapshot of already-filled fields, prior transcript, new user message),
// invokes the model and parses its reply. Model failures surface as
// ErrUpstreamUnavailable; malformed replies never do (see ParseAssistantReply).
func (o *Orchestrator) ProcessMessage(ctx context.Context, job *jobs.JobPosting, transcript []Turn, userMessage string) (*ParsedReply, error) {
	if !job.IsDraft() {
		return nil, &ErrInvalidState{JobID: job.ID, Status: job.Status}
	}

	messages := make([]llm.ChatMessage, 0, len(transcript)+3)
	messages = append(messages, llm.ChatMessage{
		Role: llm.RoleSystem,
		Text: prompts.MustGet("chat.json", "vacancy-intake-system"),
	})
	if snapshot := fieldSnapshot(job); snapshot != "" {
		messages = append(messages, llm.ChatMessage{
			Role: llm.RoleSystem,
			Text: prompts.Format(prompts.MustGet("chat.json", "vacancy-intake-snapshot"), map[string]string{
				"Snapshot": snapshot,
			}),
		})
	}
	for _, turn := range transcript {
		messages = append(messages, llm.ChatMessage{Role: turn.Role, Text: turn.Text})
	}
	messages = append(messages, llm.ChatMessage{Role: llm.RoleUser, Text: userMessage})

	completion, err := o.model.Complete(ctx, messages, llm.CompleteOptions{
		ResponseFormat:  "json",
		Temperature:     completionTemperature,
		MaxOutputTokens: completionMaxOutputTokens,
	})
	if err != nil {
		return nil, &ErrUpstreamUnavailable{Cause: err}
	}

	return ParseAssistantReply(completion.Text), nil
}

// controlAttributes are record keys excluded from the prompt snapshot; they
// mean nothing to the model and would only burn tokens.
var controlAttributes = map[string]bool{
	"id":                   true,
	"tenantId":             true,
	"createdBy":            true,
	"conversationId":       true,
	"completionPercentage": true,
	"status":               true,
	"version":              true,
	"createdAt":            true,
	"updatedAt":            true,
	"closedAt":             true,
}

// fieldSnapshot renders the posting's non-empty semantic fields as compact
// JSON so the model does not re-ask answered questions. Returns "" when
// nothing is filled yet.
func fieldSnapshot(job *jobs.JobPosting) string {
	raw, err := json.Marshal(job)
	if err != nil {
		return ""
	}
	var full map[string]any
	if err := json.Unmarshal(raw, &full); err != nil {
		return ""
	}
	for key := range full {
		if controlAttributes[key] {
			delete(full, key)
		}
	}
	if len(full) == 0 {
		return ""
	}
	snapshot, err := json.Marshal(full)
	if err != nil {
		return ""
	}
	return string(snapshot)
}
