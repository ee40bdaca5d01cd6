package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/recrutaai/recruta-backend/internal/jobs"
	"github.com/recrutaai/recruta-backend/internal/llm"
	"github.com/recrutaai/recruta-backend/internal/prompts"
)

// TranscriptStore persists conversation turns keyed by conversation ID.
type TranscriptStore interface {
	Append(ctx context.Context, conversationID uuid.UUID, turn Turn) error
	List(ctx context.Context, conversationID uuid.UUID) ([]Turn, error)
}

// StartResult is returned when a new conversation is opened.
type StartResult struct {
	Job              *jobs.JobPosting
	AssistantMessage string
}

// ProcessingResult is returned for each conversational turn.
type ProcessingResult struct {
	Job                  *jobs.JobPosting
	AssistantMessage     string
	UpdatedFieldNames    []string
	IsComplete           bool
	CompletionPercentage float64
}

// Engine is the public surface of the conversational completion core. It
// composes the Orchestrator (model side) with the Reconciler (record side):
// one turn is orchestrate, then reconcile, then report.
type Engine struct {
	orchestrator *Orchestrator
	reconciler   *Reconciler
	repo         JobRepository
	transcripts  TranscriptStore
}

// NewEngine wires the engine from its collaborators.
func NewEngine(model llm.Client, repo JobRepository, transcripts TranscriptStore, reconciler *Reconciler) *Engine {
	return &Engine{
		orchestrator: NewOrchestrator(model),
		reconciler:   reconciler,
		repo:         repo,
		transcripts:  transcripts,
	}
}

// StartConversation creates a fresh Draft posting and opens the dialogue.
// When the caller supplies an opening line it is processed as a normal first
// turn (the model may already extract fields from it); otherwise the fixed
// greeting is returned without a model call.
func (e *Engine) StartConversation(ctx context.Context, tenantID, userID uuid.UUID, initialMessage string) (*StartResult, error) {
	job := jobs.New(tenantID, userID)
	if err := e.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job posting: %w", err)
	}

	if initialMessage == "" {
		greeting := prompts.MustGet("chat.json", "vacancy-intake-greeting")
		if err := e.appendTurn(ctx, job.ConversationID, llm.RoleAssistant, greeting); err != nil {
			return nil, err
		}
		return &StartResult{Job: job, AssistantMessage: greeting}, nil
	}

	result, err := e.processTurn(ctx, job, nil, initialMessage)
	if err != nil {
		return nil, err
	}
	return &StartResult{Job: result.Job, AssistantMessage: result.AssistantMessage}, nil
}

// SendMessage runs one conversational turn against an existing draft.
func (e *Engine) SendMessage(ctx context.Context, jobID uuid.UUID, text string) (*ProcessingResult, error) {
	job, err := e.repo.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &ErrJobNotFound{JobID: jobID}
	}
	if !job.IsDraft() {
		return nil, &ErrInvalidState{JobID: job.ID, Status: job.Status}
	}

	transcript, err := e.transcripts.List(ctx, job.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	return e.processTurn(ctx, job, transcript, text)
}

// EditField overrides one field outside the conversational path.
func (e *Engine) EditField(ctx context.Context, jobID uuid.UUID, field string, rawValue any, note string) (*jobs.JobPosting, error) {
	return e.reconciler.ApplyManualFieldEdit(ctx, jobID, field, rawValue, note)
}

// ImportFields seeds a fresh draft from externally extracted fields. The
// values pass through the same coercion and scoring path as conversational
// extraction, and the draft keeps its conversation open for refinement.
func (e *Engine) ImportFields(ctx context.Context, tenantID, userID uuid.UUID, fields map[string]any) (*jobs.JobPosting, error) {
	job := jobs.New(tenantID, userID)
	if err := e.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job posting: %w", err)
	}
	if _, err := e.reconciler.ApplyExtractedFields(ctx, job, fields); err != nil {
		return nil, err
	}
	return job, nil
}

// CompleteCreation finalizes a posting once the required fields are present.
func (e *Engine) CompleteCreation(ctx context.Context, jobID uuid.UUID, publishImmediately bool) (*jobs.JobPosting, error) {
	job, err := e.repo.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &ErrJobNotFound{JobID: jobID}
	}

	if err := job.CompleteCreation(publishImmediately); err != nil {
		var missing *jobs.ErrMissingRequiredField
		if errors.As(err, &missing) {
			return nil, &ErrValidation{Field: missing.Field, Message: "required field is empty"}
		}
		return nil, err
	}

	if err := e.repo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job posting: %w", err)
	}
	return job, nil
}

// processTurn is the shared turn pipeline: orchestrate the model call, record
// both sides of the exchange, reconcile extracted fields onto the posting.
// The reconciler is only reached after a reply was obtained, so an upstream
// failure never leaves a partial mutation behind.
func (e *Engine) processTurn(ctx context.Context, job *jobs.JobPosting, transcript []Turn, userMessage string) (*ProcessingResult, error) {
	reply, err := e.orchestrator.ProcessMessage(ctx, job, transcript, userMessage)
	if err != nil {
		return nil, err
	}

	if err := e.appendTurn(ctx, job.ConversationID, llm.RoleUser, userMessage); err != nil {
		return nil, err
	}
	if err := e.appendTurn(ctx, job.ConversationID, llm.RoleAssistant, reply.Message); err != nil {
		return nil, err
	}

	changed, err := e.reconciler.ApplyExtractedFields(ctx, job, reply.ExtractedFields)
	if err != nil {
		return nil, err
	}

	return &ProcessingResult{
		Job:                  job,
		AssistantMessage:     reply.Message,
		UpdatedFieldNames:    changed,
		IsComplete:           reply.IsComplete,
		CompletionPercentage: job.CompletionPercentage,
	}, nil
}

func (e *Engine) appendTurn(ctx context.Context, conversationID uuid.UUID, role llm.Role, text string) error {
	turn := Turn{Role: role, Text: text, At: time.Now().UTC()}
	if err := e.transcripts.Append(ctx, conversationID, turn); err != nil {
		return fmt.Errorf("failed to append transcript turn: %w", err)
	}
	return nil
}
