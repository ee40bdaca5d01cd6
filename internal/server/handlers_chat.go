package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/recrutaai/recruta-backend/internal/chat"
	"github.com/recrutaai/recruta-backend/internal/jobs"
	"github.com/recrutaai/recruta-backend/internal/server/middleware"
)

// ConversationEngine is the conversational completion surface the handlers
// depend on.
type ConversationEngine interface {
	StartConversation(ctx context.Context, tenantID, userID uuid.UUID, initialMessage string) (*chat.StartResult, error)
	SendMessage(ctx context.Context, jobID uuid.UUID, text string) (*chat.ProcessingResult, error)
	EditField(ctx context.Context, jobID uuid.UUID, field string, rawValue any, note string) (*jobs.JobPosting, error)
	CompleteCreation(ctx context.Context, jobID uuid.UUID, publishImmediately bool) (*jobs.JobPosting, error)
	ImportFields(ctx context.Context, tenantID, userID uuid.UUID, fields map[string]any) (*jobs.JobPosting, error)
}

// StartConversationRequest represents the request body for opening a conversation
type StartConversationRequest struct {
	Message string `json:"message"`
}

// ConversationResponse represents the response for conversation endpoints
type ConversationResponse struct {
	Job                  *jobs.JobPosting `json:"job"`
	AssistantMessage     string           `json:"assistantMessage"`
	UpdatedFields        []string         `json:"updatedFields,omitempty"`
	IsComplete           bool             `json:"isComplete"`
	CompletionPercentage float64          `json:"completionPercentage"`
}

// SendMessageRequest represents the request body for a conversational turn
type SendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// EditFieldRequest represents the request body for a manual field override
type EditFieldRequest struct {
	Value any    `json:"value"`
	Note  string `json:"note,omitempty"`
}

// CompleteCreationRequest represents the request body for finalizing a draft
type CompleteCreationRequest struct {
	Publish bool `json:"publish"`
}

// handleStartConversation opens a new draft posting and its conversation
func (s *Server) handleStartConversation(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := s.identity(w, r)
	if !ok {
		return
	}

	var req StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.engine.StartConversation(r.Context(), tenantID, userID, req.Message)
	if err != nil {
		s.engineErrorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, ConversationResponse{
		Job:                  result.Job,
		AssistantMessage:     result.AssistantMessage,
		CompletionPercentage: result.Job.CompletionPercentage,
	})
}

// handleSendMessage runs one conversational turn against a draft
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	job, ok := s.tenantJob(w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result, err := s.engine.SendMessage(r.Context(), job.ID, req.Message)
	if err != nil {
		s.engineErrorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ConversationResponse{
		Job:                  result.Job,
		AssistantMessage:     result.AssistantMessage,
		UpdatedFields:        result.UpdatedFieldNames,
		IsComplete:           result.IsComplete,
		CompletionPercentage: result.CompletionPercentage,
	})
}

// handleEditField overrides one field outside the conversational path
func (s *Server) handleEditField(w http.ResponseWriter, r *http.Request) {
	job, ok := s.tenantJob(w, r)
	if !ok {
		return
	}

	field := r.PathValue("field")
	if field == "" {
		s.errorResponse(w, http.StatusBadRequest, "Field name is required")
		return
	}

	var req EditFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := s.engine.EditField(r.Context(), job.ID, field, req.Value, req.Note)
	if err != nil {
		s.engineErrorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleCompleteCreation finalizes a draft, optionally publishing it
func (s *Server) handleCompleteCreation(w http.ResponseWriter, r *http.Request) {
	job, ok := s.tenantJob(w, r)
	if !ok {
		return
	}

	var req CompleteCreationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	completed, err := s.engine.CompleteCreation(r.Context(), job.ID, req.Publish)
	if err != nil {
		s.engineErrorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, completed)
}

// identity extracts the authenticated user and tenant from the request.
func (s *Server) identity(w http.ResponseWriter, r *http.Request) (userID, tenantID uuid.UUID, ok bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	tenantID, err = middleware.GetTenantID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, tenantID, true
}

// tenantJob loads the posting addressed by the request path and verifies it
// belongs to the caller's tenant. Postings of other tenants read as not found.
func (s *Server) tenantJob(w http.ResponseWriter, r *http.Request) (*jobs.JobPosting, bool) {
	_, tenantID, ok := s.identity(w, r)
	if !ok {
		return nil, false
	}

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job posting ID")
		return nil, false
	}

	job, err := s.jobs.Get(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	if job == nil || job.TenantID != tenantID {
		s.errorResponse(w, http.StatusNotFound, "Job posting not found")
		return nil, false
	}
	return job, true
}

// engineErrorResponse maps engine errors onto HTTP statuses
func (s *Server) engineErrorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	s.errorResponse(w, status, publicErrorMessage(err, status))
}
