package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/recrutaai/recruta-backend/internal/chat"
	"github.com/recrutaai/recruta-backend/internal/db"
	"github.com/recrutaai/recruta-backend/internal/importer"
	"github.com/recrutaai/recruta-backend/internal/jobs"
	"github.com/recrutaai/recruta-backend/internal/server/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine is a scripted ConversationEngine for handler tests.
type stubEngine struct {
	startResult   *chat.StartResult
	processResult *chat.ProcessingResult
	job           *jobs.JobPosting
	err           error
}

func (e *stubEngine) StartConversation(_ context.Context, _, _ uuid.UUID, _ string) (*chat.StartResult, error) {
	return e.startResult, e.err
}

func (e *stubEngine) SendMessage(_ context.Context, _ uuid.UUID, _ string) (*chat.ProcessingResult, error) {
	return e.processResult, e.err
}

func (e *stubEngine) EditField(_ context.Context, _ uuid.UUID, _ string, _ any, _ string) (*jobs.JobPosting, error) {
	return e.job, e.err
}

func (e *stubEngine) CompleteCreation(_ context.Context, _ uuid.UUID, _ bool) (*jobs.JobPosting, error) {
	return e.job, e.err
}

func (e *stubEngine) ImportFields(_ context.Context, _, _ uuid.UUID, _ map[string]any) (*jobs.JobPosting, error) {
	return e.job, e.err
}

// stubJobs is an in-memory JobDirectory for handler tests.
type stubJobs struct {
	postings map[uuid.UUID]*jobs.JobPosting
	saveErr  error
}

func newStubJobs(postings ...*jobs.JobPosting) *stubJobs {
	s := &stubJobs{postings: make(map[uuid.UUID]*jobs.JobPosting)}
	for _, job := range postings {
		s.postings[job.ID] = job
	}
	return s
}

func (s *stubJobs) Get(_ context.Context, id uuid.UUID) (*jobs.JobPosting, error) {
	return s.postings[id], nil
}

func (s *stubJobs) Save(_ context.Context, job *jobs.JobPosting) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.postings[job.ID] = job
	return nil
}

func (s *stubJobs) List(_ context.Context, tenantID uuid.UUID, filter db.ListFilter) ([]*jobs.JobPosting, int, error) {
	var out []*jobs.JobPosting
	for _, job := range s.postings {
		if job.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		out = append(out, job)
	}
	return out, len(out), nil
}

func (s *stubJobs) Delete(_ context.Context, tenantID, id uuid.UUID) (bool, error) {
	job, ok := s.postings[id]
	if !ok || job.TenantID != tenantID {
		return false, nil
	}
	delete(s.postings, id)
	return true, nil
}

// stubImporter is a scripted VacancyExtractor.
type stubImporter struct {
	extraction *importer.Extraction
	err        error
}

func (i *stubImporter) ExtractFromURL(_ context.Context, _ string) (*importer.Extraction, error) {
	return i.extraction, i.err
}

func newHandlerTestServer(engine ConversationEngine, jobsDir JobDirectory, extractor VacancyExtractor) *Server {
	return &Server{
		engine:    engine,
		jobs:      jobsDir,
		importer:  extractor,
		validator: validator.New(),
	}
}

func authedRequest(method, target, body string, userID, tenantID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(middleware.WithIdentity(req.Context(), userID, tenantID))
}

func TestHandleStartConversation(t *testing.T) {
	tenantID := uuid.New()
	job := jobs.New(tenantID, uuid.New())
	engine := &stubEngine{startResult: &chat.StartResult{
		Job:              job,
		AssistantMessage: "Olá! Qual é o título do cargo?",
	}}
	srv := newHandlerTestServer(engine, newStubJobs(), nil)

	req := authedRequest(http.MethodPost, "/jobs/conversations", `{"message":""}`, uuid.New(), tenantID)
	w := httptest.NewRecorder()
	srv.handleStartConversation(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp ConversationResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, job.ID, resp.Job.ID)
	assert.Equal(t, "Olá! Qual é o título do cargo?", resp.AssistantMessage)
}

func TestHandleStartConversation_Unauthenticated(t *testing.T) {
	srv := newHandlerTestServer(&stubEngine{}, newStubJobs(), nil)

	req := httptest.NewRequest(http.MethodPost, "/jobs/conversations", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	srv.handleStartConversation(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleSendMessage(t *testing.T) {
	tenantID := uuid.New()
	job := jobs.New(tenantID, uuid.New())
	engine := &stubEngine{processResult: &chat.ProcessingResult{
		Job:                  job,
		AssistantMessage:     "E a descrição?",
		UpdatedFieldNames:    []string{"titulo"},
		CompletionPercentage: 10.53,
	}}
	srv := newHandlerTestServer(engine, newStubJobs(job), nil)

	req := authedRequest(http.MethodPost, "/jobs/"+job.ID.String()+"/messages",
		`{"message":"Vaga de Backend Engineer"}`, uuid.New(), tenantID)
	req.SetPathValue("id", job.ID.String())
	w := httptest.NewRecorder()
	srv.handleSendMessage(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ConversationResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []string{"titulo"}, resp.UpdatedFields)
	assert.InDelta(t, 10.53, resp.CompletionPercentage, 0.001)
}

func TestHandleSendMessage_EmptyMessageRejected(t *testing.T) {
	tenantID := uuid.New()
	job := jobs.New(tenantID, uuid.New())
	srv := newHandlerTestServer(&stubEngine{}, newStubJobs(job), nil)

	req := authedRequest(http.MethodPost, "/jobs/"+job.ID.String()+"/messages",
		`{"message":""}`, uuid.New(), tenantID)
	req.SetPathValue("id", job.ID.String())
	w := httptest.NewRecorder()
	srv.handleSendMessage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSendMessage_OtherTenantReadsAsNotFound(t *testing.T) {
	job := jobs.New(uuid.New(), uuid.New())
	srv := newHandlerTestServer(&stubEngine{}, newStubJobs(job), nil)

	req := authedRequest(http.MethodPost, "/jobs/"+job.ID.String()+"/messages",
		`{"message":"oi"}`, uuid.New(), uuid.New())
	req.SetPathValue("id", job.ID.String())
	w := httptest.NewRecorder()
	srv.handleSendMessage(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSendMessage_UpstreamFailure(t *testing.T) {
	tenantID := uuid.New()
	job := jobs.New(tenantID, uuid.New())
	engine := &stubEngine{err: &chat.ErrUpstreamUnavailable{Cause: errors.New("deadline exceeded")}}
	srv := newHandlerTestServer(engine, newStubJobs(job), nil)

	req := authedRequest(http.MethodPost, "/jobs/"+job.ID.String()+"/messages",
		`{"message":"oi"}`, uuid.New(), tenantID)
	req.SetPathValue("id", job.ID.String())
	w := httptest.NewRecorder()
	srv.handleSendMessage(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	// The upstream cause stays out of the response body.
	assert.NotContains(t, w.Body.String(), "deadline exceeded")
}

func TestHandleEditField(t *testing.T) {
	tenantID := uuid.New()
	job := jobs.New(tenantID, uuid.New())
	titulo := "Backend Engineer"
	updated := *job
	updated.Titulo = &titulo
	engine := &stubEngine{job: &updated}
	srv := newHandlerTestServer(engine, newStubJobs(job), nil)

	req := authedRequest(http.MethodPatch, "/jobs/"+job.ID.String()+"/fields/titulo",
		`{"value":"Backend Engineer"}`, uuid.New(), tenantID)
	req.SetPathValue("id", job.ID.String())
	req.SetPathValue("field", "titulo")
	w := httptest.NewRecorder()
	srv.handleEditField(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp jobs.JobPosting
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Backend Engineer", *resp.Titulo)
}

func TestHandleCompleteCreation_ValidationError(t *testing.T) {
	tenantID := uuid.New()
	job := jobs.New(tenantID, uuid.New())
	engine := &stubEngine{err: &chat.ErrValidation{Field: "descricao", Message: "required field is empty"}}
	srv := newHandlerTestServer(engine, newStubJobs(job), nil)

	req := authedRequest(http.MethodPost, "/jobs/"+job.ID.String()+"/complete",
		`{"publish":true}`, uuid.New(), tenantID)
	req.SetPathValue("id", job.ID.String())
	w := httptest.NewRecorder()
	srv.handleCompleteCreation(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "descricao")
}
