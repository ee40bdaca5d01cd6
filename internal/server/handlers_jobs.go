package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/recrutaai/recruta-backend/internal/db"
	"github.com/recrutaai/recruta-backend/internal/importer"
	"github.com/recrutaai/recruta-backend/internal/jobs"
)

// JobDirectory is the persistence surface the job posting handlers depend on.
type JobDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*jobs.JobPosting, error)
	Save(ctx context.Context, job *jobs.JobPosting) error
	List(ctx context.Context, tenantID uuid.UUID, filter db.ListFilter) ([]*jobs.JobPosting, int, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}

// VacancyExtractor extracts posting fields from vacancy pages on the web.
type VacancyExtractor interface {
	ExtractFromURL(ctx context.Context, url string) (*importer.Extraction, error)
}

// ListJobPostingsResponse represents the response for listing job postings
type ListJobPostingsResponse struct {
	Postings []*jobs.JobPosting `json:"postings"`
	Count    int                `json:"count"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

// ChangeStatusRequest represents the request body for lifecycle transitions
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ImportJobRequest represents the request body for importing a vacancy page
type ImportJobRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// ImportJobResponse represents the response for an imported vacancy
type ImportJobResponse struct {
	Job     *jobs.JobPosting `json:"job"`
	Summary string           `json:"summary,omitempty"`
}

// handleListJobPostings lists the tenant's postings with optional filters and pagination
func (s *Server) handleListJobPostings(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := s.identity(w, r)
	if !ok {
		return
	}

	limit := parseQueryInt(r, "limit", 50, 100)
	offset := parseQueryInt(r, "offset", 0, 0)
	filter := db.ListFilter{Limit: limit, Offset: offset}

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status, valid := jobs.ParseStatus(statusStr)
		if !valid {
			s.errorResponse(w, http.StatusBadRequest, "Invalid status")
			return
		}
		filter.Status = status
	}

	postings, total, err := s.jobs.List(r.Context(), tenantID, filter)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.jsonResponse(w, http.StatusOK, ListJobPostingsResponse{
		Postings: postings,
		Count:    total,
		Limit:    limit,
		Offset:   offset,
	})
}

// handleGetJobPosting retrieves one posting by its ID
func (s *Server) handleGetJobPosting(w http.ResponseWriter, r *http.Request) {
	job, ok := s.tenantJob(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleChangeStatus applies a lifecycle transition to a posting
func (s *Server) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.tenantJob(w, r)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status, valid := jobs.ParseStatus(req.Status)
	if !valid {
		s.errorResponse(w, http.StatusBadRequest, "Invalid status")
		return
	}

	job.ChangeStatus(status)
	if err := s.jobs.Save(r.Context(), job); err != nil {
		s.engineErrorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleDeleteJobPosting removes a posting from the tenant
func (s *Server) handleDeleteJobPosting(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := s.identity(w, r)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job posting ID")
		return
	}

	deleted, err := s.jobs.Delete(r.Context(), tenantID, jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Job posting not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleImportJob seeds a draft posting from an existing vacancy page
func (s *Server) handleImportJob(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := s.identity(w, r)
	if !ok {
		return
	}

	var req ImportJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	extraction, err := s.importer.ExtractFromURL(r.Context(), req.URL)
	if err != nil {
		var fetchErr *importer.FetchError
		if errors.As(err, &fetchErr) {
			s.errorResponse(w, http.StatusBadGateway, fetchErr.Message)
			return
		}
		s.engineErrorResponse(w, err)
		return
	}

	job, err := s.engine.ImportFields(r.Context(), tenantID, userID, extraction.Fields)
	if err != nil {
		s.engineErrorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, ImportJobResponse{
		Job:     job,
		Summary: extraction.Summary,
	})
}

// parseQueryInt parses an integer query parameter with a default and an
// optional maximum (0 means unbounded).
func parseQueryInt(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return def
	}
	if max > 0 && value > max {
		return max
	}
	return value
}
