// Package chat implements the conversational engine that fills a job posting
// from free-text recruiter messages.
package chat

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/recrutaai/recruta-backend/internal/jobs"
)

// ErrJobNotFound indicates the posting does not exist
type ErrJobNotFound struct {
	JobID uuid.UUID
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job posting not found: %s", e.JobID)
}

// ErrInvalidState indicates a conversation operation against a posting that
// is no longer a draft.
type ErrInvalidState struct {
	JobID  uuid.UUID
	Status jobs.Status
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("job posting %s is %s; the conversation only operates on drafts", e.JobID, e.Status)
}

// ErrValidation indicates required fields were missing at finalization
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUpstreamUnavailable indicates the model call failed or timed out. The
// posting is never partially mutated when this is returned.
type ErrUpstreamUnavailable struct {
	Cause error
}

func (e *ErrUpstreamUnavailable) Error() string {
	return "assistant is unavailable"
}

func (e *ErrUpstreamUnavailable) Unwrap() error {
	return e.Cause
}
