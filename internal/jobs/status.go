package jobs

import (
	"strings"
	"time"
)

// CompleteCreation finalizes a Draft posting. Title and description are the
// only hard requirements; everything else may be filled later through the
// manual edit path. Completion is forced to 100 because the caller has
// declared the posting done regardless of optional checkpoints.
func (j *JobPosting) CompleteCreation(publishImmediately bool) error {
	if isBlank(j.Titulo) {
		return &ErrMissingRequiredField{Field: "titulo"}
	}
	if isBlank(j.Descricao) {
		return &ErrMissingRequiredField{Field: "descricao"}
	}

	j.CompletionPercentage = 100
	if publishImmediately {
		j.Status = StatusOpen
	}
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// ChangeStatus applies an arbitrary transition. Transitions are deliberately
// permissive outside the conversation flow; the only extra behavior is
// stamping ClosedAt when entering the terminal Closed state.
func (j *JobPosting) ChangeStatus(newStatus Status) {
	now := time.Now().UTC()
	if newStatus == StatusClosed && j.Status != StatusClosed {
		j.ClosedAt = &now
	}
	j.Status = newStatus
	j.UpdatedAt = now
}

// ErrMissingRequiredField indicates finalization was attempted with a
// required field still empty.
type ErrMissingRequiredField struct {
	Field string
}

func (e *ErrMissingRequiredField) Error() string {
	return "required field is empty: " + e.Field
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
