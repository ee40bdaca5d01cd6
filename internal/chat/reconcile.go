package chat

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/recrutaai/recruta-backend/internal/jobs"
	"github.com/recrutaai/recruta-backend/internal/observability"
)

// JobRepository is the persistence collaborator for postings. Save must
// reject stale writes by comparing the posting's version counter.
type JobRepository interface {
	Create(ctx context.Context, job *jobs.JobPosting) error
	Get(ctx context.Context, id uuid.UUID) (*jobs.JobPosting, error)
	Save(ctx context.Context, job *jobs.JobPosting) error
}

// Reconciler applies extracted field updates to a posting through the
// coercion table and keeps the completion percentage in sync. Both the
// conversational path and the manual edit path go through it, so the two can
// never disagree about what a given percentage means.
type Reconciler struct {
	repo  JobRepository
	drops *observability.DropLog
}

// NewReconciler creates a Reconciler.
func NewReconciler(repo JobRepository, drops *observability.DropLog) *Reconciler {
	return &Reconciler{repo: repo, drops: drops}
}

// ApplyExtractedFields coerces each named value onto the posting, recomputes
// completion, and persists. Unknown field names and failed coercions are
// dropped silently (logged, never escalated) and excluded from the returned
// changed-field list. The posting must be a draft.
func (r *Reconciler) ApplyExtractedFields(ctx context.Context, job *jobs.JobPosting, fields map[string]any) ([]string, error) {
	if !job.IsDraft() {
		return nil, &ErrInvalidState{JobID: job.ID, Status: job.Status}
	}

	changed := r.apply(job, fields)
	if err := r.finalize(ctx, job); err != nil {
		return nil, err
	}
	return changed, nil
}

// ApplyManualFieldEdit overrides a single field outside the conversational
// path. It reuses the same coercion table and scorer as the chat flow. The
// optional note is only logged; there is no audit trail.
func (r *Reconciler) ApplyManualFieldEdit(ctx context.Context, jobID uuid.UUID, field string, rawValue any, note string) (*jobs.JobPosting, error) {
	job, err := r.repo.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &ErrJobNotFound{JobID: jobID}
	}

	r.apply(job, map[string]any{field: rawValue})
	if note != "" {
		log.Printf("[manual-edit] job=%s field=%s note=%q", job.ID, field, note)
	}
	if err := r.finalize(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// apply runs the coercion table over the updates and returns the names of
// fields that actually changed, sorted for stable client output.
func (r *Reconciler) apply(job *jobs.JobPosting, fields map[string]any) []string {
	changed := make([]string, 0, len(fields))
	for name, value := range fields {
		coerce, known := fieldCoercers[name]
		if !known {
			r.drops.Record(job.ConversationID.String(), name, "unknown_field", value)
			continue
		}
		if !coerce(job, value) {
			r.drops.Record(job.ConversationID.String(), name, "coercion_failed", value)
			continue
		}
		changed = append(changed, name)
	}
	sort.Strings(changed)
	return changed
}

// finalize recomputes completion from the checklist, stamps the update time
// and persists. The scorer is the single source of truth: whatever
// percentage the model reported is discarded here.
func (r *Reconciler) finalize(ctx context.Context, job *jobs.JobPosting) error {
	job.CompletionPercentage = jobs.Score(job)
	job.UpdatedAt = time.Now().UTC()
	if err := r.repo.Save(ctx, job); err != nil {
		return fmt.Errorf("failed to save job posting: %w", err)
	}
	return nil
}
