package chat

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/recrutaai/recruta-backend/internal/jobs"
	"github.com/recrutaai/recruta-backend/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo is an in-memory JobRepository for tests.
type memoryRepo struct {
	postings map[uuid.UUID]*jobs.JobPosting
	saveErr  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{postings: make(map[uuid.UUID]*jobs.JobPosting)}
}

func (r *memoryRepo) Create(_ context.Context, job *jobs.JobPosting) error {
	cp := *job
	r.postings[job.ID] = &cp
	return nil
}

func (r *memoryRepo) Get(_ context.Context, id uuid.UUID) (*jobs.JobPosting, error) {
	job, ok := r.postings[id]
	if !ok {
		return nil, nil
	}
	cp := *job
	return &cp, nil
}

func (r *memoryRepo) Save(_ context.Context, job *jobs.JobPosting) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *job
	r.postings[job.ID] = &cp
	return nil
}

func newTestReconciler(repo JobRepository) (*Reconciler, *observability.DropLog) {
	drops := observability.NewDropLog(io.Discard)
	return NewReconciler(repo, drops), drops
}

func TestApplyExtractedFields_UpdatesAndScores(t *testing.T) {
	repo := newMemoryRepo()
	rec, _ := newTestReconciler(repo)

	job := newDraft()
	require.NoError(t, repo.Create(context.Background(), job))

	changed, err := rec.ApplyExtractedFields(context.Background(), job, map[string]any{
		"titulo":         "Backend Engineer",
		"tipoContrato":   "CLT",
		"modeloTrabalho": "Remoto",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"modeloTrabalho", "tipoContrato", "titulo"}, changed)
	assert.Equal(t, "Backend Engineer", *job.Titulo)
	assert.Equal(t, jobs.ContractCLT, *job.TipoContrato)
	assert.Equal(t, jobs.WorkRemote, *job.ModeloTrabalho)

	// titulo (2) + tipoContrato (1) + modeloTrabalho (1) of 19 units.
	assert.InDelta(t, 21.05, job.CompletionPercentage, 0.01)

	saved, err := repo.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.CompletionPercentage, saved.CompletionPercentage)
}

func TestApplyExtractedFields_DropsFailuresSilently(t *testing.T) {
	repo := newMemoryRepo()
	rec, drops := newTestReconciler(repo)

	job := newDraft()
	require.NoError(t, repo.Create(context.Background(), job))

	changed, err := rec.ApplyExtractedFields(context.Background(), job, map[string]any{
		"titulo":            "Dev",
		"experienciaMinima": "muitos anos",
		"campoDesconhecido": "valor",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"titulo"}, changed)
	assert.Nil(t, job.ExperienciaMinima)
	assert.Equal(t, 1, drops.Count("experienciaMinima"))
	assert.Equal(t, 1, drops.Count("campoDesconhecido"))
}

func TestApplyExtractedFields_FailedCoercionKeepsPriorValue(t *testing.T) {
	repo := newMemoryRepo()
	rec, _ := newTestReconciler(repo)

	job := newDraft()
	require.NoError(t, repo.Create(context.Background(), job))

	_, err := rec.ApplyExtractedFields(context.Background(), job, map[string]any{"salarioMin": "5000"})
	require.NoError(t, err)
	require.Equal(t, 5000.0, *job.SalarioMin)

	changed, err := rec.ApplyExtractedFields(context.Background(), job, map[string]any{"salarioMin": "not-a-number"})
	require.NoError(t, err)

	assert.Empty(t, changed)
	assert.Equal(t, 5000.0, *job.SalarioMin)
}

func TestApplyExtractedFields_RejectsNonDraft(t *testing.T) {
	repo := newMemoryRepo()
	rec, _ := newTestReconciler(repo)

	job := newDraft()
	job.ChangeStatus(jobs.StatusOpen)
	require.NoError(t, repo.Create(context.Background(), job))

	_, err := rec.ApplyExtractedFields(context.Background(), job, map[string]any{"titulo": "Dev"})

	var invalid *ErrInvalidState
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, job.ID, invalid.JobID)
}

func TestApplyManualFieldEdit(t *testing.T) {
	repo := newMemoryRepo()
	rec, _ := newTestReconciler(repo)

	job := newDraft()
	require.NoError(t, repo.Create(context.Background(), job))

	updated, err := rec.ApplyManualFieldEdit(context.Background(), job.ID, "salarioMin", "5000", "ajuste de faixa")
	require.NoError(t, err)
	require.Equal(t, 5000.0, *updated.SalarioMin)
	firstPct := updated.CompletionPercentage

	// A failed coercion is a no-op on the field value.
	updated, err = rec.ApplyManualFieldEdit(context.Background(), job.ID, "salarioMin", "not-a-number", "")
	require.NoError(t, err)
	assert.Equal(t, 5000.0, *updated.SalarioMin)
	assert.Equal(t, firstPct, updated.CompletionPercentage)
}

func TestApplyManualFieldEdit_NotFound(t *testing.T) {
	repo := newMemoryRepo()
	rec, _ := newTestReconciler(repo)

	_, err := rec.ApplyManualFieldEdit(context.Background(), uuid.New(), "titulo", "Dev", "")

	var notFound *ErrJobNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestManualEditAndConversationPathAgree(t *testing.T) {
	ctx := context.Background()

	repoA := newMemoryRepo()
	recA, _ := newTestReconciler(repoA)
	jobA := newDraft()
	require.NoError(t, repoA.Create(ctx, jobA))
	_, err := recA.ApplyExtractedFields(ctx, jobA, map[string]any{
		"titulo":     "Backend Engineer",
		"salarioMin": "5000",
	})
	require.NoError(t, err)

	repoB := newMemoryRepo()
	recB, _ := newTestReconciler(repoB)
	jobB := newDraft()
	require.NoError(t, repoB.Create(ctx, jobB))
	_, err = recB.ApplyManualFieldEdit(ctx, jobB.ID, "titulo", "Backend Engineer", "")
	require.NoError(t, err)
	updatedB, err := recB.ApplyManualFieldEdit(ctx, jobB.ID, "salarioMin", "5000", "")
	require.NoError(t, err)

	assert.Equal(t, *jobA.Titulo, *updatedB.Titulo)
	assert.Equal(t, *jobA.SalarioMin, *updatedB.SalarioMin)
	assert.Equal(t, jobA.CompletionPercentage, updatedB.CompletionPercentage)
}
