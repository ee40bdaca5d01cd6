package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/recrutaai/recruta-backend/internal/jobs"
)

// ErrVersionConflict is returned when a save races a concurrent writer and
// loses. Callers reload the posting and retry.
var ErrVersionConflict = errors.New("job posting was modified concurrently")

const jobPostingColumns = `
	id, tenant_id, created_by, conversation_id,
	titulo, descricao, departamento, quantidade_vagas,
	endereco, cidade, estado, tipo_contrato, modelo_trabalho,
	experiencia_minima, formacao,
	habilidades_obrigatorias, habilidades_desejaveis, soft_skills,
	responsabilidades, salario_min, salario_max, beneficios, bonus,
	etapas_processo, tipos_teste, data_inicio_prevista,
	descricao_equipe, diferenciais,
	completion_percentage, status, version, created_at, updated_at, closed_at`

// JobStore persists job postings. It satisfies the conversation engine's
// repository interface.
type JobStore struct {
	db *DB
}

// Jobs returns the job posting store
func (db *DB) Jobs() *JobStore {
	return &JobStore{db: db}
}

// Create inserts a new job posting
func (s *JobStore) Create(ctx context.Context, job *jobs.JobPosting) error {
	query := `
		INSERT INTO job_postings (` + jobPostingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
		        $29, $30, $31, $32, $33, $34)`

	_, err := s.db.pool.Exec(ctx, query,
		job.ID, job.TenantID, job.CreatedBy, job.ConversationID,
		job.Titulo, job.Descricao, job.Departamento, job.QuantidadeVagas,
		job.Endereco, job.Cidade, job.Estado, enumText(job.TipoContrato), enumText(job.ModeloTrabalho),
		job.ExperienciaMinima, job.Formacao,
		StringList(job.HabilidadesObrigatorias), StringList(job.HabilidadesDesejaveis), StringList(job.SoftSkills),
		job.Responsabilidades, job.SalarioMin, job.SalarioMax, job.Beneficios, job.Bonus,
		StringList(job.EtapasProcesso), StringList(job.TiposTeste), job.DataInicioPrevista,
		job.DescricaoEquipe, job.Diferenciais,
		job.CompletionPercentage, string(job.Status), job.Version, job.CreatedAt, job.UpdatedAt, job.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job posting: %w", err)
	}
	return nil
}

// Get retrieves a job posting by ID. Returns nil if not found.
func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*jobs.JobPosting, error) {
	query := `SELECT ` + jobPostingColumns + ` FROM job_postings WHERE id = $1`

	job, err := scanJobPosting(s.db.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return job, nil
}

// Save persists all mutable fields of an existing posting. The WHERE clause
// pins the version read by the caller, so a lost race updates zero rows.
func (s *JobStore) Save(ctx context.Context, job *jobs.JobPosting) error {
	query := `
		UPDATE job_postings SET
			titulo = $1, descricao = $2, departamento = $3, quantidade_vagas = $4,
			endereco = $5, cidade = $6, estado = $7, tipo_contrato = $8, modelo_trabalho = $9,
			experiencia_minima = $10, formacao = $11,
			habilidades_obrigatorias = $12, habilidades_desejaveis = $13, soft_skills = $14,
			responsabilidades = $15, salario_min = $16, salario_max = $17, beneficios = $18, bonus = $19,
			etapas_processo = $20, tipos_teste = $21, data_inicio_prevista = $22,
			descricao_equipe = $23, diferenciais = $24,
			completion_percentage = $25, status = $26, updated_at = $27, closed_at = $28,
			version = version + 1
		WHERE id = $29 AND version = $30`

	tag, err := s.db.pool.Exec(ctx, query,
		job.Titulo, job.Descricao, job.Departamento, job.QuantidadeVagas,
		job.Endereco, job.Cidade, job.Estado, enumText(job.TipoContrato), enumText(job.ModeloTrabalho),
		job.ExperienciaMinima, job.Formacao,
		StringList(job.HabilidadesObrigatorias), StringList(job.HabilidadesDesejaveis), StringList(job.SoftSkills),
		job.Responsabilidades, job.SalarioMin, job.SalarioMax, job.Beneficios, job.Bonus,
		StringList(job.EtapasProcesso), StringList(job.TiposTeste), job.DataInicioPrevista,
		job.DescricaoEquipe, job.Diferenciais,
		job.CompletionPercentage, string(job.Status), job.UpdatedAt, job.ClosedAt,
		job.ID, job.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save job posting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	job.Version++
	return nil
}

// ListFilter narrows List results. Zero values mean no filtering.
type ListFilter struct {
	Status jobs.Status
	Limit  int
	Offset int
}

// List returns a tenant's postings, newest first, with the total count for
// pagination.
func (s *JobStore) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]*jobs.JobPosting, int, error) {
	where := `WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if filter.Status != "" {
		where += ` AND status = $2`
		args = append(args, string(filter.Status))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM job_postings ` + where
	if err := s.db.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count job postings: %w", err)
	}

	query := `SELECT ` + jobPostingColumns + ` FROM job_postings ` + where +
		` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, filter.Limit, filter.Offset)
	}

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list job postings: %w", err)
	}
	defer rows.Close()

	var postings []*jobs.JobPosting
	for rows.Next() {
		job, err := scanJobPosting(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan job posting: %w", err)
		}
		postings = append(postings, job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate job postings: %w", err)
	}
	return postings, total, nil
}

// Delete removes a posting within its tenant. Returns false if nothing matched.
func (s *JobStore) Delete(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	tag, err := s.db.pool.Exec(ctx,
		`DELETE FROM job_postings WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return false, fmt.Errorf("failed to delete job posting: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJobPosting(row rowScanner) (*jobs.JobPosting, error) {
	var (
		job            jobs.JobPosting
		tipoContrato   *string
		modeloTrabalho *string
		status         string
		obrigatorias   StringList
		desejaveis     StringList
		softSkills     StringList
		etapas         StringList
		tiposTeste     StringList
	)

	err := row.Scan(
		&job.ID, &job.TenantID, &job.CreatedBy, &job.ConversationID,
		&job.Titulo, &job.Descricao, &job.Departamento, &job.QuantidadeVagas,
		&job.Endereco, &job.Cidade, &job.Estado, &tipoContrato, &modeloTrabalho,
		&job.ExperienciaMinima, &job.Formacao,
		&obrigatorias, &desejaveis, &softSkills,
		&job.Responsabilidades, &job.SalarioMin, &job.SalarioMax, &job.Beneficios, &job.Bonus,
		&etapas, &tiposTeste, &job.DataInicioPrevista,
		&job.DescricaoEquipe, &job.Diferenciais,
		&job.CompletionPercentage, &status, &job.Version, &job.CreatedAt, &job.UpdatedAt, &job.ClosedAt,
	)
	if err != nil {
		return nil, err
	}

	if tipoContrato != nil {
		ct := jobs.ContractType(*tipoContrato)
		job.TipoContrato = &ct
	}
	if modeloTrabalho != nil {
		wm := jobs.WorkModel(*modeloTrabalho)
		job.ModeloTrabalho = &wm
	}
	job.Status = jobs.Status(status)
	job.HabilidadesObrigatorias = obrigatorias
	job.HabilidadesDesejaveis = desejaveis
	job.SoftSkills = softSkills
	job.EtapasProcesso = etapas
	job.TiposTeste = tiposTeste
	return &job, nil
}

// enumText maps a nilable enum pointer onto a nullable text column.
func enumText[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
