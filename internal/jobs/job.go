// Package jobs defines the job posting record, its lifecycle and its
// completion scoring.
package jobs

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a job posting.
type Status string

// Lifecycle states. The conversation engine only mutates Draft postings.
const (
	StatusDraft  Status = "rascunho"
	StatusOpen   Status = "aberta"
	StatusPaused Status = "pausada"
	StatusClosed Status = "encerrada"
)

// ContractType is the employment contract vocabulary.
type ContractType string

// Contract types accepted by the coercion layer.
const (
	ContractCLT        ContractType = "CLT"
	ContractPJ         ContractType = "PJ"
	ContractInternship ContractType = "Estagio"
	ContractTemporary  ContractType = "Temporario"
	ContractFreelancer ContractType = "Freelancer"
)

// WorkModel is the on-site/remote vocabulary.
type WorkModel string

// Work models accepted by the coercion layer.
const (
	WorkOnSite WorkModel = "Presencial"
	WorkRemote WorkModel = "Remoto"
	WorkHybrid WorkModel = "Hibrido"
)

// JobPosting is the record progressively completed through conversation.
// List-valued fields are nil when never discussed and an allocated (possibly
// empty) slice when the candidate explicitly answered, so the two cases stay
// distinguishable all the way to the database.
type JobPosting struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenantId"`
	CreatedBy uuid.UUID `json:"createdBy"`

	// Basic info
	Titulo          *string `json:"titulo,omitempty"`
	Descricao       *string `json:"descricao,omitempty"`
	Departamento    *string `json:"departamento,omitempty"`
	QuantidadeVagas *int    `json:"quantidadeVagas,omitempty"`

	// Location and format
	Endereco       *string       `json:"endereco,omitempty"`
	Cidade         *string       `json:"cidade,omitempty"`
	Estado         *string       `json:"estado,omitempty"`
	TipoContrato   *ContractType `json:"tipoContrato,omitempty"`
	ModeloTrabalho *WorkModel    `json:"modeloTrabalho,omitempty"`

	// Requirements
	ExperienciaMinima       *int     `json:"experienciaMinima,omitempty"`
	Formacao                *string  `json:"formacao,omitempty"`
	HabilidadesObrigatorias []string `json:"habilidadesObrigatorias,omitempty"`
	HabilidadesDesejaveis   []string `json:"habilidadesDesejaveis,omitempty"`
	SoftSkills              []string `json:"softSkills,omitempty"`
	Responsabilidades       *string  `json:"responsabilidades,omitempty"`

	// Compensation
	SalarioMin *float64 `json:"salarioMin,omitempty"`
	SalarioMax *float64 `json:"salarioMax,omitempty"`
	Beneficios *string  `json:"beneficios,omitempty"`
	Bonus      *string  `json:"bonus,omitempty"`

	// Hiring process
	EtapasProcesso     []string   `json:"etapasProcesso,omitempty"`
	TiposTeste         []string   `json:"tiposTeste,omitempty"`
	DataInicioPrevista *time.Time `json:"dataInicioPrevista,omitempty"`

	// Narrative
	DescricaoEquipe *string `json:"descricaoEquipe,omitempty"`
	Diferenciais    *string `json:"diferenciais,omitempty"`

	// Control attributes
	ConversationID       uuid.UUID  `json:"conversationId"`
	CompletionPercentage float64    `json:"completionPercentage"`
	Status               Status     `json:"status"`
	Version              int        `json:"version"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
	ClosedAt             *time.Time `json:"closedAt,omitempty"`
}

// New creates a Draft posting with a fresh conversation ID and nothing filled.
func New(tenantID, createdBy uuid.UUID) *JobPosting {
	now := time.Now().UTC()
	return &JobPosting{
		ID:             uuid.New(),
		TenantID:       tenantID,
		CreatedBy:      createdBy,
		ConversationID: uuid.New(),
		Status:         StatusDraft,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsDraft reports whether the conversation engine may mutate this posting.
func (j *JobPosting) IsDraft() bool {
	return j.Status == StatusDraft
}

// ParseStatus parses a status value case-insensitively.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rascunho", "draft":
		return StatusDraft, true
	case "aberta", "open":
		return StatusOpen, true
	case "pausada", "paused":
		return StatusPaused, true
	case "encerrada", "closed":
		return StatusClosed, true
	}
	return "", false
}

// ParseContractType parses a contract type case-insensitively, tolerating
// accented spellings the model tends to produce.
func ParseContractType(s string) (ContractType, bool) {
	switch normalizeEnum(s) {
	case "clt":
		return ContractCLT, true
	case "pj":
		return ContractPJ, true
	case "estagio":
		return ContractInternship, true
	case "temporario":
		return ContractTemporary, true
	case "freelancer", "freela":
		return ContractFreelancer, true
	}
	return "", false
}

// ParseWorkModel parses a work model case-insensitively.
func ParseWorkModel(s string) (WorkModel, bool) {
	switch normalizeEnum(s) {
	case "presencial", "onsite", "on-site":
		return WorkOnSite, true
	case "remoto", "remote":
		return WorkRemote, true
	case "hibrido", "hybrid":
		return WorkHybrid, true
	}
	return "", false
}

// normalizeEnum lowercases and strips the accents that show up in
// Portuguese enum spellings (estágio, temporário, híbrido).
func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer(
		"á", "a", "â", "a", "ã", "a",
		"é", "e", "ê", "e",
		"í", "i",
		"ó", "o", "ô", "o", "õ", "o",
		"ú", "u",
	)
	return replacer.Replace(s)
}
