package jobs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteCreation(t *testing.T) {
	tests := []struct {
		name       string
		titulo     *string
		descricao  *string
		publish    bool
		wantErr    bool
		wantStatus Status
	}{
		{
			name:       "Publish immediately",
			titulo:     strPtr("Backend Engineer"),
			descricao:  strPtr("Build services"),
			publish:    true,
			wantStatus: StatusOpen,
		},
		{
			name:       "Save as draft",
			titulo:     strPtr("Backend Engineer"),
			descricao:  strPtr("Build services"),
			publish:    false,
			wantStatus: StatusDraft,
		},
		{
			name:    "Missing description",
			titulo:  strPtr("Backend Engineer"),
			wantErr: true,
		},
		{
			name:      "Missing title",
			descricao: strPtr("Build services"),
			wantErr:   true,
		},
		{
			name:      "Whitespace-only title",
			titulo:    strPtr("   "),
			descricao: strPtr("Build services"),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := New(uuid.New(), uuid.New())
			j.Titulo = tt.titulo
			j.Descricao = tt.descricao

			err := j.CompleteCreation(tt.publish)
			if tt.wantErr {
				require.Error(t, err)
				var missing *ErrMissingRequiredField
				assert.ErrorAs(t, err, &missing)
				assert.Equal(t, StatusDraft, j.Status)
				assert.Equal(t, 0.0, j.CompletionPercentage)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, j.Status)
			assert.Equal(t, 100.0, j.CompletionPercentage)
		})
	}
}

func TestChangeStatus_ClosedStampsTimestamp(t *testing.T) {
	j := New(uuid.New(), uuid.New())
	require.Nil(t, j.ClosedAt)

	j.ChangeStatus(StatusClosed)
	require.NotNil(t, j.ClosedAt)
	first := *j.ClosedAt

	// Closing an already closed posting keeps the original timestamp.
	j.ChangeStatus(StatusClosed)
	assert.Equal(t, first, *j.ClosedAt)
}

func TestChangeStatus_PermissiveTransitions(t *testing.T) {
	j := New(uuid.New(), uuid.New())

	j.ChangeStatus(StatusOpen)
	assert.Equal(t, StatusOpen, j.Status)

	j.ChangeStatus(StatusPaused)
	assert.Equal(t, StatusPaused, j.Status)

	j.ChangeStatus(StatusOpen)
	assert.Equal(t, StatusOpen, j.Status)

	// No guard exists on reopening a closed posting.
	j.ChangeStatus(StatusClosed)
	j.ChangeStatus(StatusOpen)
	assert.Equal(t, StatusOpen, j.Status)
}

func TestParseEnums(t *testing.T) {
	tests := []struct {
		in   string
		want ContractType
		ok   bool
	}{
		{"CLT", ContractCLT, true},
		{"clt", ContractCLT, true},
		{"  pj  ", ContractPJ, true},
		{"Estágio", ContractInternship, true},
		{"estagio", ContractInternship, true},
		{"Temporário", ContractTemporary, true},
		{"freelancer", ContractFreelancer, true},
		{"vitalicio", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseContractType(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	wm, ok := ParseWorkModel("HÍBRIDO")
	assert.True(t, ok)
	assert.Equal(t, WorkHybrid, wm)

	_, ok = ParseWorkModel("lunar")
	assert.False(t, ok)

	st, ok := ParseStatus("Encerrada")
	assert.True(t, ok)
	assert.Equal(t, StatusClosed, st)
}
