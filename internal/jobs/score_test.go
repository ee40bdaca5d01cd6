package jobs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string     { return &s }
func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestScore_EmptyPosting(t *testing.T) {
	j := New(uuid.New(), uuid.New())
	assert.Equal(t, 0.0, Score(j))
}

func TestScore_TitleAndDescriptionWeighDouble(t *testing.T) {
	j := New(uuid.New(), uuid.New())
	j.Titulo = strPtr("Backend Engineer")
	j.Descricao = strPtr("Build APIs")

	// 4 of 19 weight units filled
	assert.InDelta(t, 21.05, Score(j), 0.01)
}

func TestScore_SingleCheckpointWeight(t *testing.T) {
	j := New(uuid.New(), uuid.New())
	j.Departamento = strPtr("Engineering")

	// 1 of 19 weight units
	assert.InDelta(t, 5.26, Score(j), 0.01)
}

func TestScore_Idempotent(t *testing.T) {
	j := New(uuid.New(), uuid.New())
	j.Titulo = strPtr("Dev")
	j.Cidade = strPtr("São Paulo")

	first := Score(j)
	second := Score(j)
	assert.Equal(t, first, second)
}

func TestScore_MonotonicAsCheckpointsFill(t *testing.T) {
	j := New(uuid.New(), uuid.New())
	prev := Score(j)

	fill := []func(){
		func() { j.Titulo = strPtr("Backend Engineer") },
		func() { j.Descricao = strPtr("Build and operate services") },
		func() { j.Departamento = strPtr("Engineering") },
		func() { j.QuantidadeVagas = intPtr(2) },
		func() { ct := ContractCLT; j.TipoContrato = &ct },
		func() { wm := WorkRemote; j.ModeloTrabalho = &wm },
		func() { j.Cidade = strPtr("Recife") },
		func() { j.ExperienciaMinima = intPtr(3) },
		func() { j.Formacao = strPtr("Ciência da Computação") },
		func() { j.HabilidadesObrigatorias = []string{"Go"} },
		func() { j.HabilidadesDesejaveis = []string{"Kubernetes"} },
		func() { j.SoftSkills = []string{"Comunicação"} },
		func() { j.Responsabilidades = strPtr("Manter APIs") },
		func() { j.SalarioMin = floatPtr(8000) },
		func() { j.Beneficios = strPtr("VR, VA, plano de saúde") },
		func() { j.EtapasProcesso = []string{"Triagem", "Entrevista"} },
		func() { d := time.Now(); j.DataInicioPrevista = &d },
	}

	for _, f := range fill {
		f()
		got := Score(j)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}

	assert.Equal(t, 100.0, prev)
}

func TestScore_ZeroHeadcountDoesNotCount(t *testing.T) {
	j := New(uuid.New(), uuid.New())
	j.QuantidadeVagas = intPtr(0)
	assert.Equal(t, 0.0, Score(j))
}

func TestScore_SalaryRangeCountsOnce(t *testing.T) {
	onlyMin := New(uuid.New(), uuid.New())
	onlyMin.SalarioMin = floatPtr(5000)

	both := New(uuid.New(), uuid.New())
	both.SalarioMin = floatPtr(5000)
	both.SalarioMax = floatPtr(9000)

	assert.Equal(t, Score(onlyMin), Score(both))
}
