package jobs

import "math"

// Checkpoint weights. Title and description dominate because a posting
// without them is unpublishable; every other checkpoint is informational.
const (
	weightTitle       = 2
	weightDescription = 2
	weightDefault     = 1
)

// Score computes the completion percentage of a posting from a fixed
// weighted checklist. It is pure: two calls without an intervening mutation
// return the same value, and filling an additional checkpoint never lowers
// the result. The assistant reports its own percentage during conversation,
// but that number is only a phrasing hint; this function is authoritative.
func Score(j *JobPosting) float64 {
	type checkpoint struct {
		weight int
		filled bool
	}

	checks := []checkpoint{
		{weightTitle, !isBlank(j.Titulo)},
		{weightDescription, !isBlank(j.Descricao)},
		{weightDefault, !isBlank(j.Departamento)},
		{weightDefault, j.QuantidadeVagas != nil && *j.QuantidadeVagas > 0},
		{weightDefault, j.TipoContrato != nil},
		{weightDefault, j.ModeloTrabalho != nil},
		{weightDefault, !isBlank(j.Endereco) || !isBlank(j.Cidade)},
		{weightDefault, j.ExperienciaMinima != nil},
		{weightDefault, !isBlank(j.Formacao)},
		{weightDefault, len(j.HabilidadesObrigatorias) > 0},
		{weightDefault, len(j.HabilidadesDesejaveis) > 0},
		{weightDefault, len(j.SoftSkills) > 0},
		{weightDefault, !isBlank(j.Responsabilidades)},
		{weightDefault, j.SalarioMin != nil || j.SalarioMax != nil},
		{weightDefault, !isBlank(j.Beneficios)},
		{weightDefault, len(j.EtapasProcesso) > 0},
		{weightDefault, j.DataInicioPrevista != nil},
	}

	var filled, total int
	for _, c := range checks {
		total += c.weight
		if c.filled {
			filled += c.weight
		}
	}

	pct := math.Round(100*float64(filled)/float64(total)*100) / 100
	return math.Min(pct, 100)
}
