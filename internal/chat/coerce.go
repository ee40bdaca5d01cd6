package chat

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/recrutaai/recruta-backend/internal/jobs"
)

// coercer applies one extracted value to its posting field. It reports
// whether the field was actually updated; a false return means the value
// could not be coerced and the posting is untouched.
type coercer func(j *jobs.JobPosting, v any) bool

// fieldCoercers is the declarative coercion table: one entry per wire field
// name the assistant may emit. Unknown names are not in the table and are
// silently ignored by the reconciler, which keeps the engine tolerant of
// model drift.
var fieldCoercers = map[string]coercer{
	"titulo":          textField(func(j *jobs.JobPosting) **string { return &j.Titulo }),
	"descricao":       textField(func(j *jobs.JobPosting) **string { return &j.Descricao }),
	"departamento":    textField(func(j *jobs.JobPosting) **string { return &j.Departamento }),
	"quantidadeVagas": intField(func(j *jobs.JobPosting) **int { return &j.QuantidadeVagas }),

	"endereco": textField(func(j *jobs.JobPosting) **string { return &j.Endereco }),
	"cidade":   textField(func(j *jobs.JobPosting) **string { return &j.Cidade }),
	"estado":   textField(func(j *jobs.JobPosting) **string { return &j.Estado }),
	"tipoContrato": func(j *jobs.JobPosting, v any) bool {
		ct, ok := jobs.ParseContractType(stringify(v))
		if !ok {
			return false
		}
		j.TipoContrato = &ct
		return true
	},
	"modeloTrabalho": func(j *jobs.JobPosting, v any) bool {
		wm, ok := jobs.ParseWorkModel(stringify(v))
		if !ok {
			return false
		}
		j.ModeloTrabalho = &wm
		return true
	},

	"experienciaMinima":       intField(func(j *jobs.JobPosting) **int { return &j.ExperienciaMinima }),
	"formacao":                textField(func(j *jobs.JobPosting) **string { return &j.Formacao }),
	"habilidadesObrigatorias": listField(func(j *jobs.JobPosting) *[]string { return &j.HabilidadesObrigatorias }),
	"habilidadesDesejaveis":   listField(func(j *jobs.JobPosting) *[]string { return &j.HabilidadesDesejaveis }),
	"softSkills":              listField(func(j *jobs.JobPosting) *[]string { return &j.SoftSkills }),
	"responsabilidades":       textField(func(j *jobs.JobPosting) **string { return &j.Responsabilidades }),

	"salarioMin": decimalField(func(j *jobs.JobPosting) **float64 { return &j.SalarioMin }),
	"salarioMax": decimalField(func(j *jobs.JobPosting) **float64 { return &j.SalarioMax }),
	"beneficios": textField(func(j *jobs.JobPosting) **string { return &j.Beneficios }),
	"bonus":      textField(func(j *jobs.JobPosting) **string { return &j.Bonus }),

	"etapasProcesso": listField(func(j *jobs.JobPosting) *[]string { return &j.EtapasProcesso }),
	"tiposTeste":     listField(func(j *jobs.JobPosting) *[]string { return &j.TiposTeste }),
	"dataInicioPrevista": func(j *jobs.JobPosting, v any) bool {
		d, ok := parseDate(stringify(v))
		if !ok {
			return false
		}
		j.DataInicioPrevista = &d
		return true
	},

	"descricaoEquipe": textField(func(j *jobs.JobPosting) **string { return &j.DescricaoEquipe }),
	"diferenciais":    textField(func(j *jobs.JobPosting) **string { return &j.Diferenciais }),
}

// textField accepts any value's string form directly.
func textField(target func(*jobs.JobPosting) **string) coercer {
	return func(j *jobs.JobPosting, v any) bool {
		s := strings.TrimSpace(stringify(v))
		if s == "" {
			return false
		}
		*target(j) = &s
		return true
	}
}

// intField parses the value's string form as an integer.
func intField(target func(*jobs.JobPosting) **int) coercer {
	return func(j *jobs.JobPosting, v any) bool {
		n, err := strconv.Atoi(strings.TrimSpace(stringify(v)))
		if err != nil {
			return false
		}
		*target(j) = &n
		return true
	}
}

// decimalField parses the value's string form as a decimal number.
func decimalField(target func(*jobs.JobPosting) **float64) coercer {
	return func(j *jobs.JobPosting, v any) bool {
		s := strings.TrimSpace(stringify(v))
		s = strings.ReplaceAll(s, ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false
		}
		*target(j) = &f
		return true
	}
}

// listField stores an ordered list of strings. A scalar value is treated as
// a one-element list.
func listField(target func(*jobs.JobPosting) *[]string) coercer {
	return func(j *jobs.JobPosting, v any) bool {
		var items []string
		switch val := v.(type) {
		case []any:
			items = make([]string, 0, len(val))
			for _, item := range val {
				if s := strings.TrimSpace(stringify(item)); s != "" {
					items = append(items, s)
				}
			}
		case nil:
			return false
		default:
			s := strings.TrimSpace(stringify(val))
			if s == "" {
				return false
			}
			items = []string{s}
		}
		*target(j) = items
		return true
	}
}

// stringify renders an extracted value in its string form. Values reaching
// this point have already been normalized by the parser, so only scalars and
// their list elements show up here.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// dateLayouts are tried in order when coercing expected start dates. The
// model is instructed to emit ISO dates but recruiters type Brazilian ones.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
