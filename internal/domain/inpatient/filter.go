package inpatient

import (
	"fmt"
	"net/url"
	"strconv"
)

// InvalidFilterError reports a filter parameter that is present but does
// not hold a positive integer identifier. The message is what the client
// receives.
type InvalidFilterError struct {
	Param   string
	Message string
}

func (e *InvalidFilterError) Error() string { return e.Message }

// Filter holds the optional admission filters. A nil field means the
// filter was not supplied.
type Filter struct {
	MedicoID        *int64
	PacienteID      *int64
	UnidadeID       *int64
	PostoID         *int64
	EspecialidadeID *int64
	ProcedimentoID  *int64
}

type filterParam struct {
	name    string
	message string
	dest    func(f *Filter, id int64)
}

var filterParams = []filterParam{
	{"medicoId", "ID do médico inválido", func(f *Filter, id int64) { f.MedicoID = &id }},
	{"pacienteId", "ID do paciente inválido", func(f *Filter, id int64) { f.PacienteID = &id }},
	{"unidadeId", "ID da unidade inválido", func(f *Filter, id int64) { f.UnidadeID = &id }},
	{"postoId", "ID do posto inválido", func(f *Filter, id int64) { f.PostoID = &id }},
	{"especialidadeId", "ID da especialidade inválido", func(f *Filter, id int64) { f.EspecialidadeID = &id }},
	{"procedimentoId", "ID do procedimento inválido", func(f *Filter, id int64) { f.ProcedimentoID = &id }},
}

// ParseFilter reads the known filter parameters from the query string.
// Any present parameter that is not a positive integer aborts parsing
// with an InvalidFilterError naming that parameter.
func ParseFilter(q url.Values) (*Filter, error) {
	var f Filter
	for _, p := range filterParams {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, &InvalidFilterError{Param: p.name, Message: p.message}
		}
		p.dest(&f, id)
	}
	return &f, nil
}

// Conditions renders the filter as AND conditions with positional
// placeholders starting at firstArg, along with the bound arguments.
// The clinician filter matches either the attending or the requesting
// professional and binds a single argument for both columns.
func (f *Filter) Conditions(firstArg int) ([]string, []interface{}) {
	var conds []string
	var args []interface{}
	n := firstArg

	add := func(cond string, arg interface{}) {
		conds = append(conds, cond)
		args = append(args, arg)
		n++
	}

	if f.MedicoID != nil {
		add(fmt.Sprintf("(a.fkprofissionalatendimento = $%d OR a.fkprofissionalsolicitante = $%d)", n, n), *f.MedicoID)
	}
	if f.PacienteID != nil {
		add(fmt.Sprintf("a.fkpaciente = $%d", n), *f.PacienteID)
	}
	if f.UnidadeID != nil {
		add(fmt.Sprintf("a.fkunidadesaude = $%d", n), *f.UnidadeID)
	}
	if f.PostoID != nil {
		add(fmt.Sprintf("po.pkposto = $%d", n), *f.PostoID)
	}
	if f.EspecialidadeID != nil {
		add(fmt.Sprintf("a.fkespecialidade = $%d", n), *f.EspecialidadeID)
	}
	if f.ProcedimentoID != nil {
		add(fmt.Sprintf("a.fkprocedimentosolicitado = $%d", n), *f.ProcedimentoID)
	}
	return conds, args
}
