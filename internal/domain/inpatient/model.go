package inpatient

import (
	"math"
	"strings"
	"time"
)

// PatientRef identifies the admitted patient.
type PatientRef struct {
	ID             int64      `json:"id"`
	Nome           string     `json:"nome"`
	DataNascimento *time.Time `json:"dataNascimento"`
	Sexo           *string    `json:"sexo"`
	Foto           *string    `json:"foto"`
}

// ClinicianRef identifies the requesting professional, when one is linked.
type ClinicianRef struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

// FacilityRef identifies the health unit holding the admission.
type FacilityRef struct {
	ID        int64  `json:"id"`
	Descricao string `json:"descricao"`
}

// PostRef and WardRef carry nullable fields: a bed can exist without a
// ward or post linked, and the payload keeps the null ids in that case.
type PostRef struct {
	ID        *int64  `json:"id"`
	Descricao *string `json:"descricao"`
}

type WardRef struct {
	ID        *int64  `json:"id"`
	Descricao *string `json:"descricao"`
}

// Bed is the occupied bed with its post/ward placement. Numero is the
// dotted post.ward.bed label shown on the dashboard.
type Bed struct {
	ID         int64   `json:"id"`
	Numero     string  `json:"numero"`
	Descricao  *string `json:"descricao"`
	Posto      PostRef `json:"posto"`
	Enfermaria WardRef `json:"enfermaria"`
}

type SpecialtyRef struct {
	ID        int64  `json:"id"`
	Descricao string `json:"descricao"`
}

type ProcedureRef struct {
	ID              int64  `json:"id"`
	Descricao       string `json:"descricao"`
	DiasPermanencia *int   `json:"diaspermanencia"`
}

// PostedCharge is a confirmed charge posted against the admission.
type PostedCharge struct {
	ID         int64     `json:"id"`
	Descricao  string    `json:"descricao"`
	Quantidade float64   `json:"quantidade"`
	DataHora   time.Time `json:"datahora"`
}

// Admission is one currently admitted patient as served on the roster.
type Admission struct {
	PkAtendimento            int64          `json:"pkatendimento"`
	Paciente                 PatientRef     `json:"paciente"`
	Medico                   *ClinicianRef  `json:"medico"`
	UnidadeSaude             FacilityRef    `json:"unidadeSaude"`
	Leito                    *Bed           `json:"leito"`
	Especialidade            *SpecialtyRef  `json:"especialidade"`
	Procedimento             *ProcedureRef  `json:"procedimento"`
	DataEntrada              time.Time      `json:"dataEntrada"`
	DiasInternado            int            `json:"diasInternado"`
	QueixaPrincipal          *string        `json:"queixaPrincipal"`
	ProcedimentosLancados    []PostedCharge `json:"procedimentosLancados"`
	QuantidadeExamesAnatomia int            `json:"quantidadeExamesAnatomia"`
}

// SpecialtyCount is one slice of the specialty distribution indicator.
type SpecialtyCount struct {
	Especialidade string `json:"especialidade"`
	Quantidade    int    `json:"quantidade"`
}

// Indicators summarizes the filtered admission set.
type Indicators struct {
	TotalPacientes             int              `json:"totalPacientes"`
	MediaDias                  float64          `json:"mediaDias"`
	OcupacaoLeitos             float64          `json:"ocupacaoLeitos"`
	DistribuicaoEspecialidades []SpecialtyCount `json:"distribuicaoEspecialidades"`
}

// admissionRow is the flat scan target for one roster row. Nullable
// columns come in as pointers and the mapping functions below shape the
// nested record.
type admissionRow struct {
	PkAtendimento   int64
	PacienteID      int64
	Paciente        string
	DataNascimento  *time.Time
	Sexo            *string
	Foto            *string
	MedicoID        *int64
	Medico          *string
	UnidadeID       int64
	Unidade         string
	LeitoID         *int64
	CodLeito        *string
	EnfermariaID    *int64
	Enfermaria      *string
	PostoID         *int64
	Posto           *string
	EspecialidadeID *int64
	Especialidade   *string
	ProcedimentoID  *int64
	Procedimento    *string
	DiasPermanencia *int
	DataEntrada     time.Time
	QueixaPrincipal *string
}

func (r *admissionRow) toAdmission() *Admission {
	a := &Admission{
		PkAtendimento: r.PkAtendimento,
		Paciente: PatientRef{
			ID:             r.PacienteID,
			Nome:           r.Paciente,
			DataNascimento: r.DataNascimento,
			Sexo:           r.Sexo,
			Foto:           r.Foto,
		},
		UnidadeSaude:    FacilityRef{ID: r.UnidadeID, Descricao: r.Unidade},
		DataEntrada:     r.DataEntrada,
		QueixaPrincipal: r.QueixaPrincipal,
	}
	a.Medico = r.clinician()
	a.Leito = r.bed()
	a.Especialidade = r.specialty()
	a.Procedimento = r.procedure()
	return a
}

func (r *admissionRow) clinician() *ClinicianRef {
	if r.MedicoID == nil {
		return nil
	}
	var nome string
	if r.Medico != nil {
		nome = *r.Medico
	}
	return &ClinicianRef{ID: *r.MedicoID, Nome: nome}
}

func (r *admissionRow) bed() *Bed {
	if r.LeitoID == nil {
		return nil
	}
	return &Bed{
		ID:         *r.LeitoID,
		Numero:     bedLabel(r.Posto, r.Enfermaria, r.CodLeito),
		Descricao:  r.CodLeito,
		Posto:      PostRef{ID: r.PostoID, Descricao: r.Posto},
		Enfermaria: WardRef{ID: r.EnfermariaID, Descricao: r.Enfermaria},
	}
}

func (r *admissionRow) specialty() *SpecialtyRef {
	if r.EspecialidadeID == nil {
		return nil
	}
	var descricao string
	if r.Especialidade != nil {
		descricao = *r.Especialidade
	}
	return &SpecialtyRef{ID: *r.EspecialidadeID, Descricao: descricao}
}

func (r *admissionRow) procedure() *ProcedureRef {
	if r.ProcedimentoID == nil {
		return nil
	}
	var descricao string
	if r.Procedimento != nil {
		descricao = *r.Procedimento
	}
	return &ProcedureRef{ID: *r.ProcedimentoID, Descricao: descricao, DiasPermanencia: r.DiasPermanencia}
}

// bedLabel builds the post.ward.bed display label, with empty segments
// for missing pieces.
func bedLabel(posto, enfermaria, codLeito *string) string {
	seg := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return strings.Join([]string{seg(posto), seg(enfermaria), seg(codLeito)}, ".")
}

// daysAdmitted is the whole number of days elapsed since admission,
// floored.
func daysAdmitted(entrada, now time.Time) int {
	return int(math.Floor(now.Sub(entrada).Hours() / 24))
}
