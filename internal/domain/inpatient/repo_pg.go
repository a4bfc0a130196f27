package inpatient

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

// Admissions of type 2 (inpatient) still open and active.
const baseWhere = `a.fktipoatendimento = 2
	AND a.datasaida IS NULL
	AND a.ativo = true`

// Bed placement joins shared by the roster and the aggregates. The post
// filter reaches po.pkposto through this chain.
const placementJoins = `
	LEFT JOIN sotech.cdg_leito l ON l.pkleito = a.fkleito
	LEFT JOIN sotech.cdg_enfermaria en ON en.pkenfermaria = l.fkenfermaria
	LEFT JOIN sotech.cdg_posto po ON po.pkposto = en.fkposto`

// Aggregates must range over exactly the rows the roster can return, so
// they carry the roster's required patient and facility joins as well as
// the placement chain.
const aggregateJoins = `
	INNER JOIN sotech.cdg_paciente p ON p.pkpaciente = a.fkpaciente
	INNER JOIN sotech.cdg_unidadesaude u ON u.pkunidadesaude = a.fkunidadesaude` + placementJoins

func whereClause(f *Filter) (string, []interface{}) {
	conds, args := f.Conditions(1)
	where := `WHERE ` + baseWhere
	if len(conds) > 0 {
		where += "\n\tAND " + strings.Join(conds, "\n\tAND ")
	}
	return where, args
}

const admissionCols = `a.pkatendimento,
	p.pkpaciente, p.paciente, p.datanascimento, s.sexo, p.foto,
	m.pkinterveniente, m.interveniente,
	u.pkunidadesaude, u.unidadesaude,
	l.pkleito, l.codleito, en.pkenfermaria, en.enfermaria, po.pkposto, po.posto,
	e.pkespecialidade, e.especialidade,
	pr.pkprocedimento, pr.procedimento, tbn.diaspermanencia,
	a.dataentrada, a.queixaprincipal`

func scanAdmissionRow(row pgx.Row) (*admissionRow, error) {
	var r admissionRow
	err := row.Scan(&r.PkAtendimento,
		&r.PacienteID, &r.Paciente, &r.DataNascimento, &r.Sexo, &r.Foto,
		&r.MedicoID, &r.Medico,
		&r.UnidadeID, &r.Unidade,
		&r.LeitoID, &r.CodLeito, &r.EnfermariaID, &r.Enfermaria, &r.PostoID, &r.Posto,
		&r.EspecialidadeID, &r.Especialidade,
		&r.ProcedimentoID, &r.Procedimento, &r.DiasPermanencia,
		&r.DataEntrada, &r.QueixaPrincipal)
	return &r, err
}

func (r *repoPG) ListAdmissions(ctx context.Context, f *Filter) ([]*Admission, error) {
	where, args := whereClause(f)
	query := `SELECT ` + admissionCols + `
	FROM sotech.ate_atendimento a
	INNER JOIN sotech.cdg_paciente p ON p.pkpaciente = a.fkpaciente
	LEFT JOIN sotech.tbl_sexo s ON s.pksexo = p.fksexo
	INNER JOIN sotech.cdg_unidadesaude u ON u.pkunidadesaude = a.fkunidadesaude
	LEFT JOIN sotech.cdg_interveniente m ON m.pkinterveniente = a.fkprofissionalsolicitante` +
		placementJoins + `
	LEFT JOIN sotech.tbn_especialidade e ON e.pkespecialidade = a.fkespecialidade
	LEFT JOIN sotech.tbl_procedimento pr ON pr.pkprocedimento = a.fkprocedimentosolicitado
	LEFT JOIN sotech.tbn_procedimento tbn ON tbn.codprocedimento = pr.codprocedimento AND tbn.ativo = true
	` + where + `
	ORDER BY u.unidadesaude, po.posto NULLS LAST, en.enfermaria NULLS LAST,
		l.codleito NULLS LAST, a.pkatendimento
	LIMIT 100`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Admission
	for rows.Next() {
		row, err := scanAdmissionRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, row.toAdmission())
	}
	return items, rows.Err()
}

// Pathology exams carry a procedure code under the 0202 prefix. They are
// counted separately and kept out of the posted-charge list.
const pathologyPrefix = `0202%`

func (r *repoPG) ChargesFor(ctx context.Context, admissionIDs []int64) (map[int64][]PostedCharge, map[int64]int, error) {
	charges := make(map[int64][]PostedCharge)
	pathology := make(map[int64]int)
	if len(admissionIDs) == 0 {
		return charges, pathology, nil
	}

	rows, err := r.pool.Query(ctx, `
	SELECT la.fkatendimento, la.pkatendimentolancamento, pl.procedimento, la.quantidade, la.datahora
	FROM sotech.ate_atendimento_lancamento la
	INNER JOIN sotech.tbl_procedimento pl ON pl.pkprocedimento = la.fkprocedimento
	WHERE la.fkatendimento = ANY($1)
		AND la.status = 'S'
		AND pl.codprocedimento NOT LIKE '`+pathologyPrefix+`'
	ORDER BY la.datahora, la.pkatendimentolancamento`, admissionIDs)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var admissionID int64
		var ch PostedCharge
		if err := rows.Scan(&admissionID, &ch.ID, &ch.Descricao, &ch.Quantidade, &ch.DataHora); err != nil {
			return nil, nil, err
		}
		charges[admissionID] = append(charges[admissionID], ch)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	countRows, err := r.pool.Query(ctx, `
	SELECT la.fkatendimento, COUNT(*)
	FROM sotech.ate_atendimento_lancamento la
	INNER JOIN sotech.tbl_procedimento pl ON pl.pkprocedimento = la.fkprocedimento
	WHERE la.fkatendimento = ANY($1)
		AND la.status = 'S'
		AND pl.codprocedimento LIKE '`+pathologyPrefix+`'
	GROUP BY la.fkatendimento`, admissionIDs)
	if err != nil {
		return nil, nil, err
	}
	defer countRows.Close()
	for countRows.Next() {
		var admissionID int64
		var n int
		if err := countRows.Scan(&admissionID, &n); err != nil {
			return nil, nil, err
		}
		pathology[admissionID] = n
	}
	return charges, pathology, countRows.Err()
}

func (r *repoPG) CountAdmissions(ctx context.Context, f *Filter) (int, error) {
	where, args := whereClause(f)
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*)
	FROM sotech.ate_atendimento a`+aggregateJoins+`
	`+where, args...).Scan(&total)
	return total, err
}

func (r *repoPG) AverageDays(ctx context.Context, f *Filter) (float64, error) {
	where, args := whereClause(f)
	var media float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(AVG(FLOOR(EXTRACT(EPOCH FROM (NOW() - a.dataentrada)) / 86400)), 0)
	FROM sotech.ate_atendimento a`+aggregateJoins+`
	`+where, args...).Scan(&media)
	return media, err
}

func (r *repoPG) CountActiveBeds(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sotech.cdg_leito WHERE ativo = true`).Scan(&total)
	return total, err
}

func (r *repoPG) SpecialtyDistribution(ctx context.Context, f *Filter) ([]SpecialtyCount, error) {
	where, args := whereClause(f)
	rows, err := r.pool.Query(ctx, `SELECT COALESCE(e.especialidade, 'Sem especialidade'), COUNT(*)
	FROM sotech.ate_atendimento a`+aggregateJoins+`
	LEFT JOIN sotech.tbn_especialidade e ON e.pkespecialidade = a.fkespecialidade
	`+where+`
	GROUP BY e.especialidade
	ORDER BY COUNT(*) DESC
	LIMIT 5`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []SpecialtyCount{}
	for rows.Next() {
		var sc SpecialtyCount
		if err := rows.Scan(&sc.Especialidade, &sc.Quantidade); err != nil {
			return nil, err
		}
		items = append(items, sc)
	}
	return items, rows.Err()
}
