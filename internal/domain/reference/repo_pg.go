package reference

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

// Every query joins against open, active inpatient admissions so the
// dropdowns only offer values that can actually match a roster row.
const activeAdmission = `a.fktipoatendimento = 2
	AND a.datasaida IS NULL
	AND a.ativo = true`

func collectNamed(rows pgx.Rows) ([]NamedItem, error) {
	defer rows.Close()
	items := []NamedItem{}
	for rows.Next() {
		var it NamedItem
		if err := rows.Scan(&it.ID, &it.Nome); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func collectDescribed(rows pgx.Rows) ([]DescribedItem, error) {
	defer rows.Close()
	items := []DescribedItem{}
	for rows.Next() {
		var it DescribedItem
		if err := rows.Scan(&it.ID, &it.Descricao); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repoPG) Clinicians(ctx context.Context) ([]NamedItem, error) {
	rows, err := r.pool.Query(ctx, `
	SELECT DISTINCT i.pkinterveniente, i.interveniente
	FROM sotech.cdg_interveniente i
	INNER JOIN sotech.ate_atendimento a
		ON a.fkprofissionalsolicitante = i.pkinterveniente
		OR a.fkprofissionalatendimento = i.pkinterveniente
	WHERE `+activeAdmission+`
		AND i.ativo = true
	ORDER BY i.interveniente`)
	if err != nil {
		return nil, err
	}
	return collectNamed(rows)
}

func (r *repoPG) Patients(ctx context.Context, search string) ([]NamedItem, error) {
	query := `
	SELECT DISTINCT p.pkpaciente, p.paciente
	FROM sotech.cdg_paciente p
	INNER JOIN sotech.ate_atendimento a ON a.fkpaciente = p.pkpaciente
	WHERE ` + activeAdmission + `
		AND p.ativo = true`
	var args []interface{}
	if search != "" {
		query += `
		AND LOWER(p.paciente) LIKE $1`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += `
	ORDER BY p.paciente`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectNamed(rows)
}

func (r *repoPG) Facilities(ctx context.Context) ([]DescribedItem, error) {
	rows, err := r.pool.Query(ctx, `
	SELECT DISTINCT u.pkunidadesaude, u.unidadesaude
	FROM sotech.cdg_unidadesaude u
	INNER JOIN sotech.ate_atendimento a ON a.fkunidadesaude = u.pkunidadesaude
	WHERE `+activeAdmission+`
		AND u.ativo = true
	ORDER BY u.unidadesaude`)
	if err != nil {
		return nil, err
	}
	return collectDescribed(rows)
}

func (r *repoPG) Posts(ctx context.Context) ([]DescribedItem, error) {
	rows, err := r.pool.Query(ctx, `
	SELECT DISTINCT po.pkposto, po.posto
	FROM sotech.cdg_posto po
	INNER JOIN sotech.cdg_enfermaria en ON en.fkposto = po.pkposto
	INNER JOIN sotech.cdg_leito l ON l.fkenfermaria = en.pkenfermaria
	INNER JOIN sotech.ate_atendimento a ON a.fkleito = l.pkleito
	WHERE `+activeAdmission+`
		AND po.ativo = true
	ORDER BY po.posto`)
	if err != nil {
		return nil, err
	}
	return collectDescribed(rows)
}

func (r *repoPG) Specialties(ctx context.Context) ([]DescribedItem, error) {
	rows, err := r.pool.Query(ctx, `
	SELECT DISTINCT e.pkespecialidade, e.especialidade
	FROM sotech.tbn_especialidade e
	INNER JOIN sotech.ate_atendimento a ON a.fkespecialidade = e.pkespecialidade
	WHERE `+activeAdmission+`
		AND e.ativo = true
	ORDER BY e.especialidade`)
	if err != nil {
		return nil, err
	}
	return collectDescribed(rows)
}

func (r *repoPG) Procedures(ctx context.Context) ([]Procedure, error) {
	rows, err := r.pool.Query(ctx, `
	SELECT DISTINCT pr.pkprocedimento, pr.procedimento, pr.codprocedimento, tbn.diaspermanencia
	FROM sotech.tbl_procedimento pr
	INNER JOIN sotech.ate_atendimento a ON a.fkprocedimentosolicitado = pr.pkprocedimento
	LEFT JOIN sotech.tbn_procedimento tbn ON tbn.codprocedimento = pr.codprocedimento AND tbn.ativo = true
	WHERE `+activeAdmission+`
		AND pr.ativo = true
	ORDER BY pr.procedimento`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Procedure{}
	for rows.Next() {
		var p Procedure
		if err := rows.Scan(&p.ID, &p.Descricao, &p.Codigo, &p.DiasPermanencia); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
