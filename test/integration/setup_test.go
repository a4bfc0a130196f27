package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// globalPool is the package-level test database, initialized once in
// TestMain. Every test runs against the same sotech schema subset and
// calls resetDB to start from empty tables.
var globalPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	connStr, cleanup, err := startPostgresContainer(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to setup postgres container: %v\n", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		cleanup()
		fmt.Fprintf(os.Stderr, "create pool: %v\n", err)
		os.Exit(1)
	}
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		pool.Close()
		cleanup()
		fmt.Fprintf(os.Stderr, "create schema: %v\n", err)
		os.Exit(1)
	}

	globalPool = pool
	code := m.Run()
	pool.Close()
	cleanup()
	os.Exit(code)
}

// schemaDDL mirrors the hospital tables the repositories query. Foreign
// keys are intentionally absent so tests can stage dangling references.
const schemaDDL = `
CREATE SCHEMA IF NOT EXISTS sotech;

CREATE TABLE sotech.tbl_sexo (
	pksexo integer PRIMARY KEY,
	sexo text
);

CREATE TABLE sotech.cdg_paciente (
	pkpaciente bigint PRIMARY KEY,
	paciente text NOT NULL,
	datanascimento date,
	fksexo integer,
	foto text,
	ativo boolean NOT NULL DEFAULT true
);

CREATE TABLE sotech.cdg_interveniente (
	pkinterveniente bigint PRIMARY KEY,
	interveniente text NOT NULL,
	ativo boolean NOT NULL DEFAULT true
);

CREATE TABLE sotech.cdg_unidadesaude (
	pkunidadesaude bigint PRIMARY KEY,
	unidadesaude text NOT NULL,
	ativo boolean NOT NULL DEFAULT true
);

CREATE TABLE sotech.cdg_posto (
	pkposto bigint PRIMARY KEY,
	posto text NOT NULL,
	ativo boolean NOT NULL DEFAULT true
);

CREATE TABLE sotech.cdg_enfermaria (
	pkenfermaria bigint PRIMARY KEY,
	enfermaria text NOT NULL,
	fkposto bigint,
	ativo boolean NOT NULL DEFAULT true
);

CREATE TABLE sotech.cdg_leito (
	pkleito bigint PRIMARY KEY,
	codleito text,
	fkenfermaria bigint,
	ativo boolean NOT NULL DEFAULT true
);

CREATE TABLE sotech.tbn_especialidade (
	pkespecialidade bigint PRIMARY KEY,
	especialidade text NOT NULL,
	ativo boolean NOT NULL DEFAULT true
);

CREATE TABLE sotech.tbl_procedimento (
	pkprocedimento bigint PRIMARY KEY,
	procedimento text NOT NULL,
	codprocedimento text,
	ativo boolean NOT NULL DEFAULT true
);

CREATE TABLE sotech.tbn_procedimento (
	pkprocedimento bigint PRIMARY KEY,
	codprocedimento text NOT NULL,
	procedimento text NOT NULL,
	diaspermanencia integer,
	ativo boolean NOT NULL DEFAULT true
);

CREATE TABLE sotech.ate_atendimento (
	pkatendimento bigint PRIMARY KEY,
	fktipoatendimento integer NOT NULL,
	fkpaciente bigint NOT NULL,
	fkprofissionalatendimento bigint,
	fkprofissionalsolicitante bigint,
	fkunidadesaude bigint NOT NULL,
	fkleito bigint,
	fkespecialidade bigint,
	fkprocedimentosolicitado bigint,
	dataentrada timestamp NOT NULL,
	datasaida timestamp,
	queixaprincipal text,
	ativo boolean NOT NULL DEFAULT true
);

CREATE TABLE sotech.ate_atendimento_lancamento (
	pkatendimentolancamento bigint PRIMARY KEY,
	fkatendimento bigint NOT NULL,
	fkprocedimento bigint NOT NULL,
	quantidade numeric NOT NULL,
	datahora timestamp NOT NULL,
	status char(1) NOT NULL
);
`

// resetDB empties every table so the test starts from a known state.
func resetDB(t *testing.T, ctx context.Context) {
	t.Helper()
	_, err := globalPool.Exec(ctx, `TRUNCATE
		sotech.tbl_sexo,
		sotech.cdg_paciente,
		sotech.cdg_interveniente,
		sotech.cdg_unidadesaude,
		sotech.cdg_posto,
		sotech.cdg_enfermaria,
		sotech.cdg_leito,
		sotech.tbn_especialidade,
		sotech.tbl_procedimento,
		sotech.tbn_procedimento,
		sotech.ate_atendimento,
		sotech.ate_atendimento_lancamento`)
	if err != nil {
		t.Fatalf("reset db: %v", err)
	}
}

func mustExec(t *testing.T, ctx context.Context, sql string, args ...interface{}) {
	t.Helper()
	if _, err := globalPool.Exec(ctx, sql, args...); err != nil {
		t.Fatalf("exec %q: %v", sql, err)
	}
}

func seedPatient(t *testing.T, ctx context.Context, id int64, nome string) {
	mustExec(t, ctx, `INSERT INTO sotech.cdg_paciente (pkpaciente, paciente) VALUES ($1, $2)`, id, nome)
}

func seedClinician(t *testing.T, ctx context.Context, id int64, nome string) {
	mustExec(t, ctx, `INSERT INTO sotech.cdg_interveniente (pkinterveniente, interveniente) VALUES ($1, $2)`, id, nome)
}

func seedFacility(t *testing.T, ctx context.Context, id int64, nome string) {
	mustExec(t, ctx, `INSERT INTO sotech.cdg_unidadesaude (pkunidadesaude, unidadesaude) VALUES ($1, $2)`, id, nome)
}

// seedPlacement creates one post→ward→bed chain.
func seedPlacement(t *testing.T, ctx context.Context, postID int64, posto string, wardID int64, enfermaria string, bedID int64, codLeito string) {
	mustExec(t, ctx, `INSERT INTO sotech.cdg_posto (pkposto, posto) VALUES ($1, $2)
		ON CONFLICT (pkposto) DO NOTHING`, postID, posto)
	mustExec(t, ctx, `INSERT INTO sotech.cdg_enfermaria (pkenfermaria, enfermaria, fkposto) VALUES ($1, $2, $3)
		ON CONFLICT (pkenfermaria) DO NOTHING`, wardID, enfermaria, postID)
	mustExec(t, ctx, `INSERT INTO sotech.cdg_leito (pkleito, codleito, fkenfermaria) VALUES ($1, $2, $3)`,
		bedID, codLeito, wardID)
}

func seedSpecialty(t *testing.T, ctx context.Context, id int64, descricao string) {
	mustExec(t, ctx, `INSERT INTO sotech.tbn_especialidade (pkespecialidade, especialidade) VALUES ($1, $2)`, id, descricao)
}

func seedProcedure(t *testing.T, ctx context.Context, id int64, descricao, codigo string) {
	mustExec(t, ctx, `INSERT INTO sotech.tbl_procedimento (pkprocedimento, procedimento, codprocedimento) VALUES ($1, $2, $3)`,
		id, descricao, codigo)
}

func seedCodedProcedure(t *testing.T, ctx context.Context, id int64, codigo, descricao string, diasPermanencia int) {
	mustExec(t, ctx, `INSERT INTO sotech.tbn_procedimento (pkprocedimento, codprocedimento, procedimento, diaspermanencia) VALUES ($1, $2, $3, $4)`,
		id, codigo, descricao, diasPermanencia)
}

func seedCharge(t *testing.T, ctx context.Context, id, admissionID, procedureID int64, quantidade float64, at time.Time, status string) {
	mustExec(t, ctx, `INSERT INTO sotech.ate_atendimento_lancamento
		(pkatendimentolancamento, fkatendimento, fkprocedimento, quantidade, datahora, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, admissionID, procedureID, quantidade, at, status)
}

// admissionSeed stages one ate_atendimento row. Zero-valued optional ids
// become NULL; Tipo defaults to 2 (inpatient) and Ativo to true.
type admissionSeed struct {
	ID            int64
	Paciente      int64
	Unidade       int64
	Solicitante   int64
	Atendente     int64
	Leito         int64
	Especialidade int64
	Procedimento  int64
	Entrada       time.Time
	Saida         *time.Time
	Tipo          int
	Inactive      bool
}

func seedAdmission(t *testing.T, ctx context.Context, s admissionSeed) {
	t.Helper()
	nullable := func(id int64) interface{} {
		if id == 0 {
			return nil
		}
		return id
	}
	tipo := s.Tipo
	if tipo == 0 {
		tipo = 2
	}
	entrada := s.Entrada
	if entrada.IsZero() {
		entrada = time.Now().Add(-48 * time.Hour)
	}
	mustExec(t, ctx, `INSERT INTO sotech.ate_atendimento
		(pkatendimento, fktipoatendimento, fkpaciente, fkprofissionalatendimento,
		 fkprofissionalsolicitante, fkunidadesaude, fkleito, fkespecialidade,
		 fkprocedimentosolicitado, dataentrada, datasaida, ativo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, tipo, s.Paciente, nullable(s.Atendente), nullable(s.Solicitante),
		s.Unidade, nullable(s.Leito), nullable(s.Especialidade),
		nullable(s.Procedimento), entrada, s.Saida, !s.Inactive)
}
