package inpatient

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestHandler(repo *mockRepo) (*Handler, *echo.Echo) {
	svc := NewService(repo)
	return NewHandler(svc, zerolog.New(os.Stderr)), echo.New()
}

func TestListInpatients_InvalidFilter(t *testing.T) {
	repo := &mockRepo{}
	h, e := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/pacientes-internados?medicoId=abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListInpatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ID do médico inválido") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
	// An invalid filter must be rejected before touching the database.
	if n := repo.queries.Load(); n != 0 {
		t.Errorf("expected no queries, got %d", n)
	}
}

func TestListInpatients_OK(t *testing.T) {
	entrada := time.Now().Add(-72 * time.Hour)
	repo := &mockRepo{
		admissions: []*Admission{{
			PkAtendimento: 5,
			Paciente:      PatientRef{ID: 1, Nome: "Ana"},
			UnidadeSaude:  FacilityRef{ID: 2, Descricao: "Hospital Central"},
			DataEntrada:   entrada,
		}},
		charges:   map[int64][]PostedCharge{},
		pathology: map[int64]int{},
	}
	h, e := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/pacientes-internados?unidadeId=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListInpatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0]["pkatendimento"] != float64(5) {
		t.Errorf("unexpected payload: %v", items[0])
	}
	if items[0]["diasInternado"] != float64(3) {
		t.Errorf("unexpected diasInternado: %v", items[0]["diasInternado"])
	}
	if items[0]["procedimentosLancados"] != nil {
		t.Errorf("expected null charge list, got %v", items[0]["procedimentosLancados"])
	}
	if _, ok := items[0]["unidadeSaude"]; !ok {
		t.Error("expected unidadeSaude key")
	}
}

func TestListInpatients_DataSourceError(t *testing.T) {
	repo := &mockRepo{listErr: errors.New("dial tcp: connection refused")}
	h, e := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/pacientes-internados", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListInpatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	// The client gets the generic message, never the driver error.
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Errorf("driver error leaked: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Erro ao buscar pacientes internados") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestIndicators_InvalidFilter(t *testing.T) {
	repo := &mockRepo{}
	h, e := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/indicadores?postoId=xyz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Indicators(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ID do posto inválido") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
	if n := repo.queries.Load(); n != 0 {
		t.Errorf("expected no queries, got %d", n)
	}
}

func TestIndicators_OK(t *testing.T) {
	repo := &mockRepo{
		total:      8,
		avgDays:    2,
		activeBeds: 16,
		distribution: []SpecialtyCount{
			{Especialidade: "Ortopedia", Quantidade: 5},
		},
	}
	h, e := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/indicadores", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Indicators(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var ind Indicators
	if err := json.Unmarshal(rec.Body.Bytes(), &ind); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if ind.TotalPacientes != 8 || ind.OcupacaoLeitos != 50 {
		t.Errorf("unexpected indicators: %+v", ind)
	}
}
