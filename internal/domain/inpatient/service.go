package inpatient

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ListInpatients returns the filtered roster with posted charges and
// pathology exam counts attached.
func (s *Service) ListInpatients(ctx context.Context, f *Filter) ([]*Admission, error) {
	admissions, err := s.repo.ListAdmissions(ctx, f)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(admissions))
	for _, a := range admissions {
		ids = append(ids, a.PkAtendimento)
	}
	charges, pathology, err := s.repo.ChargesFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for _, a := range admissions {
		a.DiasInternado = daysAdmitted(a.DataEntrada, now)
		a.ProcedimentosLancados = charges[a.PkAtendimento]
		a.QuantidadeExamesAnatomia = pathology[a.PkAtendimento]
	}
	if admissions == nil {
		admissions = []*Admission{}
	}
	return admissions, nil
}

// Indicators computes the four dashboard figures over the filtered
// admission set. The queries run concurrently; any failure fails the
// whole call.
func (s *Service) Indicators(ctx context.Context, f *Filter) (*Indicators, error) {
	var (
		total        int
		mediaDias    float64
		totalBeds    int
		distribution []SpecialtyCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.CountAdmissions(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		mediaDias, err = s.repo.AverageDays(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		totalBeds, err = s.repo.CountActiveBeds(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		distribution, err = s.repo.SpecialtyDistribution(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if totalBeds < 1 {
		totalBeds = 1
	}
	if distribution == nil {
		distribution = []SpecialtyCount{}
	}
	return &Indicators{
		TotalPacientes:             total,
		MediaDias:                  mediaDias,
		OcupacaoLeitos:             float64(total) / float64(totalBeds) * 100,
		DistribuicaoEspecialidades: distribution,
	}, nil
}
