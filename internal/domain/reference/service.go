package reference

import "context"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Clinicians(ctx context.Context) ([]NamedItem, error) {
	return s.repo.Clinicians(ctx)
}

func (s *Service) Patients(ctx context.Context, search string) ([]NamedItem, error) {
	return s.repo.Patients(ctx, search)
}

func (s *Service) Facilities(ctx context.Context) ([]DescribedItem, error) {
	return s.repo.Facilities(ctx)
}

func (s *Service) Posts(ctx context.Context) ([]DescribedItem, error) {
	return s.repo.Posts(ctx)
}

func (s *Service) Specialties(ctx context.Context) ([]DescribedItem, error) {
	return s.repo.Specialties(ctx)
}

func (s *Service) Procedures(ctx context.Context) ([]Procedure, error) {
	return s.repo.Procedures(ctx)
}
