package inpatient

import "context"

// Repository reads admission data from the clinical schema. All methods
// are read-only.
type Repository interface {
	ListAdmissions(ctx context.Context, f *Filter) ([]*Admission, error)
	// ChargesFor returns, per admission id, the confirmed charges other
	// than pathology exams, plus the pathology exam count.
	ChargesFor(ctx context.Context, admissionIDs []int64) (map[int64][]PostedCharge, map[int64]int, error)
	CountAdmissions(ctx context.Context, f *Filter) (int, error)
	AverageDays(ctx context.Context, f *Filter) (float64, error)
	CountActiveBeds(ctx context.Context) (int, error)
	SpecialtyDistribution(ctx context.Context, f *Filter) ([]SpecialtyCount, error)
}
