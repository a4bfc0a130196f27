package reference

import "context"

// Repository lists the entities referenced by at least one active
// inpatient admission. These feed the dashboard filter dropdowns.
type Repository interface {
	Clinicians(ctx context.Context) ([]NamedItem, error)
	// Patients optionally narrows by a case-insensitive name fragment.
	Patients(ctx context.Context, search string) ([]NamedItem, error)
	Facilities(ctx context.Context) ([]DescribedItem, error)
	Posts(ctx context.Context) ([]DescribedItem, error)
	Specialties(ctx context.Context) ([]DescribedItem, error)
	Procedures(ctx context.Context) ([]Procedure, error)
}
