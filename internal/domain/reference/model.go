package reference

// NamedItem is a dropdown entry keyed by person name (clinicians,
// patients).
type NamedItem struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

// DescribedItem is a dropdown entry keyed by description (facilities,
// posts, specialties).
type DescribedItem struct {
	ID        int64  `json:"id"`
	Descricao string `json:"descricao"`
}

// Procedure carries the coded-catalog extras used by the procedure
// dropdown.
type Procedure struct {
	ID              int64   `json:"id"`
	Descricao       string  `json:"descricao"`
	Codigo          *string `json:"codigo"`
	DiasPermanencia *int    `json:"diaspermanencia"`
}
