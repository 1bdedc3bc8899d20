package books

// Query params for list endpoints.
type ListBooksQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,max=200"`
}

type ListCopiesQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,max=200"`
	BookID *int    `query:"book_id" json:"book_id,omitempty" validate:"omitempty,min=1"`
}

type CheckAvailabilityQuery struct {
	BorrowerID int     `query:"borrower_id" json:"borrower_id" validate:"required,min=1"`
	Date       *string `query:"date" json:"date,omitempty" validate:"omitempty,ne=,date"`
}

// Payloads for create endpoints.
type RegisterPayload struct {
	ISBN        *string `json:"isbn,omitempty" validate:"omitempty,min=10,max=17"`
	Title       string  `json:"title" validate:"max=500"`
	Author      string  `json:"author" validate:"max=500"`
	PublishDate string  `json:"publish_date" validate:"max=20"`
	Subject     *string `json:"subject,omitempty" validate:"omitempty,max=200"`
	CoverURL    *string `json:"cover_url,omitempty" validate:"omitempty,url"`
	StorageName string  `json:"storage_name" validate:"required,min=1,max=200"`
}
