package rental

// Query params for list endpoints.
type ListLoansQuery struct {
	Limit      int     `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset     int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	BorrowerID *int    `query:"borrower_id" json:"borrower_id,omitempty" validate:"omitempty,min=1"`
	CopyID     *string `query:"copy_id" json:"copy_id,omitempty" validate:"omitempty,uuid"`
	Status     *string `query:"status" json:"status,omitempty" validate:"omitempty,oneof=open returned"`
	Overdue    bool    `query:"overdue" json:"overdue,omitempty"`
}

type ListReservationsQuery struct {
	Limit      int     `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset     int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	BorrowerID *int    `query:"borrower_id" json:"borrower_id,omitempty" validate:"omitempty,min=1"`
	CopyID     *string `query:"copy_id" json:"copy_id,omitempty" validate:"omitempty,uuid"`
	Live       bool    `query:"live" json:"live,omitempty"`
}

// Payloads for create/update endpoints.
type CreateReservationPayload struct {
	CopyID       string `json:"copy_id" validate:"required,uuid"`
	BorrowerID   int    `json:"borrower_id" validate:"required,min=1"`
	FutureRent   string `json:"future_rent" validate:"required,date"`
	FutureReturn string `json:"future_return" validate:"required,date"`
}

// CancelReservationPayload accepts the borrower from either the body or the
// query string, since DELETE requests often carry no body.
type CancelReservationPayload struct {
	BorrowerID int `json:"borrower_id" query:"borrower_id" validate:"required,min=1"`
}

type CreateLoanPayload struct {
	CopyID     string `json:"copy_id" validate:"required,uuid"`
	BorrowerID int    `json:"borrower_id" validate:"required,min=1"`
	DueDate    string `json:"due_date" validate:"required,date"`
}

type ReturnLoanPayload struct {
	BorrowerID int                  `json:"borrower_id" validate:"required,min=1"`
	ReturnedOn *string              `json:"returned_on,omitempty" validate:"omitempty,ne=,date"`
	Review     *ReturnReviewPayload `json:"review,omitempty"`
}

type ReturnReviewPayload struct {
	Score int    `json:"score" validate:"required,min=1,max=5"`
	Title string `json:"title" validate:"max=200"`
	Body  string `json:"body" validate:"max=5000"`
}
