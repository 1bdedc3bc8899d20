package errcodes

import (
	"fmt"
	"net/http"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		http.StatusNotFound,
		resource + " not found.",
		"not_found",
	}
}

// Conflict returns a 409 error for storage-level conflicts, e.g. losing a
// promotion race on a copy.
func Conflict(msg string) error {
	return &Error{
		http.StatusConflict,
		msg,
		"conflict",
	}
}

// SweepAlreadyRunning returns a 409 error for an overlapping sweep
// invocation. At most one sweep runs at a time; extra triggers are skipped.
func SweepAlreadyRunning() error {
	return &Error{
		http.StatusConflict,
		"A promotion sweep is already running.",
		"sweep_already_running",
	}
}

// DuplicateReservation is returned when the borrower already holds a live
// reservation on this copy or on another copy of the same book.
func DuplicateReservation() error {
	return &Error{
		http.StatusUnprocessableEntity,
		"You already hold a live reservation for this book.",
		"duplicate_reservation",
	}
}

// BorrowerHasActiveLoan is returned when the borrower already holds an open
// loan on this copy or on another copy of the same book.
func BorrowerHasActiveLoan() error {
	return &Error{
		http.StatusUnprocessableEntity,
		"You already have this book on loan.",
		"borrower_has_active_loan",
	}
}

// InvalidWindow is returned for a malformed or out-of-bounds date window.
func InvalidWindow(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"invalid_window",
	}
}

// TooManyActiveLoans is returned when a direct rental would exceed the open
// loan cap. Reservations are not subject to this cap.
func TooManyActiveLoans(limit int) error {
	return &Error{
		http.StatusUnprocessableEntity,
		fmt.Sprintf("You already have %d books on loan.", limit),
		"too_many_active_loans",
	}
}

// ReservationConflict is returned when a direct rental or a reservation
// window collides with an existing reservation on the copy.
func ReservationConflict() error {
	return &Error{
		http.StatusUnprocessableEntity,
		"This copy is already reserved for the selected period.",
		"reservation_conflict",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		http.StatusUnsupportedMediaType,
		"Unsupported Media Type",
		"unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		fmt.Sprintf("Unknown Parameter %q", param),
		"unknown_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_type_error",
	}
}

func ValidationError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_error",
	}
}

func MalformedPayload() error {
	return &Error{
		http.StatusBadRequest,
		"Malformed Payload",
		"malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		http.StatusBadRequest,
		"Request body can't be empty.",
		"empty_request_body",
	}
}
