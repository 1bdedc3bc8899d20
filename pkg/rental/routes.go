package rental

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the reservation and loan routes.
func RegisterRoutes(e *echo.Echo, svc *Service) {
	h := &handler{
		rentalService: svc,
	}

	e.POST("/reservations", h.createReservation)
	e.GET("/reservations", h.listReservations)
	e.DELETE("/reservations/:id", h.cancelReservation)

	e.POST("/loans", h.createLoan)
	e.GET("/loans", h.listLoans)
	e.GET("/loans/:id", h.retrieveLoan)
	e.POST("/loans/:id/return", h.returnLoan)
}
