package books

import (
	"github.com/kashidashibooks/kashidashi/pkg/availability"
	"github.com/kashidashibooks/kashidashi/pkg/metadata"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the catalog routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, metadataClient *metadata.Client) {
	h := &handler{
		booksService:        NewService(db, metadataClient),
		availabilityService: availability.NewService(db),
	}

	e.POST("/registrations", h.register)

	e.GET("/books", h.listBooks)
	e.GET("/books/:id", h.retrieveBook)

	e.GET("/copies", h.listCopies)
	e.GET("/copies/:id", h.retrieveCopy)
	e.DELETE("/copies/:id", h.deleteCopy)
	e.GET("/copies/:id/availability", h.checkAvailability)
}
