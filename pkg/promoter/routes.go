package promoter

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the promotion routes against the shared service so
// manual triggers and the background loop serialize on the same guard.
func RegisterRoutes(e *echo.Echo, svc *Service) {
	h := &handler{service: svc}

	e.POST("/promotions/run", h.runSweep)
	e.GET("/promotions/runs", h.listRuns)
}
