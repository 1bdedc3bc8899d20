package promoter

import (
	"net/http"

	"github.com/kashidashibooks/kashidashi/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	service *Service
}

// runSweep is the operational command: an on-demand sweep equivalent to the
// scheduled one, returning the run counters.
func (h *handler) runSweep(c echo.Context) error {
	ctx := c.Request().Context()

	run, err := h.service.RunSweep(ctx, models.PromotionTriggerManual)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, run))
}

func (h *handler) listRuns(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListRunsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	runs, total, err := h.service.ListRuns(ctx, ListRunsOptions{
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"runs":  runs,
		"total": total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}
