package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kashidashibooks/kashidashi/pkg/binder"
	"github.com/kashidashibooks/kashidashi/pkg/books"
	"github.com/kashidashibooks/kashidashi/pkg/config"
	"github.com/kashidashibooks/kashidashi/pkg/errcodes"
	"github.com/kashidashibooks/kashidashi/pkg/metadata"
	"github.com/kashidashibooks/kashidashi/pkg/promoter"
	"github.com/kashidashibooks/kashidashi/pkg/rental"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

// New builds the HTTP server. The promotion service is shared with the
// background loop so manual sweeps and the return hook go through the same
// guard.
func New(cfg *config.Config, db *bun.DB, promotionService *promoter.Service) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	metadataClient := metadata.NewClient()
	rentalService := rental.NewService(db, cfg, promotionService)

	books.RegisterRoutes(e, db, metadataClient)
	rental.RegisterRoutes(e, rentalService)
	promoter.RegisterRoutes(e, promotionService)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
