package promoter

import (
	"context"
	"time"

	"github.com/kashidashibooks/kashidashi/pkg/config"
	"github.com/kashidashibooks/kashidashi/pkg/errcodes"
	"github.com/kashidashibooks/kashidashi/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// Promoter is the long-lived background task that sweeps due reservations on
// a fixed interval. It runs alongside the request handlers; the process
// supervisor owns its lifecycle through Start and Shutdown.
type Promoter struct {
	config  *config.Config
	log     logger.Logger
	service *Service

	shutdown chan struct{}
	done     chan struct{}
}

func New(cfg *config.Config, db *bun.DB) *Promoter {
	return &Promoter{
		config:   cfg,
		log:      logger.New(),
		service:  NewService(db),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Service exposes the underlying promotion service so the return hook and
// the HTTP surface share the same sweep guard.
func (p *Promoter) Service() *Service {
	return p.service
}

func (p *Promoter) Start() {
	go p.run()
}

func (p *Promoter) run() {
	defer close(p.done)

	// A zero interval disables the loop; sweeps then only happen via the
	// operational endpoint or return hooks.
	if p.config.SweepInterval <= 0 {
		<-p.shutdown
		return
	}

	timer := time.NewTimer(p.config.SweepInterval)
	defer timer.Stop()

	for {
		select {
		case <-p.shutdown:
			return
		case <-timer.C:
			run, err := p.service.RunSweep(context.Background(), models.PromotionTriggerSweep)
			switch {
			case errors.Is(err, errcodes.SweepAlreadyRunning()):
				p.log.Warn("previous sweep still running, skipping tick")
			case err != nil:
				p.log.Err(err).Error("sweep error")
			default:
				p.log.Info("scheduled sweep finished", logger.Data{
					"converted": run.Converted,
					"waiting":   run.Waiting,
					"cleaned":   run.Cleaned,
					"errors":    run.Errors,
				})
			}
			timer.Reset(p.config.SweepInterval)
		}
	}
}

func (p *Promoter) Shutdown() {
	close(p.shutdown)
	<-p.done
}
