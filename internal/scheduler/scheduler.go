package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reloader re-reads a profile catalog.
type Reloader interface {
	Reload() error
}

// Invalidator drops cached profiles after a reload.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Scheduler refreshes the file catalog on a cron schedule so admin edits
// show up without a restart.
type Scheduler struct {
	cron        *cron.Cron
	spec        string
	reloader    Reloader
	invalidator Invalidator
	logger      *zap.Logger
}

// New validates spec (standard 5-field cron) up front. invalidator may be
// nil when no cache is configured.
func New(spec string, reloader Reloader, invalidator Invalidator, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, errors.Wrapf(err, "invalid reload schedule %q", spec)
	}
	return &Scheduler{
		cron:        cron.New(),
		spec:        spec,
		reloader:    reloader,
		invalidator: invalidator,
		logger:      logger,
	}, nil
}

// Start registers the reload job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.ReloadCatalog); err != nil {
		return errors.Wrap(err, "failed to schedule catalog reload")
	}
	s.logger.Info("starting scheduler", zap.String("schedule", s.spec))
	s.cron.Start()
	return nil
}

// Stop waits for a running reload to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// ReloadCatalog runs one reload. The cache is only flushed when the new
// catalog loaded, so a broken edit never empties the cache.
func (s *Scheduler) ReloadCatalog() {
	start := time.Now()
	if err := s.reloader.Reload(); err != nil {
		s.logger.Error("catalog reload failed, keeping previous catalog", zap.Error(err))
		return
	}
	if s.invalidator != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.invalidator.Invalidate(ctx); err != nil {
			s.logger.Warn("profile cache flush failed", zap.Error(err))
		}
	}
	s.logger.Info("catalog reloaded", zap.Duration("took", time.Since(start)))
}
