// File: internal/service/cleanup_cron.go
package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/config"
	"github.com/matchbook-rentals/verification-service/internal/domain/repository"
)

// CleanupCron periodically removes abandoned verification attempts that never
// reached the screening stage. It deliberately does not touch validity-window
// expiry, which is evaluated lazily on status reads.
type CleanupCron struct {
	cron      *cron.Cron
	verifRepo repository.VerificationRepository
	cfg       config.CleanupConfig
	logger    *zap.Logger
}

// NewCleanupCron creates the cron runner. Call Start to begin scheduling.
func NewCleanupCron(verifRepo repository.VerificationRepository, cfg config.CleanupConfig, logger *zap.Logger) *CleanupCron {
	return &CleanupCron{
		cron:      cron.New(),
		verifRepo: verifRepo,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the job and starts the scheduler.
func (c *CleanupCron) Start() error {
	if !c.cfg.Enabled {
		c.logger.Info("verification cleanup cron disabled")
		return nil
	}
	if _, err := c.cron.AddFunc(c.cfg.Schedule, c.run); err != nil {
		return err
	}
	c.cron.Start()
	c.logger.Info("verification cleanup cron started", zap.String("schedule", c.cfg.Schedule))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (c *CleanupCron) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
}

func (c *CleanupCron) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().Add(-c.cfg.MaxAge)
	deleted, err := c.verifRepo.DeleteStaleNotStarted(ctx, cutoff)
	if err != nil {
		c.logger.Error("verification cleanup failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		c.logger.Info("removed stale verification attempts", zap.Int64("count", deleted))
	}
}
