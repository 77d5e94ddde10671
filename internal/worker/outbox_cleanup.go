package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/medq/hospital-api/internal/repository"
)

// OutboxCleanup purges processed outbox events past their retention
// window on a nightly schedule.
type OutboxCleanup struct {
	repo          repository.OutboxRepository
	retentionDays int
	cron          *cron.Cron
}

func NewOutboxCleanup(repo repository.OutboxRepository, retentionDays int) *OutboxCleanup {
	return &OutboxCleanup{
		repo:          repo,
		retentionDays: retentionDays,
		cron:          cron.New(),
	}
}

func (c *OutboxCleanup) Start() error {
	_, err := c.cron.AddFunc("0 3 * * *", func() {
		if err := c.Run(context.Background()); err != nil {
			log.Error().Err(err).Msg("outbox cleanup failed")
		}
	})
	if err != nil {
		return err
	}
	c.cron.Start()
	return nil
}

func (c *OutboxCleanup) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
}

func (c *OutboxCleanup) Run(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -c.retentionDays)
	deleted, err := c.repo.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("purged processed outbox events")
	return nil
}
