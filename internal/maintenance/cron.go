// Package maintenance runs scheduled background jobs on the backend.
package maintenance

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/internal/service"
)

// TrimJob periodically truncates stored reading histories that grew past the
// server cap. Clients already cap on write; the job mops up documents written
// by older clients or imported data.
type TrimJob struct {
	documents service.DocumentService
	cron      *cron.Cron
	logger    *logger.Logger
}

// NewTrimJob builds the job around the document service.
func NewTrimJob(documents service.DocumentService, logger *logger.Logger) *TrimJob {
	return &TrimJob{
		documents: documents,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start registers the trim task under the given cron schedule (standard
// five-field spec, e.g. "0 3 * * *") and starts the scheduler.
func (j *TrimJob) Start(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, j.runOnce); err != nil {
		return fmt.Errorf("invalid trim schedule %q: %w", schedule, err)
	}

	j.cron.Start()
	j.logger.Info().Str("schedule", schedule).Msg("history trim job started")
	return nil
}

// Stop stops the scheduler and waits for a running task to finish.
func (j *TrimJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info().Msg("history trim job stopped")
}

func (j *TrimJob) runOnce() {
	trimmed, err := j.documents.TrimHistories(context.Background())
	if err != nil {
		j.logger.Err(err).Msg("history trim run failed")
		return
	}

	j.logger.Info().Int("trimmed", trimmed).Msg("history trim run finished")
}
