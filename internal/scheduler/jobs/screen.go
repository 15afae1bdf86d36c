// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/nordvik/nordscreen/internal/pipeline"
	"github.com/nordvik/nordscreen/pkg/logger"
)

// ScreenJob runs the full screening pipeline on a schedule. Markets
// close in the evening; the job runs after midnight UTC so the latest
// close and any statement updates are in.
type ScreenJob struct {
	pipeline *pipeline.Pipeline
	schedule string
	logger   *logger.Logger
}

// NewScreenJob creates the nightly screening job
func NewScreenJob(p *pipeline.Pipeline, log *logger.Logger) *ScreenJob {
	return &ScreenJob{
		pipeline: p,
		schedule: "0 0 5 * * *", // 05:00 UTC daily
		logger:   log,
	}
}

// Name returns the job name
func (j *ScreenJob) Name() string {
	return "nightly_screen"
}

// Schedule returns the cron expression
func (j *ScreenJob) Schedule() string {
	return j.schedule
}

// Run executes one screening cycle.
func (j *ScreenJob) Run(ctx context.Context) error {
	record, err := j.pipeline.Execute(ctx)
	if err != nil {
		return fmt.Errorf("screening pipeline: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":     record.ID,
		"companies":  record.CompanyCount,
		"passed_all": record.PassedCount,
	}).Info("Nightly screening completed")

	return nil
}
