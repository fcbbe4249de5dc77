package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"social-publisher-platform/internal/logger"
)

// CronService runs the credential expiry scan on a schedule.
type CronService struct {
	scheduler      *gocron.Scheduler
	alertEvaluator *CredentialAlertEvaluator
}

func NewCronService(alertEvaluator *CredentialAlertEvaluator) *CronService {
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()

	return &CronService{
		scheduler:      s,
		alertEvaluator: alertEvaluator,
	}
}

// Start registers the expiry scan at the given cron expression and starts
// the scheduler in the background.
func (c *CronService) Start(cronExpr string) error {
	_, err := c.scheduler.Cron(cronExpr).Tag("credential-expiry").Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := c.alertEvaluator.ScanAll(ctx); err != nil {
			logger.Error("credential expiry scan failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	c.scheduler.StartAsync()
	logger.Info("credential expiry scan scheduled", "cron", cronExpr)
	return nil
}

func (c *CronService) Stop() {
	c.scheduler.Stop()
}
