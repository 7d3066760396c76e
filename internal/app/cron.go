package app

import (
	"context"
	"time"

	"github.com/morethan-log/core/internal/config"
	"github.com/morethan-log/core/internal/modules/processing/translation"
	pkgcron "github.com/morethan-log/core/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, syncSvc *translation.Service, cfg *config.AppConfig, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	interval := cfg.Translation.SyncInterval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	sched.Register(pkgcron.Job{
		Name:        "sync_translations",
		Description: "generate missing English drafts for the post pool",
		Interval:    interval,
		Fn: func(ctx context.Context) error {
			started := time.Now()
			if err := syncSvc.Run(ctx); err != nil {
				cronLogger.Warn("translation sync failed", zap.Error(err))
				return err
			}
			cronLogger.Info("translation sync finished",
				zap.Duration("took", time.Since(started)))
			return nil
		},
	})
}
