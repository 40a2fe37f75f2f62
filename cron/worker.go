package cron

import (
	"time"

	"islandeats/config"
	"islandeats/services/inquiry"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartHousekeeping runs the hourly sweep that evicts inquiries closed longer
// than the retention window. The engine itself never deletes inquiries; this
// is the external housekeeping that keeps the registry bounded.
func StartHousekeeping(reg inquiry.Registry, logger *zap.Logger) *cron.Cron {
	retention := time.Duration(config.AppConfig.SweepRetentionHours) * time.Hour
	if retention <= 0 {
		retention = 24 * time.Hour
	}

	c := cron.New()
	c.AddFunc("@hourly", func() {
		cutoff := time.Now().Add(-retention)
		removed := reg.Evict(cutoff)
		if removed > 0 {
			logger.Info("housekeeping sweep",
				zap.Int("evicted", removed),
				zap.Time("cutoff", cutoff))
		}
	})
	c.Start()
	return c
}
