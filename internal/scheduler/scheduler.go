// Package scheduler runs the periodic exchange-rate sync.
package scheduler

import (
	"context"
	"time"

	settingsvc "wealthcircle-backend/internal/application/settings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Start schedules the rate sync for every owner on the given cron spec and
// returns the running scheduler. Stop it with Stop() on shutdown.
func Start(spec string, settings *settingsvc.Service) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := settings.SyncAll(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled rate sync failed")
			return
		}
		log.Info().Msg("scheduled rate sync completed")
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Info().Str("spec", spec).Msg("rate sync scheduler started")
	return c, nil
}
