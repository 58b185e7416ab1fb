package mailfetch

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/refurbops/opsdash/internal/config"
)

// startupDelay gives the server a moment to finish wiring before the
// first staleness check.
const startupDelay = 5 * time.Second

// Scheduler runs the fetch pipeline on a daily schedule, with a 2-hourly
// staleness check as a safety net for missed runs.
type Scheduler struct {
	cron     *cron.Cron
	pipeline *Pipeline
}

func NewScheduler(pipeline *Pipeline, cfg *config.MailConfig) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.FetchTZ)
	if err != nil {
		return nil, fmt.Errorf("failed to load fetch timezone %s: %w", cfg.FetchTZ, err)
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(fmt.Sprintf("0 %d * * *", cfg.FetchHour), func() {
		runLogged(pipeline, "daily")
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule daily fetch: %w", err)
	}
	if _, err := c.AddFunc("@every 2h", func() {
		runLogged(pipeline, "fallback")
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule fallback fetch: %w", err)
	}

	log.Info().Int("hour", cfg.FetchHour).Str("tz", cfg.FetchTZ).Msg("email fetch scheduled")
	return &Scheduler{cron: c, pipeline: pipeline}, nil
}

// Start launches the schedule plus a one-shot startup staleness check.
func (s *Scheduler) Start() {
	time.AfterFunc(startupDelay, func() {
		runLogged(s.pipeline, "startup")
	})
	s.cron.Start()
}

// Stop halts the schedule, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func runLogged(pipeline *Pipeline, source string) {
	if _, err := pipeline.RunIfStale(context.Background(), source); err != nil {
		log.Error().Err(err).Str("source", source).Msg("scheduled email fetch failed")
	}
}
