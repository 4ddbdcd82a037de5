package scheduler

import (
	"context"
	"time"

	"campus-ops/internal/config"
	"campus-ops/internal/logger"
	"campus-ops/internal/service"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the nightly aggregation and conflict sweep.
type Scheduler struct {
	cron        *cron.Cron
	cfg         config.SchedulerConfig
	aggregation *service.AggregationService
	conflicts   *service.ConflictService
}

// NewScheduler creates a new scheduler
func NewScheduler(cfg config.SchedulerConfig, aggregation *service.AggregationService, conflicts *service.ConflictService) *Scheduler {
	// Cron expressions in config carry a seconds field
	c := cron.New(cron.WithSeconds())

	return &Scheduler{
		cron:        c,
		cfg:         cfg,
		aggregation: aggregation,
		conflicts:   conflicts,
	}
}

// Start registers the batch jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	logger.Info().
		Str("aggregation_spec", s.cfg.AggregationSpec).
		Str("conflict_spec", s.cfg.ConflictSpec).
		Msg("Starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.AggregationSpec, s.runAggregation); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.ConflictSpec, s.runConflictScan); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop. Running jobs finish.
func (s *Scheduler) Stop() {
	logger.Info().Msg("Stopping scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runAggregation() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	result, err := s.aggregation.Run(ctx, today())
	if err != nil {
		logger.Error().Err(err).Msg("Scheduled aggregation run failed")
		return
	}
	logger.Info().
		Int("raw_events", result.RawEvents).
		Int("created", result.EventsCreated).
		Int("updated", result.EventsUpdated).
		Int("failed", result.EventsFailed).
		Int64("duration_ms", result.DurationMs).
		Msg("Scheduled aggregation run complete")
}

func (s *Scheduler) runConflictScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	result, err := s.conflicts.Run(ctx, today())
	if err != nil {
		logger.Error().Err(err).Msg("Scheduled conflict scan failed")
		return
	}
	logger.Info().
		Int("events_checked", result.EventsChecked).
		Int("conflicts_flagged", result.ConflictsFlagged).
		Int64("duration_ms", result.DurationMs).
		Msg("Scheduled conflict scan complete")
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Entries returns the registered cron entries.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}
