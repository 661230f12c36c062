package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/iliyamo/table-reservation/internal/logger"
)

// Completer is the part of ReservationService the sweep drives.
type Completer interface {
	CompleteDue(ctx context.Context, before time.Time) (int, error)
}

// CompletionSweep periodically completes confirmed bookings whose visit
// date has passed, returning their tables to AVAILABLE.
type CompletionSweep struct {
	cron      *cron.Cron
	completer Completer
	now       func() time.Time
}

func NewCompletionSweep(completer Completer) *CompletionSweep {
	return &CompletionSweep{
		cron:      cron.New(),
		completer: completer,
		now:       time.Now,
	}
}

// Start schedules the sweep with a standard five field cron expression.
func (s *CompletionSweep) Start(ctx context.Context, schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(ctx) }); err != nil {
		return err
	}
	s.cron.Start()
	logger.Info().Str("schedule", schedule).Msg("completion sweep started")
	return nil
}

// RunOnce performs a single sweep and returns the number of completed
// bookings.
func (s *CompletionSweep) RunOnce(ctx context.Context) int {
	n, err := s.completer.CompleteDue(ctx, s.now())
	if err != nil {
		logger.Error().Err(err).Int("completed", n).Msg("completion sweep failed")
		return n
	}
	logger.Info().Int("completed", n).Msg("completion sweep finished")
	return n
}

// Stop waits for a running sweep to finish.
func (s *CompletionSweep) Stop() {
	<-s.cron.Stop().Done()
}

func (s *CompletionSweep) Entries() []cron.Entry {
	return s.cron.Entries()
}
