package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron"

	"github.com/m3rciful/gymbot/core/logger"
)

type cronRunner = *cron.Cron

// StartAutosave schedules a periodic flush of dirty state. A clean store is
// skipped so unchanged files stay byte-identical between writes.
func (s *Store) StartAutosave(ctx context.Context, intervalSeconds int) error {
	c := cron.New()
	spec := fmt.Sprintf("@every %ds", intervalSeconds)
	err := c.AddFunc(spec, func() {
		if !s.Dirty() {
			logger.Debug(ctx, "store", "store.autosave.clean")
			return
		}
		if err := s.Save(ctx); err != nil {
			logger.Error(ctx, "store", "store.autosave.failed",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
				slog.String("err_code", "AUTOSAVE_FAIL"),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule autosave: %w", err)
	}
	c.Start()
	s.mu.Lock()
	s.cron = c
	s.mu.Unlock()
	logger.Info(ctx, "store", "store.autosave.started",
		slog.String("status", "ok"),
		slog.Int("interval_s", intervalSeconds),
	)
	return nil
}

func (s *Store) stopAutosave() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c != nil {
		c.Stop()
	}
}
