package service

import (
	"context"
	"fmt"
	"log"
	"time"
)

// RetentionSweeper purges expired trash for every owner on a fixed interval,
// so notes expire even when nobody is watching them.
type RetentionSweeper struct {
	notes    *NoteService
	interval time.Duration
}

// DefaultSweepInterval applies when NewRetentionSweeper gets a non-positive
// interval.
const DefaultSweepInterval = time.Hour

func NewRetentionSweeper(notes *NoteService, interval time.Duration) *RetentionSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &RetentionSweeper{
		notes:    notes,
		interval: interval,
	}
}

// SweepOnce purges all notes whose retention lapsed before now.
func (s *RetentionSweeper) SweepOnce(ctx context.Context) ([]string, error) {
	now := s.notes.now()

	expired, err := s.notes.noteRepo.ListTrashedBefore(ctx, now.Add(-s.notes.retention))
	if err != nil {
		return nil, fmt.Errorf("failed to list expired notes: %w", err)
	}

	return s.notes.SweepExpired(ctx, expired, now), nil
}

// Run sweeps immediately and then on every tick until ctx is done.
func (s *RetentionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		purged, err := s.SweepOnce(ctx)
		if err != nil {
			log.Printf("[Sweeper] %v", err)
		} else if len(purged) > 0 {
			log.Printf("[Sweeper] Purged %d expired notes", len(purged))
		}

		select {
		case <-ctx.Done():
			log.Println("[Sweeper] Stopped")
			return
		case <-ticker.C:
		}
	}
}
