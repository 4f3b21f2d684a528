package service

import (
	"context"
	"fmt"
	"log"

	"notedash-server/internal/analysis"
	"notedash-server/internal/domain"
	"notedash-server/internal/metrics"
)

// FeedService turns the store's change stream into a stream of snapshots.
type FeedService struct {
	notes *NoteService
}

func NewFeedService(notes *NoteService) *FeedService {
	return &FeedService{
		notes: notes,
	}
}

// Subscribe emits a snapshot right away and another after every change to the
// owner's notes, sweeping expired trash on each refresh. Bursts of changes
// collapse into one snapshot. The channel closes once ctx is done.
func (f *FeedService) Subscribe(ctx context.Context, ownerID string, opts domain.ListOptions) (<-chan *domain.NoteSnapshot, error) {
	events, err := f.notes.noteRepo.Watch(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to watch notes: %w", err)
	}

	snapshots := make(chan *domain.NoteSnapshot, 1)

	go func() {
		defer close(snapshots)

		metrics.ActiveSubscriptions.Inc()
		defer metrics.ActiveSubscriptions.Dec()

		var cursor analysis.ColorCursor
		emit := func() bool {
			snapshot, next, err := f.notes.Refresh(ctx, ownerID, opts, cursor)
			if err != nil {
				if ctx.Err() != nil {
					return false
				}
				log.Printf("[Feed] Refresh for %s failed: %v", ownerID, err)
				return true
			}
			cursor = next

			select {
			case snapshots <- snapshot:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				drain(events)
				if !emit() {
					return
				}
			}
		}
	}()

	return snapshots, nil
}

func drain(events <-chan domain.NoteEvent) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
