package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"notedash-server/internal/domain"
	"notedash-server/internal/repository"
)

var errStoreUnavailable = errors.New("store unavailable")

// flakyNoteRepo wraps the in-memory store with call counting and per-note
// delete failures.
type flakyNoteRepo struct {
	*repository.MemoryNoteRepository

	mu         sync.Mutex
	creates    int
	failDelete map[string]bool
}

func newFlakyNoteRepo() *flakyNoteRepo {
	return &flakyNoteRepo{
		MemoryNoteRepository: repository.NewMemoryNoteRepository(),
		failDelete:           make(map[string]bool),
	}
}

func (r *flakyNoteRepo) Create(ctx context.Context, note *domain.Note) error {
	r.mu.Lock()
	r.creates++
	r.mu.Unlock()
	return r.MemoryNoteRepository.Create(ctx, note)
}

func (r *flakyNoteRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	fail := r.failDelete[id]
	r.mu.Unlock()
	if fail {
		return errStoreUnavailable
	}
	return r.MemoryNoteRepository.Delete(ctx, id)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestNoteService() (*NoteService, *flakyNoteRepo, *testClock) {
	repo := newFlakyNoteRepo()
	clock := &testClock{now: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)}

	svc := NewNoteService(repo, DefaultTrashRetention)
	svc.now = clock.Now

	return svc, repo, clock
}

// seedNote stores a note as-is, bypassing validation.
func seedNote(repo repository.NoteRepository, note *domain.Note) *domain.Note {
	if note.ModifiedAt.IsZero() {
		note.ModifiedAt = note.CreatedAt
	}
	repo.Create(context.Background(), note)
	return note
}

func daysAgo(now time.Time, days int) *time.Time {
	t := now.Add(-time.Duration(days) * 24 * time.Hour)
	return &t
}
