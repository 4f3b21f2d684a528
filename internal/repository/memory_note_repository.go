package repository

import (
	"context"
	"sync"
	"time"

	"notedash-server/internal/domain"
)

type noteWatcher struct {
	ownerID string
	events  chan domain.NoteEvent
}

// MemoryNoteRepository keeps notes in process memory. It backs DB_DRIVER=memory
// and tests.
type MemoryNoteRepository struct {
	mu       sync.RWMutex
	notes    map[string]*domain.Note
	watchers map[*noteWatcher]struct{}
}

func NewMemoryNoteRepository() *MemoryNoteRepository {
	return &MemoryNoteRepository{
		notes:    make(map[string]*domain.Note),
		watchers: make(map[*noteWatcher]struct{}),
	}
}

func (r *MemoryNoteRepository) Create(ctx context.Context, note *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.notes[note.ID]; exists {
		return ErrConflict
	}
	r.notes[note.ID] = copyNote(note)
	r.notify(domain.NoteEvent{Type: domain.NoteEventUpsert, NoteID: note.ID, Note: copyNote(note)}, note.OwnerID)

	return nil
}

func (r *MemoryNoteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyNote(note), nil
}

func (r *MemoryNoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	return r.filter(func(n *domain.Note) bool { return n.OwnerID == ownerID }), nil
}

func (r *MemoryNoteRepository) ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Note, error) {
	return r.filter(func(n *domain.Note) bool {
		return n.IsDeleted && n.DeletedAt != nil && n.DeletedAt.Before(cutoff)
	}), nil
}

func (r *MemoryNoteRepository) filter(keep func(*domain.Note) bool) []*domain.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var notes []*domain.Note
	for _, note := range r.notes {
		if keep(note) {
			notes = append(notes, copyNote(note))
		}
	}
	return notes
}

func (r *MemoryNoteRepository) Update(ctx context.Context, note *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[note.ID]; !ok {
		return ErrNotFound
	}
	r.notes[note.ID] = copyNote(note)
	r.notify(domain.NoteEvent{Type: domain.NoteEventUpsert, NoteID: note.ID, Note: copyNote(note)}, note.OwnerID)

	return nil
}

func (r *MemoryNoteRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	note, ok := r.notes[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.notes, id)
	r.notify(domain.NoteEvent{Type: domain.NoteEventDelete, NoteID: id}, note.OwnerID)

	return nil
}

func (r *MemoryNoteRepository) Watch(ctx context.Context, ownerID string) (<-chan domain.NoteEvent, error) {
	w := &noteWatcher{
		ownerID: ownerID,
		events:  make(chan domain.NoteEvent, watchBuffer),
	}

	r.mu.Lock()
	r.watchers[w] = struct{}{}
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		delete(r.watchers, w)
		close(w.events)
		r.mu.Unlock()
	}()

	return w.events, nil
}

// notify must be called with mu held. A watcher with a full buffer already
// has a refresh pending, so the event is dropped.
func (r *MemoryNoteRepository) notify(event domain.NoteEvent, ownerID string) {
	for w := range r.watchers {
		if w.ownerID != ownerID {
			continue
		}
		select {
		case w.events <- event:
		default:
		}
	}
}

func copyNote(note *domain.Note) *domain.Note {
	cp := *note
	if note.DeletedAt != nil {
		t := *note.DeletedAt
		cp.DeletedAt = &t
	}
	return &cp
}
