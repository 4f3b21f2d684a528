package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"notedash-server/internal/analysis"
	"notedash-server/internal/domain"
	"notedash-server/internal/metrics"
	"notedash-server/internal/repository"

	"github.com/google/uuid"
)

type NoteService struct {
	noteRepo  repository.NoteRepository
	retention time.Duration
	now       func() time.Time
}

func NewNoteService(noteRepo repository.NoteRepository, retention time.Duration) *NoteService {
	if retention <= 0 {
		retention = DefaultTrashRetention
	}
	return &NoteService{
		noteRepo:  noteRepo,
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *NoteService) Create(ctx context.Context, ownerID, title, description string) (*domain.Note, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	now := s.now()
	note := &domain.Note{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		ModifiedAt:  now,
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	metrics.TrackNoteOperation("create")
	return note, nil
}

// QuickCreate turns "title, description" into a note. Without a comma the
// whole text serves as both title and description.
func (s *NoteService) QuickCreate(ctx context.Context, ownerID, text string) (*domain.Note, error) {
	title, description, _ := strings.Cut(text, ",")
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if description == "" {
		description = title
	}
	return s.Create(ctx, ownerID, title, description)
}

func (s *NoteService) Get(ctx context.Context, ownerID, noteID string) (*domain.NoteView, error) {
	note, err := s.owned(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}

	view, _ := NewNoteView(note, 0)
	return &view, nil
}

func (s *NoteService) Edit(ctx context.Context, ownerID, noteID, title, description string) (*domain.Note, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	note, err := s.owned(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}

	note.Title = strings.TrimSpace(title)
	note.Description = description
	s.touch(note)

	if err := s.save(ctx, note, "edit"); err != nil {
		return nil, err
	}
	return note, nil
}

// TogglePin flips the pin flag. Pinning is a view change and leaves
// ModifiedAt alone.
func (s *NoteService) TogglePin(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	note, err := s.owned(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}

	note.IsPinned = !note.IsPinned

	if err := s.save(ctx, note, "pin"); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) SetIcon(ctx context.Context, ownerID, noteID, icon string) (*domain.Note, error) {
	icon = strings.TrimSpace(icon)
	if !analysis.IsIconLabel(icon) {
		return nil, ErrUnknownIcon
	}

	note, err := s.owned(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}

	note.Icon = icon
	s.touch(note)

	if err := s.save(ctx, note, "set_icon"); err != nil {
		return nil, err
	}
	return note, nil
}

// SoftDelete moves a note to the trash. Deleting a trashed note keeps its
// original DeletedAt.
func (s *NoteService) SoftDelete(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	note, err := s.owned(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}
	if note.IsDeleted {
		return note, nil
	}

	now := s.now()
	note.IsDeleted = true
	note.DeletedAt = &now

	if err := s.save(ctx, note, "soft_delete"); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Restore(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	note, err := s.owned(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}
	if !note.IsDeleted {
		return note, nil
	}

	note.IsDeleted = false
	note.DeletedAt = nil

	if err := s.save(ctx, note, "restore"); err != nil {
		return nil, err
	}
	return note, nil
}

// Purge removes a note permanently, whatever its state.
func (s *NoteService) Purge(ctx context.Context, ownerID, noteID string) error {
	if _, err := s.owned(ctx, ownerID, noteID); err != nil {
		return err
	}

	if err := s.purge(ctx, noteID); err != nil {
		return err
	}

	metrics.TrackPurge(metrics.PurgeManual, 1)
	return nil
}

// EmptyTrash purges every note in the owner's trash view. Each purge stands
// alone: a failure is reported in the joined error and the rest carry on.
func (s *NoteService) EmptyTrash(ctx context.Context, ownerID string) ([]string, error) {
	notes, err := s.noteRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	purged := []string{}
	var errs []error
	for _, note := range notes {
		if !note.IsDeleted || note.IsPinned {
			continue
		}
		if err := s.purge(ctx, note.ID); err != nil {
			errs = append(errs, fmt.Errorf("note %s: %w", note.ID, err))
			continue
		}
		purged = append(purged, note.ID)
	}

	metrics.TrackPurge(metrics.PurgeEmptyTrash, len(purged))
	return purged, errors.Join(errs...)
}

// SweepExpired purges the notes of trashed whose retention has lapsed at now
// and returns the ids it removed. Failures are logged and retried on the
// next sweep.
func (s *NoteService) SweepExpired(ctx context.Context, trashed []*domain.Note, now time.Time) []string {
	purged := []string{}
	for _, note := range trashed {
		if !note.Expired(now, s.retention) {
			continue
		}
		if err := s.purge(ctx, note.ID); err != nil {
			log.Printf("[Sweeper] Failed to purge expired note %s: %v", note.ID, err)
			continue
		}
		purged = append(purged, note.ID)
	}

	metrics.TrackPurge(metrics.PurgeSweep, len(purged))
	return purged
}

// List builds a one-off snapshot of the owner's notes, sweeping expired trash
// on the way.
func (s *NoteService) List(ctx context.Context, ownerID string, opts domain.ListOptions) (*domain.NoteSnapshot, error) {
	snapshot, _, err := s.Refresh(ctx, ownerID, opts, 0)
	return snapshot, err
}

// Refresh loads the owner's notes, projects them and sweeps what expired.
func (s *NoteService) Refresh(
	ctx context.Context,
	ownerID string,
	opts domain.ListOptions,
	cursor analysis.ColorCursor,
) (*domain.NoteSnapshot, analysis.ColorCursor, error) {
	notes, err := s.noteRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, cursor, fmt.Errorf("failed to list notes: %w", err)
	}

	now := s.now()
	snapshot, expired, cursor := Project(notes, opts, now, s.retention, cursor)
	snapshot.Purged = s.SweepExpired(ctx, expired, now)

	return snapshot, cursor, nil
}

// owned loads a note and hides notes of other owners behind ErrNoteNotFound.
func (s *NoteService) owned(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	note, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if note.OwnerID != ownerID {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

func (s *NoteService) save(ctx context.Context, note *domain.Note, operation string) error {
	if err := s.noteRepo.Update(ctx, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to %s note: %w", strings.ReplaceAll(operation, "_", " "), err)
	}
	metrics.TrackNoteOperation(operation)
	return nil
}

func (s *NoteService) purge(ctx context.Context, noteID string) error {
	if err := s.noteRepo.Delete(ctx, noteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to purge note: %w", err)
	}
	metrics.TrackNoteOperation("purge")
	return nil
}

// touch stamps ModifiedAt, never earlier than CreatedAt.
func (s *NoteService) touch(note *domain.Note) {
	now := s.now()
	if now.Before(note.CreatedAt) {
		now = note.CreatedAt
	}
	note.ModifiedAt = now
}
