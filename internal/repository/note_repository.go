package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"notedash-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

const (
	noteDocType   = "note"
	noteIDPrefix  = "note:"
	watchBuffer   = 16
	changesBeatMs = 30000
)

type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	FindByID(ctx context.Context, id string) (*domain.Note, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Note, error)
	// ListTrashedBefore returns notes of every owner deleted before cutoff.
	ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id string) error
	// Watch streams changes to ownerID's notes until ctx is done.
	Watch(ctx context.Context, ownerID string) (<-chan domain.NoteEvent, error)
}

type noteRepository struct {
	db *kivik.DB
}

type noteDoc struct {
	ID          string  `json:"_id"`
	Rev         string  `json:"_rev,omitempty"`
	DocType     string  `json:"doc_type"`
	OwnerID     string  `json:"owner_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Icon        string  `json:"icon,omitempty"`
	IsPinned    bool    `json:"is_pinned"`
	IsDeleted   bool    `json:"is_deleted"`
	DeletedAt   *string `json:"deleted_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	ModifiedAt  string  `json:"modified_at,omitempty"`
}

func NewNoteRepository(client *kivik.Client, dbName string) NoteRepository {
	return &noteRepository{
		db: client.DB(dbName),
	}
}

func noteDocID(id string) string {
	return noteIDPrefix + id
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	doc := noteToDoc(note)

	if _, err := r.db.Put(ctx, doc.ID, doc); err != nil {
		if isConflict(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

func (r *noteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	var doc noteDoc
	if err := r.db.Get(ctx, noteDocID(id)).ScanDoc(&doc); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return docToNote(&doc)
}

func (r *noteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"doc_type": noteDocType,
			"owner_id": ownerID,
		},
		"limit": findLimit,
	}

	return r.find(ctx, query)
}

func (r *noteRepository) ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Note, error) {
	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"doc_type":   noteDocType,
			"is_deleted": true,
			"deleted_at": map[string]interface{}{"$lt": formatTime(cutoff)},
		},
		"limit": findLimit,
	}

	return r.find(ctx, query)
}

func (r *noteRepository) find(ctx context.Context, query map[string]interface{}) ([]*domain.Note, error) {
	rows := r.db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		var doc noteDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}

		note, err := docToNote(&doc)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return notes, nil
}

func (r *noteRepository) Update(ctx context.Context, note *domain.Note) error {
	doc := noteToDoc(note)

	rev, err := currentRev(ctx, r.db, doc.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get note for update: %w", err)
	}
	doc.Rev = rev

	if _, err := r.db.Put(ctx, doc.ID, doc); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id string) error {
	if err := deleteDoc(ctx, r.db, noteDocID(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

func (r *noteRepository) Watch(ctx context.Context, ownerID string) (<-chan domain.NoteEvent, error) {
	changes := r.db.Changes(ctx, kivik.Params(map[string]interface{}{
		"feed":         "continuous",
		"since":        "now",
		"include_docs": true,
		"heartbeat":    changesBeatMs,
	}))
	if err := changes.Err(); err != nil {
		return nil, fmt.Errorf("failed to open changes feed: %w", err)
	}

	events := make(chan domain.NoteEvent, watchBuffer)

	go func() {
		defer close(events)
		defer changes.Close()

		for changes.Next() {
			id := changes.ID()
			if !strings.HasPrefix(id, noteIDPrefix) {
				continue
			}

			event := domain.NoteEvent{NoteID: strings.TrimPrefix(id, noteIDPrefix)}
			if changes.Deleted() {
				// tombstones carry no owner, every watcher refreshes
				event.Type = domain.NoteEventDelete
			} else {
				var doc noteDoc
				if err := changes.ScanDoc(&doc); err != nil {
					log.Printf("[NoteRepository] Skipping unreadable change %s: %v", id, err)
					continue
				}
				if doc.DocType != noteDocType || doc.OwnerID != ownerID {
					continue
				}
				note, err := docToNote(&doc)
				if err != nil {
					log.Printf("[NoteRepository] Skipping malformed note %s: %v", id, err)
					continue
				}
				event.Type = domain.NoteEventUpsert
				event.Note = note
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}

		if err := changes.Err(); err != nil && ctx.Err() == nil {
			log.Printf("[NoteRepository] Changes feed for %s stopped: %v", ownerID, err)
		}
	}()

	return events, nil
}

func noteToDoc(note *domain.Note) noteDoc {
	return noteDoc{
		ID:          noteDocID(note.ID),
		DocType:     noteDocType,
		OwnerID:     note.OwnerID,
		Title:       note.Title,
		Description: note.Description,
		Icon:        note.Icon,
		IsPinned:    note.IsPinned,
		IsDeleted:   note.IsDeleted,
		DeletedAt:   formatTimePtr(note.DeletedAt),
		CreatedAt:   formatTime(note.CreatedAt),
		ModifiedAt:  formatTime(note.ModifiedAt),
	}
}

func docToNote(doc *noteDoc) (*domain.Note, error) {
	createdAt, err := parseTime(doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	modifiedAt := createdAt
	if doc.ModifiedAt != "" {
		if modifiedAt, err = parseTime(doc.ModifiedAt); err != nil {
			return nil, fmt.Errorf("failed to parse modified_at: %w", err)
		}
	}

	deletedAt, err := parseTimePtr(doc.DeletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deleted_at: %w", err)
	}

	return &domain.Note{
		ID:          strings.TrimPrefix(doc.ID, noteIDPrefix),
		OwnerID:     doc.OwnerID,
		Title:       doc.Title,
		Description: doc.Description,
		Icon:        doc.Icon,
		IsPinned:    doc.IsPinned,
		IsDeleted:   doc.IsDeleted,
		DeletedAt:   deletedAt,
		CreatedAt:   createdAt,
		ModifiedAt:  modifiedAt,
	}, nil
}
