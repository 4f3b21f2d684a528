package domain

import (
	"strings"
	"time"

	"notedash-server/internal/analysis"
)

type Note struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon,omitempty"`
	IsPinned    bool       `json:"is_pinned"`
	IsDeleted   bool       `json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  time.Time  `json:"modified_at"`
}

// DisplayTitle is the title, or the opening words of the description when
// the note has none.
func (n *Note) DisplayTitle() string {
	if n.Title != "" {
		return n.Title
	}
	words := strings.Fields(n.Description)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ") + "..."
}

// SortTitle is the key used when ordering by title.
func (n *Note) SortTitle() string {
	if n.Title != "" {
		return n.Title
	}
	if words := strings.Fields(n.Description); len(words) > 0 {
		return words[0]
	}
	return ""
}

// Expired reports whether a trashed note has outlived the retention window.
func (n *Note) Expired(now time.Time, retention time.Duration) bool {
	if !n.IsDeleted || n.DeletedAt == nil {
		return false
	}
	return now.Sub(*n.DeletedAt) > retention
}

type NoteView struct {
	*Note
	DisplayTitle string         `json:"display_title"`
	ResolvedIcon *analysis.Icon `json:"resolved_icon"`
}

type NoteSnapshot struct {
	Active      []NoteView              `json:"active"`
	Trashed     []NoteView              `json:"trashed"`
	Keywords    []analysis.KeywordCount `json:"keywords"`
	Purged      []string                `json:"purged"`
	GeneratedAt time.Time               `json:"generated_at"`
}

type SortField string

const (
	SortByTitle      SortField = "title"
	SortByCreatedAt  SortField = "createdAt"
	SortByModifiedAt SortField = "modifiedAt"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type ListOptions struct {
	SortBy    SortField     `json:"sort_by" validate:"omitempty,oneof=title createdAt modifiedAt"`
	Direction SortDirection `json:"direction" validate:"omitempty,oneof=asc desc"`
	Query     string        `json:"q"`
}

// WithDefaults fills unset fields with createdAt descending.
func (o ListOptions) WithDefaults() ListOptions {
	if o.SortBy == "" {
		o.SortBy = SortByCreatedAt
	}
	if o.Direction == "" {
		o.Direction = SortDesc
	}
	return o
}

type NoteEventType string

const (
	NoteEventUpsert NoteEventType = "upsert"
	NoteEventDelete NoteEventType = "delete"
)

// NoteEvent is a single change observed on an owner's notes.
type NoteEvent struct {
	Type   NoteEventType
	NoteID string
	Note   *Note
}

type CreateNoteRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"required"`
}

type QuickNoteRequest struct {
	Text string `json:"text" validate:"required"`
}

type UpdateNoteRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"required"`
}

type SetIconRequest struct {
	Icon string `json:"icon"`
}

type EmptyTrashResponse struct {
	Purged []string `json:"purged"`
	Failed int      `json:"failed"`
}
