package service

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"notedash-server/internal/analysis"
	"notedash-server/internal/domain"
)

// DefaultTrashRetention is how long a note may sit in the trash.
const DefaultTrashRetention = 7 * 24 * time.Hour

// Project derives a snapshot from the full set of an owner's notes. It is
// pure: notes whose trash retention has lapsed are left out of the snapshot
// and returned separately for the caller to purge. Fallback icon colours are
// drawn from cursor in display order and the advanced cursor is returned.
func Project(
	notes []*domain.Note,
	opts domain.ListOptions,
	now time.Time,
	retention time.Duration,
	cursor analysis.ColorCursor,
) (*domain.NoteSnapshot, []*domain.Note, analysis.ColorCursor) {
	opts = opts.WithDefaults()

	ordered := slices.Clone(notes)
	slices.SortFunc(ordered, func(a, b *domain.Note) int {
		return strings.Compare(a.ID, b.ID)
	})

	var active, trashed, expired []*domain.Note
	for _, note := range ordered {
		switch {
		case !note.IsDeleted:
			active = append(active, note)
		case note.Expired(now, retention):
			expired = append(expired, note)
		case !note.IsPinned:
			trashed = append(trashed, note)
		}
	}

	sortActive(active, opts)
	sortTrash(trashed)

	sources := make([]analysis.Source, len(active))
	for i, note := range active {
		sources[i] = analysis.Source{Title: note.Title, Description: note.Description}
	}
	keywords := analysis.ExtractKeywords(sources)

	active = filterByQuery(active, opts.Query)
	trashed = filterByQuery(trashed, opts.Query)

	snapshot := &domain.NoteSnapshot{
		Active:      make([]domain.NoteView, 0, len(active)),
		Trashed:     make([]domain.NoteView, 0, len(trashed)),
		Keywords:    keywords,
		Purged:      []string{},
		GeneratedAt: now,
	}

	var view domain.NoteView
	for _, note := range active {
		view, cursor = NewNoteView(note, cursor)
		snapshot.Active = append(snapshot.Active, view)
	}
	for _, note := range trashed {
		view, cursor = NewNoteView(note, cursor)
		snapshot.Trashed = append(snapshot.Trashed, view)
	}

	return snapshot, expired, cursor
}

func NewNoteView(note *domain.Note, cursor analysis.ColorCursor) (domain.NoteView, analysis.ColorCursor) {
	icon, cursor := analysis.ResolveNoteIcon(note.Icon, note.Title, cursor)
	return domain.NoteView{
		Note:         note,
		DisplayTitle: note.DisplayTitle(),
		ResolvedIcon: icon,
	}, cursor
}

func sortActive(notes []*domain.Note, opts domain.ListOptions) {
	var compare func(a, b *domain.Note) int
	switch opts.SortBy {
	case domain.SortByTitle:
		compare = func(a, b *domain.Note) int {
			return strings.Compare(a.SortTitle(), b.SortTitle())
		}
	case domain.SortByModifiedAt:
		compare = func(a, b *domain.Note) int {
			return a.ModifiedAt.Compare(b.ModifiedAt)
		}
	default:
		compare = func(a, b *domain.Note) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}

	if opts.Direction == domain.SortDesc {
		asc := compare
		compare = func(a, b *domain.Note) int { return -asc(a, b) }
	}

	slices.SortStableFunc(notes, compare)
}

func sortTrash(notes []*domain.Note) {
	slices.SortStableFunc(notes, func(a, b *domain.Note) int {
		return -cmp.Compare(deletedUnixNano(a), deletedUnixNano(b))
	})
}

func deletedUnixNano(n *domain.Note) int64 {
	if n.DeletedAt == nil {
		return 0
	}
	return n.DeletedAt.UnixNano()
}

func filterByQuery(notes []*domain.Note, query string) []*domain.Note {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return notes
	}

	var matched []*domain.Note
	for _, note := range notes {
		if strings.Contains(strings.ToLower(note.Title), query) ||
			strings.Contains(strings.ToLower(note.Description), query) {
			matched = append(matched, note)
		}
	}
	return matched
}
