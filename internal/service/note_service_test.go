package service

import (
	"context"
	"testing"
	"time"

	"notedash-server/internal/analysis"
	"notedash-server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertTrashInvariant(t *testing.T, note *domain.Note) {
	t.Helper()
	assert.Equal(t, note.IsDeleted, note.DeletedAt != nil, "IsDeleted must match DeletedAt presence")
	assert.False(t, note.ModifiedAt.Before(note.CreatedAt), "ModifiedAt before CreatedAt")
}

func TestNoteService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		title       string
		description string
		wantErr     error
		wantTitle   string
		wantDesc    string
	}{
		{"with title", "  Groceries ", " milk, eggs ", nil, "Groceries", "milk, eggs"},
		{"empty title", "", "Buy milk", nil, "", "Buy milk"},
		{"empty description", "Title", "", ErrEmptyDescription, "", ""},
		{"blank description", "Title", "   \n\t", ErrEmptyDescription, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, clock := newTestNoteService()

			note, err := svc.Create(ctx, "owner-1", tt.title, tt.description)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, repo.creates, "validation must fail before any store call")
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, note.ID)
			assert.Equal(t, "owner-1", note.OwnerID)
			assert.Equal(t, tt.wantTitle, note.Title)
			assert.Equal(t, tt.wantDesc, note.Description)
			assert.Equal(t, clock.Now(), note.CreatedAt)
			assert.Equal(t, note.CreatedAt, note.ModifiedAt)
			assert.False(t, note.IsDeleted)
			assert.False(t, note.IsPinned)
			assert.Equal(t, 1, repo.creates)
			assertTrashInvariant(t, note)
		})
	}
}

func TestNoteService_QuickCreate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		text      string
		wantTitle string
		wantDesc  string
		wantErr   error
	}{
		{"title and description", "Groceries, milk and eggs", "Groceries", "milk and eggs", nil},
		{"extra commas stay in description", "Trip, pack boots, maps", "Trip", "pack boots, maps", nil},
		{"no comma", "Call the plumber", "Call the plumber", "Call the plumber", nil},
		{"trailing comma", "Reminder,", "Reminder", "Reminder", nil},
		{"leading comma", ", just a body", "", "just a body", nil},
		{"empty", "   ", "", "", ErrEmptyDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestNoteService()

			note, err := svc.QuickCreate(ctx, "owner-1", tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, note.Title)
			assert.Equal(t, tt.wantDesc, note.Description)
		})
	}
}

func TestNoteService_Edit(t *testing.T) {
	ctx := context.Background()
	svc, repo, clock := newTestNoteService()

	note, err := svc.Create(ctx, "owner-1", "Old", "old body")
	require.NoError(t, err)

	clock.Advance(time.Minute)

	edited, err := svc.Edit(ctx, "owner-1", note.ID, " New ", " new body ")
	require.NoError(t, err)
	assert.Equal(t, "New", edited.Title)
	assert.Equal(t, "new body", edited.Description)
	assert.Equal(t, clock.Now(), edited.ModifiedAt)
	assert.Equal(t, note.CreatedAt, edited.CreatedAt)

	stored, err := repo.FindByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "new body", stored.Description)

	_, err = svc.Edit(ctx, "owner-1", note.ID, "New", "  ")
	assert.ErrorIs(t, err, ErrEmptyDescription)

	_, err = svc.Edit(ctx, "someone-else", note.ID, "Hijack", "body")
	assert.ErrorIs(t, err, ErrNoteNotFound)

	_, err = svc.Edit(ctx, "owner-1", "missing", "x", "body")
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestNoteService_TogglePin_KeepsModifiedAt(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestNoteService()

	note, err := svc.Create(ctx, "owner-1", "", "pin me")
	require.NoError(t, err)

	clock.Advance(time.Hour)

	pinned, err := svc.TogglePin(ctx, "owner-1", note.ID)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)
	assert.Equal(t, note.ModifiedAt, pinned.ModifiedAt)

	unpinned, err := svc.TogglePin(ctx, "owner-1", note.ID)
	require.NoError(t, err)
	assert.False(t, unpinned.IsPinned)
}

func TestNoteService_SetIcon(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestNoteService()

	note, err := svc.Create(ctx, "owner-1", "Coffee", "beans")
	require.NoError(t, err)

	clock.Advance(time.Minute)

	updated, err := svc.SetIcon(ctx, "owner-1", note.ID, "car")
	require.NoError(t, err)
	assert.Equal(t, "car", updated.Icon)
	assert.Equal(t, clock.Now(), updated.ModifiedAt)

	updated, err = svc.SetIcon(ctx, "owner-1", note.ID, analysis.NoIcon)
	require.NoError(t, err)
	assert.Equal(t, analysis.NoIcon, updated.Icon)

	updated, err = svc.SetIcon(ctx, "owner-1", note.ID, "")
	require.NoError(t, err)
	assert.Empty(t, updated.Icon)

	_, err = svc.SetIcon(ctx, "owner-1", note.ID, "spaceship")
	assert.ErrorIs(t, err, ErrUnknownIcon)
}

func TestNoteService_SoftDelete_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, repo, clock := newTestNoteService()

	note, err := svc.Create(ctx, "owner-1", "", "to the trash")
	require.NoError(t, err)

	first, err := svc.SoftDelete(ctx, "owner-1", note.ID)
	require.NoError(t, err)
	assertTrashInvariant(t, first)
	require.NotNil(t, first.DeletedAt)
	deletedAt := *first.DeletedAt

	clock.Advance(time.Hour)

	second, err := svc.SoftDelete(ctx, "owner-1", note.ID)
	require.NoError(t, err)
	assertTrashInvariant(t, second)
	assert.Equal(t, deletedAt, *second.DeletedAt, "second delete must not re-stamp")

	stored, _ := repo.FindByID(ctx, note.ID)
	assert.Equal(t, first, stored)
}

func TestNoteService_Restore(t *testing.T) {
	ctx := context.Background()
	svc, repo, clock := newTestNoteService()

	trashed := seedNote(repo, &domain.Note{
		ID:          "old-trash",
		OwnerID:     "owner-1",
		Description: "forgotten",
		IsDeleted:   true,
		DeletedAt:   daysAgo(clock.Now(), 3),
		CreatedAt:   clock.Now().Add(-30 * 24 * time.Hour),
	})

	restored, err := svc.Restore(ctx, "owner-1", trashed.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
	assert.Nil(t, restored.DeletedAt)
	assertTrashInvariant(t, restored)

	again, err := svc.Restore(ctx, "owner-1", trashed.ID)
	require.NoError(t, err)
	assert.Equal(t, restored, again)
}

func TestNoteService_Purge_IsTerminal(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestNoteService()

	note, err := svc.Create(ctx, "owner-1", "", "gone soon")
	require.NoError(t, err)

	require.NoError(t, svc.Purge(ctx, "owner-1", note.ID))

	_, err = svc.Restore(ctx, "owner-1", note.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)

	assert.ErrorIs(t, svc.Purge(ctx, "owner-1", note.ID), ErrNoteNotFound)
}

func TestNoteService_Purge_OtherOwner(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestNoteService()

	note, err := svc.Create(ctx, "owner-1", "", "mine")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Purge(ctx, "owner-2", note.ID), ErrNoteNotFound)

	_, err = repo.FindByID(ctx, note.ID)
	assert.NoError(t, err)
}

func TestNoteService_SweepExpired(t *testing.T) {
	ctx := context.Background()
	svc, repo, clock := newTestNoteService()
	now := clock.Now()

	eightDays := seedNote(repo, &domain.Note{
		ID: "eight", OwnerID: "owner-1", Description: "old",
		IsDeleted: true, DeletedAt: daysAgo(now, 8), CreatedAt: now.Add(-20 * 24 * time.Hour),
	})
	sixDays := seedNote(repo, &domain.Note{
		ID: "six", OwnerID: "owner-1", Description: "recent",
		IsDeleted: true, DeletedAt: daysAgo(now, 6), CreatedAt: now.Add(-20 * 24 * time.Hour),
	})
	exactlySeven := seedNote(repo, &domain.Note{
		ID: "seven", OwnerID: "owner-1", Description: "boundary",
		IsDeleted: true, DeletedAt: daysAgo(now, 7), CreatedAt: now.Add(-20 * 24 * time.Hour),
	})

	purged := svc.SweepExpired(ctx, []*domain.Note{eightDays, sixDays, exactlySeven}, now)

	assert.Equal(t, []string{"eight"}, purged)

	_, err := repo.FindByID(ctx, "eight")
	assert.Error(t, err)
	_, err = repo.FindByID(ctx, "six")
	assert.NoError(t, err)
	_, err = repo.FindByID(ctx, "seven")
	assert.NoError(t, err, "expiry is strictly after seven days")
}

func TestNoteService_SweepExpired_FailureDoesNotStopOthers(t *testing.T) {
	ctx := context.Background()
	svc, repo, clock := newTestNoteService()
	now := clock.Now()

	a := seedNote(repo, &domain.Note{ID: "a", OwnerID: "o", Description: "x", IsDeleted: true, DeletedAt: daysAgo(now, 9)})
	b := seedNote(repo, &domain.Note{ID: "b", OwnerID: "o", Description: "x", IsDeleted: true, DeletedAt: daysAgo(now, 9)})
	repo.failDelete["a"] = true

	purged := svc.SweepExpired(ctx, []*domain.Note{a, b}, now)

	assert.Equal(t, []string{"b"}, purged)
}

func TestNoteService_EmptyTrash_PartialFailure(t *testing.T) {
	ctx := context.Background()
	svc, repo, clock := newTestNoteService()
	now := clock.Now()

	for _, id := range []string{"t1", "t2", "t3"} {
		seedNote(repo, &domain.Note{
			ID: id, OwnerID: "owner-1", Description: id,
			IsDeleted: true, DeletedAt: daysAgo(now, 1), CreatedAt: now.Add(-48 * time.Hour),
		})
	}
	seedNote(repo, &domain.Note{ID: "active", OwnerID: "owner-1", Description: "keep", CreatedAt: now})
	seedNote(repo, &domain.Note{ID: "other", OwnerID: "owner-2", Description: "x", IsDeleted: true, DeletedAt: daysAgo(now, 1)})
	repo.failDelete["t2"] = true

	purged, err := svc.EmptyTrash(ctx, "owner-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreUnavailable)
	assert.ElementsMatch(t, []string{"t1", "t3"}, purged)

	remaining, _ := repo.ListByOwner(ctx, "owner-1")
	var ids []string
	for _, n := range remaining {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"t2", "active"}, ids, "failed purge is not rolled back or retried")

	_, err = repo.FindByID(ctx, "other")
	assert.NoError(t, err, "other owners' trash is untouched")
}

func TestNoteService_EmptyTrash_SkipsPinned(t *testing.T) {
	ctx := context.Background()
	svc, repo, clock := newTestNoteService()
	now := clock.Now()

	seedNote(repo, &domain.Note{ID: "pinned", OwnerID: "o", Description: "x", IsPinned: true, IsDeleted: true, DeletedAt: daysAgo(now, 1)})
	seedNote(repo, &domain.Note{ID: "plain", OwnerID: "o", Description: "x", IsDeleted: true, DeletedAt: daysAgo(now, 1)})

	purged, err := svc.EmptyTrash(ctx, "o")

	require.NoError(t, err)
	assert.Equal(t, []string{"plain"}, purged)
}

func TestNoteService_List_SweepsExpired(t *testing.T) {
	ctx := context.Background()
	svc, repo, clock := newTestNoteService()
	now := clock.Now()

	seedNote(repo, &domain.Note{ID: "stale", OwnerID: "o", Description: "x", IsDeleted: true, DeletedAt: daysAgo(now, 8)})
	seedNote(repo, &domain.Note{ID: "stale-pinned", OwnerID: "o", Description: "x", IsPinned: true, IsDeleted: true, DeletedAt: daysAgo(now, 10)})
	seedNote(repo, &domain.Note{ID: "fresh", OwnerID: "o", Description: "x", IsDeleted: true, DeletedAt: daysAgo(now, 2)})

	snapshot, err := svc.List(ctx, "o", domain.ListOptions{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"stale", "stale-pinned"}, snapshot.Purged)
	require.Len(t, snapshot.Trashed, 1)
	assert.Equal(t, "fresh", snapshot.Trashed[0].ID)

	notes, _ := repo.ListByOwner(ctx, "o")
	assert.Len(t, notes, 1)
}

func TestNoteService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestNoteService()

	older, err := svc.Create(ctx, "owner-1", "Older", "first note")
	require.NoError(t, err)
	clock.Advance(time.Minute)

	note, err := svc.Create(ctx, "owner-1", "", "Buy milk and bread")
	require.NoError(t, err)

	snapshot, err := svc.List(ctx, "owner-1", domain.ListOptions{})
	require.NoError(t, err)
	require.Len(t, snapshot.Active, 2)
	assert.Equal(t, note.ID, snapshot.Active[0].ID, "newest first by default")
	assert.Equal(t, older.ID, snapshot.Active[1].ID)
	assert.Equal(t, "Buy milk and...", snapshot.Active[0].DisplayTitle)
	assert.Empty(t, snapshot.Trashed)

	_, err = svc.SoftDelete(ctx, "owner-1", note.ID)
	require.NoError(t, err)

	snapshot, err = svc.List(ctx, "owner-1", domain.ListOptions{})
	require.NoError(t, err)
	require.Len(t, snapshot.Active, 1)
	assert.Equal(t, older.ID, snapshot.Active[0].ID)
	require.Len(t, snapshot.Trashed, 1)
	assert.Equal(t, note.ID, snapshot.Trashed[0].ID)

	restored, err := svc.Restore(ctx, "owner-1", note.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)

	snapshot, err = svc.List(ctx, "owner-1", domain.ListOptions{})
	require.NoError(t, err)
	require.Len(t, snapshot.Active, 2)
	assert.Equal(t, note.ID, snapshot.Active[0].ID)
	assert.Nil(t, snapshot.Active[0].DeletedAt)
	assert.Empty(t, snapshot.Trashed)
}

func TestNoteService_Get(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestNoteService()

	note, err := svc.Create(ctx, "owner-1", "Morning coffee", "beans")
	require.NoError(t, err)

	view, err := svc.Get(ctx, "owner-1", note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning coffee", view.DisplayTitle)
	require.NotNil(t, view.ResolvedIcon)
	assert.Equal(t, "coffee", view.ResolvedIcon.Name)

	_, err = svc.Get(ctx, "owner-2", note.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}
