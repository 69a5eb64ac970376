package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
	"github.com/Mdx2025/emailbot-backend/internal/models"
)

func newDraftFileRepo(t *testing.T) (interfaces.DraftRepository, string) {
	t.Helper()
	root := t.TempDir()
	repo, err := NewDraftFileRepository(root)
	require.NoError(t, err)
	return repo, root
}

func draftFixture(externalID, threadID string) *models.Draft {
	return &models.Draft{
		ClientEmail: "maria@acme.io",
		ExternalID:  externalID,
		ThreadID:    threadID,
		Subject:     "Website project",
		Content:     "Hi Maria",
		Status:      enum.DraftStatusPendingReview,
	}
}

func TestDraftFileRepository_CreateAssignsID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newDraftFileRepo(t)

	id, err := repo.Create(ctx, draftFixture("msg-1", "thread-1"))
	require.NoError(t, err)

	assert.Contains(t, id, "draft_")

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Hi Maria", stored.Content)
	assert.False(t, stored.GeneratedAt.IsZero())
}

func TestDraftFileRepository_CreateIsIdempotentOnSource(t *testing.T) {
	ctx := context.Background()
	repo, _ := newDraftFileRepo(t)

	first, err := repo.Create(ctx, draftFixture("msg-1", "thread-1"))
	require.NoError(t, err)

	second, err := repo.Create(ctx, draftFixture("msg-1", "thread-1"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	all, err := repo.ListByStatus(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDraftFileRepository_FollowupsAreExemptFromDedupe(t *testing.T) {
	ctx := context.Background()
	repo, _ := newDraftFileRepo(t)

	parentID, err := repo.Create(ctx, draftFixture("msg-1", "thread-1"))
	require.NoError(t, err)

	followup := draftFixture("msg-1", "thread-1")
	followup.IsFollowup = true
	followup.ParentDraftID = parentID
	followup.FollowupNumber = 1

	followupID, err := repo.Create(ctx, followup)
	require.NoError(t, err)
	assert.NotEqual(t, parentID, followupID)
}

func TestDraftFileRepository_GetByIDUnknownReturnsNil(t *testing.T) {
	ctx := context.Background()
	repo, _ := newDraftFileRepo(t)

	draft, err := repo.GetByID(ctx, "draft-missing")
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestDraftFileRepository_GetBySource(t *testing.T) {
	ctx := context.Background()
	repo, _ := newDraftFileRepo(t)

	id, err := repo.Create(ctx, draftFixture("msg-1", "thread-1"))
	require.NoError(t, err)

	found, err := repo.GetBySource(ctx, "msg-1", "thread-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, id, found.ID)

	missing, err := repo.GetBySource(ctx, "msg-2", "thread-1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDraftFileRepository_ListByStatus(t *testing.T) {
	ctx := context.Background()
	repo, _ := newDraftFileRepo(t)

	older := draftFixture("msg-1", "thread-1")
	older.GeneratedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	olderID, err := repo.Create(ctx, older)
	require.NoError(t, err)

	newer := draftFixture("msg-2", "thread-2")
	newer.GeneratedAt = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	newerID, err := repo.Create(ctx, newer)
	require.NoError(t, err)

	approved := draftFixture("msg-3", "thread-3")
	approved.Status = enum.DraftStatusApproved
	_, err = repo.Create(ctx, approved)
	require.NoError(t, err)

	pending, err := repo.ListByStatus(ctx, enum.DraftStatusPendingReview)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, newerID, pending[0].ID)
	assert.Equal(t, olderID, pending[1].ID)

	all, err := repo.ListByStatus(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDraftFileRepository_UpdateSyncStateTouchesOnlySyncColumns(t *testing.T) {
	ctx := context.Background()
	repo, _ := newDraftFileRepo(t)

	id, err := repo.Create(ctx, draftFixture("msg-1", "thread-1"))
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	stored.Status = enum.DraftStatusSent
	require.NoError(t, repo.Update(ctx, stored))

	require.NoError(t, repo.UpdateSyncState(ctx, id, true, "", "rec-1"))

	current, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, enum.DraftStatusSent, current.Status)
	assert.True(t, current.SyncedToCRM)
	assert.Equal(t, "rec-1", current.CRMRecordID)
	assert.Empty(t, current.LastSyncError)
}

func TestDraftFileRepository_UpdateSyncStateUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	repo, _ := newDraftFileRepo(t)

	require.NoError(t, repo.UpdateSyncState(ctx, "draft_missing", true, "", "rec-1"))

	drafts, err := repo.ListByStatus(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestDraftFileRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo, _ := newDraftFileRepo(t)

	id, err := repo.Create(ctx, draftFixture("msg-1", "thread-1"))
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	stored.Status = enum.DraftStatusApproved
	stored.Approver = "reviewer@agency.io"
	require.NoError(t, repo.Update(ctx, stored))

	updated, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, enum.DraftStatusApproved, updated.Status)
	assert.Equal(t, "reviewer@agency.io", updated.Approver)
}

func TestDraftFileRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo, _ := newDraftFileRepo(t)

	draft := draftFixture("msg-1", "thread-1")
	id, err := repo.Upsert(ctx, draft)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	draft.ID = id
	draft.Content = "replaced body"
	again, err := repo.Upsert(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "replaced body", stored.Content)
}

func TestDraftFileRepository_ListPendingSync(t *testing.T) {
	ctx := context.Background()
	repo, _ := newDraftFileRepo(t)

	failed := draftFixture("msg-1", "thread-1")
	failed.LastSyncError = "crm unreachable"
	failedID, err := repo.Create(ctx, failed)
	require.NoError(t, err)

	synced := draftFixture("msg-2", "thread-2")
	synced.SyncedToCRM = true
	_, err = repo.Create(ctx, synced)
	require.NoError(t, err)

	// Never attempted yet, so not part of the sweep.
	untouched := draftFixture("msg-3", "thread-3")
	_, err = repo.Create(ctx, untouched)
	require.NoError(t, err)

	pending, err := repo.ListPendingSync(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, failedID, pending[0].ID)
}

func TestDraftFileRepository_SurvivesReload(t *testing.T) {
	ctx := context.Background()
	repo, root := newDraftFileRepo(t)

	id, err := repo.Create(ctx, draftFixture("msg-1", "thread-1"))
	require.NoError(t, err)

	reloaded, err := NewDraftFileRepository(root)
	require.NoError(t, err)

	stored, err := reloaded.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "msg-1", stored.ExternalID)
	assert.Equal(t, enum.DraftStatusPendingReview, stored.Status)
}
