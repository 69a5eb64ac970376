package followup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mdx2025/emailbot-backend/config"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
	er "github.com/Mdx2025/emailbot-backend/internal/errors"
	"github.com/Mdx2025/emailbot-backend/internal/models"
	"github.com/Mdx2025/emailbot-backend/internal/repository"
)

var sentAt = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T) (interfaces.FollowupService, *repository.Repositories) {
	t.Helper()
	repos, err := repository.InitRepositories(&config.StorageConfig{
		Backend:  "file",
		FileRoot: t.TempDir(),
	}, nil)
	require.NoError(t, err)

	cfg := &config.FollowupConfig{OffsetDays: []int{3, 5, 6}}
	return NewFollowupService(cfg, repos), repos
}

func seedParent(t *testing.T, repos *repository.Repositories, status enum.DraftStatus) *models.Draft {
	t.Helper()
	draft := &models.Draft{
		ClientEmail:     "maria@acme.io",
		ClientName:      "Maria",
		ClientService:   "web design",
		ExternalID:      "msg-1",
		ThreadID:        "thread-1",
		Subject:         "Website project",
		OriginalMessage: "Hello, we need a new website.",
		Content:         "Hi Maria, thanks for reaching out.",
		Language:        enum.LanguageEnglish,
		MessageType:     enum.MessageLead,
		Status:          status,
	}
	if status == enum.DraftStatusSent {
		at := sentAt
		draft.SentAt = &at
	}
	id, err := repos.DraftRepository.Create(context.Background(), draft)
	require.NoError(t, err)

	stored, err := repos.DraftRepository.GetByID(context.Background(), id)
	require.NoError(t, err)
	return stored
}

func TestDueFollowups_AllSlotsElapsed(t *testing.T) {
	ctx := context.Background()
	s, repos := newService(t)
	parent := seedParent(t, repos, enum.DraftStatusSent)

	due, err := s.DueFollowups(ctx, parent.ID, sentAt.AddDate(0, 0, 7))
	require.NoError(t, err)

	require.Len(t, due, 3)
	assert.Equal(t, 1, due[0].Number)
	assert.Equal(t, 2, due[1].Number)
	assert.Equal(t, 3, due[2].Number)
	assert.True(t, due[0].DueSince.Equal(sentAt.AddDate(0, 0, 3)))
	assert.Equal(t, parent.ID, due[0].ParentDraftID)
}

func TestDueFollowups_PartiallyElapsed(t *testing.T) {
	ctx := context.Background()
	s, repos := newService(t)
	parent := seedParent(t, repos, enum.DraftStatusSent)

	due, err := s.DueFollowups(ctx, parent.ID, sentAt.AddDate(0, 0, 4))
	require.NoError(t, err)

	require.Len(t, due, 1)
	assert.Equal(t, 1, due[0].Number)
}

func TestDueFollowups_ExactBoundaryIsDue(t *testing.T) {
	ctx := context.Background()
	s, repos := newService(t)
	parent := seedParent(t, repos, enum.DraftStatusSent)

	due, err := s.DueFollowups(ctx, parent.ID, sentAt.AddDate(0, 0, 3))
	require.NoError(t, err)

	require.Len(t, due, 1)
	assert.Equal(t, 1, due[0].Number)
}

func TestDueFollowups_SentSlotsAreSkipped(t *testing.T) {
	ctx := context.Background()
	s, repos := newService(t)
	parent := seedParent(t, repos, enum.DraftStatusSent)

	_, err := s.MarkFollowupSent(ctx, parent.ID, 1, sentAt.AddDate(0, 0, 3))
	require.NoError(t, err)

	due, err := s.DueFollowups(ctx, parent.ID, sentAt.AddDate(0, 0, 7))
	require.NoError(t, err)

	require.Len(t, due, 2)
	assert.Equal(t, 2, due[0].Number)
	assert.Equal(t, 3, due[1].Number)
}

func TestDueFollowups_ParentMustBeSent(t *testing.T) {
	ctx := context.Background()
	s, repos := newService(t)
	parent := seedParent(t, repos, enum.DraftStatusApproved)

	_, err := s.DueFollowups(ctx, parent.ID, sentAt.AddDate(0, 0, 7))

	assert.ErrorIs(t, err, er.ErrParentDraftNotSent)
}

func TestDueFollowups_UnknownParent(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)

	_, err := s.DueFollowups(ctx, "draft-missing", sentAt)

	assert.ErrorIs(t, err, er.ErrDraftNotFound)
}

func TestGenerateFollowup(t *testing.T) {
	ctx := context.Background()
	s, repos := newService(t)
	parent := seedParent(t, repos, enum.DraftStatusSent)

	draft, err := s.GenerateFollowup(ctx, parent.ID, 1)
	require.NoError(t, err)

	assert.True(t, draft.IsFollowup)
	assert.Equal(t, parent.ID, draft.ParentDraftID)
	assert.Equal(t, 1, draft.FollowupNumber)
	assert.Equal(t, parent.ClientEmail, draft.ClientEmail)
	assert.Equal(t, parent.ThreadID, draft.ThreadID)
	assert.Equal(t, enum.LanguageEnglish, draft.Language)
	assert.Equal(t, enum.DraftStatusPendingReview, draft.Status)
	assert.Contains(t, draft.Content, "Hi Maria,")
	assert.Contains(t, draft.Content, "web design")
	assert.NotEqual(t, parent.ID, draft.ID)
}

func TestGenerateFollowup_TopicFallsBackToSubject(t *testing.T) {
	ctx := context.Background()
	s, repos := newService(t)

	draft := &models.Draft{
		ClientEmail: "carlos@reformas.es",
		ClientName:  "Carlos",
		ExternalID:  "msg-2",
		ThreadID:    "thread-2",
		Subject:     "Tienda online",
		Content:     "Hola Carlos",
		Language:    enum.LanguageSpanish,
		Status:      enum.DraftStatusSent,
	}
	at := sentAt
	draft.SentAt = &at
	id, err := repos.DraftRepository.Create(ctx, draft)
	require.NoError(t, err)

	followup, err := s.GenerateFollowup(ctx, id, 2)
	require.NoError(t, err)

	assert.Contains(t, followup.Content, "Tienda online")
	assert.Contains(t, followup.Content, "Hola Carlos:")
}

func TestGenerateFollowup_SlotOutOfRange(t *testing.T) {
	ctx := context.Background()
	s, repos := newService(t)
	parent := seedParent(t, repos, enum.DraftStatusSent)

	_, err := s.GenerateFollowup(ctx, parent.ID, 0)
	assert.ErrorIs(t, err, er.ErrFollowupSlot)

	_, err = s.GenerateFollowup(ctx, parent.ID, 4)
	assert.ErrorIs(t, err, er.ErrFollowupSlot)
}

func TestMarkFollowupSent_StampsParent(t *testing.T) {
	ctx := context.Background()
	s, repos := newService(t)
	parent := seedParent(t, repos, enum.DraftStatusSent)

	stampAt := sentAt.AddDate(0, 0, 3)
	updated, err := s.MarkFollowupSent(ctx, parent.ID, 2, stampAt)
	require.NoError(t, err)

	require.NotNil(t, updated.FollowupSent2)
	assert.True(t, updated.FollowupSent2.Equal(stampAt))
	assert.Nil(t, updated.FollowupSent1)
	assert.Nil(t, updated.FollowupSent3)

	stored, err := repos.DraftRepository.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.FollowupSent2)
	assert.True(t, stored.FollowupSent2.Equal(stampAt))
}
