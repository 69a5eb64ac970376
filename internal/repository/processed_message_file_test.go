package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mdx2025/emailbot-backend/internal/models"
)

func TestProcessedMessageFileRepository(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	repo, err := NewProcessedMessageFileRepository(root)
	require.NoError(t, err)

	exists, err := repo.Exists(ctx, "msg-1")
	require.NoError(t, err)
	assert.False(t, exists)

	err = repo.Create(ctx, &models.ProcessedMessage{
		ExternalID: "msg-1",
		ThreadID:   "thread-1",
		Outcome:    "draft_created",
	})
	require.NoError(t, err)

	exists, err = repo.Exists(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, exists)

	// The ledger survives a restart.
	reloaded, err := NewProcessedMessageFileRepository(root)
	require.NoError(t, err)
	exists, err = reloaded.Exists(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProcessedMessageFileRepository_NormalizesMessageID(t *testing.T) {
	ctx := context.Background()

	repo, err := NewProcessedMessageFileRepository(t.TempDir())
	require.NoError(t, err)

	err = repo.Create(ctx, &models.ProcessedMessage{ExternalID: "<msg-1@mail.acme.io>"})
	require.NoError(t, err)

	exists, err := repo.Exists(ctx, "msg-1@mail.acme.io")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProcessedMessageFileRepository_DuplicateCreateIsNoop(t *testing.T) {
	ctx := context.Background()

	repo, err := NewProcessedMessageFileRepository(t.TempDir())
	require.NoError(t, err)

	first := &models.ProcessedMessage{ExternalID: "msg-1", Outcome: "draft_created"}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.ProcessedMessage{ExternalID: "msg-1", Outcome: "skipped"}
	require.NoError(t, repo.Create(ctx, second))

	exists, err := repo.Exists(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, exists)
}
