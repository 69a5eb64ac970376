package draft

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mdx2025/emailbot-backend/config"
	"github.com/Mdx2025/emailbot-backend/dto"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
	"github.com/Mdx2025/emailbot-backend/internal/logger"
	"github.com/Mdx2025/emailbot-backend/internal/models"
	"github.com/Mdx2025/emailbot-backend/internal/repository"
	"github.com/Mdx2025/emailbot-backend/internal/utils"
	"github.com/Mdx2025/emailbot-backend/services/approval"
	"github.com/Mdx2025/emailbot-backend/services/followup"
)

type fakeMailbox struct {
	sent    [][]byte
	failFor map[string]bool
}

func (m *fakeMailbox) ListMessages(ctx context.Context, query string, limit int) ([]string, error) {
	return nil, nil
}

func (m *fakeMailbox) GetMessage(ctx context.Context, id string) (*dto.InboundMessage, error) {
	return nil, nil
}

func (m *fakeMailbox) SendMessage(ctx context.Context, raw []byte) (string, error) {
	for needle := range m.failFor {
		if bytes.Contains(raw, []byte(needle)) {
			return "", fmt.Errorf("smtp connection refused")
		}
	}
	m.sent = append(m.sent, raw)
	return fmt.Sprintf("sent-%d@mail.test", len(m.sent)), nil
}

type noopPublisher struct{}

func (noopPublisher) PublishDraftEvent(ctx context.Context, eventType string, draft *models.Draft) {
}
func (noopPublisher) Close() error { return nil }

type noopSyncBridge struct{}

func (noopSyncBridge) MirrorDraft(ctx context.Context, draft *models.Draft) {}
func (noopSyncBridge) Reconcile(ctx context.Context) (int, error)          { return 0, nil }

type fixture struct {
	service interfaces.DraftService
	repos   *repository.Repositories
	mailbox *fakeMailbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos, err := repository.InitRepositories(&config.StorageConfig{
		Backend:  "file",
		FileRoot: t.TempDir(),
	}, nil)
	require.NoError(t, err)

	log := logger.NewAppLogger(&logger.Config{LogLevel: "error"})
	log.InitLogger()

	mailboxConfig := &config.MailboxConfig{
		FromAddress:  "studio@agency.io",
		FromName:     "The Studio",
		SenderDomain: "agency.io",
	}

	mb := &fakeMailbox{failFor: map[string]bool{}}
	approvalService := approval.NewApprovalService(repos, noopPublisher{}, noopSyncBridge{})
	followupService := followup.NewFollowupService(&config.FollowupConfig{OffsetDays: []int{3, 5, 6}}, repos)

	return &fixture{
		service: NewDraftService(mailboxConfig, repos, mb, approvalService, followupService, log),
		repos:   repos,
		mailbox: mb,
	}
}

func (f *fixture) seedDraft(t *testing.T, externalID string, status enum.DraftStatus) *models.Draft {
	t.Helper()
	draft := &models.Draft{
		ClientEmail:     externalID + "@lead.test",
		ClientName:      "Maria",
		ExternalID:      externalID,
		ThreadID:        "thread-" + externalID,
		Subject:         "Website project",
		OriginalMessage: "Hello, we need a new website.",
		Content:         "Hi Maria, reply for " + externalID,
		Language:        enum.LanguageEnglish,
		Status:          status,
		SLABucket:       enum.SLABucket24h,
	}
	id, err := f.repos.DraftRepository.Create(context.Background(), draft)
	require.NoError(t, err)
	stored, err := f.repos.DraftRepository.GetByID(context.Background(), id)
	require.NoError(t, err)
	return stored
}

func TestSendApproved(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.seedDraft(t, "msg-1", enum.DraftStatusApproved)
	second := f.seedDraft(t, "msg-2", enum.DraftStatusApproved)
	pending := f.seedDraft(t, "msg-3", enum.DraftStatusPendingReview)

	result, err := f.service.SendApproved(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, f.mailbox.sent, 2)

	for _, id := range []string{first.ID, second.ID} {
		stored, err := f.repos.DraftRepository.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, enum.DraftStatusSent, stored.Status)
		assert.NotNil(t, stored.SentAt)
	}

	untouched, err := f.repos.DraftRepository.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.DraftStatusPendingReview, untouched.Status)
}

func TestSendApproved_FailedSendStaysApproved(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ok := f.seedDraft(t, "msg-1", enum.DraftStatusApproved)
	broken := f.seedDraft(t, "msg-2", enum.DraftStatusApproved)
	f.mailbox.failFor[broken.ClientEmail] = true

	result, err := f.service.SendApproved(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)

	var failedItem string
	for _, item := range result.Details {
		if item.Outcome == "send_failed" {
			failedItem = item.DraftID
		}
	}
	assert.Equal(t, broken.ID, failedItem)

	stored, err := f.repos.DraftRepository.GetByID(ctx, broken.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.DraftStatusApproved, stored.Status)

	sent, err := f.repos.DraftRepository.GetByID(ctx, ok.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.DraftStatusSent, sent.Status)
}

func TestSendApproved_FollowupStampsParent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	parent := f.seedDraft(t, "msg-1", enum.DraftStatusSent)
	parent.SentAt = utils.NowPtr()
	require.NoError(t, f.repos.DraftRepository.Update(ctx, parent))

	followupDraft := &models.Draft{
		ClientEmail:    parent.ClientEmail,
		ClientName:     parent.ClientName,
		ExternalID:     parent.ExternalID,
		ThreadID:       parent.ThreadID,
		Subject:        parent.Subject,
		Content:        "Hi Maria, just following up.",
		Language:       enum.LanguageEnglish,
		Status:         enum.DraftStatusApproved,
		IsFollowup:     true,
		ParentDraftID:  parent.ID,
		FollowupNumber: 1,
	}
	_, err := f.repos.DraftRepository.Create(ctx, followupDraft)
	require.NoError(t, err)

	result, err := f.service.SendApproved(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)

	storedParent, err := f.repos.DraftRepository.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.NotNil(t, storedParent.FollowupSent1)
}

func TestSendApproved_EmptyBatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	result, err := f.service.SendApproved(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, f.mailbox.sent)
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.seedDraft(t, "msg-1", enum.DraftStatusPendingReview)

	stale := f.seedDraft(t, "msg-2", enum.DraftStatusPendingReview)
	stale.GeneratedAt = utils.Now().Add(-48 * time.Hour)
	require.NoError(t, f.repos.DraftRepository.Update(ctx, stale))

	f.seedDraft(t, "msg-3", enum.DraftStatusApproved)
	f.seedDraft(t, "msg-4", enum.DraftStatusSent)
	f.seedDraft(t, "msg-5", enum.DraftStatusRejected)

	metrics, err := f.service.Metrics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 5, metrics.Total)
	assert.Equal(t, 2, metrics.CountsByStatus["pending_review"])
	assert.Equal(t, 1, metrics.CountsByStatus["approved"])
	assert.Equal(t, 1, metrics.CountsByStatus["sent"])
	assert.Equal(t, 1, metrics.CountsByStatus["rejected"])

	// approved + sent over all decided drafts.
	assert.InDelta(t, 2.0/3.0, metrics.ApprovalRate, 0.001)

	// The 48h-old pending draft breaches its 24h bucket.
	assert.Equal(t, 1, metrics.SLABreaches)
	assert.Greater(t, metrics.AvgPendingAgeHours, 20.0)
}

func TestMetrics_EmptyStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	metrics, err := f.service.Metrics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, metrics.Total)
	assert.Zero(t, metrics.ApprovalRate)
	assert.Zero(t, metrics.AvgPendingAgeHours)
	assert.Zero(t, metrics.SLABreaches)
	assert.Equal(t, 0, metrics.CountsByStatus["pending_review"])
}
