package crmsync

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mdx2025/emailbot-backend/config"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
	"github.com/Mdx2025/emailbot-backend/internal/logger"
	"github.com/Mdx2025/emailbot-backend/internal/models"
	"github.com/Mdx2025/emailbot-backend/internal/repository"
	"github.com/Mdx2025/emailbot-backend/internal/utils"
)

type stubCRM struct {
	mu      sync.Mutex
	byEmail map[string]string
	records map[string]interfaces.CRMRecordFields
	failing bool
	created int
	updated int

	// When set, the first lookup signals findEntered and then blocks until
	// findRelease is closed, holding the mirror mid-flight.
	findEntered chan struct{}
	findRelease chan struct{}
}

func newStubCRM() *stubCRM {
	return &stubCRM{
		byEmail: make(map[string]string),
		records: make(map[string]interfaces.CRMRecordFields),
	}
}

func (c *stubCRM) FindRecordByEmail(ctx context.Context, email string) (string, error) {
	if c.findEntered != nil {
		close(c.findEntered)
		c.findEntered = nil
		<-c.findRelease
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return "", fmt.Errorf("crm unreachable")
	}
	return c.byEmail[email], nil
}

func (c *stubCRM) CreateRecord(ctx context.Context, fields interfaces.CRMRecordFields) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return "", fmt.Errorf("crm unreachable")
	}
	c.created++
	id := fmt.Sprintf("rec-%d", c.created)
	c.byEmail[fields.Email] = id
	c.records[id] = fields
	return id, nil
}

func (c *stubCRM) UpdateRecord(ctx context.Context, id string, fields interfaces.CRMRecordFields) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return fmt.Errorf("crm unreachable")
	}
	c.updated++
	c.records[id] = fields
	return nil
}

func (c *stubCRM) setFailing(failing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failing = failing
}

func (c *stubCRM) recordFor(id string) (interfaces.CRMRecordFields, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fields, ok := c.records[id]
	return fields, ok
}

func newBridge(t *testing.T) (interfaces.SyncBridgeService, *repository.Repositories, *stubCRM) {
	t.Helper()
	repos, err := repository.InitRepositories(&config.StorageConfig{
		Backend:  "file",
		FileRoot: t.TempDir(),
	}, nil)
	require.NoError(t, err)

	log := logger.NewAppLogger(&logger.Config{LogLevel: "error"})
	log.InitLogger()

	crm := newStubCRM()
	return NewSyncBridgeService(repos, crm, log), repos, crm
}

func seedDraft(t *testing.T, repos *repository.Repositories, status enum.DraftStatus, lastSyncError string) *models.Draft {
	t.Helper()
	draft := &models.Draft{
		ClientEmail:   "maria@acme.io",
		ClientName:    "Maria",
		ClientService: "web design",
		ExternalID:    "msg-" + string(status) + lastSyncError,
		ThreadID:      "thread-1",
		Subject:       "Website project",
		Content:       "Hi Maria",
		Status:        status,
		LastSyncError: lastSyncError,
	}
	id, err := repos.DraftRepository.Create(context.Background(), draft)
	require.NoError(t, err)
	stored, err := repos.DraftRepository.GetByID(context.Background(), id)
	require.NoError(t, err)
	return stored
}

func TestMirrorDraft_CreatesRecord(t *testing.T) {
	ctx := context.Background()
	bridge, repos, crm := newBridge(t)
	draft := seedDraft(t, repos, enum.DraftStatusPendingReview, "")

	bridge.MirrorDraft(ctx, draft)

	require.Eventually(t, func() bool {
		stored, err := repos.DraftRepository.GetByID(ctx, draft.ID)
		return err == nil && stored.SyncedToCRM
	}, 2*time.Second, 10*time.Millisecond)

	stored, err := repos.DraftRepository.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.CRMRecordID)
	assert.Empty(t, stored.LastSyncError)

	fields, ok := crm.recordFor(stored.CRMRecordID)
	require.True(t, ok)
	assert.Equal(t, "maria@acme.io", fields.Email)
	assert.Equal(t, "Draft Review", fields.Status)
	assert.Equal(t, draft.ID, fields.DraftID)
}

func TestMirrorDraft_FailureIsRecordedNotRaised(t *testing.T) {
	ctx := context.Background()
	bridge, repos, crm := newBridge(t)
	crm.setFailing(true)
	draft := seedDraft(t, repos, enum.DraftStatusApproved, "")

	bridge.MirrorDraft(ctx, draft)

	require.Eventually(t, func() bool {
		stored, err := repos.DraftRepository.GetByID(ctx, draft.ID)
		return err == nil && stored.LastSyncError != ""
	}, 2*time.Second, 10*time.Millisecond)

	stored, err := repos.DraftRepository.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.False(t, stored.SyncedToCRM)
	assert.Contains(t, stored.LastSyncError, "crm unreachable")
}

func TestMirrorDraft_DoesNotRevertConcurrentTransition(t *testing.T) {
	ctx := context.Background()
	bridge, repos, crm := newBridge(t)
	draft := seedDraft(t, repos, enum.DraftStatusApproved, "")

	crm.findEntered = make(chan struct{})
	crm.findRelease = make(chan struct{})
	entered := crm.findEntered

	bridge.MirrorDraft(ctx, draft)
	<-entered

	// The send lands while the mirror goroutine is blocked on the CRM.
	stored, err := repos.DraftRepository.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	stored.Status = enum.DraftStatusSent
	stored.SentAt = utils.NowPtr()
	require.NoError(t, repos.DraftRepository.Update(ctx, stored))

	close(crm.findRelease)

	require.Eventually(t, func() bool {
		current, err := repos.DraftRepository.GetByID(ctx, draft.ID)
		return err == nil && current.SyncedToCRM
	}, 2*time.Second, 10*time.Millisecond)

	current, err := repos.DraftRepository.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.DraftStatusSent, current.Status)
	require.NotNil(t, current.SentAt)
	assert.NotEmpty(t, current.CRMRecordID)
}

func TestReconcile_RetriesFailedMirrors(t *testing.T) {
	ctx := context.Background()
	bridge, repos, crm := newBridge(t)
	failed := seedDraft(t, repos, enum.DraftStatusSent, "crm unreachable")

	synced, err := bridge.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	stored, err := repos.DraftRepository.GetByID(ctx, failed.ID)
	require.NoError(t, err)
	assert.True(t, stored.SyncedToCRM)
	assert.Empty(t, stored.LastSyncError)
	assert.NotEmpty(t, stored.CRMRecordID)

	fields, ok := crm.recordFor(stored.CRMRecordID)
	require.True(t, ok)
	assert.Equal(t, "Contacted", fields.Status)
}

func TestReconcile_NothingPending(t *testing.T) {
	ctx := context.Background()
	bridge, repos, _ := newBridge(t)
	seedDraft(t, repos, enum.DraftStatusPendingReview, "")

	synced, err := bridge.Reconcile(ctx)
	require.NoError(t, err)

	assert.Zero(t, synced)
}

func TestReconcile_IndividualFailuresDoNotAbort(t *testing.T) {
	ctx := context.Background()
	bridge, repos, crm := newBridge(t)
	seedDraft(t, repos, enum.DraftStatusSent, "crm unreachable")
	crm.setFailing(true)

	synced, err := bridge.Reconcile(ctx)
	require.NoError(t, err)

	assert.Zero(t, synced)
}

func TestReconcile_ReusesExistingRecordByEmail(t *testing.T) {
	ctx := context.Background()
	bridge, repos, crm := newBridge(t)
	crm.byEmail["maria@acme.io"] = "rec-existing"
	failed := seedDraft(t, repos, enum.DraftStatusApproved, "crm unreachable")

	synced, err := bridge.Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, synced)

	stored, err := repos.DraftRepository.GetByID(ctx, failed.ID)
	require.NoError(t, err)
	assert.Equal(t, "rec-existing", stored.CRMRecordID)

	fields, ok := crm.recordFor("rec-existing")
	require.True(t, ok)
	assert.Equal(t, "Ready to Send", fields.Status)
	assert.Equal(t, 0, crm.created)
}
