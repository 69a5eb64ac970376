package interfaces

import (
	"context"

	"github.com/Mdx2025/emailbot-backend/internal/enum"
	"github.com/Mdx2025/emailbot-backend/internal/models"
)

// DraftRepository is the persistence contract for drafts. Two backends
// (Postgres table, document-per-record file store) implement identical
// observable semantics; the backend is chosen once at startup.
type DraftRepository interface {
	// Create persists a new draft. For non-follow-up drafts it is idempotent
	// on (externalID, threadID): when a draft already exists for the source
	// message the existing id is returned and nothing is written.
	Create(ctx context.Context, draft *models.Draft) (string, error)

	// GetByID returns nil without error when the id is unknown.
	GetByID(ctx context.Context, id string) (*models.Draft, error)

	// GetBySource returns the non-follow-up draft for a source message, or
	// nil when none exists.
	GetBySource(ctx context.Context, externalID, threadID string) (*models.Draft, error)

	// ListByStatus returns drafts ordered newest-generated-first. An empty
	// status returns all drafts.
	ListByStatus(ctx context.Context, status enum.DraftStatus) ([]*models.Draft, error)

	// Update writes the full draft record identified by draft.ID.
	Update(ctx context.Context, draft *models.Draft) error

	// UpdateSyncState writes only the CRM sync columns for a draft, leaving
	// every other column untouched. Unknown ids are a no-op.
	UpdateSyncState(ctx context.Context, id string, syncedToCRM bool, lastSyncError, crmRecordID string) error

	// Upsert creates the draft when its id is unknown and replaces it
	// otherwise.
	Upsert(ctx context.Context, draft *models.Draft) (string, error)

	// ListPendingSync returns drafts whose last CRM mirror attempt failed,
	// for the reconciliation sweep.
	ListPendingSync(ctx context.Context) ([]*models.Draft, error)
}
