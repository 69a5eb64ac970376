package repository

import (
	"context"
	"errors"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
	"github.com/Mdx2025/emailbot-backend/internal/models"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
	"github.com/Mdx2025/emailbot-backend/internal/utils"
)

type draftRepository struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) interfaces.DraftRepository {
	return &draftRepository{
		db: db,
	}
}

func (r *draftRepository) Create(ctx context.Context, draft *models.Draft) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "draftRepository.Create")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	if draft == nil {
		return "", nil
	}

	// Dedupe check before creation: exactly one non-follow-up draft may
	// exist per source message.
	if !draft.IsFollowup {
		existing, err := r.GetBySource(ctx, draft.ExternalID, draft.ThreadID)
		if err != nil {
			tracing.TraceErr(span, err)
			return "", err
		}
		if existing != nil {
			span.SetTag("duplicate", true)
			return existing.ID, nil
		}
	}

	result := r.db.WithContext(ctx).Create(draft)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return "", result.Error
	}

	return draft.ID, nil
}

// GetByID retrieves a draft by its ID
func (r *draftRepository) GetByID(ctx context.Context, id string) (*models.Draft, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "draftRepository.GetByID")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	var draft models.Draft
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&draft).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &draft, nil
}

// GetBySource retrieves the non-follow-up draft produced for a source message
func (r *draftRepository) GetBySource(ctx context.Context, externalID, threadID string) (*models.Draft, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "draftRepository.GetBySource")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	var draft models.Draft
	if err := r.db.WithContext(ctx).
		Where("external_id = ? AND thread_id = ? AND is_followup = ?", externalID, threadID, false).
		First(&draft).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &draft, nil
}

// ListByStatus retrieves drafts newest-generated-first, optionally filtered
// by status
func (r *draftRepository) ListByStatus(ctx context.Context, status enum.DraftStatus) ([]*models.Draft, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "draftRepository.ListByStatus")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	query := r.db.WithContext(ctx).Model(&models.Draft{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var drafts []*models.Draft
	if err := query.Order("generated_at DESC").Find(&drafts).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return drafts, nil
}

func (r *draftRepository) Update(ctx context.Context, draft *models.Draft) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "draftRepository.Update")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	draft.UpdatedAt = utils.Now()
	if err := r.db.WithContext(ctx).Save(draft).Error; err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}

// UpdateSyncState touches only the sync columns, so a mirror outcome landing
// after a concurrent status transition cannot overwrite it
func (r *draftRepository) UpdateSyncState(ctx context.Context, id string, syncedToCRM bool, lastSyncError, crmRecordID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "draftRepository.UpdateSyncState")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	err := r.db.WithContext(ctx).Model(&models.Draft{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"synced_to_crm":   syncedToCRM,
			"last_sync_error": lastSyncError,
			"crm_record_id":   crmRecordID,
			"updated_at":      utils.Now(),
		}).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}

func (r *draftRepository) Upsert(ctx context.Context, draft *models.Draft) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "draftRepository.Upsert")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	if draft.ID == "" {
		return r.Create(ctx, draft)
	}

	existing, err := r.GetByID(ctx, draft.ID)
	if err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}
	if existing == nil {
		return r.Create(ctx, draft)
	}

	if err := r.Update(ctx, draft); err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}
	return draft.ID, nil
}

// ListPendingSync retrieves drafts whose last CRM mirror attempt failed
func (r *draftRepository) ListPendingSync(ctx context.Context) ([]*models.Draft, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "draftRepository.ListPendingSync")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	var drafts []*models.Draft
	if err := r.db.WithContext(ctx).
		Where("synced_to_crm = ? AND last_sync_error <> ''", false).
		Order("generated_at DESC").
		Find(&drafts).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return drafts, nil
}
