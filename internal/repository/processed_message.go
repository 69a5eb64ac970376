package repository

import (
	"context"
	"errors"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/models"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
	"github.com/Mdx2025/emailbot-backend/internal/utils"
)

type processedMessageRepository struct {
	db *gorm.DB
}

func NewProcessedMessageRepository(db *gorm.DB) interfaces.ProcessedMessageRepository {
	return &processedMessageRepository{
		db: db,
	}
}

func (r *processedMessageRepository) Create(ctx context.Context, message *models.ProcessedMessage) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedMessageRepository.Create")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	if message == nil {
		return nil
	}
	message.ExternalID = utils.NormalizeMessageID(message.ExternalID)

	// Already-processed is not an error; the ledger is append-once.
	existing := &models.ProcessedMessage{}
	err := r.db.WithContext(ctx).
		Where("external_id = ?", message.ExternalID).
		First(existing).Error
	if err == nil {
		span.SetTag("duplicate", true)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		tracing.TraceErr(span, err)
		return err
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}

func (r *processedMessageRepository) Exists(ctx context.Context, externalID string) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedMessageRepository.Exists")
	defer span.Finish()
	tracing.SetDefaultPostgresRepositorySpanTags(ctx, span)

	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProcessedMessage{}).
		Where("external_id = ?", utils.NormalizeMessageID(externalID)).
		Count(&count).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return false, err
	}
	return count > 0, nil
}
