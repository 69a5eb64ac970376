package followup

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/Mdx2025/emailbot-backend/config"
	"github.com/Mdx2025/emailbot-backend/dto"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
	er "github.com/Mdx2025/emailbot-backend/internal/errors"
	"github.com/Mdx2025/emailbot-backend/internal/models"
	"github.com/Mdx2025/emailbot-backend/internal/repository"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
	"github.com/Mdx2025/emailbot-backend/services/generator"
)

type followupService struct {
	config       *config.FollowupConfig
	repositories *repository.Repositories
}

func NewFollowupService(cfg *config.FollowupConfig, repos *repository.Repositories) interfaces.FollowupService {
	return &followupService{
		config:       cfg,
		repositories: repos,
	}
}

// DueFollowups reports which follow-up slots are due for a sent draft at the
// given instant. A slot is due when its day offset has elapsed since send and
// the parent carries no sent timestamp for it yet.
func (s *followupService) DueFollowups(ctx context.Context, draftID string, now time.Time) ([]dto.DueFollowup, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "followupService.DueFollowups")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, draftID)

	draft, err := s.loadParent(ctx, span, draftID)
	if err != nil {
		return nil, err
	}

	var due []dto.DueFollowup
	for i, offsetDays := range s.config.OffsetDays {
		number := i + 1
		if draft.FollowupSentAt(number) != nil {
			continue
		}
		dueAt := draft.SentAt.AddDate(0, 0, offsetDays)
		if !now.Before(dueAt) {
			due = append(due, dto.DueFollowup{
				ParentDraftID: draft.ID,
				Number:        number,
				DueSince:      dueAt,
			})
		}
	}

	span.SetTag("due.count", len(due))
	return due, nil
}

// GenerateFollowup creates a new draft linked to the parent, carrying the
// parent's client identity and thread. Content is templated by slot number,
// never model-generated.
func (s *followupService) GenerateFollowup(ctx context.Context, parentDraftID string, number int) (*models.Draft, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "followupService.GenerateFollowup")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, parentDraftID)
	span.SetTag("followupNumber", number)

	if number < 1 || number > len(s.config.OffsetDays) {
		tracing.TraceErr(span, er.ErrFollowupSlot)
		return nil, er.ErrFollowupSlot
	}

	parent, err := s.loadParent(ctx, span, parentDraftID)
	if err != nil {
		return nil, err
	}

	topic := parent.ClientService
	if topic == "" {
		topic = parent.Subject
	}

	draft := &models.Draft{
		ClientEmail:   parent.ClientEmail,
		ClientName:    parent.ClientName,
		ClientCompany: parent.ClientCompany,
		ClientService: parent.ClientService,

		ExternalID:      parent.ExternalID,
		ThreadID:        parent.ThreadID,
		Subject:         parent.Subject,
		OriginalMessage: parent.OriginalMessage,

		Content:  generator.FollowupBody(parent.Language, number, parent.ClientName, topic),
		Language: parent.Language,

		MessageType: parent.MessageType,
		Status:      enum.DraftStatusPendingReview,

		IsFollowup:     true,
		ParentDraftID:  parent.ID,
		FollowupNumber: number,
	}

	id, err := s.repositories.DraftRepository.Create(ctx, draft)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	tracing.TagEntity(span, id)

	return s.repositories.DraftRepository.GetByID(ctx, id)
}

// MarkFollowupSent stamps the slot on the parent draft. The parent is the
// durable anchor for follow-up state, not the follow-up draft itself.
func (s *followupService) MarkFollowupSent(ctx context.Context, parentDraftID string, number int, sentAt time.Time) (*models.Draft, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "followupService.MarkFollowupSent")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, parentDraftID)
	span.SetTag("followupNumber", number)

	if number < 1 || number > len(s.config.OffsetDays) {
		tracing.TraceErr(span, er.ErrFollowupSlot)
		return nil, er.ErrFollowupSlot
	}

	parent, err := s.loadParent(ctx, span, parentDraftID)
	if err != nil {
		return nil, err
	}

	parent.SetFollowupSentAt(number, sentAt.UTC())

	if err := s.repositories.DraftRepository.Update(ctx, parent); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return parent, nil
}

func (s *followupService) loadParent(ctx context.Context, span opentracing.Span, draftID string) (*models.Draft, error) {
	draft, err := s.repositories.DraftRepository.GetByID(ctx, draftID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if draft == nil {
		tracing.TraceErr(span, er.ErrDraftNotFound)
		return nil, er.ErrDraftNotFound
	}
	if draft.Status != enum.DraftStatusSent || draft.SentAt == nil {
		tracing.TraceErr(span, er.ErrParentDraftNotSent)
		return nil, er.ErrParentDraftNotSent
	}
	return draft, nil
}
