package generator

import (
	"context"
	"strings"

	"github.com/opentracing/opentracing-go"

	"github.com/Mdx2025/emailbot-backend/dto"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
	er "github.com/Mdx2025/emailbot-backend/internal/errors"
	"github.com/Mdx2025/emailbot-backend/internal/models"
	"github.com/Mdx2025/emailbot-backend/internal/repository"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
	"github.com/Mdx2025/emailbot-backend/services/langdetect"
)

type generatorService struct {
	repositories      *repository.Repositories
	generationService interfaces.GenerationService
}

func NewGeneratorService(repos *repository.Repositories, generation interfaces.GenerationService) interfaces.GeneratorService {
	return &generatorService{
		repositories:      repos,
		generationService: generation,
	}
}

// Generate produces a pending_review draft for an analyzed message.
// Non-actionable messages get a static notice without a model call; any
// generation failure propagates and no draft is persisted.
func (s *generatorService) Generate(ctx context.Context, message *dto.InboundMessage, analysis dto.Analysis) (*models.Draft, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "generatorService.Generate")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("externalId", message.ExternalID)
	span.SetTag("messageType", analysis.MessageType.String())

	var content string
	if analysis.MessageType == enum.MessageNonActionable {
		span.SetTag("modelCall", false)
		content = NonActionableNotice(analysis.Language)
	} else {
		span.SetTag("modelCall", true)
		text, err := s.generationService.Generate(ctx, buildPrompt(message, analysis))
		if err != nil {
			tracing.TraceErr(span, err)
			return nil, err
		}
		content = strings.TrimSpace(text)
	}

	draft := s.draftFromMessage(message, analysis, content)

	id, err := s.repositories.DraftRepository.Create(ctx, draft)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	tracing.TagEntity(span, id)

	return s.repositories.DraftRepository.GetByID(ctx, id)
}

// Regenerate rewrites an existing draft's content from the stored original
// message. Language is re-detected so an earlier mis-detection self-heals.
// On failure the draft keeps its prior content and stays pending_review.
func (s *generatorService) Regenerate(ctx context.Context, draftID string, mode enum.InstructionMode) (*models.Draft, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "generatorService.Regenerate")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, draftID)
	span.SetTag("mode", mode.String())

	draft, err := s.repositories.DraftRepository.GetByID(ctx, draftID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if draft == nil {
		tracing.TraceErr(span, er.ErrDraftNotFound)
		return nil, er.ErrDraftNotFound
	}
	if draft.Status.IsTerminal() {
		tracing.TraceErr(span, er.ErrInvalidTransition)
		return nil, er.ErrInvalidTransition
	}

	language := langdetect.Detect(draft.OriginalMessage)

	text, err := s.generationService.Generate(ctx, buildRegeneratePrompt(draft.OriginalMessage, draft.Content, language, mode))
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	draft.Content = strings.TrimSpace(text)
	draft.Language = language
	draft.Status = enum.DraftStatusPendingReview
	draft.Approver = ""
	draft.ApprovedAt = nil
	draft.RejectionReason = ""

	if err := s.repositories.DraftRepository.Update(ctx, draft); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return draft, nil
}

func (s *generatorService) draftFromMessage(message *dto.InboundMessage, analysis dto.Analysis, content string) *models.Draft {
	service := ""
	if len(analysis.ServiceMentions) > 0 {
		service = analysis.ServiceMentions[0]
	}

	return &models.Draft{
		ClientEmail:   message.FromAddress,
		ClientName:    message.FromName,
		ClientCompany: clientCompany(message.Body),
		ClientService: service,

		ExternalID:      message.ExternalID,
		ThreadID:        message.ThreadID,
		Subject:         message.Subject,
		OriginalMessage: message.Body,

		Content: content,

		Language:          analysis.Language,
		MessageType:       analysis.MessageType,
		Sentiment:         analysis.Sentiment,
		Urgency:           analysis.Urgency,
		SLABucket:         analysis.SLABucket,
		RecommendedAction: analysis.RecommendedAction,
		ServiceMentions:   analysis.ServiceMentions,
		BudgetMention:     analysis.BudgetMention,
		TimelineMention:   analysis.TimelineMention,
		QuestionCount:     analysis.QuestionCount,

		Status: enum.DraftStatusPendingReview,
	}
}
