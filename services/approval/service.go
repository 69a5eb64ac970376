package approval

import (
	"context"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/Mdx2025/emailbot-backend/dto"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
	er "github.com/Mdx2025/emailbot-backend/internal/errors"
	"github.com/Mdx2025/emailbot-backend/internal/models"
	"github.com/Mdx2025/emailbot-backend/internal/repository"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
	"github.com/Mdx2025/emailbot-backend/internal/utils"
)

// approvalService is the single authority for draft status mutation. Every
// legal transition lives here; handlers and other services never write the
// status column directly.
type approvalService struct {
	repositories *repository.Repositories
	events       interfaces.EventPublisher
	syncBridge   interfaces.SyncBridgeService
}

func NewApprovalService(repos *repository.Repositories, events interfaces.EventPublisher, syncBridge interfaces.SyncBridgeService) interfaces.ApprovalService {
	return &approvalService{
		repositories: repos,
		events:       events,
		syncBridge:   syncBridge,
	}
}

// Approve moves a pending_review draft to approved. A non-nil replacement
// body is applied atomically with the transition, so approve-with-edits is a
// single operation.
func (s *approvalService) Approve(ctx context.Context, draftID, approver string, replacementContent *string) (*models.Draft, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "approvalService.Approve")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, draftID)

	if strings.TrimSpace(approver) == "" {
		tracing.TraceErr(span, er.ErrApproverRequired)
		return nil, er.ErrApproverRequired
	}

	draft, err := s.loadForTransition(ctx, span, draftID, enum.DraftStatusPendingReview)
	if err != nil {
		return nil, err
	}

	if replacementContent != nil && strings.TrimSpace(*replacementContent) != "" {
		// The override becomes the live body and is also kept in
		// EditorContent as the audit record of what the reviewer supplied.
		override := strings.TrimSpace(*replacementContent)
		draft.EditorContent = utils.StringPtr(override)
		draft.Content = override
	}

	draft.Status = enum.DraftStatusApproved
	draft.Approver = approver
	draft.ApprovedAt = utils.NowPtr()

	if err := s.repositories.DraftRepository.Update(ctx, draft); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	s.events.PublishDraftEvent(ctx, dto.EventDraftApproved, draft)
	s.syncBridge.MirrorDraft(ctx, draft)

	return draft, nil
}

// Reject moves a pending_review draft to rejected. The reason is mandatory;
// a rejection without one is useless for later lexicon tuning.
func (s *approvalService) Reject(ctx context.Context, draftID, approver, reason string) (*models.Draft, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "approvalService.Reject")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, draftID)

	if strings.TrimSpace(reason) == "" {
		tracing.TraceErr(span, er.ErrRejectionReasonRequired)
		return nil, er.ErrRejectionReasonRequired
	}

	draft, err := s.loadForTransition(ctx, span, draftID, enum.DraftStatusPendingReview)
	if err != nil {
		return nil, err
	}

	draft.Status = enum.DraftStatusRejected
	draft.Approver = approver
	draft.RejectionReason = strings.TrimSpace(reason)

	if err := s.repositories.DraftRepository.Update(ctx, draft); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	s.events.PublishDraftEvent(ctx, dto.EventDraftRejected, draft)
	s.syncBridge.MirrorDraft(ctx, draft)

	return draft, nil
}

// Edit replaces the draft body and returns the draft to pending_review. Legal
// from any non-terminal status, which is how a rejected draft gets re-opened.
func (s *approvalService) Edit(ctx context.Context, draftID, content, notes string) (*models.Draft, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "approvalService.Edit")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, draftID)

	draft, err := s.load(ctx, span, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status.IsTerminal() {
		tracing.TraceErr(span, er.ErrInvalidTransition)
		return nil, er.ErrInvalidTransition
	}

	draft.EditorContent = utils.StringPtr(draft.Content)
	draft.Content = strings.TrimSpace(content)
	draft.EditorNotes = notes
	draft.Status = enum.DraftStatusPendingReview
	draft.Approver = ""
	draft.ApprovedAt = nil
	draft.RejectionReason = ""

	if err := s.repositories.DraftRepository.Update(ctx, draft); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	s.syncBridge.MirrorDraft(ctx, draft)

	return draft, nil
}

// MarkSent records a completed send. Legal only from approved; sent is
// terminal and the timestamp is never overwritten.
func (s *approvalService) MarkSent(ctx context.Context, draftID string, sentAt time.Time) (*models.Draft, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "approvalService.MarkSent")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, draftID)

	draft, err := s.loadForTransition(ctx, span, draftID, enum.DraftStatusApproved)
	if err != nil {
		return nil, err
	}

	draft.Status = enum.DraftStatusSent
	draft.SentAt = utils.TimePtr(sentAt)

	if err := s.repositories.DraftRepository.Update(ctx, draft); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	s.events.PublishDraftEvent(ctx, dto.EventDraftSent, draft)
	s.syncBridge.MirrorDraft(ctx, draft)

	return draft, nil
}

func (s *approvalService) load(ctx context.Context, span opentracing.Span, draftID string) (*models.Draft, error) {
	draft, err := s.repositories.DraftRepository.GetByID(ctx, draftID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if draft == nil {
		tracing.TraceErr(span, er.ErrDraftNotFound)
		return nil, er.ErrDraftNotFound
	}
	return draft, nil
}

func (s *approvalService) loadForTransition(ctx context.Context, span opentracing.Span, draftID string, required enum.DraftStatus) (*models.Draft, error) {
	draft, err := s.load(ctx, span, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != required {
		span.SetTag("currentStatus", draft.Status.String())
		tracing.TraceErr(span, er.ErrInvalidTransition)
		return nil, er.ErrInvalidTransition
	}
	return draft, nil
}
