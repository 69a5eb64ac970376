package draft

import (
	"context"

	"github.com/opentracing/opentracing-go"

	"github.com/Mdx2025/emailbot-backend/config"
	"github.com/Mdx2025/emailbot-backend/dto"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
	"github.com/Mdx2025/emailbot-backend/internal/logger"
	"github.com/Mdx2025/emailbot-backend/internal/models"
	"github.com/Mdx2025/emailbot-backend/internal/repository"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
	"github.com/Mdx2025/emailbot-backend/internal/utils"
	"github.com/Mdx2025/emailbot-backend/services/mailbox"
)

type draftService struct {
	mailboxConfig *config.MailboxConfig
	repositories  *repository.Repositories
	mailbox       interfaces.MailboxService
	approval      interfaces.ApprovalService
	followup      interfaces.FollowupService
	log           logger.Logger
}

func NewDraftService(
	mailboxConfig *config.MailboxConfig,
	repos *repository.Repositories,
	mailboxService interfaces.MailboxService,
	approval interfaces.ApprovalService,
	followup interfaces.FollowupService,
	log logger.Logger,
) interfaces.DraftService {
	return &draftService{
		mailboxConfig: mailboxConfig,
		repositories:  repos,
		mailbox:       mailboxService,
		approval:      approval,
		followup:      followup,
		log:           log,
	}
}

// SendApproved sends every approved draft as a reply on its thread. One
// draft failing to send does not stop the batch; it stays approved for the
// next run.
func (s *draftService) SendApproved(ctx context.Context) (*dto.BatchResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "draftService.SendApproved")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	drafts, err := s.repositories.DraftRepository.ListByStatus(ctx, enum.DraftStatusApproved)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	span.SetTag("approved.count", len(drafts))

	result := &dto.BatchResult{}
	for _, draft := range drafts {
		s.sendOne(ctx, draft, result)
	}

	span.SetTag("result.succeeded", result.Succeeded)
	span.SetTag("result.failed", result.Failed)
	return result, nil
}

func (s *draftService) sendOne(ctx context.Context, draft *models.Draft, result *dto.BatchResult) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "draftService.sendOne")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, draft.ID)

	item := dto.BatchItemResult{
		DraftID: draft.ID,
		Lead:    draft.ClientEmail,
	}

	raw, messageID := mailbox.BuildReply(s.mailboxConfig, draft)
	span.SetTag("messageId", messageID)

	if _, err := s.mailbox.SendMessage(ctx, raw); err != nil {
		tracing.TraceErr(span, err)
		s.log.Warnf("Failed to send draft %s: %v", draft.ID, err)
		item.Outcome = "send_failed"
		result.AddFailure(item, err)
		return
	}

	// The send went out; if recording the transition fails the draft stays
	// approved and a later run may re-send. That trade-off is preferred over
	// marking drafts sent that never left the server.
	if _, err := s.approval.MarkSent(ctx, draft.ID, utils.Now()); err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Draft %s was sent but could not be marked sent: %v", draft.ID, err)
		item.Outcome = "sent_unrecorded"
		result.AddFailure(item, err)
		return
	}

	if draft.IsFollowup && draft.ParentDraftID != "" {
		if _, err := s.followup.MarkFollowupSent(ctx, draft.ParentDraftID, draft.FollowupNumber, utils.Now()); err != nil {
			s.log.Warnf("Failed to stamp follow-up %d on parent %s: %v", draft.FollowupNumber, draft.ParentDraftID, err)
		}
	}

	item.Outcome = "sent"
	result.AddSuccess(item)
}

// Metrics aggregates the reporting view over all drafts. An SLA breach is a
// pending draft older than its bucket's response-time target.
func (s *draftService) Metrics(ctx context.Context) (*dto.DraftMetrics, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "draftService.Metrics")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	drafts, err := s.repositories.DraftRepository.ListByStatus(ctx, "")
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	metrics := &dto.DraftMetrics{
		CountsByStatus: map[string]int{
			enum.DraftStatusPendingReview.String(): 0,
			enum.DraftStatusApproved.String():      0,
			enum.DraftStatusRejected.String():      0,
			enum.DraftStatusSent.String():          0,
		},
		Total: len(drafts),
	}

	now := utils.Now()
	pendingCount := 0
	pendingAgeHours := 0.0
	decided := 0
	accepted := 0

	for _, draft := range drafts {
		metrics.CountsByStatus[draft.Status.String()]++

		switch draft.Status {
		case enum.DraftStatusPendingReview:
			pendingCount++
			age := now.Sub(draft.GeneratedAt).Hours()
			pendingAgeHours += age
			if age > float64(draft.SLABucket.Hours()) {
				metrics.SLABreaches++
			}
		case enum.DraftStatusApproved, enum.DraftStatusSent:
			decided++
			accepted++
		case enum.DraftStatusRejected:
			decided++
		}
	}

	if pendingCount > 0 {
		metrics.AvgPendingAgeHours = pendingAgeHours / float64(pendingCount)
	}
	if decided > 0 {
		metrics.ApprovalRate = float64(accepted) / float64(decided)
	}

	return metrics, nil
}
