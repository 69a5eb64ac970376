package ingest

import (
	"context"

	"github.com/customeros/mailsherpa/mailvalidate"
	"github.com/opentracing/opentracing-go"

	"github.com/Mdx2025/emailbot-backend/dto"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	er "github.com/Mdx2025/emailbot-backend/internal/errors"
	"github.com/Mdx2025/emailbot-backend/internal/logger"
	"github.com/Mdx2025/emailbot-backend/internal/models"
	"github.com/Mdx2025/emailbot-backend/internal/repository"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
)

const (
	outcomeDraftCreated = "draft_created"
	outcomeSkipped      = "skipped"
	outcomeFailed       = "failed"
)

// ingestService runs the inbound pipeline: fetch, eligibility, analysis,
// generation, ledger. Item-local failures never abort the batch.
type ingestService struct {
	repositories *repository.Repositories
	mailbox      interfaces.MailboxService
	analyzer     interfaces.AnalyzerService
	generator    interfaces.GeneratorService
	syncBridge   interfaces.SyncBridgeService
	events       interfaces.EventPublisher
	log          logger.Logger
}

func NewIngestService(
	repos *repository.Repositories,
	mailbox interfaces.MailboxService,
	analyzer interfaces.AnalyzerService,
	generator interfaces.GeneratorService,
	syncBridge interfaces.SyncBridgeService,
	events interfaces.EventPublisher,
	log logger.Logger,
) interfaces.IngestService {
	return &ingestService{
		repositories: repos,
		mailbox:      mailbox,
		analyzer:     analyzer,
		generator:    generator,
		syncBridge:   syncBridge,
		events:       events,
		log:          log,
	}
}

// IngestNew fetches matching messages and runs each through the pipeline.
// Returns a partial-success summary; only mailbox listing failures abort.
func (s *ingestService) IngestNew(ctx context.Context, query string, limit int) (*dto.BatchResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ingestService.IngestNew")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("limit", limit)

	result := &dto.BatchResult{}

	ids, err := s.mailbox.ListMessages(ctx, query, limit)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	span.SetTag("fetched.count", len(ids))

	messages := make([]*dto.InboundMessage, 0, len(ids))
	for _, id := range ids {
		message, err := s.mailbox.GetMessage(ctx, id)
		if err != nil {
			s.log.Warnf("Failed to fetch message %s: %v", id, err)
			result.AddFailure(dto.BatchItemResult{ExternalID: id, Outcome: outcomeFailed}, err)
			continue
		}
		messages = append(messages, message)
	}

	markLatestInThread(messages)

	for _, message := range messages {
		s.processMessage(ctx, message, result)
	}

	span.SetTag("result.succeeded", result.Succeeded)
	span.SetTag("result.skipped", result.Skipped)
	span.SetTag("result.failed", result.Failed)
	return result, nil
}

func (s *ingestService) processMessage(ctx context.Context, message *dto.InboundMessage, result *dto.BatchResult) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ingestService.processMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("externalId", message.ExternalID)

	item := dto.BatchItemResult{
		ExternalID: message.ExternalID,
		Lead:       message.FromAddress,
	}

	if message.FromAddress == "" {
		tracing.TraceErr(span, er.ErrMissingSender)
		item.Outcome = outcomeSkipped
		item.Error = er.ErrMissingSender.Error()
		result.AddSkip(item)
		return
	}

	// A malformed sender address is skipped, not failed: replying to it is
	// impossible and retrying will not change that.
	syntax := mailvalidate.ValidateEmailSyntax(message.FromAddress)
	if !syntax.IsValid {
		s.log.Warnf("Skipping message %s: malformed sender %s", message.ExternalID, message.FromAddress)
		item.Outcome = outcomeSkipped
		item.Error = "malformed sender address"
		result.AddSkip(item)
		s.recordOutcome(ctx, message, "", outcomeSkipped)
		return
	}

	issues, err := s.analyzer.Eligibility(ctx, message)
	if err != nil {
		tracing.TraceErr(span, err)
		item.Outcome = outcomeFailed
		result.AddFailure(item, err)
		return
	}
	if len(issues) > 0 {
		span.SetTag("eligibility.issues", len(issues))
		item.Outcome = outcomeSkipped
		item.Error = string(issues[0])
		result.AddSkip(item)
		if !hasIssue(issues, dto.IssueAlreadyProcessed) {
			s.recordOutcome(ctx, message, "", outcomeSkipped)
		}
		return
	}

	analysis := s.analyzer.Analyze(message)
	span.SetTag("messageType", analysis.MessageType.String())

	draft, err := s.generator.Generate(ctx, message, analysis)
	if err != nil {
		tracing.TraceErr(span, err)
		item.Outcome = outcomeFailed
		result.AddFailure(item, err)
		return
	}

	s.recordOutcome(ctx, message, draft.ID, outcomeDraftCreated)

	s.events.PublishDraftEvent(ctx, dto.EventDraftCreated, draft)
	s.syncBridge.MirrorDraft(ctx, draft)

	item.DraftID = draft.ID
	item.Outcome = outcomeDraftCreated
	result.AddSuccess(item)
}

// recordOutcome writes the dedupe ledger entry. A ledger failure is logged
// and swallowed: worst case the message is re-evaluated next sweep and the
// draft store's own idempotency absorbs the duplicate.
func (s *ingestService) recordOutcome(ctx context.Context, message *dto.InboundMessage, draftID, outcome string) {
	entry := &models.ProcessedMessage{
		ExternalID: message.ExternalID,
		ThreadID:   message.ThreadID,
		DraftID:    draftID,
		Outcome:    outcome,
	}
	if err := s.repositories.ProcessedMessageRepository.Create(ctx, entry); err != nil {
		s.log.Warnf("Failed to record processed message %s: %v", message.ExternalID, err)
	}
}

// markLatestInThread flags every message that has a newer sibling on the
// same thread within the fetched batch.
func markLatestInThread(messages []*dto.InboundMessage) {
	newest := make(map[string]*dto.InboundMessage)
	for _, message := range messages {
		current, ok := newest[message.ThreadID]
		if !ok || laterThan(message, current) {
			newest[message.ThreadID] = message
		}
	}
	for _, message := range messages {
		message.LatestInThread = newest[message.ThreadID] == message
	}
}

func laterThan(a, b *dto.InboundMessage) bool {
	if a.ReceivedAt == nil || b.ReceivedAt == nil {
		return false
	}
	return a.ReceivedAt.After(*b.ReceivedAt)
}

func hasIssue(issues []dto.EligibilityIssue, target dto.EligibilityIssue) bool {
	for _, issue := range issues {
		if issue == target {
			return true
		}
	}
	return false
}
