package interfaces

import (
	"context"
	"time"

	"github.com/Mdx2025/emailbot-backend/dto"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
	"github.com/Mdx2025/emailbot-backend/internal/models"
)

// AnalyzerService derives classification, extraction and eligibility from a
// normalized inbound message. Pure with respect to the message content;
// eligibility consults the processed-message ledger.
type AnalyzerService interface {
	Analyze(message *dto.InboundMessage) dto.Analysis
	Eligibility(ctx context.Context, message *dto.InboundMessage) ([]dto.EligibilityIssue, error)
}

// GeneratorService produces and regenerates drafts.
type GeneratorService interface {
	// Generate builds a reply draft for an analyzed message. On generation
	// failure no draft is persisted and the error is surfaced to the caller.
	Generate(ctx context.Context, message *dto.InboundMessage, analysis dto.Analysis) (*models.Draft, error)

	// Regenerate rewrites an existing draft's content following the
	// instruction mode. On failure the draft keeps its prior content and
	// stays in pending_review.
	Regenerate(ctx context.Context, draftID string, mode enum.InstructionMode) (*models.Draft, error)
}

// ApprovalService is the single authority for draft status mutation.
type ApprovalService interface {
	Approve(ctx context.Context, draftID, approver string, replacementContent *string) (*models.Draft, error)
	Reject(ctx context.Context, draftID, approver, reason string) (*models.Draft, error)
	Edit(ctx context.Context, draftID, content, notes string) (*models.Draft, error)
	MarkSent(ctx context.Context, draftID string, sentAt time.Time) (*models.Draft, error)
}

// FollowupService computes and creates follow-up nudges for sent drafts.
type FollowupService interface {
	DueFollowups(ctx context.Context, draftID string, now time.Time) ([]dto.DueFollowup, error)
	GenerateFollowup(ctx context.Context, parentDraftID string, number int) (*models.Draft, error)
	MarkFollowupSent(ctx context.Context, parentDraftID string, number int, sentAt time.Time) (*models.Draft, error)
}

// SyncBridgeService mirrors draft state to the CRM. Mirror calls never fail
// the caller.
type SyncBridgeService interface {
	MirrorDraft(ctx context.Context, draft *models.Draft)
	Reconcile(ctx context.Context) (int, error)
}

// IngestService runs the inbound pipeline end to end.
type IngestService interface {
	IngestNew(ctx context.Context, query string, limit int) (*dto.BatchResult, error)
}

// DraftService covers the outbound side: bulk send of approved drafts and
// aggregate metrics.
type DraftService interface {
	SendApproved(ctx context.Context) (*dto.BatchResult, error)
	Metrics(ctx context.Context) (*dto.DraftMetrics, error)
}
