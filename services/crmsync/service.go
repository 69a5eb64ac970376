package crmsync

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
	"github.com/Mdx2025/emailbot-backend/internal/logger"
	"github.com/Mdx2025/emailbot-backend/internal/models"
	"github.com/Mdx2025/emailbot-backend/internal/repository"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
)

// Draft statuses map onto the CRM's pipeline labels.
var crmStatusLabels = map[enum.DraftStatus]string{
	enum.DraftStatusPendingReview: "Draft Review",
	enum.DraftStatusApproved:      "Ready to Send",
	enum.DraftStatusRejected:      "Disqualified",
	enum.DraftStatusSent:          "Contacted",
}

type syncBridgeService struct {
	repositories *repository.Repositories
	crmService   interfaces.CRMService
	log          logger.Logger
}

func NewSyncBridgeService(repos *repository.Repositories, crm interfaces.CRMService, log logger.Logger) interfaces.SyncBridgeService {
	return &syncBridgeService{
		repositories: repos,
		crmService:   crm,
		log:          log,
	}
}

// MirrorDraft pushes the draft's current state to the CRM without blocking
// or failing the caller. The outcome lands on the draft's sync columns; a
// failure there is what the reconciliation sweep later retries.
func (s *syncBridgeService) MirrorDraft(ctx context.Context, draft *models.Draft) {
	span := opentracing.SpanFromContext(ctx)

	go func(parent opentracing.Span, draftID string) {
		defer tracing.RecoverAndLogToJaeger(s.log)

		var opts []opentracing.StartSpanOption
		if parent != nil {
			opts = append(opts, opentracing.FollowsFrom(parent.Context()))
		}
		mirrorSpan := opentracing.GlobalTracer().StartSpan("syncBridgeService.MirrorDraft", opts...)
		defer mirrorSpan.Finish()

		mirrorCtx, cancel := context.WithTimeout(opentracing.ContextWithSpan(context.Background(), mirrorSpan), 30*time.Second)
		defer cancel()

		if err := s.mirror(mirrorCtx, draftID); err != nil {
			tracing.TraceErr(mirrorSpan, err)
			s.log.Warnf("CRM mirror failed for draft %s: %v", draftID, err)
		}
	}(span, draft.ID)
}

// mirror re-reads the draft so concurrent status changes between the trigger
// and the push cannot write stale state to the CRM.
func (s *syncBridgeService) mirror(ctx context.Context, draftID string) error {
	draft, err := s.repositories.DraftRepository.GetByID(ctx, draftID)
	if err != nil {
		return err
	}
	if draft == nil {
		return nil
	}

	recordID, syncErr := s.push(ctx, draft)
	if recordID == "" {
		recordID = draft.CRMRecordID
	}
	lastError := ""
	if syncErr != nil {
		lastError = syncErr.Error()
	}

	// Only the sync columns are written back. A status transition landing
	// while the push was in flight stays untouched.
	if err := s.repositories.DraftRepository.UpdateSyncState(ctx, draft.ID, syncErr == nil, lastError, recordID); err != nil {
		return err
	}
	return syncErr
}

// push mirrors the draft onto its CRM record, creating one when neither the
// draft nor the CRM knows the lead yet. Returns the record id used.
func (s *syncBridgeService) push(ctx context.Context, draft *models.Draft) (string, error) {
	fields := recordFields(draft)

	recordID := draft.CRMRecordID
	if recordID == "" {
		existing, err := s.crmService.FindRecordByEmail(ctx, draft.ClientEmail)
		if err != nil {
			return "", err
		}
		recordID = existing
	}

	if recordID == "" {
		return s.crmService.CreateRecord(ctx, fields)
	}

	if err := s.crmService.UpdateRecord(ctx, recordID, fields); err != nil {
		return "", err
	}
	return recordID, nil
}

// Reconcile retries every draft whose last mirror attempt failed. Returns the
// number of drafts successfully re-synced; individual failures stay recorded
// on the draft and do not abort the sweep.
func (s *syncBridgeService) Reconcile(ctx context.Context) (int, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "syncBridgeService.Reconcile")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	pending, err := s.repositories.DraftRepository.ListPendingSync(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return 0, err
	}
	span.SetTag("pending.count", len(pending))

	synced := 0
	for _, draft := range pending {
		if err := s.mirror(ctx, draft.ID); err != nil {
			s.log.Warnf("CRM reconciliation failed for draft %s: %v", draft.ID, err)
			continue
		}
		synced++
	}

	span.SetTag("synced.count", synced)
	return synced, nil
}

func recordFields(draft *models.Draft) interfaces.CRMRecordFields {
	lastContact := ""
	if draft.SentAt != nil {
		lastContact = draft.SentAt.UTC().Format(time.RFC3339)
	}

	return interfaces.CRMRecordFields{
		Email:       draft.ClientEmail,
		Name:        draft.ClientName,
		Company:     draft.ClientCompany,
		Service:     draft.ClientService,
		Status:      crmStatusLabels[draft.Status],
		DraftID:     draft.ID,
		ThreadID:    draft.ThreadID,
		LastContact: lastContact,
	}
}
