package services

import (
	"github.com/Mdx2025/emailbot-backend/config"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/logger"
	"github.com/Mdx2025/emailbot-backend/internal/repository"
	"github.com/Mdx2025/emailbot-backend/services/analyzer"
	"github.com/Mdx2025/emailbot-backend/services/approval"
	"github.com/Mdx2025/emailbot-backend/services/crm"
	"github.com/Mdx2025/emailbot-backend/services/crmsync"
	"github.com/Mdx2025/emailbot-backend/services/draft"
	"github.com/Mdx2025/emailbot-backend/services/events"
	"github.com/Mdx2025/emailbot-backend/services/followup"
	"github.com/Mdx2025/emailbot-backend/services/generation"
	"github.com/Mdx2025/emailbot-backend/services/generator"
	"github.com/Mdx2025/emailbot-backend/services/ingest"
	"github.com/Mdx2025/emailbot-backend/services/mailbox"
)

type Services struct {
	EventPublisher    interfaces.EventPublisher
	MailboxService    interfaces.MailboxService
	GenerationService interfaces.GenerationService
	CRMService        interfaces.CRMService

	AnalyzerService   interfaces.AnalyzerService
	GeneratorService  interfaces.GeneratorService
	ApprovalService   interfaces.ApprovalService
	FollowupService   interfaces.FollowupService
	SyncBridgeService interfaces.SyncBridgeService
	IngestService     interfaces.IngestService
	DraftService      interfaces.DraftService
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	publisher, err := events.NewRabbitMQPublisher(cfg.AppConfig.RabbitMQURL, log)
	if err != nil {
		return nil, err
	}

	mailboxService := mailbox.NewMailboxService(cfg.MailboxConfig)
	generationService := generation.NewGenerationService(cfg.GenerationConfig)
	crmService := crm.NewCRMService(cfg.CRMConfig)

	analyzerService := analyzer.NewAnalyzerService(repos)
	generatorService := generator.NewGeneratorService(repos, generationService)
	syncBridgeService := crmsync.NewSyncBridgeService(repos, crmService, log)
	approvalService := approval.NewApprovalService(repos, publisher, syncBridgeService)
	followupService := followup.NewFollowupService(cfg.FollowupConfig, repos)
	ingestService := ingest.NewIngestService(repos, mailboxService, analyzerService, generatorService, syncBridgeService, publisher, log)
	draftService := draft.NewDraftService(cfg.MailboxConfig, repos, mailboxService, approvalService, followupService, log)

	services := Services{
		EventPublisher:    publisher,
		MailboxService:    mailboxService,
		GenerationService: generationService,
		CRMService:        crmService,

		AnalyzerService:   analyzerService,
		GeneratorService:  generatorService,
		ApprovalService:   approvalService,
		FollowupService:   followupService,
		SyncBridgeService: syncBridgeService,
		IngestService:     ingestService,
		DraftService:      draftService,
	}

	return &services, nil
}
