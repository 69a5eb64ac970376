package interfaces

import (
	"context"

	"github.com/Mdx2025/emailbot-backend/internal/models"
)

// ProcessedMessageRepository tracks which inbound messages have already been
// through ingestion.
type ProcessedMessageRepository interface {
	Create(ctx context.Context, message *models.ProcessedMessage) error
	Exists(ctx context.Context, externalID string) (bool, error)
}
