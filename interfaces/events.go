package interfaces

import (
	"context"

	"github.com/Mdx2025/emailbot-backend/internal/models"
)

// EventPublisher mirrors draft lifecycle events to the message bus.
// Publishing is best-effort; failures are logged, never surfaced to the
// originating operation.
type EventPublisher interface {
	PublishDraftEvent(ctx context.Context, eventType string, draft *models.Draft)
	Close() error
}
