package interfaces

import (
	"context"

	"github.com/Mdx2025/emailbot-backend/dto"
)

// MailboxService is the opaque mailbox provider boundary. Delivery is
// at-least-once; dedupe happens on the returned message identifier.
type MailboxService interface {
	ListMessages(ctx context.Context, query string, limit int) ([]string, error)
	GetMessage(ctx context.Context, id string) (*dto.InboundMessage, error)
	SendMessage(ctx context.Context, raw []byte) (string, error)
}
