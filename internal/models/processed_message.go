package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/Mdx2025/emailbot-backend/internal/utils"
)

// ProcessedMessage is the dedupe ledger of inbound messages that have already
// been through ingestion, keyed by the mailbox provider's message id.
type ProcessedMessage struct {
	ID         string    `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	ExternalID string    `gorm:"column:external_id;uniqueIndex;type:varchar(255);not null" json:"externalId"`
	ThreadID   string    `gorm:"column:thread_id;type:varchar(255);index" json:"threadId"`
	DraftID    string    `gorm:"column:draft_id;type:varchar(50)" json:"draftId"`
	Outcome    string    `gorm:"column:outcome;type:varchar(100)" json:"outcome"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp" json:"createdAt"`
}

func (ProcessedMessage) TableName() string {
	return "processed_messages"
}

func (m *ProcessedMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = utils.GenerateNanoIDWithPrefix("pmsg", 12)
	}
	m.CreatedAt = utils.Now()
	return nil
}
