package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Mdx2025/emailbot-backend/internal/enum"
	"github.com/Mdx2025/emailbot-backend/internal/utils"
)

// Draft is a persisted candidate reply tied to one inbound message/thread.
// Drafts are never deleted; sent and rejected drafts are retained for audit
// and metrics.
type Draft struct {
	ID string `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`

	// Denormalized lead identity captured at generation time. Not re-synced
	// from the source message after creation.
	ClientEmail   string `gorm:"column:client_email;type:varchar(255);index" json:"clientEmail"`
	ClientName    string `gorm:"column:client_name;type:varchar(255)" json:"clientName"`
	ClientCompany string `gorm:"column:client_company;type:varchar(255)" json:"clientCompany"`
	ClientService string `gorm:"column:client_service;type:varchar(255)" json:"clientService"`

	// Immutable reference to the inbound message that produced the draft.
	// ExternalID and ThreadID are the dedupe keys.
	ExternalID      string `gorm:"column:external_id;type:varchar(255);index" json:"externalId"`
	ThreadID        string `gorm:"column:thread_id;type:varchar(255);index" json:"threadId"`
	Subject         string `gorm:"column:subject;type:varchar(1000)" json:"subject"`
	OriginalMessage string `gorm:"column:original_message;type:text" json:"originalMessage"`

	// Current reply body; mutated by generation, regeneration and human edit.
	Content string `gorm:"column:content;type:text" json:"content"`

	// Analysis snapshot, derived at generation time and refreshed on
	// regeneration.
	Language          enum.Language    `gorm:"column:language;type:varchar(10)" json:"language"`
	MessageType       enum.MessageType `gorm:"column:message_type;type:varchar(50);index" json:"messageType"`
	Sentiment         enum.Sentiment   `gorm:"column:sentiment;type:varchar(20)" json:"sentiment"`
	Urgency           enum.Urgency     `gorm:"column:urgency;type:varchar(20)" json:"urgency"`
	SLABucket         enum.SLABucket   `gorm:"column:sla_bucket;type:varchar(10)" json:"slaBucket"`
	RecommendedAction string           `gorm:"column:recommended_action;type:varchar(255)" json:"recommendedAction"`
	ServiceMentions   pq.StringArray   `gorm:"column:service_mentions;type:text[]" json:"serviceMentions"`
	BudgetMention     string           `gorm:"column:budget_mention;type:varchar(255)" json:"budgetMention"`
	TimelineMention   string           `gorm:"column:timeline_mention;type:varchar(255)" json:"timelineMention"`
	QuestionCount     int              `gorm:"column:question_count;default:0" json:"questionCount"`

	Status enum.DraftStatus `gorm:"column:status;type:varchar(50);index;not null" json:"status"`

	// Approval metadata; only the approval service writes these.
	Approver        string     `gorm:"column:approver;type:varchar(255)" json:"approver,omitempty"`
	ApprovedAt      *time.Time `gorm:"column:approved_at;type:timestamp" json:"approvedAt,omitempty"`
	EditorContent   *string    `gorm:"column:editor_content;type:text" json:"editorContent,omitempty"`
	EditorNotes     string     `gorm:"column:editor_notes;type:text" json:"editorNotes,omitempty"`
	RejectionReason string     `gorm:"column:rejection_reason;type:text" json:"rejectionReason,omitempty"`

	// Follow-up bookkeeping. The parent draft is the durable anchor for
	// per-slot sent timestamps.
	FollowupSent1  *time.Time `gorm:"column:followup_sent_1;type:timestamp" json:"followupSent1,omitempty"`
	FollowupSent2  *time.Time `gorm:"column:followup_sent_2;type:timestamp" json:"followupSent2,omitempty"`
	FollowupSent3  *time.Time `gorm:"column:followup_sent_3;type:timestamp" json:"followupSent3,omitempty"`
	IsFollowup     bool       `gorm:"column:is_followup;default:false;index" json:"isFollowup"`
	ParentDraftID  string     `gorm:"column:parent_draft_id;type:varchar(50);index" json:"parentDraftId,omitempty"`
	FollowupNumber int        `gorm:"column:followup_number;default:0" json:"followupNumber,omitempty"`

	// CRM mirror state, maintained by the sync bridge and the
	// reconciliation sweep.
	SyncedToCRM   bool   `gorm:"column:synced_to_crm;default:false;index" json:"syncedToCrm"`
	CRMRecordID   string `gorm:"column:crm_record_id;type:varchar(100)" json:"crmRecordId,omitempty"`
	LastSyncError string `gorm:"column:last_sync_error;type:text" json:"lastSyncError,omitempty"`

	GeneratedAt time.Time  `gorm:"column:generated_at;type:timestamp;index" json:"generatedAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;type:timestamp" json:"updatedAt"`
	SentAt      *time.Time `gorm:"column:sent_at;type:timestamp" json:"sentAt,omitempty"`
}

func (Draft) TableName() string {
	return "drafts"
}

func (d *Draft) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = utils.GenerateNanoIDWithPrefix("draft", 16)
	}
	if d.GeneratedAt.IsZero() {
		d.GeneratedAt = utils.Now()
	}
	d.UpdatedAt = d.GeneratedAt
	return nil
}

func (d *Draft) BeforeUpdate(tx *gorm.DB) error {
	d.UpdatedAt = utils.Now()
	return nil
}

// FollowupSentAt returns the sent timestamp for slot 1..3, nil when the slot
// has not been sent or is out of range.
func (d *Draft) FollowupSentAt(number int) *time.Time {
	switch number {
	case 1:
		return d.FollowupSent1
	case 2:
		return d.FollowupSent2
	case 3:
		return d.FollowupSent3
	default:
		return nil
	}
}

func (d *Draft) SetFollowupSentAt(number int, t time.Time) {
	switch number {
	case 1:
		d.FollowupSent1 = &t
	case 2:
		d.FollowupSent2 = &t
	case 3:
		d.FollowupSent3 = &t
	}
}
