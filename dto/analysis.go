package dto

import "github.com/Mdx2025/emailbot-backend/internal/enum"

// Analysis is the derived classification of an inbound message.
type Analysis struct {
	Language          enum.Language    `json:"language"`
	MessageType       enum.MessageType `json:"messageType"`
	Sentiment         enum.Sentiment   `json:"sentiment"`
	Urgency           enum.Urgency     `json:"urgency"`
	SLABucket         enum.SLABucket   `json:"slaBucket"`
	RecommendedAction string           `json:"recommendedAction"`
	ServiceMentions   []string         `json:"serviceMentions"`
	BudgetMention     string           `json:"budgetMention"`
	TimelineMention   string           `json:"timelineMention"`
	QuestionCount     int              `json:"questionCount"`
}

// HasBudgetMention reports whether the message contained price vocabulary.
func (a Analysis) HasBudgetMention() bool {
	return a.BudgetMention != ""
}

// EligibilityIssue names a reason a message should not get a draft.
// Issues are reported, not raised; the caller decides policy.
type EligibilityIssue string

const (
	IssueAlreadyProcessed  EligibilityIssue = "already_processed"
	IssueNotLatestInThread EligibilityIssue = "not_latest_in_thread"
	IssueAutoResponse      EligibilityIssue = "auto_response"
)
