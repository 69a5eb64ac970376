package dto

import "time"

// DueFollowup reports a follow-up slot that has come due for a sent draft.
// Due items are reported, not auto-sent.
type DueFollowup struct {
	ParentDraftID string    `json:"parentDraftId"`
	Number        int       `json:"number"`
	DueSince      time.Time `json:"dueSince"`
}
