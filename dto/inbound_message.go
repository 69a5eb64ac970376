package dto

import "time"

// InboundMessage is the normalized view of a fetched mailbox message handed
// to the analyzer and generator.
type InboundMessage struct {
	ExternalID  string            `json:"externalId"`
	ThreadID    string            `json:"threadId"`
	Subject     string            `json:"subject"`
	FromAddress string            `json:"fromAddress"`
	FromName    string            `json:"fromName"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers,omitempty"`
	ReceivedAt  *time.Time        `json:"receivedAt,omitempty"`

	// LatestInThread is false when a newer message exists on the same thread,
	// in which case only the newest one is eligible for a draft.
	LatestInThread bool `json:"latestInThread"`
}
