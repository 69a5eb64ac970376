package dto

// Draft lifecycle event types published to the message bus.
const (
	EventDraftCreated  = "draft.created"
	EventDraftApproved = "draft.approved"
	EventDraftRejected = "draft.rejected"
	EventDraftSent     = "draft.sent"
)

type Event struct {
	Event    EventDetails  `json:"event"`
	Metadata EventMetadata `json:"metadata"`
}

type EventDetails struct {
	Id        string      `json:"id"`
	EntityId  string      `json:"entityId"`
	EventType string      `json:"eventType"`
	Data      interface{} `json:"data"`
}

type EventMetadata struct {
	UberTraceId string `json:"uber-trace-id"`
	AppSource   string `json:"appSource"`
	UserEmail   string `json:"userEmail"`
	Timestamp   string `json:"timestamp"`
}

// DraftEventData is the payload mirrored on every lifecycle event.
type DraftEventData struct {
	DraftID     string `json:"draftId"`
	Status      string `json:"status"`
	ClientEmail string `json:"clientEmail"`
	ThreadID    string `json:"threadId"`
}
