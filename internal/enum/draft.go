package enum

type DraftStatus string

const (
	DraftStatusPendingReview DraftStatus = "pending_review"
	DraftStatusApproved      DraftStatus = "approved"
	DraftStatusRejected      DraftStatus = "rejected"
	DraftStatusSent          DraftStatus = "sent"
)

func (t DraftStatus) String() string {
	return string(t)
}

// IsTerminal reports whether no further approval transition is legal.
// Rejected drafts can be re-opened through an edit; sent drafts cannot.
func (t DraftStatus) IsTerminal() bool {
	return t == DraftStatusSent
}

func DecodeDraftStatus(s string) DraftStatus {
	switch s {
	case "pending_review":
		return DraftStatusPendingReview
	case "approved":
		return DraftStatusApproved
	case "rejected":
		return DraftStatusRejected
	case "sent":
		return DraftStatusSent
	default:
		return ""
	}
}

type InstructionMode string

const (
	InstructionShorten InstructionMode = "shorten"
	InstructionExpand  InstructionMode = "expand"
	InstructionRewrite InstructionMode = "rewrite"
)

func (t InstructionMode) String() string {
	return string(t)
}

func DecodeInstructionMode(s string) InstructionMode {
	switch s {
	case "shorten":
		return InstructionShorten
	case "expand":
		return InstructionExpand
	default:
		return InstructionRewrite
	}
}
