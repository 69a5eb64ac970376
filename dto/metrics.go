package dto

// DraftMetrics is the aggregate reporting view over all drafts.
type DraftMetrics struct {
	CountsByStatus     map[string]int `json:"countsByStatus"`
	Total              int            `json:"total"`
	ApprovalRate       float64        `json:"approvalRate"`
	AvgPendingAgeHours float64        `json:"avgPendingAgeHours"`
	SLABreaches        int            `json:"slaBreaches"`
}
