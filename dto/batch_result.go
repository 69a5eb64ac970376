package dto

// BatchResult is the partial-success summary returned by batch operations
// (ingestion, bulk send). Item-local failures are captured per item; only
// infrastructure failures abort a batch.
type BatchResult struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Skipped   int               `json:"skipped"`
	Details   []BatchItemResult `json:"details"`
}

type BatchItemResult struct {
	ExternalID string `json:"externalId,omitempty"`
	DraftID    string `json:"draftId,omitempty"`
	Lead       string `json:"lead,omitempty"`
	Outcome    string `json:"outcome"`
	Error      string `json:"error,omitempty"`
}

func (r *BatchResult) AddSuccess(item BatchItemResult) {
	r.Succeeded++
	r.Details = append(r.Details, item)
}

func (r *BatchResult) AddFailure(item BatchItemResult, err error) {
	r.Failed++
	if err != nil {
		item.Error = err.Error()
	}
	r.Details = append(r.Details, item)
}

func (r *BatchResult) AddSkip(item BatchItemResult) {
	r.Skipped++
	r.Details = append(r.Details, item)
}
