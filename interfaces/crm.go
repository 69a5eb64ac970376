package interfaces

import "context"

// CRMRecordFields is the fixed field mapping from a draft to the CRM schema.
type CRMRecordFields struct {
	Email       string
	Name        string
	Company     string
	Service     string
	Status      string
	DraftID     string
	ThreadID    string
	LastContact string
}

// CRMService is the CRM mirror boundary.
type CRMService interface {
	// FindRecordByEmail returns the CRM record id, or "" when no record
	// exists for the address.
	FindRecordByEmail(ctx context.Context, email string) (string, error)
	CreateRecord(ctx context.Context, fields CRMRecordFields) (string, error)
	UpdateRecord(ctx context.Context, id string, fields CRMRecordFields) error
}
