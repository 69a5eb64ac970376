package errors

import "github.com/pkg/errors"

var (
	// draft errors
	ErrDraftNotFound     = errors.New("draft not found")
	ErrDuplicateDraft    = errors.New("draft already exists for source message")
	ErrInvalidTransition = errors.New("illegal draft status transition")

	// approval errors
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	ErrApproverRequired        = errors.New("approver is required")

	// generation errors
	ErrGenerationFailed  = errors.New("generation service call failed")
	ErrEmptyGeneration   = errors.New("generation service returned empty content")
	ErrGenerationTimeout = errors.New("generation service call timed out")

	// ingestion errors
	ErrMissingSender   = errors.New("message has no resolvable sender address")
	ErrMessageNotFound = errors.New("message not found in mailbox")

	// follow-up errors
	ErrParentDraftNotSent = errors.New("parent draft has not been sent")
	ErrFollowupSlot       = errors.New("follow-up number must be between 1 and 3")
)
