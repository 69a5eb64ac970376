package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	er "github.com/Mdx2025/emailbot-backend/internal/errors"
)

// respondError maps domain errors to HTTP status codes. Unknown errors are
// reported as internal without leaking wrapped detail chains.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, er.ErrDraftNotFound), errors.Is(err, er.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, er.ErrInvalidTransition),
		errors.Is(err, er.ErrParentDraftNotSent),
		errors.Is(err, er.ErrDuplicateDraft):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, er.ErrRejectionReasonRequired),
		errors.Is(err, er.ErrApproverRequired),
		errors.Is(err, er.ErrFollowupSlot):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, er.ErrGenerationTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	case errors.Is(err, er.ErrGenerationFailed), errors.Is(err, er.ErrEmptyGeneration):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
