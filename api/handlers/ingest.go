package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mdx2025/emailbot-backend/interfaces"
)

type ingestRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

const defaultIngestLimit = 50

// Ingest runs the inbound pipeline over matching mailbox messages and
// returns the partial-success summary.
func Ingest(ingestService interfaces.IngestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var request ingestRequest
		if err := c.ShouldBindJSON(&request); err != nil && c.Request.ContentLength > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if request.Limit <= 0 {
			request.Limit = defaultIngestLimit
		}

		result, err := ingestService.IngestNew(ctx, request.Query, request.Limit)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
