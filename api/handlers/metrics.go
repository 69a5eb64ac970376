package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mdx2025/emailbot-backend/interfaces"
)

// Metrics returns the aggregate reporting view over all drafts.
func Metrics(draftService interfaces.DraftService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		metrics, err := draftService.Metrics(ctx)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, metrics)
	}
}
