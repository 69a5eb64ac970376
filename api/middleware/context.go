package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Mdx2025/emailbot-backend/internal/utils"
)

// CustomContextMiddleware attaches request identity to the request context.
// The request id is generated server-side unless the caller supplies one;
// the reviewer identity rides in on a header.
func CustomContextMiddleware(appSource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader("X-Request-Id")
		if requestId == "" {
			requestId = uuid.New().String()
		}
		c.Set("RequestId", requestId)
		c.Set("UserEmail", c.GetHeader("X-User-Email"))

		ctx := utils.WithCustomContextFromGinRequest(c, appSource)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
