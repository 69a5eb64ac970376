package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mdx2025/emailbot-backend/interfaces"
	er "github.com/Mdx2025/emailbot-backend/internal/errors"
	"github.com/Mdx2025/emailbot-backend/internal/utils"
)

// DueFollowups reports which follow-up slots are due for a sent draft.
func DueFollowups(followup interfaces.FollowupService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		due, err := followup.DueFollowups(ctx, c.Param("id"), utils.Now())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"due": due, "count": len(due)})
	}
}

// GenerateFollowup creates the templated follow-up draft for one slot.
func GenerateFollowup(followup interfaces.FollowupService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		number, err := strconv.Atoi(c.Param("n"))
		if err != nil {
			respondError(c, er.ErrFollowupSlot)
			return
		}

		draft, err := followup.GenerateFollowup(ctx, c.Param("id"), number)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, draft)
	}
}

// MarkFollowupSent stamps a follow-up slot on the parent draft.
func MarkFollowupSent(followup interfaces.FollowupService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		number, err := strconv.Atoi(c.Param("n"))
		if err != nil {
			respondError(c, er.ErrFollowupSlot)
			return
		}

		parent, err := followup.MarkFollowupSent(ctx, c.Param("id"), number, utils.Now())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, parent)
	}
}
